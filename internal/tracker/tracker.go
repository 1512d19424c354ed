// Package tracker connects page fetching, the site parsers and the store.
package tracker

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/brogergvhs/mangatrack/internal/manga"
	"github.com/brogergvhs/mangatrack/internal/providers"
	"github.com/brogergvhs/mangatrack/internal/store"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Tracker struct {
	fetcher Fetcher
	store   store.Store
	log     Logger
	workers int
}

func New(f Fetcher, s store.Store, log Logger, workers int) *Tracker {
	return &Tracker{
		fetcher: f,
		store:   s,
		log:     log,
		workers: max(1, workers),
	}
}

// Preview fetches and parses rawURL without persisting anything. The host is
// resolved before any request is made.
func (t *Tracker) Preview(ctx context.Context, rawURL string) (*manga.Result, error) {
	p, err := providers.Resolve(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rawURL, err)
	}

	html, err := t.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	return p.Parse(html, rawURL)
}

// Add extracts rawURL and stores the record. The returned result carries the
// assigned ID.
func (t *Tracker) Add(ctx context.Context, rawURL string) (*manga.Result, error) {
	if t.store == nil {
		return nil, fmt.Errorf("no store configured")
	}

	res, err := t.Preview(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	id, err := t.store.Insert(ctx, res.Record)
	if err != nil {
		return nil, err
	}

	stored := *res
	stored.Record.ID = id

	return &stored, nil
}

type Update struct {
	Previous  manga.Record
	Latest    manga.Record
	SourceURL string
}

type Failure struct {
	ID  int64
	URL string
	Err error
}

type Report struct {
	Checked  int
	Updates  []Update
	Failures []Failure
}

// Check makes one pass over every stored manga, fetching each source URL and
// saving chapters newer than the stored one. Per-URL failures are collected
// in the report. onDone, when set, is called once per manga.
func (t *Tracker) Check(ctx context.Context, onDone func(found bool)) (*Report, error) {
	if t.store == nil {
		return nil, fmt.Errorf("no store configured")
	}

	all, err := t.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		report = &Report{}
		wg     sync.WaitGroup
		sem    = make(chan struct{}, t.workers)
	)

	for _, m := range all {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return report, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return report, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			upd, fails := t.checkOne(ctx, m)

			mu.Lock()
			report.Checked++
			report.Failures = append(report.Failures, fails...)
			if upd != nil {
				report.Updates = append(report.Updates, *upd)
			}
			mu.Unlock()

			if onDone != nil {
				onDone(upd != nil)
			}
		}()
	}
	wg.Wait()

	sort.Slice(report.Updates, func(i, j int) bool {
		return report.Updates[i].Previous.ID < report.Updates[j].Previous.ID
	})
	sort.SliceStable(report.Failures, func(i, j int) bool {
		return report.Failures[i].ID < report.Failures[j].ID
	})

	return report, nil
}

func (t *Tracker) checkOne(ctx context.Context, m manga.Record) (*Update, []Failure) {
	var (
		best  *Update
		fails []Failure
	)

	for _, u := range m.SourceURLs {
		res, err := t.Preview(ctx, u)
		if err != nil {
			t.log.Errorf("check %d (%s): %v", m.ID, m.Title, err)
			fails = append(fails, Failure{ID: m.ID, URL: u, Err: err})
			continue
		}
		for _, n := range res.Notes {
			t.log.Debugf("check %d: %s", m.ID, n)
		}

		latest := res.Record
		if latest.Chapter <= m.Chapter {
			continue
		}
		if best == nil || latest.Chapter > best.Latest.Chapter {
			latest.ID = m.ID
			best = &Update{Previous: m, Latest: latest, SourceURL: u}
		}
	}

	if best == nil {
		return nil, fails
	}

	if err := t.store.UpdateChapter(ctx, m.ID, best.Latest.Chapter, best.Latest.ChapterTitle); err != nil {
		t.log.Errorf("save chapter for %d (%s): %v", m.ID, m.Title, err)
		return nil, append(fails, Failure{ID: m.ID, URL: best.SourceURL, Err: err})
	}

	return best, fails
}
