package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/brogergvhs/mangatrack/internal/providers"
	"github.com/brogergvhs/mangatrack/internal/providers/extract"
	"github.com/brogergvhs/mangatrack/internal/store"
	"github.com/brogergvhs/mangatrack/internal/ui"
)

// mockFetcher serves canned pages and counts requests.
type mockFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls int
}

func (m *mockFetcher) Fetch(ctx context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	html, ok := m.pages[url]
	if !ok {
		return "", fmt.Errorf("HTTP 404 for %s", url)
	}
	return html, nil
}

func (m *mockFetcher) set(url, html string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[url] = html
}

func page(title, heading string) string {
	return `<html><body><h1>` + title + `</h1>
		<img class="attachment- size- wp-post-image" src="https://asura.gg/covers/` + title + `.jpg">
		<div id="chapterlist"><ul><li>` + heading + `</li></ul></div></body></html>`
}

func newTracker(t *testing.T, f Fetcher) (*Tracker, store.Store) {
	t.Helper()
	s, err := store.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return New(f, s, ui.NewLoggerTo(io.Discard, true), 3), s
}

const mountHua = "https://asura.gg/manga/mount-hua/"

func TestPreview(t *testing.T) {
	f := &mockFetcher{pages: map[string]string{mountHua: page("Mount Hua", "Chapter 45.5: Into the Fire")}}
	tr, s := newTracker(t, f)

	res, err := tr.Preview(context.Background(), mountHua)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if res.Record.Headline() != "Mount Hua - Chapter 45: Into the Fire" {
		t.Fatalf("unexpected headline %q", res.Record.Headline())
	}

	list, _ := s.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("Preview must not persist, found %d records", len(list))
	}
}

func TestPreview_UnknownHostSkipsFetch(t *testing.T) {
	f := &mockFetcher{pages: map[string]string{}}
	tr, _ := newTracker(t, f)

	_, err := tr.Preview(context.Background(), "https://mangadex.org/title/x")
	if !errors.Is(err, providers.ErrHostNotFound) {
		t.Fatalf("expected ErrHostNotFound, got %v", err)
	}
	if f.calls != 0 {
		t.Fatalf("expected no fetch for an unsupported host, got %d", f.calls)
	}
}

func TestPreview_FatalParseError(t *testing.T) {
	f := &mockFetcher{pages: map[string]string{mountHua: `<html><body><h1>Mount Hua</h1></body></html>`}}
	tr, _ := newTracker(t, f)

	res, err := tr.Preview(context.Background(), mountHua)
	if res != nil {
		t.Fatalf("expected no record, got %+v", res)
	}
	if !errors.Is(err, extract.ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
}

func TestAdd(t *testing.T) {
	f := &mockFetcher{pages: map[string]string{mountHua: page("Mount Hua", "Chapter 12")}}
	tr, s := newTracker(t, f)

	res, err := tr.Add(context.Background(), mountHua)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if res.Record.ID == 0 {
		t.Fatalf("expected an assigned id")
	}

	stored, err := s.Get(context.Background(), res.Record.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Chapter != 12 || stored.Title != "Mount Hua" || len(stored.SourceURLs) != 1 {
		t.Fatalf("unexpected stored record %+v", stored)
	}
}

func TestCheck(t *testing.T) {
	const (
		solo   = "https://asura.gg/manga/solo/"
		mirror = "https://asura.gg/manga/mount-hua-mirror/"
		dead   = "https://asura.gg/manga/dead/"
	)
	f := &mockFetcher{pages: map[string]string{
		mountHua: page("Mount Hua", "Chapter 45"),
		solo:     page("Solo", "Chapter 100"),
		dead:     page("Dead", "Chapter 3"),
	}}
	tr, s := newTracker(t, f)
	ctx := context.Background()

	var ids []int64
	for _, u := range []string{mountHua, solo, dead} {
		res, err := tr.Add(ctx, u)
		if err != nil {
			t.Fatalf("Add %s: %v", u, err)
		}
		ids = append(ids, res.Record.ID)
	}
	if err := s.AddURL(ctx, ids[0], mirror); err != nil {
		t.Fatalf("AddURL: %v", err)
	}

	f.set(mountHua, page("Mount Hua", "Chapter 46: Snow"))
	f.set(mirror, page("Mount Hua", "Chapter 47: Thaw"))
	f.set(dead, `<html><body>gone</body></html>`)

	var mu sync.Mutex
	done, found := 0, 0
	report, err := tr.Check(ctx, func(ok bool) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if ok {
			found++
		}
	})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if report.Checked != 3 || done != 3 {
		t.Fatalf("expected 3 checked, got report=%d callback=%d", report.Checked, done)
	}
	if len(report.Updates) != 1 || found != 1 {
		t.Fatalf("expected one update, got %+v", report.Updates)
	}
	upd := report.Updates[0]
	if upd.Previous.Chapter != 45 || upd.Latest.Chapter != 47 || upd.SourceURL != mirror {
		t.Fatalf("expected best chapter from mirror, got %+v", upd)
	}
	if len(report.Failures) != 1 || report.Failures[0].ID != ids[2] {
		t.Fatalf("expected one failure for the broken page, got %+v", report.Failures)
	}
	if !errors.Is(report.Failures[0].Err, extract.ErrElementNotFound) {
		t.Fatalf("unexpected failure %v", report.Failures[0].Err)
	}

	stored, _ := s.Get(ctx, ids[0])
	if stored.Chapter != 47 || stored.ChapterTitle == nil || *stored.ChapterTitle != "Thaw" {
		t.Fatalf("update not persisted: %+v", stored)
	}
	unchanged, _ := s.Get(ctx, ids[1])
	if unchanged.Chapter != 100 {
		t.Fatalf("unexpected change to %+v", unchanged)
	}

	again, err := tr.Check(ctx, nil)
	if err != nil {
		t.Fatalf("second Check: %v", err)
	}
	if len(again.Updates) != 0 {
		t.Fatalf("expected no updates on second pass, got %+v", again.Updates)
	}
}

func TestCheck_Cancelled(t *testing.T) {
	f := &mockFetcher{pages: map[string]string{mountHua: page("Mount Hua", "Chapter 1")}}
	tr, _ := newTracker(t, f)

	if _, err := tr.Add(context.Background(), mountHua); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tr.Check(ctx, nil); err == nil {
		t.Fatalf("expected an error from a cancelled check")
	}
}

func TestAdd_NoStore(t *testing.T) {
	tr := New(&mockFetcher{pages: map[string]string{}}, nil, ui.NewLoggerTo(io.Discard, false), 1)
	if _, err := tr.Add(context.Background(), mountHua); err == nil {
		t.Fatalf("expected error without a store")
	}
}
