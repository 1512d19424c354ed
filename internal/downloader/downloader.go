// Package downloader saves the cover images of tracked manga.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/brogergvhs/mangatrack/internal/manga"
)

var ErrNoCover = errors.New("no cover image")

type Downloader struct {
	client    *http.Client
	outputDir string
}

func New(c *http.Client, outputDir string) *Downloader {
	return &Downloader{
		client:    c,
		outputDir: outputDir,
	}
}

type Saved struct {
	ID    int64
	Path  string
	Bytes int64
}

// SaveCovers downloads the cover of every record that has one. Records
// without a cover are skipped. onDone, when set, is called once per record
// with whether a file was written.
func (d *Downloader) SaveCovers(
	ctx context.Context,
	records []manga.Record,
	maxParallel int,
	onDone func(saved bool),
) ([]Saved, error) {
	if err := os.MkdirAll(d.outputDir, 0755); err != nil {
		return nil, err
	}

	maxParallel = max(1, min(maxParallel, len(records)))

	var (
		mu    sync.Mutex
		saved []Saved
		errs  []error
	)

	jobs := make(chan manga.Record)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for rec := range jobs {
			s, err := d.SaveCover(ctx, rec)

			mu.Lock()
			switch {
			case err == nil:
				saved = append(saved, s)
			case !errors.Is(err, ErrNoCover):
				errs = append(errs, fmt.Errorf("#%d %s: %w", rec.ID, rec.Title, err))
			}
			mu.Unlock()

			if onDone != nil {
				onDone(err == nil)
			}
		}
	}

	wg.Add(maxParallel)
	for w := 0; w < maxParallel; w++ {
		go worker()
	}

	for _, rec := range records {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return saved, ctx.Err()
		case jobs <- rec:
		}
	}

	close(jobs)
	wg.Wait()

	return saved, errors.Join(errs...)
}

// SaveCover writes rec's cover to "<id>-<title>.<ext>" in the output
// directory.
func (d *Downloader) SaveCover(ctx context.Context, rec manga.Record) (Saved, error) {
	if rec.ImageURL == nil || *rec.ImageURL == "" {
		return Saved{}, ErrNoCover
	}

	referer := ""
	if len(rec.SourceURLs) > 0 {
		referer = rec.SourceURLs[0]
	}

	base := fmt.Sprintf("%d-%s", rec.ID, slug(rec.Title))
	out, n, err := d.download(ctx, *rec.ImageURL, base, referer)
	if err != nil {
		return Saved{}, err
	}

	return Saved{ID: rec.ID, Path: out, Bytes: n}, nil
}

func (d *Downloader) download(ctx context.Context, u, base, referer string) (string, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", 0, err
	}

	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	ext := imageExt(u, resp.Header.Get("Content-Type"))
	if ext == "" {
		return "", 0, fmt.Errorf("unexpected MIME: %s", resp.Header.Get("Content-Type"))
	}

	final := filepath.Join(d.outputDir, base+ext)
	tmp := final + ".part"

	f, err := os.Create(tmp)
	if err != nil {
		return "", 0, err
	}

	written, err := copyLimited(f, resp.Body, maxCoverBytes)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return "", 0, err
	}

	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", 0, err
	}

	return final, written, nil
}

// imageExt picks the file extension from the URL path, falling back to the
// response content type. Non-image responses yield "".
func imageExt(rawURL, contentType string) string {
	if contentType != "" {
		mt, _, _ := mime.ParseMediaType(contentType)
		if !strings.HasPrefix(mt, "image/") {
			return ""
		}
	}

	if p, err := url.Parse(rawURL); err == nil {
		if ext := strings.ToLower(path.Ext(p.Path)); ext != "" {
			return ext
		}
	}

	if contentType == "" {
		return ".jpg"
	}

	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}

	if exts, _ := mime.ExtensionsByType(mt); len(exts) > 0 {
		return exts[0]
	}

	return ".img"
}

func slug(title string) string {
	var b strings.Builder
	dash := false

	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}

	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "manga"
	}

	return s
}
