// Package store persists tracked manga records.
package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/brogergvhs/mangatrack/internal/manga"
)

var (
	ErrNotFound = errors.New("manga not found")
	ErrLastURL  = errors.New("cannot remove the last source url of a manga")
)

// Store is implemented by Postgres and SQLite.
type Store interface {
	// Insert persists rec and returns its new identity. rec is not modified.
	Insert(ctx context.Context, rec manga.Record) (int64, error)
	Get(ctx context.Context, id int64) (manga.Record, error)
	List(ctx context.Context) ([]manga.Record, error)
	UpdateChapter(ctx context.Context, id int64, chapter int, chapterTitle *string) error
	AddURL(ctx context.Context, id int64, sourceURL string) error
	RemoveURL(ctx context.Context, id int64, sourceURL string) error
	Delete(ctx context.Context, id int64) error
	Close() error
}

// Open connects to the database named by dsn. postgres:// and postgresql://
// go to Postgres, sqlite:// to a SQLite file.
func Open(ctx context.Context, dsn string, poolSize int) (Store, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return OpenPostgres(ctx, dsn, poolSize)
	case "sqlite":
		return OpenSQLite(ctx, sqlitePath(u))
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

func sqlitePath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}

	return u.Host + u.Path
}

// schema shared by both backends; urls is TEXT[] on Postgres and a JSON
// array on SQLite.
const createTable = `
CREATE TABLE IF NOT EXISTS manga (
	id            %s,
	title         TEXT NOT NULL,
	image_url     TEXT,
	urls          %s NOT NULL,
	chapter       INTEGER NOT NULL,
	chapter_title TEXT
)`

func validate(rec manga.Record) error {
	if strings.TrimSpace(rec.Title) == "" {
		return errors.New("record has no title")
	}
	if len(rec.SourceURLs) == 0 {
		return errors.New("record has no source urls")
	}
	if rec.Chapter < 0 {
		return fmt.Errorf("invalid chapter %d", rec.Chapter)
	}

	return nil
}

func appendMissing(urls []string, u string) []string {
	for _, existing := range urls {
		if existing == u {
			return urls
		}
	}

	return append(urls, u)
}

func removeURL(urls []string, u string) ([]string, error) {
	out := make([]string, 0, len(urls))
	for _, existing := range urls {
		if existing != u {
			out = append(out, existing)
		}
	}

	if len(out) == len(urls) {
		return urls, nil
	}
	if len(out) == 0 {
		return nil, ErrLastURL
	}

	return out, nil
}
