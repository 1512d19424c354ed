package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brogergvhs/mangatrack/internal/manga"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path. ":memory:"
// gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(createTable, "INTEGER PRIMARY KEY AUTOINCREMENT", "TEXT")); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Insert(ctx context.Context, rec manga.Record) (int64, error) {
	if err := validate(rec); err != nil {
		return 0, err
	}

	urlsJSON, err := json.Marshal(rec.SourceURLs)
	if err != nil {
		return 0, fmt.Errorf("marshal urls: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO manga (title, image_url, urls, chapter, chapter_title)
		VALUES (?, ?, ?, ?, ?)`,
		rec.Title, rec.ImageURL, string(urlsJSON), rec.Chapter, rec.ChapterTitle,
	)
	if err != nil {
		return 0, fmt.Errorf("insert manga: %w", err)
	}

	return res.LastInsertId()
}

func (s *SQLite) Get(ctx context.Context, id int64) (manga.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, image_url, urls, chapter, chapter_title
		FROM manga WHERE id = ?`, id)

	rec, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return manga.Record{}, ErrNotFound
	}
	if err != nil {
		return manga.Record{}, fmt.Errorf("get manga %d: %w", id, err)
	}

	return rec, nil
}

func (s *SQLite) List(ctx context.Context) ([]manga.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, image_url, urls, chapter, chapter_title
		FROM manga ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list manga: %w", err)
	}
	defer rows.Close()

	var out []manga.Record
	for rows.Next() {
		rec, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manga: %w", err)
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

func (s *SQLite) UpdateChapter(ctx context.Context, id int64, chapter int, chapterTitle *string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE manga SET chapter = ?, chapter_title = ? WHERE id = ?`,
		chapter, chapterTitle, id)
	if err != nil {
		return fmt.Errorf("update manga %d: %w", id, err)
	}

	return requireRow(res)
}

func (s *SQLite) AddURL(ctx context.Context, id int64, sourceURL string) error {
	return s.editURLs(ctx, id, func(urls []string) ([]string, error) {
		return appendMissing(urls, sourceURL), nil
	})
}

func (s *SQLite) RemoveURL(ctx context.Context, id int64, sourceURL string) error {
	return s.editURLs(ctx, id, func(urls []string) ([]string, error) {
		return removeURL(urls, sourceURL)
	})
}

func (s *SQLite) editURLs(ctx context.Context, id int64, edit func([]string) ([]string, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT urls FROM manga WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read urls of manga %d: %w", id, err)
	}

	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return fmt.Errorf("decode urls of manga %d: %w", id, err)
	}

	urls, err = edit(urls)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("marshal urls: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE manga SET urls = ? WHERE id = ?`, string(encoded), id); err != nil {
		return fmt.Errorf("write urls of manga %d: %w", id, err)
	}

	return tx.Commit()
}

func (s *SQLite) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM manga WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete manga %d: %w", id, err)
	}

	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row scanner) (manga.Record, error) {
	var (
		rec          manga.Record
		imageURL     sql.NullString
		chapterTitle sql.NullString
		urlsJSON     string
	)
	if err := row.Scan(&rec.ID, &rec.Title, &imageURL, &urlsJSON, &rec.Chapter, &chapterTitle); err != nil {
		return manga.Record{}, err
	}

	if err := json.Unmarshal([]byte(urlsJSON), &rec.SourceURLs); err != nil {
		return manga.Record{}, fmt.Errorf("decode urls: %w", err)
	}
	if imageURL.Valid {
		rec.ImageURL = &imageURL.String
	}
	if chapterTitle.Valid {
		rec.ChapterTitle = &chapterTitle.String
	}

	return rec, nil
}
