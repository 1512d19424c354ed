package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/brogergvhs/mangatrack/internal/manga"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects, verifies connectivity and creates the manga table
// when it is missing.
func OpenPostgres(ctx context.Context, dsn string, poolSize int) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if poolSize > 0 {
		cfg.MaxConns = int32(poolSize)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, fmt.Sprintf(createTable, "SERIAL PRIMARY KEY", "TEXT[]")); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) Insert(ctx context.Context, rec manga.Record) (int64, error) {
	if err := validate(rec); err != nil {
		return 0, err
	}

	var id int64
	err := p.pool.QueryRow(ctx, `
		INSERT INTO manga (title, image_url, urls, chapter, chapter_title)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		rec.Title, rec.ImageURL, rec.SourceURLs, rec.Chapter, rec.ChapterTitle,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert manga: %w", err)
	}

	return id, nil
}

func (p *Postgres) Get(ctx context.Context, id int64) (manga.Record, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, title, image_url, urls, chapter, chapter_title
		FROM manga WHERE id = $1`, id)

	rec, err := scanPostgres(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return manga.Record{}, ErrNotFound
	}
	if err != nil {
		return manga.Record{}, fmt.Errorf("get manga %d: %w", id, err)
	}

	return rec, nil
}

func (p *Postgres) List(ctx context.Context) ([]manga.Record, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, title, image_url, urls, chapter, chapter_title
		FROM manga ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list manga: %w", err)
	}
	defer rows.Close()

	var out []manga.Record
	for rows.Next() {
		rec, err := scanPostgres(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manga: %w", err)
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

func (p *Postgres) UpdateChapter(ctx context.Context, id int64, chapter int, chapterTitle *string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE manga SET chapter = $2, chapter_title = $3 WHERE id = $1`,
		id, chapter, chapterTitle)
	if err != nil {
		return fmt.Errorf("update manga %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *Postgres) AddURL(ctx context.Context, id int64, sourceURL string) error {
	return p.editURLs(ctx, id, func(urls []string) ([]string, error) {
		return appendMissing(urls, sourceURL), nil
	})
}

func (p *Postgres) RemoveURL(ctx context.Context, id int64, sourceURL string) error {
	return p.editURLs(ctx, id, func(urls []string) ([]string, error) {
		return removeURL(urls, sourceURL)
	})
}

func (p *Postgres) editURLs(ctx context.Context, id int64, edit func([]string) ([]string, error)) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		var urls []string
		err := tx.QueryRow(ctx, `SELECT urls FROM manga WHERE id = $1 FOR UPDATE`, id).Scan(&urls)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read urls of manga %d: %w", id, err)
		}

		urls, err = edit(urls)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE manga SET urls = $2 WHERE id = $1`, id, urls); err != nil {
			return fmt.Errorf("write urls of manga %d: %w", id, err)
		}

		return nil
	})
}

func (p *Postgres) Delete(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM manga WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete manga %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func scanPostgres(row pgx.Row) (manga.Record, error) {
	var (
		rec     manga.Record
		chapter int32
	)
	if err := row.Scan(&rec.ID, &rec.Title, &rec.ImageURL, &rec.SourceURLs, &chapter, &rec.ChapterTitle); err != nil {
		return manga.Record{}, err
	}
	rec.Chapter = int(chapter)

	return rec, nil
}
