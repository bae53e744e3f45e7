package data

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS tracked_mangas (
	id             VARCHAR PRIMARY KEY,
	title          VARCHAR NOT NULL,
	last_read      TIMESTAMP,
	total_chapters INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS read_chapters (
	manga_id VARCHAR NOT NULL,
	chapter  VARCHAR NOT NULL,
	read_at  TIMESTAMP NOT NULL,
	PRIMARY KEY (manga_id, chapter)
);`

func InitDuckDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

// Repository is the DuckDB backed Store.
type Repository struct {
	db *sql.DB
}

func NewDuckDBRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Track(id, title string) (bool, error) {
	res, err := r.db.Exec(`INSERT OR IGNORE INTO tracked_mangas (id, title) VALUES (?, ?)`, id, title)
	if err != nil {
		return false, fmt.Errorf("failed to track manga: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository) Untrack(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM read_chapters WHERE manga_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM tracked_mangas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotTracked
	}
	return tx.Commit()
}

func (r *Repository) Get(id string) (*TrackedManga, error) {
	var (
		m        TrackedManga
		lastRead sql.NullTime
	)
	err := r.db.QueryRow(`SELECT id, title, last_read, total_chapters FROM tracked_mangas WHERE id = ?`, id).
		Scan(&m.ID, &m.Title, &lastRead, &m.TotalChapters)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastRead.Valid {
		t := lastRead.Time.UTC()
		m.LastRead = &t
	}
	if m.ReadChapters, err = r.readChapters(id); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) readChapters(id string) ([]string, error) {
	rows, err := r.db.Query(`SELECT chapter FROM read_chapters WHERE manga_id = ? ORDER BY read_at, chapter`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chapters := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

func (r *Repository) List() ([]*TrackedManga, error) {
	rows, err := r.db.Query(`SELECT id FROM tracked_mangas ORDER BY title`)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*TrackedManga, 0, len(ids))
	for _, id := range ids {
		m, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		if m != nil {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *Repository) MarkChapterRead(id, chapter string, at time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM tracked_mangas WHERE id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return nil
	}

	at = at.UTC()
	res, err := tx.Exec(`INSERT OR IGNORE INTO read_chapters (manga_id, chapter, read_at) VALUES (?, ?, ?)`, id, chapter, at)
	if err != nil {
		return fmt.Errorf("failed to record chapter: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	if _, err := tx.Exec(`UPDATE tracked_mangas SET last_read = ? WHERE id = ?`, at, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repository) SetTotalChapters(id string, total int) error {
	res, err := r.db.Exec(`UPDATE tracked_mangas SET total_chapters = ? WHERE id = ?`, total, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotTracked
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
