package data

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotTracked = errors.New("manga is not tracked")

// Store persists tracked manga and the chapters read for each of them.
type Store interface {
	// Track starts tracking a manga and reports whether it was new.
	Track(id, title string) (bool, error)
	Untrack(id string) error
	// Get returns nil, nil when the manga is not tracked.
	Get(id string) (*TrackedManga, error)
	List() ([]*TrackedManga, error)
	// MarkChapterRead is idempotent and a no-op for untracked manga.
	MarkChapterRead(id, chapter string, at time.Time) error
	SetTotalChapters(id string, total int) error
	Close() error
}

const (
	StoreJSON   = "json"
	StoreDuckDB = "duckdb"
)

// OpenStore opens the backend named by kind at path.
func OpenStore(kind, path string) (Store, error) {
	switch kind {
	case "", StoreJSON:
		s, err := NewJSONStore(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case StoreDuckDB:
		r, err := NewDuckDBRepository(path)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown store %q (want %s or %s)", kind, StoreJSON, StoreDuckDB)
	}
}
