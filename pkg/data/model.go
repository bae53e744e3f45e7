package data

import "time"

type Manga struct {
	ID          string
	Name        string
	Description string
	Source      string
	Status      string // "ongoing", "completed", "hiatus", "cancelled"
	Tags        []string
}

type Chapter struct {
	ID       string
	MangaID  string
	Title    string
	Language string
	Volume   string
	Number   string // empty for oneshots
	Pages    int
}

// TrackedManga is the progress record kept for every manga the user follows.
// ReadChapters behaves as a set; order carries no meaning.
type TrackedManga struct {
	ID            string     `json:"-"`
	Title         string     `json:"title"`
	ReadChapters  []string   `json:"read_chapters"`
	LastRead      *time.Time `json:"last_read"`
	TotalChapters int        `json:"total_chapters"`
}

func (t *TrackedManga) HasRead(chapter string) bool {
	for _, c := range t.ReadChapters {
		if c == chapter {
			return true
		}
	}
	return false
}

// markRead records chapter once and stamps LastRead. It reports whether the
// record changed.
func (t *TrackedManga) markRead(chapter string, at time.Time) bool {
	if t.HasRead(chapter) {
		return false
	}
	t.ReadChapters = append(t.ReadChapters, chapter)
	at = at.UTC()
	t.LastRead = &at
	return true
}
