package data

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"
)

type document struct {
	TrackedManga map[string]*TrackedManga `json:"tracked_manga"`
	LastCheck    *isoTime                 `json:"last_check"`
}

// isoTime is a timestamp stored as zone-less local time, for example
// "2024-05-01T10:20:30.123456". RFC 3339 values are accepted on read.
type isoTime time.Time

const (
	isoSeconds = "2006-01-02T15:04:05"
	isoMicros  = "2006-01-02T15:04:05.000000"
)

func (t isoTime) MarshalJSON() ([]byte, error) {
	local := time.Time(t).Local()
	layout := isoSeconds
	if local.Nanosecond()/1000 != 0 {
		layout = isoMicros
	}
	return json.Marshal(local.Format(layout))
}

func (t *isoTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		// fractional seconds are accepted after the seconds field
		if parsed, err = time.ParseInLocation(isoSeconds, s, time.Local); err != nil {
			return fmt.Errorf("invalid timestamp %q", s)
		}
	}
	*t = isoTime(parsed)
	return nil
}

// chapterKey is a read chapter entry. Older files hold bare numbers.
type chapterKey string

func (c *chapterKey) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = chapterKey(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid chapter %s", b)
	}
	*c = chapterKey(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

type trackedRecord struct {
	Title         string       `json:"title"`
	ReadChapters  []chapterKey `json:"read_chapters"`
	LastRead      *isoTime     `json:"last_read"`
	TotalChapters int          `json:"total_chapters"`
}

func (t *TrackedManga) MarshalJSON() ([]byte, error) {
	rec := trackedRecord{
		Title:         t.Title,
		ReadChapters:  make([]chapterKey, 0, len(t.ReadChapters)),
		TotalChapters: t.TotalChapters,
	}
	for _, c := range t.ReadChapters {
		rec.ReadChapters = append(rec.ReadChapters, chapterKey(c))
	}
	if t.LastRead != nil {
		at := isoTime(*t.LastRead)
		rec.LastRead = &at
	}
	return json.Marshal(rec)
}

func (t *TrackedManga) UnmarshalJSON(b []byte) error {
	var rec trackedRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	t.Title = rec.Title
	t.TotalChapters = rec.TotalChapters
	t.ReadChapters = make([]string, 0, len(rec.ReadChapters))
	for _, c := range rec.ReadChapters {
		if !t.HasRead(string(c)) {
			t.ReadChapters = append(t.ReadChapters, string(c))
		}
	}
	t.LastRead = nil
	if rec.LastRead != nil {
		at := time.Time(*rec.LastRead)
		t.LastRead = &at
	}
	return nil
}

// JSONStore keeps the whole progress document in memory and rewrites the
// file after every change.
type JSONStore struct {
	mu   sync.Mutex
	path string
	doc  document
}

func NewJSONStore(path string) (*JSONStore, error) {
	s := &JSONStore{path: path, doc: document{TrackedManga: map[string]*TrackedManga{}}}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	if err := json.Unmarshal(b, &s.doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if s.doc.TrackedManga == nil {
		s.doc.TrackedManga = map[string]*TrackedManga{}
	}
	for id, m := range s.doc.TrackedManga {
		m.ID = id
		if m.ReadChapters == nil {
			m.ReadChapters = []string{}
		}
	}
	return nil
}

func (s *JSONStore) save() error {
	b, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *JSONStore) Track(id, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.doc.TrackedManga[id]; ok {
		return false, nil
	}
	s.doc.TrackedManga[id] = &TrackedManga{ID: id, Title: title, ReadChapters: []string{}}
	return true, s.save()
}

func (s *JSONStore) Untrack(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.doc.TrackedManga[id]; !ok {
		return ErrNotTracked
	}
	delete(s.doc.TrackedManga, id)
	return s.save()
}

func (s *JSONStore) Get(id string) (*TrackedManga, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.doc.TrackedManga[id]
	if !ok {
		return nil, nil
	}
	return clone(m), nil
}

func (s *JSONStore) List() ([]*TrackedManga, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*TrackedManga, 0, len(s.doc.TrackedManga))
	for _, m := range s.doc.TrackedManga {
		out = append(out, clone(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *JSONStore) MarkChapterRead(id, chapter string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.doc.TrackedManga[id]
	if !ok || !m.markRead(chapter, at) {
		return nil
	}
	return s.save()
}

func (s *JSONStore) SetTotalChapters(id string, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.doc.TrackedManga[id]
	if !ok {
		return ErrNotTracked
	}
	if m.TotalChapters == total {
		return nil
	}
	m.TotalChapters = total
	return s.save()
}

func (s *JSONStore) Close() error { return nil }

func clone(m *TrackedManga) *TrackedManga {
	c := *m
	c.ReadChapters = append([]string{}, m.ReadChapters...)
	if m.LastRead != nil {
		t := *m.LastRead
		c.LastRead = &t
	}
	return &c
}
