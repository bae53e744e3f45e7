package data

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJSONStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manga_data.json")
	s, err := NewJSONStore(path)
	require.NoError(t, err)
	return s, path
}

func TestJSONStoreMissingFile(t *testing.T) {
	s, path := newTestJSONStore(t)

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing should be written before the first change")
}

func TestJSONStoreTrack(t *testing.T) {
	s, path := newTestJSONStore(t)

	added, err := s.Track("m-1", "Test Manga")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.Track("m-1", "Test Manga")
	require.NoError(t, err)
	assert.False(t, added, "tracking twice is a no-op")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "tracked_manga")
	assert.Contains(t, doc, "last_check")
	assert.Contains(t, string(raw), "\n  \"tracked_manga\"", "document is indented by two spaces")

	var tracked map[string]map[string]any
	require.NoError(t, json.Unmarshal(doc["tracked_manga"], &tracked))
	assert.Equal(t, "Test Manga", tracked["m-1"]["title"])
	assert.Equal(t, []any{}, tracked["m-1"]["read_chapters"])
	assert.Nil(t, tracked["m-1"]["last_read"])
	assert.Equal(t, float64(0), tracked["m-1"]["total_chapters"])
}

func TestJSONStoreMarkChapterRead(t *testing.T) {
	s, path := newTestJSONStore(t)
	_, err := s.Track("m-1", "Test Manga")
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.MarkChapterRead("m-1", "1", at))
	require.NoError(t, s.MarkChapterRead("m-1", "1", at.Add(time.Hour)))
	require.NoError(t, s.MarkChapterRead("m-1", "2", at.Add(2*time.Hour)))

	m, err := s.Get("m-1")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, []string{"1", "2"}, m.ReadChapters)
	require.NotNil(t, m.LastRead)
	assert.True(t, m.LastRead.Equal(at.Add(2*time.Hour)))

	t.Run("untracked manga is ignored", func(t *testing.T) {
		require.NoError(t, s.MarkChapterRead("unknown", "1", at))
		m, err := s.Get("unknown")
		require.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("survives reload", func(t *testing.T) {
		reloaded, err := NewJSONStore(path)
		require.NoError(t, err)
		m, err := reloaded.Get("m-1")
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, "m-1", m.ID)
		assert.Equal(t, []string{"1", "2"}, m.ReadChapters)
	})
}

func TestJSONStoreGetReturnsCopy(t *testing.T) {
	s, _ := newTestJSONStore(t)
	_, err := s.Track("m-1", "Test Manga")
	require.NoError(t, err)

	m, err := s.Get("m-1")
	require.NoError(t, err)
	m.ReadChapters = append(m.ReadChapters, "99")

	again, err := s.Get("m-1")
	require.NoError(t, err)
	assert.Empty(t, again.ReadChapters)
}

func TestJSONStoreUntrackAndTotals(t *testing.T) {
	s, _ := newTestJSONStore(t)
	_, err := s.Track("b", "Berserk")
	require.NoError(t, err)
	_, err = s.Track("a", "Akira")
	require.NoError(t, err)

	require.NoError(t, s.SetTotalChapters("a", 120))
	assert.ErrorIs(t, s.SetTotalChapters("zzz", 1), ErrNotTracked)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Akira", list[0].Title)
	assert.Equal(t, 120, list[0].TotalChapters)

	require.NoError(t, s.Untrack("a"))
	assert.ErrorIs(t, s.Untrack("a"), ErrNotTracked)

	list, err = s.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manga_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0644))

	_, err := NewJSONStore(path)
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenStore(StoreJSON, filepath.Join(dir, "data.json"))
	require.NoError(t, err)
	assert.IsType(t, &JSONStore{}, s)
	require.NoError(t, s.Close())

	_, err = OpenStore("redis", filepath.Join(dir, "x"))
	assert.Error(t, err)
}

func TestJSONStoreLoadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manga_data.json")
	legacy := `{
  "tracked_manga": {
    "a1b2": {
      "title": "One Piece",
      "read_chapters": [1, "2", 10.5, 1.0],
      "last_read": "2024-05-01T10:20:30.123456",
      "total_chapters": 1100
    },
    "c3d4": {
      "title": "Berserk",
      "read_chapters": [],
      "last_read": "2024-05-02T08:00:00+00:00",
      "total_chapters": 0
    }
  },
  "last_check": null
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	s, err := NewJSONStore(path)
	require.NoError(t, err)

	m, err := s.Get("a1b2")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, []string{"1", "2", "10.5"}, m.ReadChapters)
	require.NotNil(t, m.LastRead)
	want := time.Date(2024, 5, 1, 10, 20, 30, 123456000, time.Local)
	assert.True(t, want.Equal(*m.LastRead), "got %v", m.LastRead)

	m, err = s.Get("c3d4")
	require.NoError(t, err)
	require.NotNil(t, m.LastRead)
	assert.True(t, time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC).Equal(*m.LastRead))
}

func TestJSONStoreWritesZonelessTimestamps(t *testing.T) {
	s, path := newTestJSONStore(t)
	_, err := s.Track("m-1", "Test Manga")
	require.NoError(t, err)

	at := time.Date(2024, 5, 1, 10, 20, 30, 123456000, time.Local)
	require.NoError(t, s.MarkChapterRead("m-1", "1", at))
	_, err = s.Track("m-2", "Other")
	require.NoError(t, err)
	require.NoError(t, s.MarkChapterRead("m-2", "1", time.Date(2024, 5, 1, 10, 20, 30, 0, time.Local)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"last_read": "2024-05-01T10:20:30.123456"`)
	assert.Contains(t, string(raw), `"last_read": "2024-05-01T10:20:30"`)

	reloaded, err := NewJSONStore(path)
	require.NoError(t, err)
	m, err := reloaded.Get("m-1")
	require.NoError(t, err)
	require.NotNil(t, m.LastRead)
	assert.True(t, at.Equal(*m.LastRead))
}

func TestJSONStoreRejectsBadTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manga_data.json")
	doc := `{"tracked_manga": {"x": {"title": "X", "read_chapters": [], "last_read": "yesterday", "total_chapters": 0}}, "last_check": null}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	_, err := NewJSONStore(path)
	assert.Error(t, err)
}
