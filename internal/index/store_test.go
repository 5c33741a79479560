package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankdocs/internal/domain"
)

func testIndex() *domain.Index {
	return &domain.Index{
		Units: []domain.Unit{
			{Text: "first half", Source: "report.pdf, page 1", Vector: []float64{0.1, -0.2, 0.3}},
			{Text: "second half", Source: "report.pdf, page 1", Vector: []float64{0.4, 0.5, -0.6}},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index.json"))
	idx := testIndex()

	require.NoError(t, store.Save(idx))
	loaded, err := store.Load()

	require.NoError(t, err)
	require.Len(t, loaded.Units, 2)
	for i := range idx.Units {
		assert.Equal(t, idx.Units[i].Text, loaded.Units[i].Text)
		assert.Equal(t, idx.Units[i].Source, loaded.Units[i].Source)
		require.Len(t, loaded.Units[i].Vector, len(idx.Units[i].Vector))
		for j := range idx.Units[i].Vector {
			assert.InDelta(t, idx.Units[i].Vector[j], loaded.Units[i].Vector[j], 1e-6)
		}
	}
	assert.True(t, idx.CreatedAt.Equal(loaded.CreatedAt))
}

func TestStore_ExistsTracksBlob(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index.json"))
	assert.False(t, store.Exists())

	require.NoError(t, store.Save(testIndex()))
	assert.True(t, store.Exists())

	require.NoError(t, store.Clear())
	assert.False(t, store.Exists())
}

func TestStore_SaveCreatesParentDirs(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "deep", "index.json"))
	require.NoError(t, store.Save(testIndex()))
	assert.True(t, store.Exists())
}

func TestStore_SaveReplacesPreviousBlob(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, store.Save(testIndex()))

	replacement := &domain.Index{Units: []domain.Unit{
		{Text: "new", Source: "other.pdf, page 1", Vector: []float64{1}},
	}}
	require.NoError(t, store.Save(replacement))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Units, 1)
	assert.Equal(t, "new", loaded.Units[0].Text)
}

func TestStore_LoadMissingBlob(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index.json"))
	_, err := store.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestStore_LoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("{truncated"), 0o644))

	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestStore_LoadEmptyUnits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"units":[]}`), 0o644))

	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestStore_LoadMixedDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	blob := `{"units":[
		{"text":"a","source":"s","vector":[1,2,3]},
		{"text":"b","source":"s","vector":[1,2]}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(blob), 0o644))

	_, err := NewStore(path).Load()
	assert.ErrorIs(t, err, domain.ErrCorruptIndex)
}

func TestStore_ClearIdempotent(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}

func TestStore_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "index.json"))
	require.NoError(t, store.Save(testIndex()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.json", entries[0].Name())
}
