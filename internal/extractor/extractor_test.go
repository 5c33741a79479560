package extractor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	pages map[string][]string
	err   error
}

func (f *fakeReader) ReadPages(path string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[path], nil
}

// touch creates an empty file so Extract sees the document as present.
func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	return path
}

func TestExtract_SplitsPagesIntoHalves(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "report.pdf")
	e := New(&fakeReader{pages: map[string][]string{path: {"AAAA"}}})

	units, err := e.Extract([]string{path})

	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "AA", units[0].Text)
	assert.Equal(t, "AA", units[1].Text)
	assert.Equal(t, "report.pdf, page 1", units[0].Source)
	assert.Equal(t, "report.pdf, page 1", units[1].Source)
}

func TestExtract_HalvesConcatenateToPage(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "report.pdf")
	pages := []string{"odd length page", "ünïcödé pagé with multibyte runes"}
	e := New(&fakeReader{pages: map[string][]string{path: pages}})

	units, err := e.Extract([]string{path})

	require.NoError(t, err)
	require.Len(t, units, 4)
	assert.Equal(t, pages[0], units[0].Text+units[1].Text)
	assert.Equal(t, pages[1], units[2].Text+units[3].Text)
}

func TestExtract_SkipsBlankPages(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "report.pdf")
	e := New(&fakeReader{pages: map[string][]string{path: {"  \n\t ", "content"}}})

	units, err := e.Extract([]string{path})

	require.NoError(t, err)
	require.Len(t, units, 2)
	// page numbering still counts the blank page
	assert.Equal(t, "report.pdf, page 2", units[0].Source)
}

func TestExtract_SkipsMissingDocuments(t *testing.T) {
	dir := t.TempDir()
	present := touch(t, dir, "present.pdf")
	missing := filepath.Join(dir, "missing.pdf")
	e := New(&fakeReader{pages: map[string][]string{present: {"text"}}})

	units, err := e.Extract([]string{missing, present})

	require.NoError(t, err)
	assert.Len(t, units, 2)
}

func TestExtract_ReadErrorFails(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "broken.pdf")
	readErr := errors.New("malformed xref table")
	e := New(&fakeReader{err: readErr})

	_, err := e.Extract([]string{path})

	require.Error(t, err)
	assert.ErrorIs(t, err, readErr)
	assert.Contains(t, err.Error(), "broken.pdf")
}

func TestExtract_PreservesDocumentAndPageOrder(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, dir, "a.pdf")
	b := touch(t, dir, "b.pdf")
	e := New(&fakeReader{pages: map[string][]string{
		a: {"a1", "a2"},
		b: {"b1"},
	}})

	units, err := e.Extract([]string{a, b})

	require.NoError(t, err)
	require.Len(t, units, 6)
	assert.Equal(t, "a.pdf, page 1", units[0].Source)
	assert.Equal(t, "a.pdf, page 2", units[2].Source)
	assert.Equal(t, "b.pdf, page 1", units[4].Source)
}

func TestSplitHalves_EmptyAndSingleRune(t *testing.T) {
	first, second := splitHalves("")
	assert.Empty(t, first)
	assert.Empty(t, second)

	first, second = splitHalves("x")
	assert.Empty(t, first)
	assert.Equal(t, "x", second)
}
