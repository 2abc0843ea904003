package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("1|data\n"), 0644))
	}
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}

func TestScanDataFiles_MatchesPattern(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "part_02.tbl", "part_01.tbl", "readme.txt", "part_03.csv")

	files, err := NewScanner("*.tbl").ScanDataFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"part_01.tbl", "part_02.tbl"}, baseNames(files))
}

func TestScanDataFiles_SortedLexicographically(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "c.tbl", "a.tbl", "b.tbl")

	files, err := NewScanner("*.tbl").ScanDataFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.tbl", "b.tbl", "c.tbl"}, baseNames(files))
}

func TestScanDataFiles_AbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.tbl")

	files, err := NewScanner("*.tbl").ScanDataFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, filepath.IsAbs(files[0]))
}

func TestScanDataFiles_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.tbl")
	sub := filepath.Join(dir, "nested.tbl")
	require.NoError(t, os.Mkdir(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.tbl"), []byte("x\n"), 0644))

	files, err := NewScanner("*.tbl").ScanDataFiles(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.tbl"}, baseNames(files))
}

func TestScanDataFiles_NoMatches(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "readme.txt")

	files, err := NewScanner("*.tbl").ScanDataFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanDataFiles_MissingDirectory(t *testing.T) {
	_, err := NewScanner("*.tbl").ScanDataFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestScanDataFiles_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.tbl")

	_, err := NewScanner("*.tbl").ScanDataFiles(filepath.Join(dir, "a.tbl"))
	assert.Error(t, err)
}

func TestNewScanner_PanicsOnEmptyPattern(t *testing.T) {
	assert.Panics(t, func() { NewScanner("") })
}

func TestNewScanner_PanicsOnInvalidPattern(t *testing.T) {
	assert.Panics(t, func() { NewScanner("[") })
}
