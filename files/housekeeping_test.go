package files

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListByExt(t *testing.T) {
	m := newMemManager(t, "a.csv", "b.csv", "c.txt")

	got, err := m.ListByExt(".csv")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/work/a.csv", "/work/b.csv"}, got)
}

func TestExists(t *testing.T) {
	m := newMemManager(t, "present.txt")

	assert.NoError(t, m.Exists("/work/present.txt"))

	err := m.Exists("/work/present.txt", "/work/missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/work/missing.txt not found")
}

func TestLastModified(t *testing.T) {
	m := newMemManager(t, "a.txt")
	stamp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, m.Fs.Chtimes("/work/a.txt", stamp, stamp))

	got, err := m.LastModified("/work/a.txt")
	require.NoError(t, err)
	assert.Equal(t, stamp, got["/work/a.txt"])
}

func TestLatestModified(t *testing.T) {
	m := newMemManager(t, "old.csv", "new.csv", "newest.txt")

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, m.Fs.Chtimes("/work/old.csv", base, base))
	require.NoError(t, m.Fs.Chtimes("/work/new.csv", base.Add(time.Hour), base.Add(time.Hour)))
	require.NoError(t, m.Fs.Chtimes("/work/newest.txt", base.Add(2*time.Hour), base.Add(2*time.Hour)))

	got, err := m.LatestModified(".csv")
	require.NoError(t, err)
	assert.Equal(t, "/work/new.csv", got)

	// Empty type matches everything
	got, err = m.LatestModified("")
	require.NoError(t, err)
	assert.Equal(t, "/work/newest.txt", got)

	_, err = m.LatestModified(".parquet")
	assert.Error(t, err)
}

func TestCopy(t *testing.T) {
	m := newMemManager(t, "src.txt")
	require.NoError(t, m.Fs.MkdirAll("/work/dest", 0o755))

	require.NoError(t, m.Copy("/work/src.txt", "/work/renamed.txt"))
	data, err := afero.ReadFile(m.Fs, "/work/renamed.txt")
	require.NoError(t, err)
	assert.Equal(t, "src.txt", string(data))

	// Copying into an existing directory keeps the original name
	require.NoError(t, m.Copy("/work/src.txt", "/work/dest"))
	ok, err := afero.Exists(m.Fs, "/work/dest/src.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCountLines(t *testing.T) {
	m := newMemManager(t)
	require.NoError(t, m.Fs.MkdirAll("/work/sub", 0o755))
	require.NoError(t, afero.WriteFile(m.Fs, "/work/one.go", []byte("a\nb\nc\n"), 0o644))
	require.NoError(t, afero.WriteFile(m.Fs, "/work/sub/two.go", []byte("x\ny"), 0o644))
	require.NoError(t, afero.WriteFile(m.Fs, "/work/skip.txt", []byte("1\n2\n"), 0o644))

	got, err := m.CountLines("/work", ".go")
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}
