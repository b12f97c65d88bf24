package ziparchive_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davelopez/ro-crate-zip-explorer/source"
	"github.com/davelopez/ro-crate-zip-explorer/ziparchive"
)

func TestFS_ReadFileAndReadDir(t *testing.T) {
	files := map[string]string{
		"root.txt":         "top level",
		"assets/img.png":   "binary-ish",
		"assets/sub/a.txt": "nested",
	}
	data := buildZip(t, files)
	a, err := ziparchive.Open(context.Background(), source.NewLocalBytes(data))
	require.NoError(t, err)

	content, err := a.ReadFile("assets/sub/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "nested", string(content))

	entries, err := a.ReadDir("assets")
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"img.png", "sub"}, names)

	dirEntry, err := a.Stat("assets/sub")
	require.NoError(t, err)
	assert.True(t, dirEntry.IsDir())
}

func TestFS_OpenMissingReturnsNotExist(t *testing.T) {
	data := buildZip(t, map[string]string{"a.txt": "x"})
	a, err := ziparchive.Open(context.Background(), source.NewLocalBytes(data))
	require.NoError(t, err)

	_, err = a.Open("missing.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFS_SatisfiesFSTestCorpus(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range []string{"a.txt", "dir/b.txt", "dir/c.txt"} {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	a, err := ziparchive.Open(context.Background(), source.NewLocalBytes(buf.Bytes()))
	require.NoError(t, err)

	assert.NoError(t, fstest.TestFS(a, "a.txt", "dir/b.txt", "dir/c.txt"))
}
