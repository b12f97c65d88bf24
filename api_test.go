package rocratezip_test

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rocratezip "github.com/davelopez/ro-crate-zip-explorer"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestOpen_BytesSource(t *testing.T) {
	data := buildZip(t, map[string]string{"a.txt": "hello"})
	exp, err := rocratezip.Open(context.Background(), data)
	require.NoError(t, err)

	_, err = exp.Open(context.Background())
	require.NoError(t, err)

	entry, err := exp.FindFileByName("a.txt")
	require.NoError(t, err)
	content, err := exp.GetFileContents(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestOpen_SizedReaderAtSource(t *testing.T) {
	data := buildZip(t, map[string]string{"a.txt": "hello"})
	exp, err := rocratezip.Open(context.Background(), rocratezip.SizedReaderAt{
		R:    bytes.NewReader(data),
		Size: int64(len(data)),
	})
	require.NoError(t, err)

	_, err = exp.Open(context.Background())
	require.NoError(t, err)
}

func TestOpen_UnsupportedSourceType(t *testing.T) {
	_, err := rocratezip.Open(context.Background(), 42)
	assert.ErrorIs(t, err, rocratezip.ErrInvalidOperation)
}

func TestOpenRoCrate_ReturnsRoCrateExplorer(t *testing.T) {
	data := buildZip(t, map[string]string{"ro-crate-metadata.json": `{"@graph":[{"@id":"ro-crate-metadata.json","@type":"CreativeWork"}]}`})
	exp, err := rocratezip.OpenRoCrate(context.Background(), data)
	require.NoError(t, err)

	_, err = exp.Open(context.Background())
	require.NoError(t, err)

	has, err := exp.HasCrate()
	require.NoError(t, err)
	assert.True(t, has)
}
