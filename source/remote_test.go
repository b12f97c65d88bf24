package source_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davelopez/ro-crate-zip-explorer/source"
)

func rangeServer(t *testing.T, data []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "data", time.Time{}, bytes.NewReader(data))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRemote_OpenAndReadRange(t *testing.T) {
	t.Parallel()

	data := []byte("hello remote world")
	server := rangeServer(t, data)

	src, err := source.NewRemote(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), src.Len())

	got, err := src.ReadRange(context.Background(), 6, 6)
	require.NoError(t, err)
	assert.Equal(t, "remote", string(got))
}

func TestRemote_FollowsRedirects(t *testing.T) {
	t.Parallel()

	data := []byte("redirected payload")
	target := rangeServer(t, data)

	front := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	t.Cleanup(front.Close)

	src, err := source.NewRemote(context.Background(), front.URL)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), src.Len())
}

func TestRemote_RedirectWithoutLocation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))
	t.Cleanup(server.Close)

	_, err := source.NewRemote(context.Background(), server.URL)
	assert.ErrorIs(t, err, source.ErrUnavailable)
}

func TestRemote_NoRangeSupport(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", "5")
			return
		}
		http.Error(w, "range requests not supported", http.StatusNotImplemented)
	}))
	t.Cleanup(server.Close)

	_, err := source.NewRemote(context.Background(), server.URL)
	assert.ErrorIs(t, err, source.ErrUnavailable)
}

func TestRemote_ReadRange_NonOKStatus(t *testing.T) {
	t.Parallel()

	data := []byte("0123456789")
	server := rangeServer(t, data)

	src, err := source.NewRemote(context.Background(), server.URL)
	require.NoError(t, err)

	_, err = src.ReadRange(context.Background(), 1000, 1)
	require.Error(t, err)
}

func TestRemote_ReadRangeStream(t *testing.T) {
	t.Parallel()

	data := []byte("streamed content")
	server := rangeServer(t, data)

	src, err := source.NewRemote(context.Background(), server.URL)
	require.NoError(t, err)

	stream, err := src.ReadRangeStream(context.Background(), 0, 9)
	require.NoError(t, err)
	defer stream.Close()

	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "streamed ", string(got))
}

func TestRemote_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := source.NewRemote(context.Background(), "://bad-url")
	assert.ErrorIs(t, err, source.ErrUnavailable)
}
