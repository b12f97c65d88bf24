package ziparchive

import (
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
)

// inflatePool reuses raw-DEFLATE decoders across extractions to avoid
// paying decoder setup costs per entry.
type inflatePool struct {
	pool sync.Pool
}

var sharedInflatePool = newInflatePool()

func newInflatePool() *inflatePool {
	p := &inflatePool{}
	p.pool.New = func() any {
		return flate.NewReader(nil)
	}
	return p
}

// get returns a flate.Resetter reading from r. The caller must call the
// returned release function exactly once when done with the reader,
// typically via defer immediately after a successful get.
func (p *inflatePool) get(r io.Reader) (io.ReadCloser, func()) {
	v := p.pool.Get()
	rc := v.(io.ReadCloser)
	resetter := rc.(flate.Resetter)
	if err := resetter.Reset(r, nil); err != nil {
		// A pooled decoder can only fail to reset if r itself errors on
		// first read, which Reset does not trigger; ignore defensively
		// and fall through to a fresh decoder.
		rc.Close()
		rc = flate.NewReader(r)
	}
	return rc, func() {
		p.pool.Put(rc)
	}
}

// inflateAll fully decompresses a raw-DEFLATE stream from r, checking the
// result against wantSize.
func inflateAll(r io.Reader, wantSize int64) ([]byte, error) {
	dec, release := sharedInflatePool.get(r)
	defer release()

	buf := make([]byte, 0, wantSize)
	out := growingWriter{buf: buf}
	n, err := io.Copy(&out, dec)
	if err != nil {
		return nil, err
	}
	if n != wantSize {
		return nil, ErrMalformedArchive
	}
	return out.buf, nil
}

// growingWriter is an io.Writer over a byte slice, used instead of
// bytes.Buffer so the destination capacity can be pre-sized exactly to the
// entry's known uncompressed size.
type growingWriter struct {
	buf []byte
}

func (w *growingWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

// inflateStream wraps a raw-DEFLATE stream for incremental reads. Closing
// the returned reader returns the underlying decoder to the shared pool.
func inflateStream(r io.Reader) io.ReadCloser {
	dec, release := sharedInflatePool.get(r)
	return &pooledInflateReader{dec: dec, release: release}
}

type pooledInflateReader struct {
	dec     io.ReadCloser
	release func()
	closed  bool
}

func (p *pooledInflateReader) Read(buf []byte) (int, error) {
	return p.dec.Read(buf)
}

func (p *pooledInflateReader) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.release()
	return nil
}
