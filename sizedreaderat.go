package rocratezip

import "io"

// SizedReaderAt pairs an io.ReaderAt with its known total length, letting
// Open accept any random-access reader (an *os.File, a memory-mapped
// region, ...) as a local source alongside plain []byte.
type SizedReaderAt struct {
	R    io.ReaderAt
	Size int64
}
