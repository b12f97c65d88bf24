package ziparchive

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/davelopez/ro-crate-zip-explorer/source"
)

const (
	sigEOCD             = 0x06054b50
	sigZip64Locator     = 0x07064b50
	sigCentralDirHeader = 0x02014b50
	sigLocalFileHeader  = 0x04034b50

	eocdMinLen         = 22
	zip64LocatorLen    = 20
	eocdSearchWindow   = 65536
	centralHeaderLen   = 46
	localHeaderFixLen  = 30

	zip64ExtraFieldID = 0x0001

	sentinel16 = 0xffff
	sentinel32 = 0xffffffff
)

// eocdInfo holds the fields read directly out of the classic EOCD record
// that the archive reader needs.
type eocdInfo struct {
	centralDirOffset uint64
	centralDirSize   uint64
	isZip64          bool
}

// loadEOCD implements spec.md §4.2 steps 1–4: it reads the trailing window
// of the archive, scans backward for the EOCD signature, detects the
// optional ZIP64 locator immediately preceding it, and extracts the
// classic central-directory extents.
func loadEOCD(ctx context.Context, src source.Source, searchWindow int64) (eocdInfo, error) {
	total := src.Len()
	windowStart := total - searchWindow
	if windowStart < 0 {
		windowStart = 0
	}
	window, err := src.ReadRange(ctx, windowStart, total-windowStart)
	if err != nil {
		return eocdInfo{}, fmt.Errorf("fetching EOCD window: %w", err)
	}

	idx := findEOCDSignature(window)
	if idx < 0 {
		return eocdInfo{}, fmt.Errorf("%w: end of central directory not found in trailing %d bytes", ErrMalformedArchive, len(window))
	}
	eocd := window[idx:]
	if len(eocd) < eocdMinLen {
		return eocdInfo{}, fmt.Errorf("%w: truncated end of central directory record", ErrMalformedArchive)
	}

	info := eocdInfo{
		centralDirSize:   uint64(binary.LittleEndian.Uint32(eocd[12:16])),
		centralDirOffset: uint64(binary.LittleEndian.Uint32(eocd[16:20])),
	}

	// ZIP64 locator: 20 bytes immediately preceding the EOCD signature.
	eocdAbsOffset := windowStart + int64(idx)
	locatorAbsOffset := eocdAbsOffset - zip64LocatorLen
	if locatorAbsOffset >= 0 {
		locatorStart := locatorAbsOffset - windowStart
		if locatorStart >= 0 && locatorStart+zip64LocatorLen <= int64(len(window)) {
			locator := window[locatorStart : locatorStart+zip64LocatorLen]
			if binary.LittleEndian.Uint32(locator[0:4]) == sigZip64Locator {
				info.isZip64 = true
			}
		}
	}

	return info, nil
}

// findEOCDSignature scans buf backward for the 4-byte EOCD signature,
// returning the byte index of the signature, or -1 if absent.
func findEOCDSignature(buf []byte) int {
	for i := len(buf) - 4; i >= 0; i-- {
		if binary.LittleEndian.Uint32(buf[i:i+4]) == sigEOCD {
			return i
		}
	}
	return -1
}
