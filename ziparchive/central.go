package ziparchive

import (
	"context"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/davelopez/ro-crate-zip-explorer/source"
)

// parseCentralDirectory implements spec.md §4.2 steps 5–6: it fetches the
// central directory in one ranged read and iterates its variable-length
// records, applying ZIP64 extra-field overrides per record.
func parseCentralDirectory(ctx context.Context, src source.Source, info eocdInfo) ([]Entry, error) {
	if info.centralDirOffset+info.centralDirSize > uint64(src.Len()) {
		return nil, fmt.Errorf("%w: central directory at offset %d, size %d extends past archive length %d", ErrMalformedArchive, info.centralDirOffset, info.centralDirSize, src.Len())
	}
	buf, err := src.ReadRange(ctx, int64(info.centralDirOffset), int64(info.centralDirSize))
	if err != nil {
		return nil, fmt.Errorf("fetching central directory at offset %d, size %d: %w", info.centralDirOffset, info.centralDirSize, err)
	}

	var entries []Entry
	seen := make(map[string]struct{})
	pos := 0
	n := 0
	for pos < len(buf) {
		if pos+centralHeaderLen > len(buf) {
			return nil, fmt.Errorf("%w: truncated central directory entry %d", ErrMalformedArchive, n)
		}
		rec := buf[pos:]
		sig := binary.LittleEndian.Uint32(rec[0:4])
		if sig != sigCentralDirHeader {
			return nil, fmt.Errorf("%w: decoding entry %d: bad signature %#08x", ErrMalformedArchive, n, sig)
		}

		method := binary.LittleEndian.Uint16(rec[10:12])
		dosTime := binary.LittleEndian.Uint32(rec[12:16])
		compressedSize := uint64(binary.LittleEndian.Uint32(rec[20:24]))
		uncompressedSize := uint64(binary.LittleEndian.Uint32(rec[24:28]))
		nameLen := int(binary.LittleEndian.Uint16(rec[28:30]))
		extraLen := int(binary.LittleEndian.Uint16(rec[30:32]))
		commentLen := int(binary.LittleEndian.Uint16(rec[32:34]))
		headerOffset := uint64(binary.LittleEndian.Uint32(rec[42:46]))

		recLen := centralHeaderLen + nameLen + extraLen + commentLen
		if pos+recLen > len(buf) {
			return nil, fmt.Errorf("%w: decoding entry %d: record extends past central directory", ErrMalformedArchive, n)
		}

		nameStart := centralHeaderLen
		nameBytes := rec[nameStart : nameStart+nameLen]
		if !utf8.Valid(nameBytes) {
			return nil, fmt.Errorf("%w: decoding entry %d: invalid UTF-8 in path", ErrMalformedArchive, n)
		}
		name := string(nameBytes)
		extra := rec[nameStart+nameLen : nameStart+nameLen+extraLen]

		uncompressedSize, compressedSize, headerOffset = applyZip64Extra(extra, uncompressedSize, compressedSize, headerOffset)

		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate entry path %q", ErrMalformedArchive, name)
		}
		seen[name] = struct{}{}

		entries = append(entries, Entry{
			Path:              name,
			HeaderOffset:      headerOffset,
			CompressionMethod: method,
			CompressedSize:    compressedSize,
			UncompressedSize:  uncompressedSize,
			ModTime:           decodeDOSTime(dosTime),
			Kind:              kindForPath(name),
		})

		pos += recLen
		n++
	}

	return entries, nil
}

// applyZip64Extra scans the extra-field block for a ZIP64 extended
// information record (id 0x0001) and, for each 32-bit field in the
// central-directory record that was the sentinel 0xFFFFFFFF, substitutes
// the corresponding 64-bit value from the extra field. Per the ZIP64
// extra-field layout, present fields appear in this fixed order:
// uncompressed size, compressed size, header offset, disk start.
func applyZip64Extra(extra []byte, uncompressedSize, compressedSize, headerOffset uint64) (u, c, h uint64) {
	u, c, h = uncompressedSize, compressedSize, headerOffset

	block := findExtraField(extra, zip64ExtraFieldID)
	if block == nil {
		return
	}

	off := 0
	if uncompressedSize == sentinel32 && off+8 <= len(block) {
		u = binary.LittleEndian.Uint64(block[off : off+8])
		off += 8
	}
	if compressedSize == sentinel32 && off+8 <= len(block) {
		c = binary.LittleEndian.Uint64(block[off : off+8])
		off += 8
	}
	if headerOffset == sentinel32 && off+8 <= len(block) {
		h = binary.LittleEndian.Uint64(block[off : off+8])
		off += 8
	}
	return
}

// findExtraField scans a central-directory extra-field block for a record
// with the given 2-byte id, returning its data (excluding the id/length
// header), or nil if absent or truncated.
func findExtraField(extra []byte, id uint16) []byte {
	pos := 0
	for pos+4 <= len(extra) {
		fieldID := binary.LittleEndian.Uint16(extra[pos : pos+2])
		fieldLen := int(binary.LittleEndian.Uint16(extra[pos+2 : pos+4]))
		pos += 4
		if pos+fieldLen > len(extra) {
			return nil
		}
		if fieldID == id {
			return extra[pos : pos+fieldLen]
		}
		pos += fieldLen
	}
	return nil
}
