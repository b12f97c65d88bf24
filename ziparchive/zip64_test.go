package ziparchive_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildZip64Fixture hand-assembles a minimal archive whose central
// directory record carries 0xFFFFFFFF sentinels in place of the
// compressed size, uncompressed size, and local header offset, resolved
// through a ZIP64 extended-information extra field, with a ZIP64
// End-of-Central-Directory locator immediately preceding the classic EOCD
// record. archive/zip's writer only emits ZIP64 fields once a file
// genuinely exceeds the 32-bit limits, so it can't produce this fixture.
func buildZip64Fixture(t *testing.T) (data []byte, name string, content []byte) {
	t.Helper()
	name = "zip64.txt"
	content = []byte("hello zip64, stored without deflate")

	var buf bytes.Buffer

	localOffset := uint32(buf.Len())
	local := make([]byte, 30)
	binary.LittleEndian.PutUint32(local[0:4], 0x04034b50)
	binary.LittleEndian.PutUint16(local[10:12], 0) // method: stored
	binary.LittleEndian.PutUint32(local[18:22], uint32(len(content)))
	binary.LittleEndian.PutUint32(local[22:26], uint32(len(content)))
	binary.LittleEndian.PutUint16(local[26:28], uint16(len(name)))
	buf.Write(local)
	buf.WriteString(name)
	buf.Write(content)

	zip64Extra := make([]byte, 4+24)
	binary.LittleEndian.PutUint16(zip64Extra[0:2], 0x0001)
	binary.LittleEndian.PutUint16(zip64Extra[2:4], 24)
	binary.LittleEndian.PutUint64(zip64Extra[4:12], uint64(len(content)))
	binary.LittleEndian.PutUint64(zip64Extra[12:20], uint64(len(content)))
	binary.LittleEndian.PutUint64(zip64Extra[20:28], uint64(localOffset))

	centralOffset := buf.Len()
	central := make([]byte, 46)
	binary.LittleEndian.PutUint32(central[0:4], 0x02014b50)
	binary.LittleEndian.PutUint16(central[10:12], 0)          // method: stored
	binary.LittleEndian.PutUint32(central[20:24], 0xffffffff) // compressed size sentinel
	binary.LittleEndian.PutUint32(central[24:28], 0xffffffff) // uncompressed size sentinel
	binary.LittleEndian.PutUint16(central[28:30], uint16(len(name)))
	binary.LittleEndian.PutUint16(central[30:32], uint16(len(zip64Extra)))
	binary.LittleEndian.PutUint32(central[42:46], 0xffffffff) // header offset sentinel
	buf.Write(central)
	buf.WriteString(name)
	buf.Write(zip64Extra)
	centralSize := buf.Len() - centralOffset

	locator := make([]byte, 20)
	binary.LittleEndian.PutUint32(locator[0:4], 0x07064b50)
	buf.Write(locator)

	eocd := make([]byte, 22)
	binary.LittleEndian.PutUint32(eocd[0:4], 0x06054b50)
	binary.LittleEndian.PutUint16(eocd[8:10], 1)
	binary.LittleEndian.PutUint16(eocd[10:12], 1)
	binary.LittleEndian.PutUint32(eocd[12:16], uint32(centralSize))
	binary.LittleEndian.PutUint32(eocd[16:20], uint32(centralOffset))
	buf.Write(eocd)

	return buf.Bytes(), name, content
}

func TestOpen_Zip64LocatorSetsIsZip64(t *testing.T) {
	data, _, _ := buildZip64Fixture(t)
	a := openArchive(t, data)
	assert.True(t, a.IsZip64())
}

func TestOpen_Zip64ExtraFieldResolvesSentinelFields(t *testing.T) {
	data, name, content := buildZip64Fixture(t)
	a := openArchive(t, data)

	e, ok := a.Lookup(name)
	require.True(t, ok)
	assert.EqualValues(t, len(content), e.UncompressedSize)
	assert.EqualValues(t, len(content), e.CompressedSize)
	assert.EqualValues(t, 0, e.HeaderOffset)

	got, err := a.Extract(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}
