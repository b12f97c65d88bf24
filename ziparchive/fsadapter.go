package ziparchive

import (
	"context"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// Interface compliance.
var (
	_ fs.FS         = (*Archive)(nil)
	_ fs.StatFS     = (*Archive)(nil)
	_ fs.ReadFileFS = (*Archive)(nil)
	_ fs.ReadDirFS  = (*Archive)(nil)
)

// Open implements fs.FS. Directories are synthesized from file paths; the
// archive does not store them explicitly for this purpose beyond their
// own Directory-kind entries, which are not required to enumerate a
// working directory tree.
func (a *Archive) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	if e, ok := a.lookupFile(name); ok {
		data, err := a.Extract(context.Background(), e)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &openFile{info: entryFileInfo(e), data: data}, nil
	}

	if a.isDir(name) {
		return &openDir{a: a, name: name}, nil
	}

	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Stat implements fs.StatFS.
func (a *Archive) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	if e, ok := a.lookupFile(name); ok {
		return entryFileInfo(e), nil
	}
	if a.isDir(name) {
		return dirFileInfo(baseName(name)), nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// ReadFile implements fs.ReadFileFS.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	e, ok := a.lookupFile(name)
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	data, err := a.Extract(context.Background(), e)
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: err}
	}
	return data, nil
}

// ReadDir implements fs.ReadDirFS. Entries are returned sorted by name.
func (a *Archive) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}

	prefix := dirPrefix(name)
	children := make(map[string]fs.DirEntry)
	for i := range a.entries {
		e := &a.entries[i]
		p := e.Path
		if e.Kind == Directory {
			p = strings.TrimSuffix(p, "/")
		}
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := p[len(prefix):]
		if rest == "" {
			continue
		}
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			sub := rest[:idx]
			if _, exists := children[sub]; !exists {
				children[sub] = fs.FileInfoToDirEntry(dirFileInfo(sub))
			}
			continue
		}
		if e.Kind == File {
			children[rest] = fs.FileInfoToDirEntry(entryFileInfo(e))
		}
	}

	if len(children) == 0 && name != "." {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	out := make([]fs.DirEntry, 0, len(children))
	for _, d := range children {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// lookupFile returns the File-kind entry at the exact path, if any.
func (a *Archive) lookupFile(name string) (*Entry, bool) {
	e, ok := a.Lookup(name)
	if !ok || e.Kind != File {
		return nil, false
	}
	return e, true
}

// isDir reports whether any entry's path has name as a proper prefix.
func (a *Archive) isDir(name string) bool {
	if name == "." {
		return len(a.entries) > 0
	}
	prefix := name + "/"
	for i := range a.entries {
		if strings.HasPrefix(a.entries[i].Path, prefix) {
			return true
		}
	}
	return false
}

// dirPrefix returns the path prefix under which name's direct children
// live: "" for ".", or name+"/" otherwise.
func dirPrefix(name string) string {
	if name == "." {
		return ""
	}
	return name + "/"
}

func baseName(name string) string {
	if name == "." {
		return "."
	}
	return path.Base(name)
}

// entryFileInfo adapts an Entry to fs.FileInfo.
func entryFileInfo(e *Entry) fs.FileInfo {
	return fileInfo{name: baseName(e.Path), size: int64(e.UncompressedSize), modTime: e.ModTime}
}

// dirFileInfo returns a synthetic fs.FileInfo for a directory with no
// local timestamp of its own.
func dirFileInfo(name string) fs.FileInfo {
	return fileInfo{name: name, isDir: true}
}

type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
	isDir   bool
}

func (i fileInfo) Name() string       { return i.name }
func (i fileInfo) Size() int64        { return i.size }
func (i fileInfo) ModTime() time.Time { return i.modTime }
func (i fileInfo) IsDir() bool        { return i.isDir }
func (i fileInfo) Sys() any           { return nil }

func (i fileInfo) Mode() fs.FileMode {
	if i.isDir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}

// openFile implements fs.File for a fully-read archive member.
type openFile struct {
	info   fs.FileInfo
	data   []byte
	offset int
}

func (f *openFile) Stat() (fs.FileInfo, error) { return f.info, nil }

func (f *openFile) Read(p []byte) (int, error) {
	if f.offset >= len(f.data) {
		return 0, io.EOF
	}
	n := copy(p, f.data[f.offset:])
	f.offset += n
	return n, nil
}

func (f *openFile) Close() error { return nil }

// openDir implements fs.File and fs.ReadDirFile for a synthetic
// directory; archive directories are computed on demand rather than
// stored, since paths alone determine the tree.
type openDir struct {
	a       *Archive
	name    string
	entries []fs.DirEntry
	read    bool
}

func (d *openDir) Stat() (fs.FileInfo, error) {
	return dirFileInfo(baseName(d.name)), nil
}

func (d *openDir) Read(_ []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *openDir) Close() error { return nil }

func (d *openDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if !d.read {
		entries, err := d.a.ReadDir(d.name)
		if err != nil {
			return nil, err
		}
		d.entries = entries
		d.read = true
	}
	if n <= 0 {
		out := d.entries
		d.entries = nil
		return out, nil
	}
	if len(d.entries) == 0 {
		return nil, io.EOF
	}
	if n > len(d.entries) {
		n = len(d.entries)
	}
	out := d.entries[:n]
	d.entries = d.entries[n:]
	return out, nil
}
