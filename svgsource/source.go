// Provides the ways an SVG document is acquired before parsing:
// from a file path, from an fs.FS entry (typically an embed.FS holding
// the application resources), from memory, or on Windows from an
// RT_RCDATA resource of a loaded module.
package svgsource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

var (
	// ErrNotFound is returned when a source file does not exist.
	ErrNotFound = errors.New("svg source not found")
	// ErrUnreadable is returned when a source exists but can't be read.
	ErrUnreadable = errors.New("svg source unreadable")
	// ErrResourceNotFound is returned when an embedded resource lookup fails.
	ErrResourceNotFound = errors.New("svg resource not found")
)

// Source produces the raw bytes of an SVG document.
// The returned slice is owned by the caller and may be empty
// (but not nil) for a zero-length document.
type Source interface {
	Load() ([]byte, error)
}

// File reads the document at path.
type File string

// FS reads the named entry of an fs.FS, usually an embed.FS.
type FS struct {
	Fsys fs.FS
	Name string
}

// Bytes serves an in-memory document. Load returns a copy.
type Bytes []byte

// NewFS returns a Source reading name from fsys.
func NewFS(fsys fs.FS, name string) FS { return FS{Fsys: fsys, Name: name} }

func (f File) Load() ([]byte, error) {
	fi, err := os.Open(string(f))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, err)
	}
	defer fi.Close()
	return readAll(fi)
}

func (f FS) Load() ([]byte, error) {
	if f.Fsys == nil {
		return nil, fmt.Errorf("%w: no file system for %q", ErrResourceNotFound, f.Name)
	}
	fi, err := f.Fsys.Open(f.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, err)
	}
	defer fi.Close()
	return readAll(fi)
}

func (b Bytes) Load() ([]byte, error) {
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// readAll reads r until EOF, growing the buffer as needed.
func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Describe returns a short description of src, suitable for logs.
func Describe(src Source) string {
	switch s := src.(type) {
	case File:
		return "file:" + string(s)
	case FS:
		return "fs:" + s.Name
	case Bytes:
		return fmt.Sprintf("memory:%d bytes", len(s))
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%T", src)
	}
}
