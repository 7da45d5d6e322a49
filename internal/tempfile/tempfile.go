// Package tempfile provides a scoped temporary file: a unique path that exists
// from New until Release and is removed on Release.
package tempfile

import (
	"errors"
	"io/fs"
	"os"
	"sync"
)

// File is a temporary file owned by exactly one operation. The file is
// created empty and closed; consumers open it by path.
type File struct {
	path string
	keep bool

	once sync.Once
	err  error
}

// New creates an empty file in dir (os.TempDir() when dir is "") whose name
// starts with prefix.
func New(dir, prefix string) (*File, error) {
	fh, err := os.CreateTemp(dir, prefix+"*")
	if err != nil {
		return nil, err
	}
	path := fh.Name()
	if err := fh.Close(); err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return &File{path: path}, nil
}

func (f *File) Path() string { return f.path }

// Keep disables removal on Release. Debugging aid only.
func (f *File) Keep() { f.keep = true }

// Release removes the file. It is safe to call more than once; only the
// first call has an effect. A file already gone is not an error.
func (f *File) Release() error {
	f.once.Do(func() {
		if f.keep {
			return
		}
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.err = err
		}
	})
	return f.err
}
