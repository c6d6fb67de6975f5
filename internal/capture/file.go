package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"

	"github.com/spf13/afero"
)

// File is the well-known path a capture is written to between grabbing the
// screen and attaching it to a message.
type File struct {
	fs   afero.Fs
	path string
}

func NewFile(fsys afero.Fs, path string) *File {
	return &File{fs: fsys, path: path}
}

func (f *File) Path() string {
	return f.path
}

// Write encodes img as PNG at the capture path, replacing any previous file.
func (f *File) Write(img image.Image) error {
	out, err := f.fs.Create(f.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", f.path, err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Read() ([]byte, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return data, nil
}

// Exists reports whether a capture is currently on disk.
func (f *File) Exists() bool {
	ok, err := afero.Exists(f.fs, f.path)
	return err == nil && ok
}

// Remove deletes the capture. A missing file is not an error.
func (f *File) Remove() error {
	if err := f.fs.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", f.path, err)
	}
	return nil
}
