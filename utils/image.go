package utils

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// ReadImage decodes the image stored at path. The file is closed before returning.
func ReadImage(fsys afero.Fs, path string) (image.Image, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// SaveImage writes img as PNG to filename. The data goes to a temporary file in
// the same directory first and is renamed into place, so filename either holds a
// complete image or does not exist.
func SaveImage(fsys afero.Fs, img image.Image, filename string) error {
	return WriteFileAtomic(fsys, filename, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}

// WriteFileAtomic streams write into a temp file beside filename and renames it.
func WriteFileAtomic(fsys afero.Fs, filename string, write func(io.Writer) error) error {
	dir, base := filepath.Dir(filename), filepath.Base(filename)
	tmp, err := afero.TempFile(fsys, dir, "."+base+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if err := write(tmp); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName)
		return err
	}
	// Temp files are created 0600.
	if err := fsys.Chmod(tmpName, 0o644); err != nil {
		fsys.Remove(tmpName)
		return err
	}
	if err := fsys.Rename(tmpName, filename); err != nil {
		fsys.Remove(tmpName)
		return err
	}
	return nil
}
