package utils

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ReadDir lists dir like afero.ReadDir but reports symlinked entries by their
// target, so a linked file counts as a file and a linked directory as a
// directory. Dangling links keep their link info.
func ReadDir(fsys afero.Fs, dir string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	for i, entry := range entries {
		if entry.Mode()&os.ModeSymlink == 0 {
			continue
		}
		if target, err := fsys.Stat(filepath.Join(dir, entry.Name())); err == nil {
			entries[i] = namedInfo{FileInfo: target, name: entry.Name()}
		}
	}
	return entries, nil
}

// namedInfo keeps the link's own name on the target's info.
type namedInfo struct {
	os.FileInfo
	name string
}

func (n namedInfo) Name() string { return n.name }
