package traitstack

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/setanarut/traitstack/utils"
	"github.com/spf13/afero"
)

// NewOutputName returns a fresh "<32 hex chars>.png" file name backed by a
// random 128-bit UUID.
func NewOutputName() string {
	id := uuid.New()
	return hex.EncodeToString(id[:]) + ".png"
}

// WriteOutput stores img as a PNG under outputRoot/packageName, creating the
// directory when needed, and returns the written path.
func WriteOutput(fsys afero.Fs, img image.Image, outputRoot, packageName string) (string, error) {
	dir := filepath.Join(outputRoot, packageName)
	// MkdirAll treats an existing directory, including one created concurrently, as success.
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrIO, dir, err)
	}
	path := filepath.Join(dir, NewOutputName())
	if err := utils.SaveImage(fsys, img, path); err != nil {
		return "", fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	return path, nil
}

// Metadata is the JSON sidecar written next to a composite.
type Metadata struct {
	Package string          `json:"package"`
	Image   string          `json:"image"`
	Traits  []TraitMetadata `json:"traits"`
	Palette []string        `json:"palette,omitempty"`
}

type TraitMetadata struct {
	Index int    `json:"index"`
	Layer string `json:"layer"`
	File  string `json:"file"`
}

// writeMetadata stores meta beside imagePath, swapping the extension for .json.
func writeMetadata(fsys afero.Fs, imagePath string, meta Metadata) (string, error) {
	path := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".json"
	err := utils.WriteFileAtomic(fsys, path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", fmt.Errorf("%w: write %s: %w", ErrIO, path, err)
	}
	return path, nil
}
