package traitstack

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/setanarut/traitstack/utils"
	"github.com/spf13/afero"
)

// Package describes the layer structure of one input directory. It is built by
// BuildPackage and never modified afterwards.
type Package struct {
	Name      string
	SourceDir string
	layers    []LayerKey
	variants  map[LayerKey][]VariantFile
}

// Layers returns the layer groups in compositing order.
func (p *Package) Layers() []LayerKey {
	return slices.Clone(p.layers)
}

// Variants returns the files of one layer group, ordered by file name.
func (p *Package) Variants(key LayerKey) []VariantFile {
	return slices.Clone(p.variants[key])
}

// Path returns the location of a variant inside SourceDir.
func (p *Package) Path(v VariantFile) string {
	return filepath.Join(p.SourceDir, v.FileName)
}

// BuildPackage scans root/name and groups its layer files. Symlinks are
// followed. Sub-directories and files that do not follow the naming convention
// are ignored. A package without
// layer indices 0, 1 and 2 yields a *ValidationError.
func BuildPackage(fsys afero.Fs, root, name string) (*Package, error) {
	dir := filepath.Join(root, name)
	entries, err := utils.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", ErrIO, dir, err)
	}

	variants := make(map[LayerKey][]VariantFile)
	indices := make(map[int]bool)
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}
		v, ok := ParseLayerFile(entry.Name())
		if !ok {
			continue
		}
		variants[v.Layer] = append(variants[v.Layer], v)
		indices[v.Layer.Index] = true
	}

	var missing []int
	for _, idx := range RequiredLayers {
		if !indices[idx] {
			missing = append(missing, idx)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Package: name, Missing: missing}
	}

	layers := make([]LayerKey, 0, len(variants))
	for key, files := range variants {
		layers = append(layers, key)
		slices.SortFunc(files, func(a, b VariantFile) int {
			return strings.Compare(a.FileName, b.FileName)
		})
	}
	slices.SortFunc(layers, LayerKey.compare)

	return &Package{
		Name:      name,
		SourceDir: dir,
		layers:    layers,
		variants:  variants,
	}, nil
}
