package traitstack

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// layerFilePattern matches "<index>_<name>_<seq>.png", extension in any case.
var layerFilePattern = regexp.MustCompile(`^(([0-9]+)_([a-zA-Z]+))_([0-9]+)\.(?i:png)$`)

// LayerKey identifies one layer group of a package. Index is the stacking
// position (0 is the background), Name the artist's label for it.
type LayerKey struct {
	Index int
	Name  string
}

// String returns the group key as it appears in file names, e.g. "3_face".
func (k LayerKey) String() string {
	return strconv.Itoa(k.Index) + "_" + k.Name
}

// compare orders keys by numeric index, then by name.
func (k LayerKey) compare(o LayerKey) int {
	if k.Index != o.Index {
		if k.Index < o.Index {
			return -1
		}
		return 1
	}
	return strings.Compare(k.Name, o.Name)
}

// VariantFile is one candidate image for a layer.
type VariantFile struct {
	Layer    LayerKey
	Sequence int
	FileName string
}

// ParseLayerFile classifies a file name. It reports false for anything that is
// not a layer file; callers skip those silently.
func ParseLayerFile(name string) (VariantFile, bool) {
	m := layerFilePattern.FindStringSubmatch(name)
	if m == nil {
		return VariantFile{}, false
	}
	index, err := strconv.Atoi(m[2])
	if err != nil {
		// Digits only, so this is an index too large for int.
		return VariantFile{}, false
	}
	seq, err := strconv.Atoi(m[4])
	if err != nil {
		return VariantFile{}, false
	}
	return VariantFile{
		Layer:    LayerKey{Index: index, Name: m[3]},
		Sequence: seq,
		FileName: name,
	}, true
}

func (v VariantFile) String() string {
	return fmt.Sprintf("%s#%d (%s)", v.Layer, v.Sequence, v.FileName)
}
