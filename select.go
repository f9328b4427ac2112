package traitstack

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"os"

	"github.com/setanarut/traitstack/utils"
	"github.com/spf13/afero"
	"golang.org/x/image/draw"
)

// BorderWidth is the guide border stripped from every side of a layer image.
const BorderWidth = 1

// Selection is the variant chosen for one layer together with its decoded,
// border-stripped image.
type Selection struct {
	Variant VariantFile
	Image   *image.NRGBA
}

// SelectVariant picks one variant of the given layer uniformly at random, reads
// it and strips its border. The returned image has its origin at (0, 0).
func SelectVariant(fsys afero.Fs, pkg *Package, key LayerKey, rng *rand.Rand) (Selection, error) {
	files := pkg.variants[key]
	if len(files) == 0 {
		return Selection{}, fmt.Errorf("%w: %s in %s", ErrNoVariant, key, pkg.Name)
	}
	chosen := files[rng.Intn(len(files))]

	path := pkg.Path(chosen)
	img, err := utils.ReadImage(fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Removed between scan and selection.
			return Selection{}, fmt.Errorf("%w: %s: %w", ErrNoVariant, path, err)
		}
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return Selection{}, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
		}
		return Selection{}, fmt.Errorf("%w: %w", ErrMalformedAsset, err)
	}

	cropped, err := stripBorder(img)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %s: %w", ErrMalformedAsset, path, err)
	}
	return Selection{Variant: chosen, Image: cropped}, nil
}

// stripBorder copies the interior of img, BorderWidth pixels in from each edge,
// into a new image anchored at the origin.
func stripBorder(img image.Image) (*image.NRGBA, error) {
	b := img.Bounds()
	w, h := b.Dx()-2*BorderWidth, b.Dy()-2*BorderWidth
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%dx%d image has no interior inside its border", b.Dx(), b.Dy())
	}
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), img, b.Min.Add(image.Pt(BorderWidth, BorderWidth)), draw.Src)
	return out, nil
}
