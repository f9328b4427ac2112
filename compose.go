package traitstack

import (
	"image"
	"math/rand"

	"github.com/spf13/afero"
	"golang.org/x/image/draw"
)

// Composite is a flattened trait stack and the variants it was built from,
// in compositing order.
type Composite struct {
	Image  *image.NRGBA
	Traits []VariantFile
}

// Compose picks one variant per layer and stacks them bottom to top. The canvas
// takes the size of the background variant. Nothing is written; on error no
// composite is returned.
func Compose(fsys afero.Fs, pkg *Package, rng *rand.Rand) (*Composite, error) {
	layers := make([]image.Image, 0, len(pkg.layers))
	traits := make([]VariantFile, 0, len(pkg.layers))
	for _, key := range pkg.layers {
		sel, err := SelectVariant(fsys, pkg, key, rng)
		if err != nil {
			return nil, err
		}
		layers = append(layers, sel.Image)
		traits = append(traits, sel.Variant)
	}
	return &Composite{Image: Flatten(layers), Traits: traits}, nil
}

// Flatten alpha-composites layers in slice order onto a transparent canvas the
// size of layers[0]. Every layer is anchored at the canvas origin; layers larger
// than the canvas are clipped and smaller ones leave the rest untouched.
//
// Blending is Porter-Duff "over". Opaque and fully transparent pixels behave
// like a paste through the layer's own alpha mask, but a semi-transparent pixel
// over an empty canvas keeps its alpha (128 stays 128) rather than having the
// mask applied to alpha as well (which would give 64).
func Flatten(layers []image.Image) *image.NRGBA {
	if len(layers) == 0 {
		return image.NewNRGBA(image.Rectangle{})
	}
	size := layers[0].Bounds().Size()
	canvas := image.NewRGBA(image.Rectangle{Max: size})
	for _, layer := range layers {
		b := layer.Bounds()
		// Bottom -> top, opaque pixels of later layers replace earlier ones.
		draw.Draw(canvas, image.Rectangle{Max: b.Size()}, layer, b.Min, draw.Over)
	}

	out := image.NewNRGBA(canvas.Bounds())
	draw.Draw(out, out.Bounds(), canvas, image.Point{}, draw.Src)
	return out
}
