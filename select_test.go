package traitstack

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"gonum.org/v1/gonum/stat/distuv"
)

func newTestPackage(t *testing.T, fsys afero.Fs, files map[string]image.Image) *Package {
	t.Helper()
	for name, img := range files {
		writePNG(t, fsys, filepath.Join("/input", "pkg", name), img)
	}
	pkg, err := BuildPackage(fsys, "/input", "pkg")
	if err != nil {
		t.Fatalf("build package: %v", err)
	}
	return pkg
}

func baseLayers() map[string]image.Image {
	return map[string]image.Image{
		"0_background_0.png": bordered(4, 4, red),
		"1_border_0.png":     bordered(4, 4, blue),
		"2_body_0.png":       bordered(4, 4, green),
	}
}

func TestSelectVariantStripsBorder(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			src.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 7, A: 255})
		}
	}
	fsys := afero.NewMemMapFs()
	files := baseLayers()
	files["0_background_0.png"] = src
	pkg := newTestPackage(t, fsys, files)

	sel, err := SelectVariant(fsys, pkg, LayerKey{0, "background"}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("select variant: %v", err)
	}
	if got := sel.Image.Bounds(); got != image.Rect(0, 0, 2, 2) {
		t.Fatalf("expected 2x2 image at origin, got %v", got)
	}
	for y := range 2 {
		for x := range 2 {
			want := src.NRGBAAt(x+1, y+1)
			if got := sel.Image.NRGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
	if sel.Variant.FileName != "0_background_0.png" {
		t.Fatalf("unexpected variant %v", sel.Variant)
	}
}

func TestSelectVariantIsUniform(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := baseLayers()
	const variants = 4
	for i := range variants {
		files["3_face_"+string(rune('0'+i))+".png"] = bordered(3, 3, color.NRGBA{R: uint8(i * 60), A: 255})
	}
	pkg := newTestPackage(t, fsys, files)

	const trials = 4000
	rng := rand.New(rand.NewSource(7))
	counts := make(map[string]int)
	for range trials {
		sel, err := SelectVariant(fsys, pkg, LayerKey{3, "face"}, rng)
		if err != nil {
			t.Fatalf("select variant: %v", err)
		}
		counts[sel.Variant.FileName]++
	}
	if len(counts) != variants {
		t.Fatalf("expected all %d variants chosen, got %v", variants, counts)
	}

	expected := float64(trials) / variants
	chi2 := 0.0
	for _, n := range counts {
		d := float64(n) - expected
		chi2 += d * d / expected
	}
	limit := distuv.ChiSquared{K: variants - 1}.Quantile(0.999)
	if chi2 > limit {
		t.Fatalf("selection not uniform: chi2 %.2f > %.2f, counts %v", chi2, limit, counts)
	}
}

func TestSelectVariantDeterministicForSeed(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := baseLayers()
	for _, name := range []string{"2_body_1.png", "2_body_2.png", "2_body_3.png"} {
		files[name] = bordered(4, 4, green)
	}
	pkg := newTestPackage(t, fsys, files)
	key := LayerKey{2, "body"}

	pick := func(seed int64) []string {
		rng := rand.New(rand.NewSource(seed))
		var names []string
		for range 5 {
			sel, err := SelectVariant(fsys, pkg, key, rng)
			if err != nil {
				t.Fatalf("select variant: %v", err)
			}
			names = append(names, sel.Variant.FileName)
		}
		return names
	}

	a, b := pick(3), pick(3)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical picks for one seed, got %v and %v", a, b)
		}
	}

	// Picks follow rng.Intn over the name-ordered variants.
	rng := rand.New(rand.NewSource(3))
	variants := pkg.Variants(key)
	if want := variants[rng.Intn(len(variants))].FileName; a[0] != want {
		t.Fatalf("expected first pick %s, got %s", want, a[0])
	}
}

func TestSelectVariantOnlyMatchesOwnLayer(t *testing.T) {
	fsys := afero.NewMemMapFs()
	files := baseLayers()
	files["3_face_0.png"] = bordered(3, 3, red)
	files["3_faceshield_0.png"] = bordered(3, 3, blue)
	files["3_faceshield_1.png"] = bordered(3, 3, blue)
	pkg := newTestPackage(t, fsys, files)

	rng := rand.New(rand.NewSource(11))
	for range 50 {
		sel, err := SelectVariant(fsys, pkg, LayerKey{3, "face"}, rng)
		if err != nil {
			t.Fatalf("select variant: %v", err)
		}
		if sel.Variant.FileName != "3_face_0.png" {
			t.Fatalf("face layer picked %s", sel.Variant.FileName)
		}
	}
}

func TestSelectVariantTooSmall(t *testing.T) {
	for _, size := range []image.Point{{1, 1}, {2, 2}, {2, 8}, {8, 2}} {
		fsys := afero.NewMemMapFs()
		files := baseLayers()
		files["3_face_0.png"] = solid(size.X, size.Y, red)
		pkg := newTestPackage(t, fsys, files)

		_, err := SelectVariant(fsys, pkg, LayerKey{3, "face"}, rand.New(rand.NewSource(1)))
		if !errors.Is(err, ErrMalformedAsset) {
			t.Fatalf("%v: expected ErrMalformedAsset, got %v", size, err)
		}
	}
}

func TestSelectVariantUndecodable(t *testing.T) {
	fsys := afero.NewMemMapFs()
	pkg := newTestPackage(t, fsys, baseLayers())
	touch(t, fsys, filepath.Join("/input", "pkg", "1_border_0.png"))

	_, err := SelectVariant(fsys, pkg, LayerKey{1, "border"}, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrMalformedAsset) {
		t.Fatalf("expected ErrMalformedAsset, got %v", err)
	}
}

func TestSelectVariantNoVariant(t *testing.T) {
	fsys := afero.NewMemMapFs()
	pkg := newTestPackage(t, fsys, baseLayers())
	rng := rand.New(rand.NewSource(1))

	_, err := SelectVariant(fsys, pkg, LayerKey{7, "wings"}, rng)
	if !errors.Is(err, ErrNoVariant) {
		t.Fatalf("unknown layer: expected ErrNoVariant, got %v", err)
	}

	if err := fsys.Remove(filepath.Join("/input", "pkg", "2_body_0.png")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	_, err = SelectVariant(fsys, pkg, LayerKey{2, "body"}, rng)
	if !errors.Is(err, ErrNoVariant) {
		t.Fatalf("deleted file: expected ErrNoVariant, got %v", err)
	}
}
