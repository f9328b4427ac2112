package traitstack

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/setanarut/traitstack/utils"
	"github.com/spf13/afero"
)

type EventKind int

const (
	EventPackageFound EventKind = iota
	EventValidated
	EventValidationFailed
	EventComposed
	EventWritten
)

func (k EventKind) String() string {
	switch k {
	case EventPackageFound:
		return "package found"
	case EventValidated:
		return "validated"
	case EventValidationFailed:
		return "validation failed"
	case EventComposed:
		return "composed"
	case EventWritten:
		return "written"
	default:
		return "unknown"
	}
}

// Event is a status signal from the generator. Path is set for EventWritten,
// Err for EventValidationFailed, Layers for EventValidated.
type Event struct {
	Kind    EventKind
	Package string
	Layers  []LayerKey
	Path    string
	Err     error
}

type Options struct {
	// Filesystem holding input and output roots. Defaults to the OS filesystem.
	Fs afero.Fs
	// Source of variant choices. Not safe for concurrent use; give each
	// goroutine its own Generator. Defaults to a time-seeded source.
	Rand *rand.Rand
	// Number of palette colors reported per composite. 0 disables extraction.
	PaletteSize   int
	PaletteMethod utils.PaletteMethod
	// Write a JSON sidecar next to every composite.
	Metadata bool
	// Receives status events. May be nil.
	OnEvent func(Event)
}

func DefaultOptions() Options {
	return Options{
		Fs:            afero.NewOsFs(),
		PaletteMethod: utils.PaletteMethodDominantColor,
	}
}

// Generator builds packages from an input root and writes composites under an
// output root.
type Generator struct {
	InputRoot  string
	OutputRoot string
	opt        Options
}

func NewGenerator(inputRoot, outputRoot string, opt Options) *Generator {
	if opt.Fs == nil {
		opt.Fs = afero.NewOsFs()
	}
	if opt.Rand == nil {
		opt.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{InputRoot: inputRoot, OutputRoot: outputRoot, opt: opt}
}

// Result describes one written composite.
type Result struct {
	Package      string
	Path         string
	MetadataPath string
	Traits       []VariantFile
	Palette      []string
}

// Load builds and validates the named package.
func (g *Generator) Load(name string) (*Package, error) {
	g.emit(Event{Kind: EventPackageFound, Package: name})
	pkg, err := BuildPackage(g.opt.Fs, g.InputRoot, name)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			g.emit(Event{Kind: EventValidationFailed, Package: name, Err: err})
		}
		return nil, err
	}
	g.emit(Event{Kind: EventValidated, Package: name, Layers: pkg.Layers()})
	return pkg, nil
}

// Generate composes one trait stack from pkg and writes it.
func (g *Generator) Generate(pkg *Package) (Result, error) {
	comp, err := Compose(g.opt.Fs, pkg, g.opt.Rand)
	if err != nil {
		return Result{}, fmt.Errorf("compose %s: %w", pkg.Name, err)
	}
	g.emit(Event{Kind: EventComposed, Package: pkg.Name})

	res := Result{Package: pkg.Name, Traits: comp.Traits}
	if g.opt.PaletteSize > 0 {
		res.Palette = utils.HexPalette(utils.ExtractPalette(comp.Image, g.opt.PaletteSize, g.opt.PaletteMethod))
	}

	res.Path, err = WriteOutput(g.opt.Fs, comp.Image, g.OutputRoot, pkg.Name)
	if err != nil {
		return Result{}, err
	}
	if g.opt.Metadata {
		meta := Metadata{Package: pkg.Name, Image: filepath.Base(res.Path), Palette: res.Palette}
		for _, t := range comp.Traits {
			meta.Traits = append(meta.Traits, TraitMetadata{Index: t.Layer.Index, Layer: t.Layer.Name, File: t.FileName})
		}
		if res.MetadataPath, err = writeMetadata(g.opt.Fs, res.Path, meta); err != nil {
			if rmErr := g.opt.Fs.Remove(res.Path); rmErr != nil {
				err = errors.Join(err, fmt.Errorf("%w: remove %s: %w", ErrIO, res.Path, rmErr))
			}
			return Result{}, err
		}
	}
	g.emit(Event{Kind: EventWritten, Package: pkg.Name, Path: res.Path})
	return res, nil
}

func (g *Generator) emit(e Event) {
	if g.opt.OnEvent != nil {
		g.opt.OnEvent(e)
	}
}
