// Package runner drives generation over every package under an input root.
package runner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/setanarut/traitstack"
	"github.com/setanarut/traitstack/internal/config"
	"github.com/setanarut/traitstack/internal/random"
	"github.com/setanarut/traitstack/utils"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Summary tallies one run. Results are ordered by package name.
type Summary struct {
	Found   int
	Skipped int
	Failed  int
	Written int
	Results []traitstack.Result
}

type Runner struct {
	cfg    *config.Config
	fs     afero.Fs
	logger *log.Logger

	mu      sync.Mutex
	summary Summary
}

func New(cfg *config.Config, fsys afero.Fs, logger *log.Logger) *Runner {
	return &Runner{cfg: cfg, fs: fsys, logger: logger}
}

// Discover lists the immediate sub-directories of root, including symlinked
// ones, whose names match at least one include pattern, in name order.
func Discover(fsys afero.Fs, root string, include []string) ([]string, error) {
	entries, err := utils.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("list input %s: %w", root, err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		for _, pat := range include {
			if ok, _ := doublestar.Match(pat, entry.Name()); ok {
				names = append(names, entry.Name())
				break
			}
		}
	}
	return names, nil
}

// Run processes every discovered package, up to cfg.Workers at a time. Packages
// failing validation are skipped. Other failures abort only their package
// unless HaltOnError is set, in which case the first one ends the run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	names, err := Discover(r.fs, r.cfg.Input, r.cfg.Include)
	if err != nil {
		return Summary{}, err
	}
	r.summary = Summary{Found: len(names)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return r.runPackage(gctx, i, name)
		})
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	// Workers finish in any order; each package's own results are already sequential.
	slices.SortStableFunc(r.summary.Results, func(a, b traitstack.Result) int {
		return strings.Compare(a.Package, b.Package)
	})
	return r.summary, err
}

func (r *Runner) runPackage(ctx context.Context, stream int, name string) error {
	rng, err := random.NewRNG(r.cfg.Seed, stream)
	if err != nil {
		return err
	}
	gen := traitstack.NewGenerator(r.cfg.Input, r.cfg.Output, traitstack.Options{
		Fs:            r.fs,
		Rand:          rng,
		PaletteSize:   r.cfg.Palette.Size,
		PaletteMethod: r.cfg.PaletteMethod(),
		Metadata:      r.cfg.Metadata,
		OnEvent:       r.logEvent,
	})

	pkg, err := gen.Load(name)
	if errors.Is(err, traitstack.ErrValidation) {
		r.record(func(s *Summary) { s.Skipped++ })
		return nil
	}
	if err != nil {
		return r.fail(name, err)
	}

	for range r.cfg.Count {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := gen.Generate(pkg)
		if err != nil {
			return r.fail(name, err)
		}
		r.record(func(s *Summary) {
			s.Written++
			s.Results = append(s.Results, res)
		})
	}
	return nil
}

func (r *Runner) fail(name string, err error) error {
	r.record(func(s *Summary) { s.Failed++ })
	r.logger.Error("package failed", "package", name, "err", err)
	if r.cfg.HaltOnError {
		return err
	}
	return nil
}

func (r *Runner) record(update func(*Summary)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	update(&r.summary)
}

func (r *Runner) logEvent(e traitstack.Event) {
	switch e.Kind {
	case traitstack.EventPackageFound:
		r.logger.Debug("package found", "package", e.Package)
	case traitstack.EventValidated:
		r.logger.Info("package validated", "package", e.Package, "layers", len(e.Layers))
	case traitstack.EventValidationFailed:
		r.logger.Warn("package skipped", "package", e.Package, "err", e.Err)
	case traitstack.EventComposed:
		r.logger.Debug("composed", "package", e.Package)
	case traitstack.EventWritten:
		r.logger.Info("written", "package", e.Package, "path", e.Path)
	}
}
