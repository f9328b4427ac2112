package traitstack

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrValidation indicates a package directory lacks the required layers.
// It is recoverable: the caller skips that package.
var ErrValidation = errors.New("package is missing required layers")

// ErrNoVariant indicates a layer group has no file left to choose from.
var ErrNoVariant = errors.New("no variant available for layer")

// ErrMalformedAsset indicates a layer image could not be decoded or is too
// small to strip its border.
var ErrMalformedAsset = errors.New("malformed layer asset")

// ErrIO indicates the package could not be read or its output written.
var ErrIO = errors.New("i/o failure")

// RequiredLayers are the indices every package must provide: background,
// border and body outline.
var RequiredLayers = []int{0, 1, 2}

// ValidationError reports which required layer indices a package lacks.
type ValidationError struct {
	Package string
	Missing []int
}

func (e *ValidationError) Error() string {
	missing := make([]string, len(e.Missing))
	for i, idx := range e.Missing {
		missing[i] = strconv.Itoa(idx)
	}
	return fmt.Sprintf("package %q: missing layer indices %s", e.Package, strings.Join(missing, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
