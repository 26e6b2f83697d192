// Package apperr defines sentinel errors shared across Raido layers.
package apperr

import "errors"

var (
	// ErrValidation marks a request that fails structural validation
	// (missing sections, empty deck selection, bad filename).
	ErrValidation = errors.New("validation failed")
	// ErrNoData means the deck data file does not exist yet.
	ErrNoData = errors.New("no deck data")
	// ErrNotFound marks a missing deck or section.
	ErrNotFound = errors.New("not found")
)
