// Package types provides type definitions for structured data used throughout the profile-optimizer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "errors"

// Error kinds surfaced by the pipeline. Callers match these with errors.Is;
// wrapped messages carry the offending path or operation.
var (
	// ErrModelUnavailable indicates the model gateway is not ready to serve calls.
	// The current operation is aborted and not retried automatically.
	ErrModelUnavailable = errors.New("model gateway not available")

	// ErrInvalidImage indicates a photo file could not be read or decoded.
	// The photo is skipped; the rest of the batch continues.
	ErrInvalidImage = errors.New("invalid image")

	// ErrGenerationFailed indicates a model call raised or returned malformed output.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrEmptyFacts indicates required profile facts are missing. Rejected
	// before any gateway call is made.
	ErrEmptyFacts = errors.New("required profile facts missing")
)
