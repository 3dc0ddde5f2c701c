package models

import (
	"fmt"
)

// MalformedInputError means the document cannot be parsed at all. Fatal; the
// run transitions to Failed.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input document: %s", e.Reason)
}

// ConfigurationError means the caller supplied an invalid taxonomy, keyword
// table or scoring weights. Fatal at startup, before any document is read.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid extraction config: %s", e.Reason)
}

// PersistenceError means writing the output document failed. Surfaced to the
// caller; the in-memory ExtractionRun stays valid and may be re-persisted.
type PersistenceError struct {
	Location string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting to %s: %v", e.Location, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PipelineError wraps a fatal failure with the stage it occurred in, so the
// caller sees Failed(stage, reason).
type PipelineError struct {
	Stage State
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline failed during %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
