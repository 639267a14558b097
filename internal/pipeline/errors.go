package pipeline

import "errors"

var (
	// ErrConcurrentProcessing is returned when a processing request
	// arrives for a plan whose loop is already in flight.
	ErrConcurrentProcessing = errors.New("plan is already being processed")

	// ErrGenerationFailed is returned when drafting fails on the primary
	// provider and either no fallback is configured or the fallback also
	// failed, before any draft exists.
	ErrGenerationFailed = errors.New("content generation failed")

	// ErrValidationParse is returned when the validator's output cannot be
	// parsed into the expected score document after the single retry.
	ErrValidationParse = errors.New("validation output not parseable")

	// ErrPlanReady is returned when processing is requested for a plan
	// already in ready status; it must be explicitly reopened first.
	ErrPlanReady = errors.New("plan is ready; reopen it to reprocess")
)
