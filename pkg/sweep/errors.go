package sweep

import "errors"

// These errors represent the categories of failure the engine distinguishes.
// Callers can check against them using errors.Is.
var (
	// ErrConfigValidation indicates that the provided Options failed validation
	// (no usable root, missing processor or predicate, invalid bounds).
	// This is the only category that aborts a run.
	ErrConfigValidation = errors.New("invalid configuration options provided")

	// ErrCollection marks a directory or entry that could not be read during
	// collection. It is logged and the entry skipped; it is never returned by Run.
	ErrCollection = errors.New("collection error")

	// ErrItemProcessing indicates a Processor failed internally (for example a
	// recovered panic). It is converted into a Failed outcome at the pool boundary.
	ErrItemProcessing = errors.New("item processing failed")

	// ErrLogPersist indicates the log buffer could not be written to its target.
	// Aggregate counts already computed remain valid.
	ErrLogPersist = errors.New("failed to persist log")

	// ErrLogAlreadyFlushed is returned by a second Flush on the same LogBuffer.
	ErrLogAlreadyFlushed = errors.New("log already flushed")

	// ErrPostAction indicates a follow-up action failed for one item. It is
	// reported per item and never stops the remaining actions.
	ErrPostAction = errors.New("post action failed")
)
