package sweep

import "fmt"

// OutcomeKind classifies the result of processing one WorkItem.
type OutcomeKind string

// Constants representing the defined outcome kinds.
const (
	KindSuccess OutcomeKind = "success"
	KindSkipped OutcomeKind = "skipped"
	KindFailed  OutcomeKind = "failed"
	// KindUnsupported is reserved. No processor emits it today; if one is
	// recorded it counts as skipped.
	KindUnsupported OutcomeKind = "unsupported"
)

// Valid reports whether k is one of the defined kinds.
func (k OutcomeKind) Valid() bool {
	switch k {
	case KindSuccess, KindSkipped, KindFailed, KindUnsupported:
		return true
	}
	return false
}

// Outcome is the classification a Processor returns for a single item.
type Outcome struct {
	Kind OutcomeKind `json:"kind" yaml:"kind"`
	// Reason explains a skip (e.g. ReasonPasswordProtected).
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	// Message carries the failure description.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	// Note is an optional qualifier for successes ("updated", "up to date").
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// Success returns a plain successful outcome.
func Success() Outcome { return Outcome{Kind: KindSuccess} }

// SuccessWith returns a successful outcome carrying a qualifier.
func SuccessWith(note string) Outcome { return Outcome{Kind: KindSuccess, Note: note} }

// Skipped returns a non-fatal exclusion with the given reason.
func Skipped(reason string) Outcome { return Outcome{Kind: KindSkipped, Reason: reason} }

// Failed returns a failure outcome with the given message.
func Failed(message string) Outcome { return Outcome{Kind: KindFailed, Message: message} }

// Failedf is Failed with fmt.Sprintf formatting.
func Failedf(format string, args ...any) Outcome { return Failed(fmt.Sprintf(format, args...)) }

// Unsupported returns the reserved unsupported outcome.
func Unsupported() Outcome { return Outcome{Kind: KindUnsupported} }

// String renders the outcome for logs.
func (o Outcome) String() string {
	switch {
	case o.Message != "":
		return fmt.Sprintf("%s: %s", o.Kind, o.Message)
	case o.Reason != "":
		return fmt.Sprintf("%s: %s", o.Kind, o.Reason)
	case o.Note != "":
		return fmt.Sprintf("%s: %s", o.Kind, o.Note)
	}
	return string(o.Kind)
}

// Common skip reasons.
const (
	ReasonPasswordProtected = "password protected"
	ReasonAuthRequired      = "auth required"
)

// OutputFormat defines the format of the final report printed to standard output.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// WorkItem is a discovered path slated for processing.
type WorkItem struct {
	// Path is the absolute filesystem path.
	Path string `json:"path" yaml:"path"`
	// RelPath is slash-separated and relative to the run root.
	RelPath string `json:"relPath" yaml:"relPath"`
}
