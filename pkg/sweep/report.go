package sweep

import (
	"encoding/json"
	"fmt"
	"time"
)

// Report summarizes the result of a single Run.
type Report struct {
	Summary       Counters      `json:"summary" yaml:"summary"`
	Results       []ItemResult  `json:"results" yaml:"results"`
	Root          string        `json:"root" yaml:"root"`
	Concurrency   int           `json:"concurrency" yaml:"concurrency"`
	Duration      time.Duration `json:"-" yaml:"-"`
	Timestamp     time.Time     `json:"timestamp" yaml:"timestamp"`
	SchemaVersion string        `json:"schemaVersion,omitempty" yaml:"schemaVersion,omitempty"`

	// Log holds one line per processed item. It is not serialized.
	Log *LogBuffer `json:"-" yaml:"-"`
}

// ItemResult is the recorded outcome of a single WorkItem.
type ItemResult struct {
	Item     WorkItem      `json:"item" yaml:"item"`
	Outcome  Outcome       `json:"outcome" yaml:"outcome"`
	Duration time.Duration `json:"-" yaml:"-"`
}

type itemResultJSON struct {
	Path       string  `json:"path"`
	RelPath    string  `json:"relPath"`
	Outcome    Outcome `json:"outcome"`
	DurationMs int64   `json:"durationMs"`
}

// MarshalJSON flattens the item and reports the duration in milliseconds.
func (r ItemResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemResultJSON{
		Path:       r.Item.Path,
		RelPath:    r.Item.RelPath,
		Outcome:    r.Outcome,
		DurationMs: r.Duration.Milliseconds(),
	})
}

// MarshalYAML mirrors MarshalJSON for the yaml report format.
func (r ItemResult) MarshalYAML() (interface{}, error) {
	return map[string]interface{}{
		"path":       r.Item.Path,
		"relPath":    r.Item.RelPath,
		"outcome":    r.Outcome,
		"durationMs": r.Duration.Milliseconds(),
	}, nil
}

// Flagged returns the items whose outcome kind is one of kinds, in result order.
func (r Report) Flagged(kinds ...OutcomeKind) []WorkItem {
	var flagged []WorkItem
	for _, res := range r.Results {
		for _, k := range kinds {
			if res.Outcome.Kind == k {
				flagged = append(flagged, res.Item)
				break
			}
		}
	}
	return flagged
}

// SummaryLabels names the rows of the summary block. Each label is printed
// followed by ": <count>".
type SummaryLabels struct {
	Title   string
	Total   string
	Success string
	Failed  string
	Skipped string
}

// DefaultSummaryLabels are used when a tool does not supply its own wording.
var DefaultSummaryLabels = SummaryLabels{
	Title:   "Summary:",
	Total:   "   Total items processed",
	Success: "   Succeeded",
	Failed:  "   Failed",
	Skipped: "   Skipped",
}

// SummaryLines renders the summary block, starting with SummaryRule.
// It is printed to the terminal and appended to a flushed log.
func (r Report) SummaryLines(labels SummaryLabels) []string {
	lines := []string{SummaryRule}
	if labels.Title != "" {
		lines = append(lines, labels.Title)
	}
	lines = append(lines,
		fmt.Sprintf("%s: %d", labels.Total, r.Summary.Total),
		fmt.Sprintf("%s: %d", labels.Success, r.Summary.Success),
		fmt.Sprintf("%s: %d", labels.Failed, r.Summary.Failed),
		fmt.Sprintf("%s: %d", labels.Skipped, r.Summary.Skipped),
	)
	return lines
}

// DefaultLineFormatter renders "[KIND] relPath" plus the reason or message.
func DefaultLineFormatter(item WorkItem, outcome Outcome) string {
	switch outcome.Kind {
	case KindSuccess:
		if outcome.Note != "" {
			return fmt.Sprintf("[SUCCESS] %s (%s)", item.RelPath, outcome.Note)
		}
		return fmt.Sprintf("[SUCCESS] %s", item.RelPath)
	case KindSkipped:
		if outcome.Reason != "" {
			return fmt.Sprintf("[SKIPPED] %s (%s)", item.RelPath, outcome.Reason)
		}
		return fmt.Sprintf("[SKIPPED] %s", item.RelPath)
	case KindUnsupported:
		return fmt.Sprintf("[UNSUPPORTED] %s", item.RelPath)
	default:
		return fmt.Sprintf("[FAILED] %s - %s", item.RelPath, outcome.Message)
	}
}
