package sweep

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Action is a follow-up operation applied to one flagged item.
type Action interface {
	Act(ctx context.Context, item WorkItem) error
}

// ActionFunc adapts a plain function to the Action interface.
type ActionFunc func(ctx context.Context, item WorkItem) error

// Act implements Action.
func (f ActionFunc) Act(ctx context.Context, item WorkItem) error { return f(ctx, item) }

// PromptFunc asks the user a yes/no question. An error counts as "no".
type PromptFunc func(question string) (bool, error)

// ActionResult is the result of the action for one item. Err is nil on success.
type ActionResult struct {
	Item WorkItem
	Err  error
}

// GateResult describes what ConfirmAndAct did.
type GateResult struct {
	Prompted  bool
	Confirmed bool
	Results   []ActionResult
}

// Succeeded returns the items the action completed for.
func (g GateResult) Succeeded() []WorkItem {
	var out []WorkItem
	for _, r := range g.Results {
		if r.Err == nil {
			out = append(out, r.Item)
		}
	}
	return out
}

// Failed returns the results whose action returned an error.
func (g GateResult) Failed() []ActionResult {
	var out []ActionResult
	for _, r := range g.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// ConfirmAndAct asks once and, on an affirmative answer, applies action to
// every item sequentially in input order. A failing item never stops the rest.
// With no items nothing is asked and nothing runs.
func ConfirmAndAct(ctx context.Context, items []WorkItem, action Action, question string, prompt PromptFunc) GateResult {
	var res GateResult
	if len(items) == 0 || action == nil || prompt == nil {
		return res
	}

	res.Prompted = true
	ok, err := prompt(question)
	if err != nil || !ok {
		return res
	}
	res.Confirmed = true

	res.Results = make([]ActionResult, 0, len(items))
	for _, item := range items {
		var actErr error
		if err := action.Act(ctx, item); err != nil {
			actErr = fmt.Errorf("%w: %s: %w", ErrPostAction, item.RelPath, err)
		}
		res.Results = append(res.Results, ActionResult{Item: item, Err: actErr})
	}
	return res
}

// RemoveFile deletes the item's path.
var RemoveFile = ActionFunc(func(_ context.Context, item WorkItem) error {
	return os.Remove(item.Path)
})

// ParseConfirmation reports whether answer is affirmative ("y" or "yes",
// case-insensitive, surrounding whitespace ignored).
func ParseConfirmation(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
