package sweep_test

import (
	"context"
	"testing"

	"github.com/stackvity/tree-sweep/pkg/sweep"
	"github.com/stretchr/testify/assert"
)

// TestNoOpHooks verifies the default hooks accept every event.
func TestNoOpHooks(t *testing.T) {
	var h sweep.Hooks = &sweep.NoOpHooks{}
	assert.NoError(t, h.OnItemDiscovered(sweep.WorkItem{}))
	assert.NoError(t, h.OnItemProcessed(sweep.ItemResult{}, "line"))
	assert.NoError(t, h.OnRunComplete(sweep.Report{}))
}

func TestProcessorFunc(t *testing.T) {
	var seen sweep.WorkItem
	var p sweep.Processor = sweep.ProcessorFunc(func(_ context.Context, item sweep.WorkItem) sweep.Outcome {
		seen = item
		return sweep.Skipped("because")
	})

	out := p.Process(context.Background(), sweep.WorkItem{RelPath: "x"})
	assert.Equal(t, "x", seen.RelPath)
	assert.Equal(t, sweep.Skipped("because"), out)
}
