package sweep_test

import (
	"strings"
	"testing"

	"github.com/stackvity/tree-sweep/pkg/sweep"
	"github.com/stretchr/testify/assert"
)

// TestDefaultConfigurationConstants verifies default configuration constants.
func TestDefaultConfigurationConstants(t *testing.T) {
	assert.Equal(t, 0, sweep.DefaultConcurrency)
	assert.Equal(t, 50, sweep.DefaultMaxDepth)
	assert.Equal(t, sweep.OutputFormatText, sweep.DefaultOutputFormat)
	assert.False(t, sweep.DefaultVerbose)
}

// TestReportConstants verifies report-related constants.
func TestReportConstants(t *testing.T) {
	assert.Equal(t, "1.0", sweep.ReportSchemaVersion)
	assert.Len(t, sweep.SummaryRule, 56)
	assert.Empty(t, strings.Trim(sweep.SummaryRule, "="))
}
