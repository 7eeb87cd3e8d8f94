package sweep

// Constants defining default values for configuration options.
// These are used when setting up Viper defaults in the CLI configuration layer.
const (
	// DefaultConcurrency determines the default number of workers. 0 means runtime.NumCPU().
	DefaultConcurrency = 0
	// DefaultMaxDepth bounds how deep the collector descends below the root.
	DefaultMaxDepth = 50
	// DefaultOutputFormat is the default format for the final summary report.
	DefaultOutputFormat = OutputFormatText
	// DefaultVerbose is the default state for verbose logging.
	DefaultVerbose = false
)

// ReportSchemaVersion indicates the version of the JSON/YAML report structure.
const ReportSchemaVersion = "1.0"

// SummaryRule is the separator printed above the summary block.
const SummaryRule = "========================================================"
