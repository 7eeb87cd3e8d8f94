package sweep

// SetDetectConcurrency swaps the CPU count lookup and returns a restore func.
func SetDetectConcurrency(f func() int) (restore func()) {
	prev := detectConcurrency
	detectConcurrency = f
	return func() { detectConcurrency = prev }
}

// ResolveConcurrency exposes resolveConcurrency to tests.
var ResolveConcurrency = resolveConcurrency
