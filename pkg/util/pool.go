package util

import "runtime"

// GetOptimalPoolSize returns the worker count for CPU-bound parallel work:
// twice the core count, clamped to [4, 32]. Parser pools and the content
// worker pool share this so workers never wait on parsers.
func GetOptimalPoolSize() int {
	return min(max(runtime.NumCPU()*2, 4), 32)
}

// GetOptimalPoolSizeWithOverride returns override when positive, else
// GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
