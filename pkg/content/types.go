// Package content resolves the content globs of a theme configuration to
// files and extracts the class-name candidates those files contain.
package content

// ScanConfig configures content discovery and extraction.
type ScanConfig struct {
	// Globs select the files to scan, relative to the base directory.
	Globs []string
	// Exclude globs prune files and whole directories.
	Exclude []string
	// Workers bounds extraction concurrency (0 = auto).
	Workers int
}

// DefaultExcludes are pruned on every scan.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	"**/__pycache__/**",
	"staticfiles/**",
	"venv/**",
	".venv/**",
}

// DefaultScanConfig returns a config scanning globs with the default excludes.
func DefaultScanConfig(globs []string) ScanConfig {
	return ScanConfig{
		Globs:   globs,
		Exclude: append([]string(nil), DefaultExcludes...),
	}
}

// FileCandidates are the class-name candidates found in one file.
type FileCandidates struct {
	Path       string
	Candidates []string
	Size       int64
}

// ScanStats summarizes a scan.
type ScanStats struct {
	FilesDiscovered int   `json:"files_discovered"`
	FilesExtracted  int   `json:"files_extracted"`
	FilesFailed     int   `json:"files_failed"`
	Candidates      int   `json:"candidates"`
	DiscoveryTimeMs int64 `json:"discovery_ms"`
	ExtractTimeMs   int64 `json:"extract_ms"`
	TotalTimeMs     int64 `json:"total_ms"`
}
