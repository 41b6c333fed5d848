package content

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// normalizeGlob makes a content glob comparable with slash-separated paths
// relative to the base directory.
func normalizeGlob(pattern string) string {
	pattern = filepath.ToSlash(strings.TrimSpace(pattern))
	for strings.HasPrefix(pattern, "./") {
		pattern = pattern[2:]
	}
	return pattern
}

// Discover walks baseDir once and returns the sorted, de-duplicated absolute
// paths matching any of cfg.Globs. Order of the globs does not matter.
func Discover(baseDir string, cfg ScanConfig) ([]string, error) {
	include := make([]string, 0, len(cfg.Globs))
	for _, g := range cfg.Globs {
		p := normalizeGlob(g)
		if p == "" || !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid content pattern: %q", g)
		}
		include = append(include, p)
	}
	exclude := make([]string, 0, len(cfg.Exclude))
	for _, g := range cfg.Exclude {
		p := normalizeGlob(g)
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern: %q", g)
		}
		exclude = append(exclude, p)
	}
	if len(include) == 0 {
		return nil, nil
	}

	absRoot, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if Matches(exclude, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if Matches(include, rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Matches reports whether the slash-separated relative path matches any
// pattern. Patterns must already be validated.
func Matches(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// MatchesContent reports whether path (absolute or relative to baseDir)
// falls inside the scan scope described by cfg.
func MatchesContent(baseDir, path string, cfg ScanConfig) bool {
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(baseDir, path)
		if err != nil || strings.HasPrefix(r, "..") {
			return false
		}
		rel = r
	}
	rel = filepath.ToSlash(rel)

	normalize := func(globs []string) []string {
		out := make([]string, 0, len(globs))
		for _, g := range globs {
			out = append(out, normalizeGlob(g))
		}
		return out
	}
	return !Matches(normalize(cfg.Exclude), rel) && Matches(normalize(cfg.Globs), rel)
}

// WatchRoots returns the static directory prefixes of the globs, i.e. the
// directories a watcher must observe to see every matching file.
func WatchRoots(baseDir string, globs []string) []string {
	seen := make(map[string]bool)
	var roots []string
	for _, g := range globs {
		base, _ := doublestar.SplitPattern(normalizeGlob(g))
		dir := filepath.Join(baseDir, filepath.FromSlash(base))
		if !seen[dir] {
			seen[dir] = true
			roots = append(roots, dir)
		}
	}
	sort.Strings(roots)
	return roots
}
