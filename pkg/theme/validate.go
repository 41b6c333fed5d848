package theme

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Severity levels for lint issues.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is a single problem found by Validate.
type Issue struct {
	Rule     string `json:"rule"`
	Path     string `json:"path"` // dotted key path, e.g. theme.extend.colors.cafe-brown
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s (%s)", i.Severity, i.Path, i.Message, i.Rule)
}

var (
	tokenNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
	hexColorRe  = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{4}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})$`)
	funcColorRe = regexp.MustCompile(`^(?:rgba?|hsla?)\([^()]*\)$`)
	lengthRe    = regexp.MustCompile(`^-?(?:\d+|\d*\.\d+)(?:px|rem|em|%|vw|vh|vmin|vmax|ch|ex|pt|pc|cm|mm|in|dvh|svh|lvh)$`)
)

var colorKeywords = map[string]bool{
	"transparent":  true,
	"current":      true,
	"currentColor": true,
	"inherit":      true,
}

var lengthKeywords = map[string]bool{
	"0":     true,
	"none":  true,
	"full":  true,
	"min":   true,
	"max":   true,
	"fit":   true,
	"prose": true,
}

var genericFamilies = map[string]bool{
	"serif":      true,
	"sans-serif": true,
	"monospace":  true,
	"cursive":    true,
	"fantasy":    true,
	"system-ui":  true,
}

// IsColorLiteral reports whether v is a color value the styling engine accepts.
func IsColorLiteral(v string) bool {
	v = strings.TrimSpace(v)
	return hexColorRe.MatchString(v) || funcColorRe.MatchString(v) || colorKeywords[v]
}

// IsLength reports whether v is a length value usable for sizing utilities.
func IsLength(v string) bool {
	v = strings.TrimSpace(v)
	if lengthKeywords[v] || lengthRe.MatchString(v) {
		return true
	}
	return strings.HasPrefix(v, "calc(") && strings.HasSuffix(v, ")")
}

// IsTokenName reports whether name can be used as a class-name fragment.
func IsTokenName(name string) bool {
	return tokenNameRe.MatchString(name)
}

// Validate checks cfg for problems the styling engine would report at build
// time. The configuration itself never validates; this is a pre-flight lint.
// Issues are sorted by path.
func Validate(cfg *Config) []Issue {
	if cfg == nil {
		return []Issue{{Rule: "config-present", Path: "", Message: "configuration is nil", Severity: SeverityError}}
	}

	var issues []Issue
	add := func(rule, path, severity, format string, args ...any) {
		issues = append(issues, Issue{Rule: rule, Path: path, Message: fmt.Sprintf(format, args...), Severity: severity})
	}

	if len(cfg.Content) == 0 {
		add("content-non-empty", KeyContent, SeverityError, "no content globs; nothing would be scanned")
	}
	seen := make(map[GlobPattern]bool, len(cfg.Content))
	for i, g := range cfg.Content {
		path := fmt.Sprintf("%s[%d]", KeyContent, i)
		pattern := strings.TrimPrefix(string(g), "./")
		switch {
		case strings.TrimSpace(pattern) == "":
			add("glob-syntax", path, SeverityError, "empty glob pattern")
		case !doublestar.ValidatePattern(pattern):
			add("glob-syntax", path, SeverityError, "invalid glob pattern %q", g)
		}
		if seen[g] {
			add("glob-duplicate", path, SeverityWarning, "duplicate glob pattern %q", g)
		}
		seen[g] = true
	}

	ext := cfg.Theme.Extend
	for name, value := range ext.Colors {
		path := "theme.extend.colors." + name
		checkName(add, path, name)
		if !IsColorLiteral(value) {
			add("color-literal", path, SeverityError, "invalid color literal %q", value)
		}
	}

	for name, chain := range ext.FontFamily {
		path := "theme.extend.fontFamily." + name
		checkName(add, path, name)
		if len(chain) == 0 {
			add("font-chain", path, SeverityError, "empty font fallback chain")
			continue
		}
		for i, font := range chain {
			if strings.TrimSpace(font) == "" {
				add("font-chain", fmt.Sprintf("%s[%d]", path, i), SeverityError, "empty font name")
			}
		}
		if last := strings.Trim(chain[len(chain)-1], `"' `); !genericFamilies[last] {
			add("font-generic-fallback", path, SeverityWarning, "chain does not end in a generic family (last is %q)", chain[len(chain)-1])
		}
	}

	for name, value := range ext.MaxWidth {
		path := "theme.extend.maxWidth." + name
		checkName(add, path, name)
		if !IsLength(value) {
			add("length", path, SeverityError, "invalid length %q", value)
		}
	}

	for i, p := range cfg.Plugins {
		if strings.TrimSpace(string(p)) == "" {
			add("plugin-ref", fmt.Sprintf("%s[%d]", KeyPlugins, i), SeverityError, "empty plugin reference")
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return issues[i].Path < issues[j].Path
		}
		return issues[i].Rule < issues[j].Rule
	})
	return issues
}

func checkName(add func(rule, path, severity, format string, args ...any), path, name string) {
	if !IsTokenName(name) {
		add("token-name", path, SeverityError, "token name %q is not usable as a class-name fragment", name)
	}
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
