// Package usage reports how the templates of a project use the theme tokens.
package usage

import (
	"sort"
	"strings"

	"github.com/gnana997/cafetheme/pkg/catalog"
	"github.com/gnana997/cafetheme/pkg/content"
)

// TokenUsage lists the classes and files that reference one token.
type TokenUsage struct {
	Token    string   `json:"token"`
	Category string   `json:"category"`
	Classes  []string `json:"classes"`
	Files    []string `json:"files"`
}

// UnknownClass is a color utility that looks like a brand token but is not
// defined, usually a typo.
type UnknownClass struct {
	Class      string   `json:"class"`
	Utility    string   `json:"utility"`
	Files      []string `json:"files"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Report is the result of Analyze.
type Report struct {
	FilesScanned int            `json:"files_scanned"`
	Used         []TokenUsage   `json:"used"`
	Unused       []string       `json:"unused"`
	Unknown      []UnknownClass `json:"unknown"`
}

// Clean reports whether every token is used and no unknown classes were found.
func (r *Report) Clean() bool {
	return len(r.Unused) == 0 && len(r.Unknown) == 0
}

// Analyze matches the candidates in index against the catalog behind qs.
func Analyze(qs *catalog.QueryService, index *content.Index) *Report {
	report := &Report{
		FilesScanned: index.Len(),
		Used:         make([]TokenUsage, 0),
		Unused:       make([]string, 0),
		Unknown:      make([]UnknownClass, 0),
	}

	classes := index.Classes()
	names := make([]string, 0, len(classes))
	for c := range classes {
		names = append(names, c)
	}
	sort.Strings(names)

	colorTokens := qs.ListTokens(catalog.CategoryColor, "")
	brandPrefixes := make(map[string]bool, len(colorTokens))
	for _, t := range colorTokens {
		brandPrefixes[catalog.FirstSegment(t.Name)] = true
	}

	used := make(map[*catalog.Token]*TokenUsage)
	for _, class := range names {
		files := classes[class]
		res, found := qs.ResolveClass(class)
		if found {
			u, ok := used[res.Token]
			if !ok {
				u = &TokenUsage{Token: res.Token.Name, Category: res.Token.Category}
				used[res.Token] = u
			}
			u.Classes = append(u.Classes, class)
			u.Files = mergeSorted(u.Files, files)
			continue
		}

		name, ok := colorTokenName(res.Utility)
		if !ok || !brandPrefixes[catalog.FirstSegment(name)] {
			continue
		}
		report.Unknown = append(report.Unknown, UnknownClass{
			Class:      class,
			Utility:    res.Utility,
			Files:      files,
			Suggestion: suggest(name, colorTokens),
		})
	}

	for i := range qs.Catalog.Tokens {
		t := &qs.Catalog.Tokens[i]
		if u, ok := used[t]; ok {
			report.Used = append(report.Used, *u)
		} else {
			report.Unused = append(report.Unused, t.Name)
		}
	}
	return report
}

// colorTokenName returns the token part of a color utility such as
// "bg-cafe-brown".
func colorTokenName(utility string) (string, bool) {
	for _, p := range catalog.ColorUtilityPrefixes {
		if name, ok := strings.CutPrefix(utility, p+"-"); ok && name != "" {
			return name, true
		}
	}
	return "", false
}

// suggest returns the color token closest to name, if any is within a
// third of its length in edits.
func suggest(name string, tokens []catalog.Token) string {
	best, bestDist := "", len(name)/3+1
	for _, t := range tokens {
		if d := editDistance(name, t.Name); d < bestDist {
			best, bestDist = t.Name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i == len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
