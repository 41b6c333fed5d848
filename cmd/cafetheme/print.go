package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gnana997/cafetheme/pkg/catalog"
	"github.com/gnana997/cafetheme/pkg/content"
	"github.com/gnana997/cafetheme/pkg/theme"
	"github.com/gnana997/cafetheme/pkg/usage"
)

const maxWidth = 80

// printTokens renders the token table with dynamic column widths.
func printTokens(w io.Writer, tokens []catalog.Token) {
	if len(tokens) == 0 {
		fmt.Fprintln(w, "Tokens  (none)")
		return
	}

	nameW, catW, valW := len("NAME"), len("CATEGORY"), len("VALUE")
	for _, t := range tokens {
		nameW = max(nameW, len(t.Name))
		catW = max(catW, len(t.Category))
		valW = max(valW, len(t.Value))
	}

	fmt.Fprintf(w, "%-*s  %-*s  %-*s\n", nameW, "NAME", catW, "CATEGORY", valW, "VALUE")
	fmt.Fprintln(w, strings.Repeat("─", nameW+catW+valW+4))
	indent := nameW + catW + 4
	for _, t := range tokens {
		fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameW, t.Name, catW, t.Category, t.Value)
		if len(t.Fallbacks) > 0 {
			fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent), wrapList("then: ", t.Fallbacks, ", ", indent))
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", indent), wrapList("use: ", t.Utilities, " ", indent))
	}
}

// wrapList joins items after label, wrapping at maxWidth with
// continuation lines indented to match.
func wrapList(label string, items []string, sep string, indent int) string {
	var sb strings.Builder
	sb.WriteString(label)
	lineLen := indent + len(label)
	pad := strings.Repeat(" ", indent+len(label))
	for i, item := range items {
		addition := len(item)
		if i > 0 {
			addition += len(sep)
		}
		if i > 0 && lineLen+addition > maxWidth {
			sb.WriteString(strings.TrimRight(sep, " "))
			sb.WriteString("\n")
			sb.WriteString(pad)
			lineLen = len(pad)
		} else if i > 0 {
			sb.WriteString(sep)
			lineLen += len(sep)
		}
		sb.WriteString(item)
		lineLen += len(item)
	}
	return sb.String()
}

// printIssues prints one line per issue, severity first.
func printIssues(w io.Writer, issues []theme.Issue) {
	for _, is := range issues {
		sev := fmt.Sprintf("[%s]", is.Severity)
		fmt.Fprintf(w, "  %-9s %s: %s (%s)\n", sev, is.Path, is.Message, is.Rule)
	}
}

// printReport prints a usage report with paths relative to baseDir.
func printReport(w io.Writer, stats content.ScanStats, report *usage.Report, baseDir string) {
	fmt.Fprintf(w, "Scanned %d files (%d failed) in %dms\n",
		stats.FilesExtracted, stats.FilesFailed, stats.TotalTimeMs)

	fmt.Fprintln(w)
	if len(report.Used) == 0 {
		fmt.Fprintln(w, "Used tokens  (none)")
	} else {
		fmt.Fprintln(w, "Used tokens")
		for _, u := range report.Used {
			fmt.Fprintf(w, "  %s  [%s]  %d file(s)\n", u.Token, u.Category, len(u.Files))
			for _, f := range u.Files {
				fmt.Fprintf(w, "    %s\n", relPath(baseDir, f))
			}
		}
	}

	fmt.Fprintln(w)
	if len(report.Unused) == 0 {
		fmt.Fprintln(w, "Unused tokens  (none)")
	} else {
		fmt.Fprintln(w, "Unused tokens")
		fmt.Fprintf(w, "  %s\n", wrapList("", report.Unused, ", ", 2))
	}

	fmt.Fprintln(w)
	if len(report.Unknown) == 0 {
		fmt.Fprintln(w, "Unknown classes  (none)")
		return
	}
	fmt.Fprintln(w, "Unknown classes")
	for _, u := range report.Unknown {
		line := "  " + u.Class
		if u.Suggestion != "" {
			line += fmt.Sprintf("  (did you mean %s?)", u.Suggestion)
		}
		fmt.Fprintln(w, line)
		for _, f := range u.Files {
			fmt.Fprintf(w, "    %s\n", relPath(baseDir, f))
		}
	}
}

func relPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}
