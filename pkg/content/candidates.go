package content

import (
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
)

// isSeparator reports bytes that can never be part of a class name in
// templates or Python source: whitespace, quotes, markup and most
// punctuation. Brackets, colons, slashes, dots, '#' and '%' are kept for
// arbitrary values (w-[1100px]), variants (hover:) and modifiers (/50).
func isSeparator(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v',
		'"', '\'', '`', '<', '>', '=', ';', ',', '{', '}', '(', ')', '|', '+', '*', '?', '$', '\\', '^', '~':
		return true
	}
	return false
}

func isClassByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		strings.IndexByte("-_:/.[]#%!@&", c) >= 0
}

// ExtractCandidates returns the sorted unique class-name candidates in data.
// Like the styling engine it over-approximates: anything shaped like a class
// name is a candidate, whether or not it is one.
func ExtractCandidates(data []byte) []string {
	seen := make(map[string]struct{})
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		tok := strings.Trim(string(data[start:end]), ".:/")
		start = -1
		if isCandidate(tok) {
			seen[tok] = struct{}{}
		}
	}
	for i := 0; i < len(data); i++ {
		if isSeparator(data[i]) || data[i] >= 0x80 {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(data))

	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

func isCandidate(tok string) bool {
	if len(tok) < 2 || len(tok) > 128 {
		return false
	}
	letter := false
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if !isClassByte(c) {
			return false
		}
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			letter = true
		}
	}
	if !letter {
		return false
	}
	// Template syntax and URLs are not class names.
	return !strings.Contains(tok, "//") && !strings.HasPrefix(tok, "#") && !strings.HasPrefix(tok, "%")
}

// extractMapped runs ExtractCandidates over a cached view. A file truncated
// while it is mapped faults on access; that becomes an error for the file
// instead of a crash.
func extractMapped(mf *MappedFile) (candidates []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, fault := r.(interface{ Addr() uintptr }); !fault {
				panic(r)
			}
			err = fmt.Errorf("read %q: %v", mf.Path, r)
		}
	}()
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	return ExtractCandidates(mf.Data), nil
}
