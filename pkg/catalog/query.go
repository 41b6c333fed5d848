package catalog

import (
	"strings"

	"github.com/gnana997/cafetheme/pkg/theme"
)

// QueryService provides read-only query methods over a built catalog.
type QueryService struct {
	Catalog *Catalog
	Index   *CatalogIndex
}

// NewQueryService creates a QueryService from a catalog and its index.
func NewQueryService(cat *Catalog, idx *CatalogIndex) *QueryService {
	return &QueryService{Catalog: cat, Index: idx}
}

// FromConfig builds the catalog of cfg and returns a ready-to-use QueryService.
func FromConfig(cfg *theme.Config) *QueryService {
	cat := Build(cfg)
	return NewQueryService(cat, cat.BuildIndex())
}

// ListCategories returns all categories in the catalog.
func (q *QueryService) ListCategories() []Category {
	return q.Catalog.Categories
}

// ListTokens returns tokens filtered by category and/or keyword.
// Both filters are optional (pass "" to skip) and combine with AND logic.
// The keyword matches case-insensitively against name, value and fallbacks.
func (q *QueryService) ListTokens(category, keyword string) []Token {
	var candidates []*Token
	if category != "" {
		candidates = q.Index.TokensByCategory[category]
	} else {
		candidates = make([]*Token, 0, len(q.Catalog.Tokens))
		for i := range q.Catalog.Tokens {
			candidates = append(candidates, &q.Catalog.Tokens[i])
		}
	}

	keyword = strings.ToLower(keyword)
	result := make([]Token, 0)
	for _, t := range candidates {
		if keyword != "" && !tokenMatches(t, keyword) {
			continue
		}
		result = append(result, *t)
	}
	return result
}

func tokenMatches(t *Token, keyword string) bool {
	if strings.Contains(strings.ToLower(t.Name), keyword) ||
		strings.Contains(strings.ToLower(t.Value), keyword) {
		return true
	}
	for _, f := range t.Fallbacks {
		if strings.Contains(strings.ToLower(f), keyword) {
			return true
		}
	}
	return false
}

// GetToken looks up a token by name, or by "<category>.<name>" when the
// same name is defined in more than one category.
func (q *QueryService) GetToken(name string) (*Token, bool) {
	t, ok := q.Index.TokenByName[name]
	return t, ok
}

// ResolveClass maps a class as written in a template onto the token that
// backs it. Variant prefixes ("hover:", "md:"), the important marker and a
// "/<opacity>" modifier are stripped first. The bool reports whether a
// token was found; the resolution is filled in either way.
func (q *QueryService) ResolveClass(class string) (ClassResolution, bool) {
	res := ParseClass(class)
	if t, ok := q.Index.TokenByUtility[res.Utility]; ok {
		res.Token = t
		return res, true
	}
	// "max-w-1/2" style names keep their slash.
	if res.Opacity != "" {
		if t, ok := q.Index.TokenByUtility[res.Utility+"/"+res.Opacity]; ok {
			res.Utility += "/" + res.Opacity
			res.Opacity = ""
			res.Token = t
			return res, true
		}
	}
	return res, false
}

// ParseClass splits a class into variants, the important marker, the
// utility and an opacity modifier. Colons inside [...] do not split.
func ParseClass(class string) ClassResolution {
	res := ClassResolution{Class: class}
	rest := class

	depth, start := 0, 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				res.Variants = append(res.Variants, rest[start:i])
				start = i + 1
			}
		}
	}
	rest = rest[start:]

	if strings.HasPrefix(rest, "!") {
		res.Important = true
		rest = rest[1:]
	} else if strings.HasSuffix(rest, "!") {
		res.Important = true
		rest = rest[:len(rest)-1]
	}

	if i := lastTopLevelSlash(rest); i > 0 {
		res.Opacity = rest[i+1:]
		rest = rest[:i]
	}
	res.Utility = rest
	return res
}

// lastTopLevelSlash returns the index of the last '/' outside brackets, or -1.
func lastTopLevelSlash(s string) int {
	depth, idx := 0, -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '/':
			if depth == 0 {
				idx = i
			}
		}
	}
	return idx
}
