package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/gnana997/cafetheme/pkg/theme"
)

// ColorUtilityPrefixes are the utility families that accept a color token.
var ColorUtilityPrefixes = []string{
	"bg", "text", "border", "ring", "outline", "divide", "decoration",
	"accent", "caret", "fill", "stroke", "placeholder", "shadow",
	"from", "via", "to",
}

var categoryOrder = []string{CategoryColor, CategoryFontFamily, CategoryMaxWidth}

var categoryDescriptions = map[string]string{
	CategoryColor:      "Brand colors, usable with every color utility",
	CategoryFontFamily: "Font stacks, used as font-<name>",
	CategoryMaxWidth:   "Maximum widths, used as max-w-<name>",
}

// Catalog holds every token a theme configuration defines.
type Catalog struct {
	Tokens     []Token    `json:"tokens"`
	Categories []Category `json:"categories"`
}

// CatalogIndex provides O(1) lookups into the catalog.
type CatalogIndex struct {
	// TokenByName maps token name -> *Token. When the same name exists in
	// several categories the first in category order wins; qualified
	// "<category>.<name>" keys are always present.
	TokenByName map[string]*Token

	// TokenByUtility maps utility class -> *Token.
	TokenByUtility map[string]*Token

	// TokensByCategory maps category name -> []*Token.
	TokensByCategory map[string][]*Token
}

// Build derives the catalog of cfg. Tokens are ordered by category then name.
func Build(cfg *theme.Config) *Catalog {
	cat := &Catalog{Tokens: make([]Token, 0)}
	ext := cfg.Theme.Extend

	for _, name := range sortedKeys(ext.Colors) {
		cat.Tokens = append(cat.Tokens, Token{
			Name:      name,
			Category:  CategoryColor,
			Value:     ext.Colors[name],
			Utilities: ColorUtilities(name),
		})
	}
	for _, name := range sortedKeys(ext.FontFamily) {
		chain := ext.FontFamily[name]
		tok := Token{Name: name, Category: CategoryFontFamily, Utilities: []string{"font-" + name}}
		if len(chain) > 0 {
			tok.Value = chain[0]
			tok.Fallbacks = slices.Clone(chain[1:])
		}
		cat.Tokens = append(cat.Tokens, tok)
	}
	for _, name := range sortedKeys(ext.MaxWidth) {
		cat.Tokens = append(cat.Tokens, Token{
			Name:      name,
			Category:  CategoryMaxWidth,
			Value:     ext.MaxWidth[name],
			Utilities: []string{"max-w-" + name},
		})
	}

	for _, c := range categoryOrder {
		category := Category{Name: c, Description: categoryDescriptions[c], Tokens: make([]string, 0)}
		for _, t := range cat.Tokens {
			if t.Category == c {
				category.Tokens = append(category.Tokens, t.Name)
			}
		}
		cat.Categories = append(cat.Categories, category)
	}
	return cat
}

// ColorUtilities returns the color utility classes for a color token.
func ColorUtilities(name string) []string {
	out := make([]string, len(ColorUtilityPrefixes))
	for i, p := range ColorUtilityPrefixes {
		out[i] = p + "-" + name
	}
	return out
}

// Validate checks the catalog for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (c *Catalog) Validate() []error {
	var errs []error
	seen := make(map[string]string)
	for _, t := range c.Tokens {
		if !slices.Contains(categoryOrder, t.Category) {
			errs = append(errs, fmt.Errorf("token %q: unknown category %q", t.Name, t.Category))
		}
		for _, u := range t.Utilities {
			if owner, ok := seen[u]; ok {
				errs = append(errs, fmt.Errorf("token %q: utility %q already provided by %s", t.Name, u, owner))
				continue
			}
			seen[u] = t.Category + "." + t.Name
		}
	}
	return errs
}

// Lint runs theme.Validate and adds an issue for every catalog
// inconsistency in the tokens cfg defines. Issues stay sorted by path.
func Lint(cfg *theme.Config) []theme.Issue {
	issues := theme.Validate(cfg)
	if cfg == nil {
		return issues
	}
	for _, err := range Build(cfg).Validate() {
		issues = append(issues, theme.Issue{
			Rule:     "catalog",
			Path:     "theme.extend",
			Message:  err.Error(),
			Severity: theme.SeverityError,
		})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues
}

// BuildIndex creates lookup maps for fast access.
func (c *Catalog) BuildIndex() *CatalogIndex {
	idx := &CatalogIndex{
		TokenByName:      make(map[string]*Token, len(c.Tokens)),
		TokenByUtility:   make(map[string]*Token),
		TokensByCategory: make(map[string][]*Token),
	}
	for i := range c.Tokens {
		t := &c.Tokens[i]
		if _, ok := idx.TokenByName[t.Name]; !ok {
			idx.TokenByName[t.Name] = t
		}
		idx.TokenByName[t.Category+"."+t.Name] = t
		idx.TokensByCategory[t.Category] = append(idx.TokensByCategory[t.Category], t)
		for _, u := range t.Utilities {
			if _, ok := idx.TokenByUtility[u]; !ok {
				idx.TokenByUtility[u] = t
			}
		}
	}
	return idx
}

// FirstSegment returns the part of a token name before the first dash.
func FirstSegment(name string) string {
	head, _, _ := strings.Cut(name, "-")
	return head
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
