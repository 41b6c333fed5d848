// Package theme holds the cafe site's utility-class theme configuration:
// the content globs the styling engine scans and the theme extensions
// (brand colors, font-family fallback chains, maximum widths) it turns into
// utility classes.
package theme

import (
	"maps"
	"slices"
)

// GlobPattern selects files to scan for class-name usage. Patterns are
// relative to the configuration's location and their matches are unioned.
type GlobPattern string

// PluginRef is an opaque handle to a styling-engine extension, kept as the
// source expression that loads it (e.g. "require('@tailwindcss/forms')").
type PluginRef string

// Config is the configuration object handed to the styling engine.
type Config struct {
	Content []GlobPattern `json:"content" yaml:"content" toml:"content"`
	Theme   Theme         `json:"theme" yaml:"theme" toml:"theme"`
	Plugins []PluginRef   `json:"plugins" yaml:"plugins" toml:"plugins"`
}

// Theme wraps the extensions merged into the engine's default theme.
type Theme struct {
	Extend Extend `json:"extend" yaml:"extend" toml:"extend"`
}

// Extend holds the theme tokens added on top of the engine defaults.
type Extend struct {
	// Colors maps a semantic color name to a color literal.
	Colors map[string]string `json:"colors" yaml:"colors" toml:"colors"`
	// FontFamily maps a semantic font name to a fallback chain; the first
	// available font wins.
	FontFamily map[string][]string `json:"fontFamily" yaml:"fontFamily" toml:"fontFamily"`
	// MaxWidth maps a semantic size name to a length.
	MaxWidth map[string]string `json:"maxWidth" yaml:"maxWidth" toml:"maxWidth"`
}

// Serialized top-level keys.
const (
	KeyContent = "content"
	KeyTheme   = "theme"
	KeyPlugins = "plugins"
)

// Keys returns the serialized top-level keys of a Config.
func (c *Config) Keys() []string {
	return []string{KeyContent, KeyTheme, KeyPlugins}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := &Config{
		Content: slices.Clone(c.Content),
		Plugins: slices.Clone(c.Plugins),
		Theme: Theme{Extend: Extend{
			Colors:     maps.Clone(c.Theme.Extend.Colors),
			MaxWidth:   maps.Clone(c.Theme.Extend.MaxWidth),
			FontFamily: make(map[string][]string, len(c.Theme.Extend.FontFamily)),
		}},
	}
	for name, chain := range c.Theme.Extend.FontFamily {
		out.Theme.Extend.FontFamily[name] = slices.Clone(chain)
	}
	out.Normalize()
	return out
}

// Normalize replaces nil collections with empty ones so every serialized
// form carries all keys ("plugins": [] rather than null).
func (c *Config) Normalize() {
	if c.Content == nil {
		c.Content = []GlobPattern{}
	}
	if c.Plugins == nil {
		c.Plugins = []PluginRef{}
	}
	if c.Theme.Extend.Colors == nil {
		c.Theme.Extend.Colors = map[string]string{}
	}
	if c.Theme.Extend.FontFamily == nil {
		c.Theme.Extend.FontFamily = map[string][]string{}
	}
	if c.Theme.Extend.MaxWidth == nil {
		c.Theme.Extend.MaxWidth = map[string]string{}
	}
}

// ContentStrings returns the content globs as plain strings.
func (c *Config) ContentStrings() []string {
	out := make([]string, len(c.Content))
	for i, g := range c.Content {
		out[i] = string(g)
	}
	return out
}

// Equal reports whether a and b are structurally equal. Nil and empty
// collections compare equal; content order is significant only as authored.
func Equal(a, b *Config) bool {
	if a == nil || b == nil {
		return a == b
	}
	return slices.Equal(a.Content, b.Content) &&
		slices.Equal(a.Plugins, b.Plugins) &&
		maps.Equal(a.Theme.Extend.Colors, b.Theme.Extend.Colors) &&
		maps.Equal(a.Theme.Extend.MaxWidth, b.Theme.Extend.MaxWidth) &&
		maps.EqualFunc(a.Theme.Extend.FontFamily, b.Theme.Extend.FontFamily, func(x, y []string) bool {
			return slices.Equal(x, y)
		})
}
