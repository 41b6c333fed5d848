package jsconfig

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnana997/cafetheme/pkg/theme"
)

const (
	header       = "/** @type {import('tailwindcss').Config} */\n"
	importConfig = "import type { Config } from 'tailwindcss'\n\n"
)

// Syntax is the module form of a written config.
type Syntax int

const (
	// SyntaxCommonJS writes module.exports = {...}.
	SyntaxCommonJS Syntax = iota
	// SyntaxESM writes export default {...}.
	SyntaxESM
	// SyntaxTypeScript writes export default {...} satisfies Config.
	SyntaxTypeScript
)

// SyntaxFor returns the module form a config file name calls for: ES
// modules for .mjs, typed ES modules for .ts and .mts, CommonJS otherwise.
func SyntaxFor(path string) Syntax {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mjs":
		return SyntaxESM
	case ".ts", ".mts":
		return SyntaxTypeScript
	default:
		return SyntaxCommonJS
	}
}

// Write emits cfg as a CommonJS tailwind.config.js.
func Write(w io.Writer, cfg *theme.Config) error {
	return WriteSyntax(w, cfg, SyntaxCommonJS)
}

// WriteSyntax emits cfg in the given module form. Map keys are sorted so
// output is stable; plugin references are written verbatim.
func WriteSyntax(w io.Writer, cfg *theme.Config, syntax Syntax) error {
	bw := bufio.NewWriter(w)
	ext := cfg.Theme.Extend

	switch syntax {
	case SyntaxESM:
		bw.WriteString(header)
		bw.WriteString("export default {\n")
	case SyntaxTypeScript:
		bw.WriteString(importConfig)
		bw.WriteString("export default {\n")
	default:
		bw.WriteString(header)
		bw.WriteString("module.exports = {\n")
	}

	bw.WriteString("  content: [\n")
	for _, g := range cfg.Content {
		fmt.Fprintf(bw, "    %s,\n", quote(string(g)))
	}
	bw.WriteString("  ],\n")

	bw.WriteString("  theme: {\n    extend: {\n")
	writeStringMap(bw, "colors", ext.Colors)

	bw.WriteString("      fontFamily: {\n")
	for _, name := range sortedKeys(ext.FontFamily) {
		fonts := make([]string, len(ext.FontFamily[name]))
		for i, f := range ext.FontFamily[name] {
			fonts[i] = quote(f)
		}
		fmt.Fprintf(bw, "        %s: [%s],\n", quote(name), strings.Join(fonts, ", "))
	}
	bw.WriteString("      },\n")

	writeStringMap(bw, "maxWidth", ext.MaxWidth)
	bw.WriteString("    },\n  },\n")

	if len(cfg.Plugins) == 0 {
		bw.WriteString("  plugins: [],\n")
	} else {
		bw.WriteString("  plugins: [\n")
		for _, p := range cfg.Plugins {
			fmt.Fprintf(bw, "    %s,\n", p)
		}
		bw.WriteString("  ],\n")
	}
	if syntax == SyntaxTypeScript {
		bw.WriteString("} satisfies Config\n")
	} else {
		bw.WriteString("}\n")
	}

	return bw.Flush()
}

func writeStringMap(w *bufio.Writer, key string, m map[string]string) {
	fmt.Fprintf(w, "      %s: {\n", key)
	for _, name := range sortedKeys(m) {
		fmt.Fprintf(w, "        %s: %s,\n", quote(name), quote(m[name]))
	}
	w.WriteString("      },\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// quote renders s as a single-quoted JavaScript string literal.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
