package jsconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/cafetheme/configs"
	"github.com/gnana997/cafetheme/pkg/theme"
)

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	l := NewLoader(nil)
	t.Cleanup(l.Close)
	return l
}

func TestParse_EmbeddedCafeConfigMatchesDefault(t *testing.T) {
	res, err := newTestLoader(t).Parse(configs.CafeJS, DialectJavaScript)
	require.NoError(t, err)
	assert.Empty(t, res.Ignored)
	assert.True(t, theme.Equal(theme.Default(), res.Config), "embedded config drifted from theme.Default")
	assert.Equal(t, `"游ゴシック Medium"`, res.Config.Theme.Extend.FontFamily["yugothic"][1])
}

func TestWrite_RoundTrip(t *testing.T) {
	cfg := theme.Default()
	cfg.Plugins = []theme.PluginRef{"require('@tailwindcss/forms')"}
	cfg.Theme.Extend.Colors["quote's"] = "#fff"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, cfg))
	assert.Contains(t, buf.String(), "module.exports = {")
	assert.Contains(t, buf.String(), "'container': '1100px',")

	res, err := newTestLoader(t).Parse(buf.Bytes(), DialectJavaScript)
	require.NoError(t, err)
	assert.True(t, theme.Equal(cfg, res.Config))
}

func TestWriteSyntax_RoundTrip(t *testing.T) {
	tests := []struct {
		file    string
		syntax  Syntax
		dialect Dialect
		opening string
		closing string
	}{
		{"tailwind.config.cjs", SyntaxCommonJS, DialectJavaScript, "module.exports = {", "}\n"},
		{"tailwind.config.mjs", SyntaxESM, DialectJavaScript, "export default {", "}\n"},
		{"tailwind.config.ts", SyntaxTypeScript, DialectTypeScript, "export default {", "} satisfies Config\n"},
		{"tailwind.config.mts", SyntaxTypeScript, DialectTypeScript, "export default {", "} satisfies Config\n"},
		{"tailwind.config.cts", SyntaxCommonJS, DialectTypeScript, "module.exports = {", "}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			require.Equal(t, tt.syntax, SyntaxFor(tt.file))

			var buf bytes.Buffer
			require.NoError(t, WriteSyntax(&buf, theme.Default(), tt.syntax))
			out := buf.String()
			assert.Contains(t, out, tt.opening)
			assert.True(t, strings.HasSuffix(out, tt.closing), out)
			if tt.syntax == SyntaxCommonJS {
				assert.NotContains(t, out, "export default")
			} else {
				assert.NotContains(t, out, "module.exports")
			}

			res, err := newTestLoader(t).Parse(buf.Bytes(), tt.dialect)
			require.NoError(t, err)
			assert.True(t, theme.Equal(theme.Default(), res.Config))
		})
	}
}

func TestWrite_EmptyPlugins(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, theme.Default()))
	assert.Contains(t, buf.String(), "  plugins: [],\n")
}

func TestParse_TypeScriptSatisfies(t *testing.T) {
	src := `import type { Config } from 'tailwindcss'

export default {
  content: ['./pages/**/*.py'],
  theme: {
    extend: {
      maxWidth: { container: '1100px' },
    },
  },
  plugins: [],
} satisfies Config
`
	res, err := newTestLoader(t).Parse([]byte(src), DialectTypeScript)
	require.NoError(t, err)
	assert.Equal(t, []theme.GlobPattern{"./pages/**/*.py"}, res.Config.Content)
	assert.Equal(t, "1100px", res.Config.Theme.Extend.MaxWidth["container"])
}

func TestParse_ResolvesTopLevelBindings(t *testing.T) {
	src := `const brand = { brown: '#432', DEFAULT: '#0bd' };
const config = {
  content: { files: ["./templates/**/*.html"], extract: {} },
  theme: { extend: { colors: { cafe: brand } } },
  plugins: [require("@tailwindcss/typography")],
};
export default config;
`
	res, err := newTestLoader(t).Parse([]byte(src), DialectJavaScript)
	require.NoError(t, err)

	cfg := res.Config
	assert.Equal(t, []theme.GlobPattern{"./templates/**/*.html"}, cfg.Content)
	assert.Equal(t, map[string]string{"cafe-brown": "#432", "cafe": "#0bd"}, cfg.Theme.Extend.Colors)
	assert.Equal(t, []theme.PluginRef{`require("@tailwindcss/typography")`}, cfg.Plugins)
	assert.Contains(t, res.Ignored, "content.extract")
}

func TestParse_FontFamilyForms(t *testing.T) {
	src := `module.exports = {
  content: [],
  theme: { extend: { fontFamily: {
    body: 'Philosopher, serif',
    mono: [['Fira Code', 'monospace'], { fontFeatureSettings: '"calt"' }],
  } } },
}`
	res, err := newTestLoader(t).Parse([]byte(src), DialectJavaScript)
	require.NoError(t, err)
	fonts := res.Config.Theme.Extend.FontFamily
	assert.Equal(t, []string{"Philosopher", "serif"}, fonts["body"])
	assert.Equal(t, []string{"Fira Code", "monospace"}, fonts["mono"])
	assert.Contains(t, res.Ignored, "theme.extend.fontFamily.mono[1]")
}

func TestParse_IgnoredKeys(t *testing.T) {
	src := `module.exports = {
  darkMode: 'class',
  content: ['./a/**/*.html'],
  theme: { screens: {}, extend: { spacing: { 18: '4.5rem' } } },
  plugins: [],
}`
	res, err := newTestLoader(t).Parse([]byte(src), DialectJavaScript)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"darkMode", "theme.screens", "theme.extend.spacing"}, res.Ignored)
}

func TestParse_Errors(t *testing.T) {
	l := newTestLoader(t)

	_, err := l.Parse([]byte(`const x = { content: [] };`), DialectJavaScript)
	assert.ErrorIs(t, err, ErrNoExport)

	_, err = l.Parse([]byte("module.exports = {\n  content: [\n"), DialectJavaScript)
	assert.ErrorIs(t, err, ErrSyntax)

	_, err = l.Parse([]byte(`module.exports = { content: 'nope' }`), DialectJavaScript)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content: expected array, got string")

	_, err = l.Parse([]byte(`module.exports = ['not', 'an', 'object']`), DialectJavaScript)
	assert.Error(t, err)
}

func TestParseFile_DetectsDialect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tailwind.config.ts")
	src := "const config: { content: string[] } = { content: ['./x/**/*.html'] }\nexport default config\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	res, err := newTestLoader(t).ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, DialectTypeScript, res.Dialect)
	assert.Equal(t, []theme.GlobPattern{"./x/**/*.html"}, res.Config.Content)
}

func TestUnescape(t *testing.T) {
	tests := map[string]string{
		`plain`:       "plain",
		`it\'s`:       "it's",
		`a\\b`:        `a\b`,
		`\u6e38`:      "游",
		`\u{1F600}`:   "😀",
		`\x41B`:       "AB",
		`line\nbreak`: "line\nbreak",
		`\"quoted\"`:  `"quoted"`,
		`trailing\`:   `trailing\`,
	}
	for in, want := range tests {
		assert.Equal(t, want, unescape(in), in)
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `'"Yu Mincho"'`, quote(`"Yu Mincho"`))
	assert.Equal(t, `'it\'s'`, quote("it's"))
	assert.Equal(t, `'a\\b\n'`, quote("a\\b\n"))
}
