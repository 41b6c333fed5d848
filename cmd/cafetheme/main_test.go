package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/cafetheme/pkg/jsconfig"
	"github.com/gnana997/cafetheme/pkg/loader"
	"github.com/gnana997/cafetheme/pkg/theme"
	"github.com/gnana997/cafetheme/pkg/util"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	var out, errb bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(""), &out, &errb)
	return cliResult{code: code, stdout: out.String(), stderr: errb.String()}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestVersion(t *testing.T) {
	res := runCLI(t, "version")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "cafetheme "+version+"\n", res.stdout)
}

func TestHelp_ASCIIPunctuation(t *testing.T) {
	root := newRootCmd()
	for _, cmd := range append(root.Commands(), root) {
		assert.NotContains(t, cmd.Short, "\u2013", cmd.Name())
		assert.NotContains(t, cmd.Short, "\u2014", cmd.Name())
	}
	assert.Equal(t, "cafetheme: theme configuration for the cafe site", root.Short)
}

func TestUnknownCommand(t *testing.T) {
	res := runCLI(t, "frobnicate")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown command")
}

func TestShow_BuiltinRoundTrips(t *testing.T) {
	res := runCLI(t, "--root", t.TempDir(), "show")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "module.exports")

	l := jsconfig.NewLoader(util.NopLogger())
	defer l.Close()
	parsed, err := l.Parse([]byte(res.stdout), jsconfig.DialectJavaScript)
	require.NoError(t, err)
	assert.True(t, theme.Equal(theme.Default(), parsed.Config))
}

func TestShow_FormatsAndTokens(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, "--root", dir, "show", "--format", "yaml")
	require.Equal(t, 0, res.code)
	cfg, err := theme.Decode([]byte(res.stdout), theme.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "1100px", cfg.Theme.Extend.MaxWidth["container"])

	res = runCLI(t, "--root", dir, "show", "--tokens")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "max-w-container")
	assert.Contains(t, res.stdout, "then: YuMincho, serif")

	res = runCLI(t, "--root", dir, "show", "--format", "xml")
	assert.Equal(t, 1, res.code)
}

func TestShow_ProjectConfigPath(t *testing.T) {
	dir := t.TempDir()
	cfg := theme.Default()
	cfg.Theme.Extend.Colors["cafe-cream"] = "#fffdd0"
	require.NoError(t, os.Mkdir(filepath.Join(dir, "theme"), 0755))
	require.NoError(t, loader.Save(filepath.Join(dir, "theme", "cafe.toml"), cfg))
	writeFile(t, filepath.Join(dir, ".cafetheme", "config.yaml"), "config_path: theme/cafe.toml\nlog_level: error\n")

	res := runCLI(t, "--root", dir, "show", "--format", "json")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "cafe-cream")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	res := runCLI(t, "--root", dir, "validate")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "ok: built-in theme\n", res.stdout)

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `{"content": ["./templates/**/*.html"], "theme": {"extend": {"colors": {"cafe-brown": "brownish"}}}}`)
	res = runCLI(t, "--root", dir, "validate", bad)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "color-literal")

	warn := filepath.Join(dir, "warn.yaml")
	writeFile(t, warn, "content: ['./a/**/*.html']\ntheme:\n  extend:\n    fontFamily:\n      logo: [Pacifico]\n")
	res = runCLI(t, "--root", dir, "validate", warn)
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "font-generic-fallback")
	res = runCLI(t, "--root", dir, "validate", "--strict", warn)
	assert.Equal(t, 1, res.code)

	res = runCLI(t, "--root", dir, "validate", filepath.Join(dir, "missing.json"))
	assert.Equal(t, 1, res.code)
}

func TestExportThenDiff(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tailwind.config.js")

	res := runCLI(t, "--root", dir, "export", "--out", out)
	require.Equal(t, 0, res.code, res.stderr)
	require.FileExists(t, out)

	res = runCLI(t, "--root", dir, "-c", out, "diff", out)
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "matches")

	res = runCLI(t, "--root", t.TempDir(), "diff", out)
	assert.Equal(t, 0, res.code, "exported file matches the built-in theme")
}

func TestExport_FormatFlag(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "theme.out")

	res := runCLI(t, "--root", dir, "export", "--out", out)
	assert.Equal(t, 1, res.code, "unknown extension needs --format")

	res = runCLI(t, "--root", dir, "export", "--out", out, "--format", "toml")
	require.Equal(t, 0, res.code, res.stderr)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	cfg, err := theme.Decode(data, theme.FormatTOML)
	require.NoError(t, err)
	assert.True(t, theme.Equal(theme.Default(), cfg))
}

func TestExport_ModuleFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tailwind.config.mjs")

	res := runCLI(t, "--root", dir, "export", "--out", out)
	require.Equal(t, 0, res.code, res.stderr)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "export default {")
	assert.NotContains(t, string(data), "module.exports")

	res = runCLI(t, "--root", dir, "diff", out)
	assert.Equal(t, 0, res.code, res.stdout)
}

func TestDiff_EmbeddedReferenceMatches(t *testing.T) {
	ref, err := filepath.Abs(filepath.Join("..", "..", "configs", "cafe", "tailwind.config.js"))
	require.NoError(t, err)

	res := runCLI(t, "--root", t.TempDir(), "diff", ref)
	assert.Equal(t, 0, res.code, res.stdout)
}

func TestDiff_ReportsChanges(t *testing.T) {
	dir := t.TempDir()
	cfg := theme.Default()
	cfg.Theme.Extend.Colors["cafe-brown"] = "#543"
	other := filepath.Join(dir, "other.json")
	require.NoError(t, loader.Save(other, cfg))

	res := runCLI(t, "--root", dir, "diff", other)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "#543")
	assert.Contains(t, res.stdout, "--- built-in theme")
}

func cafeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "templates", "base.html"), `<body class="bg-cafe-bg font-yugothic">`)
	writeFile(t, filepath.Join(dir, "pages", "templates", "pages", "home.html"), `<h1 class="text-cafe-bron max-w-container">`)
	writeFile(t, filepath.Join(dir, "pages", "legacy", "old.py"), `"text-cafe-cyan"`)
	writeFile(t, filepath.Join(dir, ".cafetheme", "config.yaml"), "exclude:\n  - pages/legacy/**\n")
	return dir
}

func TestScan_Human(t *testing.T) {
	dir := cafeProject(t)
	res := runCLI(t, "--root", dir, "scan")
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Scanned 2 files")
	assert.Contains(t, res.stdout, "templates/base.html")
	assert.Contains(t, res.stdout, "text-cafe-bron  (did you mean cafe-brown?)")
	assert.NotContains(t, res.stdout, "old.py")
}

func TestScan_JSON(t *testing.T) {
	dir := cafeProject(t)
	res := runCLI(t, "--root", dir, "scan", "--json")
	require.Equal(t, 0, res.code, res.stderr)

	var out scanOutput
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, 2, out.Stats.FilesExtracted)
	assert.Equal(t, 2, out.Cache.IndexedFiles)
	assert.Equal(t, 2, out.Cache.Files.FilesCached)
	assert.Contains(t, out.Report.Unused, "cafe-cyan")
	require.Len(t, out.Report.Unknown, 1)
}

func TestWatch_NeedsConfigFile(t *testing.T) {
	res := runCLI(t, "--root", t.TempDir(), "watch")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "needs a configuration file")
}

func TestServe_WatchNeedsConfigFile(t *testing.T) {
	res := runCLI(t, "--root", t.TempDir(), "serve", "--watch")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "needs a configuration file")
}
