package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree creates files (slash-separated relative paths) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
}

func cafeGlobs() []string {
	return []string{
		"./templates/**/*.html",
		"./pages/templates/**/*.html",
		"./accounts/templates/**/*.html",
		"./pages/**/*.py",
		"./accounts/**/*.py",
		"./cafeapp/**/*.py",
	}
}

func cafeTree() map[string]string {
	return map[string]string{
		"templates/base.html":                     `<body class="bg-cafe-bg font-yugothic">`,
		"pages/templates/pages/home.html":         `<h1 class="text-cafe-brown font-philosopher hover:text-cafe-cyan-dark">`,
		"accounts/templates/accounts/login.html":  `<div class="max-w-container mx-auto">`,
		"pages/forms.py":                          `attrs={'class': 'border-cafe-cyan rounded'}`,
		"pages/__pycache__/forms.cpython-312.pyc": "binary",
		"accounts/views.py":                       "def login(request): pass",
		"cafeapp/health_check.py":                 "STATUS = 'ok'",
		"static/css/site.css":                     ".bg-cafe-bg { }",
		"node_modules/pkg/index.html":             `<div class="text-cafe-brown">`,
	}
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

// openFDs counts the process's open descriptors. Skips where /proc is
// unavailable.
func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("descriptor count needs /proc/self/fd")
	}
	return len(entries)
}

// bigTemplate returns a template larger than a few pages, so it is mapped
// rather than read, with marker as its last class.
func bigTemplate(marker string) string {
	var sb strings.Builder
	for sb.Len() < 256<<10 {
		sb.WriteString(`<li class="bg-cafe-bg text-cafe-brown px-4">menu item</li>` + "\n")
	}
	sb.WriteString(`<footer class="` + marker + `"></footer>`)
	return sb.String()
}
