// Package loader finds a theme configuration file by convention and loads
// it in whichever format it was authored.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/renameio/v2"

	"github.com/gnana997/cafetheme/pkg/jsconfig"
	"github.com/gnana997/cafetheme/pkg/theme"
)

var (
	// ErrNotFound means no conventional config file exists in a directory.
	ErrNotFound = errors.New("no theme configuration found")
	// ErrUnsupportedFormat means the file extension maps to no known format.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
)

// ConventionalNames lists the file names Locate looks for, highest
// priority first.
var ConventionalNames = []string{
	"tailwind.config.js",
	"tailwind.config.cjs",
	"tailwind.config.mjs",
	"tailwind.config.ts",
	"tailwind.config.json",
	"tailwind.config.yaml",
	"tailwind.config.yml",
	"tailwind.config.toml",
}

// Loaded is a configuration read from disk.
type Loaded struct {
	Path   string
	Dir    string // base directory for content globs
	Format theme.Format
	Config *theme.Config
	// Ignored lists script keys with no theme mapping (script formats only).
	Ignored []string
}

// Loader reads configuration files. Close releases the script parsers.
type Loader struct {
	js     *jsconfig.Loader
	logger *slog.Logger
}

// New creates a Loader. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{js: jsconfig.NewLoader(logger), logger: logger}
}

// Close releases parser resources.
func (l *Loader) Close() {
	l.js.Close()
}

// Locate returns the highest-priority conventional config file in dir.
func Locate(dir string) (string, error) {
	for _, name := range ConventionalNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNotFound, dir)
}

// LoadDir locates and loads the config in dir.
func (l *Loader) LoadDir(dir string) (*Loaded, error) {
	path, err := Locate(dir)
	if err != nil {
		return nil, err
	}
	return l.Load(path)
}

// Load reads the config at path, choosing the decoder by extension.
func (l *Loader) Load(path string) (*Loaded, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	format := theme.FormatFromPath(abs)
	loaded := &Loaded{Path: abs, Dir: filepath.Dir(abs), Format: format}

	switch format {
	case theme.FormatUnknown:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	case theme.FormatJS:
		res, err := l.js.ParseFile(abs)
		if err != nil {
			return nil, err
		}
		loaded.Config = res.Config
		loaded.Ignored = res.Ignored
	default:
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		cfg, err := theme.Decode(data, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		loaded.Config = cfg
	}

	l.logger.Debug("loaded theme configuration",
		"path", abs,
		"format", string(format),
		"content_globs", len(loaded.Config.Content),
		"ignored", len(loaded.Ignored))
	return loaded, nil
}

// Render serializes cfg in the given format. Script output is CommonJS.
func Render(cfg *theme.Config, format theme.Format) ([]byte, error) {
	return render(cfg, format, jsconfig.SyntaxCommonJS)
}

// RenderFile serializes cfg for path and reports the format used. The
// format comes from the extension unless format is set. Script output
// takes the module form the extension calls for (export default for .mjs,
// .mts and .ts).
func RenderFile(path string, cfg *theme.Config, format theme.Format) ([]byte, theme.Format, error) {
	if format == theme.FormatUnknown {
		format = theme.FormatFromPath(path)
	}
	if format == theme.FormatUnknown {
		return nil, format, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	data, err := render(cfg, format, jsconfig.SyntaxFor(path))
	return data, format, err
}

func render(cfg *theme.Config, format theme.Format, syntax jsconfig.Syntax) ([]byte, error) {
	if format == theme.FormatJS {
		var buf bytes.Buffer
		if err := jsconfig.WriteSyntax(&buf, cfg, syntax); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return theme.Marshal(cfg, format)
}

// Save writes cfg to path atomically, in the format and module form
// implied by the extension.
func Save(path string, cfg *theme.Config) error {
	data, _, err := RenderFile(path, cfg, theme.FormatUnknown)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer pending.Cleanup()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Diff returns a readable structural diff from want to got, or "" when
// they are equal. Nil and empty collections are treated alike.
func Diff(want, got *theme.Config) string {
	return cmp.Diff(want, got, cmpopts.EquateEmpty())
}
