package theme

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies a serialized configuration format.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatJS      Format = "js"
	FormatUnknown Format = ""
)

// ErrScriptFormat is returned by Encode and Decode for FormatJS; script
// configs are handled by the jsconfig package.
var ErrScriptFormat = errors.New("script configs are handled by jsconfig")

// FormatFromPath detects the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".js", ".cjs", ".mjs", ".ts", ".mts", ".cts":
		return FormatJS
	default:
		return FormatUnknown
	}
}

// ParseFormat converts a user supplied format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "js", "javascript":
		return FormatJS, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown format %q", name)
	}
}

// Encode writes cfg to w in the given data format.
func Encode(w io.Writer, cfg *Config, format Format) error {
	out := cfg.Clone()
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(out); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	case FormatJS:
		return ErrScriptFormat
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Marshal is Encode into a byte slice.
func Marshal(cfg *Config, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, cfg, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses data in the given data format. Missing collections come
// back empty, never nil.
func Decode(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	case FormatJS:
		return nil, ErrScriptFormat
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	cfg.Normalize()
	return &cfg, nil
}
