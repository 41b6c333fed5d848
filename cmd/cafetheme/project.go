package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const projectConfigFile = ".cafetheme/config.yaml"

// ProjectConfig holds the contents of .cafetheme/config.yaml. Relative
// paths are resolved against the project directory.
type ProjectConfig struct {
	ConfigPath string   `yaml:"config_path"`
	Root       string   `yaml:"root"`
	Exclude    []string `yaml:"exclude"`
	LogLevel   string   `yaml:"log_level"`
	LogFormat  string   `yaml:"log_format"`
	MCPLog     string   `yaml:"mcp_log"`
}

// loadProjectConfig reads .cafetheme/config.yaml from dir.
// A missing file yields an empty config.
func loadProjectConfig(dir string) (*ProjectConfig, error) {
	path := filepath.Join(dir, projectConfigFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &ProjectConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// resolve makes p absolute relative to dir. Empty stays empty.
func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
