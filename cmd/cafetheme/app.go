package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/cafetheme/pkg/content"
	"github.com/gnana997/cafetheme/pkg/loader"
	"github.com/gnana997/cafetheme/pkg/theme"
	"github.com/gnana997/cafetheme/pkg/util"
)

// globalOptions are the persistent root flags.
type globalOptions struct {
	root      string
	config    string
	logLevel  string
	logFormat string
}

// app is the per-command environment: project settings, logger and a
// config loader. Close releases the loader.
type app struct {
	dir     string
	project *ProjectConfig
	config  string
	logger  *slog.Logger
	loader  *loader.Loader
}

// open resolves the project directory and settings. Flags win over
// .cafetheme/config.yaml.
func (o *globalOptions) open(cmd *cobra.Command) (*app, error) {
	dir, err := filepath.Abs(o.root)
	if err != nil {
		return nil, fmt.Errorf("resolve project directory: %w", err)
	}
	project, err := loadProjectConfig(dir)
	if err != nil {
		return nil, fmt.Errorf("load project config: %w", err)
	}

	level, format := project.LogLevel, project.LogFormat
	if o.logLevel != "" {
		level = o.logLevel
	}
	if o.logFormat != "" {
		format = o.logFormat
	}
	logCfg := util.LoggerConfigFrom(level, format)
	logCfg.Output = cmd.ErrOrStderr()
	logger := util.NewLogger(logCfg)

	config := o.config
	if config == "" {
		config = resolve(dir, project.ConfigPath)
	}

	return &app{
		dir:     dir,
		project: project,
		config:  config,
		logger:  logger,
		loader:  loader.New(logger),
	}, nil
}

func (a *app) Close() {
	a.loader.Close()
}

// builtin reports whether loaded is the compiled-in theme.
func builtin(loaded *loader.Loaded) bool {
	return loaded.Path == ""
}

// active returns the configuration commands operate on: the configured
// file, else a conventional file in the project directory, else the
// built-in theme.
func (a *app) active() (*loader.Loaded, error) {
	if a.config != "" {
		return a.loader.Load(a.config)
	}
	loaded, err := a.loader.LoadDir(a.dir)
	if errors.Is(err, loader.ErrNotFound) {
		a.logger.Debug("no configuration file found, using built-in theme", "dir", a.dir)
		return &loader.Loaded{Dir: a.dir, Format: theme.FormatJS, Config: theme.Default()}, nil
	}
	return loaded, err
}

// describe names the source of loaded for messages.
func describe(loaded *loader.Loaded) string {
	if builtin(loaded) {
		return "built-in theme"
	}
	return loaded.Path
}

// contentDir is the base directory for the content globs of loaded.
func (a *app) contentDir(loaded *loader.Loaded) string {
	if a.project.Root != "" {
		return resolve(a.dir, a.project.Root)
	}
	return loaded.Dir
}

func (a *app) scanConfig(loaded *loader.Loaded, workers int) content.ScanConfig {
	cfg := content.DefaultScanConfig(loaded.Config.ContentStrings())
	cfg.Exclude = append(cfg.Exclude, a.project.Exclude...)
	cfg.Workers = workers
	return cfg
}
