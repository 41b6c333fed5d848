// Package watch keeps a loaded theme configuration and its content index in
// sync with the files on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/cafetheme/pkg/catalog"
	"github.com/gnana997/cafetheme/pkg/content"
	"github.com/gnana997/cafetheme/pkg/loader"
	"github.com/gnana997/cafetheme/pkg/theme"
)

// DefaultDebounce groups bursts of events for one file.
const DefaultDebounce = 200 * time.Millisecond

// ErrStopped is returned by Start after Stop.
var ErrStopped = errors.New("watcher already stopped")

// ConfigEvent reports a reload of the configuration file. Err is set when
// the file could not be read or parsed; the previous config stays active.
type ConfigEvent struct {
	Loaded *loader.Loaded
	Issues []theme.Issue
	Err    error
}

// ContentEvent reports a content file that was re-extracted or dropped.
type ContentEvent struct {
	Path    string
	Removed bool
	Err     error
}

// Options configures a Watcher.
type Options struct {
	// ConfigPath is the theme configuration file to watch.
	ConfigPath string
	// ContentDir overrides the base directory for content globs, which
	// defaults to the config file's directory.
	ContentDir string
	// Exclude and Workers are passed to content scans.
	Exclude []string
	Workers int
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	OnConfig  func(ConfigEvent)
	OnContent func(ContentEvent)
}

// Watcher watches the config file and the content directories.
//
//	w := watch.New(ld, scanner, opts, logger)
//	if err := w.Start(ctx); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	loader  *loader.Loader
	scanner *content.Scanner
	opts    Options
	logger  *slog.Logger

	fsw     *fsnotify.Watcher
	current *loader.Loaded
	scan    content.ScanConfig

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	loopDone chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// Stats contains watcher statistics.
type Stats struct {
	PendingEvents int
	WatchedDirs   int
	IsRunning     bool
}

// New creates a watcher. Nothing is watched until Start.
func New(ld *loader.Loader, scanner *content.Scanner, opts Options, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{
		loader:         ld,
		scanner:        scanner,
		opts:           opts,
		logger:         logger,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
		loopDone:       make(chan struct{}),
	}
}

// Start loads the configuration, scans its content and begins watching.
// Calling Start again while running is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrStopped
	}
	if w.started {
		return nil
	}

	loaded, err := w.loader.Load(w.opts.ConfigPath)
	if err != nil {
		return err
	}
	w.current = loaded
	w.opts.ConfigPath = loaded.Path
	w.scan = w.scanConfig(loaded)

	if _, err := w.scanner.Scan(ctx, w.contentDir(), w.scan); err != nil {
		return fmt.Errorf("initial content scan: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsw = fsw

	if err := fsw.Add(loaded.Dir); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", loaded.Dir, err)
	}
	w.addContentRoots()

	w.started = true
	w.logger.Info("watcher started", "config", loaded.Path, "dirs", len(fsw.WatchList()))
	go w.eventLoop(fsw)
	return nil
}

// Stop stops the watcher. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopChan)
	started := w.started
	w.mu.Unlock()

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	if !started {
		return nil
	}
	err := w.fsw.Close()
	<-w.loopDone
	w.logger.Info("watcher stopped")
	return err
}

// Current returns the active configuration.
func (w *Watcher) Current() *loader.Loaded {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Stats returns watcher statistics.
func (w *Watcher) Stats() Stats {
	w.debounceMu.Lock()
	pending := len(w.debounceTimers)
	w.debounceMu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()
	s := Stats{PendingEvents: pending, IsRunning: w.started && !w.stopped}
	if w.fsw != nil && s.IsRunning {
		s.WatchedDirs = len(w.fsw.WatchList())
	}
	return s
}

func (w *Watcher) scanConfig(loaded *loader.Loaded) content.ScanConfig {
	cfg := content.DefaultScanConfig(loaded.Config.ContentStrings())
	cfg.Exclude = append(cfg.Exclude, w.opts.Exclude...)
	cfg.Workers = w.opts.Workers
	return cfg
}

// contentDir must be called with mu held.
func (w *Watcher) contentDir() string {
	if w.opts.ContentDir != "" {
		return w.opts.ContentDir
	}
	return w.current.Dir
}

// addContentRoots must be called with mu held.
func (w *Watcher) addContentRoots() {
	for _, root := range content.WatchRoots(w.contentDir(), w.scan.Globs) {
		w.addTree(root)
	}
}

// addTree watches dir and every non-excluded directory below it.
func (w *Watcher) addTree(dir string) {
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.excludedDir(path) {
			return filepath.SkipDir
		}
		if slices.Contains(w.fsw.WatchList(), path) {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
	if err != nil {
		w.logger.Warn("failed to walk content directory", "path", dir, "error", err)
	}
}

func (w *Watcher) excludedDir(path string) bool {
	rel, err := filepath.Rel(w.contentDir(), path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	return content.Matches(w.scan.Exclude, rel+"/") || content.Matches(w.scan.Exclude, rel)
}

func (w *Watcher) eventLoop(fsw *fsnotify.Watcher) {
	defer close(w.loopDone)
	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	w.logger.Debug("file event", "op", event.Op.String(), "file", path)

	if path == w.opts.ConfigPath {
		w.debounce(path, w.reloadConfig)
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.mu.Lock()
			w.addTree(path)
			w.mu.Unlock()
			w.debounce(path, func() { w.rescanDir(path) })
			return
		}
	}

	w.mu.Lock()
	base, scan := w.contentDir(), w.scan
	w.mu.Unlock()
	if !content.MatchesContent(base, path, scan) {
		return
	}

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.debounce(path, func() { w.rescanFile(path) })
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.cancel(path)
		w.scanner.Forget(path)
		w.emitContent(ContentEvent{Path: path, Removed: true})
	}
}

// debounce runs fn once no event for key has arrived for the debounce
// window.
func (w *Watcher) debounce(key string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounceTimers[key]; ok {
		timer.Stop()
	}
	w.debounceTimers[key] = time.AfterFunc(w.opts.Debounce, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, key)
		w.debounceMu.Unlock()

		select {
		case <-w.stopChan:
			return
		default:
		}
		fn()
	})
}

func (w *Watcher) cancel(key string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if timer, ok := w.debounceTimers[key]; ok {
		timer.Stop()
		delete(w.debounceTimers, key)
	}
}

func (w *Watcher) rescanFile(path string) {
	if err := w.scanner.Rescan(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			w.emitContent(ContentEvent{Path: path, Removed: true})
			return
		}
		w.logger.Warn("failed to re-extract content file", "file", path, "error", err)
		w.emitContent(ContentEvent{Path: path, Err: err})
		return
	}
	w.emitContent(ContentEvent{Path: path})
}

// rescanDir picks up files that were created together with a new directory.
func (w *Watcher) rescanDir(dir string) {
	w.mu.Lock()
	base, scan := w.contentDir(), w.scan
	w.mu.Unlock()

	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if content.MatchesContent(base, path, scan) {
			w.rescanFile(path)
		}
		return nil
	})
}

func (w *Watcher) reloadConfig() {
	loaded, err := w.loader.Load(w.opts.ConfigPath)
	if err != nil {
		w.logger.Warn("failed to reload theme configuration", "path", w.opts.ConfigPath, "error", err)
		w.emitConfig(ConfigEvent{Err: err})
		return
	}
	issues := catalog.Lint(loaded.Config)

	w.mu.Lock()
	prev := w.scan
	w.current = loaded
	w.scan = w.scanConfig(loaded)
	globsChanged := !slices.Equal(prev.Globs, w.scan.Globs)
	if globsChanged && !w.stopped {
		w.addContentRoots()
	}
	scan, base := w.scan, w.contentDir()
	w.mu.Unlock()

	if globsChanged {
		w.scanner.Index().Clear()
		if _, err := w.scanner.Scan(context.Background(), base, scan); err != nil {
			w.logger.Warn("content rescan after config change failed", "error", err)
		}
	}

	w.logger.Info("theme configuration reloaded",
		"path", loaded.Path,
		"issues", len(issues),
		"content_changed", globsChanged)
	w.emitConfig(ConfigEvent{Loaded: loaded, Issues: issues})
}

func (w *Watcher) emitConfig(ev ConfigEvent) {
	if w.opts.OnConfig != nil {
		w.opts.OnConfig(ev)
	}
}

func (w *Watcher) emitContent(ev ContentEvent) {
	if w.opts.OnContent != nil {
		w.opts.OnContent(ev)
	}
}
