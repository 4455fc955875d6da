// Package app wires configuration, logging and the grid engine into the
// dsvedit command.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dshills/dsvedit/internal/config"
	"github.com/dshills/dsvedit/internal/config/watcher"
	"github.com/dshills/dsvedit/internal/dsv"
	"github.com/dshills/dsvedit/internal/engine"
	"github.com/dshills/dsvedit/internal/engine/labels"
	"github.com/dshills/dsvedit/internal/event"
	"github.com/dshills/dsvedit/internal/script"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty uses defaults and the
	// environment only.
	ConfigPath string

	// LogLevel overrides the configured level when set.
	LogLevel string

	// Logger replaces the default stderr logger.
	Logger *Logger
}

// Application holds one open document and its editing engine.
type Application struct {
	mu sync.Mutex

	opts   Options
	cfg    *config.Config
	logger *Logger

	path    string
	model   *engine.Model
	labeler labels.Labeler
	sub     event.Subscription
	dirty   atomic.Bool

	watcher *watcher.Watcher
}

// New loads configuration and creates an application with no document.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(DefaultLoggerConfig())
	}
	level := cfg.Logging.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger.SetLevel(ParseLogLevel(level))

	return &Application{opts: opts, cfg: cfg, logger: logger}, nil
}

// Config returns the active settings.
func (a *Application) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Logger returns the application logger.
func (a *Application) Logger() *Logger {
	return a.logger
}

// Model returns the engine of the open document, or nil.
func (a *Application) Model() *engine.Model {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.model
}

// Path returns the file the document was opened from.
func (a *Application) Path() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

// Dirty reports whether the document changed since it was opened or saved.
func (a *Application) Dirty() bool {
	return a.dirty.Load()
}

// Open reads a DSV file and makes it the current document.
func (a *Application) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewOperationError("open", path, err)
	}
	if err := a.OpenText(string(data)); err != nil {
		return NewOperationError("open", path, err)
	}

	a.mu.Lock()
	a.path = path
	a.mu.Unlock()
	a.logger.Info("opened %s", path)
	return nil
}

// OpenText makes text the current document.
func (a *Application) OpenText(text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	cfg := a.cfg
	doc, err := dsv.New(dsv.Options{
		Data:         text,
		Delimiter:    cfg.Document.Delimiter,
		RowDelimiter: cfg.Document.RowDelimiter,
		Quote:        cfg.Document.QuoteByte(),
		Header:       cfg.Document.Header,
	})
	if err != nil {
		return err
	}

	labeler, err := a.newLabeler()
	if err != nil {
		return err
	}

	model, err := engine.New(doc,
		engine.WithMaxUndoEntries(cfg.History.MaxEntries),
		engine.WithLabeler(labeler),
		engine.WithLogger(a.logger.WithComponent("engine")),
		engine.WithStrict(cfg.Strict),
		engine.WithPasteSeparators(cfg.Paste.FieldSeparator, cfg.Paste.RowSeparator),
	)
	if err != nil {
		closeLabeler(labeler)
		return err
	}

	sub, err := model.Subscribe(event.TopicChanged, func(ev event.Event) {
		a.dirty.Store(true)
		a.logger.Debug("grid %s", ev.Change)
	})
	if err != nil {
		closeLabeler(labeler)
		return err
	}

	a.closeDocumentLocked()
	a.model, a.labeler, a.sub = model, labeler, sub
	a.dirty.Store(false)
	a.logger.Debug("document has %d rows and %d columns",
		model.RowCount(dsv.RegionBody), model.ColumnCount(dsv.RegionBody))
	return nil
}

// newLabeler builds the column labeler. A lua script setting naming an
// existing file is read from that file.
func (a *Application) newLabeler() (labels.Labeler, error) {
	src := a.cfg.Labels.Script
	if a.cfg.Labels.Scheme == labels.SchemeLua && src != "" {
		path := src
		if !filepath.IsAbs(path) && a.opts.ConfigPath != "" {
			path = filepath.Join(filepath.Dir(a.opts.ConfigPath), path)
		}
		if data, err := os.ReadFile(path); err == nil {
			src = string(data)
		}
	}
	return labels.ByName(a.cfg.Labels.Scheme, src)
}

func closeLabeler(l labels.Labeler) {
	if c, ok := l.(interface{ Close() }); ok {
		c.Close()
	}
}

func (a *Application) closeDocumentLocked() {
	if a.sub != nil {
		a.sub.Cancel()
	}
	if a.labeler != nil {
		closeLabeler(a.labeler)
	}
	a.model, a.labeler, a.sub = nil, nil, nil
}

func (a *Application) requireModel() (*engine.Model, error) {
	m := a.Model()
	if m == nil {
		return nil, NewOperationError("edit", "", ErrNoDocument)
	}
	return m, nil
}

// ApplyScript runs an edit script against the current document.
func (a *Application) ApplyScript(ctx context.Context, s *script.Script) error {
	m, err := a.requireModel()
	if err != nil {
		return err
	}
	a.logger.Info("applying %s (%d steps)", s.Name, len(s.Steps))
	if err := s.Apply(ctx, m); err != nil {
		return NewOperationError("apply", s.Name, err)
	}
	return nil
}

// ApplyStep runs one edit step.
func (a *Application) ApplyStep(step script.Step) error {
	m, err := a.requireModel()
	if err != nil {
		return err
	}
	return step.Apply(m)
}

// Save writes the document to path, or to the file it was opened from
// when path is empty. The file is replaced atomically.
func (a *Application) Save(path string) error {
	m, err := a.requireModel()
	if err != nil {
		return err
	}
	if path == "" {
		path = a.Path()
	}
	if path == "" {
		return NewOperationError("save", "", ErrNoPath)
	}

	if err := writeFileAtomic(path, []byte(m.RawData())); err != nil {
		return NewOperationError("save", path, err)
	}
	a.dirty.Store(false)
	a.logger.Info("saved %s", path)
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, mode); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}

// WatchConfig reloads the settings file when it changes. Only the log level
// takes effect on the open document; other settings apply to the next Open.
func (a *Application) WatchConfig() error {
	if a.opts.ConfigPath == "" {
		return nil
	}
	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		a.logger.Warn("config watcher: %v", err)
	}))
	if err != nil {
		return &InitError{Component: "config watcher", Err: err}
	}
	if err := w.Watch(a.opts.ConfigPath); err != nil {
		_ = w.Close()
		return &InitError{Component: "config watcher", Err: err}
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		if err := a.ReloadConfig(); err != nil {
			a.logger.Warn("reloading %s: %v", ev.Path, err)
		}
	})

	a.mu.Lock()
	a.watcher = w
	a.mu.Unlock()
	return nil
}

// ReloadConfig reads the settings again and applies the log level.
func (a *Application) ReloadConfig() error {
	cfg, err := config.Load(a.opts.ConfigPath)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	if a.opts.LogLevel == "" {
		a.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))
	}
	a.logger.Info("configuration reloaded")
	return nil
}

// Close releases the document and stops the config watcher.
func (a *Application) Close() error {
	a.mu.Lock()
	w := a.watcher
	a.watcher = nil
	a.closeDocumentLocked()
	a.mu.Unlock()

	if w != nil {
		if err := w.Close(); err != nil {
			return fmt.Errorf("closing config watcher: %w", err)
		}
	}
	return nil
}
