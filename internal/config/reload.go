package config

import (
	"github.com/dshills/keypad/internal/config/watcher"
	"github.com/dshills/keypad/internal/logging"
)

// Reloader reloads a config file whenever it changes.
type Reloader struct {
	path     string
	opts     []LoadOption
	watcher  *watcher.Watcher
	logger   *logging.Logger
	onChange func(*Config)
}

// Watch starts watching the file at path. onChange receives every
// successfully loaded and validated config; failed reloads are logged and
// skipped. Call Close to stop.
func Watch(path string, logger *logging.Logger, onChange func(*Config), opts ...LoadOption) (*Reloader, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	r := &Reloader{
		path:     path,
		opts:     opts,
		logger:   logger.WithComponent("config"),
		onChange: onChange,
	}

	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		r.logger.Warn("watching %s: %v", path, err)
	}))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}
	w.OnChange(r.handle)
	if err := w.Start(); err != nil {
		_ = w.Close()
		return nil, err
	}
	r.watcher = w
	return r, nil
}

func (r *Reloader) handle(e watcher.Event) {
	if e.Op == watcher.OpRemove || e.Op == watcher.OpRename {
		r.logger.Warn("%s was removed, keeping current settings", r.path)
		return
	}
	r.reload()
}

func (r *Reloader) reload() {
	cfg, err := Load(r.path, r.opts...)
	if err != nil {
		r.logger.Warn("reload %s: %v", r.path, err)
		return
	}
	r.logger.Info("reloaded %s", r.path)
	if r.onChange != nil {
		r.onChange(cfg)
	}
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.watcher.Close()
}
