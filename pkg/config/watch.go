package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration whenever the config file is written,
// created or renamed into place, and passes the result to onChange. A
// config that fails to load or validate is reported as an error and the
// previous global config is kept. Watch blocks until ctx is done.
func Watch(ctx context.Context, onChange func(*HostwatchConfig, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors and config management replace the
	// file rather than writing it in place.
	dir := Dir()
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Join(dir, ConfigFileName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			cfg, err := Reload()
			onChange(cfg, err)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onChange(nil, err)
		}
	}
}
