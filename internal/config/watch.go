package config

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path for changes and calls onChange with the newly loaded
// Config each time the file is rewritten. It runs until ctx is cancelled.
//
// Only the thresholds section is retunable at runtime. When a reload also
// touches static sections (source, link, alerts, display, server), Watch
// warns that those keep their startup values until the daemon restarts.
//
// If a reload fails (e.g., invalid YAML or a threshold inversion), the error
// is logged, the previous config remains active, and onChange is not called.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	// Baseline for restart-required warnings. The daemon loaded and
	// validated this same file at startup.
	prev, err := Load(path)
	if err != nil {
		return err
	}

	slog.Info("config: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Only reload on write or create events. Editors often write via
			// rename (atomic save), so also catch fsnotify.Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(path)
			if err != nil {
				slog.Error("config: reload failed — keeping previous config",
					"path", path, "err", err)
				continue
			}

			if static := staticChanges(prev, cfg); len(static) > 0 {
				slog.Warn("config: changed sections need a restart to apply",
					"path", path, "sections", static)
			}
			slog.Info("config: reloaded", "path", path,
				"thresholds_changed", !reflect.DeepEqual(prev.Thresholds, cfg.Thresholds))
			prev = cfg
			onChange(cfg)

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}

// staticChanges names the changed top-level sections that cannot be applied
// at runtime.
func staticChanges(old, cur *Config) []string {
	var sections []string
	if !reflect.DeepEqual(old.Source, cur.Source) {
		sections = append(sections, "source")
	}
	if !reflect.DeepEqual(old.Link, cur.Link) {
		sections = append(sections, "link")
	}
	if !reflect.DeepEqual(old.Alerts, cur.Alerts) {
		sections = append(sections, "alerts")
	}
	if !reflect.DeepEqual(old.Display, cur.Display) {
		sections = append(sections, "display")
	}
	if !reflect.DeepEqual(old.Server, cur.Server) {
		sections = append(sections, "server")
	}
	return sections
}
