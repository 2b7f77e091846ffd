package config

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration file when it changes on disk.
type Watcher struct {
	fs *fsnotify.Watcher
}

// Watch monitors the config file and invokes onChange with each
// freshly loaded configuration. The containing directory is watched
// rather than the file itself, since editors typically replace the
// file on save. Files that fail to parse are logged and skipped; the
// previous configuration stays in effect.
func Watch(path string, onChange func(*Config)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}

	target, err := filepath.Abs(path)
	if err != nil {
		target = path
	}

	go func() {
		for {
			select {
			case event, ok := <-fs.Events:
				if !ok {
					return
				}
				name, err := filepath.Abs(event.Name)
				if err != nil {
					name = event.Name
				}
				if name != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}

				cfg, err := Load(path)
				if err != nil {
					log.Printf("config: reload failed: %v", err)
					continue
				}
				onChange(cfg)

			case err, ok := <-fs.Errors:
				if !ok {
					return
				}
				log.Printf("config: watch error: %v", err)
			}
		}
	}()

	return &Watcher{fs: fs}, nil
}

// Close stops watching the configuration file.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
