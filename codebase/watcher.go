package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileWatcher polls the project's source directories and keeps the codebase
// in sync with files changed outside the editor.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewFileWatcher(c *Codebase) *FileWatcher {
	interval := c.project.Config.Poll
	if interval <= 0 {
		interval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan reparses files whose modification time moved forward and drops
// files that disappeared. Files open in the editor are left alone. It
// returns the number of files touched.
func (w *FileWatcher) scan() int {
	proj := w.codebase.project
	current := make(map[string]bool)
	touched := 0

	for _, dir := range proj.SourceDirs() {
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if path != dir && proj.Excluded(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !proj.IsSource(path) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}

			current[path] = true
			lastMod, known := w.modTimes[path]
			if !known || info.ModTime().After(lastMod) {
				w.modTimes[path] = info.ModTime()
				reloaded, err := w.codebase.ReloadFile(path)
				if err != nil {
					log.Warningf("watch: %s", err)
				}
				if reloaded {
					touched++
				}
			}
			return nil
		})
	}

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			if _, err := os.Stat(path); err != nil && w.codebase.RemoveClosedFile(path) {
				touched++
			}
		}
	}
	if touched > 0 {
		log.Debugf("watch: %d files changed", touched)
	}
	return touched
}
