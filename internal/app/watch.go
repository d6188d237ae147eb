package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/smartkeys/internal/logger"
)

const watchDebounce = 100 * time.Millisecond

// FileChangedEvent tells the UI loop that the open file changed on disk.
type FileChangedEvent struct {
	tcell.EventTime
	Path string
}

// watchFile reports writes to path through post, debounced. The parent
// directory is watched so that editors which save by renaming are seen too.
// The returned function stops the watcher.
func watchFile(path string, post func(tcell.Event)) (func() error, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		debounce := time.NewTimer(watchDebounce)
		debounce.Stop()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				debounce.Reset(watchDebounce)
			case <-debounce.C:
				ev := &FileChangedEvent{Path: abs}
				ev.SetEventNow()
				post(ev)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("app: watcher error", "err", err)
			}
		}
	}()
	return watcher.Close, nil
}
