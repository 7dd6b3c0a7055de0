package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watch signals on the returned channel whenever the file is changed by
// someone else. Writes made through this slot are recognised by content hash
// and not reported. The channel is closed when ctx is done.
func (f *FileSlot) Watch(ctx context.Context) (<-chan struct{}, error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: atomic renames replace the file's inode.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	target := filepath.Clean(f.path)

	go func() {
		defer watcher.Close()
		defer close(changes)

		// Debounce timer
		debounce := time.NewTimer(watchDebounce)
		debounce.Stop()
		defer debounce.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				debounce.Reset(watchDebounce)

			case <-debounce.C:
				data, err := os.ReadFile(f.path)
				if err != nil {
					f.logger.Debug("watch read", "err", err)
					continue
				}
				if !f.changed(data) {
					continue
				}
				f.logger.Debug("notes file changed externally", "path", f.path)
				select {
				case changes <- struct{}{}:
				default:
					// A change is already pending
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				f.logger.Warn("watch error", "err", err)
			}
		}
	}()

	return changes, nil
}
