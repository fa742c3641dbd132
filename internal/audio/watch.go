package audio

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const watchedOps = fsnotify.Create | fsnotify.Remove | fsnotify.Rename | fsnotify.Write

// Watch calls onChange whenever a sound file appears in, changes in, or
// leaves the user directory. The watcher stops when ctx is done.
func (library *Library) Watch(ctx context.Context, log logrus.FieldLogger, onChange func()) error {
	if library.userDir == "" {
		return errors.New("no user sound directory")
	}
	if err := os.MkdirAll(library.userDir, 0o755); err != nil {
		return errors.Wrap(err, "create sound directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create sound watcher")
	}
	if err := watcher.Add(library.userDir); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "watch %s", library.userDir)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&watchedOps == 0 {
					continue
				}
				if isSoundFile(filepath.Base(event.Name), false) {
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("sound directory watcher")
			}
		}
	}()
	return nil
}
