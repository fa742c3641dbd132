package activity

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"waxytimer/internal/platform"
)

// Notifier receives qualifying activity.
type Notifier interface {
	NoteActivity()
}

// Watcher applies the target-window policy to global input events.
type Watcher struct {
	windows  platform.WindowSystem
	notifier Notifier
	log      logrus.FieldLogger
	target   atomic.Uint64
}

// New creates a Watcher with no target.
func New(windows platform.WindowSystem, notifier Notifier, log logrus.FieldLogger) *Watcher {
	if windows == nil {
		windows = platform.NoWindowSystem{}
	}
	return &Watcher{
		windows:  windows,
		notifier: notifier,
		log:      log.WithField("component", "activity"),
	}
}

// SetTarget changes the watched window. Zero disables activity detection.
func (watcher *Watcher) SetTarget(id platform.WindowID) {
	watcher.target.Store(uint64(id))
}

// Target returns the watched window.
func (watcher *Watcher) Target() platform.WindowID {
	return platform.WindowID(watcher.target.Load())
}

// Run consumes input events until ctx is done or the channel is closed.
func (watcher *Watcher) Run(ctx context.Context, events <-chan platform.InputEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if watcher.Qualifies(event) {
				watcher.notifier.NoteActivity()
			}
		}
	}
}

// Qualifies reports whether an input event counts as activity in the target.
// A key counts when the target is foreground; a click counts when it lands
// on the target or one of its child windows, focused or not.
func (watcher *Watcher) Qualifies(event platform.InputEvent) bool {
	target := watcher.Target()
	if target == 0 {
		return false
	}

	switch event.Kind {
	case platform.InputClick:
		x, y := event.X, event.Y
		if !event.HasPoint {
			var err error
			x, y, err = watcher.windows.PointerPosition()
			if err != nil {
				watcher.log.WithError(err).Debug("pointer position unavailable")
				return false
			}
		}
		clicked, err := watcher.windows.WindowAt(x, y)
		if err != nil {
			watcher.log.WithError(err).Debug("window under click unavailable")
			return false
		}
		return watcher.windows.SameTree(clicked, target)
	default:
		foreground, err := watcher.windows.ForegroundWindow()
		if err != nil {
			watcher.log.WithError(err).Debug("foreground window unavailable")
			return false
		}
		return foreground == target
	}
}
