package storage

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"waxytimer/internal/ui/preferences"
)

// DefaultSaveDelay coalesces bursts of changes such as volume slider drags.
const DefaultSaveDelay = 500 * time.Millisecond

// Saver writes settings after a quiet period. Only the latest settings
// passed to Schedule are written.
type Saver struct {
	log   logrus.FieldLogger
	delay time.Duration
	save  func(preferences.Settings) error

	// saveMu serializes writes, which share one temp file.
	saveMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending *preferences.Settings
}

// NewSaver creates a saver. A zero delay uses DefaultSaveDelay.
func NewSaver(store *Store, log logrus.FieldLogger, delay time.Duration) *Saver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Saver{log: log.WithField("component", "storage"), delay: delay, save: store.Save}
}

// Schedule queues settings for writing.
func (saver *Saver) Schedule(settings preferences.Settings) {
	saver.mu.Lock()
	defer saver.mu.Unlock()

	saver.pending = &settings
	if saver.timer != nil {
		saver.timer.Stop()
	}
	saver.timer = time.AfterFunc(saver.delay, saver.flushPending)
}

// Flush cancels any queued write and saves settings once a write already in
// progress has finished.
func (saver *Saver) Flush(settings preferences.Settings) error {
	saver.mu.Lock()
	if saver.timer != nil {
		saver.timer.Stop()
		saver.timer = nil
	}
	saver.pending = nil
	saver.mu.Unlock()

	saver.saveMu.Lock()
	defer saver.saveMu.Unlock()
	return saver.save(settings)
}

func (saver *Saver) flushPending() {
	saver.saveMu.Lock()
	defer saver.saveMu.Unlock()

	saver.mu.Lock()
	pending := saver.pending
	saver.pending = nil
	saver.timer = nil
	saver.mu.Unlock()

	if pending == nil {
		return
	}
	if err := saver.save(*pending); err != nil {
		saver.log.WithError(err).Warn("save settings")
	}
}
