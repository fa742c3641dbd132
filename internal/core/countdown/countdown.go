package countdown

import (
	"sync"
	"time"

	"waxytimer/internal/core/model"
)

// rearmJump is how far the remaining time must jump upward between two ticks
// before the alert is considered re-armed by activity.
const rearmJump = 750 * time.Millisecond

// Config contains runtime options for Countdown.
type Config struct {
	TickInterval time.Duration
	Now          func() time.Time
}

// Countdown is the activity timer. Remaining time is derived from the last
// activity timestamp rather than decremented, so ticks can be late without
// drifting.
type Countdown struct {
	mu            sync.Mutex
	config        model.TimerConfig
	options       Config
	lastActivity  time.Time
	lastRemaining time.Duration
	haveLast      bool
	alertFired    bool
	lastText      string
	lastDanger    bool
	emitted       bool
	events        []chan Event
	stopCh        chan struct{}
	running       bool
}

// New creates a Countdown that starts full.
func New(config model.TimerConfig, options Config) *Countdown {
	if options.TickInterval <= 0 {
		options.TickInterval = 100 * time.Millisecond
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	config.Normalize()

	return &Countdown{
		config:       config,
		options:      options,
		lastActivity: options.Now(),
	}
}

// Subscribe registers a new observer channel.
func (timer *Countdown) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	timer.events = append(timer.events, ch)
	timer.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (timer *Countdown) Start() {
	timer.mu.Lock()
	if timer.running {
		timer.mu.Unlock()
		return
	}
	timer.running = true
	timer.stopCh = make(chan struct{})
	stopCh := timer.stopCh
	timer.mu.Unlock()

	timer.tick(timer.options.Now())
	go timer.run(stopCh)
}

// Stop terminates the ticking loop and closes observers.
func (timer *Countdown) Stop() {
	timer.mu.Lock()
	if !timer.running {
		timer.mu.Unlock()
		return
	}
	close(timer.stopCh)
	timer.running = false
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// NoteActivity restarts the countdown from its full length.
func (timer *Countdown) NoteActivity() {
	timer.mu.Lock()
	timer.lastActivity = timer.options.Now()
	timer.mu.Unlock()
}

// Reset restarts the countdown and re-arms the alert.
func (timer *Countdown) Reset() {
	timer.mu.Lock()
	now := timer.options.Now()
	timer.resetLocked(now)
	timer.emitLocked(Event{
		Type:      EventReset,
		Remaining: timer.config.Length,
		At:        now,
	})
	timer.mu.Unlock()
}

// RearmAlert allows the alert to fire again on the next threshold crossing.
func (timer *Countdown) RearmAlert() {
	timer.mu.Lock()
	timer.alertFired = false
	timer.mu.Unlock()
}

// UpdateConfig applies new settings. A length change restarts the countdown
// and a sound threshold change re-arms the alert.
func (timer *Countdown) UpdateConfig(config model.TimerConfig) {
	config.Normalize()

	timer.mu.Lock()
	previous := timer.config
	timer.config = config
	timer.emitted = false
	if previous.SoundThreshold != config.SoundThreshold {
		timer.alertFired = false
	}
	if previous.Length != config.Length {
		now := timer.options.Now()
		timer.resetLocked(now)
		timer.emitLocked(Event{
			Type:      EventReset,
			Remaining: config.Length,
			At:        now,
		})
	}
	timer.mu.Unlock()
}

// Config returns the active configuration.
func (timer *Countdown) Config() model.TimerConfig {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.config
}

// Remaining returns the time left before the countdown expires.
func (timer *Countdown) Remaining() time.Duration {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.remainingLocked(timer.options.Now())
}

// Snapshot returns the current display state.
func (timer *Countdown) Snapshot() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.snapshotLocked(timer.remainingLocked(timer.options.Now()))
}

func (timer *Countdown) run(stopCh chan struct{}) {
	ticker := time.NewTicker(timer.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			timer.tick(timer.options.Now())
		}
	}
}

func (timer *Countdown) tick(now time.Time) {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	remaining := timer.remainingLocked(now)
	if timer.haveLast && remaining > timer.lastRemaining+rearmJump {
		timer.alertFired = false
	}

	threshold := timer.config.SoundThreshold
	if !timer.alertFired && timer.haveLast && timer.lastRemaining > threshold && remaining <= threshold {
		timer.alertFired = true
		timer.emitLocked(Event{
			Type:      EventAlert,
			Remaining: remaining,
			At:        now,
		})
	}
	timer.lastRemaining = remaining
	timer.haveLast = true

	snapshot := timer.snapshotLocked(remaining)
	if timer.emitted && snapshot.Text == timer.lastText && snapshot.Danger == timer.lastDanger {
		return
	}
	timer.emitted = true
	timer.lastText = snapshot.Text
	timer.lastDanger = snapshot.Danger
	timer.emitLocked(Event{
		Type:      EventProgress,
		Remaining: remaining,
		Danger:    snapshot.Danger,
		Text:      snapshot.Text,
		Digits:    snapshot.Digits,
		At:        now,
	})
}

func (timer *Countdown) resetLocked(now time.Time) {
	timer.lastActivity = now
	timer.alertFired = false
	timer.emitted = false
}

func (timer *Countdown) remainingLocked(now time.Time) time.Duration {
	remaining := timer.config.Length - now.Sub(timer.lastActivity)
	if !timer.config.CountBelowZero && remaining < 0 {
		return 0
	}
	return remaining
}

func (timer *Countdown) snapshotLocked(remaining time.Duration) Snapshot {
	text, digits := Format(remaining, timer.config.Length)
	return Snapshot{
		Remaining: remaining,
		Danger:    remaining <= timer.config.WarnThreshold,
		Text:      text,
		Digits:    digits,
	}
}

func (timer *Countdown) emitLocked(event Event) {
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}
