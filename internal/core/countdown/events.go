package countdown

import "time"

// EventType defines the type of countdown event.
type EventType string

const (
	EventProgress EventType = "progress"
	EventAlert    EventType = "alert"
	EventReset    EventType = "reset"
)

// Event represents a countdown update for observers.
type Event struct {
	Type      EventType
	Remaining time.Duration
	Danger    bool
	Text      string
	Digits    int
	At        time.Time
}

// Snapshot is the current display state of the countdown.
type Snapshot struct {
	Remaining time.Duration
	Danger    bool
	Text      string
	Digits    int
}
