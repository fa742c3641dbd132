package platform

import (
	"context"
	"time"
)

// InputKind classifies a global input event.
type InputKind int

const (
	InputKey InputKind = iota
	InputClick
	// InputAny is reported by hooks that only know input happened.
	InputAny
)

func (kind InputKind) String() string {
	switch kind {
	case InputKey:
		return "key"
	case InputClick:
		return "click"
	default:
		return "any"
	}
}

// InputEvent is a single key press or mouse button press anywhere on the desktop.
type InputEvent struct {
	Kind InputKind
	// X and Y are screen coordinates, valid only when HasPoint is set.
	X        int
	Y        int
	HasPoint bool
	At       time.Time
}

// InputHook captures global keyboard and mouse input.
type InputHook interface {
	// Start begins capturing. The returned channel is closed after Stop or
	// when ctx is cancelled.
	Start(ctx context.Context) (<-chan InputEvent, error)
	Stop() error
}

// NewInputHook returns the native global input hook.
func NewInputHook() InputHook {
	return newInputHook()
}

func sendInput(ch chan<- InputEvent, event InputEvent) {
	select {
	case ch <- event:
	default:
	}
}
