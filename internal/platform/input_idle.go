package platform

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// IdlePollHook approximates a global input hook by polling how long the
// user has been idle. It cannot tell keys from clicks and reports InputAny.
type IdlePollHook struct {
	provider IdleProvider
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewIdlePollHook creates a polling hook backed by an idle provider.
func NewIdlePollHook(provider IdleProvider, interval time.Duration) *IdlePollHook {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &IdlePollHook{provider: provider, interval: interval}
}

func (hook *IdlePollHook) Start(ctx context.Context) (<-chan InputEvent, error) {
	if _, err := hook.provider.IdleDuration(); err != nil {
		return nil, errors.Wrap(err, "probe idle provider")
	}

	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.done != nil {
		return nil, errors.New("idle poll hook already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	hook.cancel = cancel
	hook.done = make(chan struct{})
	events := make(chan InputEvent, 8)

	go hook.run(runCtx, events, hook.done)
	return events, nil
}

func (hook *IdlePollHook) Stop() error {
	hook.mu.Lock()
	cancel := hook.cancel
	done := hook.done
	hook.cancel = nil
	hook.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func (hook *IdlePollHook) run(ctx context.Context, events chan<- InputEvent, done chan struct{}) {
	defer close(done)
	defer close(events)

	ticker := time.NewTicker(hook.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			idle, err := hook.provider.IdleDuration()
			if err != nil {
				if errors.Is(err, ErrUnsupported) {
					return
				}
				continue
			}
			if idle < hook.interval {
				sendInput(events, InputEvent{Kind: InputAny, At: now})
			}
		}
	}
}
