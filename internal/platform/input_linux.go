//go:build linux

package platform

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	evdevEventSize = 24 // sizeof(struct input_event) on 64-bit
	evdevTypeKey   = 1
	evdevPressed   = 1
	evdevBtnMisc   = 0x100
	evdevBtnMouse  = 0x110
	evdevBtnTask   = 0x117
)

const inputDevicesPath = "/proc/bus/input/devices"

type evdevInputHook struct {
	mu      sync.Mutex
	devices []*os.File
	wg      sync.WaitGroup
	stopped chan struct{}
}

func newInputHook() InputHook {
	return &evdevInputHook{}
}

func (hook *evdevInputHook) Start(ctx context.Context) (<-chan InputEvent, error) {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.stopped != nil {
		return nil, errors.New("input hook already started")
	}

	descriptor, err := os.Open(inputDevicesPath)
	if err != nil {
		return nil, errors.Wrap(err, "open input device list")
	}
	paths := parseInputDevices(descriptor)
	descriptor.Close()
	if len(paths) == 0 {
		return nil, errors.Wrap(ErrUnsupported, "no keyboard or mouse devices found")
	}

	var openErr error
	for _, path := range paths {
		device, err := os.Open(path)
		if err != nil {
			openErr = err
			continue
		}
		hook.devices = append(hook.devices, device)
	}
	if len(hook.devices) == 0 {
		return nil, errors.Wrapf(openErr, "open input devices (add the user to the 'input' group)")
	}

	events := make(chan InputEvent, 64)
	hook.stopped = make(chan struct{})
	for _, device := range hook.devices {
		hook.wg.Add(1)
		go hook.read(device, events)
	}

	go func() {
		hook.wg.Wait()
		close(events)
	}()
	go func() {
		select {
		case <-ctx.Done():
			_ = hook.Stop()
		case <-hook.stopped:
		}
	}()

	return events, nil
}

func (hook *evdevInputHook) Stop() error {
	hook.mu.Lock()
	devices := hook.devices
	hook.devices = nil
	stopped := hook.stopped
	hook.mu.Unlock()

	if len(devices) == 0 {
		return nil
	}
	close(stopped)
	for _, device := range devices {
		_ = device.Close()
	}
	hook.wg.Wait()
	return nil
}

func (hook *evdevInputHook) read(device io.Reader, events chan<- InputEvent) {
	defer hook.wg.Done()

	buffer := make([]byte, evdevEventSize)
	for {
		if _, err := io.ReadFull(device, buffer); err != nil {
			return
		}
		if kind, ok := decodeEvdev(buffer); ok {
			sendInput(events, InputEvent{Kind: kind, At: time.Now()})
		}
	}
}

// decodeEvdev maps a raw input_event to a key press or mouse button press.
func decodeEvdev(buffer []byte) (InputKind, bool) {
	if len(buffer) < evdevEventSize {
		return 0, false
	}
	eventType := binary.LittleEndian.Uint16(buffer[16:18])
	code := binary.LittleEndian.Uint16(buffer[18:20])
	value := int32(binary.LittleEndian.Uint32(buffer[20:24]))

	if eventType != evdevTypeKey || value != evdevPressed {
		return 0, false
	}
	switch {
	case code < evdevBtnMisc:
		return InputKey, true
	case code >= evdevBtnMouse && code <= evdevBtnTask:
		return InputClick, true
	default:
		return 0, false
	}
}

// parseInputDevices returns the event device paths of keyboards and mice
// listed in /proc/bus/input/devices.
func parseInputDevices(reader io.Reader) []string {
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "H: Handlers=") {
			continue
		}
		handlers := strings.Fields(strings.TrimPrefix(line, "H: Handlers="))
		relevant := false
		eventName := ""
		for _, handler := range handlers {
			switch {
			case handler == "kbd" || strings.HasPrefix(handler, "mouse"):
				relevant = true
			case strings.HasPrefix(handler, "event"):
				eventName = handler
			}
		}
		if !relevant || eventName == "" {
			continue
		}
		path := filepath.Join("/dev/input", eventName)
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}
	return paths
}
