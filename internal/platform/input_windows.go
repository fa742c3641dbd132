//go:build windows

package platform

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	wmQuit        = 0x0012
	wmKeyDown     = 0x0100
	wmSysKeyDown  = 0x0104
	wmLButtonDown = 0x0201
	wmRButtonDown = 0x0204
	wmMButtonDown = 0x0207
	wmXButtonDown = 0x020B
)

var (
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")

	keyboardCallback = syscall.NewCallback(keyboardHookProc)
	mouseCallback    = syscall.NewCallback(mouseHookProc)

	// Low-level hook procedures cannot carry state, so the active hook
	// channel lives here.
	activeHookEvents atomic.Pointer[chan InputEvent]
)

type msllHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

type windowsInputHook struct {
	mu       sync.Mutex
	threadID uint32
	done     chan struct{}
}

func newInputHook() InputHook {
	return &windowsInputHook{}
}

func (hook *windowsInputHook) Start(ctx context.Context) (<-chan InputEvent, error) {
	hook.mu.Lock()
	defer hook.mu.Unlock()
	if hook.done != nil {
		return nil, errors.New("input hook already started")
	}

	events := make(chan InputEvent, 64)
	ready := make(chan error, 1)
	done := make(chan struct{})
	threadID := make(chan uint32, 1)

	go func() {
		// Hooks are delivered to the thread that installed them via its message loop.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(done)
		defer close(events)

		activeHookEvents.Store(&events)
		defer activeHookEvents.Store(nil)

		keyboard, _, keyboardErr := procSetWindowsHookExW.Call(whKeyboardLL, keyboardCallback, 0, 0)
		if keyboard == 0 {
			ready <- errors.Wrap(keyboardErr, "install keyboard hook")
			return
		}
		defer procUnhookWindowsHookEx.Call(keyboard)

		mouse, _, mouseErr := procSetWindowsHookExW.Call(whMouseLL, mouseCallback, 0, 0)
		if mouse == 0 {
			ready <- errors.Wrap(mouseErr, "install mouse hook")
			return
		}
		defer procUnhookWindowsHookEx.Call(mouse)

		threadID <- windows.GetCurrentThreadId()
		ready <- nil

		var message msg
		for {
			result, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&message)), 0, 0, 0)
			if result == 0 || int32(result) == -1 {
				return
			}
		}
	}()

	if err := <-ready; err != nil {
		<-done
		return nil, err
	}
	hook.threadID = <-threadID
	hook.done = done

	go func() {
		select {
		case <-ctx.Done():
			_ = hook.Stop()
		case <-done:
		}
	}()

	return events, nil
}

func (hook *windowsInputHook) Stop() error {
	hook.mu.Lock()
	threadID := hook.threadID
	done := hook.done
	hook.threadID = 0
	hook.mu.Unlock()

	if threadID == 0 || done == nil {
		return nil
	}
	result, _, err := procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0)
	if result == 0 {
		return errors.Wrap(err, "post quit to hook thread")
	}
	<-done
	return nil
}

func keyboardHookProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 && (wParam == wmKeyDown || wParam == wmSysKeyDown) {
		if events := activeHookEvents.Load(); events != nil {
			sendInput(*events, InputEvent{Kind: InputKey, At: time.Now()})
		}
	}
	result, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return result
}

func mouseHookProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		switch wParam {
		case wmLButtonDown, wmRButtonDown, wmMButtonDown, wmXButtonDown:
			if events := activeHookEvents.Load(); events != nil {
				info := (*msllHookStruct)(unsafe.Pointer(lParam))
				sendInput(*events, InputEvent{
					Kind:     InputClick,
					X:        int(info.Pt.X),
					Y:        int(info.Pt.Y),
					HasPoint: true,
					At:       time.Now(),
				})
			}
		}
	}
	result, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return result
}
