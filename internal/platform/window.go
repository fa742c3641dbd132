package platform

import "errors"

// ErrUnsupported indicates a platform facility is not available on this system.
var ErrUnsupported = errors.New("unsupported on this platform")

// WindowID identifies a native top-level or child window.
type WindowID uint64

// WindowInfo describes a candidate target window.
type WindowInfo struct {
	ID         WindowID
	Title      string
	Executable string
}

// WindowSystem exposes the window manager queries needed to decide whether
// input belongs to the target window.
type WindowSystem interface {
	ListWindows() ([]WindowInfo, error)
	ForegroundWindow() (WindowID, error)
	WindowAt(x, y int) (WindowID, error)
	PointerPosition() (int, int, error)
	// SameTree reports whether child is target, one of its descendants, or
	// shares its top-level ancestor.
	SameTree(child, target WindowID) bool
	// WindowPosition returns the top-left corner of a window in screen
	// coordinates.
	WindowPosition(id WindowID) (int, int, error)
	MoveWindow(id WindowID, x, y int) error
	Close() error
}

// NewWindowSystem connects to the native window system.
func NewWindowSystem() (WindowSystem, error) {
	return newWindowSystem()
}

// NoWindowSystem is used when the native window system is unavailable.
type NoWindowSystem struct{}

func (NoWindowSystem) ListWindows() ([]WindowInfo, error) { return nil, ErrUnsupported }

func (NoWindowSystem) ForegroundWindow() (WindowID, error) { return 0, ErrUnsupported }

func (NoWindowSystem) WindowAt(int, int) (WindowID, error) { return 0, ErrUnsupported }

func (NoWindowSystem) PointerPosition() (int, int, error) { return 0, 0, ErrUnsupported }

func (NoWindowSystem) SameTree(child, target WindowID) bool {
	return child != 0 && child == target
}

func (NoWindowSystem) WindowPosition(WindowID) (int, int, error) { return 0, 0, ErrUnsupported }

func (NoWindowSystem) MoveWindow(WindowID, int, int) error { return ErrUnsupported }

func (NoWindowSystem) Close() error { return nil }
