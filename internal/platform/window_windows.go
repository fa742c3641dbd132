//go:build windows

package platform

import (
	"path/filepath"
	"strings"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const (
	gwlExStyle       int32 = -20
	wsExToolWindow         = 0x00000080
	gaRoot                 = 2
	swpNoSize              = 0x0001
	swpNoZOrder            = 0x0004
	swpNoActivate          = 0x0010
	maxWindowTitle         = 512
	maxExecutablePath      = windows.MAX_PATH
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows         = user32.NewProc("EnumWindows")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procGetWindowLong       = user32.NewProc(getWindowLongName)
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procWindowFromPoint     = user32.NewProc("WindowFromPoint")
	procGetCursorPos        = user32.NewProc("GetCursorPos")
	procGetParent           = user32.NewProc("GetParent")
	procGetAncestor         = user32.NewProc("GetAncestor")
	procGetWindowThreadPID  = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procSetWindowPos        = user32.NewProc("SetWindowPos")

	enumWindowsCallback = syscall.NewCallback(enumWindowsProc)
)

type point struct {
	X int32
	Y int32
}

type rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type win32WindowSystem struct{}

func newWindowSystem() (WindowSystem, error) {
	if err := procEnumWindows.Find(); err != nil {
		return nil, errors.Wrap(err, "load user32")
	}
	return win32WindowSystem{}, nil
}

func (win32WindowSystem) ListWindows() ([]WindowInfo, error) {
	var handles []uintptr
	result, _, callErr := procEnumWindows.Call(enumWindowsCallback, uintptr(unsafe.Pointer(&handles)))
	if result == 0 {
		return nil, errors.Wrap(callErr, "enum windows")
	}

	windowsList := make([]WindowInfo, 0, len(handles))
	for _, hwnd := range handles {
		if !isRealWindow(hwnd) {
			continue
		}
		windowsList = append(windowsList, WindowInfo{
			ID:         WindowID(hwnd),
			Title:      windowText(hwnd),
			Executable: executableForWindow(hwnd),
		})
	}
	return windowsList, nil
}

func (win32WindowSystem) ForegroundWindow() (WindowID, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return WindowID(hwnd), nil
}

func (win32WindowSystem) WindowAt(x, y int) (WindowID, error) {
	hwnd, _, _ := procWindowFromPoint.Call(pointArgs(x, y)...)
	return WindowID(hwnd), nil
}

func (win32WindowSystem) PointerPosition() (int, int, error) {
	var cursor point
	result, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&cursor)))
	if result == 0 {
		return 0, 0, errors.Wrap(err, "get cursor pos")
	}
	return int(cursor.X), int(cursor.Y), nil
}

func (win32WindowSystem) SameTree(child, target WindowID) bool {
	if child == 0 || target == 0 {
		return false
	}
	if child == target {
		return true
	}

	current := uintptr(child)
	for current != 0 {
		parent, _, _ := procGetParent.Call(current)
		current = parent
		if WindowID(current) == target {
			return true
		}
	}

	childRoot, _, _ := procGetAncestor.Call(uintptr(child), gaRoot)
	targetRoot, _, _ := procGetAncestor.Call(uintptr(target), gaRoot)
	return childRoot != 0 && childRoot == targetRoot
}

func (win32WindowSystem) WindowPosition(id WindowID) (int, int, error) {
	var bounds rect
	result, _, err := procGetWindowRect.Call(uintptr(id), uintptr(unsafe.Pointer(&bounds)))
	if result == 0 {
		return 0, 0, errors.Wrap(err, "get window rect")
	}
	return int(bounds.Left), int(bounds.Top), nil
}

func (win32WindowSystem) MoveWindow(id WindowID, x, y int) error {
	result, _, err := procSetWindowPos.Call(uintptr(id), 0, uintptr(int32(x)), uintptr(int32(y)), 0, 0,
		swpNoSize|swpNoZOrder|swpNoActivate)
	if result == 0 {
		return errors.Wrap(err, "set window pos")
	}
	return nil
}

func (win32WindowSystem) Close() error {
	return nil
}

func enumWindowsProc(hwnd uintptr, param uintptr) uintptr {
	handles := (*[]uintptr)(unsafe.Pointer(param))
	*handles = append(*handles, hwnd)
	return 1
}

func isRealWindow(hwnd uintptr) bool {
	if hwnd == 0 {
		return false
	}
	visible, _, _ := procIsWindowVisible.Call(hwnd)
	if visible == 0 {
		return false
	}
	if strings.TrimSpace(windowText(hwnd)) == "" {
		return false
	}
	index := gwlExStyle
	style, _, _ := procGetWindowLong.Call(hwnd, uintptr(uint32(index)))
	return style&wsExToolWindow == 0
}

func windowText(hwnd uintptr) string {
	buffer := make([]uint16, maxWindowTitle)
	length, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buffer[0])), uintptr(len(buffer)))
	if length == 0 {
		return ""
	}
	return windows.UTF16ToString(buffer[:length])
}

func executableForWindow(hwnd uintptr) string {
	var pid uint32
	procGetWindowThreadPID.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return ""
	}

	process, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		process, err = windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, pid)
		if err != nil {
			return ""
		}
	}
	defer windows.CloseHandle(process)

	buffer := make([]uint16, maxExecutablePath)
	size := uint32(len(buffer))
	if err := windows.QueryFullProcessImageName(process, 0, &buffer[0], &size); err != nil {
		return ""
	}
	return strings.ToLower(filepath.Base(windows.UTF16ToString(buffer[:size])))
}
