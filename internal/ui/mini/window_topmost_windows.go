//go:build windows

package mini

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"golang.org/x/sys/windows"

	"waxytimer/internal/platform"
)

const (
	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoActivate = 0x0010
)

// hwndTopmost is (HWND)-1.
var hwndTopmost = ^uintptr(0)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procSetWindowPos = user32.NewProc("SetWindowPos")
)

func (mini *Window) applyTopmost() {
	if hwnd := windowHandle(mini.window); hwnd != 0 {
		procSetWindowPos.Call(hwnd, hwndTopmost, 0, 0, 0, 0, swpNoMove|swpNoSize|swpNoActivate)
	}
}

func nativeWindowID(window fyne.Window) (platform.WindowID, bool) {
	hwnd := windowHandle(window)
	return platform.WindowID(hwnd), hwnd != 0
}

func windowHandle(window fyne.Window) uintptr {
	nativeWindow, ok := window.(driver.NativeWindow)
	if !ok {
		return 0
	}

	var hwnd uintptr
	nativeWindow.RunNative(func(context any) {
		switch value := context.(type) {
		case driver.WindowsWindowContext:
			hwnd = value.HWND
		case *driver.WindowsWindowContext:
			hwnd = value.HWND
		}
	})
	return hwnd
}
