//go:build linux

package mini

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"

	"waxytimer/internal/platform"
)

// nativeWindowID returns the X11 window behind a Fyne window. Wayland
// surfaces cannot be moved by clients.
func nativeWindowID(window fyne.Window) (platform.WindowID, bool) {
	nativeWindow, ok := window.(driver.NativeWindow)
	if !ok {
		return 0, false
	}

	var handle uintptr
	nativeWindow.RunNative(func(context any) {
		switch value := context.(type) {
		case driver.X11WindowContext:
			handle = value.WindowHandle
		case *driver.X11WindowContext:
			handle = value.WindowHandle
		}
	})
	return platform.WindowID(handle), handle != 0
}
