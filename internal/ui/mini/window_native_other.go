//go:build !windows && !linux

package mini

import (
	"fyne.io/fyne/v2"

	"waxytimer/internal/platform"
)

func nativeWindowID(fyne.Window) (platform.WindowID, bool) {
	return 0, false
}
