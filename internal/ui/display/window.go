package display

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"waxytimer/internal/ui/face"
)

// Hint explains the mini-player gestures above the timer box.
const Hint = "Right-click timer box to activate miniplayer • Right-click miniplayer to restore"

// MinSize is the smallest main window size.
var MinSize = fyne.NewSize(640, 250)

// Window is the main window: settings on the left, the timer on the right.
type Window struct {
	window fyne.Window
	face   *face.Face
	split  *container.Split
}

// New creates the main window around a settings panel.
func New(app fyne.App, title string, panel fyne.CanvasObject, splitOffset float64, size fyne.Size) *Window {
	window := app.NewWindow(title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	timerFace := face.New()

	hint := widget.NewRichText(&widget.TextSegment{
		Text:  Hint,
		Style: widget.RichTextStyle{SizeName: theme.SizeNameCaptionText},
	})
	hint.Wrapping = fyne.TextWrapWord

	timerBox := container.NewBorder(hint, nil, nil, nil, timerFace)
	split := container.NewHSplit(container.NewPadded(panel), container.NewPadded(timerBox))
	split.SetOffset(splitOffset)

	window.SetContent(split)
	if size.Width < MinSize.Width {
		size.Width = MinSize.Width
	}
	if size.Height < MinSize.Height {
		size.Height = MinSize.Height
	}
	window.Resize(size)

	return &Window{window: window, face: timerFace, split: split}
}

// Window returns the underlying fyne window.
func (main *Window) Window() fyne.Window {
	return main.window
}

// Face returns the timer face.
func (main *Window) Face() *face.Face {
	return main.face
}

// Show displays and focuses the window.
func (main *Window) Show() {
	main.window.Show()
	main.window.RequestFocus()
}

// Hide hides the window without closing it.
func (main *Window) Hide() {
	main.window.Hide()
}

// SplitOffset returns the divider position between 0 and 1.
func (main *Window) SplitOffset() float64 {
	return main.split.Offset
}

// Size returns the current content size.
func (main *Window) Size() fyne.Size {
	return main.window.Canvas().Size()
}

// SetCloseIntercept sets the handler run instead of closing the window.
func (main *Window) SetCloseIntercept(handler func()) {
	main.window.SetCloseIntercept(handler)
}
