package mini

import (
	"fyne.io/fyne/v2"

	"waxytimer/internal/platform"
	"waxytimer/internal/ui/face"
)

const (
	// ResizeStep is the fraction the window grows or shrinks per scroll notch.
	ResizeStep = float32(0.10)
	maxWidth   = float32(4096)
)

// MinSize is the smallest mini-player size.
var MinSize = fyne.NewSize(140, 80)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Mover places native windows on screen. platform.WindowSystem satisfies it.
type Mover interface {
	PointerPosition() (int, int, error)
	WindowPosition(id platform.WindowID) (int, int, error)
	MoveWindow(id platform.WindowID, x, y int) error
}

type dragState struct {
	id       platform.WindowID
	pointerX int
	pointerY int
	originX  int
	originY  int
}

// Window is the undecorated mini-player holding only the timer face.
type Window struct {
	window      fyne.Window
	face        *face.Face
	size        fyne.Size
	initialSize func() fyne.Size

	mover    Mover
	nativeID func(fyne.Window) (platform.WindowID, bool)
	drag     *dragState

	OnRestore func()
	OnResized func(fyne.Size)
}

// New creates the mini-player. initialSize provides the size used until the
// user resizes it; a zero size falls back to it.
func New(app fyne.App, size fyne.Size, initialSize func() fyne.Size) *Window {
	window := app.NewWindow("Waxy Timer")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	mini := &Window{
		window:      window,
		face:        face.New(),
		size:        size,
		initialSize: initialSize,
		nativeID:    nativeWindowID,
	}
	mini.face.OnSecondaryTapped = func() {
		if mini.OnRestore != nil {
			mini.OnRestore()
		}
	}
	mini.face.OnScrolled = mini.Scroll
	mini.face.OnDragged = func(fyne.Delta) { mini.Drag() }
	mini.face.OnDragEnd = mini.EndDrag
	window.SetContent(mini.face)
	return mini
}

// Face returns the timer face.
func (mini *Window) Face() *face.Face {
	return mini.face
}

// Size returns the remembered size, zero until first shown or resized.
func (mini *Window) Size() fyne.Size {
	return mini.size
}

// Show sizes and shows the mini-player on top of other windows.
func (mini *Window) Show() {
	size := mini.size
	if size.Width <= 0 || size.Height <= 0 {
		if mini.initialSize != nil {
			size = mini.initialSize()
		}
	}
	mini.size = Clamp(size)
	mini.window.Resize(mini.size)
	mini.window.Show()
	mini.applyTopmost()
}

// Hide hides the mini-player.
func (mini *Window) Hide() {
	mini.window.Hide()
}

// Close releases the native window.
func (mini *Window) Close() {
	mini.window.Close()
}

// Scroll grows the window for positive dy and shrinks it for negative dy.
func (mini *Window) Scroll(dy float32) {
	next := Scale(mini.size, dy)
	if next == mini.size {
		return
	}
	mini.size = next
	mini.window.Resize(next)
	if mini.OnResized != nil {
		mini.OnResized(next)
	}
}

// SetMover enables moving the undecorated window with a left-button drag.
func (mini *Window) SetMover(mover Mover) {
	mini.mover = mover
}

// Drag moves the window so that it follows the pointer from where the drag
// started. The first call of a drag only records the start.
func (mini *Window) Drag() {
	if mini.mover == nil {
		return
	}
	pointerX, pointerY, err := mini.mover.PointerPosition()
	if err != nil {
		return
	}
	if mini.drag == nil {
		id, ok := mini.nativeID(mini.window)
		if !ok {
			return
		}
		originX, originY, err := mini.mover.WindowPosition(id)
		if err != nil {
			return
		}
		mini.drag = &dragState{id: id, pointerX: pointerX, pointerY: pointerY, originX: originX, originY: originY}
		return
	}

	x := mini.drag.originX + pointerX - mini.drag.pointerX
	y := mini.drag.originY + pointerY - mini.drag.pointerY
	if err := mini.mover.MoveWindow(mini.drag.id, x, y); err != nil {
		mini.drag = nil
	}
}

// EndDrag finishes the current drag.
func (mini *Window) EndDrag() {
	mini.drag = nil
}

// Scale returns size resized one step in the direction of dy, clamped to
// MinSize.
func Scale(size fyne.Size, dy float32) fyne.Size {
	size = Clamp(size)
	factor := float32(1)
	switch {
	case dy > 0:
		factor += ResizeStep
	case dy < 0:
		factor -= ResizeStep
	default:
		return size
	}
	next := fyne.NewSize(size.Width*factor, size.Height*factor)
	if next.Width > maxWidth {
		return size
	}
	return Clamp(next)
}

// Clamp enforces MinSize.
func Clamp(size fyne.Size) fyne.Size {
	if size.Width < MinSize.Width {
		size.Width = MinSize.Width
	}
	if size.Height < MinSize.Height {
		size.Height = MinSize.Height
	}
	return size
}
