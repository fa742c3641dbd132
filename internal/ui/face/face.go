package face

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

var (
	// NormalColor is used while the countdown is above the warning threshold.
	NormalColor = color.NRGBA{R: 0x33, G: 0xff, B: 0x66, A: 0xff}
	// DangerColor is used at or below the warning threshold.
	DangerColor = color.NRGBA{R: 0xff, G: 0x3b, B: 0x30, A: 0xff}

	backgroundColor = color.NRGBA{A: 0xff}
	borderColor     = color.NRGBA{R: 0x3a, G: 0x3a, B: 0x3a, A: 0xff}
)

const (
	facePadding      = float32(14)
	cornerRadius     = float32(10)
	minTextSize      = float32(8)
	glyphWidthFactor = float32(0.62)
	glyphHeightRatio = float32(0.72)
	defaultDigits    = 3
)

// Face draws the countdown digits on a black rounded box.
type Face struct {
	widget.BaseWidget

	OnSecondaryTapped func()
	OnScrolled        func(dy float32)
	OnDragged         func(delta fyne.Delta)
	OnDragEnd         func()

	text   string
	danger bool
	digits int
}

// New creates a face showing a placeholder.
func New() *Face {
	face := &Face{text: "---", digits: defaultDigits}
	face.ExtendBaseWidget(face)
	return face
}

// SetState updates the shown text. Call it from the UI goroutine.
func (face *Face) SetState(text string, danger bool, digits int) {
	if digits < len(text) {
		digits = len(text)
	}
	if face.text == text && face.danger == danger && face.digits == digits {
		return
	}
	face.text, face.danger, face.digits = text, danger, digits
	face.Refresh()
}

// Text returns the shown text.
func (face *Face) Text() string {
	return face.text
}

// Danger reports whether the face is drawn in the danger colour.
func (face *Face) Danger() bool {
	return face.danger
}

// TappedSecondary implements fyne.SecondaryTappable.
func (face *Face) TappedSecondary(*fyne.PointEvent) {
	if face.OnSecondaryTapped != nil {
		face.OnSecondaryTapped()
	}
}

// Scrolled implements fyne.Scrollable.
func (face *Face) Scrolled(event *fyne.ScrollEvent) {
	if face.OnScrolled != nil && event.Scrolled.DY != 0 {
		face.OnScrolled(event.Scrolled.DY)
	}
}

// Dragged implements fyne.Draggable.
func (face *Face) Dragged(event *fyne.DragEvent) {
	if face.OnDragged != nil {
		face.OnDragged(event.Dragged)
	}
}

// DragEnd implements fyne.Draggable.
func (face *Face) DragEnd() {
	if face.OnDragEnd != nil {
		face.OnDragEnd()
	}
}

// CreateRenderer implements fyne.Widget.
func (face *Face) CreateRenderer() fyne.WidgetRenderer {
	background := canvas.NewRectangle(backgroundColor)
	background.CornerRadius = cornerRadius
	background.StrokeColor = borderColor
	background.StrokeWidth = 2

	digits := canvas.NewText(face.text, NormalColor)
	digits.Alignment = fyne.TextAlignCenter
	digits.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}

	renderer := &faceRenderer{face: face, background: background, digits: digits}
	renderer.Refresh()
	return renderer
}

type faceRenderer struct {
	face       *Face
	background *canvas.Rectangle
	digits     *canvas.Text
	size       fyne.Size
}

func (renderer *faceRenderer) Layout(size fyne.Size) {
	renderer.size = size
	renderer.background.Move(fyne.NewPos(0, 0))
	renderer.background.Resize(size)

	renderer.digits.TextSize = FitTextSize(size, renderer.face.digits)
	textHeight := renderer.digits.MinSize().Height
	renderer.digits.Move(fyne.NewPos(facePadding, (size.Height-textHeight)/2))
	renderer.digits.Resize(fyne.NewSize(size.Width-facePadding*2, textHeight))
}

func (renderer *faceRenderer) MinSize() fyne.Size {
	return fyne.NewSize(120, 64)
}

func (renderer *faceRenderer) Refresh() {
	renderer.digits.Text = renderer.face.text
	if renderer.face.danger {
		renderer.digits.Color = DangerColor
	} else {
		renderer.digits.Color = NormalColor
	}
	if renderer.size.Width > 0 && renderer.size.Height > 0 {
		renderer.Layout(renderer.size)
	}
	canvas.Refresh(renderer.background)
	canvas.Refresh(renderer.digits)
}

func (renderer *faceRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{renderer.background, renderer.digits}
}

func (renderer *faceRenderer) Destroy() {}

// FitTextSize returns the largest text size at which a run of monospace
// digits fits inside the padded box.
func FitTextSize(size fyne.Size, digits int) float32 {
	if digits <= 0 {
		digits = defaultDigits
	}
	width := size.Width - facePadding*2
	height := size.Height - facePadding*2

	byHeight := height * glyphHeightRatio
	byWidth := width / (float32(digits) * glyphWidthFactor)
	textSize := byHeight
	if byWidth < textSize {
		textSize = byWidth
	}
	if textSize < minTextSize {
		return minTextSize
	}
	return textSize
}
