package face

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaceColours(t *testing.T) {
	test.NewTempApp(t)

	timerFace := New()
	timerFace.Resize(fyne.NewSize(300, 150))
	renderer := test.WidgetRenderer(timerFace)
	require.Len(t, renderer.Objects(), 2)
	digits := renderer.Objects()[1].(*canvas.Text)

	timerFace.SetState("42", false, 3)
	assert.Equal(t, "42", digits.Text)
	assert.Equal(t, NormalColor, digits.Color)
	assert.False(t, timerFace.Danger())

	timerFace.SetState("-3", true, 3)
	assert.Equal(t, "-3", timerFace.Text())
	assert.Equal(t, DangerColor, digits.Color)
	assert.True(t, timerFace.Danger())
}

func TestFaceInput(t *testing.T) {
	test.NewTempApp(t)

	timerFace := New()
	secondary := 0
	var scrolled []float32
	timerFace.OnSecondaryTapped = func() { secondary++ }
	timerFace.OnScrolled = func(dy float32) { scrolled = append(scrolled, dy) }

	test.TapSecondary(timerFace)
	timerFace.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 4)})
	timerFace.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(3, 0)})

	assert.Equal(t, 1, secondary)
	assert.Equal(t, []float32{4}, scrolled)
}

func TestFaceDrag(t *testing.T) {
	test.NewTempApp(t)

	timerFace := New()
	timerFace.Dragged(&fyne.DragEvent{Dragged: fyne.NewDelta(2, 3)})
	timerFace.DragEnd()

	var deltas []fyne.Delta
	ended := 0
	timerFace.OnDragged = func(delta fyne.Delta) { deltas = append(deltas, delta) }
	timerFace.OnDragEnd = func() { ended++ }

	timerFace.Dragged(&fyne.DragEvent{Dragged: fyne.NewDelta(5, -1)})
	timerFace.Dragged(&fyne.DragEvent{Dragged: fyne.NewDelta(1, 1)})
	timerFace.DragEnd()

	assert.Equal(t, []fyne.Delta{fyne.NewDelta(5, -1), fyne.NewDelta(1, 1)}, deltas)
	assert.Equal(t, 1, ended)
}

func TestFitTextSize(t *testing.T) {
	wide := FitTextSize(fyne.NewSize(1000, 128), 3)
	assert.InDelta(t, 100*glyphHeightRatio, wide, 0.001, "height bound")

	narrow := FitTextSize(fyne.NewSize(214, 1000), 6)
	assert.InDelta(t, 186/(6*glyphWidthFactor), narrow, 0.001, "width bound")

	assert.Equal(t, minTextSize, FitTextSize(fyne.NewSize(10, 10), 3))
	assert.Greater(t, FitTextSize(fyne.NewSize(400, 200), 3), FitTextSize(fyne.NewSize(400, 200), 6))
}
