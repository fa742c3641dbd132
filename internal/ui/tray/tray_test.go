package tray

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMenu struct {
	menus []*fyne.Menu
}

func (recorder *recordingMenu) SetSystemTrayMenu(menu *fyne.Menu) {
	recorder.menus = append(recorder.menus, menu)
}

func (recorder *recordingMenu) last() *fyne.Menu {
	return recorder.menus[len(recorder.menus)-1]
}

func itemLabels(menu *fyne.Menu) []string {
	labels := make([]string, 0, len(menu.Items))
	for _, item := range menu.Items {
		if !item.IsSeparator {
			labels = append(labels, item.Label)
		}
	}
	return labels
}

func TestManagerMenu(t *testing.T) {
	recorder := &recordingMenu{}
	calls := map[string]int{}
	New(recorder, Callbacks{
		OnShowWindow: func() { calls["show"]++ },
		OnToggleMini: func() { calls["mini"]++ },
		OnReset:      func() { calls["reset"]++ },
		OnQuit:       func() { calls["quit"]++ },
	})

	require.Len(t, recorder.menus, 1)
	menu := recorder.last()
	assert.Equal(t, []string{"Remaining: --", "Show window", "Mini-player", "Reset timer", "Quit"}, itemLabels(menu))
	assert.True(t, menu.Items[0].Disabled)

	for _, item := range menu.Items {
		if item.Action != nil {
			item.Action()
		}
	}
	assert.Equal(t, map[string]int{"show": 1, "mini": 1, "reset": 1, "quit": 1}, calls)
}

func TestManagerStatus(t *testing.T) {
	recorder := &recordingMenu{}
	manager := New(recorder, Callbacks{})

	manager.SetStatus("42", false)
	assert.Equal(t, "Remaining: 42", manager.StatusLabel())
	menus := len(recorder.menus)

	manager.SetStatus("42", false)
	assert.Len(t, recorder.menus, menus, "unchanged status does not rebuild the menu")

	manager.SetStatus("-03:10", true)
	assert.Equal(t, "Remaining: -03:10 (!)", manager.StatusLabel())

	manager.SetMiniActive(true)
	assert.True(t, recorder.last().Items[2].Checked)
}
