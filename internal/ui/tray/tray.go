package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowWindow func()
	OnToggleMini func()
	OnReset      func()
	OnQuit       func()
}

// Menu is the part of desktop.App the manager drives.
type Menu interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Manager handles system tray state.
type Manager struct {
	app         Menu
	callbacks   Callbacks
	statusItem  *fyne.MenuItem
	miniItem    *fyne.MenuItem
	statusLabel string
	danger      bool
}

// New creates a tray manager with the provided callbacks.
func New(app Menu, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Remaining: --", nil)
	manager.statusItem.Disabled = true

	manager.miniItem = fyne.NewMenuItem("Mini-player", func() {
		if manager.callbacks.OnToggleMini != nil {
			manager.callbacks.OnToggleMini()
		}
	})

	manager.refreshMenu()
	return manager
}

// SetStatus updates the remaining-time label.
func (manager *Manager) SetStatus(status string, danger bool) {
	if manager.statusLabel == status && manager.danger == danger {
		return
	}
	manager.statusLabel = status
	manager.danger = danger
	manager.refreshStatus()
}

// SetMiniActive flips the mini-player item between enter and leave.
func (manager *Manager) SetMiniActive(active bool) {
	manager.miniItem.Checked = active
	manager.refreshMenu()
}

// StatusLabel returns the label shown on the status item.
func (manager *Manager) StatusLabel() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshStatus() {
	status := manager.statusLabel
	if manager.danger {
		status = fmt.Sprintf("%s (!)", status)
	}
	manager.statusItem.Label = fmt.Sprintf("Remaining: %s", status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Waxy Timer",
		manager.statusItem,
		fyne.NewMenuItem("Show window", func() {
			if manager.callbacks.OnShowWindow != nil {
				manager.callbacks.OnShowWindow()
			}
		}),
		manager.miniItem,
		fyne.NewMenuItem("Reset timer", func() {
			if manager.callbacks.OnReset != nil {
				manager.callbacks.OnReset()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
