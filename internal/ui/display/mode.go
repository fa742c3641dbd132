package display

import "time"

// Mode is the visible presentation of the timer.
type Mode int

const (
	ModeNormal Mode = iota
	ModeMini
)

func (mode Mode) String() string {
	if mode == ModeMini {
		return "mini"
	}
	return "normal"
}

// RestoreSuppression is how long EnterMini is ignored after a restore.
const RestoreSuppression = 350 * time.Millisecond

// Surface is a window the mode switch shows or hides.
type Surface interface {
	Show()
	Hide()
}

// ModeSwitch toggles between the main window and the mini-player. It is
// driven from the UI goroutine.
type ModeSwitch struct {
	normal Surface
	mini   Surface
	now    func() time.Time

	mode          Mode
	suppressUntil time.Time

	OnChanged func(Mode)
}

// NewModeSwitch starts in normal mode. now defaults to time.Now.
func NewModeSwitch(normal, mini Surface, now func() time.Time) *ModeSwitch {
	if now == nil {
		now = time.Now
	}
	return &ModeSwitch{normal: normal, mini: mini, now: now}
}

// Mode returns the current mode.
func (modeSwitch *ModeSwitch) Mode() Mode {
	return modeSwitch.mode
}

// EnterMini shows the mini-player and hides the main window. It reports
// whether the mode changed.
func (modeSwitch *ModeSwitch) EnterMini() bool {
	if modeSwitch.mode == ModeMini || modeSwitch.now().Before(modeSwitch.suppressUntil) {
		return false
	}
	modeSwitch.mini.Show()
	modeSwitch.normal.Hide()
	modeSwitch.set(ModeMini)
	return true
}

// Restore hides the mini-player and shows the main window.
func (modeSwitch *ModeSwitch) Restore() bool {
	if modeSwitch.mode != ModeMini {
		return false
	}
	modeSwitch.suppressUntil = modeSwitch.now().Add(RestoreSuppression)
	modeSwitch.mini.Hide()
	modeSwitch.normal.Show()
	modeSwitch.set(ModeNormal)
	return true
}

// Toggle switches to the other mode.
func (modeSwitch *ModeSwitch) Toggle() bool {
	if modeSwitch.mode == ModeMini {
		return modeSwitch.Restore()
	}
	return modeSwitch.EnterMini()
}

func (modeSwitch *ModeSwitch) set(mode Mode) {
	modeSwitch.mode = mode
	if modeSwitch.OnChanged != nil {
		modeSwitch.OnChanged(mode)
	}
}
