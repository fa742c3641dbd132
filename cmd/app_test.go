package main

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waxytimer/internal/audio"
	"waxytimer/internal/core/activity"
	"waxytimer/internal/core/countdown"
	"waxytimer/internal/core/model"
	"waxytimer/internal/platform"
	"waxytimer/internal/storage"
	"waxytimer/internal/ui/preferences"
	"waxytimer/resources"
)

type testClock struct {
	now time.Time
}

func (clock *testClock) Now() time.Time { return clock.now }

func (clock *testClock) Advance(delta time.Duration) {
	clock.now = clock.now.Add(delta)
}

type listedWindows struct {
	platform.NoWindowSystem
	windows []platform.WindowInfo
}

func (system *listedWindows) ListWindows() ([]platform.WindowInfo, error) {
	return system.windows, nil
}

type recordingTray struct {
	menu *fyne.Menu
	icon fyne.Resource
}

func (tray *recordingTray) SetSystemTrayMenu(menu *fyne.Menu) { tray.menu = menu }

func (tray *recordingTray) SetSystemTrayIcon(icon fyne.Resource) { tray.icon = icon }

var (
	gameWindow    = platform.WindowInfo{ID: 1, Title: "2004Scape Game", Executable: "javaw.exe"}
	browserWindow = platform.WindowInfo{ID: 2, Title: "Wiki - Mozilla Firefox", Executable: "firefox.exe"}
)

func newTestSession(t *testing.T, windows *listedWindows) (*session, *testClock, *recordingTray) {
	t.Helper()

	fyneApp := test.NewTempApp(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	store, err := storage.NewStore(appName, filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	settings := preferences.DefaultSettings()
	library := audio.NewLibrary(resources.Sounds(), store.SoundsDir())
	timer := countdown.New(settings.TimerConfig(), countdown.Config{Now: clock.Now})
	host := &recordingTray{}

	current := &session{
		log:      log,
		fyneApp:  fyneApp,
		desktop:  host,
		settings: settings,
		saver:    storage.NewSaver(store, log, time.Hour),
		windows:  windows,
		library:  library,
		player:   audio.NewPlayer(library, log),
		timer:    timer,
		watcher:  activity.New(windows, timer, log),
	}
	current.loadSound(settings.SoundFile)
	current.buildUI()
	return current, clock, host
}

func TestTargetChangeResetsTimer(t *testing.T) {
	windows := &listedWindows{windows: []platform.WindowInfo{gameWindow, browserWindow}}
	current, clock, _ := newTestSession(t, windows)
	require.Equal(t, gameWindow.ID, current.watcher.Target())

	clock.Advance(30 * time.Second)
	require.Equal(t, 60*time.Second, current.timer.Remaining())

	current.panel.SetTargets(windows.windows, 1)
	current.handleChange(current.panel.Settings(), preferences.ChangeTarget)

	assert.Equal(t, browserWindow.ID, current.watcher.Target())
	assert.Equal(t, 90*time.Second, current.timer.Remaining())
}

func TestRefreshTargetsKeepsCurrentTarget(t *testing.T) {
	windows := &listedWindows{windows: []platform.WindowInfo{gameWindow, browserWindow}}
	current, clock, _ := newTestSession(t, windows)

	clock.Advance(20 * time.Second)
	current.refreshTargets()
	assert.Equal(t, gameWindow.ID, current.watcher.Target())
	assert.Equal(t, 70*time.Second, current.timer.Remaining(), "same target keeps counting")

	windows.windows = []platform.WindowInfo{browserWindow}
	current.refreshTargets()
	assert.Equal(t, browserWindow.ID, current.watcher.Target())
	assert.Equal(t, 90*time.Second, current.timer.Remaining(), "lost target resets")
}

func TestTimerChangesUpdateCountdown(t *testing.T) {
	current, clock, _ := newTestSession(t, &listedWindows{windows: []platform.WindowInfo{gameWindow}})

	clock.Advance(10 * time.Second)
	updated := current.panel.Settings().WithLength(model.LongLength)
	current.handleChange(updated, preferences.ChangeLength)

	assert.Equal(t, model.LongLength, current.timer.Config().Length)
	assert.Equal(t, time.Minute, current.timer.Config().WarnThreshold)
	assert.Equal(t, model.LongLength, current.timer.Remaining())
	assert.Equal(t, "10:00", current.main.Face().Text())

	updated.Timer.CountBelowZero = false
	updated.Timer.SoundThreshold = 5 * time.Second
	current.handleChange(updated, preferences.ChangeSoundThreshold)

	assert.False(t, current.timer.Config().CountBelowZero)
	assert.Equal(t, 5*time.Second, current.timer.Config().SoundThreshold)
	assert.Equal(t, updated.Timer, current.settings.Timer)
}

func TestDangerSwapsTrayIcon(t *testing.T) {
	current, clock, host := newTestSession(t, &listedWindows{windows: []platform.WindowInfo{gameWindow}})
	require.Equal(t, resources.MustLogo(resources.IconNormal), host.icon)

	clock.Advance(10 * time.Second)
	updated := current.panel.Settings()
	updated.Timer.WarnThreshold = 85 * time.Second
	current.handleChange(updated, preferences.ChangeTimer)

	assert.Equal(t, resources.MustLogo(resources.IconDanger), host.icon)
	assert.True(t, current.main.Face().Danger())
	assert.True(t, current.mini.Face().Danger())
	assert.Contains(t, current.tray.StatusLabel(), "(!)")

	updated.Timer.WarnThreshold = 15 * time.Second
	current.handleChange(updated, preferences.ChangeTimer)

	assert.Equal(t, resources.MustLogo(resources.IconNormal), host.icon)
	assert.False(t, current.main.Face().Danger())
	assert.NotContains(t, current.tray.StatusLabel(), "(!)")
}

func TestSoundChangeKeepsCountdown(t *testing.T) {
	current, clock, _ := newTestSession(t, &listedWindows{windows: []platform.WindowInfo{gameWindow}})
	events := current.timer.Subscribe(16)

	clock.Advance(30 * time.Second)
	current.panel.SelectSound("bell.wav")

	assert.Equal(t, "bell.wav", current.player.Loaded())
	assert.Equal(t, "bell.wav", current.settings.SoundFile)
	assert.Equal(t, 60*time.Second, current.timer.Remaining())

	var remaining []audio.Sound
	for _, sound := range current.library.List() {
		if sound.File != "bell.wav" {
			remaining = append(remaining, sound)
		}
	}
	current.panel.SetSounds(remaining)

	assert.Empty(t, current.player.Loaded(), "a vanished sound unloads")
	assert.Empty(t, current.settings.SoundFile)
	assert.Equal(t, 60*time.Second, current.timer.Remaining(), "sound changes are not activity")

	select {
	case event := <-events:
		t.Fatalf("unexpected countdown event %s", event.Type)
	default:
	}
}
