package main

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fynestorage "fyne.io/fyne/v2/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"waxytimer/internal/audio"
	"waxytimer/internal/core/activity"
	"waxytimer/internal/core/countdown"
	"waxytimer/internal/platform"
	"waxytimer/internal/storage"
	"waxytimer/internal/ui/display"
	"waxytimer/internal/ui/mini"
	"waxytimer/internal/ui/preferences"
	"waxytimer/internal/ui/tray"
	"waxytimer/resources"
)

// trayHost is the part of desktop.App the session drives.
type trayHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// session owns the running app. Its settings field is only touched from the
// UI goroutine.
type session struct {
	log      *logrus.Logger
	fyneApp  fyne.App
	desktop  trayHost
	settings preferences.Settings
	saver    *storage.Saver

	windows platform.WindowSystem
	hook    platform.InputHook
	library *audio.Library
	player  *audio.Player
	timer   *countdown.Countdown
	watcher *activity.Watcher

	panel  *preferences.Panel
	main   *display.Window
	mini   *mini.Window
	modes  *display.ModeSwitch
	tray   *tray.Manager
	danger bool

	ctx    context.Context
	cancel context.CancelFunc
}

func runApp(opts *options, log *logrus.Logger) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.WithError(err).Warn("single instance")
		return nil
	}
	defer func() {
		_ = guard.Release()
	}()

	store, err := storage.NewStore(appName, opts.configPath)
	if err != nil {
		return err
	}
	settings, err := store.Load()
	if err != nil {
		log.WithError(err).WithField("path", store.Path()).Warn("settings unreadable, using defaults")
	}

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustLogo(resources.IconNormal))
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return errors.New("system tray unsupported on this platform")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	current := &session{
		log:      log,
		fyneApp:  fyneApp,
		desktop:  desktopApp,
		settings: settings,
		saver:    storage.NewSaver(store, log, 0),
		ctx:      ctx,
		cancel:   cancel,
	}

	current.windows, err = platform.NewWindowSystem()
	if err != nil {
		log.WithError(err).Warn("window system unavailable, target selection disabled")
		current.windows = platform.NoWindowSystem{}
	}
	defer current.windows.Close()

	current.library = audio.NewLibrary(resources.Sounds(), store.SoundsDir())
	current.player = audio.NewPlayer(current.library, log)
	current.player.SetVolume(settings.Volume)
	current.loadSound(settings.SoundFile)

	current.timer = countdown.New(settings.TimerConfig(), countdown.Config{})
	current.watcher = activity.New(current.windows, current.timer, log)

	current.buildUI()
	current.startSoundWatch()
	current.startInput()
	current.startCountdown()

	if opts.mini || settings.StartMini {
		current.modes.EnterMini()
	} else {
		current.main.Show()
	}

	fyneApp.Run()
	current.shutdown()
	return nil
}

func (current *session) buildUI() {
	settings := current.settings

	current.panel = preferences.NewPanel(settings, preferences.Callbacks{
		OnChange:  current.handleChange,
		OnRefresh: current.refreshTargets,
		OnPlay: func() {
			if err := current.player.Play(); err != nil {
				current.log.WithError(err).Warn("play sound")
			}
		},
		OnUpload: current.showUpload,
	})

	current.main = display.New(current.fyneApp, appName, current.panel.Content(), settings.SplitOffset,
		fyne.NewSize(settings.MainSize.Width, settings.MainSize.Height))
	current.main.SetCloseIntercept(func() {
		current.captureGeometry()
		current.main.Hide()
		current.saver.Schedule(current.settings)
	})

	current.mini = mini.New(current.fyneApp, fyne.NewSize(settings.MiniSize.Width, settings.MiniSize.Height), func() fyne.Size {
		return current.main.Face().Size()
	})
	current.mini.SetMover(current.windows)
	current.mini.OnResized = func(size fyne.Size) {
		current.settings.MiniSize = preferences.Size{Width: size.Width, Height: size.Height}
		current.saver.Schedule(current.settings)
	}

	current.modes = display.NewModeSwitch(current.main, current.mini, nil)
	current.main.Face().OnSecondaryTapped = func() {
		current.captureGeometry()
		current.modes.EnterMini()
	}
	current.mini.OnRestore = func() {
		current.modes.Restore()
	}

	current.tray = tray.New(current.desktop, tray.Callbacks{
		OnShowWindow: func() {
			if current.modes.Mode() == display.ModeMini {
				current.modes.Restore()
				return
			}
			current.main.Show()
		},
		OnToggleMini: func() {
			if current.modes.Mode() == display.ModeNormal {
				current.captureGeometry()
			}
			current.modes.Toggle()
		},
		OnReset: current.timer.Reset,
		OnQuit:  current.quit,
	})
	current.desktop.SetSystemTrayIcon(resources.MustLogo(resources.IconNormal))

	current.modes.OnChanged = func(mode display.Mode) {
		current.tray.SetMiniActive(mode == display.ModeMini)
		current.settings.StartMini = mode == display.ModeMini
		current.saver.Schedule(current.settings)
		current.log.WithField("mode", mode).Debug("display mode changed")
	}

	current.panel.SetSounds(current.library.List())
	current.refreshTargets()
	current.applySnapshot(current.timer.Snapshot())
}

func (current *session) handleChange(updated preferences.Settings, change preferences.Change) {
	current.settings.Timer = updated.Timer
	current.settings.SoundFile = updated.SoundFile
	current.settings.Volume = updated.Volume
	current.settings.WindowHint = updated.WindowHint

	switch change {
	case preferences.ChangeTarget:
		selected, _ := current.panel.SelectedTarget()
		current.watcher.SetTarget(selected.ID)
		current.timer.Reset()
		current.log.WithField("title", selected.Title).Info("target window changed")
	case preferences.ChangeLength, preferences.ChangeTimer, preferences.ChangeSoundThreshold:
		current.timer.UpdateConfig(current.settings.TimerConfig())
		current.applySnapshot(current.timer.Snapshot())
	case preferences.ChangeSound:
		current.loadSound(current.settings.SoundFile)
		current.timer.RearmAlert()
	case preferences.ChangeVolume:
		current.player.SetVolume(current.settings.Volume)
	}
	current.saver.Schedule(current.settings)
}

func (current *session) refreshTargets() {
	windows, err := current.windows.ListWindows()
	if err != nil {
		current.log.WithError(err).Debug("list windows")
	}
	filter := current.settings.Filter
	allowed := filter.Apply(windows)
	index := filter.Preserve(allowed, current.watcher.Target(), current.settings.WindowHint)
	current.panel.SetTargets(allowed, index)

	selected, _ := current.panel.SelectedTarget()
	if selected.ID != current.watcher.Target() {
		current.watcher.SetTarget(selected.ID)
		current.timer.Reset()
	}
}

func (current *session) loadSound(file string) {
	if err := current.player.Load(file); err != nil {
		current.log.WithError(err).WithField("sound", file).Warn("load sound")
	}
}

func (current *session) showUpload() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, current.main.Window())
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()

		stored, err := current.library.Import(path)
		if err != nil {
			dialog.ShowError(err, current.main.Window())
			return
		}
		current.panel.SetSounds(current.library.List())
		current.panel.SelectSound(stored)
	}, current.main.Window())
	open.SetFilter(fynestorage.NewExtensionFileFilter([]string{".wav", ".WAV"}))
	open.Show()
}

func (current *session) startSoundWatch() {
	err := current.library.Watch(current.ctx, current.log, func() {
		fyne.Do(func() {
			current.panel.SetSounds(current.library.List())
		})
	})
	if err != nil {
		current.log.WithError(err).Warn("sound directory not watched")
	}
}

func (current *session) startInput() {
	current.hook = platform.NewInputHook()
	events, err := current.hook.Start(current.ctx)
	if err != nil {
		current.log.WithError(err).Warn("global input hook unavailable, falling back to idle polling")
		current.hook = platform.NewIdlePollHook(platform.NewIdleProvider(), 0)
		events, err = current.hook.Start(current.ctx)
	}
	if err != nil {
		current.log.WithError(err).Warn("activity detection unavailable")
		current.hook = nil
		return
	}
	go current.watcher.Run(current.ctx, events)
}

func (current *session) startCountdown() {
	events := current.timer.Subscribe(16)
	go func() {
		for event := range events {
			switch event.Type {
			case countdown.EventProgress:
				snapshot := countdown.Snapshot{
					Remaining: event.Remaining,
					Danger:    event.Danger,
					Text:      event.Text,
					Digits:    event.Digits,
				}
				fyne.Do(func() {
					current.applySnapshot(snapshot)
				})
			case countdown.EventAlert:
				if err := current.player.Play(); err != nil {
					current.log.WithError(err).Warn("play alert")
				}
			case countdown.EventReset:
				current.log.Debug("countdown reset")
			}
		}
	}()
	current.timer.Start()
}

func (current *session) applySnapshot(snapshot countdown.Snapshot) {
	current.main.Face().SetState(snapshot.Text, snapshot.Danger, snapshot.Digits)
	current.mini.Face().SetState(snapshot.Text, snapshot.Danger, snapshot.Digits)
	current.tray.SetStatus(snapshot.Text, snapshot.Danger)
	if snapshot.Danger != current.danger {
		current.danger = snapshot.Danger
		icon := resources.IconNormal
		if snapshot.Danger {
			icon = resources.IconDanger
		}
		current.desktop.SetSystemTrayIcon(resources.MustLogo(icon))
	}
}

func (current *session) captureGeometry() {
	current.settings.SplitOffset = current.main.SplitOffset()
	if size := current.main.Size(); size.Width > 0 && size.Height > 0 {
		current.settings.MainSize = preferences.Size{Width: size.Width, Height: size.Height}
	}
}

func (current *session) quit() {
	if current.modes.Mode() == display.ModeNormal {
		current.captureGeometry()
	}
	current.fyneApp.Quit()
}

func (current *session) shutdown() {
	current.cancel()
	current.timer.Stop()
	if current.hook != nil {
		if err := current.hook.Stop(); err != nil {
			current.log.WithError(err).Debug("stop input hook")
		}
	}
	if err := current.saver.Flush(current.settings); err != nil {
		current.log.WithError(err).Warn("save settings")
	}
}
