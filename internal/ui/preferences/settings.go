package preferences

import (
	"time"

	"waxytimer/internal/audio"
	"waxytimer/internal/core/model"
	"waxytimer/internal/core/target"
)

// Size is a persisted window size in device-independent pixels.
type Size struct {
	Width  float32
	Height float32
}

// Settings defines editable user preferences.
type Settings struct {
	Timer      model.TimerConfig
	SoundFile  string
	Volume     float64
	WindowHint string
	Filter     target.Filter

	MainSize    Size
	MiniSize    Size
	SplitOffset float64
	StartMini   bool
}

// DefaultSettings returns default settings for Waxy Timer.
func DefaultSettings() Settings {
	return Settings{
		Timer:       model.DefaultTimerConfig(),
		SoundFile:   audio.DefaultSound,
		Volume:      audio.DefaultVolume,
		WindowHint:  target.DefaultTitleKeyword,
		Filter:      target.DefaultFilter(),
		MainSize:    Size{Width: 700, Height: 250},
		SplitOffset: 0.48,
	}
}

// TimerConfig returns the countdown configuration.
func (settings Settings) TimerConfig() model.TimerConfig {
	config := settings.Timer
	config.Normalize()
	return config
}

// WithLength switches the countdown length and moves the warning threshold
// to the default for that length.
func (settings Settings) WithLength(length time.Duration) Settings {
	settings.Timer.Length = length
	settings.Timer.WarnThreshold = model.DefaultWarnThreshold(length)
	return settings
}

// Normalize clamps out-of-range values in place.
func (settings *Settings) Normalize() {
	settings.Timer.Normalize()
	settings.Volume = audio.ClampVolume(settings.Volume)
	if settings.SplitOffset <= 0 || settings.SplitOffset >= 1 {
		settings.SplitOffset = DefaultSettings().SplitOffset
	}
	if settings.MainSize.Width <= 0 || settings.MainSize.Height <= 0 {
		settings.MainSize = DefaultSettings().MainSize
	}
	if settings.MiniSize.Width < 0 || settings.MiniSize.Height < 0 {
		settings.MiniSize = Size{}
	}
}
