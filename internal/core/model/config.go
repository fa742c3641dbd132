package model

import "time"

const (
	// ShortLength is the default countdown length.
	ShortLength = 90 * time.Second
	// LongLength is the alternate countdown length preset.
	LongLength = 10 * time.Minute

	// SecondsDisplayLimit separates plain-seconds display from MM:SS display.
	SecondsDisplayLimit = 100 * time.Second

	DefaultSoundThreshold = 15 * time.Second
)

// LengthPresets lists the lengths offered in the UI.
var LengthPresets = []time.Duration{ShortLength, LongLength}

// TimerConfig contains runtime settings for the countdown.
type TimerConfig struct {
	Length         time.Duration
	WarnThreshold  time.Duration
	SoundThreshold time.Duration
	CountBelowZero bool
}

// DefaultTimerConfig returns the configuration used on first launch.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		Length:         ShortLength,
		WarnThreshold:  DefaultWarnThreshold(ShortLength),
		SoundThreshold: DefaultSoundThreshold,
		CountBelowZero: true,
	}
}

// DefaultWarnThreshold returns the red threshold that fits a countdown length.
func DefaultWarnThreshold(length time.Duration) time.Duration {
	if length < SecondsDisplayLimit {
		return 15 * time.Second
	}
	return time.Minute
}

// Normalize clamps invalid values in place.
func (config *TimerConfig) Normalize() {
	if config.Length <= 0 {
		config.Length = ShortLength
	}
	if config.WarnThreshold < 0 {
		config.WarnThreshold = 0
	}
	if config.SoundThreshold < 0 {
		config.SoundThreshold = 0
	}
}
