package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"waxytimer/internal/audio"
	"waxytimer/internal/ui/preferences"
)

const (
	settingsFileName = "settings.yaml"
	soundsDirName    = "sounds"
)

type yamlSize struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

type yamlFilter struct {
	TitleKeywords []string `yaml:"title_keywords,omitempty"`
	Executables   []string `yaml:"executables,omitempty"`
	All           bool     `yaml:"all,omitempty"`
}

type yamlSettings struct {
	LengthSeconds         int         `yaml:"length_seconds"`
	CountBelowZero        *bool       `yaml:"count_below_zero"`
	ThresholdSeconds      *int        `yaml:"threshold_seconds"`
	SoundThresholdSeconds *int        `yaml:"sound_threshold_seconds"`
	SoundFile             *string     `yaml:"sound_file"`
	Volume                *float64    `yaml:"volume"`
	PreferredWindowHint   *string     `yaml:"preferred_window_hint"`
	Filter                *yamlFilter `yaml:"filter,omitempty"`
	MainWindow            *yamlSize   `yaml:"main_window,omitempty"`
	MiniPlayer            *yamlSize   `yaml:"mini_player,omitempty"`
	SplitOffset           float64     `yaml:"split_offset,omitempty"`
	StartMini             bool        `yaml:"start_mini,omitempty"`
}

// Store reads and writes the settings file.
type Store struct {
	path string
}

// NewStore uses path when set, otherwise <UserConfigDir>/<appName>/settings.yaml.
func NewStore(appName, path string) (*Store, error) {
	if path == "" {
		resolved, err := resolveConfigPath(appName)
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return &Store{path: path}, nil
}

// Path returns the settings file location.
func (store *Store) Path() string {
	return store.path
}

// SoundsDir returns the directory imported sounds live in, next to the
// settings file.
func (store *Store) SoundsDir() string {
	return filepath.Join(filepath.Dir(store.path), soundsDirName)
}

// Load reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func (store *Store) Load() (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, errors.Wrap(err, "read settings file")
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, errors.Wrap(err, "parse settings yaml")
	}

	applyYamlSettings(&settings, fileData)
	settings.Normalize()
	return settings, nil
}

// Save writes user preferences to YAML.
func (store *Store) Save(settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	serialized, err := yaml.Marshal(toYamlSettings(settings))
	if err != nil {
		return errors.Wrap(err, "marshal settings yaml")
	}

	temporary := store.path + ".tmp"
	if err := os.WriteFile(temporary, serialized, 0o644); err != nil {
		return errors.Wrap(err, "write settings file")
	}
	if err := os.Rename(temporary, store.path); err != nil {
		os.Remove(temporary)
		return errors.Wrap(err, "replace settings file")
	}
	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func toYamlSettings(settings preferences.Settings) yamlSettings {
	countBelowZero := settings.Timer.CountBelowZero
	threshold := int(settings.Timer.WarnThreshold / time.Second)
	soundThreshold := int(settings.Timer.SoundThreshold / time.Second)
	soundFile := settings.SoundFile
	volume := settings.Volume
	hint := settings.WindowHint

	fileData := yamlSettings{
		LengthSeconds:         int(settings.Timer.Length / time.Second),
		CountBelowZero:        &countBelowZero,
		ThresholdSeconds:      &threshold,
		SoundThresholdSeconds: &soundThreshold,
		SoundFile:             &soundFile,
		Volume:                &volume,
		PreferredWindowHint:   &hint,
		Filter: &yamlFilter{
			TitleKeywords: settings.Filter.TitleKeywords,
			Executables:   settings.Filter.Executables,
			All:           settings.Filter.All,
		},
		SplitOffset: settings.SplitOffset,
		StartMini:   settings.StartMini,
	}
	if settings.MainSize.Width > 0 && settings.MainSize.Height > 0 {
		fileData.MainWindow = &yamlSize{Width: settings.MainSize.Width, Height: settings.MainSize.Height}
	}
	if settings.MiniSize.Width > 0 && settings.MiniSize.Height > 0 {
		fileData.MiniPlayer = &yamlSize{Width: settings.MiniSize.Width, Height: settings.MiniSize.Height}
	}
	return fileData
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.LengthSeconds > 0 {
		*settings = settings.WithLength(time.Duration(fileData.LengthSeconds) * time.Second)
	}
	if fileData.CountBelowZero != nil {
		settings.Timer.CountBelowZero = *fileData.CountBelowZero
	}
	if fileData.ThresholdSeconds != nil {
		settings.Timer.WarnThreshold = clampSeconds(*fileData.ThresholdSeconds)
	}
	if fileData.SoundThresholdSeconds != nil {
		settings.Timer.SoundThreshold = clampSeconds(*fileData.SoundThresholdSeconds)
	}

	if fileData.SoundFile != nil {
		settings.SoundFile = filepath.Base(*fileData.SoundFile)
		if *fileData.SoundFile == "" {
			settings.SoundFile = ""
		}
	} else {
		settings.SoundFile = audio.DefaultSound
	}
	if fileData.Volume != nil {
		settings.Volume = audio.ClampVolume(*fileData.Volume)
	}
	if fileData.PreferredWindowHint != nil {
		settings.WindowHint = *fileData.PreferredWindowHint
	}
	if fileData.Filter != nil {
		settings.Filter.All = fileData.Filter.All
		if len(fileData.Filter.TitleKeywords) > 0 {
			settings.Filter.TitleKeywords = fileData.Filter.TitleKeywords
		}
		if len(fileData.Filter.Executables) > 0 {
			settings.Filter.Executables = fileData.Filter.Executables
		}
	}

	if fileData.MainWindow != nil {
		settings.MainSize = preferences.Size{Width: fileData.MainWindow.Width, Height: fileData.MainWindow.Height}
	}
	if fileData.MiniPlayer != nil {
		settings.MiniSize = preferences.Size{Width: fileData.MiniPlayer.Width, Height: fileData.MiniPlayer.Height}
	}
	if fileData.SplitOffset > 0 {
		settings.SplitOffset = fileData.SplitOffset
	}
	settings.StartMini = fileData.StartMini
}

func clampSeconds(seconds int) time.Duration {
	if seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
