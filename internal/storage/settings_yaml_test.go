package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waxytimer/internal/audio"
	"waxytimer/internal/core/model"
	"waxytimer/internal/ui/preferences"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("Waxy Timer", filepath.Join(t.TempDir(), "nested", settingsFileName))
	require.NoError(t, err)
	return store
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
	assert.Equal(t, filepath.Join(filepath.Dir(store.Path()), "sounds"), store.SoundsDir())
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	settings := preferences.DefaultSettings().WithLength(model.LongLength)
	settings.Timer.CountBelowZero = false
	settings.Timer.SoundThreshold = 30 * time.Second
	settings.SoundFile = "bell_1.wav"
	settings.Volume = 0.25
	settings.WindowHint = "wiki - mozilla firefox"
	settings.MiniSize = preferences.Size{Width: 220, Height: 120}
	settings.StartMini = true

	require.NoError(t, store.Save(settings))
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)

	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadAppliesDefaultsAndClamps(t *testing.T) {
	testCases := []struct {
		Name   string
		YAML   string
		Verify func(t *testing.T, settings preferences.Settings)
	}{
		{
			Name: "absent sound keys use defaults",
			YAML: "length_seconds: 90\nthreshold_seconds: 20\n",
			Verify: func(t *testing.T, settings preferences.Settings) {
				assert.Equal(t, model.DefaultSoundThreshold, settings.Timer.SoundThreshold)
				assert.Equal(t, audio.DefaultSound, settings.SoundFile)
				assert.Equal(t, 20*time.Second, settings.Timer.WarnThreshold)
			},
		},
		{
			Name: "explicit empty sound means none",
			YAML: "sound_file: \"\"\n",
			Verify: func(t *testing.T, settings preferences.Settings) {
				assert.Equal(t, "", settings.SoundFile)
			},
		},
		{
			Name: "length without threshold gets length default",
			YAML: "length_seconds: 600\n",
			Verify: func(t *testing.T, settings preferences.Settings) {
				assert.Equal(t, model.LongLength, settings.Timer.Length)
				assert.Equal(t, time.Minute, settings.Timer.WarnThreshold)
			},
		},
		{
			Name: "out of range values are clamped",
			YAML: "volume: 7\nthreshold_seconds: -5\nsound_threshold_seconds: -1\n",
			Verify: func(t *testing.T, settings preferences.Settings) {
				assert.Equal(t, 1.0, settings.Volume)
				assert.Equal(t, time.Duration(0), settings.Timer.WarnThreshold)
				assert.Equal(t, time.Duration(0), settings.Timer.SoundThreshold)
			},
		},
		{
			Name: "sound path is reduced to its file name",
			YAML: "sound_file: ../../etc/bell.wav\ncount_below_zero: false\n",
			Verify: func(t *testing.T, settings preferences.Settings) {
				assert.Equal(t, "bell.wav", settings.SoundFile)
				assert.False(t, settings.Timer.CountBelowZero)
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			store := newTestStore(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
			require.NoError(t, os.WriteFile(store.Path(), []byte(testCase.YAML), 0o644))

			settings, err := store.Load()
			require.NoError(t, err)
			testCase.Verify(t, settings)
		})
	}
}

func TestLoadCorruptFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("volume: [unterminated"), 0o644))

	settings, err := store.Load()
	assert.Error(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}
