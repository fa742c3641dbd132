package preferences

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waxytimer/internal/audio"
	"waxytimer/internal/core/model"
	"waxytimer/internal/platform"
)

type recordedChange struct {
	settings Settings
	change   Change
}

func newRecordingPanel(t *testing.T, settings Settings) (*Panel, *[]recordedChange) {
	t.Helper()
	test.NewTempApp(t)

	changes := &[]recordedChange{}
	panel := NewPanel(settings, Callbacks{
		OnChange: func(updated Settings, change Change) {
			*changes = append(*changes, recordedChange{settings: updated, change: change})
		},
	})
	return panel, changes
}

func TestSettingsWithLength(t *testing.T) {
	settings := DefaultSettings()
	assert.Equal(t, 15*time.Second, settings.Timer.WarnThreshold)

	long := settings.WithLength(model.LongLength)
	assert.Equal(t, model.LongLength, long.Timer.Length)
	assert.Equal(t, time.Minute, long.Timer.WarnThreshold)
	assert.Equal(t, model.DefaultSoundThreshold, long.Timer.SoundThreshold)

	short := long.WithLength(model.ShortLength)
	assert.Equal(t, 15*time.Second, short.Timer.WarnThreshold)
}

func TestSettingsNormalize(t *testing.T) {
	settings := DefaultSettings()
	settings.Volume = 3
	settings.Timer.WarnThreshold = -time.Second
	settings.SplitOffset = 4
	settings.MainSize = Size{}

	settings.Normalize()

	assert.Equal(t, 1.0, settings.Volume)
	assert.Equal(t, time.Duration(0), settings.Timer.WarnThreshold)
	assert.Equal(t, DefaultSettings().SplitOffset, settings.SplitOffset)
	assert.Equal(t, DefaultSettings().MainSize, settings.MainSize)
}

func TestParseSeconds(t *testing.T) {
	testCases := []struct {
		Input  string
		Expect time.Duration
		OK     bool
	}{
		{Input: "20", Expect: 20 * time.Second, OK: true},
		{Input: " 12.9 ", Expect: 12 * time.Second, OK: true},
		{Input: "-4", Expect: 0, OK: true},
		{Input: "abc", OK: false},
		{Input: "", OK: false},
		{Input: "NaN", OK: false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.Input, func(t *testing.T) {
			value, ok := ParseSeconds(testCase.Input)
			assert.Equal(t, testCase.OK, ok)
			if testCase.OK {
				assert.Equal(t, testCase.Expect, value)
			}
		})
	}
}

func TestLengthLabel(t *testing.T) {
	assert.Equal(t, "90 seconds", LengthLabel(model.ShortLength))
	assert.Equal(t, "10 minutes", LengthLabel(model.LongLength))
	assert.Equal(t, "45 seconds", LengthLabel(45*time.Second))
}

func TestPanelLengthChangeResetsWarnThreshold(t *testing.T) {
	panel, changes := newRecordingPanel(t, DefaultSettings())

	panel.lengthSelect.SetSelectedIndex(1)

	require.Len(t, *changes, 1)
	last := (*changes)[0]
	assert.Equal(t, ChangeLength, last.change)
	assert.Equal(t, model.LongLength, last.settings.Timer.Length)
	assert.Equal(t, time.Minute, last.settings.Timer.WarnThreshold)
	assert.Equal(t, "60", panel.warnEntry.Text)
}

func TestPanelThresholdEntries(t *testing.T) {
	panel, changes := newRecordingPanel(t, DefaultSettings())

	panel.warnEntry.SetText("bogus")
	panel.commitWarn()
	assert.Equal(t, "15", panel.warnEntry.Text, "invalid input restores previous value")
	assert.Empty(t, *changes)

	panel.warnEntry.SetText("30")
	panel.commitWarn()
	require.Len(t, *changes, 1)
	assert.Equal(t, ChangeTimer, (*changes)[0].change)
	assert.Equal(t, 30*time.Second, panel.Settings().Timer.WarnThreshold)

	panel.soundEntry.SetText("5.5")
	panel.commitSoundThreshold()
	require.Len(t, *changes, 2)
	assert.Equal(t, ChangeSoundThreshold, (*changes)[1].change)
	assert.Equal(t, "5", panel.soundEntry.Text)
	assert.Equal(t, 5*time.Second, panel.Settings().Timer.SoundThreshold)
}

func TestPanelVolume(t *testing.T) {
	panel, changes := newRecordingPanel(t, DefaultSettings())
	assert.Equal(t, "50", panel.volumeReset.Text)

	panel.volume.SetValue(30)
	assert.Equal(t, "30", panel.volumeReset.Text)
	assert.InDelta(t, 0.3, panel.Settings().Volume, 0.0001)

	test.Tap(panel.volumeReset)
	assert.Equal(t, "50", panel.volumeReset.Text)
	assert.InDelta(t, 0.5, panel.Settings().Volume, 0.0001)

	require.Len(t, *changes, 2)
	assert.Equal(t, ChangeVolume, (*changes)[1].change)
}

func TestPanelSounds(t *testing.T) {
	panel, changes := newRecordingPanel(t, DefaultSettings())

	sounds := []audio.Sound{
		{Name: "bell", File: "bell.wav", Builtin: true},
		{Name: "chime", File: "chime.wav", Builtin: true},
	}
	panel.SetSounds(sounds)
	assert.Equal(t, "chime", panel.soundSelect.Selected)
	assert.Empty(t, *changes)

	panel.soundSelect.SetSelectedIndex(1)
	require.Len(t, *changes, 1)
	assert.Equal(t, "bell.wav", (*changes)[0].settings.SoundFile)

	panel.SetSounds(sounds[1:])
	assert.Equal(t, noSoundLabel, panel.soundSelect.Selected)
	assert.Equal(t, "", panel.Settings().SoundFile)
	require.Len(t, *changes, 2)
	assert.Equal(t, ChangeSound, (*changes)[1].change)
}

func TestPanelTargets(t *testing.T) {
	panel, changes := newRecordingPanel(t, DefaultSettings())

	windows := []platform.WindowInfo{
		{ID: 1, Title: "2004Scape Game"},
		{ID: 2, Title: "Wiki - Mozilla Firefox"},
		{ID: 3, Title: "Wiki - Mozilla Firefox"},
	}
	panel.SetTargets(windows, 0)
	assert.Empty(t, *changes)
	assert.Equal(t, []string{"2004Scape Game", "Wiki - Mozilla Firefox", "Wiki - Mozilla Firefox (2)"}, panel.targetSelect.Options)

	selected, ok := panel.SelectedTarget()
	require.True(t, ok)
	assert.Equal(t, platform.WindowID(1), selected.ID)

	panel.targetSelect.SetSelectedIndex(2)
	require.Len(t, *changes, 1)
	assert.Equal(t, ChangeTarget, (*changes)[0].change)
	assert.Equal(t, "wiki - mozilla firefox", (*changes)[0].settings.WindowHint)
	selected, _ = panel.SelectedTarget()
	assert.Equal(t, platform.WindowID(3), selected.ID)

	panel.SetTargets(nil, -1)
	_, ok = panel.SelectedTarget()
	assert.False(t, ok)
}
