package preferences

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"waxytimer/internal/audio"
	"waxytimer/internal/core/model"
	"waxytimer/internal/platform"
)

// Change identifies which part of the settings the user edited.
type Change int

const (
	ChangeTarget Change = iota
	ChangeLength
	ChangeTimer
	ChangeSoundThreshold
	ChangeSound
	ChangeVolume
)

const noSoundLabel = "None"

// Callbacks defines panel action handlers.
type Callbacks struct {
	OnChange  func(Settings, Change)
	OnRefresh func()
	OnPlay    func()
	OnUpload  func()
}

// Panel is the settings half of the main window.
type Panel struct {
	settings  Settings
	callbacks Callbacks
	updating  bool

	targets      []platform.WindowInfo
	targetSelect *widget.Select
	lengths      []time.Duration
	lengthSelect *widget.Select
	belowZero    *widget.Check
	warnEntry    *thresholdEntry
	soundEntry   *thresholdEntry
	sounds       []audio.Sound
	soundSelect  *widget.Select
	volume       *widget.Slider
	volumeReset  *widget.Button

	content fyne.CanvasObject
}

// NewPanel builds the settings controls.
func NewPanel(settings Settings, callbacks Callbacks) *Panel {
	panel := &Panel{settings: settings, callbacks: callbacks}

	panel.targetSelect = widget.NewSelect(nil, panel.handleTargetSelected)
	panel.targetSelect.PlaceHolder = "No windows found"
	refreshButton := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		if panel.callbacks.OnRefresh != nil {
			panel.callbacks.OnRefresh()
		}
	})

	panel.lengths = lengthOptions(settings.Timer.Length)
	labels := make([]string, len(panel.lengths))
	for index, length := range panel.lengths {
		labels[index] = LengthLabel(length)
	}
	panel.lengthSelect = widget.NewSelect(labels, panel.handleLengthSelected)
	panel.belowZero = widget.NewCheck("Count below zero", func(checked bool) {
		panel.settings.Timer.CountBelowZero = checked
		panel.notify(ChangeTimer)
	})

	panel.warnEntry = newThresholdEntry(panel.commitWarn)
	panel.soundEntry = newThresholdEntry(panel.commitSoundThreshold)

	panel.soundSelect = widget.NewSelect([]string{noSoundLabel}, panel.handleSoundSelected)
	playButton := widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() {
		if panel.callbacks.OnPlay != nil {
			panel.callbacks.OnPlay()
		}
	})
	uploadButton := widget.NewButtonWithIcon("", theme.UploadIcon(), func() {
		if panel.callbacks.OnUpload != nil {
			panel.callbacks.OnUpload()
		}
	})

	panel.volume = widget.NewSlider(0, 100)
	panel.volume.Step = 1
	panel.volume.OnChanged = panel.handleVolume
	panel.volumeReset = widget.NewButton("50", func() {
		panel.volume.SetValue(audio.DefaultVolume * 100)
	})

	thresholds := container.NewGridWithColumns(2,
		container.NewVBox(widget.NewLabelWithStyle("Turn red at", fyne.TextAlignCenter, fyne.TextStyle{}), panel.warnEntry),
		container.NewVBox(widget.NewLabelWithStyle("Play sound at", fyne.TextAlignCenter, fyne.TextStyle{}), panel.soundEntry),
	)

	panel.content = container.NewVBox(
		container.NewBorder(nil, nil, nil, refreshButton, panel.targetSelect),
		container.NewGridWithColumns(2, panel.lengthSelect, panel.belowZero),
		thresholds,
		container.NewBorder(nil, nil, nil, container.NewHBox(playButton, uploadButton), panel.soundSelect),
		container.NewBorder(nil, nil, widget.NewLabel("Volume"), panel.volumeReset, panel.volume),
		layout.NewSpacer(),
	)

	panel.UpdateSettings(settings)
	return panel
}

// Content returns the panel's canvas object.
func (panel *Panel) Content() fyne.CanvasObject {
	return panel.content
}

// Settings returns the settings as currently edited.
func (panel *Panel) Settings() Settings {
	return panel.settings
}

// UpdateSettings replaces panel values without firing callbacks.
func (panel *Panel) UpdateSettings(settings Settings) {
	panel.updating = true
	defer func() { panel.updating = false }()

	panel.settings = settings
	index := indexOfLength(panel.lengths, settings.Timer.Length)
	if index < 0 {
		panel.lengths = lengthOptions(settings.Timer.Length)
		labels := make([]string, len(panel.lengths))
		for i, length := range panel.lengths {
			labels[i] = LengthLabel(length)
		}
		panel.lengthSelect.SetOptions(labels)
		index = indexOfLength(panel.lengths, settings.Timer.Length)
	}
	panel.lengthSelect.SetSelectedIndex(index)
	panel.belowZero.SetChecked(settings.Timer.CountBelowZero)
	panel.warnEntry.SetText(formatSeconds(settings.Timer.WarnThreshold))
	panel.soundEntry.SetText(formatSeconds(settings.Timer.SoundThreshold))
	panel.volume.SetValue(math.Round(settings.Volume * 100))
	panel.volumeReset.SetText(strconv.Itoa(int(math.Round(settings.Volume * 100))))
	panel.selectSound(settings.SoundFile)
}

// SetTargets replaces the window list and selects the given index.
func (panel *Panel) SetTargets(windows []platform.WindowInfo, selected int) {
	panel.updating = true
	defer func() { panel.updating = false }()

	panel.targets = windows
	panel.targetSelect.SetOptions(targetLabels(windows))
	if selected >= 0 && selected < len(windows) {
		panel.targetSelect.SetSelectedIndex(selected)
	} else {
		panel.targetSelect.ClearSelected()
	}
}

// SelectedTarget returns the selected window.
func (panel *Panel) SelectedTarget() (platform.WindowInfo, bool) {
	index := panel.targetSelect.SelectedIndex()
	if index < 0 || index >= len(panel.targets) {
		return platform.WindowInfo{}, false
	}
	return panel.targets[index], true
}

// SetSounds replaces the sound list and keeps the current selection when it
// still exists. A selection that disappeared falls back to no sound.
func (panel *Panel) SetSounds(sounds []audio.Sound) {
	panel.sounds = sounds
	labels := make([]string, 0, len(sounds)+1)
	labels = append(labels, noSoundLabel)
	for _, sound := range sounds {
		labels = append(labels, sound.Name)
	}

	panel.updating = true
	panel.soundSelect.SetOptions(labels)
	previous := panel.settings.SoundFile
	panel.selectSound(previous)
	panel.updating = false

	if panel.settings.SoundFile != previous {
		panel.notify(ChangeSound)
	}
}

// SelectSound selects a sound by file name as if the user picked it.
func (panel *Panel) SelectSound(file string) {
	panel.updating = true
	panel.selectSound(file)
	panel.updating = false
	panel.notify(ChangeSound)
}

func (panel *Panel) selectSound(file string) {
	for index, sound := range panel.sounds {
		if sound.File == file {
			panel.soundSelect.SetSelectedIndex(index + 1)
			panel.settings.SoundFile = file
			return
		}
	}
	panel.soundSelect.SetSelectedIndex(0)
	if len(panel.sounds) > 0 || file == "" {
		panel.settings.SoundFile = ""
	}
}

func (panel *Panel) handleTargetSelected(string) {
	if panel.updating {
		return
	}
	window, ok := panel.SelectedTarget()
	if !ok {
		return
	}
	panel.settings.WindowHint = panel.settings.Filter.HintFor(window.Title)
	panel.notify(ChangeTarget)
}

func (panel *Panel) handleLengthSelected(string) {
	if panel.updating {
		return
	}
	index := panel.lengthSelect.SelectedIndex()
	if index < 0 || index >= len(panel.lengths) {
		return
	}
	panel.settings = panel.settings.WithLength(panel.lengths[index])
	panel.warnEntry.SetText(formatSeconds(panel.settings.Timer.WarnThreshold))
	panel.notify(ChangeLength)
}

func (panel *Panel) handleSoundSelected(string) {
	if panel.updating {
		return
	}
	index := panel.soundSelect.SelectedIndex()
	if index <= 0 || index > len(panel.sounds) {
		panel.settings.SoundFile = ""
	} else {
		panel.settings.SoundFile = panel.sounds[index-1].File
	}
	panel.notify(ChangeSound)
}

func (panel *Panel) handleVolume(value float64) {
	panel.volumeReset.SetText(strconv.Itoa(int(math.Round(value))))
	if panel.updating {
		return
	}
	panel.settings.Volume = audio.ClampVolume(value / 100)
	panel.notify(ChangeVolume)
}

func (panel *Panel) commitWarn() {
	value, ok := ParseSeconds(panel.warnEntry.Text)
	if !ok {
		panel.warnEntry.SetText(formatSeconds(panel.settings.Timer.WarnThreshold))
		return
	}
	panel.warnEntry.SetText(formatSeconds(value))
	if value == panel.settings.Timer.WarnThreshold {
		return
	}
	panel.settings.Timer.WarnThreshold = value
	panel.notify(ChangeTimer)
}

func (panel *Panel) commitSoundThreshold() {
	value, ok := ParseSeconds(panel.soundEntry.Text)
	if !ok {
		panel.soundEntry.SetText(formatSeconds(panel.settings.Timer.SoundThreshold))
		return
	}
	panel.soundEntry.SetText(formatSeconds(value))
	if value == panel.settings.Timer.SoundThreshold {
		return
	}
	panel.settings.Timer.SoundThreshold = value
	panel.notify(ChangeSoundThreshold)
}

func (panel *Panel) notify(change Change) {
	if panel.updating || panel.callbacks.OnChange == nil {
		return
	}
	panel.callbacks.OnChange(panel.settings, change)
}

// ParseSeconds parses a threshold typed by the user. Fractions are truncated
// and negative values become zero.
func ParseSeconds(value string) (time.Duration, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	if parsed < 0 {
		parsed = 0
	}
	return time.Duration(int64(parsed)) * time.Second, true
}

// LengthLabel names a countdown length in the length picker.
func LengthLabel(length time.Duration) string {
	if length%time.Minute == 0 && length >= 2*time.Minute {
		return fmt.Sprintf("%d minutes", int(length/time.Minute))
	}
	return fmt.Sprintf("%d seconds", int(length/time.Second))
}

func formatSeconds(value time.Duration) string {
	return strconv.Itoa(int(value / time.Second))
}

func lengthOptions(current time.Duration) []time.Duration {
	lengths := append([]time.Duration(nil), model.LengthPresets...)
	if current > 0 && indexOfLength(lengths, current) < 0 {
		lengths = append(lengths, current)
	}
	return lengths
}

func indexOfLength(lengths []time.Duration, length time.Duration) int {
	for index, candidate := range lengths {
		if candidate == length {
			return index
		}
	}
	return -1
}

func targetLabels(windows []platform.WindowInfo) []string {
	labels := make([]string, len(windows))
	seen := make(map[string]int, len(windows))
	for index, window := range windows {
		label := window.Title
		seen[label]++
		if count := seen[label]; count > 1 {
			label = fmt.Sprintf("%s (%d)", label, count)
		}
		labels[index] = label
	}
	return labels
}

// thresholdEntry commits its value on Enter and when focus leaves it.
type thresholdEntry struct {
	widget.Entry
	onCommit func()
}

func newThresholdEntry(onCommit func()) *thresholdEntry {
	entry := &thresholdEntry{onCommit: onCommit}
	entry.ExtendBaseWidget(entry)
	entry.OnSubmitted = func(string) {
		entry.onCommit()
	}
	return entry
}

// FocusLost implements fyne.Focusable.
func (entry *thresholdEntry) FocusLost() {
	entry.Entry.FocusLost()
	entry.onCommit()
}
