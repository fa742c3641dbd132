package audio

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func writeWAV(t *testing.T, path string, rate beep.SampleRate, samples int) {
	t.Helper()
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, wav.Encode(file, beep.Silence(samples), beep.Format{
		SampleRate:  rate,
		NumChannels: 2,
		Precision:   2,
	}))
}

func TestLibraryListMergesBuiltinAndUser(t *testing.T) {
	userDir := t.TempDir()
	builtin := fstest.MapFS{
		"chime.wav":  {Data: []byte("builtin")},
		"bell.wav":   {Data: []byte("builtin")},
		"readme.txt": {Data: []byte("ignored")},
	}
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "Chime.wav"), []byte("user"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "alarm.WAV"), []byte("user"), 0o644))

	sounds := NewLibrary(builtin, userDir).List()

	require.Len(t, sounds, 3)
	assert.Equal(t, Sound{Name: "alarm", File: "alarm.WAV"}, sounds[0])
	assert.Equal(t, Sound{Name: "bell", File: "bell.wav", Builtin: true}, sounds[1])
	assert.Equal(t, Sound{Name: "Chime", File: "Chime.wav"}, sounds[2])
}

func TestLibraryResolvePrefersUserDirectory(t *testing.T) {
	userDir := t.TempDir()
	builtin := fstest.MapFS{"chime.wav": {Data: []byte("builtin")}}
	library := NewLibrary(builtin, userDir)

	reader, err := library.Resolve("chime.wav")
	require.NoError(t, err)
	data, _ := io.ReadAll(reader)
	reader.Close()
	assert.Equal(t, "builtin", string(data))

	require.NoError(t, os.WriteFile(filepath.Join(userDir, "chime.wav"), []byte("user"), 0o644))
	reader, err = library.Resolve("chime.wav")
	require.NoError(t, err)
	data, _ = io.ReadAll(reader)
	reader.Close()
	assert.Equal(t, "user", string(data))

	_, err = library.Resolve("missing.wav")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, library.Has(""))
}

func TestLibraryImport(t *testing.T) {
	sourceDir := t.TempDir()
	userDir := filepath.Join(t.TempDir(), "sounds")
	library := NewLibrary(nil, userDir)

	source := filepath.Join(sourceDir, "ding.wav")
	require.NoError(t, os.WriteFile(source, []byte("ding"), 0o644))

	first, err := library.Import(source)
	require.NoError(t, err)
	assert.Equal(t, "ding.wav", first)

	second, err := library.Import(source)
	require.NoError(t, err)
	assert.Equal(t, "ding_1.wav", second)

	third, err := library.Import(source)
	require.NoError(t, err)
	assert.Equal(t, "ding_2.wav", third)

	assert.True(t, library.Has("ding_2.wav"))

	notWAV := filepath.Join(sourceDir, "ding.mp3")
	require.NoError(t, os.WriteFile(notWAV, []byte("ding"), 0o644))
	_, err = library.Import(notWAV)
	assert.ErrorIs(t, err, ErrNotWAV)
}

func TestLibraryWatch(t *testing.T) {
	userDir := t.TempDir()
	library := NewLibrary(nil, userDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 8)
	require.NoError(t, library.Watch(ctx, quietLogger(), func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))

	require.NoError(t, os.WriteFile(filepath.Join(userDir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "new.wav"), []byte("x"), 0o644))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported for new sound")
	}
}

type recordingOutput struct {
	played []beep.Streamer
	err    error
}

func (output *recordingOutput) Play(streamer beep.Streamer) error {
	if output.err != nil {
		return output.err
	}
	output.played = append(output.played, streamer)
	return nil
}

func TestPlayerLoadResamples(t *testing.T) {
	userDir := t.TempDir()
	writeWAV(t, filepath.Join(userDir, "short.wav"), 22050, 11025)

	player := NewPlayer(NewLibrary(nil, userDir), quietLogger(), WithOutput(&recordingOutput{}))
	require.NoError(t, player.Load("short.wav"))

	assert.Equal(t, "short.wav", player.Loaded())
	assert.InDelta(t, float64(500*time.Millisecond), float64(player.Duration()), float64(10*time.Millisecond))

	assert.Error(t, player.Load("missing.wav"))
	assert.Equal(t, "short.wav", player.Loaded())

	require.NoError(t, player.Load(""))
	assert.Equal(t, "", player.Loaded())
}

func TestPlayerPlay(t *testing.T) {
	userDir := t.TempDir()
	writeWAV(t, filepath.Join(userDir, "tone.wav"), 44100, 441)

	output := &recordingOutput{}
	player := NewPlayer(NewLibrary(nil, userDir), quietLogger(), WithOutput(output))

	require.NoError(t, player.Play())
	assert.Empty(t, output.played, "nothing loaded")

	require.NoError(t, player.Load("tone.wav"))
	require.NoError(t, player.Play())
	assert.Len(t, output.played, 1)

	player.SetVolume(0)
	require.NoError(t, player.Play())
	assert.Len(t, output.played, 1, "silent at zero volume")
}

func TestPlayerFallsBackToBeep(t *testing.T) {
	userDir := t.TempDir()
	writeWAV(t, filepath.Join(userDir, "tone.wav"), 44100, 441)

	beeps := 0
	player := NewPlayer(NewLibrary(nil, userDir), quietLogger(),
		WithOutput(&recordingOutput{err: errors.New("no device")}),
		WithFallback(func() error {
			beeps++
			return nil
		}),
	)
	require.NoError(t, player.Load("tone.wav"))
	require.NoError(t, player.Play())
	assert.Equal(t, 1, beeps)
}

func TestVolume(t *testing.T) {
	player := NewPlayer(NewLibrary(nil, ""), quietLogger())
	assert.Equal(t, DefaultVolume, player.Volume())

	player.SetVolume(1.7)
	assert.Equal(t, 1.0, player.Volume())
	player.SetVolume(-0.2)
	assert.Equal(t, 0.0, player.Volume())

	assert.Equal(t, 0.0, Gain(1))
	assert.Equal(t, -1.0, Gain(0.5))
	assert.True(t, math.IsInf(Gain(0), -1))
}
