package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultVolume is used until the user moves the volume slider.
	DefaultVolume = 0.5
	// DefaultSound is selected when no sound has ever been saved.
	DefaultSound = "chime.wav"

	speakerRate      = beep.SampleRate(44100)
	resampleQuality  = 4
	speakerBufferLen = time.Second / 10
)

// Output plays a stream at the speaker sample rate.
type Output interface {
	Play(streamer beep.Streamer) error
}

type speakerOutput struct {
	once    sync.Once
	initErr error
}

func (output *speakerOutput) Play(streamer beep.Streamer) error {
	output.once.Do(func() {
		output.initErr = speaker.Init(speakerRate, speakerRate.N(speakerBufferLen))
	})
	if output.initErr != nil {
		return errors.Wrap(output.initErr, "init speaker")
	}
	speaker.Play(streamer)
	return nil
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithOutput replaces the default speaker output.
func WithOutput(output Output) PlayerOption {
	return func(player *Player) {
		player.output = output
	}
}

// WithFallback replaces the system beep used when the output fails.
func WithFallback(fallback func() error) PlayerOption {
	return func(player *Player) {
		player.fallback = fallback
	}
}

// Player plays the selected alert sound.
type Player struct {
	mu       sync.Mutex
	library  *Library
	log      logrus.FieldLogger
	output   Output
	fallback func() error

	file   string
	buffer *beep.Buffer
	volume float64
}

// NewPlayer creates a player with the default volume and nothing loaded.
func NewPlayer(library *Library, log logrus.FieldLogger, options ...PlayerOption) *Player {
	player := &Player{
		library: library,
		log:     log.WithField("component", "audio"),
		output:  &speakerOutput{},
		fallback: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
		},
		volume: DefaultVolume,
	}
	for _, option := range options {
		option(player)
	}
	return player
}

// Load decodes a sound from the library and keeps it in memory resampled to
// the speaker rate. An empty name unloads the current sound.
func (player *Player) Load(file string) error {
	if file == "" {
		player.mu.Lock()
		player.file, player.buffer = "", nil
		player.mu.Unlock()
		return nil
	}

	reader, err := player.library.Resolve(file)
	if err != nil {
		return err
	}
	defer reader.Close()

	streamer, format, err := wav.Decode(reader)
	if err != nil {
		return errors.Wrapf(err, "decode %s", file)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(beep.Format{
		SampleRate:  speakerRate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	if format.SampleRate == speakerRate {
		buffer.Append(streamer)
	} else {
		buffer.Append(beep.Resample(resampleQuality, format.SampleRate, speakerRate, streamer))
	}
	if err := streamer.Err(); err != nil {
		return errors.Wrapf(err, "read %s", file)
	}

	player.mu.Lock()
	player.file, player.buffer = file, buffer
	player.mu.Unlock()
	return nil
}

// Loaded returns the file currently loaded, or "".
func (player *Player) Loaded() string {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.file
}

// Duration returns the length of the loaded sound.
func (player *Player) Duration() time.Duration {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.buffer == nil {
		return 0
	}
	return player.buffer.Format().SampleRate.D(player.buffer.Len())
}

// SetVolume sets the linear volume, clamped to [0, 1].
func (player *Player) SetVolume(volume float64) {
	player.mu.Lock()
	player.volume = ClampVolume(volume)
	player.mu.Unlock()
}

// Volume returns the linear volume.
func (player *Player) Volume() float64 {
	player.mu.Lock()
	defer player.mu.Unlock()
	return player.volume
}

// Play starts the loaded sound without waiting for it to finish. With
// nothing loaded or the volume at zero it does nothing.
func (player *Player) Play() error {
	player.mu.Lock()
	buffer, volume := player.buffer, player.volume
	player.mu.Unlock()

	if buffer == nil || volume <= 0 {
		return nil
	}

	streamer := &effects.Volume{
		Streamer: buffer.Streamer(0, buffer.Len()),
		Base:     2,
		Volume:   Gain(volume),
	}
	if err := player.output.Play(streamer); err != nil {
		player.log.WithError(err).Warn("audio output unavailable, using system beep")
		if fallbackErr := player.fallback(); fallbackErr != nil {
			return errors.Wrap(fallbackErr, "system beep")
		}
	}
	return nil
}

// ClampVolume limits a linear volume to [0, 1].
func ClampVolume(volume float64) float64 {
	if math.IsNaN(volume) || volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}

// Gain converts a linear volume to a base-2 exponent for effects.Volume.
func Gain(volume float64) float64 {
	volume = ClampVolume(volume)
	if volume == 0 {
		return math.Inf(-1)
	}
	return math.Log2(volume)
}
