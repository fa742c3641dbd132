package audio

import (
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotWAV is returned when importing anything other than a .wav file.
var ErrNotWAV = errors.New("only .wav files are supported")

const soundExtension = ".wav"

// Sound is an entry in the sound library.
type Sound struct {
	// Name is shown to the user.
	Name string
	// File is the base file name, used as the persisted identifier.
	File    string
	Builtin bool
}

// Library lists built-in sounds and sounds the user imported.
type Library struct {
	builtin fs.FS
	userDir string
}

// NewLibrary creates a library over an embedded sound set and a user directory.
// Either may be empty.
func NewLibrary(builtin fs.FS, userDir string) *Library {
	return &Library{builtin: builtin, userDir: userDir}
}

// UserDir returns the directory imported sounds are copied to.
func (library *Library) UserDir() string {
	return library.userDir
}

// List returns every available sound sorted by name. A user file overrides a
// built-in sound with the same name.
func (library *Library) List() []Sound {
	byName := make(map[string]Sound)

	if library.builtin != nil {
		entries, err := fs.ReadDir(library.builtin, ".")
		if err == nil {
			for _, entry := range entries {
				if isSoundFile(entry.Name(), entry.IsDir()) {
					byName[strings.ToLower(entry.Name())] = newSound(entry.Name(), true)
				}
			}
		}
	}

	if library.userDir != "" {
		entries, err := os.ReadDir(library.userDir)
		if err == nil {
			for _, entry := range entries {
				if isSoundFile(entry.Name(), entry.IsDir()) {
					byName[strings.ToLower(entry.Name())] = newSound(entry.Name(), false)
				}
			}
		}
	}

	sounds := make([]Sound, 0, len(byName))
	for _, sound := range byName {
		sounds = append(sounds, sound)
	}
	sort.Slice(sounds, func(i, j int) bool {
		return strings.ToLower(sounds[i].File) < strings.ToLower(sounds[j].File)
	})
	return sounds
}

// Has reports whether a sound file is available.
func (library *Library) Has(file string) bool {
	reader, err := library.Resolve(file)
	if err != nil {
		return false
	}
	reader.Close()
	return true
}

// Resolve resolves a sound by file name, preferring the user directory.
func (library *Library) Resolve(file string) (io.ReadCloser, error) {
	file = filepath.Base(strings.TrimSpace(file))
	if file == "" || file == "." || file == string(filepath.Separator) {
		return nil, errors.New("no sound selected")
	}

	if library.userDir != "" {
		reader, err := os.Open(filepath.Join(library.userDir, file))
		if err == nil {
			return reader, nil
		}
	}
	if library.builtin != nil {
		reader, err := library.builtin.Open(path.Clean(file))
		if err == nil {
			return reader, nil
		}
	}
	return nil, errors.Wrapf(fs.ErrNotExist, "sound %s", file)
}

// Import copies a .wav file into the user directory and returns the stored
// file name. Existing names get a numeric suffix.
func (library *Library) Import(source string) (string, error) {
	if !strings.EqualFold(filepath.Ext(source), soundExtension) {
		return "", ErrNotWAV
	}
	if library.userDir == "" {
		return "", errors.New("no user sound directory")
	}
	info, err := os.Stat(source)
	if err != nil {
		return "", errors.Wrap(err, "stat sound")
	}
	if !info.Mode().IsRegular() {
		return "", errors.Errorf("%s is not a regular file", source)
	}

	if err := os.MkdirAll(library.userDir, 0o755); err != nil {
		return "", errors.Wrap(err, "create sound directory")
	}
	destination := uniqueDestination(library.userDir, filepath.Base(source))
	if err := copyFile(source, destination); err != nil {
		return "", err
	}
	return filepath.Base(destination), nil
}

func uniqueDestination(dir, name string) string {
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate
	}
	extension := filepath.Ext(name)
	stem := strings.TrimSuffix(name, extension)
	for index := 1; ; index++ {
		candidate = filepath.Join(dir, stem+"_"+strconv.Itoa(index)+extension)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func copyFile(source, destination string) error {
	input, err := os.Open(source)
	if err != nil {
		return errors.Wrap(err, "open sound")
	}
	defer input.Close()

	output, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(err, "create sound copy")
	}
	if _, err := io.Copy(output, input); err != nil {
		output.Close()
		os.Remove(destination)
		return errors.Wrap(err, "copy sound")
	}
	return errors.Wrap(output.Close(), "close sound copy")
}

func isSoundFile(name string, dir bool) bool {
	return !dir && strings.EqualFold(filepath.Ext(name), soundExtension)
}

func newSound(file string, builtin bool) Sound {
	return Sound{
		Name:    strings.TrimSuffix(file, filepath.Ext(file)),
		File:    file,
		Builtin: builtin,
	}
}
