package resources

import (
	"embed"
	"io/fs"
	"sync"

	"fyne.io/fyne/v2"
	"github.com/pkg/errors"
)

const (
	logoDir  = "logo/"
	soundDir = "sounds"

	IconNormal = "icon.svg"
	IconDanger = "icon_danger.svg"
)

//go:embed logo/*.svg
var logoFS embed.FS

//go:embed sounds/*.wav
var soundFS embed.FS

var logoCache sync.Map

// Logo returns a Fyne resource for the given logo file.
func Logo(fileName string) (fyne.Resource, error) {
	return loadResource(logoFS, logoDir+fileName, &logoCache)
}

// MustLogo returns a Fyne resource or panics on error.
func MustLogo(fileName string) fyne.Resource {
	resource, err := Logo(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// Sounds returns the built-in alert sounds rooted at their directory.
func Sounds() fs.FS {
	sounds, err := fs.Sub(soundFS, soundDir)
	if err != nil {
		panic(err)
	}
	return sounds
}

func loadResource(files embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := files.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load resource %s", path)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
