//go:build windows

package platform

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// Enable adds a value under the current user's Run key.
func (autostart *Autostart) Enable(execPath string, args ...string) error {
	if execPath == "" {
		return errors.New("enable autostart: exec path is empty")
	}
	key, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return errors.Wrap(err, "enable autostart: open run key")
	}
	defer key.Close()

	if err := key.SetStringValue(autostart.appName, commandLine(execPath, args)); err != nil {
		return errors.Wrap(err, "enable autostart: set run value")
	}
	return nil
}

// Disable removes the Run value. A missing value is not an error.
func (autostart *Autostart) Disable() error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return errors.Wrap(err, "disable autostart: open run key")
	}
	defer key.Close()

	if err := key.DeleteValue(autostart.appName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return errors.Wrap(err, "disable autostart: delete run value")
	}
	return nil
}

// Enabled reports whether the Run value exists.
func (autostart *Autostart) Enabled() (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false, errors.Wrap(err, "open run key")
	}
	defer key.Close()

	_, _, err = key.GetStringValue(autostart.appName)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	}
	return err == nil, errors.Wrap(err, "read run value")
}
