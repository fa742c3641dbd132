//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Enable writes an XDG autostart desktop entry.
func (autostart *Autostart) Enable(execPath string, args ...string) error {
	if execPath == "" {
		return errors.New("enable autostart: exec path is empty")
	}
	entryPath, err := autostart.entryPath()
	if err != nil {
		return errors.Wrap(err, "enable autostart")
	}
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return errors.Wrap(err, "enable autostart: create autostart dir")
	}
	entry := desktopEntry(autostart.appName, commandLine(execPath, args))
	if err := os.WriteFile(entryPath, []byte(entry), 0o644); err != nil {
		return errors.Wrap(err, "enable autostart: write desktop entry")
	}
	return nil
}

// Disable removes the desktop entry. A missing entry is not an error.
func (autostart *Autostart) Disable() error {
	entryPath, err := autostart.entryPath()
	if err != nil {
		return errors.Wrap(err, "disable autostart")
	}
	if err := os.Remove(entryPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "disable autostart: remove desktop entry")
	}
	return nil
}

// Enabled reports whether the desktop entry exists.
func (autostart *Autostart) Enabled() (bool, error) {
	entryPath, err := autostart.entryPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(entryPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, errors.Wrap(err, "stat desktop entry")
}

func (autostart *Autostart) entryPath() (string, error) {
	configDir, err := autostart.configDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve user config dir")
	}
	return filepath.Join(configDir, "autostart", slug(autostart.appName)+".desktop"), nil
}

func desktopEntry(appName, command string) string {
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`, appName, command)
}
