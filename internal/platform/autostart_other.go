//go:build !linux && !windows

package platform

func (autostart *Autostart) Enable(string, ...string) error { return ErrUnsupported }

func (autostart *Autostart) Disable() error { return ErrUnsupported }

func (autostart *Autostart) Enabled() (bool, error) { return false, ErrUnsupported }
