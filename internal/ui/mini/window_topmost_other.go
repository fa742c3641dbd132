//go:build !windows

package mini

// Fyne exposes no always-on-top hint outside Windows.
func (mini *Window) applyTopmost() {}
