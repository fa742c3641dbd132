package platform

import (
	"os"
	"strings"
)

// Autostart registers the program to start at login for the current user.
type Autostart struct {
	appName   string
	configDir func() (string, error)
}

// NewAutostart creates an autostart registration for appName.
func NewAutostart(appName string) *Autostart {
	return &Autostart{appName: strings.TrimSpace(appName), configDir: os.UserConfigDir}
}

// commandLine joins the executable and its arguments, quoting any part that
// contains a space.
func commandLine(execPath string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, part := range append([]string{execPath}, args...) {
		part = strings.Trim(part, `"`)
		if strings.ContainsAny(part, " \t") {
			part = `"` + part + `"`
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

func slug(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	if name == "" {
		name = "waxytimer"
	}
	return strings.ReplaceAll(name, " ", "-")
}
