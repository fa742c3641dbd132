package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waxytimer/internal/core/target"
	"waxytimer/internal/platform"
)

func TestRootCommandFlags(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"config", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
	assert.NotNil(t, root.Flags().Lookup("mini"))

	names := map[string]bool{}
	for _, command := range root.Commands() {
		names[command.Name()] = true
	}
	assert.True(t, names["windows"])
	assert.True(t, names["autostart"])
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("debug")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestPrintWindows(t *testing.T) {
	windows := []platform.WindowInfo{
		{ID: 7, Title: "Notepad", Executable: "notepad.exe"},
		{ID: 9, Title: "2004Scape Game", Executable: "javaw.exe"},
		{ID: 11, Title: "Wiki - Mozilla Firefox", Executable: "firefox.exe"},
	}

	var out bytes.Buffer
	require.NoError(t, printWindows(&out, target.DefaultFilter(), windows, ""))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TITLE")
	assert.True(t, strings.HasPrefix(lines[1], "*"), "default target is marked")
	assert.Contains(t, lines[1], "2004Scape Game")
	assert.Contains(t, lines[2], "Wiki - Mozilla Firefox")
	assert.NotContains(t, out.String(), "Notepad")
}
