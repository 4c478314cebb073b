//go:build windows

package autostart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows/registry"
)

const testKey = `Software\lankm-autostart-test`

func TestCommandLine(t *testing.T) {
	l := Launcher{Exec: `C:\Program Files\lankm\lankm.exe`, Args: []string{"tray"}}
	assert.Equal(t, `"C:\Program Files\lankm\lankm.exe" tray`, commandLine(l))
}

func TestDisableAt_MissingKey(t *testing.T) {
	assert.NoError(t, disableAt(`Software\lankm-autostart-missing`))
	assert.False(t, isEnabledAt(`Software\lankm-autostart-missing`))
}

func TestEnableDisable_Registry(t *testing.T) {
	t.Cleanup(func() { _ = registry.DeleteKey(registry.CURRENT_USER, testKey) })

	require.NoError(t, enableAt(testKey, Launcher{Exec: `C:\lankm.exe`, Args: []string{"tray"}}))
	assert.True(t, isEnabledAt(testKey))

	require.NoError(t, disableAt(testKey))
	assert.False(t, isEnabledAt(testKey))
	assert.NoError(t, disableAt(testKey), "disabling twice")
}
