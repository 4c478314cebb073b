package autostart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesktopQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tray", "tray"},
		{"/usr/local/bin/lankm", "/usr/local/bin/lankm"},
		{"/opt/my apps/lankm", `"/opt/my apps/lankm"`},
		{`a"b`, `"a\"b"`},
		{"$HOME", `"\$HOME"`},
		{"", `""`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, desktopQuote(tt.in), tt.in)
	}
}

func TestRenderDesktopEntry(t *testing.T) {
	out, err := renderDesktopEntry(Launcher{Exec: "/opt/my apps/lankm", Args: []string{"tray"}})
	require.NoError(t, err)

	assert.Contains(t, out, "[Desktop Entry]\n")
	assert.Contains(t, out, "\nExec=\"/opt/my apps/lankm\" tray\n")
	assert.Contains(t, out, "\nType=Application\n")
}

func TestRenderLaunchAgent(t *testing.T) {
	out, err := renderLaunchAgent(Launcher{Exec: "/Applications/lankm", Args: []string{"tray", "--port", "7000"}})
	require.NoError(t, err)

	assert.Contains(t, out, "<string>com.lankm.tray</string>")
	assert.Contains(t, out, "<string>/Applications/lankm</string>\n        <string>tray</string>\n        <string>--port</string>\n        <string>7000</string>\n    </array>")
}
