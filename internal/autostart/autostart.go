// Package autostart registers the tray front end to start at login.
package autostart

import (
	"errors"
	"os"
	"strings"
	"text/template"
)

// Name identifies the login entry on every platform.
const Name = "lankm"

// ErrUnsupported is returned on platforms without a login entry backend.
var ErrUnsupported = errors.New("autostart is not supported on this platform")

// Launcher is the command started at login.
type Launcher struct {
	Exec string
	Args []string
}

// TrayLauncher starts the running executable's tray command.
func TrayLauncher() (Launcher, error) {
	exe, err := os.Executable()
	if err != nil {
		return Launcher{}, err
	}
	return Launcher{Exec: exe, Args: []string{"tray"}}, nil
}

// Enable creates or replaces the login entry for l.
func Enable(l Launcher) error {
	return enable(l)
}

// Disable removes the login entry. A missing entry is not an error.
func Disable() error {
	return disable()
}

// IsEnabled reports whether a login entry exists.
func IsEnabled() bool {
	return isEnabled()
}

var desktopEntry = template.Must(template.New("desktop").Funcs(template.FuncMap{
	"exec": desktopExec,
}).Parse(`[Desktop Entry]
Type=Application
Name=LANKM
Comment=Share one keyboard between two machines
Exec={{exec .}}
Terminal=false
X-GNOME-Autostart-enabled=true
`))

var launchAgent = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>com.lankm.tray</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.Exec}}</string>
{{- range .Args}}
        <string>{{.}}</string>
{{- end}}
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
</dict>
</plist>
`))

func renderDesktopEntry(l Launcher) (string, error) {
	var b strings.Builder
	if err := desktopEntry.Execute(&b, l); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderLaunchAgent(l Launcher) (string, error) {
	var b strings.Builder
	if err := launchAgent.Execute(&b, l); err != nil {
		return "", err
	}
	return b.String(), nil
}

// desktopExec builds an Exec= value, quoting arguments that contain
// reserved characters.
func desktopExec(l Launcher) string {
	parts := make([]string, 0, len(l.Args)+1)
	for _, arg := range append([]string{l.Exec}, l.Args...) {
		parts = append(parts, desktopQuote(arg))
	}
	return strings.Join(parts, " ")
}

func desktopQuote(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t\n\"'\\><~|&;$*?#()`") {
		return arg
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(arg) + `"`
}
