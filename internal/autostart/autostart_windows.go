//go:build windows

package autostart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const runKey = `Software\Microsoft\Windows\CurrentVersion\Run`

func commandLine(l Launcher) string {
	parts := make([]string, 0, len(l.Args)+1)
	for _, arg := range append([]string{l.Exec}, l.Args...) {
		parts = append(parts, windows.EscapeArg(arg))
	}
	return strings.Join(parts, " ")
}

func enable(l Launcher) error {
	return enableAt(runKey, l)
}

func disable() error {
	return disableAt(runKey)
}

func isEnabled() bool {
	return isEnabledAt(runKey)
}

func enableAt(path string, l Launcher) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, path, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open run key: %w", err)
	}
	defer k.Close()

	cmd := commandLine(l)
	if err := k.SetStringValue(Name, cmd); err != nil {
		return fmt.Errorf("set run value: %w", err)
	}
	log.Info().Str("command", cmd).Msg("Autostart: enabled")
	return nil
}

func disableAt(path string) error {
	k, err := registry.OpenKey(registry.CURRENT_USER, path, registry.SET_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open run key: %w", err)
	}
	defer k.Close()

	if err := k.DeleteValue(Name); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return err
	}
	return nil
}

func isEnabledAt(path string) bool {
	k, err := registry.OpenKey(registry.CURRENT_USER, path, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()

	_, _, err = k.GetStringValue(Name)
	return err == nil
}
