//go:build !linux && !darwin && !windows

package autostart

func enable(Launcher) error { return ErrUnsupported }

func disable() error { return ErrUnsupported }

func isEnabled() bool { return false }
