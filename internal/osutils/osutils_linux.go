//go:build linux

package osutils

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// IsAdmin reports whether the process runs as root.
func IsAdmin() bool {
	return unix.Geteuid() == 0
}

// CheckInputAccess reports problems that would stop capture or injection.
// Grabbing keyboards needs read access to /dev/input/event*, creating the
// virtual keyboard needs write access to /dev/uinput.
func CheckInputAccess() error {
	if IsAdmin() {
		return nil
	}
	if err := unix.Access("/dev/uinput", unix.W_OK); err != nil {
		return fmt.Errorf("/dev/uinput is not writable (run as root or grant access through a udev rule): %w", err)
	}
	log.Debug().Msg("Privileges: /dev/uinput is writable")
	return nil
}

// EnsureFirewallRule is a no-op; Linux firewalls are left to the administrator.
func EnsureFirewallRule(port int) error {
	log.Debug().Int("port", port).Msg("Firewall: automatic rule management is only supported on Windows")
	return nil
}
