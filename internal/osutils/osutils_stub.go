//go:build !windows && !linux

package osutils

import (
	"github.com/rs/zerolog/log"
)

// IsAdmin is a stub for unsupported platforms
func IsAdmin() bool {
	return false
}

// CheckInputAccess is a stub for unsupported platforms
func CheckInputAccess() error {
	return nil
}

// EnsureFirewallRule is a stub for unsupported platforms
func EnsureFirewallRule(port int) error {
	log.Debug().Int("port", port).Msg("Firewall: automatic rule management is only supported on Windows")
	return nil
}
