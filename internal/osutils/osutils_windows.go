//go:build windows

package osutils

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
)

// IsAdmin checks if the current process has administrative privileges
func IsAdmin() bool {
	var token windows.Token
	h, _ := windows.GetCurrentProcess()
	err := windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token)
	if err != nil {
		return false
	}
	defer token.Close()

	var sid *windows.SID
	err = windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}
	return member
}

// CheckInputAccess reports problems that would stop capture or injection.
// The low-level hook needs no special rights, but it cannot see keys typed
// into elevated windows unless the process is elevated too.
func CheckInputAccess() error {
	if !IsAdmin() {
		log.Warn().Msg("Privileges: not elevated, keys typed into elevated windows will not be captured")
	}
	return nil
}

// EnsureFirewallRule makes sure inbound TCP on port is allowed, asking for
// elevation through UAC when needed.
func EnsureFirewallRule(port int) error {
	logger := log.With().Str("rule", FirewallRuleName).Int("port", port).Logger()

	output, err := exec.Command("netsh", "advfirewall", "firewall", "show", "rule", "name="+FirewallRuleName).CombinedOutput()
	if err == nil && ruleMatches(string(output), port) {
		logger.Debug().Msg("Firewall: rule already present")
		return nil
	}
	logger.Info().Msg("Firewall: creating rule")

	script := firewallScript(port)
	if IsAdmin() {
		if output, err := exec.Command("powershell", "-NoProfile", "-Command", script).CombinedOutput(); err != nil {
			return fmt.Errorf("create firewall rule: %w (output: %s)", err, string(output))
		}
		logger.Info().Msg("Firewall: rule created")
		return nil
	}

	verbPtr, _ := syscall.UTF16PtrFromString("runas")
	exePtr, _ := syscall.UTF16PtrFromString("powershell.exe")
	argPtr, _ := syscall.UTF16PtrFromString(fmt.Sprintf("-NoProfile -WindowStyle Hidden -Command \"%s\"", script))

	if err := windows.ShellExecute(0, verbPtr, exePtr, argPtr, nil, windows.SW_HIDE); err != nil {
		return fmt.Errorf("launch elevated powershell: %w", err)
	}
	logger.Info().Msg("Firewall: UAC prompt requested")
	return nil
}
