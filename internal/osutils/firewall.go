// Package osutils holds privilege and firewall helpers for the server role.
package osutils

import (
	"fmt"
	"strconv"
	"strings"
)

// FirewallRuleName is the display name of the inbound rule the server
// creates on Windows.
const FirewallRuleName = "LANKM Keyboard Server"

// firewallScript returns a PowerShell command that replaces the rule with
// one allowing inbound TCP on port.
func firewallScript(port int) string {
	return fmt.Sprintf(
		"Remove-NetFirewallRule -DisplayName '%s' -ErrorAction SilentlyContinue; New-NetFirewallRule -DisplayName '%s' -Direction Inbound -LocalPort %d -Protocol TCP -Action Allow -Profile Any",
		FirewallRuleName, FirewallRuleName, port,
	)
}

// ruleMatches reports whether netsh output describes an allow rule for port.
func ruleMatches(netshOutput string, port int) bool {
	if !strings.Contains(netshOutput, FirewallRuleName) || !strings.Contains(netshOutput, "Allow") {
		return false
	}
	for _, line := range strings.Split(netshOutput, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(key) != "LocalPort" {
			continue
		}
		return strings.TrimSpace(value) == strconv.Itoa(port)
	}
	return false
}
