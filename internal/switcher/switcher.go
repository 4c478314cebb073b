// Package switcher provides the Local/Remote mode logic for the server.
package switcher

import (
	"sync"

	"github.com/rs/zerolog/log"

	"lankm/internal/input"
)

// Mode says where captured keys go.
type Mode int

const (
	// Local leaves keys on this machine.
	Local Mode = iota
	// Remote forwards keys to the connected client.
	Remote
)

func (m Mode) String() string {
	switch m {
	case Local:
		return "local"
	case Remote:
		return "remote"
	default:
		return "unknown"
	}
}

// Forwarder accepts key events bound for the network peer.
type Forwarder interface {
	Forward(ev input.KeyEvent)
}

// remoteReleases are forwarded when leaving Remote so the client does not
// keep a modifier held down.
var remoteReleases = [...]uint16{
	input.HIDLeftCtrl,
	input.HIDRightCtrl,
	input.HIDLeftAlt,
	input.HIDRightAlt,
}

// Switcher owns the mode. Handle must only be called from the capture
// callback context; the mode itself is not locked.
type Switcher struct {
	out  Forwarder
	mode Mode

	mu       sync.Mutex
	onSwitch func(Mode)
}

// New creates a Switcher in Local mode forwarding to out.
func New(out Forwarder) *Switcher {
	return &Switcher{out: out, mode: Local}
}

// SetOnSwitch sets the callback for mode changes. It runs on the capture
// callback context and must not block.
func (s *Switcher) SetOnSwitch(callback func(Mode)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSwitch = callback
}

// Mode returns the current mode.
func (s *Switcher) Mode() Mode {
	return s.mode
}

// Handle is the capture callback. It reports whether ev must be kept off
// the local desktop.
func (s *Switcher) Handle(ev input.Event) bool {
	if ev.IsHotkey() {
		s.toggle()
		return true
	}

	if s.mode == Local {
		return false
	}
	s.out.Forward(ev.Key)
	return true
}

func (s *Switcher) toggle() {
	switch s.mode {
	case Local:
		s.mode = Remote
	case Remote:
		for _, hid := range remoteReleases {
			s.out.Forward(input.KeyEvent{HID: hid, Kind: input.Release})
		}
		s.mode = Local
	}

	log.Info().Stringer("mode", s.mode).Msg("Switcher: mode switched")

	s.mu.Lock()
	callback := s.onSwitch
	s.mu.Unlock()
	if callback != nil {
		callback(s.mode)
	}
}
