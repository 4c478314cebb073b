// Package input provides cross-platform keyboard capture and injection.
package input

import (
	"errors"
	"fmt"
)

//go:generate mockgen -source $GOFILE -destination types_mocks.go -package $GOPACKAGE

// HID usage codes the capture pipeline needs to recognise.
const (
	HIDTab        uint16 = 0x2B
	HIDLeftCtrl   uint16 = 0xE0
	HIDLeftShift  uint16 = 0xE1
	HIDLeftAlt    uint16 = 0xE2
	HIDRightCtrl  uint16 = 0xE4
	HIDRightShift uint16 = 0xE5
	HIDRightAlt   uint16 = 0xE6
)

// ErrUnsupported is returned by capture and injection on platforms without a backend.
var ErrUnsupported = errors.New("input: not supported on this platform")

// Kind is the direction of a key transition.
type Kind uint8

const (
	Press   Kind = 0
	Release Kind = 1
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Release:
		return "release"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Modifiers is the Ctrl/Alt/Shift state carried alongside every key event.
type Modifiers uint8

const (
	ModCtrl  Modifiers = 1 << 0
	ModAlt   Modifiers = 1 << 1
	ModShift Modifiers = 1 << 2
)

// Has reports whether every bit of m2 is set in m.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

func (m Modifiers) set(bit Modifiers, on bool) Modifiers {
	if on {
		return m | bit
	}
	return m &^ bit
}

// KeyEvent is one canonical key transition expressed as a HID usage.
type KeyEvent struct {
	HID  uint16
	Kind Kind
	Mods Modifiers
}

func (e KeyEvent) String() string {
	return fmt.Sprintf("hid=0x%02X %s mods=0x%X", e.HID, e.Kind, uint8(e.Mods))
}

// EventType tags the variant held by an Event.
type EventType uint8

const (
	EventKey EventType = iota
	// EventHotkey is the mode-toggle chord. It has no payload and never
	// leaves the capturing machine.
	EventHotkey
)

// Event is what capture hands to policy: a key event or the hotkey.
type Event struct {
	Type EventType
	Key  KeyEvent
}

// KeyEventOf wraps a key event.
func KeyEventOf(ev KeyEvent) Event {
	return Event{Type: EventKey, Key: ev}
}

// Hotkey returns the mode-toggle event.
func Hotkey() Event {
	return Event{Type: EventHotkey}
}

// IsHotkey reports whether e is the mode-toggle chord.
func (e Event) IsHotkey() bool {
	return e.Type == EventHotkey
}

// Handler decides the fate of a captured event. Returning true suppresses
// the event on the local desktop; false lets it through.
type Handler func(Event) bool

// Capture intercepts keyboard input system-wide.
type Capture interface {
	Start(handler Handler) error
	Stop() error
	Wait() error
}

// Injector replays canonical key events as synthetic input. Implementations
// are not safe for concurrent use; a single goroutine must own each one.
type Injector interface {
	Emit(ev KeyEvent) error
	Close() error
}
