//go:build linux

package input

import (
	"fmt"

	"github.com/bendahl/uinput"
	"github.com/rs/zerolog/log"

	"lankm/internal/keymap"
)

// VirtualKeyboard injects key events through a uinput virtual keyboard.
type VirtualKeyboard struct {
	keyboard uinput.Keyboard
}

// NewInjector creates a virtual keyboard called name.
// Requires write access to /dev/uinput.
func NewInjector(name string) (*VirtualKeyboard, error) {
	keyboard, err := uinput.CreateKeyboard("/dev/uinput", []byte(name))
	if err != nil {
		return nil, fmt.Errorf("create virtual keyboard: %w", err)
	}

	log.Info().Str("name", name).Msg("Injector: virtual keyboard created")
	return &VirtualKeyboard{keyboard: keyboard}, nil
}

// Emit replays ev. Usages with no Linux key code are dropped.
func (v *VirtualKeyboard) Emit(ev KeyEvent) error {
	code, ok := keymap.HIDToLinux(ev.HID)
	if !ok {
		log.Debug().Uint16("hid", ev.HID).Msg("Injector: no linux key for usage, dropping")
		return nil
	}

	switch ev.Kind {
	case Press:
		return v.keyboard.KeyDown(int(code))
	case Release:
		return v.keyboard.KeyUp(int(code))
	default:
		return fmt.Errorf("emit %s: unknown kind", ev)
	}
}

// Close destroys the virtual keyboard.
func (v *VirtualKeyboard) Close() error {
	return v.keyboard.Close()
}
