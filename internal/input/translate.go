package input

import (
	"errors"
	"fmt"

	"lankm/internal/keymap"
)

var (
	// ErrAutorepeat marks a repeat transition; callers skip it silently.
	ErrAutorepeat = errors.New("input: autorepeat")
	// ErrKeyValue is returned for evdev key values other than 0, 1 and 2.
	ErrKeyValue = errors.New("input: unknown key event value")
)

// evdev EV_KEY values
const (
	evdevRelease = 0
	evdevPress   = 1
	evdevRepeat  = 2
)

// translateLinux turns one evdev EV_KEY event into a HID transition.
func translateLinux(code uint16, value int32) (uint16, Kind, error) {
	var kind Kind
	switch value {
	case evdevRelease:
		kind = Release
	case evdevPress:
		kind = Press
	case evdevRepeat:
		return 0, 0, ErrAutorepeat
	default:
		return 0, 0, fmt.Errorf("%w: %d", ErrKeyValue, value)
	}

	hid, err := keymap.LinuxToHID(code)
	if err != nil {
		return 0, 0, fmt.Errorf("linux code %d: %w", code, err)
	}
	return hid, kind, nil
}

// Window messages delivered to a WH_KEYBOARD_LL hook.
const (
	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105
)

// KBDLLHOOKSTRUCT flags
const (
	llkhfExtended = 0x01
	llkhfInjected = 0x10
)

// hookInput is the owned copy of a low-level keyboard hook notification.
type hookInput struct {
	Message  uint32
	ScanCode uint32
	Flags    uint32
}

func (in hookInput) injected() bool {
	return in.Flags&llkhfInjected != 0
}

// translateWindows turns one hook notification into a HID transition.
func translateWindows(in hookInput) (uint16, Kind, error) {
	var kind Kind
	switch in.Message {
	case wmKeyDown, wmSysKeyDown:
		kind = Press
	case wmKeyUp, wmSysKeyUp:
		kind = Release
	default:
		return 0, 0, fmt.Errorf("%w: message 0x%X", ErrKeyValue, in.Message)
	}

	hid, err := keymap.ScancodeToHID(in.ScanCode, in.Flags&llkhfExtended != 0)
	if err != nil {
		return 0, 0, fmt.Errorf("scancode 0x%X: %w", in.ScanCode, err)
	}
	return hid, kind, nil
}
