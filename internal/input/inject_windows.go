//go:build windows

package input

import (
	"fmt"
	"unsafe"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"

	"lankm/internal/keymap"
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

const (
	inputKeyboard = 1

	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002
	keyeventfScancode    = 0x0008
)

type keybdInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// sendInputEntry mirrors INPUT. The trailing padding covers the larger
// MOUSEINPUT member of the union.
type sendInputEntry struct {
	Type uint32
	Ki   keybdInput
	_    [8]byte
}

func sendInput(entries []sendInputEntry) error {
	if len(entries) == 0 {
		return nil
	}
	n, _, err := procSendInput.Call(
		uintptr(len(entries)),
		uintptr(unsafe.Pointer(&entries[0])),
		unsafe.Sizeof(entries[0]),
	)
	if int(n) != len(entries) {
		return fmt.Errorf("SendInput: %d of %d events delivered: %v", n, len(entries), err)
	}
	return nil
}

// SendInputInjector injects key events by scancode through SendInput.
type SendInputInjector struct{}

// NewInjector returns a SendInput injector. The name is only meaningful
// on platforms that create a virtual device.
func NewInjector(_ string) (*SendInputInjector, error) {
	return &SendInputInjector{}, nil
}

// Emit replays ev. Usages with no scancode are dropped.
func (s *SendInputInjector) Emit(ev KeyEvent) error {
	scan, extended, ok := keymap.HIDToScancode(ev.HID)
	if !ok {
		log.Debug().Uint16("hid", ev.HID).Msg("Injector: no scancode for usage, dropping")
		return nil
	}

	flags := uint32(keyeventfScancode)
	if extended {
		flags |= keyeventfExtendedKey
	}
	if ev.Kind == Release {
		flags |= keyeventfKeyUp
	}

	return sendInput([]sendInputEntry{{
		Type: inputKeyboard,
		Ki:   keybdInput{Scan: scan, Flags: flags},
	}})
}

// Close is a no-op.
func (s *SendInputInjector) Close() error {
	return nil
}
