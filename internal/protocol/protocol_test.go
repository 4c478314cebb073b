package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lankm/internal/input"
)

func TestEncodeKeyEvent_Layout(t *testing.T) {
	buf := EncodeKeyEvent(input.KeyEvent{
		HID:  0x01E2,
		Kind: input.Release,
		Mods: input.ModCtrl | input.ModShift,
	})
	assert.Equal(t, [KeyEventSize]byte{0xE2, 0x01, 0x01, 0x05}, buf)
}

func TestDecodeKeyEvent_InvalidKind(t *testing.T) {
	for _, kind := range []byte{2, 0x7F, 0xFF} {
		_, err := DecodeKeyEvent([KeyEventSize]byte{0x2B, 0x00, kind, 0x00})
		assert.ErrorIs(t, err, ErrInvalidKind, "kind %d", kind)
	}
}

func TestKeyEvent_RoundTrip(t *testing.T) {
	// Every valid frame survives decode then encode unchanged, which also
	// covers every valid event going the other way.
	for hid := 0; hid <= 0xFFFF; hid += 0x101 {
		for kind := 0; kind <= 1; kind++ {
			for mods := 0; mods < 8; mods++ {
				buf := [KeyEventSize]byte{byte(hid), byte(hid >> 8), byte(kind), byte(mods)}
				ev, err := DecodeKeyEvent(buf)
				require.NoError(t, err)
				assert.Equal(t, uint16(hid), ev.HID)
				assert.Equal(t, buf, EncodeKeyEvent(ev))
			}
		}
	}
}
