// Package protocol defines the wire format between server and client.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"

	"lankm/internal/input"
)

// KeyEventSize is the size of one encoded key event. There is no header
// or length prefix: a stream is a plain sequence of 4-byte frames.
//
// Wire format (little endian):
//
//	hid(uint16) + kind(uint8) + mods(uint8) = 4 bytes
//
// kind is 0 for press and 1 for release. mods carries Ctrl in bit 0,
// Alt in bit 1 and Shift in bit 2.
const KeyEventSize = 4

// ErrInvalidKind is returned when a frame carries a kind other than press
// or release.
var ErrInvalidKind = errors.New("protocol: invalid key event kind")

// EncodeKeyEvent serializes ev to wire format.
func EncodeKeyEvent(ev input.KeyEvent) [KeyEventSize]byte {
	var buf [KeyEventSize]byte
	binary.LittleEndian.PutUint16(buf[0:2], ev.HID)
	buf[2] = uint8(ev.Kind)
	buf[3] = uint8(ev.Mods)
	return buf
}

// DecodeKeyEvent deserializes one frame.
func DecodeKeyEvent(buf [KeyEventSize]byte) (input.KeyEvent, error) {
	kind := input.Kind(buf[2])
	if kind != input.Press && kind != input.Release {
		return input.KeyEvent{}, fmt.Errorf("%w: %d", ErrInvalidKind, buf[2])
	}
	return input.KeyEvent{
		HID:  binary.LittleEndian.Uint16(buf[0:2]),
		Kind: kind,
		Mods: input.Modifiers(buf[3]),
	}, nil
}
