// Package keymap translates between native platform key identifiers and
// USB HID keyboard usage codes, the canonical key space used on the wire.
package keymap

import "errors"

// ErrUnknownKey is returned for native codes outside the translation tables.
var ErrUnknownKey = errors.New("keymap: native key code out of range")

// hidToLinux maps HID usage codes to Linux input event codes.
// Taken from drivers/hid/usbhid/usbkbd.c (Linux 6.10.7).
var hidToLinux = [252]uint8{
	0, 0, 0, 0, 30, 48, 46, 32, 18, 33, 34, 35, 23, 36, 37, 38, // 0x00
	50, 49, 24, 25, 16, 19, 31, 20, 22, 47, 17, 45, 21, 44, 2, 3, // 0x10
	4, 5, 6, 7, 8, 9, 10, 11, 28, 1, 14, 15, 57, 12, 13, 26, // 0x20
	27, 43, 43, 39, 40, 41, 51, 52, 53, 58, 59, 60, 61, 62, 63, 64, // 0x30
	65, 66, 67, 68, 87, 88, 99, 70, 119, 110, 102, 104, 111, 107, 109, 106, // 0x40
	105, 108, 103, 69, 98, 55, 74, 78, 96, 79, 80, 81, 75, 76, 77, 71, // 0x50
	72, 73, 82, 83, 86, 127, 116, 117, 183, 184, 185, 186, 187, 188, 189, 190, // 0x60
	191, 192, 193, 194, 134, 138, 130, 132, 128, 129, 131, 137, 133, 135, 136, 113, // 0x70
	115, 114, 0, 0, 0, 121, 0, 89, 93, 124, 92, 94, 95, 0, 0, 0, // 0x80
	122, 123, 90, 91, 85, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0x90
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xA0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xB0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xC0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xD0
	29, 42, 56, 125, 97, 54, 100, 126, 164, 166, 165, 163, 161, 115, 114, 113, // 0xE0
	150, 158, 159, 128, 136, 177, 178, 176, 142, 152, 173, 140, // 0xF0
}

// linuxKeySpace is the size of the native keycode space covered by linuxToHID.
const linuxKeySpace = 256

var linuxToHID = invertLinuxTable(&hidToLinux)

// invertLinuxTable builds the native->HID table. Codes that several HID
// usages map to keep the highest usage; codes without a usage hold 0.
func invertLinuxTable(table *[252]uint8) [linuxKeySpace]uint16 {
	var inverted [linuxKeySpace]uint16
	for hid, code := range table {
		if code == 0 {
			continue
		}
		inverted[code] = uint16(hid)
	}
	return inverted
}

// LinuxToHID converts a Linux key code to its HID usage. Codes inside the
// table without a known usage return 0 and a nil error.
func LinuxToHID(code uint16) (uint16, error) {
	if int(code) >= len(linuxToHID) {
		return 0, ErrUnknownKey
	}
	return linuxToHID[code], nil
}

// HIDToLinux converts a HID usage to a Linux key code. ok is false when the
// usage has no Linux equivalent.
func HIDToLinux(hid uint16) (code uint16, ok bool) {
	if int(hid) >= len(hidToLinux) {
		return 0, false
	}
	code = uint16(hidToLinux[hid])
	return code, code != 0
}
