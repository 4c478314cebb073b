package keymap

// Scancode tables for the Windows low-level keyboard hook. Windows reuses
// scancodes for the numpad, the right-hand modifiers and the navigation
// cluster, and tells them apart only with the extended (0xE0 prefix) flag.
// See https://learn.microsoft.com/en-us/windows/win32/inputdev/about-keyboard-input#scan-codes

// scancodeToHID[scancode] = hid
var scancodeToHID = [256]uint16{
	0, 41, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 45, 46, 42, 43, // 0x00
	20, 26, 8, 21, 23, 28, 24, 12, 18, 19, 47, 48, 40, 224, 4, 22, // 0x10
	7, 9, 10, 11, 13, 14, 15, 51, 52, 53, 225, 50, 29, 27, 6, 25, // 0x20
	5, 17, 16, 54, 55, 56, 229, 85, 226, 44, 57, 58, 59, 60, 61, 62, // 0x30
	63, 64, 65, 66, 67, 83, 71, 95, 96, 97, 86, 92, 93, 94, 87, 89, // 0x40
	90, 91, 98, 99, 0, 0, 100, 68, 69, 103, 0, 0, 140, 0, 0, 0, // 0x50
	0, 0, 0, 0, 104, 105, 106, 107, 108, 109, 110, 111, 112, 113, 114, 0, // 0x60
	136, 145, 144, 135, 0, 0, 148, 147, 146, 138, 0, 139, 0, 137, 133, 0, // 0x70
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0x80
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0x90
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xA0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xB0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xC0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xD0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xE0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, // 0xF0
}

// extendedToHID[scancode] = hid, for events carrying the extended flag.
var extendedToHID = [256]uint16{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0x00
	182, 0, 0, 0, 0, 0, 0, 0, 0, 181, 0, 0, 88, 228, 0, 0, // 0x10
	226, 402, 205, 0, 183, 0, 0, 0, 0, 0, 0, 0, 0, 0, 234, 0, // 0x20
	233, 0, 547, 0, 0, 84, 0, 70, 230, 0, 0, 0, 0, 0, 0, 0, // 0x30
	0, 0, 0, 0, 0, 72, 0, 74, 82, 75, 0, 80, 0, 79, 0, 77, // 0x40
	81, 78, 73, 76, 0, 0, 0, 0, 0, 0, 0, 227, 231, 101, 102, 130, // 0x50
	0, 0, 0, 131, 0, 545, 554, 551, 550, 549, 548, 404, 394, 387, 0, 0, // 0x60
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0x70
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0x80
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0x90
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xA0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xB0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xC0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xD0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xE0
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0xF0
}

type scancode struct {
	code     uint16
	extended bool
}

var hidToScancode = invertWindowsTables()

func invertWindowsTables() map[uint16]scancode {
	inverted := make(map[uint16]scancode, len(scancodeToHID))
	add := func(table *[256]uint16, extended bool) {
		for code, hid := range table {
			if hid == 0 {
				continue
			}
			if _, exists := inverted[hid]; exists {
				continue
			}
			inverted[hid] = scancode{code: uint16(code), extended: extended}
		}
	}
	add(&scancodeToHID, false)
	add(&extendedToHID, true)
	return inverted
}

// ScancodeToHID converts a Windows hardware scancode to its HID usage,
// picking the extended table when the event carried the extended flag.
// Scancodes inside the tables without a known usage return 0.
func ScancodeToHID(code uint32, extended bool) (uint16, error) {
	if code >= uint32(len(scancodeToHID)) {
		return 0, ErrUnknownKey
	}
	if extended {
		return extendedToHID[code], nil
	}
	return scancodeToHID[code], nil
}

// HIDToScancode converts a HID usage back to a Windows scancode and its
// extended flag.
func HIDToScancode(hid uint16) (code uint16, extended bool, ok bool) {
	sc, ok := hidToScancode[hid]
	return sc.code, sc.extended, ok
}
