package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinuxToHID(t *testing.T) {
	cases := []struct {
		name string
		code uint16
		hid  uint16
	}{
		{"KEY_A", 30, 0x04},
		{"KEY_TAB", 15, 0x2B},
		{"KEY_LEFTCTRL", 29, 0xE0},
		{"KEY_RIGHTCTRL", 97, 0xE4},
		{"KEY_LEFTALT", 56, 0xE2},
		{"KEY_RIGHTALT", 100, 0xE6},
		{"KEY_LEFTSHIFT", 42, 0xE1},
		// KEY_BACKSLASH is shared by 0x31 and 0x32; the higher usage wins.
		{"KEY_BACKSLASH", 43, 0x32},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hid, err := LinuxToHID(tc.code)
			require.NoError(t, err)
			assert.Equal(t, tc.hid, hid)
		})
	}
}

func TestLinuxToHIDUnmappedInRange(t *testing.T) {
	// KEY_ZENKAKUHANKAKU has no usage in the table.
	hid, err := LinuxToHID(84)
	require.NoError(t, err)
	assert.Zero(t, hid)

	hid, err = LinuxToHID(0)
	require.NoError(t, err)
	assert.Zero(t, hid)
}

func TestLinuxToHIDOutOfRange(t *testing.T) {
	_, err := LinuxToHID(linuxKeySpace)
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = LinuxToHID(0x110) // BTN_LEFT
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestHIDToLinux(t *testing.T) {
	code, ok := HIDToLinux(0x2B)
	require.True(t, ok)
	assert.EqualValues(t, 15, code)

	_, ok = HIDToLinux(0x00)
	assert.False(t, ok)

	_, ok = HIDToLinux(0x1FF)
	assert.False(t, ok)
}

func TestLinuxRoundTrip(t *testing.T) {
	for code := uint16(1); code < linuxKeySpace; code++ {
		hid, err := LinuxToHID(code)
		require.NoError(t, err)
		if hid == 0 {
			continue
		}
		back, ok := HIDToLinux(hid)
		require.True(t, ok, "hid 0x%02X", hid)
		assert.Equal(t, code, back, "hid 0x%02X", hid)
	}
}

func TestScancodeToHID(t *testing.T) {
	cases := []struct {
		name     string
		code     uint32
		extended bool
		hid      uint16
	}{
		{"tab", 0x0F, false, 0x2B},
		{"left ctrl", 0x1D, false, 0xE0},
		{"right ctrl", 0x1D, true, 0xE4},
		{"left alt", 0x38, false, 0xE2},
		{"right alt", 0x38, true, 0xE6},
		{"numpad enter", 0x1C, true, 0x58},
		{"enter", 0x1C, false, 0x28},
		{"arrow up", 0x48, true, 0x52},
		{"numpad 8", 0x48, false, 0x60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hid, err := ScancodeToHID(tc.code, tc.extended)
			require.NoError(t, err)
			assert.Equal(t, tc.hid, hid)
		})
	}
}

func TestScancodeToHIDBounds(t *testing.T) {
	_, err := ScancodeToHID(256, false)
	assert.ErrorIs(t, err, ErrUnknownKey)

	hid, err := ScancodeToHID(0x54, false)
	require.NoError(t, err)
	assert.Zero(t, hid)
}

func TestHIDToScancode(t *testing.T) {
	code, extended, ok := HIDToScancode(0xE4)
	require.True(t, ok)
	assert.EqualValues(t, 0x1D, code)
	assert.True(t, extended)

	code, extended, ok = HIDToScancode(0x04)
	require.True(t, ok)
	assert.EqualValues(t, 0x1E, code)
	assert.False(t, extended)

	_, _, ok = HIDToScancode(0)
	assert.False(t, ok)
}
