package tray

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIcon(t *testing.T) {
	icon := buildIcon(activeColor)

	require.Len(t, icon, 22+40+16*16*4+16*4)
	assert.Equal(t, []byte{0, 0, 1, 0, 1, 0}, icon[:6])
	assert.EqualValues(t, len(icon)-22, binary.LittleEndian.Uint32(icon[14:]))
	assert.EqualValues(t, 22, binary.LittleEndian.Uint32(icon[18:]))

	pixels := icon[22+40:]
	corner := pixels[0:4]
	center := pixels[(8*16+8)*4 : (8*16+8)*4+4]
	assert.Equal(t, []byte{0, 0, 0, 0}, corner)
	assert.Equal(t, activeColor[:], center)
}

func TestStatusIconDiffers(t *testing.T) {
	assert.NotEqual(t, statusIcon(true), statusIcon(false))
}

func TestMenuBookkeeping(t *testing.T) {
	tr := New("test", nil)

	ip := tr.AddInfoItem("IP: 10.0.0.2")
	tr.AddSeparator()
	toggle := tr.AddMenuItem("Start", func() {})

	assert.Equal(t, 0, ip)
	assert.Equal(t, 2, toggle)
	assert.Equal(t, "IP: 10.0.0.2", tr.Title(ip))

	// Before Run there is no native item; only the stored title changes.
	tr.SetItemTitle(toggle, "Stop")
	assert.Equal(t, "Stop", tr.Title(toggle))

	assert.Empty(t, tr.Title(1))
	assert.Empty(t, tr.Title(42))
	tr.SetItemTitle(42, "ignored")
}
