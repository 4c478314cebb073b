// Package tray provides system tray functionality using getlantern/systray.
package tray

import (
	"encoding/binary"
	"sync"

	"github.com/getlantern/systray"
)

// MenuItem represents a menu item
type MenuItem struct {
	ID       int
	Title    string
	Disabled bool
	Callback func()
	item     *systray.MenuItem
}

// Tray manages the system tray icon and menu
type Tray struct {
	mu      sync.Mutex
	items   []*MenuItem
	active  bool
	ready   bool
	tooltip string
	onReady func()
	quitCh  chan struct{}
}

// New creates a new system tray. onReady, if not nil, runs once the menu
// exists.
func New(tooltip string, onReady func()) *Tray {
	return &Tray{
		items:   make([]*MenuItem, 0),
		tooltip: tooltip,
		onReady: onReady,
		quitCh:  make(chan struct{}),
	}
}

// AddMenuItem adds a menu item to the tray. Items must be added before Run.
func (t *Tray) AddMenuItem(title string, callback func()) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := len(t.items)
	t.items = append(t.items, &MenuItem{
		ID:       id,
		Title:    title,
		Callback: callback,
	})
	return id
}

// AddInfoItem adds a disabled item used only to display text.
func (t *Tray) AddInfoItem(title string) int {
	id := t.AddMenuItem(title, nil)
	t.mu.Lock()
	t.items[id].Disabled = true
	t.mu.Unlock()
	return id
}

// AddSeparator adds a separator to the menu
func (t *Tray) AddSeparator() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, nil) // nil indicates separator
}

// SetItemTitle changes the text of a menu item.
func (t *Tray) SetItemTitle(id int, title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	mi := t.lookup(id)
	if mi == nil {
		return
	}
	mi.Title = title
	if mi.item != nil {
		mi.item.SetTitle(title)
	}
}

// SetActive switches the icon between the idle and the capturing variant.
func (t *Tray) SetActive(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == active {
		return
	}
	t.active = active
	if t.ready {
		systray.SetIcon(statusIcon(active))
	}
}

// Active reports which icon variant is shown.
func (t *Tray) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Title returns the current text of a menu item.
func (t *Tray) Title(id int) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if mi := t.lookup(id); mi != nil {
		return mi.Title
	}
	return ""
}

func (t *Tray) lookup(id int) *MenuItem {
	if id < 0 || id >= len(t.items) {
		return nil
	}
	return t.items[id]
}

// Run starts the tray event loop (blocks)
func (t *Tray) Run() {
	systray.Run(t.setupMenu, func() {
		close(t.quitCh)
	})
}

// setupMenu is called when systray is ready
func (t *Tray) setupMenu() {
	systray.SetTitle("LANKM")
	systray.SetTooltip(t.tooltip)

	t.mu.Lock()
	t.ready = true
	systray.SetIcon(statusIcon(t.active))
	for _, menuItem := range t.items {
		if menuItem == nil {
			systray.AddSeparator()
			continue
		}

		item := systray.AddMenuItem(menuItem.Title, "")
		menuItem.item = item
		if menuItem.Disabled {
			item.Disable()
		}

		// Handle clicks in goroutine
		if menuItem.Callback != nil {
			go func(mi *MenuItem) {
				for {
					select {
					case <-mi.item.ClickedCh:
						mi.Callback()
					case <-t.quitCh:
						return
					}
				}
			}(menuItem)
		}
	}
	t.mu.Unlock()

	if t.onReady != nil {
		t.onReady()
	}
}

// Stop stops the tray
func (t *Tray) Stop() {
	systray.Quit()
}

const iconSize = 16

var (
	idleColor   = [4]byte{0x80, 0x80, 0x80, 0xFF} // BGRA grey
	activeColor = [4]byte{0x30, 0xB0, 0x30, 0xFF} // BGRA green
)

func statusIcon(active bool) []byte {
	if active {
		return buildIcon(activeColor)
	}
	return buildIcon(idleColor)
}

// buildIcon returns a 16x16 32-bit ICO showing a key cap: a filled square
// with a one pixel transparent margin.
func buildIcon(bgra [4]byte) []byte {
	const (
		headerSize = 6 + 16
		dibSize    = 40
		pixelBytes = iconSize * iconSize * 4
		maskBytes  = iconSize * 4 // 1bpp rows padded to 32 bits
		imageSize  = dibSize + pixelBytes + maskBytes
	)

	icon := make([]byte, headerSize+imageSize)
	le := binary.LittleEndian

	// ICONDIR
	le.PutUint16(icon[2:], 1) // type: icon
	le.PutUint16(icon[4:], 1) // count

	// ICONDIRENTRY
	icon[6] = iconSize
	icon[7] = iconSize
	le.PutUint16(icon[10:], 1)  // planes
	le.PutUint16(icon[12:], 32) // bpp
	le.PutUint32(icon[14:], imageSize)
	le.PutUint32(icon[18:], headerSize)

	// BITMAPINFOHEADER; height is doubled to cover the AND mask.
	dib := icon[headerSize:]
	le.PutUint32(dib[0:], dibSize)
	le.PutUint32(dib[4:], iconSize)
	le.PutUint32(dib[8:], iconSize*2)
	le.PutUint16(dib[12:], 1)
	le.PutUint16(dib[14:], 32)
	le.PutUint32(dib[20:], pixelBytes)

	pixels := dib[dibSize:]
	for y := 1; y < iconSize-1; y++ {
		for x := 1; x < iconSize-1; x++ {
			copy(pixels[(y*iconSize+x)*4:], bgra[:])
		}
	}
	return icon
}
