package input

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// localReleases are emitted on the local desktop whenever the hotkey is
// handled, so no Ctrl or Alt alias stays logically held there.
var localReleases = [...]uint16{HIDLeftCtrl, HIDRightCtrl, HIDLeftAlt, HIDRightAlt}

// coordinator is the only goroutine that calls the handler and the only
// user of the injector. Device readers feed it through events.
type coordinator struct {
	events   <-chan Event
	done     <-chan struct{}
	handler  Handler
	injector Injector
}

func (c *coordinator) run() error {
	for {
		select {
		case <-c.done:
			return nil
		case ev := <-c.events:
			if err := c.dispatch(ev); err != nil {
				return err
			}
		}
	}
}

// dispatch hands ev to the handler. Grabbed devices are invisible to the
// rest of the system, so anything the handler lets through is re-emitted
// on the virtual device.
func (c *coordinator) dispatch(ev Event) error {
	handled := c.handler(ev)

	switch {
	case ev.IsHotkey() && handled:
		for _, hid := range localReleases {
			if err := c.injector.Emit(KeyEvent{HID: hid, Kind: Release}); err != nil {
				return fmt.Errorf("release modifier 0x%02X: %w", hid, err)
			}
		}
		log.Debug().Msg("Trap: released local modifiers")
	case ev.IsHotkey():
		if err := c.injector.Emit(KeyEvent{HID: HIDTab, Kind: Press, Mods: ModCtrl | ModAlt}); err != nil {
			return fmt.Errorf("pass through hotkey: %w", err)
		}
	case !handled:
		if err := c.injector.Emit(ev.Key); err != nil {
			return fmt.Errorf("re-emit %s: %w", ev.Key, err)
		}
	}
	return nil
}
