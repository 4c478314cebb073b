package input

// Classify applies one canonical transition to mods and classifies it.
//
// Each modifier bit mirrors the most recent transition of either of its
// aliases: releasing Right Ctrl clears Ctrl even while Left Ctrl is still
// held. Ctrl+Alt+Tab (press) is reported as the hotkey.
func Classify(mods Modifiers, hid uint16, kind Kind) (Modifiers, Event) {
	down := kind == Press
	switch hid {
	case HIDLeftCtrl, HIDRightCtrl:
		mods = mods.set(ModCtrl, down)
	case HIDLeftShift, HIDRightShift:
		mods = mods.set(ModShift, down)
	case HIDLeftAlt, HIDRightAlt:
		mods = mods.set(ModAlt, down)
	}

	if hid == HIDTab && down && mods.Has(ModCtrl|ModAlt) {
		return mods, Hotkey()
	}
	return mods, KeyEventOf(KeyEvent{HID: hid, Kind: kind, Mods: mods})
}

// Classifier tracks modifier state for a single capture source.
// It is not safe for concurrent use.
type Classifier struct {
	mods Modifiers
}

// Classify updates the tracked modifiers and classifies the transition.
func (c *Classifier) Classify(hid uint16, kind Kind) Event {
	var ev Event
	c.mods, ev = Classify(c.mods, hid, kind)
	return ev
}

// Modifiers returns the current modifier state.
func (c *Classifier) Modifiers() Modifiers {
	return c.mods
}
