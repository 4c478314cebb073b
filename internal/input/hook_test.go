package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// recorder is a Handler that records events and claims everything while
// claim is set.
type recorder struct {
	claim  bool
	events []Event
}

func (r *recorder) handle(ev Event) bool {
	r.events = append(r.events, ev)
	return r.claim
}

func down(scan uint32) hookInput { return hookInput{Message: wmKeyDown, ScanCode: scan} }
func up(scan uint32) hookInput   { return hookInput{Message: wmKeyUp, ScanCode: scan} }

func TestHookState_PassesWhenUnhandled(t *testing.T) {
	r := &recorder{}
	s := newHookState(r.handle)

	assert.Equal(t, hookPass, s.process(down(0x1E)))
	assert.Equal(t, hookPass, s.process(up(0x1E)))
	assert.Len(t, r.events, 2)
}

func TestHookState_ConsumesWhenHandled(t *testing.T) {
	r := &recorder{claim: true}
	s := newHookState(r.handle)

	assert.Equal(t, hookConsume, s.process(down(0x1E)))
	assert.Equal(t, hookConsume, s.process(up(0x1E)))
}

func TestHookState_HotkeyReleasesModifiers(t *testing.T) {
	r := &recorder{}
	s := newHookState(r.handle)

	assert.Equal(t, hookPass, s.process(hookInput{Message: wmKeyDown, ScanCode: 0x1D}))
	assert.Equal(t, hookPass, s.process(hookInput{Message: wmSysKeyDown, ScanCode: 0x38}))

	r.claim = true
	assert.Equal(t, hookReleaseModifiers, s.process(hookInput{Message: wmSysKeyDown, ScanCode: 0x0F}))
	assert.True(t, r.events[len(r.events)-1].IsHotkey())
}

func TestHookState_UnhandledHotkeyPasses(t *testing.T) {
	r := &recorder{}
	s := newHookState(r.handle)

	s.process(down(0x1D))
	s.process(down(0x38))
	assert.Equal(t, hookPass, s.process(down(0x0F)))
	assert.True(t, r.events[len(r.events)-1].IsHotkey())
}

func TestHookState_InjectedAlwaysPasses(t *testing.T) {
	r := &recorder{claim: true}
	s := newHookState(r.handle)

	assert.Equal(t, hookPass, s.process(hookInput{Message: wmKeyDown, ScanCode: 0x1E, Flags: llkhfInjected}))
	assert.Empty(t, r.events)
}

func TestHookState_UntranslatablePasses(t *testing.T) {
	r := &recorder{claim: true}
	s := newHookState(r.handle)

	assert.Equal(t, hookPass, s.process(down(0x1FF)))
	assert.Empty(t, r.events)
}

func TestHookState_AutorepeatReusesDecision(t *testing.T) {
	r := &recorder{claim: true}
	s := newHookState(r.handle)

	assert.Equal(t, hookConsume, s.process(down(0x1E)))

	// A mode switch while the key is held does not split the repeat stream.
	r.claim = false
	assert.Equal(t, hookConsume, s.process(down(0x1E)))
	assert.Equal(t, hookConsume, s.process(down(0x1E)))
	assert.Len(t, r.events, 1)

	assert.Equal(t, hookPass, s.process(up(0x1E)))
	assert.Len(t, r.events, 2)

	// After the release a new press is a fresh decision.
	assert.Equal(t, hookPass, s.process(down(0x1E)))
	assert.Len(t, r.events, 3)
}

func TestHookState_ExtendedKeysTrackedSeparately(t *testing.T) {
	r := &recorder{claim: true}
	s := newHookState(r.handle)

	s.process(down(0x1D))
	r.claim = false
	// Right Ctrl shares the scancode but is a different physical key.
	assert.Equal(t, hookPass, s.process(hookInput{Message: wmKeyDown, ScanCode: 0x1D, Flags: llkhfExtended}))
	assert.Len(t, r.events, 2)
}

func TestHookState_MissedKeyUpDoesNotHideFreshPress(t *testing.T) {
	r := &recorder{}
	s := newHookState(r.handle)

	// Ctrl goes down locally and its key-up is never delivered.
	assert.Equal(t, hookPass, s.process(down(0x1D)))

	// Other keys go down before Ctrl is pressed again.
	r.claim = true
	s.process(down(0x38))
	s.process(down(0x0F))
	s.process(up(0x0F))
	s.process(up(0x38))
	calls := len(r.events)

	assert.Equal(t, hookConsume, s.process(down(0x1D)))
	assert.Len(t, r.events, calls+1, "fresh press reaches the handler")
	assert.Equal(t, KeyEventOf(KeyEvent{HID: HIDLeftCtrl, Kind: Press, Mods: ModCtrl}), r.events[calls])

	// Repeats of that fresh press follow the new decision.
	r.claim = false
	assert.Equal(t, hookConsume, s.process(down(0x1D)))
	assert.Len(t, r.events, calls+1)
}

func TestHookState_RepeatOnlyForLastPressedKey(t *testing.T) {
	r := &recorder{claim: true}
	s := newHookState(r.handle)

	s.process(down(0x1E))
	s.process(down(0x1F))
	// 0x1E is still held but is no longer the key typematic repeats.
	s.process(down(0x1E))
	assert.Len(t, r.events, 3)
}
