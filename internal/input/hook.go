package input

import (
	"github.com/rs/zerolog/log"
)

// hookAction is what the Windows hook procedure does with a notification.
type hookAction int

const (
	// hookPass chains to the next hook so the desktop sees the key.
	hookPass hookAction = iota
	// hookConsume swallows the key.
	hookConsume
	// hookReleaseModifiers swallows the key and releases Left Ctrl and
	// Left Alt on the local desktop.
	hookReleaseModifiers
)

func (a hookAction) String() string {
	switch a {
	case hookPass:
		return "pass"
	case hookConsume:
		return "consume"
	case hookReleaseModifiers:
		return "release-modifiers"
	default:
		return "unknown"
	}
}

// hookState is owned by the hook thread. Low-level hooks report autorepeat
// as further key-down messages, so held keys are tracked here and repeats
// reuse the decision taken for the original press.
//
// Key-ups can go missing (secure desktop, lock screen), leaving stale
// entries in held. Typematic only repeats the most recently pressed key,
// so a key-down counts as a repeat only for lastDown.
type hookState struct {
	classifier Classifier
	handler    Handler
	held       map[uint32]bool
	lastDown   uint32
	hasLast    bool
}

func newHookState(handler Handler) *hookState {
	return &hookState{
		handler: handler,
		held:    make(map[uint32]bool),
	}
}

func (s *hookState) process(in hookInput) hookAction {
	// Our own SendInput calls come back through the hook.
	if in.injected() {
		return hookPass
	}

	hid, kind, err := translateWindows(in)
	if err != nil {
		log.Warn().Err(err).Uint32("flags", in.Flags).Msg("Trap: dropping untranslatable key")
		return hookPass
	}

	physical := in.ScanCode | (in.Flags&llkhfExtended)<<16
	if kind == Press {
		if consumed, ok := s.held[physical]; ok && s.hasLast && s.lastDown == physical {
			if consumed {
				return hookConsume
			}
			return hookPass
		}
		s.lastDown, s.hasLast = physical, true
	} else {
		delete(s.held, physical)
		if s.hasLast && s.lastDown == physical {
			s.hasLast = false
		}
	}

	ev := s.classifier.Classify(hid, kind)
	handled := s.handler(ev)
	if kind == Press {
		s.held[physical] = handled
	}

	switch {
	case !handled:
		return hookPass
	case ev.IsHotkey():
		return hookReleaseModifiers
	default:
		return hookConsume
	}
}
