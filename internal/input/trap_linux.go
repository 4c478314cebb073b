//go:build linux

package input

import (
	"errors"
	"fmt"
	"os"
	"sync"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

// Linux implementation of input capture using exclusive evdev grabs.
// Evdev has no per-key suppression, so every keyboard is grabbed and
// whatever the handler does not claim is re-emitted on a virtual keyboard.

// eventBuffer bounds the hand-off between device readers and the coordinator.
const eventBuffer = 256

// Trap represents a Linux input trap
type Trap struct {
	virtualName string
	newInjector func(name string) (Injector, error)

	mu       sync.Mutex
	running  bool
	devices  []*evdev.InputDevice
	done     chan struct{}
	readers  *conc.WaitGroup
	finished chan struct{}
	err      error
}

// NewTrap creates a trap. virtualName is the name of the virtual keyboard
// it creates for re-injection; devices with that name are never grabbed.
func NewTrap(virtualName string) *Trap {
	return &Trap{
		virtualName: virtualName,
		newInjector: func(name string) (Injector, error) {
			inj, err := NewInjector(name)
			if err != nil {
				return nil, err
			}
			return inj, nil
		},
		finished: make(chan struct{}),
	}
}

// Start grabs every keyboard and begins delivering events to handler.
func (t *Trap) Start(handler Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("trap already running")
	}

	devices, err := grabKeyboards(t.virtualName)
	if err != nil {
		return err
	}

	// Created after the grab set is fixed so it can never end up in it.
	injector, err := t.newInjector(t.virtualName)
	if err != nil {
		releaseDevices(devices)
		return err
	}

	events := make(chan Event, eventBuffer)
	t.devices = devices
	t.done = make(chan struct{})
	t.readers = conc.NewWaitGroup()
	t.finished = make(chan struct{})
	t.err = nil

	for _, dev := range devices {
		done := t.done
		t.readers.Go(func() {
			readDevice(dev, events, done)
		})
	}

	c := &coordinator{
		events:   events,
		done:     t.done,
		handler:  handler,
		injector: injector,
	}
	finished := t.finished
	go func() {
		err := c.run()
		if cerr := injector.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close virtual keyboard: %w", cerr)
		}
		if err != nil {
			log.Error().Err(err).Msg("Trap: coordinator stopped")
		}
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
		close(finished)
	}()

	t.running = true
	log.Info().Int("keyboards", len(devices)).Msg("Trap: capturing keyboard input")
	return nil
}

// Stop ungrabs all keyboards and stops the coordinator.
func (t *Trap) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	close(t.done)
	releaseDevices(t.devices)
	t.devices = nil
	readers := t.readers
	t.mu.Unlock()

	readers.Wait()
	log.Info().Msg("Trap: stopped")
	return nil
}

// Wait blocks until the coordinator exits and returns its error. A non-nil
// error means the virtual keyboard failed and capture is no longer running.
func (t *Trap) Wait() error {
	t.mu.Lock()
	finished := t.finished
	t.mu.Unlock()

	<-finished

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// grabKeyboards opens and exclusively grabs every device that reports key
// events with autorepeat.
func grabKeyboards(virtualName string) ([]*evdev.InputDevice, error) {
	log.Debug().Msg("Trap: enumerating devices")
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	var (
		keyboards []*evdev.InputDevice
		denied    int
	)
	for _, p := range paths {
		log.Debug().Str("path", p.Path).Str("name", p.Name).Msg("Trap: found device")
		if p.Name == virtualName {
			continue
		}

		dev, err := evdev.Open(p.Path)
		if err != nil {
			if os.IsPermission(err) {
				denied++
			}
			log.Debug().Err(err).Str("path", p.Path).Msg("Trap: skipping device")
			continue
		}
		if !isKeyboard(dev) {
			dev.Close()
			continue
		}

		if err := dev.Grab(); err != nil {
			dev.Close()
			releaseDevices(keyboards)
			return nil, fmt.Errorf("grab %s (%s): %w", p.Path, p.Name, err)
		}
		log.Info().Str("path", p.Path).Str("name", p.Name).Msg("Trap: grabbed keyboard")
		keyboards = append(keyboards, dev)
	}

	if len(keyboards) == 0 {
		if denied > 0 {
			return nil, fmt.Errorf("no keyboard devices found (%d devices not readable, check membership of the 'input' group)", denied)
		}
		return nil, errors.New("no keyboard devices found")
	}
	return keyboards, nil
}

func isKeyboard(dev *evdev.InputDevice) bool {
	var hasKey, hasRep bool
	for _, t := range dev.CapableTypes() {
		switch t {
		case evdev.EV_KEY:
			hasKey = true
		case evdev.EV_REP:
			hasRep = true
		}
	}
	return hasKey && hasRep
}

func releaseDevices(devices []*evdev.InputDevice) {
	for _, dev := range devices {
		_ = dev.Ungrab()
		_ = dev.Close()
	}
}

// readDevice reads one grabbed keyboard. Modifier state is private to the
// device: a Ctrl held on one keyboard does not arm Tab on another.
func readDevice(dev *evdev.InputDevice, events chan<- Event, done <-chan struct{}) {
	name, _ := dev.Name()
	var classifier Classifier

	for {
		raw, err := dev.ReadOne()
		if err != nil {
			select {
			case <-done:
			default:
				log.Warn().Err(err).Str("device", name).Msg("Trap: device read failed, no longer capturing it")
			}
			return
		}
		if raw.Type != evdev.EV_KEY {
			continue
		}

		hid, kind, err := translateLinux(uint16(raw.Code), raw.Value)
		if errors.Is(err, ErrAutorepeat) {
			continue
		}
		if err != nil {
			log.Warn().Err(err).Str("device", name).Msg("Trap: dropping key event")
			continue
		}

		select {
		case events <- classifier.Classify(hid, kind):
		case <-done:
			return
		}
	}
}
