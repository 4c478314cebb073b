//go:build windows

package input

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
)

// Windows implementation of input capture using a low-level keyboard hook.
// The hook can swallow individual keys, so nothing is re-injected here.

var (
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procGetModuleHandle     = kernel32.NewProc("GetModuleHandleW")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procPostThreadMessage   = user32.NewProc("PostThreadMessageW")
)

const (
	whKeyboardLL = 13
	hcAction     = 0
	wmQuit       = 0x0012

	vkLControl = 0xA2
	vkLMenu    = 0xA4
	scanLCtrl  = 0x1D
	scanLAlt   = 0x38
)

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// Trap represents a Windows input trap
type Trap struct {
	// Callbacks cannot be released, so one is created per Trap and reused
	// across Start calls.
	callback uintptr

	mu       sync.Mutex
	running  bool
	state    *hookState
	threadID uint32
	finished chan struct{}
	err      error
}

// NewTrap creates a trap. The argument is only used on platforms that
// create a virtual device.
func NewTrap(_ string) *Trap {
	t := &Trap{finished: make(chan struct{})}
	t.callback = syscall.NewCallback(t.hookProc)
	return t
}

// Start installs the keyboard hook and begins delivering events to handler.
func (t *Trap) Start(handler Handler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("trap already running")
	}

	t.state = newHookState(handler)
	t.finished = make(chan struct{})
	t.err = nil

	ready := make(chan error, 1)
	go t.hookThread(ready, t.finished)
	if err := <-ready; err != nil {
		return err
	}

	t.running = true
	log.Info().Msg("Trap: keyboard hook installed")
	return nil
}

// Stop removes the hook and ends its message loop.
func (t *Trap) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	threadID := t.threadID
	finished := t.finished
	t.mu.Unlock()

	ret, _, err := procPostThreadMessage.Call(uintptr(threadID), wmQuit, 0, 0)
	if ret == 0 {
		return fmt.Errorf("PostThreadMessage: %v", err)
	}
	<-finished
	log.Info().Msg("Trap: stopped")
	return nil
}

// Wait blocks until the hook thread exits and returns its error.
func (t *Trap) Wait() error {
	t.mu.Lock()
	finished := t.finished
	t.mu.Unlock()

	<-finished

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// hookThread owns the hook. Low-level hooks are called on the thread that
// installed them, and only while that thread pumps messages.
func (t *Trap) hookThread(ready chan<- error, finished chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(finished)

	t.mu.Lock()
	t.threadID = windows.GetCurrentThreadId()
	t.mu.Unlock()

	hMod, _, _ := procGetModuleHandle.Call(0)
	hook, _, err := procSetWindowsHookEx.Call(whKeyboardLL, t.callback, hMod, 0)
	if hook == 0 {
		ready <- fmt.Errorf("SetWindowsHookEx: %v", err)
		return
	}
	defer procUnhookWindowsHookEx.Call(hook)
	ready <- nil

	var m msg
	for {
		ret, _, err := procGetMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(ret) {
		case 0:
			return
		case -1:
			t.mu.Lock()
			t.err = fmt.Errorf("GetMessage: %v", err)
			t.running = false
			t.mu.Unlock()
			log.Error().Err(err).Msg("Trap: message loop failed")
			return
		}
	}
}

func (t *Trap) hookProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode == hcAction {
		kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))
		in := hookInput{
			Message:  uint32(wParam),
			ScanCode: kb.ScanCode,
			Flags:    kb.Flags,
		}

		switch t.state.process(in) {
		case hookConsume:
			return 1
		case hookReleaseModifiers:
			if err := releaseLocalModifiers(); err != nil {
				log.Warn().Err(err).Msg("Trap: failed to release local modifiers")
			}
			return 1
		}
	}

	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

// releaseLocalModifiers lifts Left Ctrl and Left Alt so the desktop does
// not see them stuck after the hotkey is swallowed.
func releaseLocalModifiers() error {
	return sendInput([]sendInputEntry{
		{Type: inputKeyboard, Ki: keybdInput{Vk: vkLControl, Scan: scanLCtrl, Flags: keyeventfScancode | keyeventfKeyUp}},
		{Type: inputKeyboard, Ki: keybdInput{Vk: vkLMenu, Scan: scanLAlt, Flags: keyeventfScancode | keyeventfKeyUp}},
	})
}
