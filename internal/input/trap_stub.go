//go:build !linux && !windows

package input

// Trap is a placeholder on platforms without a capture backend.
type Trap struct{}

// NewTrap creates a stub trap.
func NewTrap(_ string) *Trap {
	return &Trap{}
}

// Start always fails with ErrUnsupported.
func (t *Trap) Start(_ Handler) error {
	return ErrUnsupported
}

// Stop is a no-op.
func (t *Trap) Stop() error {
	return nil
}

// Wait returns immediately.
func (t *Trap) Wait() error {
	return nil
}
