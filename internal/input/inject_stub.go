//go:build !linux && !windows

package input

// NullInjector stands in on platforms without an injection backend.
type NullInjector struct{}

// NewInjector always fails with ErrUnsupported.
func NewInjector(_ string) (*NullInjector, error) {
	return nil, ErrUnsupported
}

// Emit always fails with ErrUnsupported.
func (n *NullInjector) Emit(_ KeyEvent) error {
	return ErrUnsupported
}

// Close is a no-op.
func (n *NullInjector) Close() error {
	return nil
}
