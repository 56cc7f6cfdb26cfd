//go:build !linux

package gpio

import "errors"

// RealLines is not available on non-Linux platforms.
type RealLines struct{}

// Open returns an error on non-Linux platforms.
func Open(chip string, offsets [4]int) (*RealLines, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// SetButton is not implemented on non-Linux platforms.
func (r *RealLines) SetButton(b Button, active bool) error {
	return errors.New("gpio: not supported")
}

// Edges is not implemented on non-Linux platforms.
func (r *RealLines) Edges() <-chan Edge {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (r *RealLines) Close() error {
	return nil
}
