// Package gpio provides access to the four CFF3000 GPIO lines with
// hardware abstraction. The real implementation uses the Linux GPIO
// character device. The fake implementation allows testing without
// hardware.
package gpio

import "time"

// Button identifies one of the two output lines.
type Button int

const (
	ButtonUnlock Button = iota
	ButtonLock
)

// String returns the consumer label used when requesting the line.
func (b Button) String() string {
	if b == ButtonLock {
		return "button-lock"
	}
	return "button-unlock"
}

// LED identifies one of the two status LED lines.
type LED int

const (
	LEDRed LED = iota
	LEDGreen
)

// String returns the consumer label used when requesting the line.
func (l LED) String() string {
	if l == LEDGreen {
		return "led-green"
	}
	return "led-red"
}

// Edge is a single LED level transition reported by the hardware.
type Edge struct {
	LED    LED
	Rising bool // true = LED turned on
	// At is the kernel timestamp of the transition. Timestamps are
	// monotonic and only meaningful relative to each other.
	At time.Duration
}

// Lines drives the CFF3000 command lines and reports LED transitions.
type Lines interface {
	// SetButton drives an output line high (active) or low.
	SetButton(b Button, active bool) error

	// Edges returns the stream of LED transitions. The channel is
	// closed when the lines are closed; real hardware never closes
	// it on its own.
	Edges() <-chan Edge

	// Close releases the lines and the chip.
	Close() error
}
