// Package cff3000 drives a GPIO connected CFF3000 remote control for
// CFA3000 door locks. It presses the remote's lock/unlock buttons via
// two output lines and reads the status LEDs via two input lines.
package cff3000

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/smkeys/cff3000/internal/blink"
	"github.com/smkeys/cff3000/internal/gpio"
)

// Hardware timing. The remote needs its buttons held for about half a
// second to register a press, and answers a status query with a blink
// sequence that is over within eight seconds.
const (
	pressHold    = 500 * time.Millisecond
	statusWindow = 8 * time.Second
	ledUnit      = time.Second // one ShowLEDs duration unit
)

// State is the lock state reported by a status query.
type State int

const (
	// Locked: the bolt is extended.
	Locked State = iota
	// Unlocked: the bolt is retracted.
	Unlocked
	// Manual: the door was operated by hand since the last remote
	// command; the bolt position is unknown.
	Manual
	// OutOfRange: the lock fitting did not answer the radio query.
	OutOfRange
)

func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	case Manual:
		return "manual"
	case OutOfRange:
		return "out-of-range"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Device is a handle to an opened CFF3000. It owns its four GPIO lines
// exclusively until Close. Operations are blocking and must not be
// called concurrently; the device holds no state across calls.
type Device struct {
	lines gpio.Lines
	out   io.Writer

	// injectable for tests
	sleep func(time.Duration)
	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// Open opens the named gpiochip (e.g. "/dev/gpiochip2") and reserves
// the four lines. The offsets are, in order: LED red, LED green,
// button unlock, button lock. Offsets must be distinct; a duplicate
// fails before any line is requested.
func Open(chip string, offsets [4]int) (*Device, error) {
	for i := 0; i < len(offsets); i++ {
		for j := i + 1; j < len(offsets); j++ {
			if offsets[i] == offsets[j] {
				return nil, fmt.Errorf("duplicate line offset %d", offsets[i])
			}
		}
	}

	lines, err := gpio.Open(chip, offsets)
	if err != nil {
		return nil, err
	}
	return newDevice(lines), nil
}

func newDevice(lines gpio.Lines) *Device {
	return &Device{
		lines: lines,
		out:   os.Stdout,
		sleep: time.Sleep,
		now:   time.Now,
		after: time.After,
	}
}

// Close releases the GPIO lines and the chip.
func (d *Device) Close() error {
	return d.lines.Close()
}

// Lock presses and releases the lock button.
func (d *Device) Lock() error {
	return d.press(gpio.ButtonLock)
}

// Unlock presses and releases the unlock button.
func (d *Device) Unlock() error {
	return d.press(gpio.ButtonUnlock)
}

func (d *Device) press(b gpio.Button) error {
	if err := d.lines.SetButton(b, true); err != nil {
		return err
	}
	d.sleep(pressHold)
	return d.lines.SetButton(b, false)
}

// pressBoth presses both buttons at once, which the remote interprets
// as a status query. Released in reverse order of pressing.
func (d *Device) pressBoth() error {
	if err := d.lines.SetButton(gpio.ButtonLock, true); err != nil {
		return err
	}
	if err := d.lines.SetButton(gpio.ButtonUnlock, true); err != nil {
		return err
	}
	d.sleep(pressHold)
	if err := d.lines.SetButton(gpio.ButtonUnlock, false); err != nil {
		return err
	}
	return d.lines.SetButton(gpio.ButtonLock, false)
}

// State queries the lock and decodes the LED blink pattern of the
// answer. Blocks for up to the full status window while the pattern
// plays out.
func (d *Device) State() (State, error) {
	if err := d.pressBoth(); err != nil {
		return 0, err
	}

	edges := d.captureEdges(statusWindow)
	st, err := blink.Decode(edges)
	if err != nil {
		return 0, fmt.Errorf("decode status reply: %w", err)
	}

	switch st {
	case blink.Locked:
		return Locked, nil
	case blink.Unlocked:
		return Unlocked, nil
	case blink.Manual:
		return Manual, nil
	case blink.OutOfRange:
		return OutOfRange, nil
	}
	return 0, fmt.Errorf("decode status reply: unknown state %v", st)
}

// Check queries the lock and reports whether it is locked. Manual and
// out-of-range answers are errors here: the bolt position cannot be
// determined.
func (d *Device) Check() (bool, error) {
	st, err := d.State()
	if err != nil {
		return false, err
	}
	switch st {
	case Locked:
		return true, nil
	case Unlocked:
		return false, nil
	}
	return false, fmt.Errorf("bolt position unknown: %s", st)
}

// captureEdges collects LED transitions until the window elapses or
// the edge stream ends.
func (d *Device) captureEdges(window time.Duration) []blink.Edge {
	var edges []blink.Edge
	deadline := d.now().Add(window)
	ch := d.lines.Edges()

	for {
		remaining := deadline.Sub(d.now())
		if remaining <= 0 {
			return edges
		}
		select {
		case e, ok := <-ch:
			if !ok {
				return edges
			}
			edges = append(edges, blink.Edge{
				LED:    blinkLED(e.LED),
				Rising: e.Rising,
				At:     e.At,
			})
		case <-d.after(remaining):
			return edges
		}
	}
}

func blinkLED(l gpio.LED) blink.LED {
	if l == gpio.LEDGreen {
		return blink.Green
	}
	return blink.Red
}

// ShowLEDs mirrors the remote's LED state to the device's output as
// colored dots, refreshed in place, for duration seconds. A duration
// of 0 emits the idle frame and returns. Call it after Lock, Unlock or
// Check to watch the remote's answer.
func (d *Device) ShowLEDs(duration uint8) error {
	red, green := false, false
	deadline := d.now().Add(time.Duration(duration) * ledUnit)
	ch := d.lines.Edges()

	if err := d.printLEDs(red, green); err != nil {
		return err
	}

loop:
	for {
		remaining := deadline.Sub(d.now())
		if remaining <= 0 {
			break
		}
		select {
		case e, ok := <-ch:
			if !ok {
				break loop
			}
			switch e.LED {
			case gpio.LEDRed:
				red = e.Rising
			case gpio.LEDGreen:
				green = e.Rising
			}
			if err := d.printLEDs(red, green); err != nil {
				return err
			}
		case <-d.after(remaining):
			break loop
		}
	}

	_, err := fmt.Fprintln(d.out)
	return err
}

func (d *Device) printLEDs(red, green bool) error {
	dot := func(on bool) string {
		if on {
			return "●"
		}
		return "◯"
	}
	_, err := fmt.Fprintf(d.out, "\r\x1b[31m %s \x1b[32m%s \x1b[0m ", dot(red), dot(green))
	return err
}
