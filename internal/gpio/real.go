//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// edgeBuffer is sized so a full status blink sequence fits even if the
// consumer is slow to drain; later events are dropped rather than
// blocking the gpiocdev event goroutine.
const edgeBuffer = 64

// RealLines drives actual hardware through the Linux GPIO character device.
type RealLines struct {
	chip    *gpiocdev.Chip
	buttons [2]*gpiocdev.Line
	leds    [2]*gpiocdev.Line
	edges   chan Edge
}

// Open opens the named gpiochip (name or /dev path) and requests the four
// lines: offsets are LED red, LED green, button unlock, button lock in
// that order. Both buttons start low. On any failure all lines requested
// so far are released before returning.
func Open(chip string, offsets [4]int) (*RealLines, error) {
	c, err := gpiocdev.NewChip(chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", chip, err)
	}

	r := &RealLines{
		chip:  c,
		edges: make(chan Edge, edgeBuffer),
	}

	for i, led := range []LED{LEDRed, LEDGreen} {
		led := led
		line, err := c.RequestLine(offsets[i],
			gpiocdev.AsInput,
			gpiocdev.WithBothEdges,
			gpiocdev.WithConsumer(led.String()),
			gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
				r.handleEvent(led, evt)
			}))
		if err != nil {
			r.release()
			return nil, fmt.Errorf("request %s line %d: %w", led, offsets[i], err)
		}
		r.leds[led] = line
	}

	for i, b := range []Button{ButtonUnlock, ButtonLock} {
		line, err := c.RequestLine(offsets[2+i],
			gpiocdev.AsOutput(0),
			gpiocdev.WithConsumer(b.String()))
		if err != nil {
			r.release()
			return nil, fmt.Errorf("request %s line %d: %w", b, offsets[2+i], err)
		}
		r.buttons[b] = line
	}

	return r, nil
}

func (r *RealLines) handleEvent(led LED, evt gpiocdev.LineEvent) {
	e := Edge{
		LED:    led,
		Rising: evt.Type == gpiocdev.LineEventRisingEdge,
		At:     evt.Timestamp,
	}
	select {
	case r.edges <- e:
	default:
		// Consumer fell behind; dropping beats blocking the event
		// goroutine inside gpiocdev.
	}
}

// SetButton drives an output line high or low.
func (r *RealLines) SetButton(b Button, active bool) error {
	v := 0
	if active {
		v = 1
	}
	if err := r.buttons[b].SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w", b, err)
	}
	return nil
}

// Edges returns the LED transition stream.
func (r *RealLines) Edges() <-chan Edge {
	return r.edges
}

// Close releases all lines and the chip. The button lines are reverted
// to inputs first so the lock cannot be left with a pressed button.
func (r *RealLines) Close() error {
	var errs []error

	for _, line := range r.buttons {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("revert button line: %w", err))
		}
	}
	r.release()
	close(r.edges)

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// release closes whatever has been requested so far. Used by both the
// Open error path and Close.
func (r *RealLines) release() {
	for i, line := range r.leds {
		if line != nil {
			line.Close()
			r.leds[i] = nil
		}
	}
	for i, line := range r.buttons {
		if line != nil {
			line.Close()
			r.buttons[i] = nil
		}
	}
	if r.chip != nil {
		r.chip.Close()
		r.chip = nil
	}
}
