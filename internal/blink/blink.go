// Package blink decodes the CFF3000 status LED blink patterns.
// This package is pure: no GPIO, no clocks, no sleeps. Transition
// timestamps are supplied by the caller.
package blink

import (
	"fmt"
	"time"
)

// LED identifies which status LED changed.
type LED int

const (
	Red LED = iota
	Green
)

// Edge is a single LED level transition, in the order observed.
type Edge struct {
	LED    LED
	Rising bool
	At     time.Duration
}

// State is the decoded answer of a status query.
type State int

const (
	// Locked: the green LED lit alone. The bolt is extended.
	Locked State = iota
	// Unlocked: the red LED lit alone. The bolt is retracted.
	Unlocked
	// Manual: both LEDs blinked synchronously. The door was operated
	// by hand since the last remote command.
	Manual
	// OutOfRange: the LEDs blinked alternately. The lock fitting did
	// not answer the radio query.
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

// MergeWindow is how close two transitions must be to count as one
// combined LED change. The device switches both LEDs "at once" but the
// edges arrive a few milliseconds apart.
const MergeWindow = 50 * time.Millisecond

// sample is the level of both LEDs after one combined change.
type sample struct {
	red, green bool
}

// merge folds raw edges into combined samples. Edges closer than
// MergeWindow to their predecessor update the current sample instead of
// starting a new one; levels of the untouched LED carry forward.
func merge(edges []Edge) []sample {
	var samples []sample
	var red, green bool
	var lastAt time.Duration

	for i, e := range edges {
		switch e.LED {
		case Red:
			red = e.Rising
		case Green:
			green = e.Rising
		}
		if i == 0 || e.At-lastAt >= MergeWindow {
			samples = append(samples, sample{red: red, green: green})
		} else {
			samples[len(samples)-1] = sample{red: red, green: green}
		}
		lastAt = e.At
	}
	return samples
}

// Decode interprets the LED transitions captured after a status query.
// A valid reply always starts with both LEDs on and ends with both off;
// what happens in between distinguishes the four states.
func Decode(edges []Edge) (State, error) {
	samples := merge(edges)

	if len(samples) <= 2 {
		return 0, fmt.Errorf("only %d LED changes observed, need at least 3", len(samples))
	}
	if first := samples[0]; !first.red || !first.green {
		return 0, fmt.Errorf("status reply does not start with both LEDs on")
	}
	if last := samples[len(samples)-1]; last.red || last.green {
		return 0, fmt.Errorf("status reply does not end with both LEDs off")
	}

	if len(samples) == 3 {
		switch mid := samples[1]; {
		case mid.green && !mid.red:
			return Locked, nil
		case mid.red && !mid.green:
			return Unlocked, nil
		default:
			return 0, fmt.Errorf("ambiguous LED level in status reply")
		}
	}

	var result State
	switch s1 := samples[1]; {
	case !s1.red && !s1.green:
		result = Manual
	case s1.red != s1.green:
		result = OutOfRange
	default:
		return 0, fmt.Errorf("ambiguous LED level in status reply")
	}

	for i := 2; i < len(samples)-1; i++ {
		prev, cur := samples[i-1], samples[i]
		if result == Manual {
			// Synchronous blinking: every change inverts both LEDs.
			if prev.red == cur.red || prev.green == cur.green {
				return 0, fmt.Errorf("broken synchronous blink pattern")
			}
		} else {
			// Alternating blinking: exactly one LED on at a time.
			if cur.red == cur.green {
				return 0, fmt.Errorf("broken alternating blink pattern")
			}
		}
	}

	return result, nil
}
