// Package search holds the debounced search state machine: raw keystrokes go
// in, a quiesced query comes out.
package search

import (
	"sync"
	"time"
)

// State of the debouncer.
type State string

const (
	StateIdle    State = "idle"
	StateTyping  State = "typing"
	StateSettled State = "settled"
)

// DefaultDelay is the quiescence window before a value is published.
const DefaultDelay = 500 * time.Millisecond

// Debouncer publishes the raw input only after it has been quiet for the
// full delay, or immediately on Clear. A published value is therefore always
// either a fully quiesced query or the cleared empty string, never an
// intermediate keystroke.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	state State
	raw   string
	timer *time.Timer
	seq   uint64

	settled chan string
}

func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{
		delay:   delay,
		state:   StateIdle,
		settled: make(chan string, 1),
	}
}

// Input records a keystroke: the state re-enters Typing and the quiescence
// timer restarts from zero.
func (d *Debouncer) Input(value string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.raw = value
	d.state = StateTyping
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.settle(seq)
	})
}

// Clear cancels any pending timer and publishes the empty value immediately.
func (d *Debouncer) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.raw = ""
	d.state = StateSettled
	d.publishLocked("")
}

// Stop releases the pending timer without publishing.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Settled delivers published values. The channel holds only the latest
// value; a consumer that went away simply misses it.
func (d *Debouncer) Settled() <-chan string {
	return d.settled
}

// Value returns the raw (not yet debounced) input.
func (d *Debouncer) Value() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raw
}

// State returns the current machine state.
func (d *Debouncer) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// settle fires from the timer. A stale sequence means another keystroke or a
// Clear won the race; the fire is discarded.
func (d *Debouncer) settle(seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq {
		return
	}
	d.state = StateSettled
	d.publishLocked(d.raw)
}

// publishLocked replaces whatever the channel holds with the latest value
// so publishes never block.
func (d *Debouncer) publishLocked(value string) {
	select {
	case d.settled <- value:
	default:
		select {
		case <-d.settled:
		default:
		}
		select {
		case d.settled <- value:
		default:
		}
	}
}
