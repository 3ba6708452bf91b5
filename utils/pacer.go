package utils

import (
	"time"
)

// Pacer inserts a fixed pause between upstream requests.
type Pacer interface {
	Wait()
}

// FixedPacer blocks the caller for Interval on every Wait.
type FixedPacer struct {
	interval time.Duration
	sleep    func(time.Duration)
}

// NewFixedPacer creates a FixedPacer sleeping for rateLimitMs milliseconds.
// Negative values are treated as zero.
func NewFixedPacer(rateLimitMs int) *FixedPacer {
	if rateLimitMs < 0 {
		rateLimitMs = 0
	}
	return &FixedPacer{
		interval: time.Duration(rateLimitMs) * time.Millisecond,
		sleep:    time.Sleep,
	}
}

// Interval returns the pause applied by Wait.
func (p *FixedPacer) Interval() time.Duration {
	return p.interval
}

// Wait pauses for the configured interval.
func (p *FixedPacer) Wait() {
	if p.interval <= 0 {
		return
	}
	p.sleep(p.interval)
}

// CountingPacer records how many times Wait was called without sleeping.
type CountingPacer struct {
	Calls int
}

func (p *CountingPacer) Wait() {
	p.Calls++
}
