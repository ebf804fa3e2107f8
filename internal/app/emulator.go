// Package app provides emulator session management for the main
// application: frame pacing on top of the console's Core API.
package app

import (
	"time"

	"gosnes/internal/console"
)

// Emulator runs one console.RunFrame per Update call and counts frames.
// It records the region's frame duration but does not itself wait on
// wall-clock time.
type Emulator struct {
	console *console.Console
	config  *Config

	targetFrameTime time.Duration
	accumulated     time.Duration
	lastTick        time.Time

	running    bool
	frameCount uint64

	audioBuf []int16
}

// NewEmulator creates an Emulator driving console against config's region
// frame rate.
func NewEmulator(c *console.Console, config *Config) *Emulator {
	return &Emulator{
		console:         c,
		config:          config,
		targetFrameTime: frameDuration(config.Emulation.Region),
		audioBuf:        make([]int16, 2*960),
	}
}

const (
	ntscFrame = time.Second / 60
	palFrame  = time.Second / 50
)

// frameDuration returns the wall-clock duration of one console frame for
// the given region ("PAL" runs at 50Hz, anything else at NTSC's 60Hz).
func frameDuration(region string) time.Duration {
	if region == "PAL" {
		return palFrame
	}
	return ntscFrame
}

// Start resets the pacing clock and marks the emulator running.
func (e *Emulator) Start() {
	e.running = true
	e.accumulated = 0
	e.lastTick = time.Now()
}

// Stop marks the emulator as not running; Update becomes a no-op until
// Start is called again.
func (e *Emulator) Stop() {
	e.running = false
}

// IsRunning reports whether the emulator is actively advancing frames.
func (e *Emulator) IsRunning() bool {
	return e.running
}

// Update advances the console by exactly one frame per call, whatever the
// time since the last call, matching RunFrame's "one call, one frame"
// contract.
// It also drains the APU's sample ring so it never overruns; the host
// audio queue is out of scope (spec.md §1), so samples are discarded here.
func (e *Emulator) Update() error {
	if !e.running {
		return nil
	}

	e.console.RunFrame()
	e.frameCount++

	n := len(e.audioBuf) / 2
	e.console.GetSamples(e.audioBuf, n)

	return nil
}

// FrameCount returns the number of frames advanced since the emulator was
// constructed.
func (e *Emulator) FrameCount() uint64 {
	return e.frameCount
}

// SetRegion updates the target frame rate, used when a newly loaded ROM's
// header selects a different region than the previous one.
func (e *Emulator) SetRegion(region string) {
	e.targetFrameTime = frameDuration(region)
}
