// Package console implements the Core API: the single-threaded boundary a
// host shell drives to load ROMs, advance frames, feed input, and persist
// state. Every exported method assumes exclusive, non-concurrent access —
// there is no internal locking, matching the engine's single-threaded
// design.
package console

import (
	"errors"

	"gosnes/internal/bus"
	"gosnes/internal/cartridge"
	"gosnes/internal/input"
)

// Error kinds surfaced at the Core API boundary.
var (
	ErrInvalidROM        = cartridge.ErrInvalidROM
	ErrIncompatibleState = bus.ErrStateMismatch
	ErrBatterySizeMismatch = bus.ErrBatterySize
)

// FrameWidth and FrameHeight are the fixed dimensions of the buffer
// PutPixels fills, matching the composited 2x2-upscaled output the PPU
// produces for both interlaced and progressive modes.
const (
	FrameWidth  = 512
	FrameHeight = 480
	FrameBytes  = FrameWidth * FrameHeight * 4
)

// Console is the top-level engine: a bus with no ROM installed until
// LoadROM succeeds.
type Console struct {
	Bus *bus.Bus
}

// New allocates and returns an engine with all components reset and no
// ROM installed, matching the Core API's init() contract.
func New() *Console {
	return &Console{Bus: bus.New()}
}

// LoadROM scores candidate header locations, selects a mapper, mirror-
// expands the image if needed, installs it, and hard-resets the console.
// It fails if the image is too small or no location scores as a
// supported mapper.
func (c *Console) LoadROM(data []byte) error {
	cart, err := cartridge.Load(data)
	if err != nil {
		return err
	}
	c.Bus.LoadROM(cart)
	return nil
}

// Reset clears component state; a hard reset also zeros WRAM.
func (c *Console) Reset(hard bool) {
	c.Bus.Reset(hard)
}

// RunFrame runs CPU opcodes until the console enters vblank of the next
// frame, then catches the APU up by the whole cycles it is owed; the bus
// carries any fractional APU cycle into the next frame. Idempotent across
// repeated invocations: each call always produces exactly one more
// rendered frame.
func (c *Console) RunFrame() {
	c.Bus.RunFrame()
}

// SetButton updates a live controller button mask. port is 1 or 2.
func (c *Console) SetButton(port int, btn input.Button, pressed bool) {
	c.Bus.SetButton(port, btn, pressed)
}

// PutPixels copies the latest composited frame into out, which must be at
// least FrameBytes long, in RGBA8888 order.
func (c *Console) PutPixels(out []uint8) error {
	if len(out) < FrameBytes {
		return errors.New("console: pixel buffer too small")
	}
	c.Bus.PutPixels(out)
	return nil
}

// GetSamples drains n stereo sample frames (2*n int16 values) from the
// APU's DSP ring buffer at 32kHz.
func (c *Console) GetSamples(out []int16, n int) {
	c.Bus.GetSamples(out, n)
}

// SaveState serializes the console's entire state into buf. Pass a nil or
// undersized buf to learn the required size without writing anything.
func (c *Console) SaveState(buf []byte) int {
	return c.Bus.SaveState(buf)
}

// LoadState verifies buf's magic/version/length/cart-type header against
// this console's current state and, on a match, restores every
// serialized field. It leaves the console untouched on mismatch.
func (c *Console) LoadState(buf []byte) error {
	return c.Bus.LoadState(buf)
}

// SaveBattery copies the cartridge's SRAM into buf, or returns the
// required size when buf is nil or too small.
func (c *Console) SaveBattery(buf []byte) int {
	return c.Bus.SaveBattery(buf)
}

// LoadBattery restores cartridge SRAM from buf, a bit-exact copy of a
// prior SaveBattery call. It fails if buf's length doesn't match the
// cartridge's configured SRAM size.
func (c *Console) LoadBattery(buf []byte) error {
	return c.Bus.LoadBattery(buf)
}
