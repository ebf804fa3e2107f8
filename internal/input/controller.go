// Package input implements SNES controller latch-and-shift handling.
package input

// Button identifies a single controller button by its bit position in the
// 16-bit shift register, in the hardware's shift-out order: B, Y, Select,
// Start, Up, Down, Left, Right, A, X, L, R, then the four ID bits.
type Button uint8

const (
	B Button = iota
	Y
	Select
	Start
	Up
	Down
	Left
	Right
	A
	X
	L
	R
)

// Controller models one of the two SNES controller ports: a live button
// mask, a latched snapshot taken on the latch line's falling edge, and the
// shift position consumed one bit per Read.
type Controller struct {
	currentState uint16
	latchedState uint16
	latchLine    bool
	shiftPos     uint8
}

// New creates a Controller with no buttons held.
func New() *Controller {
	return &Controller{}
}

// Reset clears all button state, matching cold-boot controller state.
func (c *Controller) Reset() {
	c.currentState = 0
	c.latchedState = 0
	c.latchLine = false
	c.shiftPos = 0
}

// SetButton updates the live (not yet latched) button mask.
func (c *Controller) SetButton(btn Button, pressed bool) {
	bit := uint16(1) << uint(btn)
	if pressed {
		c.currentState |= bit
	} else {
		c.currentState &^= bit
	}
}

// Latch drives the controller's latch line. On a 1->0 transition the live
// button state is snapshotted and the shift position resets to the start of
// the 16-bit report.
func (c *Controller) Latch(value bool) {
	if c.latchLine && !value {
		c.latchedState = c.currentState
		c.shiftPos = 0
	}
	c.latchLine = value
}

// Read shifts out one bit of the latched report: bit 0 (B) first, then each
// higher bit in turn. After 16 reads the register is exhausted and further
// reads return 1 until the next latch.
func (c *Controller) Read() uint8 {
	if c.latchLine {
		// While latched, reads keep returning the first button's state;
		// hardware re-latches continuously until the line goes low.
		c.latchedState = c.currentState
		c.shiftPos = 0
	}
	if c.shiftPos >= 16 {
		return 1
	}
	bit := (c.latchedState >> c.shiftPos) & 1
	c.shiftPos++
	return uint8(bit)
}

// State returns the raw 16-bit live button mask, used by auto-joypad read.
func (c *Controller) State() uint16 {
	return c.currentState
}
