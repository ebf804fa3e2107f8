package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatchSnapshotsOnFallingEdge(t *testing.T) {
	c := New()
	c.SetButton(Up, true)
	c.Latch(true)
	c.SetButton(Up, false) // changes after latch line raised should not matter yet
	c.Latch(false)         // falling edge: snapshot taken here

	assert.Equal(t, uint8(0), c.Read(), "B is not pressed")
}

func TestReadShiftsMSBFirst(t *testing.T) {
	c := New()
	c.SetButton(B, true)
	c.SetButton(R, true)
	c.Latch(true)
	c.Latch(false)

	var bits [16]uint8
	for i := range bits {
		bits[i] = c.Read()
	}

	assert.Equal(t, uint8(1), bits[0], "B is bit 0, read first (MSB of shift order)")
	assert.Equal(t, uint8(1), bits[11], "R is bit 11")
	assert.Equal(t, uint8(1), c.Read(), "reads past 16 return 1")
	assert.Equal(t, uint8(1), c.Read())
}

func TestResetClearsState(t *testing.T) {
	c := New()
	c.SetButton(A, true)
	c.Latch(true)
	c.Latch(false)
	c.Reset()

	assert.Equal(t, uint16(0), c.State())
	assert.Equal(t, uint8(0), c.Read(), "latched snapshot was cleared by reset")
}
