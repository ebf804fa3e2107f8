package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosnes/internal/input"
)

func minimalROM(code []byte) []byte {
	data := make([]byte, 0x8000)
	h := 0x7fc0
	copy(data[h:h+21], []byte("TEST ROM             "))
	data[h+0x15] = 0x20
	data[h+0x16] = 0x00
	data[h+0x17] = 0x08
	data[h+0x18] = 0x00
	data[h+0x19] = 0x01
	checksum := uint16(0x1234)
	comp := ^checksum
	data[h+0x1c] = uint8(comp)
	data[h+0x1d] = uint8(comp >> 8)
	data[h+0x1e] = uint8(checksum)
	data[h+0x1f] = uint8(checksum >> 8)
	data[h+0x3c] = 0x00
	data[h+0x3d] = 0x80
	copy(data[0x0000:], code)
	return data
}

func TestLoadROMRejectsTooSmallImage(t *testing.T) {
	c := New()
	err := c.LoadROM(make([]byte, 100))
	assert.ErrorIs(t, err, ErrInvalidROM)
}

func TestLoadROMThenRunFrameProducesAFullPixelBuffer(t *testing.T) {
	c := New()
	require.NoError(t, c.LoadROM(minimalROM([]byte{0x80, 0xfe})))
	c.RunFrame()

	out := make([]uint8, FrameBytes)
	require.NoError(t, c.PutPixels(out))
}

func TestPutPixelsRejectsUndersizedBuffer(t *testing.T) {
	c := New()
	require.NoError(t, c.LoadROM(minimalROM([]byte{0x80, 0xfe})))
	err := c.PutPixels(make([]uint8, 10))
	assert.Error(t, err)
}

func TestSetButtonDoesNotPanicBeforeOrAfterROMLoad(t *testing.T) {
	c := New()
	c.SetButton(1, input.Up, true)
	require.NoError(t, c.LoadROM(minimalROM([]byte{0x80, 0xfe})))
	c.SetButton(1, input.Up, true)
	c.SetButton(2, input.A, false)
}

func TestSaveStateAndLoadStateRoundTrip(t *testing.T) {
	c := New()
	require.NoError(t, c.LoadROM(minimalROM([]byte{0x38, 0x80, 0xfe})))
	c.RunFrame()

	size := c.SaveState(nil)
	buf := make([]byte, size)
	c.SaveState(buf)

	require.NoError(t, c.LoadState(buf))
}

func TestLoadBatteryRejectsWrongSize(t *testing.T) {
	c := New()
	require.NoError(t, c.LoadROM(minimalROM([]byte{0x80, 0xfe})))
	err := c.LoadBattery(make([]byte, 7))
	assert.Error(t, err)
}
