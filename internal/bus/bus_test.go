package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosnes/internal/cartridge"
)

// minimalROM builds a tiny LoROM image whose reset vector points at a
// short, deterministic opcode stream so tests can run a known number of
// CPU steps and assert on exact cycle counts / register state.
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

func loadedBus(t *testing.T, code []byte) *Bus {
	t.Helper()
	cart, err := cartridge.Load(minimalROM(code))
	require.NoError(t, err)
	b := New()
	b.LoadROM(cart)
	return b
}

func TestResetVectorBootsCPUAtCartridgeEntryPoint(t *testing.T) {
	b := loadedBus(t, []byte{0x38, 0x80, 0xfe}) // SEC ; BRA -2 (spins in place)
	assert.Equal(t, uint16(0x8000), b.CPU.PC)

	b.CPU.Step() // SEC
	assert.True(t, b.CPU.C)
}

func TestHVPositionReachesOriginAndStaysInRange(t *testing.T) {
	b := loadedBus(t, []byte{0x80, 0xfe}) // BRA -2: infinite loop
	seenZero := 0
	for i := 0; i < 400000 && seenZero < 2; i++ {
		b.CPU.Step()
		if b.hPos == 0 && b.vPos == 0 {
			seenZero++
		}
	}
	assert.GreaterOrEqual(t, seenZero, 1)
	assert.True(t, b.hPos < 1368)
	assert.True(t, b.vPos <= 312)
}

func TestRunFrameWithNMIEnabledStopsInVblank(t *testing.T) {
	b := loadedBus(t, []byte{0x80, 0xfe})
	b.writeInternalReg(0x4200, 0x80) // enable NMI
	b.RunFrame()
	assert.True(t, b.inVblank)
}

func TestWRAMReadWriteRoundTrips(t *testing.T) {
	b := loadedBus(t, []byte{0x80, 0xfe})
	b.write(0x00, 0x0100, 0x42)
	assert.Equal(t, uint8(0x42), b.read(0x00, 0x0100))
	b.write(0x7e, 0x1234, 0x99)
	assert.Equal(t, uint8(0x99), b.read(0x7e, 0x1234))
}

func TestMultiplyRegisterComputesProduct(t *testing.T) {
	b := loadedBus(t, []byte{0x80, 0xfe})
	b.writeInternalReg(0x4202, 12)
	b.writeInternalReg(0x4203, 10)
	assert.Equal(t, uint16(120), b.multiplyResult)
}

func TestDivideByZeroYieldsDocumentedQuotientAndRemainder(t *testing.T) {
	b := loadedBus(t, []byte{0x80, 0xfe})
	b.writeInternalReg(0x4204, 0x34)
	b.writeInternalReg(0x4205, 0x12)
	b.writeInternalReg(0x4206, 0)
	assert.Equal(t, uint16(0xffff), b.divideResult)
	assert.Equal(t, uint16(0x1234), b.multiplyResult)
}

func TestSaveStateLoadStateRoundTripsByteForByte(t *testing.T) {
	b := loadedBus(t, []byte{0x38, 0x80, 0xfe})
	for i := 0; i < 1000; i++ {
		b.CPU.Step()
	}
	size := b.SaveState(nil)
	buf := make([]byte, size)
	b.SaveState(buf)

	b2 := loadedBus(t, []byte{0x38, 0x80, 0xfe})
	require.NoError(t, b2.LoadState(buf))

	buf2 := make([]byte, size)
	b2.SaveState(buf2)
	assert.Equal(t, buf, buf2)
}

func TestLoadStateRejectsMismatchedMagic(t *testing.T) {
	b := loadedBus(t, []byte{0x80, 0xfe})
	bad := []byte("not a save state at all")
	assert.ErrorIs(t, b.LoadState(bad), ErrStateMismatch)
}
