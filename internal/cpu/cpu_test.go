package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatMemory is a simple 24-bit address space backed by a byte slice per
// bank, enough to exercise the CPU's addressing modes and interrupts
// without needing the full bus wiring.
type flatMemory struct {
	banks map[uint8]*[0x10000]uint8
	idled int
}

func newFlatMemory() *flatMemory {
	return &flatMemory{banks: make(map[uint8]*[0x10000]uint8)}
}

func (m *flatMemory) bank(b uint8) *[0x10000]uint8 {
	bk, ok := m.banks[b]
	if !ok {
		bk = &[0x10000]uint8{}
		m.banks[b] = bk
	}
	return bk
}

func (m *flatMemory) Read(bank uint8, addr uint16) uint8 {
	return m.bank(bank)[addr]
}

func (m *flatMemory) Write(bank uint8, addr uint16, val uint8) {
	m.bank(bank)[addr] = val
}

func (m *flatMemory) Idle() {
	m.idled++
}

func (m *flatMemory) loadAt(bank uint8, addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		m.Write(bank, addr+uint16(i), b)
	}
}

func newTestCPU(t *testing.T) (*CPU, *flatMemory) {
	t.Helper()
	mem := newFlatMemory()
	mem.loadAt(0, 0xfffc, 0x00, 0x80) // reset vector -> $00:8000
	c := New(mem)
	c.Reset(true)
	require.Equal(t, uint16(0x8000), c.PC)
	return c, mem
}

func TestResetEntersEmulationMode(t *testing.T) {
	c, _ := newTestCPU(t)
	assert.True(t, c.E)
	assert.True(t, c.MF)
	assert.True(t, c.XF)
	assert.True(t, c.I)
	assert.Equal(t, uint16(0x01ff), c.SP)
}

func TestLDAImmediateEmulationMode(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0x8000, 0xa9, 0x42) // LDA #$42
	c.Step()
	assert.Equal(t, uint16(0x42), c.A)
	assert.False(t, c.Z)
	assert.False(t, c.N)
}

func TestLDAImmediateSetsZeroFlag(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0x8000, 0xa9, 0x00)
	c.Step()
	assert.True(t, c.Z)
}

func TestXCEEntersNativeModeAndWidensRegisters(t *testing.T) {
	c, mem := newTestCPU(t)
	// SEC : CLC is not needed; XCE swaps C and E. Starting E=1,C=0 -> after XCE E=0,C=1.
	mem.loadAt(0, 0x8000, 0xfb) // XCE
	c.Step()
	assert.False(t, c.E)
	assert.True(t, c.C)
}

func TestREPClearsWidthFlagsInNativeMode(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0x8000, 0xfb, 0xc2, 0x30) // XCE; REP #$30
	c.Step()
	c.Step()
	assert.False(t, c.MF)
	assert.False(t, c.XF)
}

func TestSEPSetsWidthFlags(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0x8000, 0xfb, 0xc2, 0x30, 0xe2, 0x20) // native, 16-bit, then SEP M
	c.Step()
	c.Step()
	c.Step()
	assert.True(t, c.MF)
	assert.False(t, c.XF)
}

func TestADCBinaryCarryAndOverflow(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0x8000, 0xa9, 0x7f, 0x69, 0x01) // LDA #$7f ; ADC #$01
	c.Step()
	c.Step()
	assert.Equal(t, uint16(0x80), c.A)
	assert.True(t, c.V, "signed overflow: 0x7f+0x01 crosses into negative")
	assert.False(t, c.C)
}

func TestADCDecimalMode(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0x8000, 0xf8, 0xa9, 0x09, 0x69, 0x01) // SED ; LDA #$09 ; ADC #$01
	c.Step()
	c.Step()
	c.Step()
	assert.Equal(t, uint16(0x10), c.A, "9 + 1 in BCD is 10")
}

func TestStackPushPullRoundTrip(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0x8000, 0xa9, 0x37, 0x48, 0xa9, 0x00, 0x68) // LDA #$37; PHA; LDA #$00; PLA
	for i := 0; i < 4; i++ {
		c.Step()
	}
	assert.Equal(t, uint16(0x37), c.A)
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0x8000, 0x20, 0x00, 0x90) // JSR $9000
	mem.loadAt(0, 0x9000, 0x60)             // RTS
	c.Step()
	assert.Equal(t, uint16(0x9000), c.PC)
	c.Step()
	assert.Equal(t, uint16(0x8003), c.PC)
}

func TestBranchTakenAdvancesPC(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0x8000, 0xa9, 0x00, 0xf0, 0x05) // LDA #$00 ; BEQ +5
	c.Step()
	c.Step()
	assert.Equal(t, uint16(0x8009), c.PC)
}

func TestNMIPushesStatusAndJumpsToVector(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0xfffa, 0x00, 0x90) // emulation NMI vector -> $9000
	c.SetNMI(true)
	c.Step()
	assert.Equal(t, uint16(0x9000), c.PC)
	assert.False(t, c.nmiWanted)
}

func TestWAIWakesOnIRQ(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0x8000, 0xcb) // WAI
	c.I = false
	c.Step()
	assert.True(t, c.Waiting)
	c.SetIRQ(true)
	c.Step()
	assert.False(t, c.Waiting)
}

func TestBlockMoveCopiesBytesAndUpdatesRegisters(t *testing.T) {
	c, mem := newTestCPU(t)
	mem.loadAt(0, 0x8000, 0x54, 0x01, 0x00) // MVN destBank=1 srcBank=0
	mem.loadAt(0, 0x1000, 0xaa, 0xbb, 0xcc)
	c.E, c.XF = false, false // native mode, 16-bit index registers
	c.A = 2                  // move 3 bytes
	c.X = 0x1000
	c.Y = 0x2000
	c.Step()
	assert.Equal(t, uint8(0xaa), mem.Read(1, 0x2000))
	assert.Equal(t, uint8(0xcc), mem.Read(1, 0x2002))
	assert.Equal(t, uint16(0x1003), c.X)
	assert.Equal(t, uint16(0x2003), c.Y)
	assert.Equal(t, uint8(1), c.DBR)
}
