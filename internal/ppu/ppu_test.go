package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPPUStartsInForcedBlank(t *testing.T) {
	p := New()
	assert.True(t, p.forcedBlank)
	assert.Equal(t, uint8(0), p.brightness)
}

func TestVRAMWriteLowThenHighByteRoundTrips(t *testing.T) {
	p := New()
	p.Write(0x15, 0x80) // VMAIN: increment after the high byte
	p.Write(0x16, 0x00) // VMADDL
	p.Write(0x17, 0x00) // VMADDH
	p.Write(0x18, 0xcd) // VMDATAL
	p.Write(0x19, 0xab) // VMDATAH
	assert.Equal(t, uint16(0xabcd), p.VRAM[0])
}

func TestVRAMIncrementOnlyFiresOnConfiguredByte(t *testing.T) {
	p := New()
	p.Write(0x15, 0x80) // increment on high byte write, +1 word
	p.Write(0x16, 0x00)
	p.Write(0x17, 0x00)
	p.Write(0x18, 0x11) // low byte write: no increment yet
	assert.Equal(t, uint16(0x0000), p.vmAddr)
	p.Write(0x19, 0x22) // high byte write: increments
	assert.Equal(t, uint16(0x0001), p.vmAddr)
}

func TestCGRAMWriteLowThenHighByteRoundTrips(t *testing.T) {
	p := New()
	p.Write(0x21, 0x05) // CGADD
	p.Write(0x22, 0x34)
	p.Write(0x22, 0x7a)
	assert.Equal(t, uint16(0x7a34), p.CGRAM[5])
}

func TestOAMWriteRoundTrips(t *testing.T) {
	p := New()
	p.Write(0x02, 0x10)
	p.Write(0x03, 0x00)
	p.Write(0x04, 0x99) // even byte: held in the low-table buffer
	p.Write(0x04, 0x88) // odd byte: commits the buffered pair
	assert.Equal(t, uint8(0x99), p.OAM[0x10])
}

func TestBGScrollDoubleWritePacksSharedLatchByte(t *testing.T) {
	p := New()
	p.Write(0x0d, 0xff) // BG1HOFS first write: low 8 bits of latch go to bits 8-10/unused
	p.Write(0x0d, 0x03) // second write: val becomes high byte
	assert.Equal(t, uint16(0x03ff&0x1fff), p.bgHOFS[0]&0x1fff)
}

func TestMultiplyResultReadback(t *testing.T) {
	p := New()
	p.mpy = 0x123456
	assert.Equal(t, uint8(0x56), p.Read(0x34))
	assert.Equal(t, uint8(0x34), p.Read(0x35))
	assert.Equal(t, uint8(0x12), p.Read(0x36))
}

func TestCounterLatchSplitsAcrossTwoReads(t *testing.T) {
	p := New()
	p.SetCounters(400, 100)
	p.LatchCounters()
	lo := p.Read(0x3c)
	hi := p.Read(0x3c)
	assert.Equal(t, uint8(p.latchedH&0xff), lo)
	assert.Equal(t, uint8((p.latchedH>>8)&1), hi)
}

func TestHandleVblankReloadsOAMAddressFromReload(t *testing.T) {
	p := New()
	p.Write(0x02, 0x20)
	p.Write(0x03, 0x00)
	p.oamAddr = 0x0000
	p.HandleVblank()
	assert.Equal(t, uint16(0x20), p.oamAddr)
}

func TestFrameParityTogglesOnFrameStart(t *testing.T) {
	p := New()
	before := p.evenFrame
	p.HandleFrameStart()
	assert.NotEqual(t, before, p.evenFrame)
}
