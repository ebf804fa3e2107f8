package dma

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	a        [0x10000]uint8
	b        [0x100]uint8
	stolen   uint64
	writesB  []uint8
}

func newFakeBus() *fakeBus { return &fakeBus{} }

func (f *fakeBus) ReadBBus(addr uint8) uint8           { return f.b[addr] }
func (f *fakeBus) WriteBBus(addr uint8, val uint8)     { f.b[addr] = val; f.writesB = append(f.writesB, val) }
func (f *fakeBus) ReadABus(bank uint8, addr uint16) uint8 { return f.a[addr] }
func (f *fakeBus) WriteABus(bank uint8, addr uint16, val uint8) { f.a[addr] = val }
func (f *fakeBus) StealCycles(n uint64)                { f.stolen += n }

func TestGeneralDMAFillTransfersFixedByteToBBus(t *testing.T) {
	fb := newFakeBus()
	fb.a[0x0000] = 0x55
	c := New(fb)
	c.WriteRegister(0x4300, 0x08) // mode 0, fixed A-bus address, A->B
	c.WriteRegister(0x4301, 0x18) // B-bus $2118 (VRAM data low)
	c.WriteRegister(0x4302, 0x00)
	c.WriteRegister(0x4303, 0x00)
	c.WriteRegister(0x4304, 0x00)
	c.WriteRegister(0x4305, 0x00)
	c.WriteRegister(0x4306, 0x01) // count 0x100

	c.StartGeneral(0x01)

	assert.Equal(t, 0x100, len(fb.writesB))
	for _, v := range fb.writesB {
		assert.Equal(t, uint8(0x55), v)
	}
	assert.GreaterOrEqual(t, fb.stolen, uint64(8*256+8))
}

func TestGeneralDMAIncrementsABusAddressByDefault(t *testing.T) {
	fb := newFakeBus()
	fb.a[0x1000] = 0x11
	fb.a[0x1001] = 0x22
	c := New(fb)
	c.WriteRegister(0x4300, 0x00)
	c.WriteRegister(0x4301, 0x18)
	c.WriteRegister(0x4302, 0x00)
	c.WriteRegister(0x4303, 0x10)
	c.WriteRegister(0x4305, 0x02)

	c.StartGeneral(0x01)

	require.Len(t, fb.writesB, 2)
	assert.Equal(t, uint8(0x11), fb.writesB[0])
	assert.Equal(t, uint8(0x22), fb.writesB[1])
}

func TestHDMAInitLatchesLineHeaderForEnabledChannel(t *testing.T) {
	fb := newFakeBus()
	fb.a[0x2000] = 0x03 // 3 lines, no repeat
	c := New(fb)
	c.WriteRegister(0x4302, 0x00)
	c.WriteRegister(0x4303, 0x20) // table address = $2000

	c.EnableHDMA(0x01)
	c.RequestHDMAInit()
	c.RunPending()

	assert.True(t, c.Channels[0].active)
	assert.True(t, c.Channels[0].doTransfer)
	assert.Equal(t, uint8(0x03), c.Channels[0].LineCounter)
}

func TestHDMADisabledChannelNeverRuns(t *testing.T) {
	fb := newFakeBus()
	c := New(fb)
	c.EnableHDMA(0x00)
	c.RequestHDMAInit()
	c.RunPending()
	assert.False(t, c.Channels[0].active)

	c.RequestHDMARun()
	c.RunPending()
	assert.Empty(t, fb.writesB)
}

func TestZeroCountGeneralDMATransfersFullBank(t *testing.T) {
	fb := newFakeBus()
	c := New(fb)
	c.WriteRegister(0x4300, 0x08) // fixed A-bus address, mode 0
	c.WriteRegister(0x4301, 0x18)
	c.WriteRegister(0x4305, 0x00)
	c.WriteRegister(0x4306, 0x00) // count 0 means 0x10000

	c.StartGeneral(0x01)

	assert.Equal(t, 0x10000, len(fb.writesB))
}
