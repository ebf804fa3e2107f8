package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosnes/internal/console"
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

func TestStateManagerSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	sm := NewStateManager(dir)

	c := console.New()
	require.NoError(t, c.LoadROM(minimalROM([]byte{0x80, 0xfe})))
	c.RunFrame()
	c.RunFrame()

	romPath := "/roms/test.sfc"
	require.NoError(t, sm.SaveState(c, 3, romPath))
	assert.True(t, sm.HasSaveState(3, romPath))

	fresh := console.New()
	require.NoError(t, fresh.LoadROM(minimalROM([]byte{0x80, 0xfe})))
	require.NoError(t, sm.LoadState(fresh, 3, romPath))
}

func TestStateManagerRejectsOutOfRangeSlot(t *testing.T) {
	sm := NewStateManager(t.TempDir())
	c := console.New()
	require.NoError(t, c.LoadROM(minimalROM([]byte{0x80, 0xfe})))

	assert.Error(t, sm.SaveState(c, -1, "/roms/test.sfc"))
	assert.Error(t, sm.SaveState(c, sm.MaxSlots(), "/roms/test.sfc"))
}

func TestStateManagerLoadRejectsMismatchedROM(t *testing.T) {
	dir := t.TempDir()
	sm := NewStateManager(dir)
	c := console.New()
	require.NoError(t, c.LoadROM(minimalROM([]byte{0x80, 0xfe})))
	require.NoError(t, sm.SaveState(c, 0, "/roms/a.sfc"))

	err := sm.LoadState(c, 0, "/roms/b.sfc")
	assert.Error(t, err)
}

func TestStateManagerLoadMissingSlotFails(t *testing.T) {
	sm := NewStateManager(t.TempDir())
	c := console.New()
	require.NoError(t, c.LoadROM(minimalROM([]byte{0x80, 0xfe})))

	assert.Error(t, sm.LoadState(c, 5, "/roms/test.sfc"))
}

func TestStateManagerSlotInfoReportsUsedSlots(t *testing.T) {
	dir := t.TempDir()
	sm := NewStateManager(dir)
	c := console.New()
	require.NoError(t, c.LoadROM(minimalROM([]byte{0x80, 0xfe})))
	require.NoError(t, sm.SaveState(c, 2, "/roms/test.sfc"))

	slots := sm.SlotInfo("/roms/test.sfc")
	require.Len(t, slots, sm.MaxSlots())
	assert.True(t, slots[2].Used)
	assert.False(t, slots[0].Used)
}

func TestStateManagerDeleteState(t *testing.T) {
	dir := t.TempDir()
	sm := NewStateManager(dir)
	c := console.New()
	require.NoError(t, c.LoadROM(minimalROM([]byte{0x80, 0xfe})))
	require.NoError(t, sm.SaveState(c, 1, "/roms/test.sfc"))

	require.NoError(t, sm.DeleteState(1, "/roms/test.sfc"))
	assert.False(t, sm.HasSaveState(1, "/roms/test.sfc"))
}

func TestSlotFilePathIsStableAcrossROMExtensions(t *testing.T) {
	sm := NewStateManager(t.TempDir())
	p1 := sm.slotFilePath(0, "/roms/mygame.sfc")
	p2 := sm.slotFilePath(0, "/other/mygame.smc")
	assert.Equal(t, filepath.Base(p1), filepath.Base(p2))
}
