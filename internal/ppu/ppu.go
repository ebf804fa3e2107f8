// Package ppu implements the picture processing unit: VRAM/CGRAM/OAM
// storage, the full $2100-$213F register surface, and the per-scanline
// compositor that turns background/OBJ layers into the 512x480 output
// frame.
package ppu

// PPU owns video RAM, palette RAM, sprite memory, and the register shadows
// the main CPU pokes through the B-bus ($2100-$213F).
type PPU struct {
	VRAM  [0x8000]uint16 // 64KiB, word-addressed
	CGRAM [0x100]uint16  // 512 bytes, 256 BGR555 colors
	OAM   [0x220]uint8   // 512-byte low table + 32-byte high table

	// INIDISP $2100
	brightness  uint8
	forcedBlank bool

	// OBSEL $2101
	objSize     uint8
	objNameBase uint16
	objNameGap  uint16

	// OAMADD $2102/$2103
	oamAddr       uint16
	oamAddrReload uint16
	oamPriority   bool
	oamLowBuffer  uint8

	// BGMODE $2105
	bgMode      uint8
	bg3Priority bool

	// MOSAIC $2106
	mosaicSize    uint8
	mosaicEnable  [4]bool

	bgSC  [4]uint8 // BG1SC-BG4SC
	bgNBA [2]uint8 // BG12NBA, BG34NBA

	bgHOFS    [4]uint16
	bgVOFS    [4]uint16
	bgOfsLast uint8 // shared previous-byte latch for BG scroll double-writes

	// VMAIN/VMADD/VMDATA
	vmIncAmount uint16
	vmIncOnHigh bool
	vmRemap     uint8
	vmAddr      uint16
	vmPrefetch  uint16

	// Mode 7 matrix
	m7Sel    uint8
	m7A, m7B, m7C, m7D int16
	m7X, m7Y int16
	m7Last   uint8

	// CGRAM access
	cgAddr  uint8
	cgHigh  bool
	cgLatch uint8

	// Windows
	w12sel, w34sel, wobjsel uint8
	wh                      [4]uint8
	wbglog, wobjlog         uint8

	tm, ts, tmw, tsw uint8

	cgwsel, cgadsub          uint8
	coldataR, coldataG, coldataB uint8

	setini       uint8
	overscan     bool
	interlace    bool
	objInterlace bool

	mpy uint32 // 24-bit mode7 multiply result

	curH, curV      uint16
	latchedH        uint16
	latchedV        uint16
	counterFlip     bool

	evenFrame      bool
	frameInterlace bool

	timeOver, rangeOver bool

	openBus uint8

	frame [512 * 480 * 4]uint8
}

// New creates a PPU with cleared memories and registers at power-on state.
func New() *PPU {
	p := &PPU{}
	p.Reset(true)
	return p
}

// Reset restores power-on register state. VRAM/CGRAM/OAM contents are left
// untouched by a soft reset and cleared on hard.
func (p *PPU) Reset(hard bool) {
	if hard {
		p.VRAM = [0x8000]uint16{}
		p.CGRAM = [0x100]uint16{}
		p.OAM = [0x220]uint8{}
		p.frame = [512 * 480 * 4]uint8{}
	}
	p.brightness = 0
	p.forcedBlank = true
	p.objSize, p.objNameBase, p.objNameGap = 0, 0, 0
	p.oamAddr, p.oamAddrReload, p.oamPriority = 0, 0, false
	p.bgMode, p.bg3Priority = 0, false
	p.mosaicSize = 0
	p.mosaicEnable = [4]bool{}
	p.bgSC = [4]uint8{}
	p.bgNBA = [2]uint8{}
	p.bgHOFS = [4]uint16{}
	p.bgVOFS = [4]uint16{}
	p.bgOfsLast = 0
	p.vmIncAmount = 1
	p.vmIncOnHigh = false
	p.vmRemap = 0
	p.vmAddr = 0
	p.m7Sel = 0
	p.m7A, p.m7B, p.m7C, p.m7D = 0, 0, 0, 0
	p.m7X, p.m7Y = 0, 0
	p.cgAddr, p.cgHigh = 0, false
	p.w12sel, p.w34sel, p.wobjsel = 0, 0, 0
	p.wh = [4]uint8{}
	p.wbglog, p.wobjlog = 0, 0
	p.tm, p.ts, p.tmw, p.tsw = 0, 0, 0, 0
	p.cgwsel, p.cgadsub = 0, 0
	p.coldataR, p.coldataG, p.coldataB = 0, 0, 0
	p.setini = 0
	p.overscan, p.interlace, p.objInterlace = false, false, false
	p.mpy = 0
	p.evenFrame, p.frameInterlace = false, false
	p.timeOver, p.rangeOver = false, false
}

// SetCounters records the bus's current H/V master-cycle position so a
// later SLHV write latches the right values.
func (p *PPU) SetCounters(h, v uint16) {
	p.curH, p.curV = h, v
}

// LatchCounters snapshots the current H/V position into OPHCT/OPVCT,
// triggered either by a write to $2137 or by disabling the external latch
// via $4201.
func (p *PPU) LatchCounters() {
	p.latchedH = p.curH / 4
	p.latchedV = p.curV
	p.counterFlip = false
}

// EvenFrame reports the current frame's parity, consulted by the bus to
// pick the NTSC/PAL line-length variant.
func (p *PPU) EvenFrame() bool { return p.evenFrame }

// FrameInterlace reports whether SETINI's interlace bit is set.
func (p *PPU) FrameInterlace() bool { return p.frameInterlace }

// CheckOverscan reports whether SETINI's overscan bit selects 240 visible
// lines (225-239) instead of ending vblank at line 225.
func (p *PPU) CheckOverscan() bool { return p.overscan }

// HandleFrameStart toggles frame parity and latches the interlace mode for
// the coming frame, called by the bus when vblank ends (H=0, V=0).
func (p *PPU) HandleFrameStart() {
	p.evenFrame = !p.evenFrame
	p.frameInterlace = p.setini&0x01 != 0
}

// HandleVblank reloads the OAM address from its configured reload value,
// matching hardware's re-latch of OAMADD at the start of vblank.
func (p *PPU) HandleVblank() {
	p.oamAddr = p.oamAddrReload
}

// FrameBuffer returns the 512x480 RGBA8888 output buffer.
func (p *PPU) FrameBuffer() []uint8 {
	return p.frame[:]
}

func vramRemap(addr uint16, mode uint8) uint16 {
	switch mode {
	case 1:
		return (addr & 0xff00) | ((addr & 0x1f) << 3) | ((addr >> 5) & 0x07)
	case 2:
		return (addr & 0xfe00) | ((addr & 0x3f) << 3) | ((addr >> 6) & 0x07)
	case 3:
		return (addr & 0xfc00) | ((addr & 0x7f) << 3) | ((addr >> 7) & 0x07)
	default:
		return addr
	}
}

func (p *PPU) vramAddr() uint16 {
	return vramRemap(p.vmAddr, p.vmRemap) & 0x7fff
}

func (p *PPU) vramIncIfNeeded(high bool) {
	if high == p.vmIncOnHigh {
		p.vmAddr += p.vmIncAmount
	}
}

// Read handles a CPU read from the B-bus PPU window ($2100-$213F), keyed by
// the low byte of the address (0x00-0x3f).
func (p *PPU) Read(addr uint8) uint8 {
	switch addr {
	case 0x34:
		return uint8(p.mpy)
	case 0x35:
		return uint8(p.mpy >> 8)
	case 0x36:
		return uint8(p.mpy >> 16)
	case 0x37:
		p.LatchCounters()
		return p.openBus
	case 0x38:
		val := p.OAM[p.oamAddr&0x3ff]
		p.oamAddr = (p.oamAddr + 1) & 0x3ff
		return val
	case 0x39:
		word := p.VRAM[p.vramAddr()]
		ret := uint8(p.vmPrefetch)
		p.vmPrefetch = p.VRAM[p.vramAddr()]
		_ = word
		p.vramIncIfNeeded(false)
		return ret
	case 0x3a:
		ret := uint8(p.vmPrefetch >> 8)
		p.vramIncIfNeeded(true)
		return ret
	case 0x3b:
		var val uint8
		color := p.CGRAM[p.cgAddr]
		if p.cgHigh {
			val = uint8(color >> 8)
			p.cgAddr++
		} else {
			val = uint8(color)
		}
		p.cgHigh = !p.cgHigh
		return val
	case 0x3c:
		var val uint16
		if p.counterFlip {
			val = (p.latchedH >> 8) & 1
		} else {
			val = p.latchedH & 0xff
		}
		p.counterFlip = !p.counterFlip
		return uint8(val)
	case 0x3d:
		var val uint16
		if p.counterFlip {
			val = (p.latchedV >> 8) & 1
		} else {
			val = p.latchedV & 0xff
		}
		p.counterFlip = !p.counterFlip
		return uint8(val)
	case 0x3e:
		val := uint8(0x01) // PPU1 version (4 bit), low nibble
		if p.timeOver {
			val |= 0x80
		}
		if p.rangeOver {
			val |= 0x40
		}
		return val
	case 0x3f:
		p.counterFlip = false
		val := uint8(0x02) // PPU2 version (4 bit)
		if p.evenFrame {
			val |= 0x80
		}
		return val
	default:
		return p.openBus
	}
}

// Write handles a CPU write into the B-bus PPU window.
func (p *PPU) Write(addr uint8, val uint8) {
	p.openBus = val
	switch addr {
	case 0x00:
		p.brightness = val & 0x0f
		p.forcedBlank = val&0x80 != 0
	case 0x01:
		p.objSize = (val >> 5) & 0x07
		p.objNameBase = uint16(val&0x07) << 13
		p.objNameGap = uint16((val>>3)&0x03) << 12
	case 0x02:
		p.oamAddr = (p.oamAddr & 0x100) | uint16(val)
		p.oamAddrReload = p.oamAddr
	case 0x03:
		p.oamAddr = (p.oamAddr & 0x0ff) | (uint16(val&0x01) << 8)
		p.oamPriority = val&0x80 != 0
		p.oamAddrReload = p.oamAddr
	case 0x04:
		p.writeOAMData(val)
	case 0x05:
		p.bgMode = val & 0x07
		p.bg3Priority = val&0x08 != 0
	case 0x06:
		p.mosaicSize = val >> 4
		for i := 0; i < 4; i++ {
			p.mosaicEnable[i] = val&(1<<uint(i)) != 0
		}
	case 0x07, 0x08, 0x09, 0x0a:
		p.bgSC[addr-0x07] = val
	case 0x0b:
		p.bgNBA[0] = val
	case 0x0c:
		p.bgNBA[1] = val
	case 0x0d, 0x0f, 0x11, 0x13:
		i := (addr - 0x0d) / 2
		old := p.bgHOFS[i]
		p.bgHOFS[i] = (uint16(val) << 8) | uint16(p.bgOfsLast&0xf8) | ((old >> 8) & 0x07)
		p.bgOfsLast = val
	case 0x0e, 0x10, 0x12, 0x14:
		i := (addr - 0x0e) / 2
		p.bgVOFS[i] = (uint16(val) << 8) | uint16(p.bgOfsLast)
		p.bgOfsLast = val
	case 0x15:
		p.vmIncOnHigh = val&0x80 != 0
		p.vmRemap = (val >> 2) & 0x03
		switch val & 0x03 {
		case 0:
			p.vmIncAmount = 1
		case 1:
			p.vmIncAmount = 32
		default:
			p.vmIncAmount = 128
		}
	case 0x16:
		p.vmAddr = (p.vmAddr & 0xff00) | uint16(val)
		p.vmPrefetch = p.VRAM[p.vramAddr()]
	case 0x17:
		p.vmAddr = (p.vmAddr & 0x00ff) | uint16(val)<<8
		p.vmPrefetch = p.VRAM[p.vramAddr()]
	case 0x18:
		a := p.vramAddr()
		p.VRAM[a] = (p.VRAM[a] & 0xff00) | uint16(val)
		p.vramIncIfNeeded(false)
	case 0x19:
		a := p.vramAddr()
		p.VRAM[a] = (p.VRAM[a] & 0x00ff) | uint16(val)<<8
		p.vramIncIfNeeded(true)
	case 0x1a:
		p.m7Sel = val
	case 0x1b:
		p.m7A = int16(uint16(val)<<8 | uint16(p.m7Last))
		p.m7Last = val
	case 0x1c:
		p.m7B = int16(uint16(val)<<8 | uint16(p.m7Last))
		p.m7Last = val
	case 0x1d:
		p.m7C = int16(uint16(val)<<8 | uint16(p.m7Last))
		p.m7Last = val
	case 0x1e:
		p.m7D = int16(uint16(val)<<8 | uint16(p.m7Last))
		p.m7Last = val
	case 0x1f:
		p.m7X = signExtend13(uint16(val)<<8 | uint16(p.m7Last))
		p.m7Last = val
	case 0x20:
		p.m7Y = signExtend13(uint16(val)<<8 | uint16(p.m7Last))
		p.m7Last = val
	case 0x21:
		p.cgAddr = val
		p.cgHigh = false
	case 0x22:
		p.writeCGData(val)
	case 0x23:
		p.w12sel = val
	case 0x24:
		p.w34sel = val
	case 0x25:
		p.wobjsel = val
	case 0x26, 0x27, 0x28, 0x29:
		p.wh[addr-0x26] = val
	case 0x2a:
		p.wbglog = val
	case 0x2b:
		p.wobjlog = val
	case 0x2c:
		p.tm = val
	case 0x2d:
		p.ts = val
	case 0x2e:
		p.tmw = val
	case 0x2f:
		p.tsw = val
	case 0x30:
		p.cgwsel = val
	case 0x31:
		p.cgadsub = val
	case 0x32:
		if val&0x80 != 0 {
			p.coldataB = val & 0x1f
		}
		if val&0x40 != 0 {
			p.coldataG = val & 0x1f
		}
		if val&0x20 != 0 {
			p.coldataR = val & 0x1f
		}
	case 0x33:
		p.setini = val
		p.overscan = val&0x04 != 0
	case 0x37:
		p.LatchCounters()
	}
}

func signExtend13(v uint16) int16 {
	v &= 0x1fff
	if v&0x1000 != 0 {
		return int16(v | 0xe000)
	}
	return int16(v)
}

func (p *PPU) writeOAMData(val uint8) {
	addr := p.oamAddr
	if addr < 0x200 {
		if addr&1 == 0 {
			p.oamLowBuffer = val
		} else {
			p.OAM[addr-1] = p.oamLowBuffer
			p.OAM[addr] = val
		}
	} else {
		p.OAM[0x200+(addr&0x1f)] = val
	}
	p.oamAddr = (p.oamAddr + 1) & 0x3ff
}

func (p *PPU) writeCGData(val uint8) {
	color := p.CGRAM[p.cgAddr]
	if p.cgHigh {
		color = (color & 0x00ff) | (uint16(val&0x7f) << 8)
		p.CGRAM[p.cgAddr] = color
		p.cgAddr++
	} else {
		color = (color & 0xff00) | uint16(val)
		p.CGRAM[p.cgAddr] = color
	}
	p.cgHigh = !p.cgHigh
}
