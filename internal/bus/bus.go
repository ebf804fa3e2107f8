// Package bus implements the master clock and system bus: address decode,
// B-bus register dispatch, H/V position sequencing, IRQ/NMI edge detection,
// and the fractional APU-catchup scheduler that ties the CPU, APU, DMA
// controller, PPU, cartridge, and controllers into one console.
package bus

import (
	"gosnes/internal/apu"
	"gosnes/internal/cartridge"
	"gosnes/internal/cpu"
	"gosnes/internal/dma"
	"gosnes/internal/input"
	"gosnes/internal/ppu"
)

const (
	apuRatioNumNTSC = 32040 * 32
	apuRatioDenNTSC = 1364 * 262 * 60
	apuRatioNumPAL  = 32040 * 32
	apuRatioDenPAL  = 1364 * 312 * 50
)

// Bus wires together every console component and drives the master clock
// that sequences them. It is the sole owner of the CPU, APU, DMA
// controller, PPU, cartridge, and controllers; each of those holds only a
// non-owning reference back to the Bus where it needs one (cartridge
// open-bus reads, CPU/DMA memory access).
type Bus struct {
	CPU      *cpu.CPU
	APU      *apu.APU
	DMA      *dma.Controller
	PPU      *ppu.PPU
	Cart     *cartridge.Cartridge
	Input1   *input.Controller
	Input2   *input.Controller

	ram    [0x20000]uint8 // 128KiB WRAM, banks $7E-$7F
	ramAdr uint32          // 17-bit $2180-$2183 auto-increment pointer

	hPos, vPos int
	cycles     uint64
	frames     uint32
	syncCycle  uint64

	apuCatchupCycles float64
	palTiming        bool

	hIrqEnabled, vIrqEnabled, nmiEnabled bool
	hTimer, vTimer                       uint16
	inNmi, irqCondition, inIrq, inVblank bool

	portAutoRead [4]uint16
	autoJoyRead  bool
	autoJoyTimer uint16

	ppuLatch bool

	multiplyA      uint8
	multiplyResult uint16
	divideA        uint16
	divideResult   uint16

	fastMem bool
	openBus uint8
}

// New creates a Bus with every component freshly constructed and wired,
// but no cartridge installed.
func New() *Bus {
	b := &Bus{
		Cart:   cartridge.New(),
		Input1: input.New(),
		Input2: input.New(),
	}
	b.APU = apu.New()
	b.PPU = ppu.New()
	b.DMA = dma.New(b)
	b.CPU = cpu.New(b)
	b.Cart.AttachBus(b)
	b.Reset(true)
	return b
}

// LoadROM installs cart as the active cartridge and hard-resets the
// console, matching real hardware's power-on-with-cartridge-inserted
// behavior.
func (b *Bus) LoadROM(cart *cartridge.Cartridge) {
	b.Cart = cart
	b.Cart.AttachBus(b)
	b.palTiming = cart.PAL
	b.Reset(true)
}

// Reset restores the bus, CPU, APU, DMA engine, PPU, and controllers to
// power-on state. A hard reset also zeros WRAM; a soft reset leaves WRAM
// and cartridge SRAM untouched.
func (b *Bus) Reset(hard bool) {
	if hard {
		b.ram = [0x20000]uint8{}
	}
	b.ramAdr = 0
	b.hPos, b.vPos = 0, 0
	b.cycles, b.frames, b.syncCycle = 0, 0, 0
	b.apuCatchupCycles = 0
	b.hIrqEnabled, b.vIrqEnabled, b.nmiEnabled = false, false, false
	b.hTimer, b.vTimer = 0x1ff, 0x1ff
	b.inNmi, b.irqCondition, b.inIrq, b.inVblank = false, false, false, false
	b.portAutoRead = [4]uint16{}
	b.autoJoyRead, b.autoJoyTimer = false, 0
	b.ppuLatch = false
	b.multiplyA, b.multiplyResult = 0xff, 0xfe01
	b.divideA, b.divideResult = 0xffff, 0x101
	b.fastMem = false
	b.openBus = 0

	b.CPU.Reset(hard)
	b.APU.Reset(hard)
	b.DMA.Reset()
	b.PPU.Reset(hard)
	b.Input1.Reset()
	b.Input2.Reset()
}

// OpenBus implements cartridge.OpenBusSource.
func (b *Bus) OpenBus() uint8 {
	return b.openBus
}

// RunFrame runs CPU opcodes until the console leaves the current vblank and
// then enters the next one, draining the APU's catchup debt once it
// returns. Matches LakeSNES's snes_runFrame: first exhaust any vblank
// already in progress, then run until the next one starts.
func (b *Bus) RunFrame() {
	for b.inVblank {
		b.CPU.Step()
	}
	frame := b.frames
	for !b.inVblank && frame == b.frames {
		b.CPU.Step()
	}
	b.catchUpAPU()
}

func (b *Bus) catchUpAPU() {
	b.APU.CatchUp(uint64(b.apuCatchupCycles))
	b.apuCatchupCycles -= float64(uint64(b.apuCatchupCycles))
}

// SetButton updates a controller's live button mask. port is 1 or 2.
func (b *Bus) SetButton(port int, btn input.Button, pressed bool) {
	if port == 1 {
		b.Input1.SetButton(btn, pressed)
	} else {
		b.Input2.SetButton(btn, pressed)
	}
}

// PutPixels copies the PPU's 512x480 RGBA8888 frame buffer into out.
func (b *Bus) PutPixels(out []uint8) {
	copy(out, b.PPU.FrameBuffer())
}

// GetSamples drains n stereo sample frames from the APU.
func (b *Bus) GetSamples(out []int16, n int) {
	b.APU.GetSamples(out, n)
}

// --- cpu.MemoryInterface ---

func (b *Bus) accessTime(bank uint8, addr uint16) uint64 {
	if (bank < 0x40 || (bank >= 0x80 && bank < 0xc0)) && addr < 0x8000 {
		if addr < 0x2000 || addr >= 0x6000 {
			return 8
		}
		if addr < 0x4000 || addr >= 0x4200 {
			return 6
		}
		return 12
	}
	if b.fastMem && bank >= 0x80 {
		return 6
	}
	return 8
}

// Read implements cpu.MemoryInterface: meter DMA/clock advance, then
// perform the access.
func (b *Bus) Read(bank uint8, addr uint16) uint8 {
	cycles := b.accessTime(bank, addr)
	b.DMA.RunPending()
	b.runCycles(cycles)
	val := b.read(bank, addr)
	b.openBus = val
	return val
}

// Write implements cpu.MemoryInterface.
func (b *Bus) Write(bank uint8, addr uint16, val uint8) {
	cycles := b.accessTime(bank, addr)
	b.DMA.RunPending()
	b.runCycles(cycles)
	b.openBus = val
	b.write(bank, addr, val)
}

// Idle implements cpu.MemoryInterface: 6 master cycles with no bus access,
// still subject to DMA stealing and clock advance.
func (b *Bus) Idle() {
	b.DMA.RunPending()
	b.runCycles(6)
}

func (b *Bus) read(bank uint8, addr uint16) uint8 {
	if bank == 0x7e || bank == 0x7f {
		return b.ram[(uint32(bank&1)<<16)|uint32(addr)]
	}
	if bank < 0x40 || (bank >= 0x80 && bank < 0xc0) {
		switch {
		case addr < 0x2000:
			return b.ram[addr]
		case addr >= 0x2100 && addr < 0x2200:
			return b.readBBus(uint8(addr))
		case addr == 0x4016:
			return b.Input1.Read() | (b.openBus & 0xfc)
		case addr == 0x4017:
			return b.Input2.Read() | (b.openBus & 0xe0) | 0x1c
		case addr >= 0x4200 && addr < 0x4220:
			return b.readInternalReg(addr)
		case addr >= 0x4300 && addr < 0x4380:
			return b.DMA.ReadRegister(addr)
		}
	}
	return b.Cart.Read(bank, addr)
}

func (b *Bus) write(bank uint8, addr uint16, val uint8) {
	if bank == 0x7e || bank == 0x7f {
		b.ram[(uint32(bank&1)<<16)|uint32(addr)] = val
		return
	}
	if bank < 0x40 || (bank >= 0x80 && bank < 0xc0) {
		switch {
		case addr < 0x2000:
			b.ram[addr] = val
			return
		case addr >= 0x2100 && addr < 0x2200:
			b.writeBBus(uint8(addr), val)
			return
		case addr == 0x4016:
			b.Input1.Latch(val&1 != 0)
			b.Input2.Latch(val&1 != 0)
			return
		case addr >= 0x4200 && addr < 0x4220:
			b.writeInternalReg(addr, val)
			return
		case addr >= 0x4300 && addr < 0x4380:
			b.DMA.WriteRegister(addr, val)
			return
		}
	}
	b.Cart.Write(bank, addr, val)
}

func (b *Bus) readBBus(adr uint8) uint8 {
	switch {
	case adr < 0x40:
		return b.PPU.Read(adr)
	case adr < 0x80:
		b.catchUpAPU()
		return b.APU.ReadPort(int(adr & 0x03))
	case adr == 0x80:
		ret := b.ram[b.ramAdr]
		b.ramAdr = (b.ramAdr + 1) & 0x1ffff
		return ret
	default:
		return b.openBus
	}
}

func (b *Bus) writeBBus(adr uint8, val uint8) {
	switch {
	case adr < 0x40:
		b.PPU.Write(adr, val)
	case adr < 0x80:
		b.catchUpAPU()
		b.APU.WritePort(int(adr&0x03), val)
	case adr == 0x80:
		b.ram[b.ramAdr] = val
		b.ramAdr = (b.ramAdr + 1) & 0x1ffff
	case adr == 0x81:
		b.ramAdr = (b.ramAdr & 0x1ff00) | uint32(val)
	case adr == 0x82:
		b.ramAdr = (b.ramAdr & 0x100ff) | uint32(val)<<8
	case adr == 0x83:
		b.ramAdr = (b.ramAdr & 0x0ffff) | uint32(val&1)<<16
	}
}

func (b *Bus) readInternalReg(adr uint16) uint8 {
	switch adr {
	case 0x4210:
		val := uint8(0x02) // CPU version
		if b.inNmi {
			val |= 0x80
		}
		b.inNmi = false
		return val | (b.openBus & 0x70)
	case 0x4211:
		var val uint8
		if b.inIrq {
			val = 0x80
		}
		b.inIrq = false
		b.CPU.SetIRQ(false)
		return val | (b.openBus & 0x7f)
	case 0x4212:
		var val uint8
		if b.autoJoyTimer > 0 {
			val |= 0x01
		}
		if b.hPos < 4 || b.hPos >= 1096 {
			val |= 0x40
		}
		if b.inVblank {
			val |= 0x80
		}
		return val | (b.openBus & 0x3e)
	case 0x4213:
		var val uint8
		if b.ppuLatch {
			val = 0x80
		}
		return val
	case 0x4214:
		return uint8(b.divideResult)
	case 0x4215:
		return uint8(b.divideResult >> 8)
	case 0x4216:
		return uint8(b.multiplyResult)
	case 0x4217:
		return uint8(b.multiplyResult >> 8)
	case 0x4218, 0x421a, 0x421c, 0x421e:
		return uint8(b.portAutoRead[(adr-0x4218)/2])
	case 0x4219, 0x421b, 0x421d, 0x421f:
		return uint8(b.portAutoRead[(adr-0x4219)/2] >> 8)
	default:
		return b.openBus
	}
}

func (b *Bus) writeInternalReg(adr uint16, val uint8) {
	switch adr {
	case 0x4200:
		b.autoJoyRead = val&0x01 != 0
		if !b.autoJoyRead {
			b.autoJoyTimer = 0
		}
		b.hIrqEnabled = val&0x10 != 0
		b.vIrqEnabled = val&0x20 != 0
		if !b.hIrqEnabled && !b.vIrqEnabled {
			b.inIrq = false
			b.CPU.SetIRQ(false)
		}
		if !b.nmiEnabled && val&0x80 != 0 && b.inNmi {
			b.CPU.SetNMI(true)
		}
		b.nmiEnabled = val&0x80 != 0
	case 0x4201:
		if val&0x80 == 0 && b.ppuLatch {
			b.PPU.LatchCounters()
		}
		b.ppuLatch = val&0x80 != 0
	case 0x4202:
		b.multiplyA = val
	case 0x4203:
		b.multiplyResult = uint16(b.multiplyA) * uint16(val)
	case 0x4204:
		b.divideA = (b.divideA & 0xff00) | uint16(val)
	case 0x4205:
		b.divideA = (b.divideA & 0x00ff) | uint16(val)<<8
	case 0x4206:
		if val == 0 {
			b.divideResult = 0xffff
			b.multiplyResult = b.divideA
		} else {
			b.divideResult = b.divideA / uint16(val)
			b.multiplyResult = b.divideA % uint16(val)
		}
	case 0x4207:
		b.hTimer = (b.hTimer & 0x100) | uint16(val)
	case 0x4208:
		b.hTimer = (b.hTimer & 0x0ff) | uint16(val&1)<<8
	case 0x4209:
		b.vTimer = (b.vTimer & 0x100) | uint16(val)
	case 0x420a:
		b.vTimer = (b.vTimer & 0x0ff) | uint16(val&1)<<8
	case 0x420b:
		b.DMA.StartGeneral(val)
	case 0x420c:
		b.DMA.EnableHDMA(val)
	case 0x420d:
		b.fastMem = val&0x01 != 0
	}
}

// --- dma.Bus ---

// ReadBBus implements dma.Bus.
func (b *Bus) ReadBBus(addr uint8) uint8 { return b.readBBus(addr) }

// WriteBBus implements dma.Bus.
func (b *Bus) WriteBBus(addr uint8, val uint8) { b.writeBBus(addr, val) }

// ReadABus implements dma.Bus.
func (b *Bus) ReadABus(bank uint8, addr uint16) uint8 { return b.read(bank, addr) }

// WriteABus implements dma.Bus.
func (b *Bus) WriteABus(bank uint8, addr uint16, val uint8) { b.write(bank, addr, val) }

// StealCycles implements dma.Bus: advances the master clock for cycles the
// CPU is frozen through but H/V position and IRQ/HDMA sequencing still
// observe.
func (b *Bus) StealCycles(n uint64) { b.runCycles(n) }

// --- master clock ---

// runCycles advances the master clock by cycles master cycles, inserting
// the once-per-scanline 40-cycle DRAM refresh the instant a run crosses
// H=536.
func (b *Bus) runCycles(cycles uint64) {
	if uint64(b.hPos)+cycles >= 536 && b.hPos < 536 {
		cycles += 40
	}
	for i := uint64(0); i < cycles; i += 2 {
		b.runCycle()
	}
}

func (b *Bus) runCycle() {
	if b.palTiming {
		b.apuCatchupCycles += float64(apuRatioNumPAL) / float64(apuRatioDenPAL) * 2.0
	} else {
		b.apuCatchupCycles += float64(apuRatioNumNTSC) / float64(apuRatioDenNTSC) * 2.0
	}
	b.cycles += 2

	condition := (b.vIrqEnabled || b.hIrqEnabled) &&
		(b.vPos == int(b.vTimer) || !b.vIrqEnabled) &&
		(b.hPos == int(b.hTimer)*4 || !b.hIrqEnabled)
	if !b.irqCondition && condition {
		b.inIrq = true
		b.CPU.SetIRQ(true)
	}
	b.irqCondition = condition

	switch {
	case b.hPos == 0:
		b.endOfHBlank()
	case b.hPos == 16:
		if b.vPos == 0 {
			b.DMA.RequestHDMAInit()
		}
	case b.hPos == 512:
		if !b.inVblank && b.vPos > 0 {
			b.PPU.RenderLine(b.vPos)
		}
	case b.hPos == 1104:
		if !b.inVblank {
			b.DMA.RequestHDMARun()
		}
	}

	if b.autoJoyTimer > 0 {
		b.autoJoyTimer -= 2
	}

	b.hPos += 2
	b.PPU.SetCounters(uint16(b.hPos), uint16(b.vPos))
	b.advanceLine()
}

func (b *Bus) endOfHBlank() {
	startingVblank := false
	switch b.vPos {
	case 0:
		b.inVblank = false
		b.inNmi = false
		b.PPU.HandleFrameStart()
	case 225:
		startingVblank = !b.PPU.CheckOverscan()
	case 240:
		if !b.inVblank {
			startingVblank = true
		}
	}
	if startingVblank {
		b.PPU.HandleVblank()
		b.inVblank = true
		b.inNmi = true
		if b.autoJoyRead {
			b.autoJoyTimer = 4224
			b.doAutoJoypad()
		}
		if b.nmiEnabled {
			b.CPU.SetNMI(true)
		}
	}
}

func (b *Bus) doAutoJoypad() {
	b.portAutoRead = [4]uint16{}
	b.Input1.Latch(true)
	b.Input2.Latch(true)
	b.Input1.Latch(false)
	b.Input2.Latch(false)
	for i := 0; i < 16; i++ {
		v1 := b.Input1.Read()
		b.portAutoRead[0] |= uint16(v1&1) << (15 - uint(i))
		v2 := b.Input2.Read()
		b.portAutoRead[1] |= uint16(v2&1) << (15 - uint(i))
	}
}

func (b *Bus) advanceLine() {
	if !b.palTiming {
		if (b.hPos == 1360 && b.vPos == 240 && !b.PPU.EvenFrame() && !b.PPU.FrameInterlace()) || b.hPos == 1364 {
			b.hPos = 0
			b.vPos++
			if (b.vPos == 262 && (!b.PPU.FrameInterlace() || !b.PPU.EvenFrame())) || b.vPos == 263 {
				b.vPos = 0
				b.frames++
			}
		}
	} else {
		if (b.hPos == 1364 && (b.vPos != 311 || b.PPU.EvenFrame() || !b.PPU.FrameInterlace())) || b.hPos == 1368 {
			b.hPos = 0
			b.vPos++
			if (b.vPos == 312 && (!b.PPU.FrameInterlace() || !b.PPU.EvenFrame())) || b.vPos == 313 {
				b.vPos = 0
				b.frames++
			}
		}
	}
}
