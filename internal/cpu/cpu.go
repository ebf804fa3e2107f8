// Package cpu implements the 65C816 CPU emulation for the console.
package cpu

// MemoryInterface defines the bus surface the CPU drives: byte reads/writes
// addressed by a full 24-bit (bank, offset) pair, plus an idle notification
// for cycles that don't touch the bus (internal operation cycles), which the
// bus uses to advance DMA/APU-catchup/IRQ state even when the CPU itself
// isn't reading or writing.
type MemoryInterface interface {
	Read(bank uint8, addr uint16) uint8
	Write(bank uint8, addr uint16, val uint8)
	Idle()
}

// CPU represents the 65C816 processor at the heart of the console.
type CPU struct {
	// 16-bit registers, truncated to 8 bits by the caller when the
	// corresponding width flag is set.
	A  uint16
	X  uint16
	Y  uint16
	SP uint16
	PC uint16
	D  uint16 // direct page register

	PBR uint8 // program bank
	DBR uint8 // data bank

	// Flags
	C  bool // carry
	Z  bool // zero
	V  bool // overflow
	N  bool // negative
	I  bool // IRQ disable
	Dec bool // decimal mode
	XF bool // index register width: true = 8-bit
	MF bool // accumulator/memory width: true = 8-bit
	E  bool // 6502 emulation mode

	Waiting bool // WAI: halted until an interrupt
	Stopped bool // STP: halted until reset

	irqWanted   bool
	nmiWanted   bool
	resetWanted bool

	mem MemoryInterface

	cycles uint64
}

const (
	vectorNativeCOP = 0xffe4
	vectorNativeBRK = 0xffe6
	vectorNativeNMI = 0xffea
	vectorNativeIRQ = 0xffee
	vectorEmuCOP    = 0xfff4
	vectorEmuNMI    = 0xfffa
	vectorEmuReset  = 0xfffc
	vectorEmuIRQBRK = 0xfffe
)

// New creates a CPU wired to mem. Call Reset before Step to bring it up at
// the reset vector in emulation mode.
func New(mem MemoryInterface) *CPU {
	return &CPU{mem: mem}
}

// Reset puts the CPU in the emulation-mode power-on state and loads PC from
// the reset vector. hard distinguishes a cold boot (clears A/X/Y) from a
// soft reset triggered by the RESET line, matching the distinction
// LakeSNES's cpu_reset makes.
func (c *CPU) Reset(hard bool) {
	c.E = true
	c.MF = true
	c.XF = true
	c.Dec = false
	c.I = true
	c.D = 0
	c.PBR = 0
	c.DBR = 0
	c.SP = 0x01ff
	if hard {
		c.A = 0
		c.X = 0
		c.Y = 0
	}
	c.X &= 0xff
	c.Y &= 0xff
	c.Waiting = false
	c.Stopped = false
	c.irqWanted = false
	c.nmiWanted = false
	c.resetWanted = false

	c.PC = c.readWord(0, vectorEmuReset)
}

// SetNMI raises or clears the latched NMI request line (edge-triggered: a
// 0->1 transition arms the next interrupt check).
func (c *CPU) SetNMI(pending bool) {
	c.nmiWanted = pending
}

// SetIRQ drives the level-sensitive IRQ line.
func (c *CPU) SetIRQ(pending bool) {
	c.irqWanted = pending
}

// RequestReset schedules a soft reset to be serviced on the next
// instruction boundary.
func (c *CPU) RequestReset() {
	c.resetWanted = true
}

// Cycles returns the running CPU cycle count: one per bus access or idle
// cycle, not master cycles.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

func (c *CPU) read(bank uint8, addr uint16) uint8 {
	c.cycles++
	return c.mem.Read(bank, addr)
}

func (c *CPU) write(bank uint8, addr uint16, val uint8) {
	c.cycles++
	c.mem.Write(bank, addr, val)
}

func (c *CPU) idle() {
	c.cycles++
	c.mem.Idle()
}

func (c *CPU) readWord(bank uint8, addr uint16) uint16 {
	lo := uint16(c.read(bank, addr))
	hi := uint16(c.read(bank, addr+1))
	return lo | hi<<8
}

// Step services any pending interrupt (reset has highest priority, then
// NMI, then IRQ) and otherwise fetches and executes one instruction,
// returning the number of CPU cycles (bus accesses plus idle cycles) consumed.
func (c *CPU) Step() uint64 {
	before := c.cycles
	if c.resetWanted {
		c.serviceReset()
		return c.cycles - before
	}
	if c.Stopped {
		c.idle()
		return c.cycles - before
	}
	if c.Waiting {
		if c.nmiWanted || (c.irqWanted && !c.I) {
			c.Waiting = false
		} else {
			c.idle()
			return c.cycles - before
		}
	}

	if c.nmiWanted {
		c.nmiWanted = false
		c.serviceInterrupt(vectorNativeNMI, vectorEmuNMI)
		return c.cycles - before
	}
	if c.irqWanted && !c.I {
		c.serviceInterrupt(vectorNativeIRQ, vectorEmuIRQBRK)
		return c.cycles - before
	}

	opcode := c.read(c.PBR, c.PC)
	c.PC++
	c.execute(opcode)
	return c.cycles - before
}

func (c *CPU) serviceReset() {
	c.resetWanted = false
	c.Reset(false)
}

// serviceInterrupt pushes PBR/PC/flags (native mode) or PC/flags (emulation
// mode, where PBR isn't pushed) and loads PC from the appropriate vector.
func (c *CPU) serviceInterrupt(nativeVector, emuVector uint16) {
	if !c.E {
		c.push8(c.PBR)
	}
	c.push16(c.PC)
	c.push8(c.statusByte(false))
	c.I = true
	c.Dec = false
	c.PBR = 0
	vector := emuVector
	if !c.E {
		vector = nativeVector
	}
	c.PC = c.readWord(0, vector)
	c.idle()
}

// statusByte packs the flags into the classic 65816 status register layout.
// brk marks the B-flag bit set by software BRK/COP, never set for
// hardware-vectored NMI/IRQ.
func (c *CPU) statusByte(brk bool) uint8 {
	var p uint8
	if c.C {
		p |= 0x01
	}
	if c.Z {
		p |= 0x02
	}
	if c.I {
		p |= 0x04
	}
	if c.Dec {
		p |= 0x08
	}
	if c.E {
		if brk {
			p |= 0x10
		}
		p |= 0x20
	} else {
		if c.XF {
			p |= 0x10
		}
		if c.MF {
			p |= 0x20
		}
	}
	if c.V {
		p |= 0x40
	}
	if c.N {
		p |= 0x80
	}
	return p
}

func (c *CPU) setStatusByte(p uint8) {
	c.C = p&0x01 != 0
	c.Z = p&0x02 != 0
	c.I = p&0x04 != 0
	c.Dec = p&0x08 != 0
	if c.E {
		c.XF = true
		c.MF = true
	} else {
		c.XF = p&0x10 != 0
		c.MF = p&0x20 != 0
	}
	c.V = p&0x40 != 0
	c.N = p&0x80 != 0
	c.fixRegisterWidths()
}

// fixRegisterWidths truncates X/Y to 8 bits whenever the index width flag
// is set, matching the 65816's behavior of zeroing the high byte the
// instant a register narrows (rather than merely masking reads), and pins
// the stack pointer's high byte to page 1 in emulation mode.
func (c *CPU) fixRegisterWidths() {
	if c.XF {
		c.X &= 0xff
		c.Y &= 0xff
	}
	if c.E {
		c.SP = 0x0100 | (c.SP & 0xff)
	}
}

// SetEmulation sets E; the C/E swap of XCE is done by the opcode itself.
// Entering emulation mode forces 8-bit accumulator, index and stack semantics.
func (c *CPU) SetEmulation(e bool) {
	c.E = e
	if e {
		c.MF = true
		c.XF = true
		c.fixRegisterWidths()
	}
}
