package cpu

// execute dispatches a fetched opcode byte to its addressing-mode resolver
// and operation body. The 65816 defines all 256 opcodes (no illegal/
// undefined slots, unlike the 6502), so every case below is reachable.
func (c *CPU) execute(opcode uint8) {
	switch opcode {
	// ---- ORA ----
	case 0x01:
		c.oraOp(c.readFrom(c.addrDirectIndexedIndirectX()))
	case 0x03:
		c.oraOp(c.readFrom(c.addrStackRelative()))
	case 0x05:
		c.oraOp(c.readFrom(c.addrDirect()))
	case 0x07:
		c.oraOp(c.readFrom(c.addrDirectIndirectLong()))
	case 0x09:
		c.oraOp(c.fetchImmediateM())
	case 0x0d:
		c.oraOp(c.readFrom(c.addrAbsolute()))
	case 0x0f:
		c.oraOp(c.readFrom(c.addrAbsoluteLong()))
	case 0x11:
		c.oraOp(c.readFrom(c.addrDirectIndirectIndexedY()))
	case 0x12:
		c.oraOp(c.readFrom(c.addrDirectIndirect()))
	case 0x13:
		c.oraOp(c.readFrom(c.addrStackRelativeIndirectIndexedY()))
	case 0x15:
		c.oraOp(c.readFrom(c.addrDirectX()))
	case 0x17:
		c.oraOp(c.readFrom(c.addrDirectIndirectLongIndexedY()))
	case 0x19:
		c.oraOp(c.readFrom(c.addrAbsoluteY()))
	case 0x1d:
		c.oraOp(c.readFrom(c.addrAbsoluteX()))
	case 0x1f:
		c.oraOp(c.readFrom(c.addrAbsoluteLongX()))

	// ---- AND ----
	case 0x21:
		c.andOp(c.readFrom(c.addrDirectIndexedIndirectX()))
	case 0x23:
		c.andOp(c.readFrom(c.addrStackRelative()))
	case 0x25:
		c.andOp(c.readFrom(c.addrDirect()))
	case 0x27:
		c.andOp(c.readFrom(c.addrDirectIndirectLong()))
	case 0x29:
		c.andOp(c.fetchImmediateM())
	case 0x2d:
		c.andOp(c.readFrom(c.addrAbsolute()))
	case 0x2f:
		c.andOp(c.readFrom(c.addrAbsoluteLong()))
	case 0x31:
		c.andOp(c.readFrom(c.addrDirectIndirectIndexedY()))
	case 0x32:
		c.andOp(c.readFrom(c.addrDirectIndirect()))
	case 0x33:
		c.andOp(c.readFrom(c.addrStackRelativeIndirectIndexedY()))
	case 0x35:
		c.andOp(c.readFrom(c.addrDirectX()))
	case 0x37:
		c.andOp(c.readFrom(c.addrDirectIndirectLongIndexedY()))
	case 0x39:
		c.andOp(c.readFrom(c.addrAbsoluteY()))
	case 0x3d:
		c.andOp(c.readFrom(c.addrAbsoluteX()))
	case 0x3f:
		c.andOp(c.readFrom(c.addrAbsoluteLongX()))

	// ---- EOR ----
	case 0x41:
		c.eorOp(c.readFrom(c.addrDirectIndexedIndirectX()))
	case 0x43:
		c.eorOp(c.readFrom(c.addrStackRelative()))
	case 0x45:
		c.eorOp(c.readFrom(c.addrDirect()))
	case 0x47:
		c.eorOp(c.readFrom(c.addrDirectIndirectLong()))
	case 0x49:
		c.eorOp(c.fetchImmediateM())
	case 0x4d:
		c.eorOp(c.readFrom(c.addrAbsolute()))
	case 0x4f:
		c.eorOp(c.readFrom(c.addrAbsoluteLong()))
	case 0x51:
		c.eorOp(c.readFrom(c.addrDirectIndirectIndexedY()))
	case 0x52:
		c.eorOp(c.readFrom(c.addrDirectIndirect()))
	case 0x53:
		c.eorOp(c.readFrom(c.addrStackRelativeIndirectIndexedY()))
	case 0x55:
		c.eorOp(c.readFrom(c.addrDirectX()))
	case 0x57:
		c.eorOp(c.readFrom(c.addrDirectIndirectLongIndexedY()))
	case 0x59:
		c.eorOp(c.readFrom(c.addrAbsoluteY()))
	case 0x5d:
		c.eorOp(c.readFrom(c.addrAbsoluteX()))
	case 0x5f:
		c.eorOp(c.readFrom(c.addrAbsoluteLongX()))

	// ---- ADC ----
	case 0x61:
		c.adc(c.readFrom(c.addrDirectIndexedIndirectX()))
	case 0x63:
		c.adc(c.readFrom(c.addrStackRelative()))
	case 0x65:
		c.adc(c.readFrom(c.addrDirect()))
	case 0x67:
		c.adc(c.readFrom(c.addrDirectIndirectLong()))
	case 0x69:
		c.adc(c.fetchImmediateM())
	case 0x6d:
		c.adc(c.readFrom(c.addrAbsolute()))
	case 0x6f:
		c.adc(c.readFrom(c.addrAbsoluteLong()))
	case 0x71:
		c.adc(c.readFrom(c.addrDirectIndirectIndexedY()))
	case 0x72:
		c.adc(c.readFrom(c.addrDirectIndirect()))
	case 0x73:
		c.adc(c.readFrom(c.addrStackRelativeIndirectIndexedY()))
	case 0x75:
		c.adc(c.readFrom(c.addrDirectX()))
	case 0x77:
		c.adc(c.readFrom(c.addrDirectIndirectLongIndexedY()))
	case 0x79:
		c.adc(c.readFrom(c.addrAbsoluteY()))
	case 0x7d:
		c.adc(c.readFrom(c.addrAbsoluteX()))
	case 0x7f:
		c.adc(c.readFrom(c.addrAbsoluteLongX()))

	// ---- SBC ----
	case 0xe1:
		c.sbc(c.readFrom(c.addrDirectIndexedIndirectX()))
	case 0xe3:
		c.sbc(c.readFrom(c.addrStackRelative()))
	case 0xe5:
		c.sbc(c.readFrom(c.addrDirect()))
	case 0xe7:
		c.sbc(c.readFrom(c.addrDirectIndirectLong()))
	case 0xe9:
		c.sbc(c.fetchImmediateM())
	case 0xed:
		c.sbc(c.readFrom(c.addrAbsolute()))
	case 0xef:
		c.sbc(c.readFrom(c.addrAbsoluteLong()))
	case 0xf1:
		c.sbc(c.readFrom(c.addrDirectIndirectIndexedY()))
	case 0xf2:
		c.sbc(c.readFrom(c.addrDirectIndirect()))
	case 0xf3:
		c.sbc(c.readFrom(c.addrStackRelativeIndirectIndexedY()))
	case 0xf5:
		c.sbc(c.readFrom(c.addrDirectX()))
	case 0xf7:
		c.sbc(c.readFrom(c.addrDirectIndirectLongIndexedY()))
	case 0xf9:
		c.sbc(c.readFrom(c.addrAbsoluteY()))
	case 0xfd:
		c.sbc(c.readFrom(c.addrAbsoluteX()))
	case 0xff:
		c.sbc(c.readFrom(c.addrAbsoluteLongX()))

	// ---- CMP ----
	case 0xc1:
		c.cmpGeneric(c.A, c.readFrom(c.addrDirectIndexedIndirectX()), c.MF)
	case 0xc3:
		c.cmpGeneric(c.A, c.readFrom(c.addrStackRelative()), c.MF)
	case 0xc5:
		c.cmpGeneric(c.A, c.readFrom(c.addrDirect()), c.MF)
	case 0xc7:
		c.cmpGeneric(c.A, c.readFrom(c.addrDirectIndirectLong()), c.MF)
	case 0xc9:
		c.cmpGeneric(c.A, c.fetchImmediateM(), c.MF)
	case 0xcd:
		c.cmpGeneric(c.A, c.readFrom(c.addrAbsolute()), c.MF)
	case 0xcf:
		c.cmpGeneric(c.A, c.readFrom(c.addrAbsoluteLong()), c.MF)
	case 0xd1:
		c.cmpGeneric(c.A, c.readFrom(c.addrDirectIndirectIndexedY()), c.MF)
	case 0xd2:
		c.cmpGeneric(c.A, c.readFrom(c.addrDirectIndirect()), c.MF)
	case 0xd3:
		c.cmpGeneric(c.A, c.readFrom(c.addrStackRelativeIndirectIndexedY()), c.MF)
	case 0xd5:
		c.cmpGeneric(c.A, c.readFrom(c.addrDirectX()), c.MF)
	case 0xd7:
		c.cmpGeneric(c.A, c.readFrom(c.addrDirectIndirectLongIndexedY()), c.MF)
	case 0xd9:
		c.cmpGeneric(c.A, c.readFrom(c.addrAbsoluteY()), c.MF)
	case 0xdd:
		c.cmpGeneric(c.A, c.readFrom(c.addrAbsoluteX()), c.MF)
	case 0xdf:
		c.cmpGeneric(c.A, c.readFrom(c.addrAbsoluteLongX()), c.MF)

	case 0xe0:
		c.cmpGeneric(c.X, c.fetchImmediateX(), c.XF)
	case 0xe4:
		c.cmpGeneric(c.X, c.readFrom(c.addrDirect()), c.XF)
	case 0xec:
		c.cmpGeneric(c.X, c.readFrom(c.addrAbsolute()), c.XF)
	case 0xc0:
		c.cmpGeneric(c.Y, c.fetchImmediateX(), c.XF)
	case 0xc4:
		c.cmpGeneric(c.Y, c.readFrom(c.addrDirect()), c.XF)
	case 0xcc:
		c.cmpGeneric(c.Y, c.readFrom(c.addrAbsolute()), c.XF)

	// ---- BIT ----
	case 0x24:
		c.bitOp(c.readFrom(c.addrDirect()), false)
	case 0x2c:
		c.bitOp(c.readFrom(c.addrAbsolute()), false)
	case 0x34:
		c.bitOp(c.readFrom(c.addrDirectX()), false)
	case 0x3c:
		c.bitOp(c.readFrom(c.addrAbsoluteX()), false)
	case 0x89:
		c.bitOp(c.fetchImmediateM(), true)

	// ---- LDA/LDX/LDY ----
	case 0xa1:
		c.lda(c.readFrom(c.addrDirectIndexedIndirectX()))
	case 0xa3:
		c.lda(c.readFrom(c.addrStackRelative()))
	case 0xa5:
		c.lda(c.readFrom(c.addrDirect()))
	case 0xa7:
		c.lda(c.readFrom(c.addrDirectIndirectLong()))
	case 0xa9:
		c.lda(c.fetchImmediateM())
	case 0xad:
		c.lda(c.readFrom(c.addrAbsolute()))
	case 0xaf:
		c.lda(c.readFrom(c.addrAbsoluteLong()))
	case 0xb1:
		c.lda(c.readFrom(c.addrDirectIndirectIndexedY()))
	case 0xb2:
		c.lda(c.readFrom(c.addrDirectIndirect()))
	case 0xb3:
		c.lda(c.readFrom(c.addrStackRelativeIndirectIndexedY()))
	case 0xb5:
		c.lda(c.readFrom(c.addrDirectX()))
	case 0xb7:
		c.lda(c.readFrom(c.addrDirectIndirectLongIndexedY()))
	case 0xb9:
		c.lda(c.readFrom(c.addrAbsoluteY()))
	case 0xbd:
		c.lda(c.readFrom(c.addrAbsoluteX()))
	case 0xbf:
		c.lda(c.readFrom(c.addrAbsoluteLongX()))

	case 0xa2:
		c.ldx(c.fetchImmediateX())
	case 0xa6:
		c.ldx(c.readFrom(c.addrDirect()))
	case 0xae:
		c.ldx(c.readFrom(c.addrAbsolute()))
	case 0xb6:
		c.ldx(c.readFrom(c.addrDirectY()))
	case 0xbe:
		c.ldx(c.readFrom(c.addrAbsoluteY()))

	case 0xa0:
		c.ldy(c.fetchImmediateX())
	case 0xa4:
		c.ldy(c.readFrom(c.addrDirect()))
	case 0xac:
		c.ldy(c.readFrom(c.addrAbsolute()))
	case 0xb4:
		c.ldy(c.readFrom(c.addrDirectX()))
	case 0xbc:
		c.ldy(c.readFrom(c.addrAbsoluteX()))

	// ---- STA/STX/STY/STZ ----
	case 0x81:
		c.storeA(c.addrDirectIndexedIndirectX())
	case 0x83:
		c.storeA(c.addrStackRelative())
	case 0x85:
		c.storeA(c.addrDirect())
	case 0x87:
		c.storeA(c.addrDirectIndirectLong())
	case 0x8d:
		c.storeA(c.addrAbsolute())
	case 0x8f:
		c.storeA(c.addrAbsoluteLong())
	case 0x91:
		c.storeA(c.addrDirectIndirectIndexedY())
	case 0x92:
		c.storeA(c.addrDirectIndirect())
	case 0x93:
		c.storeA(c.addrStackRelativeIndirectIndexedY())
	case 0x95:
		c.storeA(c.addrDirectX())
	case 0x97:
		c.storeA(c.addrDirectIndirectLongIndexedY())
	case 0x99:
		c.storeA(c.addrAbsoluteY())
	case 0x9d:
		c.storeA(c.addrAbsoluteX())
	case 0x9f:
		c.storeA(c.addrAbsoluteLongX())

	case 0x86:
		c.storeX(c.addrDirect())
	case 0x8e:
		c.storeX(c.addrAbsolute())
	case 0x96:
		c.storeX(c.addrDirectY())

	case 0x84:
		c.storeY(c.addrDirect())
	case 0x8c:
		c.storeY(c.addrAbsolute())
	case 0x94:
		c.storeY(c.addrDirectX())

	case 0x64:
		c.storeZero(c.addrDirect())
	case 0x74:
		c.storeZero(c.addrDirectX())
	case 0x9c:
		c.storeZero(c.addrAbsolute())
	case 0x9e:
		c.storeZero(c.addrAbsoluteX())

	// ---- shifts/rotates/inc/dec on memory ----
	case 0x06:
		c.aslMem(c.addrDirect())
	case 0x0e:
		c.aslMem(c.addrAbsolute())
	case 0x16:
		c.aslMem(c.addrDirectX())
	case 0x1e:
		c.aslMem(c.addrAbsoluteX())
	case 0x0a:
		c.rmwAccumulator(c.aslVal)

	case 0x46:
		c.lsrMem(c.addrDirect())
	case 0x4e:
		c.lsrMem(c.addrAbsolute())
	case 0x56:
		c.lsrMem(c.addrDirectX())
	case 0x5e:
		c.lsrMem(c.addrAbsoluteX())
	case 0x4a:
		c.rmwAccumulator(c.lsrVal)

	case 0x26:
		c.rolMem(c.addrDirect())
	case 0x2e:
		c.rolMem(c.addrAbsolute())
	case 0x36:
		c.rolMem(c.addrDirectX())
	case 0x3e:
		c.rolMem(c.addrAbsoluteX())
	case 0x2a:
		c.rmwAccumulator(c.rolVal)

	case 0x66:
		c.rorMem(c.addrDirect())
	case 0x6e:
		c.rorMem(c.addrAbsolute())
	case 0x76:
		c.rorMem(c.addrDirectX())
	case 0x7e:
		c.rorMem(c.addrAbsoluteX())
	case 0x6a:
		c.rmwAccumulator(c.rorVal)

	case 0xe6:
		c.incMem(c.addrDirect())
	case 0xee:
		c.incMem(c.addrAbsolute())
	case 0xf6:
		c.incMem(c.addrDirectX())
	case 0xfe:
		c.incMem(c.addrAbsoluteX())
	case 0x1a:
		c.rmwAccumulator(c.incVal)

	case 0xc6:
		c.decMem(c.addrDirect())
	case 0xce:
		c.decMem(c.addrAbsolute())
	case 0xd6:
		c.decMem(c.addrDirectX())
	case 0xde:
		c.decMem(c.addrAbsoluteX())
	case 0x3a:
		c.rmwAccumulator(c.decVal)

	case 0x04:
		c.tsbMem(c.addrDirect())
	case 0x0c:
		c.tsbMem(c.addrAbsolute())
	case 0x14:
		c.trbMem(c.addrDirect())
	case 0x1c:
		c.trbMem(c.addrAbsolute())

	case 0xe8:
		c.X = c.incVal(c.X, c.XF)
	case 0xc8:
		c.Y = c.incVal(c.Y, c.XF)
	case 0xca:
		c.X = c.decVal(c.X, c.XF)
	case 0x88:
		c.Y = c.decVal(c.Y, c.XF)

	// ---- branches ----
	case 0x10:
		c.branch(!c.N)
	case 0x30:
		c.branch(c.N)
	case 0x50:
		c.branch(!c.V)
	case 0x70:
		c.branch(c.V)
	case 0x90:
		c.branch(!c.C)
	case 0xb0:
		c.branch(c.C)
	case 0xd0:
		c.branch(!c.Z)
	case 0xf0:
		c.branch(c.Z)
	case 0x80:
		c.branch(true)
	case 0x82:
		offset := c.fetch16()
		c.idle()
		c.PC = c.relativeLongBranch(offset)

	// ---- jumps/calls/returns ----
	case 0x4c:
		c.PC = c.fetch16()
	case 0x5c:
		c.PBR, c.PC = c.fetch24()
	case 0x6c:
		_, c.PC = c.addrAbsoluteIndirect()
	case 0x7c:
		_, c.PC = c.addrAbsoluteIndexedIndirect()
	case 0xdc:
		c.PBR, c.PC = c.addrAbsoluteIndirectLong()
	case 0x20:
		addr := c.fetch16()
		c.idle()
		c.push16(c.PC - 1)
		c.PC = addr
	case 0xfc:
		_, addr := c.addrAbsoluteIndexedIndirect()
		c.push16(c.PC - 1)
		c.PC = addr
	case 0x22:
		bank, addr := c.fetch24()
		c.idle()
		c.push8(c.PBR)
		c.push16(c.PC - 1)
		c.PBR = bank
		c.PC = addr
	case 0x60:
		c.PC = c.pop16() + 1
		c.idle()
		c.idle()
	case 0x6b:
		addr := c.pop16()
		bank := c.pop8()
		c.PC = addr + 1
		c.PBR = bank
		c.idle()
	case 0x40:
		c.setStatusByte(c.pop8())
		c.PC = c.pop16()
		if !c.E {
			c.PBR = c.pop8()
		}
		c.idle()

	// ---- stack ----
	case 0x08:
		c.push8(c.statusByte(true))
	case 0x28:
		c.setStatusByte(c.pop8())
		c.idle()
	case 0x48:
		c.pushWidth(c.A, c.MF)
	case 0x68:
		c.lda(c.popWidth(c.MF))
		c.idle()
	case 0xda:
		c.pushWidth(c.X, c.XF)
	case 0xfa:
		c.ldx(c.popWidth(c.XF))
		c.idle()
	case 0x5a:
		c.pushWidth(c.Y, c.XF)
	case 0x7a:
		c.ldy(c.popWidth(c.XF))
		c.idle()
	case 0x8b:
		c.push8(c.DBR)
	case 0xab:
		c.DBR = c.pop8()
		c.setNZ(uint16(c.DBR), true)
		c.idle()
	case 0x0b:
		c.push16(c.D)
	case 0x2b:
		c.D = c.pop16()
		c.setNZ(c.D, false)
		c.idle()
	case 0x4b:
		c.push8(c.PBR)
	case 0xf4:
		val := c.fetch16()
		c.push16(val)
	case 0xd4:
		ptr := c.directPageBase() + uint16(c.fetch8())
		c.push16(c.readWord(0, ptr))
	case 0x62:
		offset := c.fetch16()
		c.push16(c.relativeLongBranch(offset))

	// ---- transfers ----
	case 0xaa:
		c.X = c.transferInto(c.X, c.A, c.XF)
	case 0xa8:
		c.Y = c.transferInto(c.Y, c.A, c.XF)
	case 0x8a:
		c.A = c.transferInto(c.A, c.X, c.MF)
	case 0x98:
		c.A = c.transferInto(c.A, c.Y, c.MF)
	case 0x9a:
		if c.E {
			c.SP = 0x0100 | (c.X & 0xff)
		} else {
			c.SP = c.X
		}
	case 0xba:
		c.X = c.transferInto(c.X, c.SP, c.XF)
	case 0x9b:
		c.Y = c.transferInto(c.Y, c.X, c.XF)
	case 0xbb:
		c.X = c.transferInto(c.X, c.Y, c.XF)
	case 0x5b:
		c.D = c.A
		c.setNZ(c.D, false)
	case 0x7b:
		c.A = c.D
		c.setNZ(c.A, false)
	case 0x1b:
		c.SP = c.A
	case 0x3b:
		c.A = c.SP
		c.setNZ(c.A, false)

	// ---- flag ops ----
	case 0x18:
		c.C = false
	case 0x38:
		c.C = true
	case 0x58:
		c.I = false
	case 0x78:
		c.I = true
	case 0xb8:
		c.V = false
	case 0xd8:
		c.Dec = false
	case 0xf8:
		c.Dec = true
	case 0xc2:
		c.setStatusByte(c.statusByte(false) &^ c.fetch8())
	case 0xe2:
		c.setStatusByte(c.statusByte(false) | c.fetch8())
	case 0xfb:
		oldC := c.C
		c.C = c.E
		c.SetEmulation(oldC)

	// ---- block move ----
	case 0x54:
		c.blockMove(true)
	case 0x44:
		c.blockMove(false)

	// ---- misc ----
	case 0xea:
		// NOP
	case 0x42:
		c.fetch8() // WDM: reserved two-byte NOP
	case 0xdb:
		c.Stopped = true
	case 0xcb:
		c.Waiting = true
		c.idle()
	case 0xeb:
		c.A = (c.A >> 8) | (c.A << 8)
		c.setNZ(c.A&0xff, true)
	case 0x00:
		c.fetch8()
		c.softInterrupt(vectorNativeBRK, vectorEmuIRQBRK)
	case 0x02:
		c.fetch8()
		c.softInterrupt(vectorNativeCOP, vectorEmuCOP)

	default:
		// Unreachable: all 256 opcodes are handled above.
	}
}

func (c *CPU) readFrom(bank uint8, addr uint16) uint16 {
	return c.readOperand(bank, addr, c.MF)
}

func (c *CPU) storeA(bank uint8, addr uint16) {
	c.writeOperand(bank, addr, c.A, c.MF)
}

func (c *CPU) storeX(bank uint8, addr uint16) {
	c.writeOperand(bank, addr, c.X, c.XF)
}

func (c *CPU) storeY(bank uint8, addr uint16) {
	c.writeOperand(bank, addr, c.Y, c.XF)
}

func (c *CPU) storeZero(bank uint8, addr uint16) {
	c.writeOperand(bank, addr, 0, c.MF)
}

func (c *CPU) rmw(bank uint8, addr uint16, op func(uint16, bool) uint16) {
	val := c.readOperand(bank, addr, c.MF)
	c.idle()
	result := op(val, c.MF)
	c.writeOperand(bank, addr, result, c.MF)
}

func (c *CPU) aslMem(bank uint8, addr uint16) { c.rmw(bank, addr, c.aslVal) }
func (c *CPU) lsrMem(bank uint8, addr uint16) { c.rmw(bank, addr, c.lsrVal) }
func (c *CPU) rolMem(bank uint8, addr uint16) { c.rmw(bank, addr, c.rolVal) }
func (c *CPU) rorMem(bank uint8, addr uint16) { c.rmw(bank, addr, c.rorVal) }
func (c *CPU) incMem(bank uint8, addr uint16) { c.rmw(bank, addr, c.incVal) }
func (c *CPU) decMem(bank uint8, addr uint16) { c.rmw(bank, addr, c.decVal) }
func (c *CPU) tsbMem(bank uint8, addr uint16) { c.rmw(bank, addr, c.tsbVal) }
func (c *CPU) trbMem(bank uint8, addr uint16) { c.rmw(bank, addr, c.trbVal) }

func (c *CPU) rmwAccumulator(op func(uint16, bool) uint16) {
	c.idle()
	result := op(c.A, c.MF)
	if c.MF {
		c.A = (c.A & 0xff00) | result
	} else {
		c.A = result
	}
}

func (c *CPU) lda(val uint16) {
	if c.MF {
		c.A = (c.A & 0xff00) | (val & 0xff)
	} else {
		c.A = val
	}
	c.setNZ(val, c.MF)
}

func (c *CPU) ldx(val uint16) {
	if c.XF {
		c.X = val & 0xff
	} else {
		c.X = val
	}
	c.setNZ(val, c.XF)
}

func (c *CPU) ldy(val uint16) {
	if c.XF {
		c.Y = val & 0xff
	} else {
		c.Y = val
	}
	c.setNZ(val, c.XF)
}

func (c *CPU) transferInto(current, value uint16, eightBit bool) uint16 {
	if eightBit {
		result := (current & 0xff00) | (value & 0xff)
		c.setNZ(result, true)
		return result
	}
	c.setNZ(value, false)
	return value
}

func (c *CPU) fetchImmediateM() uint16 {
	if c.MF {
		return uint16(c.fetch8())
	}
	return c.fetch16()
}

func (c *CPU) fetchImmediateX() uint16 {
	if c.XF {
		return uint16(c.fetch8())
	}
	return c.fetch16()
}

func (c *CPU) pushWidth(val uint16, eightBit bool) {
	if eightBit {
		c.push8(uint8(val))
	} else {
		c.push16(val)
	}
}

func (c *CPU) popWidth(eightBit bool) uint16 {
	if eightBit {
		return uint16(c.pop8())
	}
	return c.pop16()
}

func (c *CPU) branch(cond bool) {
	offset := c.fetch8()
	if !cond {
		return
	}
	newPC := c.relativeBranch(offset)
	c.idle()
	if pageCross(c.PC, newPC) {
		c.idle()
	}
	c.PC = newPC
}

// softInterrupt services BRK/COP: a software-invoked interrupt that always
// sets the pushed status byte's B-equivalent bit.
func (c *CPU) softInterrupt(nativeVector, emuVector uint16) {
	if !c.E {
		c.push8(c.PBR)
	}
	c.push16(c.PC)
	c.push8(c.statusByte(true))
	c.I = true
	c.Dec = false
	c.PBR = 0
	vector := emuVector
	if !c.E {
		vector = nativeVector
	}
	c.PC = c.readWord(0, vector)
}

// blockMove implements MVN (forward, increment, true) and MVP (backward,
// decrement, false) by moving the whole block within a single opcode
// dispatch: each iteration copies one byte and bills its own read/write
// cycles, matching the per-byte cost of the real instruction even though
// true hardware allows interrupts to interleave between bytes.
func (c *CPU) blockMove(forward bool) {
	destBank := c.fetch8()
	srcBank := c.fetch8()
	for {
		val := c.read(srcBank, uint16(c.X))
		c.write(destBank, uint16(c.Y), val)
		if forward {
			c.X++
			c.Y++
		} else {
			c.X--
			c.Y--
		}
		if c.XF {
			c.X &= 0xff
			c.Y &= 0xff
		}
		c.A--
		c.DBR = destBank
		c.idle()
		c.idle()
		if c.A == 0xffff {
			break
		}
	}
}
