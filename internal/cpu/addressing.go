package cpu

// Effective-address computation for the 65C816's addressing modes. Each
// resolver consumes its own instruction bytes via fetch8/fetch16/fetch24
// (which bill bus cycles through c.read) and returns the (bank, offset)
// pair the opcode body should read or write. Indexed modes that cross a
// page boundary bill one extra idle cycle, matching the common case where
// the indexing addition ripples into the high byte.

func (c *CPU) fetch8() uint8 {
	v := c.read(c.PBR, c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) fetch24() (uint8, uint16) {
	lo := uint16(c.fetch8())
	mid := uint16(c.fetch8())
	bank := c.fetch8()
	return bank, lo | mid<<8
}

func pageCross(base, result uint16) bool {
	return base&0xff00 != result&0xff00
}

// directPageBase returns D, consuming one idle cycle whenever D's low byte
// is non-zero (the 65816 spends an extra cycle recalculating the direct
// page base in that case).
func (c *CPU) directPageBase() uint16 {
	if c.D&0xff != 0 {
		c.idle()
	}
	return c.D
}

func (c *CPU) addrDirect() (uint8, uint16) {
	off := c.directPageBase() + uint16(c.fetch8())
	return 0, off
}

func (c *CPU) addrDirectX() (uint8, uint16) {
	base := c.directPageBase() + uint16(c.fetch8())
	c.idle()
	return 0, base + c.X
}

func (c *CPU) addrDirectY() (uint8, uint16) {
	base := c.directPageBase() + uint16(c.fetch8())
	c.idle()
	return 0, base + c.Y
}

func (c *CPU) addrAbsolute() (uint8, uint16) {
	return c.DBR, c.fetch16()
}

func (c *CPU) addrAbsoluteLong() (uint8, uint16) {
	return c.fetch24()
}

func (c *CPU) addrAbsoluteX() (uint8, uint16) {
	base := c.fetch16()
	result := base + c.X
	if pageCross(base, result) || !c.XF {
		c.idle()
	}
	return c.DBR, result
}

func (c *CPU) addrAbsoluteY() (uint8, uint16) {
	base := c.fetch16()
	result := base + c.Y
	if pageCross(base, result) || !c.XF {
		c.idle()
	}
	return c.DBR, result
}

func (c *CPU) addrAbsoluteLongX() (uint8, uint16) {
	bank, base := c.fetch24()
	result := base + c.X
	if result < base {
		bank++
	}
	return bank, result
}

func (c *CPU) addrAbsoluteIndirect() (uint8, uint16) {
	ptr := c.fetch16()
	return 0, c.readWord(0, ptr)
}

func (c *CPU) addrAbsoluteIndirectLong() (uint8, uint16) {
	ptr := c.fetch16()
	lo := uint16(c.read(0, ptr))
	hi := uint16(c.read(0, ptr+1))
	bank := c.read(0, ptr+2)
	return bank, lo | hi<<8
}

func (c *CPU) addrAbsoluteIndexedIndirect() (uint8, uint16) {
	base := c.fetch16() + c.X
	c.idle()
	return c.PBR, c.readWord(c.PBR, base)
}

func (c *CPU) addrDirectIndirect() (uint8, uint16) {
	ptr := c.directPageBase() + uint16(c.fetch8())
	return c.DBR, c.readWord(0, ptr)
}

func (c *CPU) addrDirectIndirectLong() (uint8, uint16) {
	ptr := c.directPageBase() + uint16(c.fetch8())
	lo := uint16(c.read(0, ptr))
	hi := uint16(c.read(0, ptr+1))
	bank := c.read(0, ptr+2)
	return bank, lo | hi<<8
}

func (c *CPU) addrDirectIndexedIndirectX() (uint8, uint16) {
	ptr := c.directPageBase() + uint16(c.fetch8()) + c.X
	c.idle()
	return c.DBR, c.readWord(0, ptr)
}

func (c *CPU) addrDirectIndirectIndexedY() (uint8, uint16) {
	ptr := c.directPageBase() + uint16(c.fetch8())
	base := c.readWord(0, ptr)
	result := base + c.Y
	if pageCross(base, result) || !c.XF {
		c.idle()
	}
	return c.DBR, result
}

func (c *CPU) addrDirectIndirectLongIndexedY() (uint8, uint16) {
	ptr := c.directPageBase() + uint16(c.fetch8())
	lo := uint16(c.read(0, ptr))
	hi := uint16(c.read(0, ptr+1))
	bank := c.read(0, ptr+2)
	base := lo | hi<<8
	result := base + c.Y
	if result < base {
		bank++
	}
	return bank, result
}

func (c *CPU) addrStackRelative() (uint8, uint16) {
	c.idle()
	return 0, c.SP + uint16(c.fetch8())
}

func (c *CPU) addrStackRelativeIndirectIndexedY() (uint8, uint16) {
	c.idle()
	ptr := c.SP + uint16(c.fetch8())
	base := c.readWord(0, ptr)
	c.idle()
	return c.DBR, base + c.Y
}

// relativeBranch computes the branch target from a signed 8-bit offset
// relative to the address of the following instruction.
func (c *CPU) relativeBranch(offset uint8) uint16 {
	return c.PC + uint16(int8(offset))
}

// relativeLongBranch computes the BRL target from a signed 16-bit offset.
func (c *CPU) relativeLongBranch(offset uint16) uint16 {
	return c.PC + offset
}
