package cpu

import (
	"bytes"
	"encoding/binary"
)

// SaveState appends this CPU's registers and flags to w in a fixed,
// positional order.
func (c *CPU) SaveState(w *bytes.Buffer) {
	binary.Write(w, binary.LittleEndian, c.A)
	binary.Write(w, binary.LittleEndian, c.X)
	binary.Write(w, binary.LittleEndian, c.Y)
	binary.Write(w, binary.LittleEndian, c.SP)
	binary.Write(w, binary.LittleEndian, c.PC)
	binary.Write(w, binary.LittleEndian, c.D)
	w.WriteByte(c.PBR)
	w.WriteByte(c.DBR)
	writeBool(w, c.C)
	writeBool(w, c.Z)
	writeBool(w, c.V)
	writeBool(w, c.N)
	writeBool(w, c.I)
	writeBool(w, c.Dec)
	writeBool(w, c.XF)
	writeBool(w, c.MF)
	writeBool(w, c.E)
	writeBool(w, c.Waiting)
	writeBool(w, c.Stopped)
	writeBool(w, c.irqWanted)
	writeBool(w, c.nmiWanted)
	writeBool(w, c.resetWanted)
	binary.Write(w, binary.LittleEndian, c.cycles)
}

// LoadState restores a CPU's registers and flags from r, in the same order
// SaveState wrote them.
func (c *CPU) LoadState(r *bytes.Reader) {
	binary.Read(r, binary.LittleEndian, &c.A)
	binary.Read(r, binary.LittleEndian, &c.X)
	binary.Read(r, binary.LittleEndian, &c.Y)
	binary.Read(r, binary.LittleEndian, &c.SP)
	binary.Read(r, binary.LittleEndian, &c.PC)
	binary.Read(r, binary.LittleEndian, &c.D)
	c.PBR, _ = r.ReadByte()
	c.DBR, _ = r.ReadByte()
	c.C = readBool(r)
	c.Z = readBool(r)
	c.V = readBool(r)
	c.N = readBool(r)
	c.I = readBool(r)
	c.Dec = readBool(r)
	c.XF = readBool(r)
	c.MF = readBool(r)
	c.E = readBool(r)
	c.Waiting = readBool(r)
	c.Stopped = readBool(r)
	c.irqWanted = readBool(r)
	c.nmiWanted = readBool(r)
	c.resetWanted = readBool(r)
	binary.Read(r, binary.LittleEndian, &c.cycles)
}

func writeBool(w *bytes.Buffer, v bool) {
	if v {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

func readBool(r *bytes.Reader) bool {
	v, _ := r.ReadByte()
	return v != 0
}
