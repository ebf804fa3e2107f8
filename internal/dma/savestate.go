package dma

import (
	"bytes"
	"encoding/binary"
)

// SaveState appends every channel's registers and HDMA bookkeeping to w in
// a fixed, positional order.
func (c *Controller) SaveState(w *bytes.Buffer) {
	for i := range c.Channels {
		ch := &c.Channels[i]
		w.WriteByte(ch.Params)
		w.WriteByte(ch.BBusAddress)
		binary.Write(w, binary.LittleEndian, ch.ABusAddress)
		w.WriteByte(ch.ABusBank)
		binary.Write(w, binary.LittleEndian, ch.Count)
		w.WriteByte(ch.IndirectBank)
		binary.Write(w, binary.LittleEndian, ch.TableAddress)
		w.WriteByte(ch.LineCounter)
		w.WriteByte(ch.Unused)
		writeBool(w, ch.doTransfer)
		writeBool(w, ch.active)
	}
	writeBool(w, c.hdmaInitRequested)
	writeBool(w, c.hdmaRunRequested)
	writeBool(w, c.InProgress)
	w.WriteByte(c.enableMask)
}

// LoadState restores every channel's registers and HDMA bookkeeping from
// r, in the same order SaveState wrote them.
func (c *Controller) LoadState(r *bytes.Reader) {
	for i := range c.Channels {
		ch := &c.Channels[i]
		ch.Params, _ = r.ReadByte()
		ch.BBusAddress, _ = r.ReadByte()
		binary.Read(r, binary.LittleEndian, &ch.ABusAddress)
		ch.ABusBank, _ = r.ReadByte()
		binary.Read(r, binary.LittleEndian, &ch.Count)
		ch.IndirectBank, _ = r.ReadByte()
		binary.Read(r, binary.LittleEndian, &ch.TableAddress)
		ch.LineCounter, _ = r.ReadByte()
		ch.Unused, _ = r.ReadByte()
		ch.doTransfer = readBool(r)
		ch.active = readBool(r)
	}
	c.hdmaInitRequested = readBool(r)
	c.hdmaRunRequested = readBool(r)
	c.InProgress = readBool(r)
	c.enableMask, _ = r.ReadByte()
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
