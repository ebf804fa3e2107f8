package ppu

import (
	"bytes"
	"encoding/binary"
)

// SaveState appends the PPU's memories and register shadows to w in a
// fixed, positional order. The composited frame buffer is not included;
// it is fully determined by re-rendering and is rebuilt on the next
// RenderLine after a LoadState.
func (p *PPU) SaveState(w *bytes.Buffer) {
	for _, v := range p.VRAM {
		binary.Write(w, binary.LittleEndian, v)
	}
	for _, v := range p.CGRAM {
		binary.Write(w, binary.LittleEndian, v)
	}
	w.Write(p.OAM[:])

	w.WriteByte(p.brightness)
	writeBool(w, p.forcedBlank)
	w.WriteByte(p.objSize)
	binary.Write(w, binary.LittleEndian, p.objNameBase)
	binary.Write(w, binary.LittleEndian, p.objNameGap)
	binary.Write(w, binary.LittleEndian, p.oamAddr)
	binary.Write(w, binary.LittleEndian, p.oamAddrReload)
	writeBool(w, p.oamPriority)
	w.WriteByte(p.oamLowBuffer)
	w.WriteByte(p.bgMode)
	writeBool(w, p.bg3Priority)
	w.WriteByte(p.mosaicSize)
	for _, v := range p.mosaicEnable {
		writeBool(w, v)
	}
	w.Write(p.bgSC[:])
	w.Write(p.bgNBA[:])
	for _, v := range p.bgHOFS {
		binary.Write(w, binary.LittleEndian, v)
	}
	for _, v := range p.bgVOFS {
		binary.Write(w, binary.LittleEndian, v)
	}
	w.WriteByte(p.bgOfsLast)
	binary.Write(w, binary.LittleEndian, p.vmIncAmount)
	writeBool(w, p.vmIncOnHigh)
	w.WriteByte(p.vmRemap)
	binary.Write(w, binary.LittleEndian, p.vmAddr)
	binary.Write(w, binary.LittleEndian, p.vmPrefetch)
	w.WriteByte(p.m7Sel)
	binary.Write(w, binary.LittleEndian, p.m7A)
	binary.Write(w, binary.LittleEndian, p.m7B)
	binary.Write(w, binary.LittleEndian, p.m7C)
	binary.Write(w, binary.LittleEndian, p.m7D)
	binary.Write(w, binary.LittleEndian, p.m7X)
	binary.Write(w, binary.LittleEndian, p.m7Y)
	w.WriteByte(p.m7Last)
	w.WriteByte(p.cgAddr)
	writeBool(w, p.cgHigh)
	w.WriteByte(p.cgLatch)
	w.WriteByte(p.w12sel)
	w.WriteByte(p.w34sel)
	w.WriteByte(p.wobjsel)
	w.Write(p.wh[:])
	w.WriteByte(p.wbglog)
	w.WriteByte(p.wobjlog)
	w.WriteByte(p.tm)
	w.WriteByte(p.ts)
	w.WriteByte(p.tmw)
	w.WriteByte(p.tsw)
	w.WriteByte(p.cgwsel)
	w.WriteByte(p.cgadsub)
	w.WriteByte(p.coldataR)
	w.WriteByte(p.coldataG)
	w.WriteByte(p.coldataB)
	w.WriteByte(p.setini)
	writeBool(w, p.overscan)
	writeBool(w, p.interlace)
	writeBool(w, p.objInterlace)
	binary.Write(w, binary.LittleEndian, p.mpy)
	binary.Write(w, binary.LittleEndian, p.curH)
	binary.Write(w, binary.LittleEndian, p.curV)
	binary.Write(w, binary.LittleEndian, p.latchedH)
	binary.Write(w, binary.LittleEndian, p.latchedV)
	writeBool(w, p.counterFlip)
	writeBool(w, p.evenFrame)
	writeBool(w, p.frameInterlace)
	writeBool(w, p.timeOver)
	writeBool(w, p.rangeOver)
	w.WriteByte(p.openBus)
}

// LoadState restores the PPU's memories and register shadows from r, in
// the same order SaveState wrote them.
func (p *PPU) LoadState(r *bytes.Reader) {
	for i := range p.VRAM {
		binary.Read(r, binary.LittleEndian, &p.VRAM[i])
	}
	for i := range p.CGRAM {
		binary.Read(r, binary.LittleEndian, &p.CGRAM[i])
	}
	r.Read(p.OAM[:])

	p.brightness, _ = r.ReadByte()
	p.forcedBlank = readBool(r)
	p.objSize, _ = r.ReadByte()
	binary.Read(r, binary.LittleEndian, &p.objNameBase)
	binary.Read(r, binary.LittleEndian, &p.objNameGap)
	binary.Read(r, binary.LittleEndian, &p.oamAddr)
	binary.Read(r, binary.LittleEndian, &p.oamAddrReload)
	p.oamPriority = readBool(r)
	p.oamLowBuffer, _ = r.ReadByte()
	p.bgMode, _ = r.ReadByte()
	p.bg3Priority = readBool(r)
	p.mosaicSize, _ = r.ReadByte()
	for i := range p.mosaicEnable {
		p.mosaicEnable[i] = readBool(r)
	}
	r.Read(p.bgSC[:])
	r.Read(p.bgNBA[:])
	for i := range p.bgHOFS {
		binary.Read(r, binary.LittleEndian, &p.bgHOFS[i])
	}
	for i := range p.bgVOFS {
		binary.Read(r, binary.LittleEndian, &p.bgVOFS[i])
	}
	p.bgOfsLast, _ = r.ReadByte()
	binary.Read(r, binary.LittleEndian, &p.vmIncAmount)
	p.vmIncOnHigh = readBool(r)
	p.vmRemap, _ = r.ReadByte()
	binary.Read(r, binary.LittleEndian, &p.vmAddr)
	binary.Read(r, binary.LittleEndian, &p.vmPrefetch)
	p.m7Sel, _ = r.ReadByte()
	binary.Read(r, binary.LittleEndian, &p.m7A)
	binary.Read(r, binary.LittleEndian, &p.m7B)
	binary.Read(r, binary.LittleEndian, &p.m7C)
	binary.Read(r, binary.LittleEndian, &p.m7D)
	binary.Read(r, binary.LittleEndian, &p.m7X)
	binary.Read(r, binary.LittleEndian, &p.m7Y)
	p.m7Last, _ = r.ReadByte()
	p.cgAddr, _ = r.ReadByte()
	p.cgHigh = readBool(r)
	p.cgLatch, _ = r.ReadByte()
	p.w12sel, _ = r.ReadByte()
	p.w34sel, _ = r.ReadByte()
	p.wobjsel, _ = r.ReadByte()
	r.Read(p.wh[:])
	p.wbglog, _ = r.ReadByte()
	p.wobjlog, _ = r.ReadByte()
	p.tm, _ = r.ReadByte()
	p.ts, _ = r.ReadByte()
	p.tmw, _ = r.ReadByte()
	p.tsw, _ = r.ReadByte()
	p.cgwsel, _ = r.ReadByte()
	p.cgadsub, _ = r.ReadByte()
	p.coldataR, _ = r.ReadByte()
	p.coldataG, _ = r.ReadByte()
	p.coldataB, _ = r.ReadByte()
	p.setini, _ = r.ReadByte()
	p.overscan = readBool(r)
	p.interlace = readBool(r)
	p.objInterlace = readBool(r)
	binary.Read(r, binary.LittleEndian, &p.mpy)
	binary.Read(r, binary.LittleEndian, &p.curH)
	binary.Read(r, binary.LittleEndian, &p.curV)
	binary.Read(r, binary.LittleEndian, &p.latchedH)
	binary.Read(r, binary.LittleEndian, &p.latchedV)
	p.counterFlip = readBool(r)
	p.evenFrame = readBool(r)
	p.frameInterlace = readBool(r)
	p.timeOver = readBool(r)
	p.rangeOver = readBool(r)
	p.openBus, _ = r.ReadByte()
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
