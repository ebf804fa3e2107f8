package apu

import (
	"bytes"
	"encoding/binary"
)

// SaveState appends the APU's full state (SPC700, DSP, RAM, shared ports,
// timers) to w in a fixed, positional order.
func (a *APU) SaveState(w *bytes.Buffer) {
	w.Write(a.ram[:])
	w.Write(a.cpuToSpc[:])
	w.Write(a.spcToCpu[:])
	w.WriteByte(a.dspAddr)
	writeBool(w, a.bootROMUp)
	binary.Write(w, binary.LittleEndian, a.ranCycles)
	binary.Write(w, binary.LittleEndian, a.cycleCredit)
	for i := range a.timer {
		t := &a.timer[i]
		w.WriteByte(t.target)
		w.WriteByte(t.divider)
		w.WriteByte(t.counter)
		w.WriteByte(t.out)
		writeBool(w, t.enabled)
	}
	a.spc.saveState(w)
	a.dsp.saveState(w)
}

// LoadState restores the APU's full state from r, in the same order
// SaveState wrote it.
func (a *APU) LoadState(r *bytes.Reader) {
	r.Read(a.ram[:])
	r.Read(a.cpuToSpc[:])
	r.Read(a.spcToCpu[:])
	a.dspAddr, _ = r.ReadByte()
	a.bootROMUp = readBool(r)
	binary.Read(r, binary.LittleEndian, &a.ranCycles)
	binary.Read(r, binary.LittleEndian, &a.cycleCredit)
	for i := range a.timer {
		t := &a.timer[i]
		t.target, _ = r.ReadByte()
		t.divider, _ = r.ReadByte()
		t.counter, _ = r.ReadByte()
		t.out, _ = r.ReadByte()
		t.enabled = readBool(r)
	}
	a.spc.loadState(r)
	a.dsp.loadState(r)
}

func (s *spc700) saveState(w *bytes.Buffer) {
	w.WriteByte(s.A)
	w.WriteByte(s.X)
	w.WriteByte(s.Y)
	w.WriteByte(s.SP)
	binary.Write(w, binary.LittleEndian, s.PC)
	writeBool(w, s.N)
	writeBool(w, s.V)
	writeBool(w, s.P)
	writeBool(w, s.B)
	writeBool(w, s.H)
	writeBool(w, s.I)
	writeBool(w, s.Z)
	writeBool(w, s.C)
	writeBool(w, s.stopped)
	binary.Write(w, binary.LittleEndian, s.cycles)
	binary.Write(w, binary.LittleEndian, int64(s.creditedCycles))
}

func (s *spc700) loadState(r *bytes.Reader) {
	s.A, _ = r.ReadByte()
	s.X, _ = r.ReadByte()
	s.Y, _ = r.ReadByte()
	s.SP, _ = r.ReadByte()
	binary.Read(r, binary.LittleEndian, &s.PC)
	s.N = readBool(r)
	s.V = readBool(r)
	s.P = readBool(r)
	s.B = readBool(r)
	s.H = readBool(r)
	s.I = readBool(r)
	s.Z = readBool(r)
	s.C = readBool(r)
	s.stopped = readBool(r)
	binary.Read(r, binary.LittleEndian, &s.cycles)
	var credited int64
	binary.Read(r, binary.LittleEndian, &credited)
	s.creditedCycles = int(credited)
}

func (d *dsp) saveState(w *bytes.Buffer) {
	w.Write(d.reg[:])
	binary.Write(w, binary.LittleEndian, d.dirPage)
	writeBool(w, d.mute)
	w.WriteByte(uint8(d.masterL))
	w.WriteByte(uint8(d.masterR))
	w.WriteByte(d.noiseOnMask)
	writeBool(w, d.echoWrites)
	w.WriteByte(uint8(d.echoVolL))
	w.WriteByte(uint8(d.echoVolR))
	w.WriteByte(uint8(d.feedback))
	binary.Write(w, binary.LittleEndian, d.echoBufAdr)
	w.WriteByte(d.echoDelay)
	for _, t := range d.firTaps {
		w.WriteByte(uint8(t))
	}
	for _, h := range d.firHistL {
		binary.Write(w, binary.LittleEndian, h)
	}
	for _, h := range d.firHistR {
		binary.Write(w, binary.LittleEndian, h)
	}
	binary.Write(w, binary.LittleEndian, int32(d.firIndex))
	binary.Write(w, binary.LittleEndian, int32(d.echoRemain))
	w.WriteByte(d.noiseRate)
	binary.Write(w, binary.LittleEndian, d.noiseCounter)
	binary.Write(w, binary.LittleEndian, d.noiseLFSR)
	binary.Write(w, binary.LittleEndian, int32(d.cyclesSinceSample))
	for _, s := range d.ring {
		binary.Write(w, binary.LittleEndian, s)
	}
	binary.Write(w, binary.LittleEndian, int32(d.ringWrite))
	binary.Write(w, binary.LittleEndian, int32(d.ringFilled))
	binary.Write(w, binary.LittleEndian, d.readCursor)
	for i := range d.voice {
		d.voice[i].saveState(w)
	}
}

func (d *dsp) loadState(r *bytes.Reader) {
	r.Read(d.reg[:])
	binary.Read(r, binary.LittleEndian, &d.dirPage)
	d.mute = readBool(r)
	var b uint8
	b, _ = r.ReadByte()
	d.masterL = int8(b)
	b, _ = r.ReadByte()
	d.masterR = int8(b)
	d.noiseOnMask, _ = r.ReadByte()
	d.echoWrites = readBool(r)
	b, _ = r.ReadByte()
	d.echoVolL = int8(b)
	b, _ = r.ReadByte()
	d.echoVolR = int8(b)
	b, _ = r.ReadByte()
	d.feedback = int8(b)
	binary.Read(r, binary.LittleEndian, &d.echoBufAdr)
	d.echoDelay, _ = r.ReadByte()
	for i := range d.firTaps {
		b, _ = r.ReadByte()
		d.firTaps[i] = int8(b)
	}
	for i := range d.firHistL {
		binary.Read(r, binary.LittleEndian, &d.firHistL[i])
	}
	for i := range d.firHistR {
		binary.Read(r, binary.LittleEndian, &d.firHistR[i])
	}
	var i32 int32
	binary.Read(r, binary.LittleEndian, &i32)
	d.firIndex = int(i32)
	binary.Read(r, binary.LittleEndian, &i32)
	d.echoRemain = int(i32)
	d.noiseRate, _ = r.ReadByte()
	binary.Read(r, binary.LittleEndian, &d.noiseCounter)
	binary.Read(r, binary.LittleEndian, &d.noiseLFSR)
	binary.Read(r, binary.LittleEndian, &i32)
	d.cyclesSinceSample = int(i32)
	for i := range d.ring {
		binary.Read(r, binary.LittleEndian, &d.ring[i])
	}
	binary.Read(r, binary.LittleEndian, &i32)
	d.ringWrite = int(i32)
	binary.Read(r, binary.LittleEndian, &i32)
	d.ringFilled = int(i32)
	binary.Read(r, binary.LittleEndian, &d.readCursor)
	for i := range d.voice {
		d.voice[i].loadState(r)
	}
}

func (v *dspVoice) saveState(w *bytes.Buffer) {
	binary.Write(w, binary.LittleEndian, v.pitch)
	binary.Write(w, binary.LittleEndian, v.pitchCounter)
	w.WriteByte(v.srcn)
	binary.Write(w, binary.LittleEndian, v.decodeAddr)
	w.WriteByte(v.blockHeader)
	for _, s := range v.brr {
		binary.Write(w, binary.LittleEndian, s)
	}
	binary.Write(w, binary.LittleEndian, v.old)
	binary.Write(w, binary.LittleEndian, v.older)
	binary.Write(w, binary.LittleEndian, int32(v.blockPos))
	writeBool(w, v.keyOn)
	writeBool(w, v.keyOff)
	writeBool(w, v.active)
	writeBool(w, v.loop)
	writeBool(w, v.adsrEnabled)
	w.WriteByte(v.attackRate)
	w.WriteByte(v.decayRate)
	w.WriteByte(v.sustainRate)
	w.WriteByte(v.sustainLvl)
	w.WriteByte(v.gainReg)
	binary.Write(w, binary.LittleEndian, int32(v.envState))
	binary.Write(w, binary.LittleEndian, v.envelope)
	binary.Write(w, binary.LittleEndian, int32(v.rateCounter))
	w.WriteByte(uint8(v.volL))
	w.WriteByte(uint8(v.volR))
	binary.Write(w, binary.LittleEndian, v.out)
}

func (v *dspVoice) loadState(r *bytes.Reader) {
	binary.Read(r, binary.LittleEndian, &v.pitch)
	binary.Read(r, binary.LittleEndian, &v.pitchCounter)
	v.srcn, _ = r.ReadByte()
	binary.Read(r, binary.LittleEndian, &v.decodeAddr)
	v.blockHeader, _ = r.ReadByte()
	for i := range v.brr {
		binary.Read(r, binary.LittleEndian, &v.brr[i])
	}
	binary.Read(r, binary.LittleEndian, &v.old)
	binary.Read(r, binary.LittleEndian, &v.older)
	var i32 int32
	binary.Read(r, binary.LittleEndian, &i32)
	v.blockPos = int(i32)
	v.keyOn = readBool(r)
	v.keyOff = readBool(r)
	v.active = readBool(r)
	v.loop = readBool(r)
	v.adsrEnabled = readBool(r)
	v.attackRate, _ = r.ReadByte()
	v.decayRate, _ = r.ReadByte()
	v.sustainRate, _ = r.ReadByte()
	v.sustainLvl, _ = r.ReadByte()
	v.gainReg, _ = r.ReadByte()
	binary.Read(r, binary.LittleEndian, &i32)
	v.envState = int(i32)
	binary.Read(r, binary.LittleEndian, &v.envelope)
	binary.Read(r, binary.LittleEndian, &i32)
	v.rateCounter = int(i32)
	var b uint8
	b, _ = r.ReadByte()
	v.volL = int8(b)
	b, _ = r.ReadByte()
	v.volR = int8(b)
	binary.Read(r, binary.LittleEndian, &v.out)
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
