package apu

// execute dispatches one SPC700 opcode and returns the cycle count it
// consumed. All 256 opcode bytes are covered: register/memory moves in
// every documented addressing mode, the 8-bit and 16-bit (YA-pair) ALU,
// branches (conditional, bit-test, compare-and-branch, decrement-and-
// branch), the TCALL/PCALL vector calls, single-bit set/clear/test/logic
// ops against the 13-bit memory-bit operand, and the stack/flag/BRK
// machinery. Cycle counts follow the documented SPC700 timing table.
func (s *spc700) execute(opcode uint8) uint8 {
	switch opcode {
	// ---- NOP / flow control ----
	case 0x00: // NOP
		return 2
	case 0xef: // SLEEP
		s.stopped = true
		return 2
	case 0xff: // STOP
		s.stopped = true
		return 2

	// ---- MOV A,x ----
	case 0xe8: // MOV A,#imm
		s.A = s.fetch8()
		s.setNZ(s.A)
		return 2
	case 0xe4: // MOV A,dp
		s.A = s.read(s.dpAddr(s.fetch8()))
		s.setNZ(s.A)
		return 3
	case 0xf4: // MOV A,dp+X
		s.A = s.read(s.dpAddr(s.fetch8() + s.X))
		s.setNZ(s.A)
		return 4
	case 0xe5: // MOV A,abs
		s.A = s.read(s.fetch16())
		s.setNZ(s.A)
		return 4
	case 0xf5: // MOV A,abs+X
		s.A = s.read(s.fetch16() + uint16(s.X))
		s.setNZ(s.A)
		return 5
	case 0xf6: // MOV A,abs+Y
		s.A = s.read(s.fetch16() + uint16(s.Y))
		s.setNZ(s.A)
		return 5
	case 0xe6: // MOV A,(X)
		s.A = s.read(s.dpAddr(s.X))
		s.setNZ(s.A)
		return 3
	case 0xbf: // MOV A,(X)+
		addr := s.dpAddr(s.X)
		s.A = s.read(addr)
		s.X++
		s.setNZ(s.A)
		return 4
	case 0xe7: // MOV A,(dp+X)
		s.A = s.read(s.indexedIndirect())
		s.setNZ(s.A)
		return 6
	case 0xf7: // MOV A,[dp]+Y ("(dp)+Y")
		s.A = s.read(s.indirectIndexed())
		s.setNZ(s.A)
		return 6

	// ---- MOV X/Y,x ----
	case 0xcd: // MOV X,#imm
		s.X = s.fetch8()
		s.setNZ(s.X)
		return 2
	case 0xf8: // MOV X,dp
		s.X = s.read(s.dpAddr(s.fetch8()))
		s.setNZ(s.X)
		return 3
	case 0xf9: // MOV X,dp+Y
		s.X = s.read(s.dpAddr(s.fetch8() + s.Y))
		s.setNZ(s.X)
		return 4
	case 0xe9: // MOV X,abs
		s.X = s.read(s.fetch16())
		s.setNZ(s.X)
		return 4
	case 0x8d: // MOV Y,#imm
		s.Y = s.fetch8()
		s.setNZ(s.Y)
		return 2
	case 0xeb: // MOV Y,dp
		s.Y = s.read(s.dpAddr(s.fetch8()))
		s.setNZ(s.Y)
		return 3
	case 0xfb: // MOV Y,dp+X
		s.Y = s.read(s.dpAddr(s.fetch8() + s.X))
		s.setNZ(s.Y)
		return 4
	case 0xec: // MOV Y,abs
		s.Y = s.read(s.fetch16())
		s.setNZ(s.Y)
		return 4

	// ---- MOV x,A / stores ----
	case 0xc4: // MOV dp,A
		s.write(s.dpAddr(s.fetch8()), s.A)
		return 4
	case 0xd4: // MOV dp+X,A
		s.write(s.dpAddr(s.fetch8()+s.X), s.A)
		return 5
	case 0xc5: // MOV abs,A
		s.write(s.fetch16(), s.A)
		return 5
	case 0xd5: // MOV abs+X,A
		s.write(s.fetch16()+uint16(s.X), s.A)
		return 6
	case 0xd6: // MOV abs+Y,A
		s.write(s.fetch16()+uint16(s.Y), s.A)
		return 6
	case 0xc6: // MOV (X),A
		s.write(s.dpAddr(s.X), s.A)
		return 4
	case 0xaf: // MOV (X)+,A
		addr := s.dpAddr(s.X)
		s.write(addr, s.A)
		s.X++
		return 4
	case 0xc7: // MOV (dp+X),A
		s.write(s.indexedIndirect(), s.A)
		return 7
	case 0xd7: // MOV [dp]+Y,A
		s.write(s.indirectIndexed(), s.A)
		return 7
	case 0xd8: // MOV dp,X
		s.write(s.dpAddr(s.fetch8()), s.X)
		return 4
	case 0xd9: // MOV dp+Y,X
		s.write(s.dpAddr(s.fetch8()+s.Y), s.X)
		return 5
	case 0xc9: // MOV abs,X
		s.write(s.fetch16(), s.X)
		return 5
	case 0xcb: // MOV dp,Y
		s.write(s.dpAddr(s.fetch8()), s.Y)
		return 4
	case 0xdb: // MOV dp+X,Y
		s.write(s.dpAddr(s.fetch8()+s.X), s.Y)
		return 5
	case 0xcc: // MOV abs,Y
		s.write(s.fetch16(), s.Y)
		return 5
	case 0xfa: // MOV dp,dp (src then dst)
		src := s.read(s.dpAddr(s.fetch8()))
		s.write(s.dpAddr(s.fetch8()), src)
		return 5
	case 0x8f: // MOV dp,#imm
		val := s.fetch8()
		addr := s.dpAddr(s.fetch8())
		s.write(addr, val)
		return 5

	// ---- register transfers ----
	case 0x7d: // MOV A,X
		s.A = s.X
		s.setNZ(s.A)
		return 2
	case 0xdd: // MOV A,Y
		s.A = s.Y
		s.setNZ(s.A)
		return 2
	case 0x5d: // MOV X,A
		s.X = s.A
		s.setNZ(s.X)
		return 2
	case 0xfd: // MOV Y,A
		s.Y = s.A
		s.setNZ(s.Y)
		return 2
	case 0x9d: // MOV X,SP
		s.X = s.SP
		s.setNZ(s.X)
		return 2
	case 0xbd: // MOV SP,X
		s.SP = s.X
		return 2

	// ---- 8-bit ALU: A,#imm / A,dp / A,abs / A,dp+X / A,abs+X / A,abs+Y / A,(X) / A,(dp+X) / A,[dp]+Y ----
	case 0x88:
		s.adc(s.fetch8())
		return 2
	case 0x84:
		s.adc(s.read(s.dpAddr(s.fetch8())))
		return 3
	case 0x85:
		s.adc(s.read(s.fetch16()))
		return 4
	case 0x94:
		s.adc(s.read(s.dpAddr(s.fetch8() + s.X)))
		return 4
	case 0x95:
		s.adc(s.read(s.fetch16() + uint16(s.X)))
		return 5
	case 0x96:
		s.adc(s.read(s.fetch16() + uint16(s.Y)))
		return 5
	case 0x86:
		s.adc(s.read(s.dpAddr(s.X)))
		return 3
	case 0x87:
		s.adc(s.read(s.indexedIndirect()))
		return 6
	case 0x97:
		s.adc(s.read(s.indirectIndexed()))
		return 6
	case 0x89: // ADC dp,dp
		s.aluDpDp(s.adcTo)
		return 6
	case 0x98: // ADC dp,#imm
		s.aluDpImm(s.adcTo)
		return 5
	case 0x99: // ADC (X),(Y)
		s.aluXY(s.adcTo)
		return 5

	case 0xa8:
		s.sbc(s.fetch8())
		return 2
	case 0xa4:
		s.sbc(s.read(s.dpAddr(s.fetch8())))
		return 3
	case 0xa5:
		s.sbc(s.read(s.fetch16()))
		return 4
	case 0xb4:
		s.sbc(s.read(s.dpAddr(s.fetch8() + s.X)))
		return 4
	case 0xb5:
		s.sbc(s.read(s.fetch16() + uint16(s.X)))
		return 5
	case 0xb6:
		s.sbc(s.read(s.fetch16() + uint16(s.Y)))
		return 5
	case 0xa6:
		s.sbc(s.read(s.dpAddr(s.X)))
		return 3
	case 0xa7:
		s.sbc(s.read(s.indexedIndirect()))
		return 6
	case 0xb7:
		s.sbc(s.read(s.indirectIndexed()))
		return 6
	case 0xa9: // SBC dp,dp
		s.aluDpDp(s.sbcTo)
		return 6
	case 0xb8: // SBC dp,#imm
		s.aluDpImm(s.sbcTo)
		return 5
	case 0xb9: // SBC (X),(Y)
		s.aluXY(s.sbcTo)
		return 5

	case 0x68:
		s.cmp(s.A, s.fetch8())
		return 2
	case 0x64:
		s.cmp(s.A, s.read(s.dpAddr(s.fetch8())))
		return 3
	case 0x65:
		s.cmp(s.A, s.read(s.fetch16()))
		return 4
	case 0x74:
		s.cmp(s.A, s.read(s.dpAddr(s.fetch8()+s.X)))
		return 4
	case 0x75:
		s.cmp(s.A, s.read(s.fetch16()+uint16(s.X)))
		return 5
	case 0x76:
		s.cmp(s.A, s.read(s.fetch16()+uint16(s.Y)))
		return 5
	case 0x66:
		s.cmp(s.A, s.read(s.dpAddr(s.X)))
		return 3
	case 0x67:
		s.cmp(s.A, s.read(s.indexedIndirect()))
		return 6
	case 0x77:
		s.cmp(s.A, s.read(s.indirectIndexed()))
		return 6
	case 0x69: // CMP dp,dp
		a := s.read(s.dpAddr(s.fetch8()))
		b := s.dpAddr(s.fetch8())
		s.cmp(s.read(b), a)
		return 6
	case 0x78: // CMP dp,#imm
		imm := s.fetch8()
		addr := s.dpAddr(s.fetch8())
		s.cmp(s.read(addr), imm)
		return 5
	case 0x79: // CMP (X),(Y)
		s.cmp(s.read(s.dpAddr(s.X)), s.read(s.dpAddr(s.Y)))
		return 5
	case 0xc8: // CMP X,#imm
		s.cmp(s.X, s.fetch8())
		return 2
	case 0x3e: // CMP X,dp
		s.cmp(s.X, s.read(s.dpAddr(s.fetch8())))
		return 3
	case 0x1e: // CMP X,abs
		s.cmp(s.X, s.read(s.fetch16()))
		return 4
	case 0xad: // CMP Y,#imm
		s.cmp(s.Y, s.fetch8())
		return 2
	case 0x7e: // CMP Y,dp
		s.cmp(s.Y, s.read(s.dpAddr(s.fetch8())))
		return 3
	case 0x5e: // CMP Y,abs
		s.cmp(s.Y, s.read(s.fetch16()))
		return 4

	case 0x28:
		s.A &= s.fetch8()
		s.setNZ(s.A)
		return 2
	case 0x24:
		s.A &= s.read(s.dpAddr(s.fetch8()))
		s.setNZ(s.A)
		return 3
	case 0x25:
		s.A &= s.read(s.fetch16())
		s.setNZ(s.A)
		return 4
	case 0x34:
		s.A &= s.read(s.dpAddr(s.fetch8() + s.X))
		s.setNZ(s.A)
		return 4
	case 0x35:
		s.A &= s.read(s.fetch16() + uint16(s.X))
		s.setNZ(s.A)
		return 5
	case 0x36:
		s.A &= s.read(s.fetch16() + uint16(s.Y))
		s.setNZ(s.A)
		return 5
	case 0x26:
		s.A &= s.read(s.dpAddr(s.X))
		s.setNZ(s.A)
		return 3
	case 0x27:
		s.A &= s.read(s.indexedIndirect())
		s.setNZ(s.A)
		return 6
	case 0x37:
		s.A &= s.read(s.indirectIndexed())
		s.setNZ(s.A)
		return 6
	case 0x29: // AND dp,dp
		s.aluDpDp(func(dst, src uint8) uint8 { r := dst & src; s.setNZ(r); return r })
		return 6
	case 0x38: // AND dp,#imm
		s.aluDpImm(func(dst, src uint8) uint8 { r := dst & src; s.setNZ(r); return r })
		return 5
	case 0x39: // AND (X),(Y)
		s.aluXY(func(dst, src uint8) uint8 { r := dst & src; s.setNZ(r); return r })
		return 5

	case 0x08:
		s.A |= s.fetch8()
		s.setNZ(s.A)
		return 2
	case 0x04:
		s.A |= s.read(s.dpAddr(s.fetch8()))
		s.setNZ(s.A)
		return 3
	case 0x05:
		s.A |= s.read(s.fetch16())
		s.setNZ(s.A)
		return 4
	case 0x14:
		s.A |= s.read(s.dpAddr(s.fetch8() + s.X))
		s.setNZ(s.A)
		return 4
	case 0x15:
		s.A |= s.read(s.fetch16() + uint16(s.X))
		s.setNZ(s.A)
		return 5
	case 0x16:
		s.A |= s.read(s.fetch16() + uint16(s.Y))
		s.setNZ(s.A)
		return 5
	case 0x06:
		s.A |= s.read(s.dpAddr(s.X))
		s.setNZ(s.A)
		return 3
	case 0x07:
		s.A |= s.read(s.indexedIndirect())
		s.setNZ(s.A)
		return 6
	case 0x17:
		s.A |= s.read(s.indirectIndexed())
		s.setNZ(s.A)
		return 6
	case 0x09: // OR dp,dp
		s.aluDpDp(func(dst, src uint8) uint8 { r := dst | src; s.setNZ(r); return r })
		return 6
	case 0x18: // OR dp,#imm
		s.aluDpImm(func(dst, src uint8) uint8 { r := dst | src; s.setNZ(r); return r })
		return 5
	case 0x19: // OR (X),(Y)
		s.aluXY(func(dst, src uint8) uint8 { r := dst | src; s.setNZ(r); return r })
		return 5

	case 0x48:
		s.A ^= s.fetch8()
		s.setNZ(s.A)
		return 2
	case 0x44:
		s.A ^= s.read(s.dpAddr(s.fetch8()))
		s.setNZ(s.A)
		return 3
	case 0x45:
		s.A ^= s.read(s.fetch16())
		s.setNZ(s.A)
		return 4
	case 0x54:
		s.A ^= s.read(s.dpAddr(s.fetch8() + s.X))
		s.setNZ(s.A)
		return 4
	case 0x55:
		s.A ^= s.read(s.fetch16() + uint16(s.X))
		s.setNZ(s.A)
		return 5
	case 0x56:
		s.A ^= s.read(s.fetch16() + uint16(s.Y))
		s.setNZ(s.A)
		return 5
	case 0x46:
		s.A ^= s.read(s.dpAddr(s.X))
		s.setNZ(s.A)
		return 3
	case 0x47:
		s.A ^= s.read(s.indexedIndirect())
		s.setNZ(s.A)
		return 6
	case 0x57:
		s.A ^= s.read(s.indirectIndexed())
		s.setNZ(s.A)
		return 6
	case 0x49: // EOR dp,dp
		s.aluDpDp(func(dst, src uint8) uint8 { r := dst ^ src; s.setNZ(r); return r })
		return 6
	case 0x58: // EOR dp,#imm
		s.aluDpImm(func(dst, src uint8) uint8 { r := dst ^ src; s.setNZ(r); return r })
		return 5
	case 0x59: // EOR (X),(Y)
		s.aluXY(func(dst, src uint8) uint8 { r := dst ^ src; s.setNZ(r); return r })
		return 5

	// ---- INC/DEC ----
	case 0xbc:
		s.A++
		s.setNZ(s.A)
		return 2
	case 0x9c:
		s.A--
		s.setNZ(s.A)
		return 2
	case 0x3d:
		s.X++
		s.setNZ(s.X)
		return 2
	case 0x1d:
		s.X--
		s.setNZ(s.X)
		return 2
	case 0xfc:
		s.Y++
		s.setNZ(s.Y)
		return 2
	case 0xdc:
		s.Y--
		s.setNZ(s.Y)
		return 2
	case 0xab: // INC dp
		s.memRMW(s.dpAddr(s.fetch8()), func(v uint8) uint8 { r := v + 1; s.setNZ(r); return r })
		return 4
	case 0xbb: // INC dp+X
		s.memRMW(s.dpAddr(s.fetch8()+s.X), func(v uint8) uint8 { r := v + 1; s.setNZ(r); return r })
		return 5
	case 0xac: // INC abs
		s.memRMW(s.fetch16(), func(v uint8) uint8 { r := v + 1; s.setNZ(r); return r })
		return 5
	case 0x8b: // DEC dp
		s.memRMW(s.dpAddr(s.fetch8()), func(v uint8) uint8 { r := v - 1; s.setNZ(r); return r })
		return 4
	case 0x9b: // DEC dp+X
		s.memRMW(s.dpAddr(s.fetch8()+s.X), func(v uint8) uint8 { r := v - 1; s.setNZ(r); return r })
		return 5
	case 0x8c: // DEC abs
		s.memRMW(s.fetch16(), func(v uint8) uint8 { r := v - 1; s.setNZ(r); return r })
		return 5

	// ---- shifts/rotates, accumulator form ----
	case 0x1c: // ASL A
		s.C = s.A&0x80 != 0
		s.A <<= 1
		s.setNZ(s.A)
		return 2
	case 0x5c: // LSR A
		s.C = s.A&0x01 != 0
		s.A >>= 1
		s.setNZ(s.A)
		return 2
	case 0x3c: // ROL A
		old := s.C
		s.C = s.A&0x80 != 0
		s.A <<= 1
		if old {
			s.A |= 1
		}
		s.setNZ(s.A)
		return 2
	case 0x7c: // ROR A
		old := s.C
		s.C = s.A&0x01 != 0
		s.A >>= 1
		if old {
			s.A |= 0x80
		}
		s.setNZ(s.A)
		return 2
	// ---- shifts/rotates, memory form ----
	case 0x0b: // ASL dp
		s.memRMW(s.dpAddr(s.fetch8()), s.aslVal)
		return 4
	case 0x1b: // ASL dp+X
		s.memRMW(s.dpAddr(s.fetch8()+s.X), s.aslVal)
		return 5
	case 0x0c: // ASL abs
		s.memRMW(s.fetch16(), s.aslVal)
		return 5
	case 0x4b: // LSR dp
		s.memRMW(s.dpAddr(s.fetch8()), s.lsrVal)
		return 4
	case 0x5b: // LSR dp+X
		s.memRMW(s.dpAddr(s.fetch8()+s.X), s.lsrVal)
		return 5
	case 0x4c: // LSR abs
		s.memRMW(s.fetch16(), s.lsrVal)
		return 5
	case 0x2b: // ROL dp
		s.memRMW(s.dpAddr(s.fetch8()), s.rolVal)
		return 4
	case 0x3b: // ROL dp+X
		s.memRMW(s.dpAddr(s.fetch8()+s.X), s.rolVal)
		return 5
	case 0x2c: // ROL abs
		s.memRMW(s.fetch16(), s.rolVal)
		return 5
	case 0x6b: // ROR dp
		s.memRMW(s.dpAddr(s.fetch8()), s.rorVal)
		return 4
	case 0x7b: // ROR dp+X
		s.memRMW(s.dpAddr(s.fetch8()+s.X), s.rorVal)
		return 5
	case 0x6c: // ROR abs
		s.memRMW(s.fetch16(), s.rorVal)
		return 5

	// ---- 16-bit YA ops ----
	case 0xba: // MOVW YA,dp
		addr := s.dpAddr(s.fetch8())
		lo := s.read(addr)
		hi := s.read(addr + 1)
		s.A, s.Y = lo, hi
		s.setNZ16(uint16(hi)<<8 | uint16(lo))
		return 5
	case 0xda: // MOVW dp,YA (no flags)
		addr := s.dpAddr(s.fetch8())
		s.write(addr, s.A)
		s.write(addr+1, s.Y)
		return 5
	case 0x3a: // INCW dp
		addr := s.dpAddr(s.fetch8())
		w := s.readWord(addr) + 1
		s.writeWord(addr, w)
		s.setNZ16(w)
		return 6
	case 0x1a: // DECW dp
		addr := s.dpAddr(s.fetch8())
		w := s.readWord(addr) - 1
		s.writeWord(addr, w)
		s.setNZ16(w)
		return 6
	case 0x7a: // ADDW YA,dp
		addr := s.dpAddr(s.fetch8())
		ya := uint16(s.Y)<<8 | uint16(s.A)
		operand := s.readWord(addr)
		sum := uint32(ya) + uint32(operand)
		s.H = (ya&0xfff)+(operand&0xfff) > 0xfff
		s.V = (ya^uint16(sum))&(operand^uint16(sum))&0x8000 != 0
		s.C = sum > 0xffff
		result := uint16(sum)
		s.A, s.Y = uint8(result), uint8(result>>8)
		s.setNZ16(result)
		return 5
	case 0x9a: // SUBW YA,dp
		addr := s.dpAddr(s.fetch8())
		ya := uint16(s.Y)<<8 | uint16(s.A)
		operand := s.readWord(addr)
		diff := uint32(ya) - uint32(operand)
		s.H = ya&0xfff < operand&0xfff
		s.V = (ya^operand)&(ya^uint16(diff))&0x8000 != 0
		s.C = ya >= operand
		result := uint16(diff)
		s.A, s.Y = uint8(result), uint8(result>>8)
		s.setNZ16(result)
		return 5
	case 0x5a: // CMPW YA,dp
		addr := s.dpAddr(s.fetch8())
		ya := uint16(s.Y)<<8 | uint16(s.A)
		operand := s.readWord(addr)
		diff := ya - operand
		s.C = ya >= operand
		s.setNZ16(diff)
		return 4

	// ---- branches ----
	case 0x2f: // BRA
		s.branch(true)
		return 4
	case 0xf0: // BEQ
		s.branch(s.Z)
		return 4
	case 0xd0: // BNE
		s.branch(!s.Z)
		return 4
	case 0xb0: // BCS
		s.branch(s.C)
		return 4
	case 0x90: // BCC
		s.branch(!s.C)
		return 4
	case 0x70: // BVS
		s.branch(s.V)
		return 4
	case 0x50: // BVC
		s.branch(!s.V)
		return 4
	case 0x30: // BMI
		s.branch(s.N)
		return 4
	case 0x10: // BPL
		s.branch(!s.N)
		return 4

	// ---- bit-test branches, decrement/compare-and-branch ----
	case 0x2e: // CBNE dp,rel
		addr := s.dpAddr(s.fetch8())
		val := s.read(addr)
		s.branch(s.A != val)
		return 6
	case 0xde: // CBNE dp+X,rel
		addr := s.dpAddr(s.fetch8() + s.X)
		val := s.read(addr)
		s.branch(s.A != val)
		return 7
	case 0x6e: // DBNZ dp,rel
		addr := s.dpAddr(s.fetch8())
		v := s.read(addr) - 1
		s.write(addr, v)
		s.branch(v != 0)
		return 6
	case 0xfe: // DBNZ Y,rel
		s.Y--
		s.branch(s.Y != 0)
		return 5

	case 0x03, 0x23, 0x43, 0x63, 0x83, 0xa3, 0xc3, 0xe3: // BBS bit,dp,rel
		bit := opcode >> 5
		addr := s.dpAddr(s.fetch8())
		val := s.read(addr)
		s.branch(val&(1<<bit) != 0)
		return 5
	case 0x13, 0x33, 0x53, 0x73, 0x93, 0xb3, 0xd3, 0xf3: // BBC bit,dp,rel
		bit := opcode >> 5
		addr := s.dpAddr(s.fetch8())
		val := s.read(addr)
		s.branch(val&(1<<bit) == 0)
		return 5

	// ---- single-bit set/clear on direct page ----
	case 0x02, 0x22, 0x42, 0x62, 0x82, 0xa2, 0xc2, 0xe2: // SET1 dp.bit
		bit := opcode >> 5
		addr := s.dpAddr(s.fetch8())
		s.write(addr, s.read(addr)|(1<<bit))
		return 4
	case 0x12, 0x32, 0x52, 0x72, 0x92, 0xb2, 0xd2, 0xf2: // CLR1 dp.bit
		bit := opcode >> 5
		addr := s.dpAddr(s.fetch8())
		s.write(addr, s.read(addr)&^(1<<bit))
		return 4

	// ---- carry/memory-bit logic ----
	case 0x0a: // OR1 C,mem.bit
		bit, val := s.memBit()
		if val&(1<<bit) != 0 {
			s.C = true
		}
		return 5
	case 0x2a: // AND1 C,/mem.bit
		bit, val := s.memBit()
		if val&(1<<bit) != 0 {
			s.C = false
		}
		return 4
	case 0x4a: // AND1 C,mem.bit
		bit, val := s.memBit()
		s.C = s.C && val&(1<<bit) != 0
		return 4
	case 0x6a: // OR1 C,/mem.bit
		bit, val := s.memBit()
		if val&(1<<bit) == 0 {
			s.C = true
		}
		return 5
	case 0x8a: // EOR1 C,mem.bit
		bit, val := s.memBit()
		s.C = s.C != (val&(1<<bit) != 0)
		return 5
	case 0xaa: // MOV1 C,mem.bit
		bit, val := s.memBit()
		s.C = val&(1<<bit) != 0
		return 4
	case 0xca: // MOV1 mem.bit,C
		word := s.fetch16()
		bit := uint8(word >> 13)
		addr := word & 0x1fff
		val := s.read(addr)
		if s.C {
			val |= 1 << bit
		} else {
			val &^= 1 << bit
		}
		s.write(addr, val)
		return 6
	case 0xea: // NOT1 mem.bit
		word := s.fetch16()
		bit := uint8(word >> 13)
		addr := word & 0x1fff
		s.write(addr, s.read(addr)^(1<<bit))
		return 5

	case 0x0e: // TSET1 abs
		addr := s.fetch16()
		mem := s.read(addr)
		s.cmp(s.A, mem)
		s.write(addr, mem|s.A)
		return 6
	case 0x4e: // TCLR1 abs
		addr := s.fetch16()
		mem := s.read(addr)
		s.cmp(s.A, mem)
		s.write(addr, mem&^s.A)
		return 6

	// ---- subroutine / stack / interrupt-ish ----
	case 0x3f: // CALL abs
		target := s.fetch16()
		s.push16(s.PC)
		s.PC = target
		return 8
	case 0x4f: // PCALL upage8
		target := 0xff00 | uint16(s.fetch8())
		s.push16(s.PC)
		s.PC = target
		return 6
	case 0x01, 0x11, 0x21, 0x31, 0x41, 0x51, 0x61, 0x71,
		0x81, 0x91, 0xa1, 0xb1, 0xc1, 0xd1, 0xe1, 0xf1: // TCALL n
		n := uint16(opcode >> 4)
		vector := uint16(0xffde) - n*2
		lo := uint16(s.read(vector))
		hi := uint16(s.read(vector + 1))
		s.push16(s.PC)
		s.PC = lo | hi<<8
		return 8
	case 0x0f: // BRK
		s.push16(s.PC)
		s.push8(s.statusByte())
		s.B = true
		s.I = true
		lo := uint16(s.read(0xffde))
		hi := uint16(s.read(0xffdf))
		s.PC = lo | hi<<8
		return 8
	case 0x5f: // JMP abs
		s.PC = s.fetch16()
		return 3
	case 0x1f: // JMP [abs+X]
		base := s.fetch16() + uint16(s.X)
		lo := uint16(s.read(base))
		hi := uint16(s.read(base + 1))
		s.PC = lo | hi<<8
		return 6
	case 0x6f: // RET
		s.PC = s.pop16()
		return 5
	case 0x7f: // RETI
		s.setStatusByte(s.pop8())
		s.PC = s.pop16()
		return 6
	case 0x2d: // PUSH A
		s.push8(s.A)
		return 4
	case 0x4d: // PUSH X
		s.push8(s.X)
		return 4
	case 0x6d: // PUSH Y
		s.push8(s.Y)
		return 4
	case 0x0d: // PUSH PSW
		s.push8(s.statusByte())
		return 4
	case 0xae: // POP A
		s.A = s.pop8()
		return 4
	case 0xce: // POP X
		s.X = s.pop8()
		return 4
	case 0xee: // POP Y
		s.Y = s.pop8()
		return 4
	case 0x8e: // POP PSW
		s.setStatusByte(s.pop8())
		return 4

	// ---- flags ----
	case 0x60: // CLRC
		s.C = false
		return 2
	case 0x80: // SETC
		s.C = true
		return 2
	case 0xed: // NOTC
		s.C = !s.C
		return 3
	case 0xe0: // CLRV
		s.V = false
		s.H = false
		return 2
	case 0xa0: // EI
		s.I = true
		return 3
	case 0xc0: // DI
		s.I = false
		return 3
	case 0x20: // CLRP
		s.P = false
		return 2
	case 0x40: // SETP
		s.P = true
		return 2

	// ---- misc accumulator ops ----
	case 0x9f: // XCN A
		s.A = s.A<<4 | s.A>>4
		s.setNZ(s.A)
		return 5
	case 0xdf: // DAA A
		s.daa()
		return 3
	case 0xbe: // DAS A
		s.das()
		return 3

	// ---- MUL/DIV ----
	case 0xcf: // MUL YA
		product := uint16(s.Y) * uint16(s.A)
		s.A = uint8(product)
		s.Y = uint8(product >> 8)
		s.setNZ(s.Y)
		return 9
	case 0x9e: // DIV YA,X
		ya := uint16(s.Y)<<8 | uint16(s.A)
		if s.X == 0 {
			s.A = 0xff
			s.V = true
		} else {
			s.A = uint8(ya / uint16(s.X))
			s.Y = uint8(ya % uint16(s.X))
			s.V = false
		}
		s.setNZ(s.A)
		return 12

	default:
		return 2
	}
}

// dpAddr resolves a direct-page offset against the P flag's page base.
func (s *spc700) dpAddr(offset uint8) uint16 {
	return s.dpBase() + uint16(offset)
}

func (s *spc700) readWord(addr uint16) uint16 {
	lo := uint16(s.read(addr))
	hi := uint16(s.read(addr + 1))
	return lo | hi<<8
}

func (s *spc700) writeWord(addr uint16, v uint16) {
	s.write(addr, uint8(v))
	s.write(addr+1, uint8(v>>8))
}

func (s *spc700) setNZ16(v uint16) {
	s.Z = v == 0
	s.N = v&0x8000 != 0
}

// indexedIndirect resolves the "(dp+X)" addressing mode: a 16-bit pointer
// stored at dpBase+dp+X.
func (s *spc700) indexedIndirect() uint16 {
	ptr := s.dpAddr(s.fetch8() + s.X)
	return s.readWord(ptr)
}

// indirectIndexed resolves the "[dp]+Y" addressing mode: a 16-bit pointer
// stored at dpBase+dp, then offset by Y.
func (s *spc700) indirectIndexed() uint16 {
	ptr := s.dpAddr(s.fetch8())
	return s.readWord(ptr) + uint16(s.Y)
}

// memBit decodes the 13-bit-address/3-bit-bit operand shared by the
// OR1/AND1/EOR1/MOV1/NOT1 instructions.
func (s *spc700) memBit() (bit uint8, val uint8) {
	word := s.fetch16()
	bit = uint8(word >> 13)
	addr := word & 0x1fff
	return bit, s.read(addr)
}

// memRMW reads, transforms, and writes back a single memory byte, the
// shape shared by ASL/LSR/ROL/ROR/INC/DEC's memory-operand forms.
func (s *spc700) memRMW(addr uint16, op func(uint8) uint8) {
	s.write(addr, op(s.read(addr)))
}

func (s *spc700) aslVal(v uint8) uint8 {
	s.C = v&0x80 != 0
	r := v << 1
	s.setNZ(r)
	return r
}

func (s *spc700) lsrVal(v uint8) uint8 {
	s.C = v&0x01 != 0
	r := v >> 1
	s.setNZ(r)
	return r
}

func (s *spc700) rolVal(v uint8) uint8 {
	old := s.C
	s.C = v&0x80 != 0
	r := v << 1
	if old {
		r |= 1
	}
	s.setNZ(r)
	return r
}

func (s *spc700) rorVal(v uint8) uint8 {
	old := s.C
	s.C = v&0x01 != 0
	r := v >> 1
	if old {
		r |= 0x80
	}
	s.setNZ(r)
	return r
}

// aluDpDp implements the "op dp,dp" shape (source dp fetched first, then
// destination dp), writing the transform's result back to the destination.
func (s *spc700) aluDpDp(op func(dst, src uint8) uint8) {
	src := s.read(s.dpAddr(s.fetch8()))
	dstAddr := s.dpAddr(s.fetch8())
	s.write(dstAddr, op(s.read(dstAddr), src))
}

// aluDpImm implements the "op dp,#imm" shape (immediate fetched first,
// matching MOV dp,#imm's operand order), writing back to the dp operand.
func (s *spc700) aluDpImm(op func(dst, src uint8) uint8) {
	imm := s.fetch8()
	dstAddr := s.dpAddr(s.fetch8())
	s.write(dstAddr, op(s.read(dstAddr), imm))
}

// aluXY implements the "op (X),(Y)" shape: destination is (X), source (Y).
func (s *spc700) aluXY(op func(dst, src uint8) uint8) {
	dstAddr := s.dpAddr(s.X)
	src := s.read(s.dpAddr(s.Y))
	s.write(dstAddr, op(s.read(dstAddr), src))
}

func (s *spc700) adcTo(dst, src uint8) uint8 {
	savedA := s.A
	s.A = dst
	s.adc(src)
	result := s.A
	s.A = savedA
	return result
}

func (s *spc700) sbcTo(dst, src uint8) uint8 {
	savedA := s.A
	s.A = dst
	s.sbc(src)
	result := s.A
	s.A = savedA
	return result
}

func (s *spc700) branch(cond bool) {
	offset := s.fetch8()
	if cond {
		s.PC = uint16(int32(s.PC) + int32(int8(offset)))
	}
}

func (s *spc700) adc(operand uint8) {
	carry := uint16(0)
	if s.C {
		carry = 1
	}
	sum := uint16(s.A) + uint16(operand) + carry
	s.H = (s.A&0xf)+(operand&0xf)+uint8(carry) > 0xf
	s.V = (s.A^uint8(sum))&(operand^uint8(sum))&0x80 != 0
	s.C = sum > 0xff
	s.A = uint8(sum)
	s.setNZ(s.A)
}

func (s *spc700) sbc(operand uint8) {
	s.adc(^operand)
}

func (s *spc700) cmp(reg, operand uint8) {
	result := reg - operand
	s.C = reg >= operand
	s.setNZ(result)
}

// daa implements decimal-adjust-after-add: nibble correction driven by the
// carry/half-carry flags left over from the preceding ADC, matching the
// documented SPC700 behavior (correction magnitude independent of sign).
func (s *spc700) daa() {
	if s.C || s.A > 0x99 {
		s.A += 0x60
		s.C = true
	}
	if s.H || s.A&0x0f > 0x09 {
		s.A += 0x06
	}
	s.setNZ(s.A)
}

// das implements decimal-adjust-after-subtract, the SBC-side counterpart.
func (s *spc700) das() {
	if !s.C || s.A > 0x99 {
		s.A -= 0x60
		s.C = false
	}
	if !s.H || s.A&0x0f > 0x09 {
		s.A -= 0x06
	}
	s.setNZ(s.A)
}
