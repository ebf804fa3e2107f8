package cartridge

// header.go scores the three candidate SNES header locations the way
// LakeSNES's snes_loadRom/readHeader does: read each candidate, award
// points for plausibility, and pick the highest scorer. Headered ROMs
// (with a 512-byte copier header prepended) are tried as a second
// candidate offset by 0x200 for each mapping.

const (
	locLoROM        = 0x7fc0
	locLoROMHeader  = 0x81c0
	locHiROM        = 0xffc0
	locHiROMHeader  = 0x101c0
	locExHiROM      = 0x40ffc0
	locExHiROMHdr   = 0x4101c0
	copierHeaderLen = 0x200
)

type candidateHeader struct {
	name             string
	speed            uint8
	cartTypeField    uint8
	coprocessor      uint8
	chips            uint8
	romSize          uint32
	ramSize          uint32
	region           uint8
	checksum         uint16
	checksumComp     uint16
	score            int
	pal              bool
	mapper           MapperType
	headeredLocation bool
}

func readCandidate(data []byte, location int) candidateHeader {
	h := candidateHeader{score: -50}
	if location+0x40 > len(data) || location < 0 {
		return h
	}

	nameBytes := make([]byte, 21)
	for i := 0; i < 21; i++ {
		ch := data[location+i]
		if ch >= 0x20 && ch < 0x7f {
			nameBytes[i] = ch
		} else {
			nameBytes[i] = '.'
		}
	}
	h.name = string(nameBytes)

	h.speed = data[location+0x15] >> 4
	h.cartTypeField = data[location+0x15] & 0xf
	h.coprocessor = data[location+0x16] >> 4
	h.chips = data[location+0x16] & 0xf
	h.romSize = 0x400 << data[location+0x17]
	h.ramSize = 0x400 << data[location+0x18]
	h.region = data[location+0x19]
	h.checksumComp = uint16(data[location+0x1c]) | uint16(data[location+0x1d])<<8
	h.checksum = uint16(data[location+0x1e]) | uint16(data[location+0x1f])<<8

	h.pal = (h.region >= 0x2 && h.region <= 0xc) || h.region == 0x11
	if location < 0x9000 {
		h.mapper = MapperLoROM
	} else {
		h.mapper = MapperHiROM
	}
	if location > 0x400000 {
		h.mapper = MapperExHiROM
	}

	score := 0
	if h.speed == 2 || h.speed == 3 {
		score += 5
	} else {
		score -= 4
	}
	if h.cartTypeField <= 3 || h.cartTypeField == 5 {
		score += 5
	} else {
		score -= 2
	}
	if h.coprocessor <= 5 || h.coprocessor >= 0xe {
		score += 5
	} else {
		score -= 2
	}
	if h.chips <= 6 || h.chips == 9 || h.chips == 0xa {
		score += 5
	} else {
		score -= 2
	}
	if h.region <= 0x14 {
		score += 5
	} else {
		score -= 2
	}
	if h.checksum+h.checksumComp == 0xffff {
		score += 8
	} else {
		score -= 6
	}

	resetVector := uint16(data[location+0x3c]) | uint16(data[location+0x3d])<<8
	if resetVector >= 0x8000 {
		score += 8
	} else {
		score -= 20
	}

	opcodeLoc := location + 0x40 - 0x8000 + int(resetVector&0x7fff)
	opcode := uint8(0xff)
	if opcodeLoc >= 0 && opcodeLoc < len(data) {
		opcode = data[opcodeLoc]
	} else {
		score -= 14
	}
	switch opcode {
	case 0x78, 0x18: // SEI, CLC (as in CLC:XCE)
		score += 6
	case 0x4c, 0x5c, 0x9c: // JMP abs, JML abl, STZ abs
		score += 3
	case 0x00, 0xff, 0xdb: // BRK, SBC alx, STP
		score -= 6
	}

	h.score = score
	return h
}

// chosenHeader runs the full six-candidate scoring pass (bare + headered
// variant of each of LoROM/HiROM/ExHiROM) and returns the winner along with
// the number of leading bytes to skip (0 or 0x200 for a copier header).
func chosenHeader(data []byte) (candidateHeader, int, bool) {
	length := len(data)
	var candidates [6]candidateHeader
	for i := range candidates {
		candidates[i].score = -50
	}
	if length >= 0x8000 {
		candidates[0] = readCandidate(data, locLoROM)
	}
	if length >= 0x8200 {
		candidates[1] = readCandidate(data, locLoROMHeader)
		candidates[1].headeredLocation = true
	}
	if length >= 0x10000 {
		candidates[2] = readCandidate(data, locHiROM)
	}
	if length >= 0x10200 {
		candidates[3] = readCandidate(data, locHiROMHeader)
		candidates[3].headeredLocation = true
	}
	if length >= 0x410000 {
		candidates[4] = readCandidate(data, locExHiROM)
	}
	if length >= 0x410200 {
		candidates[5] = readCandidate(data, locExHiROMHdr)
		candidates[5].headeredLocation = true
	}

	max := 0
	used := -1
	// Scan backwards so ExHiROM wins ties over HiROM for ROMs that have
	// plausible headers at both spots, matching LakeSNES.
	for i := 5; i >= 0; i-- {
		if candidates[i].score > max {
			max = candidates[i].score
			used = i
		}
	}
	if used < 0 {
		return candidateHeader{}, 0, false
	}
	skip := 0
	if candidates[used].headeredLocation {
		skip = copierHeaderLen
	}
	return candidates[used], skip, true
}

// hasBattery reports whether the header's chips code indicates a
// battery-backed cartridge. Codes follow the conventional SNES cartridge
// type table: 2, 5, 6, 9, 0xa denote a battery alongside RAM/coprocessor.
func hasBattery(chips uint8) bool {
	switch chips {
	case 2, 5, 6, 9, 0xa:
		return true
	default:
		return false
	}
}
