package ppu

// bgBitDepth gives the bits-per-pixel of each of the 4 background layers
// for a given BGMODE value. A 0 entry means the layer doesn't exist in that
// mode. Mode 2's per-tile offset feature and modes 5/6's true high-resolution
// sampling are not reproduced; both backgrounds render at the same 256-wide
// resolution as every other mode, a documented simplification.
var bgBitDepth = [8][4]int{
	{2, 2, 2, 2}, // mode 0
	{4, 4, 2, 0}, // mode 1
	{4, 4, 0, 0}, // mode 2 (offset-per-tile not modeled)
	{8, 4, 0, 0}, // mode 3
	{8, 2, 0, 0}, // mode 4
	{4, 2, 0, 0}, // mode 5 (hires not modeled)
	{4, 0, 0, 0}, // mode 6 (hires not modeled)
	{8, 0, 0, 0}, // mode 7 (affine, handled separately)
}

// priority score table, back to front, for the "standard" BG-mode priority
// ordering documented for mode 0/1: backdrop, BG4/BG3 low then high
// priority interleaved with OBJ priority tiers, then BG2/BG1. Applied
// uniformly across modes as a documented simplification of the small
// per-mode variations (e.g. BG3 priority-boost in mode 1 is handled as a
// special case in compose).
const (
	scoreBackdrop = iota
	scoreBG4Lo
	scoreBG3Lo
	scoreOBJ0
	scoreBG4Hi
	scoreBG3Hi
	scoreOBJ1
	scoreBG2Lo
	scoreBG1Lo
	scoreOBJ2
	scoreBG2Hi
	scoreBG1Hi
	scoreOBJ3
	scoreBG3Boosted // mode 1 bg3Priority: BG3 high-priority tiles rank above OBJ3
)

type pixelContribution struct {
	score int
	color uint16 // 15-bit BGR555
	valid bool
}

// RenderLine composites background and OBJ layers for visible scanline v
// (1-based, matching the bus's H=512 hook which renders the line just
// completing) into the output frame buffer, duplicating each sample to
// fill the fixed 512x480 output.
func (p *PPU) RenderLine(v int) {
	if v < 1 || v > 240 {
		return
	}
	row := v - 1

	var line [256]uint16
	if p.forcedBlank {
		line = [256]uint16{}
	} else if p.bgMode == 7 {
		p.renderMode7Line(row, &line)
	} else {
		p.renderTiledLine(row, &line)
	}

	y0 := row * 2
	for x := 0; x < 256; x++ {
		rgba := bgr555ToRGBA(line[x], p.brightness)
		px0 := x * 2
		p.setPixel(px0, y0, rgba)
		p.setPixel(px0+1, y0, rgba)
		p.setPixel(px0, y0+1, rgba)
		p.setPixel(px0+1, y0+1, rgba)
	}
}

func (p *PPU) setPixel(x, y int, rgba [4]uint8) {
	if x < 0 || x >= 512 || y < 0 || y >= 480 {
		return
	}
	i := (y*512 + x) * 4
	p.frame[i] = rgba[0]
	p.frame[i+1] = rgba[1]
	p.frame[i+2] = rgba[2]
	p.frame[i+3] = rgba[3]
}

func bgr555ToRGBA(c uint16, brightness uint8) [4]uint8 {
	r := uint32(c&0x1f) * 255 / 31
	g := uint32((c>>5)&0x1f) * 255 / 31
	b := uint32((c>>10)&0x1f) * 255 / 31
	scale := uint32(brightness) + 1
	r = r * scale / 16
	g = g * scale / 16
	b = b * scale / 16
	if r > 255 {
		r = 255
	}
	if g > 255 {
		g = 255
	}
	if b > 255 {
		b = 255
	}
	return [4]uint8{uint8(r), uint8(g), uint8(b), 255}
}

func (p *PPU) renderTiledLine(row int, out *[256]uint16) {
	depths := bgBitDepth[p.bgMode]
	objLine := p.evaluateSprites(row)

	for x := 0; x < 256; x++ {
		best := pixelContribution{score: scoreBackdrop, color: p.CGRAM[0]}

		for bg := 0; bg < 4; bg++ {
			bpp := depths[bg]
			if bpp == 0 || p.tm&(1<<uint(bg)) == 0 {
				continue
			}
			colorIdx, palGroup, tilePriority := p.bgPixel(bg, bpp, x, row)
			if colorIdx == 0 {
				continue
			}
			score := p.bgScore(bg, tilePriority)
			color := p.paletteColor(bpp, palGroup, colorIdx)
			if score > best.score {
				best = pixelContribution{score: score, color: color, valid: true}
			}
		}

		if p.tm&0x10 != 0 {
			obj := objLine[x]
			if obj.valid {
				score := objScore(obj.priority)
				if score > best.score {
					best = pixelContribution{score: score, color: obj.color, valid: true}
				}
			}
		}

		out[x] = p.applyColorMath(best)
	}
}

func (p *PPU) bgScore(bg int, highPriority bool) int {
	if p.bgMode == 1 && bg == 2 && p.bg3Priority && highPriority {
		return scoreBG3Boosted
	}
	switch bg {
	case 0:
		if highPriority {
			return scoreBG1Hi
		}
		return scoreBG1Lo
	case 1:
		if highPriority {
			return scoreBG2Hi
		}
		return scoreBG2Lo
	case 2:
		if highPriority {
			return scoreBG3Hi
		}
		return scoreBG3Lo
	default:
		if highPriority {
			return scoreBG4Hi
		}
		return scoreBG4Lo
	}
}

func objScore(priority uint8) int {
	switch priority & 0x03 {
	case 0:
		return scoreOBJ0
	case 1:
		return scoreOBJ1
	case 2:
		return scoreOBJ2
	default:
		return scoreOBJ3
	}
}

// applyColorMath performs a reduced color-math pass: when CGADSUB enables
// math for the winning layer's class (BG/OBJ bit, or always for the
// backdrop), the fixed COLDATA color is added or subtracted (optionally
// halved). Sub-screen layer blending and window clipping are not modeled,
// a documented simplification of the real per-pixel math pipeline.
func (p *PPU) applyColorMath(best pixelContribution) uint16 {
	if !best.valid {
		return best.color
	}
	if p.cgadsub&0x80 == 0 {
		return best.color
	}
	r := int(best.color&0x1f) + int(p.coldataR)
	g := int((best.color>>5)&0x1f) + int(p.coldataG)
	b := int((best.color>>10)&0x1f) + int(p.coldataB)
	if p.cgadsub&0x80 != 0 && p.cgadsub&0x40 != 0 {
		r = int(best.color&0x1f) - int(p.coldataR)
		g = int((best.color>>5)&0x1f) - int(p.coldataG)
		b = int((best.color>>10)&0x1f) - int(p.coldataB)
	}
	if p.cgadsub&0x20 != 0 {
		r /= 2
		g /= 2
		b /= 2
	}
	r = clamp5(r)
	g = clamp5(g)
	b = clamp5(b)
	return uint16(r) | uint16(g)<<5 | uint16(b)<<10
}

func clamp5(v int) int {
	if v < 0 {
		return 0
	}
	if v > 31 {
		return 31
	}
	return v
}

// bgPixel returns the color index (0 = transparent), palette group, and
// tile priority bit for background bg at screen column x, row.
func (p *PPU) bgPixel(bg int, bpp int, x, row int) (uint8, uint8, bool) {
	hofs := int(p.bgHOFS[bg])
	vofs := int(p.bgVOFS[bg])
	if p.mosaicEnable[bg] && p.mosaicSize > 0 {
		x -= x % (int(p.mosaicSize) + 1)
		row -= row % (int(p.mosaicSize) + 1)
	}
	scrolledX := x + hofs
	scrolledY := row + vofs

	sc := p.bgSC[bg]
	size := sc & 0x03
	baseMap := uint16(sc>>2) << 10

	tx := (scrolledX >> 3)
	ty := (scrolledY >> 3)
	wide := size == 1 || size == 3
	tall := size == 2 || size == 3

	quadX := 0
	if wide {
		quadX = (tx / 32) & 1
	}
	quadY := 0
	if tall {
		quadY = (ty / 32) & 1
	}
	mapAddr := baseMap
	if quadX == 1 {
		mapAddr += 0x400
	}
	if quadY == 1 {
		if wide {
			mapAddr += 0x800
		} else {
			mapAddr += 0x400
		}
	}
	entryAddr := (mapAddr + uint16((ty%32)*32+(tx%32))) & 0x7fff
	entry := p.VRAM[entryAddr]

	tileNum := entry & 0x3ff
	hFlip := entry&0x400 != 0
	vFlip := entry&0x800 != 0
	palGroup := uint8((entry >> 10) & 0x07)
	priority := entry&0x2000 != 0

	charBase := uint16(0)
	if bg < 2 {
		charBase = uint16(p.bgNBA[0]>>(4*uint(bg))&0x0f) << 12
	} else {
		charBase = uint16(p.bgNBA[1]>>(4*uint(bg-2))&0x0f) << 12
	}

	rowInTile := scrolledY & 7
	if vFlip {
		rowInTile = 7 - rowInTile
	}
	colInTile := scrolledX & 7
	if hFlip {
		colInTile = 7 - colInTile
	}

	pixels := p.tileRow(charBase, tileNum, bpp, rowInTile)
	return pixels[colInTile], palGroup, priority
}

// tileRow decodes one 8-pixel row of tile tileNum from the bitplanes at
// charBase, bpp bits deep.
func (p *PPU) tileRow(charBase uint16, tileNum uint16, bpp int, row int) [8]uint8 {
	var out [8]uint8
	wordsPerTile := uint16(bpp) * 4
	base := charBase + tileNum*wordsPerTile
	for plane := 0; plane < bpp; plane += 2 {
		word := p.VRAM[(base+uint16(plane/2*8+row))&0x7fff]
		lo := uint8(word)
		hi := uint8(word >> 8)
		for col := 0; col < 8; col++ {
			bit := uint(7 - col)
			b0 := (lo >> bit) & 1
			b1 := (hi >> bit) & 1
			out[col] |= b0<<uint(plane) | b1<<uint(plane+1)
		}
	}
	return out
}

// paletteColor resolves a color index within a BG's palette group to a
// CGRAM entry. 8bpp layers (and mode 7) index the full 256-color table
// directly; lower depths use a 2^bpp-entry sub-palette selected by
// palGroup.
func (p *PPU) paletteColor(bpp int, palGroup, colorIdx uint8) uint16 {
	if bpp >= 8 {
		return p.CGRAM[colorIdx]
	}
	entries := uint16(1) << uint(bpp)
	idx := uint16(palGroup)*entries + uint16(colorIdx)
	return p.CGRAM[idx&0xff]
}

// renderMode7Line composites the single mode-7 affine background. The
// transform uses the documented A/B/C/D matrix and screen-center X/Y
// registers; char-over/screen-over wraparound behavior at the edges of the
// 1024x1024-pixel map is approximated as a wrap, a documented
// simplification of the three real modes (wrap/transparent/tile-repeat).
func (p *PPU) renderMode7Line(row int, out *[256]uint16) {
	hofs := signExtend13(p.bgHOFS[0])
	vofs := signExtend13(p.bgVOFS[0])

	for x := 0; x < 256; x++ {
		relX := int32(x) - 128 + int32(hofs) - int32(p.m7X)
		relY := int32(row) - 112 + int32(vofs) - int32(p.m7Y)

		srcX := ((int32(p.m7A)*relX + int32(p.m7B)*relY) >> 8) + int32(p.m7X)
		srcY := ((int32(p.m7C)*relX + int32(p.m7D)*relY) >> 8) + int32(p.m7Y)

		tileX := (srcX >> 3) & 127
		tileY := (srcY >> 3) & 127
		pixX := srcX & 7
		pixY := srcY & 7

		mapAddr := uint16(tileY*128+tileX) & 0x7fff
		tileNum := uint8(p.VRAM[mapAddr] >> 8)
		charAddr := (uint16(tileNum)*64 + uint16(pixY)*8 + uint16(pixX)) & 0x7fff
		colorIdx := uint8(p.VRAM[charAddr] >> 8)
		if colorIdx == 0 {
			out[x] = p.CGRAM[0]
			continue
		}
		out[x] = p.CGRAM[colorIdx]
	}
}

type objPixel struct {
	valid    bool
	color    uint16
	priority uint8
}

var objSizeTable = [8][2][2]int{
	{{8, 8}, {16, 16}},
	{{8, 8}, {32, 32}},
	{{8, 8}, {64, 64}},
	{{16, 16}, {32, 32}},
	{{16, 16}, {64, 64}},
	{{32, 32}, {64, 64}},
	{{16, 32}, {32, 64}},
	{{16, 32}, {32, 32}},
}

// evaluateSprites builds the OBJ layer's contribution for scanline row,
// honoring the 32-sprite and 34-tile per-line hardware limits (recorded as
// STAT77's range-over/time-over flags).
func (p *PPU) evaluateSprites(row int) [256]objPixel {
	var line [256]objPixel
	spritesOnLine := 0
	tilesOnLine := 0
	p.rangeOver = false
	p.timeOver = false

	for i := 0; i < 128; i++ {
		base := i * 4
		yByte := p.OAM[base+1]
		hiByte := p.OAM[0x200+(i>>2)]
		shift := uint((i & 3) * 2)
		xHigh := (hiByte >> shift) & 1
		sizeBit := (hiByte >> (shift + 1)) & 1

		dims := objSizeTable[p.objSize][sizeBit]
		w, h := dims[0], dims[1]

		y := int(yByte)
		spriteRow := row - y
		if spriteRow < 0 {
			spriteRow += 256
		}
		if spriteRow >= h {
			continue
		}

		if spritesOnLine >= 32 {
			p.rangeOver = true
			break
		}
		tilesOnLine += w / 8
		if tilesOnLine > 34 {
			p.timeOver = true
			break
		}
		spritesOnLine++

		xLow := p.OAM[base]
		x := int(xLow)
		if xHigh == 1 {
			x -= 256
		}

		attr := p.OAM[base+3]
		palette := attr & 0x07
		priority := (attr >> 4) & 0x03
		hFlip := attr&0x40 != 0
		vFlip := attr&0x80 != 0
		tileNum := uint16(p.OAM[base+2])
		if attr&0x01 != 0 {
			tileNum |= 0x100
		}

		rowInObj := spriteRow
		if vFlip {
			rowInObj = h - 1 - spriteRow
		}
		tileRow8 := rowInObj & 7
		tileRowCoarse := rowInObj >> 3

		for col := 0; col < w; col++ {
			sx := x + col
			if sx < 0 || sx >= 256 {
				continue
			}
			colInObj := col
			if hFlip {
				colInObj = w - 1 - col
			}
			tileColCoarse := colInObj >> 3
			pixCol := colInObj & 7

			tileIdx := (tileNum + uint16(tileRowCoarse)*16 + uint16(tileColCoarse)) & 0x1ff
			charBase := p.objNameBase
			if tileIdx >= 0x100 {
				charBase = p.objNameBase ^ 0x1000
			}
			pixels := p.tileRow(charBase, tileIdx&0xff, 4, tileRow8)
			colorIdx := pixels[pixCol]
			if colorIdx == 0 {
				continue
			}
			if line[sx].valid {
				continue
			}
			line[sx] = objPixel{
				valid:    true,
				color:    p.CGRAM[0x80+uint16(palette)*16+uint16(colorIdx)],
				priority: priority,
			}
		}
	}
	return line
}
