package gfx

import "image/color"

// RGB24 is a packed 0xRRGGBB color value.
type RGB24 uint32

// Palette is an ordered list of RGB24 entries; a Color indexes into it.
type Palette []RGB24

// RGBA unpacks the entry into 8-bit channels with full alpha.
func (c RGB24) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: 0xff,
	}
}

// ColorPalette converts the palette to the standard library form.
func (p Palette) ColorPalette() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = c.RGBA()
	}
	return cp
}

// PaletteFromColors packs a standard library palette into RGB24 entries.
// Alpha is discarded.
func PaletteFromColors(cp color.Palette) Palette {
	p := make(Palette, len(cp))
	for i, c := range cp {
		r, g, b, _ := c.RGBA()
		p[i] = RGB24(r>>8<<16 | g>>8<<8 | b>>8)
	}
	return p
}

// Nearest returns the index of the palette entry closest to c by squared
// RGB distance. An empty palette maps everything to index zero.
func (p Palette) Nearest(c color.Color) Color {
	if len(p) == 0 {
		return 0
	}

	cr, cg, cb, _ := c.RGBA()
	r0, g0, b0 := int(cr>>8), int(cg>>8), int(cb>>8)

	best := 0
	bestDist := 1 << 30
	for i, entry := range p {
		e := entry.RGBA()
		dr := r0 - int(e.R)
		dg := g0 - int(e.G)
		db := b0 - int(e.B)
		dist := dr*dr + dg*dg + db*db
		if dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return Color(best)
}
