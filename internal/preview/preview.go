// Package preview renders engine surfaces as colored terminal output, two
// pixels per character cell using half blocks. It is a read-only consumer of
// the gfx package: surfaces are never mutated and the shared image behind a
// tilemap is locked once per render.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/retrograph/retrograph/internal/gfx"
)

const halfBlock = "▀"

// pixelAt resolves one output pixel to a palette index.
type pixelAt func(x, y int) gfx.Color

// Image renders an indexed image through pal. maxWidth limits the output to
// that many pixel columns; zero or negative means no limit.
func Image(m *gfx.Image, pal gfx.Palette, maxWidth int) string {
	return render(m.Width(), m.Height(), maxWidth, pal, m.Value)
}

// Tilemap renders a tilemap by resolving every cell to its pixel block in
// the shared image. The image lock is held for the whole render; callers
// must not already hold it.
func Tilemap(tm *gfx.Tilemap, pal gfx.Palette, maxWidth int) string {
	var out string
	tm.Image().With(func(img *gfx.Image) {
		resolve := func(x, y int) gfx.Color {
			tile := tm.Value(x/gfx.TileSize, y/gfx.TileSize)
			sx := int(tile.X)*gfx.TileSize + x%gfx.TileSize
			sy := int(tile.Y)*gfx.TileSize + y%gfx.TileSize
			if !img.SelfRect().Contains(sx, sy) {
				return 0
			}
			return img.Value(sx, sy)
		}
		out = render(tm.Width()*gfx.TileSize, tm.Height()*gfx.TileSize, maxWidth, pal, resolve)
	})
	return out
}

// render walks pixel rows two at a time, painting the top pixel as the half
// block foreground and the bottom pixel as the background.
func render(width, height, maxWidth int, pal gfx.Palette, at pixelAt) string {
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}

	styles := make(map[[2]gfx.Color]lipgloss.Style)
	styleFor := func(top, bottom gfx.Color) lipgloss.Style {
		key := [2]gfx.Color{top, bottom}
		if s, ok := styles[key]; ok {
			return s
		}
		s := lipgloss.NewStyle().
			Foreground(lipgloss.Color(hexColor(pal, top))).
			Background(lipgloss.Color(hexColor(pal, bottom)))
		styles[key] = s
		return s
	}

	var sb strings.Builder
	for y := 0; y < height; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		x := 0
		for x < width {
			top := at(x, y)
			bottom := gfx.Color(0)
			if y+1 < height {
				bottom = at(x, y+1)
			}

			// Batch a run of identical pixel pairs into one styled span.
			run := 1
			for x+run < width {
				nt := at(x+run, y)
				nb := gfx.Color(0)
				if y+1 < height {
					nb = at(x+run, y+1)
				}
				if nt != top || nb != bottom {
					break
				}
				run++
			}

			sb.WriteString(styleFor(top, bottom).Render(strings.Repeat(halfBlock, run)))
			x += run
		}
	}
	return sb.String()
}

// hexColor resolves a palette index to a #rrggbb string; indices outside the
// palette fall back to black.
func hexColor(pal gfx.Palette, c gfx.Color) string {
	if int(c) >= len(pal) {
		return "#000000"
	}
	return fmt.Sprintf("#%06x", uint32(pal[c]))
}
