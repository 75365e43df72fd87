package gfx

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TileSize is the edge length in pixels of one tile block in a tile sheet.
const TileSize = 8

// Tile identifies a tile's position within the referenced image's tile grid.
type Tile struct {
	X, Y uint8
}

// Tilemap is a fixed-size grid of tile references. It owns its cell buffer
// and rect state, and holds a shared image handle used only to resolve tiles
// at render time; the tilemap never mutates the image.
type Tilemap struct {
	width    int
	height   int
	selfRect Rect
	clipRect Rect
	cells    []Tile // Row-major, length height*width
	image    *SharedImage
}

// NewTilemap creates a tilemap of the given dimensions with every cell set
// to the zero tile. Negative dimensions are clamped to zero, yielding an
// empty surface on which every operation is a bounds error or a no-op.
func NewTilemap(width, height int, image *SharedImage) *Tilemap {
	r := NewRect(0, 0, width, height)
	return &Tilemap{
		width:    r.W,
		height:   r.H,
		selfRect: r,
		clipRect: r,
		cells:    make([]Tile, r.W*r.H),
		image:    image,
	}
}

// Image returns the shared image handle this tilemap renders from.
func (t *Tilemap) Image() *SharedImage {
	return t.image
}

// Width returns the tilemap width in cells.
func (t *Tilemap) Width() int {
	return t.width
}

// Height returns the tilemap height in cells.
func (t *Tilemap) Height() int {
	return t.height
}

// Value returns the cell at (x, y) without bounds checking.
func (t *Tilemap) Value(x, y int) Tile {
	return t.cells[y*t.width+x]
}

// SetValue stores a cell at (x, y) without bounds checking.
func (t *Tilemap) SetValue(x, y int, tile Tile) {
	t.cells[y*t.width+x] = tile
}

// SelfRect returns the full extent of the tilemap.
func (t *Tilemap) SelfRect() Rect {
	return t.selfRect
}

// ClipRect returns the active clip region.
func (t *Tilemap) ClipRect() Rect {
	return t.clipRect
}

// SetClipRect narrows the clip region. The clip rect always stays contained
// in the self rect; previously written cells are unaffected.
func (t *Tilemap) SetClipRect(r Rect) {
	t.clipRect = t.selfRect.Intersect(r)
}

// Get returns the cell at (x, y), or ErrOutOfBounds if the coordinate lies
// outside the tilemap.
func (t *Tilemap) Get(x, y int) (Tile, error) {
	if !t.selfRect.Contains(x, y) {
		return Tile{}, fmt.Errorf("%w: (%d, %d) in %dx%d tilemap", ErrOutOfBounds, x, y, t.width, t.height)
	}
	return t.Value(x, y), nil
}

// Set stores a cell at (x, y), or returns ErrOutOfBounds if the coordinate
// lies outside the tilemap.
func (t *Tilemap) Set(x, y int, tile Tile) error {
	if !t.selfRect.Contains(x, y) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d tilemap", ErrOutOfBounds, x, y, t.width, t.height)
	}
	t.SetValue(x, y, tile)
	return nil
}

// Cells returns a copy of the cell buffer in row-major order.
func (t *Tilemap) Cells() []Tile {
	cells := make([]Tile, len(t.cells))
	copy(cells, t.cells)
	return cells
}

// SetCells replaces the whole cell buffer. The slice length must be exactly
// width*height.
func (t *Tilemap) SetCells(cells []Tile) error {
	if len(cells) != t.width*t.height {
		return fmt.Errorf("%w: %d cells for %dx%d tilemap", ErrInvalidData, len(cells), t.width, t.height)
	}
	copy(t.cells, cells)
	return nil
}

// Load bulk-populates the tilemap from hex-row authoring data, placing the
// decoded block with its top-left corner at (x, y). Each row is a string of
// hex digits, four digits per cell; a group with value v decodes to
// Tile{(v>>16)&0xff, v&0xff}. Whitespace inside rows is ignored.
//
// The rows are decoded into a temporary tilemap first and then composited
// through Blit, so the destination is only mutated once the whole input has
// decoded, and oversized or offset blocks are clipped instead of failing.
// Ragged rows, rows whose length is not a multiple of four, or groups that
// are not valid hexadecimal abort the load with ErrInvalidData.
func (t *Tilemap) Load(x, y int, rows []string) error {
	clean, width, err := cleanRows(rows, 4)
	if err != nil {
		return err
	}
	height := len(clean)

	tmp := NewTilemap(width, height, t.image)
	for j, row := range clean {
		for i := 0; i < width; i++ {
			group := row[i*4 : i*4+4]
			v, err := strconv.ParseUint(group, 16, 32)
			if err != nil {
				return fmt.Errorf("%w: row %d group %d: %q is not hexadecimal", ErrInvalidData, j, i, group)
			}
			tmp.SetValue(i, j, Tile{X: uint8((v >> 16) & 0xff), Y: uint8(v & 0xff)})
		}
	}

	Blit[Tile](t, tmp, BlitOp[Tile]{DstX: x, DstY: y, W: width, H: height})
	return nil
}

// EncodeRows renders the cell buffer in the hex-row authoring format, one
// four-digit group per cell. Only the low byte of each cell survives the
// four-digit encoding; Cells is the lossless export.
func (t *Tilemap) EncodeRows() []string {
	rows := make([]string, t.height)
	for y := 0; y < t.height; y++ {
		var sb strings.Builder
		sb.Grow(t.width * 4)
		for x := 0; x < t.width; x++ {
			fmt.Fprintf(&sb, "%04x", uint32(t.Value(x, y).Y))
		}
		rows[y] = sb.String()
	}
	return rows
}

// cleanRows strips whitespace from each row and validates that every row is
// non-empty, a multiple of groupLen long, and the same length as the first.
// It returns the cleaned rows and the derived width in cells.
func cleanRows(rows []string, groupLen int) ([]string, int, error) {
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%w: no rows", ErrInvalidData)
	}

	clean := make([]string, len(rows))
	width := 0
	for i, row := range rows {
		c := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, row)

		if len(c) == 0 || len(c)%groupLen != 0 {
			return nil, 0, fmt.Errorf("%w: row %d has length %d, want a non-zero multiple of %d", ErrInvalidData, i, len(c), groupLen)
		}
		if i == 0 {
			width = len(c) / groupLen
		} else if len(c)/groupLen != width {
			return nil, 0, fmt.Errorf("%w: row %d has %d cells, row 0 has %d", ErrInvalidData, i, len(c)/groupLen, width)
		}
		clean[i] = c
	}
	return clean, width, nil
}
