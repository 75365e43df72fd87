package gfx

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"

	"github.com/ericpauley/go-quantize/quantize"
)

// Color is a palette index. The engine draws in indexed color; the palette
// maps indices to RGB for output.
type Color = uint8

// Image is a fixed-size grid of palette indices. Like Tilemap it implements
// the Canvas contract; unlike Tilemap it references no other resource.
type Image struct {
	width    int
	height   int
	selfRect Rect
	clipRect Rect
	data     []Color // Row-major, length height*width
}

// NewImage creates an image of the given dimensions with every pixel set to
// color index zero. Negative dimensions are clamped to zero, yielding an
// empty surface on which every operation is a bounds error or a no-op.
func NewImage(width, height int) *Image {
	r := NewRect(0, 0, width, height)
	return &Image{
		width:    r.W,
		height:   r.H,
		selfRect: r,
		clipRect: r,
		data:     make([]Color, r.W*r.H),
	}
}

// Width returns the image width in pixels.
func (m *Image) Width() int {
	return m.width
}

// Height returns the image height in pixels.
func (m *Image) Height() int {
	return m.height
}

// Value returns the pixel at (x, y) without bounds checking.
func (m *Image) Value(x, y int) Color {
	return m.data[y*m.width+x]
}

// SetValue stores a pixel at (x, y) without bounds checking.
func (m *Image) SetValue(x, y int, c Color) {
	m.data[y*m.width+x] = c
}

// SelfRect returns the full extent of the image.
func (m *Image) SelfRect() Rect {
	return m.selfRect
}

// ClipRect returns the active clip region.
func (m *Image) ClipRect() Rect {
	return m.clipRect
}

// SetClipRect narrows the clip region, keeping it contained in the self rect.
func (m *Image) SetClipRect(r Rect) {
	m.clipRect = m.selfRect.Intersect(r)
}

// Get returns the pixel at (x, y), or ErrOutOfBounds if the coordinate lies
// outside the image.
func (m *Image) Get(x, y int) (Color, error) {
	if !m.selfRect.Contains(x, y) {
		return 0, fmt.Errorf("%w: (%d, %d) in %dx%d image", ErrOutOfBounds, x, y, m.width, m.height)
	}
	return m.Value(x, y), nil
}

// Set stores a pixel at (x, y), or returns ErrOutOfBounds if the coordinate
// lies outside the image.
func (m *Image) Set(x, y int, c Color) error {
	if !m.selfRect.Contains(x, y) {
		return fmt.Errorf("%w: (%d, %d) in %dx%d image", ErrOutOfBounds, x, y, m.width, m.height)
	}
	m.SetValue(x, y, c)
	return nil
}

// Pixels returns a copy of the pixel buffer in row-major order.
func (m *Image) Pixels() []Color {
	data := make([]Color, len(m.data))
	copy(data, m.data)
	return data
}

// SetPixels replaces the whole pixel buffer. The slice length must be
// exactly width*height.
func (m *Image) SetPixels(data []Color) error {
	if len(data) != m.width*m.height {
		return fmt.Errorf("%w: %d pixels for %dx%d image", ErrInvalidData, len(data), m.width, m.height)
	}
	copy(m.data, data)
	return nil
}

// Load bulk-populates the image from hex-row authoring data, one hex digit
// per pixel, placing the decoded block with its top-left corner at (x, y).
// The same temporary-surface-then-blit discipline as Tilemap.Load applies:
// the destination is untouched unless the whole input decodes, and the block
// is clipped to the image.
func (m *Image) Load(x, y int, rows []string) error {
	clean, width, err := cleanRows(rows, 1)
	if err != nil {
		return err
	}
	height := len(clean)

	tmp := NewImage(width, height)
	for j, row := range clean {
		for i := 0; i < width; i++ {
			v, err := strconv.ParseUint(row[i:i+1], 16, 8)
			if err != nil {
				return fmt.Errorf("%w: row %d pixel %d: %q is not hexadecimal", ErrInvalidData, j, i, row[i:i+1])
			}
			tmp.SetValue(i, j, Color(v))
		}
	}

	Blit[Color](m, tmp, BlitOp[Color]{DstX: x, DstY: y, W: width, H: height})
	return nil
}

// EncodeRows renders the pixel buffer in the hex-row authoring format, one
// digit per pixel. Indices above 15 do not fit a single digit and are
// encoded modulo 16.
func (m *Image) EncodeRows() []string {
	rows := make([]string, m.height)
	buf := make([]byte, m.width)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			buf[x] = "0123456789abcdef"[m.Value(x, y)&0x0f]
		}
		rows[y] = string(buf)
	}
	return rows
}

// WritePNG encodes the image as a paletted PNG using pal to resolve indices.
func (m *Image) WritePNG(w io.Writer, pal Palette) error {
	if len(pal) == 0 {
		return fmt.Errorf("%w: empty palette", ErrInvalidData)
	}
	out := image.NewPaletted(image.Rect(0, 0, m.width, m.height), pal.ColorPalette())
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			idx := int(m.Value(x, y))
			if idx >= len(pal) {
				idx = 0
			}
			out.SetColorIndex(x, y, uint8(idx))
		}
	}
	return png.Encode(w, out)
}

// ImportPNG decodes a PNG into an indexed image. With a non-empty palette,
// every pixel maps to its nearest palette entry. With an empty palette one
// is derived from the source by median-cut quantization, capped at maxColors
// entries, and returned alongside the image.
func ImportPNG(r io.Reader, pal Palette, maxColors int) (*Image, Palette, error) {
	src, err := png.Decode(r)
	if err != nil {
		return nil, nil, fmt.Errorf("gfx: decode png: %w", err)
	}

	if len(pal) == 0 {
		if maxColors <= 0 || maxColors > 256 {
			maxColors = 16
		}
		q := quantize.MedianCutQuantizer{}
		pal = PaletteFromColors(q.Quantize(make(color.Palette, 0, maxColors), src))
	}

	bounds := src.Bounds()
	m := NewImage(bounds.Dx(), bounds.Dy())
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			m.SetValue(x, y, pal.Nearest(src.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}
	return m, pal, nil
}
