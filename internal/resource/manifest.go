// Package resource persists engine assets to a versioned archive: a zip
// container holding one YAML manifest, with a legacy plain-file layout kept
// loadable and an optional palette sidecar file next to the archive.
// It consumes only the bulk read/write surface of the gfx package.
package resource

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/retrograph/retrograph/internal/gfx"
)

// FormatVersion is the newest manifest version this build understands.
// Archives written by a newer engine are rejected rather than misread.
const FormatVersion = 2

const (
	manifestName = "retrograph.yaml"
	legacyDir    = "retrograph_resource/"

	// PaletteExt is the extension of the palette sidecar file looked up next
	// to an archive on load.
	PaletteExt = ".rgpal"
)

// ErrFormatVersion reports an archive written by a newer engine.
var ErrFormatVersion = errors.New("resource: archive format version too new")

// ErrCorrupt reports an archive whose contents cannot be decoded.
var ErrCorrupt = errors.New("resource: corrupt archive")

// Manifest is the YAML document stored inside an archive.
type Manifest struct {
	FormatVersion int           `yaml:"format_version"`
	Palette       []string      `yaml:"palette,omitempty"`
	Images        []ImageData   `yaml:"images,omitempty"`
	Tilemaps      []TilemapData `yaml:"tilemaps,omitempty"`
}

// ImageData is one image asset. Rows hold two hex digits per pixel so every
// palette index up to 255 survives the trip; the one-digit authoring format
// only carries indices below 16.
type ImageData struct {
	Rows []string `yaml:"rows"`
}

// TilemapData is one tilemap asset. Rows hold four hex digits per cell, the
// tile x byte followed by the tile y byte, so the full cell value survives
// the trip (unlike the authoring format, which only carries the low byte).
type TilemapData struct {
	Image int      `yaml:"image"`
	Rows  []string `yaml:"rows"`
}

// Bundle is the in-memory form of an archive: the shared surfaces the rest
// of the engine works with.
type Bundle struct {
	Palette  gfx.Palette
	Images   []*gfx.SharedImage
	Tilemaps []*gfx.SharedTilemap
}

// manifestFromBundle snapshots a bundle into its serializable form, locking
// each surface once for the read.
func manifestFromBundle(b *Bundle) *Manifest {
	m := &Manifest{FormatVersion: FormatVersion}

	for _, c := range b.Palette {
		m.Palette = append(m.Palette, fmt.Sprintf("%06x", uint32(c)))
	}

	for _, img := range b.Images {
		img.With(func(i *gfx.Image) {
			m.Images = append(m.Images, ImageData{Rows: encodePixels(i)})
		})
	}

	for _, stm := range b.Tilemaps {
		stm.With(func(tm *gfx.Tilemap) {
			m.Tilemaps = append(m.Tilemaps, TilemapData{
				Image: imageIndex(b.Images, tm.Image()),
				Rows:  encodeCells(tm),
			})
		})
	}
	return m
}

// bundleFromManifest rebuilds surfaces from a decoded manifest.
func bundleFromManifest(m *Manifest) (*Bundle, error) {
	if m.FormatVersion > FormatVersion {
		return nil, fmt.Errorf("%w: %d, supported up to %d", ErrFormatVersion, m.FormatVersion, FormatVersion)
	}

	b := &Bundle{}

	for i, entry := range m.Palette {
		c, err := parseRGB24(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: palette entry %d: %v", ErrCorrupt, i, err)
		}
		b.Palette = append(b.Palette, c)
	}

	for i, d := range m.Images {
		img, err := imageFromPixelRows(d.Rows)
		if err != nil {
			return nil, fmt.Errorf("%w: image %d: %v", ErrCorrupt, i, err)
		}
		b.Images = append(b.Images, gfx.ShareImage(img))
	}

	for i, d := range m.Tilemaps {
		if d.Image < 0 || d.Image >= len(b.Images) {
			return nil, fmt.Errorf("%w: tilemap %d references image %d of %d", ErrCorrupt, i, d.Image, len(b.Images))
		}
		tm, err := tilemapFromRows(d.Rows, b.Images[d.Image])
		if err != nil {
			return nil, fmt.Errorf("%w: tilemap %d: %v", ErrCorrupt, i, err)
		}
		b.Tilemaps = append(b.Tilemaps, gfx.ShareTilemap(tm))
	}
	return b, nil
}

// imageIndex locates the image handle a tilemap references. Save falls back
// to index zero for a handle that is not part of the bundle.
func imageIndex(images []*gfx.SharedImage, img *gfx.SharedImage) int {
	for i, candidate := range images {
		if candidate == img {
			return i
		}
	}
	return 0
}

// imageFromRows decodes the one-digit authoring format, used by the legacy
// archive layout only.
func imageFromRows(rows []string) (*gfx.Image, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	img := gfx.NewImage(len(rows[0]), len(rows))
	if err := img.Load(0, 0, rows); err != nil {
		return nil, err
	}
	return img, nil
}

// encodePixels renders an image's buffer in the archive pixel encoding, two
// hex digits per pixel.
func encodePixels(m *gfx.Image) []string {
	rows := make([]string, m.Height())
	for y := 0; y < m.Height(); y++ {
		var sb strings.Builder
		sb.Grow(m.Width() * 2)
		for x := 0; x < m.Width(); x++ {
			fmt.Fprintf(&sb, "%02x", m.Value(x, y))
		}
		rows[y] = sb.String()
	}
	return rows
}

// imageFromPixelRows decodes the archive pixel encoding into a fresh image.
func imageFromPixelRows(rows []string) (*gfx.Image, error) {
	if len(rows) == 0 || len(rows[0]) == 0 || len(rows[0])%2 != 0 {
		return nil, fmt.Errorf("empty or misaligned image data")
	}

	width := len(rows[0]) / 2
	height := len(rows)
	pixels := make([]gfx.Color, 0, width*height)
	for y, row := range rows {
		if len(row) != width*2 {
			return nil, fmt.Errorf("row %d has length %d, row 0 has %d", y, len(row), width*2)
		}
		for x := 0; x < width; x++ {
			v, err := strconv.ParseUint(row[x*2:x*2+2], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("row %d pixel %d: %q is not hexadecimal", y, x, row[x*2:x*2+2])
			}
			pixels = append(pixels, gfx.Color(v))
		}
	}

	img := gfx.NewImage(width, height)
	if err := img.SetPixels(pixels); err != nil {
		return nil, err
	}
	return img, nil
}

// encodeCells renders a tilemap's buffer in the archive cell encoding.
func encodeCells(tm *gfx.Tilemap) []string {
	cells := tm.Cells()
	rows := make([]string, tm.Height())
	for y := 0; y < tm.Height(); y++ {
		var sb strings.Builder
		sb.Grow(tm.Width() * 4)
		for x := 0; x < tm.Width(); x++ {
			cell := cells[y*tm.Width()+x]
			fmt.Fprintf(&sb, "%02x%02x", cell.X, cell.Y)
		}
		rows[y] = sb.String()
	}
	return rows
}

// tilemapFromRows decodes the archive cell encoding into a fresh tilemap.
func tilemapFromRows(rows []string, img *gfx.SharedImage) (*gfx.Tilemap, error) {
	if len(rows) == 0 || len(rows[0]) == 0 || len(rows[0])%4 != 0 {
		return nil, fmt.Errorf("empty or misaligned tilemap data")
	}

	width := len(rows[0]) / 4
	height := len(rows)
	cells := make([]gfx.Tile, 0, width*height)
	for y, row := range rows {
		if len(row) != width*4 {
			return nil, fmt.Errorf("row %d has length %d, row 0 has %d", y, len(row), width*4)
		}
		for x := 0; x < width; x++ {
			group := row[x*4 : x*4+4]
			v, err := strconv.ParseUint(group, 16, 16)
			if err != nil {
				return nil, fmt.Errorf("row %d cell %d: %q is not hexadecimal", y, x, group)
			}
			cells = append(cells, gfx.Tile{X: uint8(v >> 8), Y: uint8(v)})
		}
	}

	tm := gfx.NewTilemap(width, height, img)
	if err := tm.SetCells(cells); err != nil {
		return nil, err
	}
	return tm, nil
}

func parseRGB24(s string) (gfx.RGB24, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not a hex color", s)
	}
	if v > 0xffffff {
		return 0, fmt.Errorf("%q exceeds 24-bit RGB", s)
	}
	return gfx.RGB24(v), nil
}
