package resource

import (
	"archive/zip"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/retrograph/retrograph/internal/gfx"
)

// legacyFormatVersion is the last version written in the plain-file layout,
// before the YAML manifest replaced it.
const legacyFormatVersion = 1

// loadLegacy reads the pre-manifest archive layout: a version entry, an
// optional palette entry, and numbered imageN / tilemapN text entries. A
// tilemap entry's first line is the index of the image it references; the
// remaining lines use the same four-digit cell encoding as the manifest.
func loadLegacy(zr *zip.Reader) (*Bundle, error) {
	data, err := readEntry(zr, legacyDir+"version")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	version, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: legacy version entry: %v", ErrCorrupt, err)
	}
	if version > legacyFormatVersion {
		return nil, fmt.Errorf("%w: legacy version %d, supported up to %d", ErrFormatVersion, version, legacyFormatVersion)
	}

	b := &Bundle{}

	if hasEntry(zr, legacyDir+"palette") {
		data, err := readEntry(zr, legacyDir+"palette")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		pal, err := parsePaletteLines(data)
		if err != nil {
			return nil, fmt.Errorf("%w: legacy palette: %v", ErrCorrupt, err)
		}
		b.Palette = pal
	}

	for i := 0; ; i++ {
		name := fmt.Sprintf("%simage%d", legacyDir, i)
		if !hasEntry(zr, name) {
			break
		}
		data, err := readEntry(zr, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		img, err := imageFromRows(textLines(data))
		if err != nil {
			return nil, fmt.Errorf("%w: legacy image %d: %v", ErrCorrupt, i, err)
		}
		b.Images = append(b.Images, gfx.ShareImage(img))
	}

	for i := 0; ; i++ {
		name := fmt.Sprintf("%stilemap%d", legacyDir, i)
		if !hasEntry(zr, name) {
			break
		}
		data, err := readEntry(zr, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		lines := textLines(data)
		if len(lines) < 2 {
			return nil, fmt.Errorf("%w: legacy tilemap %d: too few lines", ErrCorrupt, i)
		}
		imgIdx, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil || imgIdx < 0 || imgIdx >= len(b.Images) {
			return nil, fmt.Errorf("%w: legacy tilemap %d: bad image index %q", ErrCorrupt, i, lines[0])
		}
		tm, err := tilemapFromRows(lines[1:], b.Images[imgIdx])
		if err != nil {
			return nil, fmt.Errorf("%w: legacy tilemap %d: %v", ErrCorrupt, i, err)
		}
		b.Tilemaps = append(b.Tilemaps, gfx.ShareTilemap(tm))
	}

	log.Debug("loaded legacy resource archive",
		"images", len(b.Images), "tilemaps", len(b.Tilemaps))
	return b, nil
}

// textLines splits an archive text entry into non-empty lines, tolerating
// CRLF endings.
func textLines(data []byte) []string {
	raw := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
