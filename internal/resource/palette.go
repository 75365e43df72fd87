package resource

import (
	"fmt"
	"os"

	"github.com/retrograph/retrograph/internal/gfx"
)

// loadSidecar reads a palette sidecar file. A missing file is not an error;
// the second return value reports whether a palette was found.
func loadSidecar(path string) (gfx.Palette, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("resource: read palette sidecar %s: %w", path, err)
	}

	pal, err := parsePaletteLines(data)
	if err != nil {
		return nil, false, fmt.Errorf("%w: palette sidecar %s: %v", ErrCorrupt, path, err)
	}
	return pal, true, nil
}

// parsePaletteLines decodes one 24-bit hex color per non-empty line.
func parsePaletteLines(data []byte) (gfx.Palette, error) {
	var pal gfx.Palette
	for i, line := range textLines(data) {
		c, err := parseRGB24(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", i+1, err)
		}
		pal = append(pal, c)
	}
	if len(pal) == 0 {
		return nil, fmt.Errorf("no palette entries")
	}
	return pal, nil
}
