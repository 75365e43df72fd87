package resource

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Save writes the bundle to a zip archive at path, replacing any existing
// file. The archive holds a single YAML manifest.
func Save(path string, b *Bundle) error {
	data, err := yaml.Marshal(manifestFromBundle(b))
	if err != nil {
		return fmt.Errorf("resource: marshal manifest: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("resource: create %s: %w", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("resource: write archive: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("resource: write archive: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("resource: finalize archive: %w", err)
	}

	log.Debug("saved resource archive", "path", path,
		"images", len(b.Images), "tilemaps", len(b.Tilemaps))
	return nil
}

// Load reads an archive back into a bundle. Archives in the legacy
// plain-file layout are detected and loaded through the old reader. A
// palette sidecar file next to the archive, when present, overrides the
// manifest palette.
func Load(path string) (*Bundle, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("resource: open %s: %w", path, err)
	}
	defer zr.Close()

	b, err := loadArchive(&zr.Reader)
	if err != nil {
		return nil, err
	}

	if pal, ok, err := loadSidecar(sidecarPath(path)); err != nil {
		return nil, err
	} else if ok {
		log.Debug("palette sidecar overrides manifest palette", "path", sidecarPath(path))
		b.Palette = pal
	}

	log.Debug("loaded resource archive", "path", path,
		"images", len(b.Images), "tilemaps", len(b.Tilemaps))
	return b, nil
}

func loadArchive(zr *zip.Reader) (*Bundle, error) {
	if hasEntry(zr, legacyDir+"version") {
		return loadLegacy(zr)
	}

	data, err := readEntry(zr, manifestName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrCorrupt, err)
	}
	return bundleFromManifest(&m)
}

// sidecarPath derives the palette sidecar filename: the archive path with
// its extension swapped for PaletteExt.
func sidecarPath(path string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndexByte(path, os.PathSeparator) {
		path = path[:i]
	}
	return path + PaletteExt
}

func hasEntry(zr *zip.Reader, name string) bool {
	for _, f := range zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing entry %s", name)
}
