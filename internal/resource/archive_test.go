package resource

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/retrograph/retrograph/internal/gfx"
)

func testBundle(t *testing.T) *Bundle {
	t.Helper()

	img := gfx.NewImage(4, 2)
	require.NoError(t, img.Load(0, 0, []string{"0123", "4567"}))
	shared := gfx.ShareImage(img)

	tm := gfx.NewTilemap(2, 2, shared)
	require.NoError(t, tm.SetCells([]gfx.Tile{
		{X: 1, Y: 2}, {X: 3, Y: 4},
		{X: 0, Y: 0}, {X: 5, Y: 6},
	}))

	return &Bundle{
		Palette:  gfx.Palette{0x000000, 0xff00ff, 0x00ffff},
		Images:   []*gfx.SharedImage{shared},
		Tilemaps: []*gfx.SharedTilemap{gfx.ShareTilemap(tm)},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.rgres")
	want := testBundle(t)

	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, want.Palette, got.Palette)
	require.Len(t, got.Images, 1)
	require.Len(t, got.Tilemaps, 1)

	want.Images[0].With(func(a *gfx.Image) {
		got.Images[0].With(func(b *gfx.Image) {
			assert.Equal(t, a.Pixels(), b.Pixels())
			assert.Equal(t, a.Width(), b.Width())
			assert.Equal(t, a.Height(), b.Height())
		})
	})

	want.Tilemaps[0].With(func(a *gfx.Tilemap) {
		got.Tilemaps[0].With(func(b *gfx.Tilemap) {
			assert.Equal(t, a.Cells(), b.Cells())
			// The restored tilemap references the restored image.
			assert.Same(t, got.Images[0], b.Image())
		})
	})
}

func TestSaveLoadPreservesHighPixelIndices(t *testing.T) {
	// Quantized imports can use palettes past 16 entries; the archive pixel
	// encoding must carry the full index range.
	pal := make(gfx.Palette, 32)
	for i := range pal {
		pal[i] = gfx.RGB24(i * 0x080808)
	}

	img := gfx.NewImage(2, 1)
	require.NoError(t, img.Set(0, 0, 0x11))
	require.NoError(t, img.Set(1, 0, 0x1f))
	shared := gfx.ShareImage(img)

	path := filepath.Join(t.TempDir(), "wide.rgres")
	require.NoError(t, Save(path, &Bundle{
		Palette: pal,
		Images:  []*gfx.SharedImage{shared},
	}))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got.Images, 1)

	got.Images[0].With(func(m *gfx.Image) {
		assert.Equal(t, []gfx.Color{0x11, 0x1f}, m.Pixels())
	})
	assert.Equal(t, pal, got.Palette)
}

func TestLoadRejectsNewerFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.rgres")
	writeManifestArchive(t, path, &Manifest{FormatVersion: FormatVersion + 1})

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrFormatVersion)
}

func TestLoadCorruptManifest(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		manifest *Manifest
	}{
		{
			name: "bad palette entry",
			manifest: &Manifest{
				FormatVersion: FormatVersion,
				Palette:       []string{"nothex"},
			},
		},
		{
			name: "tilemap references missing image",
			manifest: &Manifest{
				FormatVersion: FormatVersion,
				Tilemaps:      []TilemapData{{Image: 0, Rows: []string{"0000"}}},
			},
		},
		{
			name: "ragged image rows",
			manifest: &Manifest{
				FormatVersion: FormatVersion,
				Images:        []ImageData{{Rows: []string{"01", "012"}}},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".rgres")
			writeManifestArchive(t, path, tc.manifest)

			_, err := Load(path)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestLoadLegacyArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.rgres")
	writeZip(t, path, map[string]string{
		legacyDir + "version":  "1\n",
		legacyDir + "palette":  "000000\nff0000\n",
		legacyDir + "image0":   "01\n10\n",
		legacyDir + "tilemap0": "0\n00010203\n",
	})

	b, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, gfx.Palette{0x000000, 0xff0000}, b.Palette)
	require.Len(t, b.Images, 1)
	require.Len(t, b.Tilemaps, 1)

	b.Tilemaps[0].With(func(tm *gfx.Tilemap) {
		assert.Equal(t, 2, tm.Width())
		assert.Equal(t, 1, tm.Height())
		assert.Equal(t, []gfx.Tile{{X: 0, Y: 1}, {X: 2, Y: 3}}, tm.Cells())
		assert.Same(t, b.Images[0], tm.Image())
	})
}

func TestLoadLegacyRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.rgres")
	writeZip(t, path, map[string]string{
		legacyDir + "version": "9\n",
	})

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrFormatVersion)
}

func TestPaletteSidecarOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assets.rgres")

	require.NoError(t, Save(path, testBundle(t)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets"+PaletteExt),
		[]byte("102030\r\n405060\n\n"), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, gfx.Palette{0x102030, 0x405060}, b.Palette)
}

func TestPaletteSidecarBadEntry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assets.rgres")

	require.NoError(t, Save(path, testBundle(t)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets"+PaletteExt),
		[]byte("zzz\n"), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, "/tmp/a"+PaletteExt, sidecarPath("/tmp/a.rgres"))
	assert.Equal(t, "assets"+PaletteExt, sidecarPath("assets"))
	assert.Equal(t, "/tmp/dir.v2/a"+PaletteExt, sidecarPath("/tmp/dir.v2/a"))
}

func writeManifestArchive(t *testing.T, path string, m *Manifest) {
	t.Helper()
	data, err := yaml.Marshal(m)
	require.NoError(t, err)
	writeZip(t, path, map[string]string{manifestName: string(data)})
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
}
