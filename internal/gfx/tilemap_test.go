package gfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *SharedImage {
	return ShareImage(NewImage(TileSize*4, TileSize*4))
}

func TestNewTilemapZeroFilled(t *testing.T) {
	tm := NewTilemap(3, 2, testImage())

	assert.Equal(t, 3, tm.Width())
	assert.Equal(t, 2, tm.Height())
	assert.Equal(t, NewRect(0, 0, 3, 2), tm.SelfRect())
	assert.Equal(t, tm.SelfRect(), tm.ClipRect())
	for _, cell := range tm.Cells() {
		assert.Equal(t, Tile{}, cell)
	}
}

func TestNewTilemapClampsNegativeSize(t *testing.T) {
	tm := NewTilemap(-1, 2, testImage())

	assert.Equal(t, 0, tm.Width())
	assert.Equal(t, 2, tm.Height())
	assert.Empty(t, tm.Cells())
	assert.True(t, tm.SelfRect().IsEmpty())

	_, err := tm.Get(0, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestTilemapGetSetBounds(t *testing.T) {
	tm := NewTilemap(2, 2, testImage())

	require.NoError(t, tm.Set(1, 1, Tile{X: 3, Y: 4}))
	got, err := tm.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, Tile{X: 3, Y: 4}, got)

	_, err = tm.Get(2, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.ErrorIs(t, tm.Set(0, -1, Tile{}), ErrOutOfBounds)
	assert.ErrorIs(t, tm.Set(-1, 0, Tile{}), ErrOutOfBounds)
}

func TestTilemapSetClipRectStaysInSelfRect(t *testing.T) {
	tm := NewTilemap(4, 4, testImage())

	tm.SetClipRect(NewRect(-2, 1, 10, 2))
	assert.Equal(t, NewRect(0, 1, 4, 2), tm.ClipRect())
}

func TestTilemapLoad(t *testing.T) {
	tm := NewTilemap(2, 2, testImage())

	// Two rows of two 4-digit groups each. A group with value v decodes to
	// Tile{(v>>16)&0xff, v&0xff}.
	err := tm.Load(0, 0, []string{"00000001", "00020003"})
	require.NoError(t, err)

	assert.Equal(t, []Tile{
		{X: 0, Y: 0}, {X: 0, Y: 1},
		{X: 0, Y: 2}, {X: 0, Y: 3},
	}, tm.Cells())
}

func TestTilemapLoadIgnoresWhitespace(t *testing.T) {
	tm := NewTilemap(2, 1, testImage())

	require.NoError(t, tm.Load(0, 0, []string{" 0001\t00 02 "}))

	assert.Equal(t, []Tile{{Y: 1}, {Y: 2}}, tm.Cells())
}

func TestTilemapLoadOffsetAndClipped(t *testing.T) {
	tm := NewTilemap(2, 2, testImage())

	// A 2x2 block placed at (1, 1) only lands its top-left cell.
	require.NoError(t, tm.Load(1, 1, []string{"00010002", "00030004"}))

	assert.Equal(t, []Tile{
		{}, {},
		{}, {Y: 1},
	}, tm.Cells())
}

func TestTilemapLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"no rows", nil},
		{"empty row", []string{""}},
		{"length not multiple of four", []string{"000"}},
		{"ragged rows", []string{"0001", "00020003"}},
		{"invalid hex group", []string{"0001", "00gg"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tm := NewTilemap(2, 2, testImage())
			require.NoError(t, tm.Set(0, 0, Tile{Y: 9}))
			before := tm.Cells()

			err := tm.Load(0, 0, tc.rows)
			assert.ErrorIs(t, err, ErrInvalidData)

			// A failed load never mutates the destination.
			assert.Equal(t, before, tm.Cells())
		})
	}
}

func TestTilemapCellsRoundTrip(t *testing.T) {
	tm := NewTilemap(2, 2, testImage())
	cells := []Tile{{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6}, {X: 7, Y: 8}}
	require.NoError(t, tm.SetCells(cells))

	assert.Equal(t, cells, tm.Cells())

	// Cells returns a copy, not the backing buffer.
	tm.Cells()[0] = Tile{Y: 99}
	got, err := tm.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Tile{X: 1, Y: 2}, got)

	assert.ErrorIs(t, tm.SetCells(cells[:3]), ErrInvalidData)
}

func TestTilemapEncodeRows(t *testing.T) {
	tm := NewTilemap(2, 1, testImage())
	require.NoError(t, tm.Load(0, 0, []string{"00010002"}))

	rows := tm.EncodeRows()
	assert.Equal(t, []string{"00010002"}, rows)

	// The encoding round-trips through Load.
	again := NewTilemap(2, 1, testImage())
	require.NoError(t, again.Load(0, 0, rows))
	assert.Equal(t, tm.Cells(), again.Cells())
}
