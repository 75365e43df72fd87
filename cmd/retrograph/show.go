package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/retrograph/retrograph/internal/gfx"
	"github.com/retrograph/retrograph/internal/preview"
	"github.com/retrograph/retrograph/internal/resource"
)

var (
	flagShowImage   int
	flagShowTilemap int
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Render an image or tilemap from an archive in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := runShow(args[0], flagShowImage, flagShowTilemap, terminalWidth())
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	showCmd.Flags().IntVar(&flagShowImage, "image", 0, "Image index to render")
	showCmd.Flags().IntVar(&flagShowTilemap, "tilemap", -1, "Tilemap index to render instead of an image")
}

// runShow loads an archive and renders one of its surfaces. tilemapIdx is -1
// to render an image instead; any other negative index is rejected.
func runShow(path string, imageIdx, tilemapIdx, width int) (string, error) {
	b, err := resource.Load(path)
	if err != nil {
		return "", err
	}
	if len(b.Palette) == 0 {
		return "", fmt.Errorf("archive %s has no palette to render with", path)
	}

	log.Debug("rendering preview", "width", width)

	if tilemapIdx != -1 {
		if tilemapIdx < 0 || tilemapIdx >= len(b.Tilemaps) {
			return "", fmt.Errorf("archive has %d tilemaps, no index %d", len(b.Tilemaps), tilemapIdx)
		}
		var out string
		b.Tilemaps[tilemapIdx].With(func(tm *gfx.Tilemap) {
			out = preview.Tilemap(tm, b.Palette, width)
		})
		return out, nil
	}

	if imageIdx < 0 || imageIdx >= len(b.Images) {
		return "", fmt.Errorf("archive has %d images, no index %d", len(b.Images), imageIdx)
	}
	var out string
	b.Images[imageIdx].With(func(m *gfx.Image) {
		out = preview.Image(m, b.Palette, width)
	})
	return out, nil
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
