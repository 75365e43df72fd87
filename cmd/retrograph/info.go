package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retrograph/retrograph/internal/gfx"
	"github.com/retrograph/retrograph/internal/resource"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Summarize the contents of a resource archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := resource.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", args[0])
		fmt.Printf("  palette:  %d colors\n", len(b.Palette))

		for i, img := range b.Images {
			img.With(func(m *gfx.Image) {
				fmt.Printf("  image %d:  %dx%d px\n", i, m.Width(), m.Height())
			})
		}

		for i, stm := range b.Tilemaps {
			stm.With(func(tm *gfx.Tilemap) {
				fmt.Printf("  tilemap %d: %dx%d cells, image %d\n",
					i, tm.Width(), tm.Height(), imageIndex(b, tm.Image()))
			})
		}
		return nil
	},
}

func imageIndex(b *resource.Bundle, img *gfx.SharedImage) int {
	for i, candidate := range b.Images {
		if candidate == img {
			return i
		}
	}
	return -1
}
