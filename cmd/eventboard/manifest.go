package main

import (
	"github.com/spf13/cobra"

	"eventboard/internal/manifest"
)

var manifestDir string

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Write images/manifest.json for the slide rotation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := manifestDir
		if dir == "" {
			dir = effectiveConfig().Display.ImagesDir
		}
		_, err := manifest.Write(dir)
		return err
	},
}

func init() {
	manifestCmd.Flags().StringVar(&manifestDir, "dir", "", "images directory (default display.images_dir)")
}
