package main

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"eventboard/internal/capture"
	appLog "eventboard/internal/log"
)

var (
	captureURL    string
	capturePath   string
	captureChrome string
)

var errCaptureUsage = errors.New("usage: eventboard capture --url <url> --path <file.png>")

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Screenshot the events board with headless Chromium",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if captureURL == "" || capturePath == "" {
			return errCaptureUsage
		}

		target, err := filepath.Abs(capturePath)
		if err != nil {
			return err
		}
		if err := capture.CaptureBoardPNG(cmd.Context(), capture.CaptureOptions{
			URL:        captureURL,
			OutputPath: target,
			ExecPath:   captureChrome,
		}); err != nil {
			return err
		}

		appLog.Info("screenshot saved", "path", target)
		return nil
	},
}

func init() {
	captureCmd.Flags().StringVar(&captureURL, "url", "", "board URL to capture")
	captureCmd.Flags().StringVar(&capturePath, "path", "", "PNG output file, e.g. images/program.png")
	captureCmd.Flags().StringVar(&captureChrome, "chrome", "", "Chromium binary (default: autodetect)")
}
