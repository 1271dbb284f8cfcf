package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// Default capture parameters for the events board.
const (
	DefaultWidth           = 1920
	DefaultHeight          = 1080
	DefaultScale           = 2.0
	DefaultNavigateTimeout = 60 * time.Second
	DefaultReadyTimeout    = 15 * time.Second
	DefaultReadySelector   = "#app .event-card"
)

var (
	ErrMissingURL  = errors.New("capture: URL is required")
	ErrMissingPath = errors.New("capture: OutputPath is required")
)

// CaptureOptions defines parameters for a Chromium-based screenshot capture.
type CaptureOptions struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/".
	URL string

	// OutputPath is where the PNG screenshot will be written. Parent
	// directories are created.
	OutputPath string

	// Width and Height are the viewport in CSS pixels; Scale is the device
	// scale factor. Zero values use the defaults.
	Width  int
	Height int
	Scale  float64

	// NavigateTimeout bounds page load, ReadyTimeout the wait for
	// ReadySelector.
	NavigateTimeout time.Duration
	ReadyTimeout    time.Duration
	ReadySelector   string

	// ExecPath selects the Chromium binary. Empty lets chromedp find one.
	ExecPath string
}

func (o *CaptureOptions) normalize() error {
	if o.URL == "" {
		return ErrMissingURL
	}
	if o.OutputPath == "" {
		return ErrMissingPath
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.NavigateTimeout <= 0 {
		o.NavigateTimeout = DefaultNavigateTimeout
	}
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = DefaultReadyTimeout
	}
	if o.ReadySelector == "" {
		o.ReadySelector = DefaultReadySelector
	}
	return nil
}

// CaptureBoardPNG launches a headless Chromium instance via chromedp,
// loads opts.URL, waits until at least one event card is visible and writes
// a full-page PNG screenshot.
func CaptureBoardPNG(parentCtx context.Context, opts CaptureOptions) error {
	if err := opts.normalize(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.OutputPath), 0o755); err != nil {
		return fmt.Errorf("capture: create output dir: %w", err)
	}

	allocCtx := parentCtx
	if opts.ExecPath != "" {
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.ExecPath(opts.ExecPath))
		var allocCancel context.CancelFunc
		allocCtx, allocCancel = chromedp.NewExecAllocator(parentCtx, allocOpts...)
		defer allocCancel()
	}

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// Start the browser outside any step timeout; a deadline on the first
	// Run would tear the browser down with it.
	if err := chromedp.Run(ctx); err != nil {
		return fmt.Errorf("capture: start browser: %w", err)
	}

	if err := runWithTimeout(ctx, opts.NavigateTimeout,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height), chromedp.EmulateScale(opts.Scale)),
		chromedp.Navigate(opts.URL),
	); err != nil {
		return fmt.Errorf("capture: navigate %s: %w", opts.URL, err)
	}

	if err := runWithTimeout(ctx, opts.ReadyTimeout,
		chromedp.WaitVisible(opts.ReadySelector, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("capture: wait for %q: %w", opts.ReadySelector, err)
	}

	var png []byte
	if err := runWithTimeout(ctx, opts.NavigateTimeout,
		// Small extra delay to allow final paints.
		chromedp.Sleep(300*time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	); err != nil {
		return fmt.Errorf("capture: screenshot: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	return nil
}

func runWithTimeout(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return chromedp.Run(tctx, actions...)
}
