// Package capture screenshots the brokerage page through an already running
// Chrome instance exposed on its remote-debugging port.
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// Capturer takes full-page screenshots of TargetURL.
type Capturer struct {
	DebugURL  string // e.g. http://127.0.0.1:9222 or a ws:// browser URL
	TargetURL string
	Dir       string
	Timeout   time.Duration

	now func() time.Time
}

// New returns a capturer with a 30s default timeout.
func New(debugURL, targetURL, dir string, timeout time.Duration) *Capturer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Capturer{DebugURL: debugURL, TargetURL: targetURL, Dir: dir, Timeout: timeout, now: time.Now}
}

// Capture navigates a new tab to TargetURL and saves a PNG. It returns the
// file path.
func (c *Capturer) Capture(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, c.DebugURL)
	defer allocCancel()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(c.TargetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second), // let client-side widgets render balances
		chromedp.FullScreenshot(&buf, 90),
	)
	if err != nil {
		return "", fmt.Errorf("capture %s: %w", c.TargetURL, err)
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	path := filepath.Join(c.Dir, c.filename())
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("save screenshot: %w", err)
	}
	log.Info().Str("path", path).Int("bytes", len(buf)).Msg("screenshot saved")
	return path, nil
}

func (c *Capturer) filename() string {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	return fmt.Sprintf("portfolio_%s.png", now().Format("20060102_150405"))
}
