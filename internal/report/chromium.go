package report

import (
	"context"
	"encoding/base64"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const mmPerInch = 25.4

// Chromium drives a headless Chromium through chromedp. It is both the
// Rasterizer and the Printer; each call starts its own browser.
type Chromium struct {
	execPath string
	timeout  time.Duration
}

// NewChromium uses execPath when set, otherwise the first browser found in
// the usual install locations, otherwise whatever chromedp finds on PATH.
func NewChromium(execPath string, timeout time.Duration) *Chromium {
	if execPath == "" {
		execPath = DetectChromePath()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Chromium{execPath: execPath, timeout: timeout}
}

func (c *Chromium) run(ctx context.Context, html string, actions ...chromedp.Action) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1024, 1400),
	}
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))
	return chromedp.Run(taskCtx, append([]chromedp.Action{chromedp.Navigate(dataURL)}, actions...)...)
}

func (c *Chromium) Rasterize(ctx context.Context, html, selector string, scale float64) ([]byte, error) {
	var png []byte
	err := c.run(ctx, html,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.ScreenshotScale(selector, scale, &png, chromedp.ByQuery),
	)
	if err != nil {
		return nil, err
	}
	return png, nil
}

func (c *Chromium) PrintPDF(ctx context.Context, html string, size PageSize) ([]byte, error) {
	var pdf []byte
	err := c.run(ctx, html,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			out, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(size.Width / mmPerInch).
				WithPaperHeight(size.Height / mmPerInch).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = out
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

func DetectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
