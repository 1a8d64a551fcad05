package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options for the Playwright-backed driver.
type Options struct {
	Headless          bool
	NavTimeout        time.Duration
	RequestsPerSecond float64
	ScreenshotDir     string
}

// PlaywrightDriver drives a real chromium instance. Page contexts are
// created lazily on the first Navigate after a CloseContext, which gives
// callers scoped navigation for free.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	limiter *HostLimiter
	opts    Options

	browserCtx playwright.BrowserContext
	page       playwright.Page
}

func NewPlaywrightDriver(opts Options) (*PlaywrightDriver, error) {
	if opts.NavTimeout == 0 {
		opts.NavTimeout = 30 * time.Second
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 0.5
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	return &PlaywrightDriver{
		pw:      pw,
		browser: browser,
		limiter: NewHostLimiter(opts.RequestsPerSecond, 1),
		opts:    opts,
	}, nil
}

func (d *PlaywrightDriver) ensurePage() (playwright.Page, error) {
	if d.page != nil {
		return d.page, nil
	}

	browserCtx, err := d.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	d.browserCtx = browserCtx
	d.page = page
	return page, nil
}

func (d *PlaywrightDriver) Navigate(ctx context.Context, url string) error {
	if err := d.limiter.WaitURL(ctx, url); err != nil {
		return err
	}

	page, err := d.ensurePage()
	if err != nil {
		return err
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(d.opts.NavTimeout.Milliseconds())),
	}); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (d *PlaywrightDriver) ExecuteScript(ctx context.Context, script string, arg any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.page == nil {
		return nil, fmt.Errorf("no active page: navigate first")
	}

	var result any
	var err error
	if arg != nil {
		result, err = d.page.Evaluate(script, arg)
	} else {
		result, err = d.page.Evaluate(script)
	}
	if err != nil {
		return nil, fmt.Errorf("script execution failed: %w", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode script result: %w", err)
	}
	return data, nil
}

func (d *PlaywrightDriver) CloseContext() error {
	if d.page == nil {
		return nil
	}
	pageErr := d.page.Close()
	ctxErr := d.browserCtx.Close()
	d.page = nil
	d.browserCtx = nil
	if pageErr != nil {
		return pageErr
	}
	return ctxErr
}

// CaptureScreenshot saves a full-page screenshot for debugging failed
// scans. Best effort: errors are logged, never propagated as failures.
func (d *PlaywrightDriver) CaptureScreenshot(name string) error {
	if d.page == nil {
		return nil
	}

	dir := d.opts.ScreenshotDir
	if dir == "" {
		dir = filepath.Join("logs", "screenshots")
	}
	os.MkdirAll(dir, 0755)

	filename := fmt.Sprintf("%s_%s.png", name, time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(dir, filename)

	if _, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return err
	}
	log.Printf("📸 Screenshot saved: %s", path)
	return nil
}

func (d *PlaywrightDriver) Close() error {
	d.CloseContext()
	if err := d.browser.Close(); err != nil {
		return err
	}
	return d.pw.Stop()
}

// Page exposes the live page for stealth helpers. Nil until the first
// Navigate.
func (d *PlaywrightDriver) Page() playwright.Page {
	return d.page
}
