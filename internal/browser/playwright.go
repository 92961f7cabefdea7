package browser

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightDriver drives Chromium through Playwright. Each Open launches a
// persistent context on the caller's profile directory, so cookies and local
// storage survive across runs through the session store.
type PlaywrightDriver struct {
	pw *playwright.Playwright
}

func NewPlaywrightDriver() (*PlaywrightDriver, error) {
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	return &PlaywrightDriver{pw: pw}, nil
}

func (d *PlaywrightDriver) Open(opts SessionOptions) (Session, error) {
	profile := profileFor(opts.Mode)

	launchOpts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     launchArgs,
		Viewport: &playwright.Size{
			Width:  profile.viewport.Width,
			Height: profile.viewport.Height,
		},
		IsMobile: playwright.Bool(profile.isMobile),
		HasTouch: playwright.Bool(profile.hasTouch),
		Locale:   playwright.String("en-US"),
	}
	if profile.userAgent != "" {
		launchOpts.UserAgent = playwright.String(profile.userAgent)
	}

	context, err := d.pw.Chromium.LaunchPersistentContext(opts.ProfileDir, launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch persistent context: %w", err)
	}

	// A persistent context opens with an initial blank page.
	var page playwright.Page
	if pages := context.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = context.NewPage()
		if err != nil {
			context.Close()
			return nil, fmt.Errorf("failed to create page: %w", err)
		}
	}

	return &playwrightSession{context: context, page: page}, nil
}

func (d *PlaywrightDriver) Stop() error {
	if d.pw == nil {
		return nil
	}
	if err := d.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

type playwrightSession struct {
	context playwright.BrowserContext
	page    playwright.Page
}

func (s *playwrightSession) Navigate(url string, opts NavigateOptions) error {
	gotoOpts := playwright.PageGotoOptions{}
	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		gotoOpts.WaitUntil = &waitUntil
	}
	if opts.Timeout > 0 {
		gotoOpts.Timeout = playwright.Float(ms(opts.Timeout))
	}

	if _, err := s.page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (s *playwrightSession) Find(selector string, timeout time.Duration) (Element, error) {
	handle, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(ms(timeout)),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, ErrElementNotFound
		}
		return nil, fmt.Errorf("wait for %q failed: %w", selector, err)
	}
	if handle == nil {
		return nil, ErrElementNotFound
	}
	return &playwrightElement{handle: handle}, nil
}

func (s *playwrightSession) FindAll(selector string) ([]Element, error) {
	handles, err := s.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q failed: %w", selector, err)
	}

	elements := make([]Element, 0, len(handles))
	for _, handle := range handles {
		elements = append(elements, &playwrightElement{handle: handle})
	}
	return elements, nil
}

func (s *playwrightSession) ExpectFileChooser(trigger func() error, timeout time.Duration) (FileChooser, error) {
	chooser, err := s.page.ExpectFileChooser(trigger, playwright.PageExpectFileChooserOptions{
		Timeout: playwright.Float(ms(timeout)),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, ErrElementNotFound
		}
		return nil, fmt.Errorf("file chooser did not appear: %w", err)
	}
	return &playwrightFileChooser{chooser: chooser}, nil
}

func (s *playwrightSession) ExpectResponse(predicate func(url string, status int) bool, trigger func() error, timeout time.Duration) ([]byte, error) {
	match := func(response playwright.Response) bool {
		return predicate(response.URL(), response.Status())
	}

	response, err := s.page.ExpectResponse(match, trigger, playwright.PageExpectResponseOptions{
		Timeout: playwright.Float(ms(timeout)),
	})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, ErrElementNotFound
		}
		return nil, fmt.Errorf("wait for response failed: %w", err)
	}

	body, err := response.Body()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func (s *playwrightSession) Close() error {
	_ = s.page.Close() // Ignore errors, continue cleanup
	if err := s.context.Close(); err != nil {
		return fmt.Errorf("failed to close browser context: %w", err)
	}
	return nil
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func (e *playwrightElement) Click() error {
	return e.handle.Click()
}

func (e *playwrightElement) Type(text string, delay time.Duration) error {
	return e.handle.Type(text, playwright.ElementHandleTypeOptions{
		Delay: playwright.Float(ms(delay)),
	})
}

func (e *playwrightElement) SetFiles(paths []string) error {
	return e.handle.SetInputFiles(paths)
}

type playwrightFileChooser struct {
	chooser playwright.FileChooser
}

func (c *playwrightFileChooser) SetFiles(paths []string) error {
	return c.chooser.SetFiles(paths)
}

func ms(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
