package portal

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Page is the minimal browser-page surface the portal operations need.
// The production implementation wraps a Playwright page; tests substitute
// a scripted fake.
type Page interface {
	// Goto navigates to the URL and waits for the load event.
	Goto(url string) error

	// Fill sets the value of the input matching selector.
	Fill(selector, value string) error

	// Click clicks the element matching selector.
	Click(selector string) error

	// Content returns the full page HTML.
	Content() (string, error)

	// InnerText returns the rendered text of the first element matching
	// selector, or ("", false, nil) when no element matches.
	InnerText(selector string) (string, bool, error)

	// Exists reports whether any element matches selector.
	Exists(selector string) (bool, error)

	// URL returns the current page URL.
	URL() string

	// Title returns the current page title.
	Title() (string, error)

	// Screenshot writes a full-page capture to path.
	Screenshot(path string) error
}

// playwrightPage adapts a playwright.Page to the Page interface.
type playwrightPage struct {
	page playwright.Page
}

func newPlaywrightPage(page playwright.Page) *playwrightPage {
	return &playwrightPage{page: page}
}

func (p *playwrightPage) Goto(url string) error {
	opts := playwright.PageGotoOptions{WaitUntil: playwright.WaitUntilStateLoad}
	if _, err := p.page.Goto(url, opts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Fill(selector, value string) error {
	if err := p.page.Fill(selector, value); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Click(selector string) error {
	if err := p.page.Click(selector); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (p *playwrightPage) Content() (string, error) {
	content, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("content read failed: %w", err)
	}
	return content, nil
}

func (p *playwrightPage) InnerText(selector string) (string, bool, error) {
	element, err := p.page.QuerySelector(selector)
	if err != nil {
		return "", false, fmt.Errorf("selector query failed: %w", err)
	}
	if element == nil {
		return "", false, nil
	}
	text, err := element.InnerText()
	if err != nil {
		return "", false, fmt.Errorf("text extraction failed: %w", err)
	}
	return text, true, nil
}

func (p *playwrightPage) Exists(selector string) (bool, error) {
	element, err := p.page.QuerySelector(selector)
	if err != nil {
		return false, fmt.Errorf("selector query failed: %w", err)
	}
	return element != nil, nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Title() (string, error) {
	return p.page.Title()
}

func (p *playwrightPage) Screenshot(path string) error {
	fullPage := true
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     &path,
		FullPage: &fullPage,
	})
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}
	return nil
}
