// Package testutil provides in-memory stand-ins for the playwright handles
// the harness drives, so executors and page objects can be tested without a
// browser.
package testutil

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
)

// ErrTimeout is returned by fake waits whose condition never holds.
var ErrTimeout = errors.New("Timeout exceeded")

// pwLocator names the embedded interface so it does not shadow the
// Locator method.
type pwLocator = playwright.Locator

// Locator is a scripted playwright.Locator. Methods the harness does not
// use are inherited from the nil embedded interface and panic if called.
type Locator struct {
	pwLocator

	mu sync.Mutex

	Selector string
	Visible  bool
	Attached bool
	Enabled  bool
	Editable bool
	Text     string
	Value    string
	Items    int

	// EnableAfter makes IsEnabled report false for that many calls first.
	EnableAfter int

	ClickErr  error
	FillErr   error
	SelectErr error
	TextErr   error
	CountErr  error

	// OnClick runs after a successful click, e.g. to simulate navigation.
	OnClick func()

	Clicks   int
	Fills    []string
	Selected []playwright.SelectOptionValues
	Waits    []string
	// WaitTimeouts holds the Timeout option of each WaitFor call, nil when unset.
	WaitTimeouts []*float64
	enableChk    int
}

// NewVisible returns a visible, enabled and editable locator.
func NewVisible(selector string) *Locator {
	return &Locator{Selector: selector, Visible: true, Attached: true, Enabled: true, Editable: true}
}

func (l *Locator) WaitFor(options ...playwright.LocatorWaitForOptions) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	state := "visible"
	var timeout *float64
	if len(options) > 0 {
		if options[0].State != nil {
			state = string(*options[0].State)
		}
		timeout = options[0].Timeout
	}
	l.Waits = append(l.Waits, state)
	l.WaitTimeouts = append(l.WaitTimeouts, timeout)

	switch state {
	case "visible":
		if l.Visible {
			return nil
		}
	case "attached":
		if l.Visible || l.Attached {
			return nil
		}
	case "hidden":
		if !l.Visible {
			return nil
		}
	case "detached":
		if !l.Visible && !l.Attached {
			return nil
		}
	}
	return fmt.Errorf("locator.waitFor %s: waiting for %s: %w", l.Selector, state, ErrTimeout)
}

func (l *Locator) IsVisible(options ...playwright.LocatorIsVisibleOptions) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Visible, nil
}

func (l *Locator) IsEnabled(options ...playwright.LocatorIsEnabledOptions) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enableChk++
	if l.enableChk <= l.EnableAfter {
		return false, nil
	}
	return l.Enabled, nil
}

func (l *Locator) IsEditable(options ...playwright.LocatorIsEditableOptions) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Editable, nil
}

func (l *Locator) Click(options ...playwright.LocatorClickOptions) error {
	l.mu.Lock()
	if l.ClickErr != nil {
		l.mu.Unlock()
		return l.ClickErr
	}
	l.Clicks++
	onClick := l.OnClick
	l.mu.Unlock()

	if onClick != nil {
		onClick()
	}
	return nil
}

func (l *Locator) Fill(value string, options ...playwright.LocatorFillOptions) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.FillErr != nil {
		return l.FillErr
	}
	l.Fills = append(l.Fills, value)
	l.Value = value
	return nil
}

func (l *Locator) SelectOption(values playwright.SelectOptionValues, options ...playwright.LocatorSelectOptionOptions) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.SelectErr != nil {
		return nil, l.SelectErr
	}
	l.Selected = append(l.Selected, values)
	return []string{"selected"}, nil
}

func (l *Locator) TextContent(options ...playwright.LocatorTextContentOptions) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.TextErr != nil {
		return "", l.TextErr
	}
	return l.Text, nil
}

func (l *Locator) InputValue(options ...playwright.LocatorInputValueOptions) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Value, nil
}

func (l *Locator) Count() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.CountErr != nil {
		return 0, l.CountErr
	}
	return l.Items, nil
}

// Page is a scripted playwright.Page holding one locator per selector.
type Page struct {
	playwright.Page

	mu sync.Mutex

	BaseURL  string
	Current  string
	GotoErr  error
	Visited  []string
	locators map[string]*Locator
}

// NewPage returns a page rooted at baseURL.
func NewPage(baseURL string) *Page {
	return &Page{BaseURL: strings.TrimSuffix(baseURL, "/"), locators: map[string]*Locator{}}
}

// Set registers the locator returned for selector.
func (p *Page) Set(selector string, l *Locator) *Locator {
	p.mu.Lock()
	defer p.mu.Unlock()
	l.Selector = selector
	p.locators[selector] = l
	return l
}

// Get returns the locator for selector, creating a detached one if needed.
func (p *Page) Get(selector string) *Locator {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locators[selector]
	if !ok {
		l = &Locator{Selector: selector}
		p.locators[selector] = l
	}
	return l
}

// Navigate sets the current location, resolving relative paths.
func (p *Page) Navigate(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Current = p.resolve(url)
}

func (p *Page) resolve(url string) string {
	if strings.HasPrefix(url, "/") {
		return p.BaseURL + url
	}
	return url
}

func (p *Page) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Visited = append(p.Visited, url)
	if p.GotoErr != nil {
		return nil, p.GotoErr
	}
	p.Current = p.resolve(url)
	return nil, nil
}

func (p *Page) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	return p.Get(selector)
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Current
}

func (p *Page) WaitForURL(url interface{}, options ...playwright.PageWaitForURLOptions) error {
	current := p.URL()

	var ok bool
	switch m := url.(type) {
	case string:
		ok = current == m
	case *regexp.Regexp:
		ok = m.MatchString(current)
	case func(string) bool:
		ok = m(current)
	default:
		return fmt.Errorf("unsupported url matcher %T", url)
	}
	if !ok {
		return fmt.Errorf("page.waitForURL: current %q: %w", current, ErrTimeout)
	}
	return nil
}
