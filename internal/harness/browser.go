// Package harness holds the interaction executors shared by page objects and
// API objects. Browser wraps a browser tab and API wraps an HTTP request
// context. Both log every step and turn engine failures into typed errors.
package harness

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/e2eharness/internal/logging"
)

const mask = "****"

// Page is the part of playwright.Page the Browser executor drives.
type Page interface {
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
	Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator
	URL() string
	WaitForURL(url interface{}, options ...playwright.PageWaitForURLOptions) error
}

// URLPattern decides whether a page location satisfies a wait.
type URLPattern interface {
	Match(url string) bool
	String() string
}

type exactURL string

func (p exactURL) Match(url string) bool { return url == string(p) }
func (p exactURL) String() string        { return "equals " + string(p) }

type containsURL string

func (p containsURL) Match(url string) bool { return strings.Contains(url, string(p)) }
func (p containsURL) String() string        { return "contains " + string(p) }

type regexpURL struct{ re *regexp.Regexp }

func (p regexpURL) Match(url string) bool { return p.re.MatchString(url) }
func (p regexpURL) String() string        { return "matches " + p.re.String() }

// ExactURL matches a location equal to url.
func ExactURL(url string) URLPattern { return exactURL(url) }

// URLContaining matches a location containing substr.
func URLContaining(substr string) URLPattern { return containsURL(substr) }

// URLMatching matches a location against re.
func URLMatching(re *regexp.Regexp) URLPattern { return regexpURL{re: re} }

// SelectOption picks a dropdown option by value, label or index.
type SelectOption struct {
	values playwright.SelectOptionValues
	desc   string
}

// ByValue selects the option whose value attribute is v.
func ByValue(v string) SelectOption {
	return SelectOption{values: playwright.SelectOptionValues{Values: &[]string{v}}, desc: "value " + v}
}

// ByLabel selects the option whose visible label is l.
func ByLabel(l string) SelectOption {
	return SelectOption{values: playwright.SelectOptionValues{Labels: &[]string{l}}, desc: "label " + l}
}

// ByIndex selects the option at position i.
func ByIndex(i int) SelectOption {
	return SelectOption{values: playwright.SelectOptionValues{Indexes: &[]int{i}}, desc: fmt.Sprintf("index %d", i)}
}

func (o SelectOption) String() string { return o.desc }

// Browser performs safe interactions against one browser tab.
type Browser struct {
	page   Page
	logger logging.Logger
}

// NewBrowser binds a Browser executor to page.
func NewBrowser(page Page, logger logging.Logger) *Browser {
	return &Browser{page: page, logger: logger}
}

// Page returns the driving handle.
func (b *Browser) Page() Page {
	return b.page
}

// Locator resolves selector on the driving page.
func (b *Browser) Locator(selector string) playwright.Locator {
	return b.page.Locator(selector)
}

// Goto loads url, relative to the browser context's base URL.
func (b *Browser) Goto(ctx context.Context, url, description string) error {
	b.logger.Info("Navigating to: " + description)
	if err := ctx.Err(); err != nil {
		return b.navFail(description, url, err)
	}
	if _, err := b.page.Goto(url); err != nil {
		return b.navFail(description, url, err)
	}
	b.logger.Info("Navigated to: "+description, "url", b.page.URL())
	return nil
}

func (b *Browser) navFail(description, url string, err error) error {
	b.logger.Error("Failed to navigate to "+description, "url", url, "error", err)
	return &NavigationError{Description: description, URL: url, Err: err}
}

// SafeClick waits for target to be visible and enabled, then clicks it.
func (b *Browser) SafeClick(ctx context.Context, target playwright.Locator, description string, opts ...Option) error {
	timeout := resolveTimeout(ctx, defaultActionTimeout, opts)
	b.logger.Info("Attempting to click: " + description)

	err := b.waitVisible(ctx, target, timeout)
	if err == nil {
		err = b.waitState(ctx, timeout, "enabled", func() (bool, error) { return target.IsEnabled() })
	}
	if err == nil {
		err = target.Click(playwright.LocatorClickOptions{Timeout: ms(timeout)})
	}
	if err != nil {
		return b.fail("click", description, err, "")
	}

	b.logger.Info("Successfully clicked: " + description)
	return nil
}

// SafeFill waits for target to be visible and editable, then sets its value
// to text. The text itself is never logged.
func (b *Browser) SafeFill(ctx context.Context, target playwright.Locator, text, description string, opts ...Option) error {
	timeout := resolveTimeout(ctx, defaultActionTimeout, opts)
	b.logger.Info("Attempting to fill: " + description + " with text: " + mask)

	err := b.waitVisible(ctx, target, timeout)
	if err == nil {
		err = b.waitState(ctx, timeout, "editable", func() (bool, error) { return target.IsEditable() })
	}
	if err == nil {
		err = target.Fill(text, playwright.LocatorFillOptions{Timeout: ms(timeout)})
	}
	if err != nil {
		return b.fail("fill", description, err, text)
	}

	b.logger.Info("Successfully filled: " + description)
	return nil
}

// SafeSelectOption waits for target to be visible and selects option.
func (b *Browser) SafeSelectOption(ctx context.Context, target playwright.Locator, option SelectOption, description string, opts ...Option) error {
	timeout := resolveTimeout(ctx, defaultActionTimeout, opts)
	b.logger.Info("Attempting to select option in: "+description, "option", option.String())

	err := b.waitVisible(ctx, target, timeout)
	if err == nil {
		_, err = target.SelectOption(option.values, playwright.LocatorSelectOptionOptions{Timeout: ms(timeout)})
	}
	if err != nil {
		return b.fail("select option in", description, err, "")
	}

	b.logger.Info("Successfully selected option in: " + description)
	return nil
}

// WaitForURL blocks until the page location satisfies pattern.
func (b *Browser) WaitForURL(ctx context.Context, pattern URLPattern, description string, opts ...Option) error {
	timeout := resolveTimeout(ctx, defaultURLTimeout, opts)
	b.logger.Info("Waiting for URL to be: "+description, "pattern", pattern.String())

	err := ctx.Err()
	if err == nil {
		err = b.page.WaitForURL(pattern.Match, playwright.PageWaitForURLOptions{Timeout: ms(timeout)})
	}
	if err != nil {
		b.logger.Error("Timeout waiting for URL "+description, "pattern", pattern.String(), "url", b.page.URL(), "error", err)
		return &NavigationTimeoutError{Description: description, Pattern: pattern.String(), Err: err}
	}

	b.logger.Info("URL is now: "+description, "url", b.page.URL())
	return nil
}

// GetText waits for target to be attached and returns its text content.
// Empty content is reported as an EmptyContentError.
func (b *Browser) GetText(ctx context.Context, target playwright.Locator, description string) (string, error) {
	timeout := resolveTimeout(ctx, defaultTextTimeout, nil)
	b.logger.Info("Getting text from: " + description)

	err := ctx.Err()
	if err == nil {
		err = target.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateAttached,
			Timeout: ms(timeout),
		})
	}
	var text string
	if err == nil {
		text, err = target.TextContent(playwright.LocatorTextContentOptions{Timeout: ms(timeout)})
	}
	if err != nil {
		return "", b.fail("get text from", description, err, "")
	}
	if text == "" {
		empty := &EmptyContentError{Description: description}
		b.logger.Error("Failed to get text from "+description, "error", empty)
		return "", empty
	}

	b.logger.Info(fmt.Sprintf("Got text: %q from: %s", text, description))
	return text, nil
}

// Count returns the number of elements target matches.
func (b *Browser) Count(ctx context.Context, target playwright.Locator, description string) (int, error) {
	b.logger.Info("Counting: " + description)

	err := ctx.Err()
	var n int
	if err == nil {
		n, err = target.Count()
	}
	if err != nil {
		return 0, b.fail("count", description, err, "")
	}

	b.logger.Info(fmt.Sprintf("Counted %d of: %s", n, description))
	return n, nil
}

// ExpectVisible asserts that target becomes visible within the timeout.
func (b *Browser) ExpectVisible(ctx context.Context, target playwright.Locator, description string, opts ...Option) error {
	timeout := resolveTimeout(ctx, defaultExpectTimeout, opts)
	b.logger.Info("Verifying visible: " + description)

	err := poll(ctx, timeout, func() (bool, error) { return target.IsVisible() })
	if err != nil {
		failure := &AssertionError{Description: description, Expected: "visible", Actual: "not visible", Err: err}
		b.logger.Error("Verification failed: "+description, "error", failure)
		return failure
	}

	b.logger.Info("Verified visible: " + description)
	return nil
}

// ExpectText asserts that the text of target equals want, after whitespace
// normalisation, within the timeout.
func (b *Browser) ExpectText(ctx context.Context, target playwright.Locator, want, description string, opts ...Option) error {
	timeout := resolveTimeout(ctx, defaultExpectTimeout, opts)
	b.logger.Info("Verifying text of: "+description, "expected", want)

	var got string
	err := poll(ctx, timeout, func() (bool, error) {
		text, err := target.TextContent(playwright.LocatorTextContentOptions{Timeout: ms(timeout)})
		if err != nil {
			return false, err
		}
		got = normalizeSpace(text)
		return got == normalizeSpace(want), nil
	})
	if err != nil {
		failure := &AssertionError{Description: description, Expected: want, Actual: got, Err: err}
		b.logger.Error("Verification failed: "+description, "error", failure)
		return failure
	}

	b.logger.Info("Verified text of: " + description)
	return nil
}

func (b *Browser) waitVisible(ctx context.Context, target playwright.Locator, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return target.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: ms(timeout),
	})
}

func (b *Browser) waitState(ctx context.Context, timeout time.Duration, state string, check func() (bool, error)) error {
	if err := poll(ctx, timeout, check); err != nil {
		return fmt.Errorf("target is not %s: %w", state, err)
	}
	return nil
}

// fail logs and wraps an engine error. When secret is set, every occurrence
// of it is masked in both the log line and the returned error text.
func (b *Browser) fail(op, description string, err error, secret string) error {
	if secret != "" && strings.Contains(err.Error(), secret) {
		err = &redactedError{msg: strings.ReplaceAll(err.Error(), secret, mask), err: err}
	}
	b.logger.Error(fmt.Sprintf("Failed to %s %s", op, description), "error", err.Error())
	return &InteractionError{Op: op, Description: description, Err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
