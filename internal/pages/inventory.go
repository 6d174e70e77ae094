package pages

import (
	"context"
	"regexp"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/e2eharness/internal/harness"
	"github.com/themizzi/e2eharness/internal/logging"
)

// InventoryTitleText is the heading of the product listing.
const InventoryTitleText = "Products"

var inventoryURL = regexp.MustCompile(`/inventory\.html`)

// InventoryPage is the product listing shown after login.
type InventoryPage struct {
	*harness.Browser
	logger logging.Logger

	PageTitle     playwright.Locator
	InventoryList playwright.Locator
	Items         playwright.Locator
}

// NewInventoryPage binds an InventoryPage to page.
func NewInventoryPage(page harness.Page, logger logging.Logger) *InventoryPage {
	b := harness.NewBrowser(page, logger)
	return &InventoryPage{
		Browser:       b,
		logger:        logger,
		PageTitle:     b.Locator(InventoryTitle),
		InventoryList: b.Locator(InventoryList),
		Items:         b.Locator(InventoryItem),
	}
}

// VerifyInventoryPageIsDisplayed checks the URL, the list and the title, in
// that order, and stops at the first failure.
func (p *InventoryPage) VerifyInventoryPageIsDisplayed(ctx context.Context) error {
	p.logger.Info("Verifying inventory page is displayed...")
	if err := p.WaitForURL(ctx, harness.URLMatching(inventoryURL), "Inventory Page URL"); err != nil {
		return err
	}
	if err := p.ExpectVisible(ctx, p.InventoryList, "Inventory list"); err != nil {
		return err
	}
	if err := p.ExpectText(ctx, p.PageTitle, InventoryTitleText, "Page title"); err != nil {
		return err
	}
	p.logger.Info("Inventory page verified.")
	return nil
}

// ItemCount returns the number of products listed.
func (p *InventoryPage) ItemCount(ctx context.Context) (int, error) {
	return p.Count(ctx, p.Items, "Inventory items")
}
