package pages

// Login page selectors.
const (
	LoginUsernameInput = "#user-name"
	LoginPasswordInput = "#password"
	LoginButton        = "#login-button"
	LoginErrorMessage  = `[data-test="error"]`
)

// Inventory page selectors.
const (
	InventoryTitle = ".title"
	InventoryList  = ".inventory_list"
	InventoryItem  = ".inventory_item"
)
