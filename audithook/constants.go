package audithook

// Action constants for audit events.
const (
	// Sale actions
	ActionSaleCompleted = "sale.completed"
	ActionSaleRejected  = "sale.rejected"
	ActionSaleReverted  = "sale.reverted"

	// Inventory actions
	ActionInventoryChanged  = "inventory.changed"
	ActionInventoryShortage = "inventory.shortage"

	// Balance actions
	ActionBalanceChanged = "balance.changed"

	// Registry actions
	ActionClerkHired = "clerk.hired"

	// Journal actions
	ActionTransactionsFlushed = "transactions.flushed"
)

// Resource constants for audit events.
const (
	ResourceSale      = "sale"
	ResourceInventory = "inventory"
	ResourceBalance   = "balance"
	ResourceClerk     = "clerk"
	ResourceJournal   = "journal"
)

// Category constants for audit events.
const (
	CategorySales       = "sales"
	CategoryInventory   = "inventory"
	CategoryFinance     = "finance"
	CategoryStaffing    = "staffing"
	CategoryPersistence = "persistence"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomePartial = "partial"
)
