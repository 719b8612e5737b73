package dto

type StockFilters struct {
	LocationID string
	ItemID     string
	LowStock   bool // current_stock <= min_stock_level
	Page       int
	PageSize   int
}

type MovementFilters struct {
	ItemID       string
	LocationID   string
	MovementType string
	Reference    string
	Page         int
	PageSize     int
}
