package dto

type MutationInput struct {
	LocationID    string  `json:"location_id"`
	ItemID        string  `json:"item_id"`
	Quantity      float64 `json:"quantity"`
	Notes         string  `json:"notes"`
	Reference     string  `json:"reference"`
	ReferenceType string  `json:"reference_type"` // 'order', 'transfer', 'import', 'manual'
	UserID        string  `json:"-"`
}

type AdjustInput struct {
	LocationID  string  `json:"location_id"`
	ItemID      string  `json:"item_id"`
	NewQuantity float64 `json:"new_quantity"`
	Reason      string  `json:"reason"`
	UserID      string  `json:"-"`
}

// BatchEntry is one row of a bulk operation or CSV import.
type BatchEntry struct {
	Line       int     `json:"line,omitempty"` // source row for imports
	LocationID string  `json:"location_id"`
	ItemID     string  `json:"item_id"`
	Type       string  `json:"type"` // in | out | adjustment
	Quantity   float64 `json:"quantity"`
	Notes      string  `json:"notes"`
}

// BatchResult reports the outcome of one entry. Parse failures and stock
// failures share this shape so import tools render one list.
type BatchResult struct {
	Entry BatchEntry `json:"entry"`
	OK    bool       `json:"ok"`
	Error string     `json:"error,omitempty"`
}
