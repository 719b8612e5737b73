package dto

type CartLine struct {
	ItemID   string  `json:"item_id"`
	Quantity float64 `json:"quantity"`
}

type InsufficientLine struct {
	ItemID    string  `json:"item_id"`
	Requested float64 `json:"requested"`
	Available float64 `json:"available"`
}

type ValidationResult struct {
	Valid             bool               `json:"valid"`
	InsufficientLines []InsufficientLine `json:"insufficient_lines,omitempty"`
}

type DeductionInput struct {
	OrderID string     `json:"order_id"`
	BarID   string     `json:"bar_id"`
	Lines   []CartLine `json:"lines"`
	UserID  string     `json:"-"`
}
