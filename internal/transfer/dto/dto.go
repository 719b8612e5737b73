package dto

type RequestInput struct {
	SourceLocationID string  `json:"source_location"`
	DestLocationID   string  `json:"destination_location"`
	ItemID           string  `json:"item_id"`
	Quantity         float64 `json:"quantity"`
	Notes            string  `json:"notes"`
}

type TransferFilters struct {
	LocationID string // matches source or destination
	Status     string
	ItemID     string
	Page       int
	PageSize   int
}
