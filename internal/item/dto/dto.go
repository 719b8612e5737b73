package dto

type CreateItemInput struct {
	Name          string   `json:"name"`
	Unit          string   `json:"unit"`
	Category      string   `json:"category"`
	CostPerUnit   *float64 `json:"cost_per_unit"`
	MinStockLevel float64  `json:"min_stock_level"`
	TrackStock    bool     `json:"track_stock"`
}

type ItemFilters struct {
	Category    string
	SearchQuery string
	IsActive    *bool
	Page        int
	PageSize    int
}
