package model

type InventoryItem struct {
	BaseModel
	Name          string   `db:"name" json:"name"`
	Unit          string   `db:"unit" json:"unit"` // "pcs", "bottle", "kg", ...
	Category      *string  `db:"category" json:"category"` // Nullable
	CostPerUnit   *float64 `db:"cost_per_unit" json:"cost_per_unit"`
	MinStockLevel float64  `db:"min_stock_level" json:"min_stock_level"`
	TrackStock    bool     `db:"track_stock" json:"track_stock"`
	IsActive      bool     `db:"is_active" json:"is_active"`
}
