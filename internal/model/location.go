package model

const (
	LocationKindStore = "store"
	LocationKindBar   = "bar"
)

type Location struct {
	BaseModel
	Name     string `db:"name" json:"name"`
	Kind     string `db:"kind" json:"kind"` // store | bar
	IsActive bool   `db:"is_active" json:"is_active"`
}
