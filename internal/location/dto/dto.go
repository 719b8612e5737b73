package dto

type CreateLocationInput struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // store | bar
}

type LocationFilters struct {
	Kind     string
	IsActive *bool
	Page     int
	PageSize int
}
