package domain

import "time"

// Product is a catalog record.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// ProductPatch carries the fields of a partial update. Nil fields are left
// untouched in the stored record.
type ProductPatch struct {
	Name        *string
	Category    *string
	Price       *float64
	Stock       *int
	Description *string
	Image       *string
}

// Empty reports whether the patch would change nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil &&
		p.Stock == nil && p.Description == nil && p.Image == nil
}
