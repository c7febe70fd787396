package model

import "time"

// Product mirrors the `products` table. The catalog describes collectible
// figures, hence the brand/material/scale attributes. Images are stored as a
// JSON-encoded string array in a single column.
type Product struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price"`
	CategoryID  uint64     `json:"category_id"`
	Images      []string   `json:"images,omitempty"`
	Brand       string     `json:"brand,omitempty"`
	Material    string     `json:"material,omitempty"`
	Scale       string     `json:"scale,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
