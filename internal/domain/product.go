package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a product record in the catalog.
//
// CreatedBy/CreatedAt are stamped exactly once when the record is created.
// UpdatedBy/UpdatedAt stay empty until the first update and are refreshed on
// every mutation after that.
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	Category    string     `json:"category" db:"category"`
	Stock       int        `json:"stock" db:"stock"`
	CreatedBy   string     `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedBy   string     `json:"updated_by,omitempty" db:"updated_by"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}
