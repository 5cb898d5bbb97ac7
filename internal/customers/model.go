package customers

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a laundry client addressed by a sequential code.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Code      int64     `json:"customer_code"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRequest carries the fields for a new customer.
type CreateRequest struct {
	Name    string `json:"name" validate:"required,max=160"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"omitempty,max=255"`
}

// ListRequest filters customer listings.
type ListRequest struct {
	Search  string
	Page    int
	PerPage int
}
