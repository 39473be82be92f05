package models

import "time"

// Worker is a member of the workforce, owned by exactly one account.
type Worker struct {
	ID         string    `json:"id" validate:"required,uuid"`
	Name       string    `json:"name" validate:"required"`
	Position   string    `json:"position"`
	Salary     float64   `json:"salary"` // daily rate
	Phone      string    `json:"phone,omitempty"`
	CardNumber string    `json:"card_number,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
