package models

import "time"

// EmailTemplate is a reusable message template for client communications.
// Variables is a JSON-encoded list of placeholder names.
type EmailTemplate struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject"`
	Content     string    `json:"content"`
	Type        string    `json:"type,omitempty"`
	Variables   string    `json:"variables,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedByID string    `json:"created_by_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
