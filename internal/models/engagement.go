package models

import "time"

// EngagementStatus defines the engagement workflow states.
type EngagementStatus string

const (
	EngagementNew              EngagementStatus = "NEW"
	EngagementDocumentsPending EngagementStatus = "DOCUMENTS_PENDING"
	EngagementInProgress       EngagementStatus = "IN_PROGRESS"
	EngagementCompleted        EngagementStatus = "COMPLETED"
	EngagementCancelled        EngagementStatus = "CANCELLED"
)

// Engagement is a contracted scope of tax work for one client and tax year.
type Engagement struct {
	ID           string           `json:"id"`
	ClientID     string           `json:"client_id"`
	TaxYear      int              `json:"tax_year"`
	Type         string           `json:"type"`
	Status       EngagementStatus `json:"status"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
	FeeAmount    float64          `json:"fee_amount"`
	AssignedToID string           `json:"assigned_to_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// EngagementFilter defines the available parameters for listing engagements.
type EngagementFilter struct {
	ClientID *string
	TaxYear  *int
	Status   *EngagementStatus
}
