package models

import "time"

// ReturnStatus defines the tax-return workflow states.
type ReturnStatus string

const (
	ReturnNew              ReturnStatus = "NEW"
	ReturnDocumentsPending ReturnStatus = "DOCUMENTS_PENDING"
	ReturnPreparation      ReturnStatus = "PREPARATION"
	ReturnReview           ReturnStatus = "REVIEW"
	ReturnReadyToFile      ReturnStatus = "READY_TO_FILE"
	ReturnFiled            ReturnStatus = "FILED"
	ReturnAccepted         ReturnStatus = "ACCEPTED"
	ReturnCompleted        ReturnStatus = "COMPLETED"
	ReturnOnHold           ReturnStatus = "ON_HOLD"
)

// TaxReturn represents one return being prepared for a client.
type TaxReturn struct {
	ID             string       `json:"id"`
	ClientID       string       `json:"client_id"`
	EngagementID   *string      `json:"engagement_id,omitempty"`
	TaxYear        int          `json:"tax_year"`
	Type           string       `json:"type"`
	Status         ReturnStatus `json:"status"`
	Priority       Priority     `json:"priority"`
	AssignedToID   string       `json:"assigned_to_id,omitempty"`
	ReviewerID     string       `json:"reviewer_id,omitempty"`
	FederalResult  string       `json:"federal_result,omitempty"`
	StateResult    string       `json:"state_result,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	FiledDate      *time.Time   `json:"filed_date,omitempty"`
	CompletionDate *time.Time   `json:"completion_date,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// ReturnFilter defines the available parameters for listing returns.
type ReturnFilter struct {
	ClientID     *string
	Status       *ReturnStatus
	AssignedToID *string
	TaxYear      *int
}
