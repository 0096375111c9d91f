package models

import "time"

// NoticeStatus defines the IRS-notice workflow states.
type NoticeStatus string

const (
	NoticeReceived   NoticeStatus = "RECEIVED"
	NoticeInProgress NoticeStatus = "IN_PROGRESS"
	NoticeDrafted    NoticeStatus = "DRAFTED"
	NoticeSent       NoticeStatus = "SENT"
	NoticeClosed     NoticeStatus = "CLOSED"
	NoticeEscalated  NoticeStatus = "ESCALATED"
)

// RiskLevel grades a notice analysis.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// IRSNotice tracks correspondence from the IRS that requires a response.
// Summary, Explanation and ActionItems are filled by the analyze operation;
// ActionItems is a newline-joined list.
type IRSNotice struct {
	ID           string       `json:"id"`
	ClientID     string       `json:"client_id"`
	NoticeType   string       `json:"notice_type"`
	NoticeNumber string       `json:"notice_number,omitempty"`
	Status       NoticeStatus `json:"status"`
	ReceivedDate time.Time    `json:"received_date"`
	ResponseDue  time.Time    `json:"response_due"`
	AssignedToID string       `json:"assigned_to_id,omitempty"`
	CreatedByID  string       `json:"created_by_id"`
	DocumentURL  string       `json:"document_url,omitempty"`
	Summary      string       `json:"summary,omitempty"`
	Explanation  string       `json:"explanation,omitempty"`
	ActionItems  string       `json:"action_items,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NoticeFilter defines the available parameters for listing notices.
type NoticeFilter struct {
	ClientID     *string
	Status       *NoticeStatus
	AssignedToID *string
}
