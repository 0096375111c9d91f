package models

import "time"

// AuditAction enumerates the actions recorded in the activity log.
type AuditAction string

const (
	ActionCreate       AuditAction = "CREATE"
	ActionRead         AuditAction = "READ"
	ActionUpdate       AuditAction = "UPDATE"
	ActionDelete       AuditAction = "DELETE"
	ActionStatusChange AuditAction = "STATUS_CHANGE"
	ActionExport       AuditAction = "EXPORT"
	ActionAnalyze      AuditAction = "ANALYZE"
	ActionSend         AuditAction = "SEND"
)

// ActivityLog is an immutable, append-only audit record. ResourceID is stored
// by value with no foreign key so entries survive deletion of their subject.
type ActivityLog struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id"`
	Details      string      `json:"details,omitempty"`
	IPAddress    string      `json:"ip_address,omitempty"`
	UserAgent    string      `json:"user_agent,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`

	// Joined from users on the read path.
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	UserRole  string `json:"user_role,omitempty"`
}

// ActivityLogFilter defines the available parameters for reading the log.
type ActivityLogFilter struct {
	UserID       *string
	ResourceType *string
	ResourceID   *string
	StartDate    *time.Time
	EndDate      *time.Time
}

// Actor identifies who performed a mutating request, for audit attribution.
type Actor struct {
	UserID    string
	IPAddress string
	UserAgent string
}
