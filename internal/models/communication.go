package models

import "time"

// CommDirection distinguishes inbound, outbound and internal messages.
type CommDirection string

const (
	DirectionInbound  CommDirection = "INBOUND"
	DirectionOutbound CommDirection = "OUTBOUND"
	DirectionInternal CommDirection = "INTERNAL"
)

// CommStatus defines the communication delivery states.
type CommStatus string

const (
	CommDraft     CommStatus = "DRAFT"
	CommSent      CommStatus = "SENT"
	CommDelivered CommStatus = "DELIVERED"
	CommFailed    CommStatus = "FAILED"
	CommRead      CommStatus = "READ"
)

// Communication is a logged message to or from a client.
type Communication struct {
	ID          string        `json:"id"`
	ClientID    string        `json:"client_id"`
	Type        string        `json:"type"`
	Direction   CommDirection `json:"direction"`
	Subject     string        `json:"subject"`
	Content     string        `json:"content,omitempty"`
	TemplateID  *string       `json:"template_id,omitempty"`
	SentByID    string        `json:"sent_by_id,omitempty"`
	SentToEmail string        `json:"sent_to_email,omitempty"`
	SentAt      *time.Time    `json:"sent_at,omitempty"`
	Status      CommStatus    `json:"status"`
	IsSecure    bool          `json:"is_secure"`
	Attachments string        `json:"attachments,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CommunicationFilter defines the available parameters for listing communications.
type CommunicationFilter struct {
	ClientID  *string
	Type      *string
	Status    *CommStatus
	SentByID  *string
	Direction *CommDirection
}
