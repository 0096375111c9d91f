package models

import "time"

// ClientType distinguishes individual taxpayers from business entities.
type ClientType string

const (
	ClientIndividual ClientType = "INDIVIDUAL"
	ClientBusiness   ClientType = "BUSINESS"
)

// Client represents a client of the practice. ClientID is the human-readable
// sequence token (CL-<year>-<seq>); ID is the opaque primary key.
type Client struct {
	ID               string     `json:"id"`
	ClientID         string     `json:"client_id"`
	Type             ClientType `json:"type"`
	FirstName        string     `json:"first_name,omitempty"`
	LastName         string     `json:"last_name,omitempty"`
	BusinessName     string     `json:"business_name,omitempty"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone,omitempty"`
	FilingStatus     string     `json:"filing_status,omitempty"`
	EntityType       string     `json:"entity_type,omitempty"`
	Address          string     `json:"address,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	Zip              string     `json:"zip,omitempty"`
	Country          string     `json:"country,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	InternalComments string     `json:"internal_comments,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedByID      string     `json:"created_by_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// DisplayName returns the client's name regardless of type.
func (c *Client) DisplayName() string {
	if c.Type == ClientBusiness {
		return c.BusinessName
	}
	return c.FirstName + " " + c.LastName
}

// ClientFilter defines the available parameters for listing clients.
type ClientFilter struct {
	Search   string
	Type     *ClientType
	IsActive *bool
}
