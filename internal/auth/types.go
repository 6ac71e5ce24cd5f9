package auth

import "time"

// AccountKind discriminates human logins from machine ("app") credentials.
type AccountKind string

const (
	AccountKindHuman AccountKind = "HUMAN"
	AccountKindApp   AccountKind = "APP"
)

// Account is the credential-store record behind every authenticated caller.
// Exactly one of PasswordHash (HUMAN) or ClientID+ClientSecretHash (APP) is
// meaningful, selected by Kind.
type Account struct {
	ID                 string      `json:"id"`
	Username           string      `json:"username"`
	Email              string      `json:"email"`
	FirstName          string      `json:"first_name,omitempty"`
	LastName           string      `json:"last_name,omitempty"`
	PhoneNumber        string      `json:"phone_number,omitempty"`
	Kind               AccountKind `json:"user_type"`
	PasswordHash       string      `json:"-"`
	ClientID           string      `json:"client_id,omitempty"`
	ClientSecretHash   string      `json:"-"`
	Role               string      `json:"role,omitempty"`
	ParentOrganization string      `json:"parent_organization"`
	Superuser          bool        `json:"-"`
	Active             bool        `json:"is_active"`
	UpdatedBy          string      `json:"updated_by,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// Role is a named bundle of permission codenames. An account is assumed to
// hold at most one role at a time.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Permission is a single named capability, e.g. add_bill.
type Permission struct {
	ID          string    `json:"id"`
	Codename    string    `json:"codename"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
