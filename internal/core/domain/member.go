package domain

import (
	"strings"
	"time"
)

// Document is a record as exchanged with the document store: its field set
// with the store id merged under the "id" key.
type Document = map[string]any

// Collection names in the remote store.
const (
	CollectionUsers       = "users"
	CollectionEvents      = "events"
	CollectionAttendance  = "attendance"
	CollectionCredentials = "credentials"
)

// MemberProfile is a member's directory entry, stored in the users collection.
// Email is a secondary natural key for search; uniqueness is not enforced.
type MemberProfile struct {
	ID                    string    `json:"id" bson:"id,omitempty"`
	DisplayName           string    `json:"display_name" bson:"display_name"`
	Email                 string    `json:"email" bson:"email"`
	Phone                 string    `json:"phone,omitempty" bson:"phone"`
	Address               string    `json:"address,omitempty" bson:"address"`
	EmergencyContactName  string    `json:"emergency_contact_name,omitempty" bson:"emergency_contact_name"`
	EmergencyContactPhone string    `json:"emergency_contact_phone,omitempty" bson:"emergency_contact_phone"`
	Role                  Role      `json:"role" bson:"role"`
	JoinDate              time.Time `json:"join_date,omitempty" bson:"join_date,omitempty"`
	Notes                 string    `json:"notes,omitempty" bson:"notes"`
	PhotoURL              string    `json:"photo_url,omitempty" bson:"photo_url"`
	IsActive              bool      `json:"is_active" bson:"is_active"`
	CreatedAt             time.Time `json:"created_at" bson:"created_at,omitempty"`
	CreatedBy             string    `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedAt             time.Time `json:"updated_at" bson:"updated_at,omitempty"`
	UpdatedBy             string    `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}

// MemberForm carries the editable fields of a profile as submitted by the app.
// IsActive and Role are pointers so an update can leave them untouched.
type MemberForm struct {
	DisplayName           string
	Email                 string
	Phone                 string
	Address               string
	EmergencyContactName  string
	EmergencyContactPhone string
	Role                  *Role
	JoinDate              time.Time
	Notes                 string
	PhotoURL              string
	IsActive              *bool
}

// Validate checks the fields required for a profile to be considered valid.
func (f MemberForm) Validate() error {
	if strings.TrimSpace(f.DisplayName) == "" {
		return validationError("display name is required")
	}
	if strings.TrimSpace(f.Email) == "" {
		return validationError("email is required")
	}
	if f.Role != nil && !f.Role.Valid() {
		return validationError("unknown role %q", *f.Role)
	}
	return nil
}

// Validate checks a stored profile.
func (m *MemberProfile) Validate() error {
	if strings.TrimSpace(m.DisplayName) == "" {
		return validationError("display name is required")
	}
	if strings.TrimSpace(m.Email) == "" {
		return validationError("email is required")
	}
	return nil
}
