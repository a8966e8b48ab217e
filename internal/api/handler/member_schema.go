package handler

import (
	"time"

	"github.com/lodgeroll/membership/internal/core/domain"
)

const dateLayout = "2006-01-02"

type memberRequest struct {
	DisplayName           string  `json:"display_name"            validate:"required"`
	Email                 string  `json:"email"                   validate:"required,email"`
	Phone                 string  `json:"phone"`
	Address               string  `json:"address"`
	EmergencyContactName  string  `json:"emergency_contact_name"`
	EmergencyContactPhone string  `json:"emergency_contact_phone"`
	Role                  *string `json:"role"`
	JoinDate              string  `json:"join_date"               validate:"omitempty,datetime=2006-01-02"`
	Notes                 string  `json:"notes"`
	PhotoURL              string  `json:"photo_url"               validate:"omitempty,url"`
	IsActive              *bool   `json:"is_active"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type setPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type memberListResponse struct {
	Members []domain.MemberProfile `json:"members"`
	Count   int                    `json:"count"`
	// Stale is set when the reload failed and the cached directory was served.
	Stale bool   `json:"stale,omitempty"`
	Error string `json:"error,omitempty"`
}

// toForm maps the HTTP request to the domain form. Unknown role tags are
// passed through so the domain rejects them with a validation error.
func toForm(r memberRequest) domain.MemberForm {
	form := domain.MemberForm{
		DisplayName:           r.DisplayName,
		Email:                 r.Email,
		Phone:                 r.Phone,
		Address:               r.Address,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		Notes:                 r.Notes,
		PhotoURL:              r.PhotoURL,
		IsActive:              r.IsActive,
	}
	if r.Role != nil {
		role := domain.ParseRole(*r.Role)
		form.Role = &role
	}
	if r.JoinDate != "" {
		// Format already checked by the validator.
		form.JoinDate, _ = time.Parse(dateLayout, r.JoinDate)
	}
	return form
}
