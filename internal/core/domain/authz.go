package domain

import "fmt"

// Actor is the authenticated identity performing an operation. It is passed
// explicitly into every mutating call; nothing in the core reads a session.
type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

// HasSecurityLevel reports whether role carries at least the required level.
func HasSecurityLevel(role Role, required SecurityLevel) bool {
	return Level(role) >= required
}

// CanManageSystem reports whether role is the system administrator tag.
// It is a named identity, not a rank: no level grants it.
func CanManageSystem(role Role) bool {
	return role == RoleSudoAdmin
}

// RequireLevel returns ErrPermissionDenied unless the actor's role reaches required.
func RequireLevel(actor Actor, required SecurityLevel, op string) error {
	if !HasSecurityLevel(actor.Role, required) {
		return fmt.Errorf("%s: %w (role %q below level %d)", op, ErrPermissionDenied, actor.Role, required)
	}
	return nil
}

// RequireSystemAdmin returns ErrPermissionDenied unless the actor can manage the system.
func RequireSystemAdmin(actor Actor, op string) error {
	if !CanManageSystem(actor.Role) {
		return fmt.Errorf("%s: %w (system administration required)", op, ErrPermissionDenied)
	}
	return nil
}
