package domain

import "time"

// Credential holds a member's login secret, stored in the credentials
// collection under the member id.
type Credential struct {
	MemberID     string    `json:"member_id" bson:"member_id"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
	UpdatedBy    string    `json:"updated_by" bson:"updated_by"`
}

// Session is what a successful login yields.
type Session struct {
	Token   string         `json:"token"`
	Expires time.Time      `json:"expires_at"`
	Member  *MemberProfile `json:"member"`
}
