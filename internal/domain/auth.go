package domain

import "time"

// Session describes an issued identity token.
type Session struct {
	Token     string
	UserID    string
	Role      Role
	CompanyID string
	ExpiresAt time.Time
}
