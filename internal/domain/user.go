package domain

// Role enumerates dashboard roles, from platform administrator down to end-user.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleTeamLead Role = "TEAM_LEAD"
	RoleAgent    Role = "AGENT"
	RoleUser     Role = "USER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTeamLead, RoleAgent, RoleUser:
		return true
	}
	return false
}

// Rank orders roles by authority; higher outranks lower and unknown roles rank zero.
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 5
	case RoleManager:
		return 4
	case RoleTeamLead:
		return 3
	case RoleAgent:
		return 2
	case RoleUser:
		return 1
	}
	return 0
}

// IsStaff reports whether the role works tickets for a company.
func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleTeamLead || r == RoleAgent
}

// User is a person able to sign in, either company personnel or an end-user.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CompanyID string
	Avatar    string
	Active    bool
}

// WithActive returns a copy of the user with the active flag replaced.
func (u User) WithActive(active bool) User {
	u.Active = active
	return u
}
