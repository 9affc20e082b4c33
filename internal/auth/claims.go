package auth

import "trainingorg/quizdesk/internal/constants"

// SessionUser is the authenticated caller attached to a request.
type SessionUser struct {
	ID        uint
	Username  string
	Email     string
	Role      constants.Role
	SessionID string
}

// HasRole reports whether the user holds any of roles.
func (u *SessionUser) HasRole(roles ...constants.Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (u *SessionUser) IsAdmin() bool { return u.HasRole(constants.RoleAdmin) }
