package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the CHECK constraint on users.role
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCoach   Role = "coach"
	RoleStudent Role = "student"
)

// CoachRoles are the roles a member's coach may hold.
var CoachRoles = []Role{RoleCoach, RoleAdmin}

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCoach, RoleStudent:
		return true
	}
	return false
}

// CanCoach reports whether the role may own members and review evaluations.
func (r Role) CanCoach() bool {
	return r == RoleCoach || r == RoleAdmin
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }
