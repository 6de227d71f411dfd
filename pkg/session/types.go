package session

import (
	"strings"

	"github.com/milliihq/access/pkg/permissions"
)

// User is the persisted session record for an authenticated user. It is
// written by the auth layer on successful login and removed on logout; the
// permission store only ever reads it.
type User struct {
	ID    string           `json:"id"`
	Role  permissions.Role `json:"role"`
	Email string           `json:"email,omitempty"`
	Name  string           `json:"name,omitempty"`
}

// HasID reports whether the record carries a usable user id. Records without
// an id are treated as "no session", not as an error.
func (u *User) HasID() bool {
	return u != nil && strings.TrimSpace(u.ID) != ""
}
