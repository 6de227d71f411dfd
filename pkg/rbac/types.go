package rbac

import (
	"time"

	"github.com/milliihq/access/pkg/permissions"
)

// Override is one per-user permission override. An override pins a single
// key to an explicit value on top of the user's role defaults; deleting it
// reverts the key to the role default.
type Override struct {
	UserID    string          `json:"user_id"`
	Key       permissions.Key `json:"key"`
	Allowed   bool            `json:"allowed"`
	UpdatedAt time.Time       `json:"updated_at"`
	UpdatedBy string          `json:"updated_by,omitempty"`
}

// UserRecord is a user's role assignment as the permission service stores
// it. Identity itself lives elsewhere; this service only tracks the role
// axis it needs to compute defaults.
type UserRecord struct {
	UserID    string           `json:"user_id"`
	Role      permissions.Role `json:"role"`
	UpdatedAt time.Time        `json:"updated_at"`
}
