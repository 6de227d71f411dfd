package permissions

// Key identifies a single gated capability. The set of keys is a fixed
// contract between the Millii frontend and backend; the wire names must
// match exactly on both sides.
type Key string

const (
	KeyViewTeamTab          Key = "can_view_team_tab"
	KeyViewTimeSheetTab     Key = "can_view_time_sheet_tab"
	KeyViewReportsTab       Key = "can_view_reports_tab"
	KeyCompleteProjectTasks Key = "can_complete_project_tasks"
	KeyEditWorkspaceSettings Key = "can_edit_workspace_settings"
	KeyCreateRecurringTasks Key = "can_create_recurring_tasks"
	KeyCreateNewProjects    Key = "can_create_new_projects"
	KeyChatWithMillii       Key = "can_chat_with_millii"
	KeyDirectChat           Key = "can_have_direct_chat"
)

// allKeys lists every permission key in declaration order. New keys must be
// added here as well as to the const block above; DefaultDenied and response
// normalization derive from this slice.
var allKeys = []Key{
	KeyViewTeamTab,
	KeyViewTimeSheetTab,
	KeyViewReportsTab,
	KeyCompleteProjectTasks,
	KeyEditWorkspaceSettings,
	KeyCreateRecurringTasks,
	KeyCreateNewProjects,
	KeyChatWithMillii,
	KeyDirectChat,
}

// AllKeys returns the full permission-key enumeration in a stable order.
// The returned slice is a copy; callers may mutate it freely.
func AllKeys() []Key {
	keys := make([]Key, len(allKeys))
	copy(keys, allKeys)
	return keys
}

// KnownKey reports whether k is part of the fixed enumeration.
func KnownKey(k Key) bool {
	for _, known := range allKeys {
		if known == k {
			return true
		}
	}
	return false
}

// Role represents a user's role within a Millii workspace
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTeamMember Role = "team member"
	RoleUser       Role = "user"
	RoleClient     Role = "client"
)

// Valid reports whether r is one of the closed role enumeration values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTeamMember, RoleUser, RoleClient:
		return true
	}
	return false
}

// IsAdmin reports whether r is the admin role. The comparison is exact and
// case-sensitive; "Admin" is not an admin.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsClientOrGuest reports whether r is the client role.
func (r Role) IsClientOrGuest() bool {
	return r == RoleClient
}

// IsPortalRole reports whether a denied user with this role should land on
// the client-portal route rather than the internal dashboard.
func (r Role) IsPortalRole() bool {
	return r == RoleClient || r == RoleUser
}

// Set is an effective permission set: the final boolean access decision for
// each key after the backend has merged role defaults with per-user
// overrides. Consumers treat it as opaque and authoritative.
type Set map[Key]bool

// DefaultDenied returns a fresh set with every enumerated key explicitly
// false. It is the fail-closed fallback substituted when a permission fetch
// fails: authorization errors must never silently grant access.
func DefaultDenied() Set {
	s := make(Set, len(allKeys))
	for _, k := range allKeys {
		s[k] = false
	}
	return s
}

// Complete reports whether every enumerated key is present in s.
func (s Set) Complete() bool {
	for _, k := range allKeys {
		if _, ok := s[k]; !ok {
			return false
		}
	}
	return true
}

// Normalize returns a copy of s with any missing enumerated key filled in as
// false. Keys outside the enumeration are preserved as-is.
func (s Set) Normalize() Set {
	out := make(Set, len(allKeys))
	for k, v := range s {
		out[k] = v
	}
	for _, k := range allKeys {
		if _, ok := out[k]; !ok {
			out[k] = false
		}
	}
	return out
}

// Clone returns a deep copy of s. Clone of a nil set is nil.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
