package nav

import (
	"github.com/milliihq/access/pkg/permissions"
)

// Item describes one navigation-menu entry. Items are ordered; filtering
// never reorders them.
type Item struct {
	Name       string
	Route      string
	AlwaysShow bool
	// Requirement gates visibility. Multi-key requirements use any-of
	// semantics exclusively; there is no all-of mode in navigation.
	Requirement permissions.Requirement
}

// PermissionSource is what the filter needs from the permission store.
// *store.Store satisfies it.
type PermissionSource interface {
	Loading() bool
	HasPermission(key permissions.Key) bool
}

// Filter returns the visible sublist of items for the current permission
// state, preserving order. Always-show items and items with no requirement
// pass unconditionally. While the store is loading every requirement-gated
// item is hidden, so a restricted entry never flashes before the set
// settles.
func Filter(items []Item, source PermissionSource) []Item {
	loading := source.Loading()
	visible := make([]Item, 0, len(items))
	for _, item := range items {
		if item.AlwaysShow || item.Requirement.Mode == permissions.ModeNone {
			visible = append(visible, item)
			continue
		}
		if loading {
			continue
		}
		if permissions.Evaluate(item.Requirement, source.HasPermission) {
			visible = append(visible, item)
		}
	}
	return visible
}

// DefaultMenu is the built-in Millii navigation menu, used when no manifest
// is configured.
func DefaultMenu() []Item {
	return []Item{
		{Name: "Dashboard", Route: "/dashboard", AlwaysShow: true},
		{Name: "Projects", Route: "/projects", AlwaysShow: true},
		{Name: "Team", Route: "/team", Requirement: permissions.Single(permissions.KeyViewTeamTab)},
		{Name: "Time Sheet", Route: "/timesheet", Requirement: permissions.Single(permissions.KeyViewTimeSheetTab)},
		{Name: "Reports", Route: "/reports", Requirement: permissions.Single(permissions.KeyViewReportsTab)},
		{Name: "Chat", Route: "/chat", Requirement: permissions.AnyOf(permissions.KeyChatWithMillii, permissions.KeyDirectChat)},
		{Name: "Settings", Route: "/settings", Requirement: permissions.Single(permissions.KeyEditWorkspaceSettings)},
	}
}
