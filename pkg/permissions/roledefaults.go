package permissions

// roleDefaults holds the baseline capability grants per role. Only keys that
// default to true are listed; every other key defaults to false. These
// tables are authoritative on the service side only; clients never
// recompute them and always consume the merged effective set.
var roleDefaults = map[Role][]Key{
	RoleAdmin: {
		KeyViewTeamTab,
		KeyViewTimeSheetTab,
		KeyViewReportsTab,
		KeyCompleteProjectTasks,
		KeyEditWorkspaceSettings,
		KeyCreateRecurringTasks,
		KeyCreateNewProjects,
		KeyChatWithMillii,
		KeyDirectChat,
	},
	RoleManager: {
		KeyViewTeamTab,
		KeyViewTimeSheetTab,
		KeyViewReportsTab,
		KeyCompleteProjectTasks,
		KeyCreateRecurringTasks,
		KeyCreateNewProjects,
		KeyChatWithMillii,
		KeyDirectChat,
	},
	RoleTeamMember: {
		KeyViewTeamTab,
		KeyViewTimeSheetTab,
		KeyCompleteProjectTasks,
		KeyChatWithMillii,
		KeyDirectChat,
	},
	RoleUser: {
		KeyCompleteProjectTasks,
		KeyChatWithMillii,
		KeyDirectChat,
	},
	RoleClient: {
		KeyDirectChat,
	},
}

// RoleDefaults returns the baseline permission set for a role, with every
// enumerated key present. Unknown roles get the all-false set.
func RoleDefaults(role Role) Set {
	s := DefaultDenied()
	for _, k := range roleDefaults[role] {
		s[k] = true
	}
	return s
}

// Merge applies per-user overrides on top of a role-default set. An override
// wins whenever present for a key; absence of an override means the role
// default stands. Override keys outside the fixed enumeration are ignored.
func Merge(defaults Set, overrides map[Key]bool) Set {
	out := defaults.Clone()
	if out == nil {
		out = DefaultDenied()
	}
	for k, v := range overrides {
		if !KnownKey(k) {
			continue
		}
		out[k] = v
	}
	return out
}
