// Package permissions defines the fixed permission-key enumeration, role
// enumeration, effective permission sets, and the shared requirement
// predicate used across the Millii access layer.
//
// # Overview
//
// A permission Key names a gated capability (viewing the team tab, creating
// projects, and so on). A Set is the effective boolean decision per key after
// the service has merged role defaults with per-user overrides; every
// consumer treats the set as opaque and authoritative.
//
// # Fail-closed defaults
//
// DefaultDenied returns the all-false set substituted whenever an effective
// set cannot be obtained:
//
//	set := permissions.DefaultDenied()
//	set[permissions.KeyViewReportsTab] // false
//
// # Requirements
//
// Requirements describe what a route or navigation item demands and come in
// four shapes:
//
//	permissions.None()
//	permissions.Single(permissions.KeyViewTeamTab)
//	permissions.AnyOf(permissions.KeyViewTeamTab, permissions.KeyViewReportsTab)
//	permissions.AllOf(permissions.KeyCreateNewProjects, permissions.KeyCreateRecurringTasks)
//
// Evaluate applies a requirement against any membership predicate. The route
// guard and the navigation filter both gate through Evaluate so their
// semantics cannot drift.
//
// # Related Packages
//
//   - pkg/store: client-side permission store and query API
//   - pkg/guard: HTTP route guard built on Evaluate
//   - pkg/nav: navigation filter built on Evaluate
//   - pkg/rbac: service-side merge of role defaults and overrides
package permissions
