// Package guard gates routes on permission requirements.
//
// A Guard evaluates a permissions.Requirement against the live permission
// store on every request. Decisions follow a strict priority order:
//
//  1. Store loading: answer a placeholder (202 + Retry-After), never a
//     denial. An unsettled store must not flash a redirect at a user who is
//     about to be granted access.
//  2. Admin role: pass, regardless of the requirement.
//  3. Empty requirement: pass.
//  4. Requirement evaluated against the effective set: pass or deny.
//
// Denied requests are answered with 303 See Other. Client and guest users
// land on the client-portal route, everyone else on the internal dashboard
// route; both targets are configurable through WithTargets.
//
// Typical wiring:
//
//	g := guard.New(st, guard.WithLogger(log), guard.WithMetrics(metrics))
//	r.Handle("/reports", g.RequirePermission(permissions.KeyViewReportsTab)(reportsHandler))
//	r.Handle("/team", g.RequireAnyOf(permissions.KeyViewTeamTab)(teamHandler))
//
// Nothing is cached between requests: revoking a permission takes effect on
// the very next evaluation.
package guard
