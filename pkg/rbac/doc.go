// Package rbac is the permission service backend: it stores role
// assignments and per-user permission overrides and resolves effective
// permission sets from them.
//
// # Resolution model
//
// A user's effective set is their role's default set with overrides applied
// on top; an override wins for its key, every other key follows the role
// default. The full enumeration is always present in a resolved set.
//
// Overrides are read through a cache chain: an in-process expirable LRU,
// then Redis when configured, then SQL. Every override edit writes through
// to SQL and invalidates both cache layers for that user, so an edit is
// visible on the next resolution. Role assignments are never cached; a role
// change takes effect immediately.
//
// # HTTP surface
//
//	GET    /users/{id}/permissions        effective + role + override sets
//	GET    /roles/{role}/permissions      role default set
//	PUT    /users/{id}/permissions/{key}  set an override   (admin)
//	DELETE /users/{id}/permissions/{key}  delete an override (admin)
//	PUT    /users/{id}/role               assign a role      (admin)
//
// Responses carry Cache-Control: no-store. The `_ts` cache-busting
// parameter clients send is accepted and ignored.
//
// # Storage
//
// The Store runs on database/sql with $N placeholders and driver-neutral
// DDL, so postgres (lib/pq) and sqlite3 (mattn/go-sqlite3) both work;
// sqlite3 keeps local development and tests dependency-free.
package rbac
