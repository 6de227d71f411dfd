// Package session owns the authenticated-user session surface consumed by
// the permission store: the persisted user record, the typed login/logout
// event emitter, and a file watcher for externally modified records.
//
// # Overview
//
// The auth layer writes a User record on successful login and removes it on
// logout. The same layer emits exactly one LoggedIn signal per login and one
// LoggedOut signal per logout through Events; the permission store
// subscribes at construction time and keeps itself in sync.
//
// # Record stores
//
// Two RecordStore implementations are provided:
//
//	store, _ := session.NewFileRecordStore("/var/lib/millii/session.json")
//	store := session.NewRedisRecordStore(redisClient, "millii:session:record", 0)
//
// File saves are atomic (temp file + rename) so readers and watchers never
// see a partial record.
//
// # Events
//
//	events := session.NewEvents()
//	events.Subscribe(session.ListenerFuncs{
//		OnLoggedIn:  func(u session.User) { ... },
//		OnLoggedOut: func() { ... },
//	})
//	events.EmitLoggedIn(user)
//
// Delivery is synchronous on the emitting goroutine; logout handlers depend
// on state being cleared before EmitLoggedOut returns.
//
// # Related Packages
//
//   - pkg/store: subscribes to Events and reads the RecordStore
package session
