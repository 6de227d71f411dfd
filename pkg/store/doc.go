// Package store implements the client-side permission store: the single
// source of truth for what the currently authenticated user can do.
//
// # Overview
//
// The store holds the effective permission set and role fetched from the
// permission service, rehydrates itself from the persisted session record at
// startup, and tracks login/logout signals from the session event emitter:
//
//	events := session.NewEvents()
//	records, _ := session.NewFileRecordStore(cfg.Client.SessionFile)
//	fetcher := store.NewHTTPClient(cfg.Client.ServiceURL, cfg.Client.FetchTimeout)
//	st := store.New(fetcher, records, events, store.WithLogger(log))
//	st.Initialize(ctx)
//
// # Query surface
//
//	st.HasPermission(permissions.KeyViewReportsTab)
//	st.CanViewTab("reports")
//	st.IsAdmin()
//	st.IsClientOrGuest()
//	st.Loading()
//	st.State()
//
// # Failure semantics
//
// A failed fetch never surfaces to callers; the store substitutes the
// all-false default set so the user experiences maximally restricted
// navigation until the next successful fetch. There is no automatic retry:
// the next login, refresh, or explicit RefreshPermissions call is the retry
// path.
//
// # Fetch ordering
//
// Every fetch claims a monotonically increasing token; only the result of
// the latest-issued fetch is applied. A slow stale fetch cannot overwrite a
// fresher one, and a fetch in flight at logout cannot repopulate the cleared
// state.
package store
