package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/milliihq/access/pkg/observability"
	"github.com/milliihq/access/pkg/permissions"
	"github.com/milliihq/access/pkg/session"
)

// tabPermissions maps the permission-gated tab names to their keys. Only
// these three tabs are gated; every other tab name resolves to no access
// through CanViewTab on purpose.
var tabPermissions = map[string]permissions.Key{
	"team":      permissions.KeyViewTeamTab,
	"timesheet": permissions.KeyViewTimeSheetTab,
	"reports":   permissions.KeyViewReportsTab,
}

// State is a consistent snapshot of the store.
type State struct {
	Permissions permissions.Set
	UserRole    permissions.Role
	UserID      string
	Loading     bool
}

// Store is the single source of truth for what the current user can do. It
// is rehydrated from the persisted session record at startup and kept in
// sync with login/logout events. All methods are safe for concurrent use.
type Store struct {
	fetcher Fetcher
	records session.RecordStore
	log     *observability.Logger
	metrics *observability.Metrics

	mu          sync.Mutex
	permissions permissions.Set
	userRole    permissions.Role
	userID      string
	loading     bool

	// latestToken identifies the most recently issued fetch. A resolving
	// fetch applies its result only while its token is still the latest;
	// anything older is discarded. Logout bumps the token so an in-flight
	// fetch cannot repopulate cleared state.
	latestToken uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the structured logger.
func WithLogger(log *observability.Logger) Option {
	return func(s *Store) { s.log = log.WithComponent("store") }
}

// WithMetrics enables fetch and staleness metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates a permission store over a fetcher and a persisted record
// store. Pass the session event emitter the auth layer owns; the store
// subscribes itself for login/logout signals.
func New(fetcher Fetcher, records session.RecordStore, events *session.Events, opts ...Option) *Store {
	s := &Store{
		fetcher: fetcher,
		records: records,
		log:     observability.NewLogger(observability.InfoLevel, nil).WithComponent("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if events != nil {
		events.Subscribe(s)
	}
	return s
}

// Initialize rehydrates the store from the persisted session record. With a
// valid record it performs a blocking permission fetch; without one it
// settles immediately with no permissions.
func (s *Store) Initialize(ctx context.Context) {
	user, err := s.records.Load()
	if err != nil {
		s.log.WithError(err).Warn("failed to load session record")
	}
	if !user.HasID() {
		s.mu.Lock()
		s.clearLocked()
		s.mu.Unlock()
		return
	}
	s.FetchPermissions(ctx, *user)
}

// FetchPermissions loads the effective permission set for user and stores
// it. A fetch failure is recovered locally by substituting the all-false
// default set; no error reaches the caller. An empty user id clears the
// store without any network call.
func (s *Store) FetchPermissions(ctx context.Context, user session.User) {
	if !user.HasID() {
		s.mu.Lock()
		s.clearLocked()
		s.mu.Unlock()
		return
	}

	s.fetchWithToken(ctx, user, s.claimToken())
}

// claimToken registers a new fetch as the latest and marks the store
// loading. Results from fetches holding older tokens are discarded.
func (s *Store) claimToken() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latestToken++
	s.loading = true
	return s.latestToken
}

func (s *Store) fetchWithToken(ctx context.Context, user session.User, token uint64) {
	start := time.Now()
	set, err := s.fetcher.FetchEffective(ctx, user.ID)
	if s.metrics != nil {
		s.metrics.PermissionFetchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		// Fail closed: an authorization error must never grant access.
		s.log.WithError(err).WithField("user_id", user.ID).Warn("permission fetch failed, falling back to denied set")
		if s.metrics != nil {
			s.metrics.PermissionFetchesTotal.WithLabelValues("failed").Inc()
		}
		set = permissions.DefaultDenied()
	} else {
		if s.metrics != nil {
			s.metrics.PermissionFetchesTotal.WithLabelValues("ok").Inc()
		}
		set = set.Normalize()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.latestToken {
		// A newer fetch or a logout superseded this one.
		if s.metrics != nil {
			s.metrics.StaleFetchesDiscarded.Inc()
		}
		s.log.WithField("user_id", user.ID).Debug("discarding stale permission fetch result")
		return
	}

	s.permissions = set
	s.userRole = user.Role
	s.userID = user.ID
	s.loading = false
}

// RefreshPermissions re-fetches the effective set for the user the store
// already tracks. The refresh derives from the store's own user id and role
// rather than re-reading external storage, so the two cannot diverge. With
// no tracked user it is a no-op.
func (s *Store) RefreshPermissions(ctx context.Context) {
	s.mu.Lock()
	user := session.User{ID: s.userID, Role: s.userRole}
	s.mu.Unlock()

	if !user.HasID() {
		return
	}
	s.FetchPermissions(ctx, user)
}

// UserLoggedIn implements session.Listener. The fetch runs on its own
// goroutine so the auth layer is not blocked; the store reports loading
// until it settles.
func (s *Store) UserLoggedIn(user session.User) {
	if !user.HasID() {
		s.mu.Lock()
		s.clearLocked()
		s.mu.Unlock()
		return
	}

	// Claim the token before leaving the emitting goroutine so a logout
	// delivered right after this login necessarily supersedes the fetch.
	token := s.claimToken()
	go s.fetchWithToken(context.Background(), user, token)
}

// UserLoggedOut implements session.Listener. State is cleared synchronously
// before the emit returns; the token bump makes any in-flight fetch result
// stale so it cannot repopulate the cleared state.
func (s *Store) UserLoggedOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// clearLocked resets to the no-session state. Caller holds s.mu.
func (s *Store) clearLocked() {
	s.latestToken++
	s.permissions = nil
	s.userRole = ""
	s.userID = ""
	s.loading = false
}

// HasPermission reports whether the effective set grants key. Unloaded
// stores and unknown keys resolve to false.
func (s *Store) HasPermission(key permissions.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permissions != nil && s.permissions[key]
}

// CanViewTab reports whether the current user may see the named tab. Only
// "team", "timesheet", and "reports" are permission-gated (matched
// case-insensitively); any other name resolves to false.
func (s *Store) CanViewTab(name string) bool {
	key, ok := tabPermissions[strings.ToLower(name)]
	if !ok {
		return false
	}
	return s.HasPermission(key)
}

// Role returns the tracked role, or the empty role with no session.
func (s *Store) Role() permissions.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userRole
}

// IsAdmin reports whether the tracked role is admin.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userRole.IsAdmin()
}

// IsClientOrGuest reports whether the tracked role is client.
func (s *Store) IsClientOrGuest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userRole.IsClientOrGuest()
}

// Loading reports whether a fetch is outstanding.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// State returns a consistent snapshot of the store.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Permissions: s.permissions.Clone(),
		UserRole:    s.userRole,
		UserID:      s.userID,
		Loading:     s.loading,
	}
}
