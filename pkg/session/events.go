package session

import "sync"

// Listener receives session lifecycle notifications. Both callbacks are
// invoked synchronously on the emitting goroutine; LoggedOut handlers in
// particular rely on this to clear state before the emit returns.
type Listener interface {
	// UserLoggedIn fires exactly once per successful login with the freshly
	// authenticated user.
	UserLoggedIn(user User)

	// UserLoggedOut fires exactly once per logout, explicit or forced.
	UserLoggedOut()
}

// Events is a typed emitter for session lifecycle signals, owned by the auth
// layer and subscribed to by the permission store at construction time.
type Events struct {
	mu        sync.RWMutex
	listeners []Listener
}

// NewEvents creates an emitter with no subscribers.
func NewEvents() *Events {
	return &Events{}
}

// Subscribe registers a listener for subsequent login/logout signals.
// Listeners are notified in subscription order.
func (e *Events) Subscribe(l Listener) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// EmitLoggedIn delivers a login signal to every subscriber.
func (e *Events) EmitLoggedIn(user User) {
	for _, l := range e.snapshot() {
		l.UserLoggedIn(user)
	}
}

// EmitLoggedOut delivers a logout signal to every subscriber.
func (e *Events) EmitLoggedOut() {
	for _, l := range e.snapshot() {
		l.UserLoggedOut()
	}
}

func (e *Events) snapshot() []Listener {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Listener, len(e.listeners))
	copy(out, e.listeners)
	return out
}

// ListenerFuncs adapts plain functions to the Listener interface. Either
// field may be nil.
type ListenerFuncs struct {
	OnLoggedIn  func(User)
	OnLoggedOut func()
}

func (f ListenerFuncs) UserLoggedIn(user User) {
	if f.OnLoggedIn != nil {
		f.OnLoggedIn(user)
	}
}

func (f ListenerFuncs) UserLoggedOut() {
	if f.OnLoggedOut != nil {
		f.OnLoggedOut()
	}
}
