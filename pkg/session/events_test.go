package session

import (
	"testing"

	"github.com/milliihq/access/pkg/permissions"
)

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()

	var gotUser *User
	logouts := 0
	events.Subscribe(ListenerFuncs{
		OnLoggedIn:  func(u User) { gotUser = &u },
		OnLoggedOut: func() { logouts++ },
	})

	user := User{ID: "u1", Role: permissions.RoleTeamMember, Email: "u1@millii.app"}
	events.EmitLoggedIn(user)

	if gotUser == nil {
		t.Fatal("expected login signal to be delivered")
	}
	if gotUser.ID != "u1" || gotUser.Role != permissions.RoleTeamMember {
		t.Errorf("unexpected user delivered: %+v", gotUser)
	}

	events.EmitLoggedOut()
	if logouts != 1 {
		t.Errorf("expected 1 logout signal, got %d", logouts)
	}
}

func TestEvents_MultipleListenersInOrder(t *testing.T) {
	events := NewEvents()

	var order []string
	events.Subscribe(ListenerFuncs{OnLoggedIn: func(User) { order = append(order, "first") }})
	events.Subscribe(ListenerFuncs{OnLoggedIn: func(User) { order = append(order, "second") }})

	events.EmitLoggedIn(User{ID: "u1"})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("expected subscription-order delivery, got %v", order)
	}
}

func TestEvents_SynchronousDelivery(t *testing.T) {
	events := NewEvents()

	delivered := false
	events.Subscribe(ListenerFuncs{OnLoggedOut: func() { delivered = true }})

	events.EmitLoggedOut()

	// Must be observable immediately after emit returns, with no goroutine
	// hop in between.
	if !delivered {
		t.Error("logout signal must be delivered synchronously")
	}
}

func TestEvents_NilListenerIgnored(t *testing.T) {
	events := NewEvents()
	events.Subscribe(nil)
	events.EmitLoggedIn(User{ID: "u1"}) // must not panic
	events.EmitLoggedOut()
}

func TestUser_HasID(t *testing.T) {
	cases := []struct {
		name string
		user *User
		want bool
	}{
		{"nil user", nil, false},
		{"empty id", &User{}, false},
		{"whitespace id", &User{ID: "   "}, false},
		{"valid id", &User{ID: "u1"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.HasID(); got != tc.want {
				t.Errorf("HasID() = %v, want %v", got, tc.want)
			}
		})
	}
}
