package nav

import (
	"strings"
	"testing"

	"github.com/milliihq/access/pkg/permissions"
)

type fakeSource struct {
	loading bool
	set     permissions.Set
}

func (f *fakeSource) Loading() bool { return f.loading }

func (f *fakeSource) HasPermission(key permissions.Key) bool { return f.set[key] }

func names(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter(t *testing.T) {
	menu := []Item{
		{Name: "Home", Route: "/", AlwaysShow: true},
		{Name: "Team", Route: "/team", Requirement: permissions.Single(permissions.KeyViewTeamTab)},
		{Name: "Reports", Route: "/reports", Requirement: permissions.Single(permissions.KeyViewReportsTab)},
		{Name: "Chat", Route: "/chat", Requirement: permissions.AnyOf(permissions.KeyChatWithMillii, permissions.KeyDirectChat)},
	}

	t.Run("single key items follow the set", func(t *testing.T) {
		src := &fakeSource{set: permissions.Set{permissions.KeyViewTeamTab: true}}
		got := names(Filter(menu, src))
		if !equal(got, []string{"Home", "Team"}) {
			t.Errorf("unexpected menu: %v", got)
		}
	})

	t.Run("any-of passes with one satisfied key", func(t *testing.T) {
		src := &fakeSource{set: permissions.Set{permissions.KeyDirectChat: true}}
		got := names(Filter(menu, src))
		if !equal(got, []string{"Home", "Chat"}) {
			t.Errorf("unexpected menu: %v", got)
		}
	})

	t.Run("loading hides every gated item", func(t *testing.T) {
		src := &fakeSource{
			loading: true,
			set: permissions.Set{
				permissions.KeyViewTeamTab:    true,
				permissions.KeyViewReportsTab: true,
			},
		}
		got := names(Filter(menu, src))
		if !equal(got, []string{"Home"}) {
			t.Errorf("expected only always-show items while loading, got %v", got)
		}
	})

	t.Run("order is preserved", func(t *testing.T) {
		src := &fakeSource{set: permissions.Set{
			permissions.KeyViewReportsTab: true,
			permissions.KeyViewTeamTab:    true,
		}}
		got := names(Filter(menu, src))
		if !equal(got, []string{"Home", "Team", "Reports"}) {
			t.Errorf("order not preserved: %v", got)
		}
	})

	t.Run("empty set shows only always-show", func(t *testing.T) {
		src := &fakeSource{set: permissions.Set{}}
		got := names(Filter(menu, src))
		if !equal(got, []string{"Home"}) {
			t.Errorf("unexpected menu: %v", got)
		}
	})
}

func TestLoadManifest(t *testing.T) {
	t.Run("scalar and list permissions", func(t *testing.T) {
		manifest := `
- name: Dashboard
  route: /dashboard
  always_show: true
- name: Reports
  route: /reports
  permission: can_view_reports_tab
- name: Chat
  route: /chat
  permission: [can_chat_with_millii, can_have_direct_chat]
`
		items, err := LoadManifest(strings.NewReader(manifest))
		if err != nil {
			t.Fatalf("LoadManifest: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
		if !items[0].AlwaysShow {
			t.Error("dashboard should be always-show")
		}
		if items[1].Requirement.Mode != permissions.ModeSingle {
			t.Errorf("scalar permission should parse as single, got %v", items[1].Requirement.Mode)
		}
		if items[2].Requirement.Mode != permissions.ModeAnyOf || len(items[2].Requirement.Keys) != 2 {
			t.Errorf("list permission should parse as any-of, got %+v", items[2].Requirement)
		}
	})

	t.Run("unknown permission key rejected", func(t *testing.T) {
		manifest := `
- name: Bad
  route: /bad
  permission: can_fly
`
		if _, err := LoadManifest(strings.NewReader(manifest)); err == nil {
			t.Fatal("expected error for unknown key")
		}
	})

	t.Run("missing route rejected", func(t *testing.T) {
		manifest := `
- name: NoRoute
  permission: can_view_team_tab
`
		if _, err := LoadManifest(strings.NewReader(manifest)); err == nil {
			t.Fatal("expected error for missing route")
		}
	})
}

func TestDefaultMenu(t *testing.T) {
	menu := DefaultMenu()
	if len(menu) == 0 {
		t.Fatal("default menu is empty")
	}
	// An admin-equivalent full set sees the whole menu.
	src := &fakeSource{set: permissions.RoleDefaults(permissions.RoleAdmin)}
	if got := Filter(menu, src); len(got) != len(menu) {
		t.Errorf("full set should see all %d items, got %d", len(menu), len(got))
	}
	// A client sees only the always-show items plus direct chat.
	src = &fakeSource{set: permissions.RoleDefaults(permissions.RoleClient)}
	got := names(Filter(menu, src))
	if !equal(got, []string{"Dashboard", "Projects", "Chat"}) {
		t.Errorf("unexpected client menu: %v", got)
	}
}
