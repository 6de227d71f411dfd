package permissions

import "testing"

func TestAllKeys(t *testing.T) {
	keys := AllKeys()
	if len(keys) != 9 {
		t.Fatalf("expected 9 keys, got %d", len(keys))
	}
	if keys[0] != KeyViewTeamTab {
		t.Errorf("expected first key %s, got %s", KeyViewTeamTab, keys[0])
	}
	if keys[len(keys)-1] != KeyDirectChat {
		t.Errorf("expected last key %s, got %s", KeyDirectChat, keys[len(keys)-1])
	}

	// Returned slice must be a copy
	keys[0] = Key("mutated")
	if AllKeys()[0] != KeyViewTeamTab {
		t.Error("AllKeys returned a shared slice")
	}
}

func TestKnownKey(t *testing.T) {
	if !KnownKey(KeyViewReportsTab) {
		t.Error("expected enumerated key to be known")
	}
	if KnownKey(Key("can_fly")) {
		t.Error("expected unknown key to be rejected")
	}
}

func TestRole_Valid(t *testing.T) {
	valid := []Role{RoleAdmin, RoleManager, RoleTeamMember, RoleUser, RoleClient}
	for _, r := range valid {
		if !r.Valid() {
			t.Errorf("expected role %q to be valid", r)
		}
	}

	invalid := []Role{"", "superadmin", "Admin", "team_member"}
	for _, r := range invalid {
		if r.Valid() {
			t.Errorf("expected role %q to be invalid", r)
		}
	}
}

func TestRole_IsAdmin(t *testing.T) {
	if !RoleAdmin.IsAdmin() {
		t.Error("admin role should be admin")
	}

	// Exact, case-sensitive match only
	for _, r := range []Role{"Admin", "ADMIN", RoleManager, RoleClient, ""} {
		if r.IsAdmin() {
			t.Errorf("role %q should not be admin", r)
		}
	}
}

func TestRole_IsClientOrGuest(t *testing.T) {
	if !RoleClient.IsClientOrGuest() {
		t.Error("client role should be client-or-guest")
	}
	for _, r := range []Role{RoleAdmin, RoleManager, RoleTeamMember, RoleUser} {
		if r.IsClientOrGuest() {
			t.Errorf("role %q should not be client-or-guest", r)
		}
	}
}

func TestRole_IsPortalRole(t *testing.T) {
	for _, r := range []Role{RoleClient, RoleUser} {
		if !r.IsPortalRole() {
			t.Errorf("role %q should be a portal role", r)
		}
	}
	for _, r := range []Role{RoleAdmin, RoleManager, RoleTeamMember} {
		if r.IsPortalRole() {
			t.Errorf("role %q should not be a portal role", r)
		}
	}
}

func TestDefaultDenied(t *testing.T) {
	s := DefaultDenied()

	if !s.Complete() {
		t.Fatal("default denied set must contain every enumerated key")
	}
	for k, v := range s {
		if v {
			t.Errorf("expected key %s to be false", k)
		}
	}

	// Each call returns an independent map
	s[KeyViewTeamTab] = true
	if DefaultDenied()[KeyViewTeamTab] {
		t.Error("DefaultDenied returned a shared map")
	}
}

func TestSet_Complete(t *testing.T) {
	s := DefaultDenied()
	if !s.Complete() {
		t.Error("full set should be complete")
	}

	delete(s, KeyDirectChat)
	if s.Complete() {
		t.Error("set missing a key should not be complete")
	}

	if (Set{}).Complete() {
		t.Error("empty set should not be complete")
	}
}

func TestSet_Normalize(t *testing.T) {
	partial := Set{
		KeyViewTeamTab: true,
		Key("custom"):  true,
	}

	norm := partial.Normalize()
	if !norm.Complete() {
		t.Fatal("normalized set must be complete")
	}
	if !norm[KeyViewTeamTab] {
		t.Error("existing grant must survive normalization")
	}
	if norm[KeyViewReportsTab] {
		t.Error("missing keys must normalize to false")
	}
	if !norm[Key("custom")] {
		t.Error("out-of-enumeration keys must be preserved")
	}

	// Original untouched
	if _, ok := partial[KeyViewReportsTab]; ok {
		t.Error("Normalize must not mutate its receiver")
	}
}

func TestSet_Clone(t *testing.T) {
	var nilSet Set
	if nilSet.Clone() != nil {
		t.Error("clone of nil set should be nil")
	}

	s := Set{KeyViewTeamTab: true}
	c := s.Clone()
	c[KeyViewTeamTab] = false
	if !s[KeyViewTeamTab] {
		t.Error("Clone must not share storage with its receiver")
	}
}
