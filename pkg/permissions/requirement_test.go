package permissions

import "testing"

func hasFrom(s Set) func(Key) bool {
	return func(k Key) bool { return s[k] }
}

func TestEvaluate_None(t *testing.T) {
	if !Evaluate(None(), hasFrom(Set{})) {
		t.Error("None must pass with no permissions at all")
	}
	if !Evaluate(Requirement{}, hasFrom(Set{})) {
		t.Error("zero requirement must behave as None")
	}
}

func TestEvaluate_Single(t *testing.T) {
	granted := Set{KeyViewTeamTab: true}

	if !Evaluate(Single(KeyViewTeamTab), hasFrom(granted)) {
		t.Error("granted single key must pass")
	}
	if Evaluate(Single(KeyViewReportsTab), hasFrom(granted)) {
		t.Error("missing single key must deny")
	}
	if Evaluate(Single(Key("not_a_real_key")), hasFrom(granted)) {
		t.Error("unknown key must deny")
	}
}

func TestEvaluate_AnyOf(t *testing.T) {
	s := Set{KeyViewTeamTab: true, KeyViewReportsTab: false}

	cases := []struct {
		name string
		req  Requirement
		want bool
	}{
		{"one of two granted", AnyOf(KeyViewTeamTab, KeyViewReportsTab), true},
		{"none granted", AnyOf(KeyViewReportsTab, KeyViewTimeSheetTab), false},
		{"all granted", AnyOf(KeyViewTeamTab), true},
		{"empty any-of denies", AnyOf(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.req, hasFrom(s)); got != tc.want {
				t.Errorf("Evaluate(%v) = %v, want %v", tc.req, got, tc.want)
			}
		})
	}
}

func TestEvaluate_AllOf(t *testing.T) {
	s := Set{KeyViewTeamTab: true, KeyViewTimeSheetTab: true}

	cases := []struct {
		name string
		req  Requirement
		want bool
	}{
		{"all granted", AllOf(KeyViewTeamTab, KeyViewTimeSheetTab), true},
		{"one missing", AllOf(KeyViewTeamTab, KeyViewReportsTab), false},
		{"empty all-of allows", AllOf(), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.req, hasFrom(s)); got != tc.want {
				t.Errorf("Evaluate(%v) = %v, want %v", tc.req, got, tc.want)
			}
		})
	}
}

func TestRequirementMode_String(t *testing.T) {
	modes := map[RequirementMode]string{
		ModeNone:            "none",
		ModeSingle:          "single",
		ModeAnyOf:           "any_of",
		ModeAllOf:           "all_of",
		RequirementMode(42): "unknown",
	}
	for mode, want := range modes {
		if got := mode.String(); got != want {
			t.Errorf("mode %d: got %q, want %q", mode, got, want)
		}
	}
}
