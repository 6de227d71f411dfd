package permissions

// RequirementMode selects how a multi-key requirement combines its keys.
type RequirementMode int

const (
	// ModeNone matches unconditionally; the route or item is not
	// permission-gated.
	ModeNone RequirementMode = iota
	// ModeSingle requires exactly one key.
	ModeSingle
	// ModeAnyOf requires at least one of the keys.
	ModeAnyOf
	// ModeAllOf requires every key.
	ModeAllOf
)

func (m RequirementMode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeSingle:
		return "single"
	case ModeAnyOf:
		return "any_of"
	case ModeAllOf:
		return "all_of"
	}
	return "unknown"
}

// Requirement describes what a route or navigation item demands of the
// current permission set. It is the single requirement shape shared by the
// route guard and the navigation filter so the two cannot drift.
type Requirement struct {
	Mode RequirementMode
	Keys []Key
}

// None returns a requirement that always passes.
func None() Requirement {
	return Requirement{Mode: ModeNone}
}

// Single returns a requirement on one key.
func Single(key Key) Requirement {
	return Requirement{Mode: ModeSingle, Keys: []Key{key}}
}

// AnyOf returns a requirement satisfied by at least one of keys.
func AnyOf(keys ...Key) Requirement {
	return Requirement{Mode: ModeAnyOf, Keys: keys}
}

// AllOf returns a requirement satisfied only by all of keys.
func AllOf(keys ...Key) Requirement {
	return Requirement{Mode: ModeAllOf, Keys: keys}
}

// IsZero reports whether r is the zero requirement, which is treated as None.
func (r Requirement) IsZero() bool {
	return r.Mode == ModeNone && len(r.Keys) == 0
}

// Evaluate applies the requirement against a membership predicate. The
// predicate receives raw keys with no normalization; unknown keys are
// expected to resolve false.
//
// Edge cases follow the gating semantics: an empty AnyOf has nothing that
// could pass and denies, an empty AllOf has nothing that could fail and
// allows.
func Evaluate(r Requirement, has func(Key) bool) bool {
	switch r.Mode {
	case ModeNone:
		return true
	case ModeSingle:
		if len(r.Keys) == 0 {
			return true
		}
		return has(r.Keys[0])
	case ModeAnyOf:
		for _, k := range r.Keys {
			if has(k) {
				return true
			}
		}
		return false
	case ModeAllOf:
		for _, k := range r.Keys {
			if !has(k) {
				return false
			}
		}
		return true
	}
	return false
}
