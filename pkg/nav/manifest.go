package nav

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milliihq/access/pkg/permissions"
)

// manifestItem is the YAML shape of one menu entry. The permission field
// accepts a scalar or a list; a list always means any-of.
type manifestItem struct {
	Name       string  `yaml:"name"`
	Route      string  `yaml:"route"`
	AlwaysShow bool    `yaml:"always_show"`
	Permission keyList `yaml:"permission"`
}

type keyList []permissions.Key

func (k *keyList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*k = keyList{permissions.Key(s)}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := value.Decode(&ss); err != nil {
			return err
		}
		keys := make(keyList, len(ss))
		for i, s := range ss {
			keys[i] = permissions.Key(s)
		}
		*k = keys
		return nil
	default:
		return fmt.Errorf("permission must be a string or a list of strings")
	}
}

// LoadManifest parses an ordered navigation manifest from r. Entries must
// carry a name and a route, and every permission key must be part of the
// fixed enumeration; a typo in a manifest would otherwise silently hide the
// entry forever.
func LoadManifest(r io.Reader) ([]Item, error) {
	var raw []manifestItem
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse navigation manifest: %w", err)
	}

	items := make([]Item, 0, len(raw))
	for i, entry := range raw {
		if entry.Name == "" {
			return nil, fmt.Errorf("navigation manifest entry %d: missing name", i)
		}
		if entry.Route == "" {
			return nil, fmt.Errorf("navigation manifest entry %q: missing route", entry.Name)
		}
		for _, key := range entry.Permission {
			if !permissions.KnownKey(key) {
				return nil, fmt.Errorf("navigation manifest entry %q: unknown permission key %q", entry.Name, key)
			}
		}

		item := Item{
			Name:       entry.Name,
			Route:      entry.Route,
			AlwaysShow: entry.AlwaysShow,
		}
		switch len(entry.Permission) {
		case 0:
		case 1:
			item.Requirement = permissions.Single(entry.Permission[0])
		default:
			item.Requirement = permissions.AnyOf(entry.Permission...)
		}
		items = append(items, item)
	}
	return items, nil
}

// LoadManifestFile reads the manifest at path, falling back to the built-in
// default menu when path is empty.
func LoadManifestFile(path string) ([]Item, error) {
	if path == "" {
		return DefaultMenu(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open navigation manifest: %w", err)
	}
	defer f.Close()
	return LoadManifest(f)
}
