package domain

import "sort"

// Membership is the set of custom catalog lists an entry belongs to,
// keyed by list name. A false value marks a list the entry is not on.
type Membership map[string]bool

// Has reports whether the entry is on the named list.
func (m Membership) Has(name string) bool { return m[name] }

// Names returns the enabled list names in sorted order.
func (m Membership) Names() []string {
	names := make([]string, 0, len(m))
	for name, on := range m {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// With returns a copy of m with name enabled.
func (m Membership) With(name string) Membership {
	out := m.clone()
	out[name] = true
	return out
}

// Without returns a copy of m with name disabled.
func (m Membership) Without(name string) Membership {
	out := m.clone()
	delete(out, name)
	return out
}

func (m Membership) clone() Membership {
	out := make(Membership, len(m)+1)
	for name, on := range m {
		if on {
			out[name] = true
		}
	}
	return out
}
