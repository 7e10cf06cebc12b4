package domain

import (
	"encoding/json"
	"sort"
)

// OptionSet is a set of option IDs. The zero value is an empty set ready to use
// for reads; use NewOptionSet or Add to build one.
type OptionSet map[string]struct{}

func NewOptionSet(ids ...string) OptionSet {
	s := make(OptionSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s OptionSet) Add(id string) {
	s[id] = struct{}{}
}

func (s OptionSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s OptionSet) Len() int {
	return len(s)
}

// Equal reports whether both sets hold exactly the same IDs.
func (s OptionSet) Equal(other OptionSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Sorted returns the members in ascending order.
func (s OptionSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s OptionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *OptionSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewOptionSet(ids...)
	return nil
}
