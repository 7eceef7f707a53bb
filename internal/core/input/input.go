// Package input holds the per-frame pressed-key set supplied by the
// embedding application.
package input

import (
	"sort"
	"strings"
)

// KeyCode identifies one input key, e.g. "SPACE" or "LEFT".
type KeyCode string

// Set is the set of keys held down during one frame.
type Set map[KeyCode]struct{}

// NewSet builds a set from the given keys. Key codes are upper-cased.
func NewSet(keys ...KeyCode) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		s[Normalize(k)] = struct{}{}
	}
	return s
}

// Parse splits a whitespace separated line of key names into a set.
func Parse(line string) Set {
	fields := strings.Fields(line)
	s := make(Set, len(fields))
	for _, f := range fields {
		s[Normalize(KeyCode(f))] = struct{}{}
	}
	return s
}

func Normalize(k KeyCode) KeyCode {
	return KeyCode(strings.ToUpper(strings.TrimSpace(string(k))))
}

func (s Set) Has(k KeyCode) bool {
	_, ok := s[k]
	return ok
}

// Contains reports whether every key of required is pressed.
func (s Set) Contains(required Set) bool {
	for k := range required {
		if _, ok := s[k]; !ok {
			return false
		}
	}
	return true
}

// Keys returns the keys in sorted order.
func (s Set) Keys() []KeyCode {
	out := make([]KeyCode, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
