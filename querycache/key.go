package querycache

import (
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cache entry. Canonical forms:
//
//	entity?a=1&b=2   list entry, normalized filter parameters
//	entity/42        singleton entry
//	entity           entity-wide singleton (e.g. preferred-genres)
//
// Normalization sorts parameter names and drops empty values so two filter
// maps that are semantically equal always produce the identical key.
type Key string

// NewKey builds a singleton key from an entity name and id segments.
func NewKey(entity string, parts ...string) Key {
	if len(parts) == 0 {
		return Key(entity)
	}
	return Key(entity + "/" + strings.Join(parts, "/"))
}

// NewListKey builds a list key from an entity name and filter parameters.
func NewListKey(entity string, params map[string]string) Key {
	names := make([]string, 0, len(params))
	for name, value := range params {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(entity)
	sb.WriteByte('?')
	for i, name := range names {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params[name]))
	}
	return Key(sb.String())
}

// Entity returns the entity segment of the key.
func (k Key) Entity() string {
	s := string(k)
	if i := strings.IndexAny(s, "/?"); i >= 0 {
		return s[:i]
	}
	return s
}
