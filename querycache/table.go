package querycache

import "strings"

// MutationKind classifies a cache-relevant mutation.
type MutationKind string

const (
	MutationCreate MutationKind = "create"
	MutationUpdate MutationKind = "update"
	MutationDelete MutationKind = "delete"
)

// Mutation identifies one entity-mutation pair in the invalidation table.
type Mutation struct {
	Entity string
	Kind   MutationKind
}

// Table maps each mutation to the pattern templates it invalidates.
// Templates may reference ids of the mutated or related records as {name}
// placeholders; a template whose placeholder has no value in vars is skipped,
// which lets a delete fall back to sweeping list patterns when the related id
// is no longer known.
type Table map[Mutation][]string

// DefaultTable encodes the cross-entity fan-out of the FlixReview API:
// review mutations touch the owning movie because its aggregate rating and
// review count change, and preferred-genre updates feed the recommendation
// lists.
func DefaultTable() Table {
	return Table{
		{Entity: "movies", Kind: MutationCreate}: {"movies?"},
		{Entity: "movies", Kind: MutationUpdate}: {"movies?", "movies/{id}"},
		{Entity: "movies", Kind: MutationDelete}: {"movies?", "movies/{id}"},

		{Entity: "reviews", Kind: MutationCreate}: {"reviews?", "movies?", "movies/{movie_id}"},
		{Entity: "reviews", Kind: MutationUpdate}: {"reviews?", "reviews/{id}", "movies?", "movies/{movie_id}"},
		{Entity: "reviews", Kind: MutationDelete}: {"reviews?", "reviews/{id}", "movies?", "movies/{movie_id}"},

		{Entity: "genres", Kind: MutationCreate}: {"genres?"},
		{Entity: "genres", Kind: MutationUpdate}: {"genres?", "genres/{slug}"},
		{Entity: "genres", Kind: MutationDelete}: {"genres?", "genres/{slug}"},

		{Entity: "preferred-genres", Kind: MutationUpdate}: {"preferred-genres", "recommendations?"},
	}
}

// Patterns expands the templates registered for m using vars.
func (t Table) Patterns(m Mutation, vars map[string]string) []Pattern {
	templates, ok := t[m]
	if !ok {
		return nil
	}
	patterns := make([]Pattern, 0, len(templates))
	for _, tmpl := range templates {
		expanded, ok := expand(tmpl, vars)
		if !ok {
			continue
		}
		patterns = append(patterns, Pattern(expanded))
	}
	return patterns
}

// Apply invalidates every cache entry the table registers for m.
func (t Table) Apply(c *Cache, m Mutation, vars map[string]string) {
	c.Invalidate(t.Patterns(m, vars)...)
}

func expand(tmpl string, vars map[string]string) (string, bool) {
	for {
		start := strings.Index(tmpl, "{")
		if start < 0 {
			return tmpl, true
		}
		end := strings.Index(tmpl[start:], "}")
		if end < 0 {
			return tmpl, true
		}
		name := tmpl[start+1 : start+end]
		value, ok := vars[name]
		if !ok || value == "" {
			return "", false
		}
		tmpl = tmpl[:start] + value + tmpl[start+end+1:]
	}
}
