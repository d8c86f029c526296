package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var foldCaser = cases.Fold()

// NormalizeDisposition returns the trimmed, case-folded form of a raw
// disposition string. All disposition comparisons in the pipeline use
// this form.
func NormalizeDisposition(raw string) string {
	return foldCaser.String(strings.TrimSpace(raw))
}

// Canonicalizer maps raw agent login strings to a display name and a
// team group. It is a pure lookup: no side effects, stable across
// calls.
type Canonicalizer struct {
	nameMap      map[string]string
	groupMembers map[string]bool
	groupName    string
	defaultGroup string
	titleCaser   cases.Caser
}

// NewCanonicalizer builds a Canonicalizer from the identifier→name
// table and the named team group's membership set. Agents outside the
// set fall into defaultGroup. The name map is keyed by normalized
// (trimmed, lowercased) login.
func NewCanonicalizer(nameMap map[string]string, groupName string, members []string, defaultGroup string) *Canonicalizer {
	c := &Canonicalizer{
		nameMap:      make(map[string]string, len(nameMap)),
		groupMembers: make(map[string]bool, len(members)),
		groupName:    groupName,
		defaultGroup: defaultGroup,
		titleCaser:   cases.Title(language.English),
	}
	for k, v := range nameMap {
		c.nameMap[strings.ToLower(strings.TrimSpace(k))] = v
	}
	for _, m := range members {
		c.groupMembers[m] = true
	}
	return c
}

// Canonicalize resolves a raw agent identifier to (display name, team
// group). An unmapped identifier falls back to itself so the agent
// still appears, unresolved; its group is then decided by membership of
// the fallback name.
func (c *Canonicalizer) Canonicalize(raw string) (name, group string) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if display, ok := c.nameMap[key]; ok {
		name = display
	} else {
		name = strings.TrimSpace(raw)
	}
	if c.groupMembers[name] {
		return name, c.groupName
	}
	return name, c.defaultGroup
}

// PrettyLogin converts a raw login like "jimmy.daves" to a
// human-readable "Jimmy Daves". Used for display tables only, never for
// matching.
func (c *Canonicalizer) PrettyLogin(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ".", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return c.titleCaser.String(s)
}
