package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCanonicalizer() *Canonicalizer {
	return NewCanonicalizer(
		map[string]string{
			"jimmy.daves":   "Grayson Saint",
			"grayson.saint": "Grayson Saint",
			"sara.adams":    "Sarah Adams",
			"sarah.adams":   "Sarah Adams",
			"a.cabello":     "Andrew Cabello",
		},
		"Samy Chasers",
		[]string{"Sarah Adams", "Samy Youssef"},
		"Andrew Chasers",
	)
}

func TestCanonicalize_MappedLogin(t *testing.T) {
	c := testCanonicalizer()

	name, group := c.Canonicalize("jimmy.daves")
	assert.Equal(t, "Grayson Saint", name)
	assert.Equal(t, "Andrew Chasers", group)

	name, group = c.Canonicalize("  SARA.ADAMS ")
	assert.Equal(t, "Sarah Adams", name)
	assert.Equal(t, "Samy Chasers", group)
}

func TestCanonicalize_AliasesCollapse(t *testing.T) {
	c := testCanonicalizer()
	a, _ := c.Canonicalize("sara.adams")
	b, _ := c.Canonicalize("sarah.adams")
	assert.Equal(t, a, b)
}

func TestCanonicalize_UnmappedFallsBackToRaw(t *testing.T) {
	c := testCanonicalizer()
	name, group := c.Canonicalize("unknown.agent")
	assert.Equal(t, "unknown.agent", name)
	assert.Equal(t, "Andrew Chasers", group)
}

func TestCanonicalize_Stable(t *testing.T) {
	c := testCanonicalizer()
	n1, g1 := c.Canonicalize("a.cabello")
	n2, g2 := c.Canonicalize("a.cabello")
	assert.Equal(t, n1, n2)
	assert.Equal(t, g1, g2)

	// Re-canonicalizing an already-canonical display name is stable:
	// it misses the login table, falls back to itself, and keeps its group.
	n3, g3 := c.Canonicalize(n1)
	assert.Equal(t, n1, n3)
	assert.Equal(t, g1, g3)
}

func TestNormalizeDisposition(t *testing.T) {
	assert.Equal(t, NormalizeDisposition("  Dead Lead "), NormalizeDisposition("dead lead"))
	assert.Equal(t, NormalizeDisposition("PENDING SHIPMENT"), NormalizeDisposition("Pending Shipment"))
	assert.Equal(t, "", NormalizeDisposition("   "))
}

func TestPrettyLogin(t *testing.T) {
	c := testCanonicalizer()
	assert.Equal(t, "Jimmy Daves", c.PrettyLogin("jimmy.daves"))
	assert.Equal(t, "Ivy Brooks", c.PrettyLogin("ivy_brooks"))
}
