package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{City: ptr("Almaty")}.IsEmpty())
	assert.False(t, Patch{Website: ptr("")}.IsEmpty())
}

func TestPatch_Apply(t *testing.T) {
	c := &Card{ID: 3, Name: "Aigerim", Title: "Designer", City: "Astana", IsActive: true}

	Patch{Title: ptr("Lead designer"), Website: ptr("https://example.com")}.Apply(c)

	assert.Equal(t, int64(3), c.ID)
	assert.Equal(t, "Aigerim", c.Name)
	assert.Equal(t, "Lead designer", c.Title)
	assert.Equal(t, "https://example.com", c.Website)
	assert.Equal(t, "Astana", c.City)
	assert.True(t, c.IsActive)
}

func TestPatch_ApplyEmptyIsIdentity(t *testing.T) {
	c := &Card{ID: 1, Name: "Name", Title: "Title", Phone: "77001234567"}
	before := *c

	Patch{}.Apply(c)

	assert.Equal(t, before, *c)
}
