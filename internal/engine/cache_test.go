package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reciper/engine/internal/recipe"
)

func TestRecipeCacheSetGet(t *testing.T) {
	c := newRecipeCache()
	_, ok := c.get("file:x.yaml")
	assert.False(t, ok)

	r := &recipe.Recipe{Name: "demo"}
	c.set("file:x.yaml", r)

	got, ok := c.get("file:x.yaml")
	assert.True(t, ok)
	assert.Same(t, r, got)
}

func TestRecipeCacheCleanupClearsEntries(t *testing.T) {
	c := newRecipeCache()
	c.set("file:x.yaml", &recipe.Recipe{Name: "demo"})
	c.Cleanup()

	_, ok := c.get("file:x.yaml")
	assert.False(t, ok)
}
