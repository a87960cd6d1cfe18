package engine

import (
	"sync"

	"github.com/reciper/engine/internal/recipe"
)

// recipeCache holds parsed Recipes keyed by their source ("file:<path>" or
// "content:<name>"), generalizing the teacher's implicit in-memory
// BuiltinRecipes map into a process-wide cache that Load/LoadFromString
// results join. Entries are invalidated only by an explicit Cleanup call,
// never by a TTL.
type recipeCache struct {
	mu      sync.RWMutex
	entries map[string]*recipe.Recipe
}

func newRecipeCache() *recipeCache {
	return &recipeCache{entries: make(map[string]*recipe.Recipe)}
}

func (c *recipeCache) get(key string) (*recipe.Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.entries[key]
	return r, ok
}

func (c *recipeCache) set(key string, r *recipe.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = r
}

// Cleanup discards every cached Recipe, forcing the next loadRecipe call for
// each source to re-read and re-parse it.
func (c *recipeCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*recipe.Recipe)
}
