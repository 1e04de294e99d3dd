package cipher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const recipeExt = ".yaml"

// ErrRecipeNotFound is returned when a named recipe does not exist.
var ErrRecipeNotFound = errors.New("recipe not found")

// ErrRecipeConflict is returned when a recipe would share its file with a
// differently named recipe.
var ErrRecipeConflict = errors.New("recipe name conflicts with an existing recipe")

// RecipeManager handles storage and retrieval of recipes
type RecipeManager struct {
	recipes   map[string]*Recipe
	storePath string
	mu        sync.RWMutex
}

// NewRecipeManager creates a new recipe manager. An empty storePath keeps
// recipes in memory only.
func NewRecipeManager(storePath string) *RecipeManager {
	return &RecipeManager{
		recipes:   make(map[string]*Recipe),
		storePath: storePath,
	}
}

// SaveRecipe validates and stores a recipe
func (rm *RecipeManager) SaveRecipe(recipe *Recipe) error {
	if recipe == nil {
		return errors.New("recipe cannot be nil")
	}
	if strings.TrimSpace(recipe.Name) == "" {
		return errors.New("recipe name cannot be empty")
	}
	if len(recipe.Pipeline.Operations) == 0 {
		return errors.New("recipe pipeline has no operations")
	}
	for i, opConfig := range recipe.Pipeline.Operations {
		if _, ok := GetOperation(opConfig.Name); !ok {
			return fmt.Errorf("step %d: %w: %s", i, ErrUnknownOperation, opConfig.Name)
		}
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	file := recipeFilename(recipe.Name)
	for name := range rm.recipes {
		if name != recipe.Name && strings.EqualFold(recipeFilename(name), file) {
			return fmt.Errorf("%w: %q and %q", ErrRecipeConflict, recipe.Name, name)
		}
	}

	stamped := *recipe
	now := time.Now().UTC().Format(time.RFC3339)
	if stamped.CreatedAt == "" {
		stamped.CreatedAt = now
	}
	stamped.UpdatedAt = now

	if rm.storePath != "" {
		if err := rm.persistRecipe(&stamped); err != nil {
			return err
		}
	}
	recipe.CreatedAt, recipe.UpdatedAt = stamped.CreatedAt, stamped.UpdatedAt
	rm.recipes[recipe.Name] = recipe
	return nil
}

// GetRecipe retrieves a recipe by name
func (rm *RecipeManager) GetRecipe(name string) (*Recipe, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	recipe, exists := rm.recipes[name]
	return recipe, exists
}

// ListRecipes returns all recipes sorted by name
func (rm *RecipeManager) ListRecipes() []*Recipe {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	recipes := make([]*Recipe, 0, len(rm.recipes))
	for _, recipe := range rm.recipes {
		recipes = append(recipes, recipe)
	}
	sort.Slice(recipes, func(i, j int) bool {
		return recipes[i].Name < recipes[j].Name
	})
	return recipes
}

// DeleteRecipe removes a recipe
func (rm *RecipeManager) DeleteRecipe(name string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if _, ok := rm.recipes[name]; !ok {
		return fmt.Errorf("%w: %s", ErrRecipeNotFound, name)
	}
	delete(rm.recipes, name)

	if rm.storePath != "" {
		recipePath := filepath.Join(rm.storePath, recipeFilename(name))
		if err := os.Remove(recipePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete recipe file: %w", err)
		}
	}
	return nil
}

// RunRecipe executes the named recipe's pipeline on input.
func (rm *RecipeManager) RunRecipe(ctx context.Context, name string, input []byte) ([]byte, error) {
	recipe, ok := rm.GetRecipe(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, name)
	}
	return recipe.Pipeline.Execute(ctx, input)
}

// LoadRecipes loads all recipes from the store path
func (rm *RecipeManager) LoadRecipes() error {
	if rm.storePath == "" {
		return nil
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if err := os.MkdirAll(rm.storePath, 0o755); err != nil {
		return fmt.Errorf("failed to create recipes directory: %w", err)
	}

	entries, err := os.ReadDir(rm.storePath)
	if err != nil {
		return fmt.Errorf("failed to read recipes directory: %w", err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != recipeExt && ext != ".yml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(rm.storePath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read recipe %s: %w", entry.Name(), err)
		}

		recipe, err := ImportRecipe(data)
		if err != nil {
			return fmt.Errorf("failed to parse recipe %s: %w", entry.Name(), err)
		}
		rm.recipes[recipe.Name] = recipe
	}
	return nil
}

// ExportRecipe renders a stored recipe as YAML.
func (rm *RecipeManager) ExportRecipe(name string) ([]byte, error) {
	recipe, ok := rm.GetRecipe(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, name)
	}
	return yaml.Marshal(recipe)
}

// ImportRecipe parses a YAML recipe document.
func ImportRecipe(data []byte) (*Recipe, error) {
	var recipe Recipe
	if err := yaml.Unmarshal(data, &recipe); err != nil {
		return nil, err
	}
	if strings.TrimSpace(recipe.Name) == "" {
		return nil, errors.New("recipe name cannot be empty")
	}
	return &recipe, nil
}

// SearchRecipes finds recipes whose name, description, or tags contain query,
// ignoring case.
func (rm *RecipeManager) SearchRecipes(query string) []*Recipe {
	q := strings.ToLower(query)
	results := make([]*Recipe, 0)
	for _, recipe := range rm.ListRecipes() {
		if strings.Contains(strings.ToLower(recipe.Name), q) ||
			strings.Contains(strings.ToLower(recipe.Description), q) {
			results = append(results, recipe)
			continue
		}
		for _, tag := range recipe.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				results = append(results, recipe)
				break
			}
		}
	}
	return results
}

func (rm *RecipeManager) persistRecipe(recipe *Recipe) error {
	if err := os.MkdirAll(rm.storePath, 0o755); err != nil {
		return fmt.Errorf("failed to create recipes directory: %w", err)
	}

	data, err := yaml.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("failed to serialize recipe: %w", err)
	}

	recipePath := filepath.Join(rm.storePath, recipeFilename(recipe.Name))
	if err := os.WriteFile(recipePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}
	return nil
}

// recipeFilename maps a recipe name to its file. Names that survive
// sanitizeFilename unchanged are used as is; any other name gets a digest
// suffix, so two distinct names never share a file.
func recipeFilename(name string) string {
	stem := sanitizeFilename(name)
	if stem != name {
		sum := sha256.Sum256([]byte(name))
		stem += "." + hex.EncodeToString(sum[:8])
	}
	return stem + recipeExt
}

// sanitizeFilename keeps letters, digits, '-' and '_', and maps spaces to '_'.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "recipe"
	}
	return b.String()
}
