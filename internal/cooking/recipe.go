package cooking

import (
	"context"
	"errors"
	"sort"
	"strings"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// Recipe is one catalogue entry.
type Recipe struct {
	Name         string
	Cuisine      string
	Difficulty   string
	PrepTime     int // minutes
	CookTime     int // minutes
	Servings     int
	Ingredients  []string
	Instructions []string
	Tips         string
	Nutrition    map[string]string
}

// RecipeStore looks recipes up by exact, case-insensitive name.
// Implementations return ErrRecipeNotFound when there is no match.
type RecipeStore interface {
	RecipeByName(ctx context.Context, name string) (*Recipe, error)
}

// SplitList splits a ';' separated field, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ";") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseNutrition parses "calories:450;protein:30g" into a map.
func ParseNutrition(s string) map[string]string {
	out := make(map[string]string)
	for _, item := range SplitList(s) {
		k, v, ok := strings.Cut(item, ":")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

// JoinNutrition is the inverse of ParseNutrition with keys in a stable order.
func JoinNutrition(m map[string]string) string {
	keys := []string{"calories", "protein", "carbs", "fat"}
	seen := make(map[string]bool, len(keys))
	var parts []string
	for _, k := range keys {
		if v, ok := m[k]; ok {
			parts = append(parts, k+":"+v)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		parts = append(parts, k+":"+m[k])
	}
	return strings.Join(parts, ";")
}
