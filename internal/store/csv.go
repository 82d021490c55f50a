package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/bep/internal/cooking"
)

var requiredColumns = []string{"recipe_name", "ingredients", "instructions"}

// ParseRecipesCSV reads a recipes.csv export. Columns are matched by header
// name; list columns are ';' separated and nutrition is "key:value;...".
func ParseRecipesCSV(r io.Reader) ([]cooking.Recipe, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty csv")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	var recipes []cooking.Recipe
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		number := func(name string) (int, error) {
			v := field(name)
			if v == "" {
				return 0, nil
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return 0, fmt.Errorf("line %d: %s: %w", line, name, err)
			}
			return n, nil
		}

		r := cooking.Recipe{
			Name:         field("recipe_name"),
			Cuisine:      field("cuisine"),
			Difficulty:   field("difficulty"),
			Ingredients:  cooking.SplitList(field("ingredients")),
			Instructions: cooking.SplitList(field("instructions")),
			Tips:         field("tips"),
			Nutrition:    cooking.ParseNutrition(field("nutrition")),
		}
		if r.Name == "" {
			return nil, fmt.Errorf("line %d: empty recipe_name", line)
		}
		if r.PrepTime, err = number("prep_time"); err != nil {
			return nil, err
		}
		if r.CookTime, err = number("cook_time"); err != nil {
			return nil, err
		}
		if r.Servings, err = number("servings"); err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}
