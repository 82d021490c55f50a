package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MikeSquared-Agency/bep/internal/cooking"
)

// RecipeByName returns the recipe whose name matches case-insensitively.
func (s *Store) RecipeByName(ctx context.Context, name string) (*cooking.Recipe, error) {
	var (
		r         cooking.Recipe
		nutrition string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT name, cuisine, difficulty, prep_time, cook_time, servings, ingredients, instructions, tips, nutrition
		FROM recipes
		WHERE lower(name) = lower($1)`,
		name,
	).Scan(&r.Name, &r.Cuisine, &r.Difficulty, &r.PrepTime, &r.CookTime, &r.Servings,
		&r.Ingredients, &r.Instructions, &r.Tips, &nutrition)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cooking.ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query recipe: %w", err)
	}
	r.Nutrition = cooking.ParseNutrition(nutrition)
	return &r, nil
}

// UpsertRecipe inserts a recipe or replaces the one with the same name.
func (s *Store) UpsertRecipe(ctx context.Context, r cooking.Recipe) error {
	return upsertRecipe(ctx, s.pool, r)
}

// ImportRecipes upserts every recipe in a single transaction.
func (s *Store) ImportRecipes(ctx context.Context, recipes []cooking.Recipe) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range recipes {
		if err := upsertRecipe(ctx, tx, r); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func upsertRecipe(ctx context.Context, db execer, r cooking.Recipe) error {
	_, err := db.Exec(ctx, `
		INSERT INTO recipes (id, name, cuisine, difficulty, prep_time, cook_time, servings, ingredients, instructions, tips, nutrition, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (lower(name)) DO UPDATE SET
			cuisine = EXCLUDED.cuisine,
			difficulty = EXCLUDED.difficulty,
			prep_time = EXCLUDED.prep_time,
			cook_time = EXCLUDED.cook_time,
			servings = EXCLUDED.servings,
			ingredients = EXCLUDED.ingredients,
			instructions = EXCLUDED.instructions,
			tips = EXCLUDED.tips,
			nutrition = EXCLUDED.nutrition,
			updated_at = now()`,
		uuid.New(), r.Name, r.Cuisine, r.Difficulty, r.PrepTime, r.CookTime, r.Servings,
		nonNil(r.Ingredients), nonNil(r.Instructions), r.Tips, cooking.JoinNutrition(r.Nutrition),
	)
	if err != nil {
		return fmt.Errorf("upsert recipe %q: %w", r.Name, err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
