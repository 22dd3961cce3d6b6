// AngelaMos | 2026
// repository_taxonomy.go

package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/blogspace/internal/core"
)

func (r *repository) CreateCategory(
	ctx context.Context,
	category *Category,
) error {
	query := `
		INSERT INTO categories (id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &category.CreatedAt, query,
		category.ID,
		category.Name,
		category.Slug,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) GetCategoryByID(
	ctx context.Context,
	id string,
) (*Category, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM categories
		WHERE id = $1`

	var category Category
	err := r.db.GetContext(ctx, &category, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

func (r *repository) GetCategoryBySlug(
	ctx context.Context,
	slug string,
) (*Category, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM categories
		WHERE slug = $1`

	var category Category
	err := r.db.GetContext(ctx, &category, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]Category, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM categories
		ORDER BY name`

	var categories []Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) CreateTag(ctx context.Context, tag *Tag) error {
	query := `
		INSERT INTO tags (id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &tag.CreatedAt, query,
		tag.ID,
		tag.Name,
		tag.Slug,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create tag: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

func (r *repository) GetTagBySlug(
	ctx context.Context,
	slug string,
) (*Tag, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM tags
		WHERE slug = $1`

	var tag Tag
	err := r.db.GetContext(ctx, &tag, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tag: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return &tag, nil
}

func (r *repository) ListTags(ctx context.Context) ([]Tag, error) {
	query := `
		SELECT id, name, slug, created_at
		FROM tags
		ORDER BY name`

	var tags []Tag
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return tags, nil
}

// UpsertTagsByName resolves tag names to rows, creating any that do not
// exist yet. Used when a post is created or edited with free-form tags.
func (r *repository) UpsertTagsByName(
	ctx context.Context,
	names []string,
) ([]Tag, error) {
	tags := make([]Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		slug := Slugify(name)
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}

		query := `
			INSERT INTO tags (id, name, slug)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO UPDATE SET name = tags.name
			RETURNING id, name, slug, created_at`

		var tag Tag
		err := r.db.GetContext(ctx, &tag, query, uuid.New().String(), name, slug)
		if err != nil {
			return nil, fmt.Errorf("upsert tag: %w", err)
		}

		tags = append(tags, tag)
	}

	return tags, nil
}
