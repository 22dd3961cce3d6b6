// AngelaMos | 2026
// repository.go

package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/blogspace/internal/core"
)

type Repository interface {
	CreatePost(ctx context.Context, post *Post, tagIDs []string) error
	GetPostByID(ctx context.Context, id string) (*Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	UpdatePost(ctx context.Context, post *Post, tagIDs *[]string) error
	DeletePost(ctx context.Context, id string) error
	ListPublicPosts(ctx context.Context, params ListParams) ([]Post, int, error)
	ListPremiumPostsByAuthors(
		ctx context.Context,
		authorIDs []string,
		params ListParams,
	) ([]Post, int, error)
	ListPostsByAuthor(
		ctx context.Context,
		authorID string,
		params ListParams,
	) ([]Post, int, error)
	ListTagsForPost(ctx context.Context, postID string) ([]Tag, error)

	CreateComment(ctx context.Context, comment *Comment) error
	GetCommentByID(ctx context.Context, id string) (*Comment, error)
	UpdateComment(ctx context.Context, comment *Comment) error
	DeleteComment(ctx context.Context, id string) error
	ApproveComment(ctx context.Context, id string) (*Comment, error)
	ListApprovedComments(
		ctx context.Context,
		postID string,
		params ListParams,
	) ([]Comment, int, error)
	ListCommentsByAuthor(
		ctx context.Context,
		authorID string,
		params ListParams,
	) ([]Comment, int, error)
	ListPendingComments(
		ctx context.Context,
		params ListParams,
	) ([]Comment, int, error)

	CreateLike(ctx context.Context, like *Like) error
	DeleteLike(ctx context.Context, postID, userID string) error
	CountLikes(ctx context.Context, postID string) (int, error)
	HasLiked(ctx context.Context, postID, userID string) (bool, error)

	CreateCategory(ctx context.Context, category *Category) error
	GetCategoryByID(ctx context.Context, id string) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateTag(ctx context.Context, tag *Tag) error
	GetTagBySlug(ctx context.Context, slug string) (*Tag, error)
	ListTags(ctx context.Context) ([]Tag, error)
	UpsertTagsByName(ctx context.Context, names []string) ([]Tag, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const postColumns = `id, author_id, category_id, title, slug, body,
		       is_published, is_premium, created_at, updated_at`

func (r *repository) CreatePost(
	ctx context.Context,
	post *Post,
	tagIDs []string,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO posts (id, author_id, category_id, title, slug, body,
			                   is_published, is_premium)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at, updated_at`

		err := tx.GetContext(ctx, post, query,
			post.ID,
			post.AuthorID,
			post.CategoryID,
			post.Title,
			post.Slug,
			post.Body,
			post.IsPublished,
			post.IsPremium,
		)
		if err != nil {
			if core.IsDuplicateKeyError(err) {
				return fmt.Errorf("create post: %w", core.ErrDuplicateKey)
			}
			return fmt.Errorf("create post: %w", err)
		}

		return replacePostTags(ctx, tx, post.ID, tagIDs)
	})
}

func (r *repository) GetPostByID(
	ctx context.Context,
	id string,
) (*Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1`

	var post Post
	err := r.db.GetContext(ctx, &post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get post: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

func (r *repository) GetPostBySlug(
	ctx context.Context,
	slug string,
) (*Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE slug = $1`

	var post Post
	err := r.db.GetContext(ctx, &post, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get post: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// UpdatePost rewrites the mutable columns; a non-nil tagIDs replaces the
// post's tag set in the same transaction.
func (r *repository) UpdatePost(
	ctx context.Context,
	post *Post,
	tagIDs *[]string,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE posts
			SET category_id = $2, title = $3, body = $4,
			    is_published = $5, is_premium = $6, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`

		err := tx.GetContext(ctx, &post.UpdatedAt, query,
			post.ID,
			post.CategoryID,
			post.Title,
			post.Body,
			post.IsPublished,
			post.IsPremium,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update post: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}

		if tagIDs == nil {
			return nil
		}
		return replacePostTags(ctx, tx, post.ID, *tagIDs)
	})
}

func (r *repository) DeletePost(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete post: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListPublicPosts(
	ctx context.Context,
	params ListParams,
) ([]Post, int, error) {
	params.Normalize()

	where := `WHERE is_published = true AND is_premium = false`

	var total int
	err := r.db.GetContext(
		ctx,
		&total,
		`SELECT COUNT(*) FROM posts `+where,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts ` + where + `
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var posts []Post
	err = r.db.SelectContext(ctx, &posts, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	return posts, total, nil
}

func (r *repository) ListPremiumPostsByAuthors(
	ctx context.Context,
	authorIDs []string,
	params ListParams,
) ([]Post, int, error) {
	params.Normalize()

	if len(authorIDs) == 0 {
		return []Post{}, 0, nil
	}

	where := `WHERE is_published = true AND is_premium = true
		  AND author_id = ANY($1)`

	var total int
	err := r.db.GetContext(
		ctx,
		&total,
		`SELECT COUNT(*) FROM posts `+where,
		authorIDs,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("count premium posts: %w", err)
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts ` + where + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var posts []Post
	err = r.db.SelectContext(
		ctx,
		&posts,
		query,
		authorIDs,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list premium posts: %w", err)
	}

	return posts, total, nil
}

func (r *repository) ListPostsByAuthor(
	ctx context.Context,
	authorID string,
	params ListParams,
) ([]Post, int, error) {
	params.Normalize()

	var total int
	err := r.db.GetContext(
		ctx,
		&total,
		`SELECT COUNT(*) FROM posts WHERE author_id = $1`,
		authorID,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("count author posts: %w", err)
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var posts []Post
	err = r.db.SelectContext(
		ctx,
		&posts,
		query,
		authorID,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list author posts: %w", err)
	}

	return posts, total, nil
}

func (r *repository) ListTagsForPost(
	ctx context.Context,
	postID string,
) ([]Tag, error) {
	query := `
		SELECT t.id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name`

	var tags []Tag
	if err := r.db.SelectContext(ctx, &tags, query, postID); err != nil {
		return nil, fmt.Errorf("list post tags: %w", err)
	}

	return tags, nil
}

func replacePostTags(
	ctx context.Context,
	tx *sqlx.Tx,
	postID string,
	tagIDs []string,
) error {
	_, err := tx.ExecContext(
		ctx,
		`DELETE FROM post_tags WHERE post_id = $1`,
		postID,
	)
	if err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}

	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			postID,
			tagID,
		)
		if err != nil {
			return fmt.Errorf("attach post tag: %w", err)
		}
	}

	return nil
}
