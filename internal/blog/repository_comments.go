// AngelaMos | 2026
// repository_comments.go

package blog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/blogspace/internal/core"
)

const commentColumns = `id, post_id, author_id, body, is_approved,
			  created_at, updated_at`

func (r *repository) CreateComment(
	ctx context.Context,
	comment *Comment,
) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, body, is_approved)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, comment, query,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Body,
		comment.IsApproved,
	)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *repository) GetCommentByID(
	ctx context.Context,
	id string,
) (*Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE id = $1`

	var comment Comment
	err := r.db.GetContext(ctx, &comment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &comment, nil
}

// UpdateComment rewrites the body and resets approval: an edited comment
// goes back through moderation.
func (r *repository) UpdateComment(
	ctx context.Context,
	comment *Comment,
) error {
	query := `
		UPDATE comments
		SET body = $2, is_approved = false, updated_at = NOW()
		WHERE id = $1
		RETURNING is_approved, updated_at`

	err := r.db.GetContext(ctx, comment, query, comment.ID, comment.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	return nil
}

func (r *repository) DeleteComment(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM comments WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete comment: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ApproveComment(
	ctx context.Context,
	id string,
) (*Comment, error) {
	query := `
		UPDATE comments
		SET is_approved = true, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + commentColumns

	var comment Comment
	err := r.db.GetContext(ctx, &comment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("approve comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("approve comment: %w", err)
	}

	return &comment, nil
}

func (r *repository) ListApprovedComments(
	ctx context.Context,
	postID string,
	params ListParams,
) ([]Comment, int, error) {
	params.Normalize()

	var total int
	err := r.db.GetContext(
		ctx,
		&total,
		`SELECT COUNT(*) FROM comments
		 WHERE post_id = $1 AND is_approved = true`,
		postID,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE post_id = $1 AND is_approved = true
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`

	var comments []Comment
	err = r.db.SelectContext(
		ctx,
		&comments,
		query,
		postID,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	return comments, total, nil
}

func (r *repository) ListCommentsByAuthor(
	ctx context.Context,
	authorID string,
	params ListParams,
) ([]Comment, int, error) {
	params.Normalize()

	var total int
	err := r.db.GetContext(
		ctx,
		&total,
		`SELECT COUNT(*) FROM comments WHERE author_id = $1`,
		authorID,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("count author comments: %w", err)
	}

	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var comments []Comment
	err = r.db.SelectContext(
		ctx,
		&comments,
		query,
		authorID,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list author comments: %w", err)
	}

	return comments, total, nil
}

func (r *repository) ListPendingComments(
	ctx context.Context,
	params ListParams,
) ([]Comment, int, error) {
	params.Normalize()

	var total int
	err := r.db.GetContext(
		ctx,
		&total,
		`SELECT COUNT(*) FROM comments WHERE is_approved = false`,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("count pending comments: %w", err)
	}

	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE is_approved = false
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`

	var comments []Comment
	err = r.db.SelectContext(
		ctx,
		&comments,
		query,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list pending comments: %w", err)
	}

	return comments, total, nil
}

func (r *repository) CreateLike(ctx context.Context, like *Like) error {
	query := `
		INSERT INTO likes (id, post_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &like.CreatedAt, query,
		like.ID,
		like.PostID,
		like.UserID,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create like: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create like: %w", err)
	}

	return nil
}

func (r *repository) DeleteLike(
	ctx context.Context,
	postID, userID string,
) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM likes WHERE post_id = $1 AND user_id = $2`,
		postID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete like: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountLikes(
	ctx context.Context,
	postID string,
) (int, error) {
	var count int
	err := r.db.GetContext(
		ctx,
		&count,
		`SELECT COUNT(*) FROM likes WHERE post_id = $1`,
		postID,
	)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}

	return count, nil
}

func (r *repository) HasLiked(
	ctx context.Context,
	postID, userID string,
) (bool, error) {
	var exists bool
	err := r.db.GetContext(
		ctx,
		&exists,
		`SELECT EXISTS(
			SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2
		 )`,
		postID,
		userID,
	)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}

	return exists, nil
}
