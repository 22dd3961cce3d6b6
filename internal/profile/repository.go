// AngelaMos | 2026
// repository.go

package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/blogspace/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, profile *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error

	CreateLink(ctx context.Context, link *SocialLink) error
	GetLinkByID(ctx context.Context, id string) (*SocialLink, error)
	DeleteLink(ctx context.Context, id string) error
	ListLinks(ctx context.Context, userID string) ([]SocialLink, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const profileColumns = `id, user_id, display_name, bio, avatar_url, website,
			  created_at, updated_at`

// Upsert creates the profile row if the user does not have one yet; an
// existing row is left untouched.
func (r *repository) Upsert(ctx context.Context, profile *Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, display_name, bio, avatar_url, website)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET user_id = profiles.user_id
		RETURNING ` + profileColumns

	err := r.db.GetContext(ctx, profile, query,
		profile.ID,
		profile.UserID,
		profile.DisplayName,
		profile.Bio,
		profile.AvatarURL,
		profile.Website,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}

func (r *repository) GetByUserID(
	ctx context.Context,
	userID string,
) (*Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1`

	var profile Profile
	err := r.db.GetContext(ctx, &profile, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &profile, nil
}

func (r *repository) Update(ctx context.Context, profile *Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, bio = $3, avatar_url = $4, website = $5,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &profile.UpdatedAt, query,
		profile.UserID,
		profile.DisplayName,
		profile.Bio,
		profile.AvatarURL,
		profile.Website,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

func (r *repository) CreateLink(
	ctx context.Context,
	link *SocialLink,
) error {
	query := `
		INSERT INTO social_links (id, user_id, platform, url)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &link.CreatedAt, query,
		link.ID,
		link.UserID,
		link.Platform,
		link.URL,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create social link: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create social link: %w", err)
	}

	return nil
}

func (r *repository) GetLinkByID(
	ctx context.Context,
	id string,
) (*SocialLink, error) {
	query := `
		SELECT id, user_id, platform, url, created_at
		FROM social_links
		WHERE id = $1`

	var link SocialLink
	err := r.db.GetContext(ctx, &link, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get social link: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get social link: %w", err)
	}

	return &link, nil
}

func (r *repository) DeleteLink(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM social_links WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete social link: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete social link: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete social link: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListLinks(
	ctx context.Context,
	userID string,
) ([]SocialLink, error) {
	query := `
		SELECT id, user_id, platform, url, created_at
		FROM social_links
		WHERE user_id = $1
		ORDER BY platform`

	var links []SocialLink
	if err := r.db.SelectContext(ctx, &links, query, userID); err != nil {
		return nil, fmt.Errorf("list social links: %w", err)
	}

	return links, nil
}
