// AngelaMos | 2026
// service.go

package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/blogspace/internal/core"
	"github.com/carterperez-dev/blogspace/internal/user"
)

// UserDirectory resolves usernames to accounts. Satisfied by the
// identity service.
type UserDirectory interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// GetByUsername resolves a public profile, lazily creating an empty row
// for accounts that never edited theirs.
func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*ProfileResponse, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	profile, err := s.getOrCreate(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return s.assemble(ctx, u.Username, profile)
}

func (s *Service) GetOwn(
	ctx context.Context,
	userID string,
) (*ProfileResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.assemble(ctx, u.Username, profile)
}

func (s *Service) UpdateOwn(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*ProfileResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.Website != nil {
		profile.Website = *req.Website
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return s.assemble(ctx, u.Username, profile)
}

func (s *Service) AddLink(
	ctx context.Context,
	userID string,
	req CreateSocialLinkRequest,
) (*SocialLink, error) {
	link := &SocialLink{
		ID:       uuid.New().String(),
		UserID:   userID,
		Platform: req.Platform,
		URL:      req.URL,
	}
	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

func (s *Service) RemoveLink(
	ctx context.Context,
	userID, linkID string,
) error {
	link, err := s.repo.GetLinkByID(ctx, linkID)
	if err != nil {
		return err
	}

	if link.UserID != userID {
		return fmt.Errorf("remove link: %w", core.ErrForbidden)
	}

	return s.repo.DeleteLink(ctx, linkID)
}

func (s *Service) getOrCreate(
	ctx context.Context,
	userID string,
) (*Profile, error) {
	profile := &Profile{
		ID:     uuid.New().String(),
		UserID: userID,
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}

func (s *Service) assemble(
	ctx context.Context,
	username string,
	profile *Profile,
) (*ProfileResponse, error) {
	links, err := s.repo.ListLinks(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]SocialLinkResponse, 0, len(links))
	for i := range links {
		out = append(out, ToSocialLinkResponse(&links[i]))
	}

	return &ProfileResponse{
		Username:    username,
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
		AvatarURL:   profile.AvatarURL,
		Website:     profile.Website,
		SocialLinks: out,
		UpdatedAt:   profile.UpdatedAt,
	}, nil
}
