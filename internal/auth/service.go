// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/blogspace/internal/config"
	"github.com/carterperez-dev/blogspace/internal/core"
	"github.com/carterperez-dev/blogspace/internal/middleware"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserInfo is the slice of an account this package needs. The identity
// package adapts its own entity into this shape so session handling never
// sees password hashes or profile data.
type UserInfo struct {
	ID       string
	Phone    string
	Username string
	IsAdmin  bool
}

type UserProvider interface {
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	GetActiveByPhone(ctx context.Context, phone string) (*UserInfo, error)
	VerifyCredentials(ctx context.Context, phone, password string) (*UserInfo, error)
}

const blacklistKeyPrefix = "token:blacklist:"

// Blacklist records revoked access-token IDs until they would have
// expired on their own.
type Blacklist interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

type redisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(rdb *core.Redis) Blacklist {
	return &redisBlacklist{client: rdb.Client}
}

func (b *redisBlacklist) Add(
	ctx context.Context,
	tokenID string,
	ttl time.Duration,
) error {
	return b.client.Set(ctx, blacklistKeyPrefix+tokenID, "1", ttl).Err()
}

func (b *redisBlacklist) Contains(
	ctx context.Context,
	tokenID string,
) (bool, error) {
	err := b.client.Get(ctx, blacklistKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type Service struct {
	repo      Repository
	users     UserProvider
	jwt       *JWTManager
	blacklist Blacklist
	config    config.JWTConfig
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	users UserProvider,
	jwtManager *JWTManager,
	blacklist Blacklist,
	cfg config.JWTConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		jwt:       jwtManager,
		blacklist: blacklist,
		config:    cfg,
		logger:    logger,
	}
}

// IssueSession mints an access/refresh pair for an already-authenticated
// user. Both the password login and the OTP redemption flow end here.
func (s *Service) IssueSession(
	ctx context.Context,
	u *UserInfo,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(u.ID, u.Username, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	row := &RefreshToken{
		ID:            uuid.New().String(),
		UserID:        u.ID,
		TokenHash:     refresh.Hash,
		AccessTokenID: access.TokenID,
		ExpiresAt:     refresh.ExpiresAt,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: UserResponse{
			ID:       u.ID,
			Phone:    u.Phone,
			Username: u.Username,
			IsAdmin:  u.IsAdmin,
		},
		Tokens: TokenResponse{
			AccessToken:  access.Token,
			RefreshToken: refresh.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.config.AccessTokenExpire.Seconds()),
			ExpiresAt:    access.ExpiresAt,
		},
	}, nil
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	u, err := s.users.VerifyCredentials(ctx, req.Phone, req.Password)
	if err != nil {
		return nil, err
	}

	return s.IssueSession(ctx, u)
}

// Refresh rotates a session: the presented refresh token is revoked, its
// paired access token blacklisted, and a brand-new pair issued.
func (s *Service) Refresh(
	ctx context.Context,
	rawToken string,
) (*AuthResponse, error) {
	row, err := s.repo.GetByHash(ctx, core.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, err
	}

	if row.IsRevoked() {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenRevoked)
	}
	if row.IsExpired() {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenExpired)
	}

	u, err := s.users.GetByID(ctx, row.UserID)
	if err != nil {
		return nil, fmt.Errorf("refresh: load user: %w", err)
	}

	if err := s.repo.Revoke(ctx, row.ID); err != nil {
		return nil, err
	}
	s.blacklistAccessToken(ctx, row.AccessTokenID)

	return s.IssueSession(ctx, u)
}

// Logout revokes the session owning the presented refresh token. A token
// that does not resolve to a stored session and a token that was already
// revoked both fail the same way, so callers learn nothing about which
// case they hit. Presenting another user's token is refused outright.
func (s *Service) Logout(ctx context.Context, userID, rawToken string) error {
	row, err := s.repo.GetByHash(ctx, core.HashToken(rawToken))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("logout: %w", core.ErrTokenInvalid)
		}
		return err
	}

	if row.UserID != userID {
		return fmt.Errorf("logout: %w", core.ErrForbidden)
	}

	if row.IsRevoked() {
		return fmt.Errorf("logout: %w", core.ErrTokenInvalid)
	}

	if err := s.repo.Revoke(ctx, row.ID); err != nil {
		return err
	}
	s.blacklistAccessToken(ctx, row.AccessTokenID)

	s.logger.InfoContext(ctx, "session revoked",
		slog.String("user_id", userID),
		slog.String("session_id", row.ID),
	)

	return nil
}

// LogoutAll revokes every live session a user has. The paired access
// tokens are not individually blacklisted; they age out within the
// access-token lifetime.
func (s *Service) LogoutAll(ctx context.Context, userID string) (int64, error) {
	return s.repo.RevokeAllForUser(ctx, userID)
}

// VerifyAccessToken checks signature and registered claims, then consults
// the revocation blacklist. Entitlement state is never read here; it is
// evaluated fresh on each premium-gated query.
func (s *Service) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	claims, err := s.jwt.ParseAccessToken(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.Contains(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserInfo, error) {
	return s.users.GetByID(ctx, userID)
}

// StartCleanup deletes long-expired refresh token rows on an interval
// until the context is cancelled.
func (s *Service) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.config.RefreshTokenExpire)
			deleted, err := s.repo.DeleteExpired(ctx, cutoff)
			if err != nil {
				s.logger.ErrorContext(ctx, "token cleanup failed",
					slog.String("error", err.Error()),
				)
				continue
			}
			if deleted > 0 {
				s.logger.InfoContext(ctx, "expired tokens purged",
					slog.Int64("count", deleted),
				)
			}
		}
	}
}

func (s *Service) blacklistAccessToken(ctx context.Context, tokenID string) {
	if tokenID == "" {
		return
	}

	// TTL matches the access-token lifetime: after that the token is
	// rejected by its exp claim anyway.
	err := s.blacklist.Add(ctx, tokenID, s.config.AccessTokenExpire)
	if err != nil {
		s.logger.WarnContext(ctx, "blacklist write failed",
			slog.String("token_id", tokenID),
			slog.String("error", err.Error()),
		)
	}
}
