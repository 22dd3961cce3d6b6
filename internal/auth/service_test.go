// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/blogspace/internal/config"
	"github.com/carterperez-dev/blogspace/internal/core"
)

type fakeTokenRepo struct {
	rows map[string]*RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{rows: make(map[string]*RefreshToken)}
}

func (f *fakeTokenRepo) Create(_ context.Context, token *RefreshToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	stored := *token
	f.rows[token.ID] = &stored
	return nil
}

func (f *fakeTokenRepo) GetByHash(
	_ context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	for _, row := range f.rows {
		if row.TokenHash == tokenHash {
			copied := *row
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeTokenRepo) Revoke(_ context.Context, id string) error {
	row, ok := f.rows[id]
	if !ok || row.RevokedAt != nil {
		return core.ErrTokenRevoked
	}
	now := time.Now()
	row.RevokedAt = &now
	return nil
}

func (f *fakeTokenRepo) RevokeAllForUser(
	_ context.Context,
	userID string,
) (int64, error) {
	now := time.Now()
	var revoked int64
	for _, row := range f.rows {
		if row.UserID == userID && row.RevokedAt == nil {
			row.RevokedAt = &now
			revoked++
		}
	}
	return revoked, nil
}

func (f *fakeTokenRepo) DeleteExpired(
	_ context.Context,
	before time.Time,
) (int64, error) {
	var deleted int64
	for id, row := range f.rows {
		if row.ExpiresAt.Before(before) {
			delete(f.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeBlacklist struct {
	entries map[string]time.Duration
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{entries: make(map[string]time.Duration)}
}

func (f *fakeBlacklist) Add(
	_ context.Context,
	tokenID string,
	ttl time.Duration,
) error {
	f.entries[tokenID] = ttl
	return nil
}

func (f *fakeBlacklist) Contains(
	_ context.Context,
	tokenID string,
) (bool, error) {
	_, ok := f.entries[tokenID]
	return ok, nil
}

type fakeUserProvider struct {
	users map[string]*UserInfo
}

func (f *fakeUserProvider) GetByID(
	_ context.Context,
	id string,
) (*UserInfo, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserProvider) GetActiveByPhone(
	_ context.Context,
	phone string,
) (*UserInfo, error) {
	for _, u := range f.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserProvider) VerifyCredentials(
	_ context.Context,
	phone, _ string,
) (*UserInfo, error) {
	return f.GetActiveByPhone(context.Background(), phone)
}

type testHarness struct {
	svc       *Service
	repo      *fakeTokenRepo
	blacklist *fakeBlacklist
	user      *UserInfo
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")
	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	cfg := config.JWTConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 7 * 24 * time.Hour,
		Issuer:             "blogspace-test",
		Audience:           "blogspace-api",
	}

	jwtManager, err := NewJWTManager(cfg)
	require.NoError(t, err)

	u := &UserInfo{
		ID:       "user-1",
		Phone:    "09123456789",
		Username: "sara",
	}
	repo := newFakeTokenRepo()
	blacklist := newFakeBlacklist()
	svc := NewService(
		repo,
		&fakeUserProvider{users: map[string]*UserInfo{u.ID: u}},
		jwtManager,
		blacklist,
		cfg,
		slog.Default(),
	)

	return &testHarness{svc: svc, repo: repo, blacklist: blacklist, user: u}
}

func TestIssueSessionStoresPairedAccessID(t *testing.T) {
	h := newTestHarness(t)

	resp, err := h.svc.IssueSession(context.Background(), h.user)
	require.NoError(t, err)

	assert.Equal(t, "Bearer", resp.Tokens.TokenType)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)

	require.Len(t, h.repo.rows, 1)
	for _, row := range h.repo.rows {
		assert.Equal(t, h.user.ID, row.UserID)
		assert.NotEmpty(t, row.AccessTokenID,
			"the stored session must remember its access token")
		assert.Equal(t, core.HashToken(resp.Tokens.RefreshToken), row.TokenHash)
	}
}

func TestVerifyAccessTokenRoundTrip(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	resp, err := h.svc.IssueSession(ctx, h.user)
	require.NoError(t, err)

	claims, err := h.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, h.user.ID, claims.UserID)
	assert.Equal(t, h.user.Username, claims.Username)
	assert.False(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.TokenID)
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.svc.VerifyAccessToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLogoutRevokesAndBlacklists(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	resp, err := h.svc.IssueSession(ctx, h.user)
	require.NoError(t, err)

	claims, err := h.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, h.user.ID, resp.Tokens.RefreshToken))

	for _, row := range h.repo.rows {
		assert.NotNil(t, row.RevokedAt)
	}

	// The paired access token dies with the session.
	_, err = h.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
	assert.Contains(t, h.blacklist.entries, claims.TokenID)
}

func TestLogoutUnknownToken(t *testing.T) {
	h := newTestHarness(t)

	err := h.svc.Logout(context.Background(), h.user.ID, "never-issued")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLogoutForeignToken(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	resp, err := h.svc.IssueSession(ctx, h.user)
	require.NoError(t, err)

	err = h.svc.Logout(ctx, "someone-else", resp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

// A second logout with the same token looks exactly like presenting a
// token that never existed.
func TestLogoutTwice(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	resp, err := h.svc.IssueSession(ctx, h.user)
	require.NoError(t, err)

	require.NoError(t, h.svc.Logout(ctx, h.user.ID, resp.Tokens.RefreshToken))

	err = h.svc.Logout(ctx, h.user.ID, resp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestRefreshRotatesSession(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	first, err := h.svc.IssueSession(ctx, h.user)
	require.NoError(t, err)

	second, err := h.svc.Refresh(ctx, first.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	// The old pair is dead on both sides.
	_, err = h.svc.Refresh(ctx, first.Tokens.RefreshToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)
	_, err = h.svc.VerifyAccessToken(ctx, first.Tokens.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenRevoked)

	// The new pair works.
	claims, err := h.svc.VerifyAccessToken(ctx, second.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, h.user.ID, claims.UserID)
}

func TestRefreshUnknownToken(t *testing.T) {
	h := newTestHarness(t)

	_, err := h.svc.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestRefreshExpiredToken(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	resp, err := h.svc.IssueSession(ctx, h.user)
	require.NoError(t, err)

	for _, row := range h.repo.rows {
		row.ExpiresAt = time.Now().Add(-time.Minute)
	}

	_, err = h.svc.Refresh(ctx, resp.Tokens.RefreshToken)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	_, err := h.svc.IssueSession(ctx, h.user)
	require.NoError(t, err)
	_, err = h.svc.IssueSession(ctx, h.user)
	require.NoError(t, err)

	revoked, err := h.svc.LogoutAll(ctx, h.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), revoked)
}

func TestRefreshTokenEntityWindows(t *testing.T) {
	now := time.Now()

	live := &RefreshToken{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, live.IsValid())

	expired := &RefreshToken{ExpiresAt: now.Add(-time.Hour)}
	assert.True(t, expired.IsExpired())
	assert.False(t, expired.IsValid())

	revoked := &RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &now}
	assert.True(t, revoked.IsRevoked())
	assert.False(t, revoked.IsValid())
}
