// AngelaMos | 2026
// service_test.go

package otp

import (
	"context"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/blogspace/internal/auth"
	"github.com/carterperez-dev/blogspace/internal/config"
	"github.com/carterperez-dev/blogspace/internal/core"
)

type fakeCodeRepo struct {
	codes []Code
}

func (f *fakeCodeRepo) Insert(_ context.Context, code *Code) error {
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	f.codes = append(f.codes, *code)
	return nil
}

func (f *fakeCodeRepo) LatestByPhone(
	_ context.Context,
	phone string,
) (*Code, error) {
	return f.latest(func(c *Code) bool { return c.Phone == phone })
}

func (f *fakeCodeRepo) LatestByPhoneAndCode(
	_ context.Context,
	phone, codeValue string,
) (*Code, error) {
	return f.latest(func(c *Code) bool {
		return c.Phone == phone && c.Code == codeValue
	})
}

func (f *fakeCodeRepo) DeleteOlderThan(
	_ context.Context,
	cutoff time.Time,
) (int64, error) {
	kept := f.codes[:0]
	var deleted int64
	for _, c := range f.codes {
		if c.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	f.codes = kept
	return deleted, nil
}

func (f *fakeCodeRepo) latest(match func(*Code) bool) (*Code, error) {
	matched := make([]Code, 0, len(f.codes))
	for _, c := range f.codes {
		if match(&c) {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return nil, core.ErrNotFound
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return &matched[0], nil
}

type fakeUsers struct {
	byPhone map[string]*auth.UserInfo
}

func (f *fakeUsers) GetByID(
	_ context.Context,
	id string,
) (*auth.UserInfo, error) {
	for _, u := range f.byPhone {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) GetActiveByPhone(
	_ context.Context,
	phone string,
) (*auth.UserInfo, error) {
	if u, ok := f.byPhone[phone]; ok {
		return u, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) VerifyCredentials(
	_ context.Context,
	_, _ string,
) (*auth.UserInfo, error) {
	return nil, auth.ErrInvalidCredentials
}

type fakeSessions struct {
	issued []string
}

func (f *fakeSessions) IssueSession(
	_ context.Context,
	u *auth.UserInfo,
) (*auth.AuthResponse, error) {
	f.issued = append(f.issued, u.ID)
	return &auth.AuthResponse{
		User: auth.UserResponse{ID: u.ID, Phone: u.Phone},
		Tokens: auth.TokenResponse{
			AccessToken:  "access-" + u.ID,
			RefreshToken: "refresh-" + u.ID,
			TokenType:    "Bearer",
		},
	}, nil
}

const testPhone = "09123456789"

func newTestService(
	repo *fakeCodeRepo,
	sessions *fakeSessions,
) *Service {
	users := &fakeUsers{
		byPhone: map[string]*auth.UserInfo{
			testPhone: {ID: "user-1", Phone: testPhone, Username: "sara"},
		},
	}
	return NewService(
		repo,
		users,
		sessions,
		NewLogSender(slog.Default()),
		config.OTPConfig{CodeTTL: 3 * time.Minute},
		slog.Default(),
	)
}

func TestRequestCodeRejectsInvalidPhone(t *testing.T) {
	svc := newTestService(&fakeCodeRepo{}, &fakeSessions{})

	for _, phone := range []string{"", "1234567890", "0812345678901", "09abc45678"} {
		err := svc.RequestCode(context.Background(), phone)
		assert.ErrorIs(t, err, ErrInvalidPhone, "phone %q", phone)
	}
}

func TestRequestCodeRejectsUnknownPhone(t *testing.T) {
	svc := newTestService(&fakeCodeRepo{}, &fakeSessions{})

	err := svc.RequestCode(context.Background(), "09999999999")
	assert.ErrorIs(t, err, ErrUnknownPhone)
}

func TestRequestCodeIssuesSixDigitCode(t *testing.T) {
	repo := &fakeCodeRepo{}
	svc := newTestService(repo, &fakeSessions{})

	require.NoError(t, svc.RequestCode(context.Background(), testPhone))
	require.Len(t, repo.codes, 1)

	code := repo.codes[0]
	assert.Equal(t, testPhone, code.Phone)
	assert.Len(t, code.Code, 6)
	assert.GreaterOrEqual(t, code.Code, "100000")
	assert.LessOrEqual(t, code.Code, "999999")
}

func TestRequestCodeThrottlesWhileCodeIsLive(t *testing.T) {
	repo := &fakeCodeRepo{}
	svc := newTestService(repo, &fakeSessions{})
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, testPhone))

	err := svc.RequestCode(ctx, testPhone)
	var throttled *ThrottledError
	require.ErrorAs(t, err, &throttled)
	assert.WithinDuration(
		t,
		repo.codes[0].CreatedAt.Add(3*time.Minute),
		throttled.NextAllowedAt,
		time.Second,
	)
	assert.Len(t, repo.codes, 1, "no second code while the first is live")
}

func TestRequestCodeAllowsNewCodeAfterWindow(t *testing.T) {
	repo := &fakeCodeRepo{}
	svc := newTestService(repo, &fakeSessions{})
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, testPhone))
	repo.codes[0].CreatedAt = time.Now().Add(-4 * time.Minute)

	require.NoError(t, svc.RequestCode(ctx, testPhone))
	assert.Len(t, repo.codes, 2)
}

func TestRedeemCodeMintsSession(t *testing.T) {
	repo := &fakeCodeRepo{}
	sessions := &fakeSessions{}
	svc := newTestService(repo, sessions)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, testPhone))

	resp, err := svc.RedeemCode(ctx, testPhone, repo.codes[0].Code)
	require.NoError(t, err)
	assert.Equal(t, "user-1", resp.User.ID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
}

func TestRedeemCodeRejectsMismatch(t *testing.T) {
	repo := &fakeCodeRepo{}
	svc := newTestService(repo, &fakeSessions{})
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, testPhone))

	_, err := svc.RedeemCode(ctx, testPhone, "000000")
	assert.ErrorIs(t, err, ErrCodeMismatch)
}

func TestRedeemCodeRejectsExpired(t *testing.T) {
	repo := &fakeCodeRepo{}
	svc := newTestService(repo, &fakeSessions{})
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, testPhone))
	repo.codes[0].CreatedAt = time.Now().Add(-3*time.Minute - time.Second)

	_, err := svc.RedeemCode(ctx, testPhone, repo.codes[0].Code)
	assert.ErrorIs(t, err, ErrCodeExpired)
}

// Codes are never consumed: the same code keeps working until its window
// closes.
func TestRedeemCodeIsRepeatable(t *testing.T) {
	repo := &fakeCodeRepo{}
	sessions := &fakeSessions{}
	svc := newTestService(repo, sessions)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, testPhone))
	code := repo.codes[0].Code

	_, err := svc.RedeemCode(ctx, testPhone, code)
	require.NoError(t, err)
	_, err = svc.RedeemCode(ctx, testPhone, code)
	require.NoError(t, err)

	assert.Len(t, sessions.issued, 2)
}

func TestCodeExpiredBoundary(t *testing.T) {
	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	code := &Code{CreatedAt: created}
	ttl := 3 * time.Minute

	boundary := created.Add(ttl)
	assert.False(t, code.Expired(ttl, boundary),
		"the expiry instant itself is still valid")
	assert.True(t, code.Expired(ttl, boundary.Add(time.Nanosecond)))
	assert.False(t, code.Expired(ttl, created))
}

func TestGenerateCodeRange(t *testing.T) {
	for range 50 {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}

func TestRedeemCodeUnknownPhoneAfterDeactivation(t *testing.T) {
	repo := &fakeCodeRepo{}
	svc := newTestService(repo, &fakeSessions{})
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, testPhone))
	code := repo.codes[0].Code

	// Account disappears between issuance and redemption.
	users := svc.users.(*fakeUsers)
	delete(users.byPhone, testPhone)

	_, err := svc.RedeemCode(ctx, testPhone, code)
	assert.ErrorIs(t, err, ErrUnknownPhone)
}
