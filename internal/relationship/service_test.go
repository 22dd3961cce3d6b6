// AngelaMos | 2026
// service_test.go

package relationship

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/blogspace/internal/auth"
	"github.com/carterperez-dev/blogspace/internal/core"
)

type fakeRepo struct {
	follows []Follow
	subs    []Subscription
}

func (f *fakeRepo) CreateFollow(_ context.Context, follow *Follow) error {
	for _, existing := range f.follows {
		if existing.FollowerID == follow.FollowerID &&
			existing.AuthorID == follow.AuthorID {
			return core.ErrDuplicateKey
		}
	}
	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = time.Now()
	}
	f.follows = append(f.follows, *follow)
	return nil
}

func (f *fakeRepo) DeleteFollow(
	_ context.Context,
	followerID, authorID string,
) error {
	for i, existing := range f.follows {
		if existing.FollowerID == followerID && existing.AuthorID == authorID {
			f.follows = append(f.follows[:i], f.follows[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeRepo) ListFollowing(
	_ context.Context,
	followerID string,
) ([]Follow, error) {
	var out []Follow
	for _, existing := range f.follows {
		if existing.FollowerID == followerID {
			out = append(out, existing)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListFollowers(
	_ context.Context,
	authorID string,
) ([]Follow, error) {
	var out []Follow
	for _, existing := range f.follows {
		if existing.AuthorID == authorID {
			out = append(out, existing)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountFollowers(
	ctx context.Context,
	authorID string,
) (int, error) {
	followers, _ := f.ListFollowers(ctx, authorID)
	return len(followers), nil
}

func (f *fakeRepo) CreateSubscription(
	_ context.Context,
	sub *Subscription,
) error {
	for _, existing := range f.subs {
		if existing.SubscriberID == sub.SubscriberID &&
			existing.AuthorID == sub.AuthorID {
			return core.ErrDuplicateKey
		}
	}
	now := time.Now()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
		sub.UpdatedAt = now
	}
	f.subs = append(f.subs, *sub)
	return nil
}

func (f *fakeRepo) GetSubscriptionByID(
	_ context.Context,
	id string,
) (*Subscription, error) {
	for i := range f.subs {
		if f.subs[i].ID == id {
			sub := f.subs[i]
			return &sub, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetSubscriptionByPair(
	_ context.Context,
	subscriberID, authorID string,
) (*Subscription, error) {
	for i := range f.subs {
		if f.subs[i].SubscriberID == subscriberID &&
			f.subs[i].AuthorID == authorID {
			sub := f.subs[i]
			return &sub, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) RenewSubscription(
	_ context.Context,
	id string,
	durationMonths int,
) (*Subscription, error) {
	for i := range f.subs {
		if f.subs[i].ID == id {
			f.subs[i].DurationMonths = durationMonths
			f.subs[i].UpdatedAt = time.Now()
			sub := f.subs[i]
			return &sub, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) ListSubscriptions(
	_ context.Context,
	subscriberID string,
) ([]Subscription, error) {
	var out []Subscription
	for _, existing := range f.subs {
		if existing.SubscriberID == subscriberID {
			out = append(out, existing)
		}
	}
	return out, nil
}

type fakeUsers struct {
	ids map[string]bool
}

func (f *fakeUsers) GetByID(
	_ context.Context,
	id string,
) (*auth.UserInfo, error) {
	if f.ids[id] {
		return &auth.UserInfo{ID: id}, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) GetActiveByPhone(
	_ context.Context,
	_ string,
) (*auth.UserInfo, error) {
	return nil, core.ErrNotFound
}

func (f *fakeUsers) VerifyCredentials(
	_ context.Context,
	_, _ string,
) (*auth.UserInfo, error) {
	return nil, auth.ErrInvalidCredentials
}

func newTestService(repo *fakeRepo, userIDs ...string) *Service {
	ids := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		ids[id] = true
	}
	return NewService(repo, &fakeUsers{ids: ids})
}

func TestFollowRejectsSelf(t *testing.T) {
	svc := newTestService(&fakeRepo{}, "alice")

	_, err := svc.Follow(context.Background(), "alice", "alice")
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollowRejectsUnknownAuthor(t *testing.T) {
	svc := newTestService(&fakeRepo{}, "alice")

	_, err := svc.Follow(context.Background(), "alice", "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestFollowRejectsDuplicate(t *testing.T) {
	svc := newTestService(&fakeRepo{}, "alice", "bob")
	ctx := context.Background()

	_, err := svc.Follow(ctx, "alice", "bob")
	require.NoError(t, err)

	_, err = svc.Follow(ctx, "alice", "bob")
	assert.ErrorIs(t, err, ErrDuplicateFollow)
}

func TestUnfollowNotFollowing(t *testing.T) {
	svc := newTestService(&fakeRepo{}, "alice", "bob")

	err := svc.Unfollow(context.Background(), "alice", "bob")
	assert.ErrorIs(t, err, ErrNotFollowing)
}

func TestSubscribeRejectsSelf(t *testing.T) {
	svc := newTestService(&fakeRepo{}, "alice")

	_, err := svc.Subscribe(context.Background(), "alice", SubscribeRequest{
		AuthorID:       "alice",
		DurationMonths: 1,
	})
	assert.ErrorIs(t, err, ErrSelfSubscribe)
}

func TestSubscribeRejectsInvalidDuration(t *testing.T) {
	svc := newTestService(&fakeRepo{}, "alice", "bob")

	for _, months := range []int{0, 2, 5, 13, -1} {
		_, err := svc.Subscribe(context.Background(), "alice", SubscribeRequest{
			AuthorID:       "bob",
			DurationMonths: months,
		})
		assert.ErrorIs(t, err, ErrInvalidDuration, "months=%d", months)
	}
}

func TestSubscribeCreatesGrant(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, "alice", "bob")

	sub, err := svc.Subscribe(context.Background(), "alice", SubscribeRequest{
		AuthorID:       "bob",
		DurationMonths: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", sub.SubscriberID)
	assert.Equal(t, "bob", sub.AuthorID)
	assert.True(t, sub.Active(time.Now()))
	assert.WithinDuration(
		t,
		sub.UpdatedAt.AddDate(0, 3, 0),
		sub.ExpiresAt(),
		time.Second,
	)
}

func TestSubscribeWhileActiveReportsExpiry(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, "alice", "bob")
	ctx := context.Background()

	first, err := svc.Subscribe(ctx, "alice", SubscribeRequest{
		AuthorID:       "bob",
		DurationMonths: 6,
	})
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, "alice", SubscribeRequest{
		AuthorID:       "bob",
		DurationMonths: 1,
	})

	var alreadySubscribed *AlreadySubscribedError
	require.ErrorAs(t, err, &alreadySubscribed)
	assert.Equal(t, first.ID, alreadySubscribed.SubscriptionID)
	assert.Equal(t, first.ExpiresAt(), alreadySubscribed.ExpiresAt)
}

func TestSubscribeAfterLapseRequiresRenewal(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, "alice", "bob")
	ctx := context.Background()

	first, err := svc.Subscribe(ctx, "alice", SubscribeRequest{
		AuthorID:       "bob",
		DurationMonths: 1,
	})
	require.NoError(t, err)

	// Lapse the grant.
	repo.subs[0].UpdatedAt = time.Now().AddDate(0, -2, 0)

	_, err = svc.Subscribe(ctx, "alice", SubscribeRequest{
		AuthorID:       "bob",
		DurationMonths: 1,
	})

	var renewalRequired *RenewalRequiredError
	require.ErrorAs(t, err, &renewalRequired)
	assert.Equal(t, first.ID, renewalRequired.SubscriptionID)
}

func TestRenewWhileActiveRefused(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, "alice", "bob")
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, "alice", SubscribeRequest{
		AuthorID:       "bob",
		DurationMonths: 12,
	})
	require.NoError(t, err)

	_, err = svc.Renew(ctx, "alice", sub.ID, RenewSubscriptionRequest{
		DurationMonths: 1,
	})

	var stillActive *StillActiveError
	assert.ErrorAs(t, err, &stillActive)
}

func TestRenewRejectsForeignSubscription(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, "alice", "bob", "mallory")
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, "alice", SubscribeRequest{
		AuthorID:       "bob",
		DurationMonths: 1,
	})
	require.NoError(t, err)

	_, err = svc.Renew(ctx, "mallory", sub.ID, RenewSubscriptionRequest{
		DurationMonths: 1,
	})
	assert.ErrorIs(t, err, core.ErrForbidden)
}

// Renewal re-bases the window from now instead of stacking onto the old
// expiry.
func TestRenewRebasesWindow(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, "alice", "bob")
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, "alice", SubscribeRequest{
		AuthorID:       "bob",
		DurationMonths: 1,
	})
	require.NoError(t, err)

	// Lapsed three months ago.
	repo.subs[0].UpdatedAt = time.Now().AddDate(0, -4, 0)

	renewed, err := svc.Renew(ctx, "alice", sub.ID, RenewSubscriptionRequest{
		DurationMonths: 6,
	})
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now(), renewed.UpdatedAt, time.Second)
	assert.WithinDuration(
		t,
		time.Now().AddDate(0, 6, 0),
		renewed.ExpiresAt(),
		time.Second,
	)
	assert.True(t, renewed.Active(time.Now()))
}

func TestActiveAuthorIDsFiltersLapsed(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, "alice", "bob", "carol")
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "alice", SubscribeRequest{
		AuthorID:       "bob",
		DurationMonths: 1,
	})
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, "alice", SubscribeRequest{
		AuthorID:       "carol",
		DurationMonths: 1,
	})
	require.NoError(t, err)

	// Lapse the carol grant.
	for i := range repo.subs {
		if repo.subs[i].AuthorID == "carol" {
			repo.subs[i].UpdatedAt = time.Now().AddDate(0, -2, 0)
		}
	}

	ids, err := svc.ActiveAuthorIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, ids)
}

func TestCanViewPremiumOwnPosts(t *testing.T) {
	svc := newTestService(&fakeRepo{}, "bob")

	allowed, err := svc.CanViewPremium(context.Background(), "bob", "bob")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestCanViewPremiumWithoutGrant(t *testing.T) {
	svc := newTestService(&fakeRepo{}, "alice", "bob")

	allowed, err := svc.CanViewPremium(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.False(t, allowed)
}

// The expiry instant itself is outside the window.
func TestSubscriptionActiveBoundary(t *testing.T) {
	started := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	sub := &Subscription{DurationMonths: 1, UpdatedAt: started}

	expiry := started.AddDate(0, 1, 0)
	assert.Equal(t, expiry, sub.ExpiresAt())
	assert.True(t, sub.Active(expiry.Add(-time.Nanosecond)))
	assert.False(t, sub.Active(expiry))
	assert.False(t, sub.Active(expiry.Add(time.Hour)))
}

func TestValidDuration(t *testing.T) {
	for _, months := range []int{1, 3, 6, 12} {
		assert.True(t, ValidDuration(months), "months=%d", months)
	}
	for _, months := range []int{0, 2, 4, 7, 24, -1} {
		assert.False(t, ValidDuration(months), "months=%d", months)
	}
}
