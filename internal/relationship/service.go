// AngelaMos | 2026
// service.go

package relationship

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/blogspace/internal/auth"
	"github.com/carterperez-dev/blogspace/internal/core"
)

var (
	ErrSelfFollow      = errors.New("cannot follow yourself")
	ErrDuplicateFollow = errors.New("already following")
	ErrNotFollowing    = errors.New("not following")
	ErrSelfSubscribe   = errors.New("cannot subscribe to yourself")
	ErrInvalidDuration = errors.New("invalid subscription duration")
)

// AlreadySubscribedError refuses a second purchase while the existing
// grant is still live.
type AlreadySubscribedError struct {
	SubscriptionID string
	ExpiresAt      time.Time
}

func (e *AlreadySubscribedError) Error() string {
	return fmt.Sprintf(
		"subscription is active until %s",
		e.ExpiresAt.Format(time.RFC3339),
	)
}

// RenewalRequiredError redirects a purchase to the renewal operation
// when a lapsed grant already exists for the pair.
type RenewalRequiredError struct {
	SubscriptionID string
	ExpiredAt      time.Time
}

func (e *RenewalRequiredError) Error() string {
	return fmt.Sprintf(
		"subscription %s expired %s; renew it instead",
		e.SubscriptionID,
		e.ExpiredAt.Format(time.RFC3339),
	)
}

// StillActiveError refuses a renewal that would re-base a window which
// has not lapsed yet.
type StillActiveError struct {
	ExpiresAt time.Time
}

func (e *StillActiveError) Error() string {
	return fmt.Sprintf(
		"subscription is still active until %s",
		e.ExpiresAt.Format(time.RFC3339),
	)
}

type Service struct {
	repo  Repository
	users auth.UserProvider
}

func NewService(repo Repository, users auth.UserProvider) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) Follow(
	ctx context.Context,
	followerID, authorID string,
) (*Follow, error) {
	if followerID == authorID {
		return nil, fmt.Errorf("follow: %w", ErrSelfFollow)
	}

	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, fmt.Errorf("follow: author: %w", err)
	}

	follow := &Follow{
		ID:         uuid.New().String(),
		FollowerID: followerID,
		AuthorID:   authorID,
	}
	if err := s.repo.CreateFollow(ctx, follow); err != nil {
		// The unique (follower_id, author_id) constraint backstops
		// concurrent duplicate requests.
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("follow: %w", ErrDuplicateFollow)
		}
		return nil, err
	}

	return follow, nil
}

func (s *Service) Unfollow(
	ctx context.Context,
	followerID, authorID string,
) error {
	err := s.repo.DeleteFollow(ctx, followerID, authorID)
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("unfollow: %w", ErrNotFollowing)
	}
	return err
}

func (s *Service) ListFollowing(
	ctx context.Context,
	followerID string,
) ([]Follow, error) {
	return s.repo.ListFollowing(ctx, followerID)
}

func (s *Service) ListFollowers(
	ctx context.Context,
	authorID string,
) ([]Follow, error) {
	return s.repo.ListFollowers(ctx, authorID)
}

// Subscribe purchases a fresh grant. At most one subscription row ever
// exists per (subscriber, author) pair: a live one refuses the purchase
// and a lapsed one redirects to renewal, each reporting its expiry.
func (s *Service) Subscribe(
	ctx context.Context,
	subscriberID string,
	req SubscribeRequest,
) (*Subscription, error) {
	if subscriberID == req.AuthorID {
		return nil, fmt.Errorf("subscribe: %w", ErrSelfSubscribe)
	}
	if !ValidDuration(req.DurationMonths) {
		return nil, fmt.Errorf("subscribe: %w", ErrInvalidDuration)
	}

	if _, err := s.users.GetByID(ctx, req.AuthorID); err != nil {
		return nil, fmt.Errorf("subscribe: author: %w", err)
	}

	existing, err := s.repo.GetSubscriptionByPair(
		ctx,
		subscriberID,
		req.AuthorID,
	)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, subscriptionConflict(existing, time.Now())
	}

	sub := &Subscription{
		ID:             uuid.New().String(),
		SubscriberID:   subscriberID,
		AuthorID:       req.AuthorID,
		DurationMonths: req.DurationMonths,
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			// Lost a race against a concurrent purchase; report the
			// winner's state.
			winner, getErr := s.repo.GetSubscriptionByPair(
				ctx,
				subscriberID,
				req.AuthorID,
			)
			if getErr != nil {
				return nil, err
			}
			return nil, subscriptionConflict(winner, time.Now())
		}
		return nil, err
	}

	return sub, nil
}

// Renew re-bases an owned, lapsed grant onto a new window starting now.
func (s *Service) Renew(
	ctx context.Context,
	subscriberID, subscriptionID string,
	req RenewSubscriptionRequest,
) (*Subscription, error) {
	if !ValidDuration(req.DurationMonths) {
		return nil, fmt.Errorf("renew: %w", ErrInvalidDuration)
	}

	sub, err := s.repo.GetSubscriptionByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if sub.SubscriberID != subscriberID {
		return nil, fmt.Errorf("renew: %w", core.ErrForbidden)
	}

	if sub.Active(time.Now()) {
		return nil, &StillActiveError{ExpiresAt: sub.ExpiresAt()}
	}

	return s.repo.RenewSubscription(ctx, subscriptionID, req.DurationMonths)
}

func (s *Service) ListSubscriptions(
	ctx context.Context,
	subscriberID string,
) ([]Subscription, error) {
	return s.repo.ListSubscriptions(ctx, subscriberID)
}

// ActiveAuthorIDs resolves which authors currently grant the viewer
// premium access. Evaluated fresh on every call; entitlement is never
// cached or carried in tokens.
func (s *Service) ActiveAuthorIDs(
	ctx context.Context,
	viewerID string,
) ([]string, error) {
	subs, err := s.repo.ListSubscriptions(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ids := make([]string, 0, len(subs))
	for i := range subs {
		if subs[i].Active(now) {
			ids = append(ids, subs[i].AuthorID)
		}
	}

	return ids, nil
}

// CanViewPremium reports whether the viewer holds a live grant from the
// author. Authors always see their own premium posts.
func (s *Service) CanViewPremium(
	ctx context.Context,
	viewerID, authorID string,
) (bool, error) {
	if viewerID == authorID {
		return true, nil
	}

	sub, err := s.repo.GetSubscriptionByPair(ctx, viewerID, authorID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return sub.Active(time.Now()), nil
}

func subscriptionConflict(sub *Subscription, now time.Time) error {
	if sub.Active(now) {
		return &AlreadySubscribedError{
			SubscriptionID: sub.ID,
			ExpiresAt:      sub.ExpiresAt(),
		}
	}
	return &RenewalRequiredError{
		SubscriptionID: sub.ID,
		ExpiredAt:      sub.ExpiresAt(),
	}
}
