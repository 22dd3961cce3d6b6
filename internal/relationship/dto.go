// AngelaMos | 2026
// dto.go

package relationship

import (
	"time"
)

type FollowRequest struct {
	AuthorID string `json:"author_id" validate:"required,uuid4"`
}

type SubscribeRequest struct {
	AuthorID       string `json:"author_id" validate:"required,uuid4"`
	DurationMonths int    `json:"duration_months" validate:"required,oneof=1 3 6 12"`
}

type RenewSubscriptionRequest struct {
	DurationMonths int `json:"duration_months" validate:"required,oneof=1 3 6 12"`
}

type FollowResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type SubscriptionResponse struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"author_id"`
	DurationMonths int       `json:"duration_months"`
	StartedAt      time.Time `json:"started_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	IsActive       bool      `json:"is_active"`
}

func ToFollowResponse(f *Follow) FollowResponse {
	return FollowResponse{
		ID:        f.ID,
		AuthorID:  f.AuthorID,
		CreatedAt: f.CreatedAt,
	}
}

func ToSubscriptionResponse(s *Subscription, now time.Time) SubscriptionResponse {
	return SubscriptionResponse{
		ID:             s.ID,
		AuthorID:       s.AuthorID,
		DurationMonths: s.DurationMonths,
		StartedAt:      s.UpdatedAt,
		ExpiresAt:      s.ExpiresAt(),
		IsActive:       s.Active(now),
	}
}

func ToSubscriptionResponseList(
	subs []Subscription,
	now time.Time,
) []SubscriptionResponse {
	out := make([]SubscriptionResponse, 0, len(subs))
	for i := range subs {
		out = append(out, ToSubscriptionResponse(&subs[i], now))
	}
	return out
}
