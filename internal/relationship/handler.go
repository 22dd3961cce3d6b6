// AngelaMos | 2026
// handler.go

package relationship

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/blogspace/internal/core"
	"github.com/carterperez-dev/blogspace/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Post("/follow", h.Follow)
		r.Delete("/follow/{authorID}", h.Unfollow)
		r.Get("/following", h.ListFollowing)
		r.Get("/followers", h.ListFollowers)

		r.Post("/subscribe", h.Subscribe)
		r.Patch("/subscribe/update/{subscriptionID}", h.Renew)
		r.Get("/subscriptions", h.ListSubscriptions)
	})
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	follow, err := h.service.Follow(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.AuthorID,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfFollow):
			core.BadRequest(w, "cannot follow yourself")
		case errors.Is(err, ErrDuplicateFollow):
			core.BadRequest(w, "already following this author")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "author")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToFollowResponse(follow))
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	err := h.service.Unfollow(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "authorID"),
	)
	if err != nil {
		if errors.Is(err, ErrNotFollowing) {
			core.BadRequest(w, "not following this author")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	follows, err := h.service.ListFollowing(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]FollowResponse, 0, len(follows))
	for i := range follows {
		out = append(out, ToFollowResponse(&follows[i]))
	}

	core.OK(w, out)
}

func (h *Handler) ListFollowers(w http.ResponseWriter, r *http.Request) {
	follows, err := h.service.ListFollowers(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	type followerResponse struct {
		ID         string    `json:"id"`
		FollowerID string    `json:"follower_id"`
		CreatedAt  time.Time `json:"created_at"`
	}

	out := make([]followerResponse, 0, len(follows))
	for i := range follows {
		out = append(out, followerResponse{
			ID:         follows[i].ID,
			FollowerID: follows[i].FollowerID,
			CreatedAt:  follows[i].CreatedAt,
		})
	}

	core.OK(w, out)
}

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	sub, err := h.service.Subscribe(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		h.writeSubscribeError(w, err)
		return
	}

	core.Created(w, ToSubscriptionResponse(sub, time.Now()))
}

func (h *Handler) Renew(w http.ResponseWriter, r *http.Request) {
	var req RenewSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	sub, err := h.service.Renew(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "subscriptionID"),
		req,
	)
	if err != nil {
		var stillActive *StillActiveError
		switch {
		case errors.As(err, &stillActive):
			core.JSONError(w, core.ValidationError(stillActive.Error()).
				WithDetails(map[string]any{
					"expires_at": stillActive.ExpiresAt,
				}))
		case errors.Is(err, ErrInvalidDuration):
			core.BadRequest(w, "duration must be 1, 3, 6 or 12 months")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "subscription belongs to another account")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "subscription")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToSubscriptionResponse(sub, time.Now()))
}

func (h *Handler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.service.ListSubscriptions(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSubscriptionResponseList(subs, time.Now()))
}

func (h *Handler) writeSubscribeError(w http.ResponseWriter, err error) {
	var (
		alreadySubscribed *AlreadySubscribedError
		renewalRequired   *RenewalRequiredError
	)

	switch {
	case errors.Is(err, ErrSelfSubscribe):
		core.BadRequest(w, "cannot subscribe to yourself")
	case errors.Is(err, ErrInvalidDuration):
		core.BadRequest(w, "duration must be 1, 3, 6 or 12 months")
	case errors.As(err, &alreadySubscribed):
		core.JSONError(w, core.ForbiddenError(alreadySubscribed.Error()).
			WithDetails(map[string]any{
				"subscription_id": alreadySubscribed.SubscriptionID,
				"expires_at":      alreadySubscribed.ExpiresAt,
			}))
	case errors.As(err, &renewalRequired):
		core.JSONError(w, core.ForbiddenError(renewalRequired.Error()).
			WithDetails(map[string]any{
				"subscription_id": renewalRequired.SubscriptionID,
				"expired_at":      renewalRequired.ExpiredAt,
			}))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "author")
	default:
		core.InternalServerError(w, err)
	}
}
