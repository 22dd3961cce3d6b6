// AngelaMos | 2026
// handler.go

package profile

import (
	"encoding/json"
	"errors"
	"net/http"

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
	r.Get("/profiles/{username}", h.GetProfile)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/profile/me", h.GetOwnProfile)
		r.Patch("/profile/me", h.UpdateOwnProfile)
		r.Post("/social-links", h.AddLink)
		r.Delete("/social-links/{linkID}", h.RemoveLink)
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetByUsername(
		r.Context(),
		chi.URLParam(r, "username"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetOwn(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) UpdateOwnProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.UpdateOwn(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "profile")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) AddLink(w http.ResponseWriter, r *http.Request) {
	var req CreateSocialLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	link, err := h.service.AddLink(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "link for this platform already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToSocialLinkResponse(link))
}

func (h *Handler) RemoveLink(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveLink(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "linkID"),
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "link belongs to another user")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "link")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}
