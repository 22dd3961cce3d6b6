// AngelaMos | 2026
// handler.go

package otp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/blogspace/internal/core"
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
	rateLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter)
		}
		r.Post("/send-otp", h.SendCode)
		r.Post("/token-by-otp", h.RedeemCode)
	})
}

func (h *Handler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if err := h.service.RequestCode(r.Context(), req.Phone); err != nil {
		var throttled *ThrottledError
		switch {
		case errors.Is(err, ErrInvalidPhone):
			core.BadRequest(w, "enter a valid 11-digit phone number")
		case errors.Is(err, ErrUnknownPhone):
			core.BadRequest(w, "no active account for this phone number")
		case errors.As(err, &throttled):
			core.BadRequest(w, throttled.Error())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, SendCodeResponse{Message: "verification code sent"})
}

func (h *Handler) RedeemCode(w http.ResponseWriter, r *http.Request) {
	var req RedeemCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.RedeemCode(r.Context(), req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPhone):
			core.BadRequest(w, "enter a valid 11-digit phone number")
		case errors.Is(err, ErrCodeMismatch):
			core.BadRequest(w, "code does not match")
		case errors.Is(err, ErrCodeExpired):
			core.BadRequest(w, "code has expired; request a new one")
		case errors.Is(err, ErrUnknownPhone):
			core.BadRequest(w, "no active account for this phone number")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, resp)
}
