// AngelaMos | 2026
// handler.go

package blog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	authenticator, optionalAuth, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.PublicFeed)
		r.With(authenticator).Get("/premium", h.PremiumFeed)
		r.With(optionalAuth).Get("/{slug}", h.GetPost)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/", h.CreatePost)
			r.Post("/{slug}/like", h.LikePost)
			r.Delete("/{slug}/like", h.UnlikePost)
		})
	})

	r.Route("/my-posts", func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/", h.MyPosts)
		r.Patch("/{postID}", h.UpdatePost)
		r.Delete("/{postID}", h.DeletePost)
	})

	r.Route("/comments", func(r chi.Router) {
		r.With(optionalAuth).Get("/", h.ListComments)
		r.With(authenticator).Post("/", h.CreateComment)
	})

	r.Route("/my-comments", func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/", h.MyComments)
		r.Patch("/{commentID}", h.UpdateComment)
		r.Delete("/{commentID}", h.DeleteComment)
	})

	r.Get("/categories", h.ListCategories)
	r.Get("/tags", h.ListTags)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Post("/categories", h.CreateCategory)
		r.Post("/tags", h.CreateTag)
		r.Get("/admin/comments/pending", h.PendingComments)
		r.Post("/admin/comments/{commentID}/approve", h.ApproveComment)
	})
}

func (h *Handler) PublicFeed(w http.ResponseWriter, r *http.Request) {
	posts, total, err := h.service.PublicFeed(r.Context(), listParams(r))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, PostListResponse{Posts: ToPostResponseList(posts), Total: total})
}

func (h *Handler) PremiumFeed(w http.ResponseWriter, r *http.Request) {
	posts, total, err := h.service.PremiumFeed(
		r.Context(),
		middleware.GetUserID(r.Context()),
		listParams(r),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, PostListResponse{Posts: ToPostResponseList(posts), Total: total})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "slug"),
	)
	if err != nil {
		h.writeVisibilityError(w, err, "post")
		return
	}

	core.OK(w, post)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	post, err := h.service.CreatePost(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		if errors.Is(err, ErrUnknownCategory) {
			core.BadRequest(w, "category does not exist")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, post)
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	post, err := h.service.UpdatePost(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "postID"),
		req,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownCategory):
			core.BadRequest(w, "category does not exist")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "post belongs to another author")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "post")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeletePost(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "postID"),
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "post belongs to another author")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "post")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) MyPosts(w http.ResponseWriter, r *http.Request) {
	posts, total, err := h.service.MyPosts(
		r.Context(),
		middleware.GetUserID(r.Context()),
		listParams(r),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, PostListResponse{Posts: ToPostResponseList(posts), Total: total})
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	comment, err := h.service.CreateComment(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		h.writeVisibilityError(w, err, "post")
		return
	}

	core.Created(w, ToCommentResponse(comment))
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postSlug := r.URL.Query().Get("post_slug")
	if postSlug == "" {
		core.BadRequest(w, "post_slug query parameter is required")
		return
	}

	comments, total, err := h.service.ListComments(
		r.Context(),
		middleware.GetUserID(r.Context()),
		postSlug,
		listParams(r),
	)
	if err != nil {
		h.writeVisibilityError(w, err, "post")
		return
	}

	core.OK(w, CommentListResponse{
		Comments: ToCommentResponseList(comments),
		Total:    total,
	})
}

func (h *Handler) MyComments(w http.ResponseWriter, r *http.Request) {
	comments, total, err := h.service.MyComments(
		r.Context(),
		middleware.GetUserID(r.Context()),
		listParams(r),
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CommentListResponse{
		Comments: ToCommentResponseList(comments),
		Total:    total,
	})
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	comment, err := h.service.UpdateComment(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "commentID"),
		req,
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "comment belongs to another user")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "comment")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToCommentResponse(comment))
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.service.DeleteComment(
		ctx,
		middleware.GetUserID(ctx),
		chi.URLParam(r, "commentID"),
		middleware.IsAdmin(ctx),
	)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "comment belongs to another user")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "comment")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.NoContent(w)
}

func (h *Handler) ApproveComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.service.ApproveComment(
		r.Context(),
		chi.URLParam(r, "commentID"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "comment")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToCommentResponse(comment))
}

func (h *Handler) PendingComments(w http.ResponseWriter, r *http.Request) {
	comments, total, err := h.service.PendingComments(r.Context(), listParams(r))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, CommentListResponse{
		Comments: ToCommentResponseList(comments),
		Total:    total,
	})
}

func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.LikePost(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "slug"),
	)
	if err != nil {
		if errors.Is(err, ErrAlreadyLiked) {
			core.BadRequest(w, "post already liked")
			return
		}
		h.writeVisibilityError(w, err, "post")
		return
	}

	core.Created(w, resp)
}

func (h *Handler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.UnlikePost(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "slug"),
	)
	if err != nil {
		if errors.Is(err, ErrNotLiked) {
			core.BadRequest(w, "post not liked")
			return
		}
		h.writeVisibilityError(w, err, "post")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "category already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToCategoryResponse(category))
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i]))
	}

	core.OK(w, out)
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	tag, err := h.service.CreateTag(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "tag already exists")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToTagResponse(tag))
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	out := make([]TagResponse, 0, len(tags))
	for i := range tags {
		out = append(out, ToTagResponse(&tags[i]))
	}

	core.OK(w, out)
}

func (h *Handler) writeVisibilityError(
	w http.ResponseWriter,
	err error,
	resource string,
) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "sign in to view premium content")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "an active subscription to this author is required")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	default:
		core.InternalServerError(w, err)
	}
}

func listParams(r *http.Request) ListParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return ListParams{Page: page, PageSize: pageSize}
}
