// AngelaMos | 2026
// dto.go

package blog

import (
	"time"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListParams struct {
	Page     int
	PageSize int
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > maxPageSize {
		p.PageSize = defaultPageSize
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type CreatePostRequest struct {
	Title        string   `json:"title" validate:"required,min=3,max=255"`
	Body         string   `json:"body" validate:"required"`
	CategorySlug string   `json:"category_slug" validate:"omitempty,max=255"`
	Tags         []string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
	IsPublished  bool     `json:"is_published"`
	IsPremium    bool     `json:"is_premium"`
}

type UpdatePostRequest struct {
	Title        *string   `json:"title" validate:"omitempty,min=3,max=255"`
	Body         *string   `json:"body" validate:"omitempty"`
	CategorySlug *string   `json:"category_slug" validate:"omitempty,max=255"`
	Tags         *[]string `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
	IsPublished  *bool     `json:"is_published"`
	IsPremium    *bool     `json:"is_premium"`
}

type PostResponse struct {
	ID          string        `json:"id"`
	AuthorID    string        `json:"author_id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Body        string        `json:"body"`
	Category    *CategoryResponse `json:"category,omitempty"`
	Tags        []TagResponse `json:"tags,omitempty"`
	IsPublished bool          `json:"is_published"`
	IsPremium   bool          `json:"is_premium"`
	LikeCount   int           `json:"like_count"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
	Total int            `json:"total"`
}

type CreateCommentRequest struct {
	PostSlug string `json:"post_slug" validate:"required,max=255"`
	Body     string `json:"body" validate:"required,max=2000"`
}

type UpdateCommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	Body       string    `json:"body"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
	Total    int               `json:"total"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type LikeResponse struct {
	PostID    string `json:"post_id"`
	LikeCount int    `json:"like_count"`
	Liked     bool   `json:"liked"`
}

func ToPostResponse(p *Post) PostResponse {
	return PostResponse{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		Title:       p.Title,
		Slug:        p.Slug,
		Body:        p.Body,
		IsPublished: p.IsPublished,
		IsPremium:   p.IsPremium,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToPostResponseList(posts []Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, ToPostResponse(&posts[i]))
	}
	return out
}

func ToCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorID:   c.AuthorID,
		Body:       c.Body,
		IsApproved: c.IsApproved,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func ToCommentResponseList(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, ToCommentResponse(&comments[i]))
	}
	return out
}

func ToCategoryResponse(c *Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func ToTagResponse(t *Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
}
