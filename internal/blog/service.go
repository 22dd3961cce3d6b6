// AngelaMos | 2026
// service.go

package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/blogspace/internal/core"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrAlreadyLiked    = errors.New("already liked")
	ErrNotLiked        = errors.New("not liked")
	ErrNotPublished    = errors.New("post not published")
)

// Entitlements answers premium-access questions. Satisfied by the
// relationship service; always consulted live, never cached, so a lapsed
// subscription locks premium content out on the very next request.
type Entitlements interface {
	ActiveAuthorIDs(ctx context.Context, viewerID string) ([]string, error)
	CanViewPremium(ctx context.Context, viewerID, authorID string) (bool, error)
}

type Service struct {
	repo         Repository
	entitlements Entitlements
}

func NewService(repo Repository, entitlements Entitlements) *Service {
	return &Service{repo: repo, entitlements: entitlements}
}

// PublicFeed lists published, non-premium posts. Anonymous callers see
// exactly this and nothing more.
func (s *Service) PublicFeed(
	ctx context.Context,
	params ListParams,
) ([]Post, int, error) {
	return s.repo.ListPublicPosts(ctx, params)
}

// PremiumFeed lists published premium posts from every author the viewer
// holds a live subscription with.
func (s *Service) PremiumFeed(
	ctx context.Context,
	viewerID string,
	params ListParams,
) ([]Post, int, error) {
	authorIDs, err := s.entitlements.ActiveAuthorIDs(ctx, viewerID)
	if err != nil {
		return nil, 0, fmt.Errorf("premium feed: %w", err)
	}

	return s.repo.ListPremiumPostsByAuthors(ctx, authorIDs, params)
}

// GetPost resolves a post for a viewer. Drafts are visible to their
// author only; premium posts require a live subscription unless the
// viewer wrote them.
func (s *Service) GetPost(
	ctx context.Context,
	viewerID, slug string,
) (*PostResponse, error) {
	post, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !post.IsPublished && post.AuthorID != viewerID {
		// Drafts do not exist for anyone but their author.
		return nil, fmt.Errorf("get post: %w", core.ErrNotFound)
	}

	if post.IsPremium && post.AuthorID != viewerID {
		if viewerID == "" {
			return nil, fmt.Errorf("get post: %w", core.ErrUnauthorized)
		}
		allowed, err := s.entitlements.CanViewPremium(
			ctx,
			viewerID,
			post.AuthorID,
		)
		if err != nil {
			return nil, fmt.Errorf("get post: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("get post: %w", core.ErrForbidden)
		}
	}

	return s.assemblePost(ctx, post)
}

func (s *Service) CreatePost(
	ctx context.Context,
	authorID string,
	req CreatePostRequest,
) (*PostResponse, error) {
	categoryID, err := s.resolveCategory(ctx, req.CategorySlug)
	if err != nil {
		return nil, err
	}

	tagIDs, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	post := &Post{
		ID:          uuid.New().String(),
		AuthorID:    authorID,
		CategoryID:  categoryID,
		Title:       req.Title,
		Slug:        NewPostSlug(req.Title),
		Body:        req.Body,
		IsPublished: req.IsPublished,
		IsPremium:   req.IsPremium,
	}
	if err := s.repo.CreatePost(ctx, post, tagIDs); err != nil {
		return nil, err
	}

	return s.assemblePost(ctx, post)
}

func (s *Service) UpdatePost(
	ctx context.Context,
	authorID, postID string,
	req UpdatePostRequest,
) (*PostResponse, error) {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != authorID {
		return nil, fmt.Errorf("update post: %w", core.ErrForbidden)
	}

	if req.Title != nil {
		// The slug is permanent; links keep working across retitles.
		post.Title = *req.Title
	}
	if req.Body != nil {
		post.Body = *req.Body
	}
	if req.CategorySlug != nil {
		categoryID, err := s.resolveCategory(ctx, *req.CategorySlug)
		if err != nil {
			return nil, err
		}
		post.CategoryID = categoryID
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}
	if req.IsPremium != nil {
		post.IsPremium = *req.IsPremium
	}

	var tagIDs *[]string
	if req.Tags != nil {
		ids, err := s.resolveTags(ctx, *req.Tags)
		if err != nil {
			return nil, err
		}
		tagIDs = &ids
	}

	if err := s.repo.UpdatePost(ctx, post, tagIDs); err != nil {
		return nil, err
	}

	return s.assemblePost(ctx, post)
}

func (s *Service) DeletePost(
	ctx context.Context,
	authorID, postID string,
) error {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != authorID {
		return fmt.Errorf("delete post: %w", core.ErrForbidden)
	}

	return s.repo.DeletePost(ctx, postID)
}

func (s *Service) MyPosts(
	ctx context.Context,
	authorID string,
	params ListParams,
) ([]Post, int, error) {
	return s.repo.ListPostsByAuthor(ctx, authorID, params)
}

// CreateComment attaches an unapproved comment to a published post. It
// stays invisible to everyone until a moderator approves it.
func (s *Service) CreateComment(
	ctx context.Context,
	authorID string,
	req CreateCommentRequest,
) (*Comment, error) {
	post, err := s.visiblePost(ctx, authorID, req.PostSlug)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:         uuid.New().String(),
		PostID:     post.ID,
		AuthorID:   authorID,
		Body:       req.Body,
		IsApproved: false,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListComments returns approved comments on a post the viewer can see.
func (s *Service) ListComments(
	ctx context.Context,
	viewerID, postSlug string,
	params ListParams,
) ([]Comment, int, error) {
	post, err := s.visiblePost(ctx, viewerID, postSlug)
	if err != nil {
		return nil, 0, err
	}

	return s.repo.ListApprovedComments(ctx, post.ID, params)
}

func (s *Service) MyComments(
	ctx context.Context,
	authorID string,
	params ListParams,
) ([]Comment, int, error) {
	return s.repo.ListCommentsByAuthor(ctx, authorID, params)
}

func (s *Service) UpdateComment(
	ctx context.Context,
	authorID, commentID string,
	req UpdateCommentRequest,
) (*Comment, error) {
	comment, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if comment.AuthorID != authorID {
		return nil, fmt.Errorf("update comment: %w", core.ErrForbidden)
	}

	comment.Body = req.Body
	if err := s.repo.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *Service) DeleteComment(
	ctx context.Context,
	authorID, commentID string,
	isAdmin bool,
) error {
	comment, err := s.repo.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != authorID && !isAdmin {
		return fmt.Errorf("delete comment: %w", core.ErrForbidden)
	}

	return s.repo.DeleteComment(ctx, commentID)
}

func (s *Service) ApproveComment(
	ctx context.Context,
	commentID string,
) (*Comment, error) {
	return s.repo.ApproveComment(ctx, commentID)
}

func (s *Service) PendingComments(
	ctx context.Context,
	params ListParams,
) ([]Comment, int, error) {
	return s.repo.ListPendingComments(ctx, params)
}

func (s *Service) LikePost(
	ctx context.Context,
	userID, postSlug string,
) (*LikeResponse, error) {
	post, err := s.visiblePost(ctx, userID, postSlug)
	if err != nil {
		return nil, err
	}

	like := &Like{
		ID:     uuid.New().String(),
		PostID: post.ID,
		UserID: userID,
	}
	if err := s.repo.CreateLike(ctx, like); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("like post: %w", ErrAlreadyLiked)
		}
		return nil, err
	}

	count, err := s.repo.CountLikes(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return &LikeResponse{PostID: post.ID, LikeCount: count, Liked: true}, nil
}

func (s *Service) UnlikePost(
	ctx context.Context,
	userID, postSlug string,
) (*LikeResponse, error) {
	post, err := s.repo.GetPostBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteLike(ctx, post.ID, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("unlike post: %w", ErrNotLiked)
		}
		return nil, err
	}

	count, err := s.repo.CountLikes(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	return &LikeResponse{PostID: post.ID, LikeCount: count, Liked: false}, nil
}

func (s *Service) CreateCategory(
	ctx context.Context,
	req CreateCategoryRequest,
) (*Category, error) {
	category := &Category{
		ID:   uuid.New().String(),
		Name: req.Name,
		Slug: Slugify(req.Name),
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateTag(
	ctx context.Context,
	req CreateTagRequest,
) (*Tag, error) {
	tag := &Tag{
		ID:   uuid.New().String(),
		Name: req.Name,
		Slug: Slugify(req.Name),
	}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, err
	}

	return tag, nil
}

func (s *Service) ListTags(ctx context.Context) ([]Tag, error) {
	return s.repo.ListTags(ctx)
}

// visiblePost applies the same visibility rules as GetPost without
// assembling the full response.
func (s *Service) visiblePost(
	ctx context.Context,
	viewerID, slug string,
) (*Post, error) {
	post, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !post.IsPublished && post.AuthorID != viewerID {
		return nil, fmt.Errorf("get post: %w", core.ErrNotFound)
	}

	if post.IsPremium && post.AuthorID != viewerID {
		if viewerID == "" {
			return nil, fmt.Errorf("get post: %w", core.ErrUnauthorized)
		}
		allowed, err := s.entitlements.CanViewPremium(
			ctx,
			viewerID,
			post.AuthorID,
		)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("get post: %w", core.ErrForbidden)
		}
	}

	return post, nil
}

func (s *Service) assemblePost(
	ctx context.Context,
	post *Post,
) (*PostResponse, error) {
	resp := ToPostResponse(post)

	tags, err := s.repo.ListTagsForPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		resp.Tags = append(resp.Tags, ToTagResponse(&tags[i]))
	}

	count, err := s.repo.CountLikes(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	resp.LikeCount = count

	if post.CategoryID != nil {
		category, err := s.repo.GetCategoryByID(ctx, *post.CategoryID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
		if category != nil {
			c := ToCategoryResponse(category)
			resp.Category = &c
		}
	}

	return &resp, nil
}

func (s *Service) resolveCategory(
	ctx context.Context,
	slug string,
) (*string, error) {
	if slug == "" {
		return nil, nil
	}

	category, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("resolve category: %w", ErrUnknownCategory)
		}
		return nil, err
	}

	return &category.ID, nil
}

func (s *Service) resolveTags(
	ctx context.Context,
	names []string,
) ([]string, error) {
	if len(names) == 0 {
		return []string{}, nil
	}

	tags, err := s.repo.UpsertTagsByName(ctx, names)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(tags))
	for i := range tags {
		ids = append(ids, tags[i].ID)
	}

	return ids, nil
}
