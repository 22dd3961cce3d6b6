// AngelaMos | 2026
// service_test.go

package blog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/blogspace/internal/core"
)

type fakeRepo struct {
	posts      map[string]*Post
	postTags   map[string][]string
	comments   map[string]*Comment
	likes      map[string]*Like
	categories map[string]*Category
	tags       map[string]*Tag
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:      make(map[string]*Post),
		postTags:   make(map[string][]string),
		comments:   make(map[string]*Comment),
		likes:      make(map[string]*Like),
		categories: make(map[string]*Category),
		tags:       make(map[string]*Tag),
	}
}

func (f *fakeRepo) CreatePost(
	_ context.Context,
	post *Post,
	tagIDs []string,
) error {
	stored := *post
	f.posts[post.ID] = &stored
	f.postTags[post.ID] = tagIDs
	return nil
}

func (f *fakeRepo) GetPostByID(_ context.Context, id string) (*Post, error) {
	if p, ok := f.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetPostBySlug(
	_ context.Context,
	slug string,
) (*Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) UpdatePost(
	_ context.Context,
	post *Post,
	tagIDs *[]string,
) error {
	if _, ok := f.posts[post.ID]; !ok {
		return core.ErrNotFound
	}
	stored := *post
	f.posts[post.ID] = &stored
	if tagIDs != nil {
		f.postTags[post.ID] = *tagIDs
	}
	return nil
}

func (f *fakeRepo) DeletePost(_ context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.posts, id)
	delete(f.postTags, id)
	return nil
}

func (f *fakeRepo) ListPublicPosts(
	_ context.Context,
	_ ListParams,
) ([]Post, int, error) {
	var out []Post
	for _, p := range f.posts {
		if p.IsPublished && !p.IsPremium {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListPremiumPostsByAuthors(
	_ context.Context,
	authorIDs []string,
	_ ListParams,
) ([]Post, int, error) {
	allowed := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		allowed[id] = true
	}
	var out []Post
	for _, p := range f.posts {
		if p.IsPublished && p.IsPremium && allowed[p.AuthorID] {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListPostsByAuthor(
	_ context.Context,
	authorID string,
	_ ListParams,
) ([]Post, int, error) {
	var out []Post
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListTagsForPost(
	_ context.Context,
	postID string,
) ([]Tag, error) {
	var out []Tag
	for _, id := range f.postTags[postID] {
		if t, ok := f.tags[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateComment(_ context.Context, comment *Comment) error {
	stored := *comment
	f.comments[comment.ID] = &stored
	return nil
}

func (f *fakeRepo) GetCommentByID(
	_ context.Context,
	id string,
) (*Comment, error) {
	if c, ok := f.comments[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) UpdateComment(_ context.Context, comment *Comment) error {
	if _, ok := f.comments[comment.ID]; !ok {
		return core.ErrNotFound
	}
	// Edits go back through moderation.
	comment.IsApproved = false
	stored := *comment
	f.comments[comment.ID] = &stored
	return nil
}

func (f *fakeRepo) DeleteComment(_ context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeRepo) ApproveComment(
	_ context.Context,
	id string,
) (*Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	c.IsApproved = true
	copied := *c
	return &copied, nil
}

func (f *fakeRepo) ListApprovedComments(
	_ context.Context,
	postID string,
	_ ListParams,
) ([]Comment, int, error) {
	var out []Comment
	for _, c := range f.comments {
		if c.PostID == postID && c.IsApproved {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListCommentsByAuthor(
	_ context.Context,
	authorID string,
	_ ListParams,
) ([]Comment, int, error) {
	var out []Comment
	for _, c := range f.comments {
		if c.AuthorID == authorID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListPendingComments(
	_ context.Context,
	_ ListParams,
) ([]Comment, int, error) {
	var out []Comment
	for _, c := range f.comments {
		if !c.IsApproved {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) CreateLike(_ context.Context, like *Like) error {
	key := like.PostID + "/" + like.UserID
	if _, ok := f.likes[key]; ok {
		return core.ErrDuplicateKey
	}
	stored := *like
	f.likes[key] = &stored
	return nil
}

func (f *fakeRepo) DeleteLike(_ context.Context, postID, userID string) error {
	key := postID + "/" + userID
	if _, ok := f.likes[key]; !ok {
		return core.ErrNotFound
	}
	delete(f.likes, key)
	return nil
}

func (f *fakeRepo) CountLikes(_ context.Context, postID string) (int, error) {
	count := 0
	for _, l := range f.likes {
		if l.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) HasLiked(
	_ context.Context,
	postID, userID string,
) (bool, error) {
	_, ok := f.likes[postID+"/"+userID]
	return ok, nil
}

func (f *fakeRepo) CreateCategory(
	_ context.Context,
	category *Category,
) error {
	for _, c := range f.categories {
		if c.Slug == category.Slug {
			return core.ErrDuplicateKey
		}
	}
	stored := *category
	f.categories[category.ID] = &stored
	return nil
}

func (f *fakeRepo) GetCategoryByID(
	_ context.Context,
	id string,
) (*Category, error) {
	if c, ok := f.categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetCategoryBySlug(
	_ context.Context,
	slug string,
) (*Category, error) {
	for _, c := range f.categories {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) ListCategories(_ context.Context) ([]Category, error) {
	var out []Category
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) CreateTag(_ context.Context, tag *Tag) error {
	for _, t := range f.tags {
		if t.Slug == tag.Slug {
			return core.ErrDuplicateKey
		}
	}
	stored := *tag
	f.tags[tag.ID] = &stored
	return nil
}

func (f *fakeRepo) GetTagBySlug(_ context.Context, slug string) (*Tag, error) {
	for _, t := range f.tags {
		if t.Slug == slug {
			copied := *t
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) ListTags(_ context.Context) ([]Tag, error) {
	var out []Tag
	for _, t := range f.tags {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeRepo) UpsertTagsByName(
	_ context.Context,
	names []string,
) ([]Tag, error) {
	var out []Tag
	seen := make(map[string]bool)
	for _, name := range names {
		slug := Slugify(name)
		if seen[slug] {
			continue
		}
		seen[slug] = true

		found := false
		for _, t := range f.tags {
			if t.Slug == slug {
				out = append(out, *t)
				found = true
				break
			}
		}
		if !found {
			tag := &Tag{ID: "tag-" + slug, Name: name, Slug: slug}
			f.tags[tag.ID] = tag
			out = append(out, *tag)
		}
	}
	return out, nil
}

// fakeEntitlements grants premium access per (viewer, author) pair.
type fakeEntitlements struct {
	grants map[string][]string
}

func (f *fakeEntitlements) ActiveAuthorIDs(
	_ context.Context,
	viewerID string,
) ([]string, error) {
	return f.grants[viewerID], nil
}

func (f *fakeEntitlements) CanViewPremium(
	_ context.Context,
	viewerID, authorID string,
) (bool, error) {
	if viewerID == authorID {
		return true, nil
	}
	for _, id := range f.grants[viewerID] {
		if id == authorID {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(grants map[string][]string) (*Service, *fakeRepo) {
	if grants == nil {
		grants = map[string][]string{}
	}
	repo := newFakeRepo()
	return NewService(repo, &fakeEntitlements{grants: grants}), repo
}

func seedPost(
	t *testing.T,
	svc *Service,
	authorID, title string,
	published, premium bool,
) *PostResponse {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), authorID, CreatePostRequest{
		Title:       title,
		Body:        "body of " + title,
		IsPublished: published,
		IsPremium:   premium,
	})
	require.NoError(t, err)
	return post
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":       "hello-world",
		"  Spaces   Galore  ": "spaces-galore",
		"Already-Slugged":     "already-slugged",
		"UPPER lower 123":     "upper-lower-123",
		"!!!":                 "",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestNewPostSlugUniqueSuffix(t *testing.T) {
	first := NewPostSlug("My Post")
	second := NewPostSlug("My Post")

	assert.NotEqual(t, first, second)
	assert.Regexp(t, `^my-post-[0-9a-f]{8}$`, first)

	// Unsluggable titles still get a usable slug.
	assert.Regexp(t, `^[0-9a-f]{8}$`, NewPostSlug("???"))
}

func TestPublicFeedExcludesPremiumAndDrafts(t *testing.T) {
	svc, _ := newTestService(nil)

	seedPost(t, svc, "alice", "Public One", true, false)
	seedPost(t, svc, "alice", "Premium One", true, true)
	seedPost(t, svc, "alice", "Draft One", false, false)

	posts, total, err := svc.PublicFeed(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "Public One", posts[0].Title)
}

func TestPremiumFeedFollowsEntitlements(t *testing.T) {
	svc, _ := newTestService(map[string][]string{
		"viewer": {"alice"},
	})

	seedPost(t, svc, "alice", "Alice Premium", true, true)
	seedPost(t, svc, "bob", "Bob Premium", true, true)
	seedPost(t, svc, "alice", "Alice Public", true, false)

	posts, total, err := svc.PremiumFeed(
		context.Background(),
		"viewer",
		ListParams{},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "Alice Premium", posts[0].Title)
}

func TestPremiumFeedEmptyWithoutGrants(t *testing.T) {
	svc, _ := newTestService(nil)

	seedPost(t, svc, "alice", "Alice Premium", true, true)

	posts, total, err := svc.PremiumFeed(
		context.Background(),
		"viewer",
		ListParams{},
	)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, posts)
}

func TestGetPostDraftHiddenFromOthers(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	draft := seedPost(t, svc, "alice", "Secret Draft", false, false)

	_, err := svc.GetPost(ctx, "bob", draft.Slug)
	assert.ErrorIs(t, err, core.ErrNotFound)

	got, err := svc.GetPost(ctx, "alice", draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestGetPostPremiumGating(t *testing.T) {
	svc, _ := newTestService(map[string][]string{
		"subscriber": {"alice"},
	})
	ctx := context.Background()

	post := seedPost(t, svc, "alice", "Premium Post", true, true)

	_, err := svc.GetPost(ctx, "", post.Slug)
	assert.ErrorIs(t, err, core.ErrUnauthorized, "anonymous viewer")

	_, err = svc.GetPost(ctx, "stranger", post.Slug)
	assert.ErrorIs(t, err, core.ErrForbidden, "signed in without a grant")

	got, err := svc.GetPost(ctx, "subscriber", post.Slug)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)

	got, err = svc.GetPost(ctx, "alice", post.Slug)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID, "authors always see their own posts")
}

func TestCreatePostResolvesCategoryAndTags(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, CreateCategoryRequest{
		Name: "Engineering",
	})
	require.NoError(t, err)

	post, err := svc.CreatePost(ctx, "alice", CreatePostRequest{
		Title:        "Tagged Post",
		Body:         "body",
		CategorySlug: category.Slug,
		Tags:         []string{"Go", "Databases"},
		IsPublished:  true,
	})
	require.NoError(t, err)

	require.NotNil(t, post.Category)
	assert.Equal(t, "Engineering", post.Category.Name)
	require.Len(t, post.Tags, 2)
	assert.Len(t, repo.postTags[post.ID], 2)
}

func TestCreatePostUnknownCategory(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.CreatePost(context.Background(), "alice", CreatePostRequest{
		Title:        "Post",
		Body:         "body",
		CategorySlug: "no-such-category",
	})
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

// Retitling never changes the slug, so published links keep working.
func TestUpdatePostKeepsSlug(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	post := seedPost(t, svc, "alice", "Original Title", true, false)

	newTitle := "Completely Different Title"
	updated, err := svc.UpdatePost(ctx, "alice", post.ID, UpdatePostRequest{
		Title: &newTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, post.Slug, updated.Slug)
}

func TestUpdatePostForeignAuthor(t *testing.T) {
	svc, _ := newTestService(nil)

	post := seedPost(t, svc, "alice", "Alice Post", true, false)

	body := "defaced"
	_, err := svc.UpdatePost(
		context.Background(),
		"mallory",
		post.ID,
		UpdatePostRequest{Body: &body},
	)
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestDeletePostForeignAuthor(t *testing.T) {
	svc, _ := newTestService(nil)

	post := seedPost(t, svc, "alice", "Alice Post", true, false)

	err := svc.DeletePost(context.Background(), "mallory", post.ID)
	assert.ErrorIs(t, err, core.ErrForbidden)

	require.NoError(t, svc.DeletePost(context.Background(), "alice", post.ID))
}

func TestCreateCommentStartsUnapproved(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	post := seedPost(t, svc, "alice", "Commented Post", true, false)

	comment, err := svc.CreateComment(ctx, "bob", CreateCommentRequest{
		PostSlug: post.Slug,
		Body:     "nice post",
	})
	require.NoError(t, err)
	assert.False(t, comment.IsApproved)

	comments, total, err := svc.ListComments(ctx, "bob", post.Slug, ListParams{})
	require.NoError(t, err)
	assert.Zero(t, total, "unapproved comments stay invisible")
	assert.Empty(t, comments)

	_, err = svc.ApproveComment(ctx, comment.ID)
	require.NoError(t, err)

	_, total, err = svc.ListComments(ctx, "bob", post.Slug, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestUpdateCommentResetsApproval(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	post := seedPost(t, svc, "alice", "Post", true, false)
	comment, err := svc.CreateComment(ctx, "bob", CreateCommentRequest{
		PostSlug: post.Slug,
		Body:     "first draft",
	})
	require.NoError(t, err)

	_, err = svc.ApproveComment(ctx, comment.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateComment(ctx, "bob", comment.ID, UpdateCommentRequest{
		Body: "edited",
	})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Body)
	assert.False(t, repo.comments[comment.ID].IsApproved,
		"an edit goes back through moderation")
}

func TestUpdateCommentForeignAuthor(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	post := seedPost(t, svc, "alice", "Post", true, false)
	comment, err := svc.CreateComment(ctx, "bob", CreateCommentRequest{
		PostSlug: post.Slug,
		Body:     "mine",
	})
	require.NoError(t, err)

	_, err = svc.UpdateComment(ctx, "mallory", comment.ID, UpdateCommentRequest{
		Body: "stolen",
	})
	assert.ErrorIs(t, err, core.ErrForbidden)
}

func TestDeleteCommentAdminOverride(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	post := seedPost(t, svc, "alice", "Post", true, false)
	comment, err := svc.CreateComment(ctx, "bob", CreateCommentRequest{
		PostSlug: post.Slug,
		Body:     "spam",
	})
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, "mallory", comment.ID, false)
	assert.ErrorIs(t, err, core.ErrForbidden)

	require.NoError(t, svc.DeleteComment(ctx, "moderator", comment.ID, true))
}

func TestLikePostOncePerUser(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	post := seedPost(t, svc, "alice", "Likeable", true, false)

	resp, err := svc.LikePost(ctx, "bob", post.Slug)
	require.NoError(t, err)
	assert.True(t, resp.Liked)
	assert.Equal(t, 1, resp.LikeCount)

	_, err = svc.LikePost(ctx, "bob", post.Slug)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	resp, err = svc.UnlikePost(ctx, "bob", post.Slug)
	require.NoError(t, err)
	assert.False(t, resp.Liked)
	assert.Zero(t, resp.LikeCount)

	_, err = svc.UnlikePost(ctx, "bob", post.Slug)
	assert.ErrorIs(t, err, ErrNotLiked)
}

func TestUpsertTagsDedupBySlug(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "alice", CreatePostRequest{
		Title:       "Post",
		Body:        "body",
		Tags:        []string{"Go", "go", "GO!"},
		IsPublished: true,
	})
	require.NoError(t, err)

	assert.Len(t, repo.tags, 1, "same slug resolves to one tag")
	assert.Len(t, repo.postTags[post.ID], 1)
	require.Len(t, post.Tags, 1)
	assert.Equal(t, "go", post.Tags[0].Slug)
}

func TestListParamsNormalize(t *testing.T) {
	p := ListParams{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, defaultPageSize, p.PageSize)
	assert.Zero(t, p.Offset())

	p = ListParams{Page: 3, PageSize: 500}
	p.Normalize()
	assert.Equal(t, defaultPageSize, p.PageSize)
	assert.Equal(t, 2*defaultPageSize, p.Offset())
}
