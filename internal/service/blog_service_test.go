package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
)

type fakeBlogRepo struct {
	posts      []models.Post
	comments   []models.Comment
	categories []models.Category
	listCalls  int
	lastFilter models.PostFilter
	createErr  error
}

func (f *fakeBlogRepo) ListPublished(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	f.listCalls++
	f.lastFilter = filter
	var out []models.Post
	for _, p := range f.posts {
		if p.Status == models.PostPublished {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *fakeBlogRepo) FindPublished(ctx context.Context, idOrSlug string) (*models.Post, error) {
	for _, p := range f.posts {
		if (p.ID == idOrSlug || p.Slug == idOrSlug) && p.Status == models.PostPublished {
			cp := p
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBlogRepo) CreatePost(ctx context.Context, post *models.Post) error {
	if f.createErr != nil {
		return f.createErr
	}
	post.ID = "post-" + post.Slug
	f.posts = append(f.posts, *post)
	return nil
}

func (f *fakeBlogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeBlogRepo) ListPublicComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range f.comments {
		if c.PostID == postID && c.Public {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeBlogRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = "comment-1"
	f.comments = append(f.comments, *comment)
	return nil
}

type fixedSubscribers []string

func (f fixedSubscribers) ListActiveEmails(ctx context.Context) ([]string, error) {
	return f, nil
}

func newBlogFixture(repo *fakeBlogRepo, subs fixedSubscribers) (*BlogService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	svc := NewBlogService(repo, subs, notifier, NotificationTemplates{Brand: "Fixlab Academy", SiteURL: "https://fixlab.test", APIBase: "https://api.fixlab.test/api/v1"}, nil, time.Minute, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC) }
	return svc, notifier
}

func TestSlugify(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 30, 5, 0, time.UTC)
	assert.Equal(t, "intro-to-sql-joins-20240601103005", Slugify("  Intro to SQL: Joins! ", at))
	assert.Equal(t, "post-20240601103005", Slugify("???", at))
}

func TestCreatePublishedPostAnnouncesToSubscribers(t *testing.T) {
	repo := &fakeBlogRepo{}
	svc, notifier := newBlogFixture(repo, fixedSubscribers{"one@x.com", "two@x.com"})

	post, err := svc.CreatePost(context.Background(), CreatePostRequest{Title: "Intro to SQL", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, models.PostPublished, post.Status)
	assert.Equal(t, "intro-to-sql-20240601103000", post.Slug)
	assert.Equal(t, "Admin", post.Author)
	require.NotNil(t, post.PublishedAt)

	require.Len(t, notifier.notes, 2)
	assert.Equal(t, models.TemplateNewPost, notifier.notes[0].Template)
	assert.Equal(t, "one@x.com", notifier.notes[0].To)
	assert.Equal(t, "two@x.com", notifier.notes[1].To)
}

func TestCreateDraftPostIsNotAnnounced(t *testing.T) {
	repo := &fakeBlogRepo{}
	svc, notifier := newBlogFixture(repo, fixedSubscribers{"one@x.com"})
	publish := false

	post, err := svc.CreatePost(context.Background(), CreatePostRequest{Title: "Draft", Content: "body", Publish: &publish})
	require.NoError(t, err)
	assert.Equal(t, models.PostDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
	assert.Empty(t, notifier.notes)
}

func TestCreatePostValidation(t *testing.T) {
	svc, _ := newBlogFixture(&fakeBlogRepo{}, nil)
	_, err := svc.CreatePost(context.Background(), CreatePostRequest{Title: " "})
	require.Error(t, err)
	fields := appErrors.FromError(err).Fields
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "content")
}

func TestGetPostAndComments(t *testing.T) {
	repo := &fakeBlogRepo{posts: []models.Post{
		{ID: "p1", Slug: "hello-1", Title: "Hello", Status: models.PostPublished},
		{ID: "p2", Slug: "draft-1", Title: "Draft", Status: models.PostDraft},
	}}
	svc, _ := newBlogFixture(repo, nil)
	ctx := context.Background()

	post, err := svc.GetPost(ctx, "hello-1")
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)

	_, err = svc.GetPost(ctx, "p2")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	comment, err := svc.AddComment(ctx, "p1", CreateCommentRequest{Name: "Reader", Email: "Reader@X.com", Body: "Nice post"})
	require.NoError(t, err)
	assert.True(t, comment.Public)
	assert.Equal(t, "reader@x.com", comment.Email)

	repo.comments = append(repo.comments, models.Comment{ID: "hidden", PostID: "p1", Public: false})
	comments, err := svc.ListComments(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Nice post", comments[0].Body)

	_, err = svc.AddComment(ctx, "missing", CreateCommentRequest{Name: "Reader", Email: "r@x.com", Body: "hi"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestListPostsNormalizesPaging(t *testing.T) {
	repo := &fakeBlogRepo{posts: []models.Post{{ID: "p1", Status: models.PostPublished}}}
	svc, _ := newBlogFixture(repo, nil)

	items, page, err := svc.ListPosts(context.Background(), models.PostFilter{Search: " sql ", PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.PageSize)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, "sql", repo.lastFilter.Search)
}
