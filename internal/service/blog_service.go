package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
	"github.com/noah-isme/fixlab-academy-api/pkg/validation"
)

const postCachePrefix = "posts:"

type blogRepository interface {
	ListPublished(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error)
	FindPublished(ctx context.Context, idOrSlug string) (*models.Post, error)
	CreatePost(ctx context.Context, post *models.Post) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListPublicComments(ctx context.Context, postID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
}

type activeSubscribers interface {
	ListActiveEmails(ctx context.Context) ([]string, error)
}

// CreatePostRequest is the staff payload for a new post.
type CreatePostRequest struct {
	Title      string  `json:"title" validate:"required,max=255"`
	Excerpt    string  `json:"excerpt" validate:"max=1000"`
	Content    string  `json:"content" validate:"required"`
	Author     string  `json:"author" validate:"max=150"`
	CategoryID *string `json:"category_id" validate:"omitempty,uuid"`
	Publish    *bool   `json:"publish"`
}

// CreateCommentRequest is a reader comment.
type CreateCommentRequest struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
	Body  string `json:"content" validate:"required,max=5000"`
}

type postPage struct {
	Items []models.Post `json:"items"`
	Total int           `json:"total"`
}

// BlogService serves posts, categories and comments.
type BlogService struct {
	repo        blogRepository
	subscribers activeSubscribers
	notifier    Notifier
	templates   NotificationTemplates
	cache       *CacheService
	cacheTTL    time.Duration
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewBlogService constructs the blog service.
func NewBlogService(repo blogRepository, subscribers activeSubscribers, notifier Notifier, templates NotificationTemplates, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *BlogService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlogService{
		repo:        repo,
		subscribers: subscribers,
		notifier:    notifier,
		templates:   templates,
		cache:       cache,
		cacheTTL:    cacheTTL,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// ListPosts returns a page of published posts.
func (s *BlogService) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, *models.Pagination, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Page, filter.PageSize = models.NormalizePage(filter.Page, filter.PageSize, 50)

	key := fmt.Sprintf("%slist:%s:%s:%d:%d", postCachePrefix, strings.ToLower(filter.Search), filter.Category, filter.Page, filter.PageSize)
	var page postPage
	err := s.cache.Remember(ctx, key, s.cacheTTL, &page, func() error {
		items, total, err := s.repo.ListPublished(ctx, filter)
		page = postPage{Items: items, Total: total}
		return err
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list posts")
	}
	return page.Items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: page.Total}, nil
}

// GetPost returns a published post by id or slug.
func (s *BlogService) GetPost(ctx context.Context, idOrSlug string) (*models.Post, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
	}
	var post models.Post
	err := s.cache.Remember(ctx, postCachePrefix+"item:"+idOrSlug, s.cacheTTL, &post, func() error {
		found, err := s.repo.FindPublished(ctx, idOrSlug)
		if err != nil {
			return err
		}
		post = *found
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load post")
	}
	return &post, nil
}

// ListCategories returns every category with its published post count.
func (s *BlogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.cache.Remember(ctx, postCachePrefix+"categories", s.cacheTTL, &categories, func() error {
		var err error
		categories, err = s.repo.ListCategories(ctx)
		return err
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// CreatePost stores a post. Published posts are announced to every active subscriber.
func (s *BlogService) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	post := &models.Post{
		Title:      req.Title,
		Slug:       Slugify(req.Title, now),
		Excerpt:    strings.TrimSpace(req.Excerpt),
		Content:    req.Content,
		Author:     req.Author,
		CategoryID: req.CategoryID,
		Status:     models.PostPublished,
	}
	if post.Author == "" {
		post.Author = "Admin"
	}
	if req.Publish != nil && !*req.Publish {
		post.Status = models.PostDraft
	} else {
		post.PublishedAt = &now
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create post")
	}
	_ = s.cache.Invalidate(ctx, postCachePrefix+"*")

	if post.Status == models.PostPublished {
		s.announce(ctx, *post)
	}
	return post, nil
}

// ListComments returns the public comments of a published post.
func (s *BlogService) ListComments(ctx context.Context, idOrSlug string) ([]models.Comment, error) {
	post, err := s.GetPost(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.ListPublicComments(ctx, post.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}
	return comments, nil
}

// AddComment attaches a public comment to a published post.
func (s *BlogService) AddComment(ctx context.Context, idOrSlug string, req CreateCommentRequest) (*models.Comment, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Body = strings.TrimSpace(req.Body)
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}
	post, err := s.GetPost(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	comment := &models.Comment{PostID: post.ID, Name: req.Name, Email: req.Email, Body: req.Body, Public: true}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save comment")
	}
	return comment, nil
}

func (s *BlogService) announce(ctx context.Context, post models.Post) {
	if s.notifier == nil || s.subscribers == nil {
		return
	}
	emails, err := s.subscribers.ListActiveEmails(ctx)
	if err != nil {
		s.logger.Warn("new post announcement skipped", zap.String("post_id", post.ID), zap.Error(err))
		return
	}
	notes := make([]models.Notification, 0, len(emails))
	for _, email := range emails {
		notes = append(notes, s.templates.NewPost(email, post))
	}
	if err := s.notifier.Dispatch(ctx, notes...); err != nil {
		s.logger.Warn("new post announcement incomplete", zap.String("post_id", post.ID), zap.Error(err))
	}
	s.logger.Info("new post announced", zap.String("post_id", post.ID), zap.Int("subscribers", len(emails)))
}

// Slugify lowercases title into a URL slug suffixed with a timestamp.
func Slugify(title string, at time.Time) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	base := strings.TrimSuffix(b.String(), "-")
	if base == "" {
		base = "post"
	}
	return base + "-" + at.UTC().Format("20060102150405")
}
