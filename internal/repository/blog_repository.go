package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
)

const postSelect = `SELECT p.id, p.title, p.slug, p.excerpt, p.content, p.author, p.category_id, c.name AS category_name, c.slug AS category_slug,
        p.status, p.published_at, p.created_at, p.updated_at
        FROM posts p LEFT JOIN categories c ON c.id = p.category_id`

// BlogRepository persists posts, categories and comments.
type BlogRepository struct {
	db *sqlx.DB
}

// NewBlogRepository constructs a BlogRepository.
func NewBlogRepository(db *sqlx.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// ListPublished returns published posts, newest first.
func (r *BlogRepository) ListPublished(ctx context.Context, filter models.PostFilter) ([]models.Post, int, error) {
	args := []interface{}{models.PostPublished}
	conditions := []string{"p.status = $1"}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(p.title) LIKE $%d OR LOWER(p.content) LIKE $%d)", len(args), len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("c.slug = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")
	page, size := models.NormalizePage(filter.Page, filter.PageSize, 50)

	query := fmt.Sprintf("%s WHERE %s ORDER BY p.published_at DESC LIMIT %d OFFSET %d", postSelect, where, size, (page-1)*size)
	var posts []models.Post
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM posts p LEFT JOIN categories c ON c.id = p.category_id WHERE %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	return posts, total, nil
}

// FindPublished fetches a published post by ID or slug.
func (r *BlogRepository) FindPublished(ctx context.Context, idOrSlug string) (*models.Post, error) {
	query := postSelect + " WHERE (p.id::text = $1 OR p.slug = $1) AND p.status = $2"
	var post models.Post
	if err := r.db.GetContext(ctx, &post, query, idOrSlug, models.PostPublished); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost inserts a post.
func (r *BlogRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	const query = `INSERT INTO posts (id, title, slug, excerpt, content, author, category_id, status, published_at, created_at, updated_at)
        VALUES (:id, :title, :slug, :excerpt, :content, :author, :category_id, :status, :published_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// ListCategories returns categories with their published post counts.
func (r *BlogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	const query = `SELECT c.id, c.name, c.slug, COUNT(p.id) AS post_count
        FROM categories c LEFT JOIN posts p ON p.category_id = c.id AND p.status = $1
        GROUP BY c.id, c.name, c.slug ORDER BY c.name ASC`
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query, models.PostPublished); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListPublicComments returns visible comments for a post, oldest first.
func (r *BlogRepository) ListPublicComments(ctx context.Context, postID string) ([]models.Comment, error) {
	const query = `SELECT id, post_id, name, email, body, is_public, created_at FROM comments WHERE post_id = $1 AND is_public = TRUE ORDER BY created_at ASC`
	var comments []models.Comment
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// CreateComment inserts a comment.
func (r *BlogRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO comments (id, post_id, name, email, body, is_public, created_at)
        VALUES (:id, :post_id, :name, :email, :body, :is_public, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}
