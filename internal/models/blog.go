package models

import "time"

// PostStatus marks whether a post is visible to readers.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

// Category groups blog posts.
type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Slug      string `db:"slug" json:"slug"`
	PostCount int    `db:"post_count" json:"post_count"`
}

// Post is a blog article.
type Post struct {
	ID           string     `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Slug         string     `db:"slug" json:"slug"`
	Excerpt      string     `db:"excerpt" json:"excerpt"`
	Content      string     `db:"content" json:"content"`
	Author       string     `db:"author" json:"author"`
	CategoryID   *string    `db:"category_id" json:"category_id,omitempty"`
	CategoryName *string    `db:"category_name" json:"category_name,omitempty"`
	CategorySlug *string    `db:"category_slug" json:"category_slug,omitempty"`
	Status       PostStatus `db:"status" json:"status"`
	PublishedAt  *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// PostFilter narrows the public post listing.
type PostFilter struct {
	Search   string
	Category string
	Page     int
	PageSize int
}

// Comment is a reader comment on a post.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	PostID    string    `db:"post_id" json:"post_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"-"`
	Body      string    `db:"body" json:"body"`
	Public    bool      `db:"is_public" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Subscriber is a newsletter mailing-list entry.
type Subscriber struct {
	ID             string     `db:"id" json:"id"`
	Email          string     `db:"email" json:"email"`
	Active         bool       `db:"active" json:"active"`
	SubscribedAt   time.Time  `db:"subscribed_at" json:"subscribed_at"`
	UnsubscribedAt *time.Time `db:"unsubscribed_at" json:"unsubscribed_at,omitempty"`
}
