package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	"github.com/noah-isme/fixlab-academy-api/internal/service"
	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
	"github.com/noah-isme/fixlab-academy-api/pkg/response"
)

type blogReader interface {
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, *models.Pagination, error)
	GetPost(ctx context.Context, idOrSlug string) (*models.Post, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreatePost(ctx context.Context, req service.CreatePostRequest) (*models.Post, error)
	ListComments(ctx context.Context, idOrSlug string) ([]models.Comment, error)
	AddComment(ctx context.Context, idOrSlug string, req service.CreateCommentRequest) (*models.Comment, error)
}

type newsletter interface {
	Subscribe(ctx context.Context, req service.SubscribeRequest) (*service.SubscriptionResult, error)
	Unsubscribe(ctx context.Context, email string) (*service.SubscriptionResult, error)
}

// BlogHandler serves posts, comments and the newsletter.
type BlogHandler struct {
	blog       blogReader
	newsletter newsletter
}

// NewBlogHandler creates a new handler.
func NewBlogHandler(blog blogReader, news newsletter) *BlogHandler {
	return &BlogHandler{blog: blog, newsletter: news}
}

// ListPosts godoc
// @Summary List published posts
// @Tags Blog
// @Produce json
// @Param search query string false "Title or content search"
// @Param category query string false "Category slug"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /blog/posts [get]
func (h *BlogHandler) ListPosts(c *gin.Context) {
	filter := models.PostFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "limit"),
	}
	posts, pagination, err := h.blog.ListPosts(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, pagination)
}

// GetPost godoc
// @Summary Get a published post
// @Tags Blog
// @Produce json
// @Param id path string true "Post ID or slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /blog/posts/{id} [get]
func (h *BlogHandler) GetPost(c *gin.Context) {
	post, err := h.blog.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post, nil)
}

// ListCategories godoc
// @Summary List categories with post counts
// @Tags Blog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /blog/categories [get]
func (h *BlogHandler) ListCategories(c *gin.Context) {
	categories, err := h.blog.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// CreatePost godoc
// @Summary Create a post
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreatePostRequest true "Post"
// @Success 201 {object} response.Envelope
// @Router /admin/blog/posts [post]
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid post payload"))
		return
	}
	post, err := h.blog.CreatePost(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// ListComments godoc
// @Summary List public comments of a post
// @Tags Blog
// @Produce json
// @Param id path string true "Post ID or slug"
// @Success 200 {object} response.Envelope
// @Router /blog/posts/{id}/comments [get]
func (h *BlogHandler) ListComments(c *gin.Context) {
	comments, err := h.blog.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comments, nil)
}

// AddComment godoc
// @Summary Comment on a post
// @Tags Blog
// @Accept json
// @Produce json
// @Param id path string true "Post ID or slug"
// @Param payload body service.CreateCommentRequest true "Comment"
// @Success 201 {object} response.Envelope
// @Router /blog/posts/{id}/comments [post]
func (h *BlogHandler) AddComment(c *gin.Context) {
	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid comment payload"))
		return
	}
	comment, err := h.blog.AddComment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// Subscribe godoc
// @Summary Subscribe to the newsletter
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param payload body service.SubscribeRequest true "Email"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /blog/subscribe [post]
func (h *BlogHandler) Subscribe(c *gin.Context) {
	var req service.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subscription payload"))
		return
	}
	res, err := h.newsletter.Subscribe(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if res.Status == service.SubscriptionCreated {
		status = http.StatusCreated
	}
	response.JSON(c, status, res, nil)
}

// Unsubscribe godoc
// @Summary Leave the newsletter
// @Tags Newsletter
// @Produce json
// @Param email path string true "Subscriber email"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /blog/unsubscribe/{email} [get]
func (h *BlogHandler) Unsubscribe(c *gin.Context) {
	res, err := h.newsletter.Unsubscribe(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
