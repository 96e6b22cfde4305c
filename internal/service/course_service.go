package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
	"github.com/noah-isme/fixlab-academy-api/internal/repository"
	appErrors "github.com/noah-isme/fixlab-academy-api/pkg/errors"
	"github.com/noah-isme/fixlab-academy-api/pkg/validation"
)

const courseCachePrefix = "courses:"

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByName(ctx context.Context, name string) (*models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
}

// UpsertCourseRequest is the staff payload for creating or editing a course.
type UpsertCourseRequest struct {
	Name      string          `json:"name" validate:"required,max=255"`
	Code      string          `json:"code" validate:"max=32"`
	FeeAmount decimal.Decimal `json:"fee_amount"`
}

// CourseService serves the course catalog with a read-through cache.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns every course.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.cache.Remember(ctx, courseCachePrefix+"all", s.cacheTTL, &courses, func() error {
		var err error
		courses, err = s.repo.List(ctx)
		return err
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// GetByName resolves a course by name ignoring case, matching the repository lookup
// so cached and uncached resolution agree.
func (s *CourseService) GetByName(ctx context.Context, name string) (*models.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrCourseNotFound, "course not found")
	}
	var course models.Course
	err := s.cache.Remember(ctx, courseCachePrefix+"name:"+strings.ToLower(name), s.cacheTTL, &course, func() error {
		found, err := s.repo.FindByName(ctx, name)
		if err != nil {
			return err
		}
		course = *found
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrCourseNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return &course, nil
}

// Create adds a course.
func (s *CourseService) Create(ctx context.Context, req UpsertCourseRequest) (*models.Course, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	course := &models.Course{Name: strings.TrimSpace(req.Name), Code: strings.TrimSpace(req.Code), FeeAmount: req.FeeAmount}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, s.writeError(err, "failed to create course")
	}
	s.invalidate(ctx)
	return course, nil
}

// Update edits a course.
func (s *CourseService) Update(ctx context.Context, id string, req UpsertCourseRequest) (*models.Course, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrCourseNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	course.Name = strings.TrimSpace(req.Name)
	course.Code = strings.TrimSpace(req.Code)
	course.FeeAmount = req.FeeAmount
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, s.writeError(err, "failed to update course")
	}
	s.invalidate(ctx)
	return course, nil
}

func (s *CourseService) validate(req UpsertCourseRequest) error {
	if err := validation.Struct(s.validator, req); err != nil {
		return err
	}
	if req.FeeAmount.IsNegative() {
		return appErrors.Validation("invalid payload", map[string]string{"fee_amount": "must not be negative"})
	}
	return nil
}

func (s *CourseService) writeError(err error, msg string) error {
	if errors.Is(err, repository.ErrDuplicateCourse) {
		return appErrors.Clone(appErrors.ErrConflict, "course name already exists")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msg)
}

func (s *CourseService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, courseCachePrefix+"*")
}
