package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/skillforge/codelab-api/internal/models"
)

// ProblemRepository exposes persistence helpers for problems.
type ProblemRepository interface {
	Create(ctx context.Context, problem *models.Problem) error
	List(ctx context.Context) ([]models.Problem, error)
	GetByID(ctx context.Context, id uint) (models.Problem, error)
	GetBySlug(ctx context.Context, slug string) (models.Problem, error)
}

// NewProblemRepository constructs a problem repository.
func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &problemRepository{db: db}
}

type problemRepository struct {
	db *gorm.DB
}

func (r *problemRepository) Create(ctx context.Context, problem *models.Problem) error {
	return r.db.WithContext(ctx).Create(problem).Error
}

func (r *problemRepository) List(ctx context.Context) ([]models.Problem, error) {
	var problems []models.Problem
	err := r.db.WithContext(ctx).
		Order("id asc").
		Find(&problems).Error
	if err != nil {
		return nil, err
	}
	return problems, nil
}

func (r *problemRepository) GetByID(ctx context.Context, id uint) (models.Problem, error) {
	var problem models.Problem
	err := r.db.WithContext(ctx).
		Preload("TestCases", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc, id asc")
		}).
		First(&problem, id).Error
	if err != nil {
		return models.Problem{}, err
	}
	return problem, nil
}

func (r *problemRepository) GetBySlug(ctx context.Context, slug string) (models.Problem, error) {
	var problem models.Problem
	err := r.db.WithContext(ctx).
		Preload("TestCases", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc, id asc")
		}).
		Where("slug = ?", slug).
		First(&problem).Error
	if err != nil {
		return models.Problem{}, err
	}
	return problem, nil
}
