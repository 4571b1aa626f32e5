package ports

import (
	"context"

	"github.com/campushq/campus-admin-api/internal/core/domain"
)

type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) (*domain.Course, error)
	FindByCode(ctx context.Context, code string) (*domain.Course, error)
	List(ctx context.Context, department string) ([]domain.Course, error)
	DeleteByCode(ctx context.Context, code string) error
}
