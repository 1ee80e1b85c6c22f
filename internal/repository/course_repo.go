package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/model"
)

// CourseRepository 开课数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id int) (*model.Course, error)
	GetByIDWithReviews(ctx context.Context, id int) (*model.Course, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id int) (*model.Course, error) {
	var course model.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByIDWithReviews(ctx context.Context, id int) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Reviews").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}
