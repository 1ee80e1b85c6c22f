package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/model"
)

// CourseGroupRepository 课程组数据访问接口
type CourseGroupRepository interface {
	Create(ctx context.Context, group *model.CourseGroup) error
	GetByID(ctx context.Context, id int) (*model.CourseGroup, error)
	GetByCode(ctx context.Context, code string) (*model.CourseGroup, error)
	ListWithCourses(ctx context.Context) ([]model.CourseGroup, error)
}

type courseGroupRepo struct {
	db *gorm.DB
}

// NewCourseGroupRepo 创建 CourseGroupRepository 实例
func NewCourseGroupRepo(db *gorm.DB) CourseGroupRepository {
	return &courseGroupRepo{db: db}
}

func (r *courseGroupRepo) Create(ctx context.Context, group *model.CourseGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// GetByID 加载课程组及其下所有开课和各开课的评价
func (r *courseGroupRepo) GetByID(ctx context.Context, id int) (*model.CourseGroup, error) {
	var group model.CourseGroup
	err := r.db.WithContext(ctx).
		Preload("Courses").
		Preload("Courses.Reviews").
		First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *courseGroupRepo) GetByCode(ctx context.Context, code string) (*model.CourseGroup, error) {
	var group model.CourseGroup
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ListWithCourses 全量课程组及其开课（不含评价），供列表缓存重建使用；
// 顺序以存储层为准，单次重建内稳定
func (r *courseGroupRepo) ListWithCourses(ctx context.Context) ([]model.CourseGroup, error) {
	var groups []model.CourseGroup
	err := r.db.WithContext(ctx).
		Preload("Courses").
		Find(&groups).Error
	return groups, err
}
