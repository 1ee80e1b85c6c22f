package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	CourseGroup CourseGroupRepository
	Course      CourseRepository
	Review      ReviewRepository
	Achievement AchievementRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		CourseGroup: NewCourseGroupRepo(db),
		Course:      NewCourseRepo(db),
		Review:      NewReviewRepo(db),
		Achievement: NewAchievementRepo(db),
		db:          db,
	}
}

// BeginTx 开启事务；db 为空（纯 mock 测试）时返回 nil 事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到指定事务的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
