package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/model"
)

// AchievementRepository 成就数据访问接口
type AchievementRepository interface {
	ListByUser(ctx context.Context, userID int) ([]model.UserAchievement, error)
}

type achievementRepo struct {
	db *gorm.DB
}

// NewAchievementRepo 创建 AchievementRepository 实例
func NewAchievementRepo(db *gorm.DB) AchievementRepository {
	return &achievementRepo{db: db}
}

func (r *achievementRepo) ListByUser(ctx context.Context, userID int) ([]model.UserAchievement, error) {
	var records []model.UserAchievement
	err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("obtain_date").
		Find(&records).Error
	return records, err
}
