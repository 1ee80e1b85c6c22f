package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/model"
)

// ReviewRepository 评价数据访问接口
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id int) (*model.Review, error)
	GetByCourseAndReviewer(ctx context.Context, courseID, reviewerID int) (*model.Review, error)
	ListByReviewer(ctx context.Context, reviewerID int) ([]model.Review, error)
	// GetRandom 在全部在世评价上均匀抽取一条（附所属开课）；
	// 无评价时返回 gorm.ErrRecordNotFound
	GetRandom(ctx context.Context) (*model.Review, error)
	// UpdateVotes 单条 UPDATE 同时写回两个投票集合
	UpdateVotes(ctx context.Context, review *model.Review) error
	// UpdateContent 单条 UPDATE 写回内容、评分、更新时间与历史记录
	UpdateContent(ctx context.Context, review *model.Review) error
}

type reviewRepo struct {
	db *gorm.DB
}

// NewReviewRepo 创建 ReviewRepository 实例
func NewReviewRepo(db *gorm.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepo) GetByID(ctx context.Context, id int) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) GetByCourseAndReviewer(ctx context.Context, courseID, reviewerID int) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND reviewer_id = ?", courseID, reviewerID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) ListByReviewer(ctx context.Context, reviewerID int) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("reviewer_id = ?", reviewerID).
		Order("id").
		Find(&reviews).Error
	return reviews, err
}

// GetRandom 依赖 PostgreSQL 的 random() 在在世行上精确均匀抽样，
// 不存在稀疏 id 下的重试失败模式
func (r *reviewRepo) GetRandom(ctx context.Context) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Preload("Course").
		Order("random()").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepo) UpdateVotes(ctx context.Context, review *model.Review) error {
	res := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]interface{}{
			"upvoters":   review.Upvoters,
			"downvoters": review.Downvoters,
		})
	if res.Error != nil {
		return res.Error
	}
	// 读取与写回之间评价被删除时不能静默成功
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepo) UpdateContent(ctx context.Context, review *model.Review) error {
	res := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]interface{}{
			"title":        review.Title,
			"content":      review.Content,
			"rank":         review.Rank,
			"time_updated": review.TimeUpdated,
			"history":      review.History,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
