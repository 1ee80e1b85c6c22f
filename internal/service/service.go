package service

import (
	"go.uber.org/zap"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Listing ListingService
	Course  CourseService
	Review  ReviewService
}

// NewService 创建 Service 聚合
func NewService(repo *repository.Repository, logger *zap.Logger) *Service {
	listing := NewListingService(repo, logger)
	return &Service{
		Listing: listing,
		Course:  NewCourseService(repo, listing, logger),
		Review:  NewReviewService(repo, logger),
	}
}
