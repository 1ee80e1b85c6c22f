package handler

import (
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/service"
)

// Handler 所有 HTTP 处理器的聚合入口
type Handler struct {
	Course *CourseHandler
	Review *ReviewHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Course: NewCourseHandler(svc.Listing, svc.Course),
		Review: NewReviewHandler(svc.Review),
	}
}
