package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/api/middleware"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/dto"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/service"
	"github.com/OpenTreeHole/curriculum-board-backend-next/pkg/response"
)

// ReviewHandler 评价模块 HTTP 处理器
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// CreateReview 在某开课下创建评价
// POST /courses/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	courseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "课程ID格式非法")
		return
	}

	var req dto.NewReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	caller, _ := middleware.CurrentUser(c)

	review, err := h.reviewSvc.Create(c.Request.Context(), courseID, &req, caller)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, review)
}

// ModifyReview 编辑评价（先快照入历史，再应用新内容）
// PUT /reviews/:id（作者或管理员）
func (h *ReviewHandler) ModifyReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "评价ID格式非法")
		return
	}

	var req dto.NewReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	caller, _ := middleware.CurrentUser(c)

	review, err := h.reviewSvc.Modify(c.Request.Context(), id, &req, caller)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, review)
}

// VoteReview 对评价投票（切换语义）
// PATCH /reviews/:id
func (h *ReviewHandler) VoteReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "评价ID格式非法")
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	caller, _ := middleware.CurrentUser(c)

	review, err := h.reviewSvc.Vote(c.Request.Context(), id, *req.Upvote, caller)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, review)
}

// MyReviews 获取当前用户的全部评价（附所属开课）
// GET /reviews
func (h *ReviewHandler) MyReviews(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	reviews, err := h.reviewSvc.MyReviews(c.Request.Context(), caller)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, reviews)
}

// RandomReview 随机抽取一条评价
// GET /reviews/random
func (h *ReviewHandler) RandomReview(c *gin.Context) {
	caller, _ := middleware.CurrentUser(c)

	review, err := h.reviewSvc.Random(c.Request.Context(), caller)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}

	response.OK(c, review)
}

// handleReviewError 统一处理评价模块业务错误
func (h *ReviewHandler) handleReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReviewNotFound):
		response.NotFound(c, "评价不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, "课程不存在")
	case errors.Is(err, service.ErrReviewExists):
		response.Conflict(c, "该课程下已有你的评价")
	case errors.Is(err, service.ErrNotOwner):
		response.Unauthorized(c, "仅评价作者或管理员可以修改评价")
	default:
		response.InternalError(c)
	}
}
