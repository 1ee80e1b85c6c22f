package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/api/middleware"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/dto"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/service"
	"github.com/OpenTreeHole/curriculum-board-backend-next/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	listingSvc service.ListingService
	courseSvc  service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(listingSvc service.ListingService, courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{listingSvc: listingSvc, courseSvc: courseSvc}
}

// ListCourseGroups 获取全量课程组列表（缓存快照直出）
// GET /courses
func (h *CourseHandler) ListCourseGroups(c *gin.Context) {
	payload, _, err := h.listingSvc.Listing(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// GetCourseGroupsHash 获取列表缓存指纹
// GET /courses/hash
func (h *CourseHandler) GetCourseGroupsHash(c *gin.Context) {
	hash, err := h.listingSvc.Hash(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"hash": hash})
}

// RefreshCourseGroups 显式失效列表缓存
// GET /courses/refresh
func (h *CourseHandler) RefreshCourseGroups(c *gin.Context) {
	h.listingSvc.Invalidate()
	response.Teapot(c)
}

// GetGroup 获取课程组详情（含开课与评价）
// GET /group/:id
func (h *CourseHandler) GetGroup(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "课程组ID格式非法")
		return
	}

	caller, _ := middleware.CurrentUser(c)

	group, err := h.courseSvc.GetGroup(c.Request.Context(), id, caller)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, group)
}

// GetCourse 获取单个开课详情（含评价）
// GET /courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "课程ID格式非法")
		return
	}

	caller, _ := middleware.CurrentUser(c)

	course, err := h.courseSvc.GetCourse(c.Request.Context(), id, caller)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// CreateCourse 创建开课（code 首次出现时隐式创建课程组）
// POST /courses（仅管理员）
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.NewCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数校验失败")
		return
	}

	course, err := h.courseSvc.CreateCourse(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, course)
}

// handleCourseError 统一处理课程模块业务错误
func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, "课程组不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, "课程不存在")
	default:
		response.InternalError(c)
	}
}
