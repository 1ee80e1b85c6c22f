package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/dto"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/model"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/repository"
)

// ── 课程模块业务错误 ──

var (
	ErrGroupNotFound  = errors.New("课程组不存在")
	ErrCourseNotFound = errors.New("课程不存在")
)

// CourseService 课程与课程组业务接口
type CourseService interface {
	// CreateCourse 创建开课；code 首次出现时隐式创建课程组，
	// 已有同 code 课程组时归入该组
	CreateCourse(ctx context.Context, req *dto.NewCourseRequest) (*model.Course, error)
	GetGroup(ctx context.Context, id int, caller dto.UserInfo) (*dto.GroupResponse, error)
	GetCourse(ctx context.Context, id int, caller dto.UserInfo) (*dto.CourseResponse, error)
}

type courseService struct {
	repo    *repository.Repository
	listing ListingService
	logger  *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, listing ListingService, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, listing: listing, logger: logger}
}

// ────────────────────── CreateCourse ──────────────────────

func (s *courseService) CreateCourse(ctx context.Context, req *dto.NewCourseRequest) (*model.Course, error) {
	// 组的创建与开课的创建放在同一事务，避免出现空悬课程组
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	group, err := txRepo.CourseGroup.GetByCode(ctx, req.Code)
	switch {
	case err == nil:
		// 同 code 开课归入既有课程组
	case errors.Is(err, gorm.ErrRecordNotFound):
		group = &model.CourseGroup{
			Name:       req.Name,
			Code:       req.Code,
			Department: req.Department,
			CampusName: req.CampusName,
		}
		if err := txRepo.CourseGroup.Create(ctx, group); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("创建课程组失败", zap.String("code", req.Code), zap.Error(err))
			return nil, err
		}
	default:
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("查询课程组失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	course := req.NewCourseModel(group.ID)
	if err := txRepo.Course.Create(ctx, course); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建开课失败", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	// 列表内容已变化，失效快照，下次读取时重建
	s.listing.Invalidate()

	return course, nil
}

// ────────────────────── GetGroup ──────────────────────

func (s *courseService) GetGroup(ctx context.Context, id int, caller dto.UserInfo) (*dto.GroupResponse, error) {
	group, err := s.repo.CourseGroup.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询课程组失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}

	resp := &dto.GroupResponse{
		ID:         group.ID,
		Name:       group.Name,
		Code:       group.Code,
		Department: group.Department,
		CampusName: group.CampusName,
		CourseList: make([]dto.CourseResponse, 0, len(group.Courses)),
	}
	for i := range group.Courses {
		cr, err := s.toCourseResponse(ctx, &group.Courses[i], caller)
		if err != nil {
			return nil, err
		}
		resp.CourseList = append(resp.CourseList, *cr)
	}
	return resp, nil
}

// ────────────────────── GetCourse ──────────────────────

func (s *courseService) GetCourse(ctx context.Context, id int, caller dto.UserInfo) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByIDWithReviews(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询开课失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return s.toCourseResponse(ctx, course, caller)
}

// ── 内部辅助方法 ──

func (s *courseService) toCourseResponse(ctx context.Context, course *model.Course, caller dto.UserInfo) (*dto.CourseResponse, error) {
	reviews := make([]dto.ReviewResponse, 0, len(course.Reviews))
	for i := range course.Reviews {
		rr, err := buildReviewResponse(ctx, s.repo, &course.Reviews[i], caller.ID)
		if err != nil {
			s.logger.Error("组装评价响应失败", zap.Int("review_id", course.Reviews[i].ID), zap.Error(err))
			return nil, err
		}
		reviews = append(reviews, *rr)
	}
	return &dto.CourseResponse{
		ID:            course.ID,
		CourseGroupID: course.CourseGroupID,
		Name:          course.Name,
		Code:          course.Code,
		CodeID:        course.CodeID,
		Credit:        course.Credit,
		Department:    course.Department,
		CampusName:    course.CampusName,
		Teachers:      course.Teachers,
		MaxStudent:    course.MaxStudent,
		WeekHour:      course.WeekHour,
		Year:          course.Year,
		Semester:      course.Semester,
		ReviewList:    reviews,
	}, nil
}
