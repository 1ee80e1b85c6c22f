package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/dto"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/model"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/repository"
)

// ── 评价模块业务错误 ──

var (
	ErrReviewNotFound = errors.New("评价不存在")
	ErrReviewExists   = errors.New("同一课程下已有该用户的评价")
	ErrNotOwner       = errors.New("仅评价作者或管理员可以修改评价")
)

// ReviewService 评价业务接口
type ReviewService interface {
	Create(ctx context.Context, courseID int, req *dto.NewReviewRequest, caller dto.UserInfo) (*dto.ReviewResponse, error)
	// Modify 先抓取当前内容为历史快照并追加，再应用新内容并刷新更新时间
	Modify(ctx context.Context, reviewID int, req *dto.NewReviewRequest, caller dto.UserInfo) (*dto.ReviewResponse, error)
	// Vote 集合互斥的投票切换，对同一评价的写入按评价串行
	Vote(ctx context.Context, reviewID int, upvote bool, caller dto.UserInfo) (*dto.ReviewResponse, error)
	Random(ctx context.Context, caller dto.UserInfo) (*dto.ReviewResponse, error)
	MyReviews(ctx context.Context, caller dto.UserInfo) ([]dto.MyReviewResponse, error)
}

type reviewService struct {
	repo   *repository.Repository
	logger *zap.Logger

	// 按评价 id 串行化 load-then-write，防止同一投票人连点导致的写丢失。
	// 条目引用计数，最后一个持有者释放时回收，锁表不随历史触达的评价增长
	locksMu sync.Mutex
	locks   map[int]*reviewLock
}

type reviewLock struct {
	mu   sync.Mutex
	refs int
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, logger *zap.Logger) ReviewService {
	return &reviewService{
		repo:   repo,
		logger: logger,
		locks:  make(map[int]*reviewLock),
	}
}

// lockFor 取得某评价的专属互斥锁并加锁；必须与 unlockFor 配对
func (s *reviewService) lockFor(reviewID int) *reviewLock {
	s.locksMu.Lock()
	l, ok := s.locks[reviewID]
	if !ok {
		l = &reviewLock{}
		s.locks[reviewID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return l
}

// unlockFor 释放锁并在无人等待时回收条目
func (s *reviewService) unlockFor(reviewID int, l *reviewLock) {
	l.mu.Unlock()

	s.locksMu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, reviewID)
	}
	s.locksMu.Unlock()
}

// ────────────────────── Create ──────────────────────

func (s *reviewService) Create(ctx context.Context, courseID int, req *dto.NewReviewRequest, caller dto.UserInfo) (*dto.ReviewResponse, error) {
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询开课失败", zap.Int("course_id", courseID), zap.Error(err))
		return nil, err
	}

	// 同一 (course, reviewer) 至多一条评价，创建路径负责校验
	_, err := s.repo.Review.GetByCourseAndReviewer(ctx, courseID, caller.ID)
	switch {
	case err == nil:
		return nil, ErrReviewExists
	case errors.Is(err, gorm.ErrRecordNotFound):
		// 无既有评价，继续
	default:
		s.logger.Error("查询既有评价失败", zap.Int("course_id", courseID), zap.Error(err))
		return nil, err
	}

	review := req.NewReviewModel(courseID, caller.ID, time.Now().UTC())
	if err := s.repo.Review.Create(ctx, review); err != nil {
		s.logger.Error("创建评价失败", zap.Int("course_id", courseID), zap.Error(err))
		return nil, err
	}

	return buildReviewResponse(ctx, s.repo, review, caller.ID)
}

// ────────────────────── Modify ──────────────────────

func (s *reviewService) Modify(ctx context.Context, reviewID int, req *dto.NewReviewRequest, caller dto.UserInfo) (*dto.ReviewResponse, error) {
	l := s.lockFor(reviewID)
	defer s.unlockFor(reviewID, l)

	review, err := s.repo.Review.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		s.logger.Error("查询评价失败", zap.Int("id", reviewID), zap.Error(err))
		return nil, err
	}

	if review.ReviewerID != caller.ID && !caller.IsAdmin {
		return nil, ErrNotOwner
	}

	// 先记录当前内容快照，再应用新内容；历史只追加
	review.History = append(review.History, review.Snapshot())
	review.Title = req.Title
	review.Content = req.Content
	review.Rank = req.Rank
	review.TimeUpdated = time.Now().UTC()

	// 内容与历史作为同一条 UPDATE 原子写回
	if err := s.repo.Review.UpdateContent(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 读取与写回之间评价被删除
			return nil, ErrReviewNotFound
		}
		s.logger.Error("更新评价失败", zap.Int("id", reviewID), zap.Error(err))
		return nil, err
	}

	return buildReviewResponse(ctx, s.repo, review, caller.ID)
}

// ────────────────────── Vote ──────────────────────

func (s *reviewService) Vote(ctx context.Context, reviewID int, upvote bool, caller dto.UserInfo) (*dto.ReviewResponse, error) {
	l := s.lockFor(reviewID)
	defer s.unlockFor(reviewID, l)

	review, err := s.repo.Review.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		s.logger.Error("查询评价失败", zap.Int("id", reviewID), zap.Error(err))
		return nil, err
	}

	review.ToggleVote(caller.ID, upvote)

	// 两个投票集合作为同一条 UPDATE 原子写回
	if err := s.repo.Review.UpdateVotes(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		s.logger.Error("写回投票集合失败", zap.Int("id", reviewID), zap.Error(err))
		return nil, err
	}

	return buildReviewResponse(ctx, s.repo, review, caller.ID)
}

// ────────────────────── Random ──────────────────────

func (s *reviewService) Random(ctx context.Context, caller dto.UserInfo) (*dto.ReviewResponse, error) {
	review, err := s.repo.Review.GetRandom(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		s.logger.Error("随机抽取评价失败", zap.Error(err))
		return nil, err
	}
	return buildReviewResponse(ctx, s.repo, review, caller.ID)
}

// ────────────────────── MyReviews ──────────────────────

func (s *reviewService) MyReviews(ctx context.Context, caller dto.UserInfo) ([]dto.MyReviewResponse, error) {
	reviews, err := s.repo.Review.ListByReviewer(ctx, caller.ID)
	if err != nil {
		s.logger.Error("查询用户评价失败", zap.Int("user_id", caller.ID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.MyReviewResponse, 0, len(reviews))
	for i := range reviews {
		r := &reviews[i]
		result = append(result, dto.MyReviewResponse{
			ID:          r.ID,
			Title:       r.Title,
			Content:     r.Content,
			TimeCreated: r.TimeCreated,
			TimeUpdated: r.TimeUpdated,
			Rank:        r.Rank,
			History:     r.History,
			Vote:        r.VoteOf(caller.ID),
			Remark:      r.Remark(),
			Course:      r.Course,
		})
	}
	return result, nil
}

// ── 内部辅助方法 ──

// buildReviewResponse 组装评价响应，附评价人成就信息
func buildReviewResponse(ctx context.Context, repo *repository.Repository, review *model.Review, callerID int) (*dto.ReviewResponse, error) {
	records, err := repo.Achievement.ListByUser(ctx, review.ReviewerID)
	if err != nil {
		return nil, err
	}

	achievements := make([]dto.AchievementResponse, 0, len(records))
	for _, rec := range records {
		achievements = append(achievements, dto.AchievementResponse{
			Name:       rec.Achievement.Name,
			Domain:     rec.Achievement.Domain,
			ObtainDate: rec.ObtainDate,
		})
	}

	return &dto.ReviewResponse{
		ID:          review.ID,
		Title:       review.Title,
		Content:     review.Content,
		ReviewerID:  review.ReviewerID,
		TimeCreated: review.TimeCreated,
		TimeUpdated: review.TimeUpdated,
		Rank:        review.Rank,
		History:     review.History,
		IsMe:        review.ReviewerID == callerID,
		Vote:        review.VoteOf(callerID),
		Remark:      review.Remark(),
		Extra:       dto.UserExtra{Achievements: achievements},
	}, nil
}
