package service

import (
	"context"
	"math/rand"

	"gorm.io/gorm"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/model"
)

// ── Mock CourseGroupRepository ──

type mockCourseGroupRepo struct {
	groups map[int]*model.CourseGroup
	nextID int
	// listErr 注入 ListWithCourses 失败
	listErr error
	// listCalls 统计重建取数次数
	listCalls int
	// listBarrier 在结果快照构建完成、返回之前调用，用于让测试
	// 在取数窗口内插入写入或失效
	listBarrier func()
}

func newMockCourseGroupRepo() *mockCourseGroupRepo {
	return &mockCourseGroupRepo{groups: make(map[int]*model.CourseGroup), nextID: 1}
}

func (m *mockCourseGroupRepo) Create(_ context.Context, group *model.CourseGroup) error {
	if group.ID == 0 {
		group.ID = m.nextID
		m.nextID++
	}
	m.groups[group.ID] = group
	return nil
}

func (m *mockCourseGroupRepo) GetByID(_ context.Context, id int) (*model.CourseGroup, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseGroupRepo) GetByCode(_ context.Context, code string) (*model.CourseGroup, error) {
	for _, g := range m.groups {
		if g.Code == code {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseGroupRepo) ListWithCourses(_ context.Context) ([]model.CourseGroup, error) {
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	result := make([]model.CourseGroup, 0, len(m.groups))
	for i := 1; i < m.nextID; i++ {
		if g, ok := m.groups[i]; ok {
			result = append(result, *g)
		}
	}
	if m.listBarrier != nil {
		m.listBarrier()
	}
	return result, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[int]*model.Course
	nextID  int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[int]*model.Course), nextID: 1}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.ID == 0 {
		course.ID = m.nextID
		m.nextID++
	}
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id int) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) GetByIDWithReviews(_ context.Context, id int) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock ReviewRepository ──

type mockReviewRepo struct {
	reviews map[int]*model.Review
	nextID  int
	// updateErr 注入写回失败
	updateErr error
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: make(map[int]*model.Review), nextID: 1}
}

func (m *mockReviewRepo) Create(_ context.Context, review *model.Review) error {
	if review.ID == 0 {
		review.ID = m.nextID
		m.nextID++
	}
	stored := *review
	m.reviews[review.ID] = &stored
	return nil
}

func (m *mockReviewRepo) GetByID(_ context.Context, id int) (*model.Review, error) {
	if r, ok := m.reviews[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReviewRepo) GetByCourseAndReviewer(_ context.Context, courseID, reviewerID int) (*model.Review, error) {
	for _, r := range m.reviews {
		if r.CourseID == courseID && r.ReviewerID == reviewerID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReviewRepo) ListByReviewer(_ context.Context, reviewerID int) ([]model.Review, error) {
	var result []model.Review
	for i := 1; i < m.nextID; i++ {
		if r, ok := m.reviews[i]; ok && r.ReviewerID == reviewerID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockReviewRepo) GetRandom(_ context.Context) (*model.Review, error) {
	if len(m.reviews) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	ids := make([]int, 0, len(m.reviews))
	for id := range m.reviews {
		ids = append(ids, id)
	}
	cp := *m.reviews[ids[rand.Intn(len(ids))]]
	return &cp, nil
}

func (m *mockReviewRepo) UpdateVotes(_ context.Context, review *model.Review) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.reviews[review.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Upvoters = review.Upvoters
	stored.Downvoters = review.Downvoters
	return nil
}

func (m *mockReviewRepo) UpdateContent(_ context.Context, review *model.Review) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.reviews[review.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Title = review.Title
	stored.Content = review.Content
	stored.Rank = review.Rank
	stored.TimeUpdated = review.TimeUpdated
	stored.History = review.History
	return nil
}

// ── Mock AchievementRepository ──

type mockAchievementRepo struct {
	byUser map[int][]model.UserAchievement
}

func newMockAchievementRepo() *mockAchievementRepo {
	return &mockAchievementRepo{byUser: make(map[int][]model.UserAchievement)}
}

func (m *mockAchievementRepo) ListByUser(_ context.Context, userID int) ([]model.UserAchievement, error) {
	return m.byUser[userID], nil
}
