package dto

import (
	"time"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/model"
)

// NewReviewRequest 创建/编辑评价请求体
type NewReviewRequest struct {
	Title   string     `json:"title"   binding:"required"`
	Content string     `json:"content" binding:"required"`
	Rank    model.Rank `json:"rank"`
}

// VoteRequest 投票请求体：true 赞成，false 反对
type VoteRequest struct {
	Upvote *bool `json:"upvote" binding:"required"`
}

// AchievementResponse 评价人已获成就
type AchievementResponse struct {
	Name       string    `json:"name"`
	Domain     string    `json:"domain"`
	ObtainDate time.Time `json:"obtain_date"`
}

// UserExtra 评价人附加展示信息
type UserExtra struct {
	Achievements []AchievementResponse `json:"achievements"`
}

// ReviewResponse 评价详情（含针对请求者个性化的 is_me/vote 字段）
type ReviewResponse struct {
	ID          int                     `json:"id"`
	Title       string                  `json:"title"`
	Content     string                  `json:"content"`
	ReviewerID  int                     `json:"reviewer_id"`
	TimeCreated time.Time               `json:"time_created"`
	TimeUpdated time.Time               `json:"time_updated"`
	Rank        model.Rank              `json:"rank"`
	History     []model.HistorySnapshot `json:"history"`
	IsMe        bool                    `json:"is_me"`
	Vote        int                     `json:"vote"`
	Remark      int                     `json:"remark"`
	Extra       UserExtra               `json:"extra"`
}

// MyReviewResponse 当前用户自己的评价（附所属开课）
type MyReviewResponse struct {
	ID          int                     `json:"id"`
	Title       string                  `json:"title"`
	Content     string                  `json:"content"`
	TimeCreated time.Time               `json:"time_created"`
	TimeUpdated time.Time               `json:"time_updated"`
	Rank        model.Rank              `json:"rank"`
	History     []model.HistorySnapshot `json:"history"`
	Vote        int                     `json:"vote"`
	Remark      int                     `json:"remark"`
	Course      *model.Course           `json:"course"`
}

// NewReviewModel 由请求构造评价模型
func (r *NewReviewRequest) NewReviewModel(courseID, reviewerID int, now time.Time) *model.Review {
	return &model.Review{
		CourseID:    courseID,
		Title:       r.Title,
		Content:     r.Content,
		ReviewerID:  reviewerID,
		TimeCreated: now,
		TimeUpdated: now,
		Rank:        r.Rank,
		Upvoters:    model.VoterSet{},
		Downvoters:  model.VoterSet{},
		History:     model.HistoryLog{},
	}
}
