package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/OpenTreeHole/curriculum-board-backend-next/pkg/errors"
)

// Review 课程评价 — 对应表 review
// 不变量：同一用户不会同时出现在 upvoters 与 downvoters 中；
// 同一 (course, reviewer) 至多一条在世评价（创建路径校验，非存储层唯一约束）
type Review struct {
	ID          int        `gorm:"primaryKey"          json:"id"`
	CourseID    int        `gorm:"not null;index"      json:"course_id"`
	Title       string     `gorm:"type:text;not null"  json:"title"`
	Content     string     `gorm:"type:text;not null"  json:"content"`
	ReviewerID  int        `gorm:"not null"            json:"reviewer_id"`
	TimeCreated time.Time  `gorm:"not null"            json:"time_created"`
	TimeUpdated time.Time  `gorm:"not null"            json:"time_updated"`
	Rank        Rank       `gorm:"type:jsonb;not null" json:"rank"`
	Upvoters    VoterSet   `gorm:"type:jsonb;not null" json:"-"`
	Downvoters  VoterSet   `gorm:"type:jsonb;not null" json:"-"`
	History     HistoryLog `gorm:"type:jsonb;not null" json:"history"`

	// Course 非拥有型回引，按需预加载
	Course *Course `gorm:"foreignKey:CourseID;references:ID" json:"-"`
}

// TableName 指定表名
func (Review) TableName() string { return "review" }

// Remark 净推荐分 = |赞成| − |反对|
func (r *Review) Remark() int {
	return len(r.Upvoters) - len(r.Downvoters)
}

// VoteOf 某用户对该评价的投票方向：1 赞成，-1 反对，0 未投
func (r *Review) VoteOf(userID int) int {
	if r.Upvoters.Contains(userID) {
		return 1
	}
	if r.Downvoters.Contains(userID) {
		return -1
	}
	return 0
}

// ToggleVote 集合互斥的投票切换：
// 已在同向集合中则撤票；否则加入同向集合并无条件移出反向集合。
// 两个集合整体替换，保证用户不会同时出现在两侧。
func (r *Review) ToggleVote(userID int, upvote bool) {
	if upvote {
		if r.Upvoters.Contains(userID) {
			r.Upvoters = r.Upvoters.Remove(userID)
			return
		}
		r.Upvoters = r.Upvoters.Add(userID)
		r.Downvoters = r.Downvoters.Remove(userID)
		return
	}
	if r.Downvoters.Contains(userID) {
		r.Downvoters = r.Downvoters.Remove(userID)
		return
	}
	r.Downvoters = r.Downvoters.Add(userID)
	r.Upvoters = r.Upvoters.Remove(userID)
}

// Snapshot 抓取当前内容快照（编辑前调用）
func (r *Review) Snapshot() HistorySnapshot {
	return HistorySnapshot{
		Title:       r.Title,
		Content:     r.Content,
		Rank:        r.Rank,
		ReviewerID:  r.ReviewerID,
		TimeCreated: r.TimeCreated,
		TimeUpdated: r.TimeUpdated,
	}
}

// ── 结构化评分 ──

// Rank 评价的结构化分数，JSONB 存储
type Rank struct {
	Overall    int `json:"overall"`
	Content    int `json:"content"`
	Workload   int `json:"workload"`
	Assessment int `json:"assessment"`
}

// Scan 解析 JSONB 评分
func (k *Rank) Scan(src interface{}) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("Rank.Scan: %w", err)
	}
	if raw == nil {
		*k = Rank{}
		return nil
	}
	if err := json.Unmarshal(raw, k); err != nil {
		return fmt.Errorf("Rank.Scan: %w: %v", pkgerrors.ErrMalformedData, err)
	}
	return nil
}

// Value 序列化评分
func (k Rank) Value() (driver.Value, error) {
	b, err := json.Marshal(k)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ── 编辑历史 ──

// HistorySnapshot 编辑前一刻的评价内容快照，只追加、不可变
type HistorySnapshot struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Rank        Rank      `json:"rank"`
	ReviewerID  int       `json:"reviewer_id"`
	TimeCreated time.Time `json:"time_created"`
	TimeUpdated time.Time `json:"time_updated"`
}

// HistoryLog 评价的编辑历史，按编辑先后有序；只追加，不截断、不重排
type HistoryLog []HistorySnapshot

// Scan 解析 JSONB 历史记录，非数组视为存储数据损坏
func (h *HistoryLog) Scan(src interface{}) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("HistoryLog.Scan: %w", err)
	}
	if raw == nil {
		*h = HistoryLog{}
		return nil
	}
	var log []HistorySnapshot
	if err := json.Unmarshal(raw, &log); err != nil {
		return fmt.Errorf("HistoryLog.Scan: %w: %v", pkgerrors.ErrMalformedData, err)
	}
	*h = log
	return nil
}

// Value 序列化历史记录
func (h HistoryLog) Value() (driver.Value, error) {
	if h == nil {
		h = HistoryLog{}
	}
	b, err := json.Marshal([]HistorySnapshot(h))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
