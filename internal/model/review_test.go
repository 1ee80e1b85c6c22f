package model

import (
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/OpenTreeHole/curriculum-board-backend-next/pkg/errors"
)

// ── VoterSet 测试 ──

func TestVoterSet_AddRemoveContains(t *testing.T) {
	s := VoterSet{}
	s = s.Add(3)
	s = s.Add(1)
	s = s.Add(2)
	s = s.Add(2) // 重复加入不变

	if len(s) != 3 {
		t.Fatalf("期望集合大小3，实际=%d", len(s))
	}
	for i := 1; i <= 3; i++ {
		if !s.Contains(i) {
			t.Errorf("集合应包含 %d", i)
		}
	}

	s = s.Remove(2)
	if s.Contains(2) {
		t.Error("移除后不应包含 2")
	}
	s = s.Remove(42) // 移除不存在元素不变
	if len(s) != 2 {
		t.Errorf("期望集合大小2，实际=%d", len(s))
	}
}

func TestVoterSet_ScanDedupes(t *testing.T) {
	var s VoterSet
	// 历史脏数据：乱序且含重复
	if err := s.Scan([]byte(`[5,1,5,3,1]`)); err != nil {
		t.Fatalf("Scan 应成功: %v", err)
	}
	if len(s) != 3 {
		t.Fatalf("期望去重后大小3，实际=%d", len(s))
	}
	if s[0] != 1 || s[1] != 3 || s[2] != 5 {
		t.Errorf("期望升序 [1 3 5]，实际=%v", s)
	}
}

func TestVoterSet_ScanMalformed(t *testing.T) {
	var s VoterSet
	err := s.Scan([]byte(`{"not":"an array"}`))
	if !errors.Is(err, pkgerrors.ErrMalformedData) {
		t.Errorf("期望 ErrMalformedData，实际: %v", err)
	}
}

func TestVoterSet_ScanNull(t *testing.T) {
	var s VoterSet
	if err := s.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) 应成功: %v", err)
	}
	if s == nil || len(s) != 0 {
		t.Errorf("期望空集合，实际=%v", s)
	}
}

// ── 投票切换测试 ──

func newTestReview() *Review {
	return &Review{
		ID:         1,
		Title:      "标题",
		Content:    "内容",
		ReviewerID: 7,
		Upvoters:   VoterSet{},
		Downvoters: VoterSet{},
		History:    HistoryLog{},
	}
}

func TestReview_ToggleVote_Idempotent(t *testing.T) {
	r := newTestReview()

	// 两次同向切换回到未投状态
	r.ToggleVote(42, true)
	if !r.Upvoters.Contains(42) {
		t.Fatal("首次赞成后应在 upvoters 中")
	}
	r.ToggleVote(42, true)
	if r.Upvoters.Contains(42) || r.Downvoters.Contains(42) {
		t.Error("再次赞成应撤票")
	}
	if r.VoteOf(42) != 0 {
		t.Errorf("期望投票方向0，实际=%d", r.VoteOf(42))
	}
}

func TestReview_ToggleVote_Exclusive(t *testing.T) {
	r := newTestReview()

	r.ToggleVote(42, true)
	r.ToggleVote(42, false) // 换边清空反向
	if r.Upvoters.Contains(42) {
		t.Error("换边后不应仍在 upvoters 中")
	}
	if !r.Downvoters.Contains(42) {
		t.Error("换边后应在 downvoters 中")
	}
	if r.VoteOf(42) != -1 {
		t.Errorf("期望投票方向-1，实际=%d", r.VoteOf(42))
	}
}

func TestReview_Remark(t *testing.T) {
	r := newTestReview()
	r.ToggleVote(1, true)
	r.ToggleVote(2, true)
	r.ToggleVote(3, false)

	if r.Remark() != 1 {
		t.Errorf("期望净分1，实际=%d", r.Remark())
	}
}

// ── 历史记录测试 ──

func TestHistoryLog_ScanMalformed(t *testing.T) {
	var h HistoryLog
	err := h.Scan([]byte(`"not an array"`))
	if !errors.Is(err, pkgerrors.ErrMalformedData) {
		t.Errorf("期望 ErrMalformedData，实际: %v", err)
	}
}

func TestReview_Snapshot(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := newTestReview()
	r.Rank = Rank{Overall: 5, Content: 4, Workload: 3, Assessment: 5}
	r.TimeCreated = now
	r.TimeUpdated = now

	snap := r.Snapshot()
	if snap.Title != r.Title || snap.Content != r.Content {
		t.Error("快照应逐字段复制当前内容")
	}
	if snap.Rank != r.Rank {
		t.Error("快照应复制评分")
	}
	if !snap.TimeUpdated.Equal(now) {
		t.Error("快照应保留原更新时间")
	}
}
