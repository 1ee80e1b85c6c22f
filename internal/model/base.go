package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"

	pkgerrors "github.com/OpenTreeHole/curriculum-board-backend-next/pkg/errors"
)

// ── 投票人集合自定义类型 ──

// VoterSet 评价的投票人集合。语义上是无序唯一集合：
// 内存中保持升序去重，存储层序列化为 JSON 数组（JSONB 列）。
type VoterSet []int

// Contains 判断某用户是否在集合中
func (s VoterSet) Contains(userID int) bool {
	i := sort.SearchInts(s, userID)
	return i < len(s) && s[i] == userID
}

// Add 加入某用户，保持升序去重；已存在时不变
func (s VoterSet) Add(userID int) VoterSet {
	i := sort.SearchInts(s, userID)
	if i < len(s) && s[i] == userID {
		return s
	}
	out := make(VoterSet, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, userID)
	out = append(out, s[i:]...)
	return out
}

// Remove 移除某用户；不存在时不变
func (s VoterSet) Remove(userID int) VoterSet {
	i := sort.SearchInts(s, userID)
	if i >= len(s) || s[i] != userID {
		return s
	}
	out := make(VoterSet, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

// Scan 将存储层 JSON 数组解析为去重升序集合。
// 历史数据可能含重复元素，读取时一并去重。
func (s *VoterSet) Scan(src interface{}) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("VoterSet.Scan: %w", err)
	}
	if raw == nil {
		*s = VoterSet{}
		return nil
	}
	var arr []int
	if err := json.Unmarshal(raw, &arr); err != nil {
		return fmt.Errorf("VoterSet.Scan: %w: %v", pkgerrors.ErrMalformedData, err)
	}
	sort.Ints(arr)
	out := make(VoterSet, 0, len(arr))
	for _, v := range arr {
		if n := len(out); n > 0 && out[n-1] == v {
			continue
		}
		out = append(out, v)
	}
	*s = out
	return nil
}

// Value 将集合序列化为 JSON 数组文本
func (s VoterSet) Value() (driver.Value, error) {
	if s == nil {
		s = VoterSet{}
	}
	b, err := json.Marshal([]int(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// jsonBytes 统一处理驱动返回的 JSONB 原始值
func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("不支持的列类型 %T", src)
	}
}
