package errors

import "errors"

// ErrMalformedData 存储中的 JSON 字段（投票集合、历史记录、评分）格式非法
var ErrMalformedData = errors.New("存储数据格式非法")
