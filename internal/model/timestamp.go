package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/araddon/dateparse"
)

// Timestamp 后端时间字段
// 后端可能返回 RFC3339、HTTP date（Flask 默认）或 "2006-01-02 15:04:05"，也可能为 null
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// 数字时间戳（秒）
		var sec int64
		if err2 := json.Unmarshal(data, &sec); err2 != nil {
			return err
		}
		t.Time = time.Unix(sec, 0).UTC()
		return nil
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// MarshalYAML 导出时使用 RFC3339
func (t Timestamp) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC().Format(time.RFC3339), nil
}
