// internal/adapters/out/firestore/common/convert.go
package common

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Firestore の doc.Data() は any 値を返すため、
// 型のゆれ（int64 / float64 / string など）をここで吸収する。

// AsString は any を安全に string 化します（数値も許容）。
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case int, int32, int64, float32, float64:
		return fmt.Sprintf("%v", t)
	default:
		return ""
	}
}

// AsInt は数値系の any を int に変換します。
func AsInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float32:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// AsBool は bool / "true" / "false" を吸収します。
func AsBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(strings.TrimSpace(t), "true")
	default:
		return false
	}
}

// AsTime は time.Time / RFC3339 文字列を吸収します（UTC に正規化）。
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case *time.Time:
		if t != nil {
			return t.UTC(), true
		}
	case string:
		if tt, err := time.Parse(time.RFC3339, strings.TrimSpace(t)); err == nil {
			return tt.UTC(), true
		}
	}
	return time.Time{}, false
}

// AsTimePtr は欠損/ゼロ時刻を nil で返す AsTime の派生です。
func AsTimePtr(v any) *time.Time {
	t, ok := AsTime(v)
	if !ok || t.IsZero() {
		return nil
	}
	return &t
}

// AsStringPtr は空文字を nil で返します。
func AsStringPtr(v any) *string {
	s := strings.TrimSpace(AsString(v))
	if s == "" {
		return nil
	}
	return &s
}
