// internal/application/reconcile/field_resolver.go
package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	mintrequestdom "tracery/internal/domain/mintRequest"
)

// ErrFieldMissing はエイリアスのどれを辿っても値が得られなかったことを表します。
// 必須フィールドの解決（RequireString など）でのみ返される。
var ErrFieldMissing = errors.New("reconcile: field missing")

// ============================================================
// FieldResolver
// ============================================================
//
// raw レコードとエイリアスキー（優先順）を受け取り、最初に見つかった
// 非空の値を trim / 型変換して返す。見つからなければゼロ値。
// - total: どんな入力でも panic しない
// - idempotent: 同じ入力には常に同じ出力
// キーは "production.productBlueprintId" のようなドット区切りでネストを辿れる。

// lookup はドット区切りパスを辿って値を取り出します。
func lookup(rec Raw, key string) (any, bool) {
	if rec == nil || key == "" {
		return nil, false
	}
	parts := strings.Split(key, ".")
	var cur any = map[string]any(rec)
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[p]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// ResolveString returns the first present, non-empty, trimmed string value.
func ResolveString(rec Raw, keys []string) string {
	for _, k := range keys {
		v, ok := lookup(rec, k)
		if !ok || v == nil {
			continue
		}
		if s := coerceString(v); s != "" {
			return s
		}
	}
	return ""
}

// RequireString は呼び出し側が値の存在を要求する場合に使います。
func RequireString(rec Raw, keys []string) (string, error) {
	if s := ResolveString(rec, keys); s != "" {
		return s, nil
	}
	return "", fmt.Errorf("%w: %s", ErrFieldMissing, strings.Join(keys, "|"))
}

// ResolveStringAcross resolves across multiple records in priority order.
// records[0] が最優先（= full プロジェクションを先頭に渡す）。
func ResolveStringAcross(records []Raw, keys []string) string {
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if s := ResolveString(rec, keys); s != "" {
			return s
		}
	}
	return ""
}

// ResolveInt returns the first resolvable integer value (0 if none).
func ResolveInt(rec Raw, keys []string) int {
	for _, k := range keys {
		v, ok := lookup(rec, k)
		if !ok || v == nil {
			continue
		}
		if n, ok := coerceInt(v); ok {
			return n
		}
	}
	return 0
}

// ResolveBool returns the first resolvable boolean value (false if none).
func ResolveBool(rec Raw, keys []string) bool {
	for _, k := range keys {
		v, ok := lookup(rec, k)
		if !ok || v == nil {
			continue
		}
		if b, ok := coerceBool(v); ok {
			return b
		}
	}
	return false
}

// ResolveBoolAcross resolves a boolean across records in priority order.
func ResolveBoolAcross(records []Raw, keys []string) bool {
	for _, rec := range records {
		if rec == nil {
			continue
		}
		for _, k := range keys {
			v, ok := lookup(rec, k)
			if !ok || v == nil {
				continue
			}
			if b, ok := coerceBool(v); ok {
				return b
			}
		}
	}
	return false
}

// ResolveTime returns the first resolvable timestamp, or nil.
// parse できない文字列は「値なし」として次のエイリアスへ進む（§7 malformed-datetime）。
func ResolveTime(rec Raw, keys []string) *time.Time {
	for _, k := range keys {
		v, ok := lookup(rec, k)
		if !ok || v == nil {
			continue
		}
		if t, ok := coerceTime(v); ok {
			return &t
		}
	}
	return nil
}

// ResolveTimeAcross resolves a timestamp across records in priority order.
func ResolveTimeAcross(records []Raw, keys []string) *time.Time {
	for _, rec := range records {
		if rec == nil {
			continue
		}
		if t := ResolveTime(rec, keys); t != nil {
			return t
		}
	}
	return nil
}

// ------------------------------------------------------------
// coercions
// ------------------------------------------------------------

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case *string:
		if s == nil {
			return ""
		}
		return strings.TrimSpace(*s)
	default:
		return ""
	}
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		return 0, false
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func coerceBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case *bool:
		if b == nil {
			return false, false
		}
		return *b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true":
			return true, true
		case "false":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

func coerceTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		parsed, err := mintrequestdom.ParseTime(s)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}
