// internal/application/reconcile/result.go
package reconcile

// Partial は「取れるだけ取って、取れなかった箇所はフィールド単位の
// エラー文字列として記録する」ための wrapper です。
// DTO ごとに nullable なエラー文字列フィールドを生やす代わりにこれを使う。
type Partial[T any] struct {
	Value T
	// FieldErrors: フィールド/ソース名 -> best-effort なエラー文字列
	FieldErrors map[string]string
}

func okPartial[T any](v T) Partial[T] {
	return Partial[T]{Value: v}
}

func (p *Partial[T]) addFieldError(field, msg string) {
	if field == "" || msg == "" {
		return
	}
	if p.FieldErrors == nil {
		p.FieldErrors = map[string]string{}
	}
	p.FieldErrors[field] = msg
}

// mergeFieldErrors は複数 Partial のフィールドエラーを 1 つの map にまとめます。
func mergeFieldErrors(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
