// internal/domain/production/repository_port.go
package production

import "context"

// RepositoryPort は productions テーブルへの読み取りポートです。
// この subsystem では書き込みは行わない（生産計画の登録は生産管理側）。
type RepositoryPort interface {
	// GetByID は Production を productionId で取得します。
	GetByID(ctx context.Context, id string) (*Production, error)

	// ListByCurrentCompany は認証済み companyId（ctx 経由）に紐づく
	// Production の生レコード一覧を返します。
	// フィールド名の歴史的ゆれを許容するため、戻り値は map ベースの raw です。
	ListByCurrentCompany(ctx context.Context) ([]map[string]any, error)
}
