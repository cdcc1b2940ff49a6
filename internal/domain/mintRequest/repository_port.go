// internal/domain/mintRequest/repository_port.go
package mintrequest

import "context"

// Repository は mintRequest ドメインの永続化ポートです。
// アダプタ層（PostgreSQL など）はこのインターフェースを実装します。
//
// ステータスは planning → requested → minted の一方向にのみ動かすこと。
// （エンティティはスナップショット検証のみを行い、順序の強制は実装側の責務）
type Repository interface {
	// GetByID は mintRequest を ID で 1 件取得します。
	// 見つからない場合は ErrNotFound を返します。
	GetByID(ctx context.Context, id string) (MintRequest, error)

	// ListByProductionIDs:
	// 指定された複数の productionId のいずれかに紐づく
	// すべての MintRequest を取得します。
	ListByProductionIDs(ctx context.Context, productionIDs []string) ([]MintRequest, error)

	// Create は新しい MintRequest を保存します。
	Create(ctx context.Context, mr MintRequest) (MintRequest, error)

	// Update は既存の MintRequest を保存します。
	// 対象が存在しない場合は ErrNotFound を返します。
	Update(ctx context.Context, mr MintRequest) (MintRequest, error)
}
