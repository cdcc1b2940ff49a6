// internal/domain/mint/repository_port.go
package mint

import "context"

// RepositoryPort は mints テーブルへの読み取りポートです。
// docId = inspectionId (= productionId) を前提とします。
type RepositoryPort interface {
	// GetByID: mints/{id} を 1 件取得します。見つからない場合は ErrNotFound。
	GetByID(ctx context.Context, id string) (MintRecord, error)

	// ListByProductionID:
	// 複数の productionId（= docId）に紐づく mints を productionId キーの map で返します。
	// レコードが無い id は map に含めません（エラーにしない）。
	ListByProductionID(ctx context.Context, productionIDs []string) (map[string]MintRecord, error)

	// ListRawByProductionID:
	// 同じ mints コレクションを、フィールド名のゆれを保ったままの raw map で返します。
	// list/full 両プロジェクションの正規化は application 層（FieldResolver）が担当。
	ListRawByProductionID(ctx context.Context, productionIDs []string) (map[string]map[string]any, error)
}
