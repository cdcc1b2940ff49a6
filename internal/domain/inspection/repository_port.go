// internal/domain/inspection/repository_port.go
package inspection

import "context"

// RepositoryPort は inspections テーブルへの読み取りポートです。
// docId = productionId なので、GetByProductionID は Doc(id).Get に対応します。
type RepositoryPort interface {
	// GetByProductionID: inspections/{productionId} を取得します。
	// 見つからない場合は ErrNotFound を返します。
	GetByProductionID(ctx context.Context, productionID string) (InspectionBatch, error)

	// ListByProductionID:
	// 複数の productionId に紐づく inspections をまとめて取得します。
	// まだ inspections が作成されていない productionId はスキップします。
	ListByProductionID(ctx context.Context, productionIDs []string) ([]InspectionBatch, error)
}
