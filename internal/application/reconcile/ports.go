// internal/application/reconcile/ports.go
package reconcile

import (
	"context"

	inspectiondom "tracery/internal/domain/inspection"
	mintdom "tracery/internal/domain/mint"
)

// ============================================================
// Ports
// ============================================================
//
// reconcile が必要とする最小インターフェース。
// Firestore 実装（adapters/out/firestore）がそのまま差さる。

// ProductionLister は認証済み company 境界内の productions の
// raw リスティングを返します（フィールド名のゆれ込み）。
type ProductionLister interface {
	ListByCurrentCompany(ctx context.Context) ([]map[string]any, error)
}

// InspectionReader reads inspections/{productionId}.
type InspectionReader interface {
	GetByProductionID(ctx context.Context, productionID string) (inspectiondom.InspectionBatch, error)
	ListByProductionID(ctx context.Context, productionIDs []string) ([]inspectiondom.InspectionBatch, error)
}

// MintReader reads mints/{productionId}.
type MintReader interface {
	GetByID(ctx context.Context, id string) (mintdom.MintRecord, error)
	ListByProductionID(ctx context.Context, productionIDs []string) (map[string]mintdom.MintRecord, error)
	ListRawByProductionID(ctx context.Context, productionIDs []string) (map[string]map[string]any, error)
}

// ------------------------------------------------------------
// Optional capabilities（型アサーションで検出する）
// ------------------------------------------------------------

// inspectionListAller is probed when the id-scoped fetch fails.
type inspectionListAller interface {
	ListAll(ctx context.Context) ([]inspectiondom.InspectionBatch, error)
}

// mintListAllRawer is probed when the id-scoped fetch fails.
type mintListAllRawer interface {
	ListAllRaw(ctx context.Context) (map[string]map[string]any, error)
}
