// internal/application/reconcile/dto/row.go
package dto

import "time"

// MintRequestRowDTO は Production / InspectionBatch / MintRecord を
// productionId で join した一覧 1 行です（非永続・毎回再計算）。
// Key is productionId (= inspectionId = docId).
type MintRequestRowDTO struct {
	// stable ids
	ID           string `json:"id"`
	ProductionID string `json:"productionId"`

	// resolved display fields
	TokenName   string `json:"tokenName"`
	ProductName string `json:"productName"`

	// quantities
	MintQuantity       int `json:"mintQuantity"`       // = inspection の passed 件数
	ProductionQuantity int `json:"productionQuantity"` // = inspection の item 数 (fallback: production.quantity)

	// statuses
	Status           string `json:"status"`      // planning / requested / minted
	StatusLabel      string `json:"statusLabel"` // ローカライズ済み表示ラベル
	InspectionStatus string `json:"inspectionStatus"`

	// requester (mint.createdBy)
	RequestedBy   string `json:"requestedBy"`
	CreatedByName string `json:"createdByName"`

	// mint fields
	TokenBlueprintID   string     `json:"tokenBlueprintId"`
	ProductBlueprintID string     `json:"productBlueprintId"`
	Minted             bool       `json:"minted"`
	MintedAt           *time.Time `json:"mintedAt,omitempty"`
	ScheduledBurnDate  *time.Time `json:"scheduledBurnDate,omitempty"`
}

// ReconcileResultDTO は 1 回の reconciliation パスの出力です。
// Rows は ProductionIndex の並び順のまま。FieldErrors にはソース単位の
// best-effort なエラー文字列が入る（部分的劣化でも Rows は返る）。
type ReconcileResultDTO struct {
	Rows        []MintRequestRowDTO `json:"rows"`
	FieldErrors map[string]string   `json:"fieldErrors,omitempty"`
}
