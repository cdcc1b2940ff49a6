// internal/domain/inspection/entity.go
package inspection

import (
	"errors"
	"strings"
	"time"
)

// ===============================
// InspectionResult（検査結果の種類）
// ===============================

type InspectionResult string

const (
	InspectionNotYet InspectionResult = "notYet" // 未検査
	InspectionPassed InspectionResult = "passed" // 合格
	InspectionFailed InspectionResult = "failed" // 不合格
)

func IsValidInspectionResult(r InspectionResult) bool {
	switch r {
	case InspectionNotYet, InspectionPassed, InspectionFailed:
		return true
	default:
		return false
	}
}

// ===============================
// InspectionStatus（バッチ全体の状態）
// ===============================

type InspectionStatus string

const (
	InspectionStatusNotYet     InspectionStatus = "notYet"
	InspectionStatusInspecting InspectionStatus = "inspecting"
	InspectionStatusCompleted  InspectionStatus = "completed"
)

func IsValidInspectionStatus(s InspectionStatus) bool {
	switch s {
	case InspectionStatusNotYet, InspectionStatusInspecting, InspectionStatusCompleted:
		return true
	default:
		return false
	}
}

// ------------------------------------------------------
// InspectionItem: productId ごとの検査結果
// ------------------------------------------------------

type InspectionItem struct {
	ProductID        string            `json:"productId"`
	InspectionResult *InspectionResult `json:"inspectionResult"` // nil = 未記入
	InspectedBy      *string           `json:"inspectedBy"`
	InspectedAt      *time.Time        `json:"inspectedAt"`
}

// ------------------------------------------------------
// InspectionBatch: inspections テーブル 1 レコード
// docId = productionId（= inspectionId として扱う）
// ------------------------------------------------------

type InspectionBatch struct {
	ProductionID string           `json:"productionId"`
	Status       InspectionStatus `json:"status"`
	Inspections  []InspectionItem `json:"inspections"`
}

// ===============================
// Errors（inspection 専用）
// ===============================

var (
	ErrInvalidProductionID = errors.New("inspection: invalid productionId")
	ErrInvalidStatus       = errors.New("inspection: invalid status")
	ErrInvalidProductIDs   = errors.New("inspection: invalid productIds")
	ErrInvalidResult       = errors.New("inspection: invalid inspectionResult")
	ErrInvalidInspectedBy  = errors.New("inspection: invalid inspectedBy")
	ErrInvalidInspectedAt  = errors.New("inspection: invalid inspectedAt")
	ErrNotFound            = errors.New("inspection: not found")
)

// ===============================
// Constructors
// ===============================

func NewInspectionBatch(
	productionID string,
	status InspectionStatus,
	productIDs []string,
) (InspectionBatch, error) {

	pid := strings.TrimSpace(productionID)
	if pid == "" {
		return InspectionBatch{}, ErrInvalidProductionID
	}
	if status == "" {
		status = InspectionStatusNotYet
	}
	if !IsValidInspectionStatus(status) {
		return InspectionBatch{}, ErrInvalidStatus
	}

	ids := normalizeIDList(productIDs)
	if len(ids) == 0 {
		return InspectionBatch{}, ErrInvalidProductIDs
	}

	inspections := make([]InspectionItem, 0, len(ids))
	for _, id := range ids {
		r := InspectionNotYet
		inspections = append(inspections, InspectionItem{
			ProductID:        id,
			InspectionResult: &r,
			InspectedBy:      nil,
			InspectedAt:      nil,
		})
	}

	batch := InspectionBatch{
		ProductionID: pid,
		Status:       status,
		Inspections:  inspections,
	}

	if err := batch.validate(); err != nil {
		return InspectionBatch{}, err
	}
	return batch, nil
}

// ===============================
// Derived values
// ===============================

// PassedCount は inspectionResult == passed の件数を返します（= mintQuantity）。
func (b InspectionBatch) PassedCount() int {
	n := 0
	for _, it := range b.Inspections {
		if it.InspectionResult != nil && *it.InspectionResult == InspectionPassed {
			n++
		}
	}
	return n
}

// Quantity は検査対象の総数を返します（= productionQuantity）。
func (b InspectionBatch) Quantity() int {
	return len(b.Inspections)
}

// ===============================
// Behavior / Validation
// ===============================

func (b InspectionBatch) validate() error {
	if strings.TrimSpace(b.ProductionID) == "" {
		return ErrInvalidProductionID
	}
	if !IsValidInspectionStatus(b.Status) {
		return ErrInvalidStatus
	}
	if len(b.Inspections) == 0 {
		return ErrInvalidProductIDs
	}

	for _, ins := range b.Inspections {
		if strings.TrimSpace(ins.ProductID) == "" {
			return ErrInvalidProductIDs
		}

		// InspectionResult が nil の場合は「まだ何も書いていない」扱い。
		if ins.InspectionResult == nil {
			continue
		}
		if !IsValidInspectionResult(*ins.InspectionResult) {
			return ErrInvalidResult
		}

		switch *ins.InspectionResult {

		// ★ 検査結果が確定している状態は by / at 必須
		case InspectionPassed, InspectionFailed:
			if ins.InspectedBy == nil || strings.TrimSpace(*ins.InspectedBy) == "" {
				return ErrInvalidInspectedBy
			}
			if ins.InspectedAt == nil || ins.InspectedAt.IsZero() {
				return ErrInvalidInspectedAt
			}

		// ★ notYet の場合は互換性のため、by/at が入っていてもエラーにしない
		case InspectionNotYet:
		}
	}
	return nil
}

// Exported wrapper
func (b InspectionBatch) Validate() error {
	return b.validate()
}

// ===============================
// Helpers
// ===============================

func normalizeIDList(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
