// internal/domain/production/entity.go
package production

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// 汎用エラー（リポジトリ/サービス共通）
var (
	ErrNotFound = errors.New("production: not found")
	ErrInvalid  = errors.New("production: invalid")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func WrapInvalid(err error, msg string) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrInvalid, msg)
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalid, msg, err)
}

// ===== Types =====

// ModelQuantity はモデルバリエーションごとの生産数です。
type ModelQuantity struct {
	ModelID  string `json:"modelId"`
	Quantity int    `json:"quantity"`
}

// ProductionStatus
type ProductionStatus string

const (
	StatusManufacturing ProductionStatus = "manufacturing"
	StatusPrinted       ProductionStatus = "printed"
	StatusInspected     ProductionStatus = "inspected"
	StatusPlanning      ProductionStatus = "planning"
	StatusSuspended     ProductionStatus = "suspended"
)

func IsValidStatus(s ProductionStatus) bool {
	switch s {
	case StatusManufacturing, StatusPrinted, StatusInspected, StatusPlanning, StatusSuspended:
		return true
	default:
		return false
	}
}

// Production は productions テーブル 1 レコードです。
// この subsystem からは read-only（作成・更新は生産管理側が担当）。
type Production struct {
	ID                 string           `json:"id"`
	ProductBlueprintID string           `json:"productBlueprintId"`
	ProductName        string           `json:"productName"`
	Models             []ModelQuantity  `json:"models"` // [{modelId, quantity}]
	Quantity           int              `json:"quantity"`
	Status             ProductionStatus `json:"status"`
	CreatedBy          *string          `json:"createdBy,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"` // ゼロ許容
	UpdatedAt          time.Time        `json:"updatedAt"` // ゼロ許容
}

// ===== Errors =====
var (
	ErrInvalidID       = errors.New("production: invalid id")
	ErrInvalidModelID  = errors.New("production: invalid modelId")
	ErrInvalidQuantity = errors.New("production: invalid quantity")
	ErrInvalidStatus   = errors.New("production: invalid status")
)

// ===== Constructors =====

// New creates a Production. If status is empty, defaults to manufacturing.
// quantity が 0 以下の場合は models の quantity 合計で補完する。
func New(
	id, productBlueprintID, productName string,
	models []ModelQuantity,
	quantity int,
	status ProductionStatus,
	createdBy *string,
	createdAt time.Time,
) (Production, error) {
	if status == "" {
		status = StatusManufacturing
	}
	p := Production{
		ID:                 strings.TrimSpace(id),
		ProductBlueprintID: strings.TrimSpace(productBlueprintID),
		ProductName:        strings.TrimSpace(productName),
		Models:             normalizeModels(models),
		Quantity:           quantity,
		Status:             status,
		CreatedBy:          normalizePtr(createdBy),
		CreatedAt:          createdAt, // ゼロ許容
	}
	if p.Quantity <= 0 {
		p.Quantity = p.TotalModelQuantity()
	}
	if err := p.validate(); err != nil {
		return Production{}, err
	}
	return p, nil
}

// ===== Behavior =====

// TotalModelQuantity はモデルごとの生産数の合計を返します。
func (p Production) TotalModelQuantity() int {
	total := 0
	for _, mq := range p.Models {
		if mq.Quantity > 0 {
			total += mq.Quantity
		}
	}
	return total
}

// PlannedQuantity は表示用の予定生産数です。
// quantity が未設定のレガシーデータは models 合計で補完する。
func (p Production) PlannedQuantity() int {
	if p.Quantity > 0 {
		return p.Quantity
	}
	return p.TotalModelQuantity()
}

// ===== Validation =====

func (p Production) validate() error {
	if p.ID == "" {
		return ErrInvalidID
	}
	for _, mq := range p.Models {
		if strings.TrimSpace(mq.ModelID) == "" {
			return ErrInvalidModelID
		}
		if mq.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	if p.Quantity < 0 {
		return ErrInvalidQuantity
	}
	if !IsValidStatus(p.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// ===== Helpers =====

func normalizeModels(in []ModelQuantity) []ModelQuantity {
	out := make([]ModelQuantity, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, mq := range in {
		id := strings.TrimSpace(mq.ModelID)
		if id == "" || mq.Quantity <= 0 {
			continue
		}
		key := strings.ToLower(id)
		if _, ok := seen[key]; ok {
			// 既出はスキップ（必要なら数量を合算するロジックに変更可）
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ModelQuantity{ModelID: id, Quantity: mq.Quantity})
	}
	return out
}

func normalizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
