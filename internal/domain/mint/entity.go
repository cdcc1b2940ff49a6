// internal/domain/mint/entity.go
package mint

import (
	"errors"
	"strings"
	"time"
)

// ------------------------------------------------------
// Entity: MintRecord (mints テーブル 1 レコード)
// ------------------------------------------------------
//
// 想定テーブル構造:
//
// - id                 : string                // mint トランザクションID
// - inspectionId       : string                // 元になった inspections ドキュメントID（= productionId）
// - tokenBlueprintId   : string
// - createdAt          : time.Time             // リクエスト日時
// - createdBy          : string                // リクエストしたメンバーID
// - createdByName      : string                // リクエスト者の表示名（解決済みの場合のみ）
// - minted             : bool
// - mintedAt           : *time.Time            // minted のときのみ
// - scheduledBurnDate  : *time.Time            // バーン予定日時・任意
// - txSignature        : string                // オンチェーン tx シグネチャ（mint 後のみ）
type MintRecord struct {
	ID               string `json:"id"`
	InspectionID     string `json:"inspectionId"`
	TokenBlueprintID string `json:"tokenBlueprintId"`

	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	CreatedByName string    `json:"createdByName,omitempty"`

	Minted            bool       `json:"minted"`
	MintedAt          *time.Time `json:"mintedAt,omitempty"`
	ScheduledBurnDate *time.Time `json:"scheduledBurnDate,omitempty"`
	TxSignature       string     `json:"txSignature,omitempty"`
}

// ------------------------------------------------------
// Errors
// ------------------------------------------------------

var (
	ErrInvalidTokenBlueprintID  = errors.New("mint: invalid tokenBlueprintId")
	ErrInvalidInspectionID      = errors.New("mint: invalid inspectionId")
	ErrInvalidCreatedBy         = errors.New("mint: invalid createdBy")
	ErrInvalidCreatedAt         = errors.New("mint: invalid createdAt")
	ErrInvalidMintedAt          = errors.New("mint: invalid mintedAt")
	ErrInconsistentMintedStatus = errors.New("mint: inconsistent minted / mintedAt")
	ErrNotFound                 = errors.New("mint: not found")
)

// ------------------------------------------------------
// Constructors
// ------------------------------------------------------

func NewMintRecord(
	id string,
	inspectionID string,
	tokenBlueprintID string,
	createdBy string,
	createdAt time.Time,
) (MintRecord, error) {

	iid := strings.TrimSpace(inspectionID)
	if iid == "" {
		return MintRecord{}, ErrInvalidInspectionID
	}
	tbID := strings.TrimSpace(tokenBlueprintID)
	if tbID == "" {
		return MintRecord{}, ErrInvalidTokenBlueprintID
	}
	cb := strings.TrimSpace(createdBy)
	if cb == "" {
		return MintRecord{}, ErrInvalidCreatedBy
	}
	if createdAt.IsZero() {
		return MintRecord{}, ErrInvalidCreatedAt
	}

	m := MintRecord{
		ID:               strings.TrimSpace(id),
		InspectionID:     iid,
		TokenBlueprintID: tbID,
		CreatedAt:        createdAt.UTC(),
		CreatedBy:        cb,
		Minted:           false,
		MintedAt:         nil,
		// 新規作成時点では ScheduledBurnDate は未定なので nil
		ScheduledBurnDate: nil,
	}

	if err := m.validate(); err != nil {
		return MintRecord{}, err
	}
	return m, nil
}

// ------------------------------------------------------
// Behavior
// ------------------------------------------------------

// MarkMinted はミント完了を表現するドメイン操作です。
// - at がゼロ時刻の場合は ErrInvalidMintedAt を返します。
func (m *MintRecord) MarkMinted(at time.Time, txSignature string) error {
	if at.IsZero() {
		return ErrInvalidMintedAt
	}
	atUTC := at.UTC()

	m.Minted = true
	m.MintedAt = &atUTC
	m.TxSignature = strings.TrimSpace(txSignature)

	return m.validate()
}

// ResetMinted はミント状態を未ミントへ戻します（再ミントなどのケース想定）。
func (m *MintRecord) ResetMinted() {
	m.Minted = false
	m.MintedAt = nil
	m.TxSignature = ""
}

// Validate はエンティティの一貫性チェックを公開します。
func (m MintRecord) Validate() error {
	return m.validate()
}

// ------------------------------------------------------
// internal validation
// ------------------------------------------------------

func (m MintRecord) validate() error {
	// ID は必須扱いにはしない（リポジトリ層で採番するケースを許容）
	if strings.TrimSpace(m.InspectionID) == "" {
		return ErrInvalidInspectionID
	}
	if m.TokenBlueprintID == "" {
		return ErrInvalidTokenBlueprintID
	}
	if strings.TrimSpace(m.CreatedBy) == "" {
		return ErrInvalidCreatedBy
	}
	if m.CreatedAt.IsZero() {
		return ErrInvalidCreatedAt
	}

	// minted / mintedAt の整合性チェック
	if m.Minted {
		if m.MintedAt == nil || m.MintedAt.IsZero() {
			return ErrInconsistentMintedStatus
		}
	} else {
		// minted=false のとき mintedAt が入っていたら矛盾として扱う
		if m.MintedAt != nil && !m.MintedAt.IsZero() {
			return ErrInconsistentMintedStatus
		}
	}

	return nil
}
