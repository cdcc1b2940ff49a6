// internal/domain/mintRequest/entity.go
package mintrequest

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MintRequestStatus: 'planning' | 'requested' | 'minted'
type MintRequestStatus string

const (
	StatusPlanning  MintRequestStatus = "planning"
	StatusRequested MintRequestStatus = "requested"
	StatusMinted    MintRequestStatus = "minted"
)

func IsValidStatus(s MintRequestStatus) bool {
	switch s {
	case StatusPlanning, StatusRequested, StatusMinted:
		return true
	default:
		return false
	}
}

// MintRequest は mint_requests テーブル 1 レコードです。
//
// ステータスは planning → requested → minted の一方向にのみ進む想定。
// エンティティ自体はスナップショットの整合性のみを検証し、
// 遷移順序の強制はリポジトリ層が担う。
type MintRequest struct {
	ID               string
	TokenBlueprintID string
	ProductionID     string
	MintQuantity     int
	BurnDate         *time.Time
	Status           MintRequestStatus
	RequestedBy      *string
	RequestedAt      *time.Time
	MintedAt         *time.Time

	CreatedAt time.Time
	CreatedBy string
	UpdatedAt time.Time
	UpdatedBy string
	DeletedAt *time.Time
	DeletedBy *string
}

// Errors
var (
	ErrNotFound           = errors.New("mintRequest: not found")
	ErrInvalidQuantity    = errors.New("mintRequest: invalid mintQuantity")
	ErrInvalidRequestedBy = errors.New("mintRequest: invalid requestedBy")
	ErrInvalidRequestedAt = errors.New("mintRequest: invalid requestedAt")
	ErrInvalidMintedAt    = errors.New("mintRequest: invalid mintedAt")
	ErrInvalidTransition  = errors.New("mintRequest: invalid status transition")
)

// ValidationError はスナップショット検証で見つかった全違反をまとめて保持します。
// 呼び出し側が一度にすべての問題を表示できるよう、単発エラーではなくリストで返す。
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "mintRequest: validation failed: " + strings.Join(e.Violations, "; ")
}

// Constructors

// New creates a MintRequest with full audit fields.
// 文字列は trim、空の optional は nil に正規化してから検証する。
// 違反が 1 件でもあれば ValidationError を返す。
func New(
	id, tokenBlueprintID, productionID string,
	mintQuantity int,
	burnDate *time.Time,
	status MintRequestStatus,
	requestedBy *string,
	requestedAt, mintedAt *time.Time,
	createdAt time.Time,
	createdBy string,
	updatedAt time.Time,
	updatedBy string,
	deletedAt *time.Time,
	deletedBy *string,
) (MintRequest, error) {
	mr := MintRequest{
		ID:               strings.TrimSpace(id),
		TokenBlueprintID: strings.TrimSpace(tokenBlueprintID),
		ProductionID:     strings.TrimSpace(productionID),
		MintQuantity:     mintQuantity,
		BurnDate:         normalizeTimePtr(burnDate),
		Status:           status,
		RequestedBy:      normalizeStringPtr(requestedBy),
		RequestedAt:      normalizeTimePtr(requestedAt),
		MintedAt:         normalizeTimePtr(mintedAt),

		CreatedAt: createdAt.UTC(),
		CreatedBy: strings.TrimSpace(createdBy),
		UpdatedAt: updatedAt.UTC(),
		UpdatedBy: strings.TrimSpace(updatedBy),
		DeletedAt: normalizeTimePtr(deletedAt),
		DeletedBy: normalizeStringPtr(deletedBy),
	}
	if mr.Status == "" {
		mr.Status = StatusPlanning
	}
	if err := mr.Validate(); err != nil {
		return MintRequest{}, err
	}
	return mr, nil
}

// NewPlanning is a convenience constructor for initial planning state.
// updatedAt/updatedBy are initialized with createdAt/createdBy.
func NewPlanning(id, tokenBlueprintID, productionID string, mintQuantity int, createdAt time.Time, createdBy string) (MintRequest, error) {
	return New(
		id, tokenBlueprintID, productionID,
		mintQuantity,
		nil,
		StatusPlanning,
		nil,
		nil, nil,
		createdAt, createdBy,
		createdAt, createdBy,
		nil, nil,
	)
}

// NewFromStrings parses times from ISO8601 strings (RFC3339). Pass "" for null.
// burnDate expects a date string "2006-01-02" or full RFC3339.
// parse できない日時は「検証違反」として Violations に載せる（握り潰さない）。
func NewFromStrings(
	id, tokenBlueprintID, productionID string,
	mintQuantity int,
	burnDate string, // "" to represent null
	status MintRequestStatus,
	requestedBy string, // "" to represent null
	requestedAt string, // "" to represent null
	mintedAt string, // "" to represent null
	createdAt string,
	createdBy string,
	updatedAt string,
	updatedBy string,
	deletedAt string, // "" to represent null
	deletedBy string, // "" to represent null
) (MintRequest, error) {

	violations := make([]string, 0, 4)

	parseOpt := func(field, s string) *time.Time {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		t, err := ParseTime(s)
		if err != nil {
			violations = append(violations, fmt.Sprintf("%s must be a valid datetime: %v", field, err))
			return nil
		}
		return &t
	}

	reqPtr := parseOpt("requestedAt", requestedAt)
	minPtr := parseOpt("mintedAt", mintedAt)
	burnPtr := parseOpt("burnDate", burnDate)
	delAtPtr := parseOpt("deletedAt", deletedAt)

	var ca, ua time.Time
	if t, err := ParseTime(createdAt); err != nil {
		violations = append(violations, fmt.Sprintf("createdAt must be a valid datetime: %v", err))
	} else {
		ca = t
	}
	if t, err := ParseTime(updatedAt); err != nil {
		violations = append(violations, fmt.Sprintf("updatedAt must be a valid datetime: %v", err))
	} else {
		ua = t
	}

	var byPtr *string
	if s := strings.TrimSpace(requestedBy); s != "" {
		byPtr = &s
	}
	var delByPtr *string
	if s := strings.TrimSpace(deletedBy); s != "" {
		delByPtr = &s
	}

	mr := MintRequest{
		ID:               strings.TrimSpace(id),
		TokenBlueprintID: strings.TrimSpace(tokenBlueprintID),
		ProductionID:     strings.TrimSpace(productionID),
		MintQuantity:     mintQuantity,
		BurnDate:         burnPtr,
		Status:           status,
		RequestedBy:      byPtr,
		RequestedAt:      reqPtr,
		MintedAt:         minPtr,
		CreatedAt:        ca,
		CreatedBy:        strings.TrimSpace(createdBy),
		UpdatedAt:        ua,
		UpdatedBy:        strings.TrimSpace(updatedBy),
		DeletedAt:        delAtPtr,
		DeletedBy:        delByPtr,
	}
	if mr.Status == "" {
		mr.Status = StatusPlanning
	}

	violations = append(violations, mr.Violations()...)
	if len(violations) > 0 {
		return MintRequest{}, &ValidationError{Violations: violations}
	}
	return mr, nil
}

// Behavior (state transitions)

// Request: planning -> requested (sets requestedBy/At)
func (m *MintRequest) Request(by string, at time.Time) error {
	if m.Status != StatusPlanning {
		return ErrInvalidTransition
	}
	by = strings.TrimSpace(by)
	if by == "" {
		return ErrInvalidRequestedBy
	}
	if at.IsZero() {
		return ErrInvalidRequestedAt
	}
	at = at.UTC()
	m.Status = StatusRequested
	m.RequestedBy = &by
	m.RequestedAt = &at
	m.MintedAt = nil
	return nil
}

// MarkMinted: requested -> minted (sets mintedAt)
func (m *MintRequest) MarkMinted(at time.Time) error {
	if m.Status != StatusRequested {
		return ErrInvalidTransition
	}
	if at.IsZero() {
		return ErrInvalidMintedAt
	}
	at = at.UTC()
	m.Status = StatusMinted
	m.MintedAt = &at
	return nil
}

// UpdateQuantity can be done only while planning.
func (m *MintRequest) UpdateQuantity(q int) error {
	if m.Status != StatusPlanning {
		return ErrInvalidTransition
	}
	if q <= 0 {
		return ErrInvalidQuantity
	}
	m.MintQuantity = q
	return nil
}

// Validation

// Validate returns nil, or a *ValidationError carrying every violation found.
func (m MintRequest) Validate() error {
	vs := m.Violations()
	if len(vs) == 0 {
		return nil
	}
	return &ValidationError{Violations: vs}
}

// Violations はスナップショットの全違反を human-readable な文字列で返します。
// 最初の違反で打ち切らず、呼び出し側が一括表示できるよう全件集める。
func (m MintRequest) Violations() []string {
	var vs []string

	if m.ID == "" {
		vs = append(vs, "id is required")
	}
	if m.TokenBlueprintID == "" {
		vs = append(vs, "tokenBlueprintId is required")
	}
	if m.ProductionID == "" {
		vs = append(vs, "productionId is required")
	}
	if m.MintQuantity <= 0 {
		vs = append(vs, "mintQuantity must be greater than 0")
	}
	if m.BurnDate != nil && m.BurnDate.IsZero() {
		vs = append(vs, "burnDate must be a valid date")
	}
	if !IsValidStatus(m.Status) {
		vs = append(vs, fmt.Sprintf("status %q is invalid", string(m.Status)))
	}

	// Coherence with status
	switch m.Status {
	case StatusPlanning:
		if m.RequestedBy != nil {
			vs = append(vs, "requestedBy must be absent while status is 'planning'")
		}
		if m.RequestedAt != nil {
			vs = append(vs, "requestedAt must be absent while status is 'planning'")
		}
		if m.MintedAt != nil {
			vs = append(vs, "mintedAt must be absent while status is 'planning'")
		}
	case StatusRequested:
		if m.RequestedBy == nil {
			vs = append(vs, "requestedBy is required for status 'requested'")
		}
		if m.RequestedAt == nil || m.RequestedAt.IsZero() {
			vs = append(vs, "requestedAt is required for status 'requested'")
		}
		if m.MintedAt != nil {
			vs = append(vs, "mintedAt must be absent while status is 'requested'")
		}
	case StatusMinted:
		if m.RequestedBy == nil {
			vs = append(vs, "requestedBy is required for status 'minted'")
		}
		if m.RequestedAt == nil || m.RequestedAt.IsZero() {
			vs = append(vs, "requestedAt is required for status 'minted'")
		}
		if m.MintedAt == nil || m.MintedAt.IsZero() {
			vs = append(vs, "mintedAt is required for status 'minted'")
		} else if m.RequestedAt != nil && m.MintedAt.Before(*m.RequestedAt) {
			vs = append(vs, "mintedAt must not be earlier than requestedAt")
		}
	}

	// Audit validations（created/updated 必須・deleted は任意ペア）
	if m.CreatedAt.IsZero() {
		vs = append(vs, "createdAt is required")
	}
	if strings.TrimSpace(m.CreatedBy) == "" {
		vs = append(vs, "createdBy is required")
	}
	if m.UpdatedAt.IsZero() {
		vs = append(vs, "updatedAt is required")
	}
	if strings.TrimSpace(m.UpdatedBy) == "" {
		vs = append(vs, "updatedBy is required")
	}
	if !m.CreatedAt.IsZero() && !m.UpdatedAt.IsZero() && m.UpdatedAt.Before(m.CreatedAt) {
		vs = append(vs, "updatedAt must not be earlier than createdAt")
	}
	if m.DeletedAt != nil && !m.CreatedAt.IsZero() && m.DeletedAt.Before(m.CreatedAt) {
		vs = append(vs, "deletedAt must not be earlier than createdAt")
	}
	// deletedAt / deletedBy は両方 null か両方セット
	if (m.DeletedAt == nil) != (m.DeletedBy == nil) {
		if m.DeletedAt == nil {
			vs = append(vs, "deletedAt is required when deletedBy is set")
		} else {
			vs = append(vs, "deletedBy is required when deletedAt is set")
		}
	}
	if m.DeletedBy != nil && strings.TrimSpace(*m.DeletedBy) == "" {
		vs = append(vs, "deletedBy must not be blank")
	}

	return vs
}

// Helpers

// ParseTime parses RFC3339 first, then legacy layouts ("2006-01-02" etc).
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty time")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %q", s)
}

func normalizeStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	if p.IsZero() {
		return nil
	}
	utc := p.UTC()
	return &utc
}

// MintRequestsTableDDL defines the SQL for the mint_requests table migration.
const MintRequestsTableDDL = `
-- MintRequests DDL generated from domain/mintRequest entity.
CREATE TABLE IF NOT EXISTS mint_requests (
  id UUID PRIMARY KEY,
  token_blueprint_id TEXT NOT NULL,
  production_id TEXT NOT NULL,
  mint_quantity INTEGER NOT NULL CHECK (mint_quantity > 0),
  burn_date DATE NULL,
  status TEXT NOT NULL DEFAULT 'planning' CHECK (status IN ('planning','requested','minted')),
  requested_by TEXT,
  requested_at TIMESTAMPTZ,
  minted_at TIMESTAMPTZ,

  created_at TIMESTAMPTZ NOT NULL,
  created_by TEXT NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  updated_by TEXT NOT NULL,
  deleted_at TIMESTAMPTZ,
  deleted_by TEXT,

  -- Non-empty checks
  CONSTRAINT chk_mint_requests_ids_non_empty CHECK (
    char_length(trim(id::text)) > 0
    AND char_length(trim(token_blueprint_id)) > 0
    AND char_length(trim(production_id)) > 0
  ),

  -- Audit coherence
  CONSTRAINT chk_mint_requests_time_order CHECK (
    updated_at >= created_at
    AND (deleted_at IS NULL OR deleted_at >= created_at)
  ),
  CONSTRAINT chk_mint_requests_deleted_pair CHECK (
    (deleted_at IS NULL AND deleted_by IS NULL) OR
    (deleted_at IS NOT NULL AND deleted_by IS NOT NULL)
  ),

  -- Coherence with status (mirrors entity validation)
  CONSTRAINT chk_mint_requests_status_coherence CHECK (
    (status = 'planning'  AND requested_by IS NULL AND requested_at IS NULL AND minted_at IS NULL) OR
    (status = 'requested' AND requested_by IS NOT NULL AND requested_at IS NOT NULL AND minted_at IS NULL) OR
    (status = 'minted'    AND requested_by IS NOT NULL AND requested_at IS NOT NULL AND minted_at IS NOT NULL AND minted_at >= requested_at)
  )
);

-- Useful indexes
CREATE INDEX IF NOT EXISTS idx_mint_requests_status             ON mint_requests(status);
CREATE INDEX IF NOT EXISTS idx_mint_requests_token_blueprint_id ON mint_requests(token_blueprint_id);
CREATE INDEX IF NOT EXISTS idx_mint_requests_production_id      ON mint_requests(production_id);
CREATE INDEX IF NOT EXISTS idx_mint_requests_burn_date          ON mint_requests(burn_date);
CREATE INDEX IF NOT EXISTS idx_mint_requests_created_at         ON mint_requests(created_at);
CREATE INDEX IF NOT EXISTS idx_mint_requests_deleted_at         ON mint_requests(deleted_at);
`
