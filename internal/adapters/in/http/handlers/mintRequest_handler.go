// internal/adapters/in/http/handlers/mintRequest_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"tracery/internal/application/reconcile"
	"tracery/internal/application/usecase"
	mintreqdom "tracery/internal/domain/mintRequest"
	solanainfra "tracery/internal/infra/solana"
)

// MintRequestHandler は /mint-requests 関連のエンドポイントを担当します。
//
// 一覧は非永続の reconciliation ビュー（毎リクエスト再計算）、
// POST は mint_requests テーブルへの提出。
type MintRequestHandler struct {
	reconciler *reconcile.Service
	uc         *usecase.MintRequestUsecase
}

// NewMintRequestHandler はHTTPハンドラを初期化します。
func NewMintRequestHandler(
	reconciler *reconcile.Service,
	uc *usecase.MintRequestUsecase,
) http.Handler {
	return &MintRequestHandler{
		reconciler: reconciler,
		uc:         uc,
	}
}

// ServeHTTP はHTTPルーティングの入口です。
func (h *MintRequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	// GET /mint-requests → 現在の companyId の reconciliation 一覧
	case r.Method == http.MethodGet && r.URL.Path == "/mint-requests":
		h.list(w, r)

	// POST /mint-requests → 提出
	case r.Method == http.MethodPost && r.URL.Path == "/mint-requests":
		h.submit(w, r)

	// GET /mint-requests/{productionId} → 詳細
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/mint-requests/"):
		id := strings.TrimPrefix(r.URL.Path, "/mint-requests/")
		h.detail(w, r, id)

	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
	}
}

// GET /mint-requests
func (h *MintRequestHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.reconciler.Reconcile(ctx)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	_ = json.NewEncoder(w).Encode(result)
}

// GET /mint-requests/{productionId}
func (h *MintRequestHandler) detail(w http.ResponseWriter, r *http.Request, id string) {
	ctx := r.Context()

	id = strings.TrimSpace(id)
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid id"})
		return
	}

	detail, err := h.reconciler.GetMintRequestDetail(ctx, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			w.WriteHeader(http.StatusNotFound)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	// txSignature の形式が崩れているレコードは監視ログに残す（応答は返す）
	if detail.Mint != nil && detail.Mint.TxSignature != "" {
		if verr := solanainfra.VerifyTxSignature(detail.Mint.TxSignature); verr != nil {
			log.Printf("[mintRequest_handler] WARN: malformed txSignature pid=%s err=%v", id, verr)
		}
	}

	_ = json.NewEncoder(w).Encode(detail)
}

// POST /mint-requests
func (h *MintRequestHandler) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// PG が解決できなかった場合も一覧/詳細は生かし、提出のみ落とす
	if h.uc == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "mint request submission is not available"})
		return
	}

	var body struct {
		TokenBlueprintID string `json:"tokenBlueprintId"`
		ProductionID     string `json:"productionId"`
		MintQuantity     int    `json:"mintQuantity"`
		BurnDate         string `json:"burnDate,omitempty"` // "2006-01-02" or RFC3339
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid json body"})
		return
	}

	in := usecase.SubmitMintRequestInput{
		TokenBlueprintID: body.TokenBlueprintID,
		ProductionID:     body.ProductionID,
		MintQuantity:     body.MintQuantity,
	}
	if s := strings.TrimSpace(body.BurnDate); s != "" {
		t, err := mintreqdom.ParseTime(s)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":      "validation failed",
				"violations": []string{"burnDate must be a valid date"},
			})
			return
		}
		in.BurnDate = &t
	}

	created, err := h.uc.Submit(ctx, in)
	if err != nil {
		var verr *mintreqdom.ValidationError
		if errors.As(err, &verr) {
			// 全違反を一括で返す
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":      "validation failed",
				"violations": verr.Violations,
			})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(mintRequestToDTO(created))
}

// ------------------------------------------------------------
// DTO
// ------------------------------------------------------------

type mintRequestDTO struct {
	ID               string `json:"id"`
	TokenBlueprintID string `json:"tokenBlueprintId"`
	ProductionID     string `json:"productionId"`
	MintQuantity     int    `json:"mintQuantity"`
	Status           string `json:"status"`

	BurnDate    *string `json:"burnDate,omitempty"`
	RequestedBy *string `json:"requestedBy,omitempty"`
	RequestedAt *string `json:"requestedAt,omitempty"`
	MintedAt    *string `json:"mintedAt,omitempty"`

	CreatedAt string `json:"createdAt"`
	CreatedBy string `json:"createdBy"`
}

func mintRequestToDTO(mr mintreqdom.MintRequest) mintRequestDTO {
	return mintRequestDTO{
		ID:               mr.ID,
		TokenBlueprintID: mr.TokenBlueprintID,
		ProductionID:     mr.ProductionID,
		MintQuantity:     mr.MintQuantity,
		Status:           string(mr.Status),
		BurnDate:         formatTimePtr(mr.BurnDate),
		RequestedBy:      mr.RequestedBy,
		RequestedAt:      formatTimePtr(mr.RequestedAt),
		MintedAt:         formatTimePtr(mr.MintedAt),
		CreatedAt:        mr.CreatedAt.UTC().Format(time.RFC3339),
		CreatedBy:        mr.CreatedBy,
	}
}

func formatTimePtr(p *time.Time) *string {
	if p == nil || p.IsZero() {
		return nil
	}
	s := p.UTC().Format(time.RFC3339)
	return &s
}
