// internal/adapters/in/http/handlers/reconcileExport_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"tracery/internal/application/usecase"
)

// ReconcileExportHandler は reconciliation スナップショットのGCSエクスポートを担当します。
type ReconcileExportHandler struct {
	uc *usecase.ReconcileExportUsecase
}

func NewReconcileExportHandler(uc *usecase.ReconcileExportUsecase) http.Handler {
	return &ReconcileExportHandler{uc: uc}
}

// ServeHTTP はHTTPルーティングの入口です。
func (h *ReconcileExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// POST /reconciliation/export → スナップショットを書き出してパスを返す
	if r.Method != http.MethodPost || r.URL.Path != "/reconciliation/export" {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
		return
	}

	path, err := h.uc.Export(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]string{"path": path})
}
