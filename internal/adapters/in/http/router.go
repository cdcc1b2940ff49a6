// internal/adapters/in/http/router.go
package httpin

import (
	"encoding/json"
	"net/http"

	"tracery/internal/adapters/in/http/handlers"
	"tracery/internal/adapters/in/http/middleware"
	"tracery/internal/application/reconcile"
	"tracery/internal/application/usecase"
)

// RouterDeps はルータ組み立てに必要な依存の束。
// DI コンテナ側で構築して NewRouter に渡す。
type RouterDeps struct {
	Reconciler    *reconcile.Service
	MintRequestUC *usecase.MintRequestUsecase
	ExportUC      *usecase.ReconcileExportUsecase
	FirebaseAuth  *middleware.FirebaseAuthClient
}

// NewRouter は全エンドポイントを組み立てた http.Handler を返します。
//
// ミドルウェアの順序は CORS → Recover → Auth。
// /healthz のみ Auth を通さない（Cloud Run のヘルスチェック用）。
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// =========================================
	// Health check（認証なし）
	// =========================================
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// =========================================
	// Auth middleware
	// =========================================
	var authMw *middleware.AuthMiddleware
	if deps.FirebaseAuth != nil {
		authMw = &middleware.AuthMiddleware{
			FirebaseAuth: deps.FirebaseAuth,
		}
	}

	withAuth := func(h http.Handler) http.Handler {
		if authMw != nil {
			return authMw.Handler(h)
		}
		// ローカル開発時は FirebaseAuth なしで素通し
		return h
	}

	// =========================================
	// /mint-requests
	// =========================================
	if deps.Reconciler != nil {
		h := withAuth(handlers.NewMintRequestHandler(deps.Reconciler, deps.MintRequestUC))
		mux.Handle("/mint-requests", h)
		mux.Handle("/mint-requests/", h)
	}

	// =========================================
	// /reconciliation/export
	// =========================================
	if deps.ExportUC != nil {
		h := withAuth(handlers.NewReconcileExportHandler(deps.ExportUC))
		mux.Handle("/reconciliation/export", h)
	}

	// CORS → Recover の順で外側から包む
	return middleware.CORS(middleware.Recover(mux))
}
