// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	"tracery/internal/application/usecase"
)

// FirebaseAuthClient は firebase auth クライアントのエイリアス。
// RouterDeps などからは *middleware.FirebaseAuthClient 型で受けられます。
type FirebaseAuthClient = fbauth.Client

// AuthMiddleware は
//
//   - Authorization: Bearer <ID_TOKEN>
//
// を検証し、memberId（= uid）と companyId（custom claim）を
// context に詰めて次のハンドラへ渡す。
// companyId claim はコンソールのプロビジョニングで設定される。
type AuthMiddleware struct {
	FirebaseAuth *FirebaseAuthClient
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if m.FirebaseAuth == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		// Firebase ID トークン検証
		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		ctx := usecase.WithMemberID(r.Context(), uid)

		// companyId は custom claim から取得
		cid := ""
		if raw, ok := token.Claims["companyId"]; ok {
			if s, ok2 := raw.(string); ok2 {
				cid = strings.TrimSpace(s)
			}
		}
		if cid != "" {
			ctx = usecase.WithCompanyID(ctx, cid)
			log.Printf("[AuthMiddleware] path=%s uid=%s companyId=%s", r.URL.Path, uid, cid)
		} else {
			// companyId が空だった場合もわかるようにログ
			log.Printf("[AuthMiddleware] path=%s uid=%s has NO companyId", r.URL.Path, uid)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
