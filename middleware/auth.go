package middleware

import (
	"log"
	"net/http"
	"strings"
	"studysync-backend/auth"
	"studysync-backend/models"
)

// AuthedHandler - обработчик, которому идентичность передается явно.
// Без прохождения через RequireAuth такой обработчик вызвать нельзя,
// поэтому "забытая" проверка токена исключена на уровне типов.
type AuthedHandler func(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims)

type AuthMiddleware struct {
	jwtService *auth.JWTService
}

func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// RequireAuth проверяет заголовок Authorization: Bearer <token>
// и передает клеймы в обработчик
func (am *AuthMiddleware) RequireAuth(next AuthedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Printf("❌ No bearer token for %s %s", r.Method, r.URL.Path)
			http.Error(w, `{"error": "Missing token"}`, http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		// Валидируем токен
		claims, err := am.jwtService.ValidateToken(token)
		if err != nil {
			log.Printf("❌ Invalid token for %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, `{"error": "Invalid token"}`, http.StatusUnauthorized)
			return
		}

		next(w, r, claims)
	}
}

// RequireAdmin пускает только администраторов. Построен поверх RequireAuth,
// так что без аутентификации сюда не попасть.
func (am *AuthMiddleware) RequireAdmin(next AuthedHandler) http.HandlerFunc {
	return am.RequireAuth(func(w http.ResponseWriter, r *http.Request, claims *auth.JWTClaims) {
		if claims.Role != models.RoleAdmin {
			log.Printf("❌ User %s (role: %s) tried to access admin route %s %s",
				claims.Email, claims.Role, r.Method, r.URL.Path)
			http.Error(w, `{"error": "Admin access required"}`, http.StatusForbidden)
			return
		}

		next(w, r, claims)
	})
}
