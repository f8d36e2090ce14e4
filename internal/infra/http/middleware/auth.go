package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cariaestates/backoffice/internal/entity"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "role"
)

// AuthMiddleware valida o bearer token dos endpoints /admin. O 401 segue
// o shape normalizado de erro; o consumidor descarta o token e volta
// para o login ao recebê-lo.
type AuthMiddleware struct {
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: []byte(secret),
		tokenTTL:  12 * time.Hour,
	}
}

// IssueToken emite o JWT (HS256) da sessão recém-aberta.
func (m *AuthMiddleware) IssueToken(s *entity.Session) (string, error) {
	claims := jwt.MapClaims{
		"user_id": s.UserID,
		"role":    s.Role,
		"tenant":  s.TenantKey,
		"exp":     time.Now().Add(m.tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.jwtSecret)
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.jwtSecret, nil
		})

		if err != nil || !token.Valid {
			unauthorized(w, "Invalid token")
			return
		}

		ctx := r.Context()
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if userID, ok := claims["user_id"].(string); ok {
				ctx = context.WithValue(ctx, ctxUserID, userID)
			}
			if role, ok := claims["role"].(string); ok {
				ctx = context.WithValue(ctx, ctxRole, role)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":     message,
		"status_code": http.StatusUnauthorized,
		"code":        "UNAUTHORIZED",
	})
}

// UserIDFromContext devolve o user_id extraído do token ("" se ausente).
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

// RoleFromContext devolve o role extraído do token ("" se ausente).
func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}
