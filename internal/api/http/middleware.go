package http

import (
	"context"
	"net/http"
	"strings"

	"roadshare-backend/internal/domain"
	"roadshare-backend/internal/logger"
	"roadshare-backend/internal/repository"
	"roadshare-backend/internal/security"
)

type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyRole   contextKey = "role"
)

// AuthMiddleware authenticates requests from a bearer token. Locally issued
// JWTs are validated with the token manager; when a Firebase verifier is
// configured, tokens that fail local validation are tried against Firebase
// and resolved to a local user row by email.
type AuthMiddleware struct {
	tokenManager security.TokenManager
	firebase     *security.FirebaseVerifier
	userRepo     repository.UserRepository
}

func NewAuthMiddleware(tokenManager security.TokenManager, firebase *security.FirebaseVerifier, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		tokenManager: tokenManager,
		firebase:     firebase,
		userRepo:     userRepo,
	}
}

// Authenticate wraps a handler and requires a valid bearer token.
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		userID, role, err := m.resolve(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		ctx = context.WithValue(ctx, contextKeyRole, role)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin wraps an already authenticated handler and rejects non-admins.
func (m *AuthMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		if RoleFromContext(r.Context()) != string(domain.UserRoleAdmin) {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
			return
		}
		next(w, r)
	})
}

func (m *AuthMiddleware) resolve(ctx context.Context, token string) (int32, string, error) {
	claims, err := m.tokenManager.ValidateToken(token)
	if err == nil {
		if claims.Type != security.TokenTypeAccess {
			return 0, "", security.ErrWrongTokenType
		}
		return claims.UserID, claims.Role, nil
	}

	if m.firebase == nil {
		return 0, "", err
	}

	identity, fbErr := m.firebase.Verify(ctx, token)
	if fbErr != nil {
		return 0, "", fbErr
	}
	user, lookupErr := m.userRepo.GetByEmail(ctx, identity.Email)
	if lookupErr != nil {
		logger.Warn("firebase identity has no local user", "email", identity.Email)
		return 0, "", security.ErrInvalidToken
	}
	return user.ID, identity.Role, nil
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserIDFromContext returns the authenticated user's ID, or 0.
func UserIDFromContext(ctx context.Context) int32 {
	if id, ok := ctx.Value(contextKeyUserID).(int32); ok {
		return id
	}
	return 0
}

// RoleFromContext returns the authenticated user's role, or "".
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(contextKeyRole).(string); ok {
		return role
	}
	return ""
}
