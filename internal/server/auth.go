package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if !h.cfg.Auth.Enabled {
		h.respondError(w, http.StatusBadRequest, "authentication is disabled", "server.handleLogin")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.BodySizeBytes())
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "failed to decode login request", "server.handleLogin")
		return
	}

	user, ok := h.findUser(req.Username)
	if !ok || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		// Same response for unknown user and wrong password.
		h.respondError(w, http.StatusUnauthorized, "invalid credentials", "server.handleLogin")
		return
	}

	now := time.Now()
	expires := now.Add(h.cfg.Auth.TTL())
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.Auth.JWTSecret))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to sign session token", "server.handleLogin")
		return
	}

	h.logger.Info("login succeeded",
		zap.String("op", "server.handleLogin"),
		zap.String("username", user.Username),
	)
	h.writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expires.UTC().Format(time.RFC3339),
	})
}

func (h *handler) findUser(username string) (UserConfig, bool) {
	for _, user := range h.cfg.Auth.Users {
		if user.Username == username {
			return user, true
		}
	}
	return UserConfig{}, false
}

// requireAuth wraps a handler with the login gate. The gate authorizes the
// session only; the engine takes no identity parameters.
func (h *handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.cfg.Auth.Enabled {
			next(w, r)
			return
		}

		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		const prefix = "Bearer "
		if !strings.HasPrefix(raw, prefix) {
			h.respondError(w, http.StatusUnauthorized, "missing bearer token", "server.requireAuth")
			return
		}

		_, err := jwt.ParseWithClaims(strings.TrimPrefix(raw, prefix), &jwt.RegisteredClaims{},
			func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(h.cfg.Auth.JWTSecret), nil
			})
		if err != nil {
			h.respondError(w, http.StatusUnauthorized, "invalid or expired session token", "server.requireAuth")
			return
		}

		next(w, r)
	}
}
