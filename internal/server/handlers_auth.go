package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// --- JWT helpers ---

// signJWT creates a signed HMAC-SHA256 JWT for the given user.
func signJWT(user *models.User, config *common.AuthConfig) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.UserID,
		"email": user.Email,
		"role":  user.Role,
		"iss":   "terms-server",
		"iat":   now.Unix(),
		"exp":   now.Add(config.GetTokenExpiry()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// validateJWT parses and validates a JWT token string using the given secret.
func validateJWT(tokenString string, secret []byte) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return token, claims, nil
}

// validateUsername checks that a username is safe for storage.
// Rejects empty, too long, null bytes, and control characters.
func validateUsername(username string) string {
	if username == "" {
		return "username is required"
	}
	if len(username) > 128 {
		return "username must be 128 characters or fewer"
	}
	for _, c := range username {
		if c < 0x20 || c == 0x7f {
			return "username contains invalid control characters"
		}
	}
	return ""
}

// hashPassword bcrypt-hashes a password, truncating to bcrypt's 72-byte limit.
func hashPassword(password string) (string, error) {
	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes, 10)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// checkPassword compares a password against a stored bcrypt hash.
func checkPassword(hash, password string) bool {
	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes) == nil
}

// userResponse builds a safe response shape for a user account.
func userResponse(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"username": user.UserID,
		"email":    user.Email,
		"role":     user.Role,
	}
}

// --- User handlers ---

// handleUserRegister handles POST /v1/users - create a new account.
// The role is forced to "user" unless the requester is an authenticated
// admin.
func (s *Server) handleUserRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if errMsg := validateUsername(req.Username); errMsg != "" {
		WriteError(w, http.StatusBadRequest, errMsg)
		return
	}
	if req.Password == "" {
		WriteError(w, http.StatusBadRequest, "password is required")
		return
	}

	role := models.RoleUser
	if uc := common.UserContextFromContext(r.Context()); uc != nil && uc.Role == models.RoleAdmin && req.Role != "" {
		role = req.Role
	}

	ctx := r.Context()
	store := s.app.Storage.UserStore()

	if existing, err := store.GetUser(ctx, req.Username); err == nil && existing != nil {
		WriteError(w, http.StatusConflict, fmt.Sprintf("user '%s' already exists", req.Username))
		return
	}
	if req.Email != "" {
		if existing, err := store.GetUserByEmail(ctx, req.Email); err == nil && existing != nil {
			WriteError(w, http.StatusConflict, fmt.Sprintf("email '%s' already registered", req.Email))
			return
		}
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	user := &models.User{
		UserID:       req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	if err := store.SaveUser(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", req.Username).Msg("Failed to save user")
		WriteError(w, http.StatusInternalServerError, "failed to save user")
		return
	}

	WriteJSON(w, http.StatusCreated, userResponse(user))
}

// handleUserList handles GET /v1/users - admin-only list of usernames.
func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}

	usernames, err := s.app.Storage.UserStore().ListUsers(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list users")
		WriteError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if usernames == nil {
		usernames = []string{}
	}
	WriteJSON(w, http.StatusOK, usernames)
}

// handleUserGet handles GET /v1/users/{id} - self or admin.
func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request, username string) {
	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}
	if uc.UserID != username && uc.Role != models.RoleAdmin {
		WriteError(w, http.StatusForbidden, "cannot view another user's account")
		return
	}

	user, err := s.app.Storage.UserStore().GetUser(r.Context(), username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("Failed to get user")
		WriteError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("user '%s' not found", username))
		return
	}
	WriteJSON(w, http.StatusOK, userResponse(user))
}

// handleUserDelete handles DELETE /v1/users/{id} - admin-only.
func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request, username string) {
	if s.requireAdmin(w, r) == nil {
		return
	}

	ctx := r.Context()
	store := s.app.Storage.UserStore()

	user, err := store.GetUser(ctx, username)
	if err != nil || user == nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("user '%s' not found", username))
		return
	}

	if err := store.DeleteUser(ctx, username); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("Failed to delete user")
		WriteError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"deleted": username})
}

// --- Auth handlers ---

// handleLogin handles POST /v1/login - authenticate and issue a JWT.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	store := s.app.Storage.UserStore()

	user, err := store.GetUser(ctx, req.Username)
	if err != nil || user == nil || !checkPassword(user.PasswordHash, req.Password) {
		WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := signJWT(user, &s.app.Config.Auth)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to sign JWT for login")
		WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  userResponse(user),
	})
}

// handleValidate handles POST /v1/validate - validate a bearer token.
// The bearer middleware has already rejected invalid tokens, so reaching
// the handler with a user context means the token is good.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]interface{}{
			"username": uc.UserID,
			"email":    uc.Email,
			"role":     uc.Role,
		},
	})
}
