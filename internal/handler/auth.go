package handler

import (
	"net/http"

	"github.com/msomdec/messagely/internal/service"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	identity *service.IdentityService
	tokens   service.TokenIssuer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(identity *service.IdentityService, tokens service.TokenIssuer) *AuthHandler {
	return &AuthHandler{identity: identity, tokens: tokens}
}

// HandleRegister creates an account and returns a token for it.
// POST /auth/register
// Request:  {"username":"...","password":"...","firstName":"...","lastName":"...","phone":"..."}
// Response: 201 {"token":"..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Phone     string `json:"phone"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	profile, err := h.identity.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		writeServiceError(w, "register user", err)
		return
	}

	token, err := h.tokens.Sign(profile.Username)
	if err != nil {
		writeServiceError(w, "sign token", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

// HandleLogin checks credentials, records the login and returns a token.
// POST /auth/login
// Request:  {"username":"...","password":"..."}
// Response: {"token":"..."} or 401
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	username := service.NormalizeUsername(req.Username)
	ok, err := h.identity.Authenticate(r.Context(), username, req.Password)
	if err != nil {
		writeServiceError(w, "authenticate user", err)
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid user/password")
		return
	}

	if err := h.identity.UpdateLoginTimestamp(r.Context(), username); err != nil {
		writeServiceError(w, "update login timestamp", err)
		return
	}

	token, err := h.tokens.Sign(username)
	if err != nil {
		writeServiceError(w, "sign token", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
