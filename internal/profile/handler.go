package profile

import (
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/apotekanet/crm-api/internal/auth"
	"github.com/apotekanet/crm-api/internal/policy"
	"github.com/apotekanet/crm-api/internal/utils"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Handler serves login, the caller's own profile and the admin-only user
// management routes.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

// Login verifies the credentials and issues the access token plus refresh
// cookie. POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	user, err := h.Repository.FindByEmail(h.DB, strings.TrimSpace(req.Email))
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	access, err := auth.IssueTokensOnLogin(h.DB, w, user.ID, user.Role)
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"access_token": access,
		"profile":      user.Identity(),
	})
}

// Me returns the caller's profile. GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	p, err := h.Repository.FindByID(h.DB, userID)
	if err != nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p.Identity())
}

// List returns all users. Admin only, enforced by middleware.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Repository.ListAll(h.DB)
	if err != nil {
		http.Error(w, "could not list users", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(profiles)
}

// Create registers a new user with a generated temporary password that is
// returned once in the response. Admin only, enforced by middleware.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	if fullName == "" || email == "" {
		http.Error(w, "full_name and email are required", http.StatusBadRequest)
		return
	}
	role := req.Role
	if role != policy.RoleAdmin {
		role = policy.RoleSalesRep
	}

	temp, err := utils.GenerateTemporaryPassword()
	if err != nil {
		http.Error(w, "could not generate password", http.StatusInternalServerError)
		return
	}
	hash, err := utils.HashPassword(temp)
	if err != nil {
		http.Error(w, "could not process password", http.StatusInternalServerError)
		return
	}

	p := Profile{
		FullName:     fullName,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := h.Repository.Save(h.DB, &p); err != nil {
		http.Error(w, "could not save user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"user":               p,
		"temporary_password": temp,
	})
}
