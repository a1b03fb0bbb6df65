package visit

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/apotekanet/crm-api/internal/auth"
	"github.com/apotekanet/crm-api/internal/policy"
)

type visitRequest struct {
	PharmacyID string `json:"pharmacy_id"`
	VisitDate  string `json:"visit_date"` // RFC 3339
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

// Handler serves the /visits routes. Non-admin callers only ever see their
// own rows; the filter is applied here, never by the client.
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

// Create logs a new visit attributed to the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.PharmacyID) == "" || strings.TrimSpace(req.VisitDate) == "" {
		http.Error(w, "pharmacy_id and visit_date are required", http.StatusBadRequest)
		return
	}
	when, err := time.Parse(time.RFC3339, req.VisitDate)
	if err != nil {
		http.Error(w, "visit_date must be RFC 3339", http.StatusBadRequest)
		return
	}
	status := req.Status
	if status == "" {
		status = StatusPlanned
	}
	if !ValidStatus(status) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	v := Visit{
		PharmacyID: strings.TrimSpace(req.PharmacyID),
		VisitDate:  when.UTC(),
		Status:     status,
		Notes:      optionalNotes(req.Notes),
		SalesRepID: userID,
	}
	if err := h.Repository.Save(h.DB, &v); err != nil {
		http.Error(w, "could not save visit", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(v)
}

func optionalNotes(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// List returns visits ordered by date, restricted to the caller's own rows
// unless the caller is an admin.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var (
		visits []Visit
		err    error
	)
	if auth.RoleFrom(r.Context()) == policy.RoleAdmin {
		visits, err = h.Repository.ListAll(h.DB, "visit_date")
	} else {
		visits, err = h.Repository.ListBySalesRep(h.DB, userID, "visit_date")
	}
	if err != nil {
		http.Error(w, "could not list visits", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(visits)
}

// FindByID returns one visit, applying the same visibility rule as List.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	isAdmin := auth.RoleFrom(r.Context()) == policy.RoleAdmin

	v, err := h.Repository.FindByID(h.DB, mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "visit not found", http.StatusNotFound)
		return
	}
	if !isAdmin && v.SalesRepID != userID {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// Update replaces the editable fields of a visit and returns the stored
// row. sales_rep_id never changes.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	isAdmin := auth.RoleFrom(r.Context()) == policy.RoleAdmin
	id := mux.Vars(r)["id"]

	existing, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		http.Error(w, "visit not found", http.StatusNotFound)
		return
	}
	if !isAdmin && existing.SalesRepID != userID {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.PharmacyID) == "" || strings.TrimSpace(req.VisitDate) == "" {
		http.Error(w, "pharmacy_id and visit_date are required", http.StatusBadRequest)
		return
	}
	when, err := time.Parse(time.RFC3339, req.VisitDate)
	if err != nil {
		http.Error(w, "visit_date must be RFC 3339", http.StatusBadRequest)
		return
	}
	if req.Status != "" && !ValidStatus(req.Status) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}

	next := Visit{
		PharmacyID: strings.TrimSpace(req.PharmacyID),
		VisitDate:  when.UTC(),
		Status:     req.Status,
		Notes:      optionalNotes(req.Notes),
	}
	if next.Status == "" {
		next.Status = existing.Status
	}

	updated, err := h.Repository.Update(h.DB, id, &next)
	if err != nil {
		http.Error(w, "could not update visit", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Delete removes a visit, applying the same visibility rule as List.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFrom(r.Context())
	isAdmin := auth.RoleFrom(r.Context()) == policy.RoleAdmin
	id := mux.Vars(r)["id"]

	existing, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		http.Error(w, "visit not found", http.StatusNotFound)
		return
	}
	if !isAdmin && existing.SalesRepID != userID {
		http.Error(w, "access denied", http.StatusForbidden)
		return
	}

	if err := h.Repository.Delete(h.DB, id); err != nil {
		http.Error(w, "could not delete visit", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
