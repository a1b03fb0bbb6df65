package pharmacy

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/apotekanet/crm-api/internal/notify"
)

type pharmacyRequest struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	City          string `json:"city"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	ContactPerson string `json:"contact_person"`
}

func (req pharmacyRequest) toModel() Pharmacy {
	return Pharmacy{
		Name:          strings.TrimSpace(req.Name),
		Address:       strings.TrimSpace(req.Address),
		City:          strings.TrimSpace(req.City),
		Phone:         optional(req.Phone),
		Email:         optional(req.Email),
		ContactPerson: optional(req.ContactPerson),
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Handler serves the /pharmacies routes.
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

// Create registers a new pharmacy. A duplicate name still saves but fires a
// best-effort alert webhook.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req pharmacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	p := req.toModel()
	if p.Name == "" || p.Address == "" || p.City == "" {
		http.Error(w, "name, address and city are required", http.StatusBadRequest)
		return
	}

	if n, err := h.Repository.CountByName(h.DB, p.Name); err == nil && n > 0 {
		go notify.SendDuplicatePharmacyAlert(p.Name, p.City)
	}

	if err := h.Repository.Save(h.DB, &p); err != nil {
		http.Error(w, "could not save pharmacy", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// List returns all pharmacies ordered by name.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	pharmacies, err := h.Repository.ListAll(h.DB, "name")
	if err != nil {
		http.Error(w, "could not list pharmacies", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pharmacies)
}

// Options returns the id+name pairs used by the visit dialogs.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	options, err := h.Repository.ListOptions(h.DB)
	if err != nil {
		http.Error(w, "could not list pharmacies", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(options)
}

// FindByID returns one pharmacy.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	p, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		http.Error(w, "pharmacy not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// Update replaces a pharmacy's editable fields and returns the stored row.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req pharmacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	next := req.toModel()
	if next.Name == "" || next.Address == "" || next.City == "" {
		http.Error(w, "name, address and city are required", http.StatusBadRequest)
		return
	}

	updated, err := h.Repository.Update(h.DB, id, &next)
	if err != nil {
		http.Error(w, "could not update pharmacy", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Delete removes a pharmacy.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Repository.Delete(h.DB, id); err != nil {
		http.Error(w, "could not delete pharmacy", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
