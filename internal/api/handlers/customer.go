package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/api/middleware"
	"github.com/rafael/central-backend/internal/service"
)

type CustomerHandler struct {
	customerService *service.CustomerService
}

func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

type CreateCustomerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Document      string `json:"document"`
	Phone         string `json:"phone"`
	Birthday      string `json:"birthday"`
	AffiliateLink string `json:"affiliate_link"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Document *string `json:"document"`
	Phone    *string `json:"phone"`
	Birthday *string `json:"birthday"`
	Points   *int    `json:"points"`
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.customerService.Create(r.Context(), service.CreateCustomerInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Document:      req.Document,
		Phone:         req.Phone,
		Birthday:      req.Birthday,
		AffiliateLink: req.AffiliateLink,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *CustomerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.customerService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *CustomerHandler) ValidateAffiliateLink(w http.ResponseWriter, r *http.Request) {
	link := chi.URLParam(r, "link")
	if link == "" {
		writeError(w, http.StatusBadRequest, "affiliate link is required")
		return
	}

	validation, err := h.customerService.ValidateAffiliateLink(r.Context(), link)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validation)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	subjectID, _ := middleware.GetSubjectID(r.Context())
	if subjectID != id {
		writeError(w, http.StatusForbidden, "cannot modify another customer")
		return
	}

	var req UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customer, err := h.customerService.Update(r.Context(), id, service.UpdateCustomerInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Document: req.Document,
		Phone:    req.Phone,
		Birthday: req.Birthday,
		Points:   req.Points,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	subjectID, _ := middleware.GetSubjectID(r.Context())
	if subjectID != id {
		writeError(w, http.StatusForbidden, "cannot delete another customer")
		return
	}

	if err := h.customerService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Broker exposes the user a customer was referred by. A customer can
// only look up their own broker.
func (h *CustomerHandler) Broker(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	subjectID, _ := middleware.GetSubjectID(r.Context())
	if subjectID != id {
		writeError(w, http.StatusForbidden, "cannot view another customer's broker")
		return
	}

	broker, err := h.customerService.Broker(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, broker)
}
