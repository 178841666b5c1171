package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/api/middleware"
	"github.com/rafael/central-backend/internal/service"
)

type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

type CreateUserRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Document        string `json:"document"`
	Phone           string `json:"phone"`
	Localization    string `json:"localization"`
	Enterprise      string `json:"enterprise"`
	CompanyPosition string `json:"company_position"`
	Website         string `json:"website"`
	Birthday        string `json:"birthday"`
	Bio             string `json:"bio"`
}

type UpdateUserRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	Document        *string `json:"document"`
	Phone           *string `json:"phone"`
	Localization    *string `json:"localization"`
	Enterprise      *string `json:"enterprise"`
	CompanyPosition *string `json:"company_position"`
	Website         *string `json:"website"`
	Birthday        *string `json:"birthday"`
	Bio             *string `json:"bio"`
	Points          *int    `json:"points"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ApproveRequest struct {
	Approve bool `json:"approve"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), service.CreateUserInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Document:        req.Document,
		Phone:           req.Phone,
		Localization:    req.Localization,
		Enterprise:      req.Enterprise,
		CompanyPosition: req.CompanyPosition,
		Website:         req.Website,
		Birthday:        req.Birthday,
		Bio:             req.Bio,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := middleware.GetSubjectID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}
	token, ok := middleware.GetToken(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	if err := h.authService.Logout(r.Context(), subjectID, token); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Update lets a user change only their own record.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	subjectID, _ := middleware.GetSubjectID(r.Context())
	if subjectID != id {
		writeError(w, http.StatusForbidden, "cannot modify another user")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Update(r.Context(), id, service.UpdateUserInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Document:        req.Document,
		Phone:           req.Phone,
		Localization:    req.Localization,
		Enterprise:      req.Enterprise,
		CompanyPosition: req.CompanyPosition,
		Website:         req.Website,
		Birthday:        req.Birthday,
		Bio:             req.Bio,
		Points:          req.Points,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	subjectID, _ := middleware.GetSubjectID(r.Context())
	if subjectID != id {
		writeError(w, http.StatusForbidden, "cannot delete another user")
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) Pending(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.PendingUsers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.userService.Approve(r.Context(), id, req.Approve); err != nil {
		writeServiceError(w, err)
		return
	}

	status := "rejected"
	if req.Approve {
		status = "approved"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}
