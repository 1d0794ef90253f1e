package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/repository"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/server/authctx"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	Users repository.UserRepository
}

func (h UserHandler) RegisterProfileRoutes(r chi.Router) {
	r.Get("/me", h.me)
	r.Put("/me", h.updateMe)
	r.Put("/me/password", h.changePassword)
}

func (h UserHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/employees", h.listEmployees)
	r.Post("/employees", h.createEmployee)
	r.Put("/employees/{id}", h.updateEmployee)
	r.Delete("/employees/{id}", h.deleteEmployee)
}

func (h UserHandler) me(w http.ResponseWriter, r *http.Request) {
	cu := authctx.FromContext(r.Context())
	if cu == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.Users.GetByID(r.Context(), cu.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, userView(*user))
}

func (h UserHandler) updateMe(w http.ResponseWriter, r *http.Request) {
	cu := authctx.FromContext(r.Context())
	if cu == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	current, err := h.Users.GetByID(r.Context(), cu.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
		Avatar  *string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	params := repository.UpdateUserParams{
		Name:    current.Name,
		Phone:   current.Phone,
		Address: current.Address,
		Avatar:  current.Avatar,
		Salary:  current.Salary,
	}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.Phone != nil {
		params.Phone = *req.Phone
	}
	if req.Address != nil {
		params.Address = *req.Address
	}
	if req.Avatar != nil {
		params.Avatar = *req.Avatar
	}

	user, err := h.Users.Update(r.Context(), cu.ID, params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, userView(*user))
}

func (h UserHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	cu := authctx.FromContext(r.Context())
	if cu == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "newPassword is required")
		return
	}

	user, err := h.Users.GetByID(r.Context(), cu.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user.PasswordHash != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			writeError(w, http.StatusUnauthorized, "current password is incorrect")
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.Users.UpdatePassword(r.Context(), cu.ID, string(hash)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "password updated"})
}

func (h UserHandler) listEmployees(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context(), domain.RoleEmployee, 500)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := make([]map[string]any, 0, len(users))
	for _, u := range users {
		resp = append(resp, userView(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h UserHandler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
		Avatar   string `json:"avatar"`
		Salary   int64  `json:"salary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	hashStr := string(hash)

	user, err := h.Users.Create(r.Context(), repository.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Avatar:       req.Avatar,
		Salary:       req.Salary,
		Role:         domain.RoleEmployee,
		PasswordHash: &hashStr,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "email already used")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, userView(*user))
}

func (h UserHandler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	current, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "employee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
		Avatar  *string `json:"avatar"`
		Salary  *int64  `json:"salary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	params := repository.UpdateUserParams{
		Name:    current.Name,
		Phone:   current.Phone,
		Address: current.Address,
		Avatar:  current.Avatar,
		Salary:  current.Salary,
	}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.Phone != nil {
		params.Phone = *req.Phone
	}
	if req.Address != nil {
		params.Address = *req.Address
	}
	if req.Avatar != nil {
		params.Avatar = *req.Avatar
	}
	if req.Salary != nil {
		params.Salary = *req.Salary
	}

	user, err := h.Users.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, userView(*user))
}

func (h UserHandler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "employee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user.Role == domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "admin accounts cannot be deleted")
		return
	}

	if err := h.Users.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "employee deleted"})
}
