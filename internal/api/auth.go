package api

import (
	"errors"
	"net/http"

	"gkmedicos/api/domain"
	"gkmedicos/api/internal/auth"
	"gkmedicos/api/internal/store"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.store.UserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respondStoreError(w, err, "unable to log in")
		return
	}
	// Unknown email and wrong password answer identically.
	if err != nil || !auth.CheckPassword(user.Password, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.issuer.Issue(auth.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, authResponse{Message: "Login successful", Token: token, User: user})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	user, err := h.store.UserByID(r.Context(), id.UserID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusUnauthorized, "user no longer exists")
		return
	}
	if err != nil {
		respondStoreError(w, err, "unable to load profile")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=owner staff"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeValid(w, r, &req) {
		return
	}
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	user, err := h.store.CreateUser(r.Context(), domain.User{Name: req.Name, Email: req.Email, Password: hashed, Role: req.Role})
	if err != nil {
		respondStoreError(w, err, "unable to register user")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "User registered successfully", "user": user})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}
	if !decodeValid(w, r, &payload) {
		return
	}
	id, _ := auth.FromContext(r.Context())
	hashed, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	if err := h.store.UpdatePassword(r.Context(), id.UserID, hashed); err != nil {
		respondStoreError(w, err, "unable to update password")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
