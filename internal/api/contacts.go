package api

import (
	"net/http"
	"strings"

	"gkmedicos/api/domain"
)

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Message string `json:"message" validate:"required"`
}

func (h *Handler) createContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeValid(w, r, &req) {
		return
	}
	contact, err := h.store.CreateContact(r.Context(), domain.Contact{
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	})
	if err != nil {
		respondStoreError(w, err, "unable to save message")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Your message has been sent successfully. We will contact you soon.",
		"contact": contact,
	})
}

func (h *Handler) listContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.store.ListContacts(r.Context())
	if err != nil {
		respondStoreError(w, err, "unable to list messages")
		return
	}
	respondJSON(w, http.StatusOK, contacts)
}

func (h *Handler) updateContactStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "contact")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" validate:"required,oneof=new contacted resolved"`
	}
	if !decodeValid(w, r, &req) {
		return
	}
	contact, err := h.store.UpdateContactStatus(r.Context(), id, req.Status)
	if err != nil {
		respondStoreError(w, err, "unable to update status")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Status updated", "contact": contact})
}
