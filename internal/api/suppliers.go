package api

import (
	"net/http"
	"strings"

	"gkmedicos/api/domain"
)

type supplierRequest struct {
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Address   string `json:"address" validate:"required"`
	GSTNumber string `json:"gstNumber"`
}

func (req supplierRequest) supplier() domain.Supplier {
	return domain.Supplier{
		Name:      strings.TrimSpace(req.Name),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Address:   strings.TrimSpace(req.Address),
		GSTNumber: strings.TrimSpace(req.GSTNumber),
	}
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.store.ListSuppliers(r.Context())
	if err != nil {
		respondStoreError(w, err, "unable to list suppliers")
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if !decodeValid(w, r, &req) {
		return
	}
	supplier, err := h.store.CreateSupplier(r.Context(), req.supplier())
	if err != nil {
		respondStoreError(w, err, "unable to create supplier")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "Supplier added successfully", "supplier": supplier})
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "supplier")
	if !ok {
		return
	}
	var req supplierRequest
	if !decodeValid(w, r, &req) {
		return
	}
	sup := req.supplier()
	sup.ID = id
	supplier, err := h.store.UpdateSupplier(r.Context(), sup)
	if err != nil {
		respondStoreError(w, err, "unable to update supplier")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Supplier updated successfully", "supplier": supplier})
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "supplier")
	if !ok {
		return
	}
	if err := h.store.DeleteSupplier(r.Context(), id); err != nil {
		respondStoreError(w, err, "unable to delete supplier")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Supplier deleted successfully"})
}
