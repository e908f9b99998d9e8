package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"

	"gkmedicos/api/domain"
	"gkmedicos/api/internal/store"
)

type medicineRequest struct {
	Name              string   `json:"name" validate:"required"`
	Category          string   `json:"category" validate:"required"`
	BatchNumber       string   `json:"batchNumber" validate:"required"`
	ExpiryDate        string   `json:"expiryDate" validate:"required"`
	Quantity          *int64   `json:"quantity" validate:"required,min=0"`
	PurchasePrice     *float64 `json:"purchasePrice" validate:"required,min=0"`
	SellingPrice      *float64 `json:"sellingPrice" validate:"required,min=0"`
	SupplierID        int64    `json:"supplierId" validate:"required,gt=0"`
	LowStockThreshold *int64   `json:"lowStockThreshold" validate:"omitempty,min=0"`
}

// medicinePatchRequest mirrors medicineRequest with every field optional.
type medicinePatchRequest struct {
	Name              *string  `json:"name"`
	Category          *string  `json:"category"`
	BatchNumber       *string  `json:"batchNumber"`
	ExpiryDate        *string  `json:"expiryDate"`
	Quantity          *int64   `json:"quantity" validate:"omitempty,min=0"`
	PurchasePrice     *float64 `json:"purchasePrice" validate:"omitempty,min=0"`
	SellingPrice      *float64 `json:"sellingPrice" validate:"omitempty,min=0"`
	SupplierID        *int64   `json:"supplierId" validate:"omitempty,gt=0"`
	LowStockThreshold *int64   `json:"lowStockThreshold" validate:"omitempty,min=0"`
}

// parseDate accepts any common date or timestamp spelling and reduces it
// to a calendar date.
func parseDate(raw string) (string, bool) {
	t, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return "", false
	}
	return t.Format(domain.DateLayout), true
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.ListMedicines(r.Context(), store.MedicineFilter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		respondStoreError(w, err, "unable to list medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.store.LowStock(r.Context())
	if err != nil {
		respondStoreError(w, err, "unable to fetch low stock")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

// expiryAlert lists stock expiring between today and today+days. days
// comes from the query when positive, otherwise from configuration.
func (h *Handler) expiryAlert(w http.ResponseWriter, r *http.Request) {
	days := cast.ToInt(r.URL.Query().Get("days"))
	if days <= 0 {
		days = h.opts.ExpiryAlertDays
	}
	today := startOfDay(h.store.Now())
	medicines, err := h.store.ExpiringBetween(r.Context(), today, today.AddDate(0, 0, days))
	if err != nil {
		respondStoreError(w, err, "unable to fetch alerts")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "medicine")
	if !ok {
		return
	}
	medicine, err := h.store.MedicineByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "unable to load medicine")
		return
	}
	respondJSON(w, http.StatusOK, medicine)
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if !decodeValid(w, r, &req) {
		return
	}
	expiry, ok := parseDate(req.ExpiryDate)
	if !ok {
		respondError(w, http.StatusBadRequest, "expiryDate is not a valid date")
		return
	}
	threshold := int64(domain.DefaultLowStockThreshold)
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}
	medicine, err := h.store.CreateMedicine(r.Context(), domain.Medicine{
		Name:              strings.TrimSpace(req.Name),
		Category:          strings.TrimSpace(req.Category),
		BatchNumber:       strings.TrimSpace(req.BatchNumber),
		ExpiryDate:        expiry,
		Quantity:          *req.Quantity,
		PurchasePrice:     *req.PurchasePrice,
		SellingPrice:      *req.SellingPrice,
		SupplierID:        req.SupplierID,
		LowStockThreshold: threshold,
	})
	if err != nil {
		respondStoreError(w, err, "unable to create medicine")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "Medicine added successfully", "medicine": medicine})
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "medicine")
	if !ok {
		return
	}
	var req medicinePatchRequest
	if !decodeValid(w, r, &req) {
		return
	}
	patch := store.MedicinePatch{
		Quantity:          req.Quantity,
		PurchasePrice:     req.PurchasePrice,
		SellingPrice:      req.SellingPrice,
		SupplierID:        req.SupplierID,
		LowStockThreshold: req.LowStockThreshold,
	}
	for _, f := range []struct {
		name string
		in   *string
		out  **string
	}{
		{"name", req.Name, &patch.Name},
		{"category", req.Category, &patch.Category},
		{"batchNumber", req.BatchNumber, &patch.BatchNumber},
	} {
		if f.in == nil {
			continue
		}
		v := strings.TrimSpace(*f.in)
		if v == "" {
			respondError(w, http.StatusBadRequest, f.name+" cannot be empty")
			return
		}
		*f.out = &v
	}
	if req.ExpiryDate != nil {
		expiry, ok := parseDate(*req.ExpiryDate)
		if !ok {
			respondError(w, http.StatusBadRequest, "expiryDate is not a valid date")
			return
		}
		patch.ExpiryDate = &expiry
	}

	medicine, err := h.store.UpdateMedicine(r.Context(), id, patch)
	if err != nil {
		respondStoreError(w, err, "unable to update medicine")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "Medicine updated successfully", "medicine": medicine})
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "medicine")
	if !ok {
		return
	}
	if err := h.store.DeleteMedicine(r.Context(), id); err != nil {
		respondStoreError(w, err, "unable to delete medicine")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Medicine deleted successfully"})
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
