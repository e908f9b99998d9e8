package api

import (
	"net/http"
	"strings"

	"gkmedicos/api/domain"
)

type purchaseItemRequest struct {
	Name          string   `json:"name" validate:"required"`
	BatchNumber   string   `json:"batchNumber" validate:"required"`
	Quantity      int64    `json:"quantity" validate:"required,min=1"`
	PurchasePrice *float64 `json:"purchasePrice" validate:"required,min=0"`
	ExpiryDate    string   `json:"expiryDate" validate:"required"`
}

type purchaseRequest struct {
	SupplierID int64                 `json:"supplierId" validate:"required,gt=0"`
	Medicines  []purchaseItemRequest `json:"medicines" validate:"required,min=1,dive"`
	TotalCost  *float64              `json:"totalCost" validate:"required,min=0"`
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !decodeValid(w, r, &req) {
		return
	}
	purchase := domain.Purchase{SupplierID: req.SupplierID, TotalCost: *req.TotalCost}
	for _, m := range req.Medicines {
		expiry, ok := parseDate(m.ExpiryDate)
		if !ok {
			respondError(w, http.StatusBadRequest, "expiryDate is not a valid date for "+m.Name)
			return
		}
		purchase.Items = append(purchase.Items, domain.PurchaseItem{
			Name:          strings.TrimSpace(m.Name),
			BatchNumber:   strings.TrimSpace(m.BatchNumber),
			Quantity:      m.Quantity,
			PurchasePrice: *m.PurchasePrice,
			ExpiryDate:    expiry,
		})
	}
	created, err := h.store.CreatePurchase(r.Context(), purchase)
	if err != nil {
		respondStoreError(w, err, "unable to record purchase")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "Purchase recorded successfully", "purchase": created})
}

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.store.ListPurchases(r.Context(), 100)
	if err != nil {
		respondStoreError(w, err, "unable to list purchases")
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}
