package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"gkmedicos/api/domain"
	"gkmedicos/api/internal/auth"
	"gkmedicos/api/internal/store"
)

type saleLineRequest struct {
	MedicineID  int64    `json:"medicineId" validate:"required,gt=0"`
	Name        string   `json:"name"`
	Quantity    int64    `json:"quantity" validate:"required,min=1"`
	PriceAtSale *float64 `json:"priceAtSale" validate:"required,min=0"`
}

type saleRequest struct {
	Medicines   []saleLineRequest `json:"medicines" validate:"required,min=1,dive"`
	TotalAmount *float64          `json:"totalAmount" validate:"required,min=0"`
	Discount    float64           `json:"discount" validate:"min=0"`
	PaymentMode string            `json:"paymentMode" validate:"required,oneof=cash upi card"`
	BuyerName   string            `json:"buyerName"`
	BuyerPhone  string            `json:"buyerPhone"`
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !decodeValid(w, r, &req) {
		return
	}
	id, _ := auth.FromContext(r.Context())

	lines := make([]store.SaleLine, len(req.Medicines))
	for i, m := range req.Medicines {
		lines[i] = store.SaleLine{MedicineID: m.MedicineID, Quantity: m.Quantity, PriceAtSale: *m.PriceAtSale}
	}
	sale, err := h.store.CreateSale(r.Context(), store.NewSale{
		Lines:       lines,
		TotalAmount: *req.TotalAmount,
		Discount:    req.Discount,
		PaymentMode: req.PaymentMode,
		BuyerName:   strings.TrimSpace(req.BuyerName),
		BuyerPhone:  strings.TrimSpace(req.BuyerPhone),
		CreatedBy:   id.UserID,
	})
	if err != nil {
		respondStoreError(w, err, "unable to create sale")
		return
	}
	if id.Role != domain.RoleOwner {
		sale = sale.Redacted()
	}
	respondJSON(w, http.StatusCreated, map[string]any{"message": "Sale created successfully", "sale": sale})
}

// listSales gives owners every sale, optionally bounded by startDate and
// endDate (inclusive calendar days). Staff only ever see the sales they
// recorded today, without cost or profit figures.
func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var filter store.SalesFilter
	if id.Role == domain.RoleOwner {
		from, until, ok := dateRange(w, r)
		if !ok {
			return
		}
		filter.From, filter.Until = from, until
	} else {
		filter.From = startOfDay(h.store.Now())
		filter.CreatedBy = id.UserID
	}

	sales, err := h.store.ListSales(r.Context(), filter)
	if err != nil {
		respondStoreError(w, err, "unable to list sales")
		return
	}
	if id.Role != domain.RoleOwner {
		for i := range sales {
			sales[i] = sales[i].Redacted()
		}
	}
	respondJSON(w, http.StatusOK, sales)
}

func (h *Handler) dailySales(w http.ResponseWriter, r *http.Request) {
	totals, err := h.store.Totals(r.Context(), startOfDay(h.store.Now()), time.Time{})
	if err != nil {
		respondStoreError(w, err, "unable to fetch daily sales")
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

func (h *Handler) monthlySales(w http.ResponseWriter, r *http.Request) {
	totals, err := h.store.Totals(r.Context(), startOfMonth(h.store.Now()), time.Time{})
	if err != nil {
		respondStoreError(w, err, "unable to fetch monthly sales")
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

// dateRange reads startDate/endDate query values as a half-open range
// [startDate 00:00, endDate+1 00:00) in UTC. Missing values stay zero.
func dateRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	var from, until time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("startDate")); raw != "" {
		t, err := dateparse.ParseIn(raw, time.UTC)
		if err != nil {
			respondError(w, http.StatusBadRequest, "startDate is not a valid date")
			return from, until, false
		}
		from = startOfDay(t)
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("endDate")); raw != "" {
		t, err := dateparse.ParseIn(raw, time.UTC)
		if err != nil {
			respondError(w, http.StatusBadRequest, "endDate is not a valid date")
			return from, until, false
		}
		until = startOfDay(t).AddDate(0, 0, 1)
	}
	return from, until, true
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
