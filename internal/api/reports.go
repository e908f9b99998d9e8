package api

import (
	"net/http"

	"github.com/spf13/cast"
)

func (h *Handler) topSelling(w http.ResponseWriter, r *http.Request) {
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 5
	}
	top, err := h.store.TopSelling(r.Context(), limit)
	if err != nil {
		respondStoreError(w, err, "unable to build top selling report")
		return
	}
	respondJSON(w, http.StatusOK, top)
}

// monthlySummary covers the six months up to now.
func (h *Handler) monthlySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.store.MonthlySummary(r.Context(), h.store.Now().AddDate(0, -6, 0))
	if err != nil {
		respondStoreError(w, err, "unable to build monthly summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) profit(w http.ResponseWriter, r *http.Request) {
	from, until, ok := dateRange(w, r)
	if !ok {
		return
	}
	totals, err := h.store.Totals(r.Context(), from, until)
	if err != nil {
		respondStoreError(w, err, "unable to build profit report")
		return
	}
	respondJSON(w, http.StatusOK, totals)
}
