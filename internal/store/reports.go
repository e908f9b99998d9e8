package store

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"gkmedicos/api/domain"
)

// TopSelling ranks medicines by total quantity sold.
func (s *Store) TopSelling(ctx context.Context, limit int) ([]domain.TopSeller, error) {
	if limit <= 0 {
		limit = 5
	}
	top := []domain.TopSeller{}
	err := s.db.SelectContext(ctx, &top, s.q(`SELECT medicine_id, MAX(name) AS name, SUM(quantity) AS total_quantity,
        SUM(quantity * price_at_sale) AS total_revenue
        FROM sale_items
        GROUP BY medicine_id
        ORDER BY total_quantity DESC, medicine_id ASC
        LIMIT ?`), limit)
	if err != nil {
		return nil, errors.Wrap(err, "top selling")
	}
	return top, nil
}

// MonthlySummary groups sales recorded since `since` by calendar month
// (UTC), oldest month first.
func (s *Store) MonthlySummary(ctx context.Context, since time.Time) ([]domain.MonthlySummary, error) {
	var rows []struct {
		Period       string  `db:"period"`
		TotalRevenue float64 `db:"total_revenue"`
		TotalProfit  float64 `db:"total_profit"`
		SalesCount   int64   `db:"sales_count"`
	}
	err := s.db.SelectContext(ctx, &rows, s.q(`SELECT SUBSTR(created_at, 1, 7) AS period, SUM(total_amount) AS total_revenue,
        SUM(profit_amount) AS total_profit, COUNT(*) AS sales_count
        FROM sales
        WHERE created_at >= ?
        GROUP BY SUBSTR(created_at, 1, 7)
        ORDER BY period ASC`), Timestamp(since))
	if err != nil {
		return nil, errors.Wrap(err, "monthly summary")
	}

	out := make([]domain.MonthlySummary, 0, len(rows))
	for _, r := range rows {
		if len(r.Period) != 7 {
			continue
		}
		year, _ := strconv.Atoi(r.Period[:4])
		month, _ := strconv.Atoi(r.Period[5:])
		out = append(out, domain.MonthlySummary{
			Year:         year,
			Month:        month,
			TotalRevenue: r.TotalRevenue,
			TotalProfit:  r.TotalProfit,
			SalesCount:   r.SalesCount,
		})
	}
	return out, nil
}
