package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"gkmedicos/api/domain"
)

// SaleLine is one requested line of a new sale.
type SaleLine struct {
	MedicineID  int64
	Quantity    int64
	PriceAtSale float64
}

type NewSale struct {
	Lines       []SaleLine
	TotalAmount float64
	Discount    float64
	PaymentMode string
	BuyerName   string
	BuyerPhone  string
	CreatedBy   int64
}

// CreateSale records a sale and takes its quantities out of stock in one
// transaction. Each decrement is a conditional update, so two sales racing
// for the same medicine can never drive its quantity below zero; if any
// line cannot be satisfied nothing is written.
func (s *Store) CreateSale(ctx context.Context, in NewSale) (domain.Sale, error) {
	sale := domain.Sale{
		TotalAmount: in.TotalAmount,
		Discount:    in.Discount,
		PaymentMode: in.PaymentMode,
		BuyerName:   in.BuyerName,
		BuyerPhone:  in.BuyerPhone,
		CreatedBy:   in.CreatedBy,
		Date:        s.stamp(),
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var profit float64
		for _, line := range in.Lines {
			item, err := s.takeStock(ctx, tx, line)
			if err != nil {
				return err
			}
			profit += (line.PriceAtSale - *item.PurchasePrice) * float64(line.Quantity)
			sale.Items = append(sale.Items, item)
		}
		sale.ProfitAmount = &profit

		err := tx.QueryRowxContext(ctx, tx.Rebind(`INSERT INTO sales
            (total_amount, discount, payment_mode, buyer_name, buyer_phone, profit_amount, created_by, created_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			sale.TotalAmount, sale.Discount, sale.PaymentMode, sale.BuyerName, sale.BuyerPhone, profit, sale.CreatedBy, sale.Date).Scan(&sale.ID)
		if err != nil {
			return errors.Wrap(err, "insert sale")
		}
		for i := range sale.Items {
			item := &sale.Items[i]
			item.SaleID = sale.ID
			err := tx.QueryRowxContext(ctx, tx.Rebind(`INSERT INTO sale_items (sale_id, medicine_id, name, quantity, price_at_sale, purchase_price)
                VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
				item.SaleID, item.MedicineID, item.Name, item.Quantity, item.PriceAtSale, *item.PurchasePrice).Scan(&item.ID)
			if err != nil {
				return errors.Wrap(err, "insert sale item")
			}
		}
		return nil
	})
	if err != nil {
		return domain.Sale{}, err
	}
	return sale, nil
}

func (s *Store) takeStock(ctx context.Context, tx *sqlx.Tx, line SaleLine) (domain.SaleItem, error) {
	var med struct {
		Name          string  `db:"name"`
		Quantity      int64   `db:"quantity"`
		PurchasePrice float64 `db:"purchase_price"`
	}
	err := tx.GetContext(ctx, &med, tx.Rebind(`SELECT name, quantity, purchase_price FROM medicines WHERE id = ?`), line.MedicineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SaleItem{}, errors.Wrapf(ErrInvalidReference, "medicine not found: %d", line.MedicineID)
		}
		return domain.SaleItem{}, errors.Wrap(err, "load medicine")
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE medicines SET quantity = quantity - ?, updated_at = ? WHERE id = ? AND quantity >= ?`),
		line.Quantity, s.stamp(), line.MedicineID, line.Quantity)
	if err != nil {
		return domain.SaleItem{}, errors.Wrap(err, "decrement stock")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.SaleItem{}, errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		// Re-read so the error reports what is on hand now, not what the
		// first read saw.
		var available int64
		if err := tx.GetContext(ctx, &available, tx.Rebind(`SELECT quantity FROM medicines WHERE id = ?`), line.MedicineID); err != nil {
			return domain.SaleItem{}, errors.Wrap(err, "reload stock")
		}
		return domain.SaleItem{}, &StockError{MedicineID: line.MedicineID, Name: med.Name, Available: available, Requested: line.Quantity}
	}

	cost := med.PurchasePrice
	return domain.SaleItem{
		MedicineID:    line.MedicineID,
		Name:          med.Name,
		Quantity:      line.Quantity,
		PriceAtSale:   line.PriceAtSale,
		PurchasePrice: &cost,
	}, nil
}

// SalesFilter narrows ListSales. From is inclusive, Until exclusive; zero
// values leave that side open. CreatedBy of zero means any user.
type SalesFilter struct {
	From      time.Time
	Until     time.Time
	CreatedBy int64
	Limit     int
}

// ListSales returns matching sales newest first, each with its lines.
func (s *Store) ListSales(ctx context.Context, f SalesFilter) ([]domain.Sale, error) {
	where, args := f.where()
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)

	sales := []domain.Sale{}
	err := s.db.SelectContext(ctx, &sales, s.q(`SELECT id, total_amount, discount, payment_mode, buyer_name, buyer_phone, profit_amount, created_by, created_at
        FROM sales`+where+` ORDER BY created_at DESC, id DESC LIMIT ?`), args...)
	if err != nil {
		return nil, errors.Wrap(err, "list sales")
	}
	if len(sales) == 0 {
		return sales, nil
	}

	ids := make([]int64, len(sales))
	for i, sale := range sales {
		ids[i] = sale.ID
	}
	itemsQuery, itemsArgs, err := sqlx.In(`SELECT id, sale_id, medicine_id, name, quantity, price_at_sale, purchase_price
        FROM sale_items WHERE sale_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "prepare sale items query")
	}
	var items []domain.SaleItem
	if err := s.db.SelectContext(ctx, &items, s.q(itemsQuery), itemsArgs...); err != nil {
		return nil, errors.Wrap(err, "load sale items")
	}
	bySale := make(map[int64][]domain.SaleItem)
	for _, item := range items {
		bySale[item.SaleID] = append(bySale[item.SaleID], item)
	}
	for i := range sales {
		sales[i].Items = bySale[sales[i].ID]
		if sales[i].Items == nil {
			sales[i].Items = []domain.SaleItem{}
		}
	}
	return sales, nil
}

// Totals sums the sales recorded in [from, until). A zero until is open.
func (s *Store) Totals(ctx context.Context, from, until time.Time) (domain.SalesTotals, error) {
	where, args := SalesFilter{From: from, Until: until}.where()
	var totals domain.SalesTotals
	err := s.db.GetContext(ctx, &totals, s.q(`SELECT COALESCE(SUM(total_amount), 0) AS total_revenue,
        COALESCE(SUM(profit_amount), 0) AS total_profit, COUNT(*) AS sales_count FROM sales`+where), args...)
	if err != nil {
		return domain.SalesTotals{}, errors.Wrap(err, "sum sales")
	}
	return totals, nil
}

func (f SalesFilter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if !f.From.IsZero() {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, Timestamp(f.From))
	}
	if !f.Until.IsZero() {
		clauses = append(clauses, "created_at < ?")
		args = append(args, Timestamp(f.Until))
	}
	if f.CreatedBy != 0 {
		clauses = append(clauses, "created_by = ?")
		args = append(args, f.CreatedBy)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
