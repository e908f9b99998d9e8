package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"gkmedicos/api/domain"
)

// CreatePurchase records stock bought from a supplier. Stock levels are
// maintained through medicines and are not touched here.
func (s *Store) CreatePurchase(ctx context.Context, p domain.Purchase) (domain.Purchase, error) {
	p.Date = s.stamp()
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := supplierExists(ctx, tx, p.SupplierID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrap(ErrInvalidReference, "supplier does not exist")
		}
		err = tx.QueryRowxContext(ctx, tx.Rebind(`INSERT INTO purchases (supplier_id, total_cost, created_at) VALUES (?, ?, ?) RETURNING id`),
			p.SupplierID, p.TotalCost, p.Date).Scan(&p.ID)
		if err != nil {
			return errors.Wrap(err, "insert purchase")
		}
		for i := range p.Items {
			item := &p.Items[i]
			item.PurchaseID = p.ID
			_, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO purchase_items (purchase_id, name, batch_number, quantity, purchase_price, expiry_date)
                VALUES (?, ?, ?, ?, ?, ?)`),
				item.PurchaseID, item.Name, item.BatchNumber, item.Quantity, item.PurchasePrice, item.ExpiryDate)
			if err != nil {
				return errors.Wrap(err, "insert purchase item")
			}
		}
		return nil
	})
	if err != nil {
		return domain.Purchase{}, err
	}
	return p, nil
}

// ListPurchases returns the latest purchases, newest first.
func (s *Store) ListPurchases(ctx context.Context, limit int) ([]domain.Purchase, error) {
	if limit <= 0 {
		limit = 100
	}
	purchases := []domain.Purchase{}
	err := s.db.SelectContext(ctx, &purchases, s.q(`SELECT id, supplier_id, total_cost, created_at FROM purchases ORDER BY created_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, errors.Wrap(err, "list purchases")
	}
	if len(purchases) == 0 {
		return purchases, nil
	}

	ids := make([]int64, len(purchases))
	for i, p := range purchases {
		ids[i] = p.ID
	}
	query, args, err := sqlx.In(`SELECT purchase_id, name, batch_number, quantity, purchase_price, expiry_date
        FROM purchase_items WHERE purchase_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "prepare purchase items query")
	}
	var items []domain.PurchaseItem
	if err := s.db.SelectContext(ctx, &items, s.q(query), args...); err != nil {
		return nil, errors.Wrap(err, "load purchase items")
	}
	byPurchase := make(map[int64][]domain.PurchaseItem)
	for _, item := range items {
		byPurchase[item.PurchaseID] = append(byPurchase[item.PurchaseID], item)
	}
	for i := range purchases {
		purchases[i].Items = byPurchase[purchases[i].ID]
	}
	return purchases, nil
}
