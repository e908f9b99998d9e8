package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"gkmedicos/api/domain"
)

const supplierColumns = `id, name, phone, email, address, gst_number, created_at`

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	if err := s.db.SelectContext(ctx, &suppliers, `SELECT `+supplierColumns+` FROM suppliers ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, errors.Wrap(err, "list suppliers")
	}
	return suppliers, nil
}

func (s *Store) SupplierByID(ctx context.Context, id int64) (domain.Supplier, error) {
	var sup domain.Supplier
	if err := s.db.GetContext(ctx, &sup, s.q(`SELECT `+supplierColumns+` FROM suppliers WHERE id = ?`), id); err != nil {
		return domain.Supplier{}, notFound(err, "supplier")
	}
	return sup, nil
}

func (s *Store) CreateSupplier(ctx context.Context, sup domain.Supplier) (domain.Supplier, error) {
	sup.CreatedAt = s.stamp()
	err := s.db.QueryRowxContext(ctx, s.q(`INSERT INTO suppliers (name, phone, email, address, gst_number, created_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		sup.Name, sup.Phone, sup.Email, sup.Address, sup.GSTNumber, sup.CreatedAt).Scan(&sup.ID)
	if err != nil {
		return domain.Supplier{}, errors.Wrap(err, "insert supplier")
	}
	return sup, nil
}

// UpdateSupplier overwrites the editable fields of supplier sup.ID.
func (s *Store) UpdateSupplier(ctx context.Context, sup domain.Supplier) (domain.Supplier, error) {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE suppliers SET name = ?, phone = ?, email = ?, address = ?, gst_number = ? WHERE id = ?`),
		sup.Name, sup.Phone, sup.Email, sup.Address, sup.GSTNumber, sup.ID)
	if err != nil {
		return domain.Supplier{}, errors.Wrap(err, "update supplier")
	}
	if err := expectRow(res, "supplier"); err != nil {
		return domain.Supplier{}, err
	}
	return s.SupplierByID(ctx, sup.ID)
}

// DeleteSupplier removes a supplier no medicine or purchase refers to.
func (s *Store) DeleteSupplier(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM suppliers WHERE id = ?`), id); err != nil {
			return errors.Wrap(err, "check supplier")
		}
		if exists == 0 {
			return errors.Wrap(ErrNotFound, "supplier")
		}
		var stocked int
		if err := tx.GetContext(ctx, &stocked, tx.Rebind(`SELECT COUNT(*) FROM medicines WHERE supplier_id = ?`), id); err != nil {
			return errors.Wrap(err, "count supplier medicines")
		}
		if stocked > 0 {
			return errors.Wrapf(ErrConflict, "supplier still has %d medicines", stocked)
		}
		var purchased int
		if err := tx.GetContext(ctx, &purchased, tx.Rebind(`SELECT COUNT(*) FROM purchases WHERE supplier_id = ?`), id); err != nil {
			return errors.Wrap(err, "count supplier purchases")
		}
		if purchased > 0 {
			return errors.Wrapf(ErrConflict, "supplier has %d recorded purchases", purchased)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM suppliers WHERE id = ?`), id); err != nil {
			return errors.Wrap(err, "delete supplier")
		}
		return nil
	})
}

func supplierExists(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	var n int
	if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM suppliers WHERE id = ?`), id); err != nil {
		return false, errors.Wrap(err, "check supplier")
	}
	return n > 0, nil
}

// SupplierByName finds a supplier by exact, case-insensitive name.
func (s *Store) SupplierByName(ctx context.Context, name string) (domain.Supplier, error) {
	var sup domain.Supplier
	err := s.db.GetContext(ctx, &sup, s.q(`SELECT `+supplierColumns+` FROM suppliers WHERE LOWER(name) = LOWER(?) ORDER BY id LIMIT 1`), name)
	if err != nil {
		return domain.Supplier{}, notFound(err, "supplier")
	}
	return sup, nil
}
