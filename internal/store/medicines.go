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

const medicineSelect = `SELECT m.id, m.name, m.category, m.batch_number, m.expiry_date, m.quantity,
        m.purchase_price, m.selling_price, m.supplier_id, m.low_stock_threshold, m.created_at, m.updated_at,
        s.id AS supplier_ref_id, s.name AS supplier_name, s.phone AS supplier_phone
    FROM medicines m
    LEFT JOIN suppliers s ON s.id = m.supplier_id`

type medicineRow struct {
	domain.Medicine
	SupplierRefID sql.NullInt64  `db:"supplier_ref_id"`
	SupplierName  sql.NullString `db:"supplier_name"`
	SupplierPhone sql.NullString `db:"supplier_phone"`
}

func (r medicineRow) medicine() domain.Medicine {
	m := r.Medicine
	if r.SupplierRefID.Valid {
		m.Supplier = &domain.SupplierRef{ID: r.SupplierRefID.Int64, Name: r.SupplierName.String, Phone: r.SupplierPhone.String}
	}
	return m
}

func toMedicines(rows []medicineRow) []domain.Medicine {
	out := make([]domain.Medicine, len(rows))
	for i, r := range rows {
		out[i] = r.medicine()
	}
	return out
}

// MedicineFilter narrows ListMedicines. Search matches name or category,
// case-insensitively; Category must match exactly.
type MedicineFilter struct {
	Search   string
	Category string
}

func (s *Store) ListMedicines(ctx context.Context, f MedicineFilter) ([]domain.Medicine, error) {
	var (
		clauses []string
		args    []any
	)
	if term := strings.TrimSpace(f.Search); term != "" {
		like := likePattern(term)
		clauses = append(clauses, `(m.name_fold LIKE ? ESCAPE '\' OR m.category_fold LIKE ? ESCAPE '\')`)
		args = append(args, like, like)
	}
	if category := strings.TrimSpace(f.Category); category != "" {
		clauses = append(clauses, `m.category = ?`)
		args = append(args, category)
	}
	query := medicineSelect
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY m.created_at DESC, m.id DESC"
	return s.selectMedicines(ctx, query, args...)
}

// LowStock lists medicines at or below their own threshold.
func (s *Store) LowStock(ctx context.Context) ([]domain.Medicine, error) {
	return s.selectMedicines(ctx, medicineSelect+` WHERE m.quantity <= m.low_stock_threshold ORDER BY m.quantity ASC, m.id ASC`)
}

// ExpiringBetween lists medicines whose expiry date falls in [from, to],
// compared by calendar date.
func (s *Store) ExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.Medicine, error) {
	return s.selectMedicines(ctx, medicineSelect+` WHERE m.expiry_date >= ? AND m.expiry_date <= ? ORDER BY m.expiry_date ASC, m.id ASC`,
		from.Format(domain.DateLayout), to.Format(domain.DateLayout))
}

func (s *Store) selectMedicines(ctx context.Context, query string, args ...any) ([]domain.Medicine, error) {
	var rows []medicineRow
	if err := s.db.SelectContext(ctx, &rows, s.q(query), args...); err != nil {
		return nil, errors.Wrap(err, "select medicines")
	}
	return toMedicines(rows), nil
}

func (s *Store) MedicineByID(ctx context.Context, id int64) (domain.Medicine, error) {
	var row medicineRow
	if err := s.db.GetContext(ctx, &row, s.q(medicineSelect+` WHERE m.id = ?`), id); err != nil {
		return domain.Medicine{}, notFound(err, "medicine")
	}
	return row.medicine(), nil
}

// CreateMedicine inserts m. Its supplier must exist.
func (s *Store) CreateMedicine(ctx context.Context, m domain.Medicine) (domain.Medicine, error) {
	m.CreatedAt = s.stamp()
	m.UpdatedAt = m.CreatedAt
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := supplierExists(ctx, tx, m.SupplierID)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrap(ErrInvalidReference, "supplier does not exist")
		}
		return tx.QueryRowxContext(ctx, tx.Rebind(`INSERT INTO medicines
            (name, name_fold, category, category_fold, batch_number, expiry_date, quantity, purchase_price, selling_price,
            supplier_id, low_stock_threshold, created_at, updated_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			m.Name, fold(m.Name), m.Category, fold(m.Category), m.BatchNumber, m.ExpiryDate, m.Quantity, m.PurchasePrice,
			m.SellingPrice, m.SupplierID, m.LowStockThreshold, m.CreatedAt, m.UpdatedAt).Scan(&m.ID)
	})
	if err != nil {
		return domain.Medicine{}, err
	}
	return s.MedicineByID(ctx, m.ID)
}

// MedicinePatch carries the fields of a partial medicine update; nil
// fields are left as stored.
type MedicinePatch struct {
	Name              *string
	Category          *string
	BatchNumber       *string
	ExpiryDate        *string
	Quantity          *int64
	PurchasePrice     *float64
	SellingPrice      *float64
	SupplierID        *int64
	LowStockThreshold *int64
}

// assignments lists the column updates for the fields the patch sets.
// Nil fields are not written; quantity is only rewritten when set.
func (p MedicinePatch) assignments() ([]string, []any) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if p.Name != nil {
		set("name", *p.Name)
		set("name_fold", fold(*p.Name))
	}
	if p.Category != nil {
		set("category", *p.Category)
		set("category_fold", fold(*p.Category))
	}
	if p.BatchNumber != nil {
		set("batch_number", *p.BatchNumber)
	}
	if p.ExpiryDate != nil {
		set("expiry_date", *p.ExpiryDate)
	}
	if p.Quantity != nil {
		set("quantity", *p.Quantity)
	}
	if p.PurchasePrice != nil {
		set("purchase_price", *p.PurchasePrice)
	}
	if p.SellingPrice != nil {
		set("selling_price", *p.SellingPrice)
	}
	if p.SupplierID != nil {
		set("supplier_id", *p.SupplierID)
	}
	if p.LowStockThreshold != nil {
		set("low_stock_threshold", *p.LowStockThreshold)
	}
	return sets, args
}

func (s *Store) UpdateMedicine(ctx context.Context, id int64, patch MedicinePatch) (domain.Medicine, error) {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if patch.SupplierID != nil {
			ok, err := supplierExists(ctx, tx, *patch.SupplierID)
			if err != nil {
				return err
			}
			if !ok {
				var n int
				if err := tx.GetContext(ctx, &n, tx.Rebind(`SELECT COUNT(*) FROM medicines WHERE id = ?`), id); err != nil {
					return errors.Wrap(err, "check medicine")
				}
				if n == 0 {
					return errors.Wrap(ErrNotFound, "medicine")
				}
				return errors.Wrap(ErrInvalidReference, "supplier does not exist")
			}
		}
		sets, args := patch.assignments()
		sets = append(sets, "updated_at = ?")
		args = append(args, s.stamp(), id)
		res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE medicines SET `+strings.Join(sets, ", ")+` WHERE id = ?`), args...)
		if err != nil {
			return errors.Wrap(err, "update medicine")
		}
		return expectRow(res, "medicine")
	})
	if err != nil {
		return domain.Medicine{}, err
	}
	return s.MedicineByID(ctx, id)
}

func (s *Store) DeleteMedicine(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM medicines WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "delete medicine")
	}
	return expectRow(res, "medicine")
}

// HasBatch reports whether a medicine with this name and batch is stocked.
func (s *Store) HasBatch(ctx context.Context, name, batch string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM medicines WHERE name_fold = ? AND batch_number = ?`), fold(name), batch)
	if err != nil {
		return false, errors.Wrap(err, "check batch")
	}
	return n > 0, nil
}

// fold is the case-insensitive key stored beside name and category.
// SQLite's LOWER only folds ASCII, so folding happens here.
func fold(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
