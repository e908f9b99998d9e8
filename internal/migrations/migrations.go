package migrations

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Run creates the database schema required by the pharmacy API. The
// statements are written once and adjusted for the connected dialect.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id {{pk}},
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL,
            created_at TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS suppliers (
            id {{pk}},
            name TEXT NOT NULL,
            phone TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL,
            gst_number TEXT NOT NULL DEFAULT '',
            created_at TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS medicines (
            id {{pk}},
            name TEXT NOT NULL,
            name_fold TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL,
            category_fold TEXT NOT NULL DEFAULT '',
            batch_number TEXT NOT NULL,
            expiry_date TEXT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity >= 0),
            purchase_price {{real}} NOT NULL,
            selling_price {{real}} NOT NULL,
            supplier_id INTEGER NOT NULL REFERENCES suppliers(id),
            low_stock_threshold INTEGER NOT NULL,
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_expiry ON medicines(expiry_date);`,
		`CREATE TABLE IF NOT EXISTS sales (
            id {{pk}},
            total_amount {{real}} NOT NULL,
            discount {{real}} NOT NULL DEFAULT 0,
            payment_mode TEXT NOT NULL,
            buyer_name TEXT NOT NULL DEFAULT '',
            buyer_phone TEXT NOT NULL DEFAULT '',
            profit_amount {{real}} NOT NULL DEFAULT 0,
            created_by INTEGER NOT NULL REFERENCES users(id),
            created_at TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);`,
		// medicine_id carries no foreign key; a sale line keeps its own
		// name after the medicine is deleted.
		`CREATE TABLE IF NOT EXISTS sale_items (
            id {{pk}},
            sale_id INTEGER NOT NULL REFERENCES sales(id),
            medicine_id INTEGER NOT NULL,
            name TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            price_at_sale {{real}} NOT NULL,
            purchase_price {{real}} NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS purchases (
            id {{pk}},
            supplier_id INTEGER NOT NULL REFERENCES suppliers(id),
            total_cost {{real}} NOT NULL,
            created_at TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS purchase_items (
            id {{pk}},
            purchase_id INTEGER NOT NULL REFERENCES purchases(id),
            name TEXT NOT NULL,
            batch_number TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            purchase_price {{real}} NOT NULL,
            expiry_date TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS contacts (
            id {{pk}},
            name TEXT NOT NULL,
            phone TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            message TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'new',
            created_at TEXT NOT NULL
        );`,
	}

	replacer := dialect(db.DriverName())
	for _, stmt := range schema {
		if _, err := db.Exec(replacer.Replace(stmt)); err != nil {
			return errors.Wrap(err, "migration failed")
		}
	}
	return nil
}

func dialect(driver string) *strings.Replacer {
	if driver == "pgx" || driver == "postgres" {
		return strings.NewReplacer("{{pk}}", "SERIAL PRIMARY KEY", "{{real}}", "DOUBLE PRECISION")
	}
	return strings.NewReplacer("{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{real}}", "REAL")
}
