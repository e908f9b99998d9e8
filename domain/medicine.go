package domain

// DefaultLowStockThreshold applies when a medicine is created without one.
const DefaultLowStockThreshold = 10

// DateLayout is the storage and wire layout of calendar dates.
const DateLayout = "2006-01-02"

type Medicine struct {
	ID                int64        `db:"id" json:"_id"`
	Name              string       `db:"name" json:"name"`
	Category          string       `db:"category" json:"category"`
	BatchNumber       string       `db:"batch_number" json:"batchNumber"`
	ExpiryDate        string       `db:"expiry_date" json:"expiryDate"`
	Quantity          int64        `db:"quantity" json:"quantity"`
	PurchasePrice     float64      `db:"purchase_price" json:"purchasePrice"`
	SellingPrice      float64      `db:"selling_price" json:"sellingPrice"`
	SupplierID        int64        `db:"supplier_id" json:"supplierId"`
	Supplier          *SupplierRef `db:"-" json:"supplier,omitempty"`
	LowStockThreshold int64        `db:"low_stock_threshold" json:"lowStockThreshold"`
	CreatedAt         string       `db:"created_at" json:"createdAt"`
	UpdatedAt         string       `db:"updated_at" json:"updatedAt"`
}

// LowStock reports whether the medicine is at or below its threshold.
func (m Medicine) LowStock() bool {
	return m.Quantity <= m.LowStockThreshold
}
