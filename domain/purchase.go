package domain

type Purchase struct {
	ID         int64          `db:"id" json:"_id"`
	SupplierID int64          `db:"supplier_id" json:"supplierId"`
	Items      []PurchaseItem `db:"-" json:"medicines"`
	TotalCost  float64        `db:"total_cost" json:"totalCost"`
	Date       string         `db:"created_at" json:"date"`
}

type PurchaseItem struct {
	PurchaseID    int64   `db:"purchase_id" json:"-"`
	Name          string  `db:"name" json:"name"`
	BatchNumber   string  `db:"batch_number" json:"batchNumber"`
	Quantity      int64   `db:"quantity" json:"quantity"`
	PurchasePrice float64 `db:"purchase_price" json:"purchasePrice"`
	ExpiryDate    string  `db:"expiry_date" json:"expiryDate"`
}
