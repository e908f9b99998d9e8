package domain

type Supplier struct {
	ID        int64  `db:"id" json:"_id"`
	Name      string `db:"name" json:"name"`
	Phone     string `db:"phone" json:"phone"`
	Email     string `db:"email" json:"email"`
	Address   string `db:"address" json:"address"`
	GSTNumber string `db:"gst_number" json:"gstNumber"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

// SupplierRef is the short supplier view embedded in medicines.
type SupplierRef struct {
	ID    int64  `json:"_id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
