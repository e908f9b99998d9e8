package domain

// Accepted payment modes for a sale.
const (
	PaymentCash = "cash"
	PaymentUPI  = "upi"
	PaymentCard = "card"
)

type Sale struct {
	ID           int64      `db:"id" json:"_id"`
	Items        []SaleItem `db:"-" json:"medicines"`
	TotalAmount  float64    `db:"total_amount" json:"totalAmount"`
	Discount     float64    `db:"discount" json:"discount"`
	PaymentMode  string     `db:"payment_mode" json:"paymentMode"`
	BuyerName    string     `db:"buyer_name" json:"buyerName,omitempty"`
	BuyerPhone   string     `db:"buyer_phone" json:"buyerPhone,omitempty"`
	ProfitAmount *float64   `db:"profit_amount" json:"profitAmount,omitempty"`
	CreatedBy    int64      `db:"created_by" json:"createdBy"`
	Date         string     `db:"created_at" json:"date"`
}

type SaleItem struct {
	ID            int64    `db:"id" json:"-"`
	SaleID        int64    `db:"sale_id" json:"-"`
	MedicineID    int64    `db:"medicine_id" json:"medicineId"`
	Name          string   `db:"name" json:"name"`
	Quantity      int64    `db:"quantity" json:"quantity"`
	PriceAtSale   float64  `db:"price_at_sale" json:"priceAtSale"`
	PurchasePrice *float64 `db:"purchase_price" json:"purchasePrice,omitempty"`
}

// Redacted returns the staff view of a sale: cost and profit figures removed.
func (s Sale) Redacted() Sale {
	out := s
	out.ProfitAmount = nil
	out.Items = make([]SaleItem, len(s.Items))
	for i, item := range s.Items {
		item.PurchasePrice = nil
		out.Items[i] = item
	}
	return out
}

// SalesTotals aggregates a window of sales.
type SalesTotals struct {
	TotalRevenue float64 `db:"total_revenue" json:"totalRevenue"`
	TotalProfit  float64 `db:"total_profit" json:"totalProfit"`
	SalesCount   int64   `db:"sales_count" json:"salesCount"`
}
