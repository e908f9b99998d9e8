package domain

type TopSeller struct {
	MedicineID    int64   `db:"medicine_id" json:"medicineId"`
	Name          string  `db:"name" json:"name"`
	TotalQuantity int64   `db:"total_quantity" json:"totalQuantity"`
	TotalRevenue  float64 `db:"total_revenue" json:"totalRevenue"`
}

type MonthlySummary struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalProfit  float64 `json:"totalProfit"`
	SalesCount   int64   `json:"salesCount"`
}
