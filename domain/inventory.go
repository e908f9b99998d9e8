package domain

// DefaultExpiryWindowDays is how far ahead expiry alerts look when no
// window is configured.
const DefaultExpiryWindowDays = 30

// StockAlert is the result of one scan for low and expiring stock.
type StockAlert struct {
	LowStock []Medicine `json:"lowStock"`
	Expiring []Medicine `json:"expiring"`
}

// Empty reports whether the scan found nothing to act on.
func (a StockAlert) Empty() bool {
	return len(a.LowStock) == 0 && len(a.Expiring) == 0
}
