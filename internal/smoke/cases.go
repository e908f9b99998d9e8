package smoke

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type idBody struct {
	ID int64 `json:"_id"`
}

type medicineBody struct {
	ID       int64  `json:"_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int64  `json:"quantity"`
}

// DefaultCases is the full API walk: health, auth, suppliers, medicines,
// sales, authorization, reports, then cleanup of what it created.
func DefaultCases() []Case {
	return []Case{
		{"API Health Check", health},
		{"Owner Login", ownerLogin},
		{"Staff Login", staffLogin},
		{"Invalid Login", invalidLogin},
		{"Auth Me (Owner)", authMe(func(f *Fixture) string { return f.OwnerToken }, "owner")},
		{"Auth Me (Staff)", authMe(func(f *Fixture) string { return f.StaffToken }, "staff")},
		{"Get Suppliers", getSuppliers},
		{"Add Supplier", addSupplier},
		{"Get Medicines", getMedicines},
		{"Add Medicine", addMedicine},
		{"Search Medicines", searchMedicines},
		{"Low Stock Medicines", ownerGet("medicine/low-stock")},
		{"Expiry Alert Medicines", ownerGet("medicine/expiry-alert")},
		{"Create Sale", createSale},
		{"Oversell Rejected", oversell},
		{"Get Sales (Owner)", ownerGet("sales")},
		{"Get Sales (Staff)", staffSales},
		{"Daily Sales Stats", ownerGet("sales/daily")},
		{"Monthly Sales Stats", ownerGet("sales/monthly")},
		{"Staff Access Denied", staffDenied},
		{"Unauthorized Access", unauthorized},
		{"Reports", reports},
		{"Delete Test Medicine", deleteMedicine},
		{"Delete Test Supplier", deleteSupplier},
	}
}

func health(ctx context.Context, c *Client, f *Fixture) error {
	return c.expect(ctx, http.StatusOK, http.MethodGet, "", "", nil, nil)
}

func login(ctx context.Context, c *Client, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.expect(ctx, http.StatusOK, http.MethodPost, "auth/login", "", map[string]string{"email": email, "password": password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login for %s returned no token", email)
	}
	return resp.Token, nil
}

func ownerLogin(ctx context.Context, c *Client, f *Fixture) error {
	token, err := login(ctx, c, f.Creds.OwnerEmail, f.Creds.OwnerPassword)
	f.OwnerToken = token
	return err
}

func staffLogin(ctx context.Context, c *Client, f *Fixture) error {
	token, err := login(ctx, c, f.Creds.StaffEmail, f.Creds.StaffPassword)
	f.StaffToken = token
	return err
}

func invalidLogin(ctx context.Context, c *Client, f *Fixture) error {
	return c.expect(ctx, http.StatusUnauthorized, http.MethodPost, "auth/login", "",
		map[string]string{"email": "invalid@test.com", "password": "wrongpass"}, nil)
}

func authMe(token func(*Fixture) string, role string) func(context.Context, *Client, *Fixture) error {
	return func(ctx context.Context, c *Client, f *Fixture) error {
		if err := f.need(token(f) != "", role+" token"); err != nil {
			return err
		}
		var me struct {
			Role string `json:"role"`
		}
		if err := c.expect(ctx, http.StatusOK, http.MethodGet, "auth/me", token(f), nil, &me); err != nil {
			return err
		}
		if me.Role != role {
			return fmt.Errorf("expected role %s, got %q", role, me.Role)
		}
		return nil
	}
}

func ownerGet(endpoint string) func(context.Context, *Client, *Fixture) error {
	return func(ctx context.Context, c *Client, f *Fixture) error {
		if err := f.need(f.OwnerToken != "", "owner token"); err != nil {
			return err
		}
		return c.expect(ctx, http.StatusOK, http.MethodGet, endpoint, f.OwnerToken, nil, nil)
	}
}

func getSuppliers(ctx context.Context, c *Client, f *Fixture) error {
	var suppliers []idBody
	if err := c.expect(ctx, http.StatusOK, http.MethodGet, "supplier", f.OwnerToken, nil, &suppliers); err != nil {
		return err
	}
	return nil
}

func addSupplier(ctx context.Context, c *Client, f *Fixture) error {
	var resp struct {
		Supplier idBody `json:"supplier"`
	}
	err := c.expect(ctx, http.StatusCreated, http.MethodPost, "supplier", f.OwnerToken, map[string]string{
		"name":    "Test Supplier Ltd",
		"phone":   "9876543210",
		"email":   "test@supplier.com",
		"address": "Test Address, Test City",
	}, &resp)
	if err != nil {
		return err
	}
	f.SupplierID = resp.Supplier.ID
	return f.need(f.SupplierID > 0, "supplier id in response")
}

func getMedicines(ctx context.Context, c *Client, f *Fixture) error {
	return c.expect(ctx, http.StatusOK, http.MethodGet, "medicine", f.OwnerToken, nil, nil)
}

func addMedicine(ctx context.Context, c *Client, f *Fixture) error {
	if err := f.need(f.SupplierID > 0, "supplier id"); err != nil {
		return err
	}
	var resp struct {
		Medicine medicineBody `json:"medicine"`
	}
	err := c.expect(ctx, http.StatusCreated, http.MethodPost, "medicine", f.OwnerToken, map[string]any{
		"name":              "Test Medicine",
		"category":          "Tablet",
		"batchNumber":       "TEST001",
		"expiryDate":        time.Now().AddDate(1, 0, 0).Format("2006-01-02T15:04:05"),
		"quantity":          100,
		"purchasePrice":     10.0,
		"sellingPrice":      15.0,
		"supplierId":        f.SupplierID,
		"lowStockThreshold": 10,
	}, &resp)
	if err != nil {
		return err
	}
	f.MedicineID = resp.Medicine.ID
	if err := f.need(f.MedicineID > 0, "medicine id in response"); err != nil {
		return err
	}

	var listed []medicineBody
	if err := c.expect(ctx, http.StatusOK, http.MethodGet, "medicine", f.OwnerToken, nil, &listed); err != nil {
		return err
	}
	if findMedicine(listed, f.MedicineID) == nil {
		return fmt.Errorf("medicine %d missing from list", f.MedicineID)
	}
	return nil
}

func searchMedicines(ctx context.Context, c *Client, f *Fixture) error {
	var found []medicineBody
	if err := c.expect(ctx, http.StatusOK, http.MethodGet, "medicine?search=Test", f.OwnerToken, nil, &found); err != nil {
		return err
	}
	for _, m := range found {
		if !containsFold(m.Name, "test") && !containsFold(m.Category, "test") {
			return fmt.Errorf("search returned non-matching medicine %q", m.Name)
		}
	}
	return nil
}

func createSale(ctx context.Context, c *Client, f *Fixture) error {
	if err := f.need(f.MedicineID > 0, "medicine id"); err != nil {
		return err
	}
	before, err := medicineQuantity(ctx, c, f)
	if err != nil {
		return err
	}
	var resp struct {
		Sale idBody `json:"sale"`
	}
	err = c.expect(ctx, http.StatusCreated, http.MethodPost, "sales", f.OwnerToken, map[string]any{
		"medicines":   []map[string]any{{"medicineId": f.MedicineID, "quantity": 2, "priceAtSale": 15.0}},
		"totalAmount": 30.0,
		"discount":    0,
		"paymentMode": "cash",
	}, &resp)
	if err != nil {
		return err
	}
	f.SaleID = resp.Sale.ID

	after, err := medicineQuantity(ctx, c, f)
	if err != nil {
		return err
	}
	if before-after != 2 {
		return fmt.Errorf("expected stock to drop by 2, went %d -> %d", before, after)
	}
	return nil
}

func oversell(ctx context.Context, c *Client, f *Fixture) error {
	if err := f.need(f.MedicineID > 0, "medicine id"); err != nil {
		return err
	}
	before, err := medicineQuantity(ctx, c, f)
	if err != nil {
		return err
	}
	err = c.expect(ctx, http.StatusConflict, http.MethodPost, "sales", f.OwnerToken, map[string]any{
		"medicines":   []map[string]any{{"medicineId": f.MedicineID, "quantity": before + 1, "priceAtSale": 15.0}},
		"totalAmount": 15.0 * float64(before+1),
		"paymentMode": "cash",
	}, nil)
	if err != nil {
		return err
	}
	after, err := medicineQuantity(ctx, c, f)
	if err != nil {
		return err
	}
	if after != before {
		return fmt.Errorf("rejected sale changed stock %d -> %d", before, after)
	}
	return nil
}

func staffSales(ctx context.Context, c *Client, f *Fixture) error {
	if err := f.need(f.StaffToken != "", "staff token"); err != nil {
		return err
	}
	var sales []map[string]any
	if err := c.expect(ctx, http.StatusOK, http.MethodGet, "sales", f.StaffToken, nil, &sales); err != nil {
		return err
	}
	for _, s := range sales {
		if _, ok := s["profitAmount"]; ok {
			return fmt.Errorf("staff view exposes profitAmount")
		}
	}
	return nil
}

func staffDenied(ctx context.Context, c *Client, f *Fixture) error {
	if err := f.need(f.StaffToken != "", "staff token"); err != nil {
		return err
	}
	if err := c.expect(ctx, http.StatusForbidden, http.MethodPost, "medicine", f.StaffToken, map[string]string{"name": "Test"}, nil); err != nil {
		return err
	}
	for _, endpoint := range []string{"sales/daily", "sales/monthly", "reports/top-selling", "reports/monthly-summary"} {
		if err := c.expect(ctx, http.StatusForbidden, http.MethodGet, endpoint, f.StaffToken, nil, nil); err != nil {
			return err
		}
	}
	return nil
}

func unauthorized(ctx context.Context, c *Client, f *Fixture) error {
	return c.expect(ctx, http.StatusUnauthorized, http.MethodGet, "medicine", "", nil, nil)
}

func reports(ctx context.Context, c *Client, f *Fixture) error {
	for _, endpoint := range []string{"reports/top-selling", "reports/monthly-summary"} {
		if err := ownerGet(endpoint)(ctx, c, f); err != nil {
			return err
		}
	}
	return nil
}

func deleteMedicine(ctx context.Context, c *Client, f *Fixture) error {
	if err := f.need(f.MedicineID > 0, "medicine id"); err != nil {
		return err
	}
	if err := c.expect(ctx, http.StatusOK, http.MethodDelete, fmt.Sprintf("medicine/%d", f.MedicineID), f.OwnerToken, nil, nil); err != nil {
		return err
	}
	var listed []medicineBody
	if err := c.expect(ctx, http.StatusOK, http.MethodGet, "medicine", f.OwnerToken, nil, &listed); err != nil {
		return err
	}
	if findMedicine(listed, f.MedicineID) != nil {
		return fmt.Errorf("medicine %d still listed after delete", f.MedicineID)
	}
	return nil
}

func deleteSupplier(ctx context.Context, c *Client, f *Fixture) error {
	if err := f.need(f.SupplierID > 0, "supplier id"); err != nil {
		return err
	}
	if err := c.expect(ctx, http.StatusOK, http.MethodDelete, fmt.Sprintf("supplier/%d", f.SupplierID), f.OwnerToken, nil, nil); err != nil {
		return err
	}
	var suppliers []idBody
	if err := c.expect(ctx, http.StatusOK, http.MethodGet, "supplier", f.OwnerToken, nil, &suppliers); err != nil {
		return err
	}
	for _, s := range suppliers {
		if s.ID == f.SupplierID {
			return fmt.Errorf("supplier %d still listed after delete", f.SupplierID)
		}
	}
	return nil
}

func medicineQuantity(ctx context.Context, c *Client, f *Fixture) (int64, error) {
	var m medicineBody
	if err := c.expect(ctx, http.StatusOK, http.MethodGet, fmt.Sprintf("medicine/%d", f.MedicineID), f.OwnerToken, nil, &m); err != nil {
		return 0, err
	}
	return m.Quantity, nil
}

func findMedicine(list []medicineBody, id int64) *medicineBody {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
