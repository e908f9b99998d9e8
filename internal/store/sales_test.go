package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gkmedicos/api/domain"
)

func stockOf(t *testing.T, st *Store, id int64) int64 {
	t.Helper()
	m, err := st.MedicineByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load medicine: %v", err)
	}
	return m.Quantity
}

func TestCreateSaleDecrementsStock(t *testing.T) {
	ctx := context.Background()
	st, _ := setup(t)
	owner := mustUser(t, st, "owner@example.com", domain.RoleOwner)
	sup := mustSupplier(t, st, "Acme")
	med := mustMedicine(t, st, domain.Medicine{Name: "Paracetamol", Quantity: 100, PurchasePrice: 10, SellingPrice: 15, SupplierID: sup.ID})

	sale, err := st.CreateSale(ctx, NewSale{
		Lines:       []SaleLine{{MedicineID: med.ID, Quantity: 2, PriceAtSale: 15}},
		TotalAmount: 30,
		PaymentMode: domain.PaymentCash,
		CreatedBy:   owner.ID,
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if sale.ID == 0 || len(sale.Items) != 1 || sale.Items[0].Name != "Paracetamol" {
		t.Fatalf("unexpected sale %+v", sale)
	}
	if sale.ProfitAmount == nil || *sale.ProfitAmount != 10 {
		t.Fatalf("expected profit 10, got %v", sale.ProfitAmount)
	}
	if got := stockOf(t, st, med.ID); got != 98 {
		t.Fatalf("expected 98 left, got %d", got)
	}
}

func TestCreateSaleInsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	st, _ := setup(t)
	owner := mustUser(t, st, "owner@example.com", domain.RoleOwner)
	sup := mustSupplier(t, st, "Acme")
	first := mustMedicine(t, st, domain.Medicine{Name: "Paracetamol", Quantity: 10, SupplierID: sup.ID})
	second := mustMedicine(t, st, domain.Medicine{Name: "Ibuprofen", Quantity: 1, SupplierID: sup.ID})

	_, err := st.CreateSale(ctx, NewSale{
		Lines: []SaleLine{
			{MedicineID: first.ID, Quantity: 5, PriceAtSale: 2},
			{MedicineID: second.ID, Quantity: 3, PriceAtSale: 4},
		},
		TotalAmount: 22,
		PaymentMode: domain.PaymentUPI,
		CreatedBy:   owner.ID,
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	var stockErr *StockError
	if !errors.As(err, &stockErr) || stockErr.Name != "Ibuprofen" || stockErr.Available != 1 {
		t.Fatalf("unexpected stock error %#v", err)
	}
	if err.Error() != "insufficient stock for Ibuprofen. Available: 1" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if got := stockOf(t, st, first.ID); got != 10 {
		t.Fatalf("first line must be rolled back, stock %d", got)
	}
	sales, err := st.ListSales(ctx, SalesFilter{})
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("expected no sales, got %d", len(sales))
	}
}

func TestCreateSaleUnknownMedicine(t *testing.T) {
	st, _ := setup(t)
	_, err := st.CreateSale(context.Background(), NewSale{
		Lines:       []SaleLine{{MedicineID: 404, Quantity: 1, PriceAtSale: 1}},
		PaymentMode: domain.PaymentCard,
	})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestCreateSaleConcurrentNeverOversells(t *testing.T) {
	ctx := context.Background()
	st, _ := setup(t)
	staff := mustUser(t, st, "staff@example.com", domain.RoleStaff)
	sup := mustSupplier(t, st, "Acme")
	med := mustMedicine(t, st, domain.Medicine{Name: "Cetirizine", Quantity: 20, SupplierID: sup.ID})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.CreateSale(ctx, NewSale{
				Lines:       []SaleLine{{MedicineID: med.ID, Quantity: 3, PriceAtSale: 1}},
				TotalAmount: 3,
				PaymentMode: domain.PaymentCash,
				CreatedBy:   staff.ID,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrInsufficientStock):
				fail++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 6 || fail != 4 {
		t.Fatalf("expected 6 sales and 4 refusals, got %d and %d", ok, fail)
	}
	if got := stockOf(t, st, med.ID); got != 2 {
		t.Fatalf("expected 2 left, got %d", got)
	}
}

func TestListSalesFilters(t *testing.T) {
	ctx := context.Background()
	st, now := setup(t)
	owner := mustUser(t, st, "owner@example.com", domain.RoleOwner)
	staff := mustUser(t, st, "staff@example.com", domain.RoleStaff)
	sup := mustSupplier(t, st, "Acme")
	med := mustMedicine(t, st, domain.Medicine{Name: "Paracetamol", Quantity: 100, PurchasePrice: 1, SupplierID: sup.ID})

	sell := func(by int64) domain.Sale {
		sale, err := st.CreateSale(ctx, NewSale{
			Lines:       []SaleLine{{MedicineID: med.ID, Quantity: 1, PriceAtSale: 3}},
			TotalAmount: 3,
			PaymentMode: domain.PaymentCash,
			CreatedBy:   by,
		})
		if err != nil {
			t.Fatalf("create sale: %v", err)
		}
		return sale
	}

	*now = testNow.AddDate(0, 0, -1)
	sell(staff.ID)
	*now = testNow
	sell(owner.ID)
	latest := sell(staff.ID)

	all, err := st.ListSales(ctx, SalesFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != latest.ID {
		t.Fatalf("expected 3 sales newest first, got %+v", all)
	}
	if len(all[0].Items) != 1 || all[0].Items[0].PurchasePrice == nil || *all[0].Items[0].PurchasePrice != 1 {
		t.Fatalf("sale lines not loaded: %+v", all[0].Items)
	}

	midnight := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	today, err := st.ListSales(ctx, SalesFilter{From: midnight, CreatedBy: staff.ID})
	if err != nil {
		t.Fatalf("list today: %v", err)
	}
	if len(today) != 1 || today[0].ID != latest.ID {
		t.Fatalf("expected only today's staff sale, got %+v", today)
	}

	limited, err := st.ListSales(ctx, SalesFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2, got %d", len(limited))
	}
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	st, now := setup(t)
	owner := mustUser(t, st, "owner@example.com", domain.RoleOwner)
	sup := mustSupplier(t, st, "Acme")
	med := mustMedicine(t, st, domain.Medicine{Name: "Paracetamol", Quantity: 100, PurchasePrice: 10, SupplierID: sup.ID})

	empty, err := st.Totals(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if empty != (domain.SalesTotals{}) {
		t.Fatalf("expected zero totals, got %+v", empty)
	}

	*now = testNow.AddDate(0, -1, 0)
	if _, err := st.CreateSale(ctx, NewSale{Lines: []SaleLine{{MedicineID: med.ID, Quantity: 1, PriceAtSale: 12}}, TotalAmount: 12, PaymentMode: domain.PaymentCash, CreatedBy: owner.ID}); err != nil {
		t.Fatalf("sale: %v", err)
	}
	*now = testNow
	if _, err := st.CreateSale(ctx, NewSale{Lines: []SaleLine{{MedicineID: med.ID, Quantity: 2, PriceAtSale: 15}}, TotalAmount: 28, Discount: 2, PaymentMode: domain.PaymentCard, CreatedBy: owner.ID}); err != nil {
		t.Fatalf("sale: %v", err)
	}

	month := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	totals, err := st.Totals(ctx, month, time.Time{})
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	want := domain.SalesTotals{TotalRevenue: 28, TotalProfit: 10, SalesCount: 1}
	if totals != want {
		t.Fatalf("expected %+v, got %+v", want, totals)
	}
}

func TestReports(t *testing.T) {
	ctx := context.Background()
	st, now := setup(t)
	owner := mustUser(t, st, "owner@example.com", domain.RoleOwner)
	sup := mustSupplier(t, st, "Acme")
	para := mustMedicine(t, st, domain.Medicine{Name: "Paracetamol", Quantity: 100, PurchasePrice: 1, SupplierID: sup.ID})
	ibu := mustMedicine(t, st, domain.Medicine{Name: "Ibuprofen", Quantity: 100, PurchasePrice: 2, SupplierID: sup.ID})

	*now = time.Date(2026, 8, 5, 9, 0, 0, 0, time.UTC)
	if _, err := st.CreateSale(ctx, NewSale{Lines: []SaleLine{{MedicineID: para.ID, Quantity: 3, PriceAtSale: 2}}, TotalAmount: 6, PaymentMode: domain.PaymentCash, CreatedBy: owner.ID}); err != nil {
		t.Fatalf("sale: %v", err)
	}
	*now = testNow
	if _, err := st.CreateSale(ctx, NewSale{
		Lines: []SaleLine{
			{MedicineID: ibu.ID, Quantity: 5, PriceAtSale: 4},
			{MedicineID: para.ID, Quantity: 1, PriceAtSale: 2},
		},
		TotalAmount: 22,
		PaymentMode: domain.PaymentUPI,
		CreatedBy:   owner.ID,
	}); err != nil {
		t.Fatalf("sale: %v", err)
	}

	top, err := st.TopSelling(ctx, 0)
	if err != nil {
		t.Fatalf("top selling: %v", err)
	}
	want := []domain.TopSeller{
		{MedicineID: ibu.ID, Name: "Ibuprofen", TotalQuantity: 5, TotalRevenue: 20},
		{MedicineID: para.ID, Name: "Paracetamol", TotalQuantity: 4, TotalRevenue: 8},
	}
	if len(top) != len(want) {
		t.Fatalf("expected %d sellers, got %+v", len(want), top)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Fatalf("seller %d: expected %+v, got %+v", i, want[i], top[i])
		}
	}

	one, err := st.TopSelling(ctx, 1)
	if err != nil {
		t.Fatalf("top selling: %v", err)
	}
	if len(one) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(one))
	}

	summary, err := st.MonthlySummary(ctx, testNow.AddDate(0, -6, 0))
	if err != nil {
		t.Fatalf("monthly summary: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("expected 2 months, got %+v", summary)
	}
	if summary[0].Year != 2026 || summary[0].Month != 8 || summary[0].TotalRevenue != 6 || summary[0].TotalProfit != 3 {
		t.Fatalf("unexpected august %+v", summary[0])
	}
	if summary[1].Month != 10 || summary[1].SalesCount != 1 || summary[1].TotalProfit != 11 {
		t.Fatalf("unexpected october %+v", summary[1])
	}
}
