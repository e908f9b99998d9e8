package jobs

import (
	"context"
	"testing"
	"time"

	"gkmedicos/api/domain"
	"gkmedicos/api/internal/database/dbtest"
	"gkmedicos/api/internal/store"
)

func TestScan(t *testing.T) {
	ctx := context.Background()
	st := store.New(dbtest.Open(t)).WithClock(func() time.Time {
		return time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)
	})
	sup, err := st.CreateSupplier(ctx, domain.Supplier{Name: "Acme", Phone: "1", Address: "2"})
	if err != nil {
		t.Fatal(err)
	}
	add := func(name, expiry string, qty int64) {
		t.Helper()
		_, err := st.CreateMedicine(ctx, domain.Medicine{
			Name: name, Category: "Tablet", BatchNumber: "B", ExpiryDate: expiry,
			Quantity: qty, SupplierID: sup.ID, LowStockThreshold: 10,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	scanner := NewStockScanner(st, 0)
	alert, err := scanner.Scan(ctx)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !alert.Empty() {
		t.Fatalf("expected clean scan, got %+v", alert)
	}

	add("Low", "2028-01-01", 3)
	add("Expiring", "2026-11-01", 50)
	add("Later", "2027-03-01", 50)

	alert, err = scanner.Scan(ctx)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(alert.LowStock) != 1 || alert.LowStock[0].Name != "Low" {
		t.Fatalf("unexpected low stock %+v", alert.LowStock)
	}
	if len(alert.Expiring) != 1 || alert.Expiring[0].Name != "Expiring" {
		t.Fatalf("unexpected expiring %+v", alert.Expiring)
	}

	alert, err = NewStockScanner(st, 365).Scan(ctx)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(alert.Expiring) != 2 {
		t.Fatalf("expected wider window to include Later, got %+v", alert.Expiring)
	}
}

func TestStart(t *testing.T) {
	st := store.New(dbtest.Open(t))
	scanner := NewStockScanner(st, 30)

	if _, err := scanner.Start("not a schedule"); err == nil {
		t.Fatal("expected invalid schedule to be rejected")
	}
	for _, spec := range []string{"@daily", "0 8 * * *", "*/30 * * * * *"} {
		sched, err := scanner.Start(spec)
		if err != nil {
			t.Fatalf("start %q: %v", spec, err)
		}
		if len(sched.Entries()) != 1 {
			t.Fatalf("expected one scheduled entry for %q", spec)
		}
		<-sched.Stop().Done()
	}
}
