package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gkmedicos/api/domain"
	"gkmedicos/api/internal/auth"
	"gkmedicos/api/internal/database/dbtest"
	"gkmedicos/api/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(dbtest.Open(t)).WithClock(func() time.Time {
		return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	})
}

const catalogCSV = `name,category,batchNumber,expiryDate,quantity,purchasePrice,sellingPrice,lowStockThreshold,supplierName,supplierPhone,supplierAddress
Paracetamol 500mg,Tablet,PCM01,2027-06-30,200,1.5,2.5,20,Sun Distributors,9000000001,Ring Road
Amoxicillin 250mg,Capsule,AMX07,09/30/2027,80,4,6,0,sun distributors,9000000001,Ring Road
Cough Syrup,Syrup,CS11,not-a-date,10,30,45,5,Medline,9000000002,Market Street
,Tablet,X1,2027-01-01,1,1,1,1,Medline,9000000002,Market Street
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(path, []byte(catalogCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	path := writeCatalog(t)

	added, err := LoadCatalog(ctx, st, path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 medicines, got %d", added)
	}

	suppliers, err := st.ListSuppliers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(suppliers) != 1 || suppliers[0].Name != "Sun Distributors" {
		t.Fatalf("expected one shared supplier, got %+v", suppliers)
	}

	medicines, err := st.ListMedicines(ctx, store.MedicineFilter{Search: "amoxicillin"})
	if err != nil {
		t.Fatal(err)
	}
	if len(medicines) != 1 {
		t.Fatalf("expected amoxicillin to be loaded, got %+v", medicines)
	}
	m := medicines[0]
	if m.ExpiryDate != "2027-09-30" || m.LowStockThreshold != domain.DefaultLowStockThreshold || m.Quantity != 80 {
		t.Fatalf("unexpected medicine %+v", m)
	}

	again, err := LoadCatalog(ctx, st, path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again != 0 {
		t.Fatalf("reloading the same catalog added %d rows", again)
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := LoadCatalog(context.Background(), newStore(t), filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected an error for a missing catalog")
	}
}

func TestEnsureAccounts(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	owner := Account{Name: "Owner", Email: "owner@gkmedicos.com", Password: "owner123", Role: domain.RoleOwner}
	staff := Account{Name: "Staff", Email: "staff@gkmedicos.com", Password: "staff123", Role: domain.RoleStaff}

	if err := EnsureAccounts(ctx, st, owner, staff); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	owner.Password = "changed"
	if err := EnsureAccounts(ctx, st, owner, staff); err != nil {
		t.Fatalf("ensure twice: %v", err)
	}

	u, err := st.UserByEmail(ctx, owner.Email)
	if err != nil {
		t.Fatal(err)
	}
	if !auth.CheckPassword(u.Password, "owner123") {
		t.Fatal("existing account password must not be overwritten")
	}
	if u.Role != domain.RoleOwner {
		t.Fatalf("unexpected role %q", u.Role)
	}

	err = EnsureAccounts(ctx, st, Account{Name: "Root", Email: "root@gkmedicos.com", Password: "x", Role: "admin"})
	if err == nil {
		t.Fatal("expected unknown role to be rejected")
	}
}
