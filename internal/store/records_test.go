package store

import (
	"context"
	"errors"
	"testing"

	"gkmedicos/api/domain"
)

func TestPurchases(t *testing.T) {
	ctx := context.Background()
	st, _ := setup(t)
	sup := mustSupplier(t, st, "Acme")

	_, err := st.CreatePurchase(ctx, domain.Purchase{SupplierID: 99})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}

	p, err := st.CreatePurchase(ctx, domain.Purchase{
		SupplierID: sup.ID,
		TotalCost:  500,
		Items: []domain.PurchaseItem{
			{Name: "Paracetamol", BatchNumber: "P1", Quantity: 50, PurchasePrice: 10, ExpiryDate: "2027-06-30"},
		},
	})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	if p.ID == 0 || p.Date == "" {
		t.Fatalf("unexpected purchase %+v", p)
	}

	list, err := st.ListPurchases(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || len(list[0].Items) != 1 || list[0].Items[0].BatchNumber != "P1" {
		t.Fatalf("unexpected purchases %+v", list)
	}
}

func TestContacts(t *testing.T) {
	ctx := context.Background()
	st, _ := setup(t)

	c, err := st.CreateContact(ctx, domain.Contact{Name: "Ravi", Phone: "999", Message: "Do you stock insulin?"})
	if err != nil {
		t.Fatalf("create contact: %v", err)
	}
	if c.Status != domain.ContactNew {
		t.Fatalf("expected status new, got %q", c.Status)
	}

	updated, err := st.UpdateContactStatus(ctx, c.ID, domain.ContactResolved)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.ContactResolved || updated.Message != c.Message {
		t.Fatalf("unexpected contact %+v", updated)
	}
	if _, err := st.UpdateContactStatus(ctx, 77, domain.ContactContacted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, err := st.ListContacts(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(list))
	}
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	st, _ := setup(t)
	u := mustUser(t, st, "staff@example.com", domain.RoleStaff)

	if err := st.UpdatePassword(ctx, u.ID, "new-hash"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := st.UserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Password != "new-hash" {
		t.Fatalf("password not stored")
	}
	if err := st.UpdatePassword(ctx, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLikePattern(t *testing.T) {
	cases := map[string]string{
		"Test": "%test%",
		"50%":  `%50\%%`,
		"a_b":  `%a\_b%`,
		`c:\x`: `%c:\\x%`,
	}
	for in, want := range cases {
		if got := likePattern(in); got != want {
			t.Errorf("likePattern(%q) = %q, want %q", in, got, want)
		}
	}
}
