package auth

import (
	"testing"
	"time"

	"gkmedicos/api/domain"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	token, err := iss.Issue(Identity{UserID: 7, Role: domain.RoleStaff})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := iss.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != 7 || id.Role != domain.RoleStaff {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	token, _ := NewIssuer("one", time.Hour).Issue(Identity{UserID: 1, Role: domain.RoleOwner})
	if _, err := NewIssuer("two", time.Hour).Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	iss := NewIssuer("secret", time.Minute)
	issuedAt := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return issuedAt }
	token, err := iss.Issue(Identity{UserID: 1, Role: domain.RoleOwner})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	iss.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, err := iss.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := NewIssuer("secret", time.Hour).Verify("not.a.token"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("owner123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hashed, "owner123") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hashed, "owner124") {
		t.Fatal("expected wrong password to fail")
	}
}
