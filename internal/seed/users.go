package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gkmedicos/api/domain"
	"gkmedicos/api/internal/auth"
	"gkmedicos/api/internal/store"
)

// Account is a login that must exist when the API starts.
type Account struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// EnsureAccounts creates any account whose email is not registered yet.
// Existing accounts are left untouched, passwords included.
func EnsureAccounts(ctx context.Context, st *store.Store, accounts ...Account) error {
	for _, acc := range accounts {
		if acc.Email == "" || acc.Password == "" {
			continue
		}
		if !domain.ValidRole(acc.Role) {
			return fmt.Errorf("seed account %s: unknown role %q", acc.Email, acc.Role)
		}
		_, err := st.UserByEmail(ctx, acc.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		hashed, err := auth.HashPassword(acc.Password)
		if err != nil {
			return err
		}
		if _, err := st.CreateUser(ctx, domain.User{Name: acc.Name, Email: acc.Email, Password: hashed, Role: acc.Role}); err != nil {
			return err
		}
		zap.S().Infof("created %s account %s", acc.Role, acc.Email)
	}
	return nil
}
