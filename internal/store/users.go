package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"gkmedicos/api/domain"
)

const userColumns = `id, name, email, password, role, created_at`

// CreateUser inserts u. Password must already be hashed.
func (s *Store) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = s.stamp()

	var exists int
	if err := s.db.GetContext(ctx, &exists, s.q(`SELECT COUNT(*) FROM users WHERE email = ?`), u.Email); err != nil {
		return domain.User{}, errors.Wrap(err, "check email")
	}
	if exists > 0 {
		return domain.User{}, errors.Wrap(ErrConflict, "email already exists")
	}

	err := s.db.QueryRowxContext(ctx, s.q(`INSERT INTO users (name, email, password, role, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`),
		u.Name, u.Email, u.Password, u.Role, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return domain.User{}, errors.Wrap(err, "insert user")
	}
	return u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT `+userColumns+` FROM users WHERE email = ?`), strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return domain.User{}, notFound(err, "user")
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (domain.User, error) {
	var u domain.User
	if err := s.db.GetContext(ctx, &u, s.q(`SELECT `+userColumns+` FROM users WHERE id = ?`), id); err != nil {
		return domain.User{}, notFound(err, "user")
	}
	return u, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id int64, hashed string) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE users SET password = ? WHERE id = ?`), hashed, id)
	if err != nil {
		return errors.Wrap(err, "update password")
	}
	return expectRow(res, "user")
}
