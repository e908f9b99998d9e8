package store

import (
	"context"

	"github.com/pkg/errors"

	"gkmedicos/api/domain"
)

const contactColumns = `id, name, phone, email, message, status, created_at`

func (s *Store) CreateContact(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	c.Status = domain.ContactNew
	c.CreatedAt = s.stamp()
	err := s.db.QueryRowxContext(ctx, s.q(`INSERT INTO contacts (name, phone, email, message, status, created_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		c.Name, c.Phone, c.Email, c.Message, c.Status, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return domain.Contact{}, errors.Wrap(err, "insert contact")
	}
	return c, nil
}

func (s *Store) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	contacts := []domain.Contact{}
	if err := s.db.SelectContext(ctx, &contacts, `SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, errors.Wrap(err, "list contacts")
	}
	return contacts, nil
}

func (s *Store) UpdateContactStatus(ctx context.Context, id int64, status string) (domain.Contact, error) {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE contacts SET status = ? WHERE id = ?`), status, id)
	if err != nil {
		return domain.Contact{}, errors.Wrap(err, "update contact")
	}
	if err := expectRow(res, "contact"); err != nil {
		return domain.Contact{}, err
	}
	var c domain.Contact
	if err := s.db.GetContext(ctx, &c, s.q(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`), id); err != nil {
		return domain.Contact{}, notFound(err, "contact")
	}
	return c, nil
}
