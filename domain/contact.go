package domain

// Contact enquiry states.
const (
	ContactNew       = "new"
	ContactContacted = "contacted"
	ContactResolved  = "resolved"
)

type Contact struct {
	ID        int64  `db:"id" json:"_id"`
	Name      string `db:"name" json:"name"`
	Phone     string `db:"phone" json:"phone"`
	Email     string `db:"email" json:"email"`
	Message   string `db:"message" json:"message"`
	Status    string `db:"status" json:"status"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}
