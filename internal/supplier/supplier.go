package supplier

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("supplier not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Supplier is a vendor the centre restocks from. Deleting a supplier is soft:
// IsActive drops to false and DeletedAt is stamped.
type Supplier struct {
	ID            uuid.UUID  `db:"id"`
	Name          string     `db:"name"`
	ContactPerson string     `db:"contact_person"`
	Phone         string     `db:"phone"`
	Email         string     `db:"email"`
	Address       string     `db:"address"`
	City          string     `db:"city"`
	Province      string     `db:"province"`
	PostalCode    string     `db:"postal_code"`
	Notes         string     `db:"notes"`
	CreatedBy     *uuid.UUID `db:"created_by"`
	IsActive      bool       `db:"is_active"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}
