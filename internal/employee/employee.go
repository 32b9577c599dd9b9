package employee

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("employee not found")
	ErrDuplicate    = errors.New("employee email already registered")
	ErrInvalidInput = errors.New("invalid input")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Employee is a staff member of the centre. UserID links the login account
// when one exists. Deleting an employee marks them inactive and stamps
// DeletedAt.
type Employee struct {
	ID        uuid.UUID        `db:"id"`
	UserID    *uuid.UUID       `db:"user_id"`
	Name      string           `db:"name"`
	Email     string           `db:"email"`
	Phone     string           `db:"phone"`
	Position  string           `db:"position"`
	Address   string           `db:"address"`
	JoinDate  time.Time        `db:"join_date"`
	Salary    *decimal.Decimal `db:"salary"`
	Status    Status           `db:"status"`
	CreatedBy *uuid.UUID       `db:"created_by"`
	CreatedAt time.Time        `db:"created_at"`
	UpdatedAt *time.Time       `db:"updated_at"`
	DeletedAt *time.Time       `db:"deleted_at"`
}
