package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/employee"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const columns = `
	id, user_id, name, email, phone, position, COALESCE(address, '') AS address,
	join_date, salary, status, created_by, created_at, updated_at, deleted_at
`

func (s *Store) Create(ctx context.Context, e *employee.Employee) error {
	query := `
		INSERT INTO employees (user_id, name, email, phone, position, address, join_date, salary, status, created_by, created_at, updated_at)
		VALUES (:user_id, :name, :email, :phone, :position, :address, :join_date, :salary, :status, :created_by, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := database.NamedReturning(ctx, s.db, query, e, &e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if database.IsUniqueViolation(err) {
			return employee.ErrDuplicate
		}

		return database.Classify("creating employee", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	var e employee.Employee

	query := `SELECT ` + columns + ` FROM employees WHERE id = $1 AND deleted_at IS NULL`
	if err := s.db.GetContext(ctx, &e, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, employee.ErrNotFound
		}

		return nil, database.Classify("getting employee", err)
	}

	return &e, nil
}

var sorts = map[string]string{
	"name":       "name",
	"position":   "position",
	"join_date":  "join_date",
	"created_at": "created_at",
}

func (s *Store) List(ctx context.Context, filter employee.Filter) ([]*employee.Employee, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := map[string]any{}

	if filter.Search != "" {
		conditions = append(conditions, "(name ILIKE :search OR email ILIKE :search OR phone ILIKE :search)")
		args["search"] = "%" + filter.Search + "%"
	}

	if filter.Position != "" {
		conditions = append(conditions, "position = :position")
		args["position"] = filter.Position
	}

	if filter.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = filter.Status
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	total, err := database.NamedCount(ctx, s.db, "SELECT count(*) FROM employees"+where, args)
	if err != nil {
		return nil, 0, database.Classify("counting employees", err)
	}

	query := `SELECT ` + columns + ` FROM employees` + where +
		database.OrderBy(sorts, filter.SortBy, filter.SortOrder, "created_at") + filter.Page.Clause()

	var employees []*employee.Employee
	if err := database.NamedSelect(ctx, s.db, &employees, query, args); err != nil {
		return nil, 0, database.Classify("listing employees", err)
	}

	return employees, total, nil
}

func (s *Store) Update(ctx context.Context, e *employee.Employee) error {
	query := `
		UPDATE employees
		SET name = :name, email = :email, phone = :phone, position = :position, address = :address,
			join_date = :join_date, salary = :salary, status = :status, updated_at = NOW()
		WHERE id = :id AND deleted_at IS NULL
		RETURNING updated_at
	`

	if err := database.NamedReturning(ctx, s.db, query, e, &e.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return employee.ErrNotFound
		case database.IsUniqueViolation(err):
			return employee.ErrDuplicate
		}

		return database.Classify("updating employee", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE employees
		SET status = 'inactive', deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return database.Classify("deleting employee", err)
	}

	return database.ExpectOne(res, employee.ErrNotFound)
}
