package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/supplier"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

const columns = `
	id, name, COALESCE(contact_person, '') AS contact_person, phone,
	COALESCE(email, '') AS email, address, COALESCE(city, '') AS city,
	COALESCE(province, '') AS province, COALESCE(postal_code, '') AS postal_code,
	COALESCE(notes, '') AS notes, created_by, is_active, created_at, updated_at, deleted_at
`

func (s *Store) Create(ctx context.Context, sp *supplier.Supplier) error {
	query := `
		INSERT INTO suppliers (name, contact_person, phone, email, address, city, province, postal_code, notes, created_by, is_active, created_at, updated_at)
		VALUES (:name, :contact_person, :phone, :email, :address, :city, :province, :postal_code, :notes, :created_by, :is_active, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := database.NamedReturning(ctx, s.db, query, sp, &sp.ID, &sp.CreatedAt, &sp.UpdatedAt); err != nil {
		return database.Classify("creating supplier", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	var sp supplier.Supplier

	query := `SELECT ` + columns + ` FROM suppliers WHERE id = $1 AND deleted_at IS NULL`
	if err := s.db.GetContext(ctx, &sp, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, supplier.ErrNotFound
		}

		return nil, database.Classify("getting supplier", err)
	}

	return &sp, nil
}

var sorts = map[string]string{
	"name":       "name",
	"city":       "city",
	"created_at": "created_at",
}

func (s *Store) List(ctx context.Context, filter supplier.Filter) ([]*supplier.Supplier, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := map[string]any{}

	if filter.Search != "" {
		conditions = append(conditions, "(name ILIKE :search OR contact_person ILIKE :search OR phone ILIKE :search)")
		args["search"] = "%" + filter.Search + "%"
	}

	if filter.City != "" {
		conditions = append(conditions, "city ILIKE :city")
		args["city"] = "%" + filter.City + "%"
	}

	if filter.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *filter.IsActive
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	total, err := database.NamedCount(ctx, s.db, "SELECT count(*) FROM suppliers"+where, args)
	if err != nil {
		return nil, 0, database.Classify("counting suppliers", err)
	}

	query := `SELECT ` + columns + ` FROM suppliers` + where +
		database.OrderBy(sorts, filter.SortBy, filter.SortOrder, "created_at") + filter.Page.Clause()

	var suppliers []*supplier.Supplier
	if err := database.NamedSelect(ctx, s.db, &suppliers, query, args); err != nil {
		return nil, 0, database.Classify("listing suppliers", err)
	}

	return suppliers, total, nil
}

func (s *Store) Update(ctx context.Context, sp *supplier.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = :name, contact_person = :contact_person, phone = :phone, email = :email, address = :address,
			city = :city, province = :province, postal_code = :postal_code, notes = :notes,
			is_active = :is_active, updated_at = NOW()
		WHERE id = :id AND deleted_at IS NULL
		RETURNING updated_at
	`

	if err := database.NamedReturning(ctx, s.db, query, sp, &sp.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return supplier.ErrNotFound
		}

		return database.Classify("updating supplier", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE suppliers
		SET is_active = false, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return database.Classify("deleting supplier", err)
	}

	return database.ExpectOne(res, supplier.ErrNotFound)
}
