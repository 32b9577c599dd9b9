package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/database"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// ProductColumns is the column list matching catalog.Product's db tags.
// Nullable text columns are coalesced so they scan into plain strings.
const ProductColumns = `
	id, umkm_id, name, COALESCE(description, '') AS description, category,
	COALESCE(sku, '') AS sku, unit, price, stock, min_stock, is_active,
	created_at, updated_at, deleted_at
`

const storeColumns = `
	id, name, COALESCE(category, '') AS category, COALESCE(address, '') AS address,
	COALESCE(city, '') AS city, COALESCE(province, '') AS province,
	COALESCE(postal_code, '') AS postal_code, COALESCE(phone, '') AS phone,
	COALESCE(email, '') AS email, COALESCE(owner_name, '') AS owner_name,
	is_active, created_at, updated_at, deleted_at
`

const insertProduct = `
	INSERT INTO products (umkm_id, name, description, category, sku, unit, price, stock, min_stock, is_active, created_at, updated_at)
	VALUES (:umkm_id, :name, :description, :category, :sku, :unit, :price, :stock, :min_stock, :is_active, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func (s *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	if err := database.NamedReturning(ctx, s.db, insertProduct, p, &p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return database.Classify("creating product", err)
	}

	return nil
}

func (s *Store) CreateProducts(ctx context.Context, ps []*catalog.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return database.Classify("beginning product import", err)
	}
	defer tx.Rollback()

	for _, p := range ps {
		if err := database.NamedReturning(ctx, tx, insertProduct, p, &p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return database.Classify(fmt.Sprintf("importing product %q", p.Name), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return database.Classify("committing product import", err)
	}

	return nil
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return GetProduct(ctx, s.db, id)
}

// GetProduct reads a live product through q, which may be a *sqlx.DB or a *sqlx.Tx.
func GetProduct(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product

	query := `SELECT ` + ProductColumns + ` FROM products WHERE id = $1 AND deleted_at IS NULL`
	if err := sqlx.GetContext(ctx, q, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, database.Classify("getting product", err)
	}

	return &p, nil
}

var productSorts = map[string]string{
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"category":   "category",
	"created_at": "created_at",
}

func (s *Store) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := map[string]any{}

	if filter.Search != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + filter.Search + "%"
	}

	if filter.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = filter.Category
	}

	if filter.UMKMID != nil {
		conditions = append(conditions, "umkm_id = :umkm_id")
		args["umkm_id"] = *filter.UMKMID
	}

	if filter.LowStock {
		conditions = append(conditions, "is_active AND stock <= min_stock")
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	total, err := database.NamedCount(ctx, s.db, "SELECT count(*) FROM products"+where, args)
	if err != nil {
		return nil, 0, database.Classify("counting products", err)
	}

	query := `SELECT ` + ProductColumns + ` FROM products` + where +
		database.OrderBy(productSorts, filter.SortBy, filter.SortOrder, "created_at") + filter.Page.Clause()

	var products []*catalog.Product
	if err := database.NamedSelect(ctx, s.db, &products, query, args); err != nil {
		return nil, 0, database.Classify("listing products", err)
	}

	return products, total, nil
}

// UpdateProduct writes the descriptive columns only; stock moves through the ledger.
func (s *Store) UpdateProduct(ctx context.Context, p *catalog.Product) error {
	query := `
		UPDATE products
		SET name = :name, description = :description, category = :category, sku = :sku,
			unit = :unit, price = :price, min_stock = :min_stock, updated_at = NOW()
		WHERE id = :id AND deleted_at IS NULL
		RETURNING updated_at
	`

	if err := database.NamedReturning(ctx, s.db, query, p, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.ErrNotFound
		}

		return database.Classify("updating product", err)
	}

	return nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE products
		SET is_active = false, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return database.Classify("deleting product", err)
	}

	return database.ExpectOne(res, catalog.ErrNotFound)
}

func (s *Store) ListLowStock(ctx context.Context) ([]*catalog.Product, error) {
	query := `SELECT ` + ProductColumns + `
		FROM products
		WHERE deleted_at IS NULL AND is_active AND stock <= min_stock
		ORDER BY stock ASC, name ASC`

	var products []*catalog.Product
	if err := s.db.SelectContext(ctx, &products, query); err != nil {
		return nil, database.Classify("listing low stock products", err)
	}

	return products, nil
}

func (s *Store) CreateStore(ctx context.Context, st *catalog.Store) error {
	query := `
		INSERT INTO stores (name, category, address, city, province, postal_code, phone, email, owner_name, is_active, created_at, updated_at)
		VALUES (:name, :category, :address, :city, :province, :postal_code, :phone, :email, :owner_name, :is_active, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if err := database.NamedReturning(ctx, s.db, query, st, &st.ID, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return database.Classify("creating store", err)
	}

	return nil
}

func (s *Store) GetStore(ctx context.Context, id uuid.UUID) (*catalog.Store, error) {
	var st catalog.Store

	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1 AND deleted_at IS NULL`
	if err := s.db.GetContext(ctx, &st, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, database.Classify("getting store", err)
	}

	return &st, nil
}

var storeSorts = map[string]string{
	"name":       "name",
	"city":       "city",
	"created_at": "created_at",
}

func (s *Store) ListStores(ctx context.Context, filter catalog.StoreFilter) ([]*catalog.Store, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := map[string]any{}

	if filter.Search != "" {
		conditions = append(conditions, "(name ILIKE :search OR owner_name ILIKE :search OR address ILIKE :search)")
		args["search"] = "%" + filter.Search + "%"
	}

	if filter.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = filter.Category
	}

	if filter.City != "" {
		conditions = append(conditions, "city ILIKE :city")
		args["city"] = filter.City
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	total, err := database.NamedCount(ctx, s.db, "SELECT count(*) FROM stores"+where, args)
	if err != nil {
		return nil, 0, database.Classify("counting stores", err)
	}

	query := `SELECT ` + storeColumns + ` FROM stores` + where +
		database.OrderBy(storeSorts, filter.SortBy, filter.SortOrder, "created_at") + filter.Page.Clause()

	var stores []*catalog.Store
	if err := database.NamedSelect(ctx, s.db, &stores, query, args); err != nil {
		return nil, 0, database.Classify("listing stores", err)
	}

	return stores, total, nil
}

func (s *Store) UpdateStore(ctx context.Context, st *catalog.Store) error {
	query := `
		UPDATE stores
		SET name = :name, category = :category, address = :address, city = :city, province = :province,
			postal_code = :postal_code, phone = :phone, email = :email, owner_name = :owner_name, updated_at = NOW()
		WHERE id = :id AND deleted_at IS NULL
		RETURNING updated_at
	`

	if err := database.NamedReturning(ctx, s.db, query, st, &st.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.ErrNotFound
		}

		return database.Classify("updating store", err)
	}

	return nil
}

func (s *Store) DeleteStore(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE stores
		SET is_active = false, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return database.Classify("deleting store", err)
	}

	return database.ExpectOne(res, catalog.ErrNotFound)
}
