package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kesavaawalakbari/konek/internal/database"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	CreateProducts(ctx context.Context, ps []*Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, int, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListLowStock(ctx context.Context) ([]*Product, error)

	CreateStore(ctx context.Context, s *Store) error
	GetStore(ctx context.Context, id uuid.UUID) (*Store, error)
	ListStores(ctx context.Context, filter StoreFilter) ([]*Store, int, error)
	UpdateStore(ctx context.Context, s *Store) error
	DeleteStore(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ProductFilter struct {
	database.Page

	Search    string
	Category  string
	UMKMID    *uuid.UUID
	LowStock  bool
	SortBy    string
	SortOrder string
}

type StoreFilter struct {
	database.Page

	Search    string
	Category  string
	City      string
	SortBy    string
	SortOrder string
}

type ProductParams struct {
	UMKMID      *uuid.UUID
	Name        string
	Description string
	Category    string
	SKU         string
	Unit        string
	Price       decimal.Decimal
	Stock       int
	MinStock    *int
}

type UpdateProductParams struct {
	Name        *string
	Description *string
	Category    *string
	SKU         *string
	Unit        *string
	Price       *decimal.Decimal
	MinStock    *int
}

type StoreParams struct {
	Name       string
	Category   string
	Address    string
	City       string
	Province   string
	PostalCode string
	Phone      string
	Email      string
	OwnerName  string
}

type UpdateStoreParams struct {
	Name       *string
	Category   *string
	Address    *string
	City       *string
	Province   *string
	PostalCode *string
	Phone      *string
	Email      *string
	OwnerName  *string
}

func (s *Service) CreateProduct(ctx context.Context, params ProductParams) (*Product, error) {
	p := newProduct(params)
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// ImportProducts validates every row first and inserts them together, so a
// bad row never leaves a half-imported catalog behind.
func (s *Service) ImportProducts(ctx context.Context, params []ProductParams) ([]*Product, error) {
	if len(params) == 0 {
		return nil, nil
	}

	products := make([]*Product, len(params))
	for i, p := range params {
		products[i] = newProduct(p)
		if err := validateProduct(products[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	if err := s.repo.CreateProducts(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, int, error) {
	filter.Offset()

	return s.repo.ListProducts(ctx, filter)
}

func (s *Service) LowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, params UpdateProductParams) (*Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		p.Name = strings.TrimSpace(*params.Name)
	}

	if params.Description != nil {
		p.Description = *params.Description
	}

	if params.Category != nil {
		p.Category = strings.TrimSpace(*params.Category)
	}

	if params.SKU != nil {
		p.SKU = strings.TrimSpace(*params.SKU)
	}

	if params.Unit != nil {
		p.Unit = strings.TrimSpace(*params.Unit)
	}

	if params.Price != nil {
		p.Price = *params.Price
	}

	if params.MinStock != nil {
		p.MinStock = *params.MinStock
	}

	if err := validateProduct(p); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetProduct(ctx, id); err != nil {
		return err
	}

	return s.repo.DeleteProduct(ctx, id)
}

func (s *Service) CreateStore(ctx context.Context, params StoreParams) (*Store, error) {
	st := &Store{
		Name:       strings.TrimSpace(params.Name),
		Category:   strings.TrimSpace(params.Category),
		Address:    params.Address,
		City:       params.City,
		Province:   params.Province,
		PostalCode: params.PostalCode,
		Phone:      params.Phone,
		Email:      params.Email,
		OwnerName:  params.OwnerName,
		IsActive:   true,
	}
	if err := validateStore(st); err != nil {
		return nil, err
	}

	if err := s.repo.CreateStore(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *Service) GetStore(ctx context.Context, id uuid.UUID) (*Store, error) {
	return s.repo.GetStore(ctx, id)
}

func (s *Service) ListStores(ctx context.Context, filter StoreFilter) ([]*Store, int, error) {
	filter.Offset()

	return s.repo.ListStores(ctx, filter)
}

func (s *Service) UpdateStore(ctx context.Context, id uuid.UUID, params UpdateStoreParams) (*Store, error) {
	st, err := s.repo.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}

	apply(&st.Name, params.Name)
	apply(&st.Category, params.Category)
	apply(&st.Address, params.Address)
	apply(&st.City, params.City)
	apply(&st.Province, params.Province)
	apply(&st.PostalCode, params.PostalCode)
	apply(&st.Phone, params.Phone)
	apply(&st.Email, params.Email)
	apply(&st.OwnerName, params.OwnerName)

	if err := validateStore(st); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStore(ctx, st); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *Service) DeleteStore(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetStore(ctx, id); err != nil {
		return err
	}

	return s.repo.DeleteStore(ctx, id)
}

func newProduct(params ProductParams) *Product {
	p := &Product{
		UMKMID:      params.UMKMID,
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		Category:    strings.TrimSpace(params.Category),
		SKU:         strings.TrimSpace(params.SKU),
		Unit:        strings.TrimSpace(params.Unit),
		Price:       params.Price,
		Stock:       params.Stock,
		MinStock:    DefaultMinStock,
		IsActive:    true,
	}

	if p.Unit == "" {
		p.Unit = DefaultUnit
	}

	if params.MinStock != nil {
		p.MinStock = *params.MinStock
	}

	return p
}

func validateProduct(p *Product) error {
	if n := utf8.RuneCountInString(p.Name); n < 2 || n > 200 {
		return fmt.Errorf("%w: name must be 2-200 characters", ErrInvalidInput)
	}

	if p.Category == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}

	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}

	if p.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidInput)
	}

	if p.MinStock < 0 {
		return fmt.Errorf("%w: min stock must not be negative", ErrInvalidInput)
	}

	return nil
}

func validateStore(s *Store) error {
	if n := utf8.RuneCountInString(s.Name); n < 2 || n > 200 {
		return fmt.Errorf("%w: store name must be 2-200 characters", ErrInvalidInput)
	}

	return nil
}
