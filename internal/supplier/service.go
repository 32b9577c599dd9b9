package supplier

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Kesavaawalakbari/konek/internal/database"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=supplier
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	Get(ctx context.Context, id uuid.UUID) (*Supplier, error)
	List(ctx context.Context, filter Filter) ([]*Supplier, int, error)
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	phonePattern = regexp.MustCompile(`^[\d\-+() ]+$`)
	validate     = validator.New()
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Filter struct {
	database.Page

	Search    string
	City      string
	IsActive  *bool
	SortBy    string
	SortOrder string
}

type Params struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	City          string
	Province      string
	PostalCode    string
	Notes         string
	CreatedBy     *uuid.UUID
}

type UpdateParams struct {
	Name          *string
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
	City          *string
	Province      *string
	PostalCode    *string
	Notes         *string
	IsActive      *bool
}

func (s *Service) Create(ctx context.Context, params Params) (*Supplier, error) {
	sp := &Supplier{
		Name:          strings.TrimSpace(params.Name),
		ContactPerson: strings.TrimSpace(params.ContactPerson),
		Phone:         strings.TrimSpace(params.Phone),
		Email:         strings.TrimSpace(params.Email),
		Address:       strings.TrimSpace(params.Address),
		City:          strings.TrimSpace(params.City),
		Province:      strings.TrimSpace(params.Province),
		PostalCode:    strings.TrimSpace(params.PostalCode),
		Notes:         params.Notes,
		CreatedBy:     params.CreatedBy,
		IsActive:      true,
	}
	if err := validateSupplier(sp); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sp); err != nil {
		return nil, err
	}

	return sp, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Supplier, int, error) {
	filter.Offset()

	return s.repo.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Supplier, error) {
	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}

	apply(&sp.Name, params.Name)
	apply(&sp.ContactPerson, params.ContactPerson)
	apply(&sp.Phone, params.Phone)
	apply(&sp.Email, params.Email)
	apply(&sp.Address, params.Address)
	apply(&sp.City, params.City)
	apply(&sp.Province, params.Province)
	apply(&sp.PostalCode, params.PostalCode)

	if params.Notes != nil {
		sp.Notes = *params.Notes
	}

	if params.IsActive != nil {
		sp.IsActive = *params.IsActive
	}

	if err := validateSupplier(sp); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sp); err != nil {
		return nil, err
	}

	return sp, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func validateSupplier(s *Supplier) error {
	if n := utf8.RuneCountInString(s.Name); n < 2 || n > 200 {
		return fmt.Errorf("%w: supplier name must be 2-200 characters", ErrInvalidInput)
	}

	if s.Phone == "" || !phonePattern.MatchString(s.Phone) {
		return fmt.Errorf("%w: phone must contain only digits, spaces and +-()", ErrInvalidInput)
	}

	if s.Email != "" {
		if err := validate.Var(s.Email, "email"); err != nil {
			return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, s.Email)
		}
	}

	if s.Address == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}

	return nil
}
