package employee

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kesavaawalakbari/konek/internal/database"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=employee
type Repository interface {
	Create(ctx context.Context, e *Employee) error
	Get(ctx context.Context, id uuid.UUID) (*Employee, error)
	List(ctx context.Context, filter Filter) ([]*Employee, int, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	phonePattern = regexp.MustCompile(`^[\d\-+() ]+$`)
	validate     = validator.New()
)

type Service struct {
	repo Repository
	now  func() time.Time
	loc  *time.Location
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone in which the default join date is taken.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		now:  time.Now,
		loc:  time.UTC,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type Filter struct {
	database.Page

	Search    string
	Position  string
	Status    Status
	SortBy    string
	SortOrder string
}

type Params struct {
	UserID    *uuid.UUID
	Name      string
	Email     string
	Phone     string
	Position  string
	Address   string
	JoinDate  *time.Time
	Salary    *decimal.Decimal
	CreatedBy *uuid.UUID
}

type UpdateParams struct {
	Name     *string
	Email    *string
	Phone    *string
	Position *string
	Address  *string
	JoinDate *time.Time
	Salary   *decimal.Decimal
	Status   *Status
}

func (s *Service) Create(ctx context.Context, params Params) (*Employee, error) {
	e := &Employee{
		UserID:    params.UserID,
		Name:      strings.TrimSpace(params.Name),
		Email:     normalizeEmail(params.Email),
		Phone:     strings.TrimSpace(params.Phone),
		Position:  strings.TrimSpace(params.Position),
		Address:   strings.TrimSpace(params.Address),
		Salary:    params.Salary,
		Status:    StatusActive,
		CreatedBy: params.CreatedBy,
	}

	if params.JoinDate != nil {
		e.JoinDate = dateOf(*params.JoinDate, s.loc)
	} else {
		e.JoinDate = dateOf(s.now().In(s.loc), s.loc)
	}

	if err := validateEmployee(e); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Employee, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]*Employee, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}

	filter.Offset()

	return s.repo.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Employee, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}

	apply(&e.Name, params.Name)
	apply(&e.Phone, params.Phone)
	apply(&e.Position, params.Position)
	apply(&e.Address, params.Address)

	if params.Email != nil {
		e.Email = normalizeEmail(*params.Email)
	}

	if params.JoinDate != nil {
		e.JoinDate = dateOf(*params.JoinDate, s.loc)
	}

	if params.Salary != nil {
		e.Salary = params.Salary
	}

	if params.Status != nil {
		e.Status = *params.Status
	}

	if err := validateEmployee(e); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// dateOf keeps t's calendar date as written and places it at midnight in loc.
func dateOf(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func validateEmployee(e *Employee) error {
	if n := utf8.RuneCountInString(e.Name); n < 2 || n > 100 {
		return fmt.Errorf("%w: employee name must be 2-100 characters", ErrInvalidInput)
	}

	if err := validate.Var(e.Email, "required,email"); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, e.Email)
	}

	if e.Phone == "" || !phonePattern.MatchString(e.Phone) {
		return fmt.Errorf("%w: phone must contain only digits, spaces and +-()", ErrInvalidInput)
	}

	if e.Position == "" {
		return fmt.Errorf("%w: position is required", ErrInvalidInput)
	}

	if e.Salary != nil && e.Salary.IsNegative() {
		return fmt.Errorf("%w: salary must not be negative", ErrInvalidInput)
	}

	if !e.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, e.Status)
	}

	return nil
}
