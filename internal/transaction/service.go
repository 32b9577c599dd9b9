package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/event"
	"github.com/Kesavaawalakbari/konek/internal/inventory"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, int, error)
	QueryTransactions(ctx context.Context, filter QueryFilter) ([]*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	BeginCheckout(ctx context.Context) (CheckoutTx, error)
}

// CheckoutTx writes one order inside a single database transaction.
type CheckoutTx interface {
	InsertTransaction(ctx context.Context, tx *Transaction) error
	InsertItems(ctx context.Context, txID uuid.UUID, items []Item) error
	// DecrementStock applies the same guarded update as the ledger.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (*catalog.Product, error)
	Commit() error
	Rollback() error
}

// Catalog provides the fresh reads used to validate an order.
type Catalog interface {
	GetStore(ctx context.Context, id uuid.UUID) (*catalog.Store, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
}

const (
	readAttempts = 3
	readBackoff  = 25 * time.Millisecond
)

type Service struct {
	repo    Repository
	catalog Catalog
	events  event.Publisher
	now     func() time.Time
	numbers NumberGenerator
	loc     *time.Location
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNumberGenerator(gen NumberGenerator) Option {
	return func(s *Service) { s.numbers = gen }
}

// WithLocation sets the business time zone used for the number's date stamp.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithPublisher(p event.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func NewService(repo Repository, cat Catalog, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: cat,
		events:  event.Nop{},
		now:     time.Now,
		numbers: RandomNumber,
		loc:     time.UTC,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

type ItemParams struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	// Subtotal is optional; when set it must equal Quantity x Price.
	Subtotal *decimal.Decimal
}

type CreateParams struct {
	StoreID       *uuid.UUID
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	PaymentStatus PaymentStatus
	Notes         string
	CreatedBy     string
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	// TotalAmount and FinalAmount are derived when nil and verified otherwise.
	TotalAmount *decimal.Decimal
	FinalAmount *decimal.Decimal
	Items       []ItemParams
}

type ListFilter struct {
	database.Page

	Search        string
	StoreID       *uuid.UUID
	PaymentStatus *PaymentStatus
	Status        Status
	StartDate     *time.Time
	EndDate       *time.Time
	SortBy        string
	SortOrder     string
}

// QueryFilter selects transactions created in [From, To) with the given status.
type QueryFilter struct {
	From   time.Time
	To     time.Time
	Status Status
}

type UpdateParams struct {
	CustomerName  *string
	CustomerPhone *string
	PaymentMethod *string
	PaymentStatus *PaymentStatus
	Notes         *string
}

// Create validates the whole order against fresh reads and only then writes
// the header, its items and every stock decrement in one database
// transaction. Validation failures are returned as plain or *LineError
// errors; anything that goes wrong after writing started is an *ApplyError.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx, err := assemble(params)
	if err != nil {
		return nil, err
	}

	if err := s.check(ctx, params.StoreID, tx.Items); err != nil {
		return nil, err
	}

	tx.Number, err = s.numbers(s.now().In(s.loc))
	if err != nil {
		return nil, err
	}

	low, err := s.apply(ctx, tx)
	if err != nil {
		var applyErr *ApplyError
		if errors.As(err, &applyErr) && applyErr.NeedsReconciliation() {
			slog.Error("Checkout commit outcome unknown", "transaction_number", tx.Number, "error", err)
		}

		return nil, err
	}

	slog.Info("Transaction created",
		"transaction_number", tx.Number,
		"items", len(tx.Items),
		"final_amount", tx.FinalAmount.String(),
	)

	events := []event.Event{event.New(event.TypeTransactionCreated, tx.ID.String(), createdPayload(tx))}
	for _, p := range low {
		events = append(events, inventory.LowStockEvent(p))
	}

	event.PublishBestEffort(ctx, s.events, events...)

	return tx, nil
}

// Validate runs every check Create performs without writing anything.
func (s *Service) Validate(ctx context.Context, params CreateParams) error {
	tx, err := assemble(params)
	if err != nil {
		return err
	}

	return s.check(ctx, params.StoreID, tx.Items)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, int, error) {
	filter.Offset()

	if filter.Status == "" {
		filter.Status = StatusActive
	}

	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.Status == StatusDeleted {
		return nil, ErrNotFound
	}

	if params.CustomerName != nil {
		tx.CustomerName = strings.TrimSpace(*params.CustomerName)
	}

	if params.CustomerPhone != nil {
		tx.CustomerPhone = strings.TrimSpace(*params.CustomerPhone)
	}

	if params.PaymentMethod != nil {
		tx.PaymentMethod = strings.TrimSpace(*params.PaymentMethod)
	}

	if params.PaymentStatus != nil {
		if !params.PaymentStatus.Valid() {
			return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, *params.PaymentStatus)
		}

		tx.PaymentStatus = *params.PaymentStatus
	}

	if params.Notes != nil {
		tx.Notes = *params.Notes
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Delete soft-deletes the transaction. Stock is not restored.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

// check validates the store and every line against fresh reads. Demand for a
// product that appears on several lines is summed before comparing.
func (s *Service) check(ctx context.Context, storeID *uuid.UUID, items []Item) error {
	if storeID != nil {
		st, err := readWithRetry(ctx, func(ctx context.Context) (*catalog.Store, error) {
			return s.catalog.GetStore(ctx, *storeID)
		})
		if errors.Is(err, catalog.ErrNotFound) || (err == nil && !st.IsActive) {
			return fmt.Errorf("%w: %s", ErrInvalidStore, storeID)
		}

		if err != nil {
			return fmt.Errorf("checking store: %w", err)
		}
	}

	demand := make(map[uuid.UUID]int, len(items))

	for i := range items {
		it := &items[i]

		p, err := readWithRetry(ctx, func(ctx context.Context) (*catalog.Product, error) {
			return s.catalog.GetProduct(ctx, it.ProductID)
		})
		if errors.Is(err, catalog.ErrNotFound) {
			return &LineError{Index: i, ProductID: it.ProductID, Err: ErrProductNotFound}
		}

		if err != nil {
			return fmt.Errorf("checking product %s: %w", it.ProductID, err)
		}

		it.ProductName = p.Name
		demand[it.ProductID] += it.Quantity

		if demand[it.ProductID] > p.Stock {
			return &LineError{Index: i, ProductID: it.ProductID, ProductName: p.Name, Err: ErrInsufficientStock}
		}
	}

	return nil
}

// apply writes the order. Writes are never retried: a failure rolls the
// whole checkout back and surfaces as an *ApplyError.
func (s *Service) apply(ctx context.Context, tx *Transaction) ([]*catalog.Product, error) {
	ctk, err := s.repo.BeginCheckout(ctx)
	if err != nil {
		return nil, &ApplyError{Step: "begin", Err: err}
	}
	defer ctk.Rollback()

	if err := ctk.InsertTransaction(ctx, tx); err != nil {
		return nil, &ApplyError{Step: "inserting transaction", Err: err}
	}

	if err := ctk.InsertItems(ctx, tx.ID, tx.Items); err != nil {
		return nil, &ApplyError{Step: "inserting items", Err: err}
	}

	low := make(map[uuid.UUID]*catalog.Product)

	var order []uuid.UUID

	for i, it := range tx.Items {
		p, err := ctk.DecrementStock(ctx, it.ProductID, it.Quantity)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				err = ErrProductNotFound
			}

			return nil, &ApplyError{
				Step: "decrementing stock",
				Err:  &LineError{Index: i, ProductID: it.ProductID, ProductName: it.ProductName, Err: err},
			}
		}

		if p.IsLowStock() {
			if _, seen := low[p.ID]; !seen {
				order = append(order, p.ID)
			}

			low[p.ID] = p
		}
	}

	if err := ctk.Commit(); err != nil {
		return nil, &ApplyError{Step: "commit", Err: err, CommitUnknown: true}
	}

	products := make([]*catalog.Product, 0, len(order))
	for _, id := range order {
		products = append(products, low[id])
	}

	return products, nil
}

// assemble checks the order's shape and arithmetic before any storage access
// and derives the totals the caller left out.
func assemble(params CreateParams) (*Transaction, error) {
	if len(params.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}

	if params.Discount.IsNegative() {
		return nil, fmt.Errorf("%w: discount must not be negative", ErrInvalidInput)
	}

	if params.Tax.IsNegative() {
		return nil, fmt.Errorf("%w: tax must not be negative", ErrInvalidInput)
	}

	status := params.PaymentStatus
	if status == "" {
		status = PaymentPending
	}

	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, status)
	}

	total := decimal.Zero
	items := make([]Item, len(params.Items))

	for i, ip := range params.Items {
		lineErr := func(msg string, args ...any) error {
			return &LineError{Index: i, ProductID: ip.ProductID, Err: fmt.Errorf("%w: "+msg, append([]any{ErrInvalidInput}, args...)...)}
		}

		if ip.ProductID == uuid.Nil {
			return nil, lineErr("product id is required")
		}

		if ip.Quantity <= 0 {
			return nil, lineErr("quantity must be positive")
		}

		if ip.Price.IsNegative() {
			return nil, lineErr("price must not be negative")
		}

		subtotal := ip.Price.Mul(decimal.NewFromInt(int64(ip.Quantity)))
		if ip.Subtotal != nil && !ip.Subtotal.Equal(subtotal) {
			return nil, lineErr("subtotal %s does not equal quantity x price %s", ip.Subtotal, subtotal)
		}

		items[i] = Item{
			ProductID: ip.ProductID,
			Quantity:  ip.Quantity,
			Price:     ip.Price,
			Subtotal:  subtotal,
		}
		total = total.Add(subtotal)
	}

	if params.TotalAmount != nil && !params.TotalAmount.Equal(total) {
		return nil, fmt.Errorf("%w: total amount %s does not equal sum of subtotals %s", ErrInvalidInput, params.TotalAmount, total)
	}

	final := total.Sub(params.Discount).Add(params.Tax)
	if params.FinalAmount != nil && !params.FinalAmount.Equal(final) {
		return nil, fmt.Errorf("%w: final amount %s does not equal total - discount + tax %s", ErrInvalidInput, params.FinalAmount, final)
	}

	if final.IsNegative() {
		return nil, fmt.Errorf("%w: discount exceeds total plus tax", ErrInvalidInput)
	}

	return &Transaction{
		StoreID:       params.StoreID,
		CustomerName:  strings.TrimSpace(params.CustomerName),
		CustomerPhone: strings.TrimSpace(params.CustomerPhone),
		TotalAmount:   total,
		Discount:      params.Discount,
		Tax:           params.Tax,
		FinalAmount:   final,
		PaymentMethod: strings.TrimSpace(params.PaymentMethod),
		PaymentStatus: status,
		Status:        StatusActive,
		Notes:         params.Notes,
		CreatedBy:     params.CreatedBy,
		Items:         items,
	}, nil
}

// readWithRetry repeats a read that failed transiently. Only reads go through
// here; nothing has been written when they run.
func readWithRetry[T any](ctx context.Context, read func(context.Context) (T, error)) (T, error) {
	for attempt := 1; ; attempt++ {
		v, err := read(ctx)
		if err == nil || !database.IsTransient(err) || attempt == readAttempts {
			return v, err
		}

		slog.Warn("Retrying read after transient failure", "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return v, ctx.Err()
		case <-time.After(time.Duration(attempt) * readBackoff):
		}
	}
}

// CreatedPayload is published after a checkout commits.
type CreatedPayload struct {
	ID            string        `json:"id"`
	Number        string        `json:"transaction_number"`
	StoreID       string        `json:"store_id,omitempty"`
	FinalAmount   string        `json:"final_amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Items         []CreatedItem `json:"items"`
}

type CreatedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func createdPayload(tx *Transaction) CreatedPayload {
	p := CreatedPayload{
		ID:            tx.ID.String(),
		Number:        tx.Number,
		FinalAmount:   tx.FinalAmount.String(),
		PaymentStatus: tx.PaymentStatus,
		Items:         make([]CreatedItem, len(tx.Items)),
	}

	if tx.StoreID != nil {
		p.StoreID = tx.StoreID.String()
	}

	for i, it := range tx.Items {
		p.Items[i] = CreatedItem{ProductID: it.ProductID.String(), Quantity: it.Quantity}
	}

	return p
}
