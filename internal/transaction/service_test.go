package transaction_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
	"github.com/Kesavaawalakbari/konek/internal/database"
	"github.com/Kesavaawalakbari/konek/internal/transaction"
)

var fixedNow = time.Date(2025, 11, 15, 20, 30, 0, 0, time.UTC)

func fixedNumber(at time.Time) (string, error) {
	return "TRX-" + at.Format("20060102") + "-ABC123", nil
}

func newService(repo transaction.Repository, cat transaction.Catalog) *transaction.Service {
	return transaction.NewService(repo, cat,
		transaction.WithClock(func() time.Time { return fixedNow }),
		transaction.WithNumberGenerator(fixedNumber),
	)
}

func rupiah(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	cat := transaction.NewMockCatalog(ctrl)
	ctk := transaction.NewMockCheckoutTx(ctrl)

	storeID := uuid.New()
	kopi := uuid.New()
	gula := uuid.New()

	cat.EXPECT().GetStore(gomock.Any(), storeID).Return(&catalog.Store{ID: storeID, IsActive: true}, nil)
	cat.EXPECT().GetProduct(gomock.Any(), kopi).Return(&catalog.Product{ID: kopi, Name: "Kopi Gayo", Stock: 10}, nil)
	cat.EXPECT().GetProduct(gomock.Any(), gula).Return(&catalog.Product{ID: gula, Name: "Gula Aren", Stock: 4}, nil)

	repo.EXPECT().BeginCheckout(gomock.Any()).Return(ctk, nil)
	ctk.EXPECT().
		InsertTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			tx.ID = uuid.New()
			return nil
		})
	ctk.EXPECT().InsertItems(gomock.Any(), gomock.Any(), gomock.Len(2)).Return(nil)
	ctk.EXPECT().DecrementStock(gomock.Any(), kopi, 2).Return(&catalog.Product{ID: kopi, Stock: 8, MinStock: 5, IsActive: true}, nil)
	ctk.EXPECT().DecrementStock(gomock.Any(), gula, 1).Return(&catalog.Product{ID: gula, Stock: 3, MinStock: 5, IsActive: true}, nil)
	ctk.EXPECT().Commit().Return(nil)
	ctk.EXPECT().Rollback().Return(nil)

	got, err := newService(repo, cat).Create(context.Background(), transaction.CreateParams{
		StoreID:       &storeID,
		CustomerName:  " Budi ",
		PaymentMethod: "cash",
		Discount:      rupiah(5000),
		Tax:           rupiah(2000),
		Items: []transaction.ItemParams{
			{ProductID: kopi, Quantity: 2, Price: rupiah(45000)},
			{ProductID: gula, Quantity: 1, Price: rupiah(20000)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "TRX-20251115-ABC123", got.Number)
	assert.Equal(t, "Budi", got.CustomerName)
	assert.Equal(t, transaction.PaymentPending, got.PaymentStatus)
	assert.Equal(t, transaction.StatusActive, got.Status)
	assert.True(t, got.TotalAmount.Equal(rupiah(110000)), got.TotalAmount.String())
	assert.True(t, got.FinalAmount.Equal(rupiah(107000)), got.FinalAmount.String())
	assert.True(t, got.Items[0].Subtotal.Equal(rupiah(90000)))
	assert.Equal(t, "Kopi Gayo", got.Items[0].ProductName)
}

func TestService_Create_NumberUsesBusinessDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	store := newMemStore()
	id := store.addProduct("Kopi Gayo", 3)

	svc := transaction.NewService(store, store,
		transaction.WithClock(func() time.Time { return fixedNow }),
		transaction.WithNumberGenerator(fixedNumber),
		transaction.WithLocation(jakarta),
	)

	got, err := svc.Create(context.Background(), transaction.CreateParams{
		Items: []transaction.ItemParams{{ProductID: id, Quantity: 1, Price: rupiah(1000)}},
	})

	require.NoError(t, err)
	assert.Equal(t, "TRX-20251116-ABC123", got.Number)
}

func TestService_Create_InvalidInput(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name   string
		params transaction.CreateParams
	}{
		{name: "NoItems", params: transaction.CreateParams{}},
		{
			name: "ZeroQuantity",
			params: transaction.CreateParams{Items: []transaction.ItemParams{
				{ProductID: id, Quantity: 0, Price: rupiah(1000)},
			}},
		},
		{
			name: "NegativePrice",
			params: transaction.CreateParams{Items: []transaction.ItemParams{
				{ProductID: id, Quantity: 1, Price: rupiah(-1)},
			}},
		},
		{
			name: "MissingProduct",
			params: transaction.CreateParams{Items: []transaction.ItemParams{
				{Quantity: 1, Price: rupiah(1000)},
			}},
		},
		{
			name: "SubtotalMismatch",
			params: transaction.CreateParams{Items: []transaction.ItemParams{
				{ProductID: id, Quantity: 2, Price: rupiah(1000), Subtotal: new(rupiah(1500))},
			}},
		},
		{
			name: "TotalMismatch",
			params: transaction.CreateParams{
				TotalAmount: new(rupiah(3000)),
				Items:       []transaction.ItemParams{{ProductID: id, Quantity: 2, Price: rupiah(1000)}},
			},
		},
		{
			name: "FinalMismatch",
			params: transaction.CreateParams{
				Discount:    rupiah(500),
				FinalAmount: new(rupiah(2000)),
				Items:       []transaction.ItemParams{{ProductID: id, Quantity: 2, Price: rupiah(1000)}},
			},
		},
		{
			name: "NegativeDiscount",
			params: transaction.CreateParams{
				Discount: rupiah(-1),
				Items:    []transaction.ItemParams{{ProductID: id, Quantity: 1, Price: rupiah(1000)}},
			},
		},
		{
			name: "DiscountAboveTotal",
			params: transaction.CreateParams{
				Discount: rupiah(5000),
				Items:    []transaction.ItemParams{{ProductID: id, Quantity: 1, Price: rupiah(1000)}},
			},
		},
		{
			name: "UnknownPaymentStatus",
			params: transaction.CreateParams{
				PaymentStatus: "refunded",
				Items:         []transaction.ItemParams{{ProductID: id, Quantity: 1, Price: rupiah(1000)}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// Storage must not be touched.
			repo := transaction.NewMockRepository(ctrl)
			cat := transaction.NewMockCatalog(ctrl)

			got, err := newService(repo, cat).Create(context.Background(), tt.params)
			assert.ErrorIs(t, err, transaction.ErrInvalidInput)
			assert.Nil(t, got)
		})
	}
}

func TestService_Create_MatchingTotalsAccepted(t *testing.T) {
	store := newMemStore()
	id := store.addProduct("Keripik", 10)

	got, err := newService(store, store).Create(context.Background(), transaction.CreateParams{
		Discount:    rupiah(1000),
		Tax:         rupiah(500),
		TotalAmount: new(rupiah(30000)),
		FinalAmount: new(rupiah(29500)),
		Items: []transaction.ItemParams{
			{ProductID: id, Quantity: 2, Price: rupiah(15000), Subtotal: new(rupiah(30000))},
		},
	})

	require.NoError(t, err)
	assert.True(t, got.FinalAmount.Equal(rupiah(29500)))
	assert.Equal(t, 8, store.stock(id))
}

func TestService_Create_InvalidStore(t *testing.T) {
	tests := []struct {
		name  string
		store *catalog.Store
		err   error
	}{
		{name: "Missing", err: catalog.ErrNotFound},
		{name: "Inactive", store: &catalog.Store{IsActive: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			storeID := uuid.New()
			cat := transaction.NewMockCatalog(ctrl)
			cat.EXPECT().GetStore(gomock.Any(), storeID).Return(tt.store, tt.err)

			_, err := newService(transaction.NewMockRepository(ctrl), cat).Create(context.Background(), transaction.CreateParams{
				StoreID: &storeID,
				Items:   []transaction.ItemParams{{ProductID: uuid.New(), Quantity: 1, Price: rupiah(1000)}},
			})
			assert.ErrorIs(t, err, transaction.ErrInvalidStore)
		})
	}
}

func TestService_Create_UnknownProductRejectsWholeOrder(t *testing.T) {
	store := newMemStore()
	valid := store.addProduct("Batik Tulis", 10)
	missing := uuid.New()

	_, err := newService(store, store).Create(context.Background(), transaction.CreateParams{
		Items: []transaction.ItemParams{
			{ProductID: valid, Quantity: 2, Price: rupiah(250000)},
			{ProductID: missing, Quantity: 1, Price: rupiah(1000)},
		},
	})

	require.ErrorIs(t, err, transaction.ErrProductNotFound)

	var lineErr *transaction.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Index)
	assert.Equal(t, missing, lineErr.ProductID)

	var applyErr *transaction.ApplyError
	assert.False(t, errors.As(err, &applyErr))

	assert.Equal(t, 10, store.stock(valid))
	assert.Zero(t, store.count())
}

func TestService_Create_ExactStock(t *testing.T) {
	store := newMemStore()
	id := store.addProduct("Madu Hutan", 5)

	_, err := newService(store, store).Create(context.Background(), transaction.CreateParams{
		Items: []transaction.ItemParams{{ProductID: id, Quantity: 5, Price: rupiah(120000)}},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, store.stock(id))
}

func TestService_Create_OverStock(t *testing.T) {
	store := newMemStore()
	id := store.addProduct("Madu Hutan", 5)

	_, err := newService(store, store).Create(context.Background(), transaction.CreateParams{
		Items: []transaction.ItemParams{{ProductID: id, Quantity: 6, Price: rupiah(120000)}},
	})

	assert.ErrorIs(t, err, transaction.ErrInsufficientStock)

	var lineErr *transaction.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, "Madu Hutan", lineErr.ProductName)
	assert.Equal(t, 5, store.stock(id))
}

func TestService_Create_DemandSummedAcrossLines(t *testing.T) {
	store := newMemStore()
	id := store.addProduct("Sambal Roa", 5)

	_, err := newService(store, store).Create(context.Background(), transaction.CreateParams{
		Items: []transaction.ItemParams{
			{ProductID: id, Quantity: 3, Price: rupiah(30000)},
			{ProductID: id, Quantity: 3, Price: rupiah(30000)},
		},
	})

	var lineErr *transaction.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.ErrorIs(t, err, transaction.ErrInsufficientStock)
	assert.Equal(t, 1, lineErr.Index)
	assert.Equal(t, 5, store.stock(id))
}

func TestService_Create_RollsBackMidSequenceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	cat := transaction.NewMockCatalog(ctrl)
	ctk := transaction.NewMockCheckoutTx(ctrl)

	first, second := uuid.New(), uuid.New()

	cat.EXPECT().GetProduct(gomock.Any(), first).Return(&catalog.Product{ID: first, Name: "Kopi", Stock: 10}, nil)
	cat.EXPECT().GetProduct(gomock.Any(), second).Return(&catalog.Product{ID: second, Name: "Teh", Stock: 10}, nil)

	repo.EXPECT().BeginCheckout(gomock.Any()).Return(ctk, nil)
	ctk.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).Return(nil)
	ctk.EXPECT().InsertItems(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	ctk.EXPECT().DecrementStock(gomock.Any(), first, 1).Return(&catalog.Product{ID: first, Stock: 9, MinStock: 1, IsActive: true}, nil)
	// Another checkout took the stock between validation and apply.
	ctk.EXPECT().DecrementStock(gomock.Any(), second, 4).Return(nil, transaction.ErrInsufficientStock)
	ctk.EXPECT().Rollback().Return(nil)

	_, err := newService(repo, cat).Create(context.Background(), transaction.CreateParams{
		Items: []transaction.ItemParams{
			{ProductID: first, Quantity: 1, Price: rupiah(1000)},
			{ProductID: second, Quantity: 4, Price: rupiah(1000)},
		},
	})

	var applyErr *transaction.ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.False(t, applyErr.NeedsReconciliation())
	assert.ErrorIs(t, err, transaction.ErrInsufficientStock)

	var lineErr *transaction.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 1, lineErr.Index)
	assert.Equal(t, "Teh", lineErr.ProductName)
}

func TestService_Create_CommitFailureNeedsReconciliation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	cat := transaction.NewMockCatalog(ctrl)
	ctk := transaction.NewMockCheckoutTx(ctrl)

	id := uuid.New()

	cat.EXPECT().GetProduct(gomock.Any(), id).Return(&catalog.Product{ID: id, Stock: 10}, nil)
	repo.EXPECT().BeginCheckout(gomock.Any()).Return(ctk, nil)
	ctk.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).Return(nil)
	ctk.EXPECT().InsertItems(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	ctk.EXPECT().DecrementStock(gomock.Any(), id, 1).Return(&catalog.Product{ID: id, Stock: 9, MinStock: 1, IsActive: true}, nil)
	ctk.EXPECT().Commit().Return(errors.New("connection reset by peer"))
	ctk.EXPECT().Rollback().Return(nil)

	_, err := newService(repo, cat).Create(context.Background(), transaction.CreateParams{
		Items: []transaction.ItemParams{{ProductID: id, Quantity: 1, Price: rupiah(1000)}},
	})

	var applyErr *transaction.ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.True(t, applyErr.NeedsReconciliation())
	assert.Equal(t, "commit", applyErr.Step)
}

func TestService_Create_HeaderInsertFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	cat := transaction.NewMockCatalog(ctrl)
	ctk := transaction.NewMockCheckoutTx(ctrl)

	id := uuid.New()

	cat.EXPECT().GetProduct(gomock.Any(), id).Return(&catalog.Product{ID: id, Stock: 10}, nil)
	repo.EXPECT().BeginCheckout(gomock.Any()).Return(ctk, nil)
	ctk.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).Return(errors.New("duplicate key"))
	ctk.EXPECT().Rollback().Return(nil)

	_, err := newService(repo, cat).Create(context.Background(), transaction.CreateParams{
		Items: []transaction.ItemParams{{ProductID: id, Quantity: 1, Price: rupiah(1000)}},
	})

	var applyErr *transaction.ApplyError
	require.ErrorAs(t, err, &applyErr)
	assert.False(t, applyErr.NeedsReconciliation())
}

func TestService_Create_RetriesTransientReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	cat := transaction.NewMockCatalog(ctrl)
	ctk := transaction.NewMockCheckoutTx(ctrl)

	id := uuid.New()
	transient := fmt.Errorf("getting product: %w: %w", database.ErrTransient, errors.New("dial tcp: connection refused"))

	gomock.InOrder(
		cat.EXPECT().GetProduct(gomock.Any(), id).Return(nil, transient),
		cat.EXPECT().GetProduct(gomock.Any(), id).Return(&catalog.Product{ID: id, Stock: 3}, nil),
	)

	repo.EXPECT().BeginCheckout(gomock.Any()).Return(ctk, nil)
	ctk.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).Return(nil)
	ctk.EXPECT().InsertItems(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	ctk.EXPECT().DecrementStock(gomock.Any(), id, 1).Return(&catalog.Product{ID: id, Stock: 2, MinStock: 1, IsActive: true}, nil)
	ctk.EXPECT().Commit().Return(nil)
	ctk.EXPECT().Rollback().Return(nil)

	_, err := newService(repo, cat).Create(context.Background(), transaction.CreateParams{
		Items: []transaction.ItemParams{{ProductID: id, Quantity: 1, Price: rupiah(1000)}},
	})
	require.NoError(t, err)
}

func TestService_Create_GivesUpAfterThreeTransientReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cat := transaction.NewMockCatalog(ctrl)
	id := uuid.New()
	transient := fmt.Errorf("getting product: %w", database.ErrTransient)

	cat.EXPECT().GetProduct(gomock.Any(), id).Return(nil, transient).Times(3)

	_, err := newService(transaction.NewMockRepository(ctrl), cat).Create(context.Background(), transaction.CreateParams{
		Items: []transaction.ItemParams{{ProductID: id, Quantity: 1, Price: rupiah(1000)}},
	})
	assert.ErrorIs(t, err, database.ErrTransient)
}

func TestService_Create_DoesNotRetryPermanentReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cat := transaction.NewMockCatalog(ctrl)
	id := uuid.New()

	cat.EXPECT().GetProduct(gomock.Any(), id).Return(nil, errors.New("permission denied")).Times(1)

	_, err := newService(transaction.NewMockRepository(ctrl), cat).Create(context.Background(), transaction.CreateParams{
		Items: []transaction.ItemParams{{ProductID: id, Quantity: 1, Price: rupiah(1000)}},
	})
	assert.ErrorContains(t, err, "permission denied")
}

func TestService_Validate_Repeatable(t *testing.T) {
	store := newMemStore()
	ok := store.addProduct("Kopi", 2)
	svc := newService(store, store)

	accept := transaction.CreateParams{Items: []transaction.ItemParams{{ProductID: ok, Quantity: 2, Price: rupiah(1)}}}
	reject := transaction.CreateParams{Items: []transaction.ItemParams{{ProductID: ok, Quantity: 3, Price: rupiah(1)}}}

	for range 2 {
		assert.NoError(t, svc.Validate(context.Background(), accept))
		assert.ErrorIs(t, svc.Validate(context.Background(), reject), transaction.ErrInsufficientStock)
	}

	assert.Equal(t, 2, store.stock(ok))
	assert.Zero(t, store.count())
}

func TestService_Create_ConcurrentLastUnit(t *testing.T) {
	store := newMemStore()
	id := store.addProduct("Tenun Ikat", 1)
	svc := newService(store, store)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)

	for i := range errs {
		wg.Go(func() {
			_, errs[i] = svc.Create(context.Background(), transaction.CreateParams{
				Items: []transaction.ItemParams{{ProductID: id, Quantity: 1, Price: rupiah(500000)}},
			})
		})
	}

	wg.Wait()

	var succeeded int

	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}

		assert.ErrorIs(t, err, transaction.ErrInsufficientStock)
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, store.stock(id))
	assert.Equal(t, 1, store.count())
}

func TestService_Update(t *testing.T) {
	t.Run("SetsPaymentStatus", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		id := uuid.New()
		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{
			ID: id, PaymentStatus: transaction.PaymentPending, Status: transaction.StatusActive,
		}, nil)
		repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)

		got, err := newService(repo, transaction.NewMockCatalog(ctrl)).Update(context.Background(), id, transaction.UpdateParams{
			PaymentStatus: new(transaction.PaymentPaid),
		})

		require.NoError(t, err)
		assert.Equal(t, transaction.PaymentPaid, got.PaymentStatus)
	})

	t.Run("RejectsUnknownPaymentStatus", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		id := uuid.New()
		repo := transaction.NewMockRepository(ctrl)
		repo.EXPECT().GetTransaction(gomock.Any(), id).Return(&transaction.Transaction{ID: id, Status: transaction.StatusActive}, nil)

		_, err := newService(repo, transaction.NewMockCatalog(ctrl)).Update(context.Background(), id, transaction.UpdateParams{
			PaymentStatus: new(transaction.PaymentStatus("refunded")),
		})
		assert.ErrorIs(t, err, transaction.ErrInvalidInput)
	})
}

func TestService_List_DefaultsToActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f transaction.ListFilter) ([]*transaction.Transaction, int, error) {
			assert.Equal(t, transaction.StatusActive, f.Status)
			assert.Equal(t, 10, f.Limit)

			return []*transaction.Transaction{{ID: uuid.New()}}, 1, nil
		})

	got, total, err := newService(repo, transaction.NewMockCatalog(ctrl)).List(context.Background(), transaction.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, total)
}

func TestRandomNumber(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	seen := make(map[string]struct{})

	for range 50 {
		n, err := transaction.RandomNumber(at)
		require.NoError(t, err)
		assert.Regexp(t, `^TRX-20250102-[0-9A-Z]{6}$`, n)

		seen[n] = struct{}{}
	}

	assert.Greater(t, len(seen), 1)
}
