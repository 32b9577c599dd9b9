package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Kesavaawalakbari/konek/internal/catalog"
)

func TestService_CreateProduct(t *testing.T) {
	type testCase struct {
		name         string
		params       catalog.ProductParams
		setupMock    func(m *catalog.MockRepository)
		wantErr      error
		wantMinStock int
		wantUnit     string
	}

	tests := []testCase{
		{
			name: "Defaults",
			params: catalog.ProductParams{
				Name:     "Keripik Singkong",
				Category: "Makanan",
				Price:    decimal.NewFromInt(15000),
				Stock:    20,
			},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().
					CreateProduct(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *catalog.Product) error {
						p.ID = uuid.New()
						return nil
					})
			},
			wantMinStock: catalog.DefaultMinStock,
			wantUnit:     catalog.DefaultUnit,
		},
		{
			name: "ExplicitMinStockZero",
			params: catalog.ProductParams{
				Name:     "Kopi Gayo",
				Category: "Minuman",
				Unit:     "kg",
				Price:    decimal.NewFromInt(90000),
				MinStock: new(0),
			},
			setupMock: func(m *catalog.MockRepository) {
				m.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantMinStock: 0,
			wantUnit:     "kg",
		},
		{
			name:    "NameTooShort",
			params:  catalog.ProductParams{Name: "A", Category: "Makanan"},
			wantErr: catalog.ErrInvalidInput,
		},
		{
			name:    "MissingCategory",
			params:  catalog.ProductParams{Name: "Sambal"},
			wantErr: catalog.ErrInvalidInput,
		},
		{
			name: "NegativePrice",
			params: catalog.ProductParams{
				Name:     "Sambal",
				Category: "Makanan",
				Price:    decimal.NewFromInt(-1),
			},
			wantErr: catalog.ErrInvalidInput,
		},
		{
			name: "NegativeStock",
			params: catalog.ProductParams{
				Name:     "Sambal",
				Category: "Makanan",
				Stock:    -3,
			},
			wantErr: catalog.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := catalog.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := catalog.NewService(repo)
			got, err := svc.CreateProduct(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantMinStock, got.MinStock)
			assert.Equal(t, tt.wantUnit, got.Unit)
			assert.True(t, got.IsActive)
		})
	}
}

func TestService_ImportProducts(t *testing.T) {
	t.Run("AllRowsInsertedTogether", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := catalog.NewMockRepository(ctrl)
		repo.EXPECT().
			CreateProducts(gomock.Any(), gomock.Len(2)).
			Return(nil)

		svc := catalog.NewService(repo)
		got, err := svc.ImportProducts(context.Background(), []catalog.ProductParams{
			{Name: "Batik Tulis", Category: "Fashion", Price: decimal.NewFromInt(250000)},
			{Name: "Madu Hutan", Category: "Makanan", Price: decimal.NewFromInt(120000)},
		})

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("BadRowRejectsBatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := catalog.NewMockRepository(ctrl)
		svc := catalog.NewService(repo)

		_, err := svc.ImportProducts(context.Background(), []catalog.ProductParams{
			{Name: "Batik Tulis", Category: "Fashion"},
			{Name: "X", Category: "Fashion"},
		})

		assert.ErrorIs(t, err, catalog.ErrInvalidInput)
		assert.Contains(t, err.Error(), "row 2")
	})

	t.Run("Empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := catalog.NewService(catalog.NewMockRepository(ctrl))

		got, err := svc.ImportProducts(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestService_UpdateProduct_KeepsStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	existing := &catalog.Product{
		ID:       id,
		Name:     "Kopi Gayo",
		Category: "Minuman",
		Unit:     "kg",
		Price:    decimal.NewFromInt(90000),
		Stock:    7,
		MinStock: 5,
		IsActive: true,
	}

	repo := catalog.NewMockRepository(ctrl)
	repo.EXPECT().GetProduct(gomock.Any(), id).Return(existing, nil)
	repo.EXPECT().
		UpdateProduct(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *catalog.Product) error {
			assert.Equal(t, 7, p.Stock)
			assert.True(t, p.Price.Equal(decimal.NewFromInt(95000)))

			return nil
		})

	svc := catalog.NewService(repo)
	got, err := svc.UpdateProduct(context.Background(), id, catalog.UpdateProductParams{
		Price: new(decimal.NewFromInt(95000)),
	})

	require.NoError(t, err)
	assert.Equal(t, "Kopi Gayo", got.Name)
}

func TestService_DeleteProduct(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		id := uuid.New()
		repo := catalog.NewMockRepository(ctrl)
		repo.EXPECT().GetProduct(gomock.Any(), id).Return(nil, catalog.ErrNotFound)

		err := catalog.NewService(repo).DeleteProduct(context.Background(), id)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("SoftDeletes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		id := uuid.New()
		repo := catalog.NewMockRepository(ctrl)
		repo.EXPECT().GetProduct(gomock.Any(), id).Return(&catalog.Product{ID: id}, nil)
		repo.EXPECT().DeleteProduct(gomock.Any(), id).Return(nil)

		assert.NoError(t, catalog.NewService(repo).DeleteProduct(context.Background(), id))
	})
}

func TestService_ListProducts_NormalizesPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := catalog.NewMockRepository(ctrl)
	repo.EXPECT().
		ListProducts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f catalog.ProductFilter) ([]*catalog.Product, int, error) {
			assert.Equal(t, 1, f.Page.Page)
			assert.Equal(t, 10, f.Limit)

			return nil, 0, nil
		})

	_, total, err := catalog.NewService(repo).ListProducts(context.Background(), catalog.ProductFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestService_UpdateStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := catalog.NewMockRepository(ctrl)
	repo.EXPECT().GetStore(gomock.Any(), id).Return(&catalog.Store{ID: id, Name: "Toko Berkah", City: "Bandung"}, nil)
	repo.EXPECT().UpdateStore(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

	_, err := catalog.NewService(repo).UpdateStore(context.Background(), id, catalog.UpdateStoreParams{
		City: new("Jakarta"),
	})
	assert.Error(t, err)
}

func TestProduct_IsLowStock(t *testing.T) {
	assert.True(t, (&catalog.Product{IsActive: true, Stock: 10, MinStock: 10}).IsLowStock())
	assert.False(t, (&catalog.Product{IsActive: true, Stock: 11, MinStock: 10}).IsLowStock())
	assert.False(t, (&catalog.Product{IsActive: false, Stock: 0, MinStock: 10}).IsLowStock())
}
