package supplier_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Kesavaawalakbari/konek/internal/supplier"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    supplier.Params
		setupMock func(m *supplier.MockRepository)
		wantErr   error
	}

	valid := supplier.Params{
		Name:    "CV Sumber Rejeki",
		Phone:   "+62 (22) 731-0099",
		Address: "Jl. Cibaduyut No. 12",
	}

	with := func(edit func(p *supplier.Params)) supplier.Params {
		p := valid
		edit(&p)

		return p
	}

	tests := []testCase{
		{
			name:   "Valid",
			params: with(func(p *supplier.Params) { p.Name = "  CV Sumber Rejeki  " }),
			setupMock: func(m *supplier.MockRepository) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, s *supplier.Supplier) error {
						assert.Equal(t, "CV Sumber Rejeki", s.Name)
						s.ID = uuid.New()

						return nil
					})
			},
		},
		{
			name:   "OptionalEmailAccepted",
			params: with(func(p *supplier.Params) { p.Email = "order@sumberrejeki.co.id" }),
			setupMock: func(m *supplier.MockRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "NameTooShort",
			params:  with(func(p *supplier.Params) { p.Name = "C" }),
			wantErr: supplier.ErrInvalidInput,
		},
		{
			name:    "MissingPhone",
			params:  with(func(p *supplier.Params) { p.Phone = "" }),
			wantErr: supplier.ErrInvalidInput,
		},
		{
			name:    "PhoneWithLetters",
			params:  with(func(p *supplier.Params) { p.Phone = "0812-ABC" }),
			wantErr: supplier.ErrInvalidInput,
		},
		{
			name:    "BadEmail",
			params:  with(func(p *supplier.Params) { p.Email = "bukan-email" }),
			wantErr: supplier.ErrInvalidInput,
		},
		{
			name:    "MissingAddress",
			params:  with(func(p *supplier.Params) { p.Address = "  " }),
			wantErr: supplier.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := supplier.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := supplier.NewService(repo).Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.True(t, got.IsActive)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := supplier.NewMockRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), id).Return(&supplier.Supplier{
		ID:       id,
		Name:     "CV Sumber Rejeki",
		Phone:    "0227310099",
		Address:  "Jl. Cibaduyut No. 12",
		City:     "Bandung",
		IsActive: true,
	}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	got, err := supplier.NewService(repo).Update(context.Background(), id, supplier.UpdateParams{
		City:     new(" Cimahi "),
		IsActive: new(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cimahi", got.City)
	assert.Equal(t, "CV Sumber Rejeki", got.Name)
	assert.False(t, got.IsActive)
}

func TestService_Update_RejectsInvalidPhone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := supplier.NewMockRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), id).Return(&supplier.Supplier{
		ID: id, Name: "CV Sumber Rejeki", Phone: "0227310099", Address: "Bandung",
	}, nil)

	_, err := supplier.NewService(repo).Update(context.Background(), id, supplier.UpdateParams{Phone: new("telp kantor")})
	assert.ErrorIs(t, err, supplier.ErrInvalidInput)
}

func TestService_Delete(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		id := uuid.New()
		repo := supplier.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), id).Return(nil, supplier.ErrNotFound)

		assert.ErrorIs(t, supplier.NewService(repo).Delete(context.Background(), id), supplier.ErrNotFound)
	})

	t.Run("SoftDeletes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		id := uuid.New()
		repo := supplier.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), id).Return(&supplier.Supplier{ID: id}, nil)
		repo.EXPECT().Delete(gomock.Any(), id).Return(nil)

		assert.NoError(t, supplier.NewService(repo).Delete(context.Background(), id))
	})
}

func TestService_List_NormalizesPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := supplier.NewMockRepository(ctrl)
	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f supplier.Filter) ([]*supplier.Supplier, int, error) {
			assert.Equal(t, 1, f.Page.Page)
			assert.Equal(t, 100, f.Limit)
			assert.Equal(t, "rejeki", f.Search)

			return nil, 0, nil
		})

	f := supplier.Filter{Search: "rejeki"}
	f.Limit = 1000

	_, _, err := supplier.NewService(repo).List(context.Background(), f)
	require.NoError(t, err)
}
