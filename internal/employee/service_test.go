package employee_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Kesavaawalakbari/konek/internal/employee"
)

var wib = time.FixedZone("WIB", 7*60*60)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    employee.Params
		setupMock func(m *employee.MockRepository)
		wantErr   error
	}

	valid := employee.Params{
		Name:     "Siti Rahma",
		Email:    "Siti.Rahma@Konek.id ",
		Phone:    "0812-3456-7890",
		Position: "Kasir",
	}

	with := func(edit func(p *employee.Params)) employee.Params {
		p := valid
		edit(&p)

		return p
	}

	tests := []testCase{
		{
			name:   "Valid",
			params: valid,
			setupMock: func(m *employee.MockRepository) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *employee.Employee) error {
						assert.Equal(t, "siti.rahma@konek.id", e.Email)
						e.ID = uuid.New()

						return nil
					})
			},
		},
		{
			name:   "DuplicateEmail",
			params: valid,
			setupMock: func(m *employee.MockRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(employee.ErrDuplicate)
			},
			wantErr: employee.ErrDuplicate,
		},
		{
			name:    "NameTooLong",
			params:  with(func(p *employee.Params) { p.Name = strings.Repeat("a", 101) }),
			wantErr: employee.ErrInvalidInput,
		},
		{
			name:    "MissingEmail",
			params:  with(func(p *employee.Params) { p.Email = "" }),
			wantErr: employee.ErrInvalidInput,
		},
		{
			name:    "BadEmail",
			params:  with(func(p *employee.Params) { p.Email = "siti@" }),
			wantErr: employee.ErrInvalidInput,
		},
		{
			name:    "BadPhone",
			params:  with(func(p *employee.Params) { p.Phone = "nomor hp" }),
			wantErr: employee.ErrInvalidInput,
		},
		{
			name:    "MissingPosition",
			params:  with(func(p *employee.Params) { p.Position = "" }),
			wantErr: employee.ErrInvalidInput,
		},
		{
			name:    "NegativeSalary",
			params:  with(func(p *employee.Params) { p.Salary = new(decimal.NewFromInt(-1)) }),
			wantErr: employee.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := employee.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := employee.NewService(repo).Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, employee.StatusActive, got.Status)
		})
	}
}

func TestService_Create_DefaultJoinDateIsBusinessDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := employee.NewMockRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	// 18:30 UTC on Mar 3 is already Mar 4 in WIB.
	now := time.Date(2025, 3, 3, 18, 30, 0, 0, time.UTC)
	svc := employee.NewService(repo, employee.WithClock(func() time.Time { return now }), employee.WithLocation(wib))

	got, err := svc.Create(context.Background(), employee.Params{
		Name: "Budi", Email: "budi@konek.id", Phone: "0812000111", Position: "Gudang",
	})
	require.NoError(t, err)
	assert.True(t, got.JoinDate.Equal(time.Date(2025, 3, 4, 0, 0, 0, 0, wib)))
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := employee.NewMockRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), id).Return(&employee.Employee{
		ID:       id,
		Name:     "Siti Rahma",
		Email:    "siti@konek.id",
		Phone:    "0812",
		Position: "Kasir",
		Status:   employee.StatusActive,
	}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	got, err := employee.NewService(repo).Update(context.Background(), id, employee.UpdateParams{
		Email:    new("SITI.R@Konek.id"),
		Position: new("Supervisor"),
		Status:   new(employee.StatusInactive),
	})
	require.NoError(t, err)
	assert.Equal(t, "siti.r@konek.id", got.Email)
	assert.Equal(t, "Supervisor", got.Position)
	assert.Equal(t, employee.StatusInactive, got.Status)
}

func TestService_Update_RejectsUnknownStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := employee.NewMockRepository(ctrl)
	repo.EXPECT().Get(gomock.Any(), id).Return(&employee.Employee{
		ID: id, Name: "Siti Rahma", Email: "siti@konek.id", Phone: "0812", Position: "Kasir", Status: employee.StatusActive,
	}, nil)

	_, err := employee.NewService(repo).Update(context.Background(), id, employee.UpdateParams{
		Status: new(employee.Status("cuti")),
	})
	assert.ErrorIs(t, err, employee.ErrInvalidInput)
}

func TestService_Delete(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		id := uuid.New()
		repo := employee.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), id).Return(nil, employee.ErrNotFound)

		assert.ErrorIs(t, employee.NewService(repo).Delete(context.Background(), id), employee.ErrNotFound)
	})

	t.Run("SoftDeletes", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		id := uuid.New()
		repo := employee.NewMockRepository(ctrl)
		repo.EXPECT().Get(gomock.Any(), id).Return(&employee.Employee{ID: id}, nil)
		repo.EXPECT().Delete(gomock.Any(), id).Return(nil)

		assert.NoError(t, employee.NewService(repo).Delete(context.Background(), id))
	})
}

func TestService_List_RejectsUnknownStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, _, err := employee.NewService(employee.NewMockRepository(ctrl)).List(context.Background(), employee.Filter{Status: "cuti"})
	assert.ErrorIs(t, err, employee.ErrInvalidInput)
}
