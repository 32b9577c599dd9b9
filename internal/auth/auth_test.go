package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kesavaawalakbari/konek/internal/auth"
)

const secret = "rahasia"

func token(t *testing.T, key string, c auth.Claims) string {
	t.Helper()

	s, err := auth.Sign(key, c)
	require.NoError(t, err)

	return s
}

func TestVerifier_Verify(t *testing.T) {
	valid := auth.Claims{
		UserID: "u-1",
		Role:   auth.RoleOwner,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noUser := valid
	noUser.UserID = ""

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "Valid", header: "Bearer " + token(t, secret, valid)},
		{name: "Missing", header: "", wantErr: auth.ErrMissingToken},
		{name: "NotBearer", header: "Basic abc", wantErr: auth.ErrMissingToken},
		{name: "WrongSecret", header: "Bearer " + token(t, "lain", valid), wantErr: auth.ErrInvalidToken},
		{name: "Expired", header: "Bearer " + token(t, secret, expired), wantErr: auth.ErrExpiredToken},
		{name: "MissingUser", header: "Bearer " + token(t, secret, noUser), wantErr: auth.ErrInvalidToken},
		{name: "Garbage", header: "Bearer not.a.jwt", wantErr: auth.ErrInvalidToken},
	}

	v := auth.NewVerifier(secret)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Verify(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "u-1", got.UserID)
			assert.Equal(t, auth.RoleOwner, got.Role)
		})
	}
}

func TestHasRole(t *testing.T) {
	ctx := auth.WithClaims(context.Background(), &auth.Claims{UserID: "u-2", Role: auth.RoleStaff})

	assert.True(t, auth.HasRole(ctx, auth.RoleOwner, auth.RoleStaff))
	assert.False(t, auth.HasRole(ctx, auth.RoleOwner))
	assert.False(t, auth.HasRole(context.Background(), auth.RoleStaff))
}
