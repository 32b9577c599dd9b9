package guard_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kesavaawalakbari/konek/internal/auth"
	"github.com/Kesavaawalakbari/konek/internal/http/guard"
	"github.com/Kesavaawalakbari/konek/internal/http/respond"
	"github.com/Kesavaawalakbari/konek/internal/i18n"
)

const secret = "rahasia"

func chain(t *testing.T, roles ...string) http.Handler {
	t.Helper()

	bundle, err := i18n.New("id")
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, _ := auth.FromContext(r.Context())
		w.Header().Set("X-User", c.UserID)
		w.WriteHeader(http.StatusNoContent)
	})

	var h http.Handler = ok
	if len(roles) > 0 {
		h = guard.RequireRole(roles...)(h)
	}

	return guard.Localize(bundle)(guard.Authenticate(auth.NewVerifier(secret))(h))
}

func bearer(t *testing.T, role string) string {
	t.Helper()

	tok, err := auth.Sign(secret, auth.Claims{UserID: "u-1", Role: role})
	require.NoError(t, err)

	return "Bearer " + tok
}

func TestAuthenticate(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body respond.Envelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.False(t, body.Success)
		assert.Contains(t, body.Message, "belum login")
	})

	t.Run("EnglishMessage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "en")
		req.Header.Set("Authorization", "Bearer broken")

		rec := httptest.NewRecorder()
		chain(t).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body respond.Envelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Invalid token. Please log in again.", body.Message)
	})

	t.Run("Valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", bearer(t, auth.RoleStaff))

		rec := httptest.NewRecorder()
		chain(t).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "u-1", rec.Header().Get("X-User"))
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{name: "Owner", role: auth.RoleOwner, want: http.StatusNoContent},
		{name: "Staff", role: auth.RoleStaff, want: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/", nil)
			req.Header.Set("Authorization", bearer(t, tt.role))

			rec := httptest.NewRecorder()
			chain(t, auth.RoleOwner).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
