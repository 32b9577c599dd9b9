package guard

import (
	"net/http"

	"github.com/Kesavaawalakbari/konek/internal/auth"
	"github.com/Kesavaawalakbari/konek/internal/http/respond"
	"github.com/Kesavaawalakbari/konek/internal/i18n"
)

// Localize attaches a localizer chosen from the Accept-Language header.
func Localize(b *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := b.Localizer(r.Header.Get("Accept-Language"))
			next.ServeHTTP(w, r.WithContext(i18n.WithLocalizer(r.Context(), l)))
		})
	}
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate(v *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.Verify(r.Header.Get("Authorization"))
			if err != nil {
				respond.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole lets through callers holding one of roles. It must run after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.FromContext(r.Context()); !ok {
				respond.Error(w, r, auth.ErrMissingToken)
				return
			}

			if !auth.HasRole(r.Context(), roles...) {
				respond.Error(w, r, auth.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
