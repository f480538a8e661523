// ABOUTME: Session cookie handling and HTTP middleware for protected routes
// ABOUTME: Verifies the signed token from the cookie and resolves the user ID

package auth

import (
	"net/http"
	"time"
)

// CookieName is the fixed name of the session cookie.
const CookieName = "ff_token"

// CookieSettings holds the deployment-configurable cookie attributes.
type CookieSettings struct {
	Secure bool
	Domain string
}

// SetSessionCookie attaches a freshly issued session token to the response.
// The cookie is http-only, SameSite=Lax and valid for the token TTL.
func SetSessionCookie(w http.ResponseWriter, token string, settings CookieSettings) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL / time.Second),
		HttpOnly: true,
		Secure:   settings.Secure,
		Domain:   settings.Domain,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie overwrites the session cookie with an expired one.
// There is no server-side revocation; logout is purely the client
// discarding its token.
func ClearSessionCookie(w http.ResponseWriter, settings CookieSettings) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   settings.Secure,
		Domain:   settings.Domain,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireSession wraps a handler to require a valid session cookie. The
// token's subject becomes the acting user ID in the request context; there
// is no further authorization check beyond token validity.
func RequireSession(verifier TokenVerifier, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}

		userID, err := verifier.Verify(cookie.Value)
		if err != nil {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), userID)))
	}
}
