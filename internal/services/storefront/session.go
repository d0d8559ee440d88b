package storefront

import (
	"net/http"

	"github.com/lucsky/cuid"
)

const (
	sessionCookie = "cart_session"
	// Matches the cart TTL in Redis so a cookie never outlives its cart.
	sessionMaxAge = 30 * 24 * 60 * 60
)

// SessionKey returns the cart key for this browser, minting and setting a new
// cookie on first contact. The key identifies a cart, not a user: guests get
// one too, and logging in does not change it.
func SessionKey(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	key := cuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    key,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}
