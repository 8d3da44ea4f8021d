package session

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	// HeaderName is the header SPA clients use to pin their session.
	HeaderName = "X-Session-ID"
	// CookieName is the fallback cookie for plain browser traffic.
	CookieName = "ss_session"
)

// Middleware resolves the caller's session id from the X-Session-ID header or
// the ss_session cookie, minting a fresh one when neither is present. Carts,
// booking wizards and intake snapshots are all keyed by this id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(HeaderName)
		if sessionID == "" {
			if c, err := r.Cookie(CookieName); err == nil {
				sessionID = c.Value
			}
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(HeaderName, sessionID)
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sessionID)))
	})
}
