package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"net/http"
	"time"
)

const (
	CSRFCookie = "csrf_token"
	CSRFHeader = "X-CSRF-Token"

	csrfTokenBytes = 32
)

var (
	errCSRFCookieMissing = errors.New("missing CSRF cookie")
	errCSRFHeaderMissing = errors.New("missing CSRF token header")
	errCSRFMismatch      = errors.New("invalid CSRF token")
)

// CSRF is a double-submit check: safe requests receive a readable token
// cookie, unsafe ones must echo it in the X-CSRF-Token header.
func CSRF(ttl time.Duration, secure bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if safeMethod(r.Method) {
				if _, err := r.Cookie(CSRFCookie); err != nil {
					issueCSRFToken(w, ttl, secure)
				}
				next.ServeHTTP(w, r)
				return
			}

			if err := checkCSRF(r); err != nil {
				http.Error(w, err.Error(), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func safeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func checkCSRF(r *http.Request) error {
	cookie, err := r.Cookie(CSRFCookie)
	if err != nil || cookie.Value == "" {
		return errCSRFCookieMissing
	}

	sent := r.Header.Get(CSRFHeader)
	if sent == "" {
		return errCSRFHeaderMissing
	}
	if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(sent)) != 1 {
		return errCSRFMismatch
	}
	return nil
}

// issueCSRFToken is readable from script so the browser can echo it back.
func issueCSRFToken(w http.ResponseWriter, ttl time.Duration, secure bool) {
	raw := make([]byte, csrfTokenBytes)
	_, _ = rand.Read(raw)

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
