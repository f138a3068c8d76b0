package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portal/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_RunsInRegistrationOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	c := New()
	c.Use(mark("first"))
	c.Use(mark("second"))

	h := c.Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRequestLogger_PassesStatusThrough(t *testing.T) {
	h := RequestLogger(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestCORS_AllowsConfiguredOriginOnly(t *testing.T) {
	h := CORS([]string{"http://app.test"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://app.test")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req.Header.Set("Origin", "http://other.test")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCSRF_DoubleSubmit(t *testing.T) {
	h := CSRF(time.Hour, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var token *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CSRFCookie {
			token = c
		}
	}
	require.NotNil(t, token)
	assert.False(t, token.HttpOnly)

	req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	req.AddCookie(token)
	req.Header.Set(CSRFHeader, "forged")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	req.AddCookie(token)
	req.Header.Set(CSRFHeader, token.Value)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientScope_IssuesAndReusesBrowserID(t *testing.T) {
	var seen []string
	h := ClientScope(time.Hour, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, ClientID(r))
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/toast", nil))

	var issued *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == ClientCookie {
			issued = c
		}
	}
	require.NotNil(t, issued)
	assert.True(t, issued.HttpOnly)
	require.Len(t, seen, 1)
	assert.Equal(t, issued.Value, seen[0])

	req := httptest.NewRequest(http.MethodGet, "/api/toast", nil)
	req.AddCookie(issued)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, issued.Value, seen[1])

	req = httptest.NewRequest(http.MethodGet, "/api/toast", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: "not-a-uuid"})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", seen[2])
	assert.NotEqual(t, issued.Value, seen[2])
}

func TestClientID_FallsBackToCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws/toast", nil)
	assert.Empty(t, ClientID(req))

	id := "0f8fad5b-d9cb-469f-a165-70867728950e"
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: id})
	assert.Equal(t, id, ClientID(req))
}
