package accountapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portal/internal/adapters/accountapi"
	"portal/internal/domain"
	"portal/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *accountapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return accountapi.NewClient(srv.URL, 2*time.Second, logger.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_LoginSuccess(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/accounts/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "alice@example.com", "password": "password123"}, body)

		writeJSON(w, http.StatusOK, `{"isSuccess":true,"user":{"id":7,"firstName":"Alice","lastName":"Ng","email":"alice@example.com"}}`)
	})

	res, err := client.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)

	success, ok := res.(domain.LoginSuccess)
	require.True(t, ok)
	assert.Equal(t, int64(7), success.User.ID)
	assert.Equal(t, "Alice Ng", success.User.DisplayName())
}

func TestClient_LoginFailureCodes(t *testing.T) {
	tests := []struct {
		code string
		want domain.FailureCode
	}{
		{"AUTH_NOT_CONFIRMED", domain.CodeNotConfirmed},
		{"AUTH_NO_ACCOUNT", domain.CodeNoAccount},
		{"AUTH_INVALID_PASSWORD", domain.CodeInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"isSuccess":false,"code":"`+tt.code+`"}`)
			})

			res, err := client.Login(context.Background(), "alice@example.com", "password123")
			require.NoError(t, err)
			assert.Equal(t, domain.LoginFailure{Code: tt.want}, res)
		})
	}
}

func TestClient_LoginFailureWith4xxBody(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"isSuccess":false,"code":"AUTH_INVALID_PASSWORD"}`)
	})

	res, err := client.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, domain.LoginFailure{Code: domain.CodeInvalidPassword}, res)
}

func TestClient_LoginTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unknown code", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"isSuccess":false,"code":"AUTH_LOCKED"}`)
		}},
		{"missing code", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"isSuccess":false}`)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"isSuccess":false,"code":"AUTH_NO_ACCOUNT"}`)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `<html>`)
		}},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}},
		{"success without user", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"isSuccess":true}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServer(t, tt.handler)

			res, err := client.Login(context.Background(), "alice@example.com", "password123")
			assert.Nil(t, res)
			assert.ErrorIs(t, err, domain.ErrTransport)
		})
	}
}

func TestClient_LoginUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := accountapi.NewClient(url, time.Second, logger.NewNop())
	_, err := client.Login(context.Background(), "alice@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestClient_ResendConfirmationEmail(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"ok empty body", http.StatusOK, "", false},
		{"ok json", http.StatusOK, `{"isSuccess":true}`, false},
		{"ok plain text", http.StatusOK, `sent`, false},
		{"rejected", http.StatusOK, `{"isSuccess":false}`, true},
		{"server error", http.StatusBadGateway, ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/accounts/resendConfirmationEmail", r.URL.Path)
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "alice@example.com", body["email"])
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := client.ResendConfirmationEmail(context.Background(), "alice@example.com")
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrDependentOperation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
