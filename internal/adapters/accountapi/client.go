// Package accountapi talks to the remote account service.
package accountapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"portal/internal/domain"
	"portal/internal/logger"
)

const (
	loginPath              = "/api/accounts/login"
	resendConfirmationPath = "/api/accounts/resendConfirmationEmail"

	maxResponseSize = 1 << 20
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	IsSuccess bool         `json:"isSuccess"`
	User      *domain.User `json:"user,omitempty"`
	Code      string       `json:"code,omitempty"`
}

type resendRequest struct {
	Email string `json:"email"`
}

type resendResponse struct {
	IsSuccess *bool `json:"isSuccess,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

var _ domain.AccountClient = (*Client)(nil)

// Login never reports an authentication outcome as an error. Errors are
// transport failures and wrap domain.ErrTransport.
func (c *Client) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	status, raw, err := c.post(ctx, loginPath, loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("%w: login: %w", domain.ErrTransport, err)
	}

	// Auth outcomes arrive with 2xx as well as 4xx statuses; only the body decides.
	if status >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: login: unexpected status %d", domain.ErrTransport, status)
	}

	var res loginResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: login: failed to decode response: %w", domain.ErrTransport, err)
	}

	if res.IsSuccess {
		if res.User == nil {
			return nil, fmt.Errorf("%w: login: success response without user", domain.ErrTransport)
		}
		return domain.LoginSuccess{User: *res.User}, nil
	}

	code, err := domain.ParseFailureCode(res.Code)
	if err != nil {
		c.log.Warn("accountapi: unrecognized login code", "code", res.Code, "status", status)
		return nil, fmt.Errorf("login: %w", err)
	}

	return domain.LoginFailure{Code: code}, nil
}

func (c *Client) ResendConfirmationEmail(ctx context.Context, email string) error {
	status, raw, err := c.post(ctx, resendConfirmationPath, resendRequest{Email: email})
	if err != nil {
		return fmt.Errorf("%w: resend confirmation: %w", domain.ErrDependentOperation, err)
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: resend confirmation: unexpected status %d", domain.ErrDependentOperation, status)
	}

	var res resendResponse
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &res); err != nil {
			c.log.Debug("accountapi: ignoring non-json resend body", "status", status)
		}
	}

	if res.IsSuccess != nil && !*res.IsSuccess {
		return fmt.Errorf("%w: resend confirmation: rejected by account service", domain.ErrDependentOperation)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, raw, nil
}
