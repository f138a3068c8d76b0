// Package login drives the sign-in form: validation, submission to the
// account API and reconciliation of the response into exactly one banner
// message and, on success, exactly one navigation.
package login

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"portal/internal/core/credential"
	"portal/internal/domain"
	"portal/internal/logger"
)

const (
	DefaultSubmitDelay    = 400 * time.Millisecond
	DefaultPostLoginRoute = "/stakeholders"
	RegisterRoute         = "/register"
)

type Navigator interface {
	Navigate(route string)
}

// UserSink receives the signed-in user before navigation happens.
type UserSink interface {
	SetUser(ctx context.Context, user domain.User) error
}

type Deps struct {
	Validator *credential.Validator
	Client    domain.AccountClient
	Notifier  domain.Notifier
	Navigator Navigator
	Users     UserSink
	Log       logger.Logger
}

type Config struct {
	SubmitDelay    time.Duration
	PostLoginRoute string
	InitialEmail   string
}

// Outcome describes how a Submit call ended.
type Outcome struct {
	State       State              `json:"state"`
	FieldErrors domain.FieldErrors `json:"fieldErrors,omitempty"`
	Message     string             `json:"message,omitempty"`
	Redirect    string             `json:"redirect,omitempty"`
	User        *domain.User       `json:"user,omitempty"`
	Err         error              `json:"-"`
}

type Controller struct {
	mu     sync.Mutex
	state  State
	values domain.Credentials

	validator *credential.Validator
	client    domain.AccountClient
	notifier  domain.Notifier
	navigator Navigator
	users     UserSink
	log       logger.Logger

	delay time.Duration
	route string
	sleep func(ctx context.Context, d time.Duration) error
}

func NewController(cfg Config, deps Deps) *Controller {
	v := deps.Validator
	if v == nil {
		v = credential.NewValidator()
	}

	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}

	route := cfg.PostLoginRoute
	if route == "" {
		route = DefaultPostLoginRoute
	}

	delay := cfg.SubmitDelay
	if delay <= 0 {
		delay = DefaultSubmitDelay
	}

	return &Controller{
		state:     StateIdle,
		values:    domain.Credentials{Email: cfg.InitialEmail},
		validator: v,
		client:    deps.Client,
		notifier:  deps.Notifier,
		navigator: deps.Navigator,
		users:     deps.Users,
		log:       log,
		delay:     delay,
		route:     route,
		sleep:     sleepContext,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Values() domain.Credentials {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

func (c *Controller) PostLoginRoute() string {
	return c.route
}

// ForgotPasswordLink points at the reset page with the typed email prefilled.
func (c *Controller) ForgotPasswordLink() string {
	return "/forgotpassword/" + url.PathEscape(c.Values().Email)
}

// Change updates one field and returns its validation errors, if any.
func (c *Controller) Change(field, value string) (domain.FieldErrors, error) {
	c.mu.Lock()
	if err := c.editableLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}

	switch field {
	case domain.FieldEmail:
		c.values.Email = value
	case domain.FieldPassword:
		c.values.Password = value
	default:
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, field)
	}
	values := c.values
	c.mu.Unlock()

	return c.validator.ValidateField(values, field)
}

// SubmitCredentials replaces both fields and submits.
func (c *Controller) SubmitCredentials(ctx context.Context, creds domain.Credentials) (Outcome, error) {
	c.mu.Lock()
	if err := c.editableLocked(); err != nil {
		c.mu.Unlock()
		return Outcome{}, err
	}
	c.values = creds
	c.mu.Unlock()

	return c.Submit(ctx)
}

// Submit runs the flow with the current field values. The returned error is
// only set when the form is not accepting submissions; every flow failure is
// reported through Outcome.Err after its banner has been shown.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if err := c.editableLocked(); err != nil {
		c.mu.Unlock()
		return Outcome{}, err
	}
	c.state = StateValidating
	creds := c.values
	c.mu.Unlock()

	if errs := c.validator.Validate(creds); errs.HasErrors() {
		c.setState(StateIdle)
		c.log.Debug("login: validation failed", "fields", len(errs))
		return Outcome{
			State:       StateIdle,
			FieldErrors: errs,
			Err:         domain.ErrValidation,
		}, nil
	}

	c.setState(StateSubmitting)
	c.log.Debug("login: submitting", "email", creds.Email)

	res := c.resolve(ctx, creds)

	c.notifier.Show(res.message)

	if res.user != nil {
		c.navigator.Navigate(c.route)
		c.setState(StateRedirecting)
		c.log.Info("login: succeeded", "email", creds.Email, "route", c.route)
		return Outcome{
			State:    StateRedirecting,
			Message:  res.message,
			Redirect: c.route,
			User:     res.user,
		}, nil
	}

	c.setState(StateAwaitingUserAck)
	c.log.Info("login: not completed", "email", creds.Email, "error", res.err)
	return Outcome{
		State:   StateAwaitingUserAck,
		Message: res.message,
		Err:     res.err,
	}, nil
}

type resolution struct {
	message string
	user    *domain.User
	err     error
}

func serverError(err error) resolution {
	return resolution{message: MsgServerError, err: err}
}

// resolve waits the submit delay, calls the account API and picks the one
// message to show. It never returns without a message.
func (c *Controller) resolve(ctx context.Context, creds domain.Credentials) (res resolution) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("login: panic during submission", "panic", r)
			res = serverError(fmt.Errorf("%w: panic: %v", domain.ErrTransport, r))
		}
	}()

	if err := c.sleep(ctx, c.delay); err != nil {
		return serverError(fmt.Errorf("%w: %w", domain.ErrTransport, err))
	}

	result, err := c.client.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		c.log.Error("login: account api failed", "error", err)
		if !errors.Is(err, domain.ErrTransport) {
			err = fmt.Errorf("%w: %w", domain.ErrTransport, err)
		}
		return serverError(err)
	}

	switch r := result.(type) {
	case domain.LoginSuccess:
		if c.users != nil {
			if err := c.users.SetUser(ctx, r.User); err != nil {
				c.log.Error("login: failed to store user", "error", err)
				return serverError(fmt.Errorf("%w: store user: %w", domain.ErrTransport, err))
			}
		}
		user := r.User
		return resolution{message: MsgLoginSuccessful, user: &user}

	case domain.LoginFailure:
		switch r.Code {
		case domain.CodeNotConfirmed:
			if err := c.client.ResendConfirmationEmail(ctx, creds.Email); err != nil {
				c.log.Warn("login: resend confirmation failed", "email", creds.Email, "error", err)
				if !errors.Is(err, domain.ErrDependentOperation) {
					err = fmt.Errorf("%w: %w", domain.ErrDependentOperation, err)
				}
				return resolution{message: MsgResendFailed(creds.Email), err: errors.Join(r, err)}
			}
			return resolution{message: MsgNotConfirmed, err: r}
		case domain.CodeNoAccount:
			return resolution{message: MsgNoAccount(creds.Email), err: r}
		case domain.CodeInvalidPassword:
			return resolution{message: MsgInvalidPassword, err: r}
		default:
			return serverError(fmt.Errorf("%w: unhandled failure code %s", domain.ErrTransport, r.Code))
		}

	default:
		return serverError(fmt.Errorf("%w: unexpected login result %T", domain.ErrTransport, result))
	}
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// editableLocked must be called with mu held.
func (c *Controller) editableLocked() error {
	switch c.state {
	case StateRedirecting:
		return domain.ErrFlowFinished
	case StateValidating, StateSubmitting:
		return domain.ErrSubmissionInProgress
	default:
		return nil
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
