package login

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portal/internal/core/credential"
	"portal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu    sync.Mutex
	calls []string

	loginResult domain.LoginResult
	loginErr    error
	loginPanic  any
	resendErr   error
	block       chan struct{}
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	f.record("login")
	if f.block != nil {
		<-f.block
	}
	if f.loginPanic != nil {
		panic(f.loginPanic)
	}
	return f.loginResult, f.loginErr
}

func (f *fakeClient) ResendConfirmationEmail(ctx context.Context, email string) error {
	f.record("resend")
	return f.resendErr
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Show(message string, _ ...time.Duration) domain.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return domain.Toast{Message: message}
}

type fakeNavigator struct {
	routes []string
}

func (n *fakeNavigator) Navigate(route string) {
	n.routes = append(n.routes, route)
}

type fakeUsers struct {
	users []domain.User
	err   error
}

func (u *fakeUsers) SetUser(_ context.Context, user domain.User) error {
	u.users = append(u.users, user)
	return u.err
}

type harness struct {
	ctrl   *Controller
	client *fakeClient
	notes  *fakeNotifier
	nav    *fakeNavigator
	users  *fakeUsers
	sleeps []time.Duration
}

func newHarness(client *fakeClient) *harness {
	h := &harness{
		client: client,
		notes:  &fakeNotifier{},
		nav:    &fakeNavigator{},
		users:  &fakeUsers{},
	}
	h.ctrl = NewController(Config{}, Deps{
		Client:    client,
		Notifier:  h.notes,
		Navigator: h.nav,
		Users:     h.users,
	})
	h.ctrl.sleep = func(ctx context.Context, d time.Duration) error {
		h.sleeps = append(h.sleeps, d)
		client.record("delay")
		return ctx.Err()
	}
	return h
}

var validCreds = domain.Credentials{Email: "alice@example.com", Password: "password123"}

func TestController_MalformedEmailNeverCallsNetwork(t *testing.T) {
	for _, email := range []string{"", "alice", "alice@", "@example.com", "a b@example.com"} {
		h := newHarness(&fakeClient{})

		out, err := h.ctrl.SubmitCredentials(context.Background(), domain.Credentials{Email: email, Password: "password123"})
		require.NoError(t, err)

		assert.NotEmpty(t, out.FieldErrors[domain.FieldEmail], email)
		assert.ErrorIs(t, out.Err, domain.ErrValidation)
		assert.Equal(t, StateIdle, out.State)
		assert.Equal(t, StateIdle, h.ctrl.State())
		assert.Empty(t, h.client.Calls(), email)
		assert.Empty(t, h.notes.messages)
	}
}

func TestController_PasswordBoundary(t *testing.T) {
	h := newHarness(&fakeClient{loginResult: domain.LoginFailure{Code: domain.CodeInvalidPassword}})

	out, err := h.ctrl.SubmitCredentials(context.Background(), domain.Credentials{Email: "alice@example.com", Password: "1234567"})
	require.NoError(t, err)
	assert.Equal(t, credential.MsgPasswordTooShort, out.FieldErrors[domain.FieldPassword])
	assert.Empty(t, h.client.Calls())

	out, err = h.ctrl.SubmitCredentials(context.Background(), domain.Credentials{Email: "alice@example.com", Password: "12345678"})
	require.NoError(t, err)
	assert.Empty(t, out.FieldErrors)
	assert.Equal(t, []string{"delay", "login"}, h.client.Calls())
}

func TestController_Success(t *testing.T) {
	user := domain.User{ID: 1, Email: "alice@example.com", FirstName: "Alice"}
	h := newHarness(&fakeClient{loginResult: domain.LoginSuccess{User: user}})

	out, err := h.ctrl.SubmitCredentials(context.Background(), validCreds)
	require.NoError(t, err)

	assert.Equal(t, []string{MsgLoginSuccessful}, h.notes.messages)
	assert.Equal(t, []string{"/stakeholders"}, h.nav.routes)
	assert.Equal(t, []domain.User{user}, h.users.users)
	assert.Equal(t, StateRedirecting, out.State)
	assert.Equal(t, "/stakeholders", out.Redirect)
	assert.NoError(t, out.Err)
	require.NotNil(t, out.User)
	assert.Equal(t, user, *out.User)

	_, err = h.ctrl.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrFlowFinished)
	assert.Len(t, h.nav.routes, 1)
	assert.Len(t, h.notes.messages, 1)
}

func TestController_DelayPrecedesNetworkCall(t *testing.T) {
	h := newHarness(&fakeClient{loginResult: domain.LoginFailure{Code: domain.CodeNotConfirmed}})

	_, err := h.ctrl.SubmitCredentials(context.Background(), validCreds)
	require.NoError(t, err)

	assert.Equal(t, []string{"delay", "login", "resend"}, h.client.Calls())
	assert.Equal(t, []time.Duration{DefaultSubmitDelay}, h.sleeps)
}

func TestController_NotConfirmedResendSucceeds(t *testing.T) {
	h := newHarness(&fakeClient{loginResult: domain.LoginFailure{Code: domain.CodeNotConfirmed}})

	out, err := h.ctrl.SubmitCredentials(context.Background(), validCreds)
	require.NoError(t, err)

	assert.Equal(t, []string{MsgNotConfirmed}, h.notes.messages)
	assert.Empty(t, h.nav.routes)
	assert.Equal(t, StateAwaitingUserAck, out.State)
	assert.ErrorIs(t, out.Err, domain.ErrAuthentication)
	assert.NotErrorIs(t, out.Err, domain.ErrDependentOperation)
}

func TestController_NotConfirmedResendFails(t *testing.T) {
	h := newHarness(&fakeClient{
		loginResult: domain.LoginFailure{Code: domain.CodeNotConfirmed},
		resendErr:   errors.New("smtp down"),
	})

	out, err := h.ctrl.SubmitCredentials(context.Background(), validCreds)
	require.NoError(t, err)

	require.Len(t, h.notes.messages, 1)
	assert.Equal(t, MsgResendFailed("alice@example.com"), h.notes.messages[0])
	assert.NotEqual(t, MsgNotConfirmed, h.notes.messages[0])
	assert.Empty(t, h.nav.routes)
	assert.Equal(t, StateAwaitingUserAck, out.State)
	assert.ErrorIs(t, out.Err, domain.ErrDependentOperation)
	assert.ErrorIs(t, out.Err, domain.ErrAuthentication)

	var failure domain.LoginFailure
	require.ErrorAs(t, out.Err, &failure)
	assert.Equal(t, domain.CodeNotConfirmed, failure.Code)
}

func TestController_NoAccount(t *testing.T) {
	h := newHarness(&fakeClient{loginResult: domain.LoginFailure{Code: domain.CodeNoAccount}})

	out, err := h.ctrl.SubmitCredentials(context.Background(), validCreds)
	require.NoError(t, err)

	assert.Equal(t, []string{MsgNoAccount("alice@example.com")}, h.notes.messages)
	assert.Equal(t, StateAwaitingUserAck, out.State)
	assert.Equal(t, []string{"delay", "login"}, h.client.Calls())
}

func TestController_InvalidPassword(t *testing.T) {
	h := newHarness(&fakeClient{loginResult: domain.LoginFailure{Code: domain.CodeInvalidPassword}})

	out, err := h.ctrl.SubmitCredentials(context.Background(), validCreds)
	require.NoError(t, err)

	assert.Equal(t, []string{MsgInvalidPassword}, h.notes.messages)
	assert.Equal(t, StateAwaitingUserAck, out.State)
	assert.True(t, out.State.Editable())
}

func TestController_ServerErrors(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
		users  error
	}{
		{"transport error", &fakeClient{loginErr: domain.ErrTransport}, nil},
		{"plain error", &fakeClient{loginErr: errors.New("dial tcp: refused")}, nil},
		{"nil result", &fakeClient{}, nil},
		{"unknown code", &fakeClient{loginResult: domain.LoginFailure{Code: domain.FailureCode(42)}}, nil},
		{"panic", &fakeClient{loginPanic: "nil map"}, nil},
		{"session store", &fakeClient{loginResult: domain.LoginSuccess{User: domain.User{ID: 1}}}, errors.New("redis down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.client)
			h.users.err = tt.users

			out, err := h.ctrl.SubmitCredentials(context.Background(), validCreds)
			require.NoError(t, err)

			assert.Equal(t, []string{MsgServerError}, h.notes.messages)
			assert.Empty(t, h.nav.routes)
			assert.Equal(t, StateAwaitingUserAck, out.State)
			assert.Equal(t, StateAwaitingUserAck, h.ctrl.State())
			assert.ErrorIs(t, out.Err, domain.ErrTransport)
		})
	}
}

func TestController_CancelledDuringDelay(t *testing.T) {
	h := newHarness(&fakeClient{loginResult: domain.LoginSuccess{}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := h.ctrl.SubmitCredentials(ctx, validCreds)
	require.NoError(t, err)

	assert.Equal(t, []string{MsgServerError}, h.notes.messages)
	assert.Equal(t, []string{"delay"}, h.client.Calls())
	assert.ErrorIs(t, out.Err, context.Canceled)
}

func TestController_SecondSubmitWhileSubmitting(t *testing.T) {
	client := &fakeClient{
		loginResult: domain.LoginFailure{Code: domain.CodeInvalidPassword},
		block:       make(chan struct{}),
	}
	h := newHarness(client)

	done := make(chan Outcome, 1)
	go func() {
		out, _ := h.ctrl.SubmitCredentials(context.Background(), validCreds)
		done <- out
	}()

	require.Eventually(t, func() bool {
		return h.ctrl.State() == StateSubmitting
	}, time.Second, time.Millisecond)

	_, err := h.ctrl.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmissionInProgress)

	_, err = h.ctrl.Change(domain.FieldEmail, "bob@example.com")
	assert.ErrorIs(t, err, domain.ErrSubmissionInProgress)

	close(client.block)
	out := <-done

	assert.Equal(t, StateAwaitingUserAck, out.State)
	assert.Equal(t, []string{"delay", "login"}, client.Calls())
	assert.Len(t, h.notes.messages, 1)
}

func TestController_AwaitingUserAckPreservesValues(t *testing.T) {
	h := newHarness(&fakeClient{loginResult: domain.LoginFailure{Code: domain.CodeInvalidPassword}})

	_, err := h.ctrl.SubmitCredentials(context.Background(), validCreds)
	require.NoError(t, err)

	assert.Equal(t, validCreds, h.ctrl.Values())

	errs, err := h.ctrl.Change(domain.FieldPassword, "another-password")
	require.NoError(t, err)
	assert.Empty(t, errs)

	_, err = h.ctrl.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.notes.messages, 2)
}

func TestController_ChangeValidatesField(t *testing.T) {
	h := newHarness(&fakeClient{})

	errs, err := h.ctrl.Change(domain.FieldEmail, "not-an-email")
	require.NoError(t, err)
	assert.Contains(t, errs, domain.FieldEmail)
	assert.NotContains(t, errs, domain.FieldPassword)

	_, err = h.ctrl.Change("username", "x")
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestController_InitialEmailAndLinks(t *testing.T) {
	ctrl := NewController(Config{InitialEmail: "alice@example.com"}, Deps{})

	assert.Equal(t, "alice@example.com", ctrl.Values().Email)
	assert.Equal(t, "/forgotpassword/alice@example.com", ctrl.ForgotPasswordLink())
	assert.Equal(t, StateIdle, ctrl.State())
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
