package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hopitalsej/sejour/internal/common"
	"github.com/hopitalsej/sejour/internal/logging"
	"github.com/hopitalsej/sejour/internal/server/accounts"
	"github.com/hopitalsej/sejour/internal/server/auth"
	"github.com/hopitalsej/sejour/internal/server/config"
	"github.com/hopitalsej/sejour/internal/server/patients"
)

const testSecret = "test-secret"

// --- fakes ---

type fakeAccountRepo struct {
	byEmail map[string]*accounts.Account
	byID    map[string]*accounts.Account
	listOut []*accounts.Account
	err     error
}

func (f *fakeAccountRepo) Create(ctx context.Context, a *accounts.Account) (*accounts.Account, error) {
	return a, f.err
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*accounts.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) List(ctx context.Context, search string) ([]*accounts.Account, error) {
	return f.listOut, f.err
}

type fakePatientRepo struct {
	out []*patients.Patient
	err error
}

func (f *fakePatientRepo) List(ctx context.Context, search string) ([]*patients.Patient, error) {
	return f.out, f.err
}

// --- setup ---

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = testSecret
	return cfg
}

func newTestServer(t *testing.T, accountRepo accounts.Repository, patientRepo patients.Repository) *httptest.Server {
	t.Helper()

	cfg := testConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := accounts.NewService(accountRepo, cfg)

	srv := NewServer(cfg, logger, svc, patientRepo)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func seedAccount(t *testing.T, verified bool, roles ...string) *accounts.Account {
	t.Helper()
	hash, err := auth.HashPassword("correct")
	require.NoError(t, err)
	return &accounts.Account{
		ID:           "acc-1",
		Email:        "a@b.com",
		PasswordHash: hash,
		Roles:        roles,
		Verified:     verified,
	}
}

func doLogin(t *testing.T, ts *httptest.Server, email, password string) *http.Response {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+"/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func doGet(t *testing.T, ts *httptest.Server, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// --- scenarios ---

func TestLoginThenProfile(t *testing.T) {
	acc := seedAccount(t, true, "ROLE_ADMIN", "ROLE_USER")
	repo := &fakeAccountRepo{
		byEmail: map[string]*accounts.Account{acc.Email: acc},
		byID:    map[string]*accounts.Account{acc.ID: acc},
	}
	ts := newTestServer(t, repo, &fakePatientRepo{})

	resp := doLogin(t, ts, "a@b.com", "correct")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok := decodeBody[tokenResponse](t, resp)
	require.NotEmpty(t, tok.Token)

	resp = doGet(t, ts, "/profile", tok.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeBody[accounts.Profile](t, resp)
	require.Equal(t, "acc-1", profile.ID)
	require.Equal(t, "a@b.com", profile.Email)
	require.ElementsMatch(t, []string{"ROLE_ADMIN", "ROLE_USER"}, profile.Roles)
}

func TestLogin_UnverifiedAccount(t *testing.T) {
	acc := seedAccount(t, false, "ROLE_USER")
	repo := &fakeAccountRepo{byEmail: map[string]*accounts.Account{acc.Email: acc}}
	ts := newTestServer(t, repo, &fakePatientRepo{})

	resp := doLogin(t, ts, "a@b.com", "correct")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody[errorResponse](t, resp)
	require.Equal(t, "Compte non vérifié", body.Error)
}

func TestLogin_BadCredentialsIndistinguishable(t *testing.T) {
	acc := seedAccount(t, true)
	repo := &fakeAccountRepo{byEmail: map[string]*accounts.Account{acc.Email: acc}}
	ts := newTestServer(t, repo, &fakePatientRepo{})

	respUnknown := doLogin(t, ts, "ghost@b.com", "correct")
	respWrong := doLogin(t, ts, "a@b.com", "wrong")

	require.Equal(t, http.StatusUnauthorized, respUnknown.StatusCode)
	require.Equal(t, http.StatusUnauthorized, respWrong.StatusCode)

	bodyUnknown := decodeBody[errorResponse](t, respUnknown)
	bodyWrong := decodeBody[errorResponse](t, respWrong)
	require.Equal(t, bodyUnknown, bodyWrong)
}

func TestLogin_MissingFields(t *testing.T) {
	ts := newTestServer(t, &fakeAccountRepo{}, &fakePatientRepo{})

	resp := doLogin(t, ts, "", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_MalformedBody(t *testing.T) {
	ts := newTestServer(t, &fakeAccountRepo{}, &fakePatientRepo{})

	resp, err := http.Post(ts.URL+"/login", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestLogin_StoreFailure(t *testing.T) {
	ts := newTestServer(t, &fakeAccountRepo{err: errors.New("pool exhausted")}, &fakePatientRepo{})

	resp := doLogin(t, ts, "a@b.com", "correct")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody[errorResponse](t, resp)
	require.Equal(t, "internal server error", body.Error)
}

func TestProfile_NoToken(t *testing.T) {
	ts := newTestServer(t, &fakeAccountRepo{}, &fakePatientRepo{})

	resp := doGet(t, ts, "/profile", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestProfile_ExpiredToken(t *testing.T) {
	ts := newTestServer(t, &fakeAccountRepo{}, &fakePatientRepo{})

	expired, err := auth.GenerateToken("acc-1", "a@b.com", nil, []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	resp := doGet(t, ts, "/profile", expired)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestProfile_AccountRemovedAfterIssue(t *testing.T) {
	// Token is valid but the account is gone.
	ts := newTestServer(t, &fakeAccountRepo{}, &fakePatientRepo{})

	tok, err := auth.GenerateToken("acc-1", "a@b.com", nil, []byte(testSecret), time.Minute)
	require.NoError(t, err)

	resp := doGet(t, ts, "/profile", tok)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUsers_AdminOnly(t *testing.T) {
	acc := seedAccount(t, true, "ROLE_ADMIN")
	repo := &fakeAccountRepo{listOut: []*accounts.Account{acc}}
	ts := newTestServer(t, repo, &fakePatientRepo{})

	adminTok, err := auth.GenerateToken("acc-1", "a@b.com", []string{"ROLE_ADMIN"}, []byte(testSecret), time.Minute)
	require.NoError(t, err)
	plainTok, err := auth.GenerateToken("acc-2", "b@b.com", []string{"ROLE_USER"}, []byte(testSecret), time.Minute)
	require.NoError(t, err)

	resp := doGet(t, ts, "/users", adminTok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]accounts.Profile](t, resp)
	require.Len(t, list, 1)

	resp = doGet(t, ts, "/users", plainTok)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestPatients_RequiresToken(t *testing.T) {
	ts := newTestServer(t, &fakeAccountRepo{}, &fakePatientRepo{
		out: []*patients.Patient{{ID: "p1", FirstName: "Marie", LastName: "Curie", RoomNumber: "101"}},
	})

	resp := doGet(t, ts, "/patients", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	tok, err := auth.GenerateToken("acc-1", "a@b.com", nil, []byte(testSecret), time.Minute)
	require.NoError(t, err)

	resp = doGet(t, ts, "/patients", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]patients.Patient](t, resp)
	require.Len(t, list, 1)
	require.Equal(t, "Curie", list[0].LastName)
}

func TestPatients_EmptyListIsArray(t *testing.T) {
	ts := newTestServer(t, &fakeAccountRepo{}, &fakePatientRepo{})

	tok, err := auth.GenerateToken("acc-1", "a@b.com", nil, []byte(testSecret), time.Minute)
	require.NoError(t, err)

	resp := doGet(t, ts, "/patients", tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, "[]", string(raw))
}

func TestPing(t *testing.T) {
	ts := newTestServer(t, &fakeAccountRepo{}, &fakePatientRepo{})

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestMetricsEndpoint(t *testing.T) {
	acc := seedAccount(t, true)
	repo := &fakeAccountRepo{byEmail: map[string]*accounts.Account{acc.Email: acc}}
	ts := newTestServer(t, repo, &fakePatientRepo{})

	doLogin(t, ts, "a@b.com", "correct").Body.Close()
	doLogin(t, ts, "a@b.com", "wrong").Body.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(raw), "sejour_login_success_total 1")
	require.Contains(t, string(raw), "sejour_login_failure_total 1")
}
