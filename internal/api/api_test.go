// ABOUTME: End-to-end tests for the HTTP API over a real SQLite store
// ABOUTME: Exercises auth flow, record round trips and derived analytics

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/records"
	"github.com/focusflow/focusflow/internal/store"
)

type testServer struct {
	mux    *http.ServeMux
	server *Server
	store  store.Store
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	verifier := auth.NewJWTVerifier([]byte("test-secret"))
	authSvc := auth.NewService(s, records.NewProvisioner(s))

	server := New(s, authSvc, verifier, Config{Addr: "localhost:0"})

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	return &testServer{mux: mux, server: server, store: s}
}

// do performs a request against the test mux, attaching the session cookie
// if one is given.
func (ts *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, req)
	return rec
}

// register creates the first user and returns its session cookie.
func (ts *testServer) register(t *testing.T) *http.Cookie {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/auth/register",
		map[string]string{"email": "anna@example.com", "password": "hunter22"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie in register response")
	return nil
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &value))
	return value
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestAuthStatus_FlipsAfterFirstRegistration(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodGet, "/auth/status", nil, nil)
	assert.JSONEq(t, `{"hasUsers":false}`, rec.Body.String())

	ts.register(t)

	rec = ts.do(t, http.MethodGet, "/auth/status", nil, nil)
	assert.JSONEq(t, `{"hasUsers":true}`, rec.Body.String())
}

func TestRegister_SecondRegistrationForbidden(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t)

	rec := ts.do(t, http.MethodPost, "/auth/register",
		map[string]string{"email": "bert@example.com", "password": "other"}, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Contains(t, body, "error")
}

func TestRegister_MissingFields(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(t, http.MethodPost, "/auth/register", map[string]string{"email": "a@b.c"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t)

	wrongPw := ts.do(t, http.MethodPost, "/auth/login",
		map[string]string{"email": "anna@example.com", "password": "wrong"}, nil)
	unknown := ts.do(t, http.MethodPost, "/auth/login",
		map[string]string{"email": "nobody@example.com", "password": "hunter22"}, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	ts := setupTestServer(t)
	ts.register(t)

	rec := ts.do(t, http.MethodPost, "/auth/login",
		map[string]string{"email": "anna@example.com", "password": "hunter22"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, auth.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLogout_ClearsCookie(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.register(t)

	rec := ts.do(t, http.MethodPost, "/auth/logout", nil, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestProtectedRoutes_RequireSession(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{"/tasks", "/tags", "/sessions", "/settings", "/challenge", "/draft", "/stats/streaks"} {
		rec := ts.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "GET %s without session", path)
	}
}

func TestGetTags_ReturnsProvisionedDefaults(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.register(t)

	rec := ts.do(t, http.MethodGet, "/tags", nil, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Items []records.Tag `json:"items"`
	}](t, rec)
	require.Len(t, body.Items, 3)
	assert.Equal(t, "tag-deep", body.Items[0].ID)
}

func TestPutTasks_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.register(t)

	tasks := []records.Task{{ID: "t1", Title: "write tests", Done: false}}
	rec := ts.do(t, http.MethodPut, "/tasks", map[string]any{"items": tasks}, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	put := decodeBody[struct {
		OK    bool `json:"ok"`
		Count int  `json:"count"`
	}](t, rec)
	assert.True(t, put.OK)
	assert.Equal(t, 1, put.Count)

	rec = ts.do(t, http.MethodGet, "/tasks", nil, cookie)
	body := decodeBody[struct {
		Items []records.Task `json:"items"`
	}](t, rec)
	assert.Equal(t, tasks, body.Items)
}

func TestPutTasks_NonArrayCoercedToEmpty(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.register(t)

	rec := ts.do(t, http.MethodPut, "/tasks", map[string]any{"items": "not-a-list"}, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	put := decodeBody[struct {
		OK    bool `json:"ok"`
		Count int  `json:"count"`
	}](t, rec)
	assert.Equal(t, 0, put.Count)

	rec = ts.do(t, http.MethodGet, "/tasks", nil, cookie)
	body := decodeBody[struct {
		Items []records.Task `json:"items"`
	}](t, rec)
	assert.Empty(t, body.Items)
}

func TestPutSettings_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.register(t)

	settings := records.Settings{
		FocusMinutes:    50,
		BreakMinutes:    10,
		Sound:           false,
		AutoStartBreak:  true,
		StreakThreshold: 30,
		Pro:             true,
	}
	rec := ts.do(t, http.MethodPut, "/settings", settings, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/settings", nil, cookie)
	got := decodeBody[records.Settings](t, rec)
	assert.Equal(t, settings, got)
}

func TestPutDraft_MissingBodyCoercedToEmpty(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.register(t)

	rec := ts.do(t, http.MethodPut, "/draft", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/draft", nil, cookie)
	got := decodeBody[records.Draft](t, rec)
	assert.Equal(t, records.Draft{}, got)
}

func TestDeleteTag_NullsSessionReferences(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.register(t)

	deep := "tag-deep"
	sessions := []records.SessionRecord{
		{ID: "s1", Date: "2026-08-27", Minutes: 25, TagID: &deep},
	}
	rec := ts.do(t, http.MethodPut, "/sessions", map[string]any{"items": sessions}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/tags/tag-deep", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/tags", nil, cookie)
	tags := decodeBody[struct {
		Items []records.Tag `json:"items"`
	}](t, rec)
	assert.Len(t, tags.Items, 2)

	rec = ts.do(t, http.MethodGet, "/sessions", nil, cookie)
	got := decodeBody[struct {
		Items []records.SessionRecord `json:"items"`
	}](t, rec)
	require.Len(t, got.Items, 1)
	assert.Nil(t, got.Items[0].TagID)
}

func TestStatsStreaks(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.register(t)

	ts.server.now = func() time.Time {
		return time.Date(2026, time.August, 28, 15, 0, 0, 0, time.UTC)
	}

	sessions := []records.SessionRecord{
		{ID: "s1", Date: "2026-08-26", Minutes: 30},
		{ID: "s2", Date: "2026-08-27", Minutes: 30},
		{ID: "s3", Date: "2026-08-28", Minutes: 30},
	}
	rec := ts.do(t, http.MethodPut, "/sessions", map[string]any{"items": sessions}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/stats/streaks", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decodeBody[struct {
		Current            int `json:"current"`
		Best               int `json:"best"`
		Threshold          int `json:"threshold"`
		MinutesNeededToday int `json:"minutesNeededToday"`
	}](t, rec)
	assert.Equal(t, 3, summary.Current)
	assert.Equal(t, 3, summary.Best)
	// Default settings threshold is 5 minutes/day.
	assert.Equal(t, 5, summary.Threshold)
	assert.Equal(t, 0, summary.MinutesNeededToday)
}

func TestStatsChallenge(t *testing.T) {
	ts := setupTestServer(t)
	cookie := ts.register(t)

	ts.server.now = func() time.Time {
		return time.Date(2026, time.September, 10, 9, 0, 0, 0, time.UTC)
	}

	challenge := records.DefaultChallenge(time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))
	rec := ts.do(t, http.MethodPut, "/challenge", challenge, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	sessions := []records.SessionRecord{
		{ID: "s1", Date: "2026-09-01", Minutes: 30},
		{ID: "s2", Date: "2026-09-02", Minutes: 25},
		{ID: "s3", Date: "2026-09-03", Minutes: 10}, // below goal
		{ID: "s4", Date: "2026-08-31", Minutes: 90}, // outside month
	}
	rec = ts.do(t, http.MethodPut, "/sessions", map[string]any{"items": sessions}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/stats/challenge", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	progress := decodeBody[struct {
		Reached     int `json:"reached"`
		TotalDays   int `json:"totalDays"`
		GoalMinutes int `json:"goalMinutes"`
	}](t, rec)
	assert.Equal(t, 2, progress.Reached)
	assert.Equal(t, 30, progress.TotalDays)
	assert.Equal(t, 25, progress.GoalMinutes)
}
