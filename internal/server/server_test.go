package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/top-repo-dashboard/internal/domain"
)

type stubBuilder struct {
	snapshot *domain.RepositorySnapshot
	err      error
}

func (s *stubBuilder) Build(ctx context.Context) (*domain.RepositorySnapshot, error) {
	return s.snapshot, s.err
}

func sampleSnapshot() *domain.RepositorySnapshot {
	return &domain.RepositorySnapshot{
		Name:            "freeCodeCamp",
		HTMLURL:         "https://github.com/freeCodeCamp/freeCodeCamp",
		Owner:           domain.Owner{Login: "freeCodeCamp"},
		StargazersCount: 400000,
		ForksCount:      38000,
		WatchersCount:   8500,
		Last4WeeksCommits: []domain.WeekActivity{
			{Total: 5, Days: [7]int{0, 1, 0, 2, 1, 0, 1}},
			{Total: 3, Days: [7]int{1, 0, 0, 1, 0, 1, 0}},
			{Total: 10, Days: [7]int{2, 2, 1, 1, 2, 1, 1}},
			{Total: 7, Days: [7]int{0, 3, 1, 1, 1, 1, 0}},
		},
		LanguagePercentages: []domain.LanguageShare{
			{Name: "JavaScript", Bytes: 300, Percent: 75},
			{Name: "TypeScript", Bytes: 100, Percent: 25},
		},
	}
}

type envelope struct {
	Status  ResponseStatus  `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, s *Server, method, path string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func loadedServer(t *testing.T) *Server {
	s := New(&stubBuilder{snapshot: sampleSnapshot()}, zerolog.Nop())
	s.now = func() time.Time { return time.Date(2024, time.March, 13, 15, 0, 0, 0, time.UTC) }
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestServer_BeforeLoad(t *testing.T) {
	s := New(&stubBuilder{}, zerolog.Nop())
	for _, path := range []string{"/api/v1/snapshot", "/api/v1/series/weekly", "/api/v1/series/daily", "/api/v1/series/languages", "/api/v1/summary"} {
		rec, env := do(t, s, http.MethodGet, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Equal(t, StatusFail, env.Status)
		assert.Equal(t, "snapshot not loaded", env.Message)
	}
}

func TestServer_LoadFailure(t *testing.T) {
	s := New(&stubBuilder{err: &domain.FetchError{Op: "search", Reason: domain.ReasonEmptyResult, Err: domain.ErrEmptySearchResult}}, zerolog.Nop())
	err := s.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptySearchResult)
	assert.Nil(t, s.Snapshot())

	rec, env := do(t, s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	var health healthData
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.False(t, health.Loaded)
	assert.Equal(t, domain.ReasonEmptyResult, health.Reason)

	rec, _ = do(t, s, http.MethodGet, "/api/v1/snapshot")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_LoadFailureUnclassified(t *testing.T) {
	s := New(&stubBuilder{err: errors.New("dial tcp: timeout")}, zerolog.Nop())
	require.Error(t, s.Load(context.Background()))
	require.NotNil(t, s.lastErr.Load())
	assert.Equal(t, domain.ReasonTransport, s.lastErr.Load().Reason)
}

func TestServer_Snapshot(t *testing.T) {
	s := loadedServer(t)
	rec, env := do(t, s, http.MethodGet, "/api/v1/snapshot")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusSuccess, env.Status)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var snap domain.RepositorySnapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.Equal(t, "freeCodeCamp", snap.Name)
	assert.Equal(t, 8500, snap.WatchersCount)
	assert.Len(t, snap.Last4WeeksCommits, 4)
}

func TestServer_Series(t *testing.T) {
	s := loadedServer(t)

	_, env := do(t, s, http.MethodGet, "/api/v1/series/weekly")
	var weekly []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &weekly))
	require.Len(t, weekly, 4)
	assert.Equal(t, "Week 3", weekly[2]["label"])
	assert.Equal(t, float64(10), weekly[2]["commits"])

	_, env = do(t, s, http.MethodGet, "/api/v1/series/daily")
	var daily []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &daily))
	require.Len(t, daily, 28)
	assert.Equal(t, "18/2", daily[0]["label"])
	assert.Equal(t, "Daily commits, last 4 weeks", env.Message)

	_, env = do(t, s, http.MethodGet, "/api/v1/series/daily?week=3")
	require.NoError(t, json.Unmarshal(env.Data, &daily))
	require.Len(t, daily, 7)
	assert.Equal(t, float64(14), daily[0]["day_index"])
	assert.Equal(t, float64(20), daily[6]["day_index"])
	assert.Equal(t, "Daily commits, week 3", env.Message)

	_, env = do(t, s, http.MethodGet, "/api/v1/series/languages")
	var languages []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &languages))
	require.Len(t, languages, 2)
	assert.Equal(t, "JavaScript", languages[0]["label"])
	assert.Equal(t, "75.000", languages[0]["value"])

	_, env = do(t, s, http.MethodGet, "/api/v1/summary")
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, float64(25), summary["total"])
}

func TestServer_InvalidWeek(t *testing.T) {
	s := loadedServer(t)
	for _, week := range []string{"0", "5", "abc", "-1"} {
		rec, env := do(t, s, http.MethodGet, "/api/v1/series/daily?week="+week)
		assert.Equal(t, http.StatusBadRequest, rec.Code, week)
		assert.Equal(t, StatusFail, env.Status)
	}
}

func TestServer_RouteErrors(t *testing.T) {
	s := loadedServer(t)

	rec, env := do(t, s, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, StatusError, env.Status)

	rec, _ = do(t, s, http.MethodPost, "/api/v1/snapshot")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestServer_RequestIDIsEchoed(t *testing.T) {
	s := loadedServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := New(&stubBuilder{snapshot: sampleSnapshot()}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0", time.Second) }()

	require.Eventually(t, func() bool { return s.Snapshot() != nil }, time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
