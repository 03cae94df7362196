package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/print-connect-backend/internal/fixtures"
	"github.com/Raymond9734/print-connect-backend/internal/metrics"
	"github.com/Raymond9734/print-connect-backend/internal/models"
	"github.com/Raymond9734/print-connect-backend/internal/queue"
	"github.com/Raymond9734/print-connect-backend/internal/repository"
	"github.com/Raymond9734/print-connect-backend/internal/service"
)

type testServer struct {
	router http.Handler
	store  *repository.MemoryStore
	queue  queue.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ds, err := fixtures.Load()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewMemoryStore(ds)
	q := queue.NewMemoryClient(16, logger)
	t.Cleanup(func() { _ = q.Close() })

	api := service.NewMockAPI(store.Providers(), store.Orders(), service.APIOptions{
		NewID: func() int64 { return 4321 },
		Now:   func() time.Time { return time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC) },
	}, logger)

	catalogSvc := service.NewCatalogService(api, store.Providers(), logger)
	orderSvc := service.NewOrderService(api, store.Providers(), store.Orders(), q, logger)
	userSvc := service.NewUserService(store.Users())

	router := NewRouter(Handlers{
		Health:   NewHealthHandler(nil, q, logger),
		Provider: NewProviderHandler(catalogSvc, logger),
		Order:    NewOrderHandler(orderSvc, userSvc, logger),
		Metrics:  metrics.Handler(),
	}, logger)

	return &testServer{router: router, store: store, queue: q}
}

func (s *testServer) do(t *testing.T, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestListProviders(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantIDs    []int64
	}{
		{"all providers", "", http.StatusOK, []int64{1, 2, 3, 4}},
		{"business only sorted by rating", "?business=true&sort=rating", http.StatusOK, []int64{2, 4}},
		{"material and distance", "?material=PLA&max_distance=9", http.StatusOK, []int64{1, 2, 3}},
		{"min rating", "?min_rating=4.9", http.StatusOK, []int64{2, 4}},
		{"bad business flag", "?business=maybe", http.StatusBadRequest, nil},
		{"bad distance", "?max_distance=far", http.StatusBadRequest, nil},
		{"bad rating", "?min_rating=7", http.StatusBadRequest, nil},
		{"bad sort", "?sort=price", http.StatusBadRequest, nil},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, "/providers"+tt.query, "", "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, models.CodeInvalidInput, decodeError(t, rec).Code)
				return
			}

			var providers []models.Provider
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &providers))
			ids := make([]int64, 0, len(providers))
			for _, p := range providers {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestGetProvider(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/providers/3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var provider models.Provider
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &provider))
	assert.Equal(t, "Giulia Bianchi", provider.Name)
	assert.Equal(t, []models.Material{models.MaterialPLA, models.MaterialTPU}, provider.Materials)

	rec = srv.do(t, http.MethodGet, "/providers/77", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, models.CodeNotFound, decodeError(t, rec).Code)

	rec = srv.do(t, http.MethodGet, "/providers/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, codeInvalidID, decodeError(t, rec).Code)
}

func TestSubmitOrder(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		userID     string
		body       string
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "file order",
			path:       "/providers/1/orders",
			userID:     "2",
			body:       `{"file_name":"dragon.stl","material":"PETG","notes":"glossy"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "idea order with quantity at a business",
			path:       "/providers/2/orders",
			userID:     "2",
			body:       `{"has_file":false,"idea_description":"Lamp shade","quantity":4}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing file",
			path:       "/providers/1/orders",
			userID:     "2",
			body:       `{"has_file":true}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   models.CodeInvalidInput,
			wantMsg:    service.MsgMissingFile,
		},
		{
			name:       "empty idea",
			path:       "/providers/1/orders",
			userID:     "2",
			body:       `{"has_file":false,"idea_description":"  "}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   models.CodeInvalidInput,
			wantMsg:    service.MsgMissingIdea,
		},
		{
			name:       "quantity limit",
			path:       "/providers/1/orders",
			userID:     "2",
			body:       `{"file_name":"gear.stl","quantity":3}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   models.CodeInvalidInput,
			wantMsg:    service.MsgQuantityLimited,
		},
		{
			name:       "unknown provider",
			path:       "/providers/999/orders",
			userID:     "2",
			body:       `{"file_name":"gear.stl"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   models.CodeNotFound,
			wantMsg:    "Provider not found",
		},
		{
			name:       "no user",
			path:       "/providers/1/orders",
			body:       `{"file_name":"gear.stl"}`,
			wantStatus: http.StatusUnauthorized,
			wantCode:   models.CodeUnauthorized,
		},
		{
			name:       "unknown user",
			path:       "/providers/1/orders",
			userID:     "12",
			body:       `{"file_name":"gear.stl"}`,
			wantStatus: http.StatusUnauthorized,
			wantCode:   models.CodeUnauthorized,
		},
		{
			name:       "malformed user header",
			path:       "/providers/1/orders",
			userID:     "alice",
			body:       `{"file_name":"gear.stl"}`,
			wantStatus: http.StatusUnauthorized,
			wantCode:   models.CodeUnauthorized,
		},
		{
			name:       "malformed body",
			path:       "/providers/1/orders",
			userID:     "2",
			body:       `{"file_name":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   codeInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			rec := srv.do(t, http.MethodPost, tt.path, tt.userID, tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantCode != "" {
				detail := decodeError(t, rec)
				assert.Equal(t, tt.wantCode, detail.Code)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, detail.Message)
				}
				return
			}

			var order models.Order
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
			assert.Equal(t, int64(4321), order.ID)
			assert.Equal(t, models.OrderStatusPending, order.Status)
			assert.Equal(t, "Alice", order.CustomerName)
			assert.Equal(t, "2024-05-02", order.Date)

			length, err := srv.queue.Length(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(1), length)
		})
	}
}

func TestListProviderOrders(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/providers/1/orders?status=pending", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.OrderListResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Data, 2)
	assert.Equal(t, int64(2), result.Pagination.TotalCount)

	rec = srv.do(t, http.MethodGet, "/providers/1/orders?status=lost", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		userID     string
		body       string
		wantStatus int
	}{
		{"provider accepts", "/orders/1/status", "1", `{"status":"accepted"}`, http.StatusOK},
		{"customer forbidden", "/orders/1/status", "2", `{"status":"accepted"}`, http.StatusForbidden},
		{"invalid transition", "/orders/4/status", "1", `{"status":"printing"}`, http.StatusConflict},
		{"unknown order", "/orders/8888/status", "1", `{"status":"accepted"}`, http.StatusNotFound},
		{"missing status", "/orders/1/status", "1", `{}`, http.StatusBadRequest},
		{"anonymous", "/orders/1/status", "", `{"status":"accepted"}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			rec := srv.do(t, http.MethodPatch, tt.path, tt.userID, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/dashboard", "1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var providerDash service.DashboardResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &providerDash))
	require.NotNil(t, providerDash.Provider)
	assert.Equal(t, "Marco Rossi", providerDash.Provider.Name)
	assert.Len(t, providerDash.Orders, 5)

	rec = srv.do(t, http.MethodGet, "/dashboard", "2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var customerDash service.DashboardResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &customerDash))
	assert.Nil(t, customerDash.Provider)
	assert.Len(t, customerDash.Orders, 1)

	rec = srv.do(t, http.MethodGet, "/dashboard", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "not_configured", resp.Services["database"])
	assert.Equal(t, "healthy", resp.Services["queue"])
	require.NotNil(t, resp.QueueLength)
	assert.Equal(t, int64(0), *resp.QueueLength)
}

type failingDB struct{}

func (failingDB) Health(ctx context.Context) error { return errors.New("connection refused") }

func TestHealth_Unhealthy(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHealthHandler(failingDB{}, nil, logger)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Services["database"])
	assert.Equal(t, "not_configured", resp.Services["queue"])
}

func TestMiddleware(t *testing.T) {
	srv := newTestServer(t)

	t.Run("request id generated", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/health", "", "")
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	})

	t.Run("request id propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})

	t.Run("cors preflight", func(t *testing.T) {
		rec := srv.do(t, http.MethodOptions, "/providers/1/orders", "", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), UserIDHeader)
	})

	t.Run("metrics exposed", func(t *testing.T) {
		srv.do(t, http.MethodGet, "/providers/2", "", "")
		rec := srv.do(t, http.MethodGet, "/metrics", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `print_connect_http_requests_total{method="GET",route="/providers/{id}",status="200"}`)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, codeInternalError, decodeError(t, rec).Code)
}

func TestRouter_PanicIsLoggedAndCounted(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	router := NewRouter(Handlers{
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}),
	}, logger)

	counter := metrics.RequestTotal.WithLabelValues(http.MethodGet, "/metrics", "500")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, codeInternalError, decodeError(t, rec).Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	var logged bool
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["msg"] == "request" {
			logged = true
			assert.Equal(t, float64(http.StatusInternalServerError), entry["status"])
			assert.Equal(t, "/metrics", entry["path"])
		}
	}
	assert.True(t, logged, "panicking request was not logged")
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", models.ErrInvalidInput("bad"), http.StatusBadRequest, models.CodeInvalidInput},
		{"not found", models.ErrNotFoundWithMsg("gone"), http.StatusNotFound, models.CodeNotFound},
		{"conflict", models.ErrConflictWithMsg("clash"), http.StatusConflict, models.CodeConflict},
		{"unauthorized", models.ErrUnauthorized("who"), http.StatusUnauthorized, models.CodeUnauthorized},
		{"forbidden", models.ErrForbidden("no"), http.StatusForbidden, models.CodeForbidden},
		{"wrapped sentinel", errors.Join(errors.New("lookup"), models.ErrNotFound), http.StatusNotFound, models.CodeNotFound},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, codeInternalError},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err, logger)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}
