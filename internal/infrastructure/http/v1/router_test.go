package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "partshub/internal/core/context"
	"partshub/internal/domain/auth"
	"partshub/internal/domain/locations"
	"partshub/internal/domain/locations/locationstest"
	"partshub/internal/domain/reports"
	"partshub/pkg/logger"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type readOnlyTx struct{}

func (readOnlyTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (readOnlyTx) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type emptyReports struct{}

func (emptyReports) InventoryTotals(context.Context) (reports.InventoryTotals, error) {
	return reports.InventoryTotals{TotalValue: decimal.RequireFromString("12.345"), PricedComponents: 2}, nil
}

func (emptyReports) TopComponents(context.Context, int) ([]reports.ComponentValue, error) {
	return nil, nil
}

func (emptyReports) MonthlySpend(context.Context, time.Time) ([]reports.MonthlySpend, error) {
	return nil, nil
}

type testAPI struct {
	t      *testing.T
	store  *locationstest.Store
	jwt    *auth.JWTService
	server http.Handler
	db     *stubPinger
}

func newTestAPI(t *testing.T, seed ...*locations.StorageLocation) *testAPI {
	t.Helper()
	store := locationstest.NewStore(seed...)
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	db := &stubPinger{}

	router := NewRouter(RouterConfig{
		DB:              db,
		Logger:          logger.NewNop(),
		JWTValidator:    jwtService,
		LocationService: locations.NewService(store, store, nil),
		ReportService:   reports.NewService(emptyReports{}, readOnlyTx{}),
	})

	return &testAPI{t: t, store: store, jwt: jwtService, server: router, db: db}
}

func (a *testAPI) token() string {
	a.t.Helper()
	tok, _, err := a.jwt.GenerateAccessToken(appctx.UserContext{UserID: "user-1", Email: "dev@example.com"})
	require.NoError(a.t, err)
	return tok
}

func (a *testAPI) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+a.token())
	}
	w := httptest.NewRecorder()
	a.server.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

const gridBody = `{
	"layout_type": "grid",
	"prefix": "bin-",
	"ranges": [
		{"type": "letters", "start": "a", "end": "b"},
		{"type": "numbers", "start": 1, "end": 2}
	]
}`

func TestPreview(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations/generate-preview", gridBody, false)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{
		"names": ["bin-a-1", "bin-a-2", "bin-b-1", "bin-b-2"],
		"total_count": 4,
		"warnings": []
	}`, w.Body.String())
	assert.Zero(t, api.store.Queries)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPreview_RowLetters(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations/generate-preview",
		`{"layout_type":"row","prefix":"shelf-","ranges":[{"type":"letters","start":"a","end":"c"}]}`, false)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"names":["shelf-a","shelf-b","shelf-c"],"total_count":3,"warnings":[]}`, w.Body.String())
}

func TestPreview_InvertedRange(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations/generate-preview",
		`{"layout_type":"row","prefix":"s","ranges":[{"type":"letters","start":"f","end":"a"}]}`, false)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "RANGE_ERROR", decode[errorBody](t, w).Code)
}

func TestPreview_LimitExceeded(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations/generate-preview",
		`{"layout_type":"grid","prefix":"b","ranges":[
			{"type":"letters","start":"a","end":"z"},
			{"type":"numbers","start":1,"end":20}
		]}`, false)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "LIMIT_EXCEEDED", body.Code)
	assert.EqualValues(t, 520, body.Details["requested"])
}

func TestPreview_DuplicateNames(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations/generate-preview",
		`{"layout_type":"grid","prefix":"b","separator":"","ranges":[
			{"type":"numbers","start":1,"end":11},
			{"type":"numbers","start":1,"end":11}
		]}`, false)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "DUPLICATE_NAME", decode[errorBody](t, w).Code)
}

func TestPreview_MalformedBody(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations/generate-preview", `{"ranges": [`, false)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[errorBody](t, w).Code)
}

func TestBulkCreate_RequiresToken(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations/bulk-create", gridBody, false)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", decode[errorBody](t, w).Code)
	assert.Zero(t, api.store.Queries)
	assert.Empty(t, api.store.Rows())
}

func TestBulkCreate_InvalidToken(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/storage-locations/bulk-create", strings.NewReader(gridBody))
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	api.server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBulkCreate(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations/bulk-create", gridBody, true)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[struct {
		CreatedCount int      `json:"created_count"`
		LocationIDs  []string `json:"location_ids"`
	}](t, w)
	assert.Equal(t, 4, resp.CreatedCount)
	require.Len(t, resp.LocationIDs, 4)

	rows := api.store.Rows()
	require.Len(t, rows, 4)
	for i, row := range rows {
		assert.Equal(t, resp.LocationIDs[i], row.ID.String())
		assert.Equal(t, locations.TypeContainer, row.LocationType)
	}
	assert.Equal(t, "bin-a-1", rows[0].Name)
}

func TestBulkCreate_Conflict(t *testing.T) {
	api := newTestAPI(t, locations.NewStorageLocation("bin-b-1", locations.TypeBin))

	w := api.do(http.MethodPost, "/api/v1/storage-locations/bulk-create", gridBody, true)

	require.Equal(t, http.StatusConflict, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "CONFLICT", body.Code)
	assert.Equal(t, []any{"bin-b-1"}, body.Details["names"])
	assert.Len(t, api.store.Rows(), 1)
}

func TestBulkCreate_RangeErrorIsBadRequest(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations/bulk-create",
		`{"layout_type":"row","prefix":"s","ranges":[{"type":"numbers","start":"x","end":3}]}`, true)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "RANGE_ERROR", decode[errorBody](t, w).Code)
}

func TestBulkCreate_MissingParent(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations/bulk-create",
		`{"layout_type":"row","prefix":"s","parent_id":"0190f3a0-0000-7000-8000-000000000001",
		  "ranges":[{"type":"letters","start":"a","end":"b"}]}`, true)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode[errorBody](t, w).Code)
	assert.Empty(t, api.store.Rows())
}

func TestCreateGetDelete(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations", `{"name":"cabinet-1","location_type":"cabinet"}`, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	locID := created["id"].(string)
	assert.Equal(t, "cabinet", created["location_type"])

	w = api.do(http.MethodGet, "/api/v1/storage-locations/"+locID, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cabinet-1", decode[map[string]any](t, w)["name"])

	w = api.do(http.MethodPost, "/api/v1/storage-locations", `{"name":"cabinet-1"}`, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodDelete, "/api/v1/storage-locations/"+locID, "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodDelete, "/api/v1/storage-locations/"+locID, "", true)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodGet, "/api/v1/storage-locations/"+locID, "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreate_MissingName(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/v1/storage-locations", `{"location_type":"bin"}`, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGet_InvalidID(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/storage-locations/nope", "", false)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode[errorBody](t, w).Code)
}

func TestListAndTree(t *testing.T) {
	room := locations.NewStorageLocation("room", locations.TypeRoom)
	shelf := locations.NewStorageLocation("shelf", locations.TypeShelf)
	shelf.ParentID = &room.ID
	api := newTestAPI(t, room, shelf)

	w := api.do(http.MethodGet, "/api/v1/storage-locations?search=she", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
		TotalCount int `json:"total_count"`
		Limit      int `json:"limit"`
	}](t, w)
	assert.Equal(t, 1, list.TotalCount)
	assert.Equal(t, 50, list.Limit)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "shelf", list.Items[0].Name)

	w = api.do(http.MethodGet, "/api/v1/storage-locations/tree", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	tree := decode[struct {
		Items []struct {
			Name     string `json:"name"`
			Children []struct {
				Name string `json:"name"`
			} `json:"children"`
		} `json:"items"`
	}](t, w)
	require.Len(t, tree.Items, 1)
	assert.Equal(t, "room", tree.Items[0].Name)
	require.Len(t, tree.Items[0].Children, 1)
	assert.Equal(t, "shelf", tree.Items[0].Children[0].Name)

	w = api.do(http.MethodGet, "/api/v1/storage-locations/tree?root_id=bad", "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFinancialSummary(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/v1/reports/financial-summary", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/v1/reports/financial-summary?months=3", "", true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[struct {
		TotalInventoryValue string            `json:"total_inventory_value"`
		Months              int               `json:"months"`
		MonthlySpend        []json.RawMessage `json:"monthly_spend"`
	}](t, w)
	assert.Equal(t, "12.35", body.TotalInventoryValue)
	assert.Equal(t, 3, body.Months)
	assert.Len(t, body.MonthlySpend, 3)

	w = api.do(http.MethodGet, "/api/v1/reports/financial-summary?months=99", "", true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/health/live", "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/health/ready", "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	api.db.err = errors.New("connection refused")
	w = api.do(http.MethodGet, "/health/ready", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/storage-locations/bulk-create", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := httptest.NewRecorder()
	api.server.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
