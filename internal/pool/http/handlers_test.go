package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenage-community/goldenage-backend/internal/api/http/middleware"
	"github.com/goldenage-community/goldenage-backend/internal/auth"
	authmw "github.com/goldenage-community/goldenage-backend/internal/auth/middleware"
	"github.com/goldenage-community/goldenage-backend/internal/pool/service"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots/repository"
	"github.com/goldenage-community/goldenage-backend/internal/storage/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenTable map[string]*auth.Principal

func (tt tokenTable) Verify(_ context.Context, token string) (*auth.Principal, error) {
	if p, ok := tt[token]; ok {
		return p, nil
	}
	return nil, auth.ErrInvalidToken
}

func setupRouter(t *testing.T) (*gin.Engine, snapshots.Store) {
	db, err := sqlite.NewConnection(filepath.Join(t.TempDir(), "pool.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	store := repository.NewSQLStore(db, repository.DialectSQLite)
	h := New(service.NewPoolService(store))

	r := gin.New()
	r.Use(middleware.XMLBody())
	pool := r.Group("/api/pool")
	h.Register(pool)
	protected := pool.Group("")
	protected.Use(
		authmw.Protect(tokenTable{
			"staff":    {UserID: "1", Role: auth.RoleStaff},
			"resident": {UserID: "2", Role: auth.RoleResident},
		}),
		authmw.RestrictTo(auth.RoleAdmin, auth.RoleStaff),
	)
	h.RegisterProtected(protected)
	return r, store
}

type call struct {
	method      string
	path        string
	body        string
	contentType string
	token       string
	ifMatch     string
}

func do(r *gin.Engine, c call) *httptest.ResponseRecorder {
	req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	if c.contentType != "" {
		req.Header.Set("Content-Type", c.contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.ifMatch != "" {
		req.Header.Set("If-Match", c.ifMatch)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

const poolXML = `<?xml version="1.0" encoding="UTF-8"?>
<poolHours lastUpdated="2024-06-01T00:00:00.000Z">
  <weekdays>
    <session type="lapSwim" hours="6:00 AM - 9:00 AM"/>
    <session type="openSwim" hours="10:00 AM - 4:00 PM"/>
  </weekdays>
  <weekend>
    <session type="openSwim" hours="9:00 AM - 5:00 PM"/>
  </weekend>
</poolHours>`

func TestSpecialHoursScenario(t *testing.T) {
	r, store := setupRouter(t)

	w := do(r, call{method: http.MethodPost, path: "/api/pool/hours", body: poolXML, contentType: "application/xml", token: "staff"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, true, created["success"])
	assert.Equal(t, "Pool hours updated successfully", created["message"])

	w = do(r, call{method: http.MethodGet, path: "/api/pool/hours"})
	require.Equal(t, http.StatusOK, w.Code)
	hours := decode(t, w)
	assert.Equal(t, []any{}, hours["specialDays"])
	assert.Equal(t, map[string]any{"lapSwim": "6:00 AM - 9:00 AM", "openSwim": "10:00 AM - 4:00 PM"}, hours["weekdays"])

	w = do(r, call{
		method:      http.MethodPost,
		path:        "/api/pool/hours/special",
		body:        `{"date":"2024-12-25","hours":"closed","reason":"Holiday"}`,
		contentType: "application/json",
		token:       "staff",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	added := decode(t, w)
	assert.Equal(t, "Special hours added/updated for 2024-12-25", added["message"])
	assert.Equal(t, "Holiday", added["reason"])

	w = do(r, call{method: http.MethodGet, path: "/api/pool/hours"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{map[string]any{"date": "2024-12-25", "hours": "closed", "reason": "Holiday"}}, decode(t, w)["specialDays"])

	w = do(r, call{method: http.MethodDelete, path: "/api/pool/hours/special/2024-12-25", token: "staff"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2024-12-25", decode(t, w)["date"])

	w = do(r, call{method: http.MethodGet, path: "/api/pool/hours"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["specialDays"])

	history, err := store.History(context.Background(), snapshots.TablePoolHours, 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	seen := map[int64]bool{}
	for _, snap := range history {
		got, err := store.GetByID(context.Background(), snapshots.TablePoolHours, snap.ID)
		require.NoError(t, err)
		seen[got.ID] = true
	}
	assert.Len(t, seen, 3)

	w = do(r, call{method: http.MethodGet, path: "/api/pool/hours/versions?limit=2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["versions"], 2)
}

func TestPoolHandlers_Errors(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, call{method: http.MethodGet, path: "/api/pool/hours"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Pool hours not found", decode(t, w)["message"])

	w = do(r, call{method: http.MethodPut, path: "/api/pool/hours", body: poolXML, contentType: "application/xml"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, call{method: http.MethodPut, path: "/api/pool/hours", body: poolXML, contentType: "application/xml", token: "resident"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, call{method: http.MethodPut, path: "/api/pool/hours", body: `<menu date="2024-01-01"/>`, contentType: "application/xml", token: "staff"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w)["error"].(map[string]any)["code"])

	w = do(r, call{method: http.MethodPut, path: "/api/pool/hours", body: `<poolHours>`, contentType: "application/xml", token: "staff"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FORMAT", decode(t, w)["error"].(map[string]any)["code"])

	w = do(r, call{method: http.MethodPost, path: "/api/pool/hours/special", body: `{"date":"2024-12-25"}`, contentType: "application/json", token: "staff"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Date and hours are required", decode(t, w)["message"])

	w = do(r, call{method: http.MethodGet, path: "/api/pool/hours/versions?limit=zero"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, call{method: http.MethodGet, path: "/api/pool/hours/versions/abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPoolHandlers_IfMatch(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, call{method: http.MethodPut, path: "/api/pool/hours", body: poolXML, contentType: "application/xml", token: "staff"})
	require.Equal(t, http.StatusCreated, w.Code)
	base := w.Header().Get("ETag")
	require.NotEmpty(t, base)

	special := call{
		method:      http.MethodPost,
		path:        "/api/pool/hours/special",
		body:        `{"date":"2024-12-25","hours":"closed"}`,
		contentType: "application/json",
		token:       "staff",
		ifMatch:     base,
	}
	w = do(r, special)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, special)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", decode(t, w)["error"].(map[string]any)["code"])

	special.ifMatch = "not-a-version"
	w = do(r, special)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddSpecialHours_EchoesStoredValues(t *testing.T) {
	r, _ := setupRouter(t)

	w := do(r, call{method: http.MethodPut, path: "/api/pool/hours", body: poolXML, contentType: "application/xml", token: "staff"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, call{
		method:      http.MethodPost,
		path:        "/api/pool/hours/special",
		body:        `{"date":"  2024-12-31 ","hours":" 8:00 AM - 12:00 PM  ","reason":"New Year's Eve"}`,
		contentType: "application/json",
		token:       "staff",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	added := decode(t, w)
	assert.Equal(t, "Special hours added/updated for 2024-12-31", added["message"])
	assert.Equal(t, "2024-12-31", added["date"])
	assert.Equal(t, "8:00 AM - 12:00 PM", added["hours"])

	w = do(r, call{method: http.MethodGet, path: "/api/pool/hours"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{map[string]any{"date": "2024-12-31", "hours": "8:00 AM - 12:00 PM", "reason": "New Year's Eve"}}, decode(t, w)["specialDays"])
}
