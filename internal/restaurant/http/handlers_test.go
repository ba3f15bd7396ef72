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
	"github.com/goldenage-community/goldenage-backend/internal/restaurant/service"
	"github.com/goldenage-community/goldenage-backend/internal/snapshots/repository"
	"github.com/goldenage-community/goldenage-backend/internal/storage/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) *gin.Engine {
	db, err := sqlite.NewConnection(filepath.Join(t.TempDir(), "restaurant.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	store := repository.NewSQLStore(db, repository.DialectSQLite)
	h := New(service.NewMenuService(store), service.NewHoursService(store))

	r := gin.New()
	r.Use(middleware.XMLBody())
	g := r.Group("/api/restaurant")
	h.Register(g)
	h.RegisterProtected(g)
	return r
}

func send(r *gin.Engine, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
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

const menuXML = `<?xml version="1.0" encoding="UTF-8"?>
<menu date="2024-07-03">
  <meals>
    <breakfast>
      <mainDishes><dish>Scrambled Eggs</dish><dish>Pancakes</dish></mainDishes>
      <sides><dish>Fruit Cup</dish></sides>
      <drinks><drink>Orange Juice</drink><drink>Coffee</drink></drinks>
    </breakfast>
    <dinner>
      <mainDishes><dish>Meatloaf</dish></mainDishes>
    </dinner>
  </meals>
</menu>`

func TestMenuUploadAndRead(t *testing.T) {
	r := setupRouter(t)

	w := send(r, http.MethodPost, "/api/restaurant/menu/upload", "application/xml", menuXML)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Menu created successfully for 2024-07-03", decode(t, w)["message"])

	w = send(r, http.MethodPost, "/api/restaurant/menu/upload", "text/xml", menuXML)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Menu updated successfully for 2024-07-03", decode(t, w)["message"])

	w = send(r, http.MethodGet, "/api/restaurant/menu?date=2024-07-03", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"date": "2024-07-03",
		"meals": {
			"breakfast": {
				"mainDishes": ["Scrambled Eggs", "Pancakes"],
				"sides": ["Fruit Cup"],
				"drinks": ["Orange Juice", "Coffee"]
			},
			"dinner": {"mainDishes": ["Meatloaf"], "sides": [], "desserts": []}
		}
	}`, w.Body.String())

	w = send(r, http.MethodGet, "/api/restaurant/menu/weekly?startDate=2024-07-05", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	week := decode(t, w)
	assert.Equal(t, "2024-06-30", week["startDate"])
	assert.Equal(t, "2024-07-06", week["endDate"])
	assert.Len(t, week["menus"], 1)

	w = send(r, http.MethodGet, "/api/restaurant/menu?date=2024-07-04", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Menu not found for the specified date", decode(t, w)["message"])
}

func TestMenuUploadValidation(t *testing.T) {
	r := setupRouter(t)

	w := send(r, http.MethodPost, "/api/restaurant/menu/upload", "application/xml", `<menu><meals/></menu>`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Date attribute is missing in the menu XML", decode(t, w)["message"])

	w = send(r, http.MethodPost, "/api/restaurant/menu/upload", "application/xml", `<menu date="2024-07-03">`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FORMAT", decode(t, w)["error"].(map[string]any)["code"])

	w = send(r, http.MethodPost, "/api/restaurant/menu/upload", "application/xml", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestaurantHours(t *testing.T) {
	r := setupRouter(t)

	w := send(r, http.MethodGet, "/api/restaurant/hours", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(r, http.MethodPut, "/api/restaurant/hours", "application/json", `{"weekdays":{"lunch":"11-2"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decode(t, w)["error"].(map[string]any)["code"])

	body := `{"weekdays":{"lunch":"11:00 AM - 2:00 PM"},"weekend":{"brunch":"10:00 AM - 2:00 PM"}}`
	w = send(r, http.MethodPut, "/api/restaurant/hours", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.Equal(t, "Restaurant hours updated successfully", updated["message"])
	assert.NotNil(t, updated["id"])

	w = send(r, http.MethodGet, "/api/restaurant/hours", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, body, w.Body.String())
}
