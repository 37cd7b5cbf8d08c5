package logconfig

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"log-console/feature/logconfig/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *Service) {
	app := fiber.New()
	svc := setupService(t)
	NewHandler(svc).RegisterRoutes(app)
	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestHandleCreateAndGet(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, "POST", "/logconfigs", models.Input{Name: "api", LogType: models.LogTypeJSON})
	require.Equal(t, fiber.StatusCreated, status)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)

	status, body = doJSON(t, app, "GET", "/logconfigs/"+id, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "api", body["name"])

	status, body = doJSON(t, app, "GET", "/logconfigs?filter=ap", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["total"])
}

func TestHandleCreateErrors(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, "POST", "/logconfigs", models.Input{Name: "bad", LogType: models.LogTypeRegex, Regex: "("})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "invalid regex")

	status, _ = doJSON(t, app, "POST", "/logconfigs", models.Input{Name: "dup", LogType: models.LogTypeJSON})
	require.Equal(t, fiber.StatusCreated, status)
	status, _ = doJSON(t, app, "POST", "/logconfigs", models.Input{Name: "dup", LogType: models.LogTypeJSON})
	assert.Equal(t, fiber.StatusConflict, status)

	req := httptest.NewRequest("POST", "/logconfigs", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleUpdateAndDelete(t *testing.T) {
	app, _ := setupTestApp(t)

	_, body := doJSON(t, app, "POST", "/logconfigs", models.Input{Name: "svc", LogType: models.LogTypeSyslog})
	id := body["id"].(string)

	status, body := doJSON(t, app, "PUT", "/logconfigs/"+id, models.Input{Name: "svc", LogType: models.LogTypeSyslog, TimeFormat: "%b %d"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "%b %d", body["timeFormat"])

	status, _ = doJSON(t, app, "DELETE", "/logconfigs/"+id, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = doJSON(t, app, "GET", "/logconfigs/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleDrafts(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, "POST", "/logconfigs/drafts", nil)
	require.Equal(t, fiber.StatusCreated, status)
	id := body["id"].(string)
	assert.Equal(t, false, body["validated"])

	status, body = doJSON(t, app, "PATCH", "/logconfigs/drafts/"+id, map[string]any{
		"name":    "edited",
		"logType": "Regex",
		"regex":   "[",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["validated"])
	assert.NotEmpty(t, body["error"])

	status, _ = doJSON(t, app, "POST", "/logconfigs/drafts/"+id+"/commit", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = doJSON(t, app, "PATCH", "/logconfigs/drafts/"+id, map[string]any{"regex": "a+"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Nil(t, body["error"])

	status, body = doJSON(t, app, "POST", "/logconfigs/drafts/"+id+"/commit", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "edited", body["name"])

	status, _ = doJSON(t, app, "DELETE", "/logconfigs/drafts/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleListDatabaseError(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	app := fiber.New()
	NewHandler(NewService(db, nil, zap.NewNop())).RegisterRoutes(app)

	sqlMock.ExpectQuery(".*").WillReturnError(assert.AnError)

	resp, err := app.Test(httptest.NewRequest("GET", "/logconfigs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestHandleNoDatabase(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(nil, nil, zap.NewNop())).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/logconfigs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
