package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"parts-ledger/config"
	"parts-ledger/models"
	"parts-ledger/routes"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Part{},
		&models.Location{},
		&models.InventoryRecord{},
		&models.MoveRecord{},
		&models.QuarterlyCount{},
		&models.QuarterlyCountRecord{},
	))

	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := models.User{Name: "Admin", Username: "admin", PinHash: string(hash), Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	app := fiber.New()
	routes.SetupAuthRoutes(app, db)
	routes.SetupPartRoutes(app, db)
	routes.SetupLocationRoutes(app, db)
	routes.SetupInventoryRoutes(app, db)
	routes.SetupMoveRoutes(app, db)
	routes.SetupQuarterlyCountRoutes(app, db)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var payload map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp, payload
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	return loginAs(t, app, "admin", "1234")
}

func loginAs(t *testing.T, app *fiber.App, name, pin string) string {
	t.Helper()
	resp, payload := doJSON(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{
		"name": name,
		"pin":  pin,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := payload["x_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLoginRejectsWrongPin(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{
		"name": "admin",
		"pin":  "9999",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, "GET", "/api/v1/parts/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMoveUndoFlow(t *testing.T) {
	app, db := newTestApp(t)
	token := login(t, app)

	part := models.Part{PartCode: "P-100", PartName: "Panel"}
	require.NoError(t, db.Create(&part).Error)
	loc := models.Location{LocationCode: "A-01", Zone: "A"}
	require.NoError(t, db.Create(&loc).Error)

	resp, payload := doJSON(t, app, "POST", "/api/v1/inventory/move", token, fiber.Map{
		"part_id":     part.ID,
		"location_id": loc.ID,
		"delta_qty":   10,
		"reason":      "receiving",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := payload["data"].(map[string]interface{})
	assert.EqualValues(t, 10, data["new_qty"])

	move := data["move"].(map[string]interface{})
	moveID := move["ID"].(string)

	// Overdraw is a 400 with the numbers attached.
	resp, payload = doJSON(t, app, "POST", "/api/v1/inventory/move", token, fiber.Map{
		"part_id":     part.ID,
		"location_id": loc.ID,
		"delta_qty":   -11,
		"reason":      "pull",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.EqualValues(t, 10, payload["current"])
	assert.EqualValues(t, 11, payload["requested"])

	resp, payload = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/moves/%s/undo", moveID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = payload["data"].(map[string]interface{})
	assert.EqualValues(t, 0, data["new_qty"])

	resp, payload = doJSON(t, app, "GET",
		fmt.Sprintf("/api/v1/inventory/verify?part_id=%d&location_id=%d", part.ID, loc.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = payload["data"].(map[string]interface{})
	assert.Equal(t, true, data["consistent"])
}

func TestCatalogCreateStampsActor(t *testing.T) {
	app, db := newTestApp(t)
	token := login(t, app)

	resp, payload := doJSON(t, app, "POST", "/api/v1/parts/", token, fiber.Map{
		"part_code": "P-100",
		"part_name": "Panel",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := payload["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["CreatedBy"])

	resp, _ = doJSON(t, app, "POST", "/api/v1/locations/", token, fiber.Map{
		"location_code": "A-01",
		"zone":          "A",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var loc models.Location
	require.NoError(t, db.Where("location_code = ?", "A-01").First(&loc).Error)
	assert.Equal(t, 1, loc.CreatedBy)
}

func TestCountManagementRequiresAdmin(t *testing.T) {
	app, db := newTestApp(t)
	adminToken := login(t, app)

	hash, err := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.DefaultCost)
	require.NoError(t, err)
	worker := models.User{Name: "worker", Username: "worker", PinHash: string(hash), Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&worker).Error)
	workerToken := loginAs(t, app, "worker", "1234")

	part := models.Part{PartCode: "P-100", PartName: "Panel"}
	require.NoError(t, db.Create(&part).Error)
	loc := models.Location{LocationCode: "A-01", Zone: "A"}
	require.NoError(t, db.Create(&loc).Error)

	resp, payload := doJSON(t, app, "POST", "/api/v1/counts/", adminToken, fiber.Map{
		"name": "Q3 2026",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := payload["data"].(map[string]interface{})
	countID := int(data["ID"].(float64))

	// Record mutations are admin-only.
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/counts/%d/records", countID), workerToken, fiber.Map{
		"part_id":     part.ID,
		"location_id": loc.ID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/api/v1/counts/%d/counts", countID), workerToken, fiber.Map{
		"entries": []fiber.Map{{"record_id": 1, "counted_qty": 1}},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/counts/%d/records/1", countID), workerToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Reads stay open to any authenticated user.
	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/counts/%d/summary", countID), workerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// An admin passes the same gate.
	resp, _ = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/counts/%d/records", countID), adminToken, fiber.Map{
		"part_id":     part.ID,
		"location_id": loc.ID,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestTransferEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	token := login(t, app)

	part := models.Part{PartCode: "P-100", PartName: "Panel"}
	require.NoError(t, db.Create(&part).Error)
	locA := models.Location{LocationCode: "A-01", Zone: "A"}
	locB := models.Location{LocationCode: "B-01", Zone: "B"}
	require.NoError(t, db.Create(&locA).Error)
	require.NoError(t, db.Create(&locB).Error)

	resp, _ := doJSON(t, app, "POST", "/api/v1/inventory/adjust", token, fiber.Map{
		"part_id":     part.ID,
		"location_id": locA.ID,
		"delta_qty":   15,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, payload := doJSON(t, app, "POST", "/api/v1/inventory/transfer", token, fiber.Map{
		"part_id":          part.ID,
		"from_location_id": locA.ID,
		"to_location_id":   locB.ID,
		"qty":              15,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := payload["data"].(map[string]interface{})
	assert.EqualValues(t, 0, data["source_qty"])
	assert.EqualValues(t, 15, data["dest_qty"])

	// Same source and destination is rejected.
	resp, _ = doJSON(t, app, "POST", "/api/v1/inventory/transfer", token, fiber.Map{
		"part_id":          part.ID,
		"from_location_id": locB.ID,
		"to_location_id":   locB.ID,
		"qty":              1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
