//go:build integration

// End-to-end test of the consumption → reorder → document flow against
// real Postgres and Redis containers. Run with:
//
//	go test -tags integration ./tests/e2e/
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinistock/internal/config"
	"clinistock/internal/dto"
	"clinistock/internal/infra"
	"clinistock/internal/model"
	"clinistock/internal/router"
	"clinistock/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	engine *gin.Engine
	db     *gorm.DB
	token  string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("clinistock_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	rd, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rd.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)

	redisURL, err := rd.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(redisURL)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "e2e-test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    2,
		PDFStoragePath:     t.TempDir(),
		WorkerPoolSize:     1,
	}

	// Worker pool is wired but no jobs complete in-test (no SMTP).
	pool := worker.NewPool(rdb, 1)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := model.User{
		Username:     "admin",
		Name:         "Admin",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Active:       true,
	}
	require.NoError(t, db.Create(&admin).Error)

	env := &testEnv{engine: router.New(cfg, db, rdb, pool), db: db}
	env.token = env.login(t, "admin", "password123")
	return env
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.request(t, http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func TestConsumptionToOrderFlow(t *testing.T) {
	env := setupEnv(t)

	// Supplier and an item one consumption away from its threshold.
	rec := env.request(t, http.MethodPost, "/v1/suppliers", env.token, dto.CreateSupplierRequest{
		Name:      "Acme Medical",
		FaxNumber: "03-1234-5678",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var supplier dto.SupplierResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &supplier))

	rec = env.request(t, http.MethodPost, "/v1/items", env.token, dto.CreateItemRequest{
		Name:         "Sterile gauze",
		UnitType:     model.UnitTypeIndividual,
		MinimumStock: 5,
		CurrentStock: 10,
		SupplierID:   &supplier.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item dto.ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))

	// Consuming 6 drops stock to 4 (≤ 5) and must open a pending order
	// for the consumed quantity.
	rec = env.request(t, http.MethodPost, "/v1/consumption", env.token, dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{{ItemID: item.ID, Quantity: 6}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result dto.ConsumptionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Reordered)
	require.Len(t, result.OrderIDs, 1)
	orderID := result.OrderIDs[0]

	// A second consumption merges into the same pending order.
	rec = env.request(t, http.MethodPost, "/v1/consumption", env.token, dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{{ItemID: item.ID, Quantity: 1}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.request(t, http.MethodGet, "/v1/orders/"+orderID, env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var order dto.OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, model.OrderStatusPending, order.Status)
	require.Len(t, order.Lines, 1)
	assert.Equal(t, 7, order.Lines[0].Quantity)

	// Document generation advances the order to sent.
	rec = env.request(t, http.MethodPost, "/v1/orders/"+orderID+"/document", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var doc dto.OrderDocumentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, model.OrderStatusSent, doc.Status)

	// Regeneration is idempotent.
	rec = env.request(t, http.MethodPost, "/v1/orders/"+orderID+"/document", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, model.OrderStatusSent, doc.Status)

	// Manual received transition.
	rec = env.request(t, http.MethodPatch, "/v1/orders/"+orderID+"/status", env.token, dto.UpdateOrderStatusRequest{
		Status: model.OrderStatusReceived,
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	// A fresh trigger now opens a new order, since none is pending.
	rec = env.request(t, http.MethodPost, "/v1/consumption", env.token, dto.RecordUsageRequest{
		Lines: []dto.ConsumptionLineRequest{{ItemID: item.ID, Quantity: 1}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.OrderIDs, 1)
	assert.NotEqual(t, orderID, result.OrderIDs[0])
}

func TestAuthRequired(t *testing.T) {
	env := setupEnv(t)

	rec := env.request(t, http.MethodGet, "/v1/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.request(t, http.MethodGet, "/v1/items", env.token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLowStockAlerts(t *testing.T) {
	env := setupEnv(t)

	rec := env.request(t, http.MethodPost, "/v1/items", env.token, dto.CreateItemRequest{
		Name:         "Catheter",
		UnitType:     model.UnitTypeIndividual,
		MinimumStock: 5,
		CurrentStock: 5, // at minimum counts as low
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.request(t, http.MethodGet, "/v1/items/alerts", env.token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var alerts []dto.ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "Catheter", alerts[0].Name)
}
