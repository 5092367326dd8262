package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tahfiz-portal/internal/adapters/http/middleware"
	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := repositories.NewMemoryStore()
	require.NoError(t, store.Seed(context.Background(), config.DemoFixture(time.Now())))

	cfg := &config.Config{
		AppMode:     "dev",
		StoreDriver: config.StoreMemory,
		JWT:         config.JWTConfig{Secret: "test-secret", SessionTTL: time.Hour},
	}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, NewServices(store, cfg), cfg)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
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
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func login(t *testing.T, app *fiber.App, role string) string {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"role": role})
	require.Equal(t, http.StatusOK, status, env.Error)

	var result struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestView_AnonymousGetsLanding(t *testing.T) {
	app := newTestApp(t)

	status, env := call(t, app, http.MethodGet, "/api/v1/view?name=payment", "", nil)
	require.Equal(t, http.StatusOK, status)

	var vm struct {
		Name string `json:"name"`
	}
	decode(t, env.Data, &vm)
	assert.Equal(t, "landing", vm.Name)
}

func TestLogin_InvalidRole(t *testing.T) {
	app := newTestApp(t)

	status, env := call(t, app, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{"role": "GUEST"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ROLE", env.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/v1/auth/me", "/api/v1/dashboard", "/api/v1/ledger/me", "/api/v1/notifications"} {
		status, _ := call(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}

	status, _ := call(t, app, http.MethodGet, "/api/v1/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestNavigationDrivesDefaultView(t *testing.T) {
	app := newTestApp(t)
	token := login(t, app, "TEACHER")

	status, env := call(t, app, http.MethodPut, "/api/v1/navigation", token, fiber.Map{"view": "payment"})
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = call(t, app, http.MethodGet, "/api/v1/view", token, nil)
	require.Equal(t, http.StatusOK, status)

	var vm struct {
		Name  string `json:"name"`
		Role  string `json:"role"`
		Title string `json:"title"`
	}
	decode(t, env.Data, &vm)
	assert.Equal(t, "payment", vm.Name)
	assert.Equal(t, "TEACHER", vm.Role)
	assert.Equal(t, "Dompet & Pendapatan", vm.Title)

	status, env = call(t, app, http.MethodPut, "/api/v1/navigation", token, fiber.Map{"view": "  "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INPUT", env.Code)
}

func TestLogoutIsUnconditional(t *testing.T) {
	app := newTestApp(t)

	status, _ := call(t, app, http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, status)

	token := login(t, app, "PARENT")
	status, _ = call(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestWithdrawalFlow(t *testing.T) {
	app := newTestApp(t)
	teacher := login(t, app, "TEACHER")
	admin := login(t, app, "ADMIN")

	balance := func() string {
		status, env := call(t, app, http.MethodGet, "/api/v1/ledger/me", teacher, nil)
		require.Equal(t, http.StatusOK, status)
		var l struct {
			CurrentBalance string `json:"current_balance"`
		}
		decode(t, env.Data, &l)
		return l.CurrentBalance
	}
	assert.Equal(t, "65", balance())

	status, env := call(t, app, http.MethodPost, "/api/v1/withdrawals", teacher, fiber.Map{"amount": 70, "bank": "Maybank"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_AMOUNT", env.Code)

	status, env = call(t, app, http.MethodPost, "/api/v1/withdrawals", teacher, fiber.Map{"amount": 65, "bank": "CIMB Bank"})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Equal(t, "0", balance())

	// Only admins resolve
	status, _ = call(t, app, http.MethodPut, "/api/v1/withdrawals/w2/reject", teacher, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = call(t, app, http.MethodPut, "/api/v1/withdrawals/w2/reject", admin, fiber.Map{"note": "Akaun tidak sepadan"})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "20", balance())

	status, env = call(t, app, http.MethodPut, "/api/v1/withdrawals/w2/approve", admin, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_RESOLVED", env.Code)

	status, env = call(t, app, http.MethodGet, "/api/v1/withdrawals?status=pending&limit=10", admin, nil)
	require.Equal(t, http.StatusOK, status)
	var page struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	decode(t, env.Data, &page)
	// w3 plus the new 65 request
	assert.Equal(t, 2, page.Meta.Total)

	status, env = call(t, app, http.MethodGet, "/api/v1/notifications", teacher, nil)
	require.Equal(t, http.StatusOK, status)
	var inbox []struct {
		Title string `json:"title"`
	}
	decode(t, env.Data, &inbox)
	require.NotEmpty(t, inbox)
	assert.Equal(t, "Pengeluaran ditolak", inbox[0].Title)
}

func TestPaymentDialogFlow(t *testing.T) {
	app := newTestApp(t)
	parent := login(t, app, "PARENT")

	status, env := call(t, app, http.MethodGet, "/api/v1/payments/outstanding", parent, nil)
	require.Equal(t, http.StatusOK, status)
	var outstanding []struct {
		ID string `json:"id"`
	}
	decode(t, env.Data, &outstanding)
	require.Len(t, outstanding, 1)
	assert.Equal(t, "p2", outstanding[0].ID)

	status, env = call(t, app, http.MethodPost, "/api/v1/payments/p1/dialogs", parent, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "PAYMENT_ALREADY_PAID", env.Code)

	status, env = call(t, app, http.MethodPost, "/api/v1/payments/p2/dialogs", parent, nil)
	require.Equal(t, http.StatusCreated, status, env.Error)
	var dialog struct {
		ID     string `json:"id"`
		Method string `json:"method"`
		State  string `json:"state"`
	}
	decode(t, env.Data, &dialog)
	assert.Equal(t, "BANK_TRANSFER", dialog.Method)
	assert.Equal(t, "SELECTING_METHOD", dialog.State)
	base := "/api/v1/payment-dialogs/" + dialog.ID

	status, env = call(t, app, http.MethodPut, base+"/method", parent, fiber.Map{"method": "BITCOIN"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_PAYMENT_METHOD", env.Code)

	status, _ = call(t, app, http.MethodPut, base+"/method", parent, fiber.Map{"method": "QR"})
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, app, http.MethodPost, base+"/submit", parent, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	decode(t, env.Data, &dialog)
	assert.Equal(t, "SUCCEEDED", dialog.State)
	assert.Equal(t, "QR", dialog.Method)

	status, env = call(t, app, http.MethodPost, base+"/submit", parent, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DIALOG_CLOSED", env.Code)

	status, env = call(t, app, http.MethodGet, "/api/v1/payments/outstanding", parent, nil)
	require.Equal(t, http.StatusOK, status)
	decode(t, env.Data, &outstanding)
	assert.Empty(t, outstanding)
}

func TestSecondDialogOnSettledPayment(t *testing.T) {
	app := newTestApp(t)
	parent := login(t, app, "PARENT")

	var first, second struct {
		ID string `json:"id"`
	}
	status, env := call(t, app, http.MethodPost, "/api/v1/payments/p2/dialogs", parent, nil)
	require.Equal(t, http.StatusCreated, status, env.Error)
	decode(t, env.Data, &first)
	status, env = call(t, app, http.MethodPost, "/api/v1/payments/p2/dialogs", parent, nil)
	require.Equal(t, http.StatusCreated, status, env.Error)
	decode(t, env.Data, &second)

	status, env = call(t, app, http.MethodPost, "/api/v1/payment-dialogs/"+first.ID+"/submit", parent, nil)
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = call(t, app, http.MethodPost, "/api/v1/payment-dialogs/"+second.ID+"/submit", parent, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "PAYMENT_ALREADY_PAID", env.Code)
	assert.Empty(t, env.Data)
}

func TestPaymentRoutesAreParentOnly(t *testing.T) {
	app := newTestApp(t)
	teacher := login(t, app, "TEACHER")

	status, env := call(t, app, http.MethodGet, "/api/v1/payments/outstanding", teacher, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Code)
}

func TestSettings(t *testing.T) {
	app := newTestApp(t)
	parent := login(t, app, "PARENT")
	admin := login(t, app, "ADMIN")

	status, env := call(t, app, http.MethodPut, "/api/v1/settings/profile", parent, fiber.Map{"name": "Encik Ali bin Abu", "email": "bukan-emel"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_INPUT", env.Code)

	status, env = call(t, app, http.MethodPut, "/api/v1/settings/profile", parent, fiber.Map{"name": "Encik Ali bin Abu", "email": "ali@contoh.my"})
	require.Equal(t, http.StatusOK, status, env.Error)
	var identity struct {
		Name string `json:"name"`
	}
	decode(t, env.Data, &identity)
	assert.Equal(t, "Encik Ali bin Abu", identity.Name)

	school := fiber.Map{
		"name":  "Maahad Tahfiz Al-Furqan Cawangan 2",
		"rates": fiber.Map{"per_session": "50", "per_page": "5", "package_price": "150"},
	}
	status, _ = call(t, app, http.MethodPut, "/api/v1/settings/school", parent, school)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = call(t, app, http.MethodPut, "/api/v1/settings/school", admin, school)
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = call(t, app, http.MethodGet, "/api/v1/settings/school", parent, nil)
	require.Equal(t, http.StatusOK, status)
	var cfg struct {
		Name string `json:"name"`
	}
	decode(t, env.Data, &cfg)
	assert.Equal(t, "Maahad Tahfiz Al-Furqan Cawangan 2", cfg.Name)
}

func TestLedgerResponsesAreNotCached(t *testing.T) {
	app := newTestApp(t)
	admin := login(t, app, "ADMIN")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/cashflow", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-store")
}
