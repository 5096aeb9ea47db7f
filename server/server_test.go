package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget-server/confs"
	"budget-server/entities"
	"budget-server/repositories"
	"budget-server/repositories/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, string, string) error { return nil }

func newTestServer(t *testing.T) (*gin.Engine, *repositories.Gateway) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := confs.Defaults()
	cfg.Storage = confs.StorageMemory
	cfg.JWTSecret = "test-secret"
	gw := memory.NewGateway()
	return NewServer(cfg, gw, nopNotifier{}).Router(), gw
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
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
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func register(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "password123", "name": "Test",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["accessToken"].(string)
}

func TestHealth(t *testing.T) {
	r, _ := newTestServer(t)
	w := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubscriptionStatus(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/api/subscription/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode(t, w)["error"])

	token := register(t, r, "sub@example.com")
	before := time.Now()
	w = do(t, r, http.MethodGet, "/api/subscription/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var sub entities.Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	assert.Equal(t, entities.SubscriptionTrial, sub.Status)
	require.NotNil(t, sub.TrialEndsAt)
	assert.WithinDuration(t, before.Add(entities.TrialPeriod), sub.EndDate, 5*time.Second)
	assert.True(t, sub.TrialEndsAt.Equal(sub.EndDate))

	w = do(t, r, http.MethodGet, "/api/subscription/status", token, nil)
	var again entities.Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Equal(t, sub.ID, again.ID)
}

func TestDeleteAccount(t *testing.T) {
	r, gw := newTestServer(t)
	token := register(t, r, "bye@example.com")

	w := do(t, r, http.MethodPost, "/api/user/delete", token, map[string]string{"password": "password123", "confirmation": "NO"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode(t, w)["error"])
	_, err := gw.Users.GetByEmail(context.Background(), "bye@example.com")
	require.NoError(t, err)

	w = do(t, r, http.MethodPost, "/api/user/delete", "", map[string]string{"password": "password123", "confirmation": "DELETE MY ACCOUNT"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/user/delete", token, map[string]string{"password": "password123", "confirmation": "DELETE MY ACCOUNT"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])
	_, err = gw.Users.GetByEmail(context.Background(), "bye@example.com")
	assert.Error(t, err)

	// the token outlives the account
	w = do(t, r, http.MethodPost, "/api/user/delete", token, map[string]string{"password": "password123", "confirmation": "DELETE MY ACCOUNT"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmEmail(t *testing.T) {
	r, gw := newTestServer(t)
	register(t, r, "verify@example.com")

	w := do(t, r, http.MethodPost, "/api/user/verify-email/confirm", "", map[string]string{"token": "0123456789", "email": "verify@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid verification token", decode(t, w)["error"])
	user, err := gw.Users.GetByEmail(context.Background(), "verify@example.com")
	require.NoError(t, err)
	assert.Nil(t, user.EmailVerified)

	token := "0123456789abcdef0123456789abcdef"
	w = do(t, r, http.MethodPost, "/api/user/verify-email/confirm", "", map[string]string{"token": token, "email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/api/user/verify-email/confirm", "", map[string]string{"token": token, "email": "verify%40example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/user/verify-email/confirm", "", map[string]string{"token": token, "email": "verify@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePhone(t *testing.T) {
	r, _ := newTestServer(t)
	register(t, r, "phone@example.com")

	w := do(t, r, http.MethodPost, "/api/auth/update-phone", "", map[string]string{"email": "phone@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/update-phone", "", map[string]string{"email": "phone@example.com", "phoneNumber": "+15551234567"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	w = do(t, r, http.MethodPost, "/api/auth/update-phone", "", map[string]string{"email": "ghost@example.com", "phoneNumber": "+15551234567"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No account found for this email", decode(t, w)["error"])

	w = do(t, r, http.MethodPost, "/api/auth/update-phone", "", []int{1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", decode(t, w)["error"])
}

func TestRefreshToken(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPost, "/api/auth/refresh-token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "x@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	register(t, r, "x@example.com")
	w = do(t, r, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "x@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	refresh := decode(t, w)["refreshToken"].(string)

	w = do(t, r, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["message"])
	assert.NotEmpty(t, w.Result().Cookies())

	w = do(t, r, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{"refreshToken": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEnvelopeRoutes(t *testing.T) {
	r, _ := newTestServer(t)
	alice := register(t, r, "alice@example.com")
	bob := register(t, r, "bob@example.com")

	w := do(t, r, http.MethodGet, "/api/envelopes", alice, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No household found", decode(t, w)["error"])

	for _, token := range []string{alice, bob} {
		w = do(t, r, http.MethodPost, "/api/households", token, map[string]string{"name": "Home"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/api/envelopes", alice, map[string]interface{}{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/envelopes", alice, map[string]interface{}{"name": "Savings", "targetAmount": "500.00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["data"].(map[string]interface{})["id"].(string)

	w = do(t, r, http.MethodDelete, "/api/envelopes/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodDelete, "/api/envelopes/nonexistent-id", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/envelopes", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = do(t, r, http.MethodPut, "/api/envelopes/order", alice, map[string]interface{}{
		"positions": []map[string]interface{}{{"id": id, "order": 3, "version": 7}},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodDelete, "/api/envelopes/"+id, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/api/envelopes", alice, nil)
	assert.Equal(t, float64(0), decode(t, w)["count"])
}

func TestTransactionRoutes(t *testing.T) {
	r, _ := newTestServer(t)
	token := register(t, r, "tx@example.com")
	w := do(t, r, http.MethodPost, "/api/households", token, map[string]string{"name": "Home"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/api/transactions", token, map[string]interface{}{
		"kind": "EXPENSE", "amount": "42.50", "category": "Food", "occurredOn": "2026-05-04",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/transactions/summary?month=2026-05", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "42.5", summary["expenses"])

	w = do(t, r, http.MethodGet, "/api/transactions?month=bad", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
