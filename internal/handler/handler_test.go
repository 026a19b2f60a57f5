package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery_backend/internal/auth"
	"lottery_backend/internal/models"
	"lottery_backend/internal/oauth"
	"lottery_backend/internal/service"
	"lottery_backend/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *storage.MemoryStorage) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	st := storage.NewMemoryStorage()
	issuer := auth.NewTokenIssuer("test-access", "test-refresh", 15*time.Minute, 7*24*time.Hour)

	h := NewHandler(
		service.NewAuthService(st, issuer),
		service.NewUsersService(st),
		service.NewGroupsService(st),
		service.NewTicketsService(st),
		service.NewTransactionsService(st),
		oauth.NewManager("http://localhost:8080", "", "", "", ""),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	return h.InitRoutes(), st
}

func doJSON(t *testing.T, router *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func registerAndLogin(t *testing.T, router *gin.Engine) models.TokenPair {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"name": "Alice", "email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"email": "a@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var pair models.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	return pair
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"missing email", gin.H{"name": "A", "password": "secret1"}, http.StatusBadRequest},
		{"bad email", gin.H{"name": "A", "email": "not-an-email", "password": "secret1"}, http.StatusBadRequest},
		{"short password", gin.H{"name": "A", "email": "a@x.com", "password": "abc"}, http.StatusBadRequest},
		{"valid", gin.H{"name": "A", "email": "a@x.com", "password": "secret1"}, http.StatusCreated},
		{"duplicate email", gin.H{"name": "B", "email": "a@x.com", "password": "secret2"}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/auth/register", "", tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAndLogin(t, router)

	w := doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"email": "a@x.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"email": "nobody@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshEndpointRotates(t *testing.T) {
	router, _ := newTestRouter(t)
	pair := registerAndLogin(t, router)

	w := doJSON(t, router, http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	var rotated models.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rotated))
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Replaying the consumed token is rejected.
	w = doJSON(t, router, http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": pair.RefreshToken})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": rotated.RefreshToken})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutEndpointAlwaysSucceeds(t *testing.T) {
	router, _ := newTestRouter(t)
	pair := registerAndLogin(t, router)

	for _, bearer := range []string{"", "garbage", pair.AccessToken} {
		w := doJSON(t, router, http.MethodPost, "/auth/logout", bearer, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// The real logout revoked the session.
	w := doJSON(t, router, http.MethodPost, "/auth/refresh", "", gin.H{"refresh_token": pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	pair := registerAndLogin(t, router)

	w := doJSON(t, router, http.MethodGet, "/auth/profile", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "a@x.com", user.Email)

	w = doJSON(t, router, http.MethodGet, "/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/auth/profile", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminUsersRequiresRole(t *testing.T) {
	router, _ := newTestRouter(t)
	pair := registerAndLogin(t, router)

	w := doJSON(t, router, http.MethodGet, "/admin/users", pair.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLotteryEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	pair := registerAndLogin(t, router)

	w := doJSON(t, router, http.MethodPost, "/groups", pair.AccessToken, gin.H{"name": "office pool"})
	require.Equal(t, http.StatusCreated, w.Code)

	var group models.Group
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &group))

	w = doJSON(t, router, http.MethodPost, "/groups/members", pair.AccessToken, gin.H{
		"group_id": group.ID, "user_id": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/tickets", pair.AccessToken, gin.H{
		"ticket_number": "12-34-56", "cost_cents": 200, "lottery_id": 1, "group_id": group.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var ticket models.Ticket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))

	w = doJSON(t, router, http.MethodPost, "/transactions", pair.AccessToken, gin.H{
		"amount_cents": 1000, "transaction_type": "DEPOSIT", "user_id": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/transactions", pair.AccessToken, gin.H{
		"amount_cents": 1000, "transaction_type": "BOGUS", "user_id": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// All of it is behind auth.
	w = doJSON(t, router, http.MethodPost, "/tickets", "", gin.H{
		"ticket_number": "1", "lottery_id": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
