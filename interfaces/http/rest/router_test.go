package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jeffa5/matcher/application/services"
	"github.com/jeffa5/matcher/infrastructure/config"
	"github.com/jeffa5/matcher/infrastructure/persistence/bolt"
	"github.com/jeffa5/matcher/pkg/auth"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Environment:  "development",
		DatabasePath: filepath.Join(t.TempDir(), "matcher.db"),
		LogLevel:     "info",
		JWTSecret:    "test-secret",
		JWTIssuer:    "matcher-test",
	}

	store, err := bolt.Open(cfg.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := zap.NewNop()
	tokens := auth.NewTokenManager(cfg.SessionSecret(), cfg.JWTIssuer, services.SessionTTL)
	authService := services.NewAuthService(
		bolt.NewParticipantRepository(store),
		bolt.NewCredentialRepository(store),
		bolt.NewSessionRepository(store),
		tokens,
		logger,
	)
	participantService := services.NewParticipantService(
		bolt.NewParticipantRepository(store),
		bolt.NewMatchHistoryRepository(store),
		logger,
	)
	roundService := services.NewRoundService(bolt.NewMatchStore(store), logger)

	server := httptest.NewServer(
		NewRouter(cfg, authService, participantService, roundService, logger).Setup())
	t.Cleanup(server.Close)
	return server
}

// doJSON issues a request and decodes the standard response envelope.
func doJSON(t *testing.T, method, url, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func signUp(t *testing.T, server *httptest.Server, name, email string) (uint64, string) {
	t.Helper()

	status, envelope := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/signup", "",
		map[string]string{"name": name, "email": email, "password": "password123"})
	require.Equal(t, http.StatusCreated, status)

	data := envelope["data"].(map[string]interface{})
	token := data["token"].(string)
	id := uint64(data["participant"].(map[string]interface{})["id"].(float64))
	return id, token
}

func TestFullMatchingRoundOverHTTP(t *testing.T) {
	server := newTestServer(t)

	aliceID, aliceToken := signUp(t, server, "Alice", "alice@example.com")
	bobID, _ := signUp(t, server, "Bob", "bob@example.com")

	// Both join the waiting pool.
	for _, id := range []uint64{aliceID, bobID} {
		status, envelope := doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/api/v1/participants/%d/waiting", server.URL, id), aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, envelope["data"].(map[string]interface{})["waiting"])
	}

	// Trigger a round.
	status, envelope := doJSON(t, http.MethodPost, server.URL+"/api/v1/matches/rounds", aliceToken, nil)
	require.Equal(t, http.StatusCreated, status)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["generation"])
	require.Len(t, data["pairs"], 1)

	// The pair shows up in the latest matches and in Alice's history.
	status, envelope = doJSON(t, http.MethodGet, server.URL+"/api/v1/matches/latest", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	latest := envelope["data"].(map[string]interface{})
	assert.Equal(t, float64(1), latest["generation"])
	assert.Len(t, latest["matches"], 1)

	status, envelope = doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/v1/participants/%d/matches", server.URL, aliceID), aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, envelope["data"], 1)

	// The round consumed the waiting pool: running again is a no-op.
	status, envelope = doJSON(t, http.MethodPost, server.URL+"/api/v1/matches/rounds", aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), envelope["data"].(map[string]interface{})["generation"])
}

func TestOddPoolLeavesSingletonOverHTTP(t *testing.T) {
	server := newTestServer(t)

	ids := make([]uint64, 0, 3)
	var token string
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		id, tok := signUp(t, server, fmt.Sprintf("Person %d", i), email)
		ids = append(ids, id)
		token = tok
	}
	for _, id := range ids {
		status, _ := doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/api/v1/participants/%d/waiting", server.URL, id), token, nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, envelope := doJSON(t, http.MethodPost, server.URL+"/api/v1/matches/rounds", token, nil)
	require.Equal(t, http.StatusCreated, status)
	data := envelope["data"].(map[string]interface{})
	require.Len(t, data["pairs"], 1)
	assert.NotNil(t, data["singleton"])
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	server := newTestServer(t)

	status, _ := doJSON(t, http.MethodGet, server.URL+"/api/v1/participants", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = doJSON(t, http.MethodPost, server.URL+"/api/v1/matches/rounds", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSignOutRevokesToken(t *testing.T) {
	server := newTestServer(t)

	_, token := signUp(t, server, "Alice", "alice@example.com")

	status, _ := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/signout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, http.MethodGet, server.URL+"/api/v1/participants", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestHealthEndpoints(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
