package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/designsync-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/designsync-cli/internal/core/domain"
	"github.com/custodia-labs/designsync-cli/internal/core/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() (*Server, *gin.Engine) {
	mutator := services.NewMutationService(memory.NewRecordStore(), memory.NewEventStore())
	server := NewServer(Config{
		Email:    "dev@example.com",
		Password: "hunter2",
		Secret:   []byte("test-secret"),
	}, mutator)
	return server, server.Router()
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/v1/auth/login", "",
		map[string]string{"email": "dev@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestServer_LoginRejectsBadCredentials(t *testing.T) {
	_, router := newTestServer()

	w := doJSON(router, http.MethodPost, "/v1/auth/login", "",
		map[string]string{"email": "dev@example.com", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_LoginRejectsMissingFields(t *testing.T) {
	_, router := newTestServer()

	w := doJSON(router, http.MethodPost, "/v1/auth/login", "",
		map[string]string{"email": "dev@example.com"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_ProtectedRoutesRequireToken(t *testing.T) {
	_, router := newTestServer()

	w := doJSON(router, http.MethodGet, "/v1/workspaces", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_RejectsGarbageToken(t *testing.T) {
	_, router := newTestServer()

	w := doJSON(router, http.MethodGet, "/v1/workspaces", "not-a-jwt", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_ExpiredTokenSignalsCode(t *testing.T) {
	server, router := newTestServer()
	token := loginToken(t, router)

	// Move the verifier's clock past the token lifetime.
	server.issuer.now = func() time.Time { return time.Now().Add(DefaultTokenTTL + time.Hour) }

	w := doJSON(router, http.MethodGet, "/v1/workspaces", token, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "token_expired", resp.Code)
}

func TestServer_WorkspaceLifecycle(t *testing.T) {
	_, router := newTestServer()
	token := loginToken(t, router)

	// Create.
	w := doJSON(router, http.MethodPost, "/v1/workspaces", token, map[string]any{
		"name": "demo",
		"data": map[string]any{"name": "v0"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var record domain.RemoteRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	require.NotEmpty(t, record.ID)
	assert.Equal(t, int64(1), record.Version)

	// Update with the right version.
	w = doJSON(router, http.MethodPut, "/v1/workspaces/"+record.ID, token, map[string]any{
		"data":            map[string]any{"name": "v1"},
		"expectedVersion": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.UpdateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, int64(2), result.Version)
	assert.False(t, result.NoChanges)

	// Stale version conflicts.
	w = doJSON(router, http.MethodPut, "/v1/workspaces/"+record.ID, token, map[string]any{
		"data":            map[string]any{"name": "v2"},
		"expectedVersion": 1,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Undo returns the previous document.
	w = doJSON(router, http.MethodPost, "/v1/workspaces/"+record.ID+"/undo", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var undo domain.UndoRedoResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &undo))
	assert.True(t, undo.Success)
	assert.True(t, domain.DocumentsEqual(map[string]any{"name": "v0"}, undo.Data))

	// Redo steps forward again.
	w = doJSON(router, http.MethodPost, "/v1/workspaces/"+record.ID+"/redo", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var redo domain.UndoRedoResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &redo))
	assert.True(t, redo.Success)
	assert.True(t, domain.DocumentsEqual(map[string]any{"name": "v1"}, redo.Data))

	// History holds the recorded event.
	w = doJSON(router, http.MethodGet, "/v1/workspaces/"+record.ID+"/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var events []domain.PatchEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, int64(1), events[0].Version)

	// List includes the workspace.
	w = doJSON(router, http.MethodGet, "/v1/workspaces", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var records []domain.RemoteRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
}

func TestServer_GetMissingWorkspace(t *testing.T) {
	_, router := newTestServer()
	token := loginToken(t, router)

	w := doJSON(router, http.MethodGet, "/v1/workspaces/nope", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_CreateRequiresName(t *testing.T) {
	_, router := newTestServer()
	token := loginToken(t, router)

	w := doJSON(router, http.MethodPost, "/v1/workspaces", token, map[string]any{
		"data": map[string]any{},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
