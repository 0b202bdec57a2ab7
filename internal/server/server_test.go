package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"dooby/internal/auth"
	"dooby/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tokens := auth.NewTokens("test-secret", time.Hour)
	return New(st, tokens, zap.NewNop())
}

// do issues a JSON request, attaching the session cookie when given.
func do(t *testing.T, s *Server, method, path, cookie string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), "body: %s", w.Body.String())
	return m
}

// signupAndLogin registers a user and returns their session token.
func signupAndLogin(t *testing.T, s *Server, name, email, password string) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/signup", "", h{"name": name, "email": email, "password": password})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, s, http.MethodPost, "/login", "", h{"name": name, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c.Value
		}
	}
	t.Fatal("No session cookie set by login")
	return ""
}

// defaultList fetches the caller's default list id.
func defaultList(t *testing.T, s *Server, session string) string {
	t.Helper()
	w := do(t, s, http.MethodGet, "/lists", session, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id, ok := decode(t, w)["default_list_id"].(float64)
	require.True(t, ok, "no default_list_id in %s", w.Body.String())
	return jsonID(id)
}

// h is shorthand for JSON request bodies.
type h = map[string]any

// jsonID renders a numeric JSON field as a path segment.
func jsonID(f float64) string {
	return strconv.FormatInt(int64(f), 10)
}

func TestSignupLoginTaskLifecycle(t *testing.T) {
	s := newTestServer(t)
	session := signupAndLogin(t, s, "alice", "alice@example.com", "hunter2")
	listID := defaultList(t, s, session)

	// Add a task.
	w := do(t, s, http.MethodPost, "/lists/"+listID+"/tasks", session, h{
		"task_name": "Buy milk",
		"priority":  "high",
		"deadline":  "2025-01-01T00:00:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	taskID := jsonID(decode(t, w)["task_id"].(float64))

	// Listed under priority sort.
	w = do(t, s, http.MethodGet, "/lists/"+listID+"/tasks?sort=priority&order=asc", session, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decode(t, w)["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].(map[string]any)["task_name"])

	// Soft delete hides it.
	w = do(t, s, http.MethodDelete, "/tasks/"+taskID, session, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, "/lists/"+listID+"/tasks", session, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["tasks"])

	// Undo brings it back unchanged.
	w = do(t, s, http.MethodPost, "/tasks/"+taskID+"/undo", session, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, "/lists/"+listID+"/tasks", session, nil)
	tasks = decode(t, w)["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].(map[string]any)["task_name"])

	// Toggle is 204 and idempotent.
	for i := 0; i < 2; i++ {
		w = do(t, s, http.MethodPost, "/tasks/"+taskID+"/toggle", session, h{"is_checked": true})
		require.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/lists", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, s, http.MethodGet, "/lists", "forged-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListAccessControlOverHTTP(t *testing.T) {
	s := newTestServer(t)
	ownerSession := signupAndLogin(t, s, "alice", "alice@example.com", "pw")
	listID := defaultList(t, s, ownerSession)

	collabSession := signupAndLogin(t, s, "bob", "bob@example.com", "pw")
	strangerSession := signupAndLogin(t, s, "carol", "carol@example.com", "pw")

	// Before the grant, bob is denied.
	w := do(t, s, http.MethodGet, "/lists/"+listID+"/tasks", collabSession, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, s, http.MethodPost, "/lists/"+listID+"/collaborators", ownerSession, h{"collaborator_email": "bob@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// After the grant, bob reads; carol still cannot.
	w = do(t, s, http.MethodGet, "/lists/"+listID+"/tasks", collabSession, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, s, http.MethodGet, "/lists/"+listID+"/tasks", strangerSession, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCollaboratorEdgeCases(t *testing.T) {
	s := newTestServer(t)
	ownerSession := signupAndLogin(t, s, "alice", "alice@example.com", "pw")
	listID := defaultList(t, s, ownerSession)
	collabSession := signupAndLogin(t, s, "bob", "bob@example.com", "pw")

	// Self-add is rejected.
	w := do(t, s, http.MethodPost, "/lists/"+listID+"/collaborators", ownerSession, h{"collaborator_email": "alice@example.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Unknown email is 404.
	w = do(t, s, http.MethodPost, "/lists/"+listID+"/collaborators", ownerSession, h{"collaborator_email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// First grant creates, second is informational.
	w = do(t, s, http.MethodPost, "/lists/"+listID+"/collaborators", ownerSession, h{"collaborator_email": "bob@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(t, s, http.MethodPost, "/lists/"+listID+"/collaborators", ownerSession, h{"collaborator_email": "bob@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already a collaborator")

	// Exactly one membership.
	w = do(t, s, http.MethodGet, "/lists/"+listID+"/collaborators", ownerSession, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["collaborators"], 1)

	// A non-owner cannot revoke.
	w = do(t, s, http.MethodDelete, "/lists/"+listID+"/collaborators/2", collabSession, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskValidationOverHTTP(t *testing.T) {
	s := newTestServer(t)
	session := signupAndLogin(t, s, "alice", "alice@example.com", "pw")
	listID := defaultList(t, s, session)

	// Binding rejects an unknown priority before the store runs.
	w := do(t, s, http.MethodPost, "/lists/"+listID+"/tasks", session, h{
		"task_name": "x", "priority": "urgent", "deadline": "2025-01-01T00:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The store rejects an unparsable deadline.
	w = do(t, s, http.MethodPost, "/lists/"+listID+"/tasks", session, h{
		"task_name": "x", "priority": "high", "deadline": "tomorrow",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(t)
	signupAndLogin(t, s, "alice", "alice@example.com", "old-password")

	// Unknown email yields no token.
	w := do(t, s, http.MethodPost, "/forgot-password", "", h{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodPost, "/forgot-password", "", h{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["reset_token"].(string)
	require.NotEmpty(t, token)

	// Garbage tokens are rejected.
	w = do(t, s, http.MethodPost, "/reset-password", "", h{"token": "garbage", "new_password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, "/reset-password", "", h{"token": token, "new_password": "new-password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Old password no longer works, new one does.
	w = do(t, s, http.MethodPost, "/login", "", h{"name": "alice", "password": "old-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(t, s, http.MethodPost, "/login", "", h{"name": "alice", "password": "new-password"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileUpdate(t *testing.T) {
	s := newTestServer(t)
	session := signupAndLogin(t, s, "alice", "alice@example.com", "pw")

	w := do(t, s, http.MethodGet, "/me", session, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode(t, w)["name"])

	w = do(t, s, http.MethodPut, "/me", session, h{"name": "alicia"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, s, http.MethodGet, "/me", session, nil)
	assert.Equal(t, "alicia", decode(t, w)["name"])

	// Nothing to update is a validation error.
	w = do(t, s, http.MethodPut, "/me", session, h{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDuplicateSignupRejected(t *testing.T) {
	s := newTestServer(t)
	signupAndLogin(t, s, "alice", "alice@example.com", "pw")

	w := do(t, s, http.MethodPost, "/signup", "", h{"name": "alice", "email": "fresh@example.com", "password": "pw"})
	assert.Equal(t, http.StatusConflict, w.Code)
}
