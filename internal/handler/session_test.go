package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotdeck/server/internal/auth"
	"github.com/slotdeck/server/internal/event"
	"github.com/slotdeck/server/internal/localstore"
	"github.com/slotdeck/server/internal/session"
)

func newSessionService(t *testing.T) session.Service {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "local.json"))
	require.NoError(t, err)
	return session.NewService(auth.NewFakeGateway(), session.NewGuestManager(store), store, event.NewMemoryBus())
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleGetSession(t *testing.T) {
	svc := newSessionService(t)

	req := httptest.NewRequest("GET", "/session", nil)
	w := httptest.NewRecorder()
	HandleGetSession(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, session.StateUnauthenticated, resp.State)
	assert.Nil(t, resp.Identity)
}

func TestHandleCreateGuestSession(t *testing.T) {
	svc := newSessionService(t)

	w := postJSON(t, HandleCreateGuestSession(svc), nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, session.StateGuestActive, resp.State)
	require.NotNil(t, resp.Identity)
	assert.True(t, resp.Identity.IsGuest)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, 1, resp.Profile.Level)
}

func TestHandleRegisterAndLogin(t *testing.T) {
	svc := newSessionService(t)

	w := postJSON(t, HandleRegister(svc), RegisterRequest{
		Email:       "ada@example.com",
		Password:    "hunter22",
		DisplayName: "Ada",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, session.StateRegisteredActive, created.State)
	require.NotNil(t, created.Identity)
	assert.False(t, created.Identity.IsGuest)

	require.NoError(t, svc.Logout(httptest.NewRequest("POST", "/", nil).Context()))

	w = postJSON(t, HandleLogin(svc), LoginRequest{
		Email:    "ada@example.com",
		Password: "hunter22",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHandleLogin_ValidationFailure(t *testing.T) {
	svc := newSessionService(t)

	w := postJSON(t, HandleLogin(svc), LoginRequest{
		Email:    "not-an-email",
		Password: "hunter22",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "email")
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	svc := newSessionService(t)

	w := postJSON(t, HandleRegister(svc), RegisterRequest{
		Email:       "ada@example.com",
		Password:    "hunter22",
		DisplayName: "Ada",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, svc.Logout(httptest.NewRequest("POST", "/", nil).Context()))

	w = postJSON(t, HandleLogin(svc), LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgWrongPasswordError)
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	svc := newSessionService(t)

	w := postJSON(t, HandleRegister(svc), RegisterRequest{
		Email:       "ada@example.com",
		Password:    "hunter22",
		DisplayName: "Ada",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, svc.Logout(httptest.NewRequest("POST", "/", nil).Context()))

	w = postJSON(t, HandleRegister(svc), RegisterRequest{
		Email:       "ada@example.com",
		Password:    "hunter22",
		DisplayName: "Ada Again",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgEmailInUseError)
}

func TestHandleConvertGuest(t *testing.T) {
	svc := newSessionService(t)

	w := postJSON(t, HandleCreateGuestSession(svc), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	// Earn some progress as a guest so the conversion has something to keep
	xpReq := postJSON(t, HandleAddXP(svc), AddXPRequest{Amount: 450})
	require.Equal(t, http.StatusOK, xpReq.Code)

	w = postJSON(t, HandleConvertGuest(svc), ConvertGuestRequest{
		Email:       "ada@example.com",
		Password:    "hunter22",
		DisplayName: "Ada",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, session.StateRegisteredActive, resp.State)
	require.NotNil(t, resp.Profile)
	assert.Equal(t, 450, resp.Profile.XP)
	assert.Equal(t, 3, resp.Profile.Level)
}

func TestHandleConvertGuest_NoGuestSession(t *testing.T) {
	svc := newSessionService(t)

	w := postJSON(t, HandleConvertGuest(svc), ConvertGuestRequest{
		Email:       "ada@example.com",
		Password:    "hunter22",
		DisplayName: "Ada",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgNotGuestError)
}

func TestHandleAddXP_InvalidAmount(t *testing.T) {
	svc := newSessionService(t)

	w := postJSON(t, HandleCreateGuestSession(svc), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, HandleAddXP(svc), AddXPRequest{Amount: -10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleLogout(t *testing.T) {
	svc := newSessionService(t)

	w := postJSON(t, HandleCreateGuestSession(svc), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, HandleLogout(svc), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), MsgLoggedOut)
	assert.Equal(t, session.StateUnauthenticated, svc.State())
}
