package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adhi/internal/accounts"
	"adhi/internal/gate"
	"adhi/internal/metrics"
	"adhi/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, mgr session.Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(newTestService(accounts.NewMemoryRepository()), metrics.New())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		p := gate.NewProvider(mgr, "", nil)
		c.Request = c.Request.WithContext(gate.NewContext(c.Request.Context(), p))
		c.Next()
	})
	r.POST("/auth/login", h.Login)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/logout", h.Logout)
	return r
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_RegisterLoginLogout(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryStore())
	r := setupRouter(t, mgr)

	w := postJSON(r, "/auth/register", validRegistration())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, HomeDestination, resp.Redirect)
	assert.Equal(t, "lawyer", resp.Session.Role)

	stored, err := mgr.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "t@example.com", stored.Email)

	w = postJSON(r, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var logout map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logout))
	assert.Equal(t, "/auth/login", logout["redirect"])

	_, err = mgr.Load(t.Context())
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	w = postJSON(r, "/auth/login", LoginRequest{Email: "t@example.com", Password: "s3cret!"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, err = mgr.Load(t.Context())
	assert.NoError(t, err)
}

func TestHandler_LoginErrors(t *testing.T) {
	r := setupRouter(t, session.NewManager(session.NewMemoryStore()))

	w := postJSON(r, "/auth/login", LoginRequest{Email: "t@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter email and password")

	w = postJSON(r, "/auth/login", LoginRequest{Email: "t@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_RegisterErrors(t *testing.T) {
	r := setupRouter(t, session.NewManager(session.NewMemoryStore()))

	req := validRegistration()
	req.Role = ""
	w := postJSON(r, "/auth/register", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please select an account type before continuing.")

	req = validRegistration()
	req.ConfirmPassword = "different"
	w = postJSON(r, "/auth/register", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords do not match")

	req = validRegistration()
	req.Password = strings.Repeat("x", 80)
	req.ConfirmPassword = req.Password
	w = postJSON(r, "/auth/register", req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Password must be at most 72 characters")

	require.Equal(t, http.StatusCreated, postJSON(r, "/auth/register", validRegistration()).Code)
	w = postJSON(r, "/auth/register", validRegistration())
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_MissingScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestService(accounts.NewMemoryRepository()), nil)
	r := gin.New()
	r.POST("/auth/logout", h.Logout)

	w := postJSON(r, "/auth/logout", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
