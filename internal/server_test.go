package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itassets-dashboard/internal/auth"
	"itassets-dashboard/internal/config"
	"itassets-dashboard/internal/models"
)

const adminPassword = "admin-password-123"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log, _ := test.NewNullLogger()
	cfg := &config.Config{
		Environment:   "test",
		StoreDriver:   config.DriverMemory,
		JWTSecret:     config.DefaultJWTSecret,
		JWTIssuer:     "itassets-dashboard",
		JWTAudience:   "itassets-dashboard",
		JWTExpiry:     time.Hour,
		EnableMetrics: true,
	}
	s, err := NewServer(context.Background(), cfg, log)
	require.NoError(t, err)

	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	require.NoError(t, s.Profiles.Create(context.Background(), &models.Profile{
		Email:        "admin@empresa.com",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}))
	return s
}

func do(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
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
	s.Router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, s *Server, email, password string) models.LoginResponse {
	t.Helper()
	w := do(t, s, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func registerUser(t *testing.T, s *Server) string {
	t.Helper()
	w := do(t, s, http.MethodPost, "/auth/register", "", models.RegisterRequest{Email: "user@empresa.com", Password: "user-password-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleUser, resp.Profile.Role)
	return resp.Token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body auth.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Code
}

func validSwitch() map[string]string {
	return map[string]string{
		"marca":        "Cisco SG300-28",
		"numeroPortas": "28",
		"macAddress":   "00:1B:44:11:3A:B7",
		"localizacao":  "Sala TI",
		"ipAcesso":     "192.168.1.10",
	}
}

type switchEnvelope struct {
	Data models.Switch `json:"data"`
}

type switchList struct {
	Data []models.Switch `json:"data"`
	Meta struct {
		Total int    `json:"total"`
		Q     string `json:"q"`
	} `json:"meta"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = do(t, s, http.MethodGet, "/dbping", "", nil)
	assert.Equal(t, "db: memory", w.Body.String())
}

func TestLoginAndProfile(t *testing.T) {
	s := newTestServer(t)
	resp := login(t, s, "Admin@Empresa.com", adminPassword)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleAdmin, resp.Profile.Role)

	w := do(t, s, http.MethodGet, "/api/profile", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@empresa.com")
	assert.NotContains(t, w.Body.String(), "password")

	name := "Maria Admin"
	w = do(t, s, http.MethodPut, "/api/profile", resp.Token, models.UpdateProfileRequest{FullName: &name})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), name)
}

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: "admin@empresa.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))

	w = do(t, s, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, w))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s)
	w := do(t, s, http.MethodPost, "/auth/register", "", models.RegisterRequest{Email: "user@empresa.com", Password: "another-pass-1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", errorCode(t, w))
}

func TestAPIRequiresToken(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/api/switches", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MISSING_AUTH_HEADER", errorCode(t, w))
}

func TestAPICrud(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s, "admin@empresa.com", adminPassword)

	w := do(t, s, http.MethodPost, "/api/switches", admin.Token, validSwitch())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created switchEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.StatusActive, created.Data.Status)
	require.NotNil(t, created.Data.CreatedBy)
	assert.Equal(t, admin.Profile.UserID, *created.Data.CreatedBy)
	assert.Nil(t, created.Data.Patrimonio)
	id := created.Data.ID.String()

	w = do(t, s, http.MethodGet, "/api/switches/"+id, admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodPut, "/api/switches/"+id, admin.Token, map[string]string{"localizacao": "Andar 2", "patrimonio": "SW0001"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated switchEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, created.Data.ID, updated.Data.ID)
	assert.Equal(t, "Andar 2", updated.Data.Localizacao)
	require.NotNil(t, updated.Data.Patrimonio)
	assert.Equal(t, "SW0001", *updated.Data.Patrimonio)

	w = do(t, s, http.MethodDelete, "/api/switches/"+id, admin.Token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, s, http.MethodGet, "/api/switches/"+id, admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestAPIListSearchAndSort(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s, "admin@empresa.com", adminPassword)

	for _, brand := range []string{"Cisco SG300", "TP-Link T1600", "Aruba 2530"} {
		sw := validSwitch()
		sw["marca"] = brand
		require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/switches", admin.Token, sw).Code)
	}

	w := do(t, s, http.MethodGet, "/api/switches?sort=marca", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list switchList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 3)
	assert.Equal(t, "Aruba 2530", list.Data[0].Marca)
	assert.Equal(t, "TP-Link T1600", list.Data[2].Marca)

	w = do(t, s, http.MethodGet, "/api/switches?q=tp-link&sort=-unknown", admin.Token, nil)
	list = switchList{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Meta.Total)
	assert.Equal(t, "tp-link", list.Meta.Q)

	// whitespace in q is part of the needle, as on the HTML page
	w = do(t, s, http.MethodGet, "/api/switches?q=%202", admin.Token, nil)
	list = switchList{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Meta.Total)
	assert.Equal(t, " 2", list.Meta.Q)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Aruba 2530", list.Data[0].Marca)
}

func TestAPIWritesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s)

	w := do(t, s, http.MethodGet, "/api/celulares", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodPost, "/api/switches", token, validSwitch())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INSUFFICIENT_PERMISSIONS", errorCode(t, w))

	w = do(t, s, http.MethodDelete, "/api/switches/"+"00000000-0000-0000-0000-000000000000", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAPIValidation(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s, "admin@empresa.com", adminPassword)

	missing := validSwitch()
	delete(missing, "ipAcesso")
	w := do(t, s, http.MethodPost, "/api/switches", admin.Token, missing)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "MISSING_FIELDS", errorCode(t, w))

	unknown := validSwitch()
	unknown["cor"] = "azul"
	w = do(t, s, http.MethodPost, "/api/switches", admin.Token, unknown)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FIELD", errorCode(t, w))

	badChoice := validSwitch()
	badChoice["numeroPortas"] = "7"
	w = do(t, s, http.MethodPost, "/api/switches", admin.Token, badChoice)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "INVALID_CHOICE", errorCode(t, w))

	w = do(t, s, http.MethodPut, "/api/switches/not-a-uuid", admin.Token, map[string]string{"marca": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errorCode(t, w))

	w = do(t, s, http.MethodPost, "/api/switches", admin.Token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EMPTY_BODY", errorCode(t, w))

	collector := map[string]string{
		"marca":       "Zebra MC3300",
		"serie":       "SN-1",
		"responsavel": "Ana",
		"localizacao": "Estoque",
	}
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/coletores", admin.Token, collector).Code)
	w = do(t, s, http.MethodPost, "/api/coletores", admin.Token, collector)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, w))
}

func TestAPIUpdateRejectsBlankRequired(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s, "admin@empresa.com", adminPassword)
	w := do(t, s, http.MethodPost, "/api/switches", admin.Token, validSwitch())
	var created switchEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(t, s, http.MethodPut, "/api/switches/"+created.Data.ID.String(), admin.Token, map[string]string{"marca": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Marca/Modelo")
}

func TestCounts(t *testing.T) {
	s := newTestServer(t)
	admin := login(t, s, "admin@empresa.com", adminPassword)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/switches", admin.Token, validSwitch()).Code)

	w := do(t, s, http.MethodGet, "/api/counts", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			BySlug map[string]int `json:"by_slug"`
			Total  int            `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.BySlug["switches"])
	assert.Equal(t, 0, resp.Data.BySlug["celulares"])
}

func TestPagesNeedSession(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/computadores", "", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fcomputadores", w.Header().Get("Location"))

	w = do(t, s, http.MethodGet, "/login", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	token := login(t, s, "admin@empresa.com", adminPassword).Token
	req := httptest.NewRequest(http.MethodGet, "/computadores", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Gestão de Computadores")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/health", "", nil)

	w := do(t, s, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `path="/health"`)
}
