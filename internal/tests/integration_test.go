//go:build integration

package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"itassets-dashboard/internal"
	"itassets-dashboard/internal/auth"
	"itassets-dashboard/internal/config"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/testutil"
)

const adminPassword = "integration-admin-1"

func newServer(t *testing.T) *internal.Server {
	t.Helper()
	testutil.RequireIntegration(t)

	log, _ := test.NewNullLogger()
	cfg := &config.Config{
		Environment: "test",
		StoreDriver: config.DriverPostgres,
		DatabaseDSN: testutil.DSN(),
		RLSEnabled:  os.Getenv("RLS_ENABLED") == "true",
		JWTSecret:   "supersecretkeyforintegrationtestingonly",
		JWTIssuer:   "itassets-dashboard",
		JWTAudience: "itassets-dashboard",
		JWTExpiry:   time.Hour,
	}
	srv, err := internal.NewServer(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close(context.Background()) })

	testutil.ResetTables(t, srv.Pool)

	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	require.NoError(t, srv.Profiles.Create(context.Background(), &models.Profile{
		Email: "admin@empresa.com", PasswordHash: hash, Role: models.RoleAdmin,
	}))
	return srv
}

func call(t *testing.T, srv *internal.Server, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	return w
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func adminToken(t *testing.T, srv *internal.Server) models.LoginResponse {
	t.Helper()
	w := call(t, srv, jsonRequest(t, http.MethodPost, "/auth/login", models.LoginRequest{
		Email: "admin@empresa.com", Password: adminPassword,
	}), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestPhoneLifecycle(t *testing.T) {
	srv := newServer(t)
	admin := adminToken(t, srv)

	phone := map[string]string{
		"marca":       "iPhone 13 Pro",
		"numero":      "(11) 99999-9999",
		"imei":        "123456789012345",
		"responsavel": "João Silva",
		"setor":       "TI",
		"operadora":   "",
	}
	w := call(t, srv, jsonRequest(t, http.MethodPost, "/api/celulares", phone), admin.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data models.Phone `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.StatusActive, created.Data.Status)
	assert.Nil(t, created.Data.Operadora)
	require.NotNil(t, created.Data.CreatedBy)
	assert.Equal(t, admin.Profile.UserID, *created.Data.CreatedBy)

	w = call(t, srv, jsonRequest(t, http.MethodPost, "/api/celulares", phone), admin.Token)
	assert.Equal(t, http.StatusConflict, w.Code)

	id := created.Data.ID.String()
	w = call(t, srv, jsonRequest(t, http.MethodPut, "/api/celulares/"+id, map[string]string{"status": "Manutenção"}), admin.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Manutenção")

	w = call(t, srv, jsonRequest(t, http.MethodGet, "/api/counts", nil), admin.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = call(t, srv, jsonRequest(t, http.MethodDelete, "/api/celulares/"+id, nil), admin.Token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = call(t, srv, jsonRequest(t, http.MethodGet, "/api/celulares/"+id, nil), admin.Token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserCannotWrite(t *testing.T) {
	srv := newServer(t)

	w := call(t, srv, jsonRequest(t, http.MethodPost, "/auth/register", models.RegisterRequest{
		Email: "user@empresa.com", Password: "user-password-1",
	}), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))

	w = call(t, srv, jsonRequest(t, http.MethodGet, "/api/switches", nil), user.Token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, srv, jsonRequest(t, http.MethodPost, "/api/switches", map[string]string{"marca": "x"}), user.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExcelImport(t *testing.T) {
	srv := newServer(t)
	admin := adminToken(t, srv)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Access Points")
	require.NoError(t, err)
	for _, values := range [][]string{
		{"Marca/Modelo", "MAC", "Localização", "SSID", "IP"},
		{"Ubiquiti UniFi AP-AC-PRO", "AA:BB:CC:00:11:22", "Recepção", "EmpresaWiFi", "192.168.1.50"},
		{"Ubiquiti UniFi AP-AC-LR", "AA:BB:CC:00:11:23", "Telhado", "EmpresaWiFi", "192.168.1.51"},
	} {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	var content bytes.Buffer
	require.NoError(t, file.Write(&content))

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", "aps.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(content.Bytes())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/imports/excel", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := call(t, srv, req, admin.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Inserted int `json:"inserted"`
			Errors   int `json:"errors"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Inserted)
	assert.Equal(t, 1, resp.Data.Errors)

	recs, err := srv.Tables.AccessPoints.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "EmpresaWiFi", recs[0].SSID)
}
