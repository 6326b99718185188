package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appointmentHandler "github.com/jwalitptl/dental-console/internal/handler/appointment"
	authHandler "github.com/jwalitptl/dental-console/internal/handler/auth"
	"github.com/jwalitptl/dental-console/internal/handler/health"
	patientHandler "github.com/jwalitptl/dental-console/internal/handler/patient"
	promhandler "github.com/jwalitptl/dental-console/internal/handler/prometheus"
	settingsHandler "github.com/jwalitptl/dental-console/internal/handler/settings"
	"github.com/jwalitptl/dental-console/internal/handler/shell"
	"github.com/jwalitptl/dental-console/internal/middleware"
	"github.com/jwalitptl/dental-console/internal/repository/memory"
	appointmentService "github.com/jwalitptl/dental-console/internal/service/appointment"
	authService "github.com/jwalitptl/dental-console/internal/service/auth"
	patientService "github.com/jwalitptl/dental-console/internal/service/patient"
	"github.com/jwalitptl/dental-console/internal/service/session"
	settingsService "github.com/jwalitptl/dental-console/internal/service/settings"
	"github.com/jwalitptl/dental-console/internal/storage"
	"github.com/jwalitptl/dental-console/pkg/auth"
	"github.com/jwalitptl/dental-console/pkg/httputil"
	"github.com/jwalitptl/dental-console/pkg/metrics"
	"github.com/jwalitptl/dental-console/pkg/security"
	"github.com/jwalitptl/dental-console/pkg/validator"
)

const cookieName = "sid"

type testApp struct {
	t      *testing.T
	engine *gin.Engine
	cookie *http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	store := storage.NewMemory()
	v := validator.New()

	jwtSvc, err := auth.NewJWTService("test-secret", time.Hour)
	require.NoError(t, err)
	credentials, err := security.NewCredentials(bcrypt.MinCost)
	require.NoError(t, err)
	authenticator, err := memory.NewAuthenticator(credentials, jwtSvc, v, []memory.Account{
		{Name: "Dr. Lina", Email: "lina@clinic.com", Password: "secret1", Role: "dentist"},
	})
	require.NoError(t, err)

	sessions := session.NewService(store, 0, m, nil)
	settingsSvc := settingsService.NewService(store, v, nil)

	appointmentSvc := appointmentService.NewService(
		memory.NewAppointmentStore(memory.SampleAppointments(time.Now()), memory.RequireToken(jwtSvc)), v, m, nil)
	patientSvc := patientService.NewService(
		memory.NewPatientStore(memory.SamplePatients(), memory.RequireToken(jwtSvc)), v, m, nil)

	r := NewRouter(
		RouterConfig{Mode: gin.TestMode, MetricsPath: "/metrics"},
		middleware.RequireSession(sessions, cookieName),
		health.NewHandler(store),
		authHandler.NewHandler(authService.NewService(authenticator, sessions, v, nil),
			authHandler.CookieConfig{Name: cookieName},
			[]authHandler.SessionForgetter{settingsSvc, appointmentSvc, patientSvc}),
		shell.NewHandler(),
		promhandler.New("test", reg),
		appointmentHandler.NewHandler(appointmentSvc),
		patientHandler.NewHandler(patientSvc),
		settingsHandler.NewHandler(settingsSvc),
	)
	r.Setup()

	return &testApp{t: t, engine: r.Engine()}
}

func (a *testApp) do(method, path string, body interface{}) (*httptest.ResponseRecorder, httputil.Response) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var resp httputil.Response
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func (a *testApp) login() {
	a.t.Helper()
	w, resp := a.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "lina@clinic.com", "password": "secret1",
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	require.True(a.t, resp.Success)

	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			a.cookie = c
		}
	}
	require.NotNil(a.t, a.cookie)
}

func dataMap(t *testing.T, resp httputil.Response) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", resp.Data)
	return m
}

func TestProtectedRoutesRedirectWithoutSession(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/v1/shell", "/api/v1/appointments", "/api/v1/patients", "/api/v1/settings"} {
		w, resp := app.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		require.NotNil(t, resp.Error, path)
		assert.Equal(t, "/", resp.Error.Redirect, path)
	}

	w, _ := app.do(http.MethodGet, "/api/v1/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginValidationAndFailure(t *testing.T) {
	app := newTestApp(t)

	w, resp := app.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "lina", "password": "1"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Email is invalid", resp.Error.Fields["email"])

	w, resp = app.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "lina@clinic.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", resp.Error.Message)
}

func TestShellAndLogout(t *testing.T) {
	app := newTestApp(t)
	app.login()

	w, resp := app.do(http.MethodGet, "/api/v1/shell?tab=patients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, resp)
	assert.Equal(t, "patients", data["activeTab"])
	assert.Equal(t, "Dr. Lina", data["user"].(map[string]interface{})["name"])

	_, resp = app.do(http.MethodGet, "/api/v1/shell?tab=billing", nil)
	assert.Equal(t, "appointments", dataMap(t, resp)["activeTab"])

	w, _ = app.do(http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = app.do(http.MethodGet, "/api/v1/shell", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "old cookie no longer names a session")
}

func TestAppointmentFlow(t *testing.T) {
	app := newTestApp(t)
	app.login()

	w, resp := app.do(http.MethodGet, "/api/v1/appointments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := dataMap(t, resp)["stats"].(map[string]interface{})
	assert.Equal(t, 2.0, stats["total"])

	w, resp = app.do(http.MethodPatch, "/api/v1/appointments/1/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats = dataMap(t, resp)["stats"].(map[string]interface{})
	assert.Equal(t, 1.0, stats["completed"])
	assert.Equal(t, 50.0, stats["completionPercentage"])

	w, _ = app.do(http.MethodDelete, "/api/v1/appointments/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = app.do(http.MethodPost, "/api/v1/appointments", map[string]string{"patientName": "Nour"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, resp.Error.Fields, "appointmentTime")
}

func TestPatientFlow(t *testing.T) {
	app := newTestApp(t)
	app.login()

	w, resp := app.do(http.MethodGet, "/api/v1/patients?q=ali", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, resp)
	assert.Len(t, data["patients"], 2)
	assert.Equal(t, 6.0, data["stats"].(map[string]interface{})["totalPatients"])

	w, resp = app.do(http.MethodPost, "/api/v1/patients/3/payments", map[string]interface{}{"amount": 700, "notes": "Final payment"})
	require.Equal(t, http.StatusCreated, w.Code)
	p := dataMap(t, resp)
	assert.Equal(t, 0.0, p["remainingAmount"])
	assert.Equal(t, false, p["hasRemainingPayment"])

	w, resp = app.do(http.MethodPost, "/api/v1/patients/1/payments", map[string]interface{}{"amount": 5000})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Payment amount exceeds remaining balance", resp.Error.Fields["amount"])

	w, _ = app.do(http.MethodGet, "/api/v1/patients/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettingsFlow(t *testing.T) {
	app := newTestApp(t)
	app.login()

	w, resp := app.do(http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	s := dataMap(t, resp)["settings"].(map[string]interface{})
	assert.Equal(t, true, s["chatbotEnabled"])

	w, resp = app.do(http.MethodPut, "/api/v1/settings/edit/clinicName", map[string]string{"value": "Smile Dental"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "clinicName", dataMap(t, resp)["editing"])

	w, _ = app.do(http.MethodPut, "/api/v1/settings/hours/Friday", map[string]string{"from": "10:00"})
	assert.Equal(t, http.StatusConflict, w.Code, "disabled day times are locked")

	w, _ = app.do(http.MethodPut, "/api/v1/settings/hours/Friday", map[string]interface{}{"enabled": true, "to": "14:00"})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = app.do(http.MethodPut, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, dataMap(t, resp)["editing"])

	w, resp = app.do(http.MethodPatch, "/api/v1/settings", map[string]interface{}{"clinicOpen": false})
	require.Equal(t, http.StatusOK, w.Code)
	s = dataMap(t, resp)["settings"].(map[string]interface{})
	assert.Equal(t, false, s["clinicOpen"])
	assert.Equal(t, "Smile Dental", s["clinicInfo"].(map[string]interface{})["clinicName"])
	friday := s["workingHours"].([]interface{})[5].(map[string]interface{})
	assert.Equal(t, true, friday["enabled"])
	assert.Equal(t, "14:00", friday["to"])
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodGet, "/api/v1/health/live", nil)

	w, _ := app.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
}
