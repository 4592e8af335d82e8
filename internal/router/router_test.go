package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tonetrace-api/internal/config"
	"github.com/noah-isme/tonetrace-api/internal/handler"
	"github.com/noah-isme/tonetrace-api/internal/middleware"
	"github.com/noah-isme/tonetrace-api/internal/router"
	"github.com/noah-isme/tonetrace-api/internal/service"
)

func newApp(cfg config.Config) *fiber.App {
	logger := zerolog.Nop()
	datasets := service.NewDatasetService(nil, nil, nil, nil, nil, service.DatasetOptions{
		UseMocks:           true,
		DefaultSeed:        cfg.DefaultSeed,
		DefaultStudents:    cfg.DefaultStudents,
		DefaultAssignments: cfg.DefaultAssignments,
	}, logger)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		DatasetHandler:   handler.NewDatasetHandler(datasets, logger),
		AnalyticsHandler: handler.NewAnalyticsHandler(service.NewClassAnalyticsService(datasets, nil, time.Minute, logger), logger),
		RosterHandler:    handler.NewRosterHandler(service.NewRosterService(datasets, logger), logger),
	})
	return app
}

func testConfig() config.Config {
	return config.Config{
		AppName:            "ToneTrace API",
		AppEnv:             "test",
		UseMocks:           true,
		DefaultSeed:        12345,
		DefaultStudents:    6,
		DefaultAssignments: 3,
		SnapshotRateLimit:  1,
		SnapshotRateWindow: time.Minute,
	}
}

func get(t *testing.T, app *fiber.App, target, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRoutesOpenWithoutSecret(t *testing.T) {
	app := newApp(testConfig())

	for _, target := range []string{
		"/api/v1/health",
		"/api/v1/dataset",
		"/api/v1/analytics/class",
		"/api/v1/analytics/students",
		"/api/v1/analytics/assignments",
		"/api/v1/analytics/students/export",
		"/api/v1/students",
		"/api/v1/students/student-1",
		"/api/v1/assignments",
		"/metrics",
	} {
		resp := get(t, app, target, "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode, target)
	}

	resp := get(t, app, "/api/v1/health", "")
	require.Equal(t, "ToneTrace API", resp.Header.Get("X-Application"))
	require.NotEmpty(t, resp.Header.Get(middleware.HeaderCorrelationID))
}

func TestRoutesRequireTeacherTokenWithSecret(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = "router-secret"
	app := newApp(cfg)

	require.Equal(t, fiber.StatusOK, get(t, app, "/api/v1/health", "").StatusCode)
	require.Equal(t, fiber.StatusUnauthorized, get(t, app, "/api/v1/analytics/class", "").StatusCode)

	student, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{Role: "student"}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, get(t, app, "/api/v1/students", student).StatusCode)

	teacher, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{Role: "teacher"}).SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/v1/students", teacher).StatusCode)
	require.Equal(t, fiber.StatusOK, get(t, app, "/api/v1/analytics/class", teacher).StatusCode)
}

func TestSnapshotCreationIsRateLimited(t *testing.T) {
	app := newApp(testConfig())

	statuses := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/dataset/snapshots", nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}

	// No body parses as an invalid request; the second call is rejected before reaching the handler.
	require.Equal(t, []int{fiber.StatusBadRequest, fiber.StatusTooManyRequests}, statuses)
}
