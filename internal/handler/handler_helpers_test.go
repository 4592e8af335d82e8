package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tonetrace-api/internal/handler"
	"github.com/noah-isme/tonetrace-api/internal/mockdata"
	"github.com/noah-isme/tonetrace-api/internal/repository"
	"github.com/noah-isme/tonetrace-api/internal/service"
)

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta"`
	Details map[string]interface{} `json:"details"`
}

type testServices struct {
	datasets  service.DatasetService
	analytics service.ClassAnalyticsService
	roster    service.RosterService
}

func newTestServices(repo repository.DatasetRepository) testServices {
	logger := zerolog.Nop()
	datasets := service.NewDatasetService(nil, repo, nil, nil, nil, service.DatasetOptions{
		UseMocks:           true,
		DefaultSeed:        mockdata.DefaultSeed,
		DefaultStudents:    12,
		DefaultAssignments: 4,
		CacheTTL:           time.Minute,
	}, logger)

	return testServices{
		datasets:  datasets,
		analytics: service.NewClassAnalyticsService(datasets, nil, time.Minute, logger),
		roster:    service.NewRosterService(datasets, logger),
	}
}

func newTestApp(repo repository.DatasetRepository) *fiber.App {
	services := newTestServices(repo)
	logger := zerolog.Nop()

	app := fiber.New()
	api := app.Group("/api/v1")
	handler.NewDatasetHandler(services.datasets, logger).Register(api.Group("/dataset"))
	handler.NewAnalyticsHandler(services.analytics, logger).Register(api.Group("/analytics"))
	handler.NewRosterHandler(services.roster, logger).Register(api)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var payload envelope
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}
