package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/herdmon/herdmon/internal/domain/models"
)

// stubHerdService is a scripted HerdService for handler tests.
type stubHerdService struct {
	cow        models.Cow
	cowErr     error
	lastCowReq models.CreateCowRequest

	sensor    models.Sensor
	sensorErr error

	measurement    models.Measurement
	measurementErr error

	cows    []models.Cow
	listErr error

	details    models.CowSummary
	detailsErr error

	recent    models.RecentMeasurements
	recentErr error

	healthyErr error
}

func (s *stubHerdService) RegisterCow(_ context.Context, req models.CreateCowRequest) (models.Cow, error) {
	s.lastCowReq = req
	return s.cow, s.cowErr
}

func (s *stubHerdService) RegisterSensor(_ context.Context, req models.CreateSensorRequest) (models.Sensor, error) {
	return s.sensor, s.sensorErr
}

func (s *stubHerdService) RecordMeasurement(_ context.Context, req models.CreateMeasurementRequest) (models.Measurement, error) {
	return s.measurement, s.measurementErr
}

func (s *stubHerdService) ListCows(context.Context) ([]models.Cow, error) {
	return s.cows, s.listErr
}

func (s *stubHerdService) CowDetails(context.Context, string) (models.CowSummary, error) {
	return s.details, s.detailsErr
}

func (s *stubHerdService) RecentMeasurements(context.Context, string) (models.RecentMeasurements, error) {
	return s.recent, s.recentErr
}

func (s *stubHerdService) Healthy(context.Context) error { return s.healthyErr }

// stubReportService records the date it was asked to report on.
type stubReportService struct {
	report  models.Report
	err     error
	gotDate time.Time
}

func (s *stubReportService) GenerateReport(_ context.Context, date time.Time) (models.Report, error) {
	s.gotDate = date
	return s.report, s.err
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func perform(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
