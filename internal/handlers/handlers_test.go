package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gutcheck-app/gutcheck/backend/internal/apierror"
	"github.com/gutcheck-app/gutcheck/backend/internal/models"
	"github.com/gutcheck-app/gutcheck/backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockTrendsService struct {
	gotDays   int
	gotDevice string
	err       error
}

func (m *mockTrendsService) GetTrends(ctx context.Context, days int, deviceID string) (*models.TrendsResponse, error) {
	m.gotDays, m.gotDevice = days, deviceID
	if m.err != nil {
		return nil, m.err
	}
	return &models.TrendsResponse{
		DailySummaries: []models.DailySummary{},
		WeeklyTrends:   []models.WeeklyTrend{},
		OverallStats:   models.OverallStats{CurrentTrend: models.TrendStable},
	}, nil
}

type mockObservationService struct {
	gotReq  *models.CreateObservationRequest
	err     error
	devices []string
}

func (m *mockObservationService) CreateObservation(ctx context.Context, req *models.CreateObservationRequest) (*models.Observation, error) {
	m.gotReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Observation{ID: "obs-1", DeviceID: "manual", Flags: []string{}}, nil
}

func (m *mockObservationService) ListObservations(ctx context.Context, days int, deviceID string) ([]models.Observation, error) {
	return []models.Observation{}, m.err
}

func (m *mockObservationService) ListDevices(ctx context.Context) ([]string, error) {
	return m.devices, m.err
}

func newRouter(trends service.TrendsService, obs service.ObservationService) *gin.Engine {
	r := gin.New()
	th := NewTrendsHandler(trends)
	oh := NewObservationHandler(obs)
	r.GET("/api/v1/trends", th.GetTrends)
	r.POST("/api/v1/observations", oh.CreateObservation)
	r.GET("/api/v1/observations", oh.GetObservations)
	r.GET("/api/v1/devices", oh.GetDevices)
	r.GET("/health", NewHealthHandler("test", "sqlite").Health)
	return r
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) apierror.ProblemDetails {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, apierror.ContentTypeProblemJSON) {
		t.Errorf("Content-Type = %q, want problem+json", ct)
	}
	var p apierror.ProblemDetails
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("invalid problem body: %v (%s)", err, w.Body.String())
	}
	return p
}

func TestGetTrendsDaysParsing(t *testing.T) {
	tests := []struct {
		query      string
		wantDays   int
		wantDevice string
	}{
		{"", 0, "all"},
		{"?days=7", 7, "all"},
		{"?days=abc", 0, "all"},
		{"?days=-3", 0, "all"},
		{"?days=900&deviceId=pi-1", 900, "pi-1"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := &mockTrendsService{}
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/trends"+tt.query, nil)
			newRouter(svc, &mockObservationService{}).ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if svc.gotDays != tt.wantDays || svc.gotDevice != tt.wantDevice {
				t.Errorf("service got (%d, %q), want (%d, %q)", svc.gotDays, svc.gotDevice, tt.wantDays, tt.wantDevice)
			}
		})
	}
}

func TestGetTrendsResponseShape(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trends?days=7", nil)
	newRouter(&mockTrendsService{}, &mockObservationService{}).ServeHTTP(w, req)

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"dailySummaries", "weeklyTrends", "overallStats"} {
		if _, ok := body[key]; !ok {
			t.Errorf("response missing %q", key)
		}
	}
	if string(body["dailySummaries"]) != "[]" {
		t.Errorf("dailySummaries = %s, want []", body["dailySummaries"])
	}
}

func TestGetTrendsStorageFailure(t *testing.T) {
	svc := &mockTrendsService{err: errors.New("pq: password authentication failed")}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trends", nil)
	newRouter(svc, &mockObservationService{}).ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	p := decodeProblem(t, w)
	if p.Type != apierror.TypeInternal {
		t.Errorf("type = %s", p.Type)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("storage error details leaked into the response")
	}
}

func TestGetTrendsStorageTimeout(t *testing.T) {
	svc := &mockTrendsService{err: fmt.Errorf("failed to load observations: %w", context.DeadlineExceeded)}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trends", nil)
	newRouter(svc, &mockObservationService{}).ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if w.Header().Get("Retry-After") != "5" {
		t.Errorf("Retry-After = %q, want 5", w.Header().Get("Retry-After"))
	}
}

func postObservation(t *testing.T, svc service.ObservationService, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/observations", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter(&mockTrendsService{}, svc).ServeHTTP(w, req)
	return w
}

func TestCreateObservationSuccess(t *testing.T) {
	svc := &mockObservationService{}
	w := postObservation(t, svc, `{"timestamp":"2026-03-08T10:00:00Z","bristolScore":4,"hydrationIndex":0.5,"volumeEstimate":"low","flags":["urgency"]}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	if svc.gotReq == nil || *svc.gotReq.BristolScore != 4 {
		t.Errorf("service request = %+v", svc.gotReq)
	}
}

func TestCreateObservationReportsAllFieldErrors(t *testing.T) {
	svc := &mockObservationService{}
	w := postObservation(t, svc, `{"timestamp":"yesterday","bristolScore":9,"hydrationIndex":1.5,"volumeEstimate":"huge","deviceId":"all"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	p := decodeProblem(t, w)
	if p.Type != apierror.TypeValidation {
		t.Errorf("type = %s", p.Type)
	}

	fields := map[string]bool{}
	for _, fe := range p.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"timestamp", "bristolScore", "hydrationIndex", "volumeEstimate", "deviceId"} {
		if !fields[want] {
			t.Errorf("missing field error for %s; got %+v", want, p.Errors)
		}
	}
	if svc.gotReq != nil {
		t.Error("invalid request reached the service")
	}
}

func TestCreateObservationMissingTimestamp(t *testing.T) {
	w := postObservation(t, &mockObservationService{}, `{"bristolScore":3}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	p := decodeProblem(t, w)
	if len(p.Errors) != 1 || p.Errors[0].Field != "timestamp" || p.Errors[0].Code != "required" {
		t.Errorf("errors = %+v", p.Errors)
	}
}

func TestCreateObservationMalformedJSON(t *testing.T) {
	w := postObservation(t, &mockObservationService{}, `{"timestamp":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if p := decodeProblem(t, w); p.Type != apierror.TypeBadRequest {
		t.Errorf("type = %s", p.Type)
	}
}

func TestCreateObservationServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantField  string
	}{
		{
			name:       "future timestamp",
			err:        fmt.Errorf("%w: ahead", service.ErrFutureTimestamp),
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeFutureTimestamp,
			wantField:  "timestamp",
		},
		{
			name:       "future id",
			err:        fmt.Errorf("%w: %w", service.ErrInvalidID, service.ErrFutureTimestamp),
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeFutureTimestamp,
			wantField:  "id",
		},
		{
			name:       "uuid v4",
			err:        fmt.Errorf("%w: %w", service.ErrInvalidID, service.ErrNotUUIDv7),
			wantStatus: http.StatusBadRequest,
			wantType:   apierror.TypeValidation,
			wantField:  "id",
		},
		{
			name:       "store down",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantType:   apierror.TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postObservation(t, &mockObservationService{err: tt.err}, `{"timestamp":"2026-03-08T10:00:00Z"}`)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			p := decodeProblem(t, w)
			if p.Type != tt.wantType {
				t.Errorf("type = %s, want %s", p.Type, tt.wantType)
			}
			if tt.wantField != "" && (len(p.Errors) == 0 || p.Errors[0].Field != tt.wantField) {
				t.Errorf("errors = %+v, want field %s", p.Errors, tt.wantField)
			}
		})
	}
}

func TestGetDevicesNeverNull(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/devices", nil)
	newRouter(&mockTrendsService{}, &mockObservationService{}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"devices":[]}` {
		t.Errorf("body = %s", got)
	}
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	newRouter(&mockTrendsService{}, &mockObservationService{}).ServeHTTP(w, req)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" || body["storage"] != "sqlite" || body["env"] != "test" {
		t.Errorf("body = %v", body)
	}
}
