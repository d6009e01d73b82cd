package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/camwarden/camwarden/internal/models"
	"github.com/camwarden/camwarden/internal/service"
)

// fakeAlertService implements AlertService for testing.
type fakeAlertService struct {
	alerts      []models.Alert
	alert       *models.Alert
	err         error
	gotCameraID string
	gotPage     int
	gotPageSize int
	gotInput    service.AlertInput
}

func (f *fakeAlertService) List(ctx context.Context, cameraID string, page, pageSize int) ([]models.Alert, error) {
	f.gotCameraID, f.gotPage, f.gotPageSize = cameraID, page, pageSize
	return f.alerts, f.err
}

func (f *fakeAlertService) Create(ctx context.Context, input service.AlertInput) (*models.Alert, error) {
	f.gotInput = input
	return f.alert, f.err
}

// recordingBroadcaster captures broadcasts.
type recordingBroadcaster struct {
	payloads []any
}

func (r *recordingBroadcaster) Broadcast(v any) {
	r.payloads = append(r.payloads, v)
}

func TestAlertHandler_List_QueryParams(t *testing.T) {
	alerts := &fakeAlertService{alerts: []models.Alert{{ID: "a1"}}}
	router := newTestRouter(&fakeCameraService{}, &fakeStreamService{}, alerts)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest("GET", "/api/alerts?cameraId=c1&page=2&pageSize=2", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if alerts.gotCameraID != "c1" || alerts.gotPage != 2 || alerts.gotPageSize != 2 {
		t.Errorf("service received cameraId=%q page=%d pageSize=%d; want c1/2/2",
			alerts.gotCameraID, alerts.gotPage, alerts.gotPageSize)
	}
}

func TestAlertHandler_List_EmptyIsArray(t *testing.T) {
	router := newTestRouter(&fakeCameraService{}, &fakeStreamService{}, &fakeAlertService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest("GET", "/api/alerts", ""))

	if body := bytes.TrimSpace(rec.Body.Bytes()); !bytes.Equal(body, []byte("[]")) {
		t.Errorf("body = %q; want an empty JSON array", body)
	}
}

func TestAlertHandler_Create_BroadcastsStoredAlert(t *testing.T) {
	stored := &models.Alert{
		ID:          "a1",
		CameraID:    "c1",
		DetectedAt:  time.Now(),
		Description: "Face detected",
	}
	alerts := &fakeAlertService{alert: stored}
	broadcaster := &recordingBroadcaster{}

	handler := &AlertHandler{Alerts: alerts, Notifier: broadcaster, Log: zapNop()}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/alerts", bytes.NewBufferString(
		`{"cameraId":"c1","description":"Face detected","metadata":{"face_count":1}}`))
	handler.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if len(broadcaster.payloads) != 1 {
		t.Fatalf("broadcasts = %d; want exactly one", len(broadcaster.payloads))
	}
	if got, ok := broadcaster.payloads[0].(*models.Alert); !ok || got.ID != "a1" {
		t.Errorf("broadcast payload = %v; want the stored alert", broadcaster.payloads[0])
	}
	if alerts.gotInput.CameraID != "c1" {
		t.Errorf("service received cameraId %q; want c1", alerts.gotInput.CameraID)
	}
}

func TestAlertHandler_Create_UnknownCamera(t *testing.T) {
	alerts := &fakeAlertService{err: service.ErrNotFound}
	broadcaster := &recordingBroadcaster{}

	handler := &AlertHandler{Alerts: alerts, Notifier: broadcaster, Log: zapNop()}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/alerts", bytes.NewBufferString(`{"cameraId":"ghost","description":"x"}`))
	handler.Create(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
	if len(broadcaster.payloads) != 0 {
		t.Errorf("broadcasts = %d; want none on failure", len(broadcaster.payloads))
	}
}

func TestAlertHandler_Create_ResponseIsStoredAlert(t *testing.T) {
	stored := &models.Alert{ID: "a1", CameraID: "c1", Description: "Motion", DetectedAt: time.Now()}
	handler := &AlertHandler{Alerts: &fakeAlertService{alert: stored}, Log: zapNop()}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/alerts", bytes.NewBufferString(`{"cameraId":"c1","description":"Motion"}`))
	handler.Create(rec, req)

	var got models.Alert
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if got.ID != "a1" || got.CameraID != "c1" {
		t.Errorf("body = %+v; want the stored alert", got)
	}
}
