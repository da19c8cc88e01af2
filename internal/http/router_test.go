package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joaaoazul/SIGANEXT-sub000/internal/repository/memory"
	"github.com/joaaoazul/SIGANEXT-sub000/internal/service"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	logger := zap.NewNop()
	return NewRouter(
		service.NewSlotService(store.Slots(), store.Bookings(), logger),
		service.NewBookingService(store.Slots(), store.Bookings(), logger),
		service.NewScheduleService(store.Slots(), store.Bookings(), logger),
		logger,
	)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "image/png" {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func createTestSlot(t *testing.T, router *gin.Engine, capacity int) string {
	t.Helper()
	w, body := doJSON(t, router, "POST", "/api/slots", map[string]any{
		"trainerId": "7b7f2f4a-90f4-4f6f-9f3a-6d2c9a3f1e01",
		"date":      "2025-03-25",
		"startTime": "09:00",
		"endTime":   "10:00",
		"capacity":  capacity,
		"title":     "Personal training",
	})
	require.Equal(t, nethttp.StatusCreated, w.Code, w.Body.String())
	return body["slotId"].(string)
}

func TestCreateSlotAndList(t *testing.T) {
	router := newTestRouter()
	slotID := createTestSlot(t, router, 2)

	w, body := doJSON(t, router, "GET", "/api/slots?from=2025-03-24&to=2025-03-26", nil)
	require.Equal(t, nethttp.StatusOK, w.Code)

	slots := body["slots"].([]any)
	require.Len(t, slots, 1)
	view := slots[0].(map[string]any)
	assert.Equal(t, slotID, view["slotId"])
	assert.Equal(t, "09:00", view["startTime"])
	assert.Equal(t, float64(0), view["bookedCount"])
	assert.Equal(t, true, view["active"])
}

func TestCreateSlotValidationStatus(t *testing.T) {
	router := newTestRouter()

	w, body := doJSON(t, router, "POST", "/api/slots", map[string]any{
		"trainerId": "7b7f2f4a-90f4-4f6f-9f3a-6d2c9a3f1e01",
		"date":      "2025-03-25",
		"startTime": "11:00",
		"endTime":   "10:00",
		"capacity":  2,
		"title":     "Backwards",
	})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", body["error"])
	assert.Equal(t, "start_time", body["field"])
}

func TestBookingFlowOverHTTP(t *testing.T) {
	router := newTestRouter()
	slotID := createTestSlot(t, router, 1)

	clientA := "0f0a6a3e-93a2-4a42-8f2e-1c5d7b9a2d11"
	clientB := "2c1b7d5f-4e3a-4b6c-9d8e-7f6a5b4c3d22"

	w, body := doJSON(t, router, "POST", "/api/bookings", map[string]any{
		"slotId":   slotID,
		"clientId": clientA,
	})
	require.Equal(t, nethttp.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "pending", body["status"])
	bookingID := body["bookingId"].(string)

	// Second client hits a full slot.
	w, body = doJSON(t, router, "POST", "/api/bookings", map[string]any{
		"slotId":   slotID,
		"clientId": clientB,
	})
	assert.Equal(t, nethttp.StatusConflict, w.Code)
	assert.Equal(t, "capacity_exceeded", body["error"])

	// Same client again: duplicate guard.
	w, body = doJSON(t, router, "POST", "/api/bookings", map[string]any{
		"slotId":   slotID,
		"clientId": clientA,
	})
	assert.Equal(t, nethttp.StatusConflict, w.Code)
	assert.Equal(t, "duplicate_booking", body["error"])

	// Approve, then try an illegal jump.
	w, body = doJSON(t, router, "POST", fmt.Sprintf("/api/bookings/%s/status", bookingID), map[string]any{"status": "confirmed"})
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, "confirmed", body["status"])

	w, body = doJSON(t, router, "POST", fmt.Sprintf("/api/bookings/%s/status", bookingID), map[string]any{"status": "pending"})
	assert.Equal(t, nethttp.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", body["error"])
	assert.Equal(t, "confirmed", body["currentStatus"])

	// Occupancy reflects the held seat.
	w, body = doJSON(t, router, "GET", fmt.Sprintf("/api/slots/%s/occupancy", slotID), nil)
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["booked"])
	assert.Equal(t, float64(1), body["capacity"])
}

func TestDeleteSlotConflictOverHTTP(t *testing.T) {
	router := newTestRouter()
	slotID := createTestSlot(t, router, 1)

	w, body := doJSON(t, router, "POST", "/api/bookings", map[string]any{
		"slotId":   slotID,
		"clientId": "0f0a6a3e-93a2-4a42-8f2e-1c5d7b9a2d11",
	})
	require.Equal(t, nethttp.StatusCreated, w.Code)
	bookingID := body["bookingId"].(string)

	w, body = doJSON(t, router, "DELETE", "/api/slots/"+slotID, nil)
	assert.Equal(t, nethttp.StatusConflict, w.Code)
	assert.Equal(t, "conflict", body["error"])
	assert.Equal(t, float64(1), body["activeBookingCount"])

	w, _ = doJSON(t, router, "POST", fmt.Sprintf("/api/bookings/%s/status", bookingID), map[string]any{"status": "cancelled"})
	require.Equal(t, nethttp.StatusOK, w.Code)

	w, _ = doJSON(t, router, "DELETE", "/api/slots/"+slotID, nil)
	assert.Equal(t, nethttp.StatusNoContent, w.Code)
}

func TestTrainerBookingStartsConfirmedOverHTTP(t *testing.T) {
	router := newTestRouter()
	slotID := createTestSlot(t, router, 1)

	w, body := doJSON(t, router, "POST", "/api/bookings", map[string]any{
		"slotId":    slotID,
		"clientId":  "0f0a6a3e-93a2-4a42-8f2e-1c5d7b9a2d11",
		"asTrainer": true,
	})
	require.Equal(t, nethttp.StatusCreated, w.Code)
	assert.Equal(t, "confirmed", body["status"])
}

func TestUnknownSlotIs404(t *testing.T) {
	router := newTestRouter()
	w, body := doJSON(t, router, "GET", "/api/slots/3f0a6a3e-93a2-4a42-8f2e-1c5d7b9a2d99", nil)
	assert.Equal(t, nethttp.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", body["error"])
}

func TestWeekImageEndpoint(t *testing.T) {
	router := newTestRouter()
	createTestSlot(t, router, 2)

	req := httptest.NewRequest("GET", "/api/schedule/week/2025-03-25/image", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}
