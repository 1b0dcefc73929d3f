package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/api/handlers"
	"github.com/rashmi-br-dev/sandevex-offer-backend/internal/slots"
)

func newSlotRouter(svc *MockAppointmentService, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewSlotHandler(svc, func() time.Time { return now })
	r := gin.New()
	r.GET("/slots", handler.Availability)
	r.GET("/slots/dates", handler.Dates)
	return r
}

func TestSlotHandler_Dates(t *testing.T) {
	mockSvc := new(MockAppointmentService)
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	r := newSlotRouter(mockSvc, now)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/slots/dates", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string][]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["dates"], 12)
	assert.Equal(t, "2025-06-10", resp["dates"][0])
	assert.Equal(t, "2025-06-21", resp["dates"][11])
}

func TestSlotHandler_Dates_WindowClosed(t *testing.T) {
	mockSvc := new(MockAppointmentService)
	now := time.Date(2025, time.June, 25, 9, 0, 0, 0, time.UTC)
	r := newSlotRouter(mockSvc, now)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/slots/dates", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string][]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp["dates"])
}

func TestSlotHandler_Availability(t *testing.T) {
	mockSvc := new(MockAppointmentService)
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	r := newSlotRouter(mockSvc, now)

	mockSvc.On("CountByDateSlot", mock.Anything, "2025-06-15").
		Return(map[slots.Slot]int{slots.Slot2to3: 3, slots.Slot3to4: 1}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/slots?date=2025-06-15", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]int
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp["2-3"])
	assert.Equal(t, 1, resp["3-4"])
	mockSvc.AssertExpectations(t)
}

func TestSlotHandler_Availability_SameDayCutoffZeroes(t *testing.T) {
	mockSvc := new(MockAppointmentService)
	// 11:30: the 2-3 cutoff has passed, 3-4 is still open.
	now := time.Date(2025, time.June, 10, 11, 30, 0, 0, time.UTC)
	r := newSlotRouter(mockSvc, now)

	mockSvc.On("CountByDateSlot", mock.Anything, "2025-06-10").
		Return(map[slots.Slot]int{slots.Slot2to3: 5, slots.Slot3to4: 2}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/slots?date=2025-06-10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]int
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp["2-3"])
	assert.Equal(t, 2, resp["3-4"])
}

func TestSlotHandler_Availability_BadDate(t *testing.T) {
	mockSvc := new(MockAppointmentService)
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	r := newSlotRouter(mockSvc, now)

	for _, q := range []string{"", "?date=junk", "?date=2025-6-1"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/slots"+q, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
	mockSvc.AssertNotCalled(t, "CountByDateSlot")
}

func TestSlotHandler_Availability_OutOfWindow(t *testing.T) {
	mockSvc := new(MockAppointmentService)
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	r := newSlotRouter(mockSvc, now)

	mockSvc.On("CountByDateSlot", mock.Anything, "2025-06-25").
		Return(map[slots.Slot]int{}, nil)
	mockSvc.On("CountByDateSlot", mock.Anything, "2025-06-09").
		Return(map[slots.Slot]int{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/slots?date=2025-06-25", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/slots?date=2025-06-09", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
