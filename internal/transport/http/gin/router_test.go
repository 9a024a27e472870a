package httpgin

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/railgo/internal/cache"
	"github.com/kirinyoku/railgo/internal/jsonfile"
	"github.com/kirinyoku/railgo/internal/service"
	"github.com/kirinyoku/railgo/internal/session"
	"github.com/kirinyoku/railgo/internal/state"
	"github.com/kirinyoku/railgo/internal/uow"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	store, err := jsonfile.New(jsonfile.Config{
		Path: filepath.Join(t.TempDir(), "system_data.json"),
	})
	require.NoError(t, err)

	st := state.New(state.Data{Trains: state.DefaultCatalog(), NextPNR: 1})
	u := uow.New(st, store)
	sessions := session.NewManager(time.Hour)
	c := cache.New()

	svcs := service.NewServices(st, u, c, sessions, service.Config{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRouter(svcs, logger)
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

func signup(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w := do(t, r, http.MethodPost, "/accounts", "", CreateAccountRequest{Username: username, Password: "secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/session", "", LoginRequest{Username: username, Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	return decode[LoginResponse](t, w).Token
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccountLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/accounts", "", CreateAccountRequest{Username: "alice", Password: "secret"})
	require.Equal(t, http.StatusCreated, w.Code)
	acc := decode[CreateAccountResponse](t, w)
	assert.Equal(t, int64(1), acc.UserID)
	assert.Equal(t, "alice", acc.Username)

	// duplicate username
	w = do(t, r, http.MethodPost, "/accounts", "", CreateAccountRequest{Username: "alice", Password: "other"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// bad credentials
	w = do(t, r, http.MethodPost, "/session", "", LoginRequest{Username: "alice", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// login then logout
	w = do(t, r, http.MethodPost, "/session", "", LoginRequest{Username: "alice", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[LoginResponse](t, w).Token
	require.NotEmpty(t, token)

	w = do(t, r, http.MethodDelete, "/session", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// the token is dead now
	w = do(t, r, http.MethodPost, "/bookings", token, CreateBookingRequest{TrainID: 1, CoachType: "AC"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearchTrains(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/trains/search?origin=City+A&destination=City+B&day=Monday", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]TrainSummaryResponse](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "Express 1", got[0].Name)

	// exact match only
	w = do(t, r, http.MethodGet, "/trains/search?origin=city+a&destination=City+B&day=Monday", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]TrainSummaryResponse](t, w))

	// missing params
	w = do(t, r, http.MethodGet, "/trains/search?origin=City+A", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTrainAndAvailability(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/trains/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tr := decode[TrainResponse](t, w)
	assert.Equal(t, "Express 1", tr.Name)
	require.Len(t, tr.Coaches, 2)

	w = do(t, r, http.MethodGet, "/trains/1/availability?coach_type=AC", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	av := decode[AvailabilityResponse](t, w)
	assert.Equal(t, 50, av.AvailableSeats)
	assert.Equal(t, 50, av.Capacity)

	// availability requires no authentication but a real reference
	w = do(t, r, http.MethodGet, "/trains/99/availability?coach_type=AC", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/trains/1/availability", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/trains/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/trains/99", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingFlow(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "alice")

	// booking requires authentication
	w := do(t, r, http.MethodPost, "/bookings", "", CreateBookingRequest{TrainID: 1, CoachType: "AC"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// book a seat
	w = do(t, r, http.MethodPost, "/bookings", token, CreateBookingRequest{TrainID: 1, CoachType: "AC"})
	require.Equal(t, http.StatusCreated, w.Code)
	pnr := decode[CreateBookingResponse](t, w).PNR
	assert.Equal(t, int64(1), pnr)

	// the seat pool shrank
	w = do(t, r, http.MethodGet, "/trains/1/availability?coach_type=AC", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 49, decode[AvailabilityResponse](t, w).AvailableSeats)

	// look it up, list it
	w = do(t, r, http.MethodGet, "/bookings/1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "AC", decode[BookingResponse](t, w).CoachType)

	w = do(t, r, http.MethodGet, "/bookings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]BookingResponse](t, w), 1)

	// another account cannot see or cancel it
	bobToken := signup(t, r, "bob")

	w = do(t, r, http.MethodGet, "/bookings/1", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodDelete, "/bookings/1", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// cancel restores the seat
	w = do(t, r, http.MethodDelete, "/bookings/1", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, "/trains/1/availability?coach_type=AC", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, decode[AvailabilityResponse](t, w).AvailableSeats)

	w = do(t, r, http.MethodGet, "/bookings/1", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// a fresh booking never reuses the cancelled PNR
	w = do(t, r, http.MethodPost, "/bookings", token, CreateBookingRequest{TrainID: 1, CoachType: "AC"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(2), decode[CreateBookingResponse](t, w).PNR)
}

func TestBookingUnknownReferences(t *testing.T) {
	r := newTestRouter(t)
	token := signup(t, r, "alice")

	w := do(t, r, http.MethodPost, "/bookings", token, CreateBookingRequest{TrainID: 99, CoachType: "AC"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/bookings", token, CreateBookingRequest{TrainID: 1, CoachType: "First"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPost, "/bookings", token, gin.H{"train_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodPost, "/admin/trains", "", AddTrainRequest{
		Name: "Express 3", Origin: "City E", Destination: "City F", DayOfWeek: "Friday",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	tr := decode[TrainSummaryResponse](t, w)
	assert.Equal(t, int64(3), tr.TrainID)

	// malformed day label
	w = do(t, r, http.MethodPost, "/admin/trains", "", AddTrainRequest{
		Name: "Express 4", Origin: "City E", Destination: "City F", DayOfWeek: "friday",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/admin/trains/3/coaches", "", AddCoachRequest{
		CoachType: "Sleeper", Capacity: 80, Fare: 450,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	coach := decode[CoachResponse](t, w)
	assert.Equal(t, 80, coach.AvailableSeats)

	// duplicate coach type on the same train
	w = do(t, r, http.MethodPost, "/admin/trains/3/coaches", "", AddCoachRequest{
		CoachType: "Sleeper", Capacity: 10, Fare: 450,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// unknown train
	w = do(t, r, http.MethodPost, "/admin/trains/99/coaches", "", AddCoachRequest{
		CoachType: "AC", Capacity: 10, Fare: 900,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the new train is searchable
	w = do(t, r, http.MethodGet, "/trains/search?origin=City+E&destination=City+F&day=Friday", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]TrainSummaryResponse](t, w), 1)
}

func TestETagNotModified(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/trains/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)

	req := httptest.NewRequest(http.MethodGet, "/trains/1", nil)
	req.Header.Set("If-None-Match", tag)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusNotModified, w2.Code)
}
