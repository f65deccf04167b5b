package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/booking"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/metinatakli/cinema-booking/internal/mocks"
	"github.com/metinatakli/cinema-booking/internal/seatlock"
	"github.com/metinatakli/cinema-booking/internal/validator"
	"github.com/shopspring/decimal"
)

const (
	testShowtimeID = 7
	testRoomID     = 2
	testUserID     = "user-1"
	testSecret     = "test-secret"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// testDeps holds the collaborators of the booking engine used by handler tests.
type testDeps struct {
	showtimes *mocks.MockShowtimeRepo
	rooms     *mocks.MockRoomRepo
	orders    *mocks.MockOrderRepo
	combos    *mocks.MockComboRepo
	publisher *mocks.MockEventPublisher
	ledger    *seatlock.MemoryLedger
}

func newTestDeps() *testDeps {
	return &testDeps{
		showtimes: new(mocks.MockShowtimeRepo),
		rooms:     new(mocks.MockRoomRepo),
		orders:    new(mocks.MockOrderRepo),
		combos:    new(mocks.MockComboRepo),
		publisher: new(mocks.MockEventPublisher),
		ledger:    seatlock.NewMemoryLedger(10 * time.Minute).WithClock(func() time.Time { return testNow }),
	}
}

func (d *testDeps) assertExpectations(t *testing.T) {
	d.showtimes.AssertExpectations(t)
	d.rooms.AssertExpectations(t)
	d.orders.AssertExpectations(t)
	d.combos.AssertExpectations(t)
	d.publisher.AssertExpectations(t)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApplication(deps *testDeps, opts ...func(*application)) *application {
	logger := discardLogger()

	app := &application{
		validator:      validator.NewValidator(),
		logger:         logger,
		sessionManager: scs.New(),
		engine: booking.NewEngine(booking.Deps{
			Showtimes: deps.showtimes,
			Rooms:     deps.rooms,
			Orders:    deps.orders,
			Ledger:    deps.ledger,
			Pricer:    domain.NewPricer(deps.combos, nil),
			Publisher: deps.publisher,
			Logger:    logger,
		}, booking.Config{
			MaxSeats: 4,
			Now:      func() time.Time { return testNow },
		}),
	}

	app.config.env = "test"
	app.config.jwt.secret = testSecret

	for _, opt := range opts {
		opt(app)
	}

	return app
}

func newTestShowtime(start time.Time, basePrice string) *domain.Showtime {
	showtime := &domain.Showtime{
		ID:         testShowtimeID,
		RoomID:     testRoomID,
		MovieTitle: "Dune",
		CinemaName: "Downtown",
		RoomName:   "Room 2",
		StartTime:  start,
	}
	if basePrice != "" {
		showtime.BasePrice = domain.NumericFromDecimal(decimal.RequireFromString(basePrice))
	}
	return showtime
}

// newTestRoom is a 3x4 room with a VIP back row.
func newTestRoom() *domain.Room {
	room := &domain.Room{ID: testRoomID, Name: "Room 2"}
	room.EnsureLayout(3, 4, []domain.RowRef{2})
	return room
}

func withIdentity(r *http.Request, userID, role string) *http.Request {
	return contextSetIdentity(r, identity{UserID: userID, Role: role})
}

func setupTestSession(t *testing.T, app *application, r *http.Request, userId string) *http.Request {
	ctx, err := app.sessionManager.Load(r.Context(), "session")
	if err != nil {
		t.Errorf("Failed to load session: %v", err)
	}

	app.sessionManager.Put(ctx, SessionKeyUserId.String(), userId)

	return r.WithContext(ctx)
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var reader io.Reader = http.NoBody

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		if len(validationResp.ValidationErrors) == 0 {
			if tt.wantErrMessage != "" && validationResp.Message != tt.wantErrMessage {
				t.Errorf("Error message = %v, want %v", validationResp.Message, tt.wantErrMessage)
			}
			return
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response %+v", tt.wantErrMessage, validationResp.ValidationErrors)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
