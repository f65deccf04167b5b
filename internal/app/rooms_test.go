package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
	appvalidator "github.com/metinatakli/cinema-booking/internal/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RoomsTestSuite struct {
	suite.Suite
	deps *testDeps
	app  *application
}

func (s *RoomsTestSuite) SetupTest() {
	s.deps = newTestDeps()
	s.app = newTestApplication(s.deps)
}

func TestRoomsSuite(t *testing.T) {
	suite.Run(t, new(RoomsTestSuite))
}

func (s *RoomsTestSuite) TestProvisionRoomLayout() {
	tests := []struct {
		name           string
		role           string
		body           any
		setupMocks     func()
		wantStatus     int
		wantGenerated  bool
		wantSeatCount  int
		wantErrMessage string
	}{
		{
			name:           "should forbid non-admin callers",
			role:           "",
			body:           api.RoomLayoutRequest{Rows: 2, Cols: 2},
			wantStatus:     http.StatusForbidden,
			wantErrMessage: ErrForbiddenAccess,
		},
		{
			name:           "should fail when rows are missing",
			role:           roleAdmin,
			body:           api.RoomLayoutRequest{Cols: 2},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: appvalidator.ErrRequired,
		},
		{
			name:           "should fail when a vip row is outside the layout",
			role:           roleAdmin,
			body:           `{"rows": 2, "cols": 2, "vipRows": ["C"]}`,
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: appvalidator.ErrRowOutOfRange,
		},
		{
			name:       "should fail when a vip row is not a row reference",
			role:       roleAdmin,
			body:       `{"rows": 2, "cols": 2, "vipRows": ["B-"]}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "should generate the layout of an empty room",
			role: roleAdmin,
			body: `{"rows": 3, "cols": 4, "vipRows": ["C", 0]}`,
			setupMocks: func() {
				s.deps.rooms.On("Provision", mock.Anything, testRoomID, mock.Anything).
					Return(&domain.Room{ID: testRoomID}, nil)
			},
			wantStatus:    http.StatusOK,
			wantGenerated: true,
			wantSeatCount: 12,
		},
		{
			name: "should keep the layout of a provisioned room",
			role: roleAdmin,
			body: api.RoomLayoutRequest{Rows: 5, Cols: 5},
			setupMocks: func() {
				s.deps.rooms.On("Provision", mock.Anything, testRoomID, mock.Anything).
					Return(newTestRoom(), nil)
			},
			wantStatus:    http.StatusOK,
			wantGenerated: false,
			wantSeatCount: 12,
		},
		{
			name: "should fail when room does not exist",
			role: roleAdmin,
			body: api.RoomLayoutRequest{Rows: 2, Cols: 2},
			setupMocks: func() {
				s.deps.rooms.On("Provision", mock.Anything, testRoomID, mock.Anything).
					Return(nil, fmt.Errorf("room %w", domain.ErrRecordNotFound))
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			defer s.deps.assertExpectations(s.T())

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodPut, fmt.Sprintf("/rooms/%d/layout", testRoomID), tt.body)
			r = withIdentity(r, testUserID, tt.role)

			s.app.ProvisionRoomLayout(w, r, testRoomID)

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				var resp api.RoomLayoutResponse
				s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))

				s.Equal(testRoomID, resp.RoomId)
				s.Equal(tt.wantGenerated, resp.Generated)
				s.Equal(tt.wantSeatCount, resp.SeatCount)
				s.Len(resp.Seats, tt.wantSeatCount)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *RoomsTestSuite) TestProvisionRoomLayoutMarksVipRows() {
	s.deps.rooms.On("Provision", mock.Anything, testRoomID, mock.Anything).
		Return(&domain.Room{ID: testRoomID}, nil)

	w, r := executeRequest(s.T(), http.MethodPut, "/rooms/2/layout", `{"rows": 2, "cols": 2, "vipRows": ["B"]}`)
	r = withIdentity(r, testUserID, roleAdmin)

	s.app.ProvisionRoomLayout(w, r, testRoomID)

	s.Require().Equal(http.StatusOK, w.Code)

	var resp api.RoomLayoutResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))

	want := []api.Seat{
		{Label: "A1", Row: "A", Column: 1, SeatType: api.SeatTypeStandard, OperationalStatus: api.SeatStatusActive},
		{Label: "A2", Row: "A", Column: 2, SeatType: api.SeatTypeStandard, OperationalStatus: api.SeatStatusActive},
		{Label: "B1", Row: "B", Column: 1, SeatType: api.SeatTypeVip, OperationalStatus: api.SeatStatusActive},
		{Label: "B2", Row: "B", Column: 2, SeatType: api.SeatTypeVip, OperationalStatus: api.SeatStatusActive},
	}
	s.Equal(want, resp.Seats)
	s.Equal(2, resp.Rows)
	s.Equal(2, resp.Cols)
}
