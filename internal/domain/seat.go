package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type SeatType string

const (
	SeatTypeStandard SeatType = "standard"
	SeatTypeVIP      SeatType = "vip"
)

type SeatStatus string

const (
	SeatStatusActive      SeatStatus = "active"
	SeatStatusMaintenance SeatStatus = "maintenance"
)

type Seat struct {
	Label  string     `json:"label"`
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Type   SeatType   `json:"seatType"`
	Status SeatStatus `json:"operationalStatus"`
}

// Room owns the ordered seat sequence of a screening room. Seats are stored
// row-major and the order is relied upon by seat map renderers.
type Room struct {
	ID        int
	CinemaID  int
	Name      string
	Rows      int
	Cols      int
	SeatCount int
	Seats     []Seat
}

// EnsureLayout generates the seat layout only when the room has no seats yet.
// When seats already exist the stored sequence is left untouched and only the
// derived seat count is refreshed. It reports whether a new layout was generated.
func (r *Room) EnsureLayout(rows, cols int, vipRows []RowRef) bool {
	if len(r.Seats) > 0 {
		r.SeatCount = len(r.Seats)
		return false
	}

	r.Seats = GenerateSeatLayout(rows, cols, vipRows)
	r.Rows = rows
	r.Cols = cols
	r.SeatCount = len(r.Seats)

	return true
}

func (r *Room) SeatsByLabel() map[string]Seat {
	seats := make(map[string]Seat, len(r.Seats))
	for _, s := range r.Seats {
		seats[s.Label] = s
	}

	return seats
}

// GenerateSeatLayout emits rows*cols seats in row-major order. A seat is VIP
// iff its row is one of vipRows. Non-positive dimensions yield no seats.
func GenerateSeatLayout(rows, cols int, vipRows []RowRef) []Seat {
	if rows <= 0 || cols <= 0 {
		return []Seat{}
	}

	vip := make(map[int]bool, len(vipRows))
	for _, ref := range vipRows {
		vip[ref.Index()] = true
	}

	seats := make([]Seat, 0, rows*cols)

	for r := 0; r < rows; r++ {
		seatType := SeatTypeStandard
		if vip[r] {
			seatType = SeatTypeVIP
		}

		for c := 0; c < cols; c++ {
			seats = append(seats, Seat{
				Label:  SeatLabel(r, c),
				Row:    r,
				Col:    c,
				Type:   seatType,
				Status: SeatStatusActive,
			})
		}
	}

	return seats
}

// SeatLabel builds the canonical label for a zero-based row and column, e.g. (2, 4) -> "C5".
func SeatLabel(row, col int) string {
	return RowLetter(row) + strconv.Itoa(col+1)
}

// RowLetter converts a zero-based row index to its letter. Rows past Z continue
// as AA, AB, ... like spreadsheet columns.
func RowLetter(row int) string {
	var b []byte

	for n := row + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}

	return string(b)
}

// RowRef is a zero-based row index. It can be decoded from either a row
// letter ("B") or a numeric index (1).
type RowRef int

func (r RowRef) Index() int {
	return int(r)
}

func (r RowRef) String() string {
	return RowLetter(int(r))
}

// ParseRowRef accepts a row letter sequence or a zero-based decimal index.
func ParseRowRef(s string) (RowRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty row reference")
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("row index %d must not be negative", n)
		}
		return RowRef(n), nil
	}

	n := 0
	for _, ch := range strings.ToUpper(s) {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid row reference %q", s)
		}
		n = n*26 + int(ch-'A'+1)
	}

	return RowRef(n - 1), nil
}

func (r *RowRef) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 {
			return fmt.Errorf("row index %d must not be negative", n)
		}
		*r = RowRef(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("row reference must be a letter or an index")
	}

	ref, err := ParseRowRef(s)
	if err != nil {
		return err
	}

	*r = ref

	return nil
}

func (r RowRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

type RoomRepository interface {
	GetById(ctx context.Context, id int) (*Room, error)
	// Provision applies fn to the room under a row lock and persists the result.
	Provision(ctx context.Context, id int, fn func(*Room) error) (*Room, error)
}
