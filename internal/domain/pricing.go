package domain

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SurchargePolicy returns the extra charge for a seat of the given type. It
// must be a pure function of the seat type.
type SurchargePolicy func(SeatType) decimal.Decimal

func NoSurcharge(SeatType) decimal.Decimal {
	return decimal.Zero
}

// VIPSurcharge charges amount on top of the base price for VIP seats only.
func VIPSurcharge(amount decimal.Decimal) SurchargePolicy {
	if !amount.IsPositive() {
		return NoSurcharge
	}

	return func(t SeatType) decimal.Decimal {
		if t == SeatTypeVIP {
			return amount
		}
		return decimal.Zero
	}
}

type SeatPrice struct {
	Label string
	Price decimal.Decimal
}

// Quote is the authoritative charge for a booking, computed from server-held
// data only.
type Quote struct {
	SeatPrices []SeatPrice
	ComboLines []ComboLine
	Total      decimal.Decimal
}

type Pricer struct {
	combos    ComboRepository
	surcharge SurchargePolicy
}

func NewPricer(combos ComboRepository, surcharge SurchargePolicy) *Pricer {
	if surcharge == nil {
		surcharge = NoSurcharge
	}

	return &Pricer{
		combos:    combos,
		surcharge: surcharge,
	}
}

// Price computes the total for the given seats and combo requests. Combo
// items that cannot be resolved against the live catalog are dropped and
// reported back through skipped so callers can log them.
func (p *Pricer) Price(
	ctx context.Context,
	showtime *Showtime,
	seats []Seat,
	requests []ComboRequest) (quote *Quote, skipped []int, err error) {

	basePrice, ok := showtime.Price()
	if !ok {
		return nil, nil, ErrMisconfiguredShowtime
	}

	seatPrices := make([]SeatPrice, len(seats))
	for i, seat := range seats {
		seatPrices[i] = SeatPrice{
			Label: seat.Label,
			Price: basePrice.Add(p.surcharge(seat.Type)),
		}
	}

	comboLines, skipped, err := p.resolveCombos(ctx, requests)
	if err != nil {
		return nil, nil, err
	}

	quote = &Quote{
		SeatPrices: seatPrices,
		ComboLines: comboLines,
		Total:      calculateTotalPrice(seatPrices, comboLines),
	}

	return quote, skipped, nil
}

func (p *Pricer) resolveCombos(ctx context.Context, requests []ComboRequest) ([]ComboLine, []int, error) {
	merged := MergeComboRequests(requests)
	if len(merged) == 0 {
		return []ComboLine{}, nil, nil
	}

	ids := make([]int, len(merged))
	for i, req := range merged {
		ids[i] = req.ItemID
	}

	items, err := p.combos.GetByIds(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve combo items: %w", err)
	}

	lines := make([]ComboLine, 0, len(merged))
	var skipped []int

	for _, req := range merged {
		item, found := items[req.ItemID]
		if !found {
			skipped = append(skipped, req.ItemID)
			continue
		}

		lines = append(lines, ComboLine{
			ItemID:    item.ID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  req.Quantity,
		})
	}

	return lines, skipped, nil
}

// MergeComboRequests sums quantities of repeated items, keeping the order in
// which items first appear. Non-positive quantities are ignored.
func MergeComboRequests(requests []ComboRequest) []ComboRequest {
	merged := make([]ComboRequest, 0, len(requests))
	index := make(map[int]int, len(requests))

	for _, req := range requests {
		if req.Quantity <= 0 {
			continue
		}

		if i, ok := index[req.ItemID]; ok {
			merged[i].Quantity += req.Quantity
			continue
		}

		index[req.ItemID] = len(merged)
		merged = append(merged, req)
	}

	return merged
}

func calculateTotalPrice(seatPrices []SeatPrice, comboLines []ComboLine) decimal.Decimal {
	total := decimal.Zero

	for _, v := range seatPrices {
		total = total.Add(v.Price)
	}

	for _, v := range comboLines {
		total = total.Add(v.Total())
	}

	return total
}
