package app

import (
	"fmt"
	"net/http"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/booking"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

func (app *application) CreateOrder(w http.ResponseWriter, r *http.Request, showtimeID api.ShowtimeId) {
	logger := app.contextGetLogger(r)
	caller := app.contextMustGetIdentity(r)

	var input api.CreateOrderRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if input.TotalPrice != nil {
		logger.Warn("ignoring client supplied total price", "total_price", input.TotalPrice.String())
	}

	req := booking.CreateOrderRequest{
		ShowtimeID:    showtimeID,
		SeatLabels:    input.SeatLabels,
		UserID:        caller.UserID,
		PaymentMethod: booking.DefaultPaymentMethod,
	}

	if input.PaymentMethod != nil {
		req.PaymentMethod = string(*input.PaymentMethod)
	}

	if input.Combos != nil {
		req.Combos = make([]domain.ComboRequest, len(*input.Combos))
		for i, c := range *input.Combos {
			req.Combos[i] = domain.ComboRequest{ItemID: c.ItemId, Quantity: c.Quantity}
		}
	}

	order, err := app.engine.CreateOrder(r.Context(), req)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/orders/%s", order.ID))

	err = app.writeJSON(w, http.StatusCreated, api.OrderResponse{Order: toApiOrder(order)}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetOrder(w http.ResponseWriter, r *http.Request, orderID api.OrderId) {
	caller := app.contextMustGetIdentity(r)

	order, err := app.engine.GetOrder(r.Context(), orderID, caller.UserID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.OrderResponse{Order: toApiOrder(order)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) ReleaseOrder(w http.ResponseWriter, r *http.Request, orderID api.OrderId) {
	caller := app.contextMustGetIdentity(r)

	err := app.engine.ReleaseOrder(r.Context(), orderID, caller.UserID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toApiOrder(order *domain.Order) api.Order {
	comboLines := make([]api.ComboLine, len(order.ComboLines))
	for i, line := range order.ComboLines {
		comboLines[i] = api.ComboLine{
			ItemId:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.Total(),
		}
	}

	tickets := make([]api.Ticket, len(order.Tickets))
	for i, ticket := range order.Tickets {
		tickets[i] = api.Ticket{
			Id:        ticket.ID,
			SeatLabel: ticket.SeatLabel,
			Price:     ticket.Price,
			Status:    api.TicketStatus(ticket.Status),
		}
	}

	return api.Order{
		OrderId:    order.ID,
		OrderCode:  order.Code,
		ShowtimeId: order.ShowtimeID,
		SeatLabels: order.SeatLabels,
		ComboLines: comboLines,
		Tickets:    tickets,
		TotalPrice: order.TotalPrice,
		Payment: api.Payment{
			Status:   string(order.Payment.Status),
			Method:   order.Payment.Method,
			Currency: order.Payment.Currency,
		},
		CreatedAt: order.CreatedAt,
	}
}
