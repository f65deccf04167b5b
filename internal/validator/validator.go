package validator

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinema-booking/api"
)

const (
	ErrRequired       = "is required"
	ErrMinLength      = "must contain at least %s item(s)"
	ErrMaxLength      = "must contain at most %s item(s)"
	ErrMinValue       = "must be greater than or equal to %s"
	ErrMaxValue       = "must be less than or equal to %s"
	ErrGreaterThan    = "must be greater than %s"
	ErrUnique         = "must not contain duplicates"
	ErrSeatLabel      = "must be a seat label such as C5"
	ErrPaymentMethod  = "must be one of cash, card, e_wallet"
	ErrRowOutOfRange  = "must reference rows inside the layout"
	ErrDefaultInvalid = "is invalid"
)

var seatLabelRgx = regexp.MustCompile(`^[A-Z]{1,3}[1-9][0-9]{0,2}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seatlabel", validateSeatLabel)
	validator.RegisterValidation("payment_method", validatePaymentMethod)
	validator.RegisterStructValidation(validateRoomLayout, api.RoomLayoutRequest{})

	return validator
}

func validateSeatLabel(fl validator.FieldLevel) bool {
	return seatLabelRgx.MatchString(fl.Field().String())
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	method, ok := fl.Field().Interface().(api.PaymentMethod)
	if !ok {
		return false
	}

	return method == api.PaymentMethodCash || method == api.PaymentMethodCard || method == api.PaymentMethodEWallet
}

// validateRoomLayout rejects VIP rows that fall outside the requested grid.
func validateRoomLayout(sl validator.StructLevel) {
	req := sl.Current().Interface().(api.RoomLayoutRequest)
	if req.VipRows == nil {
		return
	}

	for _, ref := range *req.VipRows {
		if ref.Index() >= req.Rows {
			sl.ReportError(req.VipRows, "vipRows", "VipRows", "row_in_range", ref.String())
			return
		}
	}
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		if isCollection(err.Kind()) {
			return fmt.Sprintf(ErrMinLength, err.Param())
		}
		return fmt.Sprintf(ErrMinValue, err.Param())
	case "max":
		if isCollection(err.Kind()) {
			return fmt.Sprintf(ErrMaxLength, err.Param())
		}
		return fmt.Sprintf(ErrMaxValue, err.Param())
	case "gt":
		return fmt.Sprintf(ErrGreaterThan, err.Param())
	case "unique":
		return ErrUnique
	case "seatlabel":
		return ErrSeatLabel
	case "payment_method":
		return ErrPaymentMethod
	case "row_in_range":
		return ErrRowOutOfRange
	default:
		return ErrDefaultInvalid
	}
}

func isCollection(kind reflect.Kind) bool {
	return kind == reflect.Slice || kind == reflect.Array || kind == reflect.Map || kind == reflect.String
}
