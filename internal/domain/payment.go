package domain

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCanceled  PaymentStatus = "canceled"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

const DefaultCurrency = "VND"

// Payment is the payment metadata attached to an order. Settlement happens
// outside of this service; orders start out pending.
type Payment struct {
	Status   PaymentStatus
	Method   string
	Currency string
}

func NewPendingPayment(method string) Payment {
	return Payment{
		Status:   PaymentStatusPending,
		Method:   method,
		Currency: DefaultCurrency,
	}
}
