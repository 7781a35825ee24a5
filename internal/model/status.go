package model

type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "Pending"
	PaymentAuthorized PaymentStatus = "Authorized"
	PaymentCaptured   PaymentStatus = "Captured"
	PaymentFailed     PaymentStatus = "Failed"
	PaymentRefunded   PaymentStatus = "Refunded"
)

type PaymentMethod string

const (
	MethodCOD   PaymentMethod = "COD"
	MethodCard  PaymentMethod = "Card"
	MethodVNPay PaymentMethod = "VNPay"
	MethodMoMo  PaymentMethod = "MoMo"
	MethodBank  PaymentMethod = "Bank"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentAuthorized, PaymentCaptured, PaymentFailed},
	PaymentAuthorized: {PaymentCaptured, PaymentFailed},
	PaymentCaptured:   {PaymentRefunded},
	PaymentFailed:     {},
	PaymentRefunded:   {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether the move is allowed. Same-status moves are
// always no-ops and therefore allowed.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	if s == to {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(to PaymentStatus) bool {
	if s == to {
		return true
	}
	for _, allowed := range paymentTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCOD, MethodCard, MethodVNPay, MethodMoMo, MethodBank:
		return true
	}
	return false
}

// InitialPaymentStatus derives the payment status a checkout creates: cash on
// delivery stays Pending until the goods arrive, electronic methods are
// Authorized up front.
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == MethodCOD {
		return PaymentPending
	}
	return PaymentAuthorized
}

// Provider is set only for methods with a named gateway.
func (m PaymentMethod) Provider() string {
	switch m {
	case MethodVNPay:
		return "VNPay"
	case MethodMoMo:
		return "MoMo"
	}
	return ""
}
