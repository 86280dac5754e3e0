package orders

import (
	"errors"
	"time"

	"krumeku/models"
)

// ReturnWindow is how long after delivery a return may be requested.
const ReturnWindow = 7 * 24 * time.Hour

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidTransition     = errors.New("invalid order status transition")
	ErrReturnWindowExpired   = errors.New("return window has expired")
	ErrReturnAlreadyExists   = errors.New("a return was already requested for this order")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrPincodeNotServiceable = errors.New("pincode is not serviceable")
)

// Event is a lifecycle trigger fired by a user or admin action.
type Event string

const (
	EventShip          Event = "ship"
	EventDeliver       Event = "deliver"
	EventCancel        Event = "cancel"
	EventRequestReturn Event = "request_return"
	EventApproveReturn Event = "approve_return"
	EventRejectReturn  Event = "reject_return"
	EventRefundReturn  Event = "refund_return"
)

// State is the pair of outward order status and return sub-status that the
// lifecycle acts on.
type State struct {
	OrderStatus  string
	ReturnStatus string
}

// transitions is the whole lifecycle: every (state, event) pair not listed
// here is rejected. Cancelled, Refunded, and Rejected (with the order back
// at Delivered) are terminal.
var transitions = map[State]map[Event]State{
	{models.OrderProcessing, ""}: {
		EventShip:   {models.OrderShipped, ""},
		EventCancel: {models.OrderCancelled, ""},
	},
	{models.OrderShipped, ""}: {
		EventDeliver: {models.OrderDelivered, ""},
	},
	{models.OrderDelivered, ""}: {
		EventRequestReturn: {models.OrderReturnRequested, models.ReturnPending},
	},
	{models.OrderReturnRequested, models.ReturnPending}: {
		EventApproveReturn: {models.OrderReturnRequested, models.ReturnApproved},
		EventRejectReturn:  {models.OrderDelivered, models.ReturnRejected},
	},
	{models.OrderReturnRequested, models.ReturnApproved}: {
		EventRefundReturn: {models.OrderReturned, models.ReturnRefunded},
	},
}

// Transition returns the successor state for an event, or
// ErrInvalidTransition with the state unchanged.
func Transition(s State, e Event) (State, error) {
	if next, ok := transitions[s][e]; ok {
		return next, nil
	}
	return s, ErrInvalidTransition
}

// ReturnEligible checks the 7-day window against the delivery timestamp.
func ReturnEligible(deliveredAt, now time.Time) bool {
	if deliveredAt.IsZero() {
		return false
	}
	return now.Sub(deliveredAt) <= ReturnWindow
}
