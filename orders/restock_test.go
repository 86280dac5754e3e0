package orders

import (
	"testing"

	"krumeku/models"
)

func TestRestockPlanAggregatesVariants(t *testing.T) {
	// one product in two sizes, plus a second product
	items := []models.OrderItem{
		{ProductID: "p1", Size: "M", Quantity: 2},
		{ProductID: "p1", Size: "L", Quantity: 1},
		{ProductID: "p2", Size: "S", Quantity: 4},
	}

	plan := restockPlan(items)
	if len(plan) != 2 {
		t.Fatalf("restockPlan has %d products, want 2", len(plan))
	}
	if plan["p1"] != 3 {
		t.Errorf("plan[p1] = %d, want 3", plan["p1"])
	}
	if plan["p2"] != 4 {
		t.Errorf("plan[p2] = %d, want 4", plan["p2"])
	}
}

func TestRestockPlanSkipsNonpositiveQuantities(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: "p1", Quantity: 0},
		{ProductID: "p2", Quantity: -1},
		{ProductID: "p3", Quantity: 1},
	}

	plan := restockPlan(items)
	if len(plan) != 1 || plan["p3"] != 1 {
		t.Errorf("restockPlan = %v, want only p3:1", plan)
	}
}

func TestRestockPlanEmptyOrder(t *testing.T) {
	if plan := restockPlan(nil); len(plan) != 0 {
		t.Errorf("restockPlan(nil) = %v, want empty", plan)
	}
}

// Cancelling and refunding are the two events that return stock; both must
// be reachable terminal transitions so the restock path actually runs.
func TestRestockEventsAreTerminal(t *testing.T) {
	cancelled, err := Transition(State{models.OrderProcessing, ""}, EventCancel)
	if err != nil {
		t.Fatalf("cancel from Processing: %v", err)
	}
	if cancelled.OrderStatus != models.OrderCancelled {
		t.Errorf("cancel → %v, want Cancelled", cancelled)
	}

	refunded, err := Transition(State{models.OrderReturnRequested, models.ReturnApproved}, EventRefundReturn)
	if err != nil {
		t.Fatalf("refund from Approved: %v", err)
	}
	if refunded.OrderStatus != models.OrderReturned || refunded.ReturnStatus != models.ReturnRefunded {
		t.Errorf("refund → %v, want Returned/Refunded", refunded)
	}

	// both end states accept no further events
	for _, s := range []State{cancelled, refunded} {
		for _, e := range []Event{EventShip, EventDeliver, EventCancel, EventRequestReturn} {
			if _, err := Transition(s, e); err != ErrInvalidTransition {
				t.Errorf("Transition(%v, %s) err = %v, want ErrInvalidTransition", s, e, err)
			}
		}
	}
}
