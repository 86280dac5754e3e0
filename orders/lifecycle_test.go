package orders

import (
	"testing"
	"time"

	"krumeku/models"
)

func TestTransitionHappyPath(t *testing.T) {
	s := State{OrderStatus: models.OrderProcessing}

	steps := []struct {
		event Event
		want  State
	}{
		{EventShip, State{models.OrderShipped, ""}},
		{EventDeliver, State{models.OrderDelivered, ""}},
		{EventRequestReturn, State{models.OrderReturnRequested, models.ReturnPending}},
		{EventApproveReturn, State{models.OrderReturnRequested, models.ReturnApproved}},
		{EventRefundReturn, State{models.OrderReturned, models.ReturnRefunded}},
	}
	for _, step := range steps {
		next, err := Transition(s, step.event)
		if err != nil {
			t.Fatalf("Transition(%v, %s) error: %v", s, step.event, err)
		}
		if next != step.want {
			t.Fatalf("Transition(%v, %s) = %v, want %v", s, step.event, next, step.want)
		}
		s = next
	}
}

func TestTransitionCancelOnlyFromProcessing(t *testing.T) {
	if _, err := Transition(State{models.OrderProcessing, ""}, EventCancel); err != nil {
		t.Errorf("cancel from Processing should succeed, got %v", err)
	}
	for _, status := range []string{models.OrderShipped, models.OrderDelivered, models.OrderCancelled, models.OrderReturned} {
		if _, err := Transition(State{status, ""}, EventCancel); err != ErrInvalidTransition {
			t.Errorf("cancel from %s: err = %v, want ErrInvalidTransition", status, err)
		}
	}
}

func TestTransitionRejectReturnsToDelivered(t *testing.T) {
	next, err := Transition(State{models.OrderReturnRequested, models.ReturnPending}, EventRejectReturn)
	if err != nil {
		t.Fatal(err)
	}
	if next.OrderStatus != models.OrderDelivered || next.ReturnStatus != models.ReturnRejected {
		t.Errorf("reject → %v, want Delivered/Rejected", next)
	}
}

func TestTransitionRefundRequiresApproval(t *testing.T) {
	// refund straight from Pending is rejected
	s := State{models.OrderReturnRequested, models.ReturnPending}
	if _, err := Transition(s, EventRefundReturn); err != ErrInvalidTransition {
		t.Errorf("refund from Pending: err = %v, want ErrInvalidTransition", err)
	}

	// from Approved it lands on Returned/Refunded
	s = State{models.OrderReturnRequested, models.ReturnApproved}
	next, err := Transition(s, EventRefundReturn)
	if err != nil {
		t.Fatal(err)
	}
	if next.OrderStatus != models.OrderReturned {
		t.Errorf("outward status = %s, want %s", next.OrderStatus, models.OrderReturned)
	}
}

func TestTransitionStateUnchangedOnRejection(t *testing.T) {
	s := State{models.OrderCancelled, ""}
	next, err := Transition(s, EventShip)
	if err != ErrInvalidTransition {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if next != s {
		t.Errorf("state changed on rejected transition: %v → %v", s, next)
	}
}

// Every (state, event) pair outside the declared table must reject.
func TestTransitionTableIsClosed(t *testing.T) {
	states := []State{
		{models.OrderProcessing, ""},
		{models.OrderShipped, ""},
		{models.OrderDelivered, ""},
		{models.OrderCancelled, ""},
		{models.OrderReturnRequested, models.ReturnPending},
		{models.OrderReturnRequested, models.ReturnApproved},
		{models.OrderDelivered, models.ReturnRejected},
		{models.OrderReturned, models.ReturnRefunded},
	}
	events := []Event{
		EventShip, EventDeliver, EventCancel,
		EventRequestReturn, EventApproveReturn, EventRejectReturn, EventRefundReturn,
	}

	for _, s := range states {
		for _, e := range events {
			_, allowed := transitions[s][e]
			next, err := Transition(s, e)
			if allowed && err != nil {
				t.Errorf("declared transition (%v, %s) rejected: %v", s, e, err)
			}
			if !allowed {
				if err != ErrInvalidTransition {
					t.Errorf("undeclared transition (%v, %s) accepted → %v", s, e, next)
				}
			}
		}
	}
}

func TestReturnEligible(t *testing.T) {
	now := time.Now()

	if !ReturnEligible(now.Add(-6*24*time.Hour), now) {
		t.Error("6 days after delivery should be eligible")
	}
	if !ReturnEligible(now.Add(-7*24*time.Hour), now) {
		t.Error("exactly 7 days after delivery should be eligible")
	}
	if ReturnEligible(now.Add(-8*24*time.Hour), now) {
		t.Error("8 days after delivery should be expired")
	}
	if ReturnEligible(time.Time{}, now) {
		t.Error("zero deliveredAt should never be eligible")
	}
}
