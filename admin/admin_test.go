package admin

import (
	"testing"
	"time"

	"krumeku/models"
)

func returnOrder(id, status string, requestedAt time.Time) models.Order {
	return models.Order{
		OrderID: id,
		ReturnInfo: models.ReturnInfo{
			IsReturnRequested: true,
			Status:            status,
			RequestedAt:       requestedAt,
		},
	}
}

func TestSortReturnQueuePendingFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	list := []models.Order{
		returnOrder("o-refunded", models.ReturnRefunded, base),
		returnOrder("o-approved", models.ReturnApproved, base.Add(time.Hour)),
		returnOrder("o-pending-late", models.ReturnPending, base.Add(2*time.Hour)),
		returnOrder("o-rejected", models.ReturnRejected, base),
		returnOrder("o-pending-early", models.ReturnPending, base),
	}

	sortReturnQueue(list)

	want := []string{"o-pending-early", "o-pending-late", "o-approved", "o-refunded", "o-rejected"}
	for i, id := range want {
		if list[i].OrderID != id {
			t.Fatalf("position %d = %s, want %s (order: %v)", i, list[i].OrderID, id, orderIDs(list))
		}
	}
}

func orderIDs(list []models.Order) []string {
	ids := make([]string, len(list))
	for i, o := range list {
		ids[i] = o.OrderID
	}
	return ids
}
