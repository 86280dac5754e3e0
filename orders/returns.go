package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"krumeku/db"
	"krumeku/models"
	"krumeku/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// RequestReturn opens a return on a delivered order. Rejected when the
// order is not Delivered, a return already exists, or the 7-day window has
// passed.
func RequestReturn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Type     string `json:"type"` // refund or exchange
		Reason   string `json:"reason"`
		Comments string `json:"comments"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.Type != models.ReturnTypeRefund && req.Type != models.ReturnTypeExchange {
		http.Error(w, "Invalid return type", http.StatusBadRequest)
		return
	}
	if req.Reason == "" {
		http.Error(w, "Reason is required", http.StatusBadRequest)
		return
	}

	order, err := findOrder(ctx, bson.M{"orderId": ps.ByName("id"), "userId": userID})
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	if order.ReturnInfo.IsReturnRequested {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, ErrReturnAlreadyExists.Error())
		return
	}

	now := time.Now()
	from := State{OrderStatus: order.OrderStatus, ReturnStatus: order.ReturnInfo.Status}
	to, err := Transition(from, EventRequestReturn)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}
	if !ReturnEligible(order.DeliveredAt, now) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, ErrReturnWindowExpired.Error())
		return
	}

	// guarded: only flips if still Delivered with no return filed
	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{
			"orderId":                      order.OrderID,
			"orderStatus":                  models.OrderDelivered,
			"returnInfo.isReturnRequested": bson.M{"$ne": true},
		},
		bson.M{"$set": bson.M{
			"orderStatus": to.OrderStatus,
			"updatedAt":   now,
			"returnInfo": models.ReturnInfo{
				IsReturnRequested: true,
				Type:              req.Type,
				Reason:            req.Reason,
				Comments:          req.Comments,
				Status:            to.ReturnStatus,
				RequestedAt:       now,
			},
		}},
	)
	if err != nil {
		log.Println("RequestReturn UpdateOne error:", err)
		http.Error(w, "Order update failed", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, ErrInvalidTransition.Error())
		return
	}

	order, _ = findOrder(ctx, bson.M{"orderId": order.OrderID})
	utils.RespondWithJSON(w, http.StatusOK, order)
}

// ManageReturn is the admin approve/reject/refund trigger.
// Reject returns the order's outward status to Delivered; refund marks the
// order Returned and restocks its items in the same transaction.
func ManageReturn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var req struct {
		Action       string `json:"action"` // approve, reject, refund
		RejectReason string `json:"rejectReason"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	orderID := ps.ByName("id")

	switch req.Action {
	case "approve":
		order, err := applyEvent(ctx, bson.M{"orderId": orderID}, EventApproveReturn, nil)
		if err != nil {
			respondLifecycleError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, order)

	case "reject":
		extra := bson.M{"returnInfo.rejectReason": req.RejectReason}
		order, err := applyEvent(ctx, bson.M{"orderId": orderID}, EventRejectReturn, extra)
		if err != nil {
			respondLifecycleError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, order)

	case "refund":
		order, err := applyEventRestock(ctx, bson.M{"orderId": orderID}, EventRefundReturn)
		if err != nil {
			respondLifecycleError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, order)

	default:
		utils.RespondWithError(w, http.StatusBadRequest, "unknown return action")
	}
}

// restockPlan aggregates the stock increments an order's items owe back to
// inventory, keyed by product. Lines with a nonpositive quantity contribute
// nothing.
func restockPlan(items []models.OrderItem) map[string]int {
	plan := make(map[string]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		plan[it.ProductID] += it.Quantity
	}
	return plan
}

// applyEventRestock runs a terminal lifecycle event (cancel, refund) and
// puts the order's items back in inventory; the guarded status flip and the
// restock commit or roll back together.
func applyEventRestock(ctx context.Context, filter bson.M, e Event) (models.Order, error) {
	order, err := findOrder(ctx, filter)
	if err != nil {
		return models.Order{}, err
	}

	from := State{OrderStatus: order.OrderStatus, ReturnStatus: order.ReturnInfo.Status}
	to, err := Transition(from, e)
	if err != nil {
		return models.Order{}, err
	}

	guard := bson.M{"orderId": order.OrderID, "orderStatus": from.OrderStatus}
	if from.ReturnStatus != "" {
		guard["returnInfo.status"] = from.ReturnStatus
	}
	set := bson.M{
		"orderStatus": to.OrderStatus,
		"updatedAt":   time.Now(),
	}
	if to.ReturnStatus != "" {
		set["returnInfo.status"] = to.ReturnStatus
	}

	session, err := db.Client.StartSession()
	if err != nil {
		return models.Order{}, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := db.OrderCollection.UpdateOne(sc, guard, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrInvalidTransition
		}

		for productID, qty := range restockPlan(order.Items) {
			if _, err := db.ProductCollection.UpdateOne(sc,
				bson.M{"productId": productID},
				bson.M{"$inc": bson.M{"stock": qty}},
			); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return models.Order{}, ErrInvalidTransition
		}
		return models.Order{}, err
	}

	return findOrder(ctx, bson.M{"orderId": order.OrderID})
}
