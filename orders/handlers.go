package orders

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"krumeku/db"
	"krumeku/models"
	"krumeku/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func findOrder(ctx context.Context, filter bson.M) (models.Order, error) {
	var order models.Order
	err := db.OrderCollection.FindOne(ctx, filter).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrOrderNotFound
	}
	return order, err
}

// applyEvent runs one lifecycle event against an order with a guarded
// update: the filter pins the state the transition was computed from, so a
// concurrent change means no partial write, just a rejected transition.
func applyEvent(ctx context.Context, filter bson.M, e Event, extraSet bson.M) (models.Order, error) {
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
	for k, v := range extraSet {
		set[k] = v
	}

	res, err := db.OrderCollection.UpdateOne(ctx, guard, bson.M{"$set": set})
	if err != nil {
		return models.Order{}, err
	}
	if res.MatchedCount == 0 {
		// state moved underneath us
		return models.Order{}, ErrInvalidTransition
	}

	return findOrder(ctx, bson.M{"orderId": order.OrderID})
}

// GetOrders lists the caller's orders, newest first.
func GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	findOptions := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := db.OrderCollection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		log.Println("GetOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("GetOrders cursor.All error:", err)
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetOrder returns a single order owned by the caller.
func GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := findOrder(ctx, bson.M{"orderId": ps.ByName("id"), "userId": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, ErrOrderNotFound.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// CancelOrder is user-triggered and only valid while the order is still
// Processing. Cancelling puts the reserved stock back, in the same
// transaction as the status flip.
func CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := applyEventRestock(ctx,
		bson.M{"orderId": ps.ByName("id"), "userId": userID},
		EventCancel)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateStatus is the admin ship/deliver trigger.
func UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	var event Event
	extra := bson.M{}
	switch req.Status {
	case models.OrderShipped:
		event = EventShip
	case models.OrderDelivered:
		event = EventDeliver
		extra["deliveredAt"] = time.Now()
	default:
		utils.RespondWithError(w, http.StatusBadRequest, ErrInvalidTransition.Error())
		return
	}

	order, err := applyEvent(ctx, bson.M{"orderId": ps.ByName("id")}, event, extra)
	if err != nil {
		respondLifecycleError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

func respondLifecycleError(w http.ResponseWriter, err error) {
	switch err {
	case ErrOrderNotFound:
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case ErrInvalidTransition, ErrReturnWindowExpired, ErrReturnAlreadyExists:
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Println("order lifecycle error:", err)
		http.Error(w, "Order update failed", http.StatusInternalServerError)
	}
}
