package admin

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"krumeku/db"
	"krumeku/models"
	"krumeku/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListOrders returns all orders for the admin dashboard, optionally
// filtered by ?status=.
func ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["orderStatus"] = status
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	findOptions := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := db.OrderCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("admin ListOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("admin ListOrders cursor.All error:", err)
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// returnQueueRank orders the review queue: undecided requests come first,
// then approved ones awaiting refund, then the closed ones.
func returnQueueRank(status string) int {
	switch status {
	case models.ReturnPending:
		return 0
	case models.ReturnApproved:
		return 1
	default:
		return 2
	}
}

func sortReturnQueue(list []models.Order) {
	sort.SliceStable(list, func(i, j int) bool {
		ri := returnQueueRank(list[i].ReturnInfo.Status)
		rj := returnQueueRank(list[j].ReturnInfo.Status)
		if ri != rj {
			return ri < rj
		}
		return list[i].ReturnInfo.RequestedAt.Before(list[j].ReturnInfo.RequestedAt)
	})
}

// ListReturns returns orders with an open return request, pending first and
// oldest request first within each status.
func ListReturns(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"returnInfo.isReturnRequested": true}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["returnInfo.status"] = status
	}

	cursor, err := db.OrderCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"returnInfo.requestedAt": 1}))
	if err != nil {
		log.Println("admin ListReturns Find error:", err)
		http.Error(w, "Could not retrieve returns", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("admin ListReturns cursor.All error:", err)
		http.Error(w, "Error reading returns", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Order{}
	}
	sortReturnQueue(list)

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// PurgeOrder permanently removes an order. Orders are otherwise never
// deleted; this is the explicit admin escape hatch.
func PurgeOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.OrderCollection.DeleteOne(ctx, bson.M{"orderId": ps.ByName("id")})
	if err != nil {
		log.Println("admin PurgeOrder DeleteOne error:", err)
		http.Error(w, "Failed to delete order", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// CouponStats summarizes coupon usage for the dashboard.
func CouponStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.CouponCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Println("admin CouponStats Find error:", err)
		http.Error(w, "Could not retrieve coupons", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var coupons []models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		log.Println("admin CouponStats cursor.All error:", err)
		http.Error(w, "Error reading coupons", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	stats := make([]utils.M, 0, len(coupons))
	for _, c := range coupons {
		remaining := 0
		if c.UsageLimit > 0 {
			remaining = c.UsageLimit - c.UsedCount
			if remaining < 0 {
				remaining = 0
			}
		}
		stats = append(stats, utils.M{
			"code":      c.Code,
			"usedCount": c.UsedCount,
			"remaining": remaining,
			"expired":   now.After(c.ExpiresAt),
			"active":    c.Active,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}
