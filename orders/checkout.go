package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"krumeku/cart"
	"krumeku/coupons"
	"krumeku/db"
	"krumeku/models"
	"krumeku/pricing"
	"krumeku/shipping"
	"krumeku/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// snapshotItems freezes cart lines into order items.
func snapshotItems(lines []models.CartItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Size:        l.Size,
			Color:       l.Color,
			Quantity:    l.Quantity,
			Price:       l.Price,
			Image:       l.Image,
		})
	}
	return items
}

// decrementStock reserves stock for every item with a guarded update so a
// concurrent checkout cannot oversell.
func decrementStock(ctx context.Context, items []models.OrderItem) error {
	for _, it := range items {
		res, err := db.ProductCollection.UpdateOne(ctx,
			bson.M{"productId": it.ProductID, "stock": bson.M{"$gte": it.Quantity}},
			bson.M{"$inc": bson.M{"stock": -it.Quantity}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrInsufficientStock
		}
	}
	return nil
}

// CreateOrder snapshots the cart into an order. The bill is recomputed
// server-side; client-sent totals are never trusted. Order insert, coupon
// usage increment, stock reservation, and cart clearing commit in one Mongo
// transaction, so an abandoned or failed checkout consumes nothing.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ShippingAddress *models.Address `json:"shippingAddress"`
		PaymentMethod   string          `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("CreateOrder decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.PaymentMethod == "" {
		http.Error(w, "Payment method is required", http.StatusBadRequest)
		return
	}

	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Println("CreateOrder cart Find error:", err)
		http.Error(w, "Could not read cart", http.StatusInternalServerError)
		return
	}
	var lines []models.CartItem
	if err := cursor.All(ctx, &lines); err != nil {
		log.Println("CreateOrder cursor.All error:", err)
		http.Error(w, "Could not read cart", http.StatusInternalServerError)
		return
	}
	if len(lines) == 0 {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, ErrEmptyCart.Error())
		return
	}

	var meta models.CartState
	_ = db.CartMetaCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&meta)

	addr := req.ShippingAddress
	if addr == nil {
		addr = meta.ShippingAddress
	}
	if addr == nil || addr.Line1 == "" || addr.Pincode == "" {
		http.Error(w, "Shipping address is required", http.StatusBadRequest)
		return
	}

	if ok, _ := shipping.Serviceable(ctx, addr.Pincode); !ok {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, ErrPincodeNotServiceable.Error())
		return
	}

	subtotal := pricing.Subtotal(lines)

	var discount float64
	var couponCode string
	if meta.AppliedCoupon != "" {
		c, d, err := coupons.ResolveForCart(ctx, meta.AppliedCoupon, subtotal)
		if err != nil {
			// Coupon went stale between apply and checkout; fail loudly
			// rather than silently charging more than the cart showed.
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		discount = d
		couponCode = c.Code
	}

	bill := pricing.ComputeBill(lines, discount)
	now := time.Now()

	order := models.Order{
		OrderID:         "ORD-" + utils.GetUUID(),
		UserID:          userID,
		Items:           snapshotItems(lines),
		ShippingAddress: *addr,
		PaymentMethod:   req.PaymentMethod,
		CouponCode:      couponCode,
		ItemsPrice:      bill.CartTotalExclTax,
		DiscountPrice:   bill.DiscountAmount,
		TaxPrice:        bill.GSTAmount,
		ShippingPrice:   bill.Shipping,
		TotalPrice:      bill.FinalTotal,
		OrderStatus:     models.OrderProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	session, err := db.Client.StartSession()
	if err != nil {
		log.Println("CreateOrder StartSession error:", err)
		http.Error(w, "Order creation failed", http.StatusInternalServerError)
		return
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := db.OrderCollection.InsertOne(sc, order); err != nil {
			return nil, err
		}
		// Usage is consumed here, not at apply time, so abandoned carts
		// never burn the limit.
		if couponCode != "" {
			if err := coupons.ConsumeUsage(sc, couponCode); err != nil {
				return nil, err
			}
		}
		if err := decrementStock(sc, order.Items); err != nil {
			return nil, err
		}
		if err := cart.Clear(sc, userID); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, coupons.ErrCouponExhausted) {
			utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Println("CreateOrder transaction error:", err)
		http.Error(w, "Order creation failed", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, order)
}
