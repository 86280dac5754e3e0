package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"krumeku/coupons"
	"krumeku/db"
	"krumeku/models"
	"krumeku/pricing"
	"krumeku/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartView is what GET /cart returns: lines, derived bill, coupon state.
type CartView struct {
	Items         []models.CartItem  `json:"items"`
	Bill          models.BillDetails `json:"bill"`
	AppliedCoupon string             `json:"appliedCoupon,omitempty"`
	CouponRemoved bool               `json:"couponRemoved,omitempty"`
}

func loadLines(ctx context.Context, userID string) ([]models.CartItem, error) {
	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		items = []models.CartItem{}
	}
	return items, nil
}

func loadMeta(ctx context.Context, userID string) models.CartState {
	var meta models.CartState
	err := db.CartMetaCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&meta)
	if err != nil && err != mongo.ErrNoDocuments {
		log.Println("cart loadMeta error:", err)
	}
	meta.UserID = userID
	return meta
}

func clearCoupon(ctx context.Context, userID string) {
	if _, err := db.CartMetaCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$unset": bson.M{"appliedCoupon": ""}},
	); err != nil {
		log.Println("cart clearCoupon error:", err)
	}
}

// buildView recomputes the bill and re-checks the applied coupon. If the
// coupon no longer validates (typically the subtotal fell under its
// minimum), it is cleared and the view carries a couponRemoved notice
// instead of the mutation failing.
func buildView(ctx context.Context, userID string) (CartView, error) {
	items, err := loadLines(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	meta := loadMeta(ctx, userID)

	var discount float64
	view := CartView{Items: items, AppliedCoupon: meta.AppliedCoupon}

	if meta.AppliedCoupon != "" {
		subtotal := pricing.Subtotal(items)
		_, d, err := coupons.ResolveForCart(ctx, meta.AppliedCoupon, subtotal)
		if err != nil {
			clearCoupon(ctx, userID)
			view.AppliedCoupon = ""
			view.CouponRemoved = true
		} else {
			discount = d
		}
	}

	view.Bill = pricing.ComputeBill(items, discount)
	return view, nil
}

func respondWithView(ctx context.Context, w http.ResponseWriter, userID string, status int) {
	view, err := buildView(ctx, userID)
	if err != nil {
		log.Println("cart buildView error:", err)
		http.Error(w, "Could not read cart", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, status, view)
}

// GetCart returns the cart lines plus the recomputed bill.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	respondWithView(ctx, w, userID, http.StatusOK)
}

// AddToCart merges the variant into an existing line via upsert, freezing
// the unit price on first insert.
func AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ProductID string `json:"productId"`
		Size      string `json:"size"`
		Color     string `json:"color"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productId": req.ProductID, "active": true}).Decode(&product)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	filter := bson.M{
		"userId":    userID,
		"productId": req.ProductID,
		"size":      req.Size,
		"color":     req.Color,
	}
	var image string
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	update := bson.M{
		"$inc": bson.M{"quantity": req.Quantity},
		"$setOnInsert": bson.M{
			"lineId":      utils.GenerateRandomString(16),
			"productName": product.Name,
			"price":       product.Price,
			"image":       image,
			"addedAt":     time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := db.CartCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Println("AddToCart UpdateOne error:", err)
		http.Error(w, "Failed to add to cart", http.StatusInternalServerError)
		return
	}

	respondWithView(ctx, w, userID, http.StatusCreated)
}

// UpdateQuantity applies a delta to a line, clamped at 1. Dropping to zero
// requires the explicit remove endpoint.
func UpdateQuantity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		LineID string `json:"lineId"`
		Delta  int    `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LineID == "" {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	var line models.CartItem
	err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID, "lineId": req.LineID}).Decode(&line)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, ErrLineNotFound.Error())
		return
	}

	newQty := ClampQuantity(line.Quantity, req.Delta)
	if _, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"userId": userID, "lineId": req.LineID},
		bson.M{"$set": bson.M{"quantity": newQty}},
	); err != nil {
		log.Println("UpdateQuantity UpdateOne error:", err)
		http.Error(w, "Failed to update cart", http.StatusInternalServerError)
		return
	}

	respondWithView(ctx, w, userID, http.StatusOK)
}

// UpdateSize changes a line's size, merging into an existing line of the
// target variant. The frozen unit price carries over unchanged.
func UpdateSize(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		LineID string `json:"lineId"`
		Size   string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LineID == "" {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	var line models.CartItem
	err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID, "lineId": req.LineID}).Decode(&line)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, ErrLineNotFound.Error())
		return
	}

	// Merge when a line for the target variant already exists.
	var target models.CartItem
	err = db.CartCollection.FindOne(ctx, bson.M{
		"userId":    userID,
		"productId": line.ProductID,
		"size":      req.Size,
		"color":     line.Color,
	}).Decode(&target)
	if err == nil && target.LineID != line.LineID {
		// the source delete and the target increment commit together so a
		// failure between them cannot double-count the quantity
		session, err := db.Client.StartSession()
		if err != nil {
			log.Println("UpdateSize session error:", err)
			http.Error(w, "Failed to update cart", http.StatusInternalServerError)
			return
		}
		defer session.EndSession(ctx)

		_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			if _, err := db.CartCollection.DeleteOne(sc, bson.M{"userId": userID, "lineId": line.LineID}); err != nil {
				return nil, err
			}
			_, err := db.CartCollection.UpdateOne(sc,
				bson.M{"userId": userID, "lineId": target.LineID},
				bson.M{"$inc": bson.M{"quantity": line.Quantity}},
			)
			return nil, err
		})
		if err != nil {
			log.Println("UpdateSize merge error:", err)
			http.Error(w, "Failed to update cart", http.StatusInternalServerError)
			return
		}
	} else {
		if _, err := db.CartCollection.UpdateOne(ctx,
			bson.M{"userId": userID, "lineId": req.LineID},
			bson.M{"$set": bson.M{"size": req.Size}},
		); err != nil {
			log.Println("UpdateSize UpdateOne error:", err)
			http.Error(w, "Failed to update cart", http.StatusInternalServerError)
			return
		}
	}

	respondWithView(ctx, w, userID, http.StatusOK)
}

// RemoveItem deletes a line; an emptied cart also loses its coupon and
// remembered shipping address.
func RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lineID := ps.ByName("id")
	res, err := db.CartCollection.DeleteOne(ctx, bson.M{"userId": userID, "lineId": lineID})
	if err != nil {
		log.Println("RemoveItem DeleteOne error:", err)
		http.Error(w, "Failed to remove item", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, ErrLineNotFound.Error())
		return
	}

	count, err := db.CartCollection.CountDocuments(ctx, bson.M{"userId": userID})
	if err == nil && count == 0 {
		if _, err := db.CartMetaCollection.DeleteOne(ctx, bson.M{"userId": userID}); err != nil {
			log.Println("RemoveItem meta cleanup error:", err)
		}
	}

	respondWithView(ctx, w, userID, http.StatusOK)
}

// ClearCart wipes lines and cart metadata; called after order placement and
// on logout.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := Clear(ctx, userID); err != nil {
		log.Println("ClearCart error:", err)
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Clear removes all lines and metadata for a user. Also invoked by checkout
// inside its transaction.
func Clear(ctx context.Context, userID string) error {
	if _, err := db.CartCollection.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return err
	}
	_, err := db.CartMetaCollection.DeleteOne(ctx, bson.M{"userId": userID})
	return err
}

// SaveAddress persists the checkout shipping address on the cart metadata.
func SaveAddress(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var addr models.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if addr.Line1 == "" || addr.City == "" || addr.Pincode == "" {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	if _, err := db.CartMetaCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"shippingAddress": addr}},
		options.Update().SetUpsert(true),
	); err != nil {
		log.Println("SaveAddress UpdateOne error:", err)
		http.Error(w, "Failed to save address", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
