package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"krumeku/db"
	"krumeku/models"
	"krumeku/pricing"
	"krumeku/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func cartSubtotal(ctx context.Context, userID string) (float64, error) {
	cursor, err := db.CartCollection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var items []models.CartItem
	if err := cursor.All(ctx, &items); err != nil {
		return 0, err
	}
	return pricing.Subtotal(items), nil
}

// ApplyCoupon validates a code against the caller's cart and stores it on
// the cart. Usage is NOT consumed here; that happens when the order is
// created, so abandoned carts do not burn the limit.
func ApplyCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	subtotal, err := cartSubtotal(ctx, userID)
	if err != nil {
		log.Println("ApplyCoupon subtotal error:", err)
		http.Error(w, "Could not read cart", http.StatusInternalServerError)
		return
	}

	coupon, discount, err := ResolveForCart(ctx, req.Code, subtotal)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, ErrCouponNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondWithError(w, status, err.Error())
		return
	}

	_, err = db.CartMetaCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"appliedCoupon": coupon.Code}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Println("ApplyCoupon UpdateOne error:", err)
		http.Error(w, "Failed to apply coupon", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"code":     coupon.Code,
		"discount": discount,
	})
}

// RemoveCoupon clears the applied coupon from the caller's cart.
func RemoveCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := db.CartMetaCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$unset": bson.M{"appliedCoupon": ""}},
	); err != nil {
		log.Println("RemoveCoupon UpdateOne error:", err)
		http.Error(w, "Failed to remove coupon", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ===== Admin CRUD =====

func CreateCoupon(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var c models.Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	c.Code = utils.NormalizeCode(c.Code)
	if c.Code == "" || c.Value <= 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}
	if c.Type != models.DiscountPercentage && c.Type != models.DiscountFixed {
		http.Error(w, "Invalid discount type", http.StatusBadRequest)
		return
	}
	c.UsedCount = 0
	c.CreatedAt = time.Now()

	if _, err := db.CouponCollection.InsertOne(ctx, c); err != nil {
		log.Println("CreateCoupon InsertOne error:", err)
		http.Error(w, "Failed to create coupon", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, c)
}

func ListCoupons(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.CouponCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		log.Println("ListCoupons Find error:", err)
		http.Error(w, "Could not retrieve coupons", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Coupon
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("ListCoupons cursor.All error:", err)
		http.Error(w, "Error reading coupons", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Coupon{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

func GetCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	c, err := FindByCode(ctx, ps.ByName("code"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, ErrCouponNotFound.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func UpdateCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	code := utils.NormalizeCode(ps.ByName("code"))

	var patch struct {
		Value          *float64   `json:"value"`
		MaxDiscount    *float64   `json:"maxDiscount"`
		MinOrderAmount *float64   `json:"minOrderAmount"`
		UsageLimit     *int       `json:"usageLimit"`
		ExpiresAt      *time.Time `json:"expiresAt"`
		Active         *bool      `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{}
	if patch.Value != nil {
		set["value"] = *patch.Value
	}
	if patch.MaxDiscount != nil {
		set["maxDiscount"] = *patch.MaxDiscount
	}
	if patch.MinOrderAmount != nil {
		set["minOrderAmount"] = *patch.MinOrderAmount
	}
	if patch.UsageLimit != nil {
		set["usageLimit"] = *patch.UsageLimit
	}
	if patch.ExpiresAt != nil {
		set["expiresAt"] = *patch.ExpiresAt
	}
	if patch.Active != nil {
		set["active"] = *patch.Active
	}
	if len(set) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	res, err := db.CouponCollection.UpdateOne(ctx, bson.M{"code": code}, bson.M{"$set": set})
	if err != nil {
		log.Println("UpdateCoupon UpdateOne error:", err)
		http.Error(w, "Failed to update coupon", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, ErrCouponNotFound.Error())
		return
	}
	InvalidateCache(code)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func DeleteCoupon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	code := utils.NormalizeCode(ps.ByName("code"))
	res, err := db.CouponCollection.DeleteOne(ctx, bson.M{"code": code})
	if err != nil {
		log.Println("DeleteCoupon DeleteOne error:", err)
		http.Error(w, "Failed to delete coupon", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, ErrCouponNotFound.Error())
		return
	}
	InvalidateCache(code)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
