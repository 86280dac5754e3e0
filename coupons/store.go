package coupons

import (
	"context"
	"encoding/json"
	"time"

	"krumeku/db"
	"krumeku/models"
	"krumeku/rdx"
	"krumeku/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const cacheTTL = 5 * time.Minute

func cacheKey(code string) string {
	return "coupon:" + code
}

// FindByCode loads a coupon by normalized code, reading through the Redis
// cache. The cache holds the coupon document, not its validity: usedCount
// read from cache may lag, which is safe because checkout re-checks the
// limit with a guarded update.
func FindByCode(ctx context.Context, code string) (models.Coupon, error) {
	code = utils.NormalizeCode(code)
	if code == "" {
		return models.Coupon{}, ErrCouponNotFound
	}

	if cached, ok := rdx.Get(cacheKey(code)); ok {
		var c models.Coupon
		if err := json.Unmarshal([]byte(cached), &c); err == nil {
			return c, nil
		}
	}

	var c models.Coupon
	err := db.CouponCollection.FindOne(ctx, bson.M{"code": code}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return models.Coupon{}, ErrCouponNotFound
	}
	if err != nil {
		return models.Coupon{}, err
	}

	if data, err := json.Marshal(c); err == nil {
		rdx.SetWithTTL(cacheKey(code), string(data), cacheTTL)
	}
	return c, nil
}

// InvalidateCache drops the cached copy after an admin edit or a usage
// increment.
func InvalidateCache(code string) {
	rdx.Del(cacheKey(utils.NormalizeCode(code)))
}

// ResolveForCart validates the code against the subtotal and returns the
// coupon together with the discount it grants.
func ResolveForCart(ctx context.Context, code string, cartSubtotal float64) (models.Coupon, float64, error) {
	c, err := FindByCode(ctx, code)
	if err != nil {
		return models.Coupon{}, 0, err
	}
	if err := Validate(c, cartSubtotal, time.Now()); err != nil {
		return models.Coupon{}, 0, err
	}
	return c, DiscountFor(c, cartSubtotal), nil
}

// usageGuardFilter matches a coupon only while it still has usage left: a
// nonpositive usageLimit means unlimited, otherwise usedCount must be
// strictly below the limit at the moment of the update.
func usageGuardFilter(code string) bson.M {
	return bson.M{
		"code": code,
		"$or": []bson.M{
			{"usageLimit": bson.M{"$lte": 0}},
			{"$expr": bson.M{"$lt": []string{"$usedCount", "$usageLimit"}}},
		},
	}
}

// ConsumeUsage increments usedCount with a usage-limit guard. It runs inside
// the checkout transaction so abandoned carts never consume usage, and the
// guard keeps usedCount ≤ usageLimit even under concurrent checkouts.
func ConsumeUsage(ctx context.Context, code string) error {
	code = utils.NormalizeCode(code)
	res, err := db.CouponCollection.UpdateOne(ctx, usageGuardFilter(code), bson.M{"$inc": bson.M{"usedCount": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCouponExhausted
	}
	InvalidateCache(code)
	return nil
}
