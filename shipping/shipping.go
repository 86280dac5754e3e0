package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"krumeku/db"
	"krumeku/models"
	"krumeku/rdx"
	"krumeku/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const cacheTTL = time.Hour

func cacheKey(code string) string {
	return "pincode:" + code
}

// Lookup resolves a pincode against the serviceability table, reading
// through the Redis cache. Unknown pincodes are not serviceable.
func Lookup(ctx context.Context, code string) (models.Pincode, error) {
	if cached, ok := rdx.Get(cacheKey(code)); ok {
		var p models.Pincode
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			return p, nil
		}
	}

	var p models.Pincode
	err := db.PincodeCollection.FindOne(ctx, bson.M{"code": code}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		p = models.Pincode{Code: code, Serviceable: false}
	} else if err != nil {
		return models.Pincode{}, err
	}

	if data, err := json.Marshal(p); err == nil {
		rdx.SetWithTTL(cacheKey(code), string(data), cacheTTL)
	}
	return p, nil
}

// Serviceable is the checkout-facing yes/no check.
func Serviceable(ctx context.Context, code string) (bool, error) {
	p, err := Lookup(ctx, code)
	if err != nil {
		return false, err
	}
	return p.Serviceable, nil
}

// CheckPincode returns serviceability and an estimated delivery date for
// the storefront's pincode widget.
func CheckPincode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	code := ps.ByName("code")
	if len(code) != 6 {
		http.Error(w, "Invalid pincode", http.StatusBadRequest)
		return
	}

	p, err := Lookup(ctx, code)
	if err != nil {
		log.Println("CheckPincode lookup error:", err)
		http.Error(w, "Lookup failed", http.StatusInternalServerError)
		return
	}

	resp := utils.M{
		"pincode":     p.Code,
		"serviceable": p.Serviceable,
	}
	if p.Serviceable {
		eta := time.Now().AddDate(0, 0, p.ETADays)
		resp["city"] = p.City
		resp["state"] = p.State
		resp["estimatedDelivery"] = fmt.Sprintf("Delivery by %s", eta.Format("Mon, 02 Jan"))
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}
