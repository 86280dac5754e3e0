package pay

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"krumeku/db"
	"krumeku/models"
	"krumeku/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// ConfirmPayment records a gateway confirmation against an order and marks
// it paid. The gateway protocol itself lives upstream; only the reference
// and method are recorded here. Replays with the same Idempotency-Key
// return the stored response instead of re-processing.
func ConfirmPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var conf models.PaymentConfirmation
	if err := json.Unmarshal(bodyBytes, &conf); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if conf.OrderID == "" || conf.PaymentRef == "" || conf.Method == "" {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	requestHash := computeRequestHash(r, bodyBytes, userID)
	if idemKey != "" {
		rec, matches, err := lookupIdempotent(ctx, idemKey, requestHash)
		if err != nil {
			log.Println("ConfirmPayment idempotency lookup error:", err)
		} else if rec != nil {
			if !matches {
				http.Error(w, "Idempotency key reused with different payload", http.StatusConflict)
				return
			}
			utils.RespondWithJSON(w, rec.StatusCode, rec.Response)
			return
		}
	}

	now := time.Now()
	receiptNo := "RCPT-" + utils.GenerateRandomDigitString(10)
	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderId": conf.OrderID, "userId": userID, "isPaid": false},
		bson.M{"$set": bson.M{
			"isPaid":        true,
			"paidAt":        now,
			"paymentMethod": conf.Method,
			"paymentRef":    conf.PaymentRef,
			"receiptNo":     receiptNo,
			"updatedAt":     now,
		}},
	)
	if err != nil {
		log.Println("ConfirmPayment UpdateOne error:", err)
		http.Error(w, "Payment recording failed", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "order not found or already paid")
		return
	}

	response := map[string]interface{}{
		"orderId":    conf.OrderID,
		"isPaid":     true,
		"paymentRef": conf.PaymentRef,
		"receiptNo":  receiptNo,
	}

	if idemKey != "" {
		if err := storeIdempotent(ctx, models.IdempotencyRecord{
			Key:         idemKey,
			Method:      r.Method,
			Path:        r.URL.Path,
			UserID:      userID,
			RequestHash: requestHash,
			Response:    response,
			StatusCode:  http.StatusOK,
		}); err != nil {
			log.Println("ConfirmPayment idempotency store error:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}
