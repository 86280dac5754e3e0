package pay

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"krumeku/db"
	"krumeku/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const idempotencyTTL = 24 * time.Hour

func computeRequestHash(r *http.Request, bodyBytes []byte, userID string) string {
	h := sha256.New()
	h.Write([]byte(r.Method + ":" + r.URL.Path + ":" + userID + ":"))
	h.Write(bodyBytes)
	return hex.EncodeToString(h.Sum(nil))
}

// lookupIdempotent returns a previously stored response for the key, if the
// request hash matches. A key reused with a different payload is a conflict.
func lookupIdempotent(ctx context.Context, key, requestHash string) (*models.IdempotencyRecord, bool, error) {
	var rec models.IdempotencyRecord
	err := db.IdempotencyCollection.FindOne(ctx, bson.M{"key": key}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &rec, rec.RequestHash == requestHash, nil
}

func storeIdempotent(ctx context.Context, rec models.IdempotencyRecord) error {
	rec.CreatedAt = time.Now()
	rec.ExpiresAt = rec.CreatedAt.Add(idempotencyTTL)
	_, err := db.IdempotencyCollection.InsertOne(ctx, rec)
	return err
}
