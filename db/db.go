package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	ProductCollection     *mongo.Collection
	CartCollection        *mongo.Collection
	CartMetaCollection    *mongo.Collection
	CouponCollection      *mongo.Collection
	OrderCollection       *mongo.Collection
	PincodeCollection     *mongo.Collection
	IdempotencyCollection *mongo.Collection
	Client                *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("krumeku")
	UserCollection = database.Collection("users")
	ProductCollection = database.Collection("products")
	CartCollection = database.Collection("cart")
	CartMetaCollection = database.Collection("cartmeta")
	CouponCollection = database.Collection("coupons")
	OrderCollection = database.Collection("orders")
	PincodeCollection = database.Collection("pincodes")
	IdempotencyCollection = database.Collection("idempotency")
}

// EnsureIndexes creates the indexes the handlers rely on: unique coupon
// codes, one cart line per (user, product, size, color), and the TTL'd
// idempotency keys.
func EnsureIndexes(ctx context.Context) error {
	couponIdx := []mongo.IndexModel{
		{
			Keys:    bson.M{"code": 1},
			Options: options.Index().SetUnique(true).SetName("unique_coupon_code"),
		},
	}
	if _, err := CouponCollection.Indexes().CreateMany(ctx, couponIdx); err != nil {
		return err
	}

	cartIdx := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "productId", Value: 1},
				{Key: "size", Value: 1},
				{Key: "color", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("unique_cart_line"),
		},
	}
	if _, err := CartCollection.Indexes().CreateMany(ctx, cartIdx); err != nil {
		return err
	}

	idemIdx := []mongo.IndexModel{
		{
			Keys:    bson.M{"key": 1},
			Options: options.Index().SetUnique(true).SetName("unique_key"),
		},
		{
			Keys:    bson.M{"expires_at": 1},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_expires_at"),
		},
	}
	_, err := IdempotencyCollection.Indexes().CreateMany(ctx, idemIdx)
	return err
}
