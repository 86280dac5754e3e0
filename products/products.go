package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"krumeku/db"
	"krumeku/models"
	"krumeku/rdx"
	"krumeku/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListProducts returns active products, with optional ?category= and
// ?search= filters.
func ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"active": true}
	if cat := r.URL.Query().Get("category"); cat != "" {
		filter["category"] = cat
	}
	if q := r.URL.Query().Get("search"); q != "" {
		filter["name"] = bson.M{"$regex": q, "$options": "i"}
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 24
	}
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	findOptions := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := db.ProductCollection.Find(ctx, filter, findOptions)
	if err != nil {
		log.Println("ListProducts Find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("ListProducts cursor.All error:", err)
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}
	if len(list) == 0 {
		list = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

const (
	recentlyViewedMax = 10
	recentlyViewedTTL = 30 * 24 * time.Hour
)

func recentKey(userID string) string {
	return "recent:" + userID
}

// GetProduct serves a product page. Signed-in browsers get the view
// remembered for their recently-viewed list; anonymous ones don't.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productId": ps.ByName("id")}).Decode(&product)
	if err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		rdx.PushCapped(recentKey(userID), product.ProductID, recentlyViewedMax, recentlyViewedTTL)
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// RecentlyViewed lists the caller's last viewed products, newest first.
// Products deactivated since the visit drop out of the list.
func RecentlyViewed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ids := rdx.Range(recentKey(userID), recentlyViewedMax)
	if len(ids) == 0 {
		utils.RespondWithJSON(w, http.StatusOK, []models.Product{})
		return
	}

	cursor, err := db.ProductCollection.Find(ctx, bson.M{
		"productId": bson.M{"$in": ids},
		"active":    true,
	})
	if err != nil {
		log.Println("RecentlyViewed Find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var found []models.Product
	if err := cursor.All(ctx, &found); err != nil {
		log.Println("RecentlyViewed cursor.All error:", err)
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, orderByViews(ids, found))
}

// orderByViews sorts fetched products into the Redis visit order.
func orderByViews(ids []string, found []models.Product) []models.Product {
	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ProductID] = p
	}
	ordered := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// CreateProduct is admin-only.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		log.Println("CreateProduct decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if product.Name == "" || product.Price <= 0 || product.Category == "" {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	product.ProductID = utils.GetUUID()
	product.Active = true
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct is admin-only; stock changes here are absolute sets, the
// checkout/refund paths adjust stock with atomic increments.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var patch struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Category    *string   `json:"category"`
		Price       *float64  `json:"price"`
		Sizes       *[]string `json:"sizes"`
		Colors      *[]string `json:"colors"`
		Stock       *int      `json:"stock"`
		Images      *[]string `json:"images"`
		Active      *bool     `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Price != nil {
		if *patch.Price <= 0 {
			http.Error(w, "Invalid price", http.StatusBadRequest)
			return
		}
		set["price"] = *patch.Price
	}
	if patch.Sizes != nil {
		set["sizes"] = *patch.Sizes
	}
	if patch.Colors != nil {
		set["colors"] = *patch.Colors
	}
	if patch.Stock != nil {
		set["stock"] = *patch.Stock
	}
	if patch.Images != nil {
		set["images"] = *patch.Images
	}
	if patch.Active != nil {
		set["active"] = *patch.Active
	}

	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productId": ps.ByName("id")},
		bson.M{"$set": set},
	)
	if err != nil {
		log.Println("UpdateProduct UpdateOne error:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteProduct deactivates rather than removes, so order snapshots keep
// resolving.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productId": ps.ByName("id")},
		bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		log.Println("DeleteProduct UpdateOne error:", err)
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
