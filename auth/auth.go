package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"krumeku/db"
	"krumeku/globals"
	"krumeku/middleware"
	"krumeku/models"
	"krumeku/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

func generateAccessToken(user models.User) (string, error) {
	claims := middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// Signup creates a user with the "user" role and returns a token.
func Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || len(req.Password) < 8 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	err := db.UserCollection.FindOne(ctx, bson.M{
		"$or": []bson.M{{"username": req.Username}, {"email": req.Email}},
	}).Err()
	if err == nil {
		utils.RespondWithError(w, http.StatusConflict, "username or email already taken")
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Println("Signup lookup error:", err)
		http.Error(w, "Signup failed", http.StatusInternalServerError)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Signup bcrypt error:", err)
		http.Error(w, "Signup failed", http.StatusInternalServerError)
		return
	}

	user := models.User{
		UserID:       utils.GetUUID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         []string{"user"},
		CreatedAt:    time.Now(),
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		log.Println("Signup InsertOne error:", err)
		http.Error(w, "Signup failed", http.StatusInternalServerError)
		return
	}

	token, err := generateAccessToken(user)
	if err != nil {
		log.Println("Signup token error:", err)
		http.Error(w, "Signup failed", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"token": token,
		"user":  user,
	})
}

// Login verifies credentials and returns a token.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"username": req.Username}).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := generateAccessToken(user)
	if err != nil {
		log.Println("Login token error:", err)
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	); err != nil {
		log.Println("Login last_login update error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token": token,
		"user":  user,
	})
}
