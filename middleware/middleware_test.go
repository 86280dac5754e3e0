package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"krumeku/globals"
	"krumeku/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signedHeader(t *testing.T, userID string, roles []string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		Username: "tester",
		UserID:   userID,
		Role:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func TestValidateJWTRoundTrip(t *testing.T) {
	header := signedHeader(t, "u1", []string{"user"}, time.Hour)

	claims, err := ValidateJWT(header)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", claims.UserID)
	}
	if len(claims.Role) != 1 || claims.Role[0] != "user" {
		t.Errorf("Role = %v, want [user]", claims.Role)
	}
}

func TestValidateJWTRejects(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"no bearer prefix", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"expired", signedHeader(t, "u1", nil, -time.Hour)},
	}
	for _, tc := range cases {
		if _, err := ValidateJWT(tc.header); err == nil {
			t.Errorf("%s: ValidateJWT accepted, want error", tc.name)
		}
	}
}

func TestOptionalAuthAnonymousPassesThrough(t *testing.T) {
	var gotUserID string
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID = utils.GetUserIDFromRequest(r)
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != "" {
		t.Errorf("anonymous request carried userID %q", gotUserID)
	}
}

func TestOptionalAuthAttachesIdentity(t *testing.T) {
	var gotUserID string
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUserID = utils.GetUserIDFromRequest(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/p1", nil)
	req.Header.Set("Authorization", signedHeader(t, "u42", []string{"user"}, time.Hour))
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if gotUserID != "u42" {
		t.Errorf("userID = %q, want u42", gotUserID)
	}
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Error("handler reached without a token")
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), nil)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
