package routes

import (
	"krumeku/auth"
	"krumeku/cart"
	"krumeku/coupons"
	"krumeku/middleware"
	"krumeku/products"
	"krumeku/ratelim"
	"krumeku/shipping"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/v1/auth/signup",
		middleware.Chain(rateLimiter.Limit)(auth.Signup))
	router.POST("/api/v1/auth/login",
		middleware.Chain(rateLimiter.Limit)(auth.Login))
}

func AddProductRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	// browsing works anonymously; a valid token additionally feeds the
	// recently-viewed list
	browse := middleware.Chain(rateLimiter.Limit, middleware.OptionalAuth)

	router.GET("/api/v1/products", browse(products.ListProducts))
	router.GET("/api/v1/products/:id", browse(products.GetProduct))
	router.GET("/api/v1/recent",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(products.RecentlyViewed))

	router.POST("/api/v1/products",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(products.CreateProduct))
	router.PUT("/api/v1/products/:id",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(products.UpdateProduct))
	router.DELETE("/api/v1/products/:id",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
			middleware.RequireRoles("admin"),
		)(products.DeleteProduct))
}

func AddCartRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)

	router.GET("/api/v1/cart", authed(cart.GetCart))
	router.POST("/api/v1/cart/add", authed(cart.AddToCart))
	router.PUT("/api/v1/cart/update", authed(cart.UpdateQuantity))
	router.PUT("/api/v1/cart/size", authed(cart.UpdateSize))
	router.DELETE("/api/v1/cart/remove/:id", authed(cart.RemoveItem))
	router.DELETE("/api/v1/cart/clear", authed(cart.ClearCart))
	router.PUT("/api/v1/cart/address", authed(cart.SaveAddress))
}

func AddCouponRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)
	adminOnly := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles("admin"),
	)

	router.POST("/api/v1/coupons/apply", authed(coupons.ApplyCoupon))
	router.DELETE("/api/v1/coupons/remove", authed(coupons.RemoveCoupon))

	router.POST("/api/v1/admin/coupons", adminOnly(coupons.CreateCoupon))
	router.GET("/api/v1/admin/coupons", adminOnly(coupons.ListCoupons))
	router.GET("/api/v1/admin/coupons/:code", adminOnly(coupons.GetCoupon))
	router.PUT("/api/v1/admin/coupons/:code", adminOnly(coupons.UpdateCoupon))
	router.DELETE("/api/v1/admin/coupons/:code", adminOnly(coupons.DeleteCoupon))
}

func AddShippingRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/v1/shipping/pincode/:code",
		middleware.Chain(rateLimiter.Limit)(shipping.CheckPincode))
}
