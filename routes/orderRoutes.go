package routes

import (
	"krumeku/admin"
	"krumeku/middleware"
	"krumeku/orders"
	"krumeku/pay"
	"krumeku/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddOrderRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	authed := middleware.Chain(rateLimiter.Limit, middleware.Authenticate)
	adminOnly := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles("admin"),
	)

	router.POST("/api/v1/orders", authed(orders.CreateOrder))
	router.GET("/api/v1/orders", authed(orders.GetOrders))
	router.GET("/api/v1/orders/:id", authed(orders.GetOrder))
	router.GET("/api/v1/orders/:id/invoice", authed(orders.PrintInvoice))
	router.PUT("/api/v1/orders/:id/cancel", authed(orders.CancelOrder))
	router.PUT("/api/v1/orders/:id/return", authed(orders.RequestReturn))

	router.PUT("/api/v1/orders/:id/status", adminOnly(orders.UpdateStatus))
	router.PUT("/api/v1/orders/:id/return/manage", adminOnly(orders.ManageReturn))
}

func AddPayRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/v1/payments/confirm",
		middleware.Chain(rateLimiter.Limit, middleware.Authenticate)(pay.ConfirmPayment))
}

func AddAdminRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	adminOnly := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles("admin"),
	)

	router.GET("/api/v1/admin/orders", adminOnly(admin.ListOrders))
	router.GET("/api/v1/admin/returns", adminOnly(admin.ListReturns))
	router.GET("/api/v1/admin/stats/coupons", adminOnly(admin.CouponStats))
	router.DELETE("/api/v1/admin/orders/:id", adminOnly(admin.PurgeOrder))
}
