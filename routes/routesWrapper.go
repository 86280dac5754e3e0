package routes

import (
	"krumeku/ratelim"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	AddAuthRoutes(router, rateLimiter)
	AddProductRoutes(router, rateLimiter)
	AddCartRoutes(router, rateLimiter)
	AddCouponRoutes(router, rateLimiter)
	AddOrderRoutes(router, rateLimiter)
	AddPayRoutes(router, rateLimiter)
	AddShippingRoutes(router, rateLimiter)
	AddAdminRoutes(router, rateLimiter)
}
