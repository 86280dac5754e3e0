package middleware

import (
	"net/http"

	"krumeku/globals"

	"github.com/julienschmidt/httprouter"
)

// Middleware wraps an httprouter handle.
type Middleware func(httprouter.Handle) httprouter.Handle

// Chain composes middlewares so the first listed runs first.
func Chain(mws ...Middleware) Middleware {
	return func(final httprouter.Handle) httprouter.Handle {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

// RequireRoles rejects the request unless the authenticated user carries at
// least one of the given roles. Must run after Authenticate.
func RequireRoles(roles ...string) Middleware {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			userRoles, _ := r.Context().Value(globals.RoleKey).([]string)
			for _, want := range roles {
				for _, have := range userRoles {
					if want == have {
						next(w, r, ps)
						return
					}
				}
			}
			http.Error(w, "Forbidden", http.StatusForbidden)
		}
	}
}
