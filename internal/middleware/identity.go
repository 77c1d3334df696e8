package middleware

// identity.go defines helpers shared across middleware files. The rate
// limiter and the response cache both key entries by caller identity;
// the identifier comes from whatever JWTAuth stored in the context, or
// "anon" for unauthenticated traffic.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated caller's id as a string for
// use inside cache and rate-limit keys.
func currentUserID(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "anon"
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return "anon"
		}
		return s
	}
	return fmt.Sprint(v)
}
