package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. The JWT middleware stores the claim value, whose concrete
// type depends on how the token was encoded, so several numeric
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getUserName returns the display name claim stored by the JWT
// middleware, or an empty string when the identity provider did not
// include one.
func getUserName(c echo.Context) string {
	if s, ok := c.Get("user_name").(string); ok {
		return s
	}
	return ""
}
