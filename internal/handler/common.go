package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const dateFormat = "2006-01-02"

// getGuestID extracts the guest_id stored by the JWT middleware and
// converts it to uint64. JWT numeric claims decode as float64, so a
// few representations are accepted.
func getGuestID(c echo.Context) (uint64, error) {
	v := c.Get("guest_id")
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
	return 0, errors.New("invalid guest_id in context")
}

// isAdmin reports whether the current request carries the ADMIN role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

// parseDate parses a YYYY-MM-DD value into a UTC-midnight time.Time.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateFormat, s, time.UTC)
}
