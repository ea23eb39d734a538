package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	SubjectKey = "subject"
	RoleKey    = "role"
)

// RoleAdmin is the only role allowed to mutate the catalog.
const RoleAdmin = "ADMIN"

// Subject returns the authenticated token subject, or "anon" for requests
// that did not pass through JWTAuth.
func Subject(c echo.Context) string {
	if s, ok := c.Get(SubjectKey).(string); ok && s != "" {
		return s
	}
	return "anon"
}
