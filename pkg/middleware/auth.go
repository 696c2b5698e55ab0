package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	HeaderUserID   = "X-User-Id"
	CookieName     = "AGRIMIND_UID"
	DefaultDevUser = "dev-user"

	ctxKeyUID = "uid"
)

// Auth returns RequireUser when required is true, DevLogin otherwise.
func Auth(required bool) echo.MiddlewareFunc {
	if required {
		return RequireUser()
	}
	return DevLogin()
}

// RequireUser rejects requests that carry no caller id with 401.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := fromRequest(c)
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication credentials were not provided."})
			}
			c.Set(ctxKeyUID, uid)
			return next(c)
		}
	}
}

// UserID is the caller id set by Auth, or "" outside of it.
func UserID(c echo.Context) string {
	uid, _ := c.Get(ctxKeyUID).(string)
	return uid
}

func fromRequest(c echo.Context) string {
	if uid := strings.TrimSpace(c.Request().Header.Get(HeaderUserID)); uid != "" {
		return uid
	}
	if ck, err := c.Cookie(CookieName); err == nil {
		return strings.TrimSpace(ck.Value)
	}
	return ""
}
