package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// DevLogin never rejects: the caller id comes from the header, ?uid= or the
// cookie, falling back to DefaultDevUser, and is pinned in the cookie.
func DevLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := strings.TrimSpace(c.Request().Header.Get(HeaderUserID))
			if uid == "" {
				uid = strings.TrimSpace(c.QueryParam("uid"))
			}
			if uid == "" {
				if ck, err := c.Cookie(CookieName); err == nil {
					uid = strings.TrimSpace(ck.Value)
				}
			}
			if uid == "" {
				uid = DefaultDevUser
			}
			if ck, err := c.Cookie(CookieName); err != nil || ck.Value != uid {
				c.SetCookie(&http.Cookie{Name: CookieName, Value: uid, Path: "/", HttpOnly: true})
			}
			c.Set(ctxKeyUID, uid)
			return next(c)
		}
	}
}
