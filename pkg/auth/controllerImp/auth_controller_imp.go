package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"agrimind/pkg/auth/controller"
	"agrimind/pkg/middleware"
)

type authCtrl struct{}

func NewAuthController() controller.AuthController { return &authCtrl{} }

// DevLogin pins ?uid= (or the dev default) in the session cookie.
func (h *authCtrl) DevLogin(c echo.Context) error {
	uid := strings.TrimSpace(c.QueryParam("uid"))
	if uid == "" {
		uid = middleware.DefaultDevUser
	}
	c.SetCookie(&http.Cookie{Name: middleware.CookieName, Value: uid, Path: "/", HttpOnly: true})
	return c.JSON(http.StatusOK, map[string]string{"uid": uid})
}

func (h *authCtrl) WhoAmI(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"uid": middleware.UserID(c)})
}
