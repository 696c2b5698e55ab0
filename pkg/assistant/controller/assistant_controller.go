package controller

import "github.com/labstack/echo/v4"

type AssistantController interface {
	Chat(c echo.Context) error
}
