package controller

import "github.com/labstack/echo/v4"

type SnapshotController interface {
	Save(c echo.Context) error
	Load(c echo.Context) error
}
