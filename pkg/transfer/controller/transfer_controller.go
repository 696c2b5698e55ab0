package controller

import "github.com/labstack/echo/v4"

type TransferController interface {
	Import(c echo.Context) error
	Export(c echo.Context) error
	Runs(c echo.Context) error
}
