package controllerImp

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"agrimind/pkg/middleware"
	"agrimind/pkg/snapshot/service"
)

type SnapshotCtrl struct {
	s service.SnapshotService
}

func New(s service.SnapshotService) *SnapshotCtrl { return &SnapshotCtrl{s: s} }

func (h *SnapshotCtrl) Save(c echo.Context) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid data format. Expected a JSON object."})
	}
	doc, ok := body.(map[string]any)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid data format. Expected a JSON object."})
	}

	created, err := h.s.Save(c.Request().Context(), middleware.UserID(c), doc)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Could not save localStorage data.",
			"details": err.Error(),
		})
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, map[string]string{"message": "LocalStorage snapshot saved successfully."})
}

func (h *SnapshotCtrl) Load(c echo.Context) error {
	doc, err := h.s.Load(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Could not load localStorage data.",
			"details": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, doc)
}
