package controllerImp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"agrimind/pkg/assistant/service"
	"agrimind/pkg/middleware"
)

const fallbackReply = "I'm sorry, I couldn't generate a response at this moment. Please try again."

type AssistantCtrl struct {
	s service.AssistantService
}

func New(s service.AssistantService) *AssistantCtrl {
	return &AssistantCtrl{s: s}
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *AssistantCtrl) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No message provided"})
	}

	reply, err := h.s.Chat(c.Request().Context(), middleware.UserID(c), req.Message)
	switch {
	case errors.Is(err, service.ErrEmptyReply):
		return c.JSON(http.StatusInternalServerError, map[string]string{"reply": fallbackReply})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   "Failed to get response from AI assistant.",
			"details": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{"reply": reply})
}
