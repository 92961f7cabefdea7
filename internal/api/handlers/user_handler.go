package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/onepunch-tk/groth-api-app/internal/repository"
	"github.com/onepunch-tk/groth-api-app/internal/service"
)

type UserHandler struct {
	s  service.UserService
	ph repository.PostingHistoryRepository
}

func NewUserHandler(service service.UserService, ph repository.PostingHistoryRepository) *UserHandler {
	return &UserHandler{s: service, ph: ph}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)

	user, err := h.s.GetUserInfo(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to get user info",
		})
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *UserHandler) ListPostingHistory(c *fiber.Ctx) error {
	userID := GetUserID(c)

	history, err := h.ph.GetByRequesterID(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list posting history",
		})
	}

	return c.Status(fiber.StatusOK).JSON(history)
}
