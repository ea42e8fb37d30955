package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/service"
)

// HealthHandler serves the info, liveness and readiness endpoints.
type HealthHandler struct {
	svc service.EmbedService
}

func NewHealthHandler(svc service.EmbedService) *HealthHandler {
	return &HealthHandler{svc: svc}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/", h.root)
	r.Get("/health", h.health)
	r.Get("/ready", h.ready)
}

// root handles GET / with the static message and model name.
func (h *HealthHandler) root(c *fiber.Ctx) error {
	return c.JSON(h.svc.Info())
}

// health never consults the model; it only says the process is up.
func (h *HealthHandler) health(c *fiber.Ctx) error {
	return c.JSON(h.svc.Health())
}

// ready pushes a probe through the model and answers 503 if that fails.
func (h *HealthHandler) ready(c *fiber.Ctx) error {
	resp, err := h.svc.Ready(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "model not ready: "+err.Error())
	}
	return c.JSON(resp)
}
