package handler

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/models"
	"github.com/ahmednasr/ai-in-action/embed-api/internal/service"
)

// EmbedHandler wires HTTP → EmbedService.
type EmbedHandler struct {
	svc service.EmbedService
}

// NewEmbedHandler returns a handler instance.
func NewEmbedHandler(svc service.EmbedService) *EmbedHandler {
	return &EmbedHandler{svc: svc}
}

// Register mounts POST /embed on the given router.
func (h *EmbedHandler) Register(r fiber.Router) {
	r.Post("/embed", h.embed)
}

// embed handles POST /embed  { "texts": ["...", ...] }
func (h *EmbedHandler) embed(c *fiber.Ctx) error {
	var req models.EmbedRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "texts must be a list of strings")
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if req.Texts == nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "texts field is required")
	}
	texts := make([]string, len(*req.Texts))
	for i, t := range *req.Texts {
		if t == nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "texts must be a list of strings")
		}
		texts[i] = *t
	}

	vecs, err := h.svc.Embed(c.UserContext(), texts)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, "No texts provided")
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "Embedding generation failed: "+err.Error())
	}

	return c.JSON(models.EmbedResponse{Embeddings: vecs})
}
