package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/rulechess-backend/internal/engine"
	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/benbeisheim/rulechess-backend/internal/notation"
	"github.com/benbeisheim/rulechess-backend/internal/service"
)

var errBadBody = errors.New("malformed request body")

// statusFor maps service and engine errors onto HTTP status codes.
func statusFor(err error) int {
	var moveErr *engine.MoveError
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrNotInGame), errors.Is(err, model.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, model.ErrGameFull),
		errors.Is(err, service.ErrGameExists),
		errors.Is(err, model.ErrAlreadyQueued),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrPromotionPending),
		errors.Is(err, model.ErrNoPromotion):
		return fiber.StatusConflict
	case errors.Is(err, errBadBody),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, notation.ErrEmptyInput),
		errors.Is(err, notation.ErrInvalidInput),
		errors.Is(err, engine.ErrInvalidFEN),
		errors.Is(err, engine.ErrMissingKing):
		return fiber.StatusBadRequest
	case errors.As(err, &moveErr),
		errors.Is(err, engine.ErrInvalidPromotion),
		errors.Is(err, notation.ErrNoPawn),
		errors.Is(err, notation.ErrAmbiguous):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
