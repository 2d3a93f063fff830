package controller

import (
	"fmt"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/rulechess-backend/internal/middleware"
	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/benbeisheim/rulechess-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	FEN string `json:"fen"`
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
	}

	gameID, err := gc.gameService.CreateGame(req.FEN)
	if err != nil {
		log.WithError(err).Warn("create game")
		return respondError(c, err)
	}
	log.WithFields(log.Fields{"game": gameID, "player": middleware.PlayerID(c)}).Info("game created")

	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req model.MoveRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	return gc.respondState(c, gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), req))
}

func (gc *GameController) Castle(c *fiber.Ctx) error {
	var req model.CastleRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	return gc.respondState(c, gc.gameService.HandleCastle(c.Params("gameId"), middleware.PlayerID(c), req))
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req model.PromoteRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	return gc.respondState(c, gc.gameService.HandlePromote(c.Params("gameId"), middleware.PlayerID(c), req))
}

// respondState answers a state-changing request with the new state.
func (gc *GameController) respondState(c *fiber.Ctx, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return gc.GetGameState(c)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": service.MatchStatusQueued,
	})
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	status, event := gc.gameService.MatchmakingStatus(middleware.PlayerID(c))
	resp := fiber.Map{"status": status}
	if event != nil {
		resp["gameId"] = event.GameID
		resp["color"] = event.Color
	}
	return c.JSON(resp)
}
