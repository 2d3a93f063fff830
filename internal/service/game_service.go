package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/benbeisheim/rulechess-backend/internal/engine"
	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/benbeisheim/rulechess-backend/internal/notation"
)

var ErrInvalidRequest = errors.New("invalid request")

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PlayerColor, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

// CreateGame starts a new game, from fen when it is not empty.
func (gs *GameService) CreateGame(fen string) (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID, fen); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) MatchmakingStatus(playerID string) (string, *model.MatchFoundEvent) {
	return gs.gameManager.MatchmakingStatus(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) HandleMove(gameID string, playerID string, req model.MoveRequest) error {
	return gs.apply(gameID, func(g *model.Game) error {
		return g.MakeMove(playerID, req)
	})
}

func (gs *GameService) HandleCastle(gameID string, playerID string, req model.CastleRequest) error {
	var side engine.CastleSide
	switch strings.ToLower(strings.TrimSpace(req.Side)) {
	case "short", "kingside", "0-0", "o-o":
		side = engine.Short
	case "long", "queenside", "0-0-0", "o-o-o":
		side = engine.Long
	default:
		return fmt.Errorf("%w: unknown castling side %q", ErrInvalidRequest, req.Side)
	}
	return gs.apply(gameID, func(g *model.Game) error {
		return g.Castle(playerID, side)
	})
}

func (gs *GameService) HandlePromote(gameID string, playerID string, req model.PromoteRequest) error {
	t, err := notation.ParsePromotion(req.Piece)
	if err != nil {
		return err
	}
	return gs.apply(gameID, func(g *model.Game) error {
		return g.Promote(playerID, t)
	})
}

// apply runs op on the game and pushes the new state to its connections.
func (gs *GameService) apply(gameID string, op func(*model.Game) error) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := op(game); err != nil {
		return err
	}
	go game.Broadcast()
	return nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}
