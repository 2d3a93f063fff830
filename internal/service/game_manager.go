package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/rulechess-backend/internal/model"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

// Matchmaking states reported to queued players.
const (
	MatchStatusIdle    = "idle"
	MatchStatusQueued  = "queued"
	MatchStatusMatched = "matched"
)

// GameManager owns every live game and the matchmaking queue.
type GameManager struct {
	games    map[string]*model.Game
	queue    *model.Queue
	matches  map[string]model.MatchFoundEvent // playerID -> last match
	settings model.Settings
	mu       sync.RWMutex
}

func NewGameManager(settings model.Settings) *GameManager {
	return &GameManager{
		games:    make(map[string]*model.Game),
		queue:    model.NewQueue(),
		matches:  make(map[string]model.MatchFoundEvent),
		settings: settings,
	}
}

// StartMatchmaking pairs queued players every interval until ctx is done.
func (gm *GameManager) StartMatchmaking(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				gm.MatchPlayers()
			}
		}
	}()
}

// MatchPlayers drains the queue two players at a time, seating each pair in
// a new game. It returns the number of games created.
func (gm *GameManager) MatchPlayers() int {
	created := 0
	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return created
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID, gm.settings)
		p1Color, err := game.AddPlayer(player1.ID)
		if err != nil {
			log.WithError(err).WithField("player", player1.ID).Error("seat matched player")
			continue
		}
		p2Color, err := game.AddPlayer(player2.ID)
		if err != nil {
			log.WithError(err).WithField("player", player2.ID).Error("seat matched player")
			continue
		}

		gm.mu.Lock()
		gm.games[gameID] = game
		gm.matches[player1.ID] = model.MatchFoundEvent{GameID: gameID, Color: p1Color}
		gm.matches[player2.ID] = model.MatchFoundEvent{GameID: gameID, Color: p2Color}
		gm.mu.Unlock()

		log.WithFields(log.Fields{
			"game":  gameID,
			"white": player1.ID,
			"black": player2.ID,
		}).Info("match found")
		created++
	}
}

// CreateGame registers a new game. A non-empty fen sets the starting position.
func (gm *GameManager) CreateGame(gameID, fen string) error {
	game := model.NewGame(gameID, gm.settings)
	if fen != "" {
		var err error
		if game, err = model.NewGameFromFEN(gameID, fen, gm.settings); err != nil {
			return err
		}
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return fmt.Errorf("%w: %s", ErrGameExists, gameID)
	}
	gm.games[gameID] = game
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

// JoinMatchmaking queues playerID and forgets any earlier match result.
func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.matches, playerID)
	gm.mu.Unlock()

	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

// MatchmakingStatus reports where playerID stands. The event is set only
// when the status is matched.
func (gm *GameManager) MatchmakingStatus(playerID string) (string, *model.MatchFoundEvent) {
	gm.mu.RLock()
	event, matched := gm.matches[playerID]
	gm.mu.RUnlock()

	switch {
	case matched:
		return MatchStatusMatched, &event
	case gm.queue.Contains(playerID):
		return MatchStatusQueued, nil
	}
	return MatchStatusIdle, nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}
