package controller

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/rulechess-backend/internal/middleware"
	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/benbeisheim/rulechess-backend/internal/service"
	"github.com/benbeisheim/rulechess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection serves one websocket until the client goes away.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	logger := log.WithFields(log.Fields{"game": gameID, "player": playerID})
	conn := model.NewSyncConn(c)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		logger.WithError(err).Warn("register connection")
		reply(logger, conn, err)
		if err := conn.Close(); err != nil {
			logger.WithError(err).Debug("close connection")
		}
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.WithError(err).Debug("connection closed")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			logger.WithError(err).Debug("parse message")
			reply(logger, conn, fmt.Errorf("%w: %v", errBadBody, err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			logger.WithError(err).WithField("type", msg.Type).Debug("message rejected")
			reply(logger, conn, err)
		}
	}
}

// reply sends err to the client as an error message.
func reply(logger *log.Entry, conn model.Conn, err error) {
	if werr := conn.WriteJSON(ws.NewError(err)); werr != nil {
		logger.WithError(werr).Debug("write error reply")
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var req model.MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return fmt.Errorf("%w: %v", errBadBody, err)
		}
		return wsc.gameService.HandleMove(gameID, playerID, req)
	case ws.MessageTypeCastle:
		var req model.CastleRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return fmt.Errorf("%w: %v", errBadBody, err)
		}
		return wsc.gameService.HandleCastle(gameID, playerID, req)
	case ws.MessageTypePromote:
		var req model.PromoteRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return fmt.Errorf("%w: %v", errBadBody, err)
		}
		return wsc.gameService.HandlePromote(gameID, playerID, req)
	default:
		return fmt.Errorf("%w: unknown message type %q", errBadBody, msg.Type)
	}
}
