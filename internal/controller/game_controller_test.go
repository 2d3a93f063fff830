package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/rulechess-backend/internal/engine"
	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/benbeisheim/rulechess-backend/internal/notation"
	"github.com/benbeisheim/rulechess-backend/internal/service"
	"github.com/benbeisheim/rulechess-backend/internal/ws"
)

type testServer struct {
	app     *fiber.App
	manager *service.GameManager
	ws      *WebSocketController
}

func newTestServer() *testServer {
	gm := service.NewGameManager(model.DefaultSettings())
	gs := service.NewGameService(gm)
	wsc := NewWebSocketController(gs)

	app := fiber.New()
	SetupRoutes(app, NewGameController(gs), wsc, websocket.Config{})
	return &testServer{app: app, manager: gm, ws: wsc}
}

// do sends a request as player and decodes the JSON response into out.
func (s *testServer) do(t *testing.T, method, path, player, body string, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}

	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func (s *testServer) createGame(t *testing.T, fen string) string {
	t.Helper()
	body := ""
	if fen != "" {
		body = fmt.Sprintf(`{"fen":%q}`, fen)
	}
	var created struct {
		GameID string `json:"game_id"`
	}
	if status := s.do(t, http.MethodPost, "/api/game/create", "alice", body, &created); status != fiber.StatusOK {
		t.Fatalf("create status = %d", status)
	}
	for _, p := range []string{"alice", "bob"} {
		if status := s.do(t, http.MethodPost, "/api/game/join/"+created.GameID, p, "", nil); status != fiber.StatusOK {
			t.Fatalf("join %s status = %d", p, status)
		}
	}
	return created.GameID
}

func TestRequiresPlayerID(t *testing.T) {
	s := newTestServer()
	if status := s.do(t, http.MethodPost, "/api/game/create", "", "", nil); status != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
}

func TestGameLifecycle(t *testing.T) {
	s := newTestServer()
	id := s.createGame(t, "")

	var errResp struct {
		Error string `json:"error"`
	}
	if status := s.do(t, http.MethodPost, "/api/game/join/"+id, "carol", "", &errResp); status != fiber.StatusConflict {
		t.Errorf("third join status = %d, want 409", status)
	}
	if errResp.Error == "" {
		t.Error("error body is empty")
	}

	var state model.GameState
	if status := s.do(t, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"from":"e2","to":"e4"}`, &state); status != fiber.StatusOK {
		t.Fatalf("move status = %d", status)
	}
	if state.ToMove != "black" {
		t.Errorf("ToMove = %q, want black", state.ToMove)
	}

	if status := s.do(t, http.MethodPost, "/api/game/"+id+"/move", "bob", `{"text":"e5"}`, &state); status != fiber.StatusOK {
		t.Fatalf("text move status = %d", status)
	}

	state = model.GameState{}
	if status := s.do(t, http.MethodGet, "/api/game/"+id, "carol", "", &state); status != fiber.StatusOK {
		t.Fatalf("get status = %d", status)
	}
	if len(state.MoveHistory) != 1 || state.MoveHistory[0].BlackPly == nil {
		t.Errorf("history = %+v", state.MoveHistory)
	}
}

func TestSeatsSurviveOtherRequests(t *testing.T) {
	s := newTestServer()
	id := s.createGame(t, "")

	if status := s.do(t, http.MethodGet, "/api/game/"+id, "zzzzz", "", nil); status != fiber.StatusOK {
		t.Fatalf("get status = %d", status)
	}
	if status := s.do(t, http.MethodPost, "/api/game/matchmaking/join", "yyyyyyyy", "", nil); status != fiber.StatusOK {
		t.Fatalf("matchmaking status = %d", status)
	}

	game, err := s.manager.GetGame(id)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"alice", "bob"} {
		if !game.IsPlayerInGame(p) {
			t.Errorf("IsPlayerInGame(%q) = false after unrelated requests", p)
		}
	}

	var state model.GameState
	if status := s.do(t, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"from":"e2","to":"e4"}`, &state); status != fiber.StatusOK {
		t.Fatalf("move status = %d", status)
	}
	if state.Players.White.ID != "alice" || state.Players.Black.ID != "bob" {
		t.Errorf("players = %q / %q, want alice / bob", state.Players.White.ID, state.Players.Black.ID)
	}
}

func TestMoveErrorStatuses(t *testing.T) {
	s := newTestServer()
	id := s.createGame(t, "")

	tests := []struct {
		name   string
		path   string
		player string
		body   string
		want   int
	}{
		{"unknown game", "/api/game/nope/move", "alice", `{"text":"e4"}`, fiber.StatusNotFound},
		{"not seated", "/api/game/" + id + "/move", "carol", `{"text":"e4"}`, fiber.StatusForbidden},
		{"wrong player", "/api/game/" + id + "/move", "bob", `{"text":"e4"}`, fiber.StatusConflict},
		{"bad json", "/api/game/" + id + "/move", "alice", `{"from":`, fiber.StatusBadRequest},
		{"bad square", "/api/game/" + id + "/move", "alice", `{"from":"e2","to":"e9"}`, fiber.StatusBadRequest},
		{"illegal", "/api/game/" + id + "/move", "alice", `{"from":"e2","to":"e5"}`, fiber.StatusUnprocessableEntity},
		{"no pawn", "/api/game/" + id + "/move", "alice", `{"text":"e6"}`, fiber.StatusUnprocessableEntity},
		{"blocked castle", "/api/game/" + id + "/castle", "alice", `{"side":"short"}`, fiber.StatusUnprocessableEntity},
		{"bad side", "/api/game/" + id + "/castle", "alice", `{"side":"up"}`, fiber.StatusBadRequest},
		{"no promotion", "/api/game/" + id + "/promote", "alice", `{"piece":"queen"}`, fiber.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := s.do(t, http.MethodPost, tt.path, tt.player, tt.body, nil); status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
		})
	}
}

func TestCreateGameFromFEN(t *testing.T) {
	s := newTestServer()
	id := s.createGame(t, "4k3/P7/8/8/8/8/8/4K3 w - - 0 1")

	var state model.GameState
	if status := s.do(t, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"text":"a7 a8"}`, &state); status != fiber.StatusOK {
		t.Fatalf("move status = %d", status)
	}
	if state.PromotionSquare == nil {
		t.Fatal("PromotionSquare is nil after reaching the last rank")
	}
	if status := s.do(t, http.MethodPost, "/api/game/"+id+"/promote", "alice", `{"piece":"rook"}`, &state); status != fiber.StatusOK {
		t.Fatalf("promote status = %d", status)
	}
	if got := state.Board.Board[0][0]; got == nil || got.Type != "rook" {
		t.Errorf("a8 = %+v, want rook", got)
	}

	if status := s.do(t, http.MethodPost, "/api/game/create", "alice", `{"fen":"8/8/8/8/8/8/8/8 w - - 0 1"}`, nil); status != fiber.StatusBadRequest {
		t.Errorf("kingless FEN status = %d, want 400", status)
	}
}

func TestMatchmakingEndpoints(t *testing.T) {
	s := newTestServer()

	var status struct {
		Status string `json:"status"`
		GameID string `json:"gameId"`
		Color  string `json:"color"`
	}
	for _, p := range []string{"alice", "bob"} {
		if code := s.do(t, http.MethodPost, "/api/game/matchmaking/join", p, "", &status); code != fiber.StatusOK || status.Status != service.MatchStatusQueued {
			t.Fatalf("join %s: %d %+v", p, code, status)
		}
	}
	if code := s.do(t, http.MethodPost, "/api/game/matchmaking/join", "alice", "", nil); code != fiber.StatusConflict {
		t.Errorf("second join status = %d, want 409", code)
	}

	s.manager.MatchPlayers()

	if code := s.do(t, http.MethodGet, "/api/game/matchmaking/status", "bob", "", &status); code != fiber.StatusOK {
		t.Fatalf("status code = %d", code)
	}
	if status.Status != service.MatchStatusMatched || status.GameID == "" || status.Color != "black" {
		t.Errorf("bob status = %+v", status)
	}
}

func TestHandleMessage(t *testing.T) {
	s := newTestServer()
	id := s.createGame(t, "")

	msg := func(typ ws.MessageType, payload string) ws.Message {
		return ws.Message{Type: typ, Payload: json.RawMessage(payload)}
	}

	if err := s.ws.handleMessage(id, "alice", msg(ws.MessageTypeMove, `{"text":"e2 e4"}`)); err != nil {
		t.Fatalf("move message error = %v", err)
	}
	if err := s.ws.handleMessage(id, "bob", msg(ws.MessageTypeCastle, `{"side":"long"}`)); !errors.Is(err, engine.ErrCastlingBlocked) {
		t.Errorf("castle message error = %v, want ErrCastlingBlocked", err)
	}
	if err := s.ws.handleMessage(id, "bob", msg(ws.MessageTypePromote, `{"piece":"dragon"}`)); !errors.Is(err, notation.ErrInvalidInput) {
		t.Errorf("promote message error = %v, want ErrInvalidInput", err)
	}
	if err := s.ws.handleMessage(id, "bob", msg("resign", `{}`)); !errors.Is(err, errBadBody) {
		t.Errorf("unknown message error = %v, want errBadBody", err)
	}
	if err := s.ws.handleMessage(id, "bob", msg(ws.MessageTypeMove, `[`)); !errors.Is(err, errBadBody) {
		t.Errorf("malformed payload error = %v, want errBadBody", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrapped: %w", service.ErrGameNotFound), fiber.StatusNotFound},
		{&engine.MoveError{Err: engine.ErrSelfCheck}, fiber.StatusUnprocessableEntity},
		{engine.ErrInvalidFEN, fiber.StatusBadRequest},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
