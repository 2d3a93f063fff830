package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/rulechess-backend/internal/engine"
	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/benbeisheim/rulechess-backend/internal/notation"
)

func newService() (*GameService, *GameManager) {
	gm := NewGameManager(model.DefaultSettings())
	return NewGameService(gm), gm
}

func TestCreateAndJoin(t *testing.T) {
	gs, _ := newService()

	id, err := gs.CreateGame("")
	if err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	if color, err := gs.JoinGame(id, "alice"); err != nil || color != model.PlayerColorWhite {
		t.Errorf("JoinGame(alice) = %q, %v", color, err)
	}
	if color, err := gs.JoinGame(id, "bob"); err != nil || color != model.PlayerColorBlack {
		t.Errorf("JoinGame(bob) = %q, %v", color, err)
	}
	if _, err := gs.JoinGame(id, "carol"); !errors.Is(err, model.ErrGameFull) {
		t.Errorf("JoinGame(carol) error = %v, want ErrGameFull", err)
	}
	if _, err := gs.JoinGame("missing", "carol"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("JoinGame(missing) error = %v, want ErrGameNotFound", err)
	}
}

func TestCreateGameFromFEN(t *testing.T) {
	gs, _ := newService()
	fen := "4k3/8/8/8/8/8/8/4K2R b K - 0 1"

	id, err := gs.CreateGame(fen)
	if err != nil {
		t.Fatal(err)
	}
	state, err := gs.GetGameState(id)
	if err != nil {
		t.Fatal(err)
	}
	if state.FEN != fen || state.ToMove != "black" {
		t.Errorf("state = {fen %q, toMove %q}", state.FEN, state.ToMove)
	}

	if _, err := gs.CreateGame("garbage"); !errors.Is(err, engine.ErrInvalidFEN) {
		t.Errorf("CreateGame(garbage) error = %v, want ErrInvalidFEN", err)
	}
}

func TestCreateGameDuplicateID(t *testing.T) {
	gm := NewGameManager(model.DefaultSettings())
	if err := gm.CreateGame("same", ""); err != nil {
		t.Fatal(err)
	}
	if err := gm.CreateGame("same", ""); !errors.Is(err, ErrGameExists) {
		t.Errorf("CreateGame(same) error = %v, want ErrGameExists", err)
	}
}

func TestHandleMoves(t *testing.T) {
	gs, _ := newService()
	id, err := gs.CreateGame("r3k3/7P/8/8/8/8/8/4K2R w Kq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"alice", "bob"} {
		if _, err := gs.JoinGame(id, p); err != nil {
			t.Fatal(err)
		}
	}

	if err := gs.HandleCastle(id, "alice", model.CastleRequest{Side: "sideways"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("HandleCastle(sideways) error = %v, want ErrInvalidRequest", err)
	}
	if err := gs.HandleCastle(id, "alice", model.CastleRequest{Side: "short"}); err != nil {
		t.Fatalf("HandleCastle(short) error = %v", err)
	}
	if err := gs.HandleCastle(id, "bob", model.CastleRequest{Side: "O-O-O"}); err != nil {
		t.Fatalf("HandleCastle(O-O-O) error = %v", err)
	}

	if err := gs.HandleMove(id, "alice", model.MoveRequest{From: "h7", To: "h8"}); err != nil {
		t.Fatalf("HandleMove(h7 h8) error = %v", err)
	}
	if err := gs.HandlePromote(id, "alice", model.PromoteRequest{Piece: "wizard"}); !errors.Is(err, notation.ErrInvalidInput) {
		t.Errorf("HandlePromote(wizard) error = %v, want ErrInvalidInput", err)
	}
	if err := gs.HandlePromote(id, "alice", model.PromoteRequest{Piece: "knight"}); err != nil {
		t.Fatalf("HandlePromote(knight) error = %v", err)
	}

	state, err := gs.GetGameState(id)
	if err != nil {
		t.Fatal(err)
	}
	if got := state.Board.Board[0][7]; got == nil || got.Type != "knight" || got.Color != "white" {
		t.Errorf("h8 = %+v, want white knight", got)
	}
	if state.ToMove != "black" {
		t.Errorf("ToMove = %q, want black", state.ToMove)
	}

	if err := gs.HandleMove("missing", "alice", model.MoveRequest{Text: "e4"}); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("HandleMove(missing) error = %v, want ErrGameNotFound", err)
	}
}

func TestMatchmaking(t *testing.T) {
	gs, gm := newService()

	if status, _ := gs.MatchmakingStatus("alice"); status != MatchStatusIdle {
		t.Errorf("status = %q, want idle", status)
	}
	for _, p := range []string{"alice", "bob", "carol"} {
		if err := gs.JoinMatchmaking(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := gs.JoinMatchmaking("alice"); !errors.Is(err, model.ErrAlreadyQueued) {
		t.Errorf("JoinMatchmaking(alice) again: error = %v", err)
	}

	if n := gm.MatchPlayers(); n != 1 {
		t.Fatalf("MatchPlayers() = %d, want 1", n)
	}

	status, aliceEvent := gs.MatchmakingStatus("alice")
	if status != MatchStatusMatched || aliceEvent == nil || aliceEvent.Color != model.PlayerColorWhite {
		t.Fatalf("alice status = %q, %+v", status, aliceEvent)
	}
	_, bobEvent := gs.MatchmakingStatus("bob")
	if bobEvent == nil || bobEvent.GameID != aliceEvent.GameID || bobEvent.Color != model.PlayerColorBlack {
		t.Errorf("bob event = %+v, want same game as black", bobEvent)
	}
	if status, _ := gs.MatchmakingStatus("carol"); status != MatchStatusQueued {
		t.Errorf("carol status = %q, want queued", status)
	}

	game, err := gm.GetGame(aliceEvent.GameID)
	if err != nil {
		t.Fatal(err)
	}
	if !game.IsPlayerInGame("alice") || !game.IsPlayerInGame("bob") {
		t.Error("matched players are not seated")
	}

	if !gm.LeaveMatchmaking("carol") {
		t.Error("LeaveMatchmaking(carol) = false")
	}
}

func TestStartMatchmakingStopsWithContext(t *testing.T) {
	gm := NewGameManager(model.DefaultSettings())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, p := range []string{"alice", "bob"} {
		if err := gm.JoinMatchmaking(p); err != nil {
			t.Fatal(err)
		}
	}
	gm.StartMatchmaking(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if status, _ := gm.MatchmakingStatus("alice"); status == MatchStatusMatched {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("players were not matched by the background loop")
}
