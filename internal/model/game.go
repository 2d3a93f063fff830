package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/rulechess-backend/internal/engine"
	"github.com/benbeisheim/rulechess-backend/internal/notation"
	"github.com/benbeisheim/rulechess-backend/internal/ws"
)

var (
	ErrGameFull         = errors.New("game is full")
	ErrNotInGame        = errors.New("player not in game")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrPromotionPending = errors.New("choose a promotion piece first")
	ErrNoPromotion      = errors.New("no promotion pending")
	ErrUnauthorized     = errors.New("not authorized to join this game")
)

// Sounds hint the client which effect to play for the latest change.
const (
	SoundMove    = "move"
	SoundCapture = "capture"
	SoundCastle  = "castle"
	SoundPromote = "promote"
	SoundCheck   = "check"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// SyncConn serialises writes to a Conn. A websocket allows one writer at a
// time, and both broadcasts and the connection's own read loop write to it.
type SyncConn struct {
	conn Conn
	mu   sync.Mutex
}

// NewSyncConn wraps conn. A conn that is already a *SyncConn is returned as is.
func NewSyncConn(conn Conn) *SyncConn {
	if sc, ok := conn.(*SyncConn); ok {
		return sc
	}
	return &SyncConn{conn: conn}
}

func (c *SyncConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *SyncConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *SyncConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

func (c *SyncConn) wraps(conn Conn) bool {
	return c == conn || c.conn == conn
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*SyncConn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*SyncConn),
	}
}

// Settings are the per-game options taken from server config.
type Settings struct {
	Clock time.Duration
	Rules engine.Rules
}

func DefaultSettings() Settings {
	return Settings{
		Clock: 10 * time.Minute,
		Rules: engine.DefaultRules(),
	}
}

// Game wraps one engine position with the players, clocks and connections
// around it. All engine access happens under mu.
type Game struct {
	ID          string
	mu          sync.Mutex
	pos         *engine.Position
	players     [2]ClientPlayer
	clocks      [2]*Clock
	history     []Move
	lastPly     *Ply
	sound       string
	pending     engine.Square
	connections *GameConnections
	// broadcastMu orders broadcasts so a client never sees an older state
	// after a newer one.
	broadcastMu sync.Mutex
	log         *log.Entry
}

type GameState struct {
	Sound          string         `json:"sound"`
	Board          *BoardState    `json:"boardState"`
	ToMove         string         `json:"toMove"`
	MoveHistory    []Move         `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	CastlingRights CastlingRights `json:"castlingRights"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
	PromotionSquare *Position   `json:"promotionSquare"`
	LastMove        *SimpleMove `json:"lastMove"`
	FEN             string      `json:"fen"`
}

// CapturedPieces lists, per color, that color's pieces no longer on the board.
type CapturedPieces struct {
	White []string `json:"white"`
	Black []string `json:"black"`
}

type CastlingRights struct {
	White string `json:"white"`
	Black string `json:"black"`
}

func NewGame(id string, settings Settings) *Game {
	return newGame(id, engine.NewPosition(engine.WithRules(settings.Rules)), settings)
}

// NewGameFromFEN starts a game from a custom position.
func NewGameFromFEN(id, fen string, settings Settings) (*Game, error) {
	pos, err := engine.FromFEN(fen, engine.WithRules(settings.Rules))
	if err != nil {
		return nil, err
	}
	return newGame(id, pos, settings), nil
}

func newGame(id string, pos *engine.Position, settings Settings) *Game {
	g := &Game{
		ID:          id,
		pos:         pos,
		pending:     engine.NoSquare,
		connections: NewGameConnections(),
		log:         log.WithField("game", id),
	}
	for _, p := range []engine.Player{engine.White, engine.Black} {
		g.clocks[p] = NewClock(settings.Clock)
		g.players[p] = ClientPlayer{Color: string(playerColor(p))}
	}
	if _, ok := pos.PromotionSquare(); ok {
		g.log.Warn("starting position has a pawn on its last rank")
	}
	return g
}

// AddPlayer seats playerID in the first free color. A player already seated
// gets their color back.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return playerColor(color), nil
	}
	for _, p := range []engine.Player{engine.White, engine.Black} {
		if g.players[p].ID == "" {
			g.players[p].ID = playerID
			g.log.WithFields(log.Fields{"player": playerID, "color": p}).Info("player joined")
			return playerColor(p), nil
		}
	}
	return "", ErrGameFull
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.players[engine.White].ID == "" || g.players[engine.Black].ID == ""
}

func (g *Game) colorOf(playerID string) (engine.Player, bool) {
	if playerID == "" {
		return engine.White, false
	}
	for _, p := range []engine.Player{engine.White, engine.Black} {
		if g.players[p].ID == playerID {
			return p, true
		}
	}
	return engine.White, false
}

// checkMover confirms playerID owns the side to move.
func (g *Game) checkMover(playerID string) error {
	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if color != g.pos.Turn() {
		return ErrNotYourTurn
	}
	return nil
}

// MakeMove plays a move for playerID. While a promotion is pending only
// Promote is accepted.
func (g *Game) MakeMove(playerID string, req MoveRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkMover(playerID); err != nil {
		return err
	}
	if g.pending.Valid() {
		return ErrPromotionPending
	}
	m, err := g.resolve(req)
	if err != nil {
		return err
	}
	return g.play(m)
}

// Castle is MakeMove for a castling request.
func (g *Game) Castle(playerID string, side engine.CastleSide) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkMover(playerID); err != nil {
		return err
	}
	if g.pending.Valid() {
		return ErrPromotionPending
	}
	return g.play(engine.CastleMove(side))
}

// Promote completes a pending promotion and passes the turn.
func (g *Game) Promote(playerID string, t engine.PieceType) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkMover(playerID); err != nil {
		return err
	}
	if !g.pending.Valid() {
		return ErrNoPromotion
	}
	if err := g.pos.ChangePiece(g.pending, t); err != nil {
		return err
	}

	if g.lastPly != nil {
		g.lastPly.Promotion = t.String()
		g.lastPly.Notation += "=" + t.Letter()
	}
	g.pending = engine.NoSquare
	g.sound = SoundPromote
	g.finishTurn()
	return nil
}

func (g *Game) resolve(req MoveRequest) (engine.Move, error) {
	if strings.TrimSpace(req.Text) != "" {
		return notation.Parse(req.Text, g.pos)
	}
	from, err := notation.ParseSquare(req.From)
	if err != nil {
		return engine.Move{}, err
	}
	to, err := notation.ParseSquare(req.To)
	if err != nil {
		return engine.Move{}, err
	}
	return engine.NewMove(from, to), nil
}

func (g *Game) play(m engine.Move) error {
	mover := g.pos.Turn()
	before := g.pos.Spaces()

	if err := g.pos.Play(m); err != nil {
		g.log.WithError(err).WithField("move", m.String()).Debug("move rejected")
		return err
	}
	played, _ := g.pos.LastMove()
	ply := makePly(before, played)
	g.appendPly(mover, ply)
	g.log.WithFields(log.Fields{"move": played.String(), "color": mover}).Debug("move played")

	switch {
	case played.IsCastle():
		g.sound = SoundCastle
	case ply.CapturedPiece != nil:
		g.sound = SoundCapture
	default:
		g.sound = SoundMove
	}

	if sq, ok := g.pos.PromotionSquare(); ok {
		g.pending = sq
		return nil
	}
	g.finishTurn()
	return nil
}

// finishTurn hands the move to the opponent and switches clocks.
func (g *Game) finishTurn() {
	mover := g.pos.Turn()
	g.clocks[mover].Stop()
	g.pos.NextTurn()
	g.clocks[mover.Opponent()].Start()

	inCheck, err := g.pos.InCheck(mover.Opponent())
	if err != nil {
		g.log.WithError(err).Warn("check detection failed")
		return
	}
	if inCheck {
		g.sound = SoundCheck
		if g.lastPly != nil {
			g.lastPly.Notation += "+"
		}
	}
}

func (g *Game) appendPly(mover engine.Player, ply Ply) {
	p := &ply
	g.lastPly = p
	if mover == engine.White {
		g.history = append(g.history, Move{WhitePly: p})
		return
	}
	if n := len(g.history); n > 0 && g.history[n-1].BlackPly == nil {
		g.history[n-1].BlackPly = p
		return
	}
	g.history = append(g.history, Move{BlackPly: p})
}

func makePly(before engine.Board, m engine.Move) Ply {
	ply := Ply{
		Piece: pieceOf(before[m.From], m.From),
		From:  PositionOf(m.From),
		To:    PositionOf(m.To),
	}

	if m.IsCastle() {
		rookFrom, rookTo := 7, 5
		ply.Notation = "O-O"
		if m.Castle == engine.Long {
			rookFrom, rookTo = 0, 3
			ply.Notation = "O-O-O"
		}
		row := m.From.Row()
		ply.CastleRookMove = &CastleRookMove{
			From: Position{X: rookFrom, Y: row},
			To:   Position{X: rookTo, Y: row},
		}
		return ply
	}

	ply.CapturedPiece = pieceOf(before[m.To], m.To)
	ply.Notation = plyNotation(before[m.From], m, ply.CapturedPiece != nil)
	return ply
}

func plyNotation(piece engine.Piece, m engine.Move, capture bool) string {
	prefix := piece.Type().Letter()
	if piece.Type() == engine.Pawn {
		prefix = ""
		if m.From.File() != m.To.File() {
			prefix = PositionOf(m.From).String()[:1]
		}
	}
	sep := ""
	if capture {
		sep = "x"
	}
	return fmt.Sprintf("%s%s%s", prefix, sep, m.To)
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	turn := g.pos.Turn()
	inCheck, err := g.pos.InCheck(turn)
	if err != nil {
		g.log.WithError(err).Warn("check detection failed")
	}

	state := GameState{
		Sound:       g.sound,
		Board:       newBoardState(g.pos),
		ToMove:      turn.String(),
		MoveHistory: cloneHistory(g.history),
		CapturedPieces: CapturedPieces{
			White: typeNames(g.pos.Captured(engine.White)),
			Black: typeNames(g.pos.Captured(engine.Black)),
		},
		IsCheck: inCheck,
		CastlingRights: CastlingRights{
			White: g.pos.CastlingRights(engine.White).String(),
			Black: g.pos.CastlingRights(engine.Black).String(),
		},
		FEN: g.pos.FEN(),
	}
	state.Players.White = g.clientPlayer(engine.White)
	state.Players.Black = g.clientPlayer(engine.Black)

	if g.pending.Valid() {
		p := PositionOf(g.pending)
		state.PromotionSquare = &p
	}
	if m, ok := g.pos.LastMove(); ok {
		state.LastMove = &SimpleMove{From: PositionOf(m.From), To: PositionOf(m.To)}
	}
	return state
}

func (g *Game) clientPlayer(p engine.Player) ClientPlayer {
	cp := g.players[p]
	cp.TimeLeft = g.clocks[p].tenths()
	return cp
}

func typeNames(types []engine.PieceType) []string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return names
}

func cloneHistory(history []Move) []Move {
	out := make([]Move, len(history))
	for i, m := range history {
		if m.WhitePly != nil {
			ply := *m.WhitePly
			out[i].WhitePly = &ply
		}
		if m.BlackPly != nil {
			ply := *m.BlackPly
			out[i].BlackPly = &ply
		}
	}
	return out
}

// RegisterConnection attaches conn for playerID and pushes the current state
// to every connection. Writes to conn are serialised through a SyncConn, so
// callers that also write to it must pass the same *SyncConn.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	sc := NewSyncConn(conn)

	g.mu.Lock()
	isAuthorized := playerID != "" && (g.isSeated(playerID) || g.canSpectate())
	g.mu.Unlock()

	if !isAuthorized {
		return ErrUnauthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the existing connection and turn the new one away.
		g.connections.mu.Unlock()
		logger := g.log.WithField("player", playerID)
		if err := sc.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		); err != nil {
			logger.WithError(err).Debug("write close message")
		}
		if err := sc.Close(); err != nil {
			logger.WithError(err).Debug("close duplicate connection")
		}
		return nil
	}
	g.connections.connections[playerID] = sc
	g.connections.mu.Unlock()
	g.log.WithField("player", playerID).Debug("connection registered")

	go g.Broadcast()
	return nil
}

func (g *Game) isSeated(playerID string) bool {
	_, ok := g.colorOf(playerID)
	return ok
}

// UnregisterConnection drops playerID's connection if it is still conn.
// A nil conn drops whatever is registered.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	current, exists := g.connections.connections[playerID]
	if !exists || (conn != nil && !current.wraps(conn)) {
		return
	}
	delete(g.connections.connections, playerID)
	g.log.WithField("player", playerID).Debug("connection unregistered")
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// Broadcast sends the current state to every connection. Connections that
// fail to write are dropped. Concurrent broadcasts run one at a time, each
// sending a state at least as new as the one before it.
func (g *Game) Broadcast() {
	g.broadcastMu.Lock()
	defer g.broadcastMu.Unlock()

	payload, err := json.Marshal(g.GetState())
	if err != nil {
		g.log.WithError(err).Error("marshal game state")
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: payload}

	g.connections.mu.RLock()
	active := make(map[string]*SyncConn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		active[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			g.log.WithError(err).WithField("player", playerID).Warn("dropping connection")
			g.UnregisterConnection(playerID, conn)
		}
	}
}
