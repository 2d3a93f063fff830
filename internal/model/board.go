package model

import (
	"fmt"

	"github.com/benbeisheim/rulechess-backend/internal/engine"
)

// BoardState is the client view of the board, indexed [y][x] with y = 0 on
// Black's back rank. Empty squares are null.
type BoardState struct {
	Board             [][]*Piece `json:"board"`
	BlackKingPosition *Position  `json:"blackKingPosition"`
	WhiteKingPosition *Position  `json:"whiteKingPosition"`
}

type Piece struct {
	Type     string   `json:"type"`
	Color    string   `json:"color"`
	Position Position `json:"position"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func PositionOf(sq engine.Square) Position {
	return Position{X: sq.File(), Y: sq.Row()}
}

func (p Position) Square() (engine.Square, error) {
	return engine.SquareAt(p.Y, p.X)
}

func (p Position) String() string {
	return fmt.Sprintf("%c%d", 'a'+p.X, engine.RowLen-p.Y)
}

func pieceOf(piece engine.Piece, sq engine.Square) *Piece {
	if piece.Empty() {
		return nil
	}
	return &Piece{
		Type:     piece.Type().String(),
		Color:    piece.Owner().String(),
		Position: PositionOf(sq),
	}
}

func newBoardState(pos *engine.Position) *BoardState {
	spaces := pos.Spaces()
	state := &BoardState{Board: make([][]*Piece, engine.RowLen)}
	for y := range state.Board {
		state.Board[y] = make([]*Piece, engine.RowLen)
	}
	for i, piece := range spaces {
		sq := engine.Square(i)
		state.Board[sq.Row()][sq.File()] = pieceOf(piece, sq)
	}

	keeper := pos.Keeper()
	if sq, ok := keeper.King(engine.White); ok {
		p := PositionOf(sq)
		state.WhiteKingPosition = &p
	}
	if sq, ok := keeper.King(engine.Black); ok {
		p := PositionOf(sq)
		state.BlackKingPosition = &p
	}
	return state
}
