package engine

import (
	"fmt"
	"strings"

	chess "github.com/corentings/chess/v2"
)

// StartingFEN is the standard initial position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fromChessType = map[chess.PieceType]PieceType{
	chess.Pawn:   Pawn,
	chess.Rook:   Rook,
	chess.Knight: Knight,
	chess.Bishop: Bishop,
	chess.Queen:  Queen,
	chess.King:   King,
}

var toChessType = map[PieceType]chess.PieceType{
	Pawn:   chess.Pawn,
	Rook:   chess.Rook,
	Knight: chess.Knight,
	Bishop: chess.Bishop,
	Queen:  chess.Queen,
	King:   chess.King,
}

// FromFEN builds a position from a FEN record. Only placement, side to move
// and castling availability are used; en-passant and clocks are ignored.
// Each side must have exactly one king.
func FromFEN(fen string, opts ...Option) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: expected 6 fields, got %d", ErrInvalidFEN, len(fields))
	}
	if w, b := strings.Count(fields[0], "K"), strings.Count(fields[0], "k"); w != 1 || b != 1 {
		return nil, fmt.Errorf("%w: %d white and %d black kings", ErrMissingKing, w, b)
	}

	load, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	decoded := chess.NewGame(load).Position()

	var b Board
	for sq, pc := range decoded.Board().SquareMap() {
		t, ok := fromChessType[pc.Type()]
		if !ok {
			continue
		}
		owner := White
		if pc.Color() == chess.Black {
			owner = Black
		}
		b[fromChessSquare(sq)] = NewPiece(t, owner)
	}

	turn := White
	if decoded.Turn() == chess.Black {
		turn = Black
	}

	p := NewPositionFromBoard(b, turn, opts...)
	castling := fields[2]
	p.keeper.restrict(White, rightsFrom(strings.Contains(castling, "K"), strings.Contains(castling, "Q")))
	p.keeper.restrict(Black, rightsFrom(strings.Contains(castling, "k"), strings.Contains(castling, "q")))
	return p, nil
}

// FEN encodes the position. Move counters are not tracked and are always "0 1".
func (p *Position) FEN() string {
	squares := make(map[chess.Square]chess.Piece)
	for i, piece := range p.spaces {
		if piece.Empty() {
			continue
		}
		color := chess.White
		if piece.Owner() == Black {
			color = chess.Black
		}
		squares[toChessSquare(Square(i))] = chess.NewPiece(toChessType[piece.Type()], color)
	}

	turn := "w"
	if p.turn == Black {
		turn = "b"
	}
	return fmt.Sprintf("%s %s %s - 0 1", chess.NewBoard(squares).String(), turn, p.castlingField())
}

func (p *Position) castlingField() string {
	var sb strings.Builder
	white, black := p.keeper.CastlingRights(White), p.keeper.CastlingRights(Black)
	if white.Allows(Short) {
		sb.WriteByte('K')
	}
	if white.Allows(Long) {
		sb.WriteByte('Q')
	}
	if black.Allows(Short) {
		sb.WriteByte('k')
	}
	if black.Allows(Long) {
		sb.WriteByte('q')
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// chess squares count ranks from White's side; ours count rows from Black's.
func fromChessSquare(sq chess.Square) Square {
	return Square((RowLen-1-int(sq.Rank()))*RowLen + int(sq.File()))
}

func toChessSquare(s Square) chess.Square {
	return chess.NewSquare(chess.File(s.File()), chess.Rank(RowLen-1-s.Row()))
}
