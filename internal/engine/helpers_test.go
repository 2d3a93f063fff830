package engine

import (
	"errors"
	"testing"
)

// sq converts algebraic names like "e4" for test readability.
func sq(name string) Square {
	return Square(int(RowLen-int(name[1]-'0'))*RowLen + int(name[0]-'a'))
}

// setup builds a position from a sparse layout.
func setup(turn Player, pieces map[Square]Piece, opts ...Option) *Position {
	var b Board
	for s, piece := range pieces {
		b[s] = piece
	}
	return NewPositionFromBoard(b, turn, opts...)
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

var (
	wK = NewPiece(King, White)
	wQ = NewPiece(Queen, White)
	wR = NewPiece(Rook, White)
	wB = NewPiece(Bishop, White)
	wN = NewPiece(Knight, White)
	wP = NewPiece(Pawn, White)
	bK = NewPiece(King, Black)
	bR = NewPiece(Rook, Black)
	bN = NewPiece(Knight, Black)
	bP = NewPiece(Pawn, Black)
)
