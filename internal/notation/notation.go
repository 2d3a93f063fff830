// Package notation turns typed moves into engine moves.
//
// Accepted forms:
//
//	e2 e4     from and to squares
//	0-0, O-O  short castle
//	0-0-0     long castle
//	e4        pawn push by the side to move
package notation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benbeisheim/rulechess-backend/internal/engine"
)

var (
	ErrEmptyInput   = errors.New("you can't input nothing")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoPawn       = errors.New("no pawn can make that move")
	ErrAmbiguous    = errors.New("could not distinguish between pawns")
)

// Parse reads input against pos. Only the shape of the move is checked here;
// legality is left to the engine.
func Parse(input string, pos *engine.Position) (engine.Move, error) {
	fields := strings.Fields(input)
	switch len(fields) {
	case 0:
		return engine.Move{}, ErrEmptyInput
	case 2:
		from, err := ParseSquare(fields[0])
		if err != nil {
			return engine.Move{}, err
		}
		to, err := ParseSquare(fields[1])
		if err != nil {
			return engine.Move{}, err
		}
		return engine.NewMove(from, to), nil
	case 1:
	default:
		return engine.Move{}, fmt.Errorf("%w: %q", ErrInvalidInput, input)
	}

	token := fields[0]
	if side, ok := castleSide(token); ok {
		return engine.CastleMove(side), nil
	}
	if len(token) == 2 {
		to, err := ParseSquare(token)
		if err != nil {
			return engine.Move{}, err
		}
		return pawnPush(to, pos)
	}
	return engine.Move{}, fmt.Errorf("%w: %q", ErrInvalidInput, input)
}

func castleSide(token string) (engine.CastleSide, bool) {
	switch strings.ToUpper(token) {
	case "0-0", "O-O":
		return engine.Short, true
	case "0-0-0", "O-O-O":
		return engine.Long, true
	}
	return engine.NoCastle, false
}

// ParseSquare reads a square name such as "e4".
func ParseSquare(s string) (engine.Square, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return engine.NoSquare, fmt.Errorf("%w: %q is not a square", ErrInvalidInput, s)
	}
	file, rank := int(s[0])-'a', int(s[1])-'1'
	if file < 0 || file >= engine.RowLen || rank < 0 || rank >= engine.RowLen {
		return engine.NoSquare, fmt.Errorf("%w: %q is not a square", ErrInvalidInput, s)
	}
	return engine.SquareAt(engine.RowLen-1-rank, file)
}

// ParsePromotion reads a promotion choice such as "q" or "knight".
func ParsePromotion(s string) (engine.PieceType, error) {
	t, ok := engine.ParsePieceType(s)
	if !ok {
		return engine.NoPieceType, fmt.Errorf("%w: unknown piece %q", ErrInvalidInput, s)
	}
	switch t {
	case engine.Queen, engine.Rook, engine.Bishop, engine.Knight:
		return t, nil
	}
	return engine.NoPieceType, fmt.Errorf("%w: %s", engine.ErrInvalidPromotion, t)
}

// pawnPush finds the side to move's pawn on to's file that can step straight
// onto to. Captures are not inferred.
func pawnPush(to engine.Square, pos *engine.Position) (engine.Move, error) {
	turn := pos.Turn()
	var found []engine.Move
	for row := 0; row < engine.RowLen; row++ {
		from, _ := engine.SquareAt(row, to.File())
		piece, _ := pos.Get(from)
		if !piece.Is(engine.Pawn, turn) {
			continue
		}
		if pushReaches(from, to, turn) {
			found = append(found, engine.NewMove(from, to))
		}
	}

	switch len(found) {
	case 0:
		return engine.Move{}, fmt.Errorf("%w: %s", ErrNoPawn, to)
	case 1:
		return found[0], nil
	}
	return engine.Move{}, fmt.Errorf("%w: %s", ErrAmbiguous, to)
}

func pushReaches(from, to engine.Square, turn engine.Player) bool {
	forward, home := -1, engine.RowLen-2
	if turn == engine.Black {
		forward, home = 1, 1
	}
	steps := (to.Row() - from.Row()) * forward
	return steps == 1 || (steps == 2 && from.Row() == home)
}
