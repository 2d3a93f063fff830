package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for rejected moves and setups. Compare with errors.Is.
var (
	ErrOutOfRange          = errors.New("square out of range")
	ErrNoMovement          = errors.New("you have to actually move a piece")
	ErrEmptySource         = errors.New("no piece there")
	ErrSelfCapture         = errors.New("cannot capture your own piece")
	ErrWrongTurn           = errors.New("that's not your piece")
	ErrGeometry            = errors.New("piece cannot move that way")
	ErrPathBlocked         = errors.New("there is a piece in the way")
	ErrOccupied            = errors.New("piece already there")
	ErrCastlingUnavailable = errors.New("castling is currently not valid")
	ErrCastlingBlocked     = errors.New("there are pieces in the way of castling")
	ErrSelfCheck           = errors.New("move leaves your king in check")
	ErrInvalidPromotion    = errors.New("invalid promotion")
	ErrMissingKing         = errors.New("no king on the board")
	ErrInvalidFEN          = errors.New("invalid FEN")
)

// MoveError describes why a specific move was rejected. It unwraps to one
// of the sentinel errors above.
type MoveError struct {
	Move   Move
	Piece  PieceType
	Reason string
	Err    error
}

func (e *MoveError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Move, e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Move, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func geometryError(m Move, t PieceType, reason string) error {
	return &MoveError{Move: m, Piece: t, Reason: reason, Err: ErrGeometry}
}
