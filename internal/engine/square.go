package engine

import "fmt"

const (
	RowLen   = 8
	BoardLen = RowLen * RowLen
)

// Square is a board cell index, 0..63, row-major from a8 (0) to h1 (63).
type Square int8

// NoSquare marks the absence of a square.
const NoSquare Square = -1

// NewSquare converts a raw index into a Square, rejecting anything off the board.
func NewSquare(i int) (Square, error) {
	if i < 0 || i >= BoardLen {
		return NoSquare, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	return Square(i), nil
}

// SquareAt returns the square on the given row (0 is rank 8) and file (0 is the a-file).
func SquareAt(row, file int) (Square, error) {
	if row < 0 || row >= RowLen || file < 0 || file >= RowLen {
		return NoSquare, fmt.Errorf("%w: row %d file %d", ErrOutOfRange, row, file)
	}
	return Square(row*RowLen + file), nil
}

func (s Square) Valid() bool {
	return s >= 0 && int(s) < BoardLen
}

// Row is the 0-based row counted from Black's back rank.
func (s Square) Row() int {
	return int(s) / RowLen
}

func (s Square) File() int {
	return int(s) % RowLen
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+s.File(), RowLen-s.Row())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// fileDistance reports how many files apart two squares are.
func fileDistance(a, b Square) int {
	return abs(a.File() - b.File())
}
