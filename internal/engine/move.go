package engine

import "fmt"

type CastleSide uint8

const (
	NoCastle CastleSide = iota
	Short
	Long
)

func (c CastleSide) String() string {
	switch c {
	case Short:
		return "short"
	case Long:
		return "long"
	}
	return "none"
}

// Move is a from/to pair, or a castling request when Castle is set.
type Move struct {
	From   Square
	To     Square
	Castle CastleSide
}

func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

func CastleMove(side CastleSide) Move {
	return Move{From: NoSquare, To: NoSquare, Castle: side}
}

func (m Move) IsCastle() bool {
	return m.Castle != NoCastle
}

func (m Move) String() string {
	switch m.Castle {
	case Short:
		return "0-0"
	case Long:
		return "0-0-0"
	}
	return fmt.Sprintf("%s-%s", m.From, m.To)
}
