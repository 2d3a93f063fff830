package engine

import "strings"

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

var pieceTypeNames = map[PieceType]string{
	Pawn:   "pawn",
	Rook:   "rook",
	Knight: "knight",
	Bishop: "bishop",
	Queen:  "queen",
	King:   "king",
}

func (t PieceType) String() string {
	if name, ok := pieceTypeNames[t]; ok {
		return name
	}
	return "none"
}

// Letter is the English notation letter for the type; pawns use "P".
func (t PieceType) Letter() string {
	switch t {
	case Pawn:
		return "P"
	case Rook:
		return "R"
	case Knight:
		return "N"
	case Bishop:
		return "B"
	case Queen:
		return "Q"
	case King:
		return "K"
	}
	return ""
}

// ParsePieceType accepts full names ("queen") or letters ("q", "N").
func ParsePieceType(s string) (PieceType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range pieceTypeNames {
		if s == name || s == strings.ToLower(t.Letter()) {
			return t, true
		}
	}
	return NoPieceType, false
}

type Player uint8

const (
	White Player = iota
	Black
)

func (p Player) Opponent() Player {
	if p == White {
		return Black
	}
	return White
}

func (p Player) String() string {
	if p == White {
		return "white"
	}
	return "black"
}

// Piece is the content of a square. The zero value is an empty square.
type Piece struct {
	kind  PieceType
	owner Player
}

func NewPiece(t PieceType, p Player) Piece {
	return Piece{kind: t, owner: p}
}

func (p Piece) Empty() bool {
	return p.kind == NoPieceType
}

func (p Piece) Type() PieceType {
	return p.kind
}

func (p Piece) Owner() Player {
	return p.owner
}

// Is reports whether the square holds a piece of type t owned by player.
func (p Piece) Is(t PieceType, player Player) bool {
	return !p.Empty() && p.kind == t && p.owner == player
}

// Letter renders the piece uppercase for White and lowercase for Black.
func (p Piece) Letter() string {
	if p.Empty() {
		return ""
	}
	if p.owner == Black {
		return strings.ToLower(p.kind.Letter())
	}
	return p.kind.Letter()
}

func (p Piece) String() string {
	if p.Empty() {
		return "empty"
	}
	return p.owner.String() + " " + p.kind.String()
}
