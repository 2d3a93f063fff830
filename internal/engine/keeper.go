package engine

import "slices"

// fullSet is one side's starting material.
var fullSet = [16]PieceType{
	Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn, Pawn,
	Rook, Rook,
	Knight, Knight,
	Bishop, Bishop,
	Queen, King,
}

type CastlingRights uint8

const (
	Unable CastlingRights = iota
	AbleShort
	AbleLong
	AbleBoth
)

func rightsFrom(short, long bool) CastlingRights {
	switch {
	case short && long:
		return AbleBoth
	case short:
		return AbleShort
	case long:
		return AbleLong
	}
	return Unable
}

func (r CastlingRights) Allows(side CastleSide) bool {
	switch side {
	case Short:
		return r == AbleShort || r == AbleBoth
	case Long:
		return r == AbleLong || r == AbleBoth
	}
	return false
}

func (r CastlingRights) intersect(o CastlingRights) CastlingRights {
	return rightsFrom(r.Allows(Short) && o.Allows(Short), r.Allows(Long) && o.Allows(Long))
}

func (r CastlingRights) String() string {
	switch r {
	case AbleShort:
		return "short"
	case AbleLong:
		return "long"
	case AbleBoth:
		return "both"
	}
	return "none"
}

type RosterEntry struct {
	Type   PieceType
	Square Square
}

// Keeper holds each side's pieces and castling rights, rebuilt from a board.
type Keeper struct {
	white  []RosterEntry
	black  []RosterEntry
	rights [2]CastlingRights
}

// NewKeeper builds a roster for b. Castling rights start at AbleBoth and are
// narrowed by what b shows on the home squares.
func NewKeeper(b *Board) *Keeper {
	k := &Keeper{rights: [2]CastlingRights{AbleBoth, AbleBoth}}
	k.Update(b)
	return k
}

// Update rebuilds both rosters from scratch and narrows castling rights.
func (k *Keeper) Update(b *Board) {
	var white, black []RosterEntry
	for i, piece := range b {
		if piece.Empty() {
			continue
		}
		entry := RosterEntry{Type: piece.Type(), Square: Square(i)}
		if piece.Owner() == White {
			white = append(white, entry)
		} else {
			black = append(black, entry)
		}
	}
	k.white = white
	k.black = black

	k.determineCastlingState(b, White)
	k.determineCastlingState(b, Black)
}

func (k *Keeper) determineCastlingState(b *Board, player Player) {
	if k.rights[player] == Unable {
		return
	}
	home := castleLayouts[player]
	kingHome := b[home.king].Is(King, player)
	short := kingHome && b[home.short.rookFrom].Is(Rook, player)
	long := kingHome && b[home.long.rookFrom].Is(Rook, player)

	k.rights[player] = k.rights[player].intersect(rightsFrom(short, long))
}

// restrict narrows player's rights further, e.g. from an imported FEN.
func (k *Keeper) restrict(player Player, r CastlingRights) {
	k.rights[player] = k.rights[player].intersect(r)
}

func (k *Keeper) CastlingRights(player Player) CastlingRights {
	return k.rights[player]
}

func (k *Keeper) CanCastle(side CastleSide, player Player) bool {
	return k.rights[player].Allows(side)
}

func (k *Keeper) White() []RosterEntry {
	return slices.Clone(k.white)
}

func (k *Keeper) Black() []RosterEntry {
	return slices.Clone(k.black)
}

func (k *Keeper) Pieces(player Player) []RosterEntry {
	if player == White {
		return k.White()
	}
	return k.Black()
}

func (k *Keeper) roster(player Player) []RosterEntry {
	if player == White {
		return k.white
	}
	return k.black
}

// King finds player's king. With more than one king the first in board order wins.
func (k *Keeper) King(player Player) (Square, bool) {
	for _, e := range k.roster(player) {
		if e.Type == King {
			return e.Square, true
		}
	}
	return NoSquare, false
}

// Captured returns player's starting pieces that are missing from the board,
// matched by type only.
func (k *Keeper) Captured(player Player) []PieceType {
	missing := slices.Clone(fullSet[:])
	for _, e := range k.roster(player) {
		if i := slices.Index(missing, e.Type); i >= 0 {
			missing = slices.Delete(missing, i, i+1)
		}
	}
	return missing
}

func (k *Keeper) clone() Keeper {
	return Keeper{
		white:  slices.Clone(k.white),
		black:  slices.Clone(k.black),
		rights: k.rights,
	}
}
