package engine

import "fmt"

// Snapshot is a detached copy of a board used to evaluate positions without
// touching the live game.
type Snapshot struct {
	spaces Board
	turn   Player
}

func NewSnapshot(p *Position) Snapshot {
	return Snapshot{spaces: p.spaces, turn: p.turn}
}

// SnapshotAfter is the hypothetical board after moving m.From onto m.To.
// No legality checks are made.
func SnapshotAfter(p *Position, m Move) Snapshot {
	s := NewSnapshot(p)
	if m.From.Valid() && m.To.Valid() {
		s.spaces[m.To] = s.spaces[m.From]
		s.spaces[m.From] = Piece{}
	}
	return s
}

// SnapshotOf wraps a raw board.
func SnapshotOf(b Board, turn Player) Snapshot {
	return Snapshot{spaces: b, turn: turn}
}

func (s Snapshot) Spaces() Board {
	return s.spaces
}

func (s Snapshot) Turn() Player {
	return s.turn
}

// IsInCheck reports whether player's king is attacked on the snapshot: every
// opposing piece is asked whether it could legally move onto the king's
// square, as if it were the opponent's turn.
func IsInCheck(s Snapshot, player Player) (bool, error) {
	squares, err := scanAttacks(s, player, true)
	return len(squares) > 0, err
}

// Attackers lists the squares of opposing pieces that give check to player.
func Attackers(s Snapshot, player Player) ([]Square, error) {
	return scanAttacks(s, player, false)
}

func scanAttacks(s Snapshot, player Player, firstOnly bool) ([]Square, error) {
	roster := NewKeeper(&s.spaces)
	king, ok := roster.King(player)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKing, player)
	}

	var squares []Square
	attacker := player.Opponent()
	for _, e := range roster.roster(attacker) {
		if IsValidMove(NewMove(e.Square, king), &s.spaces, attacker) != nil {
			continue
		}
		squares = append(squares, e.Square)
		if firstOnly {
			break
		}
	}
	return squares, nil
}
