package engine

type castlePlan struct {
	rookFrom Square
	rookTo   Square
	kingTo   Square
	// between are the squares that must be empty, strictly between king and rook.
	between []Square
}

type castleLayout struct {
	king  Square
	short castlePlan
	long  castlePlan
}

var castleLayouts = [2]castleLayout{
	White: {
		king:  60,
		short: castlePlan{rookFrom: 63, rookTo: 61, kingTo: 62, between: []Square{61, 62}},
		long:  castlePlan{rookFrom: 56, rookTo: 59, kingTo: 58, between: []Square{57, 58, 59}},
	},
	Black: {
		king:  4,
		short: castlePlan{rookFrom: 7, rookTo: 5, kingTo: 6, between: []Square{5, 6}},
		long:  castlePlan{rookFrom: 0, rookTo: 3, kingTo: 2, between: []Square{1, 2, 3}},
	},
}

func (l castleLayout) plan(side CastleSide) castlePlan {
	if side == Long {
		return l.long
	}
	return l.short
}

// apply relocates rook then king on b.
func (l castleLayout) apply(b *Board, plan castlePlan) {
	b[plan.rookTo] = b[plan.rookFrom]
	b[plan.rookFrom] = Piece{}
	b[plan.kingTo] = b[l.king]
	b[l.king] = Piece{}
}

// Castle moves player's king and rook as one operation. Rights must allow
// the side and the squares between them must be empty; otherwise the board
// is left untouched.
func Castle(p *Position, side CastleSide, player Player) error {
	m := CastleMove(side)
	if side == NoCastle || !p.keeper.CanCastle(side, player) {
		return &MoveError{Move: m, Piece: King, Err: ErrCastlingUnavailable}
	}

	layout := castleLayouts[player]
	plan := layout.plan(side)
	for _, s := range plan.between {
		if !p.spaces[s].Empty() {
			return &MoveError{Move: m, Piece: King, Err: ErrCastlingBlocked}
		}
	}
	// Both relocations are checked before either square is touched.
	if !p.spaces[layout.king].Is(King, player) || !p.spaces[plan.rookFrom].Is(Rook, player) {
		return &MoveError{Move: m, Piece: King, Err: ErrCastlingUnavailable}
	}

	if p.rules.ForbidSelfCheck {
		after := NewSnapshot(p)
		layout.apply(&after.spaces, plan)
		inCheck, err := IsInCheck(after, player)
		if err != nil {
			return err
		}
		if inCheck {
			return &MoveError{Move: m, Piece: King, Err: ErrSelfCheck}
		}
	}

	p.commit(func(b *Board) {
		layout.apply(b, plan)
	})
	p.lastMove = &Move{From: layout.king, To: plan.kingTo, Castle: side}
	return nil
}
