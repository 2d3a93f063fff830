package engine

const (
	whitePawnHomeStart = 48
	whitePawnHomeEnd   = 56
	blackPawnHomeStart = 8
	blackPawnHomeEnd   = 16
)

const (
	pawnBackwards     = "Pawn cannot move backwards!"
	pawnCaptureOnly   = "Pawn can only capture diagonally one space ahead!"
	pawnStraightOnly  = "Pawn can only move straight forward!"
	knightShape       = "Knights can only move in those 'L' shaped patterns!"
	rookShape         = "Rooks only move horizontally or vertically!"
	bishopShape       = "Bishops only move diagonally!"
	queenShape        = "The Queen can only move horizontally, vertically, or diagonally!"
	kingShape         = "The King can only move horizontally, vertically, and diagonally one space!"
	castleNotMoveRule = "castling is not a board move"
)

// IsValidMove checks m against the movement rules for the piece on m.From,
// with turn as the side allowed to move. It returns nil when the move is legal.
// It does not check whether the move leaves the mover's king attacked.
func IsValidMove(m Move, b *Board, turn Player) error {
	if m.IsCastle() {
		return &MoveError{Move: m, Reason: castleNotMoveRule, Err: ErrGeometry}
	}
	if !m.From.Valid() || !m.To.Valid() {
		return &MoveError{Move: m, Err: ErrOutOfRange}
	}
	if m.From == m.To {
		return &MoveError{Move: m, Err: ErrNoMovement}
	}

	piece := b[m.From]
	if piece.Empty() {
		return &MoveError{Move: m, Err: ErrEmptySource}
	}
	if target := b[m.To]; !target.Empty() && target.Owner() == piece.Owner() {
		return &MoveError{Move: m, Piece: piece.Type(), Err: ErrSelfCapture}
	}
	if piece.Owner() != turn {
		return &MoveError{Move: m, Piece: piece.Type(), Err: ErrWrongTurn}
	}

	switch piece.Type() {
	case Pawn:
		return pawnMovement(b, m, piece.Owner())
	case Rook:
		return slidingMovement(b, m, Rook, rookDirections, rookShape)
	case Knight:
		return knightMovement(m)
	case Bishop:
		return slidingMovement(b, m, Bishop, bishopDirections, bishopShape)
	case Queen:
		return slidingMovement(b, m, Queen, queenDirections, queenShape)
	case King:
		return kingMovement(m)
	}
	return &MoveError{Move: m, Err: ErrEmptySource}
}

func pawnMovement(b *Board, m Move, owner Player) error {
	from, to := int(m.From), int(m.To)

	// forward is the index delta of a single step for this pawn.
	forward := -RowLen
	homeStart, homeEnd := whitePawnHomeStart, whitePawnHomeEnd
	if owner == Black {
		forward = RowLen
		homeStart, homeEnd = blackPawnHomeStart, blackPawnHomeEnd
	}

	rows := m.To.Row() - m.From.Row()
	if (owner == White && rows > 0) || (owner == Black && rows < 0) {
		return geometryError(m, Pawn, pawnBackwards)
	}

	if !b[m.To].Empty() {
		if rows == forward/RowLen && fileDistance(m.From, m.To) == 1 {
			return nil
		}
		return geometryError(m, Pawn, pawnCaptureOnly)
	}

	if to-from == forward {
		return nil
	}
	if from >= homeStart && from < homeEnd && to-from == 2*forward {
		return nil
	}
	return geometryError(m, Pawn, pawnStraightOnly)
}

func knightMovement(m Move) error {
	diff := abs(int(m.To) - int(m.From))
	files := fileDistance(m.From, m.To)

	switch diff {
	case 2*RowLen - 1, 2*RowLen + 1:
		if files == 1 {
			return nil
		}
	case RowLen - 2, RowLen + 2:
		if files == 2 {
			return nil
		}
	}
	return geometryError(m, Knight, knightShape)
}

func slidingMovement(b *Board, m Move, t PieceType, dirs []Direction, shape string) error {
	matched, err := slide(b, m, dirs)
	if !matched {
		return geometryError(m, t, shape)
	}
	return err
}

func kingMovement(m Move) error {
	for _, d := range kingDirections {
		if s, ok := d.Step(m.From); ok && s == m.To {
			return nil
		}
	}
	return geometryError(m, King, kingShape)
}

// IsCapture reports whether m would land on an opposing piece.
func IsCapture(b *Board, m Move) bool {
	if m.IsCastle() || !m.From.Valid() || !m.To.Valid() {
		return false
	}
	src, dst := b[m.From], b[m.To]
	return !src.Empty() && !dst.Empty() && src.Owner() != dst.Owner()
}
