package engine

import "fmt"

// Board is the 64-cell occupancy array. It is a value type; copying a Board
// never aliases the original.
type Board [BoardLen]Piece

var backRank = [RowLen]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StartingBoard returns the standard initial layout.
func StartingBoard() Board {
	var b Board
	for file, t := range backRank {
		b[file] = NewPiece(t, Black)
		b[RowLen+file] = NewPiece(Pawn, Black)
		b[BoardLen-2*RowLen+file] = NewPiece(Pawn, White)
		b[BoardLen-RowLen+file] = NewPiece(t, White)
	}
	return b
}

// Rules toggles optional legality checks applied by Play and Castle.
type Rules struct {
	// ForbidSelfCheck rejects moves that leave the mover's own king attacked.
	ForbidSelfCheck bool
}

func DefaultRules() Rules {
	return Rules{ForbidSelfCheck: true}
}

type Option func(*Position)

func WithRules(r Rules) Option {
	return func(p *Position) {
		p.rules = r
	}
}

// Position is a board plus the side to move. The roster and castling rights
// are derived from the board and rebuilt after every write.
type Position struct {
	spaces   Board
	turn     Player
	lastMove *Move
	keeper   *Keeper
	rules    Rules
}

// NewPosition returns the standard starting position with White to move.
func NewPosition(opts ...Option) *Position {
	return NewPositionFromBoard(StartingBoard(), White, opts...)
}

// NewEmptyPosition returns a cleared board. Castling rights start revoked
// because no king or rook is on its home square.
func NewEmptyPosition(turn Player, opts ...Option) *Position {
	return NewPositionFromBoard(Board{}, turn, opts...)
}

// NewPositionFromBoard wraps an arbitrary layout. Castling rights are derived
// from which kings and rooks are on their home squares.
func NewPositionFromBoard(b Board, turn Player, opts ...Option) *Position {
	p := &Position{
		spaces: b,
		turn:   turn,
		rules:  DefaultRules(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.keeper = NewKeeper(&p.spaces)
	return p
}

// commit is the only path that mutates the board.
func (p *Position) commit(apply func(b *Board)) {
	apply(&p.spaces)
	p.keeper.Update(&p.spaces)
}

func (p *Position) Get(sq Square) (Piece, error) {
	if !sq.Valid() {
		return Piece{}, fmt.Errorf("%w: %d", ErrOutOfRange, sq)
	}
	return p.spaces[sq], nil
}

// Space is an index-based lookup; ok is false for indices off the board.
func (p *Position) Space(i int) (Piece, bool) {
	sq, err := NewSquare(i)
	if err != nil {
		return Piece{}, false
	}
	return p.spaces[sq], true
}

// Spaces returns a copy of the board.
func (p *Position) Spaces() Board {
	return p.spaces
}

// Set writes a piece without any rule checks. Used for setups.
func (p *Position) Set(sq Square, piece Piece) error {
	if !sq.Valid() {
		return fmt.Errorf("%w: %d", ErrOutOfRange, sq)
	}
	p.commit(func(b *Board) {
		b[sq] = piece
	})
	return nil
}

// Relocate moves a piece without rule checks. It never overwrites.
func (p *Position) Relocate(m Move) error {
	if !m.From.Valid() || !m.To.Valid() {
		return &MoveError{Move: m, Err: ErrOutOfRange}
	}
	if p.spaces[m.From].Empty() {
		return &MoveError{Move: m, Err: ErrEmptySource}
	}
	if !p.spaces[m.To].Empty() {
		return &MoveError{Move: m, Piece: p.spaces[m.From].Type(), Err: ErrOccupied}
	}
	p.commit(func(b *Board) {
		b[m.To] = b[m.From]
		b[m.From] = Piece{}
	})
	return nil
}

// IsValidMove checks m for the side to move.
func (p *Position) IsValidMove(m Move) error {
	return IsValidMove(m, &p.spaces, p.turn)
}

// IsCapture reports whether m lands on an opposing piece.
func (p *Position) IsCapture(m Move) bool {
	return IsCapture(&p.spaces, m)
}

// Play validates m for the side to move and commits it. A castling move is
// delegated to Castle. The turn is not advanced.
//
// With Rules.ForbidSelfCheck set, the mover must have a king on the board;
// otherwise Play returns ErrMissingKing even for a geometrically valid move.
func (p *Position) Play(m Move) error {
	if m.IsCastle() {
		return Castle(p, m.Castle, p.turn)
	}
	if err := p.IsValidMove(m); err != nil {
		return err
	}
	if err := p.guardSelfCheck(SnapshotAfter(p, m), m); err != nil {
		return err
	}

	p.commit(func(b *Board) {
		b[m.To] = b[m.From]
		b[m.From] = Piece{}
	})
	p.lastMove = &m
	return nil
}

func (p *Position) guardSelfCheck(after Snapshot, m Move) error {
	if !p.rules.ForbidSelfCheck {
		return nil
	}
	inCheck, err := IsInCheck(after, p.turn)
	if err != nil {
		return err
	}
	if inCheck {
		return &MoveError{Move: m, Piece: p.spaces[m.From].Type(), Err: ErrSelfCheck}
	}
	return nil
}

func (p *Position) Turn() Player {
	return p.turn
}

func (p *Position) NextTurn() {
	p.turn = p.turn.Opponent()
}

func (p *Position) Rules() Rules {
	return p.rules
}

// LastMove is the most recently committed move, for display.
func (p *Position) LastMove() (Move, bool) {
	if p.lastMove == nil {
		return Move{}, false
	}
	return *p.lastMove, true
}

// Keeper returns a copy of the derived roster and castling state.
func (p *Position) Keeper() Keeper {
	return p.keeper.clone()
}

func (p *Position) CastlingRights(player Player) CastlingRights {
	return p.keeper.CastlingRights(player)
}

// Captured lists player's pieces that are no longer on the board.
func (p *Position) Captured(player Player) []PieceType {
	return p.keeper.Captured(player)
}

// InCheck reports whether player's king is attacked in the current position.
func (p *Position) InCheck(player Player) (bool, error) {
	return IsInCheck(NewSnapshot(p), player)
}

// PromotionSquare finds a pawn standing on its farthest rank.
func (p *Position) PromotionSquare() (Square, bool) {
	for file := 0; file < RowLen; file++ {
		if s := Square(file); p.spaces[s].Is(Pawn, White) {
			return s, true
		}
		if s := Square(BoardLen - RowLen + file); p.spaces[s].Is(Pawn, Black) {
			return s, true
		}
	}
	return NoSquare, false
}

// ChangePiece replaces a promotable pawn on sq with a piece of type t.
func (p *Position) ChangePiece(sq Square, t PieceType) error {
	if !sq.Valid() {
		return fmt.Errorf("%w: %d", ErrOutOfRange, sq)
	}
	switch t {
	case Queen, Rook, Bishop, Knight:
	default:
		return fmt.Errorf("%w: cannot promote to %s", ErrInvalidPromotion, t)
	}

	pawn := p.spaces[sq]
	promotable := (pawn.Is(Pawn, White) && sq.Row() == 0) || (pawn.Is(Pawn, Black) && sq.Row() == RowLen-1)
	if !promotable {
		return fmt.Errorf("%w: no pawn to promote on %s", ErrInvalidPromotion, sq)
	}

	p.commit(func(b *Board) {
		b[sq] = NewPiece(t, pawn.Owner())
	})
	return nil
}
