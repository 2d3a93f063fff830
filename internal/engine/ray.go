package engine

type Direction uint8

const (
	North Direction = iota
	Northeast
	East
	Southeast
	South
	Southwest
	West
	Northwest
)

var (
	rookDirections   = []Direction{North, East, South, West}
	bishopDirections = []Direction{Northeast, Northwest, Southeast, Southwest}
	queenDirections  = []Direction{North, East, South, West, Northeast, Northwest, Southeast, Southwest}
	kingDirections   = queenDirections
)

var directionNames = [...]string{"north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// delta is the index change for one step in the direction.
func (d Direction) delta() int {
	switch d {
	case North:
		return -RowLen
	case Northeast:
		return -RowLen + 1
	case East:
		return 1
	case Southeast:
		return RowLen + 1
	case South:
		return RowLen
	case Southwest:
		return RowLen - 1
	case West:
		return -1
	case Northwest:
		return -RowLen - 1
	}
	return 0
}

// canStep reports whether one more step from s stays on the board without
// wrapping across the a/h files.
func (d Direction) canStep(s Square) bool {
	top := s.Row() == 0
	bottom := s.Row() == RowLen-1
	left := s.File() == 0
	right := s.File() == RowLen-1

	switch d {
	case North:
		return !top
	case Northeast:
		return !top && !right
	case East:
		return !right
	case Southeast:
		return !bottom && !right
	case South:
		return !bottom
	case Southwest:
		return !bottom && !left
	case West:
		return !left
	case Northwest:
		return !top && !left
	}
	return false
}

// Step moves one square in the direction. The second result is false at the edge.
func (d Direction) Step(s Square) (Square, bool) {
	if !s.Valid() || !d.canStep(s) {
		return NoSquare, false
	}
	return s + Square(d.delta()), true
}

// ScanForTarget walks from `from` toward the edge and reports whether target
// lies on that ray. Occupancy is ignored.
func ScanForTarget(from Square, d Direction, target Square) bool {
	return stepsTo(from, d, target) > 0
}

// FirstBlocker returns the first occupied square on the ray from `from`,
// friend or foe.
func FirstBlocker(b *Board, from Square, d Direction) (Square, bool) {
	for s, ok := d.Step(from); ok; s, ok = d.Step(s) {
		if !b[s].Empty() {
			return s, true
		}
	}
	return NoSquare, false
}

// stepsTo counts the steps from `from` to target along d, or 0 if target is
// not on the ray.
func stepsTo(from Square, d Direction, target Square) int {
	n := 0
	for s, ok := d.Step(from); ok; s, ok = d.Step(s) {
		n++
		if s == target {
			return n
		}
	}
	return 0
}

// slide checks a sliding move against the given directions. The first
// direction whose ray contains the destination decides the verdict.
func slide(b *Board, m Move, dirs []Direction) (matched bool, err error) {
	for _, d := range dirs {
		dist := stepsTo(m.From, d, m.To)
		if dist == 0 {
			continue
		}
		blocker, found := FirstBlocker(b, m.From, d)
		if found && stepsTo(m.From, d, blocker) < dist {
			return true, &MoveError{Move: m, Piece: b[m.From].Type(), Reason: ErrPathBlocked.Error(), Err: ErrPathBlocked}
		}
		return true, nil
	}
	return false, nil
}
