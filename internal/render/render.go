// Package render draws positions as plain text for terminals and logs.
package render

import (
	"fmt"
	"strings"

	"github.com/benbeisheim/rulechess-backend/internal/engine"
)

const (
	margin    = "  "
	cellWidth = 5
)

type Options struct {
	// Coordinates adds rank numbers on the left and file letters below.
	Coordinates bool
	// LastMove marks the squares of the position's last move.
	LastMove bool
}

// Board renders pos as a grid of boxed cells, three text lines per row.
// White pieces are uppercase, Black lowercase.
func Board(pos *engine.Position, opts Options) []string {
	marked := map[engine.Square]bool{}
	if m, ok := pos.LastMove(); ok && opts.LastMove {
		marked[m.From] = true
		marked[m.To] = true
	}

	spaces := pos.Spaces()
	lines := []string{margin + strings.Repeat(" "+strings.Repeat("_", cellWidth), engine.RowLen)}
	for row := 0; row < engine.RowLen; row++ {
		var top, mid, bottom strings.Builder
		label := margin
		if opts.Coordinates {
			label = fmt.Sprintf("%d ", engine.RowLen-row)
		}
		top.WriteString(margin)
		mid.WriteString(label)
		bottom.WriteString(margin)

		for file := 0; file < engine.RowLen; file++ {
			sq, _ := engine.SquareAt(row, file)
			if marked[sq] {
				top.WriteString("|  *  ")
			} else {
				top.WriteString("|     ")
			}
			mid.WriteString("|  " + cell(spaces[sq]) + "  ")
			bottom.WriteString("|_____")
		}
		lines = append(lines, top.String()+"|", mid.String()+"|", bottom.String()+"|")
	}

	if opts.Coordinates {
		var files strings.Builder
		files.WriteString(margin)
		for file := 0; file < engine.RowLen; file++ {
			fmt.Fprintf(&files, "   %c  ", 'a'+file)
		}
		lines = append(lines, strings.TrimRight(files.String(), " "))
	}
	return lines
}

func cell(p engine.Piece) string {
	if p.Empty() {
		return " "
	}
	return p.Letter()
}

// Captured lists pieces taken from owner, using owner's letter case.
func Captured(owner engine.Player, taken []engine.PieceType) string {
	letters := make([]string, 0, len(taken))
	for _, t := range taken {
		letters = append(letters, engine.NewPiece(t, owner).Letter())
	}
	return fmt.Sprintf("%s lost: %s", title(owner), strings.Join(letters, " "))
}

// Status describes whose turn it is and whether they are in check.
func Status(pos *engine.Position) string {
	turn := pos.Turn()
	status := title(turn) + " to move"

	inCheck, err := pos.InCheck(turn)
	switch {
	case err != nil:
		return status + " (no king)"
	case inCheck:
		return status + ", in check"
	}
	return status
}

func title(p engine.Player) string {
	if p == engine.White {
		return "White"
	}
	return "Black"
}
