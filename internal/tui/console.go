// Package tui runs a local two-player game on a terminal screen.
package tui

import (
	"errors"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/benbeisheim/rulechess-backend/internal/engine"
	"github.com/benbeisheim/rulechess-backend/internal/notation"
	"github.com/benbeisheim/rulechess-backend/internal/render"
)

const prompt = "> "

// Console is a hot-seat game: both sides type their moves at the same prompt.
type Console struct {
	screen  tcell.Screen
	pos     *engine.Position
	input   []rune
	message string
	quit    bool
	style   tcell.Style
	alert   tcell.Style
}

func NewConsole(screen tcell.Screen, pos *engine.Position) *Console {
	return &Console{
		screen: screen,
		pos:    pos,
		style:  tcell.StyleDefault,
		alert:  tcell.StyleDefault.Foreground(tcell.ColorRed),
	}
}

// Run draws and handles key events until the player quits.
func (c *Console) Run() {
	c.Draw()
	for !c.quit {
		switch ev := c.screen.PollEvent().(type) {
		case *tcell.EventKey:
			c.HandleKey(ev)
		case *tcell.EventResize:
			c.screen.Sync()
		case nil:
			return
		}
		c.Draw()
	}
}

// HandleKey edits the input line. Enter submits it; Esc and Ctrl-C quit.
// It reports whether the console is still running.
func (c *Console) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		c.quit = true
	case tcell.KeyEnter:
		line := string(c.input)
		c.input = c.input[:0]
		c.submit(line)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(c.input); n > 0 {
			c.input = c.input[:n-1]
		}
	case tcell.KeyRune:
		c.input = append(c.input, ev.Rune())
	}
	return !c.quit
}

func (c *Console) submit(line string) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "quit", "exit":
		c.quit = true
		return
	}

	if err := c.play(line); err != nil {
		c.message = err.Error()
		return
	}
	c.message = ""
	if _, ok := c.pos.PromotionSquare(); ok {
		c.message = "Promote to (q, r, b, n)"
	}
}

func (c *Console) play(line string) error {
	if sq, ok := c.pos.PromotionSquare(); ok {
		t, err := notation.ParsePromotion(line)
		if err != nil {
			return err
		}
		if err := c.pos.ChangePiece(sq, t); err != nil {
			return err
		}
		c.pos.NextTurn()
		return nil
	}

	m, err := notation.Parse(line, c.pos)
	if err != nil {
		return err
	}
	if err := c.pos.Play(m); err != nil {
		return err
	}
	if _, ok := c.pos.PromotionSquare(); !ok {
		c.pos.NextTurn()
	}
	return nil
}

// Message is the last error or hint shown under the board.
func (c *Console) Message() string {
	return c.message
}

func (c *Console) Draw() {
	c.screen.Clear()

	lines := render.Board(c.pos, render.Options{Coordinates: true, LastMove: true})
	lines = append(lines,
		"",
		render.Status(c.pos),
		render.Captured(engine.White, c.pos.Captured(engine.White)),
		render.Captured(engine.Black, c.pos.Captured(engine.Black)),
	)
	y := 0
	for _, line := range lines {
		c.drawLine(y, line, c.style)
		y++
	}
	if c.message != "" {
		c.drawLine(y, c.message, c.alert)
	}
	y++
	c.drawLine(y, prompt+string(c.input), c.style)
	c.screen.ShowCursor(len(prompt)+len(c.input), y)
	c.screen.Show()
}

func (c *Console) drawLine(y int, s string, style tcell.Style) {
	x := 0
	for _, r := range s {
		c.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// ErrNoTerminal is returned when no screen can be opened.
var ErrNoTerminal = errors.New("no terminal available")

// Open initialises the real terminal screen.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Join(ErrNoTerminal, err)
	}
	if err := screen.Init(); err != nil {
		return nil, errors.Join(ErrNoTerminal, err)
	}
	return screen, nil
}
