package model

import "github.com/benbeisheim/rulechess-backend/internal/engine"

type Player struct {
	ID string
}

type ClientPlayer struct {
	ID       string `json:"name"`
	Color    string `json:"color"`
	TimeLeft int    `json:"timeLeft"`
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

func playerColor(p engine.Player) PlayerColor {
	if p == engine.White {
		return PlayerColorWhite
	}
	return PlayerColorBlack
}
