package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"

	"github.com/benbeisheim/rulechess-backend/internal/engine"
	"github.com/benbeisheim/rulechess-backend/internal/tui"
)

func main() {
	fen := flag.String("fen", engine.StartingFEN, "starting position")
	allowSelfCheck := flag.Bool("allow-self-check", false, "accept moves that leave your own king attacked")
	flag.Parse()

	log.SetHandler(text.New(os.Stderr))

	pos, err := engine.FromFEN(*fen, engine.WithRules(engine.Rules{ForbidSelfCheck: !*allowSelfCheck}))
	if err != nil {
		log.WithError(err).Fatal("load position")
	}

	screen, err := tui.Open()
	if err != nil {
		log.WithError(err).Fatal("open terminal")
	}
	tui.NewConsole(screen, pos).Run()
	screen.Fini()

	fmt.Println(pos.FEN())
}
