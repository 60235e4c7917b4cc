package main

import (
	"bufio"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"goosecore/internal/engine"
	"goosecore/internal/protocol/uci"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	ctx := engine.NewContext()
	out := bufio.NewWriter(os.Stdout)
	loop := uci.NewLoop(ctx, out)
	loop.Run(os.Stdin)
}
