package uci

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"goosecore/internal/engine"
	"goosecore/internal/search"
)

const (
	engineName   = "goosecore"
	engineAuthor = "goosecore contributors"
)

// Loop is the line-oriented command dispatcher (C11), the stdin half of the
// UCI front-end. It owns no search logic: every command either formats a
// reply directly or delegates to an engine.Context method, mirroring the
// teacher's uciLoop switch but routed through an explicit context instead
// of package-level globals.
type Loop struct {
	ctx *engine.Context
	out *Writer

	searchDone chan struct{}
}

// NewLoop constructs a command loop writing to w and driving ctx.
func NewLoop(ctx *engine.Context, w *bufio.Writer) *Loop {
	return &Loop{ctx: ctx, out: NewWriter(w)}
}

// Run reads commands from r until "quit" or EOF. "go" is dispatched onto
// its own goroutine so the loop keeps reading stdin while a search is in
// flight — otherwise a blocking "go" would swallow the very "stop" line
// meant to interrupt it, unlike the teacher's single-threaded uciLoop,
// which never needed to interrupt a search from the same goroutine.
func (l *Loop) Run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if l.dispatch(line) {
			l.awaitSearch()
			return
		}
	}
	l.awaitSearch()
}

// awaitSearch blocks until any in-flight "go" search has emitted bestmove.
func (l *Loop) awaitSearch() {
	if l.searchDone != nil {
		<-l.searchDone
	}
}

// dispatch handles one line, returning true when the loop should stop
// (i.e. "quit" was received).
func (l *Loop) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "uci":
		l.out.Identify(engineName, engineAuthor, l.ctx.Options.Lines())
	case "isready":
		l.out.ReadyOK()
	case "ucinewgame":
		l.ctx.NewGame()
	case "setoption":
		l.handleSetOption(args)
	case "position":
		l.handlePosition(args)
	case "go":
		l.awaitSearch()
		l.startGo(args)
	case "stop":
		l.ctx.Stop()
	case "quit":
		l.ctx.Stop()
		return true
	default:
		l.out.InfoString("unknown command: " + cmd)
	}
	return false
}

// handleSetOption parses "setoption name <N...> value <V...>".
func (l *Loop) handleSetOption(args []string) {
	nameParts := []string{}
	valueParts := []string{}
	mode := ""
	for _, tok := range args {
		switch strings.ToLower(tok) {
		case "name":
			mode = "name"
			continue
		case "value":
			mode = "value"
			continue
		}
		switch mode {
		case "name":
			nameParts = append(nameParts, tok)
		case "value":
			valueParts = append(valueParts, tok)
		}
	}
	name := strings.Join(nameParts, " ")
	value := strings.Join(valueParts, " ")
	if name == "" {
		l.out.InfoString("malformed setoption command")
		return
	}
	if err := l.ctx.SetOption(name, value); err != nil {
		l.out.InfoString(err.Error())
	}
}

// handlePosition parses "position [startpos|fen <F...>] [moves <M...>]".
func (l *Loop) handlePosition(args []string) {
	if len(args) == 0 {
		l.out.InfoString("malformed position command")
		return
	}

	idx := 0
	switch strings.ToLower(args[0]) {
	case "startpos":
		l.ctx.SetPositionStartpos()
		idx = 1
	case "fen":
		fenTokens := []string{}
		idx = 1
		for idx < len(args) && strings.ToLower(args[idx]) != "moves" {
			fenTokens = append(fenTokens, args[idx])
			idx++
		}
		if err := l.ctx.SetPositionFEN(strings.Join(fenTokens, " ")); err != nil {
			l.out.InfoString(err.Error())
			return
		}
	default:
		l.out.InfoString("invalid position subcommand")
		return
	}

	if idx >= len(args) || strings.ToLower(args[idx]) != "moves" {
		return
	}
	for _, mv := range args[idx+1:] {
		if err := l.ctx.ApplyUCIMove(strings.ToLower(mv)); err != nil {
			l.out.InfoString(err.Error())
			return
		}
	}
}

// startGo parses "go" subcommands into search.Limits and launches the
// search on its own goroutine, recording a done channel so a subsequent
// "quit"/"go" can wait for the bestmove line to be emitted first.
func (l *Loop) startGo(args []string) {
	done := make(chan struct{})
	l.searchDone = done
	go func() {
		defer close(done)
		l.runGo(args)
	}()
}

// runGo parses "go" subcommands into search.Limits and runs the search,
// emitting an info line and a final bestmove.
func (l *Loop) runGo(args []string) {
	var lim search.Limits
	for i := 0; i < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "infinite":
			lim.Infinite = true
		case "wtime":
			i++
			lim.WTime = msArg(args, i)
		case "btime":
			i++
			lim.BTime = msArg(args, i)
		case "winc":
			i++
			lim.WInc = msArg(args, i)
		case "binc":
			i++
			lim.BInc = msArg(args, i)
		case "movestogo":
			i++
			lim.MovesToGo = intArg(args, i)
		case "movetime":
			i++
			lim.MoveTime = msArg(args, i)
		case "depth":
			i++
			lim.Depth = intArg(args, i)
		case "nodes":
			i++
			lim.Nodes = uint64(intArg(args, i))
		}
	}

	sess := search.NewSession()
	start := time.Now()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	moves := l.ctx.StartSearch(ctx, lim)
	log.Debug().Str("session", sess.String()).Dur("elapsed", time.Since(start)).Msg("search complete")

	if len(moves) == 0 {
		l.out.BestMove("")
		return
	}
	best := moves[0]
	elapsed := time.Since(start)
	l.out.SearchInfo(best, best.Depth, 0, 0, elapsed.Milliseconds(), 0)
	if len(best.PV.Moves) > 0 {
		l.out.BestMove(best.PV.Moves[0].String())
	} else {
		l.out.BestMove(best.Move.String())
	}
}

func msArg(args []string, i int) time.Duration {
	return time.Duration(intArg(args, i)) * time.Millisecond
}

func intArg(args []string, i int) int {
	if i < 0 || i >= len(args) {
		return 0
	}
	n, _ := strconv.Atoi(args[i])
	return n
}
