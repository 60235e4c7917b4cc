package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"goosecore/internal/eval"
	"goosecore/internal/position"
	"goosecore/internal/search"
)

// Context is the engine's single owner of mutable state (C10): the option
// registry, the thread pool (and through it the transposition table), the
// evaluator, and the current root position plus its game history. It is
// constructed once per process and passed explicitly to the UCI front-end,
// replacing the package-level globals the teacher used for the equivalent
// state (engine.History, engine.HistoryMap, engine.GlobalStop, and the
// tunable eval constants read directly by uci.go's setoption handler).
type Context struct {
	Options *Registry
	Pool    *search.Pool
	Eval    eval.Evaluator

	board      *position.Board
	keyHistory []uint64

	log zerolog.Logger
}

// NewContext builds a context with default options and an empty pool,
// ready for "uci"/"isready" but not yet holding a position.
func NewContext() *Context {
	opts := NewRegistry()
	return &Context{
		Options: opts,
		Pool:    search.NewPool(opts.Int("Hash"), opts.Int("Threads")),
		Eval:    eval.NewClassical(),
		board:   mustStartpos(),
		log:     log.With().Str("component", "engine").Logger(),
	}
}

func mustStartpos() *position.Board {
	b, err := position.ParseFEN(position.FENStartPos)
	if err != nil {
		panic(fmt.Sprintf("startpos FEN must parse: %v", err))
	}
	return b
}

// SetOption validates and applies one setoption command, resizing the TT
// or thread pool immediately when those particular options change.
func (c *Context) SetOption(name, value string) error {
	if err := c.Options.Set(name, value); err != nil {
		return err
	}
	switch strings.ToLower(name) {
	case "hash":
		c.Pool.Resize(c.Options.Int("Hash"))
	case "threads":
		c.Pool.SetThreads(c.Options.Int("Threads"))
	}
	c.log.Debug().Str("option", name).Str("value", value).Msg("setoption")
	return nil
}

// NewGame resets the position to startpos and clears search state,
// equivalent to the teacher's ucinewgame branch (board reset plus
// engine.ResetForNewGame()).
func (c *Context) NewGame() {
	c.board = mustStartpos()
	c.keyHistory = c.keyHistory[:0]
	c.Pool.Clear()
}

// SetPositionFEN replaces the root position from a FEN string.
func (c *Context) SetPositionFEN(fen string) error {
	b, err := position.ParseFEN(fen)
	if err != nil {
		return fmt.Errorf("position fen: %w", err)
	}
	c.board = b
	c.keyHistory = c.keyHistory[:0]
	c.keyHistory = append(c.keyHistory, c.board.Hash())
	return nil
}

// SetPositionStartpos resets the root position to the initial array.
func (c *Context) SetPositionStartpos() {
	c.board = mustStartpos()
	c.keyHistory = c.keyHistory[:0]
	c.keyHistory = append(c.keyHistory, c.board.Hash())
}

// ApplyUCIMove plays one move (in UCI long-algebraic notation) against the
// current root position, used while replaying a "position ... moves ..."
// command's move list.
func (c *Context) ApplyUCIMove(moveStr string) error {
	m, err := c.board.ParseUCIMove(moveStr)
	if err != nil {
		return fmt.Errorf("move %q: %w", moveStr, err)
	}
	if ok, _ := c.board.MakeMove(m); !ok {
		return fmt.Errorf("move %q is illegal in current position", moveStr)
	}
	c.keyHistory = append(c.keyHistory, c.board.Hash())
	return nil
}

// Board returns the current root position.
func (c *Context) Board() *position.Board { return c.board }

// StartSearch runs the pool's iterative deepening search against the
// current root position and limits, returning the ranked root moves.
func (c *Context) StartSearch(ctx context.Context, lim search.Limits) []search.RootMove {
	c.Pool.NewSearch()
	whiteToMove := c.board.SideToMove() == position.White
	tm := search.NewTimeManager(lim, whiteToMove, nonPawnPhase(c.board))
	multiPV := c.Options.Int("MultiPV")
	return c.Pool.Search(ctx, c.board, c.Eval, lim, multiPV, c.keyHistory, tm)
}

// Stop requests the in-flight search to abort as soon as possible.
func (c *Context) Stop() { c.Pool.Stop() }

func nonPawnPhase(b *position.Board) int {
	white := b.WhiteBitboards()
	black := b.BlackBitboards()
	count := func(bb uint64) int {
		n := 0
		for bb != 0 {
			bb &= bb - 1
			n++
		}
		return n
	}
	return count(white.Knights|black.Knights)*1 +
		count(white.Bishops|black.Bishops)*1 +
		count(white.Rooks|black.Rooks)*2 +
		count(white.Queens|black.Queens)*4
}
