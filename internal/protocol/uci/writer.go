package uci

import (
	"bufio"
	"fmt"
	"strings"

	"goosecore/internal/search"
)

// Writer formats engine output as UCI protocol lines (the stdout half of
// C11), grounded on the teacher's direct fmt.Println calls but collected
// into one place so "info"/"bestmove" formatting isn't duplicated across
// every branch of the command loop the way the teacher's uci.go repeats
// fmt.Printf("info ...") at each go-loop iteration.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w for buffered, line-oriented UCI output.
func NewWriter(w *bufio.Writer) *Writer { return &Writer{w: w} }

func (wr *Writer) line(s string) {
	fmt.Fprintln(wr.w, s)
	wr.w.Flush()
}

// Identify emits the "id"/"option"/"uciok" block for the "uci" command.
func (wr *Writer) Identify(name, author string, optionLines []string) {
	wr.line("id name " + name)
	wr.line("id author " + author)
	for _, l := range optionLines {
		wr.line(l)
	}
	wr.line("uciok")
}

// ReadyOK emits "readyok" for the "isready" command.
func (wr *Writer) ReadyOK() { wr.line("readyok") }

// InfoString emits one "info string" diagnostic line.
func (wr *Writer) InfoString(msg string) { wr.line("info string " + msg) }

// SearchInfo emits one "info depth ... score ... nodes ... pv ..." line
// summarizing a completed iterative-deepening depth.
func (wr *Writer) SearchInfo(rm search.RootMove, depth, nps, hashfull int, elapsedMS int64, nodes uint64) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d seldepth %d", depth, rm.SelDepth)
	if rm.Score >= search.MateInMax {
		movesToMate := (search.Checkmate - rm.Score + 1) / 2
		fmt.Fprintf(&sb, " score mate %d", movesToMate)
	} else if rm.Score <= -search.MateInMax {
		movesToMate := -(search.Checkmate + rm.Score) / 2
		fmt.Fprintf(&sb, " score mate %d", movesToMate)
	} else {
		fmt.Fprintf(&sb, " score cp %d", rm.Score)
	}
	fmt.Fprintf(&sb, " nodes %d nps %d hashfull %d time %d pv", nodes, nps, hashfull, elapsedMS)
	for _, m := range rm.PV.Moves {
		sb.WriteString(" ")
		sb.WriteString(m.String())
	}
	wr.line(sb.String())
}

// BestMove emits the terminal "bestmove" line, or "bestmove 0000" if no
// legal move was found (mate/stalemate at the root).
func (wr *Writer) BestMove(m string) {
	if m == "" {
		m = "0000"
	}
	wr.line("bestmove " + m)
}
