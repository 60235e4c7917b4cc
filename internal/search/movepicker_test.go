package search

import (
	"testing"

	"goosecore/internal/position"
)

func mustParse(t *testing.T, fen string) *position.Board {
	t.Helper()
	b, err := position.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return b
}

func mustMove(t *testing.T, b *position.Board, uci string) position.Move {
	t.Helper()
	m, err := b.ParseUCIMove(uci)
	if err != nil {
		t.Fatalf("ParseUCIMove(%q): %v", uci, err)
	}
	return m
}

func drain(mp *MovePicker) []position.Move {
	var out []position.Move
	for {
		m, ok := mp.Next()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}

func TestMovePickerReturnsTTMoveFirst(t *testing.T) {
	b := mustParse(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	tt := mustMove(t, b, "e1d1") // a quiet king move, not the capture
	hist := NewHistory()

	mp := NewMovePicker(b, hist, tt, 0, nil, nil, 0)
	moves := drain(mp)
	if len(moves) == 0 || moves[0] != tt {
		t.Fatalf("expected TT move first, got %v", moves)
	}
}

func TestMovePickerOrdersGoodCapturesBeforeQuiets(t *testing.T) {
	b := mustParse(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	capture := mustMove(t, b, "e4d5")
	hist := NewHistory()

	mp := NewMovePicker(b, hist, 0, 0, nil, nil, 0)
	moves := drain(mp)
	if len(moves) == 0 || moves[0] != capture {
		t.Fatalf("expected the good capture first, got %v", moves)
	}
}

func TestMovePickerKillerOrderedBeforeOtherQuiets(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1")
	killer := mustMove(t, b, "e1d1")
	hist := NewHistory()
	hist.InsertKiller(0, killer)

	mp := NewMovePicker(b, hist, 0, 0, nil, nil, 0)
	moves := drain(mp)

	killerIdx, pushIdx := -1, -1
	push := mustMove(t, b, "e4e5")
	for i, m := range moves {
		if m == killer {
			killerIdx = i
		}
		if m == push {
			pushIdx = i
		}
	}
	if killerIdx == -1 || pushIdx == -1 {
		t.Fatalf("expected both killer and push move to be emitted, got %v", moves)
	}
	if killerIdx >= pushIdx {
		t.Fatalf("expected killer move (%d) before plain push (%d)", killerIdx, pushIdx)
	}
}

func TestMovePickerCountermoveOrderedBeforePlainQuiets(t *testing.T) {
	b := mustParse(t, "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1")
	countermove := mustMove(t, b, "e1f2")
	prev := position.Move(0x1234)
	hist := NewHistory()
	hist.SetCountermove(b.SideToMove(), prev, countermove)

	mp := NewMovePicker(b, hist, 0, 0, nil, nil, prev)
	moves := drain(mp)

	cmIdx, otherIdx := -1, -1
	other := mustMove(t, b, "e1d1")
	for i, m := range moves {
		if m == countermove {
			cmIdx = i
		}
		if m == other {
			otherIdx = i
		}
	}
	if cmIdx == -1 || otherIdx == -1 {
		t.Fatalf("expected both countermove and plain quiet to be emitted, got %v", moves)
	}
	if cmIdx >= otherIdx {
		t.Fatalf("expected countermove (%d) before plain quiet (%d)", cmIdx, otherIdx)
	}
}

func TestMovePickerBadCaptureComesLast(t *testing.T) {
	// White queen on d4 can take a pawn on d7 defended by the black king on
	// e8, a losing capture that SEE marks bad; e2-e3 is a plain good quiet.
	b := mustParse(t, "4k3/3p4/8/8/3Q4/8/4P3/4K3 w - - 0 1")
	badCapture := mustMove(t, b, "d4d7")
	quiet := mustMove(t, b, "e2e3")
	hist := NewHistory()

	mp := NewMovePicker(b, hist, 0, 0, nil, nil, 0)
	moves := drain(mp)

	badIdx, quietIdx := -1, -1
	for i, m := range moves {
		if m == badCapture {
			badIdx = i
		}
		if m == quiet {
			quietIdx = i
		}
	}
	if badIdx == -1 || quietIdx == -1 {
		t.Fatalf("expected both the bad capture and the quiet move, got %v", moves)
	}
	if badIdx <= quietIdx {
		t.Fatalf("expected bad capture (%d) after quiet move (%d)", badIdx, quietIdx)
	}
}

func TestQSearchMovePickerOnlyEmitsCaptures(t *testing.T) {
	b := mustParse(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	hist := NewHistory()

	mp := NewQSearchMovePicker(b, hist, 0, false)
	moves := drain(mp)
	if len(moves) != 1 || !b.IsCapture(moves[0]) {
		t.Fatalf("expected exactly one capture move from qsearch picker, got %v", moves)
	}
}

func TestQSearchMovePickerGeneratesEvasionsWhenInCheck(t *testing.T) {
	// Black king on e8 in check from the rook on e1, with no capturing
	// evasion available (Kd7/Kf7/Kd8/Kf8 are the only legal replies).
	b := mustParse(t, "4k3/8/8/8/8/8/8/4R2K b - - 0 1")
	hist := NewHistory()

	mp := NewQSearchMovePicker(b, hist, 0, true)
	moves := drain(mp)
	if len(moves) == 0 {
		t.Fatalf("expected qsearch picker to emit evasions when in check, got none")
	}
	for _, m := range moves {
		if b.IsCapture(m) {
			t.Fatalf("position has no capturing evasion, but picker returned a capture: %v", m)
		}
	}
}
