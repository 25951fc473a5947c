package chess

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fixture builds a game from explicit placements with the given side to
// move. Positions that need kings list them explicitly.
func fixture(turn Team, placements map[Position]Piece) *Game {
	board := NewBoard()
	for pos, piece := range placements {
		board.Place(pos, piece)
	}
	game := NewGame()
	game.SetBoard(board)
	game.SetTurn(turn)
	return game
}

func TestNewGame(t *testing.T) {
	game := NewGame()
	if game.Turn() != White {
		t.Errorf("Turn() = %s, want white", game.Turn())
	}

	want := NewBoard()
	want.Reset()
	if !game.Board().Equal(want) {
		t.Errorf("new game board is not the standard setup:\n%s", game.Board())
	}
}

func TestLegalMovesEmptySquareIsNil(t *testing.T) {
	game := NewGame()

	if got := game.LegalMoves(Position{Row: 4, Col: 4}); got != nil {
		t.Errorf("LegalMoves on an empty square = %v, want nil", got)
	}

	// A pinned piece is occupied-but-stuck: an empty, non-nil result.
	pinned := fixture(White, map[Position]Piece{
		{Row: 1, Col: 5}: {Team: White, Type: King},
		{Row: 2, Col: 5}: {Team: White, Type: Knight},
		{Row: 8, Col: 5}: {Team: Black, Type: Rook},
		{Row: 8, Col: 8}: {Team: Black, Type: King},
	})
	got := pinned.LegalMoves(Position{Row: 2, Col: 5})
	if got == nil {
		t.Fatal("LegalMoves on an occupied square = nil, want empty set")
	}
	if len(got) != 0 {
		t.Errorf("pinned knight has moves %v, want none", got)
	}
}

func TestLegalMovesFiltersSelfCheck(t *testing.T) {
	// The king on e1 faces a rook on e8; it may step off the file or stay
	// put, but moves staying on the open file are illegal.
	game := fixture(White, map[Position]Piece{
		{Row: 1, Col: 5}: {Team: White, Type: King},
		{Row: 8, Col: 5}: {Team: Black, Type: Rook},
		{Row: 8, Col: 1}: {Team: Black, Type: King},
	})

	got := game.LegalMoves(Position{Row: 1, Col: 5})
	for _, m := range got {
		if m.To.Col == 5 {
			t.Errorf("move %v keeps the king on the attacked file", m)
		}
	}
	if len(got) != 4 {
		t.Errorf("king has %d legal moves %v, want 4", len(got), got)
	}
}

func TestMakeMove(t *testing.T) {
	game := NewGame()
	before := game.Board().Copy()

	move := Move{From: Position{Row: 2, Col: 5}, To: Position{Row: 4, Col: 5}}
	if err := game.MakeMove(move); err != nil {
		t.Fatalf("MakeMove(%v) = %v", move, err)
	}

	if _, ok := game.Board().PieceAt(move.From); ok {
		t.Error("start square still occupied")
	}
	got, ok := game.Board().PieceAt(move.To)
	if !ok || got != (Piece{Team: White, Type: Pawn}) {
		t.Errorf("end square holds %v, %v; want white pawn", got, ok)
	}
	if game.Turn() != Black {
		t.Errorf("Turn() = %s after White's move, want black", game.Turn())
	}

	// Exactly the two squares changed.
	changed := 0
	for row := 1; row <= 8; row++ {
		for col := 1; col <= 8; col++ {
			pos := Position{Row: row, Col: col}
			p1, ok1 := before.PieceAt(pos)
			p2, ok2 := game.Board().PieceAt(pos)
			if ok1 != ok2 || (ok1 && p1 != p2) {
				changed++
			}
		}
	}
	if changed != 2 {
		t.Errorf("%d squares changed, want 2", changed)
	}
}

func TestMakeMoveInvalid(t *testing.T) {
	tests := []struct {
		name string
		move Move
	}{
		{"empty start square", Move{From: Position{Row: 4, Col: 4}, To: Position{Row: 5, Col: 4}}},
		{"wrong team", Move{From: Position{Row: 7, Col: 5}, To: Position{Row: 5, Col: 5}}},
		{"not a legal move", Move{From: Position{Row: 2, Col: 5}, To: Position{Row: 5, Col: 5}}},
		{"promotion on a non-promoting move", Move{From: Position{Row: 2, Col: 5}, To: Position{Row: 3, Col: 5}, Promotion: Queen}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := NewGame()
			before := game.Board().Copy()

			err := game.MakeMove(tt.move)
			var invalid *InvalidMoveError
			if !errors.As(err, &invalid) {
				t.Fatalf("MakeMove(%v) = %v, want InvalidMoveError", tt.move, err)
			}
			if invalid.Reason == "" {
				t.Error("InvalidMoveError carries no reason")
			}
			if !game.Board().Equal(before) {
				t.Error("board changed by a rejected move")
			}
			if game.Turn() != White {
				t.Errorf("Turn() = %s after a rejected move, want white", game.Turn())
			}
		})
	}
}

func TestMakeMovePromotion(t *testing.T) {
	game := fixture(White, map[Position]Piece{
		{Row: 7, Col: 1}: {Team: White, Type: Pawn},
		{Row: 1, Col: 5}: {Team: White, Type: King},
		{Row: 8, Col: 8}: {Team: Black, Type: King},
	})

	from := Position{Row: 7, Col: 1}
	legal := game.LegalMoves(from)
	if len(legal) != len(PromotionTypes) {
		t.Fatalf("promoting pawn has %d legal moves %v, want %d", len(legal), legal, len(PromotionTypes))
	}
	for _, m := range legal {
		if m.Promotion == "" {
			t.Errorf("move %v to the far rank carries no promotion type", m)
		}
	}

	move := Move{From: from, To: Position{Row: 8, Col: 1}, Promotion: Knight}
	if err := game.MakeMove(move); err != nil {
		t.Fatalf("MakeMove(%v) = %v", move, err)
	}
	got, ok := game.Board().PieceAt(move.To)
	if !ok || got != (Piece{Team: White, Type: Knight}) {
		t.Errorf("promoted square holds %v, %v; want white knight", got, ok)
	}
}

func TestSquareAttacked(t *testing.T) {
	board := NewBoard()
	board.Place(Position{Row: 1, Col: 1}, Piece{Team: White, Type: Rook})

	if !squareAttacked(board, Position{Row: 1, Col: 8}, White) {
		t.Error("rook on an open rank should attack the far square")
	}

	// Any piece on the path blocks the attack, its own team included.
	board.Place(Position{Row: 1, Col: 4}, Piece{Team: White, Type: Pawn})
	if squareAttacked(board, Position{Row: 1, Col: 8}, White) {
		t.Error("rook attacks through a blocker")
	}
	if !squareAttacked(board, Position{Row: 1, Col: 3}, White) {
		t.Error("rook should still attack squares before the blocker")
	}
}

func TestPawnAttacksCapturesOnly(t *testing.T) {
	board := NewBoard()
	board.Place(Position{Row: 4, Col: 4}, Piece{Team: White, Type: Pawn})

	if squareAttacked(board, Position{Row: 5, Col: 4}, White) {
		t.Error("pawn push square counts as attacked")
	}
	for _, target := range []Position{{Row: 5, Col: 3}, {Row: 5, Col: 5}} {
		if !squareAttacked(board, target, White) {
			t.Errorf("pawn does not attack capture square (%d,%d)", target.Row, target.Col)
		}
	}
	if squareAttacked(board, Position{Row: 3, Col: 3}, White) {
		t.Error("white pawn attacks backwards")
	}
}

func TestIsInCheck(t *testing.T) {
	game := fixture(Black, map[Position]Piece{
		{Row: 1, Col: 5}: {Team: White, Type: King},
		{Row: 1, Col: 1}: {Team: Black, Type: Rook},
		{Row: 8, Col: 8}: {Team: Black, Type: King},
	})

	if !game.IsInCheck(White) {
		t.Error("king on an open rank with an enemy rook is not in check")
	}
	if game.IsInCheck(Black) {
		t.Error("black is reported in check with no attacker")
	}

	game.Board().Place(Position{Row: 1, Col: 3}, Piece{Team: Black, Type: Knight})
	if game.IsInCheck(White) {
		t.Error("blocked rook still gives check")
	}
}

func TestCheckmate(t *testing.T) {
	// Two-rook mate on the edge.
	game := fixture(Black, map[Position]Piece{
		{Row: 8, Col: 1}: {Team: Black, Type: King},
		{Row: 8, Col: 8}: {Team: White, Type: Rook},
		{Row: 7, Col: 7}: {Team: White, Type: Rook},
		{Row: 1, Col: 5}: {Team: White, Type: King},
	})

	if !game.IsInCheck(Black) {
		t.Fatal("mated king is not in check")
	}
	if !game.IsInCheckmate(Black) {
		t.Errorf("position is not checkmate:\n%s", game.Board())
	}
	if game.IsInStalemate(Black) {
		t.Error("checkmate also reported as stalemate")
	}
	if game.IsInCheckmate(White) {
		t.Error("the mating side is reported mated")
	}
}

func TestCheckmateEscapableIsNotMate(t *testing.T) {
	// Same rooks, but the king can step to row 7 because nothing covers it.
	game := fixture(Black, map[Position]Piece{
		{Row: 8, Col: 1}: {Team: Black, Type: King},
		{Row: 8, Col: 8}: {Team: White, Type: Rook},
		{Row: 1, Col: 5}: {Team: White, Type: King},
	})

	if !game.IsInCheck(Black) {
		t.Fatal("king is not in check")
	}
	if game.IsInCheckmate(Black) {
		t.Error("escapable check reported as checkmate")
	}
}

func TestStalemate(t *testing.T) {
	// Lone king in the corner, boxed in by a queen a knight's move away.
	game := fixture(Black, map[Position]Piece{
		{Row: 8, Col: 1}: {Team: Black, Type: King},
		{Row: 7, Col: 3}: {Team: White, Type: Queen},
		{Row: 1, Col: 5}: {Team: White, Type: King},
	})

	if game.IsInCheck(Black) {
		t.Fatal("stalemated king should not be in check")
	}
	if !game.IsInStalemate(Black) {
		t.Errorf("position is not stalemate:\n%s", game.Board())
	}
	if game.IsInCheckmate(Black) {
		t.Error("stalemate also reported as checkmate")
	}
}

func TestLegalityUsesCurrentPosition(t *testing.T) {
	// In the starting position the d7 pawn could push freely; here it is
	// pinned to the king by a bishop. The filter must reason about this
	// board, not the opening arrangement.
	game := fixture(Black, map[Position]Piece{
		{Row: 8, Col: 5}: {Team: Black, Type: King},
		{Row: 7, Col: 4}: {Team: Black, Type: Pawn},
		{Row: 5, Col: 2}: {Team: White, Type: Bishop},
		{Row: 1, Col: 5}: {Team: White, Type: King},
	})

	got := game.LegalMoves(Position{Row: 7, Col: 4})
	if diff := cmp.Diff([]Move{}, got); diff != "" {
		t.Errorf("pinned pawn moves mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingKingPanics(t *testing.T) {
	game := fixture(White, map[Position]Piece{
		{Row: 1, Col: 5}: {Team: White, Type: King},
	})

	defer func() {
		if recover() == nil {
			t.Error("IsInCheck with no black king did not panic")
		}
	}()
	game.IsInCheck(Black)
}
