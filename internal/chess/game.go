package chess

import "fmt"

// InvalidMoveError is returned by MakeMove for moves the current position
// does not allow. The game is left unmodified.
type InvalidMoveError struct {
	Move   Move
	Reason string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move %v: %s", e.Move, e.Reason)
}

// Game holds a board and the side to move, and is the only place move
// legality is decided. It is not safe for concurrent use; callers that share
// a Game across goroutines must serialize access themselves.
type Game struct {
	board *Board
	turn  Team
}

// NewGame returns a game with the standard starting position and White to
// move.
func NewGame() *Game {
	board := NewBoard()
	board.Reset()
	return &Game{board: board, turn: White}
}

// Turn returns the side to move.
func (g *Game) Turn() Team {
	return g.turn
}

// SetTurn overrides the side to move.
func (g *Game) SetTurn(team Team) {
	g.turn = team
}

// Board returns the game's board.
func (g *Game) Board() *Board {
	return g.board
}

// SetBoard replaces the game's board wholesale, e.g. to load a position.
func (g *Game) SetBoard(board *Board) {
	g.board = board
}

// LegalMoves returns the moves the piece on the given square may make, which
// may legitimately be empty (a pinned piece, say). It returns nil when the
// square holds no piece at all, so callers can tell an empty square from a
// piece with nothing to do.
func (g *Game) LegalMoves(pos Position) []Move {
	piece, occupied := g.board.PieceAt(pos)
	if !occupied {
		return nil
	}

	legal := []Move{}
	for _, move := range piece.PseudoMoves(g.board, pos) {
		if !g.leavesKingAttacked(move, piece.Team) {
			legal = append(legal, move)
		}
	}
	return legal
}

// MakeMove validates and applies a move for the side to move, flipping the
// turn on success. Capture happens by overwrite; a promotion replaces the
// pawn with a fresh piece of the chosen type. On error the board and turn
// are untouched.
func (g *Game) MakeMove(move Move) error {
	piece, occupied := g.board.PieceAt(move.From)
	if !occupied {
		return &InvalidMoveError{Move: move, Reason: "no piece on start square"}
	}
	if piece.Team != g.turn {
		return &InvalidMoveError{Move: move, Reason: fmt.Sprintf("it is %s's turn", g.turn)}
	}

	legal := false
	for _, m := range g.LegalMoves(move.From) {
		if m == move {
			legal = true
			break
		}
	}
	if !legal {
		return &InvalidMoveError{Move: move, Reason: "not a legal move"}
	}

	g.board.Remove(move.From)
	if move.Promotion != "" {
		g.board.Place(move.To, Piece{Team: g.turn, Type: move.Promotion})
	} else {
		g.board.Place(move.To, piece)
	}
	g.turn = g.turn.Opponent()
	return nil
}

// IsInCheck reports whether the given team's king is attacked. It panics if
// the board holds no king for that team; reaching a kingless position is a
// caller bug, not a game outcome.
func (g *Game) IsInCheck(team Team) bool {
	kingPos := findKing(g.board, team)
	return squareAttacked(g.board, kingPos, team.Opponent())
}

// IsInCheckmate reports whether the given team is in check with no legal
// move anywhere on the board.
func (g *Game) IsInCheckmate(team Team) bool {
	return g.IsInCheck(team) && !g.hasAnyLegalMove(team)
}

// IsInStalemate reports whether the given team is not in check yet has no
// legal move anywhere on the board.
func (g *Game) IsInStalemate(team Team) bool {
	return !g.IsInCheck(team) && !g.hasAnyLegalMove(team)
}

// leavesKingAttacked simulates the move on a copy of the current position
// and reports whether the mover's king would then be attacked. The copy
// matters: speculating on the live board would corrupt the game, and
// speculating on anything but the current position would make the answer
// meaningless.
func (g *Game) leavesKingAttacked(move Move, team Team) bool {
	sim := g.board.Copy()
	piece, occupied := sim.PieceAt(move.From)
	if !occupied {
		return false
	}

	sim.Remove(move.From)
	if move.Promotion != "" {
		sim.Place(move.To, Piece{Team: team, Type: move.Promotion})
	} else {
		sim.Place(move.To, piece)
	}

	kingPos := findKing(sim, team)
	return squareAttacked(sim, kingPos, team.Opponent())
}

func (g *Game) hasAnyLegalMove(team Team) bool {
	for row := 1; row <= 8; row++ {
		for col := 1; col <= 8; col++ {
			pos := Position{Row: row, Col: col}
			piece, occupied := g.board.PieceAt(pos)
			if !occupied || piece.Team != team {
				continue
			}
			if len(g.LegalMoves(pos)) > 0 {
				return true
			}
		}
	}
	return false
}

func findKing(board *Board, team Team) Position {
	for row := 1; row <= 8; row++ {
		for col := 1; col <= 8; col++ {
			pos := Position{Row: row, Col: col}
			piece, occupied := board.PieceAt(pos)
			if occupied && piece.Team == team && piece.Type == King {
				return pos
			}
		}
	}
	panic(fmt.Sprintf("chess: no %s king on the board", team))
}

// squareAttacked reports whether any piece of the given team attacks the
// target square. It tests a geometric predicate per piece rather than
// reusing PseudoMoves: pawn pushes do not attack the square they move to,
// and generating moves here would recurse back into the legality filter.
func squareAttacked(board *Board, target Position, by Team) bool {
	for row := 1; row <= 8; row++ {
		for col := 1; col <= 8; col++ {
			from := Position{Row: row, Col: col}
			piece, occupied := board.PieceAt(from)
			if !occupied || piece.Team != by {
				continue
			}
			if pieceAttacks(board, piece, from, target) {
				return true
			}
		}
	}
	return false
}

func pieceAttacks(board *Board, piece Piece, from, to Position) bool {
	if from == to {
		return false
	}
	dr := abs(from.Row - to.Row)
	dc := abs(from.Col - to.Col)

	switch piece.Type {
	case Pawn:
		dir := 1
		if piece.Team == Black {
			dir = -1
		}
		return to.Row == from.Row+dir && dc == 1
	case Knight:
		return (dr == 2 && dc == 1) || (dr == 1 && dc == 2)
	case King:
		return max(dr, dc) == 1
	case Bishop:
		return dr == dc && pathClear(board, from, to)
	case Rook:
		return (dr == 0 || dc == 0) && pathClear(board, from, to)
	case Queen:
		return (dr == 0 || dc == 0 || dr == dc) && pathClear(board, from, to)
	}
	return false
}

// pathClear walks unit steps from the attacker toward the target and reports
// whether every intermediate square is empty. The target square itself is
// not examined; its occupant is what is being attacked.
func pathClear(board *Board, from, to Position) bool {
	step := Position{Row: sign(to.Row - from.Row), Col: sign(to.Col - from.Col)}
	for cur := from.add(step); cur.onBoard(); cur = cur.add(step) {
		if cur == to {
			return true
		}
		if _, occupied := board.PieceAt(cur); occupied {
			return false
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
