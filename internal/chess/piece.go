package chess

// Team identifies one of the two sides in a game.
type Team string

const (
	White Team = "white"
	Black Team = "black"
)

// Opponent returns the other side.
func (t Team) Opponent() Team {
	if t == White {
		return Black
	}
	return White
}

// PieceType identifies one of the six kinds of chess piece.
type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// PromotionTypes are the piece types a pawn may promote to, in the order
// moves are generated.
var PromotionTypes = []PieceType{Queen, Rook, Bishop, Knight}

// Piece is a team/type pair. Pieces have no identity beyond these two
// fields; equal pairs are interchangeable.
type Piece struct {
	Team Team      `json:"team"`
	Type PieceType `json:"type"`
}

// Position addresses a board square. Row and Col are 1-based, row 1 being
// White's back rank.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) onBoard() bool {
	return p.Row >= 1 && p.Row <= 8 && p.Col >= 1 && p.Col <= 8
}

func (p Position) add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Move is a start/end square pair, plus the piece type a pawn becomes when
// the move reaches the far rank. Promotion is empty for every other move.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

var (
	rookDirs = []Position{
		{Row: 1}, {Row: -1}, {Col: 1}, {Col: -1},
	}
	bishopDirs = []Position{
		{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1},
	}
	queenDirs = append(append([]Position{}, rookDirs...), bishopDirs...)
	kingDirs  = queenDirs
	knightDirs = []Position{
		{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1},
		{Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2},
	}
)

// PseudoMoves returns every move the piece could make from the given square
// by movement geometry and board occupancy alone. It does not consider
// whether a move would leave the piece's own king attacked; Game.LegalMoves
// applies that filter. The board is not modified.
func (p Piece) PseudoMoves(board *Board, from Position) []Move {
	switch p.Type {
	case Rook:
		return p.vectorMoves(board, from, rookDirs, true)
	case Bishop:
		return p.vectorMoves(board, from, bishopDirs, true)
	case Queen:
		return p.vectorMoves(board, from, queenDirs, true)
	case Knight:
		return p.vectorMoves(board, from, knightDirs, false)
	case King:
		return p.vectorMoves(board, from, kingDirs, false)
	case Pawn:
		return p.pawnMoves(board, from)
	}
	return []Move{}
}

// vectorMoves walks each direction vector from the origin. Sliding pieces
// keep stepping until they leave the board or hit a piece; stepping pieces
// take a single step per vector. An enemy occupant is a capture destination,
// a friendly occupant blocks without being one.
func (p Piece) vectorMoves(board *Board, from Position, dirs []Position, sliding bool) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		for target := from.add(dir); target.onBoard(); target = target.add(dir) {
			occupant, occupied := board.PieceAt(target)
			if !occupied {
				moves = append(moves, Move{From: from, To: target})
			} else {
				if occupant.Team != p.Team {
					moves = append(moves, Move{From: from, To: target})
				}
				break
			}
			if !sliding {
				break
			}
		}
	}
	return moves
}

// pawnMoves handles the pawn's asymmetric rules: a one-square push onto an
// empty square, a two-square push from the start rank when both squares are
// empty, and the two forward-diagonal captures. Any move landing on the far
// rank is expanded into one move per promotion choice.
func (p Piece) pawnMoves(board *Board, from Position) []Move {
	dir, startRow, promotionRow := 1, 2, 8
	if p.Team == Black {
		dir, startRow, promotionRow = -1, 7, 1
	}

	moves := []Move{}

	oneForward := Position{Row: from.Row + dir, Col: from.Col}
	if oneForward.onBoard() {
		if _, occupied := board.PieceAt(oneForward); !occupied {
			moves = appendPawnMove(moves, from, oneForward, promotionRow)

			// A double step can never reach the promotion rank, so it is
			// emitted directly.
			twoForward := Position{Row: from.Row + 2*dir, Col: from.Col}
			if from.Row == startRow {
				if _, occupied := board.PieceAt(twoForward); !occupied {
					moves = append(moves, Move{From: from, To: twoForward})
				}
			}
		}
	}

	for _, dc := range []int{-1, 1} {
		diag := Position{Row: from.Row + dir, Col: from.Col + dc}
		if !diag.onBoard() {
			continue
		}
		if target, occupied := board.PieceAt(diag); occupied && target.Team != p.Team {
			moves = appendPawnMove(moves, from, diag, promotionRow)
		}
	}

	return moves
}

func appendPawnMove(moves []Move, from, to Position, promotionRow int) []Move {
	if to.Row != promotionRow {
		return append(moves, Move{From: from, To: to})
	}
	for _, pt := range PromotionTypes {
		moves = append(moves, Move{From: from, To: to, Promotion: pt})
	}
	return moves
}
