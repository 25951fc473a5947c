package chess

import "strings"

// Board is an 8x8 grid of optional pieces. It is pure storage: placement,
// removal and lookup do no chess-legality validation, and moving a piece is
// modeled by the owning Game as a remove followed by a place.
type Board struct {
	grid [8][8]*Piece
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Place puts a piece on a square, overwriting any occupant.
func (b *Board) Place(pos Position, piece Piece) {
	b.grid[pos.Row-1][pos.Col-1] = &piece
}

// Remove clears a square.
func (b *Board) Remove(pos Position) {
	b.grid[pos.Row-1][pos.Col-1] = nil
}

// PieceAt returns the piece on a square, if any.
func (b *Board) PieceAt(pos Position) (Piece, bool) {
	p := b.grid[pos.Row-1][pos.Col-1]
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

var backRank = []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Reset clears the board and places both sides' sixteen pieces in the
// standard opening arrangement: White on rows 1 and 2, Black mirrored on
// rows 8 and 7.
func (b *Board) Reset() {
	b.grid = [8][8]*Piece{}
	b.placeAll(White)
	b.placeAll(Black)
}

func (b *Board) placeAll(team Team) {
	row, pawnRow := 1, 2
	if team == Black {
		row, pawnRow = 8, 7
	}
	for col, pt := range backRank {
		b.Place(Position{Row: row, Col: col + 1}, Piece{Team: team, Type: pt})
	}
	for col := 1; col <= 8; col++ {
		b.Place(Position{Row: pawnRow, Col: col}, Piece{Team: team, Type: Pawn})
	}
}

// Copy returns an independent deep copy. Mutating the copy never affects the
// original; the legality filter depends on this.
func (b *Board) Copy() *Board {
	c := &Board{}
	for r := range b.grid {
		for f, p := range b.grid[r] {
			if p != nil {
				piece := *p
				c.grid[r][f] = &piece
			}
		}
	}
	return c
}

// Equal reports whether two boards hold equal pieces on all 64 squares.
func (b *Board) Equal(other *Board) bool {
	for r := range b.grid {
		for f := range b.grid[r] {
			p, q := b.grid[r][f], other.grid[r][f]
			if (p == nil) != (q == nil) {
				return false
			}
			if p != nil && *p != *q {
				return false
			}
		}
	}
	return true
}

var pieceLetters = map[PieceType]string{
	King: "k", Queen: "q", Rook: "r", Bishop: "b", Knight: "n", Pawn: "p",
}

// String renders the board as an 8-line diagram, row 8 first, with upper
// case for White. Intended for logs and test failure output.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 8; row >= 1; row-- {
		for col := 1; col <= 8; col++ {
			piece, occupied := b.PieceAt(Position{Row: row, Col: col})
			if !occupied {
				sb.WriteString(".")
				continue
			}
			letter := pieceLetters[piece.Type]
			if piece.Team == White {
				letter = strings.ToUpper(letter)
			}
			sb.WriteString(letter)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
