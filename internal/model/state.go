package model

import "github.com/WyattKD/chess/internal/chess"

// GameState is the wire representation of a room pushed to clients after
// every change. Board is indexed [row-1][col-1] with row 1 being White's
// back rank; empty squares are null.
type GameState struct {
	Board    [8][8]*chess.Piece `json:"board"`
	ToMove   chess.Team         `json:"toMove"`
	IsCheck  bool               `json:"isCheck"`
	Result   *GameResult        `json:"result"`
	LastMove *chess.Move        `json:"lastMove"`
	Moves    []chess.Move       `json:"moves"`
	Players  struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

// GameResult records how a finished game ended and for whom.
type GameResult struct {
	Reason ResultReason `json:"reason"`
	Winner chess.Team   `json:"winner,omitempty"` // empty on stalemate
}

type ResultReason string

const (
	ResultCheckmate   ResultReason = "checkmate"
	ResultStalemate   ResultReason = "stalemate"
	ResultResignation ResultReason = "resignation"
)

// MatchFoundEvent notifies a queued player that matchmaking paired them.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  PlayerColor `json:"color"`
}

func boardPayload(board *chess.Board) [8][8]*chess.Piece {
	var payload [8][8]*chess.Piece
	for row := 1; row <= 8; row++ {
		for col := 1; col <= 8; col++ {
			if piece, ok := board.PieceAt(chess.Position{Row: row, Col: col}); ok {
				p := piece
				payload[row-1][col-1] = &p
			}
		}
	}
	return payload
}
