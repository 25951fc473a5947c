package model

import "github.com/WyattKD/chess/internal/chess"

type Player struct {
	ID    string
	Color PlayerColor
}

// ClientPlayer is the player view sent over the wire.
type ClientPlayer struct {
	ID       string      `json:"name"`
	Color    PlayerColor `json:"color"`
	TimeLeft int         `json:"timeLeft"` // tenths of a second
}

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

// Team maps a seat color to the engine's team value.
func (c PlayerColor) Team() chess.Team {
	if c == PlayerColorBlack {
		return chess.Black
	}
	return chess.White
}
