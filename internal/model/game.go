package model

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/WyattKD/chess/internal/chess"
	"github.com/WyattKD/chess/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// GameConnections holds the live websocket connections for a single game.
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// Game is one room: a rules engine, two seats, clocks and the connections
// watching it. All rule questions are answered by the engine; the room adds
// players, timing, results and broadcasting.
type Game struct {
	ID          string
	mu          sync.Mutex
	engine      *chess.Game
	white       ClientPlayer
	black       ClientPlayer
	result      *GameResult
	moves       []chess.Move
	lastMove    *chess.Move
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		engine:      chess.NewGame(),
		moves:       make([]chess.Move, 0),
		connections: NewGameConnections(),
		whiteClock:  NewClock(600 * time.Second),
		blackClock:  NewClock(600 * time.Second),
	}
}

// AddPlayer seats a player, White first, and returns the assigned color.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.white.ID == "" {
		g.white = ClientPlayer{ID: playerID, Color: PlayerColorWhite}
		return PlayerColorWhite, nil
	}
	if g.black.ID == "" {
		g.black = ClientPlayer{ID: playerID, Color: PlayerColorBlack}
		return PlayerColorBlack, nil
	}
	return "", errors.New("game is full")
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

// snapshot builds the wire state from the engine and room fields. Callers
// must hold g.mu.
func (g *Game) snapshot() GameState {
	state := GameState{
		Board:    boardPayload(g.engine.Board()),
		ToMove:   g.engine.Turn(),
		Result:   g.result,
		LastMove: g.lastMove,
		Moves:    g.moves,
	}
	state.IsCheck = g.engine.IsInCheck(g.engine.Turn())
	state.Players.White = g.white
	state.Players.Black = g.black
	state.Players.White.TimeLeft = int(g.whiteClock.TimeLeft().Milliseconds() / 100)
	state.Players.Black.TimeLeft = int(g.blackClock.TimeLeft().Milliseconds() / 100)
	return state
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	return (g.white.ID != "" && g.white.ID == playerID) ||
		(g.black.ID != "" && g.black.ID == playerID)
}

func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.canSpectate()
}

func (g *Game) canSpectate() bool {
	return g.white.ID == "" || g.black.ID == ""
}

// seatTeam returns the engine team the player is seated as.
func (g *Game) seatTeam(playerID string) (chess.Team, error) {
	switch {
	case g.white.ID == playerID && playerID != "":
		return chess.White, nil
	case g.black.ID == playerID && playerID != "":
		return chess.Black, nil
	}
	return "", errors.New("player not in game")
}

// MakeMove applies a move on behalf of a player. The engine decides
// legality; the room only checks that the player owns the side to move and
// that the game is still running.
func (g *Game) MakeMove(playerID string, move chess.Move) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.result != nil {
		return errors.New("game is over")
	}

	team, err := g.seatTeam(playerID)
	if err != nil {
		return err
	}
	if team != g.engine.Turn() {
		return errors.New("not your turn")
	}

	if err := g.engine.MakeMove(move); err != nil {
		return err
	}

	g.moves = append(g.moves, move)
	last := move
	g.lastMove = &last

	// The mover's clock stops, the opponent's starts.
	switch team {
	case chess.White:
		g.whiteClock.Stop()
		g.blackClock.Start()
	case chess.Black:
		g.blackClock.Stop()
		g.whiteClock.Start()
	}

	opponent := g.engine.Turn()
	switch {
	case g.engine.IsInCheckmate(opponent):
		g.finish(GameResult{Reason: ResultCheckmate, Winner: team})
	case g.engine.IsInStalemate(opponent):
		g.finish(GameResult{Reason: ResultStalemate})
	}

	go g.broadcastState()
	return nil
}

// LegalMoves reports the legal moves for the piece on a square. The second
// return is false when the square is empty, which is not the same thing as
// a piece with no moves.
func (g *Game) LegalMoves(pos chess.Position) ([]chess.Move, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	moves := g.engine.LegalMoves(pos)
	if moves == nil {
		return nil, false
	}
	return moves, true
}

// Resign ends the game in the opponent's favor.
func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.result != nil {
		return errors.New("game is over")
	}

	team, err := g.seatTeam(playerID)
	if err != nil {
		return err
	}

	g.finish(GameResult{Reason: ResultResignation, Winner: team.Opponent()})
	go g.broadcastState()
	return nil
}

// finish records the result and freezes both clocks. Callers must hold g.mu.
func (g *Game) finish(result GameResult) {
	g.result = &result
	g.whiteClock.Stop()
	g.blackClock.Stop()
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the healthy connection and reject the new one.
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	go g.broadcastState()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	delete(g.connections.connections, playerID)
}

func (g *Game) broadcastState() {
	g.mu.Lock()
	state := g.snapshot()
	g.mu.Unlock()

	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("marshal game state: %v", err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		})
		if err != nil {
			log.Printf("send state to player %s: %v", playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}
