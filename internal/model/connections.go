package model

import (
	"encoding/json"
	"sync"

	"github.com/benbeisheim/chessai-backend/internal/chess"
	"github.com/benbeisheim/chessai-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex

	// sendMu serializes writes; lastSent drops snapshots older than one
	// already delivered.
	sendMu   sync.Mutex
	lastSent uint64
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// add registers conn for playerID. A second connection for the same player
// is closed and rejected.
func (gc *GameConnections) add(playerID string, conn Conn) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if _, exists := gc.connections[playerID]; exists {
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		conn.Close()
		return false
	}
	gc.connections[playerID] = conn
	return true
}

// remove unregisters conn, but only if it is still playerID's current one.
func (gc *GameConnections) remove(playerID string, conn Conn) {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if current, ok := gc.connections[playerID]; ok && (conn == nil || current == conn) {
		delete(gc.connections, playerID)
	}
}

func (gc *GameConnections) closeAll() {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	for playerID, conn := range gc.connections {
		conn.Close()
		delete(gc.connections, playerID)
	}
}

func (gc *GameConnections) count() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return len(gc.connections)
}

// send writes state to every connection. Connections that fail are dropped.
// It returns the ids that failed.
func (gc *GameConnections) send(state GameState) ([]string, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}

	gc.sendMu.Lock()
	defer gc.sendMu.Unlock()
	if state.Version < gc.lastSent {
		return nil, nil
	}
	gc.lastSent = state.Version

	gc.mu.RLock()
	active := make(map[string]Conn, len(gc.connections))
	for playerID, conn := range gc.connections {
		active[playerID] = conn
	}
	gc.mu.RUnlock()

	var failed []string
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: json.RawMessage(payload)}
	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			failed = append(failed, playerID)
			gc.remove(playerID, conn)
		}
	}
	return failed, nil
}

// RegisterConnection attaches conn to the game and sends it the current
// state. Players may always connect; others only while a seat is open.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	authorized := g.players.colorOf(playerID) != chess.NoColor || !g.players.full()
	g.mu.Unlock()
	if !authorized {
		return ErrNotInGame
	}

	if !g.connections.add(playerID, conn) {
		g.log.Debug().Str("player", playerID).Msg("rejected duplicate connection")
		return nil
	}
	g.log.Info().Str("player", playerID).Msg("connection registered")
	g.broadcast(g.GetState())
	return nil
}

func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.remove(playerID, conn)
	g.log.Info().Str("player", playerID).Msg("connection unregistered")
}

func (g *Game) ConnectionCount() int {
	return g.connections.count()
}

func (g *Game) broadcast(state GameState) {
	failed, err := g.connections.send(state)
	if err != nil {
		g.log.Error().Err(err).Msg("failed to marshal state")
		return
	}
	for _, playerID := range failed {
		g.log.Warn().Str("player", playerID).Msg("dropped connection after failed write")
	}
}

// SendTo writes msg to playerID's connection only.
func (g *Game) SendTo(playerID string, msg ws.Message) error {
	gc := g.connections
	gc.mu.RLock()
	conn, ok := gc.connections[playerID]
	gc.mu.RUnlock()
	if !ok {
		return ErrNotConnected
	}

	gc.sendMu.Lock()
	defer gc.sendMu.Unlock()
	return conn.WriteJSON(msg)
}
