package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
)

// NoGameID is the sentinel path segment used when opening a channel before a
// game exists (the create flow). The server parks such connections until a
// create_game intent arrives.
const NoGameID = "nogame"

const writeTimeout = 10 * time.Second

// ConnectionManager owns the session's single websocket channel. Open
// establishes it, Send transmits intents while it is ready, and a background
// read loop delivers decoded envelopes to the handler. There is no reconnect
// and no send queue: intents issued while the channel is down are dropped
// with a diagnostic, closure is observed but triggers no recovery.
type ConnectionManager struct {
	baseURL  string
	playerID string
	handler  func(Envelope)
	log      zerolog.Logger

	mu    sync.RWMutex
	conn  *websocket.Conn
	ready bool
}

func NewConnectionManager(baseURL, playerID string, log zerolog.Logger) *ConnectionManager {
	return &ConnectionManager{
		baseURL:  baseURL,
		playerID: playerID,
		log:      log.With().Str("component", "connection").Logger(),
	}
}

// SetHandler registers the callback invoked once per decoded inbound
// envelope. Must be set before Open; the handler runs on the read goroutine.
func (cm *ConnectionManager) SetHandler(h func(Envelope)) {
	cm.handler = h
}

// Endpoint builds the channel address for a game: the configured base URL
// with its scheme switched to ws(s) and /ws/{gameID}/{playerID} appended.
func (cm *ConnectionManager) Endpoint(gameID string) (string, error) {
	u, err := url.Parse(cm.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", cm.baseURL, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	u.Path = fmt.Sprintf("/ws/%s/%s", gameID, cm.playerID)
	return u.String(), nil
}

// Open dials the channel for gameID and starts the read loop. It returns
// once the channel is ready, or with an error if it never becomes ready.
// A previously open channel is superseded and closed; callers are expected
// to serialize Open calls.
func (cm *ConnectionManager) Open(ctx context.Context, gameID string) error {
	addr, err := cm.Endpoint(gameID)
	if err != nil {
		return err
	}

	cm.log.Info().Str("url", addr).Msg("opening websocket")
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}

	cm.mu.Lock()
	old := cm.conn
	cm.conn = conn
	cm.ready = true
	cm.mu.Unlock()

	if old != nil {
		old.Close(websocket.StatusNormalClosure, "superseded")
	}

	go cm.readLoop(conn)
	return nil
}

// Send transmits an intent if the channel is ready. Otherwise the intent is
// dropped: a diagnostic is logged, nothing is queued, the caller is not told.
func (cm *ConnectionManager) Send(intent Intent) {
	cm.mu.RLock()
	conn, ready := cm.conn, cm.ready
	cm.mu.RUnlock()

	if conn == nil || !ready {
		cm.log.Warn().Str("action", intent.Action).Msg("channel not ready, dropping intent")
		return
	}

	data, err := json.Marshal(intent)
	if err != nil {
		cm.log.Error().Err(err).Str("action", intent.Action).Msg("failed to encode intent")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		cm.log.Error().Err(err).Str("action", intent.Action).Msg("failed to send intent")
	}
}

// Close shuts the channel down. Safe to call when nothing is open.
func (cm *ConnectionManager) Close() {
	cm.mu.Lock()
	conn := cm.conn
	cm.conn = nil
	cm.ready = false
	cm.mu.Unlock()

	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "client closing")
	}
}

func (cm *ConnectionManager) readLoop(conn *websocket.Conn) {
	ctx := context.Background()
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			cm.handleClosed(conn, err)
			return
		}
		if msgType != websocket.MessageText {
			cm.log.Warn().Msg("dropping non-text frame")
			continue
		}

		env, err := DecodeEnvelope(data)
		if err != nil {
			cm.log.Warn().Err(err).Msg("dropping malformed frame")
			continue
		}
		if cm.handler != nil {
			cm.handler(env)
		}
	}
}

// handleClosed marks the channel not ready if it is still the current one.
// Deliberately nothing else happens: no reconnect, no backoff, no reset of
// game state.
func (cm *ConnectionManager) handleClosed(conn *websocket.Conn, err error) {
	cm.mu.Lock()
	if cm.conn == conn {
		cm.conn = nil
		cm.ready = false
	}
	cm.mu.Unlock()

	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		cm.log.Info().Msg("websocket closed")
	default:
		cm.log.Warn().Err(err).Msg("websocket closed unexpectedly")
	}
}
