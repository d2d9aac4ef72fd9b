package client

import (
	"context"

	"github.com/rs/zerolog"
)

// Session is the live sync core for one player: it owns the state
// reconciler, the connection manager and the injected navigator, and
// translates user-facing operations into wire intents.
//
// Operations that need an existing game silently no-op when none is joined.
// CreateGame and JoinGame open the channel first and only send their intent
// once it is ready; every other operation is fire-and-forget.
type Session struct {
	playerID string
	conn     *ConnectionManager
	state    *Reconciler
	nav      Navigator
	log      zerolog.Logger
}

func NewSession(cfg Config, nav Navigator, log zerolog.Logger) *Session {
	playerID := NewPlayerID()
	s := &Session{
		playerID: playerID,
		conn:     NewConnectionManager(cfg.ServerURL, playerID, log),
		state:    NewReconciler(log),
		nav:      nav,
		log:      log.With().Str("component", "session").Str("player_id", playerID).Logger(),
	}
	s.conn.SetHandler(s.handleEnvelope)
	return s
}

// PlayerID returns the session's stable player identifier.
func (s *Session) PlayerID() string {
	return s.playerID
}

// State returns a read-only copy of the current game state.
func (s *Session) State() GameState {
	return s.state.State()
}

// CreateGame opens a channel to the sentinel game endpoint and asks the
// server to create a game. On channel failure the intent is never sent and
// there is no retry.
func (s *Session) CreateGame(ctx context.Context, nickname string) error {
	s.state.SetNickname(nickname)
	if err := s.conn.Open(ctx, NoGameID); err != nil {
		s.log.Error().Err(err).Msg("failed to open channel for create_game")
		return err
	}
	s.conn.Send(Intent{Action: ActionCreateGame, Nickname: nickname})
	return nil
}

// JoinGame opens a channel to an existing game and asks the server to add
// this player to it.
func (s *Session) JoinGame(ctx context.Context, gameID, nickname string) error {
	s.state.SetNickname(nickname)
	if err := s.conn.Open(ctx, gameID); err != nil {
		s.log.Error().Err(err).Msg("failed to open channel for join_game")
		return err
	}
	s.conn.Send(Intent{Action: ActionJoinGame, GameID: gameID, Nickname: nickname})
	return nil
}

// StartGame asks the server to begin the first round. Host-only on the
// server side; the client does not enforce that.
func (s *Session) StartGame() {
	gameID := s.state.GameID()
	if gameID == "" {
		return
	}
	s.conn.Send(Intent{Action: ActionStartGame, GameID: gameID})
}

// UpdateSettings applies a settings patch locally and forwards it to the
// server for replication to the other players.
func (s *Session) UpdateSettings(patch SettingsPatch) {
	gameID := s.state.GameID()
	if gameID == "" {
		return
	}
	s.state.ApplyLocalSettings(patch)
	s.conn.Send(Intent{Action: ActionUpdateSettings, GameID: gameID, Settings: &patch})
}

// KickPlayer asks the server to remove a player from the game.
func (s *Session) KickPlayer(playerID string) {
	gameID := s.state.GameID()
	if gameID == "" {
		return
	}
	s.conn.Send(Intent{Action: ActionKickPlayer, GameID: gameID, PlayerID: playerID})
}

// SelectCard submits a white card for the current round. The selection is
// recorded locally first so the UI reflects it before the server confirms.
func (s *Session) SelectCard(cardID string) {
	gameID := s.state.GameID()
	if gameID == "" {
		return
	}
	s.state.ApplyLocalSelection(cardID)
	s.conn.Send(Intent{Action: ActionSelectCard, GameID: gameID, CardID: cardID})
}

// VoteForAnswer votes for another player's answer, optimistically recorded
// locally. The next snapshot is authoritative for the vote.
func (s *Session) VoteForAnswer(playerID string) {
	gameID := s.state.GameID()
	if gameID == "" {
		return
	}
	s.state.ApplyLocalVote(playerID)
	s.conn.Send(Intent{Action: ActionVote, GameID: gameID, VotedPlayerID: playerID})
}

// RestartGame asks the server to send everyone back to the lobby.
func (s *Session) RestartGame() {
	gameID := s.state.GameID()
	if gameID == "" {
		return
	}
	s.conn.Send(Intent{Action: ActionRestartGame, GameID: gameID})
}

// LeaveGame announces the departure (when a game is joined), resets the
// whole state to defaults and navigates the UI home.
func (s *Session) LeaveGame() {
	if gameID := s.state.GameID(); gameID != "" {
		s.conn.Send(Intent{Action: ActionLeaveGame, GameID: gameID})
	}
	s.state.Reset()
	s.nav.Navigate("/")
}

// SetNickname stores the display name ahead of creating or joining a game.
func (s *Session) SetNickname(nickname string) {
	s.state.SetNickname(nickname)
}

// Close tears the channel down. Game state is left as-is.
func (s *Session) Close() {
	s.conn.Close()
}

func (s *Session) handleEnvelope(env Envelope) {
	switch e := env.(type) {
	case *Snapshot:
		s.state.ApplySnapshot(e)
	case ServerError:
		msg := e.Message
		if msg == "" {
			msg = fallbackErrorMessage
		}
		s.nav.Alert(msg)
	case Navigate:
		if e.Route == "" {
			return
		}
		s.log.Info().Str("route", e.Route).Msg("server navigation")
		s.nav.Navigate(e.Route)
	}
}
