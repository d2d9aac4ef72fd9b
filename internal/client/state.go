package client

import (
	"sync"

	"github.com/rs/zerolog"
)

// GamePhase is one of the five server-driven round stages. The client never
// validates transitions, it only renders whatever phase the server declares.
type GamePhase string

const (
	PhaseLobby        GamePhase = "lobby"
	PhaseSelection    GamePhase = "selection"
	PhasePresentation GamePhase = "presentation"
	PhaseVoting       GamePhase = "voting"
	PhaseResults      GamePhase = "results"
)

type Player struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

// Card is a prompt (black) or answer (white) card. Immutable once received.
type Card struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// PlayerAnswer pairs a player with the white card they submitted. Visible
// from the presentation phase onward.
type PlayerAnswer struct {
	PlayerID string `json:"playerId"`
	Nickname string `json:"nickname"`
	Card     Card   `json:"card"`
}

// GameSettings are host-controlled knobs, replicated to every client.
type GameSettings struct {
	CardsPerPlayer int `json:"cardsPerPlayer"`
	SelectionTime  int `json:"selectionTime"`
	VotingTime     int `json:"votingTime"`
	MaxPlayers     int `json:"maxPlayers"`
}

// PlayerScore is an end-of-game ranking entry, ordered descending by score.
type PlayerScore struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

// GameState is the one coherent client-side snapshot of the game. The
// reconciler owns it exclusively; consumers read copies and never mutate it.
//
// Empty-string IDs mean "none" (no game joined, no card selected, no vote
// cast). Nickname and SelectedCardID are client-owned and survive every
// snapshot; everything else follows the merge policy in applySnapshot.
type GameState struct {
	GameID                   string
	PlayerID                 string
	Nickname                 string
	IsHost                   bool
	Players                  []Player
	BlackCard                *Card
	WhiteCards               []Card
	PlayerAnswers            []PlayerAnswer
	CurrentRound             int
	GamePhase                GamePhase
	Settings                 GameSettings
	CurrentPresentationIndex int
	TimeLeft                 int
	Winners                  []PlayerScore
	SelectedCardID           string
	VotedPlayerID            string
	Votes                    map[string]int
	AnswersCount             int
}

func defaultGameState() GameState {
	return GameState{
		GamePhase: PhaseLobby,
		Settings: GameSettings{
			CardsPerPlayer: 5,
			SelectionTime:  15,
			VotingTime:     60,
			MaxPlayers:     10,
		},
		Votes: map[string]int{},
	}
}

// Reconciler holds the mutable GameState and applies server snapshots and
// local optimistic updates to it. Snapshots arrive on the connection read
// goroutine while user actions come from the caller's goroutine, so all
// access goes through the mutex.
type Reconciler struct {
	mu    sync.RWMutex
	state GameState
	log   zerolog.Logger
}

func NewReconciler(log zerolog.Logger) *Reconciler {
	return &Reconciler{
		state: defaultGameState(),
		log:   log.With().Str("component", "reconciler").Logger(),
	}
}

// State returns a copy of the current game state. Slices and maps inside the
// copy are shared with the reconciler; callers must treat them as read-only.
func (r *Reconciler) State() GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// GameID returns the current game identifier, or "" when no game is joined.
func (r *Reconciler) GameID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.GameID
}

// ApplySnapshot merges a game_update snapshot into the state using the
// per-field policy below. The policy is asymmetric on purpose and mirrors
// the server's contract exactly:
//
//   - replicate when present, reset to a default when absent: isHost,
//     blackCard, whiteCards, currentPresentationIndex, timeLeft, winners,
//     votedPlayerId, votes, answersCount
//   - replicate when present, preserve when absent: gameId, playerId,
//     players, currentRound, gamePhase, settings, playerAnswers
//   - never touched by snapshots: nickname, selectedCardId
//
// A consequence worth knowing: a snapshot that omits votedPlayerId or votes
// wipes a vote the player just cast. The server re-sends the full tally on
// every voting-phase update, so the protocol depends on this reset; see
// DESIGN.md before "fixing" it.
func (r *Reconciler) ApplySnapshot(snap *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.GameID != nil {
		r.state.GameID = *snap.GameID
	}
	if snap.PlayerID != nil {
		r.state.PlayerID = *snap.PlayerID
	}
	if snap.Players != nil {
		r.state.Players = *snap.Players
	}
	if snap.CurrentRound != nil {
		r.state.CurrentRound = *snap.CurrentRound
	}
	if snap.GamePhase != nil {
		r.state.GamePhase = *snap.GamePhase
	}
	if snap.Settings != nil {
		r.state.Settings = *snap.Settings
	}
	if snap.PlayerAnswers != nil {
		r.state.PlayerAnswers = *snap.PlayerAnswers
	}

	if snap.IsHost != nil {
		r.state.IsHost = *snap.IsHost
	} else {
		r.state.IsHost = false
	}
	r.state.BlackCard = snap.BlackCard
	if snap.WhiteCards != nil {
		r.state.WhiteCards = *snap.WhiteCards
	} else {
		r.state.WhiteCards = nil
	}
	if snap.CurrentPresentationIndex != nil {
		r.state.CurrentPresentationIndex = *snap.CurrentPresentationIndex
	} else {
		r.state.CurrentPresentationIndex = 0
	}
	if snap.TimeLeft != nil {
		r.state.TimeLeft = *snap.TimeLeft
	} else {
		r.state.TimeLeft = 0
	}
	if snap.Winners != nil {
		r.state.Winners = *snap.Winners
	} else {
		r.state.Winners = nil
	}
	if snap.VotedPlayerID != nil {
		r.state.VotedPlayerID = *snap.VotedPlayerID
	} else {
		r.state.VotedPlayerID = ""
	}
	if snap.Votes != nil {
		r.state.Votes = *snap.Votes
	} else {
		r.state.Votes = map[string]int{}
	}
	if snap.AnswersCount != nil {
		r.state.AnswersCount = *snap.AnswersCount
	} else {
		r.state.AnswersCount = 0
	}

	r.log.Debug().
		Str("game_id", r.state.GameID).
		Str("phase", string(r.state.GamePhase)).
		Int("round", r.state.CurrentRound).
		Msg("applied snapshot")
}

// ApplyLocalSelection records the card the player picked, ahead of server
// confirmation. Snapshots never overwrite it.
func (r *Reconciler) ApplyLocalSelection(cardID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.SelectedCardID = cardID
}

// ApplyLocalVote records the answer the player voted for, ahead of server
// confirmation. Unlike the selected card, the next snapshot overwrites it.
func (r *Reconciler) ApplyLocalVote(playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.VotedPlayerID = playerID
}

// ApplyLocalSettings merges a settings patch into local state so the host's
// UI reflects the change before the server echoes it back.
func (r *Reconciler) ApplyLocalSettings(patch SettingsPatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if patch.CardsPerPlayer != nil {
		r.state.Settings.CardsPerPlayer = *patch.CardsPerPlayer
	}
	if patch.SelectionTime != nil {
		r.state.Settings.SelectionTime = *patch.SelectionTime
	}
	if patch.VotingTime != nil {
		r.state.Settings.VotingTime = *patch.VotingTime
	}
	if patch.MaxPlayers != nil {
		r.state.Settings.MaxPlayers = *patch.MaxPlayers
	}
}

// SetNickname stores the client-owned display name.
func (r *Reconciler) SetNickname(nickname string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Nickname = nickname
}

// Reset restores the full default state. Used when the player leaves a game.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = defaultGameState()
}
