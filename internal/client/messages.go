package client

import (
	"encoding/json"
	"fmt"
)

// Outbound intent actions. The server matches on these strings.
const (
	ActionCreateGame     = "create_game"
	ActionJoinGame       = "join_game"
	ActionStartGame      = "start_game"
	ActionUpdateSettings = "update_settings"
	ActionKickPlayer     = "kick_player"
	ActionSelectCard     = "select_card"
	ActionVote           = "vote"
	ActionRestartGame    = "restart_game"
	ActionLeaveGame      = "leave_game"
)

// Intent is the outbound wire envelope. The protocol is flat: every action
// carries `action`, usually `gameId`, plus its own fields, so one struct with
// omitempty covers all nine actions.
type Intent struct {
	Action        string         `json:"action"`
	GameID        string         `json:"gameId,omitempty"`
	Nickname      string         `json:"nickname,omitempty"`
	CardID        string         `json:"cardId,omitempty"`
	PlayerID      string         `json:"playerId,omitempty"`
	VotedPlayerID string         `json:"votedPlayerId,omitempty"`
	Settings      *SettingsPatch `json:"settings,omitempty"`
}

// SettingsPatch is a partial GameSettings. Only non-nil knobs are sent to the
// server and merged into local state.
type SettingsPatch struct {
	CardsPerPlayer *int `json:"cardsPerPlayer,omitempty"`
	SelectionTime  *int `json:"selectionTime,omitempty"`
	VotingTime     *int `json:"votingTime,omitempty"`
	MaxPlayers     *int `json:"maxPlayers,omitempty"`
}

// Envelope is an inbound server message: *Snapshot, ServerError or Navigate.
type Envelope interface{ isEnvelope() }

// Snapshot is a `game_update` envelope. Every field is optional on the wire;
// pointers record presence so the reconciler can apply its per-field
// default-or-preserve policy.
type Snapshot struct {
	GameID                   *string         `json:"gameId"`
	PlayerID                 *string         `json:"playerId"`
	IsHost                   *bool           `json:"isHost"`
	Players                  *[]Player       `json:"players"`
	BlackCard                *Card           `json:"blackCard"`
	WhiteCards               *[]Card         `json:"whiteCards"`
	PlayerAnswers            *[]PlayerAnswer `json:"playerAnswers"`
	CurrentRound             *int            `json:"currentRound"`
	GamePhase                *GamePhase      `json:"gamePhase"`
	Settings                 *GameSettings   `json:"settings"`
	CurrentPresentationIndex *int            `json:"currentPresentationIndex"`
	TimeLeft                 *int            `json:"timeLeft"`
	Winners                  *[]PlayerScore  `json:"winners"`
	VotedPlayerID            *string         `json:"votedPlayerId"`
	Votes                    *map[string]int `json:"votes"`
	AnswersCount             *int            `json:"answersCount"`
}

// ServerError is an `error` envelope. Message may be empty; the presenter
// substitutes a generic fallback.
type ServerError struct {
	Message string `json:"message"`
}

// Navigate is a `navigate` envelope carrying an application-relative route.
type Navigate struct {
	Route string `json:"route"`
}

func (*Snapshot) isEnvelope()   {}
func (ServerError) isEnvelope() {}
func (Navigate) isEnvelope()    {}

// DecodeEnvelope parses one inbound frame into its typed form. Frames that
// are not JSON objects or carry an unknown type are rejected; the caller
// drops them with a diagnostic.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid frame: %w", err)
	}

	switch head.Type {
	case "game_update":
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("invalid game_update: %w", err)
		}
		return &snap, nil

	case "error":
		var se ServerError
		if err := json.Unmarshal(data, &se); err != nil {
			return nil, fmt.Errorf("invalid error envelope: %w", err)
		}
		return se, nil

	case "navigate":
		var nav Navigate
		if err := json.Unmarshal(data, &nav); err != nil {
			return nil, fmt.Errorf("invalid navigate envelope: %w", err)
		}
		return nav, nil

	default:
		return nil, fmt.Errorf("unknown message type %q", head.Type)
	}
}
