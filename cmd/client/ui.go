package main

import (
	"fmt"
	"io"
	"strings"

	"absurd-client/internal/client"
	"absurd-client/internal/history"
)

// consoleUI is the terminal implementation of the core's Navigator
// collaborator: alerts print to the terminal, server navigations re-render
// the view matching the new route.
type consoleUI struct {
	out     io.Writer
	session *client.Session
	store   *history.Store
}

func (ui *consoleUI) Alert(message string) {
	fmt.Fprintf(ui.out, "\n!! %s\n", message)
}

func (ui *consoleUI) Navigate(route string) {
	fmt.Fprintf(ui.out, "\n-- %s --\n", route)

	// The lobby route is the first moment the game id is known on the
	// create flow; remember it for the `recent` prompt.
	if strings.HasPrefix(route, "/lobby/") {
		state := ui.session.State()
		ui.remember(state.GameID, state.Nickname)
	}
	ui.render()
}

func (ui *consoleUI) remember(gameID, nickname string) {
	if ui.store == nil || gameID == "" {
		return
	}
	if err := ui.store.Record(gameID, nickname); err != nil {
		fmt.Fprintf(ui.out, "(could not save game to history: %v)\n", err)
	}
}

func (ui *consoleUI) printRecent() {
	if ui.store == nil {
		fmt.Fprintln(ui.out, "history unavailable")
		return
	}
	entries, err := ui.store.Recent(10)
	if err != nil {
		fmt.Fprintf(ui.out, "could not read history: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(ui.out, "no recent games")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(ui.out, "  %s  as %s  (%s)\n", e.GameID, e.Nickname, e.JoinedAt.Local().Format("Jan 2 15:04"))
	}
}

func (ui *consoleUI) render() {
	state := ui.session.State()

	switch state.GamePhase {
	case client.PhaseLobby:
		if state.GameID == "" {
			fmt.Fprintln(ui.out, "not in a game — create or join one")
			return
		}
		fmt.Fprintf(ui.out, "lobby %s — %d/%d players\n", state.GameID, len(state.Players), state.Settings.MaxPlayers)
		for _, p := range state.Players {
			marker := " "
			if p.ID == state.PlayerID {
				marker = "*"
			}
			fmt.Fprintf(ui.out, "  %s %s (%s)\n", marker, p.Nickname, p.ID)
		}
		fmt.Fprintf(ui.out, "settings: %d cards, %ds selection, %ds voting\n",
			state.Settings.CardsPerPlayer, state.Settings.SelectionTime, state.Settings.VotingTime)
		if state.IsHost {
			fmt.Fprintln(ui.out, "you are the host — 'start' when everyone is in")
		}

	case client.PhaseSelection:
		fmt.Fprintf(ui.out, "round %d — selection (%ds left, %d answered)\n",
			state.CurrentRound, state.TimeLeft, state.AnswersCount)
		if state.BlackCard != nil {
			fmt.Fprintf(ui.out, "prompt: %s\n", state.BlackCard.Content)
		}
		fmt.Fprintln(ui.out, "your hand:")
		for _, c := range state.WhiteCards {
			marker := " "
			if c.ID == state.SelectedCardID {
				marker = ">"
			}
			fmt.Fprintf(ui.out, "  %s [%s] %s\n", marker, c.ID, c.Content)
		}

	case client.PhasePresentation:
		fmt.Fprintf(ui.out, "round %d — answers\n", state.CurrentRound)
		if state.BlackCard != nil {
			fmt.Fprintf(ui.out, "prompt: %s\n", state.BlackCard.Content)
		}
		if i := state.CurrentPresentationIndex; i >= 0 && i < len(state.PlayerAnswers) {
			answer := state.PlayerAnswers[i]
			fmt.Fprintf(ui.out, "  %d/%d: %s\n", i+1, len(state.PlayerAnswers), answer.Card.Content)
		}

	case client.PhaseVoting:
		fmt.Fprintf(ui.out, "round %d — voting (%ds left)\n", state.CurrentRound, state.TimeLeft)
		for _, answer := range state.PlayerAnswers {
			marker := " "
			if answer.PlayerID == state.VotedPlayerID {
				marker = ">"
			}
			fmt.Fprintf(ui.out, "  %s [%s] %s — %d votes\n",
				marker, answer.PlayerID, answer.Card.Content, state.Votes[answer.PlayerID])
		}

	case client.PhaseResults:
		fmt.Fprintln(ui.out, "results:")
		for i, winner := range state.Winners {
			if i >= 3 {
				break
			}
			fmt.Fprintf(ui.out, "  %d. %s — %d points\n", i+1, winner.Nickname, winner.Score)
		}
		fmt.Fprintln(ui.out, "'restart' for another game, 'leave' to quit")

	default:
		// Unrecognized phases flow through untouched; show them raw.
		fmt.Fprintf(ui.out, "phase: %s\n", state.GamePhase)
	}
}
