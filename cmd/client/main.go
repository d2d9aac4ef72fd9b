package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"absurd-client/internal/client"
	"absurd-client/internal/history"
)

const historyMaxAge = 7 * 24 * time.Hour

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := client.LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	store, err := history.Open(cfg.HistoryDB, clockwork.NewRealClock())
	if err != nil {
		// Not fatal: the client works without history, only the prompts lose
		// their suggestions.
		logger.Warn().Err(err).Msg("game history unavailable")
	} else {
		defer store.Close()
		if deleted, err := store.Prune(historyMaxAge); err != nil {
			logger.Warn().Err(err).Msg("failed to prune game history")
		} else if deleted > 0 {
			logger.Info().Int64("deleted", deleted).Msg("pruned stale game history")
		}
	}

	ui := &consoleUI{out: os.Stdout, store: store}
	session := client.NewSession(cfg, ui, logger)
	defer session.Close()
	ui.session = session

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Absurdly Correct — type 'help' for commands")
	if store != nil {
		if nickname, err := store.LastNickname(); err == nil && nickname != "" {
			fmt.Printf("welcome back, %s\n", nickname)
		}
	}

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println("\nbye")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := runCommand(ctx, session, ui, line); quit {
				return
			}
		}
	}
}

func runCommand(ctx context.Context, session *client.Session, ui *consoleUI, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "create":
		if len(args) != 1 {
			fmt.Println("usage: create <nickname>")
			return false
		}
		if err := session.CreateGame(ctx, args[0]); err != nil {
			fmt.Printf("could not reach the server: %v\n", err)
		}

	case "join":
		if len(args) != 2 {
			fmt.Println("usage: join <gameId> <nickname>")
			return false
		}
		if err := session.JoinGame(ctx, args[0], args[1]); err != nil {
			fmt.Printf("could not reach the server: %v\n", err)
			return false
		}
		ui.remember(args[0], args[1])

	case "start":
		session.StartGame()

	case "settings":
		patch, err := parseSettings(args)
		if err != nil {
			fmt.Println(err)
			return false
		}
		session.UpdateSettings(patch)

	case "kick":
		if len(args) != 1 {
			fmt.Println("usage: kick <playerId>")
			return false
		}
		session.KickPlayer(args[0])

	case "select":
		if len(args) != 1 {
			fmt.Println("usage: select <cardId>")
			return false
		}
		session.SelectCard(args[0])

	case "vote":
		if len(args) != 1 {
			fmt.Println("usage: vote <playerId>")
			return false
		}
		session.VoteForAnswer(args[0])

	case "restart":
		session.RestartGame()

	case "leave":
		session.LeaveGame()

	case "state":
		ui.render()

	case "recent":
		ui.printRecent()

	case "help":
		printHelp()

	case "quit", "exit":
		return true

	default:
		fmt.Printf("unknown command %q, type 'help'\n", cmd)
	}
	return false
}

// parseSettings turns key=value pairs into a partial settings update, e.g.
// "settings cardsPerPlayer=7 votingTime=30".
func parseSettings(args []string) (client.SettingsPatch, error) {
	var patch client.SettingsPatch
	if len(args) == 0 {
		return patch, fmt.Errorf("usage: settings <key=value>... (cardsPerPlayer, selectionTime, votingTime, maxPlayers)")
	}
	for _, arg := range args {
		key, raw, found := strings.Cut(arg, "=")
		if !found {
			return patch, fmt.Errorf("invalid setting %q, expected key=value", arg)
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return patch, fmt.Errorf("invalid value for %s: %q", key, raw)
		}
		switch key {
		case "cardsPerPlayer":
			patch.CardsPerPlayer = &value
		case "selectionTime":
			patch.SelectionTime = &value
		case "votingTime":
			patch.VotingTime = &value
		case "maxPlayers":
			patch.MaxPlayers = &value
		default:
			return patch, fmt.Errorf("unknown setting %q", key)
		}
	}
	return patch, nil
}

func printHelp() {
	fmt.Println(`commands:
  create <nickname>          create a new game
  join <gameId> <nickname>   join an existing game
  start                      start the game (host)
  settings <key=value>...    update game settings (host)
  kick <playerId>            kick a player (host)
  select <cardId>            submit a white card
  vote <playerId>            vote for an answer
  restart                    back to the lobby (host)
  leave                      leave the game
  state                      print the current game state
  recent                     list recently joined games
  quit                       exit`)
}
