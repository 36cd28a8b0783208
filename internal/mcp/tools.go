// Package mcp exposes the simulator and agent play as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/tcgsim/internal/config"
	"github.com/peterkuimelis/tcgsim/internal/player"
	"github.com/peterkuimelis/tcgsim/internal/sim"
	"github.com/peterkuimelis/tcgsim/internal/view"
)

var (
	// data is the card catalog and decks, set by main.
	data *config.Data
	// defaults fill in tool arguments the caller leaves out.
	defaults config.Defaults

	// activeSession is the singleton game session (one per stdio process).
	sessionMu     sync.Mutex
	activeSession *GameSession
)

// SetData sets the catalog and decks the tools work with.
func SetData(d *config.Data) {
	data = d
}

// SetDefaults sets the defaults for omitted simulate arguments.
func SetDefaults(d config.Defaults) {
	defaults = d
}

// RegisterTools adds all tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(simulateTool(), handleSimulate)
	s.AddTool(getPlayerTypesTool(), handleGetPlayerTypes)
	s.AddTool(listCardsTool(), handleListCards)
	s.AddTool(listDecksTool(), handleListDecks)
	s.AddTool(startGameTool(), handleStartGame)
	s.AddTool(takeActionTool(), handleTakeAction)
	s.AddTool(getGameStateTool(), handleGetGameState)
	s.AddTool(abandonGameTool(), handleAbandonGame)
}

// --- Tool definitions ---

func simulateTool() mcp.Tool {
	types := strings.Join(player.Types(), ", ")
	return mcp.NewTool("simulate",
		mcp.WithDescription("Play a batch of games between two automated players and return the aggregate win, tie and abort counts. "+
			"Decks are referenced by name or by 1-based number from list_decks."),
		mcp.WithString("deck_a", mcp.Required(), mcp.Description("Deck for player A (name or number)")),
		mcp.WithString("deck_b", mcp.Required(), mcp.Description("Deck for player B (name or number)")),
		mcp.WithString("player_a", mcp.Required(), mcp.Description("Player type for A, one of: "+types)),
		mcp.WithString("player_b", mcp.Required(), mcp.Description("Player type for B, one of: "+types)),
		mcp.WithNumber("num_games", mcp.Description("Number of games to play")),
		mcp.WithNumber("seed", mcp.Description("Batch seed; the same seed replays the same games")),
		mcp.WithNumber("parallelism", mcp.Description("Games played at once; 0 uses every CPU")),
		mcp.WithNumber("timeout_seconds", mcp.DefaultNumber(0), mcp.Description("Stop starting new games after this long; 0 means no limit")),
		mcp.WithBoolean("include_games", mcp.Description("Include a record per game in the result")),
	)
}

func getPlayerTypesTool() mcp.Tool {
	return mcp.NewTool("get_player_types",
		mcp.WithDescription("List the automated player types accepted by simulate and start_game. Read-only."),
	)
}

func listCardsTool() mcp.Tool {
	return mcp.NewTool("list_cards",
		mcp.WithDescription("List every card in the catalog with its attacks, ability and trainer kind. Read-only."),
		mcp.WithString("category", mcp.Description("Only cards of this category: Pokemon or Trainer")),
	)
}

func listDecksTool() mcp.Tool {
	return mcp.NewTool("list_decks",
		mcp.WithDescription("List the available decks with their numbers, energy types and card counts. Read-only."),
	)
}

func startGameTool() mcp.Tool {
	return mcp.NewTool("start_game",
		mcp.WithDescription("Start a game against an automated player. Returns the initial state and your first pending decision. "+
			"Answer decisions with take_action until game_over is true."),
		mcp.WithString("deck", mcp.Required(), mcp.Description("Your deck (name or number)")),
		mcp.WithString("opponent_deck", mcp.Required(), mcp.Description("Opponent deck (name or number)")),
		mcp.WithString("opponent", mcp.DefaultString("heuristic"), mcp.Description("Opponent player type")),
		mcp.WithNumber("seat", mcp.DefaultNumber(0), mcp.Description("Your seat, 0 or 1. A coin flip decides who goes first.")),
		mcp.WithNumber("seed", mcp.Description("Game seed")),
	)
}

func takeActionTool() mcp.Tool {
	return mcp.NewTool("take_action",
		mcp.WithDescription("Choose an action from the pending action list."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the action to take from the actions list")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current game state, accumulated events, and pending decision without submitting a response. Read-only."),
	)
}

func abandonGameTool() mcp.Tool {
	return mcp.NewTool("abandon_game",
		mcp.WithDescription("Abandon the running game so a new one can be started."),
	)
}

// --- Tool handlers ---

type simulateResponse struct {
	Results  *sim.Results `json:"results"`
	WinRateA float64      `json:"win_rate_a"`
	WinRateB float64      `json:"win_rate_b"`
	TieRate  float64      `json:"tie_rate"`
	AvgTurns float64      `json:"avg_turns"`
}

func handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if data == nil {
		return mcp.NewToolResultError("No card data loaded."), nil
	}
	deckA, err := data.Deck(request.GetString("deck_a", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("deck_a: %v", err), nil
	}
	deckB, err := data.Deck(request.GetString("deck_b", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("deck_b: %v", err), nil
	}

	cfg := sim.Config{
		DeckA:       deckA,
		DeckB:       deckB,
		StrategyA:   request.GetString("player_a", ""),
		StrategyB:   request.GetString("player_b", ""),
		NumGames:    request.GetInt("num_games", defaults.Games),
		Seed:        uint64(request.GetInt("seed", int(defaults.Seed))),
		Parallelism: request.GetInt("parallelism", defaults.Parallelism),
		Timeout:     defaults.Timeout,
		Rules:       data.Rules,
		KeepGames:   request.GetBool("include_games", false),
	}
	if secs := request.GetFloat("timeout_seconds", 0); secs > 0 {
		cfg.Timeout = time.Duration(secs * float64(time.Second))
	}

	res, err := sim.Simulate(ctx, cfg)
	var ce *sim.ConfigurationError
	if errors.As(err, &ce) {
		return mcp.NewToolResultError(ce.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultErrorFromErr("simulation failed", err), nil
	}
	return mcp.NewToolResultText(respondJSON(simulateResponse{
		Results:  res,
		WinRateA: res.WinRateA(),
		WinRateB: res.WinRateB(),
		TieRate:  res.TieRate(),
		AvgTurns: res.AvgTurns(),
	})), nil
}

func handleGetPlayerTypes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(respondJSON(player.Describe())), nil
}

func handleListCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if data == nil {
		return mcp.NewToolResultError("No card data loaded."), nil
	}
	category := request.GetString("category", "")
	cards := []view.CardView{}
	for _, c := range view.Cards(data.Catalog) {
		if category == "" || strings.EqualFold(c.Category, category) {
			cards = append(cards, c)
		}
	}
	return mcp.NewToolResultText(respondJSON(cards)), nil
}

func handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if data == nil {
		return mcp.NewToolResultError("No card data loaded."), nil
	}
	return mcp.NewToolResultText(respondJSON(view.Decks(data.Decks))), nil
}

func handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if activeSession != nil {
		return mcp.NewToolResultError("A game is already running. Finish it or call abandon_game first."), nil
	}
	if data == nil {
		return mcp.NewToolResultError("No card data loaded."), nil
	}

	deck, err := data.Deck(request.GetString("deck", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("deck: %v", err), nil
	}
	oppDeck, err := data.Deck(request.GetString("opponent_deck", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("opponent_deck: %v", err), nil
	}

	sess, err := NewGameSession(SessionConfig{
		AgentDeck:    deck,
		OpponentDeck: oppDeck,
		Opponent:     request.GetString("opponent", "heuristic"),
		Seat:         request.GetInt("seat", 0),
		Seed:         uint64(request.GetInt("seed", int(time.Now().UnixNano()))),
		Rules:        data.Rules,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start game: %v", err), nil
	}

	resp := sess.waitForPending()
	if !resp.GameOver {
		activeSession = sess
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleTakeAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}

	sess := activeSession
	pending := sess.currentPending
	if pending == nil || pending.Type != DecisionChooseAction {
		return mcp.NewToolResultError("No pending decision."), nil
	}

	index := request.GetInt("index", -1)
	if index < 0 || index >= len(pending.Actions) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(pending.Actions)-1), nil
	}

	sess.respond(index)
	resp := sess.waitForPending()
	if resp.GameOver {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use start_game first."), nil
	}
	return mcp.NewToolResultText(respondJSON(activeSession.snapshot())), nil
}

func handleAbandonGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running."), nil
	}
	activeSession.Close()
	activeSession = nil
	return mcp.NewToolResultText(`{"abandoned": true}`), nil
}
