package mcp

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/peterkuimelis/tcgsim/internal/config"
	"github.com/peterkuimelis/tcgsim/internal/player"
	"github.com/peterkuimelis/tcgsim/internal/view"
)

type handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

func setup(t *testing.T) {
	t.Helper()
	d, err := config.LoadData("", "")
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	SetData(d)
	SetDefaults(config.Defaults{Games: 20, Seed: 42})
	t.Cleanup(func() {
		sessionMu.Lock()
		defer sessionMu.Unlock()
		if activeSession != nil {
			activeSession.Close()
			activeSession = nil
		}
	})
}

// call invokes a tool handler and returns its text and error flag.
func call(t *testing.T, h handler, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func decode[T any](t *testing.T, text string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		t.Fatalf("decode %s: %v", text, err)
	}
	return v
}

func TestSimulateTool(t *testing.T) {
	setup(t)
	text, isErr := call(t, handleSimulate, map[string]any{
		"deck_a": "1", "deck_b": "2", "player_a": "heuristic", "player_b": "random",
		"num_games": 10, "seed": 9, "include_games": true,
	})
	if isErr {
		t.Fatalf("simulate failed: %s", text)
	}
	resp := decode[simulateResponse](t, text)
	r := resp.Results
	if r.Games != 10 || r.WinsA+r.WinsB+r.Ties+r.Aborted != 10 || len(r.Records) != 10 {
		t.Errorf("unexpected results %+v", r)
	}
	if resp.WinRateA != r.WinRateA() {
		t.Errorf("win rate %v, want %v", resp.WinRateA, r.WinRateA())
	}
}

func TestSimulateToolErrors(t *testing.T) {
	setup(t)
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"unknown player", map[string]any{"deck_a": "1", "deck_b": "2", "player_a": "oracle", "player_b": "random"}, "strategy_a"},
		{"unknown deck", map[string]any{"deck_a": "Nope", "deck_b": "2", "player_a": "random", "player_b": "random"}, "deck_a"},
		{"bad deck number", map[string]any{"deck_a": "1", "deck_b": "99", "player_a": "random", "player_b": "random"}, "deck_b"},
		{"no games", map[string]any{"deck_a": "1", "deck_b": "2", "player_a": "random", "player_b": "random", "num_games": 0}, "num_games"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, handleSimulate, tt.args)
			if !isErr || !strings.Contains(text, tt.want) {
				t.Errorf("got %q (error=%v), want an error naming %s", text, isErr, tt.want)
			}
		})
	}
}

func TestGetPlayerTypesTool(t *testing.T) {
	setup(t)
	text, isErr := call(t, handleGetPlayerTypes, nil)
	if isErr {
		t.Fatal(text)
	}
	infos := decode[[]player.Info](t, text)
	if len(infos) != len(player.Types()) {
		t.Fatalf("got %d types, want %d", len(infos), len(player.Types()))
	}
	for i, id := range player.Types() {
		if infos[i].ID != id || infos[i].Description == "" {
			t.Errorf("type %d = %+v", i, infos[i])
		}
	}
}

func TestListTools(t *testing.T) {
	setup(t)
	text, _ := call(t, handleListDecks, nil)
	decks := decode[[]view.DeckView](t, text)
	if len(decks) != len(data.Decks) || decks[0].Number != 1 {
		t.Errorf("decks = %+v", decks)
	}

	text, _ = call(t, handleListCards, map[string]any{"category": "trainer"})
	cards := decode[[]view.CardView](t, text)
	if len(cards) == 0 {
		t.Fatal("no trainers listed")
	}
	for _, c := range cards {
		if c.Category != "Trainer" {
			t.Errorf("%s is a %s", c.ID, c.Category)
		}
	}
	text, _ = call(t, handleListCards, nil)
	if all := decode[[]view.CardView](t, text); len(all) != data.Catalog.Len() {
		t.Errorf("listed %d of %d cards", len(all), data.Catalog.Len())
	}
}

func TestAgentPlaysGameToTheEnd(t *testing.T) {
	setup(t)
	text, isErr := call(t, handleStartGame, map[string]any{
		"deck": "1", "opponent_deck": "2", "opponent": "random", "seat": 1, "seed": 5,
	})
	if isErr {
		t.Fatalf("start_game: %s", text)
	}
	resp := decode[ToolResponse](t, text)
	if resp.Seat != 1 || resp.Opponent != "random" {
		t.Errorf("session = seat %d vs %s", resp.Seat, resp.Opponent)
	}

	_, isErr = call(t, handleStartGame, map[string]any{"deck": "1", "opponent_deck": "2"})
	if !isErr {
		t.Error("second concurrent game accepted")
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; !resp.GameOver; i++ {
		if i > 25000 {
			t.Fatal("game did not finish")
		}
		if resp.Pending == nil || len(resp.Pending.Actions) == 0 {
			t.Fatalf("no pending actions: %s", text)
		}
		if resp.State.Opponent.Hand != nil {
			t.Fatal("opponent hand visible to the agent")
		}
		text, isErr = call(t, handleTakeAction, map[string]any{"index": rng.IntN(len(resp.Pending.Actions))})
		if isErr {
			t.Fatalf("take_action: %s", text)
		}
		resp = decode[ToolResponse](t, text)
	}
	if resp.Outcome == nil || resp.Result == "" {
		t.Errorf("game over without an outcome: %s", text)
	}

	if _, isErr := call(t, handleGetGameState, nil); !isErr {
		t.Error("finished game still active")
	}
}

func TestTakeActionValidation(t *testing.T) {
	setup(t)
	if _, isErr := call(t, handleTakeAction, map[string]any{"index": 0}); !isErr {
		t.Error("take_action accepted without a game")
	}

	text, isErr := call(t, handleStartGame, map[string]any{
		"deck": "Tidal Wave", "opponent_deck": "1", "seed": 8,
	})
	if isErr {
		t.Fatalf("start_game: %s", text)
	}
	resp := decode[ToolResponse](t, text)
	if resp.GameOver {
		t.Skip("game ended before the first decision")
	}

	text, isErr = call(t, handleTakeAction, map[string]any{"index": len(resp.Pending.Actions)})
	if !isErr || !strings.Contains(text, "Invalid index") {
		t.Errorf("out of range index: %q", text)
	}

	text, isErr = call(t, handleGetGameState, nil)
	if isErr {
		t.Fatal(text)
	}
	again := decode[ToolResponse](t, text)
	if again.Pending == nil || len(again.Pending.Actions) != len(resp.Pending.Actions) {
		t.Errorf("state changed without an action: %s", text)
	}

	if text, isErr := call(t, handleAbandonGame, nil); isErr {
		t.Fatal(text)
	}
	if _, isErr := call(t, handleGetGameState, nil); !isErr {
		t.Error("abandoned game still active")
	}
}

func TestStartGameRejectsBadSeat(t *testing.T) {
	setup(t)
	text, isErr := call(t, handleStartGame, map[string]any{"deck": "1", "opponent_deck": "2", "seat": 2})
	if !isErr || !strings.Contains(text, "seat") {
		t.Errorf("seat 2 accepted: %q", text)
	}
}
