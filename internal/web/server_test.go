package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/peterkuimelis/tcgsim/internal/config"
	"github.com/peterkuimelis/tcgsim/internal/player"
	"github.com/peterkuimelis/tcgsim/internal/view"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	data, err := config.LoadData("", "")
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	srv := httptest.NewServer(NewServer(data, config.Defaults{Games: 20, Seed: 42}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body any, header http.Header, v any) int {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		req.Header[k] = vs
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode
}

func ptr[T any](v T) *T { return &v }

func TestIndexServed(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "/ws/simulate") {
		t.Errorf("index: %d\n%s", resp.StatusCode, body)
	}

	missing, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("GET /nope = %d", missing.StatusCode)
	}
}

func TestListEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var players []player.Info
	getJSON(t, srv.URL+"/api/players", &players)
	if len(players) != len(player.Types()) {
		t.Errorf("got %d players, want %d", len(players), len(player.Types()))
	}

	var decks []view.DeckView
	getJSON(t, srv.URL+"/api/decks", &decks)
	if len(decks) == 0 || decks[0].Number != 1 || len(decks[0].Cards) == 0 {
		t.Errorf("decks = %+v", decks)
	}

	var pokemon []view.CardView
	getJSON(t, srv.URL+"/api/cards?category=pokemon", &pokemon)
	if len(pokemon) == 0 {
		t.Fatal("no Pokémon listed")
	}
	for _, c := range pokemon {
		if c.Category != "Pokemon" || c.HP == 0 {
			t.Errorf("unexpected card %+v", c)
		}
	}
}

func TestSimulateAndFetchRun(t *testing.T) {
	srv := newTestServer(t)
	var run RunResult
	status := postJSON(t, srv.URL+"/api/simulate", SimulateRequest{
		DeckA: "1", DeckB: "Tidal Wave", PlayerA: "heuristic", PlayerB: "random",
		NumGames: ptr(12), Seed: ptr[uint64](5), IncludeGames: true,
	}, nil, &run)
	if status != http.StatusOK {
		t.Fatalf("status %d: %+v", status, run)
	}
	if _, err := uuid.Parse(run.ID); err != nil {
		t.Errorf("run id %q: %v", run.ID, err)
	}
	if run.Results.Games != 12 || len(run.Results.Records) != 12 || run.Request.DeckB != "Tidal Wave" {
		t.Errorf("unexpected run %+v", run)
	}
	if !strings.Contains(run.Report, "heuristic (A) wins:") {
		t.Errorf("report:\n%s", run.Report)
	}

	var again RunResult
	if status := getJSON(t, srv.URL+"/api/runs/"+run.ID, &again); status != http.StatusOK {
		t.Fatalf("GET run: %d", status)
	}
	if again.ID != run.ID || again.Results.WinsA != run.Results.WinsA {
		t.Errorf("stored run differs: %+v", again)
	}

	var missing errorResponse
	if status := getJSON(t, srv.URL+"/api/runs/"+uuid.NewString(), &missing); status != http.StatusNotFound {
		t.Errorf("unknown run: %d", status)
	}
	if status := getJSON(t, srv.URL+"/api/runs/not-a-uuid", &missing); status != http.StatusBadRequest {
		t.Errorf("malformed run id: %d", status)
	}
}

func TestSimulateRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name  string
		req   SimulateRequest
		field string
	}{
		{"unknown player", SimulateRequest{DeckA: "1", DeckB: "2", PlayerA: "oracle", PlayerB: "random"}, "strategy_a"},
		{"unknown deck", SimulateRequest{DeckA: "1", DeckB: "Nope", PlayerA: "random", PlayerB: "random"}, "deck_b"},
		{"negative games", SimulateRequest{DeckA: "1", DeckB: "2", PlayerA: "random", PlayerB: "random", NumGames: ptr(-1)}, "num_games"},
		{"negative timeout", SimulateRequest{DeckA: "1", DeckB: "2", PlayerA: "random", PlayerB: "random", TimeoutSeconds: ptr(-1.0)}, "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp errorResponse
			status := postJSON(t, srv.URL+"/api/simulate", tt.req, nil, &resp)
			if status != http.StatusBadRequest || resp.Field != tt.field {
				t.Errorf("got %d %+v, want 400 on %s", status, resp, tt.field)
			}
		})
	}
}

func TestSimulateReportFollowsAcceptLanguage(t *testing.T) {
	srv := newTestServer(t)
	var run RunResult
	postJSON(t, srv.URL+"/api/simulate", SimulateRequest{
		DeckA: "1", DeckB: "2", PlayerA: "end_turn", PlayerB: "end_turn", NumGames: ptr(1000),
	}, http.Header{"Accept-Language": {"de-DE,de;q=0.9,en;q=0.5"}}, &run)
	if !strings.Contains(run.Report, "Games played: 1.000") {
		t.Errorf("report not localized:\n%s", run.Report)
	}
}

func TestSimulateStream(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/simulate", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseNow()

	req := SimulateRequest{DeckA: "2", DeckB: "3", PlayerA: "attach_attack", PlayerB: "random", NumGames: ptr(40), Parallelism: ptr(2)}
	if err := wsjson.Write(ctx, conn, req); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var id string
	lastDone := 0
	for {
		var msg StreamMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			t.Fatalf("Read: %v", err)
		}
		if id == "" {
			id = msg.ID
		}
		if msg.ID != id {
			t.Fatalf("run id changed from %s to %s", id, msg.ID)
		}
		switch msg.Type {
		case "progress":
			if msg.Done <= lastDone || msg.Total != 40 {
				t.Errorf("progress %d/%d after %d", msg.Done, msg.Total, lastDone)
			}
			lastDone = msg.Done
			continue
		case "result":
			if lastDone != 40 {
				t.Errorf("last progress %d, want 40", lastDone)
			}
			if msg.Result == nil || msg.Result.Results.Games != 40 || msg.Result.ID != id {
				t.Errorf("result = %+v", msg.Result)
			}
		default:
			t.Fatalf("unexpected message %+v", msg)
		}
		return
	}
}

func TestSimulateStreamReportsErrors(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/simulate", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseNow()

	if err := wsjson.Write(ctx, conn, SimulateRequest{DeckA: "1", DeckB: "2", PlayerA: "random"}); err != nil {
		t.Fatal(err)
	}
	var msg StreamMessage
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if msg.Type != "error" || !strings.Contains(msg.Error, "strategy_b") {
		t.Errorf("got %+v", msg)
	}
}

func TestResolveTag(t *testing.T) {
	tests := []struct {
		url, accept string
		want        language.Base
	}{
		{"/", "", language.MustParseBase("en")},
		{"/?lang=de", "fr", language.MustParseBase("de")},
		{"/", "fr-CA,fr;q=0.8", language.MustParseBase("fr")},
		{"/?lang=!!", "ja", language.MustParseBase("ja")},
		{"/", "xx-invalid-", language.MustParseBase("en")},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.url, nil)
		if tt.accept != "" {
			r.Header.Set("Accept-Language", tt.accept)
		}
		base, _ := resolveTag(r).Base()
		if base != tt.want {
			t.Errorf("%s with %q: got %v, want %v", tt.url, tt.accept, base, tt.want)
		}
	}
}
