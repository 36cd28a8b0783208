// Package web serves the simulator over HTTP: a JSON API, a WebSocket that
// streams batch progress, and a small embedded page that drives both.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/peterkuimelis/tcgsim/internal/config"
	"github.com/peterkuimelis/tcgsim/internal/player"
	"github.com/peterkuimelis/tcgsim/internal/sim"
	"github.com/peterkuimelis/tcgsim/internal/view"
)

//go:embed static
var staticFiles embed.FS

// maxRuns bounds how many finished runs are kept for GET /api/runs/{id}.
const maxRuns = 100

// LangParam is the query parameter that overrides Accept-Language.
const LangParam = "lang"

var supported = language.NewMatcher([]language.Tag{
	language.English,
	language.German,
	language.French,
	language.Spanish,
	language.Italian,
	language.Japanese,
})

// SimulateRequest is the body of POST /api/simulate and the first WebSocket message.
type SimulateRequest struct {
	DeckA          string   `json:"deck_a"`
	DeckB          string   `json:"deck_b"`
	PlayerA        string   `json:"player_a"`
	PlayerB        string   `json:"player_b"`
	NumGames       *int     `json:"num_games,omitempty"`
	Seed           *uint64  `json:"seed,omitempty"`
	Parallelism    *int     `json:"parallelism,omitempty"`
	TimeoutSeconds *float64 `json:"timeout_seconds,omitempty"`
	IncludeGames   bool     `json:"include_games,omitempty"`
}

// RunResult is a finished batch as returned to clients.
type RunResult struct {
	ID       string       `json:"id"`
	Request  Echo         `json:"request"`
	Results  *sim.Results `json:"results"`
	WinRateA float64      `json:"win_rate_a"`
	WinRateB float64      `json:"win_rate_b"`
	TieRate  float64      `json:"tie_rate"`
	AvgTurns float64      `json:"avg_turns"`
	Report   string       `json:"report"`
	Elapsed  string       `json:"elapsed"`
}

// Echo records the resolved batch parameters of a run.
type Echo struct {
	DeckA    string `json:"deck_a"`
	DeckB    string `json:"deck_b"`
	PlayerA  string `json:"player_a"`
	PlayerB  string `json:"player_b"`
	NumGames int    `json:"num_games"`
	Seed     uint64 `json:"seed"`
}

// StreamMessage is sent over /ws/simulate: "progress" while games finish,
// then one "result" or "error".
type StreamMessage struct {
	Type   string     `json:"type"`
	ID     string     `json:"id,omitempty"`
	Done   int        `json:"done,omitempty"`
	Total  int        `json:"total,omitempty"`
	Result *RunResult `json:"result,omitempty"`
	Error  string     `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Server is the tcgsim web server.
type Server struct {
	data     *config.Data
	defaults config.Defaults
	mux      *http.ServeMux

	mu    sync.Mutex
	runs  map[string]*RunResult
	order []string
}

// NewServer creates a web server over the given card data.
func NewServer(data *config.Data, defaults config.Defaults) *Server {
	s := &Server{
		data:     data,
		defaults: defaults,
		mux:      http.NewServeMux(),
		runs:     make(map[string]*RunResult),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/players", s.handlePlayers)
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("POST /api/simulate", s.handleSimulate)
	s.mux.HandleFunc("GET /api/runs/{id}", s.handleRun)

	s.mux.HandleFunc("GET /ws/simulate", s.handleSimulateStream)
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, player.Describe())
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	cards := []view.CardView{}
	for _, c := range view.Cards(s.data.Catalog) {
		if category == "" || strings.EqualFold(c.Category, category) {
			cards = append(cards, c)
		}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, view.Decks(s.data.Decks))
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("decode request: %v", err)})
		return
	}
	cfg, echo, err := s.config(req)
	if err != nil {
		writeError(w, err)
		return
	}
	run, err := s.run(r.Context(), uuid.NewString(), cfg, echo, resolveTag(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed run id"})
		return
	}
	s.mu.Lock()
	run, ok := s.runs[id.String()]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown run"})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleSimulateStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		log.Printf("WebSocket accept error: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	var req SimulateRequest
	if err := wsjson.Read(ctx, conn, &req); err != nil {
		conn.Close(websocket.StatusPolicyViolation, "expected a simulate request")
		return
	}
	lang := resolveTag(r)
	id := uuid.NewString()

	cfg, echo, err := s.config(req)
	if err != nil {
		wsjson.Write(ctx, conn, StreamMessage{Type: "error", ID: id, Error: err.Error()})
		conn.Close(websocket.StatusNormalClosure, "bad request")
		return
	}

	// The client closing the socket cancels the batch.
	ctx = conn.CloseRead(ctx)
	last := -1
	cfg.Progress = func(done, total int) {
		pct := done * 100 / total
		if pct == last && done != total {
			return
		}
		last = pct
		if err := wsjson.Write(ctx, conn, StreamMessage{Type: "progress", ID: id, Done: done, Total: total}); err != nil {
			log.Printf("WebSocket write error: %v", err)
		}
	}

	run, err := s.run(ctx, id, cfg, echo, lang)
	if err != nil {
		wsjson.Write(ctx, conn, StreamMessage{Type: "error", ID: id, Error: err.Error()})
		conn.Close(websocket.StatusInternalError, "simulation failed")
		return
	}
	if err := wsjson.Write(ctx, conn, StreamMessage{Type: "result", ID: id, Result: run}); err != nil {
		log.Printf("WebSocket write error: %v", err)
		return
	}
	conn.Close(websocket.StatusNormalClosure, "done")
}

// config resolves a request into a batch, filling omitted fields from the defaults.
func (s *Server) config(req SimulateRequest) (sim.Config, Echo, error) {
	deckA, err := s.data.Deck(req.DeckA)
	if err != nil {
		return sim.Config{}, Echo{}, &sim.ConfigurationError{Field: "deck_a", Reason: err.Error()}
	}
	deckB, err := s.data.Deck(req.DeckB)
	if err != nil {
		return sim.Config{}, Echo{}, &sim.ConfigurationError{Field: "deck_b", Reason: err.Error()}
	}
	cfg := sim.Config{
		DeckA:       deckA,
		DeckB:       deckB,
		StrategyA:   req.PlayerA,
		StrategyB:   req.PlayerB,
		NumGames:    s.defaults.Games,
		Seed:        s.defaults.Seed,
		Parallelism: s.defaults.Parallelism,
		Timeout:     s.defaults.Timeout,
		Rules:       s.data.Rules,
		KeepGames:   req.IncludeGames,
	}
	if req.NumGames != nil {
		cfg.NumGames = *req.NumGames
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	if req.Parallelism != nil {
		cfg.Parallelism = *req.Parallelism
	}
	if req.TimeoutSeconds != nil {
		cfg.Timeout = time.Duration(*req.TimeoutSeconds * float64(time.Second))
	}
	if err := cfg.Validate(); err != nil {
		return sim.Config{}, Echo{}, err
	}
	echo := Echo{
		DeckA:    deckA.Name,
		DeckB:    deckB.Name,
		PlayerA:  cfg.StrategyA,
		PlayerB:  cfg.StrategyB,
		NumGames: cfg.NumGames,
		Seed:     cfg.Seed,
	}
	return cfg, echo, nil
}

func (s *Server) run(ctx context.Context, id string, cfg sim.Config, echo Echo, lang language.Tag) (*RunResult, error) {
	start := time.Now()
	res, err := sim.Simulate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var report strings.Builder
	if err := res.Report(&report, lang, echo.PlayerA+" (A)", echo.PlayerB+" (B)"); err != nil {
		return nil, err
	}
	run := &RunResult{
		ID:       id,
		Request:  echo,
		Results:  res,
		WinRateA: res.WinRateA(),
		WinRateB: res.WinRateB(),
		TieRate:  res.TieRate(),
		AvgTurns: res.AvgTurns(),
		Report:   report.String(),
		Elapsed:  time.Since(start).Round(time.Millisecond).String(),
	}
	s.remember(run)
	log.Printf("run %s: %s vs %s, %d games, A %.1f%% B %.1f%%", id, echo.PlayerA, echo.PlayerB, res.Games, 100*run.WinRateA, 100*run.WinRateB)
	return run, nil
}

func (s *Server) remember(run *RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)
	if len(s.order) > maxRuns {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
}

// resolveTag picks the report language from ?lang, then Accept-Language.
func resolveTag(r *http.Request) language.Tag {
	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if tag, err := language.Parse(v); err == nil {
			return tag
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			tag, _, _ := supported.Match(tags...)
			return tag
		}
	}
	return language.English
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var ce *sim.ConfigurationError
	if errors.As(err, &ce) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ce.Error(), Field: ce.Field})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
