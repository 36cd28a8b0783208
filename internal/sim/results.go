package sim

import (
	"cmp"
	"io"
	"maps"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/peterkuimelis/tcgsim/internal/game"
)

// GameRecord is the outcome of one game of a batch. Player A is seat 0.
type GameRecord struct {
	Index   int              `json:"index"`
	Seed    uint64           `json:"seed"`
	Outcome game.GameOutcome `json:"outcome"`
	Turns   int              `json:"turns"`
	Actions int              `json:"actions"`
	First   int              `json:"first"`
}

// Results aggregates a batch. Every field is a sum or a count, so Merge is
// associative and commutative and parallel shards combine in any order.
type Results struct {
	Games   int `json:"games"` // games played, Skipped not included
	WinsA   int `json:"wins_a"`
	WinsB   int `json:"wins_b"`
	Ties    int `json:"ties"`
	Aborted int `json:"aborted"`
	Skipped int `json:"skipped"`

	TotalTurns      int `json:"total_turns"`
	FirstPlayerWins int `json:"first_player_wins"`

	AbortReasons map[string]int `json:"abort_reasons,omitempty"`
	Records      []GameRecord   `json:"records,omitempty"` // sorted by Index
}

func NewResults() *Results {
	return &Results{AbortReasons: make(map[string]int)}
}

// Add counts one finished game, keeping its record when keep is set.
func (r *Results) Add(rec GameRecord, keep bool) {
	r.Games++
	r.TotalTurns += rec.Turns
	switch rec.Outcome.Kind {
	case game.OutcomeTie:
		r.Ties++
	case game.OutcomeAborted:
		r.Aborted++
		if r.AbortReasons == nil {
			r.AbortReasons = make(map[string]int)
		}
		r.AbortReasons[rec.Outcome.Reason]++
	default:
		w, _ := rec.Outcome.Winner()
		if w == 0 {
			r.WinsA++
		} else {
			r.WinsB++
		}
		if w == rec.First {
			r.FirstPlayerWins++
		}
	}
	if keep {
		r.insert(rec)
	}
}

func (r *Results) insert(rec GameRecord) {
	i, _ := slices.BinarySearchFunc(r.Records, rec.Index, func(g GameRecord, idx int) int {
		return cmp.Compare(g.Index, idx)
	})
	r.Records = slices.Insert(r.Records, i, rec)
}

// Merge folds o into r.
func (r *Results) Merge(o *Results) {
	r.Games += o.Games
	r.WinsA += o.WinsA
	r.WinsB += o.WinsB
	r.Ties += o.Ties
	r.Aborted += o.Aborted
	r.Skipped += o.Skipped
	r.TotalTurns += o.TotalTurns
	r.FirstPlayerWins += o.FirstPlayerWins
	if len(o.AbortReasons) > 0 && r.AbortReasons == nil {
		r.AbortReasons = make(map[string]int)
	}
	for reason, n := range o.AbortReasons {
		r.AbortReasons[reason] += n
	}
	for _, rec := range o.Records {
		r.insert(rec)
	}
}

func (r *Results) WinRateA() float64 { return r.rate(r.WinsA) }
func (r *Results) WinRateB() float64 { return r.rate(r.WinsB) }
func (r *Results) TieRate() float64  { return r.rate(r.Ties) }

// AvgTurns is the mean length of the played games.
func (r *Results) AvgTurns() float64 {
	return r.rate(r.TotalTurns)
}

func (r *Results) rate(n int) float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(n) / float64(r.Games)
}

type reportLine struct {
	format string
	args   []any
}

// Report writes a plain-text summary with numbers formatted for lang.
func (r *Results) Report(w io.Writer, lang language.Tag, nameA, nameB string) error {
	p := message.NewPrinter(lang)
	lines := []reportLine{
		{"Games played: %d\n", []any{r.Games}},
		{"  %s wins: %d (%.1f%%)\n", []any{nameA, r.WinsA, 100 * r.WinRateA()}},
		{"  %s wins: %d (%.1f%%)\n", []any{nameB, r.WinsB, 100 * r.WinRateB()}},
		{"  Ties: %d (%.1f%%)\n", []any{r.Ties, 100 * r.TieRate()}},
		{"  Aborted: %d\n", []any{r.Aborted}},
		{"  Going first won: %d\n", []any{r.FirstPlayerWins}},
		{"Average turns: %.2f\n", []any{r.AvgTurns()}},
	}
	if r.Skipped > 0 {
		lines = append(lines, reportLine{"Skipped (timeout): %d\n", []any{r.Skipped}})
	}
	for _, reason := range slices.Sorted(maps.Keys(r.AbortReasons)) {
		lines = append(lines, reportLine{"  aborted %dx: %s\n", []any{r.AbortReasons[reason], reason}})
	}
	for _, l := range lines {
		if _, err := p.Fprintf(w, l.format, l.args...); err != nil {
			return err
		}
	}
	return nil
}
