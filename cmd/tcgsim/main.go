package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/peterkuimelis/tcgsim/internal/config"
	"github.com/peterkuimelis/tcgsim/internal/game"
	"github.com/peterkuimelis/tcgsim/internal/log"
	"github.com/peterkuimelis/tcgsim/internal/player"
	"github.com/peterkuimelis/tcgsim/internal/sim"
	"github.com/peterkuimelis/tcgsim/internal/view"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	defaults, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	cmd := os.Args[1]
	switch cmd {
	case "simulate":
		runSimulate(defaults, os.Args[2:])
	case "play":
		runPlay(defaults, os.Args[2:])
	case "players":
		runPlayers()
	case "cards":
		runCards(defaults, os.Args[2:])
	case "decks":
		runDecks(defaults, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  tcgsim simulate [--deck-a D] [--deck-b D] [--a TYPE] [--b TYPE] [--games N] [--seed S] [--parallel P] [--timeout T]")
	fmt.Println("  tcgsim play     [--deck-a D] [--deck-b D] [--a TYPE] [--b TYPE] [--seed S]")
	fmt.Println("  tcgsim players")
	fmt.Println("  tcgsim cards    [--category C]")
	fmt.Println("  tcgsim decks")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  simulate  Play a batch of games and report win rates")
	fmt.Println("  play      Play one game and print its event log")
	fmt.Println("  players   List the player types")
	fmt.Println("  cards     List the card catalog")
	fmt.Println("  decks     List the available decks")
	fmt.Println()
	fmt.Println("Decks are given by name or 1-based number. --decks and --catalog read YAML files;")
	fmt.Println("TCGSIM_* environment variables set the defaults.")
}

// dataFlags registers the flags that select the card data.
func dataFlags(fs *flag.FlagSet, d config.Defaults) (decks, catalog *string) {
	decks = fs.String("decks", d.Decks, "path to decks YAML file (built-in decks if empty)")
	catalog = fs.String("catalog", d.Catalog, "path to catalog YAML file (built-in catalog if empty)")
	return decks, catalog
}

func loadData(decks, catalog string) *config.Data {
	data, err := config.LoadData(catalog, decks)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	return data
}

func deck(data *config.Data, ref string) *game.Deck {
	d, err := data.Deck(ref)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	return d
}

func runSimulate(d config.Defaults, args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	decks, catalog := dataFlags(fs, d)
	deckA := fs.String("deck-a", "1", "deck for player A")
	deckB := fs.String("deck-b", "2", "deck for player B")
	a := fs.String("a", "random", "player type for A")
	b := fs.String("b", "heuristic", "player type for B")
	games := fs.Int("games", d.Games, "number of games")
	seed := fs.Uint64("seed", d.Seed, "batch seed")
	parallel := fs.Int("parallel", d.Parallelism, "games played at once (0 = number of CPUs)")
	timeout := fs.Duration("timeout", d.Timeout, "stop starting new games after this long (0 = no limit)")
	lang := fs.String("lang", d.Lang, "language for number formatting in the report")
	asJSON := fs.Bool("json", false, "print the results as JSON")
	records := fs.Bool("records", false, "include one record per game (with --json)")
	progress := fs.Bool("progress", false, "report progress on stderr")
	fs.Parse(args)

	data := loadData(*decks, *catalog)
	cfg := sim.Config{
		DeckA:       deck(data, *deckA),
		DeckB:       deck(data, *deckB),
		StrategyA:   *a,
		StrategyB:   *b,
		NumGames:    *games,
		Seed:        *seed,
		Parallelism: *parallel,
		Timeout:     *timeout,
		Rules:       data.Rules,
		KeepGames:   *records,
	}
	if *progress {
		cfg.Progress = func(done, total int) {
			fmt.Fprintf(os.Stderr, "\r%d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := sim.Simulate(ctx, cfg)
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			config.Exitf("Error: %v", err)
		}
		return
	}
	fmt.Printf("%s (%s) vs %s (%s), seed %d\n", cfg.DeckA.Name, *a, cfg.DeckB.Name, *b, *seed)
	nameA, nameB := *a+" (A)", *b+" (B)"
	if err := res.Report(os.Stdout, config.Language(*lang), nameA, nameB); err != nil {
		config.Exitf("Error: %v", err)
	}
}

func runPlay(d config.Defaults, args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	decks, catalog := dataFlags(fs, d)
	deckA := fs.String("deck-a", "1", "deck for player A")
	deckB := fs.String("deck-b", "2", "deck for player B")
	a := fs.String("a", "heuristic", "player type for A")
	b := fs.String("b", "heuristic", "player type for B")
	seed := fs.Uint64("seed", d.Seed, "game seed")
	fs.Parse(args)

	data := loadData(*decks, *catalog)
	sa, err := player.New(*a, *seed^1)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	sb, err := player.New(*b, *seed^2)
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	g := game.NewGame(game.GameConfig{
		DeckA:  deck(data, *deckA),
		DeckB:  deck(data, *deckB),
		Rules:  data.Rules,
		Seed:   *seed,
		Logger: log.NewTextLogger(os.Stdout),
	}, sa, sb)
	out := g.Run()
	fmt.Printf("\n%s after %d turns and %d actions\n", out, g.State.Turn, g.Actions())
}

func runPlayers() {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, info := range player.Describe() {
		fmt.Fprintf(w, "%s\t%s\n", info.ID, info.Description)
	}
	w.Flush()
}

func runCards(d config.Defaults, args []string) {
	fs := flag.NewFlagSet("cards", flag.ExitOnError)
	decks, catalog := dataFlags(fs, d)
	category := fs.String("category", "", "only cards of this category (pokemon or trainer)")
	fs.Parse(args)

	data := loadData(*decks, *catalog)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, c := range view.Cards(data.Catalog) {
		if *category != "" && !strings.EqualFold(c.Category, *category) {
			continue
		}
		switch c.Category {
		case "Pokemon":
			var attacks []string
			for _, atk := range c.Attacks {
				attacks = append(attacks, fmt.Sprintf("%s %v %d", atk.Name, atk.Cost, atk.Damage))
			}
			fmt.Fprintf(w, "%s\t%s\t%s %s\t%d HP\t%s\n", c.ID, c.Name, c.Type, c.Stage, c.HP, strings.Join(attacks, "; "))
		default:
			fmt.Fprintf(w, "%s\t%s\t%s\t\t%s\n", c.ID, c.Name, c.TrainerKind, c.Description)
		}
	}
	w.Flush()
}

func runDecks(d config.Defaults, args []string) {
	fs := flag.NewFlagSet("decks", flag.ExitOnError)
	decks, catalog := dataFlags(fs, d)
	fs.Parse(args)

	data := loadData(*decks, *catalog)
	for _, dv := range view.Decks(data.Decks) {
		fmt.Printf("%d. %s [%s]\n", dv.Number, dv.Name, strings.Join(dv.Energy, ", "))
		for _, c := range dv.Cards {
			fmt.Printf("   %dx %s\n", c.Count, c.Name)
		}
	}
}
